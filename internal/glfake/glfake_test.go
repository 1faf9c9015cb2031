package glfake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-theft-auto/glquad"
)

func TestCheckSyntax(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"valid", "#version 330 core\nvoid main() { }\n", ""},
		{"no version", "void main() { }", "no #version"},
		{"no main", "#version 330 core\n", "main function not found"},
		{"unclosed", "#version 330 core\nvoid main() {\n", "unexpected end of file"},
		{"stray brace", "#version 330 core\nvoid main() { }\n}\n", "unexpected '}'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkSyntax(tt.text)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestErrorQueue(t *testing.T) {
	g := New()
	assert.Equal(t, uint32(glquad.NO_ERROR), g.GetError())

	g.PushError(glquad.INVALID_ENUM)
	g.BindVertexArray(42)
	assert.Equal(t, uint32(glquad.INVALID_ENUM), g.GetError())
	assert.Equal(t, uint32(glquad.INVALID_OPERATION), g.GetError())
	assert.Equal(t, uint32(glquad.NO_ERROR), g.GetError())
}

func TestFailOn(t *testing.T) {
	g := New()
	g.FailOn("GenBuffer", 2, glquad.OUT_OF_MEMORY)

	assert.NotZero(t, g.GenBuffer())
	assert.Zero(t, g.GenBuffer())
	assert.Equal(t, uint32(glquad.OUT_OF_MEMORY), g.GetError())
	assert.NotZero(t, g.GenBuffer())
	assert.Equal(t, 3, g.Count("GenBuffer"))
	assert.Equal(t, 2, g.Live())
}

func TestCopyLog(t *testing.T) {
	buf := make([]byte, 4)
	n := copyLog(buf, "abcdef")
	assert.Equal(t, int32(3), n)
	assert.Equal(t, []byte("abc\x00"), buf)

	assert.Zero(t, copyLog(nil, "abc"))
}

func TestViewportAndReadPixels(t *testing.T) {
	g := New()
	g.Viewport(0, 0, 4, 2)
	assert.Equal(t, [4]int32{0, 0, 4, 2}, g.ViewportRect())

	g.Viewport(0, 0, -1, 2)
	assert.Equal(t, uint32(glquad.INVALID_VALUE), g.GetError())

	g.ClearColor(0, 1, 0, 1)
	buf := make([]byte, 4*2*4)
	g.ReadPixels(0, 0, 4, 2, buf)
	assert.Equal(t, uint32(glquad.NO_ERROR), g.GetError())
	assert.Equal(t, []byte{0, 255, 0, 255}, buf[len(buf)-4:])

	g.ReadPixels(0, 0, 4, 2, buf[:8])
	assert.Equal(t, uint32(glquad.INVALID_VALUE), g.GetError())
}
