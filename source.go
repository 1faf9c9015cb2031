package glquad

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ShaderSource is the text of one shader stage as read from storage.
type ShaderSource struct {
	Kind StageKind
	Path string
	Text string
}

// LoadSource reads a shader file from the local filesystem.
func LoadSource(path string, kind StageKind) (ShaderSource, error) {
	b, err := os.ReadFile(path)
	return newSource(path, kind, b, err)
}

// LoadSourceFS reads a shader file from fsys.
func LoadSourceFS(fsys fs.FS, path string, kind StageKind) (ShaderSource, error) {
	b, err := fs.ReadFile(fsys, path)
	return newSource(path, kind, b, err)
}

func newSource(path string, kind StageKind, b []byte, err error) (ShaderSource, error) {
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ShaderSource{}, fmt.Errorf("load %s shader %q: %w: %w", kind, path, ErrSourceNotFound, err)
		}
		return ShaderSource{}, fmt.Errorf("load %s shader %q: %w: %w", kind, path, ErrSourceIO, err)
	}
	if len(b) == 0 {
		return ShaderSource{}, fmt.Errorf("load %s shader %q: %w", kind, path, ErrSourceEmpty)
	}
	return ShaderSource{Kind: kind, Path: path, Text: joinLines(string(b))}, nil
}

// joinLines rebuilds text so that every line, including the last one, ends
// with a single '\n'. CRLF line endings are folded.
func joinLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")

	var sb strings.Builder
	sb.Grow(len(text) + 1)
	for line := range strings.SplitSeq(text, "\n") {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
