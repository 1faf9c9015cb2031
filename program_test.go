package glquad_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/glquad"
	"github.com/go-theft-auto/glquad/internal/glfake"
)

func newLinker(gl glquad.GL) *glquad.Linker {
	return glquad.NewLinker(gl, glquad.NewProbe(gl, quietLogger()), quietLogger())
}

func TestBuildProgram(t *testing.T) {
	gl := glfake.New()

	p, err := newLinker(gl).Build(vertexSource, fragmentSource)
	require.NoError(t, err)
	assert.Equal(t, glquad.Validated, p.Status)
	assert.True(t, gl.ProgramLive(p.Handle))

	// Only the program survives the build.
	assert.Equal(t, 1, gl.Live())
	assert.Equal(t, 2, gl.Count("AttachShader"))
	assert.Equal(t, 2, gl.Count("DeleteShader"))
}

func TestBuildReleasesStagesAfterLink(t *testing.T) {
	gl := glfake.New()

	_, err := newLinker(gl).Build(vertexSource, fragmentSource)
	require.NoError(t, err)

	names := gl.Names()
	link := slices.Index(names, "LinkProgram")
	validate := slices.Index(names, "ValidateProgram")
	firstDelete := slices.Index(names, "DeleteShader")
	lastAttach := -1
	for i, name := range names {
		if name == "AttachShader" {
			lastAttach = i
		}
	}

	require.NotEqual(t, -1, lastAttach)
	assert.Less(t, lastAttach, link)
	assert.Less(t, link, validate)
	assert.Less(t, validate, firstDelete)
}

func TestBuildTwiceIsIndependent(t *testing.T) {
	gl := glfake.New()
	l := newLinker(gl)

	a, err := l.Build(vertexSource, twoUniformFragment)
	require.NoError(t, err)
	b, err := l.Build(vertexSource, twoUniformFragment)
	require.NoError(t, err)

	assert.NotEqual(t, a.Handle, b.Handle)

	locA, err := a.Uniform("u_Color")
	require.NoError(t, err)
	locB, err := b.Uniform("u_Color")
	require.NoError(t, err)
	assert.Equal(t, locA, locB)

	require.NoError(t, a.Delete())
	assert.True(t, gl.ProgramLive(b.Handle))
}

func TestProgramUniform(t *testing.T) {
	gl := glfake.New()
	p, err := newLinker(gl).Build(vertexSource, twoUniformFragment)
	require.NoError(t, err)

	loc, err := p.Uniform("u_Color")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, loc, int32(0))

	_, err = p.Uniform("u_Missing")
	assert.ErrorIs(t, err, glquad.ErrUniformNotFound)
	assert.Contains(t, err.Error(), "u_Missing")

	locs, err := p.RequireUniforms("u_Color", "u_Tint")
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 0}, locs, "locations follow declaration order, results follow argument order")

	locs, err = p.RequireUniforms("u_Color", "u_Missing")
	assert.ErrorIs(t, err, glquad.ErrUniformNotFound)
	assert.Nil(t, locs)
}

func TestProgramUniformIsCached(t *testing.T) {
	gl := glfake.New()
	p, err := newLinker(gl).Build(vertexSource, fragmentSource)
	require.NoError(t, err)

	for range 3 {
		_, err := p.Uniform("u_Color")
		require.NoError(t, err)
		_, err = p.Uniform("u_Missing")
		require.Error(t, err)
	}

	assert.Equal(t, 2, gl.Count("GetUniformLocation"))
}

func TestBuildAbortsOnCompileFailure(t *testing.T) {
	gl := glfake.New()

	p, err := newLinker(gl).Build(vertexSource, brokenFragment)
	require.Error(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, glquad.ErrLinkAborted)
	assert.ErrorIs(t, err, glquad.ErrCompile)

	var aborted *glquad.LinkAbortedError
	require.ErrorAs(t, err, &aborted)
	require.Len(t, aborted.Failures, 1)
	assert.Equal(t, glquad.FragmentStage, aborted.Failures[0].Kind)
	assert.NotEmpty(t, aborted.Failures[0].Log)

	// Nothing was attached and nothing leaked.
	assert.Zero(t, gl.Count("AttachShader"))
	assert.Zero(t, gl.Count("LinkProgram"))
	assert.Zero(t, gl.Live())
}

func TestBuildReportsBothCompileFailures(t *testing.T) {
	gl := glfake.New()

	_, err := newLinker(gl).Build("void main() {", brokenFragment)

	var aborted *glquad.LinkAbortedError
	require.ErrorAs(t, err, &aborted)
	require.Len(t, aborted.Failures, 2)
	assert.Equal(t, glquad.VertexStage, aborted.Failures[0].Kind)
	assert.Equal(t, glquad.FragmentStage, aborted.Failures[1].Kind)
	assert.Contains(t, err.Error(), "vertex, fragment")
	assert.Equal(t, 2, gl.Count("CompileShader"))
}

func TestBuildLinkFailure(t *testing.T) {
	gl := glfake.New()

	p, err := newLinker(gl).Build(vertexSource, unlinkableFragment)
	require.Error(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, glquad.ErrLink)

	var le *glquad.LinkError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "link", le.Op)
	assert.Contains(t, le.Log, "v_TexCoord")

	assert.Zero(t, gl.Count("ValidateProgram"))
	assert.Zero(t, gl.Live(), "stages and program are released after a failed link")
}

func TestBuildSourcesChecksKinds(t *testing.T) {
	gl := glfake.New()
	vs := glquad.ShaderSource{Kind: glquad.VertexStage, Text: vertexSource}
	fs := glquad.ShaderSource{Kind: glquad.FragmentStage, Text: fragmentSource}

	_, err := newLinker(gl).BuildSources(fs, vs)
	assert.ErrorIs(t, err, glquad.ErrLinkAborted)

	p, err := newLinker(gl).BuildSources(vs, fs)
	require.NoError(t, err)
	assert.Equal(t, glquad.Validated, p.Status)
}

func TestProgramDelete(t *testing.T) {
	gl := glfake.New()
	p, err := newLinker(gl).Build(vertexSource, fragmentSource)
	require.NoError(t, err)
	handle := p.Handle

	require.NoError(t, p.Delete())
	assert.False(t, gl.ProgramLive(handle))
	assert.Equal(t, glquad.Invalid, p.Status)

	require.NoError(t, p.Delete())
	assert.Equal(t, 1, gl.Count("DeleteProgram"))

	_, err = p.Uniform("u_Color")
	assert.ErrorIs(t, err, glquad.ErrNotDrawable)
}

func TestBuildAbortReportsCleanupErrors(t *testing.T) {
	gl := glfake.New()
	// The first DeleteShader frees the rejected fragment stage, the second
	// the vertex stage left over from the aborted build.
	gl.FailOn("DeleteShader", 2, glquad.INVALID_OPERATION)

	p, err := newLinker(gl).Build(vertexSource, brokenFragment)
	require.Error(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, glquad.ErrLinkAborted)
	assert.ErrorIs(t, err, glquad.ErrGraphicsAPI)

	var apiErr *glquad.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "glDeleteShader", apiErr.Call)
}

func TestBuildAbortsOnStageCleanupError(t *testing.T) {
	gl := glfake.New()
	// Freeing the rejected fragment stage fails.
	gl.FailOn("DeleteShader", 1, glquad.INVALID_OPERATION)

	_, err := newLinker(gl).Build(vertexSource, brokenFragment)
	require.Error(t, err)
	assert.ErrorIs(t, err, glquad.ErrGraphicsAPI)
	assert.ErrorIs(t, err, glquad.ErrCompile)
	assert.Zero(t, gl.Count("LinkProgram"))
}
