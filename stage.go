package glquad

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
)

// Stage is a successfully compiled shader object. It is only valid until
// the program it is linked into has been built.
type Stage struct {
	Kind   StageKind
	Handle uint32
}

// Compiler compiles individual shader stages.
type Compiler struct {
	gl     GL
	probe  *Probe
	logger *slog.Logger
}

// NewCompiler creates a stage compiler. A nil logger uses slog.Default().
func NewCompiler(gl GL, probe *Probe, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{gl: gl, probe: probe, logger: logger}
}

// Compile creates a shader object of the given kind and compiles text into
// it. When the driver rejects the source, the info log is logged verbatim,
// the shader object is deleted and a *CompileError is returned.
func (c *Compiler) Compile(kind StageKind, text string) (*Stage, error) {
	var handle uint32
	if err := c.probe.Do("glCreateShader", func() { handle = c.gl.CreateShader(kind.glType()) }); err != nil {
		return nil, err
	}
	if handle == 0 {
		return nil, fmt.Errorf("create %s shader: %w", kind, ErrGraphicsAPI)
	}

	if err := c.probe.Do("glShaderSource", func() { c.gl.ShaderSource(handle, text) }); err != nil {
		return nil, errors.Join(err, c.discard(handle))
	}
	if err := c.probe.Do("glCompileShader", func() { c.gl.CompileShader(handle) }); err != nil {
		return nil, errors.Join(err, c.discard(handle))
	}

	var status int32
	if err := c.probe.Do("glGetShaderiv(GL_COMPILE_STATUS)", func() { status = c.gl.GetShaderiv(handle, COMPILE_STATUS) }); err != nil {
		return nil, errors.Join(err, c.discard(handle))
	}
	if status != FALSE {
		return &Stage{Kind: kind, Handle: handle}, nil
	}

	infoLog, err := c.infoLog(handle)
	if err != nil {
		return nil, errors.Join(err, c.discard(handle))
	}

	c.logger.Error("failed to compile shader", slog.String("stage", kind.String()), slog.String("log", infoLog))
	ce := &CompileError{Kind: kind, Log: infoLog}
	if err := c.discard(handle); err != nil {
		return nil, errors.Join(ce, err)
	}
	return nil, ce
}

// Delete releases the shader object.
func (c *Compiler) Delete(s *Stage) error {
	if s == nil || s.Handle == 0 {
		return nil
	}
	err := c.probe.Do("glDeleteShader", func() { c.gl.DeleteShader(s.Handle) })
	s.Handle = 0
	return err
}

func (c *Compiler) infoLog(handle uint32) (string, error) {
	var length int32
	if err := c.probe.Do("glGetShaderiv(GL_INFO_LOG_LENGTH)", func() { length = c.gl.GetShaderiv(handle, INFO_LOG_LENGTH) }); err != nil {
		return "", err
	}
	if length <= 0 {
		return "", nil
	}

	buf := make([]byte, length)
	var n int32
	if err := c.probe.Do("glGetShaderInfoLog", func() { n = c.gl.GetShaderInfoLog(handle, buf) }); err != nil {
		return "", err
	}
	return trimLog(buf, n), nil
}

// discard deletes a shader object that will not be returned to the caller.
func (c *Compiler) discard(handle uint32) error {
	return c.probe.Do("glDeleteShader", func() { c.gl.DeleteShader(handle) })
}

// trimLog returns the first n bytes of an info log buffer, cut at the first
// NUL.
func trimLog(buf []byte, n int32) string {
	if n >= 0 && int(n) < len(buf) {
		buf = buf[:n]
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}
