package glquad

import (
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// uniformCacheSize bounds the number of cached uniform locations per program.
const uniformCacheSize = 32

// ProgramStatus tracks how far a program got through linking.
type ProgramStatus uint8

const (
	Unlinked ProgramStatus = iota
	Linked
	Validated
	Invalid
)

func (s ProgramStatus) String() string {
	switch s {
	case Unlinked:
		return "unlinked"
	case Linked:
		return "linked"
	case Validated:
		return "validated"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Program is a linked shader program with a lazily filled uniform location
// cache.
type Program struct {
	Handle uint32
	Status ProgramStatus

	gl       GL
	probe    *Probe
	uniforms *lru.Cache[string, int32]
}

func newProgram(gl GL, probe *Probe, handle uint32) *Program {
	cache, _ := lru.New[string, int32](uniformCacheSize)
	return &Program{Handle: handle, gl: gl, probe: probe, uniforms: cache}
}

// Uniform returns the location of the named uniform. The driver is queried
// once per name; absent names (location -1) are cached too and reported as
// ErrUniformNotFound.
func (p *Program) Uniform(name string) (int32, error) {
	if p.Status == Unlinked || p.Status == Invalid {
		return -1, fmt.Errorf("uniform %q: program is %s: %w", name, p.Status, ErrNotDrawable)
	}

	loc, ok := p.uniforms.Get(name)
	if !ok {
		if err := p.probe.Do("glGetUniformLocation", func() { loc = p.gl.GetUniformLocation(p.Handle, name) }); err != nil {
			return -1, err
		}
		p.uniforms.Add(name, loc)
	}
	if loc < 0 {
		return -1, fmt.Errorf("%w: %q", ErrUniformNotFound, name)
	}
	return loc, nil
}

// RequireUniforms resolves every name and fails on the first one that is
// missing from the linked program. Locations are returned in the order of
// names.
func (p *Program) RequireUniforms(names ...string) ([]int32, error) {
	locs := make([]int32, len(names))
	for i, name := range names {
		loc, err := p.Uniform(name)
		if err != nil {
			return nil, err
		}
		locs[i] = loc
	}
	return locs, nil
}

// Use makes the program current.
func (p *Program) Use() error {
	return p.probe.Do("glUseProgram", func() { p.gl.UseProgram(p.Handle) })
}

// SetColor sets a vec4 uniform. The program must be current.
func (p *Program) SetColor(location int32, c Color) error {
	return p.probe.Do("glUniform4f", func() { p.gl.Uniform4f(location, c.R, c.G, c.B, c.A) })
}

// Delete releases the program object. It is safe to call more than once.
func (p *Program) Delete() error {
	if p.Handle == 0 {
		return nil
	}
	err := p.probe.Do("glDeleteProgram", func() { p.gl.DeleteProgram(p.Handle) })
	p.Handle = 0
	p.Status = Invalid
	p.uniforms.Purge()
	return err
}

// Linker builds programs out of a vertex and a fragment stage.
type Linker struct {
	gl       GL
	probe    *Probe
	compiler *Compiler
	logger   *slog.Logger
}

// NewLinker creates a linker. A nil logger uses slog.Default().
func NewLinker(gl GL, probe *Probe, logger *slog.Logger) *Linker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Linker{
		gl:       gl,
		probe:    probe,
		compiler: NewCompiler(gl, probe, logger),
		logger:   logger,
	}
}

// BuildSources builds a program from loaded sources.
func (l *Linker) BuildSources(vertex, fragment ShaderSource) (*Program, error) {
	if vertex.Kind != VertexStage || fragment.Kind != FragmentStage {
		return nil, fmt.Errorf("build program: got %s and %s sources: %w", vertex.Kind, fragment.Kind, ErrLinkAborted)
	}
	return l.Build(vertex.Text, fragment.Text)
}

// Build compiles both stages, links and validates the program.
//
// Both stages are always compiled so that both diagnostics surface. If
// either fails, nothing is attached and a *LinkAbortedError is returned.
// Stage objects are deleted once link and validation are done, whatever
// their outcome.
func (l *Linker) Build(vertex, fragment string) (*Program, error) {
	var handle uint32
	if err := l.probe.Do("glCreateProgram", func() { handle = l.gl.CreateProgram() }); err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	if handle == 0 {
		return nil, fmt.Errorf("failed to create program: %w", ErrGraphicsAPI)
	}
	p := newProgram(l.gl, l.probe, handle)

	vs, vErr := l.compiler.Compile(VertexStage, vertex)
	fs, fErr := l.compiler.Compile(FragmentStage, fragment)
	if vErr != nil || fErr != nil {
		return nil, errors.Join(
			abortError(vErr, fErr),
			l.compiler.Delete(vs),
			l.compiler.Delete(fs),
			p.Delete(),
		)
	}

	err := l.link(p, vs, fs)
	if relErr := l.release(p, vs, fs); err == nil {
		err = relErr
	}
	if err != nil {
		return nil, errors.Join(err, p.Delete())
	}

	l.logger.Debug("shader program built", slog.Any("program", p.Handle))
	return p, nil
}

func (l *Linker) link(p *Program, stages ...*Stage) error {
	for _, s := range stages {
		if err := l.probe.Do("glAttachShader", func() { l.gl.AttachShader(p.Handle, s.Handle) }); err != nil {
			return err
		}
	}

	if err := l.probe.Do("glLinkProgram", func() { l.gl.LinkProgram(p.Handle) }); err != nil {
		return err
	}
	if err := l.checkStatus(p, LINK_STATUS, "link"); err != nil {
		return err
	}
	p.Status = Linked

	if err := l.probe.Do("glValidateProgram", func() { l.gl.ValidateProgram(p.Handle) }); err != nil {
		return err
	}
	if err := l.checkStatus(p, VALIDATE_STATUS, "validate"); err != nil {
		return err
	}
	p.Status = Validated
	return nil
}

func (l *Linker) checkStatus(p *Program, pname uint32, op string) error {
	var status int32
	if err := l.probe.Do("glGetProgramiv", func() { status = l.gl.GetProgramiv(p.Handle, pname) }); err != nil {
		return err
	}
	if status != FALSE {
		return nil
	}

	var length int32
	if err := l.probe.Do("glGetProgramiv(GL_INFO_LOG_LENGTH)", func() { length = l.gl.GetProgramiv(p.Handle, INFO_LOG_LENGTH) }); err != nil {
		return err
	}
	var infoLog string
	if length > 0 {
		buf := make([]byte, length)
		var n int32
		if err := l.probe.Do("glGetProgramInfoLog", func() { n = l.gl.GetProgramInfoLog(p.Handle, buf) }); err != nil {
			return err
		}
		infoLog = trimLog(buf, n)
	}

	p.Status = Invalid
	l.logger.Error("shader program "+op+" failed", slog.String("log", infoLog))
	return &LinkError{Op: op, Log: infoLog}
}

// release detaches and deletes the stages. Every stage is attempted.
func (l *Linker) release(p *Program, stages ...*Stage) error {
	var errs []error
	for _, s := range stages {
		errs = append(errs, l.probe.Do("glDetachShader", func() { l.gl.DetachShader(p.Handle, s.Handle) }))
		errs = append(errs, l.compiler.Delete(s))
	}
	return errors.Join(errs...)
}

// abortError folds stage failures into a *LinkAbortedError. A graphics API
// error takes precedence since it leaves the context in doubt.
func abortError(errs ...error) error {
	var failures []*CompileError
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ce *CompileError
		if errors.Is(err, ErrGraphicsAPI) || !errors.As(err, &ce) {
			return err
		}
		failures = append(failures, ce)
	}
	return &LinkAbortedError{Failures: failures}
}
