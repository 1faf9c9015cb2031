package glquad

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
)

// Default settings, matching the shaders shipped in example/res/shaders.
const (
	DefaultVertexPath   = "res/shaders/Basic.vertex"
	DefaultFragmentPath = "res/shaders/Basic.fragment"
	DefaultUniform      = "u_Color"
)

// DefaultBaseColor supplies the fixed channels of the animated color. Red is
// overwritten every frame.
var DefaultBaseColor = Color{R: 0, G: 0.3, B: 0.8, A: 1}

// Harness runs the quad demo on top of a GL context. The host calls OnInit
// once, RenderFrame for every frame, and OnTeardown once. A Harness must only
// be used from the thread owning the context.
type Harness struct {
	gl     GL
	logger *slog.Logger
	probe  *Probe
	linker *Linker

	vertexPath   string
	fragmentPath string
	fsys         fs.FS
	uniform      string
	base         Color
	mesh         Mesh
	anim         AnimationState

	res         *Resources
	driver      *FrameDriver
	initialized bool
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger used by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// WithShaderPaths sets the vertex and fragment shader files.
func WithShaderPaths(vertex, fragment string) Option {
	return func(h *Harness) {
		h.vertexPath = vertex
		h.fragmentPath = fragment
	}
}

// WithShaderFS reads shader files from fsys instead of the OS filesystem.
func WithShaderFS(fsys fs.FS) Option {
	return func(h *Harness) { h.fsys = fsys }
}

// WithUniform sets the name of the vec4 color uniform.
func WithUniform(name string) Option {
	return func(h *Harness) { h.uniform = name }
}

// WithBaseColor sets the fixed green, blue and alpha channels.
func WithBaseColor(c Color) Option {
	return func(h *Harness) {
		h.base = Color{
			R: clampf(c.R, 0, 1),
			G: clampf(c.G, 0, 1),
			B: clampf(c.B, 0, 1),
			A: clampf(c.A, 0, 1),
		}
	}
}

// WithMesh replaces the default quad.
func WithMesh(m Mesh) Option {
	return func(h *Harness) { h.mesh = m }
}

// WithAnimation sets the initial animation state.
func WithAnimation(a AnimationState) Option {
	return func(h *Harness) { h.anim = a }
}

// New creates a Harness for the given context.
func New(gl GL, opts ...Option) *Harness {
	h := &Harness{
		gl:           gl,
		logger:       slog.Default(),
		vertexPath:   DefaultVertexPath,
		fragmentPath: DefaultFragmentPath,
		uniform:      DefaultUniform,
		base:         DefaultBaseColor,
		mesh:         QuadMesh(0.5),
		anim:         NewAnimation(),
	}

	for _, opt := range opts {
		opt(h)
	}

	h.probe = NewProbe(gl, h.logger)
	h.linker = NewLinker(gl, h.probe, h.logger)
	return h
}

// Initialized reports whether OnInit completed.
func (h *Harness) Initialized() bool {
	return h.initialized
}

// Resources returns the GPU objects, or nil before OnInit.
func (h *Harness) Resources() *Resources {
	return h.res
}

// Animation returns the current animation state.
func (h *Harness) Animation() AnimationState {
	if h.driver == nil {
		return h.anim
	}
	return h.driver.Animation()
}

// Frames returns the number of frames drawn since OnInit.
func (h *Harness) Frames() uint64 {
	if h.driver == nil {
		return 0
	}
	return h.driver.Frames()
}

// OnInit loads and builds the shaders and uploads the geometry. On failure
// everything created so far is released and the harness stays
// uninitialized, so OnInit may be retried.
func (h *Harness) OnInit() (err error) {
	if h.initialized {
		return ErrAlreadyInitialized
	}

	var version string
	if err := h.probe.Do("glGetString(GL_VERSION)", func() { version = h.gl.GetString(VERSION) }); err != nil {
		return err
	}
	h.logger.Info("OpenGL context", slog.String("version", version))

	vert, frag, err := h.loadSources(h.vertexPath, h.fragmentPath)
	if err != nil {
		return err
	}

	program, err := h.linker.BuildSources(vert, frag)
	if err != nil {
		return fmt.Errorf("failed to create shader: %w", err)
	}

	res := NewResources(h.gl, h.probe, h.logger)
	defer func() {
		if err != nil {
			err = errors.Join(err, res.Release())
		}
	}()
	res.Program = program

	if err := program.Use(); err != nil {
		return err
	}
	locs, err := program.RequireUniforms(h.uniform)
	if err != nil {
		return err
	}
	if err := res.Create(h.mesh, program); err != nil {
		return err
	}

	h.res = res
	h.driver = NewFrameDriver(h.gl, h.probe, h.logger, res, locs[0], h.base, h.anim)
	h.initialized = true
	h.logger.Info("harness initialized",
		slog.String("vertex", vert.Path),
		slog.String("fragment", frag.Path),
		slog.Int("indices", res.IBO.Count),
	)
	return nil
}

// RenderFrame draws one frame.
func (h *Harness) RenderFrame() error {
	if !h.initialized {
		return ErrNotInitialized
	}
	return h.driver.RenderFrame()
}

// Reload rebuilds the program from the configured shader files.
func (h *Harness) Reload() error {
	if !h.initialized {
		return ErrNotInitialized
	}
	vert, frag, err := h.loadSources(h.vertexPath, h.fragmentPath)
	if err != nil {
		h.logger.Warn("shader reload skipped", slog.Any("error", err))
		return err
	}
	return h.ReloadSources(vert, frag)
}

// ReloadSources builds a new program and swaps it in. If the build fails the
// current program stays in use.
func (h *Harness) ReloadSources(vert, frag ShaderSource) error {
	if !h.initialized {
		return ErrNotInitialized
	}

	program, err := h.linker.BuildSources(vert, frag)
	if err != nil {
		h.logger.Warn("shader reload failed, keeping current program", slog.Any("error", err))
		return err
	}
	locs, err := program.RequireUniforms(h.uniform)
	if err != nil {
		err = errors.Join(err, program.Delete())
		h.logger.Warn("shader reload failed, keeping current program", slog.Any("error", err))
		return err
	}

	// The new program is installed even if deleting the old one fails, so
	// the location has to follow it either way.
	err = h.res.SwapProgram(program)
	h.driver.SetUniformLocation(locs[0])
	if err != nil {
		return fmt.Errorf("delete previous program: %w", err)
	}
	h.logger.Info("shader program reloaded", slog.Any("program", program.Handle))
	return nil
}

// OnTeardown releases every GPU object. Further frames fail with
// ErrNotInitialized.
func (h *Harness) OnTeardown() error {
	if !h.initialized {
		return nil
	}
	h.anim = h.driver.Animation()
	err := h.res.Release()
	h.res = nil
	h.driver = nil
	h.initialized = false
	return err
}

func (h *Harness) loadSources(vertexPath, fragmentPath string) (vert, frag ShaderSource, err error) {
	load := LoadSource
	if h.fsys != nil {
		load = func(path string, kind StageKind) (ShaderSource, error) {
			return LoadSourceFS(h.fsys, path, kind)
		}
	}

	vert, err = load(vertexPath, VertexStage)
	if err != nil {
		return vert, frag, err
	}
	frag, err = load(fragmentPath, FragmentStage)
	return vert, frag, err
}
