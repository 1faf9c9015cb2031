package glquad

import (
	"errors"
	"fmt"
	"log/slog"
)

// Resources owns the GPU objects of the harness: one vertex array, one
// vertex buffer, one index buffer and the shader program.
//
// Each object is tracked from the moment its handle exists, so Release only
// deletes what was actually created, also after a failure halfway through
// Create.
type Resources struct {
	VAO     VertexArray
	VBO     Buffer
	IBO     Buffer
	Program *Program

	gl     GL
	probe  *Probe
	logger *slog.Logger

	hasVAO, hasVBO, hasIBO bool
}

// NewResources creates an empty resource set.
func NewResources(gl GL, probe *Probe, logger *slog.Logger) *Resources {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resources{gl: gl, probe: probe, logger: logger}
}

// Create uploads mesh and adopts program. On error the objects created so far
// stay tracked and are freed by Release.
func (r *Resources) Create(mesh Mesh, program *Program) error {
	r.Program = program

	if err := r.probe.Do("glGenVertexArrays", func() { r.VAO.Handle = r.gl.GenVertexArray() }); err != nil {
		return fmt.Errorf("create vertex array: %w", err)
	}
	r.hasVAO = r.VAO.Handle != 0
	if !r.hasVAO {
		return fmt.Errorf("create vertex array: %w", ErrGraphicsAPI)
	}
	if err := r.probe.Do("glBindVertexArray", func() { r.gl.BindVertexArray(r.VAO.Handle) }); err != nil {
		return fmt.Errorf("bind vertex array: %w", err)
	}

	r.VBO = Buffer{Target: ARRAY_BUFFER, Type: Float32, Usage: StaticDraw}
	if err := r.createBuffer(&r.VBO, &r.hasVBO, mesh.Vertices, len(mesh.Vertices)); err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	r.VBO.Layout = mesh.Layout

	for _, a := range mesh.Layout.Attribs {
		if err := r.probe.Do("glVertexAttribPointer", func() {
			r.gl.VertexAttribPointer(a.Index, a.Components, uint32(a.Type), a.Normalized, mesh.Layout.Stride, a.Offset)
		}); err != nil {
			return fmt.Errorf("describe attribute %d: %w", a.Index, err)
		}
		if err := r.probe.Do("glEnableVertexAttribArray", func() { r.gl.EnableVertexAttribArray(a.Index) }); err != nil {
			return fmt.Errorf("enable attribute %d: %w", a.Index, err)
		}
	}
	r.VAO.Layout = mesh.Layout

	r.IBO = Buffer{Target: ELEMENT_ARRAY_BUFFER, Type: Uint32, Usage: StaticDraw}
	if err := r.createBuffer(&r.IBO, &r.hasIBO, mesh.Indices, len(mesh.Indices)); err != nil {
		return fmt.Errorf("create index buffer: %w", err)
	}

	// The element buffer binding stays recorded in the vertex array.
	if err := r.probe.Do("glBindVertexArray(0)", func() { r.gl.BindVertexArray(0) }); err != nil {
		return err
	}

	r.logger.Debug("geometry uploaded",
		slog.Int("vertex_bytes", r.VBO.Size),
		slog.Int("index_bytes", r.IBO.Size),
	)
	return nil
}

// createBuffer generates, binds and fills a buffer. The upload size is
// count times the element size of b.Type.
func (r *Resources) createBuffer(b *Buffer, created *bool, data any, count int) error {
	if err := r.probe.Do("glGenBuffers", func() { b.Handle = r.gl.GenBuffer() }); err != nil {
		return err
	}
	*created = b.Handle != 0
	if !*created {
		return ErrGraphicsAPI
	}
	if err := r.probe.Do("glBindBuffer", func() { r.gl.BindBuffer(b.Target, b.Handle) }); err != nil {
		return err
	}

	size := count * b.Type.Size()
	if err := r.probe.Do("glBufferData", func() { r.gl.BufferData(b.Target, size, data, uint32(b.Usage)) }); err != nil {
		return err
	}
	b.Size, b.Count = size, count
	return nil
}

// Ready reports whether every object exists.
func (r *Resources) Ready() bool {
	return r.hasVAO && r.hasVBO && r.hasIBO && r.Program != nil && r.Program.Handle != 0
}

// Drawable checks that a draw would run against a validated program and a
// vertex array laid out like its vertex buffer.
func (r *Resources) Drawable() error {
	if !r.Ready() {
		return fmt.Errorf("resources incomplete: %w", ErrNotDrawable)
	}
	if r.Program.Status != Validated {
		return fmt.Errorf("program is %s: %w", r.Program.Status, ErrNotDrawable)
	}
	if !r.VAO.Layout.Equal(r.VBO.Layout) {
		return fmt.Errorf("vertex array layout does not match vertex buffer: %w", ErrNotDrawable)
	}
	return nil
}

// SwapProgram replaces the owned program and deletes the previous one.
func (r *Resources) SwapProgram(p *Program) error {
	old := r.Program
	r.Program = p
	if old == nil || old == p {
		return nil
	}
	return old.Delete()
}

// Release deletes the vertex array, the vertex buffer, the index buffer and
// the program, in that order, skipping whatever was never created. Every
// object is attempted; errors are joined. Release is idempotent.
func (r *Resources) Release() error {
	var errs []error

	if r.hasVAO {
		errs = append(errs, r.probe.Do("glDeleteVertexArrays", func() { r.gl.DeleteVertexArray(r.VAO.Handle) }))
		r.hasVAO = false
		r.VAO = VertexArray{}
	}
	if r.hasVBO {
		errs = append(errs, r.probe.Do("glDeleteBuffers(vbo)", func() { r.gl.DeleteBuffer(r.VBO.Handle) }))
		r.hasVBO = false
		r.VBO = Buffer{}
	}
	if r.hasIBO {
		errs = append(errs, r.probe.Do("glDeleteBuffers(ibo)", func() { r.gl.DeleteBuffer(r.IBO.Handle) }))
		r.hasIBO = false
		r.IBO = Buffer{}
	}
	if r.Program != nil {
		errs = append(errs, r.Program.Delete())
		r.Program = nil
	}

	return errors.Join(errs...)
}
