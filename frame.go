package glquad

import (
	"fmt"
	"log/slog"
)

// FrameDriver issues the per-frame commands: clear, animate the color
// uniform and draw the indexed geometry.
type FrameDriver struct {
	gl     GL
	probe  *Probe
	logger *slog.Logger

	res      *Resources
	location int32
	base     Color
	anim     AnimationState
	frames   uint64
}

// NewFrameDriver creates a driver drawing res. location is the resolved
// color uniform; base supplies the green, blue and alpha channels.
func NewFrameDriver(gl GL, probe *Probe, logger *slog.Logger, res *Resources, location int32, base Color, anim AnimationState) *FrameDriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &FrameDriver{
		gl:       gl,
		probe:    probe,
		logger:   logger,
		res:      res,
		location: location,
		base:     base,
		anim:     anim,
	}
}

// Animation returns the current animation state.
func (d *FrameDriver) Animation() AnimationState {
	return d.anim
}

// Frames returns the number of frames rendered.
func (d *FrameDriver) Frames() uint64 {
	return d.frames
}

// SetUniformLocation points the driver at a new color uniform, after the
// program was rebuilt.
func (d *FrameDriver) SetUniformLocation(location int32) {
	d.location = location
}

// RenderFrame draws one frame. A frame refused with ErrNotDrawable leaves
// the animation where it was.
func (d *FrameDriver) RenderFrame() error {
	if err := d.res.Drawable(); err != nil {
		return err
	}
	if err := d.probe.Do("glClear", func() { d.gl.Clear(COLOR_BUFFER_BIT) }); err != nil {
		return err
	}

	r := d.anim.Advance()
	d.logger.Debug("frame", slog.Uint64("n", d.frames), slog.Float64("r", float64(r)))

	prog := d.res.Program
	if err := prog.Use(); err != nil {
		return err
	}
	color := d.base
	color.R = r
	if err := prog.SetColor(d.location, color); err != nil {
		return err
	}

	if err := d.probe.Do("glBindVertexArray", func() { d.gl.BindVertexArray(d.res.VAO.Handle) }); err != nil {
		return err
	}
	if err := d.probe.Do("glBindBuffer", func() { d.gl.BindBuffer(ELEMENT_ARRAY_BUFFER, d.res.IBO.Handle) }); err != nil {
		return err
	}

	count := int32(d.res.IBO.Count)
	if err := d.probe.Do("glDrawElements", func() {
		d.gl.DrawElements(TRIANGLES, count, uint32(d.res.IBO.Type), 0)
	}); err != nil {
		return fmt.Errorf("draw %d indices: %w", count, err)
	}

	d.frames++
	return nil
}
