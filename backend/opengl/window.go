package opengl

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/glquad"
)

// Lifecycle is what the window drives: OnInit once, RenderFrame once per
// iteration, OnTeardown once. *glquad.Harness implements it.
type Lifecycle interface {
	OnInit() error
	RenderFrame() error
	OnTeardown() error
}

// WindowConfig describes the window and the context it requests.
type WindowConfig struct {
	Width  int
	Height int
	Title  string
	VSync  bool
	// ClearColor is set once after the context is created.
	ClearColor [4]float32
}

// Window is a GLFW window owning an OpenGL 3.3 core context. It must be
// created and used on the main thread.
type Window struct {
	win     *glfw.Window
	logger  *slog.Logger
	probe   *glquad.Probe
	capture *captureRequest
}

// NewWindow initializes GLFW, creates the window, makes its context current
// and loads the GL function pointers.
func NewWindow(cfg WindowConfig, logger *slog.Logger) (*Window, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, err
	}
	w := &Window{win: win, logger: logger, probe: glquad.NewProbe(Context{}, logger)}
	c := cfg.ClearColor
	if err := w.probe.Do("glClearColor", func() { Context{}.ClearColor(c[0], c[1], c[2], c[3]) }); err != nil {
		w.Close()
		return nil, err
	}

	win.SetKeyCallback(w.keyCallback)
	return w, nil
}

// Context returns the GL implementation for this window's context.
func (w *Window) Context() Context {
	return Context{}
}

// Run calls OnInit, then RenderFrame until the window is closed or a frame
// fails, then OnTeardown. beforeFrame, if not nil, runs before each frame on
// the render thread and may abort the loop by returning an error.
func (w *Window) Run(lc Lifecycle, beforeFrame func() error) (err error) {
	if err := lc.OnInit(); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer func() {
		if tErr := lc.OnTeardown(); tErr != nil && err == nil {
			err = fmt.Errorf("teardown: %w", tErr)
		}
	}()

	for frame := 1; !w.win.ShouldClose(); frame++ {
		glfw.PollEvents()

		fw, fh := w.win.GetFramebufferSize()
		if err := w.probe.Do("glViewport", func() { Context{}.Viewport(0, 0, int32(fw), int32(fh)) }); err != nil {
			return err
		}

		if beforeFrame != nil {
			if err := beforeFrame(); err != nil {
				return err
			}
		}
		if err := lc.RenderFrame(); err != nil {
			return fmt.Errorf("render frame: %w", err)
		}

		if w.capture != nil && frame == w.capture.frame {
			if err := w.Capture(w.capture.path); err != nil {
				return err
			}
			w.win.SetShouldClose(true)
		}

		w.win.SwapBuffers()
	}
	return nil
}

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}

func (w *Window) keyCallback(win *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.logger.Debug("escape pressed, closing window")
		win.SetShouldClose(true)
	}
}
