// Example opens a window and draws the glquad quad with its animated color.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	cd example && go run .    # shader paths are relative to the working directory
//
// Flags:
//
//	-config config.yaml   window, shader and color settings
//	-watch                rebuild the shader program when a shader file changes
//	-profile              write a CPU profile to the working directory
//	-screenshot out.jpg   save the frame rendered after -frames frames and exit
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/pkg/profile"

	"github.com/go-theft-auto/glquad"
	"github.com/go-theft-auto/glquad/backend/opengl"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "glquad example"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	watch := flag.Bool("watch", false, "reload shaders when their files change")
	cpuProfile := flag.Bool("profile", false, "write a CPU profile")
	screenshot := flag.String("screenshot", "", "save a JPEG of the framebuffer and exit")
	frames := flag.Int("frames", 10, "frames to render before -screenshot")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	window, err := opengl.NewWindow(opengl.WindowConfig{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Title:      cfg.Window.Title,
		VSync:      *cfg.Window.VSync,
		ClearColor: [4]float32{0.12, 0.12, 0.14, 1.0},
	}, logger)
	if err != nil {
		return err
	}
	defer window.Close()

	if *screenshot != "" {
		window.CaptureAfter(*frames, *screenshot)
	}

	harness := glquad.New(window.Context(),
		glquad.WithLogger(logger),
		glquad.WithShaderPaths(cfg.Shaders.Vertex, cfg.Shaders.Fragment),
		glquad.WithUniform(cfg.Shaders.Uniform),
		glquad.WithBaseColor(cfg.BaseColor()),
	)

	var beforeFrame func() error
	if *watch {
		watcher, err := watchShaders(cfg.Shaders.Vertex, cfg.Shaders.Fragment)
		if err != nil {
			return err
		}
		defer watcher.Close()

		beforeFrame = func() error {
			if !watcher.Changed() {
				return nil
			}
			err := harness.Reload()
			if errors.Is(err, glquad.ErrGraphicsAPI) {
				return err
			}
			// Source, compile and link failures keep the previous program.
			return nil
		}
	}

	return window.Run(harness, beforeFrame)
}
