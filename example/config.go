package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-theft-auto/glquad"
)

// Config is the YAML configuration of the example.
type Config struct {
	Window   WindowConfig `yaml:"window"`
	Shaders  ShaderConfig `yaml:"shaders"`
	Color    ColorConfig  `yaml:"color"`
	LogLevel string       `yaml:"log_level"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  *bool  `yaml:"vsync"` // pointer to distinguish unset vs false
}

type ShaderConfig struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
	Uniform  string `yaml:"uniform"`
}

type ColorConfig struct {
	Green *float32 `yaml:"green"`
	Blue  *float32 `yaml:"blue"`
	Alpha *float32 `yaml:"alpha"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	vsync := true
	base := glquad.DefaultBaseColor
	return Config{
		Window: WindowConfig{
			Width:  windowWidth,
			Height: windowHeight,
			Title:  windowTitle,
			VSync:  &vsync,
		},
		Shaders: ShaderConfig{
			Vertex:   glquad.DefaultVertexPath,
			Fragment: glquad.DefaultFragmentPath,
			Uniform:  glquad.DefaultUniform,
		},
		Color: ColorConfig{
			Green: &base.G,
			Blue:  &base.B,
			Alpha: &base.A,
		},
		LogLevel: "info",
	}
}

// LoadConfig reads path and fills unset fields from DefaultConfig. A missing
// file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("config file not found, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	cfg.merge(file)

	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return cfg, fmt.Errorf("config %q: invalid window size %dx%d", path, cfg.Window.Width, cfg.Window.Height)
	}
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if o.Window.Width != 0 {
		c.Window.Width = o.Window.Width
	}
	if o.Window.Height != 0 {
		c.Window.Height = o.Window.Height
	}
	if o.Window.Title != "" {
		c.Window.Title = o.Window.Title
	}
	if o.Window.VSync != nil {
		c.Window.VSync = o.Window.VSync
	}
	if o.Shaders.Vertex != "" {
		c.Shaders.Vertex = o.Shaders.Vertex
	}
	if o.Shaders.Fragment != "" {
		c.Shaders.Fragment = o.Shaders.Fragment
	}
	if o.Shaders.Uniform != "" {
		c.Shaders.Uniform = o.Shaders.Uniform
	}
	if o.Color.Green != nil {
		c.Color.Green = o.Color.Green
	}
	if o.Color.Blue != nil {
		c.Color.Blue = o.Color.Blue
	}
	if o.Color.Alpha != nil {
		c.Color.Alpha = o.Color.Alpha
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// BaseColor returns the fixed channels of the animated color.
func (c Config) BaseColor() glquad.Color {
	return glquad.Color{G: *c.Color.Green, B: *c.Color.Blue, A: *c.Color.Alpha}
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
