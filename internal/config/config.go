// Package config handles scene configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Selection boundary policies accepted by SelectionConfig.Bounds.
const (
	BoundsClamp  = "clamp"
	BoundsWrap   = "wrap"
	BoundsStrict = "strict"
)

// Config holds all scene settings.
type Config struct {
	Window     WindowConfig      `yaml:"window"`
	Camera     CameraConfig      `yaml:"camera"`
	Grid       GridConfig        `yaml:"grid"`
	Selection  SelectionConfig   `yaml:"selection"`
	Characters []CharacterConfig `yaml:"characters"`
	Debug      DebugConfig       `yaml:"debug"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Samples    int    `yaml:"samples"` // MSAA samples, 0 disables multisampling
}

// CameraConfig holds pan/zoom tuning.
type CameraConfig struct {
	ZoomFactor   float64 `yaml:"zoom_factor"`
	MinZoom      float64 `yaml:"min_zoom"`
	MaxZoom      float64 `yaml:"max_zoom"`
	GlideSeconds float32 `yaml:"glide_seconds"` // duration of the focus-selection glide
}

// GridConfig describes the tile grid and the atlas that populates it.
type GridConfig struct {
	Columns int     `yaml:"columns"`
	Rows    int     `yaml:"rows"`
	XGap    float32 `yaml:"x_gap"`
	YGap    float32 `yaml:"y_gap"`
	Atlas   string  `yaml:"atlas"`
}

// SelectionConfig holds selection cursor behaviour.
type SelectionConfig struct {
	Bounds string `yaml:"bounds"` // clamp, wrap or strict
}

// CharacterConfig places one character sprite at startup.
type CharacterConfig struct {
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
}

// DebugConfig holds developer tooling settings.
type DebugConfig struct {
	ScreenshotDir    string `yaml:"screenshot_dir"`
	ScreenshotPrefix string `yaml:"screenshot_prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:   "Tile Scene",
			Width:   1024,
			Height:  768,
			VSync:   true,
			Samples: 4,
		},
		Camera: CameraConfig{
			ZoomFactor:   1.2,
			MinZoom:      0.2,
			MaxZoom:      5.0,
			GlideSeconds: 0.35,
		},
		Grid: GridConfig{
			Columns: 10,
			Rows:    10,
			XGap:    64,
			YGap:    64,
			Atlas:   "assets/atlas.yaml",
		},
		Selection: SelectionConfig{
			Bounds: BoundsClamp,
		},
		Debug: DebugConfig{
			ScreenshotDir:    "screenshots",
			ScreenshotPrefix: "scene",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting that would leave the scene unusable.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.ZoomFactor <= 1 {
		return fmt.Errorf("camera zoom_factor must be greater than 1, got %g", c.Camera.ZoomFactor)
	}
	if c.Camera.MinZoom <= 0 || c.Camera.MinZoom >= c.Camera.MaxZoom {
		return fmt.Errorf("camera zoom range (%g, %g) is empty", c.Camera.MinZoom, c.Camera.MaxZoom)
	}
	if c.Camera.MinZoom >= 1 || c.Camera.MaxZoom <= 1 {
		return fmt.Errorf("camera zoom range (%g, %g) must contain 1", c.Camera.MinZoom, c.Camera.MaxZoom)
	}
	if c.Grid.Columns <= 0 || c.Grid.Rows <= 0 {
		return fmt.Errorf("grid size must be positive, got %dx%d", c.Grid.Columns, c.Grid.Rows)
	}
	if c.Grid.XGap <= 0 || c.Grid.YGap <= 0 {
		return fmt.Errorf("grid gaps must be positive, got %gx%g", c.Grid.XGap, c.Grid.YGap)
	}
	if c.Grid.Atlas == "" {
		return errors.New("grid atlas path is required")
	}
	switch c.Selection.Bounds {
	case BoundsClamp, BoundsWrap, BoundsStrict:
	default:
		return fmt.Errorf("unknown selection bounds policy %q", c.Selection.Bounds)
	}
	for i, ch := range c.Characters {
		if ch.Name == "" {
			return fmt.Errorf("character %d has no name", i)
		}
		if ch.Image == "" {
			return fmt.Errorf("character %q has no image", ch.Name)
		}
	}
	return nil
}
