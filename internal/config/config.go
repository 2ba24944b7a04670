// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Explode ExplodeConfig `yaml:"explode"`
	Assets  AssetsConfig  `yaml:"assets"`
	Feed    FeedConfig    `yaml:"feed"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display and rendering settings.
type WindowConfig struct {
	Title       string `yaml:"title"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Fullscreen  bool   `yaml:"fullscreen"`
	VSync       bool   `yaml:"vsync"`
	MSAA        int    `yaml:"msaa"`        // Multisample count, 0 disables
	Screenshots string `yaml:"screenshots"` // F12 output directory
}

// CameraConfig holds orbit camera limits.
type CameraConfig struct {
	FOV      float32 `yaml:"fov"`       // Vertical field of view in degrees
	MinPitch float32 `yaml:"min_pitch"` // Degrees
	MaxPitch float32 `yaml:"max_pitch"` // Degrees
	Margin   float32 `yaml:"margin"`    // Fit-to-bounds padding factor
}

// ExplodeConfig holds layer separation settings.
type ExplodeConfig struct {
	Windows           LayerWindows    `yaml:"windows"`
	Distance          float32         `yaml:"distance"`
	Axis              string          `yaml:"axis"` // x, y or z
	InteractThreshold float32         `yaml:"interact_threshold"`
	PanelThreshold    float32         `yaml:"panel_threshold"`
	Internals         InternalsConfig `yaml:"internals"`
}

// LayerWindows holds the [start, end] slice of global progress each layer
// animates over.
type LayerWindows struct {
	Glass   [2]float32 `yaml:"glass"`
	Display [2]float32 `yaml:"display"`
	Body    [2]float32 `yaml:"body"`
}

// InternalsConfig describes the illustration plane inside the body.
type InternalsConfig struct {
	Width    float32    `yaml:"width"`
	Height   float32    `yaml:"height"`
	Radius   float32    `yaml:"radius"`
	Segments int        `yaml:"segments"`
	Position [3]float32 `yaml:"position"`
}

// AssetsConfig holds asset locations, relative to Root.
type AssetsConfig struct {
	Root      string `yaml:"root"`
	Model     string `yaml:"model"`
	Display   string `yaml:"display"`
	Internals string `yaml:"internals"`
}

// FeedConfig holds progress feed settings.
type FeedConfig struct {
	Listen         string        `yaml:"listen"` // Empty disables the WebSocket server; :port binds loopback
	Path           string        `yaml:"path"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"` // Browser origins besides same-host pages
	Wheel          WheelConfig   `yaml:"wheel"`
}

// WheelConfig holds the local mouse-wheel progress producer settings.
type WheelConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Step      float32 `yaml:"step"`      // Progress per wheel notch
	Smoothing float32 `yaml:"smoothing"` // Per-second approach rate
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
			Title:       "Phone Teardown",
			Width:       1280,
			Height:      800,
			Fullscreen:  false,
			VSync:       true,
			MSAA:        4,
			Screenshots: "screenshots",
		},
		Camera: CameraConfig{
			FOV:      35,
			MinPitch: -60,
			MaxPitch: 60,
			Margin:   1.3,
		},
		Explode: ExplodeConfig{
			Windows: LayerWindows{
				Glass:   [2]float32{0, 0.6},
				Display: [2]float32{0.15, 0.75},
				Body:    [2]float32{0.3, 0.9},
			},
			Distance:          0.35,
			Axis:              "z",
			InteractThreshold: 0.3,
			PanelThreshold:    0.5,
			Internals: InternalsConfig{
				Width:    0.68,
				Height:   1.44,
				Radius:   0.09,
				Segments: 12,
				Position: [3]float32{0, 0, 0.02},
			},
		},
		Assets: AssetsConfig{
			Root:      "assets",
			Model:     "models/phone.glb",
			Display:   "textures/display.png",
			Internals: "textures/internals.png",
		},
		Feed: FeedConfig{
			Listen:       "",
			Path:         "/progress",
			WriteTimeout: 5 * time.Second,
			Wheel: WheelConfig{
				Enabled:   true,
				Step:      0.05,
				Smoothing: 8,
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
