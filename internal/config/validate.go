package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned for configuration values outside their domain.
var ErrInvalid = errors.New("invalid config")

// Validate reports the first out-of-domain value in c.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Camera.MinPitch > c.Camera.MaxPitch {
		return fmt.Errorf("%w: camera pitch range [%v, %v]", ErrInvalid, c.Camera.MinPitch, c.Camera.MaxPitch)
	}

	e := c.Explode
	windows := []struct {
		name string
		w    [2]float32
	}{
		{"glass", e.Windows.Glass},
		{"display", e.Windows.Display},
		{"body", e.Windows.Body},
	}
	for _, lw := range windows {
		if lw.w[0] < 0 || lw.w[1] > 1 || lw.w[0] > lw.w[1] {
			return fmt.Errorf("%w: explode.windows.%s [%v, %v]", ErrInvalid, lw.name, lw.w[0], lw.w[1])
		}
	}
	if e.Distance < 0 {
		return fmt.Errorf("%w: explode.distance %v", ErrInvalid, e.Distance)
	}
	switch e.Axis {
	case "x", "y", "z":
	default:
		return fmt.Errorf("%w: explode.axis %q", ErrInvalid, e.Axis)
	}
	if e.InteractThreshold < 0 || e.InteractThreshold > 1 {
		return fmt.Errorf("%w: explode.interact_threshold %v", ErrInvalid, e.InteractThreshold)
	}
	if e.PanelThreshold < 0 || e.PanelThreshold > 1 {
		return fmt.Errorf("%w: explode.panel_threshold %v", ErrInvalid, e.PanelThreshold)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}
