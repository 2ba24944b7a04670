package explode

import "github.com/Faultbox/phone-teardown/pkg/math"

// MapRange clamps v to [inMin, inMax] and maps it linearly onto
// [outMin, outMax]. inMin must not exceed inMax. A zero-width input range
// yields outMin.
func MapRange(v, inMin, inMax, outMin, outMax float32) float32 {
	if inMin == inMax {
		return outMin
	}
	v = math.Clamp(v, inMin, inMax)
	t := (v - inMin) / (inMax - inMin)
	return math.Lerp(outMin, outMax, t)
}

// Window is the [Start, End] slice of global progress over which a layer
// moves from 0 to 1.
type Window struct {
	Start float32
	End   float32
}

// Local maps global progress into this window's local fraction.
func (w Window) Local(global float32) float32 {
	return MapRange(global, w.Start, w.End, 0, 1)
}

// Windows holds one stagger window per layer.
type Windows struct {
	Glass   Window
	Display Window
	Body    Window
}

// DefaultWindows returns the stock stagger: glass leads, body trails.
func DefaultWindows() Windows {
	return Windows{
		Glass:   Window{Start: 0, End: 0.6},
		Display: Window{Start: 0.15, End: 0.75},
		Body:    Window{Start: 0.3, End: 0.9},
	}
}

// Progress is a snapshot of global and per-layer explosion fractions.
type Progress struct {
	Global  float32
	Glass   float32
	Display float32
	Body    float32
}

// Local returns the fraction for a layer.
func (p Progress) Local(l Layer) float32 {
	switch l {
	case LayerGlass:
		return p.Glass
	case LayerDisplay:
		return p.Display
	case LayerBody:
		return p.Body
	}
	return 0
}

// ProgressReader is the read side of a Tracker.
type ProgressReader interface {
	Progress() Progress
}

// Tracker owns the current Progress. Update and Apply are the only writers
// and must be called from the frame thread.
type Tracker struct {
	windows Windows
	current Progress
}

// NewTracker creates a tracker at zero progress.
func NewTracker(w Windows) *Tracker {
	return &Tracker{windows: w}
}

// Update sets global progress and recomputes each layer's local fraction.
// Out-of-range input is clamped to [0,1].
func (t *Tracker) Update(global float32) {
	t.current = Progress{
		Global:  MapRange(global, 0, 1, 0, 1),
		Glass:   t.windows.Glass.Local(global),
		Display: t.windows.Display.Local(global),
		Body:    t.windows.Body.Local(global),
	}
}

// Apply parses a progress message and updates the tracker. Malformed
// messages are ignored and leave the state unchanged.
func (t *Tracker) Apply(msg []byte) bool {
	v, ok := ParseProgressMessage(msg)
	if !ok {
		return false
	}
	t.Update(v)
	return true
}

// Progress returns the current snapshot.
func (t *Tracker) Progress() Progress {
	return t.current
}

// Windows returns the tracker's stagger windows.
func (t *Tracker) Windows() Windows {
	return t.windows
}
