package feed

import (
	gomath "math"

	"github.com/Faultbox/phone-teardown/internal/explode"
	"github.com/Faultbox/phone-teardown/pkg/math"
)

// settleEpsilon is the distance at which the smoothed value snaps to target.
const settleEpsilon = 1e-4

// WheelConfig tunes the local wheel producer.
type WheelConfig struct {
	Step      float32 // Progress per wheel notch
	Smoothing float32 // Exponential approach rate per second, <= 0 jumps
}

// Wheel turns mouse wheel input into progress messages when no external
// producer drives the scene. It posts the same message format as the
// WebSocket feed.
type Wheel struct {
	cfg    WheelConfig
	inbox  *Inbox
	target float32
	value  float32
	posted float32
}

// NewWheel creates a wheel producer starting at progress 0.
func NewWheel(cfg WheelConfig, inbox *Inbox) *Wheel {
	return &Wheel{cfg: cfg, inbox: inbox}
}

// Scroll moves the target by notches wheel steps. Positive notches
// advance the explosion.
func (w *Wheel) Scroll(notches float32) {
	w.target = math.Clamp(w.target+notches*w.cfg.Step, 0, 1)
}

// Sync jumps to v without posting, so wheel input continues from a value
// another producer set.
func (w *Wheel) Sync(v float32) {
	v = math.Clamp(v, 0, 1)
	w.target, w.value, w.posted = v, v, v
}

// Update advances the smoothed value by dt seconds and posts it if it
// changed.
func (w *Wheel) Update(dt float32) {
	if w.cfg.Smoothing <= 0 {
		w.value = w.target
	} else {
		k := 1 - float32(gomath.Exp(float64(-w.cfg.Smoothing*dt)))
		w.value += (w.target - w.value) * k
		if math.Abs(w.target-w.value) < settleEpsilon {
			w.value = w.target
		}
	}
	if w.value != w.posted {
		w.posted = w.value
		w.inbox.Post(explode.EncodeProgressMessage(w.value))
	}
}

// Value returns the current smoothed progress.
func (w *Wheel) Value() float32 {
	return w.value
}

// Posted returns the last progress value the wheel posted.
func (w *Wheel) Posted() float32 {
	return w.posted
}

// Target returns the progress the wheel is approaching.
func (w *Wheel) Target() float32 {
	return w.target
}
