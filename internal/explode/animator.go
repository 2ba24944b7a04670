package explode

import (
	"strings"

	"github.com/Faultbox/phone-teardown/internal/scene"
)

// Axis selects the local axis layers travel along.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis converts "x", "y" or "z" to an Axis.
func ParseAxis(s string) (Axis, bool) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, true
	case "y":
		return AxisY, true
	case "z":
		return AxisZ, true
	}
	return AxisZ, false
}

// travel is how far each layer moves per unit of its local fraction, in
// multiples of the explode distance. Body is the anchor.
var travel = [3]float32{2.0, 1.0, 0.0}

// DefaultInteractThreshold is the global progress above which layers can
// be picked.
const DefaultInteractThreshold = 0.3

// GroupState is the animated state of one layer group.
type GroupState struct {
	Offset    float32
	Separated bool
}

// AnimatorConfig configures an Animator.
type AnimatorConfig struct {
	Distance          float32
	Axis              Axis
	InteractThreshold float32
}

// Animator projects progress onto layer group transforms once per frame.
type Animator struct {
	cfg      AnimatorConfig
	progress ProgressReader
	groups   [3]*scene.Node
	states   [3]GroupState
	exploded bool
}

// NewAnimator creates an animator reading from progress.
func NewAnimator(progress ProgressReader, cfg AnimatorConfig) *Animator {
	return &Animator{cfg: cfg, progress: progress}
}

// Attach binds the group node layer l moves.
func (a *Animator) Attach(l Layer, group *scene.Node) {
	if i := l.index(); i >= 0 {
		a.groups[i] = group
	}
}

// Update reads the latest progress and writes each group's offset. It
// moves group nodes only, so cost does not depend on mesh count.
func (a *Animator) Update() {
	p := a.progress.Progress()
	a.exploded = p.Global > a.cfg.InteractThreshold

	for i, l := range Layers {
		offset := -(p.Local(l) * a.cfg.Distance * travel[i])
		if offset == 0 {
			// avoid -0 in transforms
			offset = 0
		}
		a.states[i] = GroupState{Offset: offset, Separated: a.exploded}
		if g := a.groups[i]; g != nil {
			g.Position[a.cfg.Axis] = offset
		}
	}
}

// Exploded reports whether layers were separated enough, as of the last
// Update, to accept pointer interaction.
func (a *Animator) Exploded() bool {
	return a.exploded
}

// State returns the last computed state for l.
func (a *Animator) State(l Layer) GroupState {
	if i := l.index(); i >= 0 {
		return a.states[i]
	}
	return GroupState{}
}
