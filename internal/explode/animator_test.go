package explode

import (
	"testing"

	"github.com/Faultbox/phone-teardown/internal/scene"
)

func newTestAnimator(d float32) (*Tracker, *Animator, [3]*scene.Node) {
	tr := NewTracker(DefaultWindows())
	a := NewAnimator(tr, AnimatorConfig{Distance: d, Axis: AxisZ, InteractThreshold: DefaultInteractThreshold})
	var groups [3]*scene.Node
	for i, l := range Layers {
		groups[i] = scene.NewNode(l.String())
		a.Attach(l, groups[i])
	}
	return tr, a, groups
}

func TestAnimatorOffsets(t *testing.T) {
	const d = 0.4
	tests := []struct {
		global  float32
		glass   float32
		display float32
		body    float32
	}{
		{0, 0, 0, 0},
		{1, -2 * d, -d, 0},
		{0.3, -2 * d * 0.5, -d * 0.25, 0},
	}

	for _, tt := range tests {
		tr, a, groups := newTestAnimator(d)
		tr.Update(tt.global)
		a.Update()

		got := [3]float32{groups[0].Position[2], groups[1].Position[2], groups[2].Position[2]}
		want := [3]float32{tt.glass, tt.display, tt.body}
		for i := range want {
			if diff := got[i] - want[i]; diff > 1e-5 || diff < -1e-5 {
				t.Errorf("progress %v, %s: expected offset %v, got %v", tt.global, Layers[i], want[i], got[i])
			}
		}
	}
}

func TestAnimatorOnlyMovesAxis(t *testing.T) {
	tr, a, groups := newTestAnimator(1)
	groups[0].Position = [3]float32{3, 4, 5}
	tr.Update(1)
	a.Update()

	if groups[0].Position[0] != 3 || groups[0].Position[1] != 4 {
		t.Errorf("expected x/y untouched, got %v", groups[0].Position)
	}
	if groups[0].Position[2] != -2 {
		t.Errorf("expected z=-2, got %v", groups[0].Position[2])
	}
}

func TestAnimatorSeparationOrdering(t *testing.T) {
	tr, a, _ := newTestAnimator(1)
	for i := 0; i <= 100; i++ {
		tr.Update(float32(i) / 100)
		a.Update()
		g := a.State(LayerGlass).Offset
		d := a.State(LayerDisplay).Offset
		b := a.State(LayerBody).Offset
		if !(g <= d && d <= b) {
			t.Fatalf("progress %v: expected glass <= display <= body, got %v %v %v", float32(i)/100, g, d, b)
		}
		if b != 0 {
			t.Fatalf("progress %v: body moved to %v", float32(i)/100, b)
		}
	}
}

func TestAnimatorExplodedThreshold(t *testing.T) {
	tests := []struct {
		global float32
		want   bool
	}{
		{0, false},
		{0.3, false},
		{0.31, true},
		{1, true},
	}

	for _, tt := range tests {
		tr, a, _ := newTestAnimator(1)
		tr.Update(tt.global)
		a.Update()
		if a.Exploded() != tt.want {
			t.Errorf("progress %v: expected exploded=%v, got %v", tt.global, tt.want, a.Exploded())
		}
		if a.State(LayerGlass).Separated != tt.want {
			t.Errorf("progress %v: expected separated=%v", tt.global, tt.want)
		}
	}
}

func TestAnimatorWithoutGroups(t *testing.T) {
	tr := NewTracker(DefaultWindows())
	a := NewAnimator(tr, AnimatorConfig{Distance: 1})
	tr.Update(1)
	a.Update()

	if a.State(LayerGlass).Offset != -2 {
		t.Errorf("expected state to be computed without a group, got %v", a.State(LayerGlass).Offset)
	}
	if a.State(LayerNone) != (GroupState{}) {
		t.Error("expected zero state for LayerNone")
	}
}

func TestAnimatorNoNegativeZero(t *testing.T) {
	tr, a, groups := newTestAnimator(1)
	tr.Update(0)
	a.Update()
	for i, g := range groups {
		if v := g.Position[2]; v != 0 || 1/v < 0 {
			t.Errorf("%s: expected +0, got %v", Layers[i], v)
		}
	}
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in       string
		expected Axis
		ok       bool
	}{
		{"x", AxisX, true},
		{"Y", AxisY, true},
		{"z", AxisZ, true},
		{"w", AxisZ, false},
		{"", AxisZ, false},
	}
	for _, tt := range tests {
		got, ok := ParseAxis(tt.in)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("ParseAxis(%q): expected %v/%v, got %v/%v", tt.in, tt.expected, tt.ok, got, ok)
		}
	}
}
