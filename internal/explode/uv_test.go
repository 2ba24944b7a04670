package explode

import (
	"testing"

	"github.com/Faultbox/phone-teardown/internal/scene"
	"github.com/Faultbox/phone-teardown/pkg/math"
)

func TestRepairDisplayUVs(t *testing.T) {
	g := quadGeometry()
	if !RepairDisplayUVs(g) {
		t.Fatal("expected repair to succeed")
	}

	want := [][2]float32{
		{0, 1}, // bottom-left
		{1, 1}, // bottom-right
		{1, 0}, // top-right
		{0, 0}, // top-left
	}
	for i := range want {
		if g.UVs[i] != want[i] {
			t.Errorf("vertex %d: expected uv %v, got %v", i, want[i], g.UVs[i])
		}
	}
}

func TestRepairDisplayUVsBakedRotation(t *testing.T) {
	// 90 degrees about X puts the screen plane in X/Z; UVs must still come
	// from the mesh's own X/Y extent.
	g := quadGeometry()
	g.Transform(math.FromQuat([4]float32{0.70710677, 0, 0, 0.70710677}))
	if !RepairDisplayUVs(g) {
		t.Fatal("expected repair to succeed")
	}

	want := [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	for i := range want {
		if g.UVs[i] != want[i] {
			t.Errorf("vertex %d: expected uv %v, got %v", i, want[i], g.UVs[i])
		}
	}
}

func TestRepairDisplayUVsIgnoresZ(t *testing.T) {
	g := &scene.Geometry{
		Positions: [][3]float32{{0, 0, -5}, {2, 4, 5}},
		UVs:       make([][2]float32, 2),
	}
	RepairDisplayUVs(g)
	if g.UVs[0] != [2]float32{0, 1} || g.UVs[1] != [2]float32{1, 0} {
		t.Errorf("unexpected uvs %v", g.UVs)
	}
}

func TestRepairDisplayUVsSkips(t *testing.T) {
	tests := []struct {
		name string
		geom *scene.Geometry
	}{
		{"nil geometry", nil},
		{"no positions", &scene.Geometry{UVs: [][2]float32{{0, 0}}}},
		{"no uvs", &scene.Geometry{Positions: [][3]float32{{0, 0, 0}}}},
		{"short uvs", &scene.Geometry{
			Positions: [][3]float32{{0, 0, 0}, {1, 1, 0}},
			UVs:       [][2]float32{{0.3, 0.3}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if RepairDisplayUVs(tt.geom) {
				t.Error("expected repair to be skipped")
			}
		})
	}
}

func TestRepairDisplayUVsFlatAxis(t *testing.T) {
	g := &scene.Geometry{
		Positions: [][3]float32{{0, 1, 0}, {2, 1, 0}},
		UVs:       make([][2]float32, 2),
	}
	if !RepairDisplayUVs(g) {
		t.Fatal("expected repair to succeed")
	}
	for i, uv := range g.UVs {
		if uv[1] != 1 {
			t.Errorf("vertex %d: flat Y should map to v=1, got %v", i, uv[1])
		}
	}
}

func TestInternalsGeometry(t *testing.T) {
	shape := PlaneShape{Width: 1, Height: 2, Radius: 0.2, Segments: 6}
	g := InternalsGeometry(shape)

	if len(g.UVs) != len(g.Positions) {
		t.Fatalf("expected one uv per vertex, got %d/%d", len(g.UVs), len(g.Positions))
	}
	for i, uv := range g.UVs {
		if uv[0] < 0 || uv[0] > 1 || uv[1] < 0 || uv[1] > 1 {
			t.Errorf("vertex %d: uv %v outside [0,1]", i, uv)
		}
		// mirrored U: the rightmost point maps to u=0
		p := g.Positions[i]
		wantU := 1 - (p[0]+0.5)/1
		if d := uv[0] - wantU; d > 1e-5 || d < -1e-5 {
			t.Errorf("vertex %d at x=%v: expected u=%v, got %v", i, p[0], wantU, uv[0])
		}
	}

	if InternalsGeometry(shape) != g {
		t.Error("expected the plane to be built once per shape")
	}
}

func TestNewInternalsNode(t *testing.T) {
	pos := [3]float32{0, 0, -0.02}
	a := NewInternalsNode(DefaultPlaneShape(), pos, testTexture("internals.png"))
	b := NewInternalsNode(DefaultPlaneShape(), pos, testTexture("internals.png"))

	if a == b {
		t.Fatal("expected a node per call")
	}
	if a.Geometry != b.Geometry {
		t.Error("expected nodes to share the plane geometry")
	}
	if a.Position != pos {
		t.Errorf("expected position %v, got %v", pos, a.Position)
	}
	if a.Material.RenderOrder != OrderInternals {
		t.Errorf("expected internals order %d, got %d", OrderInternals, a.Material.RenderOrder)
	}
}
