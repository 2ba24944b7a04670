package renderer

import (
	"image"
	"testing"

	"github.com/Faultbox/phone-teardown/internal/engine/texture"
	"github.com/Faultbox/phone-teardown/internal/material"
	"github.com/Faultbox/phone-teardown/internal/scene"
)

func meshAt(name string, z float32, order int, blended bool) *scene.Node {
	m := material.Default()
	m.RenderOrder = order
	if blended {
		m.Transparent = true
		m.Opacity = 0.5
	}
	n := scene.NewMesh(name, scene.Quad(1, 1), m)
	n.Position = [3]float32{0, 0, z}
	return n
}

func names(draws []Draw) []string {
	out := make([]string, len(draws))
	for i, d := range draws {
		out[i] = d.Node.Name
	}
	return out
}

func TestCollectDraws(t *testing.T) {
	root := scene.NewNode("root")
	group := scene.NewNode("group")
	group.Position = [3]float32{0, 0, -2}
	root.Add(group)
	group.Add(meshAt("a", 1, 0, false))

	hidden := scene.NewNode("hidden")
	hidden.Visible = false
	hidden.Add(meshAt("b", 0, 0, false))
	root.Add(hidden)

	bare := scene.NewMesh("bare", scene.Quad(1, 1), nil)
	root.Add(bare)

	draws := CollectDraws(nil, root, [3]float32{0, 0, 10})
	if len(draws) != 2 {
		t.Fatalf("expected 2 draws, got %d: %v", len(draws), names(draws))
	}
	if draws[0].Node.Name != "a" {
		t.Errorf("expected first draw a, got %s", draws[0].Node.Name)
	}
	if z := draws[0].World[14]; z != -1 {
		t.Errorf("expected composed z -1, got %v", z)
	}
	if draws[1].Material == nil {
		t.Error("expected default material for mesh without one")
	}
}

func TestCollectDrawsSubtree(t *testing.T) {
	root := scene.NewNode("root")
	root.Position = [3]float32{5, 0, 0}
	child := meshAt("c", 0, 0, false)
	root.Add(child)

	draws := CollectDraws(nil, child, [3]float32{})
	if len(draws) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(draws))
	}
	if x := draws[0].World[12]; x != 5 {
		t.Errorf("expected parent translation 5, got %v", x)
	}
}

func TestSortDraws(t *testing.T) {
	root := scene.NewNode("root")
	root.Add(meshAt("front", 0, 3, true))
	root.Add(meshAt("bezel", 0, 2, false))
	root.Add(meshAt("body", 0, 0, false))
	root.Add(meshAt("shadow", -5, -1, true))
	root.Add(meshAt("display", 0, 1, false))
	root.Add(meshAt("internals", 0, 0, false))

	draws := CollectDraws(nil, root, [3]float32{0, 0, 10})
	SortDraws(draws)

	expected := []string{"body", "internals", "display", "bezel", "shadow", "front"}
	got := names(draws)
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("expected order %v, got %v", expected, got)
		}
	}
}

func TestSortDrawsBlendedBackToFront(t *testing.T) {
	root := scene.NewNode("root")
	root.Add(meshAt("near", 5, 0, true))
	root.Add(meshAt("far", -5, 0, true))
	root.Add(meshAt("opaque-near", 5, 0, false))
	root.Add(meshAt("opaque-far", -5, 0, false))

	draws := CollectDraws(nil, root, [3]float32{0, 0, 10})
	SortDraws(draws)

	expected := []string{"opaque-near", "opaque-far", "far", "near"}
	got := names(draws)
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("expected order %v, got %v", expected, got)
		}
	}
}

func TestInterleave(t *testing.T) {
	g := &scene.Geometry{
		Positions: [][3]float32{{1, 2, 3}, {4, 5, 6}},
		Normals:   [][3]float32{{0, 1, 0}},
		UVs:       [][2]float32{{0.25, 0.75}},
	}
	v := Interleave(g)
	if len(v) != 2*VertexStride {
		t.Fatalf("expected %d floats, got %d", 2*VertexStride, len(v))
	}
	first := []float32{1, 2, 3, 0, 1, 0, 0.25, 0.75}
	second := []float32{4, 5, 6, 0, 0, 1, 0, 0}
	for i := range first {
		if v[i] != first[i] {
			t.Errorf("vertex 0 [%d]: expected %v, got %v", i, first[i], v[i])
		}
		if v[VertexStride+i] != second[i] {
			t.Errorf("vertex 1 [%d]: expected %v, got %v", i, second[i], v[VertexStride+i])
		}
	}
	if Interleave(&scene.Geometry{}) != nil {
		t.Error("expected nil for empty geometry")
	}
}

func TestFlipRows(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	for y := 0; y < 3; y++ {
		img.Pix[y*img.Stride] = byte(y + 1)
	}
	out := FlipRows(img)
	for y, want := range []byte{3, 2, 1} {
		if out[y*4] != want {
			t.Errorf("row %d: expected %d, got %d", y, want, out[y*4])
		}
	}
	if img.Pix[0] != 1 {
		t.Error("source image was modified")
	}
}

func TestAnisotropy(t *testing.T) {
	tests := []struct {
		requested, limit, expected float32
	}{
		{texture.MaxAnisotropy, 16, 16},
		{1, 16, 1},
		{8, 4, 4},
		{0, 16, 1},
	}
	for _, tt := range tests {
		if got := Anisotropy(tt.requested, tt.limit); got != tt.expected {
			t.Errorf("Anisotropy(%v, %v): expected %v, got %v", tt.requested, tt.limit, tt.expected, got)
		}
	}
}
