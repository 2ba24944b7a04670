package explode

import "github.com/Faultbox/phone-teardown/internal/scene"

// RepairDisplayUVs overwrites the UVs of g with a planar projection of its
// mesh-local X/Y bounds: U runs left to right, V runs top to bottom so the
// top of the mesh samples the top of an unflipped texture. Placement baked
// into Positions, rotation included, does not affect the result. It reports
// false and leaves g alone when positions or UVs are missing.
func RepairDisplayUVs(g *scene.Geometry) bool {
	if g.VertexCount() == 0 || !g.HasUVs() {
		return false
	}
	projectXY(g.LocalPositions(), g.UVs, false, true)
	return true
}

// projectXY writes normalized X/Y coordinates of positions into uvs.
// A flat axis maps every vertex to the range's start.
func projectXY(positions [][3]float32, uvs [][2]float32, mirrorU, flipV bool) {
	b := scene.EmptyBounds()
	for _, p := range positions {
		b.Extend(p)
	}

	u0, u1 := float32(0), float32(1)
	if mirrorU {
		u0, u1 = 1, 0
	}
	v0, v1 := float32(0), float32(1)
	if flipV {
		v0, v1 = 1, 0
	}

	for i, p := range positions {
		uvs[i] = [2]float32{
			MapRange(p[0], b.Min[0], b.Max[0], u0, u1),
			MapRange(p[1], b.Min[1], b.Max[1], v0, v1),
		}
	}
}
