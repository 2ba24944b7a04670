package scene

import gomath "math"

// RoundedRect builds a flat rounded rectangle in the XY plane facing +Z,
// centered on the origin, as a triangle fan. Each corner is an arc of
// segments steps; radius is clamped to half the shorter side. The result
// has positions, normals and indices but no UVs.
func RoundedRect(width, height, radius float32, segments int) *Geometry {
	if segments < 1 {
		segments = 1
	}
	half := min(width, height) / 2
	if radius > half {
		radius = half
	}
	if radius < 0 {
		radius = 0
	}

	hx, hy := width/2-radius, height/2-radius
	corners := [4][2]float32{{hx, hy}, {-hx, hy}, {-hx, -hy}, {hx, -hy}}

	g := &Geometry{}
	g.Positions = append(g.Positions, [3]float32{0, 0, 0})

	for c, center := range corners {
		start := float64(c) * gomath.Pi / 2
		for s := 0; s <= segments; s++ {
			a := start + float64(s)/float64(segments)*gomath.Pi/2
			g.Positions = append(g.Positions, [3]float32{
				center[0] + radius*float32(gomath.Cos(a)),
				center[1] + radius*float32(gomath.Sin(a)),
				0,
			})
		}
	}

	ring := uint32(len(g.Positions) - 1)
	for i := uint32(1); i <= ring; i++ {
		next := i + 1
		if next > ring {
			next = 1
		}
		g.Indices = append(g.Indices, 0, i, next)
	}

	g.Normals = make([][3]float32, len(g.Positions))
	for i := range g.Normals {
		g.Normals[i] = [3]float32{0, 0, 1}
	}
	return g
}

// Quad builds a width x height rectangle in the XZ plane facing +Y with
// UVs spanning [0,1].
func Quad(width, depth float32) *Geometry {
	hw, hd := width/2, depth/2
	return &Geometry{
		Positions: [][3]float32{{-hw, 0, -hd}, {hw, 0, -hd}, {hw, 0, hd}, {-hw, 0, hd}},
		Normals:   [][3]float32{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
		UVs:       [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint32{0, 2, 1, 0, 3, 2},
	}
}
