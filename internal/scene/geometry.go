// Package scene provides the scene graph the viewer classifies and renders.
package scene

import "github.com/Faultbox/phone-teardown/pkg/math"

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// EmptyBounds returns inverted bounds that any point will expand.
func EmptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// Valid reports whether the bounds contain at least one point.
func (b Bounds) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Extend grows b to include p.
func (b *Bounds) Extend(p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Union returns the bounds covering both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	if !o.Valid() {
		return b
	}
	b.Extend(o.Min)
	b.Extend(o.Max)
	return b
}

// Size returns the extent along each axis.
func (b Bounds) Size() [3]float32 {
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Center returns the midpoint.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Geometry holds per-vertex attribute buffers and an optional index buffer.
// Attribute slices are either empty or one entry per vertex.
type Geometry struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32

	// Local holds the mesh-space positions from before the first Transform,
	// or nil when Positions were never transformed.
	Local [][3]float32
}

// VertexCount returns the number of positions.
func (g *Geometry) VertexCount() int {
	if g == nil {
		return 0
	}
	return len(g.Positions)
}

// HasUVs reports whether every vertex has a texture coordinate slot.
func (g *Geometry) HasUVs() bool {
	return g != nil && len(g.UVs) > 0 && len(g.UVs) == len(g.Positions)
}

// LocalPositions returns the positions in the mesh's own space, undoing any
// placement baked in by Transform.
func (g *Geometry) LocalPositions() [][3]float32 {
	if g == nil {
		return nil
	}
	if g.Local != nil && len(g.Local) == len(g.Positions) {
		return g.Local
	}
	return g.Positions
}

// Bounds computes the bounding box of Positions.
func (g *Geometry) Bounds() Bounds {
	b := EmptyBounds()
	if g == nil {
		return b
	}
	for _, p := range g.Positions {
		b.Extend(p)
	}
	return b
}

// Clone returns a deep copy of g.
func (g *Geometry) Clone() *Geometry {
	if g == nil {
		return nil
	}
	return &Geometry{
		Positions: append([][3]float32(nil), g.Positions...),
		Normals:   append([][3]float32(nil), g.Normals...),
		UVs:       append([][2]float32(nil), g.UVs...),
		Indices:   append([]uint32(nil), g.Indices...),
		Local:     append([][3]float32(nil), g.Local...),
	}
}

// Transform applies m to positions and its inverse transpose to normals,
// in place. The untransformed positions are kept in Local.
func (g *Geometry) Transform(m math.Mat4) {
	if g == nil {
		return
	}
	if g.Local == nil {
		g.Local = append([][3]float32(nil), g.Positions...)
	}
	for i, p := range g.Positions {
		g.Positions[i] = m.TransformPoint(p)
	}
	if len(g.Normals) == 0 {
		return
	}
	nm := m.Inverse().Transpose()
	for i, n := range g.Normals {
		g.Normals[i] = math.V3(nm.TransformDir(n)).Normalize().Array()
	}
}

// ComputeNormals replaces Normals with area-weighted vertex normals
// accumulated from the triangle list. Without indices, consecutive
// position triples form the triangles.
func (g *Geometry) ComputeNormals() {
	if g == nil {
		return
	}
	acc := make([]math.Vec3, len(g.Positions))
	n := len(g.Indices)
	if n == 0 {
		n = len(g.Positions)
	}
	idx := func(i int) int {
		if len(g.Indices) == 0 {
			return i
		}
		return int(g.Indices[i])
	}

	for t := 0; t+2 < n; t += 3 {
		i0, i1, i2 := idx(t), idx(t+1), idx(t+2)
		if i0 >= len(acc) || i1 >= len(acc) || i2 >= len(acc) {
			continue
		}
		p0 := math.V3(g.Positions[i0])
		face := math.V3(g.Positions[i1]).Sub(p0).Cross(math.V3(g.Positions[i2]).Sub(p0))
		acc[i0] = acc[i0].Add(face)
		acc[i1] = acc[i1].Add(face)
		acc[i2] = acc[i2].Add(face)
	}

	g.Normals = make([][3]float32, len(acc))
	for i, v := range acc {
		if v.Length() == 0 {
			g.Normals[i] = [3]float32{0, 0, 1}
			continue
		}
		g.Normals[i] = v.Normalize().Array()
	}
}
