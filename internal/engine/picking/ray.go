// Package picking provides ray casting and object picking utilities.
package picking

import (
	gomath "math"

	"github.com/Faultbox/phone-teardown/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    [3]float32
	Direction [3]float32 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := invViewProj.TransformPoint([3]float32{ndcX, ndcY, -1})
	far := invViewProj.TransformPoint([3]float32{ndcX, ndcY, 1})

	dir := math.V3(far).Sub(math.V3(near)).Normalize()
	return Ray{Origin: near, Direction: dir.Array()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) [3]float32 {
	return math.V3(r.Origin).Add(math.V3(r.Direction).Scale(t)).Array()
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - o) / d
		t2 := (box.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b [3]float32) AABB {
	var box AABB
	for i := 0; i < 3; i++ {
		box.Min[i] = min(a[i], b[i])
		box.Max[i] = max(a[i], b[i])
	}
	return box
}

// Empty returns a box that contains nothing and grows under Union.
func Empty() AABB {
	return AABB{
		Min: [3]float32{gomath.MaxFloat32, gomath.MaxFloat32, gomath.MaxFloat32},
		Max: [3]float32{-gomath.MaxFloat32, -gomath.MaxFloat32, -gomath.MaxFloat32},
	}
}

// IsEmpty reports whether the box contains no point.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Union returns the box covering b and o.
func (b AABB) Union(o AABB) AABB {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return AABB{
		Min: math.V3(b.Min).Min(math.V3(o.Min)).Array(),
		Max: math.V3(b.Max).Max(math.V3(o.Max)).Array(),
	}
}

// Translate returns b moved by d.
func (b AABB) Translate(d [3]float32) AABB {
	if b.IsEmpty() {
		return b
	}
	return AABB{
		Min: math.V3(b.Min).Add(math.V3(d)).Array(),
		Max: math.V3(b.Max).Add(math.V3(d)).Array(),
	}
}

// Nearest returns the index of the closest box the ray hits, or -1.
func Nearest(r Ray, boxes []AABB) (index int, t float32) {
	index, t = -1, float32(gomath.MaxFloat32)
	for i, b := range boxes {
		if b.IsEmpty() {
			continue
		}
		if d, ok := r.IntersectAABB(b); ok && d < t {
			index, t = i, d
		}
	}
	return index, t
}
