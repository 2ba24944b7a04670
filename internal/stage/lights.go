package stage

import (
	"github.com/Faultbox/phone-teardown/internal/engine/picking"
	"github.com/Faultbox/phone-teardown/internal/engine/renderer"
	"github.com/Faultbox/phone-teardown/pkg/math"
)

// DefaultLighting builds the studio rig for a model occupying box: soft
// ambient, a warm key from the upper right front, a cool fill from the
// left, and a rim point light behind and above.
func DefaultLighting(box picking.AABB) renderer.Lighting {
	center := math.Vec3{}
	radius := float32(1)
	if !box.IsEmpty() {
		lo, hi := math.V3(box.Min), math.V3(box.Max)
		center = lo.Add(hi).Scale(0.5)
		radius = max(hi.Sub(lo).Length()/2, 1e-3)
	}
	rim := center.Add(math.Vec3{X: -0.6 * radius, Y: 1.2 * radius, Z: -2 * radius})

	return renderer.Lighting{
		Ambient:      [3]float32{0.22, 0.22, 0.25},
		KeyDir:       math.Vec3{X: -0.5, Y: -0.8, Z: -0.6}.Normalize().Array(),
		KeyColor:     [3]float32{1.6, 1.5, 1.4},
		FillDir:      math.Vec3{X: 0.7, Y: -0.3, Z: -0.4}.Normalize().Array(),
		FillColor:    [3]float32{0.35, 0.4, 0.5},
		RimPos:       rim.Array(),
		RimColor:     [3]float32{1.2, 1.2, 1.3},
		RimRange:     radius * 6,
		EnvTop:       [3]float32{0.9, 0.92, 0.95},
		EnvBottom:    [3]float32{0.08, 0.08, 0.1},
		EnvIntensity: 1,
	}
}
