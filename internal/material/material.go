// Package material describes surface materials and their draw-state policy.
//
// A Material is a plain value description. Scene code builds a new one for
// every assignment and never edits a material that another node may share.
package material

import (
	"image/color"

	"github.com/Faultbox/phone-teardown/internal/engine/texture"
)

// Shading selects the lighting model.
type Shading int

const (
	// ShadingStandard is the lit metallic/roughness model.
	ShadingStandard Shading = iota
	// ShadingUnlit outputs the base color (times texture) unchanged.
	ShadingUnlit
)

// PolygonOffset biases depth values to resolve coplanar surfaces.
// Negative values pull the surface toward the camera.
type PolygonOffset struct {
	Enabled bool
	Factor  float32
	Units   float32
}

// Maps holds the optional texture channels of a material.
type Maps struct {
	BaseColor *texture.Texture
	Normal    *texture.Texture
	Roughness *texture.Texture
	Metalness *texture.Texture
	Occlusion *texture.Texture
}

// Each calls fn for every non-nil channel, in a fixed order.
func (m *Maps) Each(fn func(**texture.Texture)) {
	for _, ch := range []**texture.Texture{&m.BaseColor, &m.Normal, &m.Roughness, &m.Metalness, &m.Occlusion} {
		if *ch != nil {
			fn(ch)
		}
	}
}

// Material is the render description of a surface.
type Material struct {
	Name string

	Color     color.RGBA
	Roughness float32
	Metalness float32
	Opacity   float32 // 0..1, only honored when Transparent is set

	Shading     Shading
	Transparent bool // Alpha blended
	DepthWrite  bool
	DepthTest   bool
	DoubleSided bool
	ToneMapped  bool

	PolygonOffset PolygonOffset

	// RenderOrder is the draw priority. Lower draws first.
	RenderOrder int

	Maps Maps
}

// Default returns an opaque mid-gray standard material.
func Default() *Material {
	return &Material{
		Name:       "default",
		Color:      color.RGBA{R: 200, G: 200, B: 200, A: 255},
		Roughness:  1,
		Metalness:  0,
		Opacity:    1,
		Shading:    ShadingStandard,
		DepthWrite: true,
		DepthTest:  true,
		ToneMapped: true,
	}
}

// Clone returns a copy of m. Texture descriptors are shared.
func (m *Material) Clone() *Material {
	if m == nil {
		return Default()
	}
	c := *m
	return &c
}

// IsBlended reports whether the material is drawn with alpha blending.
func (m *Material) IsBlended() bool {
	return m.Transparent && m.Opacity < 1
}
