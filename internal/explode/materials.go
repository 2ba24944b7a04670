package explode

import (
	"image/color"

	"github.com/Faultbox/phone-teardown/internal/engine/texture"
	"github.com/Faultbox/phone-teardown/internal/material"
)

// Draw priorities. Transparent glass must composite last, after every
// opaque layer behind it.
const (
	OrderBody      = 0
	OrderInternals = 0
	OrderDisplay   = 1
	OrderBezel     = 2
	OrderFront     = 3
)

// FrontOpacity is the alpha of the clear front pane.
const FrontOpacity = 0.15

// BezelMaterial is the opaque dark trim around the front pane.
func BezelMaterial() *material.Material {
	return &material.Material{
		Name:       "glass_bezel",
		Color:      color.RGBA{R: 12, G: 12, B: 14, A: 255},
		Roughness:  0.15,
		Metalness:  0,
		Opacity:    1,
		Shading:    material.ShadingStandard,
		DepthWrite: true,
		DepthTest:  true,
		ToneMapped: true,
		PolygonOffset: material.PolygonOffset{
			Enabled: true,
			Factor:  -1,
			Units:   -1,
		},
		RenderOrder: OrderBezel,
	}
}

// FrontMaterial is the translucent front pane. It does not write depth so
// the layers behind it stay visible through it.
func FrontMaterial() *material.Material {
	return &material.Material{
		Name:        "glass_front",
		Color:       color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Roughness:   0,
		Metalness:   0,
		Opacity:     FrontOpacity,
		Shading:     material.ShadingStandard,
		Transparent: true,
		DepthWrite:  false,
		DepthTest:   true,
		ToneMapped:  true,
		PolygonOffset: material.PolygonOffset{
			Enabled: true,
			Factor:  -2,
			Units:   -2,
		},
		RenderOrder: OrderFront,
	}
}

// DisplayMaterial shows tex unlit and without tone mapping, so the screen
// image keeps its authored brightness.
func DisplayMaterial(tex *texture.Texture) *material.Material {
	return &material.Material{
		Name:        "display",
		Color:       color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Opacity:     1,
		Shading:     material.ShadingUnlit,
		DepthWrite:  true,
		DepthTest:   true,
		ToneMapped:  false,
		RenderOrder: OrderDisplay,
		Maps:        material.Maps{BaseColor: tex},
	}
}

// BodyMaterial derives an opaque copy of the mesh's own material with every
// texture channel sharpened. base is left untouched.
func BodyMaterial(base *material.Material) *material.Material {
	m := base.Clone()
	m.Transparent = false
	m.Opacity = 1
	m.DepthWrite = true
	m.DepthTest = true
	m.RenderOrder = OrderBody
	m.Maps.Each(func(ch **texture.Texture) {
		*ch = (*ch).Sharpened()
	})
	return m
}

// InternalsMaterial shows the teardown illustration behind the display.
func InternalsMaterial(tex *texture.Texture) *material.Material {
	return &material.Material{
		Name:        "internals",
		Color:       color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Opacity:     1,
		Shading:     material.ShadingUnlit,
		DepthWrite:  true,
		DepthTest:   true,
		DoubleSided: true,
		ToneMapped:  true,
		RenderOrder: OrderInternals,
		Maps:        material.Maps{BaseColor: tex},
	}
}

// displaySampler is the sampler for the screen texture. Its source image is
// already top-down, so row flipping stays off.
func displaySampler() texture.Sampler {
	return texture.Sampler{
		FlipY:      false,
		SRGB:       true,
		Mipmaps:    true,
		MinFilter:  texture.FilterLinearMipmapLinear,
		MagFilter:  texture.FilterLinear,
		Anisotropy: texture.MaxAnisotropy,
		WrapS:      texture.WrapClampToEdge,
		WrapT:      texture.WrapClampToEdge,
	}
}

// PrepareDisplayTexture returns the display texture configured for
// sampling on the repaired screen UVs.
func PrepareDisplayTexture(tex *texture.Texture) *texture.Texture {
	return tex.WithSampler(displaySampler())
}

// PrepareInternalsTexture returns the internals texture with the same
// filtering as the display but the default row flip.
func PrepareInternalsTexture(tex *texture.Texture) *texture.Texture {
	s := displaySampler()
	s.FlipY = true
	return tex.WithSampler(s)
}
