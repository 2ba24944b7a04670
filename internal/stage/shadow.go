package stage

import (
	"image"
	"image/color"
	"sync"

	"github.com/Faultbox/phone-teardown/internal/engine/picking"
	"github.com/Faultbox/phone-teardown/internal/engine/texture"
	"github.com/Faultbox/phone-teardown/internal/material"
	"github.com/Faultbox/phone-teardown/internal/scene"
)

const (
	shadowTextureSize = 128
	shadowOpacity     = 0.55
	shadowOrder       = -1
	shadowSpread      = 1.6  // Ground plane size relative to the footprint
	shadowLift        = 1e-3 // Gap below the model to avoid z-fighting
)

var (
	shadowOnce sync.Once
	shadowTex  *texture.Texture
)

// ContactShadowTexture returns the shared radial falloff texture: black,
// with alpha fading quadratically from the center to zero at the edge.
func ContactShadowTexture() *texture.Texture {
	shadowOnce.Do(func() {
		shadowTex = radialTexture(shadowTextureSize)
	})
	return shadowTex
}

func radialTexture(size int) *texture.Texture {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float32(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := (float32(x)-c)/c, (float32(y)-c)/c
			d := dx*dx + dy*dy
			a := float32(0)
			if d < 1 {
				f := 1 - d
				a = f * f
			}
			img.SetRGBA(x, y, color.RGBA{A: uint8(a*255 + 0.5)})
		}
	}
	t := texture.New("contact_shadow", img)
	t.Sampler = texture.Sampler{
		Mipmaps:    true,
		MinFilter:  texture.FilterLinearMipmapLinear,
		MagFilter:  texture.FilterLinear,
		Anisotropy: 1,
		WrapS:      texture.WrapClampToEdge,
		WrapT:      texture.WrapClampToEdge,
	}
	return t
}

// ContactShadowMaterial is the unlit, blended, depth-read-only ground
// material. Its order of -1 puts it first among blended draws, after every
// opaque mesh.
func ContactShadowMaterial() *material.Material {
	return &material.Material{
		Name:        "contact_shadow",
		Color:       color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Opacity:     shadowOpacity,
		Shading:     material.ShadingUnlit,
		Transparent: true,
		DepthWrite:  false,
		DepthTest:   true,
		DoubleSided: true,
		ToneMapped:  false,
		RenderOrder: shadowOrder,
		Maps:        material.Maps{BaseColor: ContactShadowTexture()},
	}
}

// NewContactShadow places a shadow quad just under box. It returns nil for
// an empty box.
func NewContactShadow(box picking.AABB) *scene.Node {
	if box.IsEmpty() {
		return nil
	}
	w := (box.Max[0] - box.Min[0]) * shadowSpread
	d := (box.Max[2] - box.Min[2]) * shadowSpread
	side := max(w, d, 1e-3)

	n := scene.NewMesh("contact_shadow", scene.Quad(side, side), ContactShadowMaterial())
	n.Position = [3]float32{
		(box.Min[0] + box.Max[0]) / 2,
		box.Min[1] - shadowLift,
		(box.Min[2] + box.Max[2]) / 2,
	}
	return n
}
