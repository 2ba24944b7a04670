// Package texture provides image decoding and sampler descriptors for textures.
package texture

import (
	"image"
	"image/draw"
)

// Filter is a texture sampling filter.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
	// FilterLinearMipmapLinear is trilinear filtering; it only applies to
	// minification and requires mipmaps.
	FilterLinearMipmapLinear
)

// Wrap is a texture coordinate wrapping mode.
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
	WrapMirroredRepeat
)

// MaxAnisotropy requests the highest anisotropy level the device supports.
const MaxAnisotropy float32 = -1

// Sampler holds the upload and sampling parameters of a texture.
type Sampler struct {
	FlipY      bool // Flip rows at upload time
	SRGB       bool // Interpret texels as sRGB-encoded color
	Mipmaps    bool
	MinFilter  Filter
	MagFilter  Filter
	Anisotropy float32 // 1 = off, MaxAnisotropy = device maximum
	WrapS      Wrap
	WrapT      Wrap
}

// DefaultSampler returns the parameters a freshly imported texture has.
func DefaultSampler() Sampler {
	return Sampler{
		FlipY:      true,
		Mipmaps:    true,
		MinFilter:  FilterLinearMipmapLinear,
		MagFilter:  FilterLinear,
		Anisotropy: 1,
		WrapS:      WrapRepeat,
		WrapT:      WrapRepeat,
	}
}

// Texture pairs a decoded image with its sampler. The image is shared
// between every Texture derived from it and must not be modified.
type Texture struct {
	Name    string
	Image   *image.RGBA
	Sampler Sampler
}

// New wraps an image with the default sampler.
func New(name string, img image.Image) *Texture {
	return &Texture{
		Name:    name,
		Image:   ToRGBA(img),
		Sampler: DefaultSampler(),
	}
}

// WithSampler returns a copy of t using s. The image is not copied.
func (t *Texture) WithSampler(s Sampler) *Texture {
	if t == nil {
		return nil
	}
	return &Texture{Name: t.Name, Image: t.Image, Sampler: s}
}

// Sharpened returns a copy of t with trilinear mipmapped minification
// and maximum anisotropic filtering.
func (t *Texture) Sharpened() *Texture {
	if t == nil {
		return nil
	}
	s := t.Sampler
	s.Mipmaps = true
	s.MinFilter = FilterLinearMipmapLinear
	s.Anisotropy = MaxAnisotropy
	return t.WithSampler(s)
}

// Transparent reports whether any texel has alpha below 255.
func (t *Texture) Transparent() bool {
	if t == nil || t.Image == nil {
		return false
	}
	pix := t.Image.Pix
	for i := 3; i < len(pix); i += 4 {
		if pix[i] < 255 {
			return true
		}
	}
	return false
}

// ToRGBA converts any image.Image to *image.RGBA, returning rgba images as is.
func ToRGBA(img image.Image) *image.RGBA {
	if img == nil {
		return nil
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
