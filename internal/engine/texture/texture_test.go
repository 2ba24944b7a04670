package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestSharpenedDoesNotMutateSource(t *testing.T) {
	src := New("base.png", solid(2, 2, color.RGBA{255, 0, 0, 255}))
	before := src.Sampler

	sharp := src.Sharpened()

	if src.Sampler != before {
		t.Errorf("source sampler changed: got %+v, want %+v", src.Sampler, before)
	}
	if sharp == src {
		t.Fatal("Sharpened should return a new texture")
	}
	if sharp.Image != src.Image {
		t.Error("Sharpened should share the decoded image")
	}
	if sharp.Sampler.MinFilter != FilterLinearMipmapLinear {
		t.Errorf("expected trilinear min filter, got %v", sharp.Sampler.MinFilter)
	}
	if !sharp.Sampler.Mipmaps {
		t.Error("expected mipmaps enabled")
	}
	if sharp.Sampler.Anisotropy != MaxAnisotropy {
		t.Errorf("expected max anisotropy, got %v", sharp.Sampler.Anisotropy)
	}
}

func TestNilTextureHelpers(t *testing.T) {
	var tex *Texture
	if tex.Sharpened() != nil {
		t.Error("Sharpened on nil should return nil")
	}
	if tex.WithSampler(DefaultSampler()) != nil {
		t.Error("WithSampler on nil should return nil")
	}
	if tex.Transparent() {
		t.Error("nil texture should not be transparent")
	}
}

func TestTransparent(t *testing.T) {
	opaque := New("a", solid(2, 2, color.RGBA{10, 10, 10, 255}))
	if opaque.Transparent() {
		t.Error("expected opaque texture")
	}

	img := solid(2, 2, color.RGBA{10, 10, 10, 255})
	img.SetRGBA(1, 1, color.RGBA{0, 0, 0, 0})
	if !New("b", img).Transparent() {
		t.Error("expected transparent texture")
	}
}

func TestToRGBAConvertsAndRebases(t *testing.T) {
	gray := image.NewGray(image.Rect(4, 4, 6, 6))
	gray.SetGray(4, 4, color.Gray{Y: 200})

	rgba := ToRGBA(gray)
	if rgba.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Errorf("expected bounds at origin, got %v", rgba.Bounds())
	}
	if got := rgba.RGBAAt(0, 0); got.R != 200 || got.A != 255 {
		t.Errorf("expected converted texel (200,...,255), got %+v", got)
	}
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(3, 2, color.RGBA{0, 255, 0, 255})); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}

	tex, err := Load("screen.png", buf.Bytes())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tex.Image.Bounds().Dx() != 3 || tex.Image.Bounds().Dy() != 2 {
		t.Errorf("expected 3x2 image, got %v", tex.Image.Bounds())
	}
	if tex.Sampler != DefaultSampler() {
		t.Errorf("expected default sampler, got %+v", tex.Sampler)
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode("broken.png", []byte("not an image")); err == nil {
		t.Error("expected error decoding garbage, got nil")
	}
	if _, err := Decode("broken.tga", []byte{1, 2}); err == nil {
		t.Error("expected error decoding truncated tga, got nil")
	}
}
