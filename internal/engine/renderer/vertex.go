package renderer

import (
	"image"

	"github.com/Faultbox/phone-teardown/internal/engine/texture"
	"github.com/Faultbox/phone-teardown/internal/scene"
)

// VertexStride is the number of floats per interleaved vertex:
// position(3) normal(3) uv(2).
const VertexStride = 8

// Interleave packs g into the vertex layout the mesh programs expect.
// Missing normals default to +Z and missing uvs to zero.
func Interleave(g *scene.Geometry) []float32 {
	n := g.VertexCount()
	if n == 0 {
		return nil
	}
	out := make([]float32, 0, n*VertexStride)
	for i, p := range g.Positions {
		normal := [3]float32{0, 0, 1}
		if i < len(g.Normals) {
			normal = g.Normals[i]
		}
		var uv [2]float32
		if i < len(g.UVs) {
			uv = g.UVs[i]
		}
		out = append(out, p[0], p[1], p[2], normal[0], normal[1], normal[2], uv[0], uv[1])
	}
	return out
}

// FlipRows returns the pixels of img with rows in bottom-up order.
func FlipRows(img *image.RGBA) []byte {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	out := make([]byte, rowLen*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		copy(out[(b.Dy()-1-y)*rowLen:], src)
	}
	return out
}

// Anisotropy resolves a requested anisotropy level against the device limit.
func Anisotropy(requested, limit float32) float32 {
	if requested == texture.MaxAnisotropy {
		return limit
	}
	return min(max(requested, 1), limit)
}
