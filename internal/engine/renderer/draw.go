package renderer

import (
	"cmp"
	"slices"

	"github.com/Faultbox/phone-teardown/internal/material"
	"github.com/Faultbox/phone-teardown/internal/scene"
	"github.com/Faultbox/phone-teardown/pkg/math"
)

// Draw is one mesh ready for submission.
type Draw struct {
	Node     *scene.Node
	Material *material.Material
	World    math.Mat4
	Depth    float32 // Squared distance from the camera
	seq      int
}

// Blended reports whether d goes through the blended pass.
func (d *Draw) Blended() bool {
	return d.Material.IsBlended()
}

// CollectDraws appends every visible mesh under root to dst, composing
// world matrices on the way down. Invisible nodes hide their subtree.
func CollectDraws(dst []Draw, root *scene.Node, camera [3]float32) []Draw {
	if root == nil {
		return dst
	}
	var parent math.Mat4
	if root.Parent != nil {
		parent = root.Parent.WorldMatrix()
	} else {
		parent = math.Identity()
	}
	return collect(dst, root, parent, camera)
}

func collect(dst []Draw, n *scene.Node, parent math.Mat4, camera [3]float32) []Draw {
	if !n.Visible {
		return dst
	}
	world := parent.Mul(n.LocalMatrix())
	if n.IsMesh() && n.Geometry.VertexCount() > 0 {
		mat := n.Material
		if mat == nil {
			mat = defaultMaterial
		}
		center := world.TransformPoint(n.Geometry.Bounds().Center())
		d := math.V3(center).Sub(math.V3(camera))
		dst = append(dst, Draw{
			Node:     n,
			Material: mat,
			World:    world,
			Depth:    d.Dot(d),
			seq:      len(dst),
		})
	}
	for _, c := range n.Children {
		dst = collect(dst, c, world, camera)
	}
	return dst
}

var defaultMaterial = material.Default()

// SortDraws orders draws for submission: the opaque pass first, then the
// blended pass. Inside a pass lower RenderOrder draws first; blended draws
// with equal order go back to front, and anything else keeps graph order.
func SortDraws(draws []Draw) {
	slices.SortStableFunc(draws, func(a, b Draw) int {
		ab, bb := a.Blended(), b.Blended()
		if ab != bb {
			if ab {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(a.Material.RenderOrder, b.Material.RenderOrder); c != 0 {
			return c
		}
		if ab {
			if c := cmp.Compare(b.Depth, a.Depth); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.seq, b.seq)
	})
}
