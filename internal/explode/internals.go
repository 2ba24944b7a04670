package explode

import (
	"sync"

	"github.com/Faultbox/phone-teardown/internal/engine/texture"
	"github.com/Faultbox/phone-teardown/internal/scene"
)

// PlaneShape describes the rounded internals plane.
type PlaneShape struct {
	Width    float32
	Height   float32
	Radius   float32
	Segments int
}

// DefaultPlaneShape matches the stock phone body cavity.
func DefaultPlaneShape() PlaneShape {
	return PlaneShape{Width: 0.68, Height: 1.44, Radius: 0.09, Segments: 12}
}

var (
	planeMu    sync.Mutex
	planeCache = map[PlaneShape]*scene.Geometry{}
)

// InternalsGeometry returns the rounded plane for shape, UV-mapped from its
// own positions with U mirrored. The geometry is built once per shape and
// shared read-only by every caller.
func InternalsGeometry(shape PlaneShape) *scene.Geometry {
	planeMu.Lock()
	defer planeMu.Unlock()

	if g, ok := planeCache[shape]; ok {
		return g
	}
	g := scene.RoundedRect(shape.Width, shape.Height, shape.Radius, shape.Segments)
	g.UVs = make([][2]float32, len(g.Positions))
	projectXY(g.Positions, g.UVs, true, false)
	planeCache[shape] = g
	return g
}

// NewInternalsNode creates a mesh node for the internals illustration at
// position, inside the body layer.
func NewInternalsNode(shape PlaneShape, position [3]float32, tex *texture.Texture) *scene.Node {
	n := scene.NewMesh("internals", InternalsGeometry(shape), InternalsMaterial(PrepareInternalsTexture(tex)))
	n.Position = position
	return n
}
