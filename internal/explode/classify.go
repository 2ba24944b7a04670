package explode

import (
	"go.uber.org/zap"

	"github.com/Faultbox/phone-teardown/internal/engine/texture"
	"github.com/Faultbox/phone-teardown/internal/scene"
)

// Options configures classification.
type Options struct {
	// Rules overrides DefaultRules when non-nil.
	Rules []Rule
	// Logger receives diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// Buckets holds the classified meshes of one scene instance per layer.
type Buckets struct {
	Glass   []*scene.Node
	Display []*scene.Node
	Body    []*scene.Node
}

// Layer returns the bucket for l.
func (b *Buckets) Layer(l Layer) []*scene.Node {
	switch l {
	case LayerGlass:
		return b.Glass
	case LayerDisplay:
		return b.Display
	case LayerBody:
		return b.Body
	}
	return nil
}

// Len returns the total number of classified meshes.
func (b *Buckets) Len() int {
	return len(b.Glass) + len(b.Display) + len(b.Body)
}

func (b *Buckets) add(l Layer, n *scene.Node) {
	switch l {
	case LayerGlass:
		b.Glass = append(b.Glass, n)
	case LayerDisplay:
		b.Display = append(b.Display, n)
	default:
		b.Body = append(b.Body, n)
	}
}

// Instantiate deep-copies asset and classifies the copy. The returned root
// is owned by the caller; asset is never modified and may back any number
// of instances.
func Instantiate(asset *scene.Node, display *texture.Texture, opts Options) (*scene.Node, Buckets) {
	root := asset.Clone()
	return root, Classify(root, display, opts)
}

// Classify sorts every mesh under root into a layer bucket and assigns
// per-kind materials, repairing display UVs in place. It must only be run
// on a graph the caller owns, once.
func Classify(root *scene.Node, display *texture.Texture, opts Options) Buckets {
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	screen := PrepareDisplayTexture(display)

	var b Buckets
	root.Walk(func(n *scene.Node) {
		if !n.IsMesh() {
			return
		}
		kind := ClassifyName(n.Name, rules)
		switch kind {
		case KindBezel:
			n.Material = BezelMaterial()
		case KindFront:
			n.Material = FrontMaterial()
		case KindDisplay:
			if !RepairDisplayUVs(n.Geometry) {
				log.Debug("display mesh has no usable uv/position data, keeping raw uvs",
					zap.String("mesh", n.Name),
					zap.Int("vertices", n.Geometry.VertexCount()),
					zap.Int("uvs", len(n.Geometry.UVs)),
				)
			}
			n.Material = DisplayMaterial(screen)
		default:
			n.Material = BodyMaterial(n.Material)
		}
		b.add(kind.Layer(), n)
		log.Debug("classified mesh",
			zap.String("mesh", n.Name),
			zap.Stringer("kind", kind),
			zap.Int("render_order", n.Material.RenderOrder),
		)
	})

	log.Info("scene classified",
		zap.Int("glass", len(b.Glass)),
		zap.Int("display", len(b.Display)),
		zap.Int("body", len(b.Body)),
	)
	return b
}
