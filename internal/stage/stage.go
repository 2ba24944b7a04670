// Package stage composes a classified phone model into a renderable scene:
// layer groups, internals plane, light rig, contact shadow and camera, with
// progress and pointer input routed to the explode pipeline.
package stage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/phone-teardown/internal/config"
	"github.com/Faultbox/phone-teardown/internal/engine/camera"
	"github.com/Faultbox/phone-teardown/internal/engine/picking"
	"github.com/Faultbox/phone-teardown/internal/engine/renderer"
	"github.com/Faultbox/phone-teardown/internal/engine/texture"
	"github.com/Faultbox/phone-teardown/internal/explode"
	"github.com/Faultbox/phone-teardown/internal/scene"
)

// Textures are the images the stage needs besides the model's own.
type Textures struct {
	Display   *texture.Texture
	Internals *texture.Texture
}

// Config holds the stage settings.
type Config struct {
	Windows           explode.Windows
	Distance          float32
	Axis              explode.Axis
	InteractThreshold float32
	PanelThreshold    float32

	Internals         explode.PlaneShape
	InternalsPosition [3]float32

	FOV      float32 // Degrees
	MinPitch float32 // Degrees
	MaxPitch float32 // Degrees
	Margin   float32

	// Rules overrides the default mesh name rules when non-nil.
	Rules  []explode.Rule
	Logger *zap.Logger
}

// DefaultConfig returns the stock stage settings.
func DefaultConfig() Config {
	return Config{
		Windows:           explode.DefaultWindows(),
		Distance:          0.35,
		Axis:              explode.AxisZ,
		InteractThreshold: explode.DefaultInteractThreshold,
		PanelThreshold:    0.5,
		Internals:         explode.DefaultPlaneShape(),
		InternalsPosition: [3]float32{0, 0, 0.02},
		FOV:               35,
		MinPitch:          -60,
		MaxPitch:          60,
		Margin:            1.3,
	}
}

// ConfigFrom builds a stage Config from the viewer configuration.
func ConfigFrom(c *config.Config, log *zap.Logger) (Config, error) {
	axis, ok := explode.ParseAxis(c.Explode.Axis)
	if !ok {
		return Config{}, fmt.Errorf("explode axis %q: %w", c.Explode.Axis, config.ErrInvalid)
	}
	w := c.Explode.Windows
	in := c.Explode.Internals
	return Config{
		Windows: explode.Windows{
			Glass:   explode.Window{Start: w.Glass[0], End: w.Glass[1]},
			Display: explode.Window{Start: w.Display[0], End: w.Display[1]},
			Body:    explode.Window{Start: w.Body[0], End: w.Body[1]},
		},
		Distance:          c.Explode.Distance,
		Axis:              axis,
		InteractThreshold: c.Explode.InteractThreshold,
		PanelThreshold:    c.Explode.PanelThreshold,
		Internals: explode.PlaneShape{
			Width:    in.Width,
			Height:   in.Height,
			Radius:   in.Radius,
			Segments: in.Segments,
		},
		InternalsPosition: in.Position,
		FOV:               c.Camera.FOV,
		MinPitch:          c.Camera.MinPitch,
		MaxPitch:          c.Camera.MaxPitch,
		Margin:            c.Camera.Margin,
		Logger:            log,
	}, nil
}

// Stage is one composed, interactive instance of a phone model. It owns
// its scene graph; the source asset is never modified.
type Stage struct {
	cfg Config
	log *zap.Logger

	root    *scene.Node
	groups  [3]*scene.Node
	rest    [3]picking.AABB // Group bounds at zero offset, group-local
	buckets explode.Buckets
	shadow  *scene.Node

	tracker  *explode.Tracker
	animator *explode.Animator
	router   *explode.Router

	camera *camera.OrbitCamera
	lights renderer.Lighting

	viewportW, viewportH float32
	hover                explode.Layer
}

// New instantiates asset and composes the stage around the copy.
func New(asset *scene.Node, tex Textures, cfg Config) (*Stage, error) {
	if asset == nil {
		return nil, fmt.Errorf("stage: nil asset")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Stage{
		cfg:       cfg,
		log:       log,
		viewportW: 1,
		viewportH: 1,
	}

	_, buckets := explode.Instantiate(asset, tex.Display, explode.Options{
		Rules:  cfg.Rules,
		Logger: log,
	})
	s.buckets = buckets

	s.root = scene.NewNode("stage")
	for i, l := range explode.Layers {
		g := scene.NewNode(l.String())
		s.groups[i] = g
		s.root.Add(g)
	}
	s.moveIntoGroups()

	body := s.groups[2]
	if tex.Internals != nil {
		body.Add(explode.NewInternalsNode(cfg.Internals, cfg.InternalsPosition, tex.Internals))
	} else {
		log.Warn("no internals texture, skipping internals plane")
	}

	for i, g := range s.groups {
		s.rest[i] = groupBounds(g)
	}

	s.tracker = explode.NewTracker(cfg.Windows)
	s.animator = explode.NewAnimator(s.tracker, explode.AnimatorConfig{
		Distance:          cfg.Distance,
		Axis:              cfg.Axis,
		InteractThreshold: cfg.InteractThreshold,
	})
	for i, l := range explode.Layers {
		s.animator.Attach(l, s.groups[i])
	}
	s.router = explode.NewRouter(s.animator)

	model := s.Bounds()
	s.shadow = NewContactShadow(model)
	if s.shadow != nil {
		s.root.Add(s.shadow)
	}
	s.lights = DefaultLighting(model)

	s.camera = camera.NewOrbitCamera(cfg.FOV)
	s.camera.SetPitchLimits(cfg.MinPitch, cfg.MaxPitch)
	reach := s.ExplodedBounds()
	if !reach.IsEmpty() {
		s.camera.FitToBounds(reach.Min, reach.Max, cfg.Margin)
	}

	s.animator.Update()

	log.Info("stage composed",
		zap.Int("meshes", buckets.Len()),
		zap.Float32("distance", cfg.Distance),
		zap.Bool("internals", tex.Internals != nil),
	)
	return s, nil
}

// moveIntoGroups reparents every classified mesh under its layer group,
// baking the mesh's accumulated placement into its own transform.
func (s *Stage) moveIntoGroups() {
	type placement struct {
		node    *scene.Node
		group   *scene.Node
		pos     [3]float32
		scale   [3]float32
		visible bool
	}
	var moves []placement
	for i, l := range explode.Layers {
		for _, n := range s.buckets.Layer(l) {
			w := n.WorldMatrix()
			moves = append(moves, placement{
				node:    n,
				group:   s.groups[i],
				pos:     [3]float32{w[12], w[13], w[14]},
				scale:   [3]float32{w[0], w[5], w[10]},
				visible: effectiveVisible(n),
			})
		}
	}
	// Worlds are captured before any node moves, since meshes may nest.
	for _, m := range moves {
		m.node.Position = m.pos
		m.node.Scale = m.scale
		m.node.Visible = m.visible
		m.group.Add(m.node)
	}
	for _, m := range moves {
		m.node.Children = pruneNonMesh(m.node.Children)
	}
}

func effectiveVisible(n *scene.Node) bool {
	for ; n != nil; n = n.Parent {
		if !n.Visible {
			return false
		}
	}
	return true
}

// pruneNonMesh drops leftover transform-only children.
func pruneNonMesh(children []*scene.Node) []*scene.Node {
	kept := children[:0]
	for _, c := range children {
		if c.IsMesh() {
			kept = append(kept, c)
		} else {
			c.Parent = nil
		}
	}
	return kept
}

func groupBounds(g *scene.Node) picking.AABB {
	box := picking.Empty()
	for _, c := range g.Children {
		b := c.WorldBounds()
		if !b.Valid() {
			continue
		}
		box = box.Union(picking.NewAABB(b.Min, b.Max))
	}
	return box
}

// Root returns the scene graph to render.
func (s *Stage) Root() *scene.Node {
	return s.root
}

// Group returns the group node of l.
func (s *Stage) Group(l explode.Layer) *scene.Node {
	for i, layer := range explode.Layers {
		if layer == l {
			return s.groups[i]
		}
	}
	return nil
}

// Buckets returns the classification result.
func (s *Stage) Buckets() explode.Buckets {
	return s.buckets
}

// Camera returns the orbit camera rig.
func (s *Stage) Camera() *camera.OrbitCamera {
	return s.camera
}

// Lighting returns the light rig.
func (s *Stage) Lighting() renderer.Lighting {
	return s.lights
}

// Bounds returns the union of every layer at rest.
func (s *Stage) Bounds() picking.AABB {
	box := picking.Empty()
	for _, b := range s.rest {
		box = box.Union(b)
	}
	return box
}

// ExplodedBounds returns the space the layers cover over the whole
// animation, rest pose and full separation.
func (s *Stage) ExplodedBounds() picking.AABB {
	box := s.Bounds()
	travel := [3]float32{2, 1, 0}
	for i, b := range s.rest {
		var d [3]float32
		d[s.cfg.Axis] = -s.cfg.Distance * travel[i]
		box = box.Union(b.Translate(d))
	}
	return box
}

// HandleMessage applies one inbound progress message. Malformed messages
// are ignored.
func (s *Stage) HandleMessage(msg []byte) bool {
	if !s.tracker.Apply(msg) {
		s.log.Debug("ignored feed message", zap.ByteString("message", msg))
		return false
	}
	return true
}

// SetProgress sets global progress directly.
func (s *Stage) SetProgress(v float32) {
	s.tracker.Update(v)
}

// Progress returns the current progress snapshot.
func (s *Stage) Progress() explode.Progress {
	return s.tracker.Progress()
}

// Frame advances the layer animation to the latest progress.
func (s *Stage) Frame() {
	s.animator.Update()
}

// State returns the animated state of layer l.
func (s *Stage) State(l explode.Layer) explode.GroupState {
	return s.animator.State(l)
}

// Exploded reports whether layers accept interaction.
func (s *Stage) Exploded() bool {
	return s.animator.Exploded()
}

// PanelExploded reports whether the info panel should show the exploded
// copy. Its threshold is independent of the interaction threshold.
func (s *Stage) PanelExploded() bool {
	return s.tracker.Progress().Global > s.cfg.PanelThreshold
}

// OnSelect registers a selection observer.
func (s *Stage) OnSelect(fn func(explode.Layer)) {
	s.router.OnSelect(fn)
}

// Selected returns the selected layer.
func (s *Stage) Selected() explode.Layer {
	return s.router.Selected()
}

// Cursor returns the pointer hint.
func (s *Stage) Cursor() explode.Cursor {
	return s.router.Cursor()
}
