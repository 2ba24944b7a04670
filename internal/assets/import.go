package assets

import (
	"fmt"
	"image/color"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/phone-teardown/internal/engine/texture"
	"github.com/Faultbox/phone-teardown/internal/material"
	"github.com/Faultbox/phone-teardown/internal/scene"
	"github.com/Faultbox/phone-teardown/pkg/formats"
	"github.com/Faultbox/phone-teardown/pkg/math"
)

// importer converts one parsed GLB into a scene graph. Materials and
// textures are decoded once per index and shared by every mesh that
// references them.
type importer struct {
	g         *formats.GLB
	log       *zap.Logger
	materials map[int]*material.Material
	textures  map[texKey]*texture.Texture
	visiting  map[int]bool
}

type texKey struct {
	index int
	srgb  bool
}

// Import builds a scene graph from g under a root named name. Node
// transforms are baked into vertex data, so every returned node has an
// identity transform and meshes are positioned by their vertices alone.
// Primitives that are not triangle lists are skipped.
func Import(g *formats.GLB, name string, log *zap.Logger) (*scene.Node, error) {
	if log == nil {
		log = zap.NewNop()
	}
	imp := &importer{
		g:         g,
		log:       log,
		materials: make(map[int]*material.Material),
		textures:  make(map[texKey]*texture.Texture),
		visiting:  make(map[int]bool),
	}

	root := scene.NewNode(name)
	for _, n := range g.SceneRoots() {
		child, err := imp.node(n, math.Identity())
		if err != nil {
			return nil, err
		}
		root.Add(child)
	}
	return root, nil
}

// localMatrix returns the glTF node transform, matrix or TRS.
func localMatrix(n *formats.Node) math.Mat4 {
	if n.Matrix != nil {
		return math.Mat4(*n.Matrix)
	}
	m := math.Identity()
	if n.Translation != nil {
		t := *n.Translation
		m = math.Translate(t[0], t[1], t[2])
	}
	if n.Rotation != nil {
		m = m.Mul(math.FromQuat(*n.Rotation))
	}
	if n.Scale != nil {
		s := *n.Scale
		m = m.Mul(math.Scale(s[0], s[1], s[2]))
	}
	return m
}

func (imp *importer) node(index int, parent math.Mat4) (*scene.Node, error) {
	doc := &imp.g.Document
	if index < 0 || index >= len(doc.Nodes) {
		return nil, fmt.Errorf("node %d out of range", index)
	}
	if imp.visiting[index] {
		return nil, fmt.Errorf("node %d is its own ancestor", index)
	}
	imp.visiting[index] = true
	defer delete(imp.visiting, index)

	gn := &doc.Nodes[index]
	world := parent.Mul(localMatrix(gn))

	name := gn.Name
	if name == "" && gn.Mesh != nil && *gn.Mesh >= 0 && *gn.Mesh < len(doc.Meshes) {
		name = doc.Meshes[*gn.Mesh].Name
	}
	if name == "" {
		name = "node_" + strconv.Itoa(index)
	}

	out := scene.NewNode(name)
	if gn.Mesh != nil {
		if err := imp.mesh(out, *gn.Mesh, world); err != nil {
			return nil, fmt.Errorf("node %s: %w", name, err)
		}
	}

	for _, c := range gn.Children {
		child, err := imp.node(c, world)
		if err != nil {
			return nil, err
		}
		out.Add(child)
	}
	return out, nil
}

// mesh attaches the primitives of mesh index to n. A single primitive
// becomes n's own geometry; several become child meshes named after n.
func (imp *importer) mesh(n *scene.Node, index int, world math.Mat4) error {
	doc := &imp.g.Document
	if index < 0 || index >= len(doc.Meshes) {
		return fmt.Errorf("mesh %d out of range", index)
	}
	prims := doc.Meshes[index].Primitives

	var built []*scene.Node
	for i := range prims {
		p := &prims[i]
		if mode := p.ModeOrDefault(); mode != formats.ModeTriangles {
			imp.log.Warn("skipping non-triangle primitive",
				zap.String("mesh", n.Name), zap.Int("primitive", i), zap.Int("mode", mode))
			continue
		}
		geom, err := imp.geometry(p, world)
		if err != nil {
			return fmt.Errorf("primitive %d: %w", i, err)
		}
		mat, err := imp.material(p.Material)
		if err != nil {
			return fmt.Errorf("primitive %d: %w", i, err)
		}
		built = append(built, scene.NewMesh(n.Name+"_"+strconv.Itoa(i), geom, mat))
	}

	switch len(built) {
	case 0:
	case 1:
		n.Geometry, n.Material = built[0].Geometry, built[0].Material
	default:
		for _, b := range built {
			n.Add(b)
		}
	}
	return nil
}

func (imp *importer) geometry(p *formats.Primitive, world math.Mat4) (*scene.Geometry, error) {
	posIdx, ok := p.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}

	g := &scene.Geometry{}
	var err error
	if g.Positions, err = imp.g.ReadVec3(posIdx); err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}
	if i, ok := p.Attributes["NORMAL"]; ok {
		if g.Normals, err = imp.g.ReadVec3(i); err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
	}
	if i, ok := p.Attributes["TEXCOORD_0"]; ok {
		if g.UVs, err = imp.g.ReadVec2(i); err != nil {
			return nil, fmt.Errorf("reading texcoords: %w", err)
		}
	}
	if p.Indices != nil {
		if g.Indices, err = imp.g.ReadIndices(*p.Indices); err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
		for _, ix := range g.Indices {
			if int(ix) >= len(g.Positions) {
				return nil, fmt.Errorf("index %d out of range for %d vertices", ix, len(g.Positions))
			}
		}
	}

	if len(g.Normals) != len(g.Positions) {
		g.ComputeNormals()
	}
	g.Transform(world)
	return g, nil
}

func colorFromFactor(f [4]float32) color.RGBA {
	c := func(v float32) uint8 { return uint8(math.Clamp(v, 0, 1)*255 + 0.5) }
	return color.RGBA{R: c(f[0]), G: c(f[1]), B: c(f[2]), A: c(f[3])}
}

// material converts a glTF material. A nil index gives the default material.
func (imp *importer) material(index *int) (*material.Material, error) {
	if index == nil {
		return material.Default(), nil
	}
	if m, ok := imp.materials[*index]; ok {
		return m, nil
	}
	doc := &imp.g.Document
	if *index < 0 || *index >= len(doc.Materials) {
		return nil, fmt.Errorf("material %d out of range", *index)
	}
	gm := &doc.Materials[*index]

	base := gm.PBR.BaseColor()
	m := material.Default()
	m.Name = gm.Name
	m.Color = colorFromFactor(base)
	m.Roughness = gm.PBR.Roughness()
	m.Metalness = gm.PBR.Metallic()
	m.Opacity = base[3]
	m.DoubleSided = gm.DoubleSided
	if gm.AlphaMode == formats.AlphaBlend {
		m.Transparent = true
		m.DepthWrite = false
	}

	var err error
	if gm.PBR != nil {
		if m.Maps.BaseColor, err = imp.texture(gm.PBR.BaseColorTexture, true); err != nil {
			return nil, err
		}
		if m.Maps.Roughness, err = imp.texture(gm.PBR.MetallicRoughnessTexture, false); err != nil {
			return nil, err
		}
		// metalness and roughness share one texture (B and G channels)
		m.Maps.Metalness = m.Maps.Roughness
	}
	if m.Maps.Normal, err = imp.texture(gm.NormalTexture, false); err != nil {
		return nil, err
	}
	if m.Maps.Occlusion, err = imp.texture(gm.OcclusionTexture, false); err != nil {
		return nil, err
	}

	imp.materials[*index] = m
	return m, nil
}

// mimeExt maps an embedded image MIME type to a decoder file extension.
func mimeExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/x-tga", "image/tga":
		return ".tga"
	}
	return ".png"
}

// texture decodes the texture referenced by info. glTF images are stored
// top row first, so rows are never flipped at upload.
func (imp *importer) texture(info *formats.TextureInfo, srgb bool) (*texture.Texture, error) {
	if info == nil {
		return nil, nil
	}
	key := texKey{info.Index, srgb}
	if t, ok := imp.textures[key]; ok {
		return t, nil
	}

	doc := &imp.g.Document
	if info.Index < 0 || info.Index >= len(doc.Textures) {
		return nil, fmt.Errorf("texture %d out of range", info.Index)
	}
	gt := &doc.Textures[info.Index]
	if gt.Source == nil {
		imp.log.Warn("texture has no image source", zap.Int("texture", info.Index))
		return nil, nil
	}

	data, mime, err := imp.g.ImageData(*gt.Source)
	if err != nil {
		return nil, err
	}
	name := doc.Images[*gt.Source].Name
	if name == "" {
		name = "image_" + strconv.Itoa(*gt.Source)
	}
	t, err := texture.Load(name+mimeExt(mime), data)
	if err != nil {
		return nil, fmt.Errorf("texture %d: %w", info.Index, err)
	}

	s := samplerFor(doc, gt.Sampler)
	s.SRGB = srgb
	t = t.WithSampler(s)

	imp.textures[key] = t
	return t, nil
}

// GL sampler enums used by glTF.
const (
	glNearest              = 9728
	glLinear               = 9729
	glNearestMipmapNearest = 9984
	glLinearMipmapNearest  = 9985
	glNearestMipmapLinear  = 9986
	glLinearMipmapLinear   = 9987
	glClampToEdge          = 33071
	glMirroredRepeat       = 33648
	glRepeat               = 10497
)

func samplerFor(doc *formats.Document, index *int) texture.Sampler {
	s := texture.DefaultSampler()
	s.FlipY = false
	if index == nil || *index < 0 || *index >= len(doc.Samplers) {
		return s
	}
	gs := doc.Samplers[*index]

	wrap := func(v *int) texture.Wrap {
		if v == nil {
			return texture.WrapRepeat
		}
		switch *v {
		case glClampToEdge:
			return texture.WrapClampToEdge
		case glMirroredRepeat:
			return texture.WrapMirroredRepeat
		}
		return texture.WrapRepeat
	}
	s.WrapS, s.WrapT = wrap(gs.WrapS), wrap(gs.WrapT)

	if gs.MagFilter != nil && *gs.MagFilter == glNearest {
		s.MagFilter = texture.FilterNearest
	}
	if gs.MinFilter != nil {
		switch *gs.MinFilter {
		case glNearest:
			s.MinFilter, s.Mipmaps = texture.FilterNearest, false
		case glLinear:
			s.MinFilter, s.Mipmaps = texture.FilterLinear, false
		case glNearestMipmapNearest, glLinearMipmapNearest, glNearestMipmapLinear, glLinearMipmapLinear:
			s.MinFilter = texture.FilterLinearMipmapLinear
		}
	}
	return s
}
