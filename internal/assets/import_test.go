package assets

import (
	"image/color"
	"strings"
	"testing"

	"github.com/Faultbox/phone-teardown/internal/engine/texture"
	"github.com/Faultbox/phone-teardown/internal/explode"
	"github.com/Faultbox/phone-teardown/pkg/formats"
)

var tri = [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

func TestImportHierarchyAndTransforms(t *testing.T) {
	b := formats.NewBuilder()
	glassMesh := b.AddMesh("GlassMesh", tri, [][2]float32{{0, 0}, {1, 0}, {0, 1}}, []uint32{0, 1, 2}, -1)
	bodyMesh := b.AddMesh("Body_Frame", tri, nil, nil, -1)

	glass := b.AddNode(formats.Node{Name: "Glass_Front", Mesh: &glassMesh, Translation: &[3]float32{0, 0, 1}})
	body := b.AddNode(formats.Node{Mesh: &bodyMesh, Scale: &[3]float32{2, 2, 2}})
	group := b.AddNode(formats.Node{Name: "Phone", Children: []int{glass, body}, Translation: &[3]float32{10, 0, 0}})
	b.Doc.Scenes = []formats.Scene{{Nodes: []int{group}}}

	data, _ := b.Bytes()
	g, err := formats.ParseGLB(data)
	if err != nil {
		t.Fatalf("ParseGLB failed: %v", err)
	}
	root, err := Import(g, "phone", nil)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	phone := root.Find("Phone")
	if phone == nil || len(phone.Children) != 2 {
		t.Fatalf("expected Phone group with 2 children")
	}
	if phone.Position != [3]float32{} || phone.Scale != [3]float32{1, 1, 1} {
		t.Errorf("expected identity transform on imported node, got %v %v", phone.Position, phone.Scale)
	}

	front := root.Find("Glass_Front")
	if front == nil || !front.IsMesh() {
		t.Fatal("expected Glass_Front mesh")
	}
	if front.Geometry.Positions[1] != [3]float32{11, 0, 1} {
		t.Errorf("expected baked position [11 0 1], got %v", front.Geometry.Positions[1])
	}
	if !front.Geometry.HasUVs() {
		t.Error("expected UVs on Glass_Front")
	}
	if len(front.Geometry.Normals) != 3 {
		t.Error("expected generated normals")
	}

	// unnamed node falls back to its mesh name
	frame := root.Find("Body_Frame")
	if frame == nil {
		t.Fatal("expected node named after its mesh")
	}
	if frame.Geometry.Positions[2] != [3]float32{10, 2, 0} {
		t.Errorf("expected scaled position [10 2 0], got %v", frame.Geometry.Positions[2])
	}
	if frame.Geometry.Indices != nil {
		t.Error("expected unindexed geometry to stay unindexed")
	}
}

func TestImportMultiPrimitive(t *testing.T) {
	b := formats.NewBuilder()
	mesh := b.AddMesh("Display", tri, nil, nil, -1)
	b.Doc.Meshes[mesh].Primitives = append(b.Doc.Meshes[mesh].Primitives, b.Doc.Meshes[mesh].Primitives[0])
	lines := formats.ModeLines
	b.Doc.Meshes[mesh].Primitives = append(b.Doc.Meshes[mesh].Primitives, formats.Primitive{
		Attributes: map[string]int{"POSITION": 0},
		Mode:       &lines,
	})
	b.Doc.Scenes = []formats.Scene{{Nodes: []int{b.AddNode(formats.Node{Name: "Display_OLED", Mesh: &mesh})}}}

	data, _ := b.Bytes()
	g, _ := formats.ParseGLB(data)
	root, err := Import(g, "phone", nil)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	n := root.Find("Display_OLED")
	if n.IsMesh() {
		t.Error("multi-primitive node should be a group")
	}
	if len(n.Children) != 2 {
		t.Fatalf("expected 2 triangle primitives, got %d", len(n.Children))
	}
	for _, c := range n.Children {
		if !strings.HasPrefix(c.Name, "Display_OLED_") {
			t.Errorf("unexpected primitive name %s", c.Name)
		}
		if explode.ClassifyName(c.Name, explode.DefaultRules) != explode.KindDisplay {
			t.Errorf("primitive %s should keep the display classification", c.Name)
		}
	}
}

func TestImportRotatedDisplayRepair(t *testing.T) {
	quad := [][3]float32{{-1, -2, 0}, {1, -2, 0}, {1, 2, 0}, {-1, 2, 0}}
	b := formats.NewBuilder()
	mesh := b.AddMesh("Screen", quad, make([][2]float32, 4), []uint32{0, 1, 2, 0, 2, 3}, -1)
	// 90 degrees about X, column-major.
	rotX := [16]float32{
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, -1, 0, 0,
		0, 0, 0, 1,
	}
	b.Doc.Scenes = []formats.Scene{{Nodes: []int{b.AddNode(formats.Node{Name: "Display_OLED", Mesh: &mesh, Matrix: &rotX})}}}

	data, _ := b.Bytes()
	g, err := formats.ParseGLB(data)
	if err != nil {
		t.Fatalf("ParseGLB failed: %v", err)
	}
	root, err := Import(g, "phone", nil)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	display := root.Find("Display_OLED")
	if display == nil || !display.IsMesh() {
		t.Fatal("expected Display_OLED mesh")
	}
	if p := display.Geometry.Positions[2]; p != [3]float32{1, 0, 2} {
		t.Errorf("expected rotation baked into positions, got %v", p)
	}

	buckets := explode.Classify(root, nil, explode.Options{})
	if len(buckets.Display) != 1 {
		t.Fatalf("expected one display mesh, got %d", len(buckets.Display))
	}
	want := [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	for i, uv := range display.Geometry.UVs {
		if uv != want[i] {
			t.Errorf("vertex %d: expected uv %v, got %v", i, want[i], uv)
		}
	}
}

func TestImportMaterial(t *testing.T) {
	b := formats.NewBuilder()
	tex := b.AddImage("albedo", "image/png", pngBytes(t, color.RGBA{G: 255, A: 255}))
	rough := float32(0.4)
	metal := float32(0.9)
	mat := b.AddMaterial(formats.Material{
		Name: "Aluminium",
		PBR: &formats.PBRMetallicRoughness{
			BaseColorFactor:          &[4]float32{1, 0.5, 0, 0.5},
			BaseColorTexture:         &formats.TextureInfo{Index: tex},
			RoughnessFactor:          &rough,
			MetallicFactor:           &metal,
			MetallicRoughnessTexture: &formats.TextureInfo{Index: tex},
		},
		AlphaMode:   formats.AlphaBlend,
		DoubleSided: true,
	})
	m1 := b.AddMesh("Body_A", tri, nil, nil, mat)
	m2 := b.AddMesh("Body_B", tri, nil, nil, mat)
	b.Doc.Scenes = []formats.Scene{{Nodes: []int{
		b.AddNode(formats.Node{Name: "Body_A", Mesh: &m1}),
		b.AddNode(formats.Node{Name: "Body_B", Mesh: &m2}),
	}}}

	data, _ := b.Bytes()
	g, _ := formats.ParseGLB(data)
	root, err := Import(g, "phone", nil)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	a, bm := root.Find("Body_A").Material, root.Find("Body_B").Material
	if a != bm {
		t.Error("expected one material per glTF material index")
	}
	if a.Name != "Aluminium" || a.Roughness != rough || a.Metalness != metal {
		t.Errorf("unexpected material %+v", a)
	}
	if a.Color != (color.RGBA{R: 255, G: 128, B: 0, A: 128}) {
		t.Errorf("unexpected color %v", a.Color)
	}
	if !a.Transparent || a.DepthWrite || a.Opacity != 0.5 || !a.DoubleSided {
		t.Errorf("unexpected blend state %+v", a)
	}

	base := a.Maps.BaseColor
	if base == nil || !base.Sampler.SRGB || base.Sampler.FlipY {
		t.Fatalf("expected sRGB unflipped base color texture, got %+v", base)
	}
	if a.Maps.Roughness == nil || a.Maps.Roughness.Sampler.SRGB {
		t.Error("expected linear metallic-roughness texture")
	}
	if a.Maps.Metalness != a.Maps.Roughness {
		t.Error("expected metalness and roughness to share a texture")
	}
	if a.Maps.Roughness.Image != base.Image {
		t.Error("expected one decoded image per glTF image")
	}
}

func TestImportErrors(t *testing.T) {
	b := formats.NewBuilder()
	self := 0
	b.AddNode(formats.Node{Name: "loop", Children: []int{self}})
	b.Doc.Scenes = []formats.Scene{{Nodes: []int{0}}}
	data, _ := b.Bytes()
	g, _ := formats.ParseGLB(data)
	if _, err := Import(g, "phone", nil); err == nil {
		t.Error("expected error for cyclic hierarchy")
	}

	b = formats.NewBuilder()
	mesh := b.AddMesh("Body", tri, nil, []uint32{0, 1, 7}, -1)
	b.Doc.Scenes = []formats.Scene{{Nodes: []int{b.AddNode(formats.Node{Mesh: &mesh})}}}
	data, _ = b.Bytes()
	g, _ = formats.ParseGLB(data)
	if _, err := Import(g, "phone", nil); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestSamplerFor(t *testing.T) {
	clamp, nearest, mirrored := 33071, 9728, 33648
	doc := &formats.Document{Samplers: []formats.Sampler{{
		WrapS: &clamp, WrapT: &mirrored, MagFilter: &nearest, MinFilter: &nearest,
	}}}
	idx := 0
	s := samplerFor(doc, &idx)

	if s.WrapS != texture.WrapClampToEdge || s.WrapT != texture.WrapMirroredRepeat {
		t.Errorf("unexpected wrap modes %v %v", s.WrapS, s.WrapT)
	}
	if s.MagFilter != texture.FilterNearest || s.MinFilter != texture.FilterNearest || s.Mipmaps {
		t.Errorf("unexpected filters %+v", s)
	}
	if s.FlipY {
		t.Error("glTF textures must not be flipped")
	}

	if d := samplerFor(doc, nil); d.WrapS != texture.WrapRepeat || d.FlipY {
		t.Errorf("unexpected default sampler %+v", d)
	}
}
