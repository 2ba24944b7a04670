package formats

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func triangleGLB(t *testing.T) []byte {
	t.Helper()
	b := NewBuilder()
	mat := b.AddMaterial(Material{Name: "Frame"})
	mesh := b.AddMesh("Body_Frame",
		[][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[][2]float32{{0, 0}, {1, 0}, {0, 1}},
		[]uint32{0, 1, 2},
		mat,
	)
	root := b.AddNode(Node{Name: "Body_Frame", Mesh: &mesh})
	b.Doc.Scenes = []Scene{{Nodes: []int{root}}}

	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("failed to build GLB: %v", err)
	}
	return data
}

func TestParseGLB_ValidFile(t *testing.T) {
	g, err := ParseGLB(triangleGLB(t))
	if err != nil {
		t.Fatalf("ParseGLB failed: %v", err)
	}

	if g.Document.Asset.Version != "2.0" {
		t.Errorf("expected version 2.0, got %s", g.Document.Asset.Version)
	}
	if len(g.Document.Meshes) != 1 || g.Document.Meshes[0].Name != "Body_Frame" {
		t.Fatalf("unexpected meshes %+v", g.Document.Meshes)
	}

	prim := g.Document.Meshes[0].Primitives[0]
	if prim.ModeOrDefault() != ModeTriangles {
		t.Errorf("expected triangles, got mode %d", prim.ModeOrDefault())
	}

	pos, err := g.ReadVec3(prim.Attributes["POSITION"])
	if err != nil {
		t.Fatalf("ReadVec3 failed: %v", err)
	}
	if len(pos) != 3 || pos[1] != [3]float32{1, 0, 0} {
		t.Errorf("unexpected positions %v", pos)
	}

	uv, err := g.ReadVec2(prim.Attributes["TEXCOORD_0"])
	if err != nil {
		t.Fatalf("ReadVec2 failed: %v", err)
	}
	if uv[2] != [2]float32{0, 1} {
		t.Errorf("unexpected uvs %v", uv)
	}

	idx, err := g.ReadIndices(*prim.Indices)
	if err != nil {
		t.Fatalf("ReadIndices failed: %v", err)
	}
	if len(idx) != 3 || idx[2] != 2 {
		t.Errorf("unexpected indices %v", idx)
	}

	if roots := g.SceneRoots(); len(roots) != 1 || roots[0] != 0 {
		t.Errorf("expected root [0], got %v", roots)
	}
}

func TestParseGLB_Errors(t *testing.T) {
	valid := triangleGLB(t)

	badMagic := append([]byte(nil), valid...)
	copy(badMagic, "glTX")

	badVersion := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badVersion[4:], 1)

	badLength := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badLength[8:], uint32(len(valid)+100))

	binFirst := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(binFirst[16:], glbChunkBIN)

	oldDoc, _ := EncodeGLB(&Document{Asset: Asset{Version: "1.0"}}, nil)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncatedGLBData},
		{"short header", valid[:8], ErrTruncatedGLBData},
		{"bad magic", badMagic, ErrInvalidGLBMagic},
		{"bad version", badVersion, ErrUnsupportedGLBVersion},
		{"length past end", badLength, ErrTruncatedGLBData},
		{"truncated chunk", fixLength(valid[:len(valid)-8]), ErrTruncatedGLBData},
		{"first chunk not JSON", binFirst, ErrMissingJSONChunk},
		{"no chunks", fixLength(valid[:glbHeaderSize]), ErrMissingJSONChunk},
		{"glTF 1.0", oldDoc, ErrUnsupportedGLTFVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGLB(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// fixLength rewrites the header length to match a truncated buffer.
func fixLength(data []byte) []byte {
	out := append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(out[8:], uint32(len(out)))
	return out
}

func TestParseGLB_AccessorBounds(t *testing.T) {
	b := NewBuilder()
	acc := b.AddVec3([][3]float32{{1, 2, 3}})
	b.Doc.Accessors[acc].Count = 5
	ok := b.AddVec3([][3]float32{{1, 2, 3}})
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("failed to build GLB: %v", err)
	}

	g, err := ParseGLB(data)
	if err != nil {
		t.Fatalf("ParseGLB failed: %v", err)
	}
	if _, err := g.ReadVec3(acc); !errors.Is(err, ErrTruncatedGLBData) {
		t.Errorf("expected ErrTruncatedGLBData, got %v", err)
	}
	if _, err := g.ReadVec3(42); !errors.Is(err, ErrInvalidAccessor) {
		t.Errorf("expected ErrInvalidAccessor, got %v", err)
	}
	if _, err := g.ReadVec2(ok); !errors.Is(err, ErrInvalidAccessor) {
		t.Errorf("expected type mismatch error, got %v", err)
	}
}

func TestReadIndicesShort(t *testing.T) {
	b := NewBuilder()
	v := b.view([]byte{0, 0, 1, 0, 2, 0, 0, 0})
	b.Doc.Accessors = append(b.Doc.Accessors, Accessor{
		BufferView: &v, ComponentType: ComponentUnsignedShort, Count: 3, Type: TypeScalar,
	})
	data, _ := b.Bytes()

	g, err := ParseGLB(data)
	if err != nil {
		t.Fatalf("ParseGLB failed: %v", err)
	}
	idx, err := g.ReadIndices(0)
	if err != nil {
		t.Fatalf("ReadIndices failed: %v", err)
	}
	if idx[0] != 0 || idx[1] != 1 || idx[2] != 2 {
		t.Errorf("expected [0 1 2], got %v", idx)
	}
}

func TestReadVec2Normalized(t *testing.T) {
	b := NewBuilder()
	v := b.view([]byte{0, 255, 0, 0})
	b.Doc.Accessors = append(b.Doc.Accessors, Accessor{
		BufferView: &v, ComponentType: ComponentUnsignedByte, Normalized: true, Count: 1, Type: TypeVec2,
	})
	data, _ := b.Bytes()

	g, err := ParseGLB(data)
	if err != nil {
		t.Fatalf("ParseGLB failed: %v", err)
	}
	uv, err := g.ReadVec2(0)
	if err != nil {
		t.Fatalf("ReadVec2 failed: %v", err)
	}
	if uv[0] != [2]float32{0, 1} {
		t.Errorf("expected [0 1], got %v", uv[0])
	}
}

func TestStridedAccessor(t *testing.T) {
	b := NewBuilder()
	// two vec3 positions interleaved with a 4-byte pad
	raw := floatBytes([]float32{1, 2, 3, 0, 4, 5, 6, 0})
	v := b.view(raw)
	stride := 16
	b.Doc.BufferViews[v].ByteStride = &stride
	b.Doc.Accessors = append(b.Doc.Accessors, Accessor{
		BufferView: &v, ComponentType: ComponentFloat, Count: 2, Type: TypeVec3,
	})
	data, _ := b.Bytes()

	g, err := ParseGLB(data)
	if err != nil {
		t.Fatalf("ParseGLB failed: %v", err)
	}
	pos, err := g.ReadVec3(0)
	if err != nil {
		t.Fatalf("ReadVec3 failed: %v", err)
	}
	if pos[1] != [3]float32{4, 5, 6} {
		t.Errorf("expected second element [4 5 6], got %v", pos[1])
	}
}

func TestImageData(t *testing.T) {
	b := NewBuilder()
	tex := b.AddImage("screen", "image/png", []byte("fakepng"))
	data, _ := b.Bytes()

	g, err := ParseGLB(data)
	if err != nil {
		t.Fatalf("ParseGLB failed: %v", err)
	}
	src := *g.Document.Textures[tex].Source
	img, mime, err := g.ImageData(src)
	if err != nil {
		t.Fatalf("ImageData failed: %v", err)
	}
	if string(img) != "fakepng" || mime != "image/png" {
		t.Errorf("unexpected image %q %s", img, mime)
	}

	g.Document.Images = append(g.Document.Images, Image{URI: "textures/screen.png"})
	if _, _, err := g.ImageData(1); !errors.Is(err, ErrExternalResource) {
		t.Errorf("expected ErrExternalResource, got %v", err)
	}
}

func TestSceneRootsWithoutScenes(t *testing.T) {
	g := &GLB{Document: Document{Nodes: []Node{
		{Name: "a", Children: []int{1}},
		{Name: "b"},
		{Name: "c"},
	}}}
	roots := g.SceneRoots()
	if len(roots) != 2 || roots[0] != 0 || roots[1] != 2 {
		t.Errorf("expected roots [0 2], got %v", roots)
	}
}

func TestPBRDefaults(t *testing.T) {
	var p *PBRMetallicRoughness
	if p.BaseColor() != [4]float32{1, 1, 1, 1} || p.Metallic() != 1 || p.Roughness() != 1 {
		t.Error("expected glTF defaults on nil PBR block")
	}
}

func TestParseGLBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phone.glb")
	if err := os.WriteFile(path, triangleGLB(t), 0644); err != nil {
		t.Fatalf("failed to write GLB: %v", err)
	}
	if _, err := ParseGLBFile(path); err != nil {
		t.Errorf("ParseGLBFile failed: %v", err)
	}
	if _, err := ParseGLBFile(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("expected error for missing file")
	}
}
