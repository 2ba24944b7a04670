package formats

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// Builder assembles a GLB in memory. All data lands in a single BIN buffer.
type Builder struct {
	Doc Document
	bin bytes.Buffer
}

// NewBuilder returns a builder for an empty glTF 2.0 document.
func NewBuilder() *Builder {
	return &Builder{Doc: Document{Asset: Asset{Version: "2.0", Generator: "phone-teardown"}}}
}

// view appends data as a new buffer view, 4-byte aligned.
func (b *Builder) view(data []byte) int {
	for b.bin.Len()%4 != 0 {
		b.bin.WriteByte(0)
	}
	b.Doc.BufferViews = append(b.Doc.BufferViews, BufferView{
		Buffer:     0,
		ByteOffset: b.bin.Len(),
		ByteLength: len(data),
	})
	b.bin.Write(data)
	return len(b.Doc.BufferViews) - 1
}

func (b *Builder) accessor(data []byte, componentType, count int, typ string) int {
	v := b.view(data)
	b.Doc.Accessors = append(b.Doc.Accessors, Accessor{
		BufferView:    &v,
		ComponentType: componentType,
		Count:         count,
		Type:          typ,
	})
	return len(b.Doc.Accessors) - 1
}

func floatBytes(vals []float32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// AddVec3 appends a FLOAT VEC3 accessor and returns its index.
func (b *Builder) AddVec3(v [][3]float32) int {
	flat := make([]float32, 0, 3*len(v))
	for _, e := range v {
		flat = append(flat, e[:]...)
	}
	return b.accessor(floatBytes(flat), ComponentFloat, len(v), TypeVec3)
}

// AddVec2 appends a FLOAT VEC2 accessor and returns its index.
func (b *Builder) AddVec2(v [][2]float32) int {
	flat := make([]float32, 0, 2*len(v))
	for _, e := range v {
		flat = append(flat, e[:]...)
	}
	return b.accessor(floatBytes(flat), ComponentFloat, len(v), TypeVec2)
}

// AddIndices appends an UNSIGNED_INT index accessor and returns its index.
func (b *Builder) AddIndices(idx []uint32) int {
	out := make([]byte, 4*len(idx))
	for i, v := range idx {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return b.accessor(out, ComponentUnsignedInt, len(idx), TypeScalar)
}

// AddImage embeds encoded image bytes and returns the texture index.
func (b *Builder) AddImage(name, mimeType string, data []byte) int {
	v := b.view(data)
	b.Doc.Images = append(b.Doc.Images, Image{Name: name, MimeType: mimeType, BufferView: &v})
	src := len(b.Doc.Images) - 1
	b.Doc.Textures = append(b.Doc.Textures, Texture{Name: name, Source: &src})
	return len(b.Doc.Textures) - 1
}

// AddMaterial appends m and returns its index.
func (b *Builder) AddMaterial(m Material) int {
	b.Doc.Materials = append(b.Doc.Materials, m)
	return len(b.Doc.Materials) - 1
}

// AddMesh appends a single-primitive triangle mesh. uvs may be nil;
// material < 0 leaves the primitive without a material.
func (b *Builder) AddMesh(name string, positions [][3]float32, uvs [][2]float32, indices []uint32, material int) int {
	prim := Primitive{Attributes: map[string]int{"POSITION": b.AddVec3(positions)}}
	if uvs != nil {
		prim.Attributes["TEXCOORD_0"] = b.AddVec2(uvs)
	}
	if indices != nil {
		i := b.AddIndices(indices)
		prim.Indices = &i
	}
	if material >= 0 {
		prim.Material = &material
	}
	b.Doc.Meshes = append(b.Doc.Meshes, Mesh{Name: name, Primitives: []Primitive{prim}})
	return len(b.Doc.Meshes) - 1
}

// AddNode appends n and returns its index.
func (b *Builder) AddNode(n Node) int {
	b.Doc.Nodes = append(b.Doc.Nodes, n)
	return len(b.Doc.Nodes) - 1
}

// Bytes finalizes the document and encodes the GLB container.
func (b *Builder) Bytes() ([]byte, error) {
	doc := b.Doc
	if b.bin.Len() > 0 {
		doc.Buffers = []Buffer{{ByteLength: b.bin.Len()}}
	}
	return EncodeGLB(&doc, b.bin.Bytes())
}

// EncodeGLB writes doc and bin as a GLB container. bin may be empty.
func EncodeGLB(doc *Document, bin []byte) ([]byte, error) {
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding glTF JSON: %w", err)
	}
	js = pad(js, ' ')

	total := glbHeaderSize + 8 + len(js)
	var binChunk []byte
	if len(bin) > 0 {
		binChunk = pad(append([]byte(nil), bin...), 0)
		total += 8 + len(binChunk)
	}

	out := make([]byte, 0, total)
	out = binary.LittleEndian.AppendUint32(out, glbMagic)
	out = binary.LittleEndian.AppendUint32(out, glbVersion)
	out = binary.LittleEndian.AppendUint32(out, uint32(total))

	out = binary.LittleEndian.AppendUint32(out, uint32(len(js)))
	out = binary.LittleEndian.AppendUint32(out, glbChunkJSON)
	out = append(out, js...)

	if binChunk != nil {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(binChunk)))
		out = binary.LittleEndian.AppendUint32(out, glbChunkBIN)
		out = append(out, binChunk...)
	}
	return out, nil
}

func pad(b []byte, fill byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, fill)
	}
	return b
}
