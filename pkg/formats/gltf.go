package formats

// Document is the JSON chunk of a glTF 2.0 asset. Only the parts a static
// mesh viewer reads are declared; skins, animations and morph targets are
// ignored.
type Document struct {
	Asset       Asset        `json:"asset"`
	Scene       *int         `json:"scene,omitempty"`
	Scenes      []Scene      `json:"scenes,omitempty"`
	Nodes       []Node       `json:"nodes,omitempty"`
	Meshes      []Mesh       `json:"meshes,omitempty"`
	Accessors   []Accessor   `json:"accessors,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
	Materials   []Material   `json:"materials,omitempty"`
	Textures    []Texture    `json:"textures,omitempty"`
	Images      []Image      `json:"images,omitempty"`
	Samplers    []Sampler    `json:"samplers,omitempty"`

	ExtensionsUsed     []string `json:"extensionsUsed,omitempty"`
	ExtensionsRequired []string `json:"extensionsRequired,omitempty"`
}

// Asset holds glTF asset metadata.
type Asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

// Scene lists root node indices.
type Scene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// Node is an entry of the glTF node hierarchy.
type Node struct {
	Name        string       `json:"name,omitempty"`
	Children    []int        `json:"children,omitempty"`
	Mesh        *int         `json:"mesh,omitempty"`
	Matrix      *[16]float32 `json:"matrix,omitempty"` // Column-major
	Translation *[3]float32  `json:"translation,omitempty"`
	Rotation    *[4]float32  `json:"rotation,omitempty"` // Quaternion x, y, z, w
	Scale       *[3]float32  `json:"scale,omitempty"`
}

// Mesh is a set of primitives.
type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

// Primitive modes.
const (
	ModePoints        = 0
	ModeLines         = 1
	ModeTriangles     = 4
	ModeTriangleStrip = 5
	ModeTriangleFan   = 6
)

// Primitive is one draw of a mesh.
type Primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Material   *int           `json:"material,omitempty"`
	Mode       *int           `json:"mode,omitempty"`
}

// ModeOrDefault returns the primitive topology, triangles when unset.
func (p *Primitive) ModeOrDefault() int {
	if p.Mode == nil {
		return ModeTriangles
	}
	return *p.Mode
}

// Accessor component types.
const (
	ComponentByte          = 5120
	ComponentUnsignedByte  = 5121
	ComponentShort         = 5122
	ComponentUnsignedShort = 5123
	ComponentUnsignedInt   = 5125
	ComponentFloat         = 5126
)

// Accessor element types.
const (
	TypeScalar = "SCALAR"
	TypeVec2   = "VEC2"
	TypeVec3   = "VEC3"
	TypeVec4   = "VEC4"
	TypeMat4   = "MAT4"
)

// Accessor describes a typed view into a buffer view.
type Accessor struct {
	BufferView    *int      `json:"bufferView,omitempty"`
	ByteOffset    int       `json:"byteOffset,omitempty"`
	ComponentType int       `json:"componentType"`
	Normalized    bool      `json:"normalized,omitempty"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Max           []float32 `json:"max,omitempty"`
	Min           []float32 `json:"min,omitempty"`
	Sparse        any       `json:"sparse,omitempty"`
}

// BufferView is a byte range of a buffer.
type BufferView struct {
	Buffer     int  `json:"buffer"`
	ByteOffset int  `json:"byteOffset,omitempty"`
	ByteLength int  `json:"byteLength"`
	ByteStride *int `json:"byteStride,omitempty"`
}

// Buffer is a binary blob. In a GLB the first buffer without a URI is the
// BIN chunk.
type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`
}

// Alpha modes.
const (
	AlphaOpaque = "OPAQUE"
	AlphaMask   = "MASK"
	AlphaBlend  = "BLEND"
)

// Material is a metallic-roughness PBR material.
type Material struct {
	Name             string                `json:"name,omitempty"`
	PBR              *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	NormalTexture    *TextureInfo          `json:"normalTexture,omitempty"`
	OcclusionTexture *TextureInfo          `json:"occlusionTexture,omitempty"`
	EmissiveTexture  *TextureInfo          `json:"emissiveTexture,omitempty"`
	EmissiveFactor   *[3]float32           `json:"emissiveFactor,omitempty"`
	AlphaMode        string                `json:"alphaMode,omitempty"`
	AlphaCutoff      *float32              `json:"alphaCutoff,omitempty"`
	DoubleSided      bool                  `json:"doubleSided,omitempty"`
}

// PBRMetallicRoughness holds the core PBR factors and textures. Nil
// factors take their glTF defaults.
type PBRMetallicRoughness struct {
	BaseColorFactor          *[4]float32  `json:"baseColorFactor,omitempty"`
	BaseColorTexture         *TextureInfo `json:"baseColorTexture,omitempty"`
	MetallicFactor           *float32     `json:"metallicFactor,omitempty"`
	RoughnessFactor          *float32     `json:"roughnessFactor,omitempty"`
	MetallicRoughnessTexture *TextureInfo `json:"metallicRoughnessTexture,omitempty"`
}

// BaseColor returns the base color factor, defaulting to opaque white.
func (p *PBRMetallicRoughness) BaseColor() [4]float32 {
	if p == nil || p.BaseColorFactor == nil {
		return [4]float32{1, 1, 1, 1}
	}
	return *p.BaseColorFactor
}

// Metallic returns the metallic factor, defaulting to 1.
func (p *PBRMetallicRoughness) Metallic() float32 {
	if p == nil || p.MetallicFactor == nil {
		return 1
	}
	return *p.MetallicFactor
}

// Roughness returns the roughness factor, defaulting to 1.
func (p *PBRMetallicRoughness) Roughness() float32 {
	if p == nil || p.RoughnessFactor == nil {
		return 1
	}
	return *p.RoughnessFactor
}

// TextureInfo references a texture from a material.
type TextureInfo struct {
	Index    int      `json:"index"`
	TexCoord int      `json:"texCoord,omitempty"`
	Scale    *float32 `json:"scale,omitempty"`    // Normal textures
	Strength *float32 `json:"strength,omitempty"` // Occlusion textures
}

// Texture pairs an image with a sampler.
type Texture struct {
	Name    string `json:"name,omitempty"`
	Source  *int   `json:"source,omitempty"`
	Sampler *int   `json:"sampler,omitempty"`
}

// Image is embedded through a buffer view or referenced by URI.
type Image struct {
	Name       string `json:"name,omitempty"`
	URI        string `json:"uri,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	BufferView *int   `json:"bufferView,omitempty"`
}

// Sampler wrap and filter values are the GL enums.
type Sampler struct {
	MagFilter *int `json:"magFilter,omitempty"`
	MinFilter *int `json:"minFilter,omitempty"`
	WrapS     *int `json:"wrapS,omitempty"`
	WrapT     *int `json:"wrapT,omitempty"`
}
