// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/phone-teardown/internal/engine/shader"
	"github.com/Faultbox/phone-teardown/internal/engine/texture"
	"github.com/Faultbox/phone-teardown/internal/material"
	"github.com/Faultbox/phone-teardown/internal/scene"
	"github.com/Faultbox/phone-teardown/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
	MSAA       bool
}

// Lighting is the light rig and environment used by lit materials.
type Lighting struct {
	Ambient [3]float32

	KeyDir    [3]float32 // Direction the light travels
	KeyColor  [3]float32
	FillDir   [3]float32
	FillColor [3]float32

	RimPos   [3]float32
	RimColor [3]float32
	RimRange float32

	EnvTop       [3]float32
	EnvBottom    [3]float32
	EnvIntensity float32
}

// View is the camera state of one frame.
type View struct {
	ViewProj math.Mat4
	Position [3]float32
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
	indexed       bool
}

type textureKey struct {
	img     *image.RGBA
	sampler texture.Sampler
}

// Renderer draws scene graphs with OpenGL.
type Renderer struct {
	config Config
	log    *zap.Logger

	lit   *shader.Program
	unlit *shader.Program

	meshes   map[*scene.Geometry]*gpuMesh
	textures map[textureKey]uint32
	draws    []Draw

	maxAnisotropy float32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		config:   cfg,
		log:      log,
		meshes:   make(map[*scene.Geometry]*gpuMesh),
		textures: make(map[textureKey]uint32),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.GetFloatv(gl.MAX_TEXTURE_MAX_ANISOTROPY, &r.maxAnisotropy)
	if r.maxAnisotropy < 1 {
		r.maxAnisotropy = 1
	}
	r.log.Debug("texture limits", zap.Float32("max_anisotropy", r.maxAnisotropy))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.CullFace(gl.BACK)
	if cfg.MSAA {
		gl.Enable(gl.MULTISAMPLE)
	}
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])

	var err error
	if r.lit, err = shader.NewProgram("lit", shader.MeshVertex, shader.LitFragment); err != nil {
		return nil, err
	}
	if r.unlit, err = shader.NewProgram("unlit", shader.MeshVertex, shader.UnlitFragment); err != nil {
		r.lit.Delete()
		return nil, err
	}
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Render draws every visible mesh under root.
func (r *Renderer) Render(root *scene.Node, view View, lights Lighting) {
	r.draws = CollectDraws(r.draws[:0], root, view.Position)
	SortDraws(r.draws)

	r.lit.Use()
	r.setFrameUniforms(r.lit, view)
	r.setLighting(lights)
	r.unlit.Use()
	r.setFrameUniforms(r.unlit, view)

	var current *shader.Program
	for i := range r.draws {
		d := &r.draws[i]
		mesh := r.mesh(d.Node.Geometry)
		if mesh == nil {
			continue
		}
		p := r.lit
		if d.Material.Shading == material.ShadingUnlit {
			p = r.unlit
		}
		if p != current {
			p.Use()
			current = p
		}
		r.applyState(d.Material)
		r.setMaterial(p, d.Material)
		p.SetMat4("uModel", d.World)
		p.SetMat4("uNormalMatrix", d.World.Inverse().Transpose())

		gl.BindVertexArray(mesh.vao)
		if mesh.indexed {
			gl.DrawElements(gl.TRIANGLES, mesh.count, gl.UNSIGNED_INT, nil)
		} else {
			gl.DrawArrays(gl.TRIANGLES, 0, mesh.count)
		}
	}
	gl.BindVertexArray(0)
	gl.Disable(gl.POLYGON_OFFSET_FILL)
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
}

// End finishes the current frame.
func (r *Renderer) End() {}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

func (r *Renderer) setFrameUniforms(p *shader.Program, view View) {
	p.SetMat4("uViewProj", view.ViewProj)
	p.SetVec3("uCameraPos", view.Position)
	p.SetInt("uBaseColorMap", 0)
	p.SetInt("uNormalMap", 1)
	p.SetInt("uRoughnessMap", 2)
	p.SetInt("uMetalnessMap", 3)
	p.SetInt("uOcclusionMap", 4)
}

func (r *Renderer) setLighting(l Lighting) {
	p := r.lit
	p.SetVec3("uAmbient", l.Ambient)
	p.SetVec3("uKeyDir", l.KeyDir)
	p.SetVec3("uKeyColor", l.KeyColor)
	p.SetVec3("uFillDir", l.FillDir)
	p.SetVec3("uFillColor", l.FillColor)
	p.SetVec3("uRimPos", l.RimPos)
	p.SetVec3("uRimColor", l.RimColor)
	p.SetFloat("uRimRange", max(l.RimRange, 1e-3))
	p.SetVec3("uEnvTop", l.EnvTop)
	p.SetVec3("uEnvBottom", l.EnvBottom)
	p.SetFloat("uEnvIntensity", l.EnvIntensity)
}

func (r *Renderer) applyState(m *material.Material) {
	if m.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(m.DepthWrite)

	if m.IsBlended() {
		gl.Enable(gl.BLEND)
	} else {
		gl.Disable(gl.BLEND)
	}

	if m.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}

	if m.PolygonOffset.Enabled {
		gl.Enable(gl.POLYGON_OFFSET_FILL)
		gl.PolygonOffset(m.PolygonOffset.Factor, m.PolygonOffset.Units)
	} else {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
	}
}

func (r *Renderer) setMaterial(p *shader.Program, m *material.Material) {
	c := m.Color
	p.SetVec4("uColor", [4]float32{
		float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255,
	})
	opacity := float32(1)
	if m.Transparent {
		opacity = math.Clamp(m.Opacity, 0, 1)
	}
	p.SetFloat("uOpacity", opacity)
	p.SetFloat("uRoughness", m.Roughness)
	p.SetFloat("uMetalness", m.Metalness)
	if m.ToneMapped {
		p.SetInt("uToneMapped", 1)
	} else {
		p.SetInt("uToneMapped", 0)
	}

	channels := [...]struct {
		tex  *texture.Texture
		flag string
	}{
		{m.Maps.BaseColor, "uHasBaseColor"},
		{m.Maps.Normal, "uHasNormal"},
		{m.Maps.Roughness, "uHasRoughness"},
		{m.Maps.Metalness, "uHasMetalness"},
		{m.Maps.Occlusion, "uHasOcclusion"},
	}
	for unit, ch := range channels {
		id := r.texture(ch.tex)
		if id == 0 {
			p.SetInt(ch.flag, 0)
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, id)
		p.SetInt(ch.flag, 1)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

// mesh returns the GPU buffers of g, uploading them on first use.
func (r *Renderer) mesh(g *scene.Geometry) *gpuMesh {
	if m, ok := r.meshes[g]; ok {
		return m
	}
	vertices := Interleave(g)
	if len(vertices) == 0 {
		r.meshes[g] = nil
		return nil
	}

	m := &gpuMesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	const stride = VertexStride * 4
	gl.VertexAttribPointerWithOffset(shader.AttribPosition, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(shader.AttribPosition)
	gl.VertexAttribPointerWithOffset(shader.AttribNormal, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(shader.AttribNormal)
	gl.VertexAttribPointerWithOffset(shader.AttribUV, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(shader.AttribUV)

	if len(g.Indices) > 0 {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, unsafe.Pointer(&g.Indices[0]), gl.STATIC_DRAW)
		m.count = int32(len(g.Indices))
		m.indexed = true
	} else {
		m.count = int32(g.VertexCount())
	}

	gl.BindVertexArray(0)
	r.meshes[g] = m
	r.log.Debug("mesh uploaded",
		zap.Int("vertices", g.VertexCount()),
		zap.Int("indices", len(g.Indices)),
	)
	return m
}

// texture returns the GL texture for t, uploading it on first use. Two
// textures sharing an image and sampler share one GL object.
func (r *Renderer) texture(t *texture.Texture) uint32 {
	if t == nil || t.Image == nil || len(t.Image.Pix) == 0 {
		return 0
	}
	key := textureKey{img: t.Image, sampler: t.Sampler}
	if id, ok := r.textures[key]; ok {
		return id
	}

	s := t.Sampler
	pix := t.Image.Pix
	if s.FlipY {
		pix = FlipRows(t.Image)
	}
	b := t.Image.Bounds()

	internal := int32(gl.RGBA8)
	if s.SRGB {
		internal = gl.SRGB8_ALPHA8
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pix[0]))

	minFilter := glFilter(s.MinFilter)
	if s.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	} else if minFilter == gl.LINEAR_MIPMAP_LINEAR {
		minFilter = gl.LINEAR
	}
	magFilter := glFilter(s.MagFilter)
	if magFilter == gl.LINEAR_MIPMAP_LINEAR {
		magFilter = gl.LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(s.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(s.WrapT))
	gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, Anisotropy(s.Anisotropy, r.maxAnisotropy))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.textures[key] = id
	r.log.Debug("texture uploaded",
		zap.String("name", t.Name),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
		zap.Bool("srgb", s.SRGB),
	)
	return id
}

// Release deletes every GPU object the renderer created. Geometry and
// images stay owned by the scene.
func (r *Renderer) Release() {
	for g, m := range r.meshes {
		if m != nil {
			gl.DeleteVertexArrays(1, &m.vao)
			gl.DeleteBuffers(1, &m.vbo)
			if m.ebo != 0 {
				gl.DeleteBuffers(1, &m.ebo)
			}
		}
		delete(r.meshes, g)
	}
	for k, id := range r.textures {
		gl.DeleteTextures(1, &id)
		delete(r.textures, k)
	}
	r.draws = nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.Release()
	if r.lit != nil {
		r.lit.Delete()
	}
	if r.unlit != nil {
		r.unlit.Delete()
	}
}

func glFilter(f texture.Filter) int32 {
	switch f {
	case texture.FilterNearest:
		return gl.NEAREST
	case texture.FilterLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.LINEAR
	}
}

func glWrap(w texture.Wrap) int32 {
	switch w {
	case texture.WrapClampToEdge:
		return gl.CLAMP_TO_EDGE
	case texture.WrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.REPEAT
	}
}
