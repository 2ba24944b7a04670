package formats

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// GLB format errors.
var (
	ErrInvalidGLBMagic        = errors.New("invalid GLB magic: expected 'glTF'")
	ErrUnsupportedGLBVersion  = errors.New("unsupported GLB version")
	ErrTruncatedGLBData       = errors.New("truncated GLB data")
	ErrMissingJSONChunk       = errors.New("GLB file missing JSON chunk")
	ErrUnsupportedGLTFVersion = errors.New("unsupported glTF version")
	ErrExternalResource       = errors.New("external glTF resources are not supported")
	ErrInvalidAccessor        = errors.New("invalid glTF accessor")
)

const (
	glbMagic      = 0x46546C67 // "glTF"
	glbVersion    = 2
	glbHeaderSize = 12
	glbChunkJSON  = 0x4E4F534A // "JSON"
	glbChunkBIN   = 0x004E4942 // "BIN\0"
)

// GLB is a parsed binary glTF asset with its buffers resolved.
type GLB struct {
	Document Document
	// Buffers holds the bytes of each Document.Buffers entry.
	Buffers [][]byte
}

// ParseGLB parses a GLB container from raw bytes.
func ParseGLB(data []byte) (*GLB, error) {
	if len(data) < glbHeaderSize {
		return nil, ErrTruncatedGLBData
	}

	if binary.LittleEndian.Uint32(data[0:4]) != glbMagic {
		return nil, ErrInvalidGLBMagic
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != glbVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedGLBVersion, v)
	}
	length := int(binary.LittleEndian.Uint32(data[8:12]))
	if length < glbHeaderSize || length > len(data) {
		return nil, fmt.Errorf("%w: header declares %d bytes, have %d", ErrTruncatedGLBData, length, len(data))
	}
	data = data[:length]

	var jsonChunk, binChunk []byte
	off := glbHeaderSize
	for first := true; off < len(data); first = false {
		if len(data)-off < 8 {
			return nil, fmt.Errorf("%w: chunk header at %d", ErrTruncatedGLBData, off)
		}
		chunkLen := int(binary.LittleEndian.Uint32(data[off:]))
		chunkType := binary.LittleEndian.Uint32(data[off+4:])
		off += 8
		if chunkLen > len(data)-off {
			return nil, fmt.Errorf("%w: chunk of %d bytes at %d", ErrTruncatedGLBData, chunkLen, off)
		}
		chunk := data[off : off+chunkLen]
		off += chunkLen

		switch {
		case first && chunkType != glbChunkJSON:
			return nil, ErrMissingJSONChunk
		case chunkType == glbChunkJSON && jsonChunk == nil:
			jsonChunk = chunk
		case chunkType == glbChunkBIN && binChunk == nil:
			binChunk = chunk
		}
		// Unknown chunk types are skipped
	}

	if jsonChunk == nil {
		return nil, ErrMissingJSONChunk
	}

	g := &GLB{}
	if err := json.Unmarshal(jsonChunk, &g.Document); err != nil {
		return nil, fmt.Errorf("parsing glTF JSON: %w", err)
	}
	if !strings.HasPrefix(g.Document.Asset.Version, "2.") {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGLTFVersion, g.Document.Asset.Version)
	}
	if err := g.resolveBuffers(binChunk); err != nil {
		return nil, err
	}
	return g, nil
}

// ParseGLBFile parses a GLB file from disk.
func ParseGLBFile(path string) (*GLB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GLB file: %w", err)
	}
	return ParseGLB(data)
}

// resolveBuffers binds each buffer to the BIN chunk or an embedded data URI.
func (g *GLB) resolveBuffers(bin []byte) error {
	g.Buffers = make([][]byte, len(g.Document.Buffers))
	usedBIN := false

	for i, buf := range g.Document.Buffers {
		var data []byte
		switch {
		case buf.URI == "" && !usedBIN && bin != nil:
			data = bin
			usedBIN = true
		case strings.HasPrefix(buf.URI, "data:"):
			decoded, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			data = decoded
		case buf.URI == "":
			return fmt.Errorf("buffer %d: %w: no BIN chunk", i, ErrTruncatedGLBData)
		default:
			return fmt.Errorf("buffer %d %q: %w", i, buf.URI, ErrExternalResource)
		}

		if len(data) < buf.ByteLength {
			return fmt.Errorf("%w: buffer %d has %d bytes, declares %d", ErrTruncatedGLBData, i, len(data), buf.ByteLength)
		}
		g.Buffers[i] = data[:buf.ByteLength]
	}
	return nil
}

// decodeDataURI decodes a base64 data: URI.
func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 || !strings.HasSuffix(uri[:comma], ";base64") {
		return nil, fmt.Errorf("%w: only base64 data URIs are supported", ErrExternalResource)
	}
	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("decoding data URI: %w", err)
	}
	return data, nil
}

// View returns the bytes of buffer view i.
func (g *GLB) View(i int) ([]byte, error) {
	if i < 0 || i >= len(g.Document.BufferViews) {
		return nil, fmt.Errorf("%w: buffer view %d out of range", ErrInvalidAccessor, i)
	}
	bv := g.Document.BufferViews[i]
	if bv.Buffer < 0 || bv.Buffer >= len(g.Buffers) {
		return nil, fmt.Errorf("%w: buffer view %d references buffer %d", ErrInvalidAccessor, i, bv.Buffer)
	}
	buf := g.Buffers[bv.Buffer]
	if bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteOffset+bv.ByteLength > len(buf) {
		return nil, fmt.Errorf("%w: buffer view %d exceeds buffer %d", ErrTruncatedGLBData, i, bv.Buffer)
	}
	return buf[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], nil
}

// ImageData returns the encoded bytes and MIME type of image i. Only
// images stored in a buffer view or a data URI are supported.
func (g *GLB) ImageData(i int) ([]byte, string, error) {
	if i < 0 || i >= len(g.Document.Images) {
		return nil, "", fmt.Errorf("image %d out of range", i)
	}
	img := g.Document.Images[i]

	switch {
	case img.BufferView != nil:
		data, err := g.View(*img.BufferView)
		if err != nil {
			return nil, "", fmt.Errorf("image %d: %w", i, err)
		}
		return data, img.MimeType, nil
	case strings.HasPrefix(img.URI, "data:"):
		mime := img.MimeType
		if mime == "" {
			if semi := strings.IndexByte(img.URI, ';'); semi > 5 {
				mime = img.URI[5:semi]
			}
		}
		data, err := decodeDataURI(img.URI)
		if err != nil {
			return nil, "", fmt.Errorf("image %d: %w", i, err)
		}
		return data, mime, nil
	}
	return nil, "", fmt.Errorf("image %d %q: %w", i, img.URI, ErrExternalResource)
}

// SceneRoots returns the root node indices of the default scene. Without
// scenes, every node that is nobody's child is a root.
func (g *GLB) SceneRoots() []int {
	doc := &g.Document
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			s = *doc.Scene
		}
		return doc.Scenes[s].Nodes
	}

	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(child) {
				child[c] = true
			}
		}
	}
	var roots []int
	for i, isChild := range child {
		if !isChild {
			roots = append(roots, i)
		}
	}
	return roots
}
