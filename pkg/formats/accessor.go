package formats

import (
	"encoding/binary"
	"fmt"
	"math"
)

// componentSize returns the byte size of a component type, 0 if unknown.
func componentSize(componentType int) int {
	switch componentType {
	case ComponentByte, ComponentUnsignedByte:
		return 1
	case ComponentShort, ComponentUnsignedShort:
		return 2
	case ComponentUnsignedInt, ComponentFloat:
		return 4
	}
	return 0
}

// componentCount returns the number of components of an element type.
func componentCount(typ string) int {
	switch typ {
	case TypeScalar:
		return 1
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4, "MAT2":
		return 4
	case "MAT3":
		return 9
	case TypeMat4:
		return 16
	}
	return 0
}

// accessorElements returns the accessor, one byte slice per element and the
// component size, after validating every element lies inside its view.
func (g *GLB) accessorElements(index int) (*Accessor, [][]byte, error) {
	if index < 0 || index >= len(g.Document.Accessors) {
		return nil, nil, fmt.Errorf("%w: accessor %d out of range", ErrInvalidAccessor, index)
	}
	acc := &g.Document.Accessors[index]
	if acc.Sparse != nil {
		return nil, nil, fmt.Errorf("%w: accessor %d is sparse", ErrInvalidAccessor, index)
	}
	if acc.Count < 0 {
		return nil, nil, fmt.Errorf("%w: accessor %d count %d", ErrInvalidAccessor, index, acc.Count)
	}

	size := componentSize(acc.ComponentType) * componentCount(acc.Type)
	if size == 0 {
		return nil, nil, fmt.Errorf("%w: accessor %d has type %s/%d", ErrInvalidAccessor, index, acc.Type, acc.ComponentType)
	}
	if acc.BufferView == nil {
		// Accessors without a view are all zeros
		zero := make([]byte, size)
		elems := make([][]byte, acc.Count)
		for i := range elems {
			elems[i] = zero
		}
		return acc, elems, nil
	}

	view, err := g.View(*acc.BufferView)
	if err != nil {
		return nil, nil, fmt.Errorf("accessor %d: %w", index, err)
	}
	stride := size
	if bs := g.Document.BufferViews[*acc.BufferView].ByteStride; bs != nil && *bs > 0 {
		stride = *bs
	}
	if acc.Count > 0 && acc.ByteOffset+(acc.Count-1)*stride+size > len(view) {
		return nil, nil, fmt.Errorf("%w: accessor %d exceeds buffer view %d", ErrTruncatedGLBData, index, *acc.BufferView)
	}

	elems := make([][]byte, acc.Count)
	for i := range elems {
		start := acc.ByteOffset + i*stride
		elems[i] = view[start : start+size]
	}
	return acc, elems, nil
}

// readComponent decodes component j of element e as float32, applying
// normalization for integer types when norm is set.
func readComponent(e []byte, componentType, j int, norm bool) float32 {
	switch componentType {
	case ComponentFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(e[j*4:]))
	case ComponentUnsignedByte:
		v := float32(e[j])
		if norm {
			return v / 255
		}
		return v
	case ComponentByte:
		v := float32(int8(e[j]))
		if norm {
			return max(v/127, -1)
		}
		return v
	case ComponentUnsignedShort:
		v := float32(binary.LittleEndian.Uint16(e[j*2:]))
		if norm {
			return v / 65535
		}
		return v
	case ComponentShort:
		v := float32(int16(binary.LittleEndian.Uint16(e[j*2:])))
		if norm {
			return max(v/32767, -1)
		}
		return v
	case ComponentUnsignedInt:
		return float32(binary.LittleEndian.Uint32(e[j*4:]))
	}
	return 0
}

// ReadVec3 reads a VEC3 accessor (positions, normals).
func (g *GLB) ReadVec3(index int) ([][3]float32, error) {
	acc, elems, err := g.accessorElements(index)
	if err != nil {
		return nil, err
	}
	if acc.Type != TypeVec3 {
		return nil, fmt.Errorf("%w: accessor %d is %s, want VEC3", ErrInvalidAccessor, index, acc.Type)
	}
	out := make([][3]float32, len(elems))
	for i, e := range elems {
		for j := 0; j < 3; j++ {
			out[i][j] = readComponent(e, acc.ComponentType, j, acc.Normalized)
		}
	}
	return out, nil
}

// ReadVec2 reads a VEC2 accessor (texture coordinates). Integer texture
// coordinates are always normalized.
func (g *GLB) ReadVec2(index int) ([][2]float32, error) {
	acc, elems, err := g.accessorElements(index)
	if err != nil {
		return nil, err
	}
	if acc.Type != TypeVec2 {
		return nil, fmt.Errorf("%w: accessor %d is %s, want VEC2", ErrInvalidAccessor, index, acc.Type)
	}
	norm := acc.Normalized || acc.ComponentType != ComponentFloat
	out := make([][2]float32, len(elems))
	for i, e := range elems {
		out[i] = [2]float32{
			readComponent(e, acc.ComponentType, 0, norm),
			readComponent(e, acc.ComponentType, 1, norm),
		}
	}
	return out, nil
}

// ReadIndices reads a SCALAR unsigned integer accessor.
func (g *GLB) ReadIndices(index int) ([]uint32, error) {
	acc, elems, err := g.accessorElements(index)
	if err != nil {
		return nil, err
	}
	if acc.Type != TypeScalar {
		return nil, fmt.Errorf("%w: index accessor %d is %s", ErrInvalidAccessor, index, acc.Type)
	}

	out := make([]uint32, len(elems))
	for i, e := range elems {
		switch acc.ComponentType {
		case ComponentUnsignedByte:
			out[i] = uint32(e[0])
		case ComponentUnsignedShort:
			out[i] = uint32(binary.LittleEndian.Uint16(e))
		case ComponentUnsignedInt:
			out[i] = binary.LittleEndian.Uint32(e)
		default:
			return nil, fmt.Errorf("%w: index accessor %d has component type %d", ErrInvalidAccessor, index, acc.ComponentType)
		}
	}
	return out, nil
}
