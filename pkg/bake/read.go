package bake

import (
	"fmt"
	gomath "math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// accessor returns the accessor at idx once its data is known to lie inside
// the buffer views it references.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d: %w", idx, ErrDanglingAccessor)
	}
	acr := doc.Accessors[idx]
	if err := checkAccessor(doc, acr); err != nil {
		return nil, fmt.Errorf("accessor %d: %w: %w", idx, ErrUnreadableAccessor, err)
	}
	return acr, nil
}

// checkAccessor rejects accessors whose elements would be read outside their
// buffer view, including the views of sparse indices and values.
func checkAccessor(doc *gltf.Document, acr *gltf.Accessor) error {
	if acr.Count < 0 {
		return fmt.Errorf("negative count %d", acr.Count)
	}
	if acr.BufferView != nil {
		if err := checkRange(doc, *acr.BufferView, acr.ByteOffset, acr.Count, gltf.SizeOfElement(acr.ComponentType, acr.Type)); err != nil {
			return err
		}
	}
	if acr.Sparse == nil {
		return nil
	}

	sp := acr.Sparse
	if sp.Count < 0 || sp.Count > acr.Count {
		return fmt.Errorf("sparse count %d for %d elements", sp.Count, acr.Count)
	}
	switch sp.Indices.ComponentType {
	case gltf.ComponentUbyte, gltf.ComponentUshort, gltf.ComponentUint:
	default:
		return fmt.Errorf("sparse indices component type %v", sp.Indices.ComponentType)
	}
	if err := checkRange(doc, sp.Indices.BufferView, sp.Indices.ByteOffset, sp.Count, sp.Indices.ComponentType.ByteSize()); err != nil {
		return fmt.Errorf("sparse indices: %w", err)
	}
	if err := checkRange(doc, sp.Values.BufferView, sp.Values.ByteOffset, sp.Count, gltf.SizeOfElement(acr.ComponentType, acr.Type)); err != nil {
		return fmt.Errorf("sparse values: %w", err)
	}

	targets, err := modeler.ReadIndices(doc, &gltf.Accessor{
		BufferView:    gltf.Index(sp.Indices.BufferView),
		ByteOffset:    sp.Indices.ByteOffset,
		ComponentType: sp.Indices.ComponentType,
		Type:          gltf.AccessorScalar,
		Count:         sp.Count,
	}, nil)
	if err != nil {
		return fmt.Errorf("sparse indices: %w", err)
	}
	for i, target := range targets {
		if int(target) >= acr.Count {
			return fmt.Errorf("sparse index %d = %d, count %d", i, target, acr.Count)
		}
	}
	return nil
}

// checkRange verifies that count elements of elemSize bytes starting at
// offset fit in the buffer view and that the view fits its buffer.
func checkRange(doc *gltf.Document, view, offset, count, elemSize int) error {
	if view < 0 || view >= len(doc.BufferViews) || doc.BufferViews[view] == nil {
		return fmt.Errorf("buffer view %d does not exist", view)
	}
	bv := doc.BufferViews[view]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) || doc.Buffers[bv.Buffer] == nil {
		return fmt.Errorf("buffer view %d: buffer %d does not exist", view, bv.Buffer)
	}
	if bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteOffset+bv.ByteLength > len(doc.Buffers[bv.Buffer].Data) {
		return fmt.Errorf("buffer view %d: bytes [%d, %d) outside buffer of %d bytes",
			view, bv.ByteOffset, bv.ByteOffset+bv.ByteLength, len(doc.Buffers[bv.Buffer].Data))
	}
	if offset < 0 {
		return fmt.Errorf("negative byte offset %d", offset)
	}
	if count == 0 {
		return nil
	}
	stride := bv.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if end := offset + (count-1)*stride + elemSize; end > bv.ByteLength {
		return fmt.Errorf("elements end at byte %d of buffer view %d (%d bytes)", end, view, bv.ByteLength)
	}
	return nil
}

// readVec3 decodes a VEC3 attribute into a flat x,y,z sequence.
func readVec3(doc *gltf.Document, idx int, read func(*gltf.Document, *gltf.Accessor, [][3]float32) ([][3]float32, error)) ([]float32, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	if acr.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("accessor %d: %w: type %v, want VEC3", idx, ErrAccessorShape, acr.Type)
	}

	values, err := read(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w: %w", idx, ErrUnreadableAccessor, err)
	}
	return flatten(values), nil
}

func readPositions(doc *gltf.Document, idx int) ([]float32, error) {
	return readVec3(doc, idx, modeler.ReadPosition)
}

func readNormals(doc *gltf.Document, idx int) ([]float32, error) {
	return readVec3(doc, idx, modeler.ReadNormal)
}

// readIndices decodes a SCALAR index accessor as unsigned shorts.
// Unsigned byte indices are widened; unsigned int indices must fit 16 bits.
func readIndices(doc *gltf.Document, idx int) ([]uint16, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	if acr.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("accessor %d: %w: type %v, want SCALAR", idx, ErrAccessorShape, acr.Type)
	}
	switch acr.ComponentType {
	case gltf.ComponentUbyte, gltf.ComponentUshort, gltf.ComponentUint:
	default:
		return nil, fmt.Errorf("accessor %d: %w: component type %v", idx, ErrAccessorShape, acr.ComponentType)
	}

	values, err := modeler.ReadIndices(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w: %w", idx, ErrUnreadableAccessor, err)
	}

	out := make([]uint16, len(values))
	for i, v := range values {
		if v > gomath.MaxUint16 {
			return nil, fmt.Errorf("accessor %d: element %d = %d: %w", idx, i, v, ErrIndexRange)
		}
		out[i] = uint16(v)
	}
	return out, nil
}

func flatten(values [][3]float32) []float32 {
	out := make([]float32, 0, len(values)*3)
	for _, v := range values {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}
