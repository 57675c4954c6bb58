// Package layout packs typed attribute sequences into a single glTF buffer.
//
// A Builder owns one growing byte region. Callers open a buffer view with
// Begin, append one or more sequences into it, and call Finalize once to get
// the buffer together with every view and accessor in creation order. Bytes
// are never overwritten and views never overlap.
package layout

import (
	"encoding/binary"
	"errors"
	"fmt"
	gomath "math"

	"github.com/qmuntal/gltf"
)

// Builder errors.
var (
	ErrFinalized     = errors.New("layout builder already finalized")
	ErrNoActiveView  = errors.New("no active buffer view: call Begin first")
	ErrShapeMismatch = errors.New("sequence does not match accessor shape")
	ErrEmptySequence = errors.New("empty sequence")
)

// viewAlignment is the alignment of every buffer view start. It covers the
// widest supported component type and the 4-byte vertex attribute rule.
const viewAlignment = 4

// Usage is the intended binding of a buffer view.
type Usage int

const (
	UsageVertex Usage = iota // Vertex attribute array
	UsageIndex               // Index array
)

// Target returns the glTF buffer view target for the usage.
func (u Usage) Target() gltf.Target {
	if u == UsageIndex {
		return gltf.TargetElementArrayBuffer
	}
	return gltf.TargetArrayBuffer
}

// String returns a human-readable usage name.
func (u Usage) String() string {
	switch u {
	case UsageVertex:
		return "vertex"
	case UsageIndex:
		return "index"
	default:
		return fmt.Sprintf("Unknown(%d)", int(u))
	}
}

// Shape describes how an appended sequence is exposed through its accessor.
type Shape struct {
	Type      gltf.AccessorType
	Component gltf.ComponentType
	Bounds    bool // compute per-component min/max
}

// Common attribute shapes.
var (
	ShapePosition = Shape{Type: gltf.AccessorVec3, Component: gltf.ComponentFloat, Bounds: true}
	ShapeNormal   = Shape{Type: gltf.AccessorVec3, Component: gltf.ComponentFloat, Bounds: true}
	ShapeIndices  = Shape{Type: gltf.AccessorScalar, Component: gltf.ComponentUshort}
)

// View is a handle to a buffer view created by Begin.
type View int

// Result is the finalized output of a Builder.
type Result struct {
	Buffer      *gltf.Buffer
	BufferViews []*gltf.BufferView
	Accessors   []*gltf.Accessor
}

// Builder is an append-only binary packer. It is not safe for concurrent use.
type Builder struct {
	name      string
	data      []byte
	views     []*gltf.BufferView
	accessors []*gltf.Accessor
	active    *gltf.BufferView
	finalized bool
}

// New creates an empty builder whose buffer will carry the given name.
func New(name string) *Builder {
	return &Builder{name: name}
}

// Begin starts a new buffer view at the next aligned offset.
func (b *Builder) Begin(usage Usage) (View, error) {
	if b.finalized {
		return 0, ErrFinalized
	}

	b.pad(viewAlignment)
	b.active = &gltf.BufferView{
		Buffer:     0,
		ByteOffset: len(b.data),
		Target:     usage.Target(),
	}
	b.views = append(b.views, b.active)
	return View(len(b.views) - 1), nil
}

// AppendFloat32 writes a float sequence into the active view and returns the
// new accessor's index.
func (b *Builder) AppendFloat32(data []float32, shape Shape) (int, error) {
	if shape.Component != gltf.ComponentFloat {
		return 0, fmt.Errorf("%w: float data for component type %v", ErrShapeMismatch, shape.Component)
	}
	return appendSeq(b, data, shape, func(dst []byte, v float32) []byte {
		return binary.LittleEndian.AppendUint32(dst, gomath.Float32bits(v))
	})
}

// AppendUint16 writes an unsigned short sequence into the active view and
// returns the new accessor's index.
func (b *Builder) AppendUint16(data []uint16, shape Shape) (int, error) {
	if shape.Component != gltf.ComponentUshort {
		return 0, fmt.Errorf("%w: uint16 data for component type %v", ErrShapeMismatch, shape.Component)
	}
	return appendSeq(b, data, shape, binary.LittleEndian.AppendUint16)
}

// Finalize returns the packed buffer with all views and accessors.
// It may be called once; the builder rejects further use afterwards.
func (b *Builder) Finalize() (*Result, error) {
	if b.finalized {
		return nil, ErrFinalized
	}
	b.finalized = true
	b.active = nil

	return &Result{
		Buffer: &gltf.Buffer{
			Name:       b.name,
			ByteLength: len(b.data),
			Data:       b.data,
		},
		BufferViews: b.views,
		Accessors:   b.accessors,
	}, nil
}

type component interface {
	~float32 | ~uint16
}

func appendSeq[T component](b *Builder, data []T, shape Shape, put func([]byte, T) []byte) (int, error) {
	if b.finalized {
		return 0, ErrFinalized
	}
	if b.active == nil {
		return 0, ErrNoActiveView
	}
	if len(data) == 0 {
		return 0, ErrEmptySequence
	}
	width := shape.Type.Components()
	if width == 0 || len(data)%width != 0 {
		return 0, fmt.Errorf("%w: %d values for %v", ErrShapeMismatch, len(data), shape.Type)
	}

	b.pad(shape.Component.ByteSize())
	start := len(b.data)
	for _, v := range data {
		b.data = put(b.data, v)
	}
	b.active.ByteLength = len(b.data) - b.active.ByteOffset

	view := len(b.views) - 1
	acr := &gltf.Accessor{
		BufferView:    gltf.Index(view),
		ByteOffset:    start - b.active.ByteOffset,
		ComponentType: shape.Component,
		Type:          shape.Type,
		Count:         len(data) / width,
	}
	if shape.Bounds {
		acr.Min, acr.Max = bounds(data, width)
	}

	b.accessors = append(b.accessors, acr)
	return len(b.accessors) - 1, nil
}

// pad zero-fills the buffer up to the next multiple of align.
func (b *Builder) pad(align int) {
	if align <= 1 {
		return
	}
	for len(b.data)%align != 0 {
		b.data = append(b.data, 0)
	}
}

// bounds returns the per-component minimum and maximum of an interleaved sequence.
func bounds[T component](data []T, width int) (minValues, maxValues []float64) {
	lo := make([]T, width)
	hi := make([]T, width)
	copy(lo, data[:width])
	copy(hi, data[:width])

	for i := width; i < len(data); i++ {
		j := i % width
		lo[j] = min(lo[j], data[i])
		hi[j] = max(hi[j], data[i])
	}

	minValues = make([]float64, width)
	maxValues = make([]float64, width)
	for j := 0; j < width; j++ {
		minValues[j] = float64(lo[j])
		maxValues[j] = float64(hi[j])
	}
	return minValues, maxValues
}
