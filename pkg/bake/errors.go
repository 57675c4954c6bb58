package bake

import "errors"

// Source document errors. All of them abort the bake.
var (
	ErrDanglingMesh       = errors.New("node references a missing mesh")
	ErrDanglingCamera     = errors.New("node references a missing camera")
	ErrDanglingAccessor   = errors.New("primitive references a missing accessor")
	ErrMissingIndices     = errors.New("primitive has no indices accessor")
	ErrUnreadableAccessor = errors.New("accessor data cannot be read")
	ErrAccessorShape      = errors.New("accessor has an unexpected shape")
	ErrIndexRange         = errors.New("index does not fit an unsigned short")
	ErrPositionShape      = errors.New("position sequence length is not a multiple of 3")
	ErrNoGeometry         = errors.New("source document has no mesh nodes")
)
