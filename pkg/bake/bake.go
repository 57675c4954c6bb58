// Package bake flattens a glTF scene graph into a single mesh.
//
// Every node that references a mesh contributes its primitives, with
// positions pre-multiplied by the node's world transform, to one merged mesh
// stored in one buffer. A camera-only node may be carried over as a second
// node. Materials, textures, skins, morph targets and animations are dropped.
package bake

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshbake/pkg/layout"
	"github.com/Faultbox/meshbake/pkg/scenegraph"
)

// DefaultBufferName names the output buffer when Options.BufferName is empty.
const DefaultBufferName = "MergedMesh"

// Options controls a bake run.
type Options struct {
	// BufferName is the name of the single output buffer.
	BufferName string
	// BufferURI is written to the output buffer. Leave empty for GLB output.
	BufferURI string
	// TransformNormals re-orients normals with the inverse-transpose of the
	// world matrix. When false normals are copied unchanged, which is only
	// correct for rotations, translations and uniform scale.
	TransformNormals bool
	// KeepCamera carries the first camera-only node into the output scene.
	KeepCamera bool
	// Logger receives progress messages. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns the settings that reproduce the classic merge.
func DefaultOptions() Options {
	return Options{
		BufferName: DefaultBufferName,
		BufferURI:  DefaultBufferName + ".bin",
		KeepCamera: true,
	}
}

// Stats summarizes a bake run.
type Stats struct {
	SourceNodes    int
	Roots          int
	MaxDepth       int
	MeshNodes      int
	Primitives     int
	Accessors      int
	BufferViews    int
	BufferBytes    int
	Camera         bool
	SkippedCameras int
}

// Bake resolves transforms, merges every mesh instance and assembles the
// output document. Nothing is returned unless every step succeeds.
func Bake(src *gltf.Document, opts Options) (*gltf.Document, *Stats, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.BufferName == "" {
		opts.BufferName = DefaultBufferName
	}

	transforms, err := scenegraph.Resolve(src.Nodes)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving transforms: %w", err)
	}
	log.Info("transforms resolved",
		zap.Int("nodes", transforms.Len()),
		zap.Int("roots", len(transforms.Roots())),
	)

	builder := layout.New(opts.BufferName)
	consolidator := &Consolidator{
		Doc:              src,
		Transforms:       transforms,
		Builder:          builder,
		TransformNormals: opts.TransformNormals,
		KeepCamera:       opts.KeepCamera,
		Log:              log,
	}
	merged, err := consolidator.Consolidate()
	if err != nil {
		return nil, nil, fmt.Errorf("consolidating meshes: %w", err)
	}
	if merged.MeshNodes == 0 {
		return nil, nil, ErrNoGeometry
	}
	log.Info("meshes consolidated",
		zap.Int("mesh_nodes", merged.MeshNodes),
		zap.Int("primitives", len(merged.Mesh.Primitives)),
	)

	packed, err := builder.Finalize()
	if err != nil {
		return nil, nil, fmt.Errorf("finalizing buffer: %w", err)
	}

	doc := Assemble(packed, merged, opts.BufferURI)
	stats := &Stats{
		SourceNodes:    transforms.Len(),
		Roots:          len(transforms.Roots()),
		MaxDepth:       transforms.MaxDepth(),
		MeshNodes:      merged.MeshNodes,
		Primitives:     len(merged.Mesh.Primitives),
		Accessors:      len(packed.Accessors),
		BufferViews:    len(packed.BufferViews),
		BufferBytes:    packed.Buffer.ByteLength,
		Camera:         merged.Camera != nil,
		SkippedCameras: len(merged.SkippedCameras),
	}
	log.Info("document assembled",
		zap.Int("buffer_bytes", stats.BufferBytes),
		zap.Bool("camera", stats.Camera),
	)
	return doc, stats, nil
}
