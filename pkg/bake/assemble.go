package bake

import (
	"github.com/qmuntal/gltf"

	"github.com/Faultbox/meshbake/pkg/layout"
)

// Generator is written to asset.generator of every baked document.
const Generator = "meshbake"

// Assemble builds the output document: one buffer, one merged mesh, one node
// holding it and, if a camera node was kept, a second node carrying the camera
// at its world transform. The default scene lists the mesh node first.
func Assemble(packed *layout.Result, merged *Consolidation, bufferURI string) *gltf.Document {
	doc := &gltf.Document{
		Asset: gltf.Asset{Version: "2.0", Generator: Generator},
	}

	buffer := *packed.Buffer
	buffer.URI = bufferURI
	doc.Buffers = append(doc.Buffers, &buffer)
	doc.BufferViews = append(doc.BufferViews, packed.BufferViews...)
	doc.Accessors = append(doc.Accessors, packed.Accessors...)

	doc.Meshes = append(doc.Meshes, merged.Mesh)
	doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: gltf.Index(len(doc.Meshes) - 1)})
	scene := &gltf.Scene{Nodes: []int{len(doc.Nodes) - 1}}

	if merged.Camera != nil {
		camera := *merged.Camera.Camera
		doc.Cameras = append(doc.Cameras, &camera)
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:   merged.Camera.Name,
			Camera: gltf.Index(len(doc.Cameras) - 1),
			Matrix: merged.Camera.World.Array64(),
		})
		scene.Nodes = append(scene.Nodes, len(doc.Nodes)-1)
	}

	doc.Scenes = append(doc.Scenes, scene)
	doc.Scene = gltf.Index(len(doc.Scenes) - 1)
	return doc
}
