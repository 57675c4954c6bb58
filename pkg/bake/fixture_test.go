package bake

import (
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

var triangle = [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

func newDoc() *gltf.Document {
	return &gltf.Document{Asset: gltf.Asset{Version: "2.0"}}
}

// addMesh appends a one-primitive mesh and returns its index.
func addMesh(doc *gltf.Document, positions [][3]float32, normals [][3]float32, indices any) int {
	prim := &gltf.Primitive{Attributes: gltf.PrimitiveAttributes{}}
	if normals != nil {
		prim.Attributes[gltf.NORMAL] = modeler.WriteNormal(doc, normals)
	}
	if positions != nil {
		prim.Attributes[gltf.POSITION] = modeler.WritePosition(doc, positions)
	}
	switch idx := indices.(type) {
	case nil:
	case []uint8:
		// WriteIndices only takes 16 and 32 bit indices.
		prim.Indices = gltf.Index(modeler.WriteAccessor(doc, gltf.TargetElementArrayBuffer, idx))
	default:
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, idx))
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Primitives: []*gltf.Primitive{prim}})
	return len(doc.Meshes) - 1
}

func unflatten(flat []float32) [][3]float32 {
	out := make([][3]float32, 0, len(flat)/3)
	for i := 0; i+2 < len(flat); i += 3 {
		out = append(out, [3]float32{flat[i], flat[i+1], flat[i+2]})
	}
	return out
}

// addSparse overrides element target of accessor acr with value.
func addSparse(doc *gltf.Document, acr int, target uint16, value [3]float32) {
	idx := modeler.WriteAccessor(doc, gltf.TargetNone, []uint16{target})
	val := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{value})
	doc.Accessors[acr].Sparse = &gltf.Sparse{
		Count: 1,
		Indices: gltf.SparseIndices{
			BufferView:    *doc.Accessors[idx].BufferView,
			ComponentType: gltf.ComponentUshort,
		},
		Values: gltf.SparseValues{BufferView: *doc.Accessors[val].BufferView},
	}
}
