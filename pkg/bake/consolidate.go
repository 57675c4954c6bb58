package bake

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshbake/pkg/layout"
	"github.com/Faultbox/meshbake/pkg/math"
	"github.com/Faultbox/meshbake/pkg/scenegraph"
)

// CameraNode is a camera-only source node kept aside for the output scene.
type CameraNode struct {
	Node   int          // source node index
	Name   string       // source node name
	Camera *gltf.Camera // source camera object
	World  math.Mat4
}

// Consolidation is the result of merging every mesh instance into one mesh.
type Consolidation struct {
	Mesh           *gltf.Mesh
	Camera         *CameraNode // nil when no camera node was kept
	MeshNodes      int
	SkippedCameras []int // camera nodes seen after the first
}

// Consolidator re-emits the primitives of every mesh-bearing node through a
// layout.Builder, with positions moved into world space.
type Consolidator struct {
	Doc              *gltf.Document
	Transforms       *scenegraph.Transforms
	Builder          *layout.Builder
	TransformNormals bool
	KeepCamera       bool
	Log              *zap.Logger
}

// Consolidate walks the source nodes in storage order. A mesh instanced by
// several nodes contributes one primitive per instance; index values are kept
// as-is, so every primitive addresses its own vertex block.
func (c *Consolidator) Consolidate() (*Consolidation, error) {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	out := &Consolidation{Mesh: &gltf.Mesh{}}
	for i, node := range c.Doc.Nodes {
		if node == nil {
			continue
		}

		switch {
		case node.Mesh != nil:
			if err := c.addInstance(out, i, *node.Mesh, log); err != nil {
				return nil, err
			}
			out.MeshNodes++

		case node.Camera != nil:
			camIdx := *node.Camera
			if camIdx < 0 || camIdx >= len(c.Doc.Cameras) || c.Doc.Cameras[camIdx] == nil {
				return nil, fmt.Errorf("node %d: camera %d: %w", i, camIdx, ErrDanglingCamera)
			}
			if !c.KeepCamera {
				continue
			}
			if out.Camera != nil {
				log.Warn("dropping extra camera node", zap.Int("node", i), zap.Int("kept", out.Camera.Node))
				out.SkippedCameras = append(out.SkippedCameras, i)
				continue
			}
			world, _ := c.Transforms.World(i)
			out.Camera = &CameraNode{Node: i, Name: node.Name, Camera: c.Doc.Cameras[camIdx], World: world}
			log.Debug("keeping camera node", zap.Int("node", i), zap.Int("camera", camIdx))
		}
	}

	return out, nil
}

func (c *Consolidator) addInstance(out *Consolidation, nodeIdx, meshIdx int, log *zap.Logger) error {
	if meshIdx < 0 || meshIdx >= len(c.Doc.Meshes) || c.Doc.Meshes[meshIdx] == nil {
		return fmt.Errorf("node %d: mesh %d: %w", nodeIdx, meshIdx, ErrDanglingMesh)
	}
	world, _ := c.Transforms.World(nodeIdx)
	mesh := c.Doc.Meshes[meshIdx]

	for p, prim := range mesh.Primitives {
		if prim == nil {
			continue
		}
		target, err := c.emitPrimitive(prim, world)
		if err != nil {
			return fmt.Errorf("node %d: mesh %d: primitive %d: %w", nodeIdx, meshIdx, p, err)
		}
		out.Mesh.Primitives = append(out.Mesh.Primitives, target)
	}

	log.Debug("merged mesh instance",
		zap.Int("node", nodeIdx),
		zap.Int("mesh", meshIdx),
		zap.Int("primitives", len(mesh.Primitives)),
	)
	return nil
}

// emitPrimitive writes normals, positions and indices, in that order, each
// into its own buffer view.
func (c *Consolidator) emitPrimitive(prim *gltf.Primitive, world math.Mat4) (*gltf.Primitive, error) {
	if prim.Indices == nil {
		return nil, ErrMissingIndices
	}

	target := &gltf.Primitive{
		Attributes: make(gltf.PrimitiveAttributes),
		Mode:       prim.Mode,
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := readNormals(c.Doc, idx)
		if err != nil {
			return nil, err
		}
		if c.TransformNormals {
			if normals, err = TransformNormals(normals, world); err != nil {
				return nil, err
			}
		}
		acr, err := c.appendVertices(normals, layout.ShapeNormal)
		if err != nil {
			return nil, err
		}
		target.Attributes[gltf.NORMAL] = acr
	}

	if idx, ok := prim.Attributes[gltf.POSITION]; ok {
		positions, err := readPositions(c.Doc, idx)
		if err != nil {
			return nil, err
		}
		if positions, err = TransformPositions(positions, world); err != nil {
			return nil, err
		}
		acr, err := c.appendVertices(positions, layout.ShapePosition)
		if err != nil {
			return nil, err
		}
		target.Attributes[gltf.POSITION] = acr
	}

	indices, err := readIndices(c.Doc, *prim.Indices)
	if err != nil {
		return nil, err
	}
	if _, err := c.Builder.Begin(layout.UsageIndex); err != nil {
		return nil, err
	}
	acr, err := c.Builder.AppendUint16(indices, layout.ShapeIndices)
	if err != nil {
		return nil, err
	}
	target.Indices = gltf.Index(acr)

	return target, nil
}

func (c *Consolidator) appendVertices(data []float32, shape layout.Shape) (int, error) {
	if _, err := c.Builder.Begin(layout.UsageVertex); err != nil {
		return 0, err
	}
	return c.Builder.AppendFloat32(data, shape)
}
