package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Faultbox/meshbake/internal/config"
	"github.com/Faultbox/meshbake/internal/resource"
	"github.com/Faultbox/meshbake/pkg/scenegraph"
)

func writeScene(t *testing.T, dir string) {
	t.Helper()
	doc := &gltf.Document{Asset: gltf.Asset{Version: "2.0"}}
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Buffers[0].URI = "scene.bin"
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{
		Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos},
		Indices:    gltf.Index(idx),
	}}}}
	doc.Nodes = []*gltf.Node{
		{Name: "root", Translation: [3]float64{0, 0, 5}, Children: []int{1}},
		{Name: "leaf", Mesh: gltf.Index(0)},
	}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	doc.Scene = gltf.Index(0)
	require.NoError(t, gltf.Save(doc, filepath.Join(dir, "scene.gltf")))
}

func TestRunBake(t *testing.T) {
	tests := []struct {
		name   string
		out    string
		binary bool
	}{
		{"gltf", "MergedMesh.gltf", false},
		{"glb by name", "MergedMesh.glb", false},
		{"glb by flag", "merged.gltf", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeScene(t, dir)

			cfg := config.Default()
			cfg.Input.BaseDir = dir
			cfg.Input.File = "scene.gltf"
			cfg.Output.Dir = filepath.Join(dir, "out")
			cfg.Output.File = tt.out
			cfg.Output.Binary = tt.binary

			stats, err := runBake(cfg, zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, 2, stats.SourceNodes)
			assert.Equal(t, 1, stats.MeshNodes)
			assert.Equal(t, 1, stats.MaxDepth)

			doc, err := gltf.Open(filepath.Join(dir, "out", tt.out))
			require.NoError(t, err)
			require.Len(t, doc.Meshes, 1)
			require.Len(t, doc.Buffers, 1)
			assert.Equal(t, "MergedMesh", doc.Buffers[0].Name)

			prim := doc.Meshes[0].Primitives[0]
			got, err := modeler.ReadPosition(doc, doc.Accessors[prim.Attributes[gltf.POSITION]], nil)
			require.NoError(t, err)
			assert.Equal(t, [][3]float32{{0, 0, 5}, {1, 0, 5}, {0, 1, 5}}, got)
		})
	}
}

func TestRunBakeMissingInput(t *testing.T) {
	cfg := config.Default()
	cfg.Input.BaseDir = t.TempDir()
	cfg.Input.File = "missing.gltf"

	_, err := runBake(cfg, zap.NewNop())
	assert.ErrorIs(t, err, resource.ErrNotAccessible)
}

func TestInputFiles(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir)
	store, err := resource.NewStore(dir)
	require.NoError(t, err)

	files, err := inputFiles(store, "scene.gltf")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(store.Base(), "scene.gltf"),
		filepath.Join(store.Base(), "scene.bin"),
	}, files)

	files, err = inputFiles(store, "pending.gltf")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(store.Base(), "pending.gltf")}, files)
}

func TestPrintHierarchy(t *testing.T) {
	doc := &gltf.Document{Nodes: []*gltf.Node{
		{Name: "leaf", Mesh: gltf.Index(0)},
		{Name: "root", Children: []int{2}},
		{Children: []int{0}, Camera: gltf.Index(1)},
	}}
	tr, err := scenegraph.Resolve(doc.Nodes)
	require.NoError(t, err)

	var buf bytes.Buffer
	printHierarchy(&buf, doc, tr)
	assert.Equal(t, ""+
		"    [0] leaf (mesh 0, parent 2)\n"+
		"[1] root\n"+
		"  [2] node2 (camera 1, parent 1)\n", buf.String())
}
