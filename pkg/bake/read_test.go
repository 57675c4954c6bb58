package bake

import (
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRange(t *testing.T) {
	doc := &gltf.Document{
		Buffers: []*gltf.Buffer{{ByteLength: 64, Data: make([]byte, 64)}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: 36},                 // tight vec3 floats
			{Buffer: 0, ByteOffset: 0, ByteLength: 44, ByteStride: 16}, // interleaved
			{Buffer: 0, ByteOffset: 32, ByteLength: 64},                // past the buffer
			{Buffer: 3, ByteLength: 4},
		},
	}

	tests := []struct {
		name    string
		view    int
		offset  int
		count   int
		wantErr bool
	}{
		{"tight fit", 0, 0, 3, false},
		{"one element too many", 0, 0, 4, true},
		{"offset pushes past end", 0, 4, 3, true},
		{"offset beyond view", 0, 4096, 1, true},
		{"negative offset", 0, -4, 1, true},
		{"empty accessor", 0, 36, 0, false},
		{"strided last element fits", 1, 0, 3, false},
		{"strided one too many", 1, 0, 4, true},
		{"strided offset", 1, 4, 3, true},
		{"view outside buffer", 2, 0, 1, true},
		{"missing buffer", 3, 0, 1, true},
		{"missing view", 9, 0, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkRange(doc, tt.view, tt.offset, tt.count, 12)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReadIndices_UnsignedByte(t *testing.T) {
	doc := newDoc()
	mesh := addMesh(doc, nil, nil, []uint8{2, 1, 0})
	got, err := readIndices(doc, *doc.Meshes[mesh].Primitives[0].Indices)
	require.NoError(t, err)
	assert.Equal(t, []uint16{2, 1, 0}, got)
}
