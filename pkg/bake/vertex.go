package bake

import (
	"fmt"

	"github.com/Faultbox/meshbake/pkg/math"
)

// TransformPositions applies a world matrix to a flat x,y,z position sequence.
// Each triple is treated as a point with w=1; no perspective divide is applied.
func TransformPositions(positions []float32, world math.Mat4) ([]float32, error) {
	if len(positions)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d values", ErrPositionShape, len(positions))
	}

	out := make([]float32, len(positions))
	for i := 0; i < len(positions); i += 3 {
		p := world.TransformPoint([3]float32{positions[i], positions[i+1], positions[i+2]})
		copy(out[i:i+3], p[:])
	}
	return out, nil
}

// TransformNormals re-orients a flat normal sequence with the inverse-transpose
// of the world matrix and renormalizes each vector. Bake only calls it when
// normal correction is enabled; by default normals are copied unchanged.
func TransformNormals(normals []float32, world math.Mat4) ([]float32, error) {
	if len(normals)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d values", ErrPositionShape, len(normals))
	}

	nm := world.NormalMatrix()
	out := make([]float32, len(normals))
	for i := 0; i < len(normals); i += 3 {
		d := nm.TransformDirection([3]float32{normals[i], normals[i+1], normals[i+2]})
		n := math.Vec3{X: d[0], Y: d[1], Z: d[2]}.Normalize()
		out[i], out[i+1], out[i+2] = n.X, n.Y, n.Z
	}
	return out, nil
}
