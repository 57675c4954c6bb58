package scenegraph

import (
	"github.com/qmuntal/gltf"

	"github.com/Faultbox/meshbake/pkg/math"
)

// LocalMatrix returns the node's local transform.
// An explicit matrix wins over translation/rotation/scale. The second return
// is false when the node declares no transform at all, in which case the
// identity is returned.
func LocalMatrix(n *gltf.Node) (math.Mat4, bool) {
	if n == nil {
		return math.Identity(), false
	}

	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return math.FromArray64(m), true
	}

	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	if t == ([3]float64{}) && r == gltf.DefaultRotation && s == gltf.DefaultScale {
		return math.Identity(), false
	}
	return math.Compose(math.Vec3FromArray64(t), math.QuatFromArray64(r), math.Vec3FromArray64(s)), true
}
