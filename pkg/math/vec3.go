// Package math provides the single-precision vector, quaternion and matrix
// types used to bake scene-graph transforms into vertex data.
package math

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Vec3FromArray64 converts a glTF translation or scale triple.
func Vec3FromArray64(a [3]float64) Vec3 {
	return Vec3{float32(a[0]), float32(a[1]), float32(a[2])}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalize returns a unit vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}
