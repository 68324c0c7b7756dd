// Package geometry provides the 3D point math used by the pose and
// biomechanics packages.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point3D is a position in detector coordinates. Z is zero for 2D detectors.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Vec returns p as a gonum vector.
func (p Point3D) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

func fromVec(v r3.Vec) Point3D {
	return Point3D{X: v.X, Y: v.Y, Z: v.Z}
}

// AngleBetween returns the angle in degrees at vertex formed by p1 and p3.
// If either arm has zero length the angle is undefined and 0 is returned.
func AngleBetween(p1, vertex, p3 Point3D) float64 {
	v1 := r3.Sub(p1.Vec(), vertex.Vec())
	v2 := r3.Sub(p3.Vec(), vertex.Vec())

	m1 := r3.Norm(v1)
	m2 := r3.Norm(v2)
	if m1 == 0 || m2 == 0 {
		return 0
	}

	// rounding can push the cosine just past ±1
	cos := r3.Dot(v1, v2) / (m1 * m2)
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180.0 / math.Pi
}

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Point3D) float64 {
	return r3.Norm(r3.Sub(p1.Vec(), p2.Vec()))
}

// Midpoint returns the point halfway between p1 and p2.
func Midpoint(p1, p2 Point3D) Point3D {
	return fromVec(r3.Scale(0.5, r3.Add(p1.Vec(), p2.Vec())))
}
