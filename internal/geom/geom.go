// Package geom provides the planar geometry primitives the motion analysis
// is built on: the angle at a joint vertex, vector measures, and angular
// variation over a series of angles.
//
// All coordinates are normalized image coordinates as delivered by the pose
// extractor; nothing here assumes a particular scale.
package geom

import (
	"errors"
	"math"
)

// ErrEmptyInput reports a reduction called on an empty sequence. This is a
// caller bug, not a data-quality condition: missing measurements are modeled
// as nil values upstream and must be filtered before reducing.
var ErrEmptyInput = errors.New("geom: empty input sequence")

// Point is a 2D point in normalized coordinates. Values are nominally in
// [0,1] but this is not enforced.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns the vector p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dot returns the dot product of u and v treated as vectors.
func Dot(u, v Point) float64 {
	return u.X*v.X + u.Y*v.Y
}

// Norm returns the Euclidean length of u treated as a vector.
func Norm(u Point) float64 {
	return math.Sqrt(u.X*u.X + u.Y*u.Y)
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return Norm(p.Sub(q))
}

// AngleAtVertex returns the angle in degrees at vertex b, formed by the rays
// b→a and b→c, in [0, 180]. If a or c coincides with b the angle carries no
// directional information and nil is returned.
//
// The cosine is clamped to [-1, 1] before the arc cosine so that floating
// point overshoot on collinear points cannot produce NaN.
func AngleAtVertex(a, b, c Point) *float64 {
	u := a.Sub(b)
	v := c.Sub(b)

	nu := Norm(u)
	nv := Norm(v)
	if nu == 0 || nv == 0 {
		return nil
	}

	cos := Dot(u, v) / (nu * nv)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	deg := math.Acos(cos) * 180 / math.Pi
	return &deg
}

// AngularVariation returns max - min over a sequence of angles in degrees.
// Returns ErrEmptyInput on an empty slice; callers are expected to have
// filtered out missing values already.
func AngularVariation(angles []float64) (float64, error) {
	if len(angles) == 0 {
		return 0, ErrEmptyInput
	}
	mn, mx := angles[0], angles[0]
	for _, a := range angles[1:] {
		if a < mn {
			mn = a
		}
		if a > mx {
			mx = a
		}
	}
	return mx - mn, nil
}
