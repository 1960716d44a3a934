// Package geometry provides planar joint-angle math for pose landmarks.
package geometry

import "math"

// Point is a 2D point in normalized [0,1] image coordinates.
type Point struct {
	X float64
	Y float64
}

// Angle computes the angle in degrees at vertex b between the rays b→a
// and b→c. The result is folded into [0,180]: a reflex angle is replaced
// by 360 minus itself. Returns ok=false if any input point is missing.
func Angle(a, b, c *Point) (float64, bool) {
	if a == nil || b == nil || c == nil {
		return 0, false
	}

	rad := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	deg := math.Abs(rad * 180.0 / math.Pi)
	if deg > 180 {
		deg = 360 - deg
	}
	return deg, true
}
