package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a query location in MNI millimeter space.
type Point struct {
	X float64
	Y float64
	Z float64
}

// ParsePoint parses a caller-supplied "x_y_z" coordinate string. Exactly three
// floating-point values are required; anything else wraps ErrInvalidCoordinates
// and must be rejected before any index lookup.
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 {
		return Point{}, fmt.Errorf("%w: %q: expected x_y_z", ErrInvalidCoordinates, s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Point{}, fmt.Errorf("%w: %q: non-numeric component %q", ErrInvalidCoordinates, s, p)
		}
		vals[i] = v
	}
	return Point{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// Vector returns the point as a 3-dim float32 slice for KNN search.
func (p Point) Vector() []float32 {
	return []float32{float32(p.X), float32(p.Y), float32(p.Z)}
}
