package math32

import (
	"fmt"
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// ErrZeroLength is returned when normalizing a vector with no magnitude.
// Callers that derive axes from cross products are expected to filter
// degenerate vectors before normalizing.
var ErrZeroLength = errors.New("cannot normalize a zero-length vector")

// Vector3 represents a 3D vector.
type Vector3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Add adds two vectors.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub subtracts two vectors.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale scales a vector by a scalar.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot calculates the dot product of two vectors.
func (v Vector3) Dot(other Vector3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross calculates the cross product of two vectors.
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// LengthSquared calculates the squared length of a vector.
func (v Vector3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length calculates the length of a vector.
func (v Vector3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalize returns the unit vector pointing in the same direction.
// Returns ErrZeroLength when the vector has no magnitude.
func (v Vector3) Normalize() (Vector3, error) {
	l := v.Length()
	if l == 0 {
		return Vector3{}, ErrZeroLength
	}
	return v.Scale(1.0 / l), nil
}

// Canonical returns the vector with every -0.0 component replaced by 0.0,
// so canonical vectors are safe to use as map keys.
func (v Vector3) Canonical() Vector3 {
	if v.X == 0 {
		v.X = 0
	}
	if v.Y == 0 {
		v.Y = 0
	}
	if v.Z == 0 {
		v.Z = 0
	}
	return v
}

// Equals reports component-wise equality. Negative zero compares equal to
// positive zero on every component.
func (v Vector3) Equals(other Vector3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// IsZero reports whether every component is zero, of either sign.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Get returns the component of the vector at the given index.
func (v Vector3) Get(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	return 0
}

// String returns a string representation of the vector.
func (v Vector3) String() string {
	return fmt.Sprintf("[%f,%f,%f]", v.X, v.Y, v.Z)
}
