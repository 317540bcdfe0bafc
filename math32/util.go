package math32

import "math"

// Min returns the minimum of two values.
func Min[T float32 | int32](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two values.
func Max[T float32 | int32](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Abs returns the absolute value of a float32.
func Abs(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}

// Sqrt returns the square root of a float32.
func Sqrt(a float32) float32 {
	return float32(math.Sqrt(float64(a)))
}

// Floor returns the greatest integer value less than or equal to a.
func Floor(a float32) float32 {
	return float32(math.Floor(float64(a)))
}

// NextBelow returns the largest float32 strictly less than a.
func NextBelow(a float32) float32 {
	return math.Nextafter32(a, float32(math.Inf(-1)))
}
