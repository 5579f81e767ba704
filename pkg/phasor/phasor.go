package phasor

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Operation names accepted by Apply.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpDivide   = "divide"
	OpParallel = "parallel"
)

var Operations = []string{OpAdd, OpSubtract, OpMultiply, OpDivide, OpParallel}

func Add(z1, z2 complex128) complex128 {
	return complex(real(z1)+real(z2), imag(z1)+imag(z2))
}

func Subtract(z1, z2 complex128) complex128 {
	return complex(real(z1)-real(z2), imag(z1)-imag(z2))
}

func Multiply(z1, z2 complex128) complex128 {
	re := real(z1)*real(z2) - imag(z1)*imag(z2)
	im := real(z1)*imag(z2) + imag(z1)*real(z2)
	return complex(re, im)
}

// Divide computes (z1·conj(z2)) / |z2|². A zero denominator is not guarded:
// the result carries IEEE Inf/NaN so sweeps can pass through such points.
func Divide(z1, z2 complex128) complex128 {
	reNum := real(z1)*real(z2) + imag(z1)*imag(z2)
	imNum := imag(z1)*real(z2) - real(z1)*imag(z2)
	den := real(z2)*real(z2) + imag(z2)*imag(z2)
	return complex(reNum/den, imNum/den)
}

// Parallel combines two impedances with the product-over-sum rule.
func Parallel(z1, z2 complex128) complex128 {
	return Divide(Multiply(z1, z2), Add(z1, z2))
}

func Magnitude(z complex128) float64 {
	return math.Hypot(real(z), imag(z))
}

// Phase in degrees
func Phase(z complex128) float64 {
	return cmplx.Phase(z) * 180.0 / math.Pi
}

func Apply(op string, z1, z2 complex128) (complex128, error) {
	switch op {
	case OpAdd:
		return Add(z1, z2), nil
	case OpSubtract:
		return Subtract(z1, z2), nil
	case OpMultiply:
		return Multiply(z1, z2), nil
	case OpDivide:
		return Divide(z1, z2), nil
	case OpParallel:
		return Parallel(z1, z2), nil
	}
	return 0, fmt.Errorf("unknown operation: %s", op)
}
