// Package arith provides integer and float arithmetic functions callable by
// name.
package arith

import (
	"errors"

	"github.com/vk/fndispatch/internal/registry"
)

// ErrDivisionByZero is returned by Div and Mod.
var ErrDivisionByZero = errors.New("division by zero")

// Module implements the registry.Module interface for this package.
type Module struct{}

// Add returns a + b.
func Add(a, b int) int { return a + b }

// Sub returns a - b.
func Sub(a, b int) int { return a - b }

// Mul returns a * b.
func Mul(a, b int) int { return a * b }

// Div returns a / b, truncated toward zero.
func Div(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

// Mod returns a % b.
func Mod(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a % b, nil
}

// Sum adds all of xs.
func Sum(xs ...int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, errors.New("mean of empty list")
	}
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs)), nil
}

// Register registers the functions with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.Declare("Add, Sub, Mul, Div, Mod, Sum, Mean", Add, Sub, Mul, Div, Mod, Sum, Mean)
}
