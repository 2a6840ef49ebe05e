// Package sgolay implements a Savitzky-Golay smoothing filter: a fixed
// convolution kernel derived from a local least-squares polynomial fit.
package sgolay

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidConfig is returned for an even window or an order that is not
// below the window size
var ErrInvalidConfig = errors.New("invalid Savitzky-Golay configuration")

// pivotEpsilon replaces near-zero pivots during the Gauss-Jordan solve
const pivotEpsilon = 1e-10

// Validate checks a window size and polynomial order
func Validate(window, order int) error {
	if window < 1 || window%2 == 0 {
		return fmt.Errorf("%w: window size must be odd and positive, got %d", ErrInvalidConfig, window)
	}
	if order < 0 || order >= window {
		return fmt.Errorf("%w: polynomial order must be in [0, %d), got %d", ErrInvalidConfig, window, order)
	}
	return nil
}

// Smoother holds a precomputed kernel for one window/order pair
type Smoother struct {
	window int
	order  int
	kernel []float64
}

// New derives the kernel for the given window size and polynomial order
func New(window, order int) (*Smoother, error) {
	kernel, err := Coefficients(window, order)
	if err != nil {
		return nil, err
	}
	return &Smoother{window: window, order: order, kernel: kernel}, nil
}

// Window returns the kernel length
func (s *Smoother) Window() int { return s.window }

// Order returns the fitted polynomial order
func (s *Smoother) Order() int { return s.order }

// Kernel returns a copy of the convolution coefficients
func (s *Smoother) Kernel() []float64 {
	out := make([]float64, len(s.kernel))
	copy(out, s.kernel)
	return out
}

// Smooth convolves data with the kernel after reflecting half a window at
// each end. Input shorter than the window is returned as an unchanged copy.
func (s *Smoother) Smooth(data []float64) []float64 {
	n := len(data)
	out := make([]float64, n)
	if n < s.window {
		copy(out, data)
		return out
	}

	padded := reflect(data, s.window/2)
	for i := range out {
		out[i] = floats.Dot(s.kernel, padded[i:i+s.window])
	}
	return out
}

// Filter smooths data with a window/order Savitzky-Golay filter. The
// output always has the same length as data.
func Filter(data []float64, window, order int) ([]float64, error) {
	s, err := New(window, order)
	if err != nil {
		return nil, err
	}
	return s.Smooth(data), nil
}

// Coefficients returns the smoothing kernel: the first row of the
// pseudo-inverse (AᵀA)⁻¹Aᵀ of the local Vandermonde matrix A, i.e. the
// weights estimating the fitted value at the window center.
func Coefficients(window, order int) ([]float64, error) {
	if err := Validate(window, order); err != nil {
		return nil, err
	}

	half := window / 2
	cols := order + 1

	design := mat.NewDense(window, cols, nil)
	for i := 0; i < window; i++ {
		k := float64(i - half)
		for j := 0; j < cols; j++ {
			design.Set(i, j, math.Pow(k, float64(j)))
		}
	}

	var normal mat.Dense
	normal.Mul(design.T(), design)

	inverse := invert(&normal)

	var pinv mat.Dense
	pinv.Mul(inverse, design.T())

	kernel := make([]float64, window)
	copy(kernel, pinv.RawRowView(0))
	return kernel, nil
}

// invert computes the inverse of a square matrix by Gauss-Jordan
// elimination with partial pivoting. Pivots smaller than pivotEpsilon are
// replaced by ±pivotEpsilon so the solve never fails.
func invert(a mat.Matrix) *mat.Dense {
	n, _ := a.Dims()
	work := mat.DenseCopyOf(a)
	inv := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		inv.Set(i, i, 1)
	}

	for col := 0; col < n; col++ {
		pivotRow := col
		maxVal := math.Abs(work.At(col, col))
		for r := col + 1; r < n; r++ {
			if v := math.Abs(work.At(r, col)); v > maxVal {
				maxVal = v
				pivotRow = r
			}
		}
		if pivotRow != col {
			swapRows(work, col, pivotRow)
			swapRows(inv, col, pivotRow)
		}

		pivot := work.At(col, col)
		if math.Abs(pivot) < pivotEpsilon {
			if pivot < 0 {
				pivot = -pivotEpsilon
			} else {
				pivot = pivotEpsilon
			}
		}

		pivotWork := work.RawRowView(col)
		pivotInv := inv.RawRowView(col)
		floats.Scale(1/pivot, pivotWork)
		floats.Scale(1/pivot, pivotInv)

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := work.At(r, col)
			if factor == 0 {
				continue
			}
			floats.AddScaled(work.RawRowView(r), -factor, pivotWork)
			floats.AddScaled(inv.RawRowView(r), -factor, pivotInv)
		}
	}

	return inv
}

func swapRows(m *mat.Dense, i, j int) {
	a, b := m.RawRowView(i), m.RawRowView(j)
	for k := range a {
		a[k], b[k] = b[k], a[k]
	}
}

// reflect mirrors half samples around each endpoint without repeating the
// endpoint itself: [3 2 | 1 2 3 4 5 | 4 3] for half = 2.
func reflect(data []float64, half int) []float64 {
	n := len(data)
	padded := make([]float64, 0, n+2*half)
	for i := half; i >= 1; i-- {
		padded = append(padded, data[i])
	}
	padded = append(padded, data...)
	for i := n - 2; i >= n-1-half; i-- {
		padded = append(padded, data[i])
	}
	return padded
}
