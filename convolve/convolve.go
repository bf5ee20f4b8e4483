// Package convolve applies square convolution kernels to pixel buffers.
package convolve

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"

	"BmpFilter/pixel"
)

// MaxSize is the largest supported kernel side length.
const MaxSize = 9

// ErrInvalidKernel is returned for kernels that are not odd squares of side at most MaxSize.
var ErrInvalidKernel = errors.New("invalid kernel")

// Kernel is a row-major M x M matrix of weights stored as a flat slice.
type Kernel []float64

// Size returns the side length M of the kernel.
func (k Kernel) Size() (int, error) {
	m := int(math.Sqrt(float64(len(k))))
	for m*m > len(k) {
		m--
	}
	for (m+1)*(m+1) <= len(k) {
		m++
	}
	if len(k) == 0 || m*m != len(k) || m%2 == 0 {
		return 0, fmt.Errorf("%w: kernel size must be an odd perfect square, got %d weights", ErrInvalidKernel, len(k))
	}
	if m > MaxSize {
		return 0, fmt.Errorf("%w: kernel may be no bigger than %dx%d, got %dx%d", ErrInvalidKernel, MaxSize, MaxSize, m, m)
	}
	return m, nil
}

// Reversed returns a copy of k with its weights in reverse order,
// i.e. the matrix rotated by 180 degrees.
func (k Kernel) Reversed() Kernel {
	out := make(Kernel, len(k))
	for i, w := range k {
		out[len(k)-1-i] = w
	}
	return out
}

// Sum returns the total of all weights. Kernels that sum to 1 preserve flat regions.
func (k Kernel) Sum() float64 {
	return lo.Sum(k)
}

// Apply convolves src with k and returns a new buffer of the same size.
// Samples beyond the border are taken from the nearest edge pixel.
// Sums are not clamped; src is never modified.
func Apply(src *pixel.Buffer, k Kernel) (*pixel.Buffer, error) {
	m, err := k.Size()
	if err != nil {
		return nil, err
	}
	rk := k.Reversed()
	half := m / 2

	dst, err := pixel.New(src.Width(), src.Height())
	if err != nil {
		return nil, err
	}
	for row := 0; row < src.Height(); row++ {
		for col := 0; col < src.Width(); col++ {
			var sum pixel.Color
			for i, w := range rk {
				sample := src.Get(col-half+i%m, row-half+i/m)
				sum = sum.Add(sample.Scale(w))
			}
			if err := dst.Set(col, row, sum); err != nil {
				return nil, err
			}
		}
	}
	return dst, nil
}
