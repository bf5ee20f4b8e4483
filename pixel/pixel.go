// project/pixel/pixel.go
package pixel

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension is returned when a buffer is requested with a non-positive width or height.
	ErrInvalidDimension = errors.New("invalid buffer dimension")
	// ErrOutOfBounds is returned when Set is called outside the buffer.
	ErrOutOfBounds = errors.New("pixel out of bounds")
)

// Color holds linear RGB channels, nominally in [0, 1].
// Intermediate convolution sums may leave that range.
type Color struct {
	R float64
	G float64
	B float64
}

// Scale returns c with every channel multiplied by k.
func (c Color) Scale(k float64) Color {
	return Color{R: c.R * k, G: c.G * k, B: c.B * k}
}

// Add returns the per-channel sum of c and o.
func (c Color) Add(o Color) Color {
	return Color{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B}
}

// Buffer is a fixed-size, row-major grid of colors.
type Buffer struct {
	width  int
	height int
	colors []Color
}

// New returns a black buffer of the given size.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	return &Buffer{
		width:  width,
		height: height,
		colors: make([]Color, width*height),
	}, nil
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// Get returns the color at (x, y). Coordinates outside the buffer are
// clamped to the nearest edge on each axis independently, however far out they are.
func (b *Buffer) Get(x, y int) Color {
	return b.colors[clamp(y, b.height)*b.width+clamp(x, b.width)]
}

// Set writes c at (x, y), which must lie inside the buffer.
func (b *Buffer) Set(x, y int, c Color) error {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	b.colors[y*b.width+x] = c
	return nil
}

// Pixels returns a row-major copy of the buffer contents.
func (b *Buffer) Pixels() []Color {
	out := make([]Color, len(b.colors))
	copy(out, b.colors)
	return out
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
