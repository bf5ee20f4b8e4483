// project/bmp/codec.go
package bmp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"BmpFilter/pixel"
)

var (
	// ErrFileNotFound is returned when a path cannot be opened for reading or created for writing.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidFormat is returned for a bad signature, an unsupported variant or a truncated stream.
	ErrInvalidFormat = errors.New("invalid bitmap")
)

// DefaultMaxPixels bounds the allocation a header can request.
// Each pixel costs 24 bytes once decoded.
const DefaultMaxPixels = 1 << 24

// quantizeBias keeps v*255 from truncating one step low when v came from b/255.
const quantizeBias = 1e-9

type options struct {
	bottomUp  bool
	maxPixels int
}

// Option tunes Decode and Encode.
type Option func(*options)

// WithBottomUp flips rows so that the last stored row becomes buffer row 0,
// which is how standard BMP readers lay out positive-height images.
// Without it, rows are used in stored order.
func WithBottomUp() Option {
	return func(o *options) { o.bottomUp = true }
}

// WithMaxPixels overrides DefaultMaxPixels for Decode.
func WithMaxPixels(n int) Option {
	return func(o *options) { o.maxPixels = n }
}

func collect(opts []Option) options {
	o := options{maxPixels: DefaultMaxPixels}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// storedRow maps the i-th row in the file to a buffer row.
func (o options) storedRow(i, height int) int {
	if o.bottomUp {
		return height - 1 - i
	}
	return i
}

// Decode reads an uncompressed 24-bit bitmap from r.
// No buffer is returned unless the whole pixel array was read.
func Decode(r io.Reader, opts ...Option) (*pixel.Buffer, error) {
	o := collect(opts)
	br := bufio.NewReader(r)

	var fh FileHeader
	if err := fh.Read(br); err != nil {
		return nil, fmt.Errorf("%w: file header: %w", ErrInvalidFormat, err)
	}
	if string(fh.Signature[:]) != signature {
		return nil, fmt.Errorf("%w: signature %q is not %q", ErrInvalidFormat, fh.Signature[:], signature)
	}

	var ih InfoHeader
	if err := ih.Read(br); err != nil {
		return nil, fmt.Errorf("%w: info header: %w", ErrInvalidFormat, err)
	}
	if err := checkInfoHeader(&fh, &ih, o.maxPixels); err != nil {
		return nil, err
	}

	if gap := int64(fh.DataOffset) - PixelOffset; gap > 0 {
		if _, err := io.CopyN(io.Discard, br, gap); err != nil {
			return nil, fmt.Errorf("%w: skipping to pixel data: %w", ErrInvalidFormat, err)
		}
	}

	width, height := int(ih.Width), int(ih.Height)
	stride := width*3 + RowPadding(width)

	// The pixel array is read before the float buffer is allocated, so a
	// header promising more data than the stream holds costs only what was read.
	need := int64(stride) * int64(height)
	data, err := io.ReadAll(io.LimitReader(br, need))
	if err != nil {
		return nil, fmt.Errorf("%w: pixel data: %w", ErrInvalidFormat, err)
	}
	if int64(len(data)) < need {
		return nil, fmt.Errorf("%w: pixel data is %d bytes, want %d: %w",
			ErrInvalidFormat, len(data), need, io.ErrUnexpectedEOF)
	}

	buf, err := pixel.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	for i := 0; i < height; i++ {
		row := data[i*stride : (i+1)*stride]
		y := o.storedRow(i, height)
		for x := 0; x < width; x++ {
			px := row[x*3 : x*3+3]
			c := pixel.Color{
				R: float64(px[2]) / 255.0,
				G: float64(px[1]) / 255.0,
				B: float64(px[0]) / 255.0,
			}
			if err := buf.Set(x, y, c); err != nil {
				return nil, err
			}
		}
	}
	return buf, nil
}

func checkInfoHeader(fh *FileHeader, ih *InfoHeader, maxPixels int) error {
	switch {
	case ih.HeaderSize < InfoHeaderSize:
		return fmt.Errorf("%w: info header size %d", ErrInvalidFormat, ih.HeaderSize)
	case ih.BitsPerPixel != 24:
		return fmt.Errorf("%w: %d bits per pixel, only 24 is supported", ErrInvalidFormat, ih.BitsPerPixel)
	case ih.Compression != 0:
		return fmt.Errorf("%w: compression method %d, only uncompressed is supported", ErrInvalidFormat, ih.Compression)
	case int64(fh.DataOffset) < FileHeaderSize+int64(ih.HeaderSize):
		return fmt.Errorf("%w: pixel data offset %d overlaps the %d-byte info header",
			ErrInvalidFormat, fh.DataOffset, ih.HeaderSize)
	case ih.Width <= 0 || ih.Height <= 0:
		return fmt.Errorf("%w: %w: %dx%d", ErrInvalidFormat, pixel.ErrInvalidDimension, ih.Width, ih.Height)
	case int64(ih.Width)*int64(ih.Height) > int64(maxPixels):
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidFormat, ih.Width, ih.Height, maxPixels)
	}
	return nil
}

// Encode writes buf to w as an uncompressed 24-bit bitmap.
// Channels are clamped to [0, 1] before being truncated to 8 bits.
func Encode(w io.Writer, buf *pixel.Buffer, opts ...Option) error {
	o := collect(opts)
	width, height := buf.Width(), buf.Height()

	fh := FileHeader{
		FileSize:   uint32(FileSize(width, height)),
		DataOffset: PixelOffset,
	}
	copy(fh.Signature[:], signature)
	ih := InfoHeader{
		HeaderSize:   InfoHeaderSize,
		Width:        int32(width),
		Height:       int32(height),
		Planes:       1,
		BitsPerPixel: 24,
	}

	bw := bufio.NewWriter(w)
	if err := fh.Write(bw); err != nil {
		return fmt.Errorf("writing file header: %w", err)
	}
	if err := ih.Write(bw); err != nil {
		return fmt.Errorf("writing info header: %w", err)
	}

	pad := RowPadding(width)
	row := make([]byte, width*3+pad)
	for i := 0; i < height; i++ {
		y := o.storedRow(i, height)
		for x := 0; x < width; x++ {
			c := buf.Get(x, y)
			row[x*3] = quantize(c.B)
			row[x*3+1] = quantize(c.G)
			row[x*3+2] = quantize(c.R)
		}
		// padding bytes stay zero
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + quantizeBias)
}

// DecodeFile opens path and decodes it.
func DecodeFile(path string, opts ...Option) (*pixel.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	defer f.Close()
	if info, err := f.Stat(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
	} else if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}

	buf, err := Decode(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return buf, nil
}

// EncodeFile creates (or truncates) path and encodes buf into it.
func EncodeFile(path string, buf *pixel.Buffer, opts ...Option) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err = Encode(f, buf, opts...); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
