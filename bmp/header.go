// project/bmp/header.go
package bmp

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	FileHeaderSize = 14
	InfoHeaderSize = 40
	// PixelOffset is where pixel rows start: no palette follows the headers.
	PixelOffset = FileHeaderSize + InfoHeaderSize

	signature = "BM"
)

// FileHeader is the 14-byte BITMAPFILEHEADER.
type FileHeader struct {
	Signature  [2]byte // BMP Signature (BM)
	FileSize   uint32  // Total file size
	Reserved1  uint16  // Reserved (0)
	Reserved2  uint16  // Reserved (0)
	DataOffset uint32  // Offset to image data
}

func (s *FileHeader) Read(r io.Reader) error {
	if _, err := io.ReadFull(r, s.Signature[:]); err != nil {
		return fmt.Errorf("reading signature: %w", err)
	}
	return readFields(r, &s.FileSize, &s.Reserved1, &s.Reserved2, &s.DataOffset)
}

func (s *FileHeader) Write(w io.Writer) error {
	if _, err := w.Write(s.Signature[:]); err != nil {
		return fmt.Errorf("writing signature: %w", err)
	}
	return writeFields(w, s.FileSize, s.Reserved1, s.Reserved2, s.DataOffset)
}

// InfoHeader is the 40-byte BITMAPINFOHEADER.
type InfoHeader struct {
	HeaderSize      uint32 // Size of the information header (40)
	Width           int32  // Image width
	Height          int32  // Image height
	Planes          uint16 // Number of color planes (always 1)
	BitsPerPixel    uint16 // Bits per pixel (24 for RGB)
	Compression     uint32 // Compression method (0 for uncompressed)
	ImageSize       uint32 // Size of the raw pixel data (0 for uncompressed)
	XPixelsPerMeter int32  // Horizontal resolution
	YPixelsPerMeter int32  // Vertical resolution
	ColorsUsed      uint32 // Palette entries (0 for true-color)
	ImportantColors uint32 // 0 means all colors are important
}

func (s *InfoHeader) Read(r io.Reader) error {
	return readFields(r,
		&s.HeaderSize, &s.Width, &s.Height, &s.Planes, &s.BitsPerPixel,
		&s.Compression, &s.ImageSize, &s.XPixelsPerMeter, &s.YPixelsPerMeter,
		&s.ColorsUsed, &s.ImportantColors)
}

func (s *InfoHeader) Write(w io.Writer) error {
	return writeFields(w,
		s.HeaderSize, s.Width, s.Height, s.Planes, s.BitsPerPixel,
		s.Compression, s.ImageSize, s.XPixelsPerMeter, s.YPixelsPerMeter,
		s.ColorsUsed, s.ImportantColors)
}

func readFields(r io.Reader, fields ...interface{}) error {
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func writeFields(w io.Writer, fields ...interface{}) error {
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

// RowPadding returns the zero bytes appended to a row of width pixels so
// that its length is a multiple of 4.
func RowPadding(width int) int {
	return (4 - (width*3)%4) % 4
}

// FileSize returns the total encoded size of a width x height image.
func FileSize(width, height int) int {
	return PixelOffset + height*(width*3+RowPadding(width))
}
