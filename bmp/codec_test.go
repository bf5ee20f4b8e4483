package bmp

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"io"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xbmp "golang.org/x/image/bmp"

	"BmpFilter/pixel"
)

// handBuilt returns a file with the given info-header fields and raw pixel bytes.
func handBuilt(t *testing.T, width, height int32, bpp uint16, pixels []byte) []byte {
	t.Helper()
	var b bytes.Buffer
	fh := FileHeader{
		FileSize:   uint32(PixelOffset + len(pixels)),
		DataOffset: PixelOffset,
	}
	copy(fh.Signature[:], "BM")
	ih := InfoHeader{HeaderSize: InfoHeaderSize, Width: width, Height: height, Planes: 1, BitsPerPixel: bpp}
	require.NoError(t, fh.Write(&b))
	require.NoError(t, ih.Write(&b))
	b.Write(pixels)
	return b.Bytes()
}

var twoByTwo = []byte{
	0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0, 0, // row 0: red, green, pad
	0xFF, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0, 0, // row 1: blue, white, pad
}

// TestHeaderWriteRead writes both headers and reads them back for verification.
func TestHeaderWriteRead(t *testing.T) {
	original := FileHeader{FileSize: 70, Reserved1: 0, Reserved2: 0, DataOffset: PixelOffset}
	copy(original.Signature[:], "BM")
	originalInfo := InfoHeader{
		HeaderSize: InfoHeaderSize, Width: 2, Height: -2, Planes: 1, BitsPerPixel: 24,
		XPixelsPerMeter: 2835, YPixelsPerMeter: 2835,
	}

	// --- Write Phase ---
	var b bytes.Buffer
	require.NoError(t, original.Write(&b))
	require.NoError(t, originalInfo.Write(&b))
	require.Equal(t, PixelOffset, b.Len())
	log.Println("-> Headers written.")

	// --- Read Phase ---
	var readHeader FileHeader
	var readInfo InfoHeader
	require.NoError(t, readHeader.Read(&b))
	require.NoError(t, readInfo.Read(&b))
	log.Println("-> Headers read.")

	// --- Verification Phase ---
	if !reflect.DeepEqual(original, readHeader) {
		t.Errorf("Headers do not match.\nOriginal: %+v\nRead:     %+v", original, readHeader)
	}
	if !reflect.DeepEqual(originalInfo, readInfo) {
		t.Errorf("InfoHeaders do not match.\nOriginal: %+v\nRead:     %+v", originalInfo, readInfo)
	}
}

func TestRowPadding(t *testing.T) {
	for width, want := range map[int]int{1: 1, 2: 2, 3: 3, 4: 0, 5: 1, 8: 0} {
		assert.Equal(t, want, RowPadding(width), "width %d", width)
	}
	assert.Equal(t, 54+2*8, FileSize(2, 2))
}

func TestDecodeHandBuilt(t *testing.T) {
	buf, err := Decode(bytes.NewReader(handBuilt(t, 2, 2, 24, twoByTwo)))
	require.NoError(t, err)
	require.Equal(t, 2, buf.Width())
	require.Equal(t, 2, buf.Height())

	want := []pixel.Color{
		{R: 1, G: 0, B: 0}, {R: 0, G: 1, B: 0},
		{R: 0, G: 0, B: 1}, {R: 1, G: 1, B: 1},
	}
	if diff := cmp.Diff(want, buf.Pixels()); diff != "" {
		t.Errorf("decoded pixels mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBottomUp(t *testing.T) {
	buf, err := Decode(bytes.NewReader(handBuilt(t, 2, 2, 24, twoByTwo)), WithBottomUp())
	require.NoError(t, err)
	assert.Equal(t, pixel.Color{B: 1}, buf.Get(0, 0))
	assert.Equal(t, pixel.Color{R: 1}, buf.Get(0, 1))
}

func TestEncodeLayout(t *testing.T) {
	buf, err := pixel.New(3, 2)
	require.NoError(t, err)
	require.NoError(t, buf.Set(0, 0, pixel.Color{R: 1}))
	require.NoError(t, buf.Set(2, 1, pixel.Color{B: 1, G: 0.5}))

	var b bytes.Buffer
	require.NoError(t, Encode(&b, buf))
	data := b.Bytes()

	require.Len(t, data, FileSize(3, 2))
	assert.Equal(t, []byte("BM"), data[0:2])
	le := binary.LittleEndian
	assert.Equal(t, uint32(54+2*12), le.Uint32(data[2:6]))
	assert.Equal(t, uint32(0), le.Uint32(data[6:10]))
	assert.Equal(t, uint32(54), le.Uint32(data[10:14]))
	assert.Equal(t, uint32(40), le.Uint32(data[14:18]))
	assert.Equal(t, uint32(3), le.Uint32(data[18:22]))
	assert.Equal(t, uint32(2), le.Uint32(data[22:26]))
	assert.Equal(t, uint16(1), le.Uint16(data[26:28]))
	assert.Equal(t, uint16(24), le.Uint16(data[28:30]))
	assert.Equal(t, make([]byte, 24), data[30:54])

	wantPixels := []byte{
		0x00, 0x00, 0xFF, 0, 0, 0, 0, 0, 0, 0, 0, 0, // row 0 + 3 pad
		0, 0, 0, 0, 0, 0, 0xFF, 0x7F, 0x00, 0, 0, 0, // row 1 + 3 pad
	}
	assert.Equal(t, wantPixels, data[54:])
}

func TestEncodeClampsChannels(t *testing.T) {
	buf, err := pixel.New(1, 1)
	require.NoError(t, err)
	require.NoError(t, buf.Set(0, 0, pixel.Color{R: 1.7, G: -0.3, B: math.NaN()}))

	var b bytes.Buffer
	require.NoError(t, Encode(&b, buf))
	assert.Equal(t, []byte{0x00, 0x00, 0xFF, 0}, b.Bytes()[54:])
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sizes := [][2]int{{1, 1}, {1, 64}, {64, 1}, {2, 3}, {5, 7}, {13, 4}, {64, 64}}
	for i := 0; i < 8; i++ {
		sizes = append(sizes, [2]int{1 + rng.Intn(64), 1 + rng.Intn(64)})
	}

	for _, size := range sizes {
		for _, bottomUp := range []bool{false, true} {
			var opts []Option
			if bottomUp {
				opts = append(opts, WithBottomUp())
			}
			src, err := pixel.New(size[0], size[1])
			require.NoError(t, err)
			for y := 0; y < size[1]; y++ {
				for x := 0; x < size[0]; x++ {
					require.NoError(t, src.Set(x, y, pixel.Color{R: rng.Float64(), G: rng.Float64(), B: rng.Float64()}))
				}
			}

			var b bytes.Buffer
			require.NoError(t, Encode(&b, src, opts...))
			got, err := Decode(&b, opts...)
			require.NoError(t, err)

			if diff := cmp.Diff(src.Pixels(), got.Pixels(), cmpopts.EquateApprox(0, 1.0/255)); diff != "" {
				t.Errorf("%dx%d bottomUp=%v round trip mismatch (-want +got):\n%s", size[0], size[1], bottomUp, diff)
			}
		}
	}
}

// Decoded samples are exact multiples of 1/255 and must re-encode to the same bytes.
func TestReencodeIsStable(t *testing.T) {
	pixels := make([]byte, 0, 256*3)
	for v := 0; v < 256; v++ {
		pixels = append(pixels, byte(v), byte(255-v), byte(v*7))
	}
	file := handBuilt(t, 256, 1, 24, pixels)

	buf, err := Decode(bytes.NewReader(file))
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, Encode(&b, buf))
	assert.Equal(t, file[54:], b.Bytes()[54:])
}

func TestDecodeErrors(t *testing.T) {
	good := handBuilt(t, 2, 2, 24, twoByTwo)

	badSig := append([]byte(nil), good...)
	badSig[0] = 'P'

	offsetLow := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(offsetLow[10:14], 40)

	compressed := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(compressed[30:34], 1)

	coreHeader := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(coreHeader[14:18], 12)

	// A V5 header at offset 54 would have its tail read as pixels.
	v5Header := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(v5Header[14:18], 124)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad signature", badSig},
		{"short file header", good[:9]},
		{"short info header", good[:30]},
		{"truncated pixels", good[:len(good)-1]},
		{"missing padding", good[:len(good)-2]},
		{"8 bpp", handBuilt(t, 2, 2, 8, twoByTwo)},
		{"compressed", compressed},
		{"offset inside headers", offsetLow},
		{"info header too small", coreHeader},
		{"offset inside extended header", v5Header},
		{"headers only for 16384x16384", handBuilt(t, 16384, 16384, 24, nil)},
		{"zero width", handBuilt(t, 0, 2, 24, twoByTwo)},
		{"negative height", handBuilt(t, 2, -2, 24, twoByTwo)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Decode(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, ErrInvalidFormat)
			assert.Nil(t, buf)
		})
	}

	_, err := Decode(bytes.NewReader(handBuilt(t, 0, 2, 24, twoByTwo)))
	assert.ErrorIs(t, err, pixel.ErrInvalidDimension)

	_, err = Decode(bytes.NewReader(good), WithMaxPixels(3))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

// A header may promise far more pixel data than the stream holds. Decoding
// must report the truncation without allocating for the promised size.
func TestDecodeTruncatedHugeImage(t *testing.T) {
	header := handBuilt(t, 16384, 16384, 24, twoByTwo)

	buf, err := Decode(bytes.NewReader(header))
	assert.ErrorIs(t, err, ErrInvalidFormat, "over the default pixel limit")
	assert.Nil(t, buf)

	buf, err = Decode(bytes.NewReader(header), WithMaxPixels(1<<30))
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Nil(t, buf)
}

func TestDecodeExtendedInfoHeader(t *testing.T) {
	const v4Size = 108
	good := handBuilt(t, 2, 2, 24, twoByTwo)
	data := append([]byte(nil), good[:PixelOffset]...)
	binary.LittleEndian.PutUint32(data[10:14], FileHeaderSize+v4Size)
	binary.LittleEndian.PutUint32(data[14:18], v4Size)
	data = append(data, make([]byte, v4Size-InfoHeaderSize)...)
	data = append(data, twoByTwo...)

	buf, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, pixel.Color{R: 1}, buf.Get(0, 0))
	assert.Equal(t, pixel.Color{R: 1, G: 1, B: 1}, buf.Get(1, 1))
}

func TestDecodeHonorsLargerOffset(t *testing.T) {
	good := handBuilt(t, 2, 2, 24, twoByTwo)
	shifted := append([]byte(nil), good[:PixelOffset]...)
	binary.LittleEndian.PutUint32(shifted[10:14], PixelOffset+4)
	shifted = append(shifted, 0xDE, 0xAD, 0xBE, 0xEF)
	shifted = append(shifted, twoByTwo...)

	buf, err := Decode(bytes.NewReader(shifted))
	require.NoError(t, err)
	assert.Equal(t, pixel.Color{R: 1}, buf.Get(0, 0))
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := DecodeFile(filepath.Join(dir, "missing.bmp"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = DecodeFile(dir)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.NotErrorIs(t, err, ErrInvalidFormat)

	buf, err := pixel.New(1, 1)
	require.NoError(t, err)
	err = EncodeFile(filepath.Join(dir, "no", "such", "dir.bmp"), buf)
	assert.ErrorIs(t, err, ErrFileNotFound)

	notBMP := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(notBMP, []byte("hello, this is not a bitmap at all........................"), 0644))
	_, err = DecodeFile(notBMP)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bmp")
	src, err := Decode(bytes.NewReader(handBuilt(t, 2, 2, 24, twoByTwo)))
	require.NoError(t, err)

	require.NoError(t, EncodeFile(path, src))
	got, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, src.Pixels(), got.Pixels())
}

// Bottom-up output must read correctly with an independent decoder.
func TestBottomUpInterop(t *testing.T) {
	src, err := pixel.New(3, 2)
	require.NoError(t, err)
	colors := []pixel.Color{
		{R: 1}, {G: 1}, {B: 1},
		{R: 1, G: 1}, {G: 1, B: 1}, {R: 1, G: 1, B: 1},
	}
	for i, c := range colors {
		require.NoError(t, src.Set(i%3, i/3, c))
	}

	var b bytes.Buffer
	require.NoError(t, Encode(&b, src, WithBottomUp()))
	img, err := xbmp.Decode(&b)
	require.NoError(t, err)
	require.Equal(t, 3, img.Bounds().Dx())
	require.Equal(t, 2, img.Bounds().Dy())

	for i, c := range colors {
		got := color.RGBAModel.Convert(img.At(i%3, i/3)).(color.RGBA)
		want := color.RGBA{R: quantize(c.R), G: quantize(c.G), B: quantize(c.B), A: 0xFF}
		assert.Equal(t, want, got, "pixel (%d, %d)", i%3, i/3)
	}
}
