package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func TestDecodeKeepsSmallImages(t *testing.T) {
	bm, err := Decode(bytes.NewReader(pngBytes(t, 80, 60)), 100, 100, FitAtLeast)
	require.NoError(t, err)
	assert.Equal(t, 1, bm.SampleSize)
	assert.Equal(t, 80, bm.Width())
	assert.Equal(t, 60, bm.Height())
	assert.Equal(t, "png", bm.Format)
}

// a wide image is not "already small" just because its width fits the height
func TestDecodeComparesWidthWithWidth(t *testing.T) {
	bm, err := Decode(bytes.NewReader(pngBytes(t, 300, 50)), 100, 400, FitWithin)
	require.NoError(t, err)
	assert.Equal(t, 4, bm.SampleSize)
	assert.Equal(t, 75, bm.Width())
	assert.Equal(t, 13, bm.Height())
}

func TestDecodeDownsamplesAtLeast(t *testing.T) {
	bm, err := Decode(bytes.NewReader(jpegBytes(t, 1000, 800)), 100, 100, FitAtLeast)
	require.NoError(t, err)
	assert.Equal(t, 4, bm.SampleSize)
	assert.Equal(t, 250, bm.Width())
	assert.Equal(t, 200, bm.Height())
	assert.Equal(t, 1000, bm.SourceWidth)
	assert.Equal(t, "jpeg", bm.Format)
}

func TestDecodeDownsamplesWithin(t *testing.T) {
	bm, err := Decode(bytes.NewReader(pngBytes(t, 1000, 800)), 100, 100, FitWithin)
	require.NoError(t, err)
	assert.Equal(t, 16, bm.SampleSize)
	assert.LessOrEqual(t, bm.Width(), 100)
	assert.LessOrEqual(t, bm.Height(), 100)
	assert.Equal(t, 63, bm.Width())
	assert.Equal(t, 50, bm.Height())
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(bytes.NewReader(pngBytes(t, 10, 10)), 0, 10, FitAtLeast)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = Decode(strings.NewReader("not an image"), 10, 10, FitAtLeast)
	assert.Error(t, err)
}

// endlessReader never reports EOF, like a remote body that keeps streaming.
type endlessReader struct{ read int64 }

func (r *endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0xff
	}
	r.read += int64(len(p))
	return len(p), nil
}

func TestDecodeCapsSourceBytes(t *testing.T) {
	r := &endlessReader{}
	_, err := Decode(r, 10, 10, FitAtLeast)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.LessOrEqual(t, r.read, int64(MaxSourceBytes)+64*1024)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	ct, err := Encode(&buf, testImage(4, 4), "png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	buf.Reset()
	ct, err = Encode(&buf, testImage(4, 4), "webp")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
	_, format, err := image.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}
