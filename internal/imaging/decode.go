package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxSourceBytes caps how much of an encoded image is read.
const MaxSourceBytes = 32 << 20

const (
	maxSourcePixels = 64 << 20
	jpegQuality     = 85
)

var (
	ErrInvalidTarget = errors.New("target width and height must be positive")
	ErrTooLarge      = errors.New("image exceeds size limit")
)

// Bitmap is a decoded, possibly downsampled image.
type Bitmap struct {
	Image        image.Image
	Format       string
	SourceWidth  int
	SourceHeight int
	SampleSize   int
	Placeholder  bool
}

func (b *Bitmap) Width() int  { return b.Image.Bounds().Dx() }
func (b *Bitmap) Height() int { return b.Image.Bounds().Dy() }

// Decode reads an encoded image and scales it toward reqW x reqH. The bounds
// are decoded first; an image that already fits is returned unscaled,
// otherwise it is reduced by the power-of-two sample size chosen by fit.
func Decode(r io.Reader, reqW, reqH int, fit Fit) (*Bitmap, error) {
	if err := checkTarget(reqW, reqH); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxSourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > MaxSourceBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxSourceBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image bounds: %w", err)
	}
	if cfg.Width*cfg.Height > maxSourcePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bm := &Bitmap{
		Image:        img,
		Format:       format,
		SourceWidth:  cfg.Width,
		SourceHeight: cfg.Height,
		SampleSize:   1,
	}
	if cfg.Width <= reqW && cfg.Height <= reqH {
		return bm, nil
	}

	if bm.SampleSize, err = sampleSize(fit, cfg.Width, cfg.Height, reqW, reqH); err != nil {
		return nil, err
	}
	if bm.SampleSize > 1 {
		bm.Image = downsample(img, bm.SampleSize)
	}
	return bm, nil
}

func downsample(src image.Image, sample int) image.Image {
	sr := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, ceilDiv(sr.Dx(), sample), ceilDiv(sr.Dy(), sample)))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, sr, draw.Src, nil)
	return dst
}

// Encode writes img as PNG when format is "png" and as JPEG otherwise,
// returning the content type written.
func Encode(w io.Writer, img image.Image, format string) (string, error) {
	if format == "png" {
		if err := png.Encode(w, img); err != nil {
			return "", fmt.Errorf("failed to encode png: %w", err)
		}
		return "image/png", nil
	}
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return "image/jpeg", nil
}
