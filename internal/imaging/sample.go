package imaging

import (
	"fmt"
	"strings"
)

// Fit selects how the power-of-two sample size is chosen.
type Fit int

const (
	// FitAtLeast picks the largest factor that keeps both dimensions above
	// the requested size; the result may still be larger than requested.
	FitAtLeast Fit = iota
	// FitWithin picks the smallest factor that brings both dimensions down
	// to the requested size or below.
	FitWithin
)

func (f Fit) String() string {
	switch f {
	case FitWithin:
		return "within"
	default:
		return "atleast"
	}
}

// ParseFit maps "atleast" / "within" (and "") to a Fit.
func ParseFit(s string) (Fit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "atleast", "at-least":
		return FitAtLeast, nil
	case "within":
		return FitWithin, nil
	default:
		return FitAtLeast, fmt.Errorf("unknown fit %q", s)
	}
}

// SampleSize returns the largest power of two that keeps both halved source
// dimensions above the requested ones, or 1 when the source already fits.
func SampleSize(srcW, srcH, reqW, reqH int) (int, error) {
	if err := checkTarget(reqW, reqH); err != nil {
		return 0, err
	}
	sample := 1
	if srcH > reqH || srcW > reqW {
		halfH := srcH / 2
		halfW := srcW / 2
		for halfH/sample > reqH && halfW/sample > reqW {
			sample *= 2
		}
	}
	return sample, nil
}

// SampleSizeWithin returns the smallest power of two for which the sampled
// size does not exceed the requested size in either dimension.
func SampleSizeWithin(srcW, srcH, reqW, reqH int) (int, error) {
	if err := checkTarget(reqW, reqH); err != nil {
		return 0, err
	}
	sample := 1
	for ceilDiv(srcW, sample) > reqW || ceilDiv(srcH, sample) > reqH {
		sample *= 2
	}
	return sample, nil
}

func checkTarget(reqW, reqH int) error {
	if reqW <= 0 || reqH <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTarget, reqW, reqH)
	}
	return nil
}

func sampleSize(fit Fit, srcW, srcH, reqW, reqH int) (int, error) {
	if fit == FitWithin {
		return SampleSizeWithin(srcW, srcH, reqW, reqH)
	}
	return SampleSize(srcW, srcH, reqW, reqH)
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
