package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleSize(t *testing.T) {
	cases := []struct {
		srcW, srcH, reqW, reqH int
		want                   int
	}{
		{100, 100, 200, 200, 1},
		{1000, 800, 100, 100, 4},
		{4000, 3000, 400, 300, 8},
		{2048, 1536, 100, 100, 8},
		{1000, 100, 100, 100, 1},
		{401, 401, 100, 100, 2},
		{400, 400, 100, 100, 2},
		{200, 200, 100, 100, 1},
	}
	for _, tc := range cases {
		got, err := SampleSize(tc.srcW, tc.srcH, tc.reqW, tc.reqH)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%dx%d -> %dx%d", tc.srcW, tc.srcH, tc.reqW, tc.reqH)

		// both sampled dimensions stay at or above the request
		if got > 1 {
			assert.GreaterOrEqual(t, tc.srcW/got, tc.reqW)
			assert.GreaterOrEqual(t, tc.srcH/got, tc.reqH)
		}
	}
}

func TestSampleSizeWithin(t *testing.T) {
	cases := []struct {
		srcW, srcH, reqW, reqH int
		want                   int
	}{
		{100, 100, 200, 200, 1},
		{1000, 800, 100, 100, 16},
		{4000, 3000, 400, 300, 16},
		{200, 100, 100, 100, 2},
		{201, 100, 100, 100, 4},
	}
	for _, tc := range cases {
		got, err := SampleSizeWithin(tc.srcW, tc.srcH, tc.reqW, tc.reqH)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%dx%d -> %dx%d", tc.srcW, tc.srcH, tc.reqW, tc.reqH)
		assert.LessOrEqual(t, ceilDiv(tc.srcW, got), tc.reqW)
		assert.LessOrEqual(t, ceilDiv(tc.srcH, got), tc.reqH)
		assert.Zero(t, got&(got-1), "sample size must be a power of two")
	}
}

func TestSampleSizeRejectsNonPositiveTarget(t *testing.T) {
	targets := [][2]int{{0, 0}, {-1, -1}, {100, 0}, {0, 100}}
	for _, target := range targets {
		_, err := SampleSize(800, 600, target[0], target[1])
		assert.ErrorIs(t, err, ErrInvalidTarget, "SampleSize %v", target)

		_, err = SampleSizeWithin(800, 600, target[0], target[1])
		assert.ErrorIs(t, err, ErrInvalidTarget, "SampleSizeWithin %v", target)
	}
}

func TestParseFit(t *testing.T) {
	f, err := ParseFit("")
	assert.NoError(t, err)
	assert.Equal(t, FitAtLeast, f)

	f, err = ParseFit("Within")
	assert.NoError(t, err)
	assert.Equal(t, FitWithin, f)
	assert.Equal(t, "within", f.String())

	_, err = ParseFit("stretch")
	assert.Error(t, err)
}
