package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/venues/internal/http/middleware"
)

const sampleCatalog = `[
  {"id": 7, "name": "Blue Room", "city": "Springfield", "state": "IL", "zip": "62701",
   "schedule": [{"start_date": "2013-03-04 19:00:00 -0800", "end_date": "2013-03-04 22:00:00 -0800"}]},
  {"id": 8, "name": "Hall", "schedule": null}
]`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	parseJSON = false
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseSummary(t *testing.T) {
	out, err := execute(t, sampleCatalog, "parse")
	require.NoError(t, err)
	assert.Contains(t, out, "Blue Room")
	assert.Contains(t, out, "Springfield, IL 62701")
	assert.Contains(t, out, "Mon 3/4 7:00PM to 10:00PM")
	assert.Contains(t, out, "2 venues")
}

func TestParseJSONFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venues.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	out, err := execute(t, "", "parse", "--json", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Hall"`)
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := execute(t, `[{"id": "seven"}]`, "parse", "-")
	assert.Error(t, err)
}

func TestScale(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	outPath := filepath.Join(dir, "out.png")

	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 800; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	out, err := execute(t, "", "scale", in, "-W", "100", "-H", "100", "--fit", "within", "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "800x600 -> 100x75 (sample 8, within)")

	g, err := os.Open(outPath)
	require.NoError(t, err)
	defer g.Close()
	cfg, err := png.DecodeConfig(g)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 75, cfg.Height)
}

func TestHashPasswordFromPipe(t *testing.T) {
	out, err := execute(t, "s3cret-pass\n", "hash-password")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.True(t, middleware.CheckPassword(hash, "s3cret-pass"))

	_, err = execute(t, "\n", "hash-password")
	assert.Error(t, err)
}
