package storage

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestNormalizeFilename(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	assert.Equal(t, "summer_venues_20240506_070809.json", normalizeFilename("summer venues.json", now))
	assert.Equal(t, "file_20240506_070809.json", normalizeFilename("#!.json", now))
	assert.Equal(t, "catalog_v2_20240506_070809", normalizeFilename("catalog_v2", now))
}

func TestCleanName(t *testing.T) {
	for _, bad := range []string{"", "/etc/passwd", "../secret", "a/../../b", ".", `a\b`} {
		_, err := cleanName(bad)
		assert.ErrorIs(t, err, ErrBadName, bad)
	}
	got, err := cleanName("images/./placeholder.png")
	require.NoError(t, err)
	assert.Equal(t, "images/placeholder.png", got)
}

func TestLocalStorageSaveAndOpen(t *testing.T) {
	ctx := context.Background()
	ls := NewLocalStorage(t.TempDir())

	path, err := ls.Save(ctx, "catalog/venues.json", strings.NewReader(`[]`), "application/json")
	require.NoError(t, err)
	assert.Equal(t, "venues.json", filepath.Base(path))

	rc, err := ls.Open(ctx, "catalog/venues.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", readAll(t, rc))

	_, err = ls.Open(ctx, "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageSaveFile(t *testing.T) {
	dir := t.TempDir()
	ls := NewLocalStorage(dir)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("source", "my venues.json")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`[{"id":1}]`))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	header := req.MultipartForm.File["source"][0]

	saved, err := ls.SaveFile(header, header.Filename)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(saved), "my_venues_"))
	assert.Equal(t, filepath.Join(dir, "uploads"), filepath.Dir(saved))
}

func TestFSStorageIsReadOnly(t *testing.T) {
	fss := NewFSStorage(fstest.MapFS{"venues.json": {Data: []byte(`[]`)}})

	rc, err := fss.Open(context.Background(), "venues.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", readAll(t, rc))

	_, err = fss.Open(context.Background(), "nope.json")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = fss.Save(context.Background(), "venues.json", strings.NewReader("x"), "")
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestFallbackStorage(t *testing.T) {
	ctx := context.Background()
	primary := NewLocalStorage(t.TempDir())
	bundled := NewFSStorage(fstest.MapFS{
		"venues.json":     {Data: []byte(`["bundled"]`)},
		"placeholder.png": {Data: []byte("png")},
	})
	st := NewFallbackStorage(primary, bundled)

	rc, err := st.Open(ctx, "venues.json")
	require.NoError(t, err)
	assert.Equal(t, `["bundled"]`, readAll(t, rc))

	_, err = st.Save(ctx, "venues.json", strings.NewReader(`["uploaded"]`), "")
	require.NoError(t, err)

	rc, err = st.Open(ctx, "venues.json")
	require.NoError(t, err)
	assert.Equal(t, `["uploaded"]`, readAll(t, rc))

	rc, err = st.Open(ctx, "placeholder.png")
	require.NoError(t, err)
	assert.Equal(t, "png", readAll(t, rc))
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "application/json", getContentType("venues.JSON"))
	assert.Equal(t, "image/jpeg", getContentType("a.jpeg"))
	assert.Equal(t, "application/octet-stream", getContentType("a.bin"))
}
