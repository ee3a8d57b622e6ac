package storage

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
)

// FallbackStorage writes to primary and reads from primary first, falling
// back to the secondary store for assets primary does not have.
type FallbackStorage struct {
	primary   Storage
	secondary Storage
}

func NewFallbackStorage(primary, secondary Storage) *FallbackStorage {
	return &FallbackStorage{primary: primary, secondary: secondary}
}

func (f *FallbackStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := f.primary.Open(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return f.secondary.Open(ctx, name)
	}
	return rc, err
}

func (f *FallbackStorage) Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	return f.primary.Save(ctx, name, r, contentType)
}

func (f *FallbackStorage) SaveFile(fileHeader *multipart.FileHeader, filename string) (string, error) {
	return f.primary.SaveFile(fileHeader, filename)
}
