package imaging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Nixie-Tech-LLC/venues/internal/storage"
)

// Fetcher opens the encoded bytes behind an image reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (io.ReadCloser, error)
}

// HTTPFetcher downloads http and https image URLs.
type HTTPFetcher struct {
	client *resty.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "image/*")
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) (io.ReadCloser, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", ref, err)
	}
	if resp.StatusCode() != http.StatusOK {
		resp.RawBody().Close()
		return nil, fmt.Errorf("failed to fetch %s: status %d", ref, resp.StatusCode())
	}
	return resp.RawBody(), nil
}

// StorageFetcher treats references as asset names in storage.
type StorageFetcher struct {
	storage storage.Storage
}

func NewStorageFetcher(st storage.Storage) *StorageFetcher {
	return &StorageFetcher{storage: st}
}

func (f *StorageFetcher) Fetch(ctx context.Context, ref string) (io.ReadCloser, error) {
	return f.storage.Open(ctx, ref)
}

// SchemeFetcher sends http(s) references to Remote and everything else to Local.
type SchemeFetcher struct {
	Remote Fetcher
	Local  Fetcher
}

func (f SchemeFetcher) Fetch(ctx context.Context, ref string) (io.ReadCloser, error) {
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return f.Remote.Fetch(ctx, ref)
	}
	return f.Local.Fetch(ctx, ref)
}
