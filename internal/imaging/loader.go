package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Rendition is an encoded, scaled venue image.
type Rendition struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	Placeholder bool
	Cached      bool
}

// Loader fetches venue images, scales them and caches the encoded result.
// When an image cannot be fetched or decoded the placeholder asset is used.
type Loader struct {
	fetcher     Fetcher
	assets      Fetcher
	placeholder string
	cache       Cache
	ttl         time.Duration
	group       singleflight.Group

	renderTimeout time.Duration
}

// DefaultRenderTimeout bounds one shared render, fetch included.
const DefaultRenderTimeout = 30 * time.Second

func NewLoader(fetcher, assets Fetcher, placeholder string, cache Cache, ttl time.Duration) *Loader {
	if cache == nil {
		cache = NopCache{}
	}
	return &Loader{
		fetcher:     fetcher,
		assets:      assets,
		placeholder: placeholder,
		cache:       cache,
		ttl:         ttl,

		renderTimeout: DefaultRenderTimeout,
	}
}

// Load decodes the image behind ref scaled toward width x height.
func (l *Loader) Load(ctx context.Context, ref string, width, height int, fit Fit) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTarget, width, height)
	}

	if ref != "" {
		bm, err := l.decode(ctx, l.fetcher, ref, width, height, fit)
		if err == nil {
			return bm, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn().Err(err).Str("ref", ref).Msg("[image] falling back to placeholder")
	}

	bm, err := l.decode(ctx, l.assets, l.placeholder, width, height, fit)
	if err != nil {
		return nil, fmt.Errorf("placeholder %s: %w", l.placeholder, err)
	}
	bm.Placeholder = true
	return bm, nil
}

func (l *Loader) decode(ctx context.Context, f Fetcher, ref string, width, height int, fit Fit) (*Bitmap, error) {
	rc, err := f.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Decode(rc, width, height, fit)
}

// Render returns the encoded rendition, serving it from cache when possible.
// Concurrent requests for the same rendition share one load that runs
// detached from any single caller, bounded by renderTimeout; each caller
// stops waiting when its own ctx is done. Placeholder renditions are not
// cached so a recovered source is picked up.
func (l *Loader) Render(ctx context.Context, ref string, width, height int, fit Fit) (*Rendition, error) {
	key := CacheKey(ref, width, height, fit)

	data, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[image] cache read failed")
	}
	if ok {
		r, err := cachedRendition(data)
		if err == nil {
			return r, nil
		}
		log.Warn().Err(err).Str("key", key).Msg("[image] dropping unreadable cache entry")
	}

	ch := l.group.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.renderTimeout)
		defer cancel()
		return l.render(shared, key, ref, width, height, fit)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Rendition), nil
	}
}

func (l *Loader) render(ctx context.Context, key, ref string, width, height int, fit Fit) (*Rendition, error) {
	bm, err := l.Load(ctx, ref, width, height, fit)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	contentType, err := Encode(&buf, bm.Image, bm.Format)
	if err != nil {
		return nil, err
	}

	r := &Rendition{
		Data:        buf.Bytes(),
		ContentType: contentType,
		Width:       bm.Width(),
		Height:      bm.Height(),
		Placeholder: bm.Placeholder,
	}
	if !r.Placeholder {
		if err := l.cache.Set(ctx, key, r.Data, l.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("[image] cache write failed")
		}
	}
	log.Debug().
		Str("ref", ref).
		Int("source_width", bm.SourceWidth).
		Int("source_height", bm.SourceHeight).
		Int("sample", bm.SampleSize).
		Bool("placeholder", bm.Placeholder).
		Msg("[image] rendered")
	return r, nil
}

func cachedRendition(data []byte) (*Rendition, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Rendition{
		Data:        data,
		ContentType: http.DetectContentType(data),
		Width:       cfg.Width,
		Height:      cfg.Height,
		Cached:      true,
	}, nil
}
