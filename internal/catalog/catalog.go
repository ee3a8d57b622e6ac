package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/Nixie-Tech-LLC/venues/internal/model"
)

var ErrNotFound = errors.New("venue not found")

// Catalog is an immutable snapshot of the venue list with an id index.
type Catalog struct {
	venues   []model.Venue
	index    map[int64]int
	loadedAt time.Time
	etag     string
}

// New indexes venues by id. When ids repeat, the last record wins the index
// while every record stays in the list.
func New(venues []model.Venue, loadedAt time.Time) *Catalog {
	c := &Catalog{
		venues:   venues,
		index:    make(map[int64]int, len(venues)),
		loadedAt: loadedAt,
	}
	for i, v := range venues {
		c.index[v.ID] = i
	}
	c.etag = computeETag(venues)
	return c
}

// Empty returns a catalog without venues.
func Empty() *Catalog {
	return New(nil, time.Time{})
}

func (c *Catalog) List() []model.Venue {
	out := make([]model.Venue, len(c.venues))
	copy(out, c.venues)
	return out
}

func (c *Catalog) Get(id int64) (model.Venue, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Venue{}, false
	}
	return c.venues[i], true
}

// Lookup is Get with an error, for callers that propagate ErrNotFound.
func (c *Catalog) Lookup(id int64) (model.Venue, error) {
	v, ok := c.Get(id)
	if !ok {
		return model.Venue{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return v, nil
}

func (c *Catalog) Len() int { return len(c.venues) }

func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

func (c *Catalog) ETag() string { return c.etag }

func computeETag(venues []model.Venue) string {
	data, err := jsoniter.ConfigFastest.Marshal(venues)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
