package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/venues/internal/db"
)

const mirrorTimeout = 30 * time.Second

// Mirror returns a subscriber that copies each loaded catalog into store.
// Empty catalogs are not mirrored so a failed load cannot wipe the table.
func Mirror(store db.Store) func(*Catalog) {
	return func(c *Catalog) {
		if c.Len() == 0 {
			log.Warn().Msg("[catalog] skipping mirror of empty catalog")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := store.ReplaceVenues(ctx, c.List()); err != nil {
			log.Error().Err(err).Str("etag", c.ETag()).Msg("[catalog] mirror failed")
		}
	}
}
