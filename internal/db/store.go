// exposes a Store interface that is passed to the catalog and API layers
package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/venues/internal/model"
)

type Store interface {
	// ReplaceVenues swaps the stored catalog for venues in one transaction.
	ReplaceVenues(ctx context.Context, venues []model.Venue) error
	ListVenues(ctx context.Context) ([]model.Venue, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	return &pgStore{db: db}
}
