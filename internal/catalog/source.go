package catalog

import (
	"context"
	"fmt"

	"github.com/Nixie-Tech-LLC/venues/internal/db"
	"github.com/Nixie-Tech-LLC/venues/internal/model"
	"github.com/Nixie-Tech-LLC/venues/internal/storage"
)

// Source produces the full venue list for one load.
type Source interface {
	Fetch(ctx context.Context) ([]model.Venue, error)
}

// JSONSource reads a venue document from storage.
type JSONSource struct {
	storage storage.Storage
	name    string
}

func NewJSONSource(st storage.Storage, name string) *JSONSource {
	return &JSONSource{storage: st, name: name}
}

func (s *JSONSource) Fetch(ctx context.Context) ([]model.Venue, error) {
	rc, err := s.storage.Open(ctx, s.name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.name, err)
	}
	defer rc.Close()

	venues, err := ReadVenues(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.name, err)
	}
	return venues, nil
}

// StoreSource reads the venues mirrored into the database.
type StoreSource struct {
	store db.Store
}

func NewStoreSource(store db.Store) *StoreSource {
	return &StoreSource{store: store}
}

func (s *StoreSource) Fetch(ctx context.Context) ([]model.Venue, error) {
	venues, err := s.store.ListVenues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}
