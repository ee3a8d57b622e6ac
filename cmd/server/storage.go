package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/venues/internal/assets"
	"github.com/Nixie-Tech-LLC/venues/internal/catalog"
	"github.com/Nixie-Tech-LLC/venues/internal/config"
	"github.com/Nixie-Tech-LLC/venues/internal/db"
	"github.com/Nixie-Tech-LLC/venues/internal/storage"
)

// InitStorage selects the configured storage backend. Writable backends sit
// in front of the bundled assets so a fresh bucket or directory still serves
// the shipped catalog and placeholder.
func InitStorage(cfg *config.Config) storage.Storage {
	bundled := storage.NewFSStorage(assets.FS)

	if cfg.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesCDNURL,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("cdn", cfg.SpacesCDNURL).Str("bucket", cfg.SpacesBucket).Msg("using Spaces storage")
		return storage.NewFallbackStorage(spacesStorage, bundled)
	}

	if cfg.AssetsDir != "" {
		log.Info().Str("dir", cfg.AssetsDir).Msg("using local asset storage")
		return storage.NewFallbackStorage(storage.NewLocalStorage(cfg.AssetsDir), bundled)
	}

	log.Info().Msg("using bundled assets, uploads disabled")
	return bundled
}

// InitCatalogSource picks where catalog loads read venues from.
func InitCatalogSource(cfg *config.Config, st storage.Storage, store db.Store) catalog.Source {
	if cfg.CatalogSource == config.SourceDB {
		log.Info().Msg("catalog source: database")
		return catalog.NewStoreSource(store)
	}
	log.Info().Str("name", cfg.CatalogName).Msg("catalog source: json asset")
	return catalog.NewJSONSource(st, cfg.CatalogName)
}
