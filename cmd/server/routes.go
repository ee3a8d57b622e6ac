package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/venues/internal/catalog"
	"github.com/Nixie-Tech-LLC/venues/internal/config"
	"github.com/Nixie-Tech-LLC/venues/internal/db"
	"github.com/Nixie-Tech-LLC/venues/internal/http/api"
	authapi "github.com/Nixie-Tech-LLC/venues/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/Nixie-Tech-LLC/venues/internal/http/api/admin/control/endpoints"
	venueapi "github.com/Nixie-Tech-LLC/venues/internal/http/api/venues/endpoints"
	"github.com/Nixie-Tech-LLC/venues/internal/imaging"
	"github.com/Nixie-Tech-LLC/venues/internal/storage"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Loader   *catalog.Loader
	Images   *imaging.Loader
	Storage  storage.Storage
	Store    db.Store // nil unless a database is configured
	Location *time.Location
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Dependencies) {
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"If-None-Match",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"ETag",
			"X-Image-Cache",
			"X-Image-Placeholder",
		},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		venueapi.VenueModule(deps.Loader, deps.Images, deps.Location),
		venueapi.CatalogModule(deps.Loader),
	)

	if !cfg.AdminEnabled() {
		log.Warn().Msg("ADMIN_USERNAME not set, admin endpoints disabled")
		return
	}

	creds := authapi.Credentials{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash}

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
	},
		authapi.AuthPublicModule(cfg.JWTSecret, creds),
	)

	// uploads go to the database when it is the catalog source
	var uploadStore db.Store
	if cfg.CatalogSource == config.SourceDB {
		uploadStore = deps.Store
	}

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
	},
		adminapi.CatalogModule(deps.Loader, deps.Storage, cfg.CatalogName, uploadStore),
		authapi.AuthSessionModule(cfg.JWTSecret, creds),
	)
}
