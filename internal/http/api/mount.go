package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/venues/internal/http/middleware"
)

// Module attaches its endpoints to a Controller.
type Module interface {
	Mount(c *Controller)
}

// ModuleFunc lets you define a Module with a simple function.
type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

// GroupConfig describes one route group: its prefix, whether admin JWTs are
// required, and any extra middleware run before the handlers.
type GroupConfig struct {
	Prefix     string
	Auth       bool
	SecretKey  string // required if Auth == true
	Middleware []gin.HandlerFunc
}

// MountGroup creates a group under parent and mounts modules into it.
// Several groups may share a prefix, e.g. public login next to JWT routes.
func MountGroup(parent gin.IRouter, cfg GroupConfig, modules ...Module) *gin.RouterGroup {
	handlers := append([]gin.HandlerFunc(nil), cfg.Middleware...)
	if cfg.Auth {
		if cfg.SecretKey == "" {
			log.Fatal().Str("prefix", cfg.Prefix).Msg("api.MountGroup: Auth enabled but SecretKey is empty")
		}
		handlers = append(handlers, middleware.JWTMiddleware(cfg.SecretKey))
	}

	grp := parent.Group(cfg.Prefix, handlers...)
	controller := &Controller{Group: grp}
	for _, m := range modules {
		m.Mount(controller)
	}

	log.Debug().
		Str("prefix", cfg.Prefix).
		Bool("auth", cfg.Auth).
		Int("modules", len(modules)).
		Msg("route group mounted")
	return grp
}
