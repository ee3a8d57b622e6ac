package endpoints

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/venues/internal/catalog"
	"github.com/Nixie-Tech-LLC/venues/internal/db"
	"github.com/Nixie-Tech-LLC/venues/internal/http/api"
	"github.com/Nixie-Tech-LLC/venues/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/venues/internal/model"
	"github.com/Nixie-Tech-LLC/venues/internal/storage"
)

// MaxCatalogSize bounds an uploaded catalog document.
const MaxCatalogSize = 10 << 20

// Reloader restarts the background catalog load.
type Reloader interface {
	Reload()
}

type CatalogController struct {
	loader      Reloader
	storage     storage.Storage
	catalogName string
	store       db.Store
}

func newCatalogController(loader Reloader, st storage.Storage, catalogName string, store db.Store) *CatalogController {
	return &CatalogController{loader: loader, storage: st, catalogName: catalogName, store: store}
}

// CatalogModule mounts the authenticated /catalog endpoints. When store is
// non-nil uploads are written to the database instead of storage.
func CatalogModule(loader Reloader, st storage.Storage, catalogName string, store db.Store) api.Module {
	ctl := newCatalogController(loader, st, catalogName, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/catalog/reload", ctl.reloadCatalog)
		c.POST("/catalog", ctl.uploadCatalog)
	})
}

// POST /api/admin/catalog/reload
func (c *CatalogController) reloadCatalog(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	log.Info().Str("admin", admin.Username).Msg("[catalog] reload requested")
	c.loader.Reload()
	return packets.ReloadResponse{Status: "reloading"}, nil
}

// POST /api/admin/catalog
func (c *CatalogController) uploadCatalog(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("source")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "source file is required"}
	}
	if fileHeader.Size > MaxCatalogSize {
		return nil, &api.APIError{Code: http.StatusRequestEntityTooLarge, Message: "catalog too large"}
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "could not read upload"}
	}
	data, err := io.ReadAll(io.LimitReader(src, MaxCatalogSize))
	src.Close()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "could not read upload"}
	}

	venues, err := catalog.ReadVenues(bytes.NewReader(data))
	if err != nil {
		log.Warn().Err(err).Str("admin", admin.Username).Str("filename", fileHeader.Filename).Msg("[catalog] rejected upload")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid catalog: " + err.Error()}
	}

	resp := packets.UploadCatalogResponse{Venues: len(venues)}

	if c.store != nil {
		if err := c.store.ReplaceVenues(ctx.Request.Context(), venues); err != nil {
			log.Error().Err(err).Msg("[catalog] could not store uploaded venues")
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store catalog"}
		}
	} else {
		archive, err := c.storage.SaveFile(fileHeader, fileHeader.Filename)
		if errors.Is(err, storage.ErrReadOnly) {
			return nil, &api.APIError{Code: http.StatusConflict, Message: "catalog storage is read-only"}
		}
		if err != nil {
			log.Error().Err(err).Msg("[catalog] could not archive upload")
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save catalog"}
		}
		resp.Archive = archive

		location, err := c.storage.Save(ctx.Request.Context(), c.catalogName, bytes.NewReader(data), "application/json")
		if err != nil {
			log.Error().Err(err).Str("name", c.catalogName).Msg("[catalog] could not save catalog")
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save catalog"}
		}
		resp.Location = location
	}

	log.Info().
		Str("admin", admin.Username).
		Int("venues", len(venues)).
		Msg("[catalog] upload accepted, reloading")
	c.loader.Reload()
	return resp, nil
}
