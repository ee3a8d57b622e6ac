package endpoints

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/venues/internal/catalog"
	"github.com/Nixie-Tech-LLC/venues/internal/http/api"
	"github.com/Nixie-Tech-LLC/venues/internal/http/api/venues/packets"
	"github.com/Nixie-Tech-LLC/venues/internal/imaging"
	"github.com/Nixie-Tech-LLC/venues/internal/model"
)

const (
	defaultImageWidth  = 400
	defaultImageHeight = 300
)

// CatalogProvider hands out the catalog snapshot to serve.
type CatalogProvider interface {
	Current() *catalog.Catalog
}

// ImageRenderer produces encoded venue images.
type ImageRenderer interface {
	Render(ctx context.Context, ref string, width, height int, fit imaging.Fit) (*imaging.Rendition, error)
}

type VenueController struct {
	catalog  CatalogProvider
	images   ImageRenderer
	location *time.Location
}

func newVenueController(cp CatalogProvider, images ImageRenderer, loc *time.Location) *VenueController {
	if loc == nil {
		loc = time.Local
	}
	return &VenueController{catalog: cp, images: images, location: loc}
}

// VenueModule mounts the public /venues endpoints. Schedule lines are
// formatted in loc.
func VenueModule(cp CatalogProvider, images ImageRenderer, loc *time.Location) api.Module {
	ctl := newVenueController(cp, images, loc)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/venues", ctl.listVenues)
		c.PUBLIC_GET("/venues/:id", ctl.getVenue)
		c.PUBLIC_GET("/venues/:id/share", ctl.shareVenue)
		c.RAW_GET("/venues/:id/image", ctl.venueImage)
	})
}

// CatalogModule mounts GET /catalog.
func CatalogModule(cp CatalogProvider) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/catalog", func(ctx *gin.Context) (any, *api.APIError) {
			cat := cp.Current()
			resp := packets.CatalogStatusResponse{
				Count: cat.Len(),
				ETag:  cat.ETag(),
			}
			if !cat.LoadedAt().IsZero() {
				resp.LoadedAt = cat.LoadedAt().UTC().Format(time.RFC3339)
			}
			return resp, nil
		})
	})
}

// GET /api/venues
func (c *VenueController) listVenues(ctx *gin.Context) (any, *api.APIError) {
	cat := c.catalog.Current()

	etag := `"` + cat.ETag() + `"`
	ctx.Header("ETag", etag)
	if etagMatches(ctx.GetHeader("If-None-Match"), etag) {
		return nil, api.ErrNotModified
	}

	venues := cat.List()
	out := make([]packets.VenueSummaryResponse, 0, len(venues))
	for _, v := range venues {
		out = append(out, packets.VenueSummaryResponse{
			ID:       v.ID,
			Name:     v.Name,
			Address:  v.Address,
			City:     v.City,
			State:    v.State,
			ImageURL: v.ImageURL,
		})
	}
	return out, nil
}

// GET /api/venues/:id
func (c *VenueController) getVenue(ctx *gin.Context) (any, *api.APIError) {
	v, apiErr := c.lookup(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	schedule := make([]packets.ScheduleEntryResponse, 0, len(v.Schedule))
	for _, item := range v.Schedule {
		schedule = append(schedule, packets.ScheduleEntryResponse{
			Start: formatTime(item.Start),
			End:   formatTime(item.End),
			Line:  item.Format(c.location),
		})
	}

	return packets.VenueResponse{
		ID:            v.ID,
		Name:          v.Name,
		Address:       v.Address,
		City:          v.City,
		State:         v.State,
		Zip:           v.Zip,
		Location:      v.Location(),
		Phone:         v.Phone,
		TollFreePhone: v.TollFreePhone,
		PCode:         v.PCode,
		Latitude:      v.Latitude,
		Longitude:     v.Longitude,
		Description:   v.Description,
		ImageURL:      v.ImageURL,
		TicketLink:    v.TicketLink,
		Schedule:      schedule,
	}, nil
}

// GET /api/venues/:id/share
func (c *VenueController) shareVenue(ctx *gin.Context) (any, *api.APIError) {
	v, apiErr := c.lookup(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	return packets.ShareResponse{Text: v.ShareText()}, nil
}

// GET /api/venues/:id/image
func (c *VenueController) venueImage(ctx *gin.Context) {
	v, apiErr := c.lookup(ctx)
	if apiErr != nil {
		ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}

	var query packets.ImageQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if query.Width == 0 {
		query.Width = defaultImageWidth
	}
	if query.Height == 0 {
		query.Height = defaultImageHeight
	}
	fit, err := imaging.ParseFit(query.Fit)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := c.images.Render(ctx.Request.Context(), v.ImageURL, query.Width, query.Height, fit)
	if err != nil {
		log.Error().Err(err).Int64("venue_id", v.ID).Str("ref", v.ImageURL).Msg("[image] render failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not render image"})
		return
	}

	if r.Placeholder {
		ctx.Header("Cache-Control", "no-cache")
		ctx.Header("X-Image-Placeholder", "true")
	} else {
		ctx.Header("Cache-Control", "public, max-age=3600")
	}
	if r.Cached {
		ctx.Header("X-Image-Cache", "HIT")
	} else {
		ctx.Header("X-Image-Cache", "MISS")
	}
	ctx.Data(http.StatusOK, r.ContentType, r.Data)
}

func (c *VenueController) lookup(ctx *gin.Context) (model.Venue, *api.APIError) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		log.Debug().Str("id", ctx.Param("id")).Msg("invalid venue id")
		return model.Venue{}, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	v, err := c.catalog.Current().Lookup(id)
	if errors.Is(err, catalog.ErrNotFound) {
		return model.Venue{}, &api.APIError{Code: http.StatusNotFound, Message: "venue not found"}
	}
	if err != nil {
		return model.Venue{}, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load venue"}
	}
	return v, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// etagMatches handles the comma-separated and weak forms of If-None-Match.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
