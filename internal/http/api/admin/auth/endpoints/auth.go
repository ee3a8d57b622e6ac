package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/venues/internal/http/api"
	"github.com/Nixie-Tech-LLC/venues/internal/http/api/admin/auth/packets"
	"github.com/Nixie-Tech-LLC/venues/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/venues/internal/model"
)

// Credentials is the single admin account the service accepts.
type Credentials struct {
	Username     string
	PasswordHash string
}

// AuthPublicModule mounts public auth endpoints (/auth/login)
func AuthPublicModule(jwtSecret string, creds Credentials) api.Module {
	ctl := newAccountManager(jwtSecret, creds)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/login", ctl.adminLogin)
	})
}

// AuthSessionModule mounts private session endpoints (JWT required)
func AuthSessionModule(jwtSecret string, creds Credentials) api.Module {
	ctl := newAccountManager(jwtSecret, creds)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/auth/current_profile", ctl.getCurrentProfile)
	})
}

type AccountManager struct {
	jwtSecret string
	creds     Credentials
}

func newAccountManager(secret string, creds Credentials) *AccountManager {
	return &AccountManager{jwtSecret: secret, creds: creds}
}

// POST /api/admin/auth/login
func (a *AccountManager) adminLogin(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	admin, err := middleware.Authenticate(a.creds.Username, a.creds.PasswordHash, request.Username, request.Password)
	if err != nil {
		log.Warn().Str("username", request.Username).Str("ip", ctx.ClientIP()).Msg("admin login rejected")
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "invalid credentials"}
	}

	token, err := middleware.GenerateJWT(admin.Username, a.jwtSecret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	log.Info().Str("username", admin.Username).Msg("admin logged in")
	return packets.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(middleware.TokenTTL).UTC().Format(time.RFC3339),
	}, nil
}

// GET /api/admin/auth/current_profile
func (a *AccountManager) getCurrentProfile(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	return packets.ProfileResponse{Username: admin.Username}, nil
}
