package middleware

import (
	"crypto/subtle"
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nixie-Tech-LLC/venues/internal/model"
)

const currentAdminKey = "currentAdmin"

// is returned when username/password don’t match.
var ErrInvalidCredentials = errors.New("invalid username or password")

// uses bcrypt to hash a plaintext password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// compares a bcrypt hash with the plaintext.
func CheckPassword(hash, plain string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	return err == nil
}

// Authenticate checks a login against the single configured admin account.
func Authenticate(wantUser, passwordHash, username, password string) (*model.Admin, error) {
	if wantUser == "" || passwordHash == "" {
		return nil, ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(wantUser), []byte(username)) == 1
	// bcrypt runs even when the username is wrong
	passOK := CheckPassword(passwordHash, password)
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}
	return &model.Admin{Username: username}, nil
}

// retrieves *model.Admin from Gin context (after JWTMiddleware has run).
func GetCurrentAdmin(c *gin.Context) (*model.Admin, bool) {
	a, exists := c.Get(currentAdminKey)
	if !exists {
		return nil, false
	}
	admin, ok := a.(*model.Admin)
	return admin, ok
}
