// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"context"
	"strings"

	"gigpay/internal/logger"
	"gigpay/internal/models"
	"gigpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalClaims  = "claims"
	LocalProfile = "profile"
)

// Authenticator is the part of the auth service the middleware needs.
type Authenticator interface {
	ParseToken(token string) (*models.ProfileClaims, error)
	ResolveProfile(ctx context.Context, id uint) (*models.Profile, error)
}

// AuthMiddleware handles JWT token validation and profile resolution.
type AuthMiddleware struct {
	auth Authenticator
	log  *logger.Logger
}

func NewAuthMiddleware(auth Authenticator, log *logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.NewNop()
	}
	return &AuthMiddleware{auth: auth, log: log.With("component", "auth_middleware")}
}

// Handler validates the bearer token and stores the calling profile in
// c.Locals(LocalProfile).
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return response.Unauthorized(c)
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		m.log.Debug("invalid authorization format", "path", c.Path())
		return response.Unauthorized(c)
	}

	claims, err := m.auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return response.Unauthorized(c)
	}

	profile, err := m.auth.ResolveProfile(c.UserContext(), claims.ProfileID)
	if err != nil {
		m.log.Warn("token for unresolvable profile", "profile_id", claims.ProfileID, "error", err.Error())
		return response.Unauthorized(c)
	}

	c.Locals(LocalClaims, claims)
	c.Locals(LocalProfile, profile)
	return c.Next()
}

// CurrentProfile returns the profile stored by Handler.
func CurrentProfile(c *fiber.Ctx) (*models.Profile, bool) {
	profile, ok := c.Locals(LocalProfile).(*models.Profile)
	return profile, ok && profile != nil
}
