package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"gigpay/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) ParseToken(token string) (*models.ProfileClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfileClaims), args.Error(1)
}

func (m *MockAuthenticator) ResolveProfile(ctx context.Context, id uint) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func TestAuthMiddleware_Handler(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		setupMock  func(*MockAuthenticator)
		wantStatus int
	}{
		{
			name:   "valid token",
			header: "Bearer good",
			setupMock: func(m *MockAuthenticator) {
				m.On("ParseToken", "good").Return(&models.ProfileClaims{ProfileID: 2}, nil)
				m.On("ResolveProfile", mock.Anything, uint(2)).Return(&models.Profile{ID: 2}, nil)
			},
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "missing header",
			setupMock:  func(m *MockAuthenticator) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			header:     "Basic abc",
			setupMock:  func(m *MockAuthenticator) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "invalid token",
			header: "Bearer bad",
			setupMock: func(m *MockAuthenticator) {
				m.On("ParseToken", "bad").Return(nil, errors.New("invalid token"))
			},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "profile gone",
			header: "Bearer good",
			setupMock: func(m *MockAuthenticator) {
				m.On("ParseToken", "good").Return(&models.ProfileClaims{ProfileID: 2}, nil)
				m.On("ResolveProfile", mock.Anything, uint(2)).Return(nil, errors.New("profile no longer exists"))
			},
			wantStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authn := new(MockAuthenticator)
			tt.setupMock(authn)

			app := fiber.New()
			app.Use(NewAuthMiddleware(authn, nil).Handler)
			app.Get("/me", func(c *fiber.Ctx) error {
				profile, ok := CurrentProfile(c)
				require.True(t, ok)
				return c.JSON(profile)
			})

			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			authn.AssertExpectations(t)
		})
	}
}
