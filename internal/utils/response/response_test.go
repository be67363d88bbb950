package response

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	apperrors "gigpay/internal/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "not found has no body",
			err:        apperrors.ErrNotFound.Wrap(errors.New("job 4 is already paid")),
			wantStatus: fiber.StatusNotFound,
			wantBody:   "",
		},
		{
			name:       "insufficient funds",
			err:        apperrors.ErrInsufficientFunds,
			wantStatus: fiber.StatusUnprocessableEntity,
			wantBody:   `{"errors":[{"message":"insufficient funds to pay for this job"}]}`,
		},
		{
			name:       "forbidden",
			err:        apperrors.ErrForbidden,
			wantStatus: fiber.StatusBadRequest,
			wantBody:   `{"errors":[{"message":"deposits are only allowed into your own balance"}]}`,
		},
		{
			name:       "integrity is hidden behind a generic message",
			err:        apperrors.ErrTransferFailed.Wrap(apperrors.ErrIntegrity.Wrap(errors.New("credit modified no rows"))),
			wantStatus: fiber.StatusInternalServerError,
			wantBody:   `{"errors":[{"message":"the transfer could not be completed, please try again"}]}`,
		},
		{
			name:       "plain error",
			err:        errors.New("dial tcp: connection refused"),
			wantStatus: fiber.StatusInternalServerError,
			wantBody:   `{"errors":[{"message":"the transfer could not be completed, please try again"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return DomainError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			if tt.wantBody == "" {
				assert.Empty(t, body)
			} else {
				assert.JSONEq(t, tt.wantBody, string(body))
			}
		})
	}
}
