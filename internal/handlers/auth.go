package handlers

import (
	"errors"

	"gigpay/internal/logger"
	"gigpay/internal/services/auth"
	"gigpay/internal/utils/response"
	"gigpay/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	ProfileID uint   `json:"profile_id" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type AuthHandler struct {
	authService auth.Service
	validator   *validation.Validator
	log         *logger.Logger
}

func NewAuthHandler(authService auth.Service, v *validation.Validator, log *logger.Logger) *AuthHandler {
	if v == nil {
		v = validation.New()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &AuthHandler{authService: authService, validator: v, log: log}
}

// Login exchanges a profile id and password for a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if errs := h.validator.Struct(req); errs != nil {
		return response.Errors(c, fiber.StatusBadRequest, validationItems(errs))
	}

	token, err := h.authService.Login(c.UserContext(), req.ProfileID, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return response.Error(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		h.log.Error("login failed", "profile_id", req.ProfileID, "error", err.Error())
		return response.Error(c, fiber.StatusInternalServerError, "login failed")
	}
	return c.JSON(fiber.Map{"token": token})
}
