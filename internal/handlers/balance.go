package handlers

import (
	"gigpay/internal/middleware"
	"gigpay/internal/services/balance"
	"gigpay/internal/utils/response"
	"gigpay/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type depositRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// BalanceHandler exposes deposits.
type BalanceHandler struct {
	service   balance.Service
	validator *validation.Validator
}

func NewBalanceHandler(s balance.Service, v *validation.Validator) *BalanceHandler {
	if v == nil {
		v = validation.New()
	}
	return &BalanceHandler{service: s, validator: v}
}

// Deposit handles POST /balances/deposit/:userId.
func (h *BalanceHandler) Deposit(c *fiber.Ctx) error {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		return response.Unauthorized(c)
	}

	targetID, err := c.ParamsInt("userId")
	if err != nil || targetID <= 0 {
		return response.BadRequest(c, "invalid profile id")
	}

	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if errs := h.validator.Struct(req); errs != nil {
		return response.Errors(c, fiber.StatusBadRequest, validationItems(errs))
	}

	updated, err := h.service.Deposit(c.UserContext(), profile.ID, uint(targetID), req.Amount)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, updated)
}

func validationItems(errs []validation.ValidationError) []response.ErrorItem {
	items := make([]response.ErrorItem, 0, len(errs))
	for _, e := range errs {
		items = append(items, response.ErrorItem{Field: e.Field, Message: e.Error()})
	}
	return items
}
