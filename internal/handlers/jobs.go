package handlers

import (
	"gigpay/internal/middleware"
	"gigpay/internal/services/transfer"
	"gigpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// JobHandler exposes job payment.
type JobHandler struct {
	service transfer.Service
}

func NewJobHandler(s transfer.Service) *JobHandler { return &JobHandler{service: s} }

// PayJob handles POST /jobs/:job_id/pay.
func (h *JobHandler) PayJob(c *fiber.Ctx) error {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		return response.Unauthorized(c)
	}

	jobID, err := c.ParamsInt("job_id")
	if err != nil || jobID <= 0 {
		return response.NotFound(c)
	}

	job, err := h.service.PayJob(c.UserContext(), profile.ID, uint(jobID))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, job)
}
