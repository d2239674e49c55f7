package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/middleware"
	"consul-mailer/internal/service/valuation"
)

type ValuationHandler struct {
	valuationService valuation.Service
}

func NewValuationHandler(valuationService valuation.Service) *ValuationHandler {
	return &ValuationHandler{valuationService: valuationService}
}

func (h *ValuationHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "spending proposal")
	if err != nil {
		return err
	}

	var input domain.ValuationInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	sp, err := h.valuationService.Valuate(c.Context(), id, input)
	if err != nil {
		if errors.Is(err, valuation.ErrSpendingProposalNotFound) {
			return middleware.NotFound("Spending proposal not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"spending_proposal": sp,
		"code":              sp.Code(),
	})
}
