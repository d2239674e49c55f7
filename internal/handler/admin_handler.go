package handler

import (
	"github.com/gofiber/fiber/v2"

	"consul-mailer/internal/middleware"
	"consul-mailer/internal/service/digest"
)

type AdminHandler struct {
	digestService digest.Service
}

func NewAdminHandler(digestService digest.Service) *AdminHandler {
	return &AdminHandler{digestService: digestService}
}

func (h *AdminHandler) RunDigest(c *fiber.Ctx) error {
	report, err := h.digestService.Run(c.Context())
	if err != nil {
		if report.Recipients > 0 {
			// interrupted part way; whatever was sent stays sent
			return middleware.ServiceUnavailable("Digest run interrupted")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(report)
}

func (h *AdminHandler) ExpirePending(c *fiber.Ctx) error {
	expired, err := h.digestService.Expire(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"expired": expired,
	})
}
