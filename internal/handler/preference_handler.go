package handler

import (
	"github.com/gofiber/fiber/v2"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/middleware"
	"consul-mailer/internal/service/preference"
)

type PreferenceHandler struct {
	store preference.Store
}

func NewPreferenceHandler(store preference.Store) *PreferenceHandler {
	return &PreferenceHandler{store: store}
}

func (h *PreferenceHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	prefs, err := h.store.GetPreferences(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(prefs)
}

func (h *PreferenceHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.UpdatePreferencesInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	prefs, err := h.store.UpdatePreferences(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(prefs)
}
