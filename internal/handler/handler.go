package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/middleware"
	"consul-mailer/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	Preference   *PreferenceHandler
	Subject      *SubjectHandler
	Message      *MessageHandler
	Notification *NotificationHandler
	Valuation    *ValuationHandler
	Admin        *AdminHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Preference:   NewPreferenceHandler(services.Preferences),
		Subject:      NewSubjectHandler(services.Comment, services.Support, services.Announcement),
		Message:      NewMessageHandler(services.Message),
		Notification: NewNotificationHandler(services.Notification),
		Valuation:    NewValuationHandler(services.Valuation),
		Admin:        NewAdminHandler(services.Digest),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}

func parseID(c *fiber.Ctx, param, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}
