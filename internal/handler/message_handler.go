package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/middleware"
	"consul-mailer/internal/service/message"
)

type MessageHandler struct {
	messageService message.Service
}

func NewMessageHandler(messageService message.Service) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreateDirectMessageInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Title == "" || input.Body == "" {
		return middleware.BadRequest("Title and body are required")
	}

	msg, err := h.messageService.Send(c.Context(), userID, input)
	switch {
	case errors.Is(err, message.ErrReceiverNotFound):
		return middleware.NotFound("Receiver not found")
	case errors.Is(err, message.ErrSelfMessage):
		return middleware.BadRequest("Cannot send a message to yourself")
	case errors.Is(err, message.ErrNotificationFailed):
		log.Printf("Direct message %s: %v", msg.ID, err)
	case err != nil:
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}
