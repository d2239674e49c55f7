package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/middleware"
	"consul-mailer/internal/service/announcement"
	"consul-mailer/internal/service/comment"
	"consul-mailer/internal/service/support"
)

// SubjectHandler serves the comment, support and announcement routes nested
// under /proposals/:id and /debates/:id.
type SubjectHandler struct {
	commentService      comment.Service
	supportService      support.Service
	announcementService announcement.Service
}

func NewSubjectHandler(commentService comment.Service, supportService support.Service, announcementService announcement.Service) *SubjectHandler {
	return &SubjectHandler{
		commentService:      commentService,
		supportService:      supportService,
		announcementService: announcementService,
	}
}

func subjectRef(c *fiber.Ctx, kind domain.EntityKind) (domain.SubjectRef, error) {
	id, err := parseID(c, "id", string(kind))
	if err != nil {
		return domain.SubjectRef{}, err
	}
	return domain.SubjectRef{Kind: kind, ID: id}, nil
}

func (h *SubjectHandler) CreateComment(kind domain.EntityKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref, err := subjectRef(c, kind)
		if err != nil {
			return err
		}
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		var input domain.CreateCommentInput
		if err := c.BodyParser(&input); err != nil {
			return middleware.BadRequest("Invalid request body")
		}
		if input.Body == "" {
			return middleware.BadRequest("Comment body is required")
		}

		created, err := h.commentService.Create(c.Context(), ref, userID, input)
		switch {
		case errors.Is(err, comment.ErrSubjectNotFound):
			return middleware.NotFound("Subject not found")
		case errors.Is(err, comment.ErrParentNotFound):
			return middleware.BadRequest("Parent comment not found on this subject")
		case errors.Is(err, comment.ErrNotificationFailed):
			log.Printf("Comment %s: %v", created.ID, err)
		case err != nil:
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

func (h *SubjectHandler) Support(kind domain.EntityKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref, err := subjectRef(c, kind)
		if err != nil {
			return err
		}
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		if err := h.supportService.Support(c.Context(), userID, ref); err != nil {
			if errors.Is(err, support.ErrSubjectNotFound) {
				return middleware.NotFound("Subject not found")
			}
			return err
		}

		return c.Status(fiber.StatusNoContent).SendString("")
	}
}

func (h *SubjectHandler) CreateAnnouncement(kind domain.EntityKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref, err := subjectRef(c, kind)
		if err != nil {
			return err
		}
		user := middleware.GetCurrentUser(c)
		if user == nil {
			return middleware.Unauthorized("User not found")
		}

		var input domain.CreateAnnouncementInput
		if err := c.BodyParser(&input); err != nil {
			return middleware.BadRequest("Invalid request body")
		}
		if input.Title == "" || input.Body == "" {
			return middleware.BadRequest("Title and body are required")
		}

		created, queued, err := h.announcementService.Create(c.Context(), ref, user, input)
		if err != nil {
			if errors.Is(err, announcement.ErrSubjectNotFound) {
				return middleware.NotFound("Subject not found")
			}
			if errors.Is(err, announcement.ErrNotAllowed) {
				return middleware.Forbidden("Only the author can announce on this subject")
			}
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"announcement": created,
			"queued":       queued,
		})
	}
}
