package comment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/repository"
	"consul-mailer/internal/service/notification"
)

var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrParentNotFound  = errors.New("parent comment not found")
	// ErrNotificationFailed is returned alongside a stored comment when the
	// immediate email could not be delivered.
	ErrNotificationFailed = errors.New("comment saved but notification failed")
)

type Service interface {
	Create(ctx context.Context, subject domain.SubjectRef, authorID uuid.UUID, input domain.CreateCommentInput) (*domain.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
}

type service struct {
	commentRepo     repository.CommentRepository
	subjectRepo     repository.SubjectRepository
	notificationSvc notification.Service
}

func NewService(commentRepo repository.CommentRepository, subjectRepo repository.SubjectRepository, notificationSvc notification.Service) Service {
	return &service{
		commentRepo:     commentRepo,
		subjectRepo:     subjectRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *service) Create(ctx context.Context, subject domain.SubjectRef, authorID uuid.UUID, input domain.CreateCommentInput) (*domain.Comment, error) {
	target, err := s.subjectRepo.Get(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	if target == nil {
		return nil, ErrSubjectNotFound
	}

	if input.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get parent comment: %w", err)
		}
		if parent == nil || parent.Subject != subject {
			return nil, ErrParentNotFound
		}
	}

	comment := &domain.Comment{
		ID:       uuid.New(),
		Subject:  subject,
		ParentID: input.ParentID,
		AuthorID: authorID,
		Body:     input.Body,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := s.notificationSvc.NotifyNewComment(ctx, comment); err != nil {
		return comment, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	return comment, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}
