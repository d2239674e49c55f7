package announcement

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
	ErrNotAllowed      = errors.New("only the author or an administrator can announce")
)

// Service publishes announcements on proposals and debates. Supporters learn
// about them through the next digest. Only the subject's author or an
// administrator may announce.
type Service interface {
	Create(ctx context.Context, subject domain.SubjectRef, actor *domain.User, input domain.CreateAnnouncementInput) (*domain.Announcement, int, error)
}

type service struct {
	announcementRepo repository.AnnouncementRepository
	subjectRepo      repository.SubjectRepository
	notificationSvc  notification.Service
}

func NewService(announcementRepo repository.AnnouncementRepository, subjectRepo repository.SubjectRepository, notificationSvc notification.Service) Service {
	return &service{
		announcementRepo: announcementRepo,
		subjectRepo:      subjectRepo,
		notificationSvc:  notificationSvc,
	}
}

// Create stores the announcement and returns how many supporters were queued.
func (s *service) Create(ctx context.Context, subject domain.SubjectRef, actor *domain.User, input domain.CreateAnnouncementInput) (*domain.Announcement, int, error) {
	target, err := s.subjectRepo.Get(ctx, subject)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get subject: %w", err)
	}
	if target == nil {
		return nil, 0, ErrSubjectNotFound
	}

	isAuthor := target.AuthorID != nil && *target.AuthorID == actor.ID
	if !isAuthor && !actor.HasRole(string(domain.RoleAdministrator)) {
		return nil, 0, ErrNotAllowed
	}

	a := &domain.Announcement{
		ID:       uuid.New(),
		Subject:  subject,
		AuthorID: actor.ID,
		Title:    input.Title,
		Body:     input.Body,
	}

	if err := s.announcementRepo.Create(ctx, a); err != nil {
		return nil, 0, fmt.Errorf("failed to create announcement: %w", err)
	}

	queued, err := s.notificationSvc.RecordAnnouncement(ctx, a)
	if err != nil {
		return a, 0, err
	}

	return a, queued, nil
}
