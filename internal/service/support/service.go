package support

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/repository"
	"consul-mailer/internal/service/preference"
)

var ErrSubjectNotFound = errors.New("subject not found")

// Service records supports. Supporting a subject twice is a no-op.
type Service interface {
	Support(ctx context.Context, voterID uuid.UUID, subject domain.SubjectRef) error
}

type service struct {
	voteRepo    repository.VoteRepository
	subjectRepo repository.SubjectRepository
	prefs       preference.Store
}

func NewService(voteRepo repository.VoteRepository, subjectRepo repository.SubjectRepository, prefs preference.Store) Service {
	return &service{
		voteRepo:    voteRepo,
		subjectRepo: subjectRepo,
		prefs:       prefs,
	}
}

func (s *service) Support(ctx context.Context, voterID uuid.UUID, subject domain.SubjectRef) error {
	target, err := s.subjectRepo.Get(ctx, subject)
	if err != nil {
		return fmt.Errorf("failed to get subject: %w", err)
	}
	if target == nil {
		return ErrSubjectNotFound
	}

	vote := &domain.Vote{
		ID:      uuid.New(),
		VoterID: voterID,
		Subject: subject,
	}
	if err := s.voteRepo.Create(ctx, vote); err != nil {
		return fmt.Errorf("failed to record support: %w", err)
	}

	s.prefs.InvalidateSupport(ctx, voterID, subject)
	return nil
}
