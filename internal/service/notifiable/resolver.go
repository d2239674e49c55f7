package notifiable

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/repository"
)

var ErrUnknownType = errors.New("unknown notifiable type")

// Resolver loads the notifiable a ledger entry points at. A missing
// notifiable resolves to nil without error.
type Resolver interface {
	Resolve(ctx context.Context, typ domain.NotifiableType, id uuid.UUID) (*domain.Notifiable, error)
}

type resolver struct {
	commentRepo      repository.CommentRepository
	announcementRepo repository.AnnouncementRepository
	messageRepo      repository.DirectMessageRepository
}

func NewResolver(
	commentRepo repository.CommentRepository,
	announcementRepo repository.AnnouncementRepository,
	messageRepo repository.DirectMessageRepository,
) Resolver {
	return &resolver{
		commentRepo:      commentRepo,
		announcementRepo: announcementRepo,
		messageRepo:      messageRepo,
	}
}

func (r *resolver) Resolve(ctx context.Context, typ domain.NotifiableType, id uuid.UUID) (*domain.Notifiable, error) {
	switch typ {
	case domain.NotifiableComment, domain.NotifiableReply:
		c, err := r.commentRepo.GetByID(ctx, id)
		if err != nil || c == nil {
			return nil, wrap(err, typ)
		}
		n := c.Notifiable()
		return &n, nil

	case domain.NotifiableProposalAnnouncement, domain.NotifiableDebateAnnouncement:
		a, err := r.announcementRepo.GetByID(ctx, id)
		if err != nil || a == nil {
			return nil, wrap(err, typ)
		}
		n := a.Notifiable()
		return &n, nil

	case domain.NotifiableDirectMessage:
		m, err := r.messageRepo.GetByID(ctx, id)
		if err != nil || m == nil {
			return nil, wrap(err, typ)
		}
		n := m.Notifiable()
		return &n, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
}

func wrap(err error, typ domain.NotifiableType) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", typ, err)
}
