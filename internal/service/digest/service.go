package digest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/repository"
	"consul-mailer/internal/service/email"
	"consul-mailer/internal/service/notifiable"
	"consul-mailer/internal/service/preference"
)

// Report summarises one digest run.
type Report struct {
	Recipients int `json:"recipients"`
	Sent       int `json:"sent"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
	Delivered  int `json:"delivered"`
}

type Service interface {
	// Run sends every digest-enabled user one email covering their pending
	// notifications on subjects they support. It is safe to run repeatedly
	// and concurrently.
	Run(ctx context.Context) (Report, error)
	// Expire marks pending notifications older than the retention period as
	// expired.
	Expire(ctx context.Context) (int64, error)
}

type Options struct {
	Concurrency int
	Retention   time.Duration
}

type service struct {
	userRepo    repository.UserRepository
	notifRepo   repository.NotificationRepository
	subjectRepo repository.SubjectRepository
	resolver    notifiable.Resolver
	prefs       preference.Store
	emailSvc    email.Service
	opts        Options
	now         func() time.Time
}

func NewService(
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	subjectRepo repository.SubjectRepository,
	resolver notifiable.Resolver,
	prefs preference.Store,
	emailSvc email.Service,
	opts Options,
) Service {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &service{
		userRepo:    userRepo,
		notifRepo:   notifRepo,
		subjectRepo: subjectRepo,
		resolver:    resolver,
		prefs:       prefs,
		emailSvc:    emailSvc,
		opts:        opts,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeSent
	outcomeFailed
)

func (s *service) Run(ctx context.Context) (Report, error) {
	users, err := s.userRepo.ListDigestSubscribers(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list digest subscribers: %w", err)
	}

	var (
		mu     sync.Mutex
		report = Report{Recipients: len(users)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i := range users {
		user := &users[i]
		g.Go(func() error {
			result, delivered, err := s.runForUser(gctx, user)
			if err != nil {
				log.Printf("Digest for user %s failed: %v", user.ID, err)
			}

			mu.Lock()
			defer mu.Unlock()
			switch result {
			case outcomeSent:
				report.Sent++
				report.Delivered += delivered
			case outcomeFailed:
				report.Failed++
			default:
				report.Skipped++
			}
			return nil
		})
	}

	_ = g.Wait()

	log.Printf("Digest run finished: %d recipients, %d sent, %d skipped, %d failed, %d notifications delivered",
		report.Recipients, report.Sent, report.Skipped, report.Failed, report.Delivered)
	return report, ctx.Err()
}

func (s *service) runForUser(ctx context.Context, user *domain.User) (outcome, int, error) {
	if err := ctx.Err(); err != nil {
		return outcomeFailed, 0, err
	}

	result, delivered, err := s.deliver(ctx, user)
	if !errors.Is(err, repository.ErrNotPending) {
		return result, delivered, err
	}

	// Another run or the retention sweep took part of the batch. Whatever
	// is still pending goes out now rather than on the next interval.
	result, delivered, err = s.deliver(ctx, user)
	if errors.Is(err, repository.ErrNotPending) {
		log.Printf("Digest for user %s skipped: notifications already claimed by another run", user.ID)
		return outcomeSkipped, 0, nil
	}
	return result, delivered, err
}

// deliver collects the user's digest and sends it while claiming every entry
// it covers. It returns repository.ErrNotPending unwrapped when a claim fails.
func (s *service) deliver(ctx context.Context, user *domain.User) (outcome, int, error) {
	groups, err := s.collect(ctx, user)
	if err != nil {
		return outcomeFailed, 0, err
	}
	if len(groups) == 0 {
		return outcomeSkipped, 0, nil
	}

	var ids []uuid.UUID
	for _, g := range groups {
		for _, item := range g.Items {
			ids = append(ids, item.NotificationID)
		}
	}

	err = s.notifRepo.ClaimPending(ctx, ids, s.now(), func(ctx context.Context) error {
		return s.emailSvc.SendProposalDigest(ctx, user, groups)
	})
	if errors.Is(err, repository.ErrNotPending) {
		return outcomeSkipped, 0, repository.ErrNotPending
	}
	if err != nil {
		return outcomeFailed, 0, fmt.Errorf("failed to deliver digest: %w", err)
	}

	return outcomeSent, len(ids), nil
}

// collect groups the user's pending notifications by subject, keeping only
// subjects the user supports. Subjects are ordered by their first pending
// notification.
func (s *service) collect(ctx context.Context, user *domain.User) ([]domain.DigestGroup, error) {
	pending, err := s.notifRepo.ListPending(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}

	var groups []domain.DigestGroup
	index := make(map[domain.SubjectRef]int)
	supported := make(map[domain.SubjectRef]bool)

	for _, entry := range pending {
		if entry.Subject.IsZero() {
			continue
		}

		ok, seen := supported[entry.Subject]
		if !seen {
			ok, err = s.prefs.Supports(ctx, user.ID, entry.Subject)
			if err != nil {
				return nil, err
			}
			supported[entry.Subject] = ok
		}
		if !ok {
			continue
		}

		n, err := s.resolver.Resolve(ctx, entry.NotifiableType, entry.NotifiableID)
		if errors.Is(err, notifiable.ErrUnknownType) {
			log.Printf("Skipping orphan notification %s: %v", entry.ID, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		if n == nil {
			log.Printf("Skipping orphan notification %s: %s %s no longer exists", entry.ID, entry.NotifiableType, entry.NotifiableID)
			continue
		}

		i, ok := index[entry.Subject]
		if !ok {
			group, err := s.newGroup(ctx, entry.Subject)
			if err != nil {
				return nil, err
			}
			if group == nil {
				log.Printf("Skipping orphan notification %s: %s no longer exists", entry.ID, entry.Subject)
				continue
			}
			groups = append(groups, *group)
			i = len(groups) - 1
			index[entry.Subject] = i
		}

		groups[i].Items = append(groups[i].Items, domain.DigestItem{
			NotificationID: entry.ID,
			Notifiable:     *n,
		})
	}

	return groups, nil
}

func (s *service) newGroup(ctx context.Context, ref domain.SubjectRef) (*domain.DigestGroup, error) {
	subject, err := s.subjectRepo.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	if subject == nil {
		return nil, nil
	}

	group := &domain.DigestGroup{Subject: *subject}
	if subject.AuthorID != nil {
		author, err := s.userRepo.GetByID(ctx, *subject.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("failed to get subject author: %w", err)
		}
		if author != nil {
			group.AuthorName = author.Username
		}
	}
	return group, nil
}

func (s *service) Expire(ctx context.Context) (int64, error) {
	if s.opts.Retention <= 0 {
		return 0, nil
	}

	now := s.now()
	expired, err := s.notifRepo.ExpirePendingBefore(ctx, now.Add(-s.opts.Retention), now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending notifications: %w", err)
	}
	if expired > 0 {
		log.Printf("Expired %d pending notifications older than %s", expired, s.opts.Retention)
	}
	return expired, nil
}
