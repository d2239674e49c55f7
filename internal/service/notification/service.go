package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/repository"
	"consul-mailer/internal/service/email"
	"consul-mailer/internal/service/preference"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	// NotifyNewComment emails the subject author and, for replies, the parent
	// comment author. A recipient gets at most one email per comment.
	NotifyNewComment(ctx context.Context, comment *domain.Comment) error
	NotifyComment(ctx context.Context, comment *domain.Comment) error
	NotifyReply(ctx context.Context, reply *domain.Comment) error
	// NotifyDirectMessage always emails both parties.
	NotifyDirectMessage(ctx context.Context, msg *domain.DirectMessage) error
	// RecordAnnouncement adds a pending ledger entry for every supporter of
	// the announcement's subject and returns how many were recorded.
	RecordAnnouncement(ctx context.Context, announcement *domain.Announcement) (int, error)
}

type service struct {
	notifRepo   repository.NotificationRepository
	userRepo    repository.UserRepository
	subjectRepo repository.SubjectRepository
	commentRepo repository.CommentRepository
	voteRepo    repository.VoteRepository
	prefs       preference.Store
	emailSvc    email.Service
}

func NewService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	subjectRepo repository.SubjectRepository,
	commentRepo repository.CommentRepository,
	voteRepo repository.VoteRepository,
	prefs preference.Store,
	emailSvc email.Service,
) Service {
	return &service{
		notifRepo:   notifRepo,
		userRepo:    userRepo,
		subjectRepo: subjectRepo,
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
		prefs:       prefs,
		emailSvc:    emailSvc,
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	params.Validate()
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	notif, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if notif == nil || notif.UserID != userID {
		return ErrNotificationNotFound
	}
	return s.notifRepo.MarkAsRead(ctx, id, time.Now().UTC())
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID, time.Now().UTC())
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

// recipient loads a user and their preferences. A missing user is not an
// error: nil is returned and the caller skips the notification.
func (s *service) recipient(ctx context.Context, userID uuid.UUID) (*domain.User, domain.Preferences, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.Preferences{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.Preferences{}, nil
	}

	prefs, err := s.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return nil, domain.Preferences{}, fmt.Errorf("failed to get preferences: %w", err)
	}
	return user, prefs, nil
}

func (s *service) NotifyNewComment(ctx context.Context, comment *domain.Comment) error {
	if !comment.IsReply() {
		return s.NotifyComment(ctx, comment)
	}

	// The subject author is a separate recipient, so a failed reply email
	// does not stop the comment email.
	notified, replyErr := s.notifyReply(ctx, comment)

	subject, err := s.subjectRepo.Get(ctx, comment.Subject)
	if err != nil {
		return errors.Join(replyErr, fmt.Errorf("failed to get subject: %w", err))
	}
	if subject != nil && subject.AuthorID != nil && *subject.AuthorID == notified {
		return replyErr
	}

	return errors.Join(replyErr, s.NotifyComment(ctx, comment))
}

func (s *service) NotifyComment(ctx context.Context, comment *domain.Comment) error {
	subject, err := s.subjectRepo.Get(ctx, comment.Subject)
	if err != nil {
		return fmt.Errorf("failed to get subject: %w", err)
	}
	if subject == nil || subject.AuthorID == nil {
		return nil
	}

	recipient, prefs, err := s.recipient(ctx, *subject.AuthorID)
	if err != nil || recipient == nil {
		return err
	}

	n := comment.Notifiable()
	if !ShouldNotify(n.AuthorID, recipient.ID, prefs, domain.TopicComment) {
		return nil
	}

	author, err := s.userRepo.GetByID(ctx, n.AuthorID)
	if err != nil {
		return fmt.Errorf("failed to get comment author: %w", err)
	}

	// the comment email always links to the thread root
	n.Target = comment.Subject.Target()
	if err := s.emailSvc.SendCommentNotification(ctx, recipient, author, subject, n); err != nil {
		return fmt.Errorf("failed to send comment notification: %w", err)
	}
	return nil
}

func (s *service) NotifyReply(ctx context.Context, reply *domain.Comment) error {
	_, err := s.notifyReply(ctx, reply)
	return err
}

// notifyReply returns the id of the user it emailed, or tried to email when
// the send failed, and uuid.Nil when nobody was due a reply email.
func (s *service) notifyReply(ctx context.Context, reply *domain.Comment) (uuid.UUID, error) {
	if !reply.IsReply() {
		return uuid.Nil, nil
	}

	parent, err := s.commentRepo.GetByID(ctx, *reply.ParentID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get parent comment: %w", err)
	}
	if parent == nil {
		return uuid.Nil, nil
	}

	recipient, prefs, err := s.recipient(ctx, parent.AuthorID)
	if err != nil || recipient == nil {
		return uuid.Nil, err
	}

	n := reply.Notifiable()
	if !ShouldNotify(n.AuthorID, recipient.ID, prefs, domain.TopicCommentReply) {
		return uuid.Nil, nil
	}

	author, err := s.userRepo.GetByID(ctx, n.AuthorID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get reply author: %w", err)
	}

	if err := s.emailSvc.SendReplyNotification(ctx, recipient, author, n); err != nil {
		return recipient.ID, fmt.Errorf("failed to send reply notification: %w", err)
	}
	return recipient.ID, nil
}

func (s *service) NotifyDirectMessage(ctx context.Context, msg *domain.DirectMessage) error {
	sender, err := s.userRepo.GetByID(ctx, msg.SenderID)
	if err != nil {
		return fmt.Errorf("failed to get sender: %w", err)
	}
	receiver, err := s.userRepo.GetByID(ctx, msg.ReceiverID)
	if err != nil {
		return fmt.Errorf("failed to get receiver: %w", err)
	}
	if sender == nil || receiver == nil {
		return nil
	}

	n := msg.Notifiable()
	var errs []error
	if err := s.emailSvc.SendDirectMessageReceived(ctx, receiver, sender, n); err != nil {
		errs = append(errs, fmt.Errorf("failed to email receiver: %w", err))
	}
	if err := s.emailSvc.SendDirectMessageSent(ctx, sender, receiver, n); err != nil {
		errs = append(errs, fmt.Errorf("failed to email sender: %w", err))
	}
	return errors.Join(errs...)
}

func (s *service) RecordAnnouncement(ctx context.Context, announcement *domain.Announcement) (int, error) {
	n := announcement.Notifiable()

	voterIDs, err := s.voteRepo.ListVoterIDs(ctx, n.Subject)
	if err != nil {
		return 0, fmt.Errorf("failed to list supporters: %w", err)
	}

	now := time.Now().UTC()
	entries := make([]domain.Notification, 0, len(voterIDs))
	for _, voterID := range voterIDs {
		if !ShouldNotify(n.AuthorID, voterID, domain.Preferences{}, domain.TopicAnnouncement) {
			continue
		}
		entries = append(entries, domain.Notification{
			ID:             uuid.New(),
			UserID:         voterID,
			NotifiableType: n.Type,
			NotifiableID:   n.ID,
			Subject:        n.Subject,
			CreatedAt:      now,
		})
	}

	if err := s.notifRepo.CreateBatch(ctx, entries); err != nil {
		return 0, fmt.Errorf("failed to record announcement: %w", err)
	}

	log.Printf("Recorded %d pending notifications for %s %s", len(entries), n.Type, n.ID)
	return len(entries), nil
}
