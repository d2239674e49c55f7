package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"consul-mailer/internal/domain"
)

// ErrNotPending is returned by ClaimPending when an entry was already
// emailed or expired by someone else.
var ErrNotPending = errors.New("notification is no longer pending")

// NotificationRepository is the notification ledger.
type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	CreateBatch(ctx context.Context, notifs []domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID, at time.Time) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	// ListPending returns the user's entries that were neither emailed nor
	// expired, oldest first.
	ListPending(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	// ClaimPending marks every id as emailed at the given time, each with a
	// compare-and-set on "still pending", then calls deliver. The claims are
	// committed only if every compare-and-set matched and deliver succeeded.
	ClaimPending(ctx context.Context, ids []uuid.UUID, at time.Time, deliver func(ctx context.Context) error) error
	// ExpirePendingBefore marks pending entries created before cutoff as
	// expired so they leave every future scan. Nothing is deleted.
	ExpirePendingBefore(ctx context.Context, cutoff, at time.Time) (int64, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

type notificationRow struct {
	ID             uuid.UUID             `db:"id"`
	UserID         uuid.UUID             `db:"user_id"`
	NotifiableType domain.NotifiableType `db:"notifiable_type"`
	NotifiableID   uuid.UUID             `db:"notifiable_id"`
	SubjectType    domain.EntityKind     `db:"subject_type"`
	SubjectID      *uuid.UUID            `db:"subject_id"`
	CreatedAt      time.Time             `db:"created_at"`
	ReadAt         *time.Time            `db:"read_at"`
	EmailedAt      *time.Time            `db:"emailed_at"`
	ExpiredAt      *time.Time            `db:"expired_at"`
}

func (row notificationRow) toDomain() domain.Notification {
	n := domain.Notification{
		ID:             row.ID,
		UserID:         row.UserID,
		NotifiableType: row.NotifiableType,
		NotifiableID:   row.NotifiableID,
		CreatedAt:      row.CreatedAt,
		ReadAt:         row.ReadAt,
		EmailedAt:      row.EmailedAt,
		ExpiredAt:      row.ExpiredAt,
	}
	if row.SubjectID != nil {
		n.Subject = domain.SubjectRef{Kind: row.SubjectType, ID: *row.SubjectID}
	}
	return n
}

func toDomainNotifications(rows []notificationRow) []domain.Notification {
	notifs := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		notifs = append(notifs, row.toDomain())
	}
	return notifs
}

const insertNotification = `
	INSERT INTO notifications (id, user_id, notifiable_type, notifiable_id, subject_type, subject_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

func notificationArgs(n *domain.Notification) []interface{} {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	var subjectID *uuid.UUID
	if !n.Subject.IsZero() {
		id := n.Subject.ID
		subjectID = &id
	}
	return []interface{}{
		n.ID, n.UserID, n.NotifiableType, n.NotifiableID, n.Subject.Kind, subjectID, n.CreatedAt,
	}
}

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(insertNotification), notificationArgs(notif)...)
	return err
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifs []domain.Notification) error {
	if len(notifs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(insertNotification))
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for i := range notifs {
		if _, err := stmt.ExecContext(ctx, notificationArgs(&notifs[i])...); err != nil {
			return fmt.Errorf("inserting notification for user %s: %w", notifs[i].UserID, err)
		}
	}

	return tx.Commit()
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var row notificationRow
	query := r.db.Rebind(`SELECT * FROM notifications WHERE id = ?`)

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	n := row.toDomain()
	return &n, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	where := `WHERE user_id = ?`
	if unreadOnly {
		where += ` AND read_at IS NULL`
	}

	var total int64
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM notifications ` + where)
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	var rows []notificationRow
	query := r.db.Rebind(`
		SELECT * FROM notifications ` + where + `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &rows, query, userID, params.PageSize, params.Offset()); err != nil {
		return nil, 0, err
	}

	return toDomainNotifications(rows), total, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := r.db.Rebind(`UPDATE notifications SET read_at = ? WHERE id = ? AND read_at IS NULL`)
	_, err := r.db.ExecContext(ctx, query, at, id)
	return err
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID, at time.Time) error {
	query := r.db.Rebind(`UPDATE notifications SET read_at = ? WHERE user_id = ? AND read_at IS NULL`)
	_, err := r.db.ExecContext(ctx, query, at, userID)
	return err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	query := r.db.Rebind(`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read_at IS NULL`)
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

func (r *notificationRepository) ListPending(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	var rows []notificationRow
	query := r.db.Rebind(`
		SELECT * FROM notifications
		WHERE user_id = ? AND emailed_at IS NULL AND expired_at IS NULL
		ORDER BY created_at, id`)
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}
	return toDomainNotifications(rows), nil
}

func (r *notificationRepository) ClaimPending(ctx context.Context, ids []uuid.UUID, at time.Time, deliver func(ctx context.Context) error) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`
		UPDATE notifications SET emailed_at = ?
		WHERE id = ? AND emailed_at IS NULL AND expired_at IS NULL`)

	for _, id := range ids {
		res, err := tx.ExecContext(ctx, query, at, id)
		if err != nil {
			return fmt.Errorf("claiming notification %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("claiming notification %s: %w", id, err)
		}
		if n != 1 {
			return fmt.Errorf("%w: %s", ErrNotPending, id)
		}
	}

	if err := deliver(ctx); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *notificationRepository) ExpirePendingBefore(ctx context.Context, cutoff, at time.Time) (int64, error) {
	query := r.db.Rebind(`
		UPDATE notifications SET expired_at = ?
		WHERE emailed_at IS NULL AND expired_at IS NULL AND created_at < ?`)
	res, err := r.db.ExecContext(ctx, query, at, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
