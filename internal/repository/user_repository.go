package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"consul-mailer/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, prefs domain.Preferences) error
	ListDigestSubscribers(ctx context.Context) ([]domain.User, error)
	GetByConfirmationToken(ctx context.Context, token string) (*domain.User, error)
	Confirm(ctx context.Context, id uuid.UUID, at time.Time) error
	SetResetPasswordToken(ctx context.Context, id uuid.UUID, token string, sentAt time.Time) error
	GetByResetPasswordToken(ctx context.Context, token string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Locale == "" {
		user.Locale = "en"
	}
	if user.Role == "" {
		user.Role = string(domain.RoleMember)
	}

	query := r.db.Rebind(`
		INSERT INTO users (id, email, password_hash, username, locale, role,
			email_on_comment, email_on_comment_reply, email_digest,
			confirmation_token, confirmed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Username, user.Locale, user.Role,
		user.EmailOnComment, user.EmailOnCommentReply, user.EmailDigest,
		user.ConfirmationToken, user.ConfirmedAt, user.CreatedAt,
	)
	return err
}

func (r *userRepository) get(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	var user domain.User
	query := r.db.Rebind(`SELECT * FROM users WHERE ` + where)

	err := r.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, "email = ?", email)
}

func (r *userRepository) GetByConfirmationToken(ctx context.Context, token string) (*domain.User, error) {
	return r.get(ctx, "confirmation_token = ?", token)
}

func (r *userRepository) GetByResetPasswordToken(ctx context.Context, token string) (*domain.User, error) {
	return r.get(ctx, "reset_password_token = ?", token)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`)
	err := r.db.GetContext(ctx, &count, query, email)
	return count > 0, err
}

func (r *userRepository) UpdatePreferences(ctx context.Context, id uuid.UUID, prefs domain.Preferences) error {
	query := r.db.Rebind(`
		UPDATE users
		SET email_on_comment = ?, email_on_comment_reply = ?, email_digest = ?
		WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query,
		prefs.NotifyOnComment, prefs.NotifyOnCommentReply, prefs.ReceiveDigest, id,
	)
	return err
}

func (r *userRepository) ListDigestSubscribers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	query := r.db.Rebind(`SELECT * FROM users WHERE email_digest = ? ORDER BY created_at`)
	err := r.db.SelectContext(ctx, &users, query, true)
	return users, err
}

func (r *userRepository) Confirm(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := r.db.Rebind(`UPDATE users SET confirmed_at = ?, confirmation_token = NULL WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, at, id)
	return err
}

func (r *userRepository) SetResetPasswordToken(ctx context.Context, id uuid.UUID, token string, sentAt time.Time) error {
	query := r.db.Rebind(`UPDATE users SET reset_password_token = ?, reset_password_sent_at = ? WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, token, sentAt, id)
	return err
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := r.db.Rebind(`
		UPDATE users
		SET password_hash = ?, reset_password_token = NULL, reset_password_sent_at = NULL
		WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, passwordHash, id)
	return err
}
