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

type DirectMessageRepository interface {
	Create(ctx context.Context, msg *domain.DirectMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DirectMessage, error)
}

type directMessageRepository struct {
	db *sqlx.DB
}

func NewDirectMessageRepository(db *sqlx.DB) DirectMessageRepository {
	return &directMessageRepository{db: db}
}

func (r *directMessageRepository) Create(ctx context.Context, msg *domain.DirectMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO direct_messages (id, sender_id, receiver_id, title, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.SenderID, msg.ReceiverID, msg.Title, msg.Body, msg.CreatedAt,
	)
	return err
}

func (r *directMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DirectMessage, error) {
	var msg domain.DirectMessage
	query := r.db.Rebind(`SELECT * FROM direct_messages WHERE id = ?`)

	err := r.db.GetContext(ctx, &msg, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
