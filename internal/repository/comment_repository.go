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

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

type commentRow struct {
	ID          uuid.UUID         `db:"id"`
	SubjectType domain.EntityKind `db:"subject_type"`
	SubjectID   uuid.UUID         `db:"subject_id"`
	ParentID    *uuid.UUID        `db:"parent_id"`
	AuthorID    uuid.UUID         `db:"author_id"`
	Body        string            `db:"body"`
	CreatedAt   time.Time         `db:"created_at"`
}

func (row commentRow) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:        row.ID,
		Subject:   domain.SubjectRef{Kind: row.SubjectType, ID: row.SubjectID},
		ParentID:  row.ParentID,
		AuthorID:  row.AuthorID,
		Body:      row.Body,
		CreatedAt: row.CreatedAt,
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO comments (id, subject_type, subject_id, parent_id, author_id, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.Subject.Kind, comment.Subject.ID, comment.ParentID,
		comment.AuthorID, comment.Body, comment.CreatedAt,
	)
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var row commentRow
	query := r.db.Rebind(`SELECT * FROM comments WHERE id = ?`)

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}
