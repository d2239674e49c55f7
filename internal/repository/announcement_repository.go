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

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *domain.Announcement) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Announcement, error)
}

type announcementRepository struct {
	db *sqlx.DB
}

func NewAnnouncementRepository(db *sqlx.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

type announcementRow struct {
	ID          uuid.UUID         `db:"id"`
	SubjectType domain.EntityKind `db:"subject_type"`
	SubjectID   uuid.UUID         `db:"subject_id"`
	AuthorID    uuid.UUID         `db:"author_id"`
	Title       string            `db:"title"`
	Body        string            `db:"body"`
	CreatedAt   time.Time         `db:"created_at"`
}

func (r *announcementRepository) Create(ctx context.Context, a *domain.Announcement) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO announcements (id, subject_type, subject_id, author_id, title, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Subject.Kind, a.Subject.ID, a.AuthorID, a.Title, a.Body, a.CreatedAt,
	)
	return err
}

func (r *announcementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Announcement, error) {
	var row announcementRow
	query := r.db.Rebind(`SELECT * FROM announcements WHERE id = ?`)

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &domain.Announcement{
		ID:        row.ID,
		Subject:   domain.SubjectRef{Kind: row.SubjectType, ID: row.SubjectID},
		AuthorID:  row.AuthorID,
		Title:     row.Title,
		Body:      row.Body,
		CreatedAt: row.CreatedAt,
	}, nil
}
