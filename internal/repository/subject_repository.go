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

var ErrUnknownSubjectKind = errors.New("unknown subject kind")

// SubjectRepository reads and writes proposals and debates.
type SubjectRepository interface {
	Create(ctx context.Context, subject *domain.Subject) error
	Get(ctx context.Context, ref domain.SubjectRef) (*domain.Subject, error)
}

type subjectRepository struct {
	db *sqlx.DB
}

func NewSubjectRepository(db *sqlx.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func subjectTable(kind domain.EntityKind) (string, error) {
	switch kind {
	case domain.KindProposal:
		return "proposals", nil
	case domain.KindDebate:
		return "debates", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSubjectKind, kind)
	}
}

func (r *subjectRepository) Create(ctx context.Context, subject *domain.Subject) error {
	table, err := subjectTable(subject.Ref.Kind)
	if err != nil {
		return err
	}
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`INSERT INTO ` + table + ` (id, author_id, title, description, created_at) VALUES (?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query,
		subject.Ref.ID, subject.AuthorID, subject.Title, subject.Description, subject.CreatedAt,
	)
	return err
}

func (r *subjectRepository) Get(ctx context.Context, ref domain.SubjectRef) (*domain.Subject, error) {
	table, err := subjectTable(ref.Kind)
	if err != nil {
		return nil, err
	}

	var row struct {
		ID          uuid.UUID  `db:"id"`
		AuthorID    *uuid.UUID `db:"author_id"`
		Title       string     `db:"title"`
		Description string     `db:"description"`
		CreatedAt   time.Time  `db:"created_at"`
	}
	query := r.db.Rebind(`SELECT id, author_id, title, description, created_at FROM ` + table + ` WHERE id = ?`)

	err = r.db.GetContext(ctx, &row, query, ref.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &domain.Subject{
		Ref:         domain.SubjectRef{Kind: ref.Kind, ID: row.ID},
		AuthorID:    row.AuthorID,
		Title:       row.Title,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
	}, nil
}
