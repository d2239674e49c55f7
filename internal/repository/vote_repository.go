package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"consul-mailer/internal/domain"
)

type VoteRepository interface {
	Create(ctx context.Context, vote *domain.Vote) error
	Exists(ctx context.Context, voterID uuid.UUID, subject domain.SubjectRef) (bool, error)
	ListVoterIDs(ctx context.Context, subject domain.SubjectRef) ([]uuid.UUID, error)
}

type voteRepository struct {
	db *sqlx.DB
}

func NewVoteRepository(db *sqlx.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Create records the vote; voting twice on the same subject is a no-op.
func (r *voteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO votes (id, voter_id, subject_type, subject_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (voter_id, subject_type, subject_id) DO NOTHING`)

	_, err := r.db.ExecContext(ctx, query,
		vote.ID, vote.VoterID, vote.Subject.Kind, vote.Subject.ID, vote.CreatedAt,
	)
	return err
}

func (r *voteRepository) Exists(ctx context.Context, voterID uuid.UUID, subject domain.SubjectRef) (bool, error) {
	var count int
	query := r.db.Rebind(`
		SELECT COUNT(*) FROM votes
		WHERE voter_id = ? AND subject_type = ? AND subject_id = ?`)
	err := r.db.GetContext(ctx, &count, query, voterID, subject.Kind, subject.ID)
	return count > 0, err
}

func (r *voteRepository) ListVoterIDs(ctx context.Context, subject domain.SubjectRef) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := r.db.Rebind(`
		SELECT voter_id FROM votes
		WHERE subject_type = ? AND subject_id = ?
		ORDER BY created_at`)
	err := r.db.SelectContext(ctx, &ids, query, subject.Kind, subject.ID)
	return ids, err
}
