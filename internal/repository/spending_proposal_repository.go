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

type SpendingProposalRepository interface {
	Create(ctx context.Context, sp *domain.SpendingProposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SpendingProposal, error)
	UpdateValuation(ctx context.Context, sp *domain.SpendingProposal) error
	MarkUnfeasibleEmailSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type spendingProposalRepository struct {
	db *sqlx.DB
}

func NewSpendingProposalRepository(db *sqlx.DB) SpendingProposalRepository {
	return &spendingProposalRepository{db: db}
}

func (r *spendingProposalRepository) Create(ctx context.Context, sp *domain.SpendingProposal) error {
	if sp.CreatedAt.IsZero() {
		sp.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO spending_proposals (id, author_id, administrator_id, title, feasible,
			feasible_explanation, valuation_finished, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		sp.ID, sp.AuthorID, sp.AdministratorID, sp.Title, sp.Feasible,
		sp.FeasibleExplanation, sp.ValuationFinished, sp.CreatedAt,
	)
	return err
}

func (r *spendingProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SpendingProposal, error) {
	var sp domain.SpendingProposal
	query := r.db.Rebind(`SELECT * FROM spending_proposals WHERE id = ?`)

	err := r.db.GetContext(ctx, &sp, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *spendingProposalRepository) UpdateValuation(ctx context.Context, sp *domain.SpendingProposal) error {
	query := r.db.Rebind(`
		UPDATE spending_proposals
		SET feasible = ?, feasible_explanation = ?, valuation_finished = ?
		WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query,
		sp.Feasible, sp.FeasibleExplanation, sp.ValuationFinished, sp.ID,
	)
	return err
}

// MarkUnfeasibleEmailSent sets unfeasible_email_sent_at only if it was unset
// and reports whether this call made the transition.
func (r *spendingProposalRepository) MarkUnfeasibleEmailSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := r.db.Rebind(`
		UPDATE spending_proposals SET unfeasible_email_sent_at = ?
		WHERE id = ? AND unfeasible_email_sent_at IS NULL`)
	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}
