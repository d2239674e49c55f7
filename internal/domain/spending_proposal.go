package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SpendingProposal struct {
	ID                    uuid.UUID  `json:"id" db:"id"`
	AuthorID              uuid.UUID  `json:"author_id" db:"author_id"`
	AdministratorID       *uuid.UUID `json:"administrator_id,omitempty" db:"administrator_id"`
	Title                 string     `json:"title" db:"title"`
	Feasible              *bool      `json:"feasible" db:"feasible"`
	FeasibleExplanation   string     `json:"feasible_explanation" db:"feasible_explanation"`
	ValuationFinished     bool       `json:"valuation_finished" db:"valuation_finished"`
	UnfeasibleEmailSentAt *time.Time `json:"-" db:"unfeasible_email_sent_at"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
}

// Code is the public reference of the proposal: year, short id and, once an
// administrator is assigned, the administrator's short id.
func (p *SpendingProposal) Code() string {
	code := fmt.Sprintf("%d-%s", p.CreatedAt.Year(), shortID(p.ID))
	if p.AdministratorID != nil {
		code += "-A" + shortID(*p.AdministratorID)
	}
	return code
}

func (p *SpendingProposal) Unfeasible() bool {
	return p.Feasible != nil && !*p.Feasible
}

// ShouldSendUnfeasibleEmail reports whether the author still has to be told
// that the valuation came back unfeasible.
func (p *SpendingProposal) ShouldSendUnfeasibleEmail() bool {
	return p.ValuationFinished && p.Unfeasible() && p.UnfeasibleEmailSentAt == nil
}

type ValuationInput struct {
	Feasible            *bool   `json:"feasible"`
	FeasibleExplanation *string `json:"feasible_explanation"`
	ValuationFinished   *bool   `json:"valuation_finished"`
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
