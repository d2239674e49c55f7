package valuation

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
)

var ErrSpendingProposalNotFound = errors.New("spending proposal not found")

type Service interface {
	// Valuate applies a valuator's assessment. Finishing a valuation as
	// unfeasible emails the author, at most once per proposal.
	Valuate(ctx context.Context, id uuid.UUID, input domain.ValuationInput) (*domain.SpendingProposal, error)
}

type service struct {
	spRepo   repository.SpendingProposalRepository
	userRepo repository.UserRepository
	emailSvc email.Service
}

func NewService(spRepo repository.SpendingProposalRepository, userRepo repository.UserRepository, emailSvc email.Service) Service {
	return &service{
		spRepo:   spRepo,
		userRepo: userRepo,
		emailSvc: emailSvc,
	}
}

func (s *service) Valuate(ctx context.Context, id uuid.UUID, input domain.ValuationInput) (*domain.SpendingProposal, error) {
	sp, err := s.spRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get spending proposal: %w", err)
	}
	if sp == nil {
		return nil, ErrSpendingProposalNotFound
	}

	if input.Feasible != nil {
		feasible := *input.Feasible
		sp.Feasible = &feasible
	}
	if input.FeasibleExplanation != nil {
		sp.FeasibleExplanation = *input.FeasibleExplanation
	}
	if input.ValuationFinished != nil {
		sp.ValuationFinished = *input.ValuationFinished
	}

	if err := s.spRepo.UpdateValuation(ctx, sp); err != nil {
		return nil, fmt.Errorf("failed to update valuation: %w", err)
	}

	if sp.ShouldSendUnfeasibleEmail() {
		if err := s.notifyUnfeasible(ctx, sp); err != nil {
			return sp, err
		}
	}

	return sp, nil
}

func (s *service) notifyUnfeasible(ctx context.Context, sp *domain.SpendingProposal) error {
	now := time.Now().UTC()
	marked, err := s.spRepo.MarkUnfeasibleEmailSent(ctx, sp.ID, now)
	if err != nil {
		return fmt.Errorf("failed to mark unfeasible email: %w", err)
	}
	if !marked {
		return nil
	}
	sp.UnfeasibleEmailSentAt = &now

	author, err := s.userRepo.GetByID(ctx, sp.AuthorID)
	if err != nil {
		return fmt.Errorf("failed to get author: %w", err)
	}
	if author == nil {
		log.Printf("Spending proposal %s has no author to notify", sp.ID)
		return nil
	}

	if err := s.emailSvc.SendUnfeasibleSpendingProposal(ctx, author, sp); err != nil {
		return fmt.Errorf("failed to send unfeasible notification: %w", err)
	}
	return nil
}
