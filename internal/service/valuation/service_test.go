package valuation_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/mocks"
	"consul-mailer/internal/pkg/mailcapture"
	"consul-mailer/internal/repository"
	"consul-mailer/internal/service/email"
	"consul-mailer/internal/service/links"
	"consul-mailer/internal/service/valuation"
	"consul-mailer/internal/testutil"
)

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func setup(t *testing.T) (*repository.Repositories, *mailcapture.Sink, valuation.Service) {
	t.Helper()

	repos := testutil.NewRepositories(t)
	renderer, err := email.NewRenderer()
	require.NoError(t, err)
	sink := mailcapture.New(renderer)

	emailSvc := email.NewService(sink, links.NewBuilder("http://localhost:3000"))
	return repos, sink, valuation.NewService(repos.SpendingProposal, repos.User, emailSvc)
}

func createProposal(t *testing.T, repos *repository.Repositories, author *domain.User) *domain.SpendingProposal {
	t.Helper()
	sp := &domain.SpendingProposal{
		ID:       uuid.New(),
		AuthorID: author.ID,
		Title:    "Solar panels for schools",
	}
	require.NoError(t, repos.SpendingProposal.Create(context.Background(), sp))
	return sp
}

func TestValuate_UnfeasibleEmailSentOnce(t *testing.T) {
	repos, sink, svc := setup(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, repos, "author")
	sp := createProposal(t, repos, author)

	unfeasible := domain.ValuationInput{
		Feasible:            boolPtr(false),
		FeasibleExplanation: strPtr("The budget exceeds the district limit"),
		ValuationFinished:   boolPtr(true),
	}

	got, err := svc.Valuate(ctx, sp.ID, unfeasible)
	require.NoError(t, err)
	assert.NotNil(t, got.UnfeasibleEmailSentAt)

	emails := sink.SentTo(author.Email)
	require.Len(t, emails, 1)
	assert.Equal(t, "Your investment project '"+got.Code()+"' has been marked as unfeasible", emails[0].Subject)
	assert.Contains(t, emails[0].Body, "Solar panels for schools")
	assert.Contains(t, emails[0].Body, got.Code())
	assert.Contains(t, emails[0].Body, "The budget exceeds the district limit")

	_, err = svc.Valuate(ctx, sp.ID, unfeasible)
	require.NoError(t, err)
	assert.Len(t, sink.SentTo(author.Email), 1)
}

func TestValuate_NoEmailUntilFinished(t *testing.T) {
	repos, sink, svc := setup(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, repos, "author")
	sp := createProposal(t, repos, author)

	_, err := svc.Valuate(ctx, sp.ID, domain.ValuationInput{Feasible: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, 0, sink.Count())

	_, err = svc.Valuate(ctx, sp.ID, domain.ValuationInput{Feasible: boolPtr(true), ValuationFinished: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 0, sink.Count())
}

func TestValuate_NotFound(t *testing.T) {
	spRepo := new(mocks.SpendingProposalRepository)
	emailSvc := new(mocks.EmailService)
	svc := valuation.NewService(spRepo, new(mocks.UserRepository), emailSvc)

	id := uuid.New()
	spRepo.On("GetByID", context.Background(), id).Return(nil, nil).Once()

	_, err := svc.Valuate(context.Background(), id, domain.ValuationInput{})

	assert.ErrorIs(t, err, valuation.ErrSpendingProposalNotFound)
	emailSvc.AssertNotCalled(t, "SendUnfeasibleSpendingProposal")
}
