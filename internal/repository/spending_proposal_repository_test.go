package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/testutil"
)

func TestSpendingProposalRepository(t *testing.T) {
	repos := testutil.NewRepositories(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, repos, "author")

	sp := &domain.SpendingProposal{
		ID:       uuid.New(),
		AuthorID: author.ID,
		Title:    "Solar panels for schools",
	}
	require.NoError(t, repos.SpendingProposal.Create(ctx, sp))

	feasible := false
	sp.Feasible = &feasible
	sp.FeasibleExplanation = "Over budget"
	sp.ValuationFinished = true
	require.NoError(t, repos.SpendingProposal.UpdateValuation(ctx, sp))

	got, err := repos.SpendingProposal.GetByID(ctx, sp.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Unfeasible())
	assert.Equal(t, "Over budget", got.FeasibleExplanation)
	assert.True(t, got.ShouldSendUnfeasibleEmail())

	marked, err := repos.SpendingProposal.MarkUnfeasibleEmailSent(ctx, sp.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, marked)

	marked, err = repos.SpendingProposal.MarkUnfeasibleEmailSent(ctx, sp.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, marked)

	got, err = repos.SpendingProposal.GetByID(ctx, sp.ID)
	require.NoError(t, err)
	assert.False(t, got.ShouldSendUnfeasibleEmail())

	missing, err := repos.SpendingProposal.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
