package support_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/mocks"
	"consul-mailer/internal/service/support"
)

func TestSupportService_Support(t *testing.T) {
	ctx := context.Background()
	ref := domain.SubjectRef{Kind: domain.KindProposal, ID: uuid.New()}
	voterID := uuid.New()

	t.Run("Records And Invalidates", func(t *testing.T) {
		voteRepo := new(mocks.VoteRepository)
		subjectRepo := new(mocks.SubjectRepository)
		prefs := new(mocks.PreferenceStore)
		svc := support.NewService(voteRepo, subjectRepo, prefs)

		subjectRepo.On("Get", ctx, ref).Return(&domain.Subject{Ref: ref}, nil).Once()
		voteRepo.On("Create", ctx, mock.MatchedBy(func(v *domain.Vote) bool {
			return v.VoterID == voterID && v.Subject == ref
		})).Return(nil).Once()
		prefs.On("InvalidateSupport", ctx, voterID, ref).Return().Once()

		assert.NoError(t, svc.Support(ctx, voterID, ref))
		voteRepo.AssertExpectations(t)
		prefs.AssertExpectations(t)
	})

	t.Run("Unknown Subject", func(t *testing.T) {
		voteRepo := new(mocks.VoteRepository)
		subjectRepo := new(mocks.SubjectRepository)
		prefs := new(mocks.PreferenceStore)
		svc := support.NewService(voteRepo, subjectRepo, prefs)

		subjectRepo.On("Get", ctx, ref).Return(nil, nil).Once()

		assert.ErrorIs(t, svc.Support(ctx, voterID, ref), support.ErrSubjectNotFound)
		voteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Store Failure", func(t *testing.T) {
		voteRepo := new(mocks.VoteRepository)
		subjectRepo := new(mocks.SubjectRepository)
		prefs := new(mocks.PreferenceStore)
		svc := support.NewService(voteRepo, subjectRepo, prefs)

		subjectRepo.On("Get", ctx, ref).Return(&domain.Subject{Ref: ref}, nil).Once()
		voteRepo.On("Create", ctx, mock.Anything).Return(errors.New("db down")).Once()

		assert.Error(t, svc.Support(ctx, voterID, ref))
		prefs.AssertNotCalled(t, "InvalidateSupport", mock.Anything, mock.Anything, mock.Anything)
	})
}
