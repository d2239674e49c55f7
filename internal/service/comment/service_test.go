package comment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/mocks"
	"consul-mailer/internal/service/comment"
)

func TestCommentService_Create(t *testing.T) {
	ctx := context.Background()
	ref := domain.SubjectRef{Kind: domain.KindProposal, ID: uuid.New()}
	authorID := uuid.New()
	subject := &domain.Subject{Ref: ref, Title: "Bike lanes"}

	setup := func() (*mocks.CommentRepository, *mocks.SubjectRepository, *mocks.NotificationService, comment.Service) {
		commentRepo := new(mocks.CommentRepository)
		subjectRepo := new(mocks.SubjectRepository)
		notifSvc := new(mocks.NotificationService)
		return commentRepo, subjectRepo, notifSvc, comment.NewService(commentRepo, subjectRepo, notifSvc)
	}

	t.Run("Success", func(t *testing.T) {
		commentRepo, subjectRepo, notifSvc, svc := setup()
		subjectRepo.On("Get", ctx, ref).Return(subject, nil).Once()
		commentRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Comment) bool {
			return c.Subject == ref && c.AuthorID == authorID && c.Body == "Great idea" && c.ParentID == nil
		})).Return(nil).Once()
		notifSvc.On("NotifyNewComment", ctx, mock.AnythingOfType("*domain.Comment")).Return(nil).Once()

		c, err := svc.Create(ctx, ref, authorID, domain.CreateCommentInput{Body: "Great idea"})

		assert.NoError(t, err)
		assert.Equal(t, "Great idea", c.Body)
		commentRepo.AssertExpectations(t)
		notifSvc.AssertExpectations(t)
	})

	t.Run("Subject Not Found", func(t *testing.T) {
		commentRepo, subjectRepo, _, svc := setup()
		subjectRepo.On("Get", ctx, ref).Return(nil, nil).Once()

		c, err := svc.Create(ctx, ref, authorID, domain.CreateCommentInput{Body: "Hello"})

		assert.ErrorIs(t, err, comment.ErrSubjectNotFound)
		assert.Nil(t, c)
		commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Parent On Another Subject", func(t *testing.T) {
		commentRepo, subjectRepo, _, svc := setup()
		parentID := uuid.New()
		subjectRepo.On("Get", ctx, ref).Return(subject, nil).Once()
		commentRepo.On("GetByID", ctx, parentID).Return(&domain.Comment{
			ID:      parentID,
			Subject: domain.SubjectRef{Kind: domain.KindDebate, ID: uuid.New()},
		}, nil).Once()

		_, err := svc.Create(ctx, ref, authorID, domain.CreateCommentInput{ParentID: &parentID, Body: "Reply"})

		assert.ErrorIs(t, err, comment.ErrParentNotFound)
		commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Notification Failure Keeps Comment", func(t *testing.T) {
		commentRepo, subjectRepo, notifSvc, svc := setup()
		subjectRepo.On("Get", ctx, ref).Return(subject, nil).Once()
		commentRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		notifSvc.On("NotifyNewComment", ctx, mock.Anything).Return(errors.New("smtp down")).Once()

		c, err := svc.Create(ctx, ref, authorID, domain.CreateCommentInput{Body: "Hello"})

		assert.ErrorIs(t, err, comment.ErrNotificationFailed)
		assert.NotNil(t, c)
		commentRepo.AssertExpectations(t)
	})
}
