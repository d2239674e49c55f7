package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"consul-mailer/internal/domain"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendConfirmationInstructions(ctx context.Context, user *domain.User, token string) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

func (m *EmailService) SendResetPasswordInstructions(ctx context.Context, user *domain.User, token string) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

func (m *EmailService) SendCommentNotification(ctx context.Context, recipient, author *domain.User, subject *domain.Subject, comment domain.Notifiable) error {
	args := m.Called(ctx, recipient, author, subject, comment)
	return args.Error(0)
}

func (m *EmailService) SendReplyNotification(ctx context.Context, recipient, author *domain.User, reply domain.Notifiable) error {
	args := m.Called(ctx, recipient, author, reply)
	return args.Error(0)
}

func (m *EmailService) SendDirectMessageReceived(ctx context.Context, receiver, sender *domain.User, msg domain.Notifiable) error {
	args := m.Called(ctx, receiver, sender, msg)
	return args.Error(0)
}

func (m *EmailService) SendDirectMessageSent(ctx context.Context, sender, receiver *domain.User, msg domain.Notifiable) error {
	args := m.Called(ctx, sender, receiver, msg)
	return args.Error(0)
}

func (m *EmailService) SendProposalDigest(ctx context.Context, recipient *domain.User, groups []domain.DigestGroup) error {
	args := m.Called(ctx, recipient, groups)
	return args.Error(0)
}

func (m *EmailService) SendUnfeasibleSpendingProposal(ctx context.Context, author *domain.User, proposal *domain.SpendingProposal) error {
	args := m.Called(ctx, author, proposal)
	return args.Error(0)
}
