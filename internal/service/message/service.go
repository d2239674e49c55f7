package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/repository"
	"consul-mailer/internal/service/notification"
)

var (
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrSelfMessage      = errors.New("cannot send a message to yourself")
	// ErrNotificationFailed is returned alongside a stored message when either
	// email could not be delivered.
	ErrNotificationFailed = errors.New("message saved but notification failed")
)

type Service interface {
	Send(ctx context.Context, senderID uuid.UUID, input domain.CreateDirectMessageInput) (*domain.DirectMessage, error)
}

type service struct {
	messageRepo     repository.DirectMessageRepository
	userRepo        repository.UserRepository
	notificationSvc notification.Service
}

func NewService(messageRepo repository.DirectMessageRepository, userRepo repository.UserRepository, notificationSvc notification.Service) Service {
	return &service{
		messageRepo:     messageRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *service) Send(ctx context.Context, senderID uuid.UUID, input domain.CreateDirectMessageInput) (*domain.DirectMessage, error) {
	if input.ReceiverID == senderID {
		return nil, ErrSelfMessage
	}

	receiver, err := s.userRepo.GetByID(ctx, input.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get receiver: %w", err)
	}
	if receiver == nil {
		return nil, ErrReceiverNotFound
	}

	msg := &domain.DirectMessage{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Title:      input.Title,
		Body:       input.Body,
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := s.notificationSvc.NotifyDirectMessage(ctx, msg); err != nil {
		return msg, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	return msg, nil
}
