package domain

import (
	"time"

	"github.com/google/uuid"
)

type DirectMessage struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SenderID   uuid.UUID `json:"sender_id" db:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id" db:"receiver_id"`
	Title      string    `json:"title" db:"title"`
	Body       string    `json:"body" db:"body"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Notifiable links to the sender's profile; direct messages have no subject.
func (m *DirectMessage) Notifiable() Notifiable {
	return Notifiable{
		Type:     NotifiableDirectMessage,
		ID:       m.ID,
		AuthorID: m.SenderID,
		Title:    m.Title,
		Body:     m.Body,
		Target:   LinkTarget{Kind: KindUser, ID: m.SenderID},
	}
}

type CreateDirectMessageInput struct {
	ReceiverID uuid.UUID `json:"receiver_id" validate:"required"`
	Title      string    `json:"title" validate:"required"`
	Body       string    `json:"body" validate:"required"`
}
