package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a ledger entry: recipient UserID should learn about the
// notifiable. EmailedAt moves from nil to a timestamp exactly once.
type Notification struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	UserID         uuid.UUID      `json:"user_id" db:"user_id"`
	NotifiableType NotifiableType `json:"notifiable_type" db:"notifiable_type"`
	NotifiableID   uuid.UUID      `json:"notifiable_id" db:"notifiable_id"`
	Subject        SubjectRef     `json:"subject"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	ReadAt         *time.Time     `json:"read_at,omitempty" db:"read_at"`
	EmailedAt      *time.Time     `json:"emailed_at,omitempty" db:"emailed_at"`
	ExpiredAt      *time.Time     `json:"-" db:"expired_at"`
}

func (n *Notification) IsPending() bool {
	return n.EmailedAt == nil && n.ExpiredAt == nil
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
