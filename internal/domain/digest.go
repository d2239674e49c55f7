package domain

import "github.com/google/uuid"

// DigestItem is one pending ledger entry selected for a digest email.
type DigestItem struct {
	NotificationID uuid.UUID
	Notifiable     Notifiable
}

// DigestGroup collects the digest items of a single supported subject.
type DigestGroup struct {
	Subject    Subject
	AuthorName string
	Items      []DigestItem
}
