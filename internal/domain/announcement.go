package domain

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is an administrative notice attached to a proposal or debate
// and delivered to its supporters through the digest.
type Announcement struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Subject   SubjectRef `json:"subject"`
	AuthorID  uuid.UUID  `json:"author_id" db:"author_id"`
	Title     string     `json:"title" db:"title"`
	Body      string     `json:"body" db:"body"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

func (a *Announcement) Notifiable() Notifiable {
	typ := NotifiableProposalAnnouncement
	if a.Subject.Kind == KindDebate {
		typ = NotifiableDebateAnnouncement
	}
	return Notifiable{
		Type:     typ,
		ID:       a.ID,
		AuthorID: a.AuthorID,
		Title:    a.Title,
		Body:     a.Body,
		Target:   a.Subject.Target(),
		Subject:  a.Subject,
	}
}

type CreateAnnouncementInput struct {
	Title string `json:"title" validate:"required,min=3"`
	Body  string `json:"body" validate:"required"`
}
