package domain

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Subject   SubjectRef `json:"subject"`
	ParentID  *uuid.UUID `json:"parent_id" db:"parent_id"`
	AuthorID  uuid.UUID  `json:"author_id" db:"author_id"`
	Body      string     `json:"body" db:"body"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// Notifiable links a top-level comment to its thread root and a reply to the
// reply itself, so reply emails never surface the subject's own link.
func (c *Comment) Notifiable() Notifiable {
	n := Notifiable{
		Type:     NotifiableComment,
		ID:       c.ID,
		AuthorID: c.AuthorID,
		Body:     c.Body,
		Target:   c.Subject.Target(),
		Subject:  c.Subject,
	}
	if c.IsReply() {
		n.Type = NotifiableReply
		n.Target = LinkTarget{Kind: KindComment, ID: c.ID}
	}
	return n
}

type CreateCommentInput struct {
	ParentID *uuid.UUID `json:"parent_id"`
	Body     string     `json:"body" validate:"required,min=1,max=2000"`
}
