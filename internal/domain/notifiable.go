package domain

import (
	"time"

	"github.com/google/uuid"
)

type EntityKind string

const (
	KindProposal         EntityKind = "proposal"
	KindDebate           EntityKind = "debate"
	KindComment          EntityKind = "comment"
	KindUser             EntityKind = "user"
	KindNotification     EntityKind = "notification"
	KindAccount          EntityKind = "account"
	KindSpendingProposal EntityKind = "spending_proposal"
)

func (k EntityKind) IsSubject() bool {
	return k == KindProposal || k == KindDebate
}

// SubjectRef points at the proposal or debate a notifiable belongs to.
type SubjectRef struct {
	Kind EntityKind `json:"kind" db:"subject_type"`
	ID   uuid.UUID  `json:"id" db:"subject_id"`
}

func (r SubjectRef) IsZero() bool {
	return r.Kind == "" || r.ID == uuid.Nil
}

func (r SubjectRef) String() string {
	return string(r.Kind) + ":" + r.ID.String()
}

// LinkTarget is a canonical, host-independent link to an entity.
type LinkTarget struct {
	Kind   EntityKind
	ID     uuid.UUID
	Anchor string
}

func (r SubjectRef) Target() LinkTarget {
	return LinkTarget{Kind: r.Kind, ID: r.ID}
}

func (r SubjectRef) TargetAt(anchor string) LinkTarget {
	return LinkTarget{Kind: r.Kind, ID: r.ID, Anchor: anchor}
}

// Subject is a proposal or debate, reduced to what notifications need.
type Subject struct {
	Ref         SubjectRef `json:"ref"`
	AuthorID    *uuid.UUID `json:"author_id" db:"author_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type NotifiableType string

const (
	NotifiableComment              NotifiableType = "comment"
	NotifiableReply                NotifiableType = "reply"
	NotifiableProposalAnnouncement NotifiableType = "proposal_announcement"
	NotifiableDebateAnnouncement   NotifiableType = "debate_announcement"
	NotifiableDirectMessage        NotifiableType = "direct_message"
)

// Notifiable is the uniform read-only view of anything a user can be told
// about. Every variant builds it explicitly.
type Notifiable struct {
	Type     NotifiableType
	ID       uuid.UUID
	AuthorID uuid.UUID
	Title    string
	Body     string
	// Target is where the email links to.
	Target LinkTarget
	// Subject is the proposal/debate used for support filtering. Zero for
	// direct messages.
	Subject SubjectRef
}
