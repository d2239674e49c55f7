package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote records that a user supports a proposal or debate.
type Vote struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	VoterID   uuid.UUID  `json:"voter_id" db:"voter_id"`
	Subject   SubjectRef `json:"subject"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
