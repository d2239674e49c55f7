package notification

import (
	"github.com/google/uuid"

	"consul-mailer/internal/domain"
)

// ShouldNotify reports whether recipient should hear about something actor
// did. Acting on your own content never notifies you, whatever your
// preferences say.
func ShouldNotify(actorID, recipientID uuid.UUID, prefs domain.Preferences, topic domain.Topic) bool {
	if actorID == recipientID {
		return false
	}
	return prefs.Allows(topic)
}
