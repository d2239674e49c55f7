package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"consul-mailer/internal/domain"
)

func TestShouldNotify(t *testing.T) {
	actor := uuid.New()
	other := uuid.New()
	all := domain.Preferences{NotifyOnComment: true, NotifyOnCommentReply: true, ReceiveDigest: true}
	none := domain.Preferences{}

	tests := []struct {
		name      string
		actor     uuid.UUID
		recipient uuid.UUID
		prefs     domain.Preferences
		topic     domain.Topic
		want      bool
	}{
		{"self action with flag on", actor, actor, all, domain.TopicComment, false},
		{"self action with flag off", actor, actor, none, domain.TopicComment, false},
		{"self announcement", actor, actor, none, domain.TopicAnnouncement, false},
		{"comment flag on", actor, other, all, domain.TopicComment, true},
		{"comment flag off", actor, other, none, domain.TopicComment, false},
		{"reply flag on", actor, other, domain.Preferences{NotifyOnCommentReply: true}, domain.TopicCommentReply, true},
		{"reply flag off", actor, other, domain.Preferences{NotifyOnComment: true}, domain.TopicCommentReply, false},
		{"digest flag", actor, other, domain.Preferences{ReceiveDigest: true}, domain.TopicDigest, true},
		{"announcement ignores flags", actor, other, none, domain.TopicAnnouncement, true},
		{"unknown topic", actor, other, all, domain.Topic("poll"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldNotify(tt.actor, tt.recipient, tt.prefs, tt.topic))
		})
	}
}
