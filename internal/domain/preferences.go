package domain

// Topic names the kind of event a recipient may opt in or out of.
type Topic string

const (
	TopicComment      Topic = "comment"
	TopicCommentReply Topic = "comment_reply"
	TopicDigest       Topic = "digest"
	// TopicAnnouncement is recorded in the ledger for every supporter; delivery
	// is later gated by TopicDigest.
	TopicAnnouncement Topic = "announcement"
)

// Preferences is the by-value snapshot of a user's email flags.
type Preferences struct {
	NotifyOnComment      bool `json:"email_on_comment"`
	NotifyOnCommentReply bool `json:"email_on_comment_reply"`
	ReceiveDigest        bool `json:"email_digest"`
}

func (p Preferences) Allows(topic Topic) bool {
	switch topic {
	case TopicComment:
		return p.NotifyOnComment
	case TopicCommentReply:
		return p.NotifyOnCommentReply
	case TopicDigest:
		return p.ReceiveDigest
	case TopicAnnouncement:
		return true
	default:
		return false
	}
}

type UpdatePreferencesInput struct {
	NotifyOnComment      *bool `json:"email_on_comment"`
	NotifyOnCommentReply *bool `json:"email_on_comment_reply"`
	ReceiveDigest        *bool `json:"email_digest"`
}

// Apply returns p with every non-nil field of the input applied.
func (in UpdatePreferencesInput) Apply(p Preferences) Preferences {
	if in.NotifyOnComment != nil {
		p.NotifyOnComment = *in.NotifyOnComment
	}
	if in.NotifyOnCommentReply != nil {
		p.NotifyOnCommentReply = *in.NotifyOnCommentReply
	}
	if in.ReceiveDigest != nil {
		p.ReceiveDigest = *in.ReceiveDigest
	}
	return p
}
