package email

import "context"

const (
	TemplateConfirmation       = "confirmation.html"
	TemplateResetPassword      = "reset_password.html"
	TemplateComment            = "comment.html"
	TemplateReply              = "reply.html"
	TemplateDirectMessage      = "direct_message.html"
	TemplateDirectMessageSent  = "direct_message_sent.html"
	TemplateProposalDigest     = "proposal_digest.html"
	TemplateUnfeasibleProposal = "unfeasible_spending_proposal.html"
)

// Message is a dispatch record: who, which subject line, which template and
// the variables it is rendered with.
type Message struct {
	To        string                 `json:"to"`
	Subject   string                 `json:"subject"`
	Template  string                 `json:"template"`
	Variables map[string]interface{} `json:"variables"`
}

// Transport delivers a message. Rendering and retries are the transport's
// concern.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}
