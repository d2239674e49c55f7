package email

import (
	"context"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/pkg/i18n"
	"consul-mailer/internal/service/links"
)

// Service composes user facing emails and hands them to a Transport. It
// never decides whether an email should be sent.
type Service interface {
	SendConfirmationInstructions(ctx context.Context, user *domain.User, token string) error
	SendResetPasswordInstructions(ctx context.Context, user *domain.User, token string) error
	SendCommentNotification(ctx context.Context, recipient, author *domain.User, subject *domain.Subject, comment domain.Notifiable) error
	SendReplyNotification(ctx context.Context, recipient, author *domain.User, reply domain.Notifiable) error
	SendDirectMessageReceived(ctx context.Context, receiver, sender *domain.User, msg domain.Notifiable) error
	SendDirectMessageSent(ctx context.Context, sender, receiver *domain.User, msg domain.Notifiable) error
	SendProposalDigest(ctx context.Context, recipient *domain.User, groups []domain.DigestGroup) error
	SendUnfeasibleSpendingProposal(ctx context.Context, author *domain.User, proposal *domain.SpendingProposal) error
}

type service struct {
	transport Transport
	links     links.Builder
}

func NewService(transport Transport, linkBuilder links.Builder) Service {
	return &service{
		transport: transport,
		links:     linkBuilder,
	}
}

func (s *service) send(ctx context.Context, to *domain.User, subject, template string, vars map[string]interface{}) error {
	vars["Locale"] = i18n.Match(to.Locale)
	vars["Name"] = to.Username
	return s.transport.Send(ctx, Message{
		To:        to.Email,
		Subject:   subject,
		Template:  template,
		Variables: vars,
	})
}

func displayName(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}

func (s *service) SendConfirmationInstructions(ctx context.Context, user *domain.User, token string) error {
	return s.send(ctx, user, i18n.T(user.Locale, "CONFIRMATION_SUBJECT"), TemplateConfirmation, map[string]interface{}{
		"ConfirmationURL": s.links.Confirmation(token),
	})
}

func (s *service) SendResetPasswordInstructions(ctx context.Context, user *domain.User, token string) error {
	return s.send(ctx, user, i18n.T(user.Locale, "RESET_SUBJECT"), TemplateResetPassword, map[string]interface{}{
		"ResetURL": s.links.ResetPassword(token),
	})
}

func (s *service) SendCommentNotification(ctx context.Context, recipient, author *domain.User, subject *domain.Subject, comment domain.Notifiable) error {
	kindKey := "COMMENT_PROPOSAL"
	if subject.Ref.Kind == domain.KindDebate {
		kindKey = "COMMENT_DEBATE"
	}
	locale := recipient.Locale

	vars := map[string]interface{}{
		"AuthorName":   displayName(author),
		"SubjectTitle": subject.Title,
		"SubjectURL":   s.links.LinkTo(comment.Target),
		"CommentURL":   s.links.LinkTo(domain.LinkTarget{Kind: comment.Target.Kind, ID: comment.Target.ID, Anchor: links.AnchorComments}),
		"CommentBody":  comment.Body,
	}
	if subject.Ref.Kind == domain.KindDebate {
		vars["AccountURL"] = s.links.Account()
	}

	return s.send(ctx, recipient, i18n.T(locale, "COMMENT_SUBJECT", i18n.T(locale, kindKey)), TemplateComment, vars)
}

func (s *service) SendReplyNotification(ctx context.Context, recipient, author *domain.User, reply domain.Notifiable) error {
	return s.send(ctx, recipient, i18n.T(recipient.Locale, "REPLY_SUBJECT"), TemplateReply, map[string]interface{}{
		"AuthorName":  displayName(author),
		"CommentURL":  s.links.LinkTo(reply.Target),
		"CommentBody": reply.Body,
		"AccountURL":  s.links.Account(),
	})
}

func (s *service) SendDirectMessageReceived(ctx context.Context, receiver, sender *domain.User, msg domain.Notifiable) error {
	return s.send(ctx, receiver, i18n.T(receiver.Locale, "DM_RECEIVED_SUBJECT"), TemplateDirectMessage, map[string]interface{}{
		"SenderName": displayName(sender),
		"SenderURL":  s.links.LinkTo(msg.Target),
		"Title":      msg.Title,
		"Body":       msg.Body,
	})
}

// SendDirectMessageSent confirms delivery to the sender. It deliberately
// carries no link to the receiver.
func (s *service) SendDirectMessageSent(ctx context.Context, sender, receiver *domain.User, msg domain.Notifiable) error {
	return s.send(ctx, sender, i18n.T(sender.Locale, "DM_SENT_SUBJECT"), TemplateDirectMessageSent, map[string]interface{}{
		"ReceiverName": displayName(receiver),
		"Title":        msg.Title,
		"Body":         msg.Body,
	})
}

type digestItemView struct {
	Title           string
	Body            string
	NotificationURL string
}

type digestGroupView struct {
	Title       string
	AuthorName  string
	CommentsURL string
	ShareURL    string
	Items       []digestItemView
}

func (s *service) SendProposalDigest(ctx context.Context, recipient *domain.User, groups []domain.DigestGroup) error {
	views := make([]digestGroupView, 0, len(groups))
	for _, g := range groups {
		view := digestGroupView{
			Title:       g.Subject.Title,
			AuthorName:  g.AuthorName,
			CommentsURL: s.links.LinkTo(g.Subject.Ref.TargetAt(links.AnchorComments)),
			ShareURL:    s.links.LinkTo(g.Subject.Ref.TargetAt(links.AnchorSocialShare)),
		}
		for _, item := range g.Items {
			view.Items = append(view.Items, digestItemView{
				Title:           item.Notifiable.Title,
				Body:            item.Notifiable.Body,
				NotificationURL: s.links.LinkTo(domain.LinkTarget{Kind: domain.KindNotification, ID: item.NotificationID}),
			})
		}
		views = append(views, view)
	}

	return s.send(ctx, recipient, i18n.T(recipient.Locale, "DIGEST_SUBJECT"), TemplateProposalDigest, map[string]interface{}{
		"Groups":     views,
		"AccountURL": s.links.Account(),
	})
}

func (s *service) SendUnfeasibleSpendingProposal(ctx context.Context, author *domain.User, proposal *domain.SpendingProposal) error {
	code := proposal.Code()
	return s.send(ctx, author, i18n.T(author.Locale, "UNFEASIBLE_SUBJECT", code), TemplateUnfeasibleProposal, map[string]interface{}{
		"Title":       proposal.Title,
		"Code":        code,
		"Explanation": proposal.FeasibleExplanation,
	})
}
