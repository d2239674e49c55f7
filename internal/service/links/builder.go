package links

import (
	"net/url"
	"strings"

	"consul-mailer/internal/domain"
)

const (
	AnchorComments    = "comments"
	AnchorSocialShare = "social-share"
)

// Builder turns canonical link targets into absolute URLs.
type Builder interface {
	LinkTo(target domain.LinkTarget) string
	Account() string
	Confirmation(token string) string
	ResetPassword(token string) string
}

type builder struct {
	baseURL string
}

func NewBuilder(baseURL string) Builder {
	return &builder{baseURL: strings.TrimRight(baseURL, "/")}
}

func (b *builder) LinkTo(target domain.LinkTarget) string {
	path := pathFor(target)
	if target.Anchor != "" {
		path += "#" + target.Anchor
	}
	return b.baseURL + path
}

func (b *builder) Account() string {
	return b.LinkTo(domain.LinkTarget{Kind: domain.KindAccount})
}

func (b *builder) Confirmation(token string) string {
	return b.baseURL + "/users/confirmation?confirmation_token=" + url.QueryEscape(token)
}

func (b *builder) ResetPassword(token string) string {
	return b.baseURL + "/users/password/edit?reset_password_token=" + url.QueryEscape(token)
}

func pathFor(target domain.LinkTarget) string {
	id := target.ID.String()
	switch target.Kind {
	case domain.KindProposal:
		return "/proposals/" + id
	case domain.KindDebate:
		return "/debates/" + id
	case domain.KindComment:
		return "/comments/" + id
	case domain.KindUser:
		return "/users/" + id
	case domain.KindNotification:
		return "/notifications/" + id
	case domain.KindSpendingProposal:
		return "/spending_proposals/" + id
	case domain.KindAccount:
		return "/account"
	default:
		return "/"
	}
}
