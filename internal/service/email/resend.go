package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
)

type resendTransport struct {
	client   *resend.Client
	from     string
	renderer *Renderer
}

func NewResendTransport(apiKey, fromName, fromEmail string, renderer *Renderer) Transport {
	return &resendTransport{
		client:   resend.NewClient(apiKey),
		from:     fmt.Sprintf("%s <%s>", fromName, fromEmail),
		renderer: renderer,
	}
}

func (t *resendTransport) Send(ctx context.Context, msg Message) error {
	body, err := t.renderer.Render(msg)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    t.from,
		To:      []string{msg.To},
		Html:    body,
		Subject: msg.Subject,
	}

	if _, err := t.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email via resend: %w", err)
	}
	return nil
}
