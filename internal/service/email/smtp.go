package email

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"time"

	"github.com/emersion/go-message/mail"
)

type smtpTransport struct {
	addr     string
	auth     smtp.Auth
	from     mail.Address
	renderer *Renderer
}

func NewSMTPTransport(host, port, username, password, fromName, fromEmail string, renderer *Renderer) Transport {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &smtpTransport{
		addr:     net.JoinHostPort(host, port),
		auth:     auth,
		from:     mail.Address{Name: fromName, Address: fromEmail},
		renderer: renderer,
	}
}

func (t *smtpTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := t.renderer.Render(msg)
	if err != nil {
		return err
	}

	raw, err := buildMIME(t.from, msg.To, msg.Subject, body, time.Now())
	if err != nil {
		return err
	}

	if err := smtp.SendMail(t.addr, t.auth, t.from.Address, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}

// buildMIME writes a single part text/html message.
func buildMIME(from mail.Address, to, subject, htmlBody string, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{&from})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(subject)
	h.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating mime writer: %w", err)
	}
	if _, err := io.WriteString(w, htmlBody); err != nil {
		return nil, fmt.Errorf("writing mime body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing mime writer: %w", err)
	}
	return buf.Bytes(), nil
}
