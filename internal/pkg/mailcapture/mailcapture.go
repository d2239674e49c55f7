// Package mailcapture is an in-memory email.Transport that keeps every
// delivered message so it can be inspected later.
package mailcapture

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"consul-mailer/internal/service/email"
)

// ErrNoEmailSent is returned when a message is expected but nothing was
// delivered since the last Reset.
var ErrNoEmailSent = errors.New("No email has been sent!")

type Email struct {
	email.Message
	Body   string
	SentAt time.Time
	read   bool
}

// Sink records messages in delivery order. Bodies are rendered with the
// optional renderer so assertions can look at the final text.
type Sink struct {
	mu       sync.Mutex
	renderer *email.Renderer
	emails   []*Email
	failures map[string]error
}

func New(renderer *email.Renderer) *Sink {
	return &Sink{
		renderer: renderer,
		failures: make(map[string]error),
	}
}

func (s *Sink) Send(ctx context.Context, msg email.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures[strings.ToLower(msg.To)]; err != nil {
		return err
	}

	var body string
	if s.renderer != nil {
		rendered, err := s.renderer.Render(msg)
		if err != nil {
			return err
		}
		body = rendered
	}

	s.emails = append(s.emails, &Email{
		Message: msg,
		Body:    body,
		SentAt:  time.Now().UTC(),
	})
	return nil
}

// FailFor makes every subsequent send to address return err, until Reset.
// A nil err clears the failure.
func (s *Sink) FailFor(address string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[strings.ToLower(address)] = err
}

// LastEmail returns the most recently delivered message.
func (s *Sink) LastEmail() (Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.emails) == 0 {
		return Email{}, ErrNoEmailSent
	}
	last := s.emails[len(s.emails)-1]
	last.read = true
	return *last, nil
}

// UnreadFor returns the messages to address not yet returned by LastEmail
// or UnreadFor, and marks them read.
func (s *Sink) UnreadFor(address string) []Email {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Email
	for _, e := range s.emails {
		if e.read || !strings.EqualFold(e.To, address) {
			continue
		}
		e.read = true
		out = append(out, *e)
	}
	return out
}

// SentTo returns every message delivered to address.
func (s *Sink) SentTo(address string) []Email {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Email
	for _, e := range s.emails {
		if strings.EqualFold(e.To, address) {
			out = append(out, *e)
		}
	}
	return out
}

func (s *Sink) All() []Email {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Email, 0, len(s.emails))
	for _, e := range s.emails {
		out = append(out, *e)
	}
	return out
}

func (s *Sink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.emails)
}

// Reset forgets every delivered message and configured failure.
func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = nil
	s.failures = make(map[string]error)
}
