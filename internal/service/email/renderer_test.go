package email

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown_Sanitises(t *testing.T) {
	out := string(RenderMarkdown("**bold** <script>alert(1)</script>"))

	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	body, err := r.Render(Message{
		Subject:  "Instructions for resetting your password",
		Template: TemplateResetPassword,
		Variables: map[string]interface{}{
			"Name":     "ana",
			"ResetURL": "http://localhost:3000/users/password/edit?reset_password_token=abc",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, body, "<title>Instructions for resetting your password</title>")
	assert.Contains(t, body, "Hello ana,")
	assert.Contains(t, body, "reset_password_token=abc")
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = r.Render(Message{Template: "missing.html"})
	assert.Error(t, err)
}

func TestBuildMIME(t *testing.T) {
	raw, err := buildMIME(
		mail.Address{Name: "Consul", Address: "noreply@example.com"},
		"ana@example.com",
		"Proposal notifications in Consul",
		"<p>hello</p>",
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	)
	require.NoError(t, err)

	mr, err := mail.CreateReader(strings.NewReader(string(raw)))
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Proposal notifications in Consul", subject)

	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "ana@example.com", to[0].Address)

	part, err := mr.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<p>hello</p>")
}

type recordingTransport struct {
	err  error
	sent []Message
}

func (t *recordingTransport) Send(ctx context.Context, msg Message) error {
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, msg)
	return nil
}

type memoryArchive struct {
	err     error
	records []Record
}

func (a *memoryArchive) Store(ctx context.Context, rec Record) error {
	if a.err != nil {
		return a.err
	}
	a.records = append(a.records, rec)
	return nil
}

func TestArchivingTransport(t *testing.T) {
	ctx := context.Background()
	msg := Message{To: "ana@example.com", Subject: "s", Template: TemplateComment}

	t.Run("archives successful sends", func(t *testing.T) {
		next := &recordingTransport{}
		archive := &memoryArchive{}

		require.NoError(t, NewArchivingTransport(next, archive).Send(ctx, msg))
		require.Len(t, archive.records, 1)
		assert.Equal(t, msg, archive.records[0].Message)
		assert.False(t, archive.records[0].SentAt.IsZero())
	})

	t.Run("does not archive failed sends", func(t *testing.T) {
		next := &recordingTransport{err: errors.New("down")}
		archive := &memoryArchive{}

		assert.Error(t, NewArchivingTransport(next, archive).Send(ctx, msg))
		assert.Empty(t, archive.records)
	})

	t.Run("archive failure does not fail the send", func(t *testing.T) {
		next := &recordingTransport{}
		archive := &memoryArchive{err: errors.New("bucket missing")}

		assert.NoError(t, NewArchivingTransport(next, archive).Send(ctx, msg))
		assert.Len(t, next.sent, 1)
	})
}
