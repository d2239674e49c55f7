package email_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/pkg/mailcapture"
	"consul-mailer/internal/service/email"
	"consul-mailer/internal/service/links"
)

const baseURL = "http://localhost:3000"

func newService(t *testing.T) (email.Service, *mailcapture.Sink) {
	t.Helper()
	renderer, err := email.NewRenderer()
	require.NoError(t, err)
	sink := mailcapture.New(renderer)
	return email.NewService(sink, links.NewBuilder(baseURL)), sink
}

func user(name string) *domain.User {
	return &domain.User{ID: uuid.New(), Email: name + "@example.com", Username: name, Locale: "en"}
}

func TestService_SendCommentNotification(t *testing.T) {
	ctx := context.Background()
	recipient, author := user("bea"), user("ana")

	t.Run("proposal", func(t *testing.T) {
		svc, sink := newService(t)
		subject := &domain.Subject{Ref: domain.SubjectRef{Kind: domain.KindProposal, ID: uuid.New()}, Title: "More bike lanes"}
		comment := &domain.Comment{ID: uuid.New(), Subject: subject.Ref, AuthorID: author.ID, Body: "Great idea"}

		require.NoError(t, svc.SendCommentNotification(ctx, recipient, author, subject, comment.Notifiable()))

		last, err := sink.LastEmail()
		require.NoError(t, err)
		assert.Equal(t, "bea@example.com", last.To)
		assert.Equal(t, "Someone has commented on your citizen proposal", last.Subject)
		assert.Contains(t, last.Body, baseURL+"/proposals/"+subject.Ref.ID.String())
		assert.NotContains(t, last.Body, baseURL+"/account")
	})

	t.Run("debate carries the account link", func(t *testing.T) {
		svc, sink := newService(t)
		subject := &domain.Subject{Ref: domain.SubjectRef{Kind: domain.KindDebate, ID: uuid.New()}, Title: "Night buses"}
		comment := &domain.Comment{ID: uuid.New(), Subject: subject.Ref, AuthorID: author.ID, Body: "Agreed"}

		require.NoError(t, svc.SendCommentNotification(ctx, recipient, author, subject, comment.Notifiable()))

		last, err := sink.LastEmail()
		require.NoError(t, err)
		assert.Equal(t, "Someone has commented on your debate", last.Subject)
		assert.Contains(t, last.Body, baseURL+"/debates/"+subject.Ref.ID.String())
		assert.Contains(t, last.Body, baseURL+"/account")
		assert.Contains(t, last.Body, "To stop receiving these emails, change your settings in")
	})
}

func TestService_SendReplyNotification(t *testing.T) {
	svc, sink := newService(t)
	ctx := context.Background()
	recipient, author := user("bea"), user("ana")
	subjectRef := domain.SubjectRef{Kind: domain.KindProposal, ID: uuid.New()}
	parentID := uuid.New()
	reply := &domain.Comment{ID: uuid.New(), Subject: subjectRef, ParentID: &parentID, AuthorID: author.ID, Body: "Thanks"}

	require.NoError(t, svc.SendReplyNotification(ctx, recipient, author, reply.Notifiable()))

	last, err := sink.LastEmail()
	require.NoError(t, err)
	assert.Equal(t, "Someone has responded to your comment", last.Subject)
	assert.Contains(t, last.Body, baseURL+"/comments/"+reply.ID.String())
	assert.NotContains(t, last.Body, "/proposals/"+subjectRef.ID.String())
	assert.Contains(t, last.Body, baseURL+"/account")
}

func TestService_DirectMessages(t *testing.T) {
	svc, sink := newService(t)
	ctx := context.Background()
	sender, receiver := user("ana"), user("bea")
	msg := &domain.DirectMessage{ID: uuid.New(), SenderID: sender.ID, ReceiverID: receiver.ID, Title: "Hi there", Body: "See you at the assembly"}

	require.NoError(t, svc.SendDirectMessageReceived(ctx, receiver, sender, msg.Notifiable()))
	require.NoError(t, svc.SendDirectMessageSent(ctx, sender, receiver, msg.Notifiable()))

	received := sink.UnreadFor(receiver.Email)
	require.Len(t, received, 1)
	assert.Equal(t, "You have received a new private message", received[0].Subject)
	assert.Contains(t, received[0].Body, "Hi there")
	assert.Contains(t, received[0].Body, "See you at the assembly")
	assert.Contains(t, received[0].Body, "ana")
	assert.Contains(t, received[0].Body, baseURL+"/users/"+sender.ID.String())

	sent := sink.UnreadFor(sender.Email)
	require.Len(t, sent, 1)
	assert.Equal(t, "You have send a new private message", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Hi there")
	assert.Contains(t, sent[0].Body, "bea")
	assert.NotContains(t, sent[0].Body, baseURL+"/users/"+receiver.ID.String())
}

func TestService_SendProposalDigest(t *testing.T) {
	svc, sink := newService(t)
	ctx := context.Background()
	recipient := user("bea")

	groups := []domain.DigestGroup{
		{
			Subject:    domain.Subject{Ref: domain.SubjectRef{Kind: domain.KindProposal, ID: uuid.New()}, Title: "Proposal one"},
			AuthorName: "ana",
			Items: []domain.DigestItem{
				{NotificationID: uuid.New(), Notifiable: domain.Notifiable{Title: "Update one", Body: "First body"}},
				{NotificationID: uuid.New(), Notifiable: domain.Notifiable{Title: "Update two", Body: "Second body"}},
			},
		},
		{
			Subject:    domain.Subject{Ref: domain.SubjectRef{Kind: domain.KindProposal, ID: uuid.New()}, Title: "Proposal two"},
			AuthorName: "carl",
			Items: []domain.DigestItem{
				{NotificationID: uuid.New(), Notifiable: domain.Notifiable{Title: "Update three", Body: "Third body"}},
			},
		},
	}

	require.NoError(t, svc.SendProposalDigest(ctx, recipient, groups))

	last, err := sink.LastEmail()
	require.NoError(t, err)
	assert.Equal(t, "Proposal notifications in Consul", last.Subject)
	assert.Equal(t, 1, strings.Count(last.Body, baseURL+"/account"))
	for _, g := range groups {
		assert.Contains(t, last.Body, g.Subject.Title)
		assert.Contains(t, last.Body, "by "+g.AuthorName)
		assert.Contains(t, last.Body, baseURL+"/proposals/"+g.Subject.Ref.ID.String()+"#comments")
		assert.Contains(t, last.Body, baseURL+"/proposals/"+g.Subject.Ref.ID.String()+"#social-share")
		for _, item := range g.Items {
			assert.Contains(t, last.Body, item.Notifiable.Title)
			assert.Contains(t, last.Body, item.Notifiable.Body)
			assert.Contains(t, last.Body, baseURL+"/notifications/"+item.NotificationID.String())
		}
	}
}

func TestService_SendUnfeasibleSpendingProposal(t *testing.T) {
	svc, sink := newService(t)
	author := user("ana")
	feasible := false
	proposal := &domain.SpendingProposal{
		ID:                  uuid.New(),
		AuthorID:            author.ID,
		Title:               "Solar panels for schools",
		Feasible:            &feasible,
		FeasibleExplanation: "This is not legal",
		ValuationFinished:   true,
		CreatedAt:           time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, svc.SendUnfeasibleSpendingProposal(context.Background(), author, proposal))

	last, err := sink.LastEmail()
	require.NoError(t, err)
	assert.Equal(t, "Your investment project '"+proposal.Code()+"' has been marked as unfeasible", last.Subject)
	assert.Contains(t, last.Body, "Solar panels for schools")
	assert.Contains(t, last.Body, proposal.Code())
	assert.Contains(t, last.Body, "This is not legal")
}

func TestService_LocalisedSubject(t *testing.T) {
	svc, sink := newService(t)
	u := user("lucia")
	u.Locale = "es-ES"

	require.NoError(t, svc.SendConfirmationInstructions(context.Background(), u, "tok"))

	last, err := sink.LastEmail()
	require.NoError(t, err)
	assert.Equal(t, "Instrucciones de confirmación", last.Subject)
	assert.Equal(t, "es", last.Variables["Locale"])
}
