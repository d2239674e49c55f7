package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/pkg/mailcapture"
	"consul-mailer/internal/repository"
	"consul-mailer/internal/service/email"
	"consul-mailer/internal/service/links"
	"consul-mailer/internal/service/notification"
	"consul-mailer/internal/service/preference"
	"consul-mailer/internal/testutil"
)

const baseURL = "http://localhost:3000"

type fixture struct {
	repos *repository.Repositories
	sink  *mailcapture.Sink
	svc   notification.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()

	repos := testutil.NewRepositories(t)
	renderer, err := email.NewRenderer()
	require.NoError(t, err)
	sink := mailcapture.New(renderer)

	emailSvc := email.NewService(sink, links.NewBuilder(baseURL))
	prefs := preference.NewStore(repos.User, repos.Vote, nil)
	svc := notification.NewService(repos.Notification, repos.User, repos.Subject, repos.Comment, repos.Vote, prefs, emailSvc)

	return &fixture{repos: repos, sink: sink, svc: svc}
}

func noComments() testutil.UserOption {
	return testutil.WithPreferences(domain.Preferences{NotifyOnCommentReply: true, ReceiveDigest: true})
}

func noReplies() testutil.UserOption {
	return testutil.WithPreferences(domain.Preferences{NotifyOnComment: true, ReceiveDigest: true})
}

func TestNotifyComment(t *testing.T) {
	ctx := context.Background()

	t.Run("emails the subject author once", func(t *testing.T) {
		f := setup(t)
		author := testutil.CreateUser(t, f.repos, "author")
		actor := testutil.CreateUser(t, f.repos, "actor")
		proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, author, "Bike lanes")
		comment := testutil.CreateComment(t, f.repos, proposal.Ref, actor, nil, "Great")

		require.NoError(t, f.svc.NotifyNewComment(ctx, comment))

		emails := f.sink.SentTo(author.Email)
		require.Len(t, emails, 1)
		assert.Equal(t, "Someone has commented on your citizen proposal", emails[0].Subject)
		assert.Contains(t, emails[0].Body, baseURL+"/proposals/"+proposal.Ref.ID.String())
		assert.Equal(t, 1, f.sink.Count())
	})

	t.Run("debate comment", func(t *testing.T) {
		f := setup(t)
		author := testutil.CreateUser(t, f.repos, "author")
		actor := testutil.CreateUser(t, f.repos, "actor")
		debate := testutil.CreateSubject(t, f.repos, domain.KindDebate, author, "Night buses")
		comment := testutil.CreateComment(t, f.repos, debate.Ref, actor, nil, "Agreed")

		require.NoError(t, f.svc.NotifyNewComment(ctx, comment))

		last, err := f.sink.LastEmail()
		require.NoError(t, err)
		assert.Equal(t, author.Email, last.To)
		assert.Equal(t, "Someone has commented on your debate", last.Subject)
		assert.Contains(t, last.Body, baseURL+"/debates/"+debate.Ref.ID.String())
		assert.Contains(t, last.Body, baseURL+"/account")
	})

	t.Run("commenting on your own subject sends nothing", func(t *testing.T) {
		f := setup(t)
		author := testutil.CreateUser(t, f.repos, "author")
		proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, author, "Bike lanes")
		comment := testutil.CreateComment(t, f.repos, proposal.Ref, author, nil, "Bump")

		require.NoError(t, f.svc.NotifyNewComment(ctx, comment))

		_, err := f.sink.LastEmail()
		assert.ErrorIs(t, err, mailcapture.ErrNoEmailSent)
	})

	t.Run("preference off sends nothing", func(t *testing.T) {
		f := setup(t)
		author := testutil.CreateUser(t, f.repos, "author", noComments())
		actor := testutil.CreateUser(t, f.repos, "actor")
		proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, author, "Bike lanes")
		comment := testutil.CreateComment(t, f.repos, proposal.Ref, actor, nil, "Great")

		require.NoError(t, f.svc.NotifyNewComment(ctx, comment))

		assert.Equal(t, 0, f.sink.Count())
	})

	t.Run("subject without author is skipped", func(t *testing.T) {
		f := setup(t)
		actor := testutil.CreateUser(t, f.repos, "actor")
		proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, nil, "Orphan")
		comment := testutil.CreateComment(t, f.repos, proposal.Ref, actor, nil, "Hello?")

		require.NoError(t, f.svc.NotifyNewComment(ctx, comment))

		assert.Equal(t, 0, f.sink.Count())
	})

	t.Run("transport failure is returned", func(t *testing.T) {
		f := setup(t)
		author := testutil.CreateUser(t, f.repos, "author")
		actor := testutil.CreateUser(t, f.repos, "actor")
		proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, author, "Bike lanes")
		comment := testutil.CreateComment(t, f.repos, proposal.Ref, actor, nil, "Great")
		boom := errors.New("transport down")
		f.sink.FailFor(author.Email, boom)

		err := f.svc.NotifyNewComment(ctx, comment)
		assert.ErrorIs(t, err, boom)
	})
}

func TestNotifyReply(t *testing.T) {
	ctx := context.Background()

	t.Run("emails the parent author with a link to the reply", func(t *testing.T) {
		f := setup(t)
		subjectAuthor := testutil.CreateUser(t, f.repos, "subject_author", noComments())
		commenter := testutil.CreateUser(t, f.repos, "commenter")
		replier := testutil.CreateUser(t, f.repos, "replier")
		proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, subjectAuthor, "Bike lanes")
		parent := testutil.CreateComment(t, f.repos, proposal.Ref, commenter, nil, "Great")
		reply := testutil.CreateComment(t, f.repos, proposal.Ref, replier, parent, "Indeed")

		require.NoError(t, f.svc.NotifyNewComment(ctx, reply))

		emails := f.sink.SentTo(commenter.Email)
		require.Len(t, emails, 1)
		assert.Equal(t, "Someone has responded to your comment", emails[0].Subject)
		assert.Contains(t, emails[0].Body, baseURL+"/comments/"+reply.ID.String())
		assert.NotContains(t, emails[0].Body, "/proposals/"+proposal.Ref.ID.String())
		assert.Contains(t, emails[0].Body, baseURL+"/account")
		assert.Empty(t, f.sink.SentTo(subjectAuthor.Email))
	})

	t.Run("subject author also hears about the new comment", func(t *testing.T) {
		f := setup(t)
		subjectAuthor := testutil.CreateUser(t, f.repos, "subject_author")
		commenter := testutil.CreateUser(t, f.repos, "commenter")
		replier := testutil.CreateUser(t, f.repos, "replier")
		proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, subjectAuthor, "Bike lanes")
		parent := testutil.CreateComment(t, f.repos, proposal.Ref, commenter, nil, "Great")
		reply := testutil.CreateComment(t, f.repos, proposal.Ref, replier, parent, "Indeed")

		require.NoError(t, f.svc.NotifyNewComment(ctx, reply))

		require.Len(t, f.sink.SentTo(commenter.Email), 1)
		toAuthor := f.sink.SentTo(subjectAuthor.Email)
		require.Len(t, toAuthor, 1)
		assert.Equal(t, "Someone has commented on your citizen proposal", toAuthor[0].Subject)
	})

	t.Run("parent author who is also subject author gets one email", func(t *testing.T) {
		f := setup(t)
		author := testutil.CreateUser(t, f.repos, "author")
		replier := testutil.CreateUser(t, f.repos, "replier")
		proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, author, "Bike lanes")
		parent := testutil.CreateComment(t, f.repos, proposal.Ref, author, nil, "My own note")
		reply := testutil.CreateComment(t, f.repos, proposal.Ref, replier, parent, "Nice")

		require.NoError(t, f.svc.NotifyNewComment(ctx, reply))

		emails := f.sink.SentTo(author.Email)
		require.Len(t, emails, 1)
		assert.Equal(t, "Someone has responded to your comment", emails[0].Subject)
	})

	t.Run("failed reply email does not block the subject author", func(t *testing.T) {
		f := setup(t)
		subjectAuthor := testutil.CreateUser(t, f.repos, "subject_author")
		commenter := testutil.CreateUser(t, f.repos, "commenter")
		replier := testutil.CreateUser(t, f.repos, "replier")
		proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, subjectAuthor, "Bike lanes")
		parent := testutil.CreateComment(t, f.repos, proposal.Ref, commenter, nil, "Great")
		reply := testutil.CreateComment(t, f.repos, proposal.Ref, replier, parent, "Indeed")

		boom := errors.New("mailbox down")
		f.sink.FailFor(commenter.Email, boom)

		err := f.svc.NotifyNewComment(ctx, reply)
		require.ErrorIs(t, err, boom)

		assert.Empty(t, f.sink.SentTo(commenter.Email))
		toAuthor := f.sink.SentTo(subjectAuthor.Email)
		require.Len(t, toAuthor, 1)
		assert.Equal(t, "Someone has commented on your citizen proposal", toAuthor[0].Subject)
	})

	t.Run("failed reply email to the subject author is not retried as a comment email", func(t *testing.T) {
		f := setup(t)
		author := testutil.CreateUser(t, f.repos, "author")
		replier := testutil.CreateUser(t, f.repos, "replier")
		proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, author, "Bike lanes")
		parent := testutil.CreateComment(t, f.repos, proposal.Ref, author, nil, "My own note")
		reply := testutil.CreateComment(t, f.repos, proposal.Ref, replier, parent, "Nice")

		boom := errors.New("mailbox down")
		f.sink.FailFor(author.Email, boom)

		require.ErrorIs(t, f.svc.NotifyNewComment(ctx, reply), boom)
		assert.Equal(t, 0, f.sink.Count())
	})

	t.Run("replying to yourself sends nothing to you", func(t *testing.T) {
		f := setup(t)
		subjectAuthor := testutil.CreateUser(t, f.repos, "subject_author", noComments())
		commenter := testutil.CreateUser(t, f.repos, "commenter")
		proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, subjectAuthor, "Bike lanes")
		parent := testutil.CreateComment(t, f.repos, proposal.Ref, commenter, nil, "Great")
		reply := testutil.CreateComment(t, f.repos, proposal.Ref, commenter, parent, "Adding more")

		require.NoError(t, f.svc.NotifyNewComment(ctx, reply))

		assert.Equal(t, 0, f.sink.Count())
	})

	t.Run("reply preference off", func(t *testing.T) {
		f := setup(t)
		subjectAuthor := testutil.CreateUser(t, f.repos, "subject_author", noComments())
		commenter := testutil.CreateUser(t, f.repos, "commenter", noReplies())
		replier := testutil.CreateUser(t, f.repos, "replier")
		proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, subjectAuthor, "Bike lanes")
		parent := testutil.CreateComment(t, f.repos, proposal.Ref, commenter, nil, "Great")
		reply := testutil.CreateComment(t, f.repos, proposal.Ref, replier, parent, "Indeed")

		require.NoError(t, f.svc.NotifyNewComment(ctx, reply))

		assert.Equal(t, 0, f.sink.Count())
	})
}

func TestNotifyDirectMessage(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	none := testutil.WithPreferences(domain.Preferences{})
	sender := testutil.CreateUser(t, f.repos, "sender", none)
	receiver := testutil.CreateUser(t, f.repos, "receiver", none)
	msg := &domain.DirectMessage{ID: uuid.New(), SenderID: sender.ID, ReceiverID: receiver.ID, Title: "Hi there", Body: "See you soon"}
	require.NoError(t, f.repos.DirectMessage.Create(ctx, msg))

	require.NoError(t, f.svc.NotifyDirectMessage(ctx, msg))

	require.Equal(t, 2, f.sink.Count())

	received := f.sink.SentTo(receiver.Email)
	require.Len(t, received, 1)
	assert.Equal(t, "You have received a new private message", received[0].Subject)
	assert.Contains(t, received[0].Body, "sender")
	assert.Contains(t, received[0].Body, baseURL+"/users/"+sender.ID.String())

	sent := f.sink.SentTo(sender.Email)
	require.Len(t, sent, 1)
	assert.Equal(t, "You have send a new private message", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "receiver")
}

func TestRecordAnnouncement(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	admin := testutil.CreateUser(t, f.repos, "admin", testutil.WithRole(domain.RoleAdministrator))
	supporter := testutil.CreateUser(t, f.repos, "supporter")
	bystander := testutil.CreateUser(t, f.repos, "bystander")
	proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, admin, "Bike lanes")
	testutil.Support(t, f.repos, supporter, proposal.Ref)
	testutil.Support(t, f.repos, admin, proposal.Ref)

	announcement := &domain.Announcement{ID: uuid.New(), Subject: proposal.Ref, AuthorID: admin.ID, Title: "Milestone", Body: "Funded"}
	require.NoError(t, f.repos.Announcement.Create(ctx, announcement))

	recorded, err := f.svc.RecordAnnouncement(ctx, announcement)
	require.NoError(t, err)
	assert.Equal(t, 1, recorded)

	pending, err := f.repos.Notification.ListPending(ctx, supporter.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, domain.NotifiableProposalAnnouncement, pending[0].NotifiableType)
	assert.Equal(t, announcement.ID, pending[0].NotifiableID)
	assert.Equal(t, proposal.Ref, pending[0].Subject)

	for _, u := range []*domain.User{admin, bystander} {
		pending, err := f.repos.Notification.ListPending(ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, pending)
	}

	assert.Equal(t, 0, f.sink.Count())
}

func TestInAppNotifications(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	owner := testutil.CreateUser(t, f.repos, "owner")
	stranger := testutil.CreateUser(t, f.repos, "stranger")
	proposal := testutil.CreateSubject(t, f.repos, domain.KindProposal, nil, "Bike lanes")

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		n := &domain.Notification{ID: uuid.New(), UserID: owner.ID, NotifiableType: domain.NotifiableProposalAnnouncement, NotifiableID: uuid.New(), Subject: proposal.Ref}
		require.NoError(t, f.repos.Notification.Create(ctx, n))
		ids = append(ids, n.ID)
	}

	count, err := f.svc.GetUnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	assert.ErrorIs(t, f.svc.MarkAsRead(ctx, stranger.ID, ids[0]), notification.ErrNotificationNotFound)
	require.NoError(t, f.svc.MarkAsRead(ctx, owner.ID, ids[0]))

	page, err := f.svc.List(ctx, owner.ID, true, domain.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalItems)
	assert.Len(t, page.Data, 2)

	require.NoError(t, f.svc.MarkAllAsRead(ctx, owner.ID))
	count, err = f.svc.GetUnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
