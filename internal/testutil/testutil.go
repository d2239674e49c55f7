// Package testutil builds in-memory databases and fixtures for tests.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"consul-mailer/internal/config"
	"consul-mailer/internal/domain"
	"consul-mailer/internal/repository"
)

// NewTestDB opens an in-memory sqlite database with the schema applied.
// It is closed when the test completes.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := config.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrating test db: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})

	return db
}

func NewRepositories(t *testing.T) *repository.Repositories {
	t.Helper()
	return repository.NewRepositories(NewTestDB(t))
}

// UserOption tweaks a fixture user before it is stored.
type UserOption func(*domain.User)

func WithPreferences(prefs domain.Preferences) UserOption {
	return func(u *domain.User) {
		u.EmailOnComment = prefs.NotifyOnComment
		u.EmailOnCommentReply = prefs.NotifyOnCommentReply
		u.EmailDigest = prefs.ReceiveDigest
	}
}

func WithRole(role domain.UserRole) UserOption {
	return func(u *domain.User) {
		u.Role = string(role)
	}
}

func WithLocale(locale string) UserOption {
	return func(u *domain.User) {
		u.Locale = locale
	}
}

// CreateUser stores a confirmed user named username with every email
// preference enabled unless overridden.
func CreateUser(t *testing.T, repos *repository.Repositories, username string, opts ...UserOption) *domain.User {
	t.Helper()

	u := &domain.User{
		ID:                  uuid.New(),
		Email:               username + "@example.com",
		PasswordHash:        "x",
		Username:            username,
		Locale:              "en",
		EmailOnComment:      true,
		EmailOnCommentReply: true,
		EmailDigest:         true,
	}
	for _, opt := range opts {
		opt(u)
	}

	if err := repos.User.Create(context.Background(), u); err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return u
}

func CreateSubject(t *testing.T, repos *repository.Repositories, kind domain.EntityKind, author *domain.User, title string) *domain.Subject {
	t.Helper()

	s := &domain.Subject{
		Ref:         domain.SubjectRef{Kind: kind, ID: uuid.New()},
		Title:       title,
		Description: title + " description",
	}
	if author != nil {
		s.AuthorID = &author.ID
	}

	if err := repos.Subject.Create(context.Background(), s); err != nil {
		t.Fatalf("creating %s %q: %v", kind, title, err)
	}
	return s
}

func CreateComment(t *testing.T, repos *repository.Repositories, subject domain.SubjectRef, author *domain.User, parent *domain.Comment, body string) *domain.Comment {
	t.Helper()

	c := &domain.Comment{
		ID:       uuid.New(),
		Subject:  subject,
		AuthorID: author.ID,
		Body:     body,
	}
	if parent != nil {
		c.ParentID = &parent.ID
	}

	if err := repos.Comment.Create(context.Background(), c); err != nil {
		t.Fatalf("creating comment: %v", err)
	}
	return c
}

func Support(t *testing.T, repos *repository.Repositories, voter *domain.User, subject domain.SubjectRef) {
	t.Helper()

	err := repos.Vote.Create(context.Background(), &domain.Vote{
		ID:      uuid.New(),
		VoterID: voter.ID,
		Subject: subject,
	})
	if err != nil {
		t.Fatalf("creating vote: %v", err)
	}
}
