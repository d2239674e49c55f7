package repository

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// schema is written for postgres; sqliteTypes rewrites the column types for
// the sqlite driver.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    username TEXT NOT NULL,
    locale TEXT NOT NULL DEFAULT 'en',
    role TEXT NOT NULL DEFAULT 'member',
    email_on_comment BOOLEAN NOT NULL DEFAULT FALSE,
    email_on_comment_reply BOOLEAN NOT NULL DEFAULT FALSE,
    email_digest BOOLEAN NOT NULL DEFAULT TRUE,
    confirmation_token TEXT,
    confirmed_at TIMESTAMPTZ,
    reset_password_token TEXT,
    reset_password_sent_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS proposals (
    id UUID PRIMARY KEY,
    author_id UUID REFERENCES users(id) ON DELETE SET NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS debates (
    id UUID PRIMARY KEY,
    author_id UUID REFERENCES users(id) ON DELETE SET NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS comments (
    id UUID PRIMARY KEY,
    subject_type TEXT NOT NULL,
    subject_id UUID NOT NULL,
    parent_id UUID REFERENCES comments(id),
    author_id UUID NOT NULL REFERENCES users(id),
    body TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS announcements (
    id UUID PRIMARY KEY,
    subject_type TEXT NOT NULL,
    subject_id UUID NOT NULL,
    author_id UUID NOT NULL REFERENCES users(id),
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS direct_messages (
    id UUID PRIMARY KEY,
    sender_id UUID NOT NULL REFERENCES users(id),
    receiver_id UUID NOT NULL REFERENCES users(id),
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS votes (
    id UUID PRIMARY KEY,
    voter_id UUID NOT NULL REFERENCES users(id),
    subject_type TEXT NOT NULL,
    subject_id UUID NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    UNIQUE (voter_id, subject_type, subject_id)
);

CREATE TABLE IF NOT EXISTS spending_proposals (
    id UUID PRIMARY KEY,
    author_id UUID NOT NULL REFERENCES users(id),
    administrator_id UUID REFERENCES users(id),
    title TEXT NOT NULL,
    feasible BOOLEAN,
    feasible_explanation TEXT NOT NULL DEFAULT '',
    valuation_finished BOOLEAN NOT NULL DEFAULT FALSE,
    unfeasible_email_sent_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id),
    notifiable_type TEXT NOT NULL,
    notifiable_id UUID NOT NULL,
    subject_type TEXT NOT NULL DEFAULT '',
    subject_id UUID,
    created_at TIMESTAMPTZ NOT NULL,
    read_at TIMESTAMPTZ,
    emailed_at TIMESTAMPTZ,
    expired_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_id
    ON notifications(user_id);

CREATE INDEX IF NOT EXISTS idx_notifications_pending
    ON notifications(user_id, created_at) WHERE emailed_at IS NULL AND expired_at IS NULL;

CREATE INDEX IF NOT EXISTS idx_votes_subject
    ON votes(subject_type, subject_id);
`

var sqliteTypes = strings.NewReplacer(
	"UUID", "TEXT",
	"TIMESTAMPTZ", "DATETIME",
)

// Migrate creates every table the service needs. It is idempotent.
func Migrate(db *sqlx.DB) error {
	ddl := schema
	if isSQLite(db) {
		ddl = sqliteTypes.Replace(schema)
	}

	for _, stmt := range strings.Split(ddl, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func isSQLite(db *sqlx.DB) bool {
	return strings.HasPrefix(db.DriverName(), "sqlite")
}
