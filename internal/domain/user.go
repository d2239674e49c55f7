package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	Email               string     `json:"email" db:"email"`
	PasswordHash        string     `json:"-" db:"password_hash"`
	Username            string     `json:"username" db:"username"`
	Locale              string     `json:"locale" db:"locale"`
	Role                string     `json:"role" db:"role"`
	EmailOnComment      bool       `json:"email_on_comment" db:"email_on_comment"`
	EmailOnCommentReply bool       `json:"email_on_comment_reply" db:"email_on_comment_reply"`
	EmailDigest         bool       `json:"email_digest" db:"email_digest"`
	ConfirmationToken   *string    `json:"-" db:"confirmation_token"`
	ConfirmedAt         *time.Time `json:"confirmed_at,omitempty" db:"confirmed_at"`
	ResetPasswordToken  *string    `json:"-" db:"reset_password_token"`
	ResetPasswordSentAt *time.Time `json:"-" db:"reset_password_sent_at"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}

// Preferences returns a snapshot of the user's notification flags.
func (u *User) Preferences() Preferences {
	return Preferences{
		NotifyOnComment:      u.EmailOnComment,
		NotifyOnCommentReply: u.EmailOnCommentReply,
		ReceiveDigest:        u.EmailDigest,
	}
}

func (u *User) IsConfirmed() bool {
	return u.ConfirmedAt != nil
}

type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username" validate:"required,min=2"`
	Locale   string `json:"locale"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UserRole string

const (
	RoleMember        UserRole = "member"
	RoleValuator      UserRole = "valuator"
	RoleAdministrator UserRole = "administrator"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleMember, RoleValuator, RoleAdministrator:
		return true
	default:
		return false
	}
}

func (u *User) HasRole(requiredRole string) bool {
	switch requiredRole {
	case string(RoleAdministrator):
		return u.Role == string(RoleAdministrator)
	case string(RoleValuator):
		return u.Role == string(RoleValuator) || u.Role == string(RoleAdministrator)
	case string(RoleMember):
		return u.Role == string(RoleMember) || u.Role == string(RoleValuator) || u.Role == string(RoleAdministrator)
	default:
		return false
	}
}
