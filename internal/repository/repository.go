package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User             UserRepository
	Subject          SubjectRepository
	Comment          CommentRepository
	Announcement     AnnouncementRepository
	DirectMessage    DirectMessageRepository
	Vote             VoteRepository
	SpendingProposal SpendingProposalRepository
	Notification     NotificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:             NewUserRepository(db),
		Subject:          NewSubjectRepository(db),
		Comment:          NewCommentRepository(db),
		Announcement:     NewAnnouncementRepository(db),
		DirectMessage:    NewDirectMessageRepository(db),
		Vote:             NewVoteRepository(db),
		SpendingProposal: NewSpendingProposalRepository(db),
		Notification:     NewNotificationRepository(db),
	}
}
