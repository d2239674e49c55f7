package service

import (
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"consul-mailer/internal/config"
	"consul-mailer/internal/repository"
	"consul-mailer/internal/service/announcement"
	"consul-mailer/internal/service/auth"
	"consul-mailer/internal/service/comment"
	"consul-mailer/internal/service/digest"
	"consul-mailer/internal/service/email"
	"consul-mailer/internal/service/links"
	"consul-mailer/internal/service/message"
	"consul-mailer/internal/service/notifiable"
	"consul-mailer/internal/service/notification"
	"consul-mailer/internal/service/preference"
	"consul-mailer/internal/service/support"
	"consul-mailer/internal/service/valuation"
)

type Services struct {
	Auth         auth.Service
	Preferences  preference.Store
	Comment      comment.Service
	Support      support.Service
	Announcement announcement.Service
	Message      message.Service
	Notification notification.Service
	Valuation    valuation.Service
	Digest       digest.Service
	Email        email.Service
}

// NewTransport picks the delivery backend named by MAIL_TRANSPORT and, when
// MinIO is available, archives every delivered message.
func NewTransport(cfg *config.Config, minioClient *minio.Client) (email.Transport, error) {
	renderer, err := email.NewRenderer()
	if err != nil {
		return nil, err
	}

	var transport email.Transport
	switch cfg.MailTransport {
	case "resend":
		transport = email.NewResendTransport(cfg.ResendAPIKey, cfg.FromName, cfg.FromEmail, renderer)
	case "smtp":
		transport = email.NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromName, cfg.FromEmail, renderer)
	default:
		return nil, fmt.Errorf("unsupported MAIL_TRANSPORT %q", cfg.MailTransport)
	}

	if minioClient != nil {
		transport = email.NewArchivingTransport(transport, email.NewMinIOArchive(minioClient, cfg.ArchiveBucket))
	}
	return transport, nil
}

func NewServices(repos *repository.Repositories, redis *redis.Client, transport email.Transport, cfg *config.Config) *Services {
	emailService := email.NewService(transport, links.NewBuilder(cfg.BaseURL))
	prefStore := preference.NewStore(repos.User, repos.Vote, redis)
	resolver := notifiable.NewResolver(repos.Comment, repos.Announcement, repos.DirectMessage)

	notificationService := notification.NewService(
		repos.Notification,
		repos.User,
		repos.Subject,
		repos.Comment,
		repos.Vote,
		prefStore,
		emailService,
	)

	digestService := digest.NewService(
		repos.User,
		repos.Notification,
		repos.Subject,
		resolver,
		prefStore,
		emailService,
		digest.Options{
			Concurrency: cfg.DigestConcurrency,
			Retention:   cfg.PendingRetention,
		},
	)

	return &Services{
		Auth:         auth.NewService(repos.User, emailService, cfg),
		Preferences:  prefStore,
		Comment:      comment.NewService(repos.Comment, repos.Subject, notificationService),
		Support:      support.NewService(repos.Vote, repos.Subject, prefStore),
		Announcement: announcement.NewService(repos.Announcement, repos.Subject, notificationService),
		Message:      message.NewService(repos.DirectMessage, repos.User, notificationService),
		Notification: notificationService,
		Valuation:    valuation.NewService(repos.SpendingProposal, repos.User, emailService),
		Digest:       digestService,
		Email:        emailService,
	}
}
