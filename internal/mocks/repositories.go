package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"consul-mailer/internal/domain"
)

type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

type SubjectRepository struct {
	mock.Mock
}

func (m *SubjectRepository) Create(ctx context.Context, subject *domain.Subject) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}

func (m *SubjectRepository) Get(ctx context.Context, ref domain.SubjectRef) (*domain.Subject, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subject), args.Error(1)
}

type AnnouncementRepository struct {
	mock.Mock
}

func (m *AnnouncementRepository) Create(ctx context.Context, announcement *domain.Announcement) error {
	args := m.Called(ctx, announcement)
	return args.Error(0)
}

func (m *AnnouncementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Announcement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Announcement), args.Error(1)
}

type DirectMessageRepository struct {
	mock.Mock
}

func (m *DirectMessageRepository) Create(ctx context.Context, msg *domain.DirectMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *DirectMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DirectMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DirectMessage), args.Error(1)
}

type VoteRepository struct {
	mock.Mock
}

func (m *VoteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *VoteRepository) Exists(ctx context.Context, voterID uuid.UUID, subject domain.SubjectRef) (bool, error) {
	args := m.Called(ctx, voterID, subject)
	return args.Bool(0), args.Error(1)
}

func (m *VoteRepository) ListVoterIDs(ctx context.Context, subject domain.SubjectRef) ([]uuid.UUID, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type SpendingProposalRepository struct {
	mock.Mock
}

func (m *SpendingProposalRepository) Create(ctx context.Context, sp *domain.SpendingProposal) error {
	args := m.Called(ctx, sp)
	return args.Error(0)
}

func (m *SpendingProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SpendingProposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpendingProposal), args.Error(1)
}

func (m *SpendingProposalRepository) UpdateValuation(ctx context.Context, sp *domain.SpendingProposal) error {
	args := m.Called(ctx, sp)
	return args.Error(0)
}

func (m *SpendingProposalRepository) MarkUnfeasibleEmailSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}
