package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"consul-mailer/internal/domain"
)

type PreferenceStore struct {
	mock.Mock
}

func (m *PreferenceStore) GetPreferences(ctx context.Context, userID uuid.UUID) (domain.Preferences, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Preferences), args.Error(1)
}

func (m *PreferenceStore) UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferencesInput) (domain.Preferences, error) {
	args := m.Called(ctx, userID, input)
	return args.Get(0).(domain.Preferences), args.Error(1)
}

func (m *PreferenceStore) Supports(ctx context.Context, userID uuid.UUID, subject domain.SubjectRef) (bool, error) {
	args := m.Called(ctx, userID, subject)
	return args.Bool(0), args.Error(1)
}

func (m *PreferenceStore) InvalidateSupport(ctx context.Context, userID uuid.UUID, subject domain.SubjectRef) {
	m.Called(ctx, userID, subject)
}
