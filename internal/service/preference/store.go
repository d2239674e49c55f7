package preference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"consul-mailer/internal/domain"
	"consul-mailer/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

const cacheTTL = 10 * time.Minute

// Store answers the two questions the notification engine asks about a
// user: which emails they want and which subjects they support.
type Store interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (domain.Preferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferencesInput) (domain.Preferences, error)
	Supports(ctx context.Context, userID uuid.UUID, subject domain.SubjectRef) (bool, error)
	InvalidateSupport(ctx context.Context, userID uuid.UUID, subject domain.SubjectRef)
}

type store struct {
	userRepo repository.UserRepository
	voteRepo repository.VoteRepository
	redis    *redis.Client
}

// NewStore returns a Store backed by the repositories. A nil redis client
// disables caching.
func NewStore(userRepo repository.UserRepository, voteRepo repository.VoteRepository, redis *redis.Client) Store {
	return &store{
		userRepo: userRepo,
		voteRepo: voteRepo,
		redis:    redis,
	}
}

func preferencesKey(userID uuid.UUID) string {
	return "prefs:" + userID.String()
}

func supportKey(userID uuid.UUID, subject domain.SubjectRef) string {
	return "supports:" + userID.String() + ":" + subject.String()
}

func (s *store) GetPreferences(ctx context.Context, userID uuid.UUID) (domain.Preferences, error) {
	cacheKey := preferencesKey(userID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var prefs domain.Preferences
			if err := json.Unmarshal([]byte(cached), &prefs); err == nil {
				return prefs, nil
			}
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return domain.Preferences{}, ErrUserNotFound
	}
	prefs := user.Preferences()

	if s.redis != nil {
		if data, err := json.Marshal(prefs); err == nil {
			_ = s.redis.Set(ctx, cacheKey, data, cacheTTL).Err()
		}
	}

	return prefs, nil
}

func (s *store) UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferencesInput) (domain.Preferences, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return domain.Preferences{}, ErrUserNotFound
	}

	prefs := input.Apply(user.Preferences())
	if err := s.userRepo.UpdatePreferences(ctx, userID, prefs); err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to update preferences: %w", err)
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, preferencesKey(userID)).Err(); err != nil {
			log.Printf("Failed to invalidate cached preferences for user %s: %v", userID, err)
		}
	}

	return prefs, nil
}

func (s *store) Supports(ctx context.Context, userID uuid.UUID, subject domain.SubjectRef) (bool, error) {
	cacheKey := supportKey(userID, subject)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			return cached == "1", nil
		}
	}

	supported, err := s.voteRepo.Exists(ctx, userID, subject)
	if err != nil {
		return false, fmt.Errorf("failed to check support: %w", err)
	}

	if s.redis != nil {
		value := "0"
		if supported {
			value = "1"
		}
		_ = s.redis.Set(ctx, cacheKey, value, cacheTTL).Err()
	}

	return supported, nil
}

func (s *store) InvalidateSupport(ctx context.Context, userID uuid.UUID, subject domain.SubjectRef) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, supportKey(userID, subject)).Err(); err != nil {
		log.Printf("Failed to invalidate cached support for user %s on %s: %v", userID, subject, err)
	}
}
