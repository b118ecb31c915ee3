package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/repository"
)

// ErrInvalidProfile is returned when profile values are out of range.
var ErrInvalidProfile = errors.New("invalid profile")

// ErrUserNotFound is returned when the session's user no longer exists.
var ErrUserNotFound = errors.New("user not found")

const maxCurrencyRunes = 8

// ProfileService reads and updates the planning defaults of a user.
type ProfileService interface {
	Get(ctx context.Context, session model.Session) (model.Profile, error)
	Update(ctx context.Context, session model.Session, profile model.Profile) (model.Profile, error)
}

// ProfileServiceImpl implements ProfileService.
type ProfileServiceImpl struct {
	users           repository.UserRepositoryInterface
	defaultCurrency string
}

// NewProfileService creates a profile service. Profiles without a currency
// report defaultCurrency.
func NewProfileService(users repository.UserRepositoryInterface, defaultCurrency string) ProfileService {
	if defaultCurrency == "" {
		defaultCurrency = DefaultCurrency
	}
	return &ProfileServiceImpl{users: users, defaultCurrency: defaultCurrency}
}

// Get returns the user's profile.
func (s *ProfileServiceImpl) Get(ctx context.Context, session model.Session) (model.Profile, error) {
	if s.users == nil {
		return model.Profile{}, ErrRepositoryNotConfigured
	}
	if session.Anonymous() {
		return model.Profile{}, ErrUnauthenticated
	}
	user, err := s.users.FindByIDMinimal(ctx, session.UserID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return model.Profile{}, ErrUserNotFound
	}
	return s.withDefaults(user.Profile), nil
}

// Update validates and stores profile.
func (s *ProfileServiceImpl) Update(ctx context.Context, session model.Session, profile model.Profile) (model.Profile, error) {
	if s.users == nil {
		return model.Profile{}, ErrRepositoryNotConfigured
	}
	if session.Anonymous() {
		return model.Profile{}, ErrUnauthenticated
	}
	profile.FullName = strings.TrimSpace(profile.FullName)
	if err := ValidateProfile(profile); err != nil {
		return model.Profile{}, err
	}

	user, err := s.users.UpdateProfile(ctx, session.UserID, profile)
	if err != nil {
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	if user == nil {
		return model.Profile{}, ErrUserNotFound
	}
	return s.withDefaults(user.Profile), nil
}

func (s *ProfileServiceImpl) withDefaults(p model.Profile) model.Profile {
	if p.Currency == "" {
		p.Currency = s.defaultCurrency
	}
	return p
}

// ValidateProfile checks family size, budget and currency bounds.
func ValidateProfile(p model.Profile) error {
	switch {
	case p.FamilySize < 0:
		return fmt.Errorf("%w: family size must be >= 0", ErrInvalidProfile)
	case p.DefaultBudget < 0 || math.IsNaN(p.DefaultBudget) || math.IsInf(p.DefaultBudget, 0):
		return fmt.Errorf("%w: default budget must be a finite number >= 0", ErrInvalidProfile)
	case utf8.RuneCountInString(p.Currency) > maxCurrencyRunes:
		return fmt.Errorf("%w: currency must be at most %d characters", ErrInvalidProfile, maxCurrencyRunes)
	}
	return nil
}
