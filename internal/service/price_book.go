package service

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/guttosm/nutriplan-service/internal/domain/catalog"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/logger"
	"github.com/guttosm/nutriplan-service/internal/repository"
)

var (
	// ErrUnknownFood is returned when a price names a food outside the catalogue.
	ErrUnknownFood = errors.New("unknown food id")
	// ErrInvalidPrice is returned for negative or non-finite prices.
	ErrInvalidPrice = errors.New("price must be a finite number >= 0")
	// ErrPriceBookConflict is returned when concurrent updates keep colliding.
	ErrPriceBookConflict = repository.ErrPriceBookConflict
)

// PriceBookService manages the per-user food price overrides.
type PriceBookService interface {
	// Active returns the prices of the user's active version, empty when none exists.
	Active(ctx context.Context, session model.Session) (map[string]float64, error)
	// Upsert merges prices over the active version and stores the result as the next version.
	Upsert(ctx context.Context, session model.Session, prices map[string]float64) (*model.PriceBook, error)
	// History lists versions, newest first.
	History(ctx context.Context, session model.Session, limit int) ([]model.PriceBook, error)
	// Effective layers request overrides over the user's active prices.
	// Anonymous sessions and lookup failures yield the overrides alone.
	Effective(ctx context.Context, session model.Session, overrides map[string]float64) map[string]float64
}

// PriceBookServiceImpl implements PriceBookService.
type PriceBookServiceImpl struct {
	repo repository.PriceBooksRepositoryInterface
}

// NewPriceBookService creates a price book service.
func NewPriceBookService(repo repository.PriceBooksRepositoryInterface) PriceBookService {
	return &PriceBookServiceImpl{repo: repo}
}

func (s *PriceBookServiceImpl) check(session model.Session) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	if session.Anonymous() {
		return ErrUnauthenticated
	}
	return nil
}

// Active returns the user's active prices.
func (s *PriceBookServiceImpl) Active(ctx context.Context, session model.Session) (map[string]float64, error) {
	if err := s.check(session); err != nil {
		return nil, err
	}
	book, err := s.repo.GetActive(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("active price book: %w", err)
	}
	return book.Merge(nil), nil
}

// Upsert validates prices, merges them over the active version and stores a new version.
func (s *PriceBookServiceImpl) Upsert(ctx context.Context, session model.Session, prices map[string]float64) (*model.PriceBook, error) {
	if err := s.check(session); err != nil {
		return nil, err
	}
	if err := CheckPrices(prices); err != nil {
		return nil, err
	}

	active, err := s.repo.GetActive(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("active price book: %w", err)
	}

	book, err := s.repo.Create(ctx, session.UserID, active.Merge(prices), session.Email)
	if err != nil {
		return nil, fmt.Errorf("store price book: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("user_id", session.UserID.Hex()).
		Int("version", book.Version).
		Int("prices", len(book.Prices)).
		Msg("price book updated")
	return book, nil
}

// History lists the user's price book versions.
func (s *PriceBookServiceImpl) History(ctx context.Context, session model.Session, limit int) ([]model.PriceBook, error) {
	if err := s.check(session); err != nil {
		return nil, err
	}
	books, err := s.repo.List(ctx, session.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("price book history: %w", err)
	}
	return books, nil
}

// Effective returns the active prices overlaid with overrides.
func (s *PriceBookServiceImpl) Effective(ctx context.Context, session model.Session, overrides map[string]float64) map[string]float64 {
	if s.repo == nil || session.Anonymous() {
		return maps.Clone(overrides)
	}
	book, err := s.repo.GetActive(ctx, session.UserID)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("price book unavailable, using request prices")
		return maps.Clone(overrides)
	}
	return book.Merge(overrides)
}

// CheckPrices rejects unknown food ids and invalid prices.
func CheckPrices(prices map[string]float64) error {
	for id, p := range prices {
		if !catalog.Known(id) {
			return fmt.Errorf("%w: %s", ErrUnknownFood, id)
		}
		if !validPrice(p) {
			return fmt.Errorf("%w: %s", ErrInvalidPrice, id)
		}
	}
	return nil
}
