package service

import (
	"context"
	"fmt"
	"gamehub/internal/constants"
	"gamehub/internal/domain"
	"gamehub/internal/repository"
	"gamehub/internal/validator"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type FavoriteService struct {
	store     repository.FavoriteStore
	validator *validator.Validator
	logger    zerolog.Logger
	now       func() time.Time
}

type FavoriteInput struct {
	Title    string         `json:"title" validate:"required,max=300"`
	ImageURL string         `json:"imageUrl" validate:"omitempty,max=2048"`
	Data     map[string]any `json:"data"`
}

func NewFavoriteService(store repository.FavoriteStore, v *validator.Validator, logger zerolog.Logger) *FavoriteService {
	return &FavoriteService{store: store, validator: v, logger: logger, now: time.Now}
}

func (s *FavoriteService) List(ctx context.Context, userID string, kind domain.FavoriteKind) ([]domain.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	favs, err := s.store.List(ctx, userID, kind)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("kind", string(kind)).Msg("failed to list favorites")
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favs, nil
}

func (s *FavoriteService) IsFavorited(ctx context.Context, userID string, kind domain.FavoriteKind, itemID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := requireUser(userID); err != nil {
		return false, err
	}
	itemID, err := requireItem(itemID)
	if err != nil {
		return false, err
	}

	fav, err := s.store.Get(ctx, userID, kind, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return fav != nil, nil
}

// Add is idempotent: favoriting an item twice keeps the original addedAt.
func (s *FavoriteService) Add(ctx context.Context, userID string, kind domain.FavoriteKind, itemID string, in FavoriteInput) (*domain.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	itemID, err := requireItem(itemID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.store.Get(ctx, userID, kind, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to check favorite: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	fav := domain.Favorite{
		UserID:   userID,
		Kind:     kind,
		ItemID:   itemID,
		Title:    strings.TrimSpace(in.Title),
		ImageURL: in.ImageURL,
		Data:     in.Data,
		AddedAt:  s.now().UTC(),
	}
	if err := s.store.Put(ctx, fav); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("item_id", itemID).Msg("failed to add favorite")
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("kind", string(kind)).Str("item_id", itemID).Msg("favorite added")
	return &fav, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID string, kind domain.FavoriteKind, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := requireUser(userID); err != nil {
		return err
	}
	itemID, err := requireItem(itemID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, userID, kind, itemID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("item_id", itemID).Msg("failed to remove favorite")
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// Clear removes every favorite of kind for the user atomically.
func (s *FavoriteService) Clear(ctx context.Context, userID string, kind domain.FavoriteKind) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := requireUser(userID); err != nil {
		return 0, err
	}

	n, err := s.store.Clear(ctx, userID, kind)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("kind", string(kind)).Msg("failed to clear favorites")
		return 0, fmt.Errorf("failed to clear favorites: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("kind", string(kind)).Int("cleared", n).Msg("favorites cleared")
	return n, nil
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrUnauthorized
	}
	return nil
}

func requireItem(itemID string) (string, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return "", fmt.Errorf("empty item id: %w", domain.ErrInvalidInput)
	}
	return itemID, nil
}
