package repository

import (
	"context"
	"fmt"
	"gamehub/internal/config"
	"gamehub/internal/database"
	"gamehub/internal/domain"

	"github.com/rs/zerolog"
)

const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// FavoriteStore persists per-user favorites, one collection per kind. Get
// returns nil without error when the item is not a favorite.
type FavoriteStore interface {
	List(ctx context.Context, userID string, kind domain.FavoriteKind) ([]domain.Favorite, error)
	Get(ctx context.Context, userID string, kind domain.FavoriteKind, itemID string) (*domain.Favorite, error)
	Put(ctx context.Context, fav domain.Favorite) error
	Delete(ctx context.Context, userID string, kind domain.FavoriteKind, itemID string) error
	Clear(ctx context.Context, userID string, kind domain.FavoriteKind) (int, error)
	Close() error
}

func NewFavoriteStore(cfg *config.Config, logger zerolog.Logger) (FavoriteStore, error) {
	switch cfg.FavoritesBackend {
	case BackendFirestore:
		return NewFirestoreFavoriteStore(context.Background(), cfg.FirestoreProjectID, logger)
	case BackendSQLite, "":
		db, err := database.New(cfg, logger)
		if err != nil {
			return nil, err
		}
		return NewSQLiteFavoriteStore(db, logger), nil
	default:
		return nil, fmt.Errorf("unknown favorites backend %q", cfg.FavoritesBackend)
	}
}
