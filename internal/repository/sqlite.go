package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"gamehub/internal/domain"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type SQLiteFavoriteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSQLiteFavoriteStore(db *sql.DB, logger zerolog.Logger) *SQLiteFavoriteStore {
	return &SQLiteFavoriteStore{db: db, logger: logger}
}

func (r *SQLiteFavoriteStore) List(ctx context.Context, userID string, kind domain.FavoriteKind) ([]domain.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, title, image_url, data, added_at
		FROM favorites
		WHERE user_id = ? AND collection = ?
		ORDER BY added_at DESC, id DESC`,
		userID, kind.Collection(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	favs := []domain.Favorite{}
	for rows.Next() {
		fav, err := scanFavorite(rows, userID, kind)
		if err != nil {
			return nil, err
		}
		favs = append(favs, *fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}
	return favs, nil
}

func (r *SQLiteFavoriteStore) Get(ctx context.Context, userID string, kind domain.FavoriteKind, itemID string) (*domain.Favorite, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT item_id, title, image_url, data, added_at
		FROM favorites
		WHERE user_id = ? AND collection = ? AND item_id = ?`,
		userID, kind.Collection(), itemID,
	)

	fav, err := scanFavorite(row, userID, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fav, nil
}

func (r *SQLiteFavoriteStore) Put(ctx context.Context, fav domain.Favorite) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate favorite id: %w", err)
	}

	data, err := json.Marshal(fav.Data)
	if err != nil {
		return fmt.Errorf("failed to encode favorite data: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO favorites (id, user_id, collection, item_id, title, image_url, data, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, collection, item_id) DO UPDATE SET
			title = excluded.title,
			image_url = excluded.image_url,
			data = excluded.data`,
		id, fav.UserID, fav.Kind.Collection(), fav.ItemID, fav.Title, fav.ImageURL, string(data), fav.AddedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert favorite: %w", err)
	}
	return nil
}

func (r *SQLiteFavoriteStore) Delete(ctx context.Context, userID string, kind domain.FavoriteKind, itemID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND collection = ? AND item_id = ?`,
		userID, kind.Collection(), itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

func (r *SQLiteFavoriteStore) Clear(ctx context.Context, userID string, kind domain.FavoriteKind) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND collection = ?`,
		userID, kind.Collection(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear favorites: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared favorites: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit clear: %w", err)
	}

	r.logger.Debug().Str("user_id", userID).Str("collection", kind.Collection()).Int64("rows", n).Msg("favorites cleared")
	return int(n), nil
}

func (r *SQLiteFavoriteStore) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFavorite(row rowScanner, userID string, kind domain.FavoriteKind) (*domain.Favorite, error) {
	var (
		fav     domain.Favorite
		data    string
		addedAt int64
	)
	if err := row.Scan(&fav.ItemID, &fav.Title, &fav.ImageURL, &data, &addedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan favorite: %w", err)
	}

	if data != "" && data != "null" {
		if err := json.Unmarshal([]byte(data), &fav.Data); err != nil {
			return nil, fmt.Errorf("failed to decode favorite data: %w", err)
		}
	}
	fav.UserID = userID
	fav.Kind = kind
	fav.AddedAt = time.Unix(0, addedAt).UTC()
	return &fav, nil
}
