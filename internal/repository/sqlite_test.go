package repository

import (
	"context"
	"gamehub/internal/database"
	"gamehub/internal/domain"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteFavoriteStore {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "favorites.db"), zerolog.Nop())
	require.NoError(t, err)

	store := NewSQLiteFavoriteStore(db, zerolog.Nop())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func fav(userID string, kind domain.FavoriteKind, itemID string, addedAt time.Time) domain.Favorite {
	return domain.Favorite{
		UserID:   userID,
		Kind:     kind,
		ItemID:   itemID,
		Title:    "Title " + itemID,
		ImageURL: "https://img/" + itemID,
		Data:     map[string]any{"price": 9.99, "store": "Steam"},
		AddedAt:  addedAt,
	}
}

func TestSQLiteGetMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), "u1", domain.FavoriteGames, "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSQLitePutAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)

	require.NoError(t, store.Put(ctx, fav("u1", domain.FavoriteDeals, "d1", at)))

	got, err := store.Get(ctx, "u1", domain.FavoriteDeals, "d1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Title d1", got.Title)
	require.Equal(t, domain.FavoriteDeals, got.Kind)
	require.Equal(t, at, got.AddedAt)
	require.Equal(t, map[string]any{"price": 9.99, "store": "Steam"}, got.Data)

	other, err := store.Get(ctx, "u1", domain.FavoriteGames, "d1")
	require.NoError(t, err)
	require.Nil(t, other)
}

func TestSQLitePutIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Put(ctx, fav("u1", domain.FavoriteGames, "g1", first)))

	again := fav("u1", domain.FavoriteGames, "g1", first.Add(time.Hour))
	again.Title = "Renamed"
	require.NoError(t, store.Put(ctx, again))

	favs, err := store.List(ctx, "u1", domain.FavoriteGames)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	require.Equal(t, "Renamed", favs[0].Title)
	require.Equal(t, first, favs[0].AddedAt)
}

func TestSQLiteListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, store.Put(ctx, fav("u1", domain.FavoriteNews, id, base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, store.Put(ctx, fav("u2", domain.FavoriteNews, "theirs", base)))

	favs, err := store.List(ctx, "u1", domain.FavoriteNews)
	require.NoError(t, err)

	var ids []string
	for _, f := range favs {
		ids = append(ids, f.ItemID)
	}
	require.Equal(t, []string{"new", "mid", "old"}, ids)

	empty, err := store.List(ctx, "u1", domain.FavoriteReviews)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestSQLiteDeleteAndClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Put(ctx, fav("u1", domain.FavoriteReviews, id, now)))
	}
	require.NoError(t, store.Put(ctx, fav("u1", domain.FavoriteGames, "a", now)))

	require.NoError(t, store.Delete(ctx, "u1", domain.FavoriteReviews, "a"))
	require.NoError(t, store.Delete(ctx, "u1", domain.FavoriteReviews, "missing"))

	n, err := store.Clear(ctx, "u1", domain.FavoriteReviews)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = store.Clear(ctx, "u1", domain.FavoriteReviews)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	kept, err := store.Get(ctx, "u1", domain.FavoriteGames, "a")
	require.NoError(t, err)
	require.NotNil(t, kept)
}

func TestSQLiteNilData(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	f := fav("u1", domain.FavoriteGames, "plain", time.Now().UTC())
	f.Data = nil
	require.NoError(t, store.Put(ctx, f))

	got, err := store.Get(ctx, "u1", domain.FavoriteGames, "plain")
	require.NoError(t, err)
	require.Nil(t, got.Data)
}
