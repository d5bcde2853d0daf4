package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("RAWG_API_KEY", "rawg-key")
	t.Setenv("GAMESPOT_API_KEY", "gamespot-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.ServerPort)
	require.Equal(t, "sqlite", cfg.FavoritesBackend)
	require.Equal(t, "gamehub.db", cfg.DBPath)
	require.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	require.Equal(t, 250*time.Millisecond, cfg.CheapShark.MinInterval)
	require.Equal(t, 2*time.Second, cfg.GameSpot.MinInterval)
	require.Equal(t, 10*time.Minute, cfg.GameSpot.CacheTTL)
	require.Equal(t, 100*time.Millisecond, cfg.SteamNews.MinInterval)
	require.Empty(t, cfg.RAWG.BaseURL)
	require.Empty(t, cfg.NewsFeeds.Feeds)
}

func TestLoadRequiresKeys(t *testing.T) {
	t.Setenv("RAWG_API_KEY", "")
	t.Setenv("GAMESPOT_API_KEY", "gamespot-key")

	_, err := Load(zerolog.Nop())
	require.ErrorContains(t, err, "RAWG_API_KEY")

	t.Setenv("RAWG_API_KEY", "rawg-key")
	t.Setenv("GAMESPOT_API_KEY", "")

	_, err = Load(zerolog.Nop())
	require.ErrorContains(t, err, "GAMESPOT_API_KEY")
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("RAWG_BASE_URL", "http://localhost:9000/api/")
	t.Setenv("STEAM_MIN_INTERVAL", "0s")
	t.Setenv("GAMESPOT_CACHE_TTL", "1m")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, "http://localhost:9000/api", cfg.RAWG.BaseURL)
	require.Equal(t, time.Duration(0), cfg.SteamNews.MinInterval)
	require.Equal(t, time.Minute, cfg.GameSpot.CacheTTL)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("CHEAPSHARK_MIN_INTERVAL", "fast")

	_, err := Load(zerolog.Nop())
	require.ErrorContains(t, err, "CHEAPSHARK_MIN_INTERVAL")
}

func TestLoadFirestoreNeedsProject(t *testing.T) {
	setRequired(t)
	t.Setenv("FAVORITES_BACKEND", "Firestore")
	t.Setenv("FIRESTORE_PROJECT_ID", "")

	_, err := Load(zerolog.Nop())
	require.ErrorContains(t, err, "FIRESTORE_PROJECT_ID")
}

func TestLoadNewsFeedsFile(t *testing.T) {
	setRequired(t)

	path := filepath.Join(t.TempDir(), "feeds.yaml")
	body := "feeds:\n  - \"730\"\n  - \"570\"\nbatchSize: 2\nperFeed: 5\nbatchDelay: 250ms\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("NEWS_FEEDS_FILE", path)

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	want := NewsFeeds{
		Feeds:      []string{"730", "570"},
		BatchSize:  2,
		PerFeed:    5,
		BatchDelay: 250 * time.Millisecond,
	}
	if diff := cmp.Diff(want, cfg.NewsFeeds); diff != "" {
		t.Errorf("news feeds mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadNewsFeedsRejectsNegative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batchSize: -1\n"), 0o600))

	_, err := LoadNewsFeeds(path)
	require.Error(t, err)
}

func TestLoadNewsFeedsMissingFile(t *testing.T) {
	_, err := LoadNewsFeeds(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
