package config

import (
	"fmt"
	"gamehub/internal/constants"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

type UpstreamConfig struct {
	BaseURL     string
	MinInterval time.Duration
	CacheTTL    time.Duration
}

// NewsFeeds controls which Steam apps are aggregated and how they are
// batched. Zero values fall back to the built-in defaults.
type NewsFeeds struct {
	Feeds      []string      `yaml:"feeds"`
	BatchSize  int           `yaml:"batchSize"`
	PerFeed    int           `yaml:"perFeed"`
	BatchDelay time.Duration `yaml:"batchDelay"`
}

type Config struct {
	ServerPort     string
	LogLevel       string
	AllowedOrigins []string

	RAWGAPIKey     string
	GameSpotAPIKey string

	CheapShark UpstreamConfig
	RAWG       UpstreamConfig
	GameSpot   UpstreamConfig
	SteamNews  UpstreamConfig

	NewsFeedsFile string
	NewsFeeds     NewsFeeds

	FavoritesBackend   string
	DBPath             string
	FirestoreProjectID string
	AuthJWTSecret      string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "*")),
		RAWGAPIKey:         getEnv("RAWG_API_KEY", ""),
		GameSpotAPIKey:     getEnv("GAMESPOT_API_KEY", ""),
		NewsFeedsFile:      getEnv("NEWS_FEEDS_FILE", ""),
		FavoritesBackend:   strings.ToLower(getEnv("FAVORITES_BACKEND", "sqlite")),
		DBPath:             getEnv("DB_PATH", "gamehub.db"),
		FirestoreProjectID: getEnv("FIRESTORE_PROJECT_ID", ""),
		AuthJWTSecret:      getEnv("AUTH_JWT_SECRET", ""),
	}

	if cfg.RAWGAPIKey == "" {
		return nil, fmt.Errorf("RAWG_API_KEY is required")
	}
	if cfg.GameSpotAPIKey == "" {
		return nil, fmt.Errorf("GAMESPOT_API_KEY is required")
	}

	var err error
	if cfg.CheapShark, err = loadUpstream("CHEAPSHARK", "CHEAPSHARK",
		constants.CheapSharkMinInterval, constants.CheapSharkCacheTTL); err != nil {
		return nil, err
	}
	if cfg.RAWG, err = loadUpstream("RAWG", "RAWG",
		constants.RAWGMinInterval, constants.RAWGCacheTTL); err != nil {
		return nil, err
	}
	if cfg.GameSpot, err = loadUpstream("GAMESPOT", "GAMESPOT",
		constants.GameSpotMinInterval, constants.GameSpotCacheTTL); err != nil {
		return nil, err
	}
	if cfg.SteamNews, err = loadUpstream("STEAM_NEWS", "STEAM",
		constants.SteamNewsMinInterval, constants.SteamNewsCacheTTL); err != nil {
		return nil, err
	}

	if cfg.NewsFeedsFile != "" {
		feeds, err := LoadNewsFeeds(cfg.NewsFeedsFile)
		if err != nil {
			return nil, err
		}
		cfg.NewsFeeds = feeds
	}

	if cfg.FavoritesBackend == "firestore" && cfg.FirestoreProjectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_ID is required when FAVORITES_BACKEND=firestore")
	}
	if cfg.AuthJWTSecret == "" {
		logger.Warn().Msg("AUTH_JWT_SECRET not set, favorites endpoints will reject every request")
	}

	logger.Info().
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("favorites_backend", cfg.FavoritesBackend).
		Str("db_path", cfg.DBPath).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("news_feeds", len(cfg.NewsFeeds.Feeds)).
		Dur("cheapshark_min_interval", cfg.CheapShark.MinInterval).
		Dur("rawg_min_interval", cfg.RAWG.MinInterval).
		Dur("gamespot_min_interval", cfg.GameSpot.MinInterval).
		Dur("steam_min_interval", cfg.SteamNews.MinInterval).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadNewsFeeds reads a YAML feed list. Durations use Go syntax ("100ms").
func LoadNewsFeeds(path string) (NewsFeeds, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return NewsFeeds{}, fmt.Errorf("failed to read news feeds file: %w", err)
	}

	var feeds NewsFeeds
	if err := yaml.Unmarshal(raw, &feeds); err != nil {
		return NewsFeeds{}, fmt.Errorf("failed to parse news feeds file %s: %w", path, err)
	}
	if feeds.BatchSize < 0 || feeds.PerFeed < 0 || feeds.BatchDelay < 0 {
		return NewsFeeds{}, fmt.Errorf("news feeds file %s: negative values are not allowed", path)
	}
	return feeds, nil
}

// loadUpstream leaves BaseURL empty unless overridden; clients supply
// their own production default.
func loadUpstream(urlPrefix, tuningPrefix string, interval, ttl time.Duration) (UpstreamConfig, error) {
	up := UpstreamConfig{BaseURL: strings.TrimRight(os.Getenv(urlPrefix+"_BASE_URL"), "/")}

	var err error
	if up.MinInterval, err = getDuration(tuningPrefix+"_MIN_INTERVAL", interval); err != nil {
		return UpstreamConfig{}, err
	}
	if up.CacheTTL, err = getDuration(tuningPrefix+"_CACHE_TTL", ttl); err != nil {
		return UpstreamConfig{}, err
	}
	return up, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var Module = fx.Provide(Load)
