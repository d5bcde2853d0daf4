package fx

import (
	"gamehub/internal/api"
	"gamehub/internal/config"
	"gamehub/internal/logger"
	"gamehub/internal/repository"
	"gamehub/internal/server"
	"gamehub/internal/service"
	"gamehub/internal/validator"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func upstreamOptions(name string, up config.UpstreamConfig) api.Options {
	return api.Options{
		Name:        name,
		BaseURL:     up.BaseURL,
		MinInterval: up.MinInterval,
		CacheTTL:    up.CacheTTL,
	}
}

func ProvideCheapSharkClient(cfg *config.Config, logger zerolog.Logger) *api.CheapSharkClient {
	return api.NewCheapSharkClient(upstreamOptions("cheapshark", cfg.CheapShark), logger)
}

func ProvideRAWGClient(cfg *config.Config, logger zerolog.Logger) *api.RAWGClient {
	return api.NewRAWGClient(cfg.RAWGAPIKey, upstreamOptions("rawg", cfg.RAWG), logger)
}

func ProvideGameSpotClient(cfg *config.Config, logger zerolog.Logger) *api.GameSpotClient {
	return api.NewGameSpotClient(cfg.GameSpotAPIKey, upstreamOptions("gamespot", cfg.GameSpot), logger)
}

func ProvideSteamNewsClient(cfg *config.Config, logger zerolog.Logger) *api.SteamNewsClient {
	return api.NewSteamNewsClient(upstreamOptions("steam-news", cfg.SteamNews), logger)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(validator.New),
	// favorites storage
	fx.Provide(repository.NewFavoriteStore),
	// api clients
	fx.Provide(ProvideCheapSharkClient),
	fx.Provide(ProvideRAWGClient),
	fx.Provide(ProvideGameSpotClient),
	fx.Provide(ProvideSteamNewsClient),
	// svc
	fx.Provide(service.NewDealService),
	fx.Provide(service.NewGameService),
	fx.Provide(service.NewNewsService),
	fx.Provide(service.NewReviewService),
	fx.Provide(service.NewFavoriteService),
	// server
	fx.Provide(server.NewServer),
)
