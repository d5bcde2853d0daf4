package service

import (
	"context"
	"gamehub/internal/api"
)

type DealSource interface {
	GetDeals(ctx context.Context, q api.DealQuery) ([]api.CheapSharkDeal, error)
	GetStores(ctx context.Context) ([]api.CheapSharkStore, error)
}

type CatalogSource interface {
	GetGames(ctx context.Context, q api.GameQuery) (*api.RAWGGamesPage, error)
	GetGame(ctx context.Context, id string) (*api.RAWGGameDetail, error)
	GetGameScreenshots(ctx context.Context, id string) []string
}

type NewsSource interface {
	GetNewsForApp(ctx context.Context, appID string, count int) ([]api.SteamNewsItem, error)
}

type ReviewSource interface {
	GetReviews(ctx context.Context, q api.ReviewQuery) (*api.GameSpotReviewsPage, error)
	GetGameDetails(ctx context.Context, id string) (*api.GameSpotGame, error)
	SearchGames(ctx context.Context, name string) ([]api.GameSpotGame, error)
}
