package service

import (
	"context"
	"errors"
	"gamehub/internal/api"
	"gamehub/internal/constants"
	"gamehub/internal/domain"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestListGamesAliasesAndDefaults(t *testing.T) {
	catalog := &fakeCatalog{page: &api.RAWGGamesPage{Results: []api.RAWGGame{
		{ID: 1, Name: "", Playtime: 0},
		{ID: 2, Name: "Celeste", Playtime: 12, BackgroundImage: "cover.jpg", Released: "2018-01-25",
			Genres:    []api.RAWGNamed{{Name: "Platformer"}},
			Platforms: []api.RAWGPlatformEntry{{Platform: api.RAWGNamed{Name: "PC"}}, {Platform: api.RAWGNamed{Name: "Switch"}}},
		},
	}}}
	svc := newGameService(catalog, &fakeDealSource{}, zerolog.Nop())

	games := svc.ListGames(context.Background(), GameListQuery{Search: " celeste ", Genres: "all", Platforms: "PlayStation"})

	require.Equal(t, api.GameQuery{Search: "celeste", Platforms: "187,18,16,15", Page: 1, PageSize: constants.GamesPageSize}, catalog.lastQuery)
	require.Equal(t, []domain.GameSummary{
		{ID: 1, Title: "Unknown Game", Image: constants.GameListPlaceholder, Genre: "Unknown", Platform: "Multiple Platforms", ReleaseDate: "Unknown", Players: "Unknown"},
		{ID: 2, Title: "Celeste", Image: "cover.jpg", Genre: "Platformer", Platform: "PC, Switch", ReleaseDate: "2018-01-25", Players: "12h average"},
	}, games)
}

func TestListGamesPassesUnknownPlatformThrough(t *testing.T) {
	catalog := &fakeCatalog{page: &api.RAWGGamesPage{}}
	svc := newGameService(catalog, &fakeDealSource{}, zerolog.Nop())

	svc.ListGames(context.Background(), GameListQuery{Platforms: "4,5", Genres: "rpg", Page: 3})
	require.Equal(t, "4,5", catalog.lastQuery.Platforms)
	require.Equal(t, "rpg", catalog.lastQuery.Genres)
	require.Equal(t, 3, catalog.lastQuery.Page)
}

func TestListGamesFailureIsEmpty(t *testing.T) {
	catalog := &fakeCatalog{pageErr: domain.ErrUpstreamUnavailable}
	games := newGameService(catalog, &fakeDealSource{}, zerolog.Nop()).ListGames(context.Background(), GameListQuery{})

	require.NotNil(t, games)
	require.Empty(t, games)
}

func TestGetGameNotFound(t *testing.T) {
	svc := newGameService(&fakeCatalog{}, &fakeDealSource{}, zerolog.Nop())

	_, err := svc.GetGame(context.Background(), "404")
	require.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.GetGame(context.Background(), "  ")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetGameOtherFailure(t *testing.T) {
	svc := newGameService(&fakeCatalog{gameErr: domain.ErrUpstreamUnavailable}, &fakeDealSource{}, zerolog.Nop())

	_, err := svc.GetGame(context.Background(), "1")
	require.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
	require.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetGameDefaults(t *testing.T) {
	catalog := &fakeCatalog{games: map[string]*api.RAWGGameDetail{
		"7": {RAWGGame: api.RAWGGame{ID: 7}, Metacritic: intPtr(0)},
	}}
	svc := newGameService(catalog, &fakeDealSource{dealsErr: domain.ErrUpstreamUnavailable}, zerolog.Nop())

	g, err := svc.GetGame(context.Background(), "7")
	require.NoError(t, err)

	require.Equal(t, "Unknown Game", g.Title)
	require.Equal(t, "Unknown", g.Genre)
	require.Equal(t, []string{"PC"}, g.Platforms)
	require.Equal(t, "Unknown Developer", g.Developer)
	require.Equal(t, "Unknown Publisher", g.Publisher)
	require.Equal(t, "No description available for this game.", g.Description)
	require.Equal(t, "Single-player", g.Players)
	require.Equal(t, "Rating Pending", g.ESRBRating)
	require.Nil(t, g.MetacriticScore)
	require.Equal(t, constants.GameDetailPlaceholder, g.Image)
	require.Equal(t, "Unknown", g.ReleaseDate)
	require.Equal(t, "N/A", g.Price)
	require.Equal(t, "N/A", g.OriginalPrice)
	require.Equal(t, []string{}, g.Screenshots)
	require.Equal(t, []string{}, g.Tags)
}

func TestGetGameEnriched(t *testing.T) {
	catalog := &fakeCatalog{
		games: map[string]*api.RAWGGameDetail{
			"3328": {
				RAWGGame: api.RAWGGame{
					ID:              3328,
					Name:            "The Witcher 3",
					BackgroundImage: "w3.jpg",
					Released:        "2015-05-18",
				},
				Description: "<p>Geralt returns.</p>",
				Developers:  []api.RAWGNamed{{Name: "CD PROJEKT RED"}},
				Tags: []api.RAWGNamed{
					{Name: "Singleplayer"}, {Name: "Open World"}, {Name: "RPG"},
					{Name: "Story Rich"}, {Name: "Atmospheric"}, {Name: "Fantasy"},
				},
				ESRBRating: &api.RAWGNamed{Name: "Mature"},
				Metacritic: intPtr(92),
			},
		},
		screenshots: []string{"s1", "s2", "s3", "s4"},
	}
	deals := &fakeDealSource{
		stores: testStores,
		deals: []api.CheapSharkDeal{
			deal("x", "1", "The Witcher 3: Wild Hunt", "1", 39.99, 9.99),
			deal("y", "2", "Unrelated Game", "7", 10, 1),
		},
	}
	svc := newGameService(catalog, deals, zerolog.Nop())

	g, err := svc.GetGame(context.Background(), "3328")
	require.NoError(t, err)

	require.Equal(t, "Geralt returns.", g.Description)
	require.Equal(t, "Singleplayer", g.Players)
	require.Equal(t, "Mature", g.ESRBRating)
	require.Equal(t, 92, *g.MetacriticScore)
	require.Len(t, g.Tags, constants.GameTagLimit)
	require.Equal(t, []string{"s1", "s2", "s3"}, g.Screenshots)
	require.Equal(t, "$9.99", g.Price)
	require.Equal(t, "$39.99", g.OriginalPrice)
}

func TestGetPricingFiltersAndLimits(t *testing.T) {
	catalog := &fakeCatalog{games: map[string]*api.RAWGGameDetail{
		"1": {RAWGGame: api.RAWGGame{ID: 1, Name: "Hades"}},
	}}
	var raw []api.CheapSharkDeal
	for i := 0; i < 7; i++ {
		raw = append(raw, deal(string(rune('a'+i)), "9", "Hades", "1", 24.99, 12.49))
	}
	raw = append([]api.CheapSharkDeal{deal("z", "8", "Celeste", "1", 5, 1)}, raw...)
	deals := &fakeDealSource{stores: testStores, deals: raw}

	offers := newGameService(catalog, deals, zerolog.Nop()).GetPricing(context.Background(), "1")
	require.Len(t, offers, constants.PricingOptionLimit)
	for _, o := range offers {
		require.Equal(t, "Steam", o.StoreName)
		require.Equal(t, 50, o.Discount)
	}

	require.NotEmpty(t, deals.queries)
	require.Equal(t, "Hades", deals.queries[0].Title)
	require.Equal(t, SortPrice, deals.queries[0].SortBy)
	require.Equal(t, constants.PricingPageSize, deals.queries[0].PageSize)
}

func TestGetPricingFailuresAreEmpty(t *testing.T) {
	svc := newGameService(&fakeCatalog{}, &fakeDealSource{}, zerolog.Nop())
	require.Equal(t, []domain.PricingOption{}, svc.GetPricing(context.Background(), "missing"))

	catalog := &fakeCatalog{games: map[string]*api.RAWGGameDetail{"1": {RAWGGame: api.RAWGGame{ID: 1, Name: "Hades"}}}}
	svc = newGameService(catalog, &fakeDealSource{storesErr: domain.ErrUpstreamUnavailable}, zerolog.Nop())
	require.Equal(t, []domain.PricingOption{}, svc.GetPricing(context.Background(), "1"))
}

func TestTitleMatches(t *testing.T) {
	require.True(t, titleMatches("Hades II Early Access", "hades"))
	require.True(t, titleMatches("Baldurs Gate 3", "Baldur's Gate 3"))
	require.False(t, titleMatches("Portal", "Half-Life"))
}
