package service

import (
	"context"
	"errors"
	"fmt"
	"gamehub/internal/api"
	"gamehub/internal/constants"
	"gamehub/internal/content"
	"gamehub/internal/domain"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var platformAliases = map[string]string{
	"pc":          "4",
	"playstation": "187,18,16,15",
	"xbox":        "1,186,14",
	"nintendo":    "7,8,9,13,83",
}

type GameService struct {
	catalog CatalogSource
	deals   DealSource
	logger  zerolog.Logger
}

type GameListQuery struct {
	Search    string
	Genres    string
	Platforms string
	Page      int
}

func NewGameService(catalog *api.RAWGClient, deals *api.CheapSharkClient, logger zerolog.Logger) *GameService {
	return newGameService(catalog, deals, logger)
}

func newGameService(catalog CatalogSource, deals DealSource, logger zerolog.Logger) *GameService {
	return &GameService{catalog: catalog, deals: deals, logger: logger}
}

// ListGames returns an empty slice when the catalog is unreachable.
func (s *GameService) ListGames(ctx context.Context, q GameListQuery) []domain.GameSummary {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	query := api.GameQuery{
		Search:   strings.TrimSpace(q.Search),
		Page:     max(q.Page, 1),
		PageSize: constants.GamesPageSize,
	}
	if q.Genres != "" && q.Genres != "all" {
		query.Genres = q.Genres
	}
	if q.Platforms != "" && q.Platforms != "all" {
		query.Platforms = q.Platforms
		if ids, ok := platformAliases[strings.ToLower(q.Platforms)]; ok {
			query.Platforms = ids
		}
	}

	page, err := s.catalog.GetGames(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("search", query.Search).Msg("failed to fetch games")
		return []domain.GameSummary{}
	}

	games := make([]domain.GameSummary, 0, len(page.Results))
	for _, g := range page.Results {
		games = append(games, toGameSummary(g))
	}
	return games
}

// GetGame returns domain.ErrNotFound when the catalog has no such game. Any
// other failure is returned as-is. Screenshots and pricing are best effort.
func (s *GameService) GetGame(ctx context.Context, id string) (*domain.GameDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("empty game id: %w", domain.ErrNotFound)
	}

	raw, err := s.fetchGame(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := toGameDetail(raw)

	var screenshots []string
	var offers []domain.PricingOption

	g := new(errgroup.Group)
	g.Go(func() error {
		apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		defer apiCancel()

		screenshots = s.catalog.GetGameScreenshots(apiCtx, id)
		return nil
	})
	g.Go(func() error {
		var err error
		offers, err = s.pricingFor(ctx, detail.Title)
		if err != nil {
			s.logger.Warn().Err(err).Str("game_id", id).Msg("failed to fetch pricing for game detail")
		}
		return nil
	})
	_ = g.Wait()

	if len(screenshots) > constants.ScreenshotLimit {
		screenshots = screenshots[:constants.ScreenshotLimit]
	}
	detail.Screenshots = append([]string{}, screenshots...)

	detail.Price, detail.OriginalPrice = "N/A", "N/A"
	if len(offers) > 0 {
		best := offers[0]
		detail.Price = formatPrice(best.SalePrice)
		detail.OriginalPrice = formatPrice(max(best.OriginalPrice, best.SalePrice))
	}

	return detail, nil
}

// GetPricing never fails; an unknown game or unreachable store yields an
// empty list.
func (s *GameService) GetPricing(ctx context.Context, id string) []domain.PricingOption {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	raw, err := s.fetchGame(ctx, strings.TrimSpace(id))
	if err != nil {
		s.logger.Warn().Err(err).Str("game_id", id).Msg("pricing lookup could not resolve game")
		return []domain.PricingOption{}
	}

	offers, err := s.pricingFor(ctx, gameTitle(raw))
	if err != nil {
		s.logger.Warn().Err(err).Str("game_id", id).Msg("failed to fetch pricing")
		return []domain.PricingOption{}
	}
	return offers
}

func (s *GameService) fetchGame(ctx context.Context, id string) (*api.RAWGGameDetail, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	raw, err := s.catalog.GetGame(apiCtx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info().Str("game_id", id).Msg("game not found")
		} else {
			s.logger.Error().Err(err).Str("game_id", id).Msg("failed to fetch game")
		}
		return nil, err
	}
	return raw, nil
}

func (s *GameService) pricingFor(ctx context.Context, title string) ([]domain.PricingOption, error) {
	if title == "" {
		return []domain.PricingOption{}, nil
	}

	var rawDeals []api.CheapSharkDeal
	var stores []api.CheapSharkStore

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		apiCtx, cancel := context.WithTimeout(gctx, constants.ExternalAPITimeout)
		defer cancel()

		var err error
		rawDeals, err = s.deals.GetDeals(apiCtx, api.DealQuery{
			Title:    title,
			SortBy:   SortPrice,
			PageSize: constants.PricingPageSize,
		})
		return err
	})
	g.Go(func() error {
		apiCtx, cancel := context.WithTimeout(gctx, constants.ExternalAPITimeout)
		defer cancel()

		var err error
		stores, err = s.deals.GetStores(apiCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := storeNames(stores)
	offers := make([]domain.PricingOption, 0, constants.PricingOptionLimit)
	for _, raw := range rawDeals {
		if len(offers) == constants.PricingOptionLimit {
			break
		}
		if !titleMatches(raw.Title, title) {
			continue
		}
		d := toDeal(raw, names)
		offers = append(offers, domain.PricingOption{
			StoreName:     d.StoreName,
			URL:           d.StoreURL,
			SalePrice:     d.SalePrice,
			OriginalPrice: d.OriginalPrice,
			Discount:      d.DiscountPercent,
		})
	}
	return offers, nil
}

func titleMatches(candidate, title string) bool {
	c, t := strings.ToLower(candidate), strings.ToLower(title)
	if strings.Contains(c, t) {
		return true
	}
	return matchr.JaroWinkler(normalizeTitle(c), normalizeTitle(t), false) >= constants.PricingTitleMatch
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func gameTitle(g *api.RAWGGameDetail) string {
	if g.Name == "" {
		return "Unknown Game"
	}
	return g.Name
}

func platformNames(entries []api.RAWGPlatformEntry) []string {
	names := make([]string, 0, len(entries))
	for _, p := range entries {
		if p.Platform.Name != "" {
			names = append(names, p.Platform.Name)
		}
	}
	return names
}

func firstName(items []api.RAWGNamed, fallback string) string {
	for _, it := range items {
		if it.Name != "" {
			return it.Name
		}
	}
	return fallback
}

func toGameSummary(g api.RAWGGame) domain.GameSummary {
	summary := domain.GameSummary{
		ID:          g.ID,
		Title:       g.Name,
		Image:       g.BackgroundImage,
		Genre:       firstName(g.Genres, "Unknown"),
		Platform:    strings.Join(platformNames(g.Platforms), ", "),
		ReleaseDate: g.Released,
		Rating:      g.Rating,
		Players:     "Unknown",
	}
	if summary.Title == "" {
		summary.Title = "Unknown Game"
	}
	if summary.Image == "" {
		summary.Image = constants.GameListPlaceholder
	}
	if summary.Platform == "" {
		summary.Platform = "Multiple Platforms"
	}
	if summary.ReleaseDate == "" {
		summary.ReleaseDate = "Unknown"
	}
	if g.Playtime > 0 {
		summary.Players = fmt.Sprintf("%dh average", g.Playtime)
	}
	return summary
}

func toGameDetail(g *api.RAWGGameDetail) *domain.GameDetail {
	detail := &domain.GameDetail{
		ID:              g.ID,
		Title:           gameTitle(g),
		Genre:           firstName(g.Genres, "Unknown"),
		Platforms:       platformNames(g.Platforms),
		Rating:          g.Rating,
		ReleaseDate:     g.Released,
		Developer:       firstName(g.Developers, "Unknown Developer"),
		Publisher:       firstName(g.Publishers, "Unknown Publisher"),
		Image:           g.BackgroundImage,
		Description:     strings.TrimSpace(g.DescriptionRaw),
		Players:         "Single-player",
		ESRBRating:      "Rating Pending",
		MetacriticScore: g.Metacritic,
		Tags:            []string{},
		Screenshots:     []string{},
	}

	if len(detail.Platforms) == 0 {
		detail.Platforms = []string{"PC"}
	}
	if detail.ReleaseDate == "" {
		detail.ReleaseDate = "Unknown"
	}
	if detail.Image == "" {
		detail.Image = constants.GameDetailPlaceholder
	}
	if detail.Description == "" {
		detail.Description = content.PlainText(g.Description)
	}
	if detail.Description == "" {
		detail.Description = "No description available for this game."
	}
	if g.ESRBRating != nil && g.ESRBRating.Name != "" {
		detail.ESRBRating = g.ESRBRating.Name
	}
	if g.Metacritic != nil && *g.Metacritic == 0 {
		detail.MetacriticScore = nil
	}

	for _, tag := range g.Tags {
		if strings.Contains(strings.ToLower(tag.Name), "player") {
			detail.Players = tag.Name
			break
		}
	}
	for _, tag := range g.Tags {
		if len(detail.Tags) == constants.GameTagLimit {
			break
		}
		if tag.Name != "" {
			detail.Tags = append(detail.Tags, tag.Name)
		}
	}
	return detail
}
