package service

import (
	"context"
	"fmt"
	"gamehub/internal/api"
	"gamehub/internal/constants"
	"gamehub/internal/domain"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	SortDealRating = "DealRating"
	SortSavings    = "Savings"
	SortPrice      = "Price"
)

const dealRedirectURL = "https://www.cheapshark.com/redirect?dealID="

var (
	nonWordPattern = regexp.MustCompile(`[^\w\s]`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

type DealService struct {
	source DealSource
	logger zerolog.Logger
}

type DealListQuery struct {
	StoreID    string
	PageNumber int
	SortBy     string
}

func NewDealService(source *api.CheapSharkClient, logger zerolog.Logger) *DealService {
	return newDealService(source, logger)
}

func newDealService(source DealSource, logger zerolog.Logger) *DealService {
	return &DealService{source: source, logger: logger}
}

// ListDeals groups the current page of listings by game. Both the listings
// and the store directory are required; either failing fails the request.
func (s *DealService) ListDeals(ctx context.Context, q DealListQuery) ([]domain.GameDealGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if q.SortBy == "" {
		q.SortBy = SortDealRating
	}
	if q.StoreID == "all" {
		q.StoreID = ""
	}

	s.logger.Info().
		Str("store_id", q.StoreID).
		Int("page", q.PageNumber).
		Str("sort_by", q.SortBy).
		Msg("listing deals")

	var rawDeals []api.CheapSharkDeal
	var stores []api.CheapSharkStore

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		apiCtx, apiCancel := context.WithTimeout(gctx, constants.ExternalAPITimeout)
		defer apiCancel()

		var err error
		rawDeals, err = s.source.GetDeals(apiCtx, api.DealQuery{
			StoreID:    q.StoreID,
			PageNumber: q.PageNumber,
			PageSize:   constants.DealsPageSize,
			SortBy:     q.SortBy,
			Descending: true,
		})
		return err
	})
	g.Go(func() error {
		apiCtx, apiCancel := context.WithTimeout(gctx, constants.ExternalAPITimeout)
		defer apiCancel()

		var err error
		stores, err = s.source.GetStores(apiCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch deals or stores")
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	names := storeNames(stores)
	deals := make([]domain.Deal, 0, len(rawDeals))
	for _, raw := range rawDeals {
		deals = append(deals, toDeal(raw, names))
	}

	groups := groupDeals(deals)
	sortGroups(groups, q.SortBy)

	s.logger.Debug().Int("deals", len(deals)).Int("groups", len(groups)).Msg("deals grouped")
	return groups, nil
}

func storeNames(stores []api.CheapSharkStore) map[string]string {
	names := make(map[string]string, len(stores))
	for _, st := range stores {
		names[st.StoreID.String()] = st.StoreName
	}
	return names
}

func toDeal(raw api.CheapSharkDeal, stores map[string]string) domain.Deal {
	storeName := stores[raw.StoreID.String()]
	if storeName == "" {
		storeName = "Unknown Store"
	}
	image := raw.Thumb
	if image == "" {
		image = constants.DealPlaceholderImage
	}

	return domain.Deal{
		DealID:          raw.DealID,
		GameID:          raw.GameID.String(),
		Title:           raw.Title,
		OriginalPrice:   raw.NormalPrice.Value,
		SalePrice:       raw.SalePrice.Value,
		DiscountPercent: discountPercent(raw.NormalPrice.Value, raw.SalePrice.Value),
		StoreID:         raw.StoreID.String(),
		StoreName:       storeName,
		StoreURL:        dealRedirectURL + url.QueryEscape(raw.DealID),
		ImageURL:        image,
		Rating:          raw.SteamRatingPercent.Value / 20,
	}
}

func discountPercent(original, sale float64) int {
	if original <= 0 {
		return 0
	}
	d := int(math.Round((original - sale) / original * 100))
	return min(max(d, 0), 100)
}

// normalizeTitle lowercases and strips punctuation. Distinct games whose
// titles differ only in punctuation collapse onto the same key.
func normalizeTitle(title string) string {
	t := strings.ToLower(title)
	t = nonWordPattern.ReplaceAllString(t, "")
	t = spacePattern.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

func isNumericID(id string) bool {
	if id == "" || strings.Trim(id, "0") == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func groupKey(d domain.Deal) string {
	if isNumericID(d.GameID) {
		return d.GameID
	}
	return normalizeTitle(d.Title)
}

// groupDeals keeps groups in first-seen order and orders each group's deals
// by ascending sale price.
func groupDeals(deals []domain.Deal) []domain.GameDealGroup {
	index := make(map[string]int)
	var groups []domain.GameDealGroup

	for _, d := range deals {
		key := groupKey(d)
		if i, ok := index[key]; ok {
			groups[i].Deals = append(groups[i].Deals, d)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, domain.GameDealGroup{GroupKey: key, Deals: []domain.Deal{d}})
	}

	for i := range groups {
		g := &groups[i]
		sort.SliceStable(g.Deals, func(a, b int) bool {
			return g.Deals[a].SalePrice < g.Deals[b].SalePrice
		})

		best := g.Deals[0]
		g.ID = best.GameID
		if !isNumericID(g.ID) {
			g.ID = best.DealID
		}
		g.Title = best.Title
		g.MatchConfidence = matchConfidence(*g)
	}
	return groups
}

// matchConfidence is 1 for groups keyed by an upstream game id. Title-keyed
// groups score the weakest similarity between the best deal's title and any
// member's title.
func matchConfidence(g domain.GameDealGroup) float64 {
	if isNumericID(g.GroupKey) || len(g.Deals) < 2 {
		return 1
	}

	best := strings.ToLower(g.Deals[0].Title)
	confidence := 1.0
	for _, d := range g.Deals[1:] {
		confidence = min(confidence, matchr.JaroWinkler(best, strings.ToLower(d.Title), false))
	}
	return math.Round(confidence*1000) / 1000
}

func sortGroups(groups []domain.GameDealGroup, sortBy string) {
	switch sortBy {
	case SortDealRating, SortSavings:
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].BestDeal().DiscountPercent > groups[j].BestDeal().DiscountPercent
		})
	case SortPrice:
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].BestDeal().SalePrice < groups[j].BestDeal().SalePrice
		})
	}
}
