package service

import (
	"context"
	"errors"
	"gamehub/internal/api"
	"gamehub/internal/constants"
	"gamehub/internal/domain"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func deal(id, gameID, title, store string, normal, sale float64) api.CheapSharkDeal {
	return api.CheapSharkDeal{
		DealID:             id,
		GameID:             api.FlexString(gameID),
		Title:              title,
		StoreID:            api.FlexString(store),
		NormalPrice:        flex(normal),
		SalePrice:          flex(sale),
		SteamRatingPercent: flex(90),
	}
}

var testStores = []api.CheapSharkStore{
	{StoreID: "1", StoreName: "Steam"},
	{StoreID: "7", StoreName: "GOG"},
}

func TestListDealsGroupsByNumericID(t *testing.T) {
	src := &fakeDealSource{
		stores: testStores,
		deals: []api.CheapSharkDeal{
			deal("d1", "612", "Portal 2", "1", 9.99, 1.99),
			deal("d2", "612", "Portal 2 - Steam Edition", "7", 9.99, 0.99),
			deal("d3", "400", "Half-Life", "1", 19.99, 9.99),
		},
	}
	svc := newDealService(src, zerolog.Nop())

	groups, err := svc.ListDeals(context.Background(), DealListQuery{SortBy: SortPrice})
	require.NoError(t, err)
	require.Len(t, groups, 2)

	portal := groups[0]
	require.Equal(t, "612", portal.ID)
	require.Equal(t, "612", portal.GroupKey)
	require.Len(t, portal.Deals, 2)
	require.Equal(t, "d2", portal.BestDeal().DealID)
	require.Equal(t, "Portal 2 - Steam Edition", portal.Title)
	require.Equal(t, 1.0, portal.MatchConfidence)
	require.Equal(t, "GOG", portal.BestDeal().StoreName)
}

func TestListDealsQueryAndDefaults(t *testing.T) {
	src := &fakeDealSource{stores: testStores}
	svc := newDealService(src, zerolog.Nop())

	_, err := svc.ListDeals(context.Background(), DealListQuery{StoreID: "all", PageNumber: 3})
	require.NoError(t, err)

	require.Len(t, src.queries, 1)
	want := api.DealQuery{
		PageNumber: 3,
		PageSize:   constants.DealsPageSize,
		SortBy:     SortDealRating,
		Descending: true,
	}
	if diff := cmp.Diff(want, src.queries[0]); diff != "" {
		t.Errorf("deal query mismatch (-want +got):\n%s", diff)
	}
}

func TestListDealsUpstreamFailure(t *testing.T) {
	cases := map[string]*fakeDealSource{
		"deals":  {stores: testStores, dealsErr: domain.ErrUpstreamUnavailable},
		"stores": {deals: []api.CheapSharkDeal{deal("d1", "1", "A", "1", 10, 5)}, storesErr: domain.ErrMalformedUpstream},
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := newDealService(src, zerolog.Nop()).ListDeals(context.Background(), DealListQuery{})
			require.Error(t, err)
		})
	}
}

func TestListDealsSortsByDiscount(t *testing.T) {
	src := &fakeDealSource{
		stores: testStores,
		deals: []api.CheapSharkDeal{
			deal("d1", "1", "Small", "1", 10, 9),
			deal("d2", "2", "Big", "1", 10, 1),
			deal("d3", "3", "Mid", "1", 10, 5),
		},
	}
	svc := newDealService(src, zerolog.Nop())

	for _, sortBy := range []string{SortDealRating, SortSavings} {
		groups, err := svc.ListDeals(context.Background(), DealListQuery{SortBy: sortBy})
		require.NoError(t, err)
		var titles []string
		for _, g := range groups {
			titles = append(titles, g.Title)
		}
		require.Equal(t, []string{"Big", "Mid", "Small"}, titles, sortBy)
	}
}

func TestListDealsUnknownSortKeepsOrder(t *testing.T) {
	src := &fakeDealSource{
		stores: testStores,
		deals: []api.CheapSharkDeal{
			deal("d1", "1", "First", "1", 10, 9),
			deal("d2", "2", "Second", "1", 10, 1),
		},
	}
	groups, err := newDealService(src, zerolog.Nop()).ListDeals(context.Background(), DealListQuery{SortBy: "Metacritic"})
	require.NoError(t, err)
	require.Equal(t, "First", groups[0].Title)
	require.Equal(t, "Second", groups[1].Title)
}

func TestToDealDefaults(t *testing.T) {
	d := toDeal(api.CheapSharkDeal{
		DealID:             "abc=",
		StoreID:            "99",
		Title:              "Orphan",
		NormalPrice:        flex(20),
		SalePrice:          flex(5),
		SteamRatingPercent: flex(80),
	}, storeNames(testStores))

	require.Equal(t, "Unknown Store", d.StoreName)
	require.Equal(t, constants.DealPlaceholderImage, d.ImageURL)
	require.Equal(t, 75, d.DiscountPercent)
	require.Equal(t, 4.0, d.Rating)
	require.Equal(t, "https://www.cheapshark.com/redirect?dealID=abc%3D", d.StoreURL)
}

func TestDiscountPercentInvariant(t *testing.T) {
	cases := []struct {
		original, sale float64
	}{
		{10, 5}, {59.99, 14.99}, {1, 0}, {9.99, 9.99}, {5, 7}, {0, 1}, {29.99, 0.01},
	}
	for _, tc := range cases {
		got := discountPercent(tc.original, tc.sale)
		require.GreaterOrEqual(t, got, 0)
		require.LessOrEqual(t, got, 100)
		if tc.original > 0 && tc.sale <= tc.original {
			want := int(math.Round((tc.original - tc.sale) / tc.original * 100))
			require.Equal(t, want, got, "%v -> %v", tc.original, tc.sale)
		}
	}
	require.Equal(t, 0, discountPercent(0, 1))
	require.Equal(t, 0, discountPercent(5, 7))
}

func TestGroupDealsOrdering(t *testing.T) {
	deals := []domain.Deal{
		{DealID: "a", Title: "Hollow Knight", SalePrice: 7.49},
		{DealID: "b", Title: "Hollow Knight!", SalePrice: 3.99},
		{DealID: "c", Title: "hollow  knight", SalePrice: 5.00},
	}
	groups := groupDeals(deals)
	require.Len(t, groups, 1)

	g := groups[0]
	require.Equal(t, "hollow knight", g.GroupKey)
	require.Equal(t, "b", g.ID)
	for i := 1; i < len(g.Deals); i++ {
		require.LessOrEqual(t, g.Deals[i-1].SalePrice, g.Deals[i].SalePrice)
	}
	require.Less(t, g.MatchConfidence, 1.0)
	require.Greater(t, g.MatchConfidence, 0.8)
}

func TestGroupKeyIgnoresZeroGameID(t *testing.T) {
	require.Equal(t, "portal", groupKey(domain.Deal{GameID: "0", Title: "Portal"}))
	require.Equal(t, "portal", groupKey(domain.Deal{GameID: "", Title: "Portal"}))
	require.Equal(t, "42", groupKey(domain.Deal{GameID: "42", Title: "Portal"}))
}

func TestAlternativesCapped(t *testing.T) {
	var deals []domain.Deal
	for i := 0; i < 7; i++ {
		deals = append(deals, domain.Deal{DealID: string(rune('a' + i)), GameID: "5", SalePrice: float64(7 - i)})
	}
	g := groupDeals(deals)[0]

	alts := g.Alternatives(constants.DealAlternativeLimit)
	require.Len(t, alts, 4)
	for _, a := range alts {
		require.GreaterOrEqual(t, a.SalePrice, g.BestDeal().SalePrice)
	}
}

func TestListDealsWrapsCause(t *testing.T) {
	src := &fakeDealSource{dealsErr: domain.ErrUpstreamUnavailable}
	_, err := newDealService(src, zerolog.Nop()).ListDeals(context.Background(), DealListQuery{})
	require.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
}
