package service

import (
	"context"
	"fmt"
	"gamehub/internal/api"
	"gamehub/internal/domain"
	"sync"
	"time"
)

type fakeDealSource struct {
	deals     []api.CheapSharkDeal
	stores    []api.CheapSharkStore
	dealsErr  error
	storesErr error

	mu      sync.Mutex
	queries []api.DealQuery
}

func (f *fakeDealSource) GetDeals(_ context.Context, q api.DealQuery) ([]api.CheapSharkDeal, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	return f.deals, f.dealsErr
}

func (f *fakeDealSource) GetStores(_ context.Context) ([]api.CheapSharkStore, error) {
	return f.stores, f.storesErr
}

type fakeCatalog struct {
	page        *api.RAWGGamesPage
	pageErr     error
	games       map[string]*api.RAWGGameDetail
	gameErr     error
	screenshots []string
	lastQuery   api.GameQuery
}

func (f *fakeCatalog) GetGames(_ context.Context, q api.GameQuery) (*api.RAWGGamesPage, error) {
	f.lastQuery = q
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	return f.page, nil
}

func (f *fakeCatalog) GetGame(_ context.Context, id string) (*api.RAWGGameDetail, error) {
	if f.gameErr != nil {
		return nil, f.gameErr
	}
	g, ok := f.games[id]
	if !ok {
		return nil, fmt.Errorf("rawg game %s: %w", id, domain.ErrNotFound)
	}
	return g, nil
}

func (f *fakeCatalog) GetGameScreenshots(_ context.Context, _ string) []string {
	return f.screenshots
}

type fakeNewsSource struct {
	mu     sync.Mutex
	feeds  map[string][]api.SteamNewsItem
	errs   map[string]error
	calls  map[string]int
	counts []int
	delay  time.Duration
}

func newFakeNewsSource() *fakeNewsSource {
	return &fakeNewsSource{
		feeds: map[string][]api.SteamNewsItem{},
		errs:  map[string]error{},
		calls: map[string]int{},
	}
}

func (f *fakeNewsSource) GetNewsForApp(ctx context.Context, appID string, count int) ([]api.SteamNewsItem, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[appID]++
	f.counts = append(f.counts, count)
	if err := f.errs[appID]; err != nil {
		return nil, err
	}
	return f.feeds[appID], nil
}

func (f *fakeNewsSource) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type fakeReviewSource struct {
	page      *api.GameSpotReviewsPage
	pageErr   error
	details   map[string]*api.GameSpotGame
	detailErr error
	search    map[string][]api.GameSpotGame
	searchErr error

	mu          sync.Mutex
	detailCalls []string
	searchCalls []string
	lastQuery   api.ReviewQuery
}

func (f *fakeReviewSource) GetReviews(_ context.Context, q api.ReviewQuery) (*api.GameSpotReviewsPage, error) {
	f.mu.Lock()
	f.lastQuery = q
	f.mu.Unlock()
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	return f.page, nil
}

func (f *fakeReviewSource) GetGameDetails(_ context.Context, id string) (*api.GameSpotGame, error) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, id)
	f.mu.Unlock()
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	g, ok := f.details[id]
	if !ok {
		return nil, fmt.Errorf("gamespot game %s: %w", id, domain.ErrNotFound)
	}
	return g, nil
}

func (f *fakeReviewSource) SearchGames(_ context.Context, name string) ([]api.GameSpotGame, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, name)
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.search[name], nil
}

func flex(v float64) api.FlexFloat {
	return api.FlexFloat{Value: v, Valid: true}
}
