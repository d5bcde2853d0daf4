package domain

import (
	"time"
)

type Store struct {
	ID       string
	Name     string
	IsActive bool
}

type Deal struct {
	DealID          string
	GameID          string
	Title           string
	OriginalPrice   float64
	SalePrice       float64
	DiscountPercent int
	StoreID         string
	StoreName       string
	StoreURL        string
	ImageURL        string
	Rating          float64
}

// GameDealGroup holds every listing that shares a grouping key, ordered by
// ascending sale price.
type GameDealGroup struct {
	ID              string
	GroupKey        string
	Title           string
	Deals           []Deal
	MatchConfidence float64
}

func (g GameDealGroup) BestDeal() Deal {
	if len(g.Deals) == 0 {
		return Deal{}
	}
	return g.Deals[0]
}

func (g GameDealGroup) Alternatives(limit int) []Deal {
	if len(g.Deals) <= 1 {
		return nil
	}
	alts := g.Deals[1:]
	if len(alts) > limit {
		alts = alts[:limit]
	}
	return alts
}

type GameSummary struct {
	ID          int
	Title       string
	Image       string
	Genre       string
	Platform    string
	ReleaseDate string
	Rating      float64
	Players     string
}

type GameDetail struct {
	ID              int
	Title           string
	Genre           string
	Platforms       []string
	Rating          float64
	ReleaseDate     string
	Price           string
	OriginalPrice   string
	Developer       string
	Publisher       string
	Image           string
	Screenshots     []string
	Description     string
	Players         string
	ESRBRating      string
	MetacriticScore *int
	Tags            []string
}

type PricingOption struct {
	StoreName     string
	URL           string
	SalePrice     float64
	OriginalPrice float64
	Discount      int
}

type NewsArticle struct {
	ID          string
	Title       string
	RawContent  string
	Content     string
	Excerpt     string
	Author      string
	PublishedAt time.Time
	Category    string
	Tags        []string
	SourceURL   string
	FeedName    string
	FeedLabel   string
	AppID       string
	ImageURL    string
	ReadTime    string
}

type NewsPage struct {
	Articles   []NewsArticle
	Total      int
	HasMore    bool
	NextOffset int
}

type Review struct {
	ID            string
	ReviewTitle   string
	GameID        string
	GameTitle     string
	GameImage     string
	Rating        float64
	OriginalScore *float64
	Excerpt       string
	Content       string
	Verdict       string
	Author        string
	PublishDate   string
	Genre         string
	Platform      string
	SourceURL     string
}

type ReviewPage struct {
	Reviews []Review
	Total   int
	HasMore bool
}
