package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

const CheapSharkBaseURL = "https://www.cheapshark.com/api/1.0"

type CheapSharkClient struct {
	client *Client
}

type CheapSharkDeal struct {
	DealID             string     `json:"dealID"`
	GameID             FlexString `json:"gameID"`
	Title              string     `json:"title"`
	StoreID            FlexString `json:"storeID"`
	SalePrice          FlexFloat  `json:"salePrice"`
	NormalPrice        FlexFloat  `json:"normalPrice"`
	SteamRatingPercent FlexFloat  `json:"steamRatingPercent"`
	Thumb              string     `json:"thumb"`
}

type CheapSharkStore struct {
	StoreID   FlexString `json:"storeID"`
	StoreName string     `json:"storeName"`
	IsActive  FlexFloat  `json:"isActive"`
}

type DealQuery struct {
	StoreID    string
	PageNumber int
	PageSize   int
	SortBy     string
	Title      string
	Descending bool
}

func NewCheapSharkClient(opts Options, logger zerolog.Logger) *CheapSharkClient {
	if opts.Name == "" {
		opts.Name = "cheapshark"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = CheapSharkBaseURL
	}
	return &CheapSharkClient{client: NewClient(opts, logger)}
}

func (c *CheapSharkClient) GetDeals(ctx context.Context, q DealQuery) ([]CheapSharkDeal, error) {
	params := url.Values{}
	if q.SortBy != "" {
		params.Set("sortBy", q.SortBy)
	}
	if q.Descending {
		params.Set("desc", "1")
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	params.Set("pageNumber", strconv.Itoa(q.PageNumber))
	if q.StoreID != "" {
		params.Set("storeID", q.StoreID)
	}
	if q.Title != "" {
		params.Set("title", q.Title)
		params.Set("exact", "0")
	}

	deals, err := getJSON[[]CheapSharkDeal](ctx, c.client, "/deals", params)
	if err != nil {
		return nil, err
	}
	return *deals, nil
}

func (c *CheapSharkClient) GetStores(ctx context.Context) ([]CheapSharkStore, error) {
	stores, err := getJSON[[]CheapSharkStore](ctx, c.client, "/stores", nil)
	if err != nil {
		return nil, err
	}
	return *stores, nil
}
