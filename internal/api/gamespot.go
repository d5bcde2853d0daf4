package api

import (
	"context"
	"encoding/json"
	"fmt"
	"gamehub/internal/constants"
	"gamehub/internal/domain"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

const GameSpotBaseURL = "https://www.gamespot.com/api"

type GameSpotClient struct {
	client *Client
}

type GameSpotImage struct {
	SquareSmall string `json:"square_small"`
	SquareTiny  string `json:"square_tiny"`
	Original    string `json:"original"`
	MediumURL   string `json:"medium_url"`
	SmallURL    string `json:"small_url"`
	OriginalURL string `json:"original_url"`
}

type GameSpotNamed struct {
	Name string `json:"name"`
}

type GameSpotGame struct {
	ID        FlexString      `json:"id"`
	Name      string          `json:"name"`
	Deck      string          `json:"deck"`
	Image     *GameSpotImage  `json:"image"`
	Genres    []GameSpotNamed `json:"genres"`
	Platforms []GameSpotNamed `json:"platforms"`
}

type GameSpotReview struct {
	ID            FlexString     `json:"id"`
	Title         string         `json:"title"`
	Deck          string         `json:"deck"`
	Lede          string         `json:"lede"`
	Body          string         `json:"body"`
	Score         FlexFloat      `json:"score"`
	Author        string         `json:"author"`
	Authors       string         `json:"authors"`
	PublishDate   string         `json:"publish_date"`
	SiteDetailURL string         `json:"site_detail_url"`
	Image         *GameSpotImage `json:"image"`
	Game          *GameSpotGame  `json:"game"`
}

type GameSpotReviewsPage struct {
	Total   int
	Reviews []GameSpotReview
}

type gameSpotEnvelope struct {
	Error                string          `json:"error"`
	StatusCode           int             `json:"status_code"`
	NumberOfTotalResults int             `json:"number_of_total_results"`
	Results              json.RawMessage `json:"results"`
}

type ReviewQuery struct {
	Limit  int
	Offset int
	Search string
}

func NewGameSpotClient(apiKey string, opts Options, logger zerolog.Logger) *GameSpotClient {
	if opts.Name == "" {
		opts.Name = "gamespot"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = GameSpotBaseURL
	}
	opts.Credentials = url.Values{"api_key": {apiKey}}
	opts.Headers = map[string]string{
		"User-Agent": constants.UserAgent,
		"Accept":     "application/json",
	}
	return &GameSpotClient{client: NewClient(opts, logger)}
}

func (c *GameSpotClient) GetReviews(ctx context.Context, q ReviewQuery) (*GameSpotReviewsPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = constants.ReviewsPageSize
	}
	params := url.Values{
		"format": {"json"},
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(max(q.Offset, 0))},
		"sort":   {"publish_date:desc"},
	}
	if q.Search != "" {
		params.Set("filter", "title:"+q.Search)
	}

	env, err := c.envelope(ctx, "/reviews/", params)
	if err != nil {
		return nil, err
	}

	var reviews []GameSpotReview
	if err := decodeResults(env.Results, &reviews); err != nil {
		return nil, &UpstreamError{Upstream: c.client.name, Endpoint: "/reviews/", Kind: domain.ErrMalformedUpstream, Cause: err}
	}
	return &GameSpotReviewsPage{Total: env.NumberOfTotalResults, Reviews: reviews}, nil
}

func (c *GameSpotClient) GetGameDetails(ctx context.Context, id string) (*GameSpotGame, error) {
	endpoint := "/games/" + url.PathEscape(id) + "/"
	params := url.Values{
		"format":     {"json"},
		"field_list": {"id,name,image,deck,genres,platforms"},
	}

	env, err := c.envelope(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var game GameSpotGame
	if err := decodeResults(env.Results, &game); err != nil {
		return nil, &UpstreamError{Upstream: c.client.name, Endpoint: endpoint, Kind: domain.ErrMalformedUpstream, Cause: err}
	}
	return &game, nil
}

func (c *GameSpotClient) SearchGames(ctx context.Context, name string) ([]GameSpotGame, error) {
	params := url.Values{
		"format":     {"json"},
		"query":      {name},
		"resources":  {"game"},
		"limit":      {"10"},
		"field_list": {"id,name,image,deck"},
	}

	env, err := c.envelope(ctx, "/search/", params)
	if err != nil {
		return nil, err
	}

	var games []GameSpotGame
	if err := decodeResults(env.Results, &games); err != nil {
		return nil, &UpstreamError{Upstream: c.client.name, Endpoint: "/search/", Kind: domain.ErrMalformedUpstream, Cause: err}
	}
	return games, nil
}

// GameSpot reports failures in-band; anything other than "OK" is treated as
// the upstream being unavailable.
func (c *GameSpotClient) envelope(ctx context.Context, endpoint string, params url.Values) (*gameSpotEnvelope, error) {
	env, err := getJSON[gameSpotEnvelope](ctx, c.client, endpoint, params)
	if err != nil {
		return nil, err
	}
	if env.Error != "" && env.Error != "OK" {
		return nil, &UpstreamError{
			Upstream: c.client.name,
			Endpoint: endpoint,
			Kind:     domain.ErrUpstreamUnavailable,
			Cause:    fmt.Errorf("gamespot error %q (status_code %d)", env.Error, env.StatusCode),
		}
	}
	return env, nil
}

func decodeResults(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	// an empty result set sometimes comes back as [] where an object is expected
	if string(raw) == "[]" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
