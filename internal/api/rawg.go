package api

import (
	"context"
	"fmt"
	"gamehub/internal/domain"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

const RAWGBaseURL = "https://api.rawg.io/api"

type RAWGClient struct {
	client *Client
	logger zerolog.Logger
}

type RAWGNamed struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type RAWGPlatformEntry struct {
	Platform RAWGNamed `json:"platform"`
}

type RAWGGame struct {
	ID              int                 `json:"id"`
	Name            string              `json:"name"`
	Released        string              `json:"released"`
	BackgroundImage string              `json:"background_image"`
	Rating          float64             `json:"rating"`
	Playtime        int                 `json:"playtime"`
	Genres          []RAWGNamed         `json:"genres"`
	Platforms       []RAWGPlatformEntry `json:"platforms"`
}

type RAWGGameDetail struct {
	RAWGGame
	Description    string      `json:"description"`
	DescriptionRaw string      `json:"description_raw"`
	Developers     []RAWGNamed `json:"developers"`
	Publishers     []RAWGNamed `json:"publishers"`
	Tags           []RAWGNamed `json:"tags"`
	ESRBRating     *RAWGNamed  `json:"esrb_rating"`
	Metacritic     *int        `json:"metacritic"`
}

type RAWGGamesPage struct {
	Count   int        `json:"count"`
	Results []RAWGGame `json:"results"`
}

type rawgScreenshotsPage struct {
	Results []struct {
		Image string `json:"image"`
	} `json:"results"`
}

type GameQuery struct {
	Search    string
	Genres    string
	Platforms string
	Page      int
	PageSize  int
}

func NewRAWGClient(apiKey string, opts Options, logger zerolog.Logger) *RAWGClient {
	if opts.Name == "" {
		opts.Name = "rawg"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = RAWGBaseURL
	}
	opts.Credentials = url.Values{"key": {apiKey}}
	return &RAWGClient{client: NewClient(opts, logger), logger: logger}
}

func (c *RAWGClient) GetGames(ctx context.Context, q GameQuery) (*RAWGGamesPage, error) {
	params := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	if q.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Genres != "" {
		params.Set("genres", q.Genres)
	}
	if q.Platforms != "" {
		params.Set("platforms", q.Platforms)
	}

	return getJSON[RAWGGamesPage](ctx, c.client, "/games", params)
}

// GetGame returns domain.ErrNotFound both for a 404 and for a payload that
// carries no game id.
func (c *RAWGClient) GetGame(ctx context.Context, id string) (*RAWGGameDetail, error) {
	endpoint := "/games/" + url.PathEscape(id)
	game, err := getJSON[RAWGGameDetail](ctx, c.client, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if game.ID == 0 {
		return nil, fmt.Errorf("rawg game %s has no id: %w", id, domain.ErrNotFound)
	}
	return game, nil
}

// GetGameScreenshots never fails; screenshots are decoration.
func (c *RAWGClient) GetGameScreenshots(ctx context.Context, id string) []string {
	endpoint := "/games/" + url.PathEscape(id) + "/screenshots"
	page, err := getJSON[rawgScreenshotsPage](ctx, c.client, endpoint, nil)
	if err != nil {
		c.logger.Warn().Err(err).Str("game_id", id).Msg("failed to fetch screenshots")
		return nil
	}

	images := make([]string, 0, len(page.Results))
	for _, s := range page.Results {
		if s.Image != "" {
			images = append(images, s.Image)
		}
	}
	return images
}
