package api

import (
	"context"
	"gamehub/internal/constants"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

const SteamNewsBaseURL = "https://api.steampowered.com/ISteamNews/GetNewsForApp/v2"

type SteamNewsClient struct {
	client *Client
}

type SteamNewsItem struct {
	GID       FlexString  `json:"gid"`
	Title     string      `json:"title"`
	URL       string      `json:"url"`
	Author    string      `json:"author"`
	Contents  string      `json:"contents"`
	FeedLabel string      `json:"feedlabel"`
	FeedName  string      `json:"feedname"`
	Date      int64       `json:"date"`
	AppID     FlexString  `json:"appid"`
	Tags      FlexStrings `json:"tags"`
}

type steamNewsResponse struct {
	AppNews struct {
		AppID     FlexString      `json:"appid"`
		NewsItems []SteamNewsItem `json:"newsitems"`
	} `json:"appnews"`
}

func NewSteamNewsClient(opts Options, logger zerolog.Logger) *SteamNewsClient {
	if opts.Name == "" {
		opts.Name = "steam-news"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = SteamNewsBaseURL
	}
	opts.Headers = map[string]string{
		"User-Agent": constants.UserAgent,
		"Accept":     "application/json",
	}
	return &SteamNewsClient{client: NewClient(opts, logger)}
}

func (c *SteamNewsClient) GetNewsForApp(ctx context.Context, appID string, count int) ([]SteamNewsItem, error) {
	params := url.Values{
		"appid":  {appID},
		"count":  {strconv.Itoa(count)},
		"format": {"json"},
		"l":      {"english"},
	}

	resp, err := getJSON[steamNewsResponse](ctx, c.client, "/", params)
	if err != nil {
		return nil, err
	}

	items := resp.AppNews.NewsItems
	for i := range items {
		if items[i].AppID == "" {
			items[i].AppID = FlexString(appID)
		}
	}
	return items, nil
}
