package service

import (
	"context"
	"errors"
	"fmt"
	"gamehub/internal/api"
	"gamehub/internal/config"
	"gamehub/internal/constants"
	"gamehub/internal/content"
	"gamehub/internal/domain"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	languageSampleLength = 500
	nonASCIIThreshold    = 0.30
)

const placeholderArticleBody = "This gaming news article could not be loaded. This might be due to API rate limits or the article no longer being available. Please try again later or browse other news articles."

var errNoNews = errors.New("no news feeds returned articles")

type categoryRule struct {
	category string
	keywords []string
}

var categoryRules = []categoryRule{
	{"Update", []string{"update", "patch", "version"}},
	{"Esports", []string{"tournament", "esports", "championship"}},
	{"Event", []string{"event"}},
	{"Release", []string{"release", "launch"}},
}

type NewsService struct {
	source NewsSource
	feeds  config.NewsFeeds
	logger zerolog.Logger
	now    func() time.Time

	// merged feed snapshot, reused for ttl
	ttl      time.Duration
	mu       sync.Mutex
	snapshot []domain.NewsArticle
	takenAt  time.Time
	group    singleflight.Group
}

func NewNewsService(source *api.SteamNewsClient, cfg *config.Config, logger zerolog.Logger) *NewsService {
	feeds := cfg.NewsFeeds
	if feeds.BatchDelay == 0 {
		feeds.BatchDelay = constants.NewsBatchDelay
	}
	s := newNewsService(source, feeds, logger)
	s.ttl = cfg.SteamNews.CacheTTL
	return s
}

func newNewsService(source NewsSource, feeds config.NewsFeeds, logger zerolog.Logger) *NewsService {
	if len(feeds.Feeds) == 0 {
		feeds.Feeds = constants.DefaultNewsFeeds
	}
	if feeds.BatchSize <= 0 {
		feeds.BatchSize = constants.NewsBatchSize
	}
	if feeds.PerFeed <= 0 {
		feeds.PerFeed = constants.NewsPerFeed
	}
	if feeds.BatchDelay < 0 {
		feeds.BatchDelay = 0
	}
	return &NewsService{source: source, feeds: feeds, logger: logger, now: time.Now}
}

// ListNews never fails: when no feed can be read the page is empty.
func (s *NewsService) ListNews(ctx context.Context, limit, offset int) domain.NewsPage {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.NewsDefaultLimit
	}
	limit = min(limit, constants.NewsMaxLimit)
	offset = max(offset, 0)

	articles, err := s.articles(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to aggregate news")
		return domain.NewsPage{Articles: []domain.NewsArticle{}}
	}
	return paginate(articles, limit, offset)
}

// GetArticle resolves id against the aggregated feed and falls back to a
// placeholder article when nothing matches.
func (s *NewsService) GetArticle(ctx context.Context, id string) domain.NewsArticle {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	articles, err := s.articles(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("article_id", id).Msg("news unavailable, serving placeholder")
	}

	for _, match := range articleMatchers {
		if article, ok := match(articles, id); ok {
			return article
		}
	}

	s.logger.Info().Str("article_id", id).Msg("article not found, serving placeholder")
	return s.placeholderArticle(id)
}

func paginate(articles []domain.NewsArticle, limit, offset int) domain.NewsPage {
	total := len(articles)
	if offset >= total {
		return domain.NewsPage{Articles: []domain.NewsArticle{}, Total: total, NextOffset: offset}
	}

	// offset < total, so neither sum can overflow
	end := offset + min(limit, total-offset)
	return domain.NewsPage{
		Articles:   append([]domain.NewsArticle{}, articles[offset:end]...),
		Total:      total,
		HasMore:    end < total,
		NextOffset: offset + limit,
	}
}

func (s *NewsService) articles(ctx context.Context) ([]domain.NewsArticle, error) {
	if s.ttl > 0 {
		s.mu.Lock()
		if s.snapshot != nil && s.now().Sub(s.takenAt) < s.ttl {
			articles := s.snapshot
			s.mu.Unlock()
			return articles, nil
		}
		s.mu.Unlock()
	}

	// aggregation is shared by concurrent callers and must not end with the
	// caller that started it
	ch := s.group.DoChan("aggregate", func() (any, error) {
		aggCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.RequestTimeout)
		defer cancel()

		articles, complete, err := s.aggregate(aggCtx)
		if err != nil {
			return nil, err
		}
		if complete && s.ttl > 0 {
			s.mu.Lock()
			s.snapshot = articles
			s.takenAt = s.now()
			s.mu.Unlock()
		}
		return articles, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.NewsArticle), nil
	}
}

type feedResult struct {
	appID string
	items []api.SteamNewsItem
}

// aggregate fetches every feed in fixed-size concurrent batches with a pause
// between batches. A failing feed is skipped. complete is false when ctx
// ended before every batch ran.
func (s *NewsService) aggregate(ctx context.Context) ([]domain.NewsArticle, bool, error) {
	var results []feedResult
	failed := 0

	for start := 0; start < len(s.feeds.Feeds); start += s.feeds.BatchSize {
		if start > 0 && s.feeds.BatchDelay > 0 {
			timer := time.NewTimer(s.feeds.BatchDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				s.logger.Warn().Err(ctx.Err()).Int("fetched_feeds", len(results)).Msg("news aggregation cut short")
				return s.transform(results), false, nil
			case <-timer.C:
			}
		}

		batch := s.feeds.Feeds[start:min(start+s.feeds.BatchSize, len(s.feeds.Feeds))]
		batchResults := make([]feedResult, len(batch))
		batchErrs := make([]error, len(batch))

		g := new(errgroup.Group)
		for i, appID := range batch {
			i, appID := i, appID
			g.Go(func() error {
				apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
				defer cancel()

				items, err := s.source.GetNewsForApp(apiCtx, appID, s.feeds.PerFeed)
				if err != nil {
					batchErrs[i] = err
					return nil
				}
				batchResults[i] = feedResult{appID: appID, items: items}
				return nil
			})
		}
		_ = g.Wait()

		for i, err := range batchErrs {
			if err != nil {
				failed++
				s.logger.Warn().Err(err).Str("app_id", batch[i]).Msg("failed to fetch news feed")
				continue
			}
			results = append(results, batchResults[i])
		}
	}

	if len(results) == 0 && failed > 0 {
		return nil, false, fmt.Errorf("%w: %d feeds failed", errNoNews, failed)
	}

	s.logger.Debug().Int("feeds", len(results)).Int("failed", failed).Msg("news feeds aggregated")
	return s.transform(results), true, nil
}

func (s *NewsService) transform(results []feedResult) []domain.NewsArticle {
	var articles []domain.NewsArticle
	for _, r := range results {
		for i, item := range r.items {
			article, ok := s.toArticle(r.appID, i, item)
			if !ok {
				continue
			}
			articles = append(articles, article)
		}
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	return articles
}

func (s *NewsService) toArticle(appID string, index int, item api.SteamNewsItem) (domain.NewsArticle, bool) {
	title := strings.TrimSpace(item.Title)
	body := content.PlainText(item.Contents)

	if title == "" && body == "" {
		return domain.NewsArticle{}, false
	}
	if !isTargetLanguage(title, body) {
		return domain.NewsArticle{}, false
	}

	id := item.GID.String()
	if id == "" {
		id = fmt.Sprintf("steam-%s-%d", appID, index)
	}

	publishedAt := s.now().UTC()
	if item.Date > 0 {
		publishedAt = time.Unix(item.Date, 0).UTC()
	}

	readSource := item.Contents
	if readSource == "" {
		readSource = title
	}

	return domain.NewsArticle{
		ID:          id,
		Title:       title,
		RawContent:  item.Contents,
		Content:     body,
		Excerpt:     content.Excerpt(item.Contents),
		Author:      item.Author,
		PublishedAt: publishedAt,
		Category:    classify(title, body, item.FeedLabel),
		Tags:        append([]string{}, item.Tags...),
		SourceURL:   item.URL,
		FeedName:    item.FeedName,
		FeedLabel:   item.FeedLabel,
		AppID:       item.AppID.String(),
		ImageURL:    content.LeadImage(item.Contents),
		ReadTime:    content.ReadTime(readSource),
	}, true
}

// isTargetLanguage rejects articles whose title, or the first 500
// characters of body, is more than 30% non-ASCII.
func isTargetLanguage(title, body string) bool {
	if exceedsNonASCII(title) {
		return false
	}
	if utf8.RuneCountInString(body) > languageSampleLength {
		body = string([]rune(body)[:languageSampleLength])
	}
	return !exceedsNonASCII(body)
}

func exceedsNonASCII(sample string) bool {
	total, foreign := 0, 0
	for _, r := range sample {
		total++
		if r > unicode.MaxASCII {
			foreign++
		}
	}
	if total == 0 {
		return false
	}
	return float64(foreign) > float64(total)*nonASCIIThreshold
}

func classify(title, body, feedLabel string) string {
	t, b := strings.ToLower(title), strings.ToLower(body)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) || strings.Contains(b, kw) {
				return rule.category
			}
		}
	}
	if strings.Contains(strings.ToLower(feedLabel), "community") {
		return "Community"
	}
	return "News"
}

type articleMatcher func(articles []domain.NewsArticle, id string) (domain.NewsArticle, bool)

var articleMatchers = []articleMatcher{
	matchExactID,
	matchNormalizedID,
	matchPartialID,
	matchIndex,
}

func matchExactID(articles []domain.NewsArticle, id string) (domain.NewsArticle, bool) {
	for _, a := range articles {
		if a.ID == id {
			return a, true
		}
	}
	return domain.NewsArticle{}, false
}

func matchNormalizedID(articles []domain.NewsArticle, id string) (domain.NewsArticle, bool) {
	want := strings.TrimSpace(id)
	for _, a := range articles {
		if strings.EqualFold(strings.TrimSpace(a.ID), want) {
			return a, true
		}
	}
	return domain.NewsArticle{}, false
}

func matchPartialID(articles []domain.NewsArticle, id string) (domain.NewsArticle, bool) {
	if id == "" {
		return domain.NewsArticle{}, false
	}
	for _, a := range articles {
		if a.ID == "" {
			continue
		}
		if strings.Contains(a.ID, id) || strings.Contains(id, a.ID) {
			return a, true
		}
	}
	return domain.NewsArticle{}, false
}

func matchIndex(articles []domain.NewsArticle, id string) (domain.NewsArticle, bool) {
	n, err := strconv.Atoi(id)
	if err != nil || n < 0 || n >= len(articles) || strings.TrimLeft(id, "0123456789") != "" {
		return domain.NewsArticle{}, false
	}
	return articles[n], true
}

func (s *NewsService) placeholderArticle(id string) domain.NewsArticle {
	return domain.NewsArticle{
		ID:          id,
		Title:       "Gaming News Article",
		RawContent:  placeholderArticleBody,
		Content:     placeholderArticleBody,
		Excerpt:     content.Excerpt(placeholderArticleBody),
		Author:      "GameHub News",
		PublishedAt: s.now().UTC(),
		Category:    "News",
		Tags:        []string{},
		FeedName:    "GameHub",
		FeedLabel:   "News",
		ReadTime:    content.ReadTime(placeholderArticleBody),
	}
}
