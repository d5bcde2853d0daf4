package service

import (
	"context"
	"fmt"
	"gamehub/internal/api"
	"gamehub/internal/constants"
	"gamehub/internal/content"
	"gamehub/internal/domain"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	defaultStarRating = 3.0
	defaultExcerpt    = "Professional game review from GameSpot."
	defaultVerdict    = "A comprehensive review from GameSpot's expert reviewers."
	reviewURLFormat   = "https://www.gamespot.com/reviews/%s/"
)

type ReviewService struct {
	source ReviewSource
	logger zerolog.Logger
	now    func() time.Time
}

type ReviewListQuery struct {
	Offset int
	Limit  int
	Search string
}

// imageResolver returns an artwork URL for r, or "" to defer to the next
// resolver.
type imageResolver func(ctx context.Context, r api.GameSpotReview) string

func NewReviewService(source *api.GameSpotClient, logger zerolog.Logger) *ReviewService {
	return newReviewService(source, logger)
}

func newReviewService(source ReviewSource, logger zerolog.Logger) *ReviewService {
	return &ReviewService{source: source, logger: logger, now: time.Now}
}

// ListReviews never fails. An unreachable upstream yields an empty page and
// per-review artwork lookups degrade to a placeholder.
func (s *ReviewService) ListReviews(ctx context.Context, q ReviewListQuery) domain.ReviewPage {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if q.Limit <= 0 {
		q.Limit = constants.ReviewsPageSize
	}
	q.Limit = min(q.Limit, 100)
	q.Offset = max(q.Offset, 0)
	q.Search = strings.TrimSpace(q.Search)

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	page, err := s.source.GetReviews(apiCtx, api.ReviewQuery{Limit: q.Limit, Offset: q.Offset, Search: q.Search})
	apiCancel()
	if err != nil {
		s.logger.Error().Err(err).Str("search", q.Search).Msg("failed to fetch reviews")
		return domain.ReviewPage{Reviews: []domain.Review{}}
	}

	reviews := make([]domain.Review, len(page.Reviews))
	g := new(errgroup.Group)
	g.SetLimit(constants.ReviewImageFetch)
	for i, raw := range page.Reviews {
		i, raw := i, raw
		g.Go(func() error {
			reviews[i] = s.toReview(ctx, raw, uint64(q.Offset)+uint64(i))
			return nil
		})
	}
	_ = g.Wait()

	return domain.ReviewPage{
		Reviews: reviews,
		Total:   page.Total,
		HasMore: page.Total-q.Offset > len(reviews),
	}
}

// position is offset+index, unsigned so it cannot wrap.
func (s *ReviewService) toReview(ctx context.Context, r api.GameSpotReview, position uint64) domain.Review {
	review := domain.Review{
		ID:          r.ID.String(),
		ReviewTitle: strings.TrimSpace(r.Title),
		GameImage:   s.resolveImage(ctx, r),
		Rating:      defaultStarRating,
		Excerpt:     firstNonEmpty(r.Deck, r.Lede, content.Excerpt(r.Body), defaultExcerpt),
		Content:     r.Body,
		Verdict:     firstNonEmpty(r.Deck, r.Lede, defaultVerdict),
		Author:      firstNonEmpty(r.Author, r.Authors, "GameSpot Staff"),
		PublishDate: s.publishDate(r.PublishDate),
		Genre:       "Game",
		Platform:    "PC",
		SourceURL:   r.SiteDetailURL,
	}

	if review.ID == "" {
		review.ID = fmt.Sprintf("gamespot-%d", position)
	}
	if r.Game != nil {
		review.GameID = r.Game.ID.String()
		review.GameTitle = r.Game.Name
		if len(r.Game.Genres) > 0 && r.Game.Genres[0].Name != "" {
			review.Genre = r.Game.Genres[0].Name
		}
		if len(r.Game.Platforms) > 0 && r.Game.Platforms[0].Name != "" {
			review.Platform = r.Game.Platforms[0].Name
		}
	}
	if review.ReviewTitle == "" {
		review.ReviewTitle = firstNonEmpty(review.GameTitle, "GameSpot") + " Review"
	}
	if review.SourceURL == "" {
		review.SourceURL = fmt.Sprintf(reviewURLFormat, review.ID)
	}
	if r.Score.Valid {
		score := r.Score.Value
		review.OriginalScore = &score
		review.Rating = starRating(score)
	}
	return review
}

// starRating maps a 0-10 score onto 0-5 stars with one decimal.
func starRating(score float64) float64 {
	stars := math.Round(score/10*5*10) / 10
	return min(max(stars, 0), 5)
}

func (s *ReviewService) publishDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if len(raw) >= 10 {
		return raw[:10]
	}
	return s.now().UTC().Format("2006-01-02")
}

func (s *ReviewService) resolveImage(ctx context.Context, r api.GameSpotReview) string {
	chain := []imageResolver{
		reviewImage,
		embeddedGameImage,
		s.gameDetailImage,
		s.gameSearchImage,
	}
	for _, resolve := range chain {
		if img := resolve(ctx, r); img != "" {
			return img
		}
	}
	return constants.ReviewPlaceholderImage
}

func reviewImage(_ context.Context, r api.GameSpotReview) string {
	if r.Image == nil {
		return ""
	}
	return firstNonEmpty(r.Image.SquareSmall, r.Image.SquareTiny, r.Image.Original)
}

func embeddedGameImage(_ context.Context, r api.GameSpotReview) string {
	if r.Game == nil {
		return ""
	}
	return gameImage(r.Game.Image)
}

func (s *ReviewService) gameDetailImage(ctx context.Context, r api.GameSpotReview) string {
	if r.Game == nil || r.Game.ID == "" {
		return ""
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	game, err := s.source.GetGameDetails(apiCtx, r.Game.ID.String())
	if err != nil {
		s.logger.Warn().Err(err).Str("game_id", r.Game.ID.String()).Msg("game detail lookup failed")
		return ""
	}
	return gameImage(game.Image)
}

func (s *ReviewService) gameSearchImage(ctx context.Context, r api.GameSpotReview) string {
	if r.Game == nil || r.Game.ID != "" || strings.TrimSpace(r.Game.Name) == "" {
		return ""
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	games, err := s.source.SearchGames(apiCtx, r.Game.Name)
	if err != nil {
		s.logger.Warn().Err(err).Str("game", r.Game.Name).Msg("game search failed")
		return ""
	}
	if len(games) == 0 {
		return ""
	}
	return gameImage(games[0].Image)
}

func gameImage(img *api.GameSpotImage) string {
	if img == nil {
		return ""
	}
	return firstNonEmpty(img.MediumURL, img.SmallURL, img.OriginalURL)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
