package server

import (
	"context"
	"encoding/json"
	"errors"
	"gamehub/internal/domain"
	"gamehub/internal/service"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type DealLister interface {
	ListDeals(ctx context.Context, q service.DealListQuery) ([]domain.GameDealGroup, error)
}

type GameCatalog interface {
	ListGames(ctx context.Context, q service.GameListQuery) []domain.GameSummary
	GetGame(ctx context.Context, id string) (*domain.GameDetail, error)
	GetPricing(ctx context.Context, id string) []domain.PricingOption
}

type NewsFeed interface {
	ListNews(ctx context.Context, limit, offset int) domain.NewsPage
	GetArticle(ctx context.Context, id string) domain.NewsArticle
}

type ReviewLister interface {
	ListReviews(ctx context.Context, q service.ReviewListQuery) domain.ReviewPage
}

type Favorites interface {
	List(ctx context.Context, userID string, kind domain.FavoriteKind) ([]domain.Favorite, error)
	IsFavorited(ctx context.Context, userID string, kind domain.FavoriteKind, itemID string) (bool, error)
	Add(ctx context.Context, userID string, kind domain.FavoriteKind, itemID string, in service.FavoriteInput) (*domain.Favorite, error)
	Remove(ctx context.Context, userID string, kind domain.FavoriteKind, itemID string) error
	Clear(ctx context.Context, userID string, kind domain.FavoriteKind) (int, error)
}

type Server struct {
	deals     DealLister
	games     GameCatalog
	news      NewsFeed
	reviews   ReviewLister
	favorites Favorites
	logger    zerolog.Logger
}

func NewServer(
	deals *service.DealService,
	games *service.GameService,
	news *service.NewsService,
	reviews *service.ReviewService,
	favorites *service.FavoriteService,
	logger zerolog.Logger,
) *Server {
	return newServer(deals, games, news, reviews, favorites, logger)
}

func newServer(deals DealLister, games GameCatalog, news NewsFeed, reviews ReviewLister, favorites Favorites, logger zerolog.Logger) *Server {
	return &Server{
		deals:     deals,
		games:     games,
		news:      news,
		reviews:   reviews,
		favorites: favorites,
		logger:    logger,
	}
}

// Register mounts every route on r. auth guards the favorites routes.
func (s *Server) Register(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/health", s.health)

	r.Get("/deals", s.listDeals)

	r.Get("/games", s.listGames)
	r.Get("/games/{id}", s.getGame)
	r.Get("/games/{id}/pricing", s.getPricing)

	r.Get("/news", s.listNews)
	r.Get("/news/{id}", s.getArticle)

	r.Get("/reviews", s.listReviews)

	r.Route("/favorites/{kind}", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", s.listFavorites)
		r.Delete("/", s.clearFavorites)
		r.Get("/{itemId}", s.getFavorite)
		r.Put("/{itemId}", s.putFavorite)
		r.Delete("/{itemId}", s.deleteFavorite)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to encode response")
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses. title is
// used for the 500 case.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, title, message string) {
	status := http.StatusInternalServerError
	resp := errorResponse{Error: title, Message: message}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		resp.Error = "Not found"
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
		resp = errorResponse{Error: "Invalid request", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
		resp = errorResponse{Error: "Unauthorized"}
	}

	log := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request rejected")
	}
	s.writeJSON(w, r, status, resp)
}

// queryInt parses a non-negative integer query value, returning fallback
// when the value is absent, malformed or negative.
func queryInt(r *http.Request, key string, fallback int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
