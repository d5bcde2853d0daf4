package server

import (
	"errors"
	"fmt"
	"gamehub/internal/domain"
	"gamehub/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type gameSummaryResponse struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Image       string  `json:"image"`
	Genre       string  `json:"genre"`
	Platform    string  `json:"platform"`
	ReleaseDate string  `json:"releaseDate"`
	Rating      float64 `json:"rating"`
	Players     string  `json:"players"`
}

type gameDetailResponse struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Genre           string   `json:"genre"`
	Platforms       []string `json:"platforms"`
	Rating          float64  `json:"rating"`
	ReleaseDate     string   `json:"releaseDate"`
	Price           string   `json:"price"`
	OriginalPrice   string   `json:"originalPrice"`
	Developer       string   `json:"developer"`
	Publisher       string   `json:"publisher"`
	Image           string   `json:"image"`
	Screenshots     []string `json:"screenshots"`
	Description     string   `json:"description"`
	Players         string   `json:"players"`
	ESRBRating      string   `json:"esrbRating"`
	MetacriticScore *int     `json:"metacriticScore"`
	Tags            []string `json:"tags"`
}

type pricingResponse struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	Price         string `json:"price"`
	OriginalPrice string `json:"originalPrice,omitempty"`
	Discount      int    `json:"discount,omitempty"`
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	games := s.games.ListGames(r.Context(), service.GameListQuery{
		Search:    query.Get("search"),
		Genres:    query.Get("genres"),
		Platforms: query.Get("platforms"),
		Page:      queryInt(r, "page", 1),
	})

	resp := make([]gameSummaryResponse, 0, len(games))
	for _, g := range games {
		resp = append(resp, gameSummaryResponse(g))
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	game, err := s.games.GetGame(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeJSON(w, r, http.StatusNotFound, errorResponse{
				Error:   "Game not found",
				Message: fmt.Sprintf("Game with ID %s was not found in our database.", id),
			})
			return
		}
		s.writeError(w, r, err, "Failed to fetch game", "There was an error retrieving the game data. Please try again later.")
		return
	}

	s.writeJSON(w, r, http.StatusOK, gameDetailResponse(*game))
}

func (s *Server) getPricing(w http.ResponseWriter, r *http.Request) {
	offers := s.games.GetPricing(r.Context(), chi.URLParam(r, "id"))

	resp := make([]pricingResponse, 0, len(offers))
	for _, o := range offers {
		p := pricingResponse{Name: o.StoreName, URL: o.URL, Price: dollars(o.SalePrice)}
		if o.Discount > 0 {
			p.OriginalPrice = dollars(o.OriginalPrice)
			p.Discount = o.Discount
		}
		resp = append(resp, p)
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}
