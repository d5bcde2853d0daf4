package server

import (
	"encoding/json"
	"fmt"
	"gamehub/internal/domain"
	"gamehub/internal/middleware"
	"gamehub/internal/service"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const maxFavoriteBody = 64 << 10

type favoriteResponse struct {
	ItemID   string         `json:"itemId"`
	Kind     string         `json:"kind"`
	Title    string         `json:"title"`
	ImageURL string         `json:"imageUrl,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	AddedAt  time.Time      `json:"addedAt"`
}

func toFavoriteResponse(f domain.Favorite) favoriteResponse {
	return favoriteResponse{
		ItemID:   f.ItemID,
		Kind:     string(f.Kind),
		Title:    f.Title,
		ImageURL: f.ImageURL,
		Data:     f.Data,
		AddedAt:  f.AddedAt,
	}
}

// favoriteScope resolves the authenticated user and the {kind} path value.
// It writes the error response itself and returns ok=false on failure.
func (s *Server) favoriteScope(w http.ResponseWriter, r *http.Request) (string, domain.FavoriteKind, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthorized, "", "")
		return "", "", false
	}
	kind, err := domain.ParseFavoriteKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, r, err, "", "")
		return "", "", false
	}
	return userID, kind, true
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := s.favoriteScope(w, r)
	if !ok {
		return
	}

	favs, err := s.favorites.List(r.Context(), userID, kind)
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch favorites", "")
		return
	}

	resp := make([]favoriteResponse, 0, len(favs))
	for _, f := range favs {
		resp = append(resp, toFavoriteResponse(f))
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) getFavorite(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := s.favoriteScope(w, r)
	if !ok {
		return
	}

	favorited, err := s.favorites.IsFavorited(r.Context(), userID, kind, chi.URLParam(r, "itemId"))
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch favorite", "")
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]bool{"favorited": favorited})
}

func (s *Server) putFavorite(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := s.favoriteScope(w, r)
	if !ok {
		return
	}

	var in service.FavoriteInput
	dec := json.NewDecoder(io.LimitReader(r.Body, maxFavoriteBody))
	if err := dec.Decode(&in); err != nil {
		s.writeError(w, r, fmt.Errorf("malformed favorite payload: %v: %w", err, domain.ErrInvalidInput), "", "")
		return
	}

	fav, err := s.favorites.Add(r.Context(), userID, kind, chi.URLParam(r, "itemId"), in)
	if err != nil {
		s.writeError(w, r, err, "Failed to save favorite", "")
		return
	}
	s.writeJSON(w, r, http.StatusOK, toFavoriteResponse(*fav))
}

func (s *Server) deleteFavorite(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := s.favoriteScope(w, r)
	if !ok {
		return
	}

	if err := s.favorites.Remove(r.Context(), userID, kind, chi.URLParam(r, "itemId")); err != nil {
		s.writeError(w, r, err, "Failed to remove favorite", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearFavorites(w http.ResponseWriter, r *http.Request) {
	userID, kind, ok := s.favoriteScope(w, r)
	if !ok {
		return
	}

	n, err := s.favorites.Clear(r.Context(), userID, kind)
	if err != nil {
		s.writeError(w, r, err, "Failed to clear favorites", "")
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]int{"cleared": n})
}
