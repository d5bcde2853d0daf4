package server

import (
	"gamehub/internal/constants"
	"gamehub/internal/service"
	"net/http"
)

type reviewResponse struct {
	ID            string   `json:"id"`
	ReviewTitle   string   `json:"reviewTitle"`
	GameID        string   `json:"gameId,omitempty"`
	GameTitle     string   `json:"gameTitle"`
	GameImage     string   `json:"gameImage"`
	Rating        float64  `json:"rating"`
	OriginalScore *float64 `json:"originalScore,omitempty"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content"`
	Verdict       string   `json:"verdict"`
	Author        string   `json:"author"`
	PublishDate   string   `json:"publishDate"`
	Genre         string   `json:"genre"`
	Platform      string   `json:"platform"`
	SourceURL     string   `json:"sourceUrl"`
}

type reviewPageResponse struct {
	Reviews []reviewResponse `json:"reviews"`
	HasMore bool             `json:"hasMore"`
	Total   int              `json:"total"`
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	page := s.reviews.ListReviews(r.Context(), service.ReviewListQuery{
		Offset: queryInt(r, "offset", 0),
		Limit:  queryInt(r, "limit", constants.ReviewsPageSize),
		Search: r.URL.Query().Get("search"),
	})

	resp := reviewPageResponse{
		Reviews: make([]reviewResponse, 0, len(page.Reviews)),
		HasMore: page.HasMore,
		Total:   page.Total,
	}
	for _, rv := range page.Reviews {
		resp.Reviews = append(resp.Reviews, reviewResponse(rv))
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}
