package server

import (
	"gamehub/internal/constants"
	"gamehub/internal/domain"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type articleResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	RawContent  string   `json:"rawContent"`
	Author      string   `json:"author"`
	PublishDate string   `json:"publishDate"`
	PublishedAt int64    `json:"publishedAt"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	SourceURL   string   `json:"sourceUrl,omitempty"`
	FeedName    string   `json:"feedName"`
	FeedLabel   string   `json:"feedLabel,omitempty"`
	AppID       string   `json:"appId,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	ReadTime    string   `json:"readTime"`
}

type newsPageResponse struct {
	Articles   []articleResponse `json:"articles"`
	Total      int               `json:"total"`
	HasMore    bool              `json:"hasMore"`
	NextOffset int               `json:"nextOffset"`
}

func (s *Server) listNews(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", constants.NewsDefaultLimit)
	offset := queryInt(r, "offset", 0)

	page := s.news.ListNews(r.Context(), limit, offset)

	resp := newsPageResponse{
		Articles:   make([]articleResponse, 0, len(page.Articles)),
		Total:      page.Total,
		HasMore:    page.HasMore,
		NextOffset: page.NextOffset,
	}
	if page.Total == 0 {
		resp.NextOffset = 0
	}
	for _, a := range page.Articles {
		resp.Articles = append(resp.Articles, toArticleResponse(a))
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	article := s.news.GetArticle(r.Context(), chi.URLParam(r, "id"))
	s.writeJSON(w, r, http.StatusOK, toArticleResponse(article))
}

func toArticleResponse(a domain.NewsArticle) articleResponse {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return articleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Excerpt:     a.Excerpt,
		Content:     a.Content,
		RawContent:  a.RawContent,
		Author:      a.Author,
		PublishDate: a.PublishedAt.UTC().Format("2006-01-02"),
		PublishedAt: a.PublishedAt.Unix(),
		Category:    a.Category,
		Tags:        tags,
		SourceURL:   a.SourceURL,
		FeedName:    a.FeedName,
		FeedLabel:   a.FeedLabel,
		AppID:       a.AppID,
		ImageURL:    a.ImageURL,
		ReadTime:    a.ReadTime,
	}
}
