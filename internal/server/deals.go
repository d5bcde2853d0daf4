package server

import (
	"fmt"
	"gamehub/internal/constants"
	"gamehub/internal/domain"
	"gamehub/internal/service"
	"net/http"
	"strings"
)

type alternativeStore struct {
	Name          string `json:"name"`
	Price         string `json:"price"`
	OriginalPrice string `json:"originalPrice"`
	Discount      int    `json:"discount"`
	URL           string `json:"url"`
	StoreID       string `json:"storeID"`
}

type dealGroupResponse struct {
	ID                string             `json:"id"`
	GroupKey          string             `json:"groupKey"`
	Title             string             `json:"title"`
	OriginalPrice     float64            `json:"originalPrice"`
	SalePrice         float64            `json:"salePrice"`
	Discount          int                `json:"discount"`
	Platform          string             `json:"platform"`
	StoreURL          string             `json:"storeUrl"`
	Image             string             `json:"image"`
	Rating            float64            `json:"rating"`
	Genre             string             `json:"genre"`
	DRM               string             `json:"drm"`
	StoreID           string             `json:"storeID"`
	AlternativeStores []alternativeStore `json:"alternativeStores"`
	TotalDeals        int                `json:"totalDeals"`
	MatchConfidence   float64            `json:"matchConfidence"`
}

func (s *Server) listDeals(w http.ResponseWriter, r *http.Request) {
	q := service.DealListQuery{
		StoreID:    strings.TrimSpace(r.URL.Query().Get("storeID")),
		PageNumber: queryInt(r, "pageNumber", 0),
		SortBy:     strings.TrimSpace(r.URL.Query().Get("sortBy")),
	}

	groups, err := s.deals.ListDeals(r.Context(), q)
	if err != nil {
		s.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch deals"})
		return
	}

	resp := make([]dealGroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, toDealGroupResponse(g))
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func toDealGroupResponse(g domain.GameDealGroup) dealGroupResponse {
	best := g.BestDeal()
	alts := g.Alternatives(constants.DealAlternativeLimit)

	resp := dealGroupResponse{
		ID:                g.ID,
		GroupKey:          g.GroupKey,
		Title:             g.Title,
		OriginalPrice:     best.OriginalPrice,
		SalePrice:         best.SalePrice,
		Discount:          best.DiscountPercent,
		Platform:          best.StoreName,
		StoreURL:          best.StoreURL,
		Image:             best.ImageURL,
		Rating:            best.Rating,
		Genre:             "Game",
		DRM:               best.StoreName,
		StoreID:           best.StoreID,
		AlternativeStores: make([]alternativeStore, 0, len(alts)),
		TotalDeals:        len(g.Deals),
		MatchConfidence:   g.MatchConfidence,
	}
	for _, d := range alts {
		resp.AlternativeStores = append(resp.AlternativeStores, alternativeStore{
			Name:          d.StoreName,
			Price:         dollars(d.SalePrice),
			OriginalPrice: dollars(d.OriginalPrice),
			Discount:      d.DiscountPercent,
			URL:           d.StoreURL,
			StoreID:       d.StoreID,
		})
	}
	return resp
}

func dollars(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
