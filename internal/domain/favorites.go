package domain

import (
	"fmt"
	"time"
)

type FavoriteKind string

const (
	FavoriteGames   FavoriteKind = "games"
	FavoriteNews    FavoriteKind = "news"
	FavoriteDeals   FavoriteKind = "deals"
	FavoriteReviews FavoriteKind = "reviews"
)

var favoriteCollections = map[FavoriteKind]string{
	FavoriteGames:   "wishlist",
	FavoriteNews:    "favoriteNews",
	FavoriteDeals:   "favoriteDeals",
	FavoriteReviews: "favoriteReviews",
}

func ParseFavoriteKind(s string) (FavoriteKind, error) {
	kind := FavoriteKind(s)
	if _, ok := favoriteCollections[kind]; !ok {
		return "", fmt.Errorf("unknown favorite kind %q: %w", s, ErrInvalidInput)
	}
	return kind, nil
}

// Collection is the per-user sub-collection name the kind is stored under.
func (k FavoriteKind) Collection() string {
	return favoriteCollections[k]
}

type Favorite struct {
	UserID   string
	Kind     FavoriteKind
	ItemID   string
	Title    string
	ImageURL string
	Data     map[string]any
	AddedAt  time.Time
}
