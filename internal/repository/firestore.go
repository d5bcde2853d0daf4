package repository

import (
	"context"
	"fmt"
	"gamehub/internal/domain"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

type FirestoreFavoriteStore struct {
	client *firestore.Client
	logger zerolog.Logger
}

type favoriteDoc struct {
	ItemID   string         `firestore:"itemId"`
	Title    string         `firestore:"title"`
	ImageURL string         `firestore:"imageUrl,omitempty"`
	Data     map[string]any `firestore:"data,omitempty"`
	AddedAt  time.Time      `firestore:"addedAt"`
}

func NewFirestoreFavoriteStore(ctx context.Context, projectID string, logger zerolog.Logger) (*FirestoreFavoriteStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_ID is required for the firestore backend")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}

	logger.Info().Str("project_id", projectID).Msg("connected to firestore")
	return &FirestoreFavoriteStore{client: client, logger: logger}, nil
}

// users/{uid}/{collection}/{itemId}
func (s *FirestoreFavoriteStore) collection(userID string, kind domain.FavoriteKind) *firestore.CollectionRef {
	return s.client.Collection(usersCollection).Doc(userID).Collection(kind.Collection())
}

func docID(itemID string) string {
	return url.PathEscape(itemID)
}

func (s *FirestoreFavoriteStore) List(ctx context.Context, userID string, kind domain.FavoriteKind) ([]domain.Favorite, error) {
	iter := s.collection(userID, kind).OrderBy("addedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	favs := []domain.Favorite{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate favorites: %w", err)
		}

		var fd favoriteDoc
		if err := doc.DataTo(&fd); err != nil {
			s.logger.Warn().Err(err).Str("doc_id", doc.Ref.ID).Msg("skipping undecodable favorite")
			continue
		}
		favs = append(favs, fromFavoriteDoc(userID, kind, fd))
	}
	return favs, nil
}

func (s *FirestoreFavoriteStore) Get(ctx context.Context, userID string, kind domain.FavoriteKind, itemID string) (*domain.Favorite, error) {
	doc, err := s.collection(userID, kind).Doc(docID(itemID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get favorite %s: %w", itemID, err)
	}
	if !doc.Exists() {
		return nil, nil
	}

	var fd favoriteDoc
	if err := doc.DataTo(&fd); err != nil {
		return nil, fmt.Errorf("failed to unmarshal favorite: %w", err)
	}
	fav := fromFavoriteDoc(userID, kind, fd)
	return &fav, nil
}

func (s *FirestoreFavoriteStore) Put(ctx context.Context, fav domain.Favorite) error {
	_, err := s.collection(fav.UserID, fav.Kind).Doc(docID(fav.ItemID)).Set(ctx, toFavoriteDoc(fav))
	if err != nil {
		return fmt.Errorf("failed to set favorite: %w", err)
	}
	return nil
}

func (s *FirestoreFavoriteStore) Delete(ctx context.Context, userID string, kind domain.FavoriteKind, itemID string) error {
	_, err := s.collection(userID, kind).Doc(docID(itemID)).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

// Clear deletes the whole collection in one transaction.
func (s *FirestoreFavoriteStore) Clear(ctx context.Context, userID string, kind domain.FavoriteKind) (int, error) {
	col := s.collection(userID, kind)

	var cleared int
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		cleared = 0
		refs, err := tx.Documents(col).GetAll()
		if err != nil {
			return err
		}
		for _, doc := range refs {
			if err := tx.Delete(doc.Ref); err != nil {
				return err
			}
			cleared++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear favorites: %w", err)
	}
	return cleared, nil
}

func (s *FirestoreFavoriteStore) Close() error {
	return s.client.Close()
}

func toFavoriteDoc(fav domain.Favorite) favoriteDoc {
	return favoriteDoc{
		ItemID:   fav.ItemID,
		Title:    fav.Title,
		ImageURL: fav.ImageURL,
		Data:     fav.Data,
		AddedAt:  fav.AddedAt,
	}
}

func fromFavoriteDoc(userID string, kind domain.FavoriteKind, fd favoriteDoc) domain.Favorite {
	return domain.Favorite{
		UserID:   userID,
		Kind:     kind,
		ItemID:   fd.ItemID,
		Title:    fd.Title,
		ImageURL: fd.ImageURL,
		Data:     fd.Data,
		AddedAt:  fd.AddedAt.UTC(),
	}
}
