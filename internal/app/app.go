package app

import (
	"context"
	"fmt"

	"github.com/glabrego/fotoflix-cli/internal/favorites"
	"github.com/glabrego/fotoflix-cli/internal/feed"
	"github.com/glabrego/fotoflix-cli/internal/unsplash"
)

type PhotoClient interface {
	ListPhotos(ctx context.Context, page int) ([]unsplash.Photo, error)
	SearchPhotos(ctx context.Context, query string, page int) ([]unsplash.Photo, error)
}

type FavoritesStore interface {
	Initialize(ctx context.Context) favorites.Set
	Toggle(ctx context.Context, set favorites.Set, photo unsplash.Photo) favorites.Set
	Clear(ctx context.Context) favorites.Set
}

type Service struct {
	client    PhotoClient
	favorites FavoritesStore
}

func NewService(client PhotoClient, store FavoritesStore) *Service {
	return &Service{client: client, favorites: store}
}

// Fetch retrieves the page req describes from Unsplash.
func (s *Service) Fetch(ctx context.Context, req feed.Request) ([]unsplash.Photo, error) {
	if s.client == nil {
		return nil, fmt.Errorf("fetch photos: no API client configured")
	}
	photos, err := feed.Fetch(ctx, s.client, req)
	if err != nil {
		return nil, fmt.Errorf("fetch photos from unsplash: %w", err)
	}
	return photos, nil
}

func (s *Service) LoadFavorites(ctx context.Context) favorites.Set {
	return s.favorites.Initialize(ctx)
}

func (s *Service) ToggleFavorite(ctx context.Context, set favorites.Set, photo unsplash.Photo) favorites.Set {
	return s.favorites.Toggle(ctx, set, photo)
}

func (s *Service) ClearFavorites(ctx context.Context) favorites.Set {
	return s.favorites.Clear(ctx)
}
