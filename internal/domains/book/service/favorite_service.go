package service

import (
	"context"
	"errors"
	"fmt"

	"bookcatalog-backend/internal/domains/book/model"
	"bookcatalog-backend/internal/domains/book/repository"
	"bookcatalog-backend/pkg/cache"
	"bookcatalog-backend/pkg/logger"
)

type FavoriteService struct {
	repo    repository.RepositoryInterface
	cache   cache.Cache
	storage ObjectStorage
}

func NewFavoriteService(
	repo repository.RepositoryInterface,
	cache cache.Cache,
	storage ObjectStorage,
) FavoriteServiceInterface {
	return &FavoriteService{
		repo:    repo,
		cache:   cache,
		storage: storage,
	}
}

func (s *FavoriteService) ListFavorites(ctx context.Context, userID int64) ([]model.FavoriteResponse, error) {
	rows, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	responses := make([]model.FavoriteResponse, len(rows))
	for i := range rows {
		responses[i] = toFavoriteResponse(&rows[i], s.storage.PublicURL)
	}
	return responses, nil
}

func (s *FavoriteService) GetFavorite(ctx context.Context, userID, favoriteID int64) (*model.FavoriteResponse, error) {
	row, err := s.repo.GetFavorite(ctx, userID, favoriteID)
	if err != nil {
		return nil, err
	}
	resp := toFavoriteResponse(row, s.storage.PublicURL)
	return &resp, nil
}

func (s *FavoriteService) AddFavorite(ctx context.Context, userID int64, req *model.AddFavoriteRequest) (*model.FavoriteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id, err := s.repo.InsertFavorite(ctx, userID, req.BookID)
	if err != nil {
		return nil, err
	}

	s.invalidateUserSearchCache(ctx, userID)
	logger.Info("favorite added", map[string]interface{}{
		"user_id": userID,
		"book_id": req.BookID,
	})
	return s.GetFavorite(ctx, userID, id)
}

func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, favoriteID int64) error {
	if err := s.repo.DeleteFavorite(ctx, userID, favoriteID); err != nil {
		return err
	}
	s.invalidateUserSearchCache(ctx, userID)
	logger.Info("favorite removed", map[string]interface{}{
		"user_id":     userID,
		"favorite_id": favoriteID,
	})
	return nil
}

func (s *FavoriteService) ToggleFavorite(ctx context.Context, userID int64, req *model.ToggleFavoriteRequest) (*model.ToggleFavoriteResponse, error) {
	if req.BookID == 0 {
		return nil, model.ErrBookIDRequired
	}
	exists, err := s.repo.BookExists(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrBookNotFound
	}

	removed, err := s.repo.DeleteFavoriteByBook(ctx, userID, req.BookID)
	if err != nil {
		return nil, err
	}
	resp := &model.ToggleFavoriteResponse{}
	if removed {
		resp.Message = "Book removed from favorites"
		resp.IsFavorited = false
	} else {
		if _, err := s.repo.InsertFavorite(ctx, userID, req.BookID); err != nil {
			// A concurrent toggle may have won the insert; the book is
			// favorited either way.
			if !errors.Is(err, model.ErrAlreadyFavorited) {
				return nil, err
			}
		}
		resp.Message = "Book added to favorites"
		resp.IsFavorited = true
	}

	s.invalidateUserSearchCache(ctx, userID)
	logger.Info("favorite toggled", map[string]interface{}{
		"user_id":      userID,
		"book_id":      req.BookID,
		"is_favorited": resp.IsFavorited,
	})
	return resp, nil
}

// invalidateUserSearchCache drops one user's cached searches. The
// is_favorited flags in those payloads are stale once their favorites
// change; other users' entries are unaffected.
func (s *FavoriteService) invalidateUserSearchCache(ctx context.Context, userID int64) {
	pattern := fmt.Sprintf("%s:u%d:*", searchCachePrefix, userID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		logger.Warn("failed to invalidate search cache", map[string]interface{}{
			"pattern": pattern,
			"error":   err.Error(),
		})
	}
}

func toFavoriteResponse(row *model.FavoriteRow, resolve func(string) string) model.FavoriteResponse {
	decorateListItem(&row.BookListItem, resolve)
	return model.FavoriteResponse{
		ID:        row.FavoriteID,
		Book:      row.BookListItem,
		CreatedAt: row.FavoritedAt,
	}
}
