package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog-backend/internal/domains/book/model"
)

func newTestFavoriteService() (FavoriteServiceInterface, *fakeBookRepo, *fakeCache) {
	repo := newFakeBookRepo()
	cache := newFakeCache()
	return NewFavoriteService(repo, cache, newFakeStorage()), repo, cache
}

func TestToggleFavoriteAddsThenRemoves(t *testing.T) {
	svc, repo, cache := newTestFavoriteService()
	book := seedBook(t, repo, "A Wizard of Earthsea", "9780547773742")

	resp, err := svc.ToggleFavorite(context.Background(), 9, &model.ToggleFavoriteRequest{BookID: book.ID})
	require.NoError(t, err)
	assert.Equal(t, "Book added to favorites", resp.Message)
	assert.True(t, resp.IsFavorited)

	favorited, err := repo.IsFavorited(context.Background(), 9, book.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	resp, err = svc.ToggleFavorite(context.Background(), 9, &model.ToggleFavoriteRequest{BookID: book.ID})
	require.NoError(t, err)
	assert.Equal(t, "Book removed from favorites", resp.Message)
	assert.False(t, resp.IsFavorited)

	favorited, err = repo.IsFavorited(context.Background(), 9, book.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	assert.Equal(t, []string{"books:search:u9:*", "books:search:u9:*"}, cache.deletedPatterns,
		"each toggle drops only the toggling user's cached searches")
}

func TestToggleFavoriteRequiresBookID(t *testing.T) {
	svc, _, _ := newTestFavoriteService()

	_, err := svc.ToggleFavorite(context.Background(), 9, &model.ToggleFavoriteRequest{})
	assert.ErrorIs(t, err, model.ErrBookIDRequired)
}

func TestToggleFavoriteUnknownBook(t *testing.T) {
	svc, _, _ := newTestFavoriteService()

	_, err := svc.ToggleFavorite(context.Background(), 9, &model.ToggleFavoriteRequest{BookID: 42})
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestAddFavoriteAndGet(t *testing.T) {
	svc, repo, _ := newTestFavoriteService()
	book := seedBook(t, repo, "The Tombs of Atuan", "9780547773681")
	key := "covers/atuan/original.jpg"
	repo.books[book.ID].CoverImage = &key

	resp, err := svc.AddFavorite(context.Background(), 9, &model.AddFavoriteRequest{BookID: book.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, book.ID, resp.Book.ID)
	assert.Equal(t, "The Tombs of Atuan", resp.Book.Title)
	assert.True(t, resp.Book.IsFavorited)
	require.NotNil(t, resp.Book.CoverImageDisplay)
	assert.Equal(t, "https://cdn.example.com/book-covers/covers/atuan/original.jpg", *resp.Book.CoverImageDisplay)
	assert.Equal(t, "No ratings yet", resp.Book.RatingDisplay)

	got, err := svc.GetFavorite(context.Background(), 9, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
	assert.Equal(t, book.ID, got.Book.ID)

	_, err = svc.AddFavorite(context.Background(), 9, &model.AddFavoriteRequest{BookID: book.ID})
	assert.ErrorIs(t, err, model.ErrAlreadyFavorited)
}

func TestAddFavoriteValidation(t *testing.T) {
	svc, _, _ := newTestFavoriteService()

	_, err := svc.AddFavorite(context.Background(), 9, &model.AddFavoriteRequest{})
	assert.Error(t, err)
}

func TestGetFavoriteScopedToUser(t *testing.T) {
	svc, repo, _ := newTestFavoriteService()
	book := seedBook(t, repo, "The Farthest Shore", "9780547773704")

	resp, err := svc.AddFavorite(context.Background(), 9, &model.AddFavoriteRequest{BookID: book.ID})
	require.NoError(t, err)

	_, err = svc.GetFavorite(context.Background(), 10, resp.ID)
	assert.ErrorIs(t, err, model.ErrFavoriteNotFound)
}

func TestListFavoritesNewestFirst(t *testing.T) {
	svc, repo, _ := newTestFavoriteService()
	first := seedBook(t, repo, "A Wizard of Earthsea", "9780547773742")
	second := seedBook(t, repo, "The Tombs of Atuan", "9780547773681")

	_, err := svc.AddFavorite(context.Background(), 9, &model.AddFavoriteRequest{BookID: first.ID})
	require.NoError(t, err)
	latest, err := svc.AddFavorite(context.Background(), 9, &model.AddFavoriteRequest{BookID: second.ID})
	require.NoError(t, err)

	list, err := svc.ListFavorites(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, latest.ID, list[0].ID)
	assert.Equal(t, "The Tombs of Atuan", list[0].Book.Title)

	other, err := svc.ListFavorites(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRemoveFavorite(t *testing.T) {
	svc, repo, cache := newTestFavoriteService()
	book := seedBook(t, repo, "Tehanu", "9780547773742")

	resp, err := svc.AddFavorite(context.Background(), 9, &model.AddFavoriteRequest{BookID: book.ID})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFavorite(context.Background(), 9, resp.ID))
	assert.Empty(t, repo.favorites)
	assert.Contains(t, cache.deletedPatterns, "books:search:u9:*")

	err = svc.RemoveFavorite(context.Background(), 9, resp.ID)
	assert.ErrorIs(t, err, model.ErrFavoriteNotFound)
}
