package repository

import (
	"context"

	"bookcatalog-backend/internal/domains/book/model"
	catalogmodel "bookcatalog-backend/internal/domains/catalog/model"
)

type RepositoryInterface interface {
	SearchBooks(ctx context.Context, params *model.BookSearchParams) ([]model.BookListItem, error)
	CountBooks(ctx context.Context, params *model.BookSearchParams) (int64, error)

	GetBookByID(ctx context.Context, id int64) (*model.Book, error)
	BookExists(ctx context.Context, id int64) (bool, error)
	CheckISBNExists(ctx context.Context, isbn string) (bool, error)
	CheckISBNExistsExcept(ctx context.Context, isbn string, excludeID int64) (bool, error)
	CreateBook(ctx context.Context, book *model.Book) (*model.Book, error)
	UpdateBook(ctx context.Context, book *model.Book) error
	DeleteBook(ctx context.Context, id int64) error
	DeleteBooksByIDs(ctx context.Context, ids []int64) (int64, error)
	DeleteBooksByFilter(ctx context.Context, params *model.BookSearchParams) (int64, error)

	GetBookGenres(ctx context.Context, bookID int64) ([]catalogmodel.Genre, error)
	GetBookCharacters(ctx context.Context, bookID int64) ([]catalogmodel.Character, error)
	GetBookAwards(ctx context.Context, bookID int64) ([]catalogmodel.Award, error)
	SetBookGenres(ctx context.Context, bookID int64, genreIDs []int64) error
	SetBookCharacters(ctx context.Context, bookID int64, characterIDs []int64) error
	SetBookAwards(ctx context.Context, bookID int64, awardIDs []int64) error

	IsFavorited(ctx context.Context, userID, bookID int64) (bool, error)
	ListFavorites(ctx context.Context, userID int64) ([]model.FavoriteRow, error)
	GetFavorite(ctx context.Context, userID, favoriteID int64) (*model.FavoriteRow, error)
	InsertFavorite(ctx context.Context, userID, bookID int64) (int64, error)
	DeleteFavorite(ctx context.Context, userID, favoriteID int64) error
	DeleteFavoriteByBook(ctx context.Context, userID, bookID int64) (bool, error)

	SetCoverImage(ctx context.Context, bookID int64, key *string) error
}
