package service

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/xuri/excelize/v2"

	"bookcatalog-backend/internal/domains/book/model"
)

// ServiceInterface is the business logic surface for books.
type ServiceInterface interface {
	// SearchBooks runs the composed filter query. total is the full
	// match count when pagination is engaged, otherwise len(items).
	SearchBooks(ctx context.Context, params *model.BookSearchParams) ([]model.BookListItem, int64, error)
	GetBookDetail(ctx context.Context, id, userID int64) (*model.BookDetail, error)
	CreateBook(ctx context.Context, req *model.BookCreateRequest) (*model.BookWriteResponse, error)
	UpdateBook(ctx context.Context, id int64, req *model.BookUpdateRequest) (*model.BookWriteResponse, error)
	DeleteBook(ctx context.Context, id int64) error
	BulkDeleteBooks(ctx context.Context, req *model.BulkDeleteRequest) (*model.BulkDeleteResponse, error)
	BulkDeleteFiltered(ctx context.Context, params *model.BookSearchParams) (*model.BulkDeleteResponse, error)
	ExportBooks(ctx context.Context, params *model.BookSearchParams) (*excelize.File, error)
}

// FavoriteServiceInterface covers the per-user favorites list.
type FavoriteServiceInterface interface {
	ListFavorites(ctx context.Context, userID int64) ([]model.FavoriteResponse, error)
	GetFavorite(ctx context.Context, userID, favoriteID int64) (*model.FavoriteResponse, error)
	AddFavorite(ctx context.Context, userID int64, req *model.AddFavoriteRequest) (*model.FavoriteResponse, error)
	RemoveFavorite(ctx context.Context, userID, favoriteID int64) error
	ToggleFavorite(ctx context.Context, userID int64, req *model.ToggleFavoriteRequest) (*model.ToggleFavoriteResponse, error)
}

// ObjectStorage is the slice of the MinIO client the book services
// depend on, so tests can swap in fakes.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
	PublicURL(key string) string
}

// TaskEnqueuer matches asynq.Client's enqueue method.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
