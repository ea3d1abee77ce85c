package service

import (
	"context"

	"bookcatalog-backend/internal/domains/catalog/model"
)

type ServiceInterface interface {
	ListAuthors(ctx context.Context, params model.ListParams) ([]model.AuthorResponse, error)
	SearchAllAuthors(ctx context.Context, search string) ([]model.AuthorResponse, error)
	GetAuthor(ctx context.Context, id int64) (*model.AuthorResponse, error)
	CreateAuthor(ctx context.Context, req *model.AuthorRequest) (*model.Author, error)
	UpdateAuthor(ctx context.Context, id int64, req *model.AuthorRequest) (*model.AuthorResponse, error)
	DeleteAuthor(ctx context.Context, id int64) error

	ListCategories(ctx context.Context, params model.ListParams) ([]model.CategoryResponse, error)
	SearchAllCategories(ctx context.Context, search string) ([]model.CategoryResponse, error)
	GetCategory(ctx context.Context, id int64) (*model.CategoryResponse, error)
	CreateCategory(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *model.CategoryRequest) (*model.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListGenres(ctx context.Context, params model.ListParams) ([]model.Genre, error)
	GetGenre(ctx context.Context, id int64) (*model.Genre, error)
	CreateGenre(ctx context.Context, req *model.GenreRequest) (*model.Genre, error)
	UpdateGenre(ctx context.Context, id int64, req *model.GenreRequest) (*model.Genre, error)
	DeleteGenre(ctx context.Context, id int64) error

	ListCharacters(ctx context.Context, params model.ListParams) ([]model.Character, error)
	GetCharacter(ctx context.Context, id int64) (*model.Character, error)
	CreateCharacter(ctx context.Context, req *model.CharacterRequest) (*model.Character, error)
	UpdateCharacter(ctx context.Context, id int64, req *model.CharacterRequest) (*model.Character, error)
	DeleteCharacter(ctx context.Context, id int64) error

	ListAwards(ctx context.Context, params model.ListParams) ([]model.Award, error)
	GetAward(ctx context.Context, id int64) (*model.Award, error)
	CreateAward(ctx context.Context, req *model.AwardRequest) (*model.Award, error)
	UpdateAward(ctx context.Context, id int64, req *model.AwardRequest) (*model.Award, error)
	DeleteAward(ctx context.Context, id int64) error

	ListPublishers(ctx context.Context, params model.ListParams) ([]model.PublisherResponse, error)
	GetPublisher(ctx context.Context, id int64) (*model.PublisherResponse, error)
	CreatePublisher(ctx context.Context, req *model.PublisherRequest) (*model.Publisher, error)
	UpdatePublisher(ctx context.Context, id int64, req *model.PublisherRequest) (*model.PublisherResponse, error)
	DeletePublisher(ctx context.Context, id int64) error

	ListLanguages(ctx context.Context, params model.ListParams) ([]model.Language, error)
	GetLanguage(ctx context.Context, id int64) (*model.Language, error)
	CreateLanguage(ctx context.Context, req *model.LanguageRequest) (*model.Language, error)
	UpdateLanguage(ctx context.Context, id int64, req *model.LanguageRequest) (*model.Language, error)
	DeleteLanguage(ctx context.Context, id int64) error

	ListSeries(ctx context.Context, params model.ListParams) ([]model.SeriesResponse, error)
	GetSeries(ctx context.Context, id int64) (*model.SeriesResponse, error)
	CreateSeries(ctx context.Context, req *model.SeriesRequest) (*model.Series, error)
	UpdateSeries(ctx context.Context, id int64, req *model.SeriesRequest) (*model.SeriesResponse, error)
	DeleteSeries(ctx context.Context, id int64) error
}
