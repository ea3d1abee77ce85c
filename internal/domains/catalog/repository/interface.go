package repository

import (
	"context"

	"bookcatalog-backend/internal/domains/catalog/model"
)

// RepositoryInterface is the persistence contract for the normalized
// catalog entities.
type RepositoryInterface interface {
	ListAuthors(ctx context.Context, params model.ListParams, limit int) ([]model.AuthorResponse, error)
	GetAuthor(ctx context.Context, id int64) (*model.AuthorResponse, error)
	CreateAuthor(ctx context.Context, author *model.Author) (*model.Author, error)
	UpdateAuthor(ctx context.Context, author *model.Author) error
	DeleteAuthor(ctx context.Context, id int64) error

	ListCategories(ctx context.Context, params model.ListParams, limit int) ([]model.CategoryResponse, error)
	GetCategory(ctx context.Context, id int64) (*model.CategoryResponse, error)
	CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	ListGenres(ctx context.Context, params model.ListParams) ([]model.Genre, error)
	GetGenre(ctx context.Context, id int64) (*model.Genre, error)
	CreateGenre(ctx context.Context, genre *model.Genre) (*model.Genre, error)
	UpdateGenre(ctx context.Context, genre *model.Genre) error
	DeleteGenre(ctx context.Context, id int64) error

	ListCharacters(ctx context.Context, params model.ListParams) ([]model.Character, error)
	GetCharacter(ctx context.Context, id int64) (*model.Character, error)
	CreateCharacter(ctx context.Context, character *model.Character) (*model.Character, error)
	UpdateCharacter(ctx context.Context, character *model.Character) error
	DeleteCharacter(ctx context.Context, id int64) error

	ListAwards(ctx context.Context, params model.ListParams) ([]model.Award, error)
	GetAward(ctx context.Context, id int64) (*model.Award, error)
	CreateAward(ctx context.Context, award *model.Award) (*model.Award, error)
	UpdateAward(ctx context.Context, award *model.Award) error
	DeleteAward(ctx context.Context, id int64) error

	ListPublishers(ctx context.Context, params model.ListParams) ([]model.PublisherResponse, error)
	GetPublisher(ctx context.Context, id int64) (*model.PublisherResponse, error)
	CreatePublisher(ctx context.Context, publisher *model.Publisher) (*model.Publisher, error)
	UpdatePublisher(ctx context.Context, publisher *model.Publisher) error
	DeletePublisher(ctx context.Context, id int64) error

	ListLanguages(ctx context.Context, params model.ListParams) ([]model.Language, error)
	GetLanguage(ctx context.Context, id int64) (*model.Language, error)
	CreateLanguage(ctx context.Context, language *model.Language) (*model.Language, error)
	UpdateLanguage(ctx context.Context, language *model.Language) error
	DeleteLanguage(ctx context.Context, id int64) error

	ListSeries(ctx context.Context, params model.ListParams) ([]model.SeriesResponse, error)
	GetSeries(ctx context.Context, id int64) (*model.SeriesResponse, error)
	CreateSeries(ctx context.Context, series *model.Series) (*model.Series, error)
	UpdateSeries(ctx context.Context, series *model.Series) error
	DeleteSeries(ctx context.Context, id int64) error
}

// EntityResolver finds an entity by its natural key or creates it with
// import defaults. The bulk import pipeline depends on this interface so
// tests can swap in fakes.
type EntityResolver interface {
	Author(ctx context.Context, name string) (*model.Author, error)
	Category(ctx context.Context, name string) (*model.Category, error)
	Publisher(ctx context.Context, name string) (*model.Publisher, error)
	Language(ctx context.Context, code, name string) (*model.Language, error)
	Series(ctx context.Context, name string) (*model.Series, error)
	Genre(ctx context.Context, name string) (*model.Genre, error)
	Character(ctx context.Context, name string) (*model.Character, error)
	Award(ctx context.Context, name string, year *int) (*model.Award, error)
}
