package service

import (
	"context"

	"bookcatalog-backend/internal/domains/catalog/model"
	"bookcatalog-backend/internal/domains/catalog/repository"
	"bookcatalog-backend/internal/shared/types"
)

// searchAllLimit caps the unpaginated search-all endpoints used by
// autocomplete widgets.
const searchAllLimit = 100

type catalogService struct {
	repo repository.RepositoryInterface
}

func NewCatalogService(repo repository.RepositoryInterface) ServiceInterface {
	return &catalogService{repo: repo}
}

func parseDate(value *string) (*types.Date, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	d, err := types.ParseDate(*value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ---- Authors ----

func (s *catalogService) ListAuthors(ctx context.Context, params model.ListParams) ([]model.AuthorResponse, error) {
	return s.repo.ListAuthors(ctx, params, 0)
}

func (s *catalogService) SearchAllAuthors(ctx context.Context, search string) ([]model.AuthorResponse, error) {
	return s.repo.ListAuthors(ctx, model.ListParams{Search: search}, searchAllLimit)
}

func (s *catalogService) GetAuthor(ctx context.Context, id int64) (*model.AuthorResponse, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *catalogService) CreateAuthor(ctx context.Context, req *model.AuthorRequest) (*model.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateAuthor(ctx, &model.Author{
		Name:        req.Name,
		Bio:         req.Bio,
		BirthDate:   birthDate,
		Nationality: req.Nationality,
	})
}

func (s *catalogService) UpdateAuthor(ctx context.Context, id int64, req *model.AuthorRequest) (*model.AuthorResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAuthor(ctx, &model.Author{
		ID:          id,
		Name:        req.Name,
		Bio:         req.Bio,
		BirthDate:   birthDate,
		Nationality: req.Nationality,
	}); err != nil {
		return nil, err
	}
	return s.repo.GetAuthor(ctx, id)
}

func (s *catalogService) DeleteAuthor(ctx context.Context, id int64) error {
	return s.repo.DeleteAuthor(ctx, id)
}

// ---- Categories ----

func (s *catalogService) ListCategories(ctx context.Context, params model.ListParams) ([]model.CategoryResponse, error) {
	return s.repo.ListCategories(ctx, params, 0)
}

func (s *catalogService) SearchAllCategories(ctx context.Context, search string) ([]model.CategoryResponse, error) {
	return s.repo.ListCategories(ctx, model.ListParams{Search: search}, searchAllLimit)
}

func (s *catalogService) GetCategory(ctx context.Context, id int64) (*model.CategoryResponse, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *catalogService) CreateCategory(ctx context.Context, req *model.CategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateCategory(ctx, &model.Category{
		Name:        req.Name,
		Description: req.Description,
	})
}

func (s *catalogService) UpdateCategory(ctx context.Context, id int64, req *model.CategoryRequest) (*model.CategoryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCategory(ctx, &model.Category{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	}); err != nil {
		return nil, err
	}
	return s.repo.GetCategory(ctx, id)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

// ---- Genres ----

func (s *catalogService) ListGenres(ctx context.Context, params model.ListParams) ([]model.Genre, error) {
	return s.repo.ListGenres(ctx, params)
}

func (s *catalogService) GetGenre(ctx context.Context, id int64) (*model.Genre, error) {
	return s.repo.GetGenre(ctx, id)
}

func (s *catalogService) CreateGenre(ctx context.Context, req *model.GenreRequest) (*model.Genre, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateGenre(ctx, &model.Genre{
		Name:        req.Name,
		Description: req.Description,
	})
}

func (s *catalogService) UpdateGenre(ctx context.Context, id int64, req *model.GenreRequest) (*model.Genre, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	genre := &model.Genre{ID: id, Name: req.Name, Description: req.Description}
	if err := s.repo.UpdateGenre(ctx, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func (s *catalogService) DeleteGenre(ctx context.Context, id int64) error {
	return s.repo.DeleteGenre(ctx, id)
}

// ---- Characters ----

func (s *catalogService) ListCharacters(ctx context.Context, params model.ListParams) ([]model.Character, error) {
	return s.repo.ListCharacters(ctx, params)
}

func (s *catalogService) GetCharacter(ctx context.Context, id int64) (*model.Character, error) {
	return s.repo.GetCharacter(ctx, id)
}

func (s *catalogService) CreateCharacter(ctx context.Context, req *model.CharacterRequest) (*model.Character, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateCharacter(ctx, &model.Character{Name: req.Name})
}

func (s *catalogService) UpdateCharacter(ctx context.Context, id int64, req *model.CharacterRequest) (*model.Character, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	character := &model.Character{ID: id, Name: req.Name}
	if err := s.repo.UpdateCharacter(ctx, character); err != nil {
		return nil, err
	}
	return character, nil
}

func (s *catalogService) DeleteCharacter(ctx context.Context, id int64) error {
	return s.repo.DeleteCharacter(ctx, id)
}

// ---- Awards ----

func (s *catalogService) ListAwards(ctx context.Context, params model.ListParams) ([]model.Award, error) {
	return s.repo.ListAwards(ctx, params)
}

func (s *catalogService) GetAward(ctx context.Context, id int64) (*model.Award, error) {
	return s.repo.GetAward(ctx, id)
}

func (s *catalogService) CreateAward(ctx context.Context, req *model.AwardRequest) (*model.Award, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateAward(ctx, &model.Award{Name: req.Name, Year: req.Year})
}

func (s *catalogService) UpdateAward(ctx context.Context, id int64, req *model.AwardRequest) (*model.Award, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	award := &model.Award{ID: id, Name: req.Name, Year: req.Year}
	if err := s.repo.UpdateAward(ctx, award); err != nil {
		return nil, err
	}
	return award, nil
}

func (s *catalogService) DeleteAward(ctx context.Context, id int64) error {
	return s.repo.DeleteAward(ctx, id)
}

// ---- Publishers ----

func (s *catalogService) ListPublishers(ctx context.Context, params model.ListParams) ([]model.PublisherResponse, error) {
	return s.repo.ListPublishers(ctx, params)
}

func (s *catalogService) GetPublisher(ctx context.Context, id int64) (*model.PublisherResponse, error) {
	return s.repo.GetPublisher(ctx, id)
}

func (s *catalogService) CreatePublisher(ctx context.Context, req *model.PublisherRequest) (*model.Publisher, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreatePublisher(ctx, &model.Publisher{Name: req.Name})
}

func (s *catalogService) UpdatePublisher(ctx context.Context, id int64, req *model.PublisherRequest) (*model.PublisherResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePublisher(ctx, &model.Publisher{ID: id, Name: req.Name}); err != nil {
		return nil, err
	}
	return s.repo.GetPublisher(ctx, id)
}

func (s *catalogService) DeletePublisher(ctx context.Context, id int64) error {
	return s.repo.DeletePublisher(ctx, id)
}

// ---- Languages ----

func (s *catalogService) ListLanguages(ctx context.Context, params model.ListParams) ([]model.Language, error) {
	return s.repo.ListLanguages(ctx, params)
}

func (s *catalogService) GetLanguage(ctx context.Context, id int64) (*model.Language, error) {
	return s.repo.GetLanguage(ctx, id)
}

func (s *catalogService) CreateLanguage(ctx context.Context, req *model.LanguageRequest) (*model.Language, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateLanguage(ctx, &model.Language{Code: req.Code, Name: req.Name})
}

func (s *catalogService) UpdateLanguage(ctx context.Context, id int64, req *model.LanguageRequest) (*model.Language, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	language := &model.Language{ID: id, Code: req.Code, Name: req.Name}
	if err := s.repo.UpdateLanguage(ctx, language); err != nil {
		return nil, err
	}
	return language, nil
}

func (s *catalogService) DeleteLanguage(ctx context.Context, id int64) error {
	return s.repo.DeleteLanguage(ctx, id)
}

// ---- Series ----

func (s *catalogService) ListSeries(ctx context.Context, params model.ListParams) ([]model.SeriesResponse, error) {
	return s.repo.ListSeries(ctx, params)
}

func (s *catalogService) GetSeries(ctx context.Context, id int64) (*model.SeriesResponse, error) {
	return s.repo.GetSeries(ctx, id)
}

func (s *catalogService) CreateSeries(ctx context.Context, req *model.SeriesRequest) (*model.Series, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateSeries(ctx, &model.Series{Name: req.Name})
}

func (s *catalogService) UpdateSeries(ctx context.Context, id int64, req *model.SeriesRequest) (*model.SeriesResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSeries(ctx, &model.Series{ID: id, Name: req.Name}); err != nil {
		return nil, err
	}
	return s.repo.GetSeries(ctx, id)
}

func (s *catalogService) DeleteSeries(ctx context.Context, id int64) error {
	return s.repo.DeleteSeries(ctx, id)
}
