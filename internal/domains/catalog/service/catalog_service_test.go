package service

import (
	"context"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog-backend/internal/domains/catalog/model"
	"bookcatalog-backend/internal/domains/catalog/repository"
)

// fakeCatalogRepo implements only the calls these tests exercise;
// anything else panics through the embedded nil interface.
type fakeCatalogRepo struct {
	repository.RepositoryInterface

	listAuthorsLimit   *int
	createdAuthor      *model.Author
	updatedAuthor      *model.Author
	updateAuthorErr    error
	updatedCategory    *model.Category
	storedCategory     *model.CategoryResponse
	createCharacterErr error
}

func (r *fakeCatalogRepo) ListAuthors(_ context.Context, _ model.ListParams, limit int) ([]model.AuthorResponse, error) {
	r.listAuthorsLimit = &limit
	return []model.AuthorResponse{}, nil
}

func (r *fakeCatalogRepo) CreateAuthor(_ context.Context, author *model.Author) (*model.Author, error) {
	stored := *author
	stored.ID = 1
	r.createdAuthor = &stored
	return &stored, nil
}

func (r *fakeCatalogRepo) UpdateAuthor(_ context.Context, author *model.Author) error {
	if r.updateAuthorErr != nil {
		return r.updateAuthorErr
	}
	r.updatedAuthor = author
	return nil
}

func (r *fakeCatalogRepo) GetAuthor(_ context.Context, id int64) (*model.AuthorResponse, error) {
	return &model.AuthorResponse{ID: id, Name: "Ursula K. Le Guin", BooksCount: 23}, nil
}

func (r *fakeCatalogRepo) UpdateCategory(_ context.Context, category *model.Category) error {
	r.updatedCategory = category
	return nil
}

func (r *fakeCatalogRepo) GetCategory(_ context.Context, id int64) (*model.CategoryResponse, error) {
	if r.storedCategory != nil && r.storedCategory.ID == id {
		return r.storedCategory, nil
	}
	return nil, model.ErrCategoryNotFound
}

func (r *fakeCatalogRepo) CreateCharacter(_ context.Context, character *model.Character) (*model.Character, error) {
	if r.createCharacterErr != nil {
		return nil, r.createCharacterErr
	}
	stored := *character
	stored.ID = 7
	return &stored, nil
}

func newTestCatalogService() (*fakeCatalogRepo, ServiceInterface) {
	repo := &fakeCatalogRepo{}
	return repo, NewCatalogService(repo)
}

func TestCreateAuthorValidation(t *testing.T) {
	repo, svc := newTestCatalogService()

	_, err := svc.CreateAuthor(context.Background(), &model.AuthorRequest{Name: ""})
	require.Error(t, err)
	verrs, ok := err.(validation.Errors)
	require.True(t, ok)
	assert.Contains(t, verrs, "name")
	assert.Nil(t, repo.createdAuthor)
}

func TestCreateAuthorParsesBirthDate(t *testing.T) {
	birthDate := "1929-10-21"
	repo, svc := newTestCatalogService()

	created, err := svc.CreateAuthor(context.Background(), &model.AuthorRequest{
		Name:      "Ursula K. Le Guin",
		BirthDate: &birthDate,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ursula K. Le Guin", created.Name)
	require.NotNil(t, repo.createdAuthor.BirthDate)
	assert.Equal(t, "1929-10-21", repo.createdAuthor.BirthDate.String())
}

func TestCreateAuthorRejectsBadBirthDate(t *testing.T) {
	birthDate := "21/10/1929"
	repo, svc := newTestCatalogService()

	_, err := svc.CreateAuthor(context.Background(), &model.AuthorRequest{
		Name:      "Ursula K. Le Guin",
		BirthDate: &birthDate,
	})
	require.Error(t, err)
	assert.Nil(t, repo.createdAuthor)
}

func TestUpdateAuthorReturnsFreshRead(t *testing.T) {
	repo, svc := newTestCatalogService()

	updated, err := svc.UpdateAuthor(context.Background(), 42, &model.AuthorRequest{Name: "U. K. Le Guin"})
	require.NoError(t, err)

	// The response comes from a re-read so books_count is populated.
	assert.Equal(t, int64(42), updated.ID)
	assert.Equal(t, 23, updated.BooksCount)
	require.NotNil(t, repo.updatedAuthor)
	assert.Equal(t, int64(42), repo.updatedAuthor.ID)
	assert.Equal(t, "U. K. Le Guin", repo.updatedAuthor.Name)
}

func TestUpdateAuthorPropagatesNotFound(t *testing.T) {
	repo, svc := newTestCatalogService()
	repo.updateAuthorErr = model.ErrAuthorNotFound

	_, err := svc.UpdateAuthor(context.Background(), 42, &model.AuthorRequest{Name: "Nobody"})
	assert.ErrorIs(t, err, model.ErrAuthorNotFound)
}

func TestUpdateCategoryReturnsFreshRead(t *testing.T) {
	repo, svc := newTestCatalogService()
	desc := "Dragons, wizards and secondary worlds"
	repo.storedCategory = &model.CategoryResponse{
		ID:          3,
		Name:        "Fantasy",
		Description: &desc,
		BooksCount:  412,
	}

	updated, err := svc.UpdateCategory(context.Background(), 3, &model.CategoryRequest{
		Name:        "Fantasy",
		Description: &desc,
	})
	require.NoError(t, err)
	assert.Equal(t, 412, updated.BooksCount)
	require.NotNil(t, repo.updatedCategory)
	assert.Equal(t, int64(3), repo.updatedCategory.ID)
}

func TestSearchAllAuthorsCapsResults(t *testing.T) {
	repo, svc := newTestCatalogService()

	_, err := svc.SearchAllAuthors(context.Background(), "le guin")
	require.NoError(t, err)
	require.NotNil(t, repo.listAuthorsLimit)
	assert.Equal(t, searchAllLimit, *repo.listAuthorsLimit)
}

func TestListAuthorsIsUnlimited(t *testing.T) {
	repo, svc := newTestCatalogService()

	_, err := svc.ListAuthors(context.Background(), model.ListParams{Ordering: "-created_at"})
	require.NoError(t, err)
	require.NotNil(t, repo.listAuthorsLimit)
	assert.Equal(t, 0, *repo.listAuthorsLimit)
}

func TestCreateCharacterPropagatesDuplicate(t *testing.T) {
	repo, svc := newTestCatalogService()
	repo.createCharacterErr = model.ErrDuplicateName

	_, err := svc.CreateCharacter(context.Background(), &model.CharacterRequest{Name: "Ged"})
	assert.ErrorIs(t, err, model.ErrDuplicateName)
}
