package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookcatalog-backend/internal/domains/catalog/model"
	"bookcatalog-backend/internal/domains/catalog/service"
	"bookcatalog-backend/internal/shared/response"
	"bookcatalog-backend/pkg/logger"
)

type CatalogHandler struct {
	service service.ServiceInterface
}

func NewCatalogHandler(service service.ServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

var notFoundErrors = []error{
	model.ErrAuthorNotFound,
	model.ErrCategoryNotFound,
	model.ErrGenreNotFound,
	model.ErrCharacterNotFound,
	model.ErrAwardNotFound,
	model.ErrPublisherNotFound,
	model.ErrLanguageNotFound,
	model.ErrSeriesNotFound,
}

func respondError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ValidationError(c, validationErrs)
		return
	}
	for _, notFound := range notFoundErrors {
		if errors.Is(err, notFound) {
			response.NotFound(c, err.Error())
			return
		}
	}
	if errors.Is(err, model.ErrDuplicateName) {
		response.Conflict(c, err.Error())
		return
	}
	logger.Error("catalog request failed", err)
	response.InternalServerError(c, "internal server error")
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

func listParams(c *gin.Context) model.ListParams {
	return model.ListParams{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}
}

// ---- Authors ----

// ListAuthors - GET /v1/authors
func (h *CatalogHandler) ListAuthors(c *gin.Context) {
	authors, err := h.service.ListAuthors(c.Request.Context(), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, authors)
}

// SearchAllAuthors - GET /v1/authors/search_all
// Unpaginated author lookup for autocomplete, capped server side.
func (h *CatalogHandler) SearchAllAuthors(c *gin.Context) {
	authors, err := h.service.SearchAllAuthors(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, authors)
}

// GetAuthor - GET /v1/authors/:id
func (h *CatalogHandler) GetAuthor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	author, err := h.service.GetAuthor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, author)
}

// CreateAuthor - POST /v1/authors
func (h *CatalogHandler) CreateAuthor(c *gin.Context) {
	var req model.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	author, err := h.service.CreateAuthor(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, author)
}

// UpdateAuthor - PUT/PATCH /v1/authors/:id
func (h *CatalogHandler) UpdateAuthor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	author, err := h.service.UpdateAuthor(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, author)
}

// DeleteAuthor - DELETE /v1/authors/:id
func (h *CatalogHandler) DeleteAuthor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteAuthor(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- Categories ----

// ListCategories - GET /v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context(), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

// SearchAllCategories - GET /v1/categories/search_all
func (h *CatalogHandler) SearchAllCategories(c *gin.Context) {
	categories, err := h.service.SearchAllCategories(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

// GetCategory - GET /v1/categories/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	category, err := h.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, category)
}

// CreateCategory - POST /v1/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, category)
}

// UpdateCategory - PUT/PATCH /v1/categories/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	category, err := h.service.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, category)
}

// DeleteCategory - DELETE /v1/categories/:id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- Genres ----

// ListGenres - GET /v1/genres
func (h *CatalogHandler) ListGenres(c *gin.Context) {
	genres, err := h.service.ListGenres(c.Request.Context(), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, genres)
}

// GetGenre - GET /v1/genres/:id
func (h *CatalogHandler) GetGenre(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	genre, err := h.service.GetGenre(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, genre)
}

// CreateGenre - POST /v1/genres
func (h *CatalogHandler) CreateGenre(c *gin.Context) {
	var req model.GenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	genre, err := h.service.CreateGenre(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, genre)
}

// UpdateGenre - PUT/PATCH /v1/genres/:id
func (h *CatalogHandler) UpdateGenre(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.GenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	genre, err := h.service.UpdateGenre(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, genre)
}

// DeleteGenre - DELETE /v1/genres/:id
func (h *CatalogHandler) DeleteGenre(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteGenre(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- Characters ----

// ListCharacters - GET /v1/characters
func (h *CatalogHandler) ListCharacters(c *gin.Context) {
	characters, err := h.service.ListCharacters(c.Request.Context(), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, characters)
}

// GetCharacter - GET /v1/characters/:id
func (h *CatalogHandler) GetCharacter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	character, err := h.service.GetCharacter(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, character)
}

// CreateCharacter - POST /v1/characters
func (h *CatalogHandler) CreateCharacter(c *gin.Context) {
	var req model.CharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	character, err := h.service.CreateCharacter(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, character)
}

// UpdateCharacter - PUT/PATCH /v1/characters/:id
func (h *CatalogHandler) UpdateCharacter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.CharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	character, err := h.service.UpdateCharacter(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, character)
}

// DeleteCharacter - DELETE /v1/characters/:id
func (h *CatalogHandler) DeleteCharacter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCharacter(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- Awards ----

// ListAwards - GET /v1/awards
func (h *CatalogHandler) ListAwards(c *gin.Context) {
	awards, err := h.service.ListAwards(c.Request.Context(), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, awards)
}

// GetAward - GET /v1/awards/:id
func (h *CatalogHandler) GetAward(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	award, err := h.service.GetAward(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, award)
}

// CreateAward - POST /v1/awards
func (h *CatalogHandler) CreateAward(c *gin.Context) {
	var req model.AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	award, err := h.service.CreateAward(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, award)
}

// UpdateAward - PUT/PATCH /v1/awards/:id
func (h *CatalogHandler) UpdateAward(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	award, err := h.service.UpdateAward(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, award)
}

// DeleteAward - DELETE /v1/awards/:id
func (h *CatalogHandler) DeleteAward(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteAward(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- Publishers ----

// ListPublishers - GET /v1/publishers
func (h *CatalogHandler) ListPublishers(c *gin.Context) {
	publishers, err := h.service.ListPublishers(c.Request.Context(), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, publishers)
}

// GetPublisher - GET /v1/publishers/:id
func (h *CatalogHandler) GetPublisher(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	publisher, err := h.service.GetPublisher(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, publisher)
}

// CreatePublisher - POST /v1/publishers
func (h *CatalogHandler) CreatePublisher(c *gin.Context) {
	var req model.PublisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	publisher, err := h.service.CreatePublisher(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, publisher)
}

// UpdatePublisher - PUT/PATCH /v1/publishers/:id
func (h *CatalogHandler) UpdatePublisher(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.PublisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	publisher, err := h.service.UpdatePublisher(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, publisher)
}

// DeletePublisher - DELETE /v1/publishers/:id
func (h *CatalogHandler) DeletePublisher(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeletePublisher(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- Languages ----

// ListLanguages - GET /v1/languages
func (h *CatalogHandler) ListLanguages(c *gin.Context) {
	languages, err := h.service.ListLanguages(c.Request.Context(), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, languages)
}

// GetLanguage - GET /v1/languages/:id
func (h *CatalogHandler) GetLanguage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	language, err := h.service.GetLanguage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, language)
}

// CreateLanguage - POST /v1/languages
func (h *CatalogHandler) CreateLanguage(c *gin.Context) {
	var req model.LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	language, err := h.service.CreateLanguage(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, language)
}

// UpdateLanguage - PUT/PATCH /v1/languages/:id
func (h *CatalogHandler) UpdateLanguage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	language, err := h.service.UpdateLanguage(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, language)
}

// DeleteLanguage - DELETE /v1/languages/:id
func (h *CatalogHandler) DeleteLanguage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteLanguage(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- Series ----

// ListSeries - GET /v1/series
func (h *CatalogHandler) ListSeries(c *gin.Context) {
	series, err := h.service.ListSeries(c.Request.Context(), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, series)
}

// GetSeries - GET /v1/series/:id
func (h *CatalogHandler) GetSeries(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	series, err := h.service.GetSeries(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, series)
}

// CreateSeries - POST /v1/series
func (h *CatalogHandler) CreateSeries(c *gin.Context) {
	var req model.SeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	series, err := h.service.CreateSeries(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, series)
}

// UpdateSeries - PUT/PATCH /v1/series/:id
func (h *CatalogHandler) UpdateSeries(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.SeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	series, err := h.service.UpdateSeries(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, series)
}

// DeleteSeries - DELETE /v1/series/:id
func (h *CatalogHandler) DeleteSeries(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteSeries(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
