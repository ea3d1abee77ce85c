package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookcatalog-backend/internal/domains/book/model"
	"bookcatalog-backend/internal/domains/book/service"
	"bookcatalog-backend/internal/shared/middleware"
	"bookcatalog-backend/internal/shared/response"
)

// FavoriteHandler serves the authenticated user's reading list. Every
// route behind it runs after AuthMiddleware.
type FavoriteHandler struct {
	service service.FavoriteServiceInterface
}

func NewFavoriteHandler(svc service.FavoriteServiceInterface) *FavoriteHandler {
	return &FavoriteHandler{service: svc}
}

// ListFavorites - GET /v1/favorites
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	favorites, err := h.service.ListFavorites(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, favorites)
}

// GetFavorite - GET /v1/favorites/:id
func (h *FavoriteHandler) GetFavorite(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	favorite, err := h.service.GetFavorite(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, favorite)
}

// AddFavorite - POST /v1/favorites
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	var req model.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	favorite, err := h.service.AddFavorite(c.Request.Context(), middleware.UserIDFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, favorite)
}

// RemoveFavorite - DELETE /v1/favorites/:id
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.RemoveFavorite(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleFavorite - POST /v1/books/toggle_favorite
// Adds the book when absent, removes it when present.
func (h *FavoriteHandler) ToggleFavorite(c *gin.Context) {
	var req model.ToggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.ToggleFavorite(c.Request.Context(), middleware.UserIDFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
