package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"bookcatalog-backend/internal/domains/auth/model"
	"bookcatalog-backend/internal/domains/auth/service"
	"bookcatalog-backend/internal/shared/middleware"
	"bookcatalog-backend/internal/shared/response"
	"bookcatalog-backend/pkg/logger"
)

type AuthHandler struct {
	service service.ServiceInterface
}

func NewAuthHandler(service service.ServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

func respondError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	switch {
	case errors.As(err, &validationErrs):
		response.ValidationError(c, validationErrs)
	case errors.Is(err, model.ErrUsernameTaken),
		errors.Is(err, model.ErrEmailTaken),
		errors.Is(err, model.ErrWrongOldPassword):
		response.BadRequest(c, err.Error())
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrBadToken):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, model.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("auth request failed", err)
		response.InternalServerError(c, "internal server error")
	}
}

// Register - POST /v1/auth/user
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// Login - POST /v1/auth/login
// Returns an access/refresh token pair plus a summary of the user.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	tokens, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tokens)
}

// Refresh - POST /v1/auth/token/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	tokens, err := h.service.Refresh(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tokens)
}

// Logout - POST /v1/auth/logout
// Blacklists the submitted refresh token. Succeeds for tokens that are
// already revoked or expired; responds 400 only when the token cannot
// be parsed at all.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req model.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.service.Logout(c.Request.Context(), &req); err != nil {
		if errors.Is(err, model.ErrBadToken) {
			response.BadRequest(c, err.Error())
			return
		}
		respondError(c, err)
		return
	}
	c.Status(http.StatusResetContent)
}

// GetProfile - GET /v1/auth/user
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.service.GetProfile(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// UpdateProfile - PUT/PATCH /v1/auth/user
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), middleware.UserIDFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// ChangePassword - POST /v1/auth/user/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), middleware.UserIDFromContext(c), &req); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password updated successfully."})
}
