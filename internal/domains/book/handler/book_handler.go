package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookcatalog-backend/internal/domains/book/model"
	"bookcatalog-backend/internal/domains/book/service"
	"bookcatalog-backend/internal/shared/middleware"
	"bookcatalog-backend/internal/shared/response"
	"bookcatalog-backend/pkg/logger"
)

type BookHandler struct {
	service service.ServiceInterface
	covers  service.CoverServiceInterface
}

func NewBookHandler(svc service.ServiceInterface, covers service.CoverServiceInterface) *BookHandler {
	return &BookHandler{
		service: svc,
		covers:  covers,
	}
}

func respondError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	switch {
	case errors.As(err, &validationErrs):
		response.ValidationError(c, validationErrs)
	case errors.Is(err, model.ErrBookNotFound),
		errors.Is(err, model.ErrFavoriteNotFound),
		errors.Is(err, model.ErrCoverNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrISBNExists),
		errors.Is(err, model.ErrRelatedNotFound),
		errors.Is(err, model.ErrFavoriteBookGone),
		errors.Is(err, model.ErrAlreadyFavorited),
		errors.Is(err, model.ErrBookIDRequired),
		errors.Is(err, model.ErrCoverNotSupported),
		errors.Is(err, model.ErrCoverTooLarge):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("book request failed", err)
		response.InternalServerError(c, "internal server error")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// searchParams parses the shared filter surface and scopes it to the
// requesting user so favorite flags and favorites_only resolve.
func searchParams(c *gin.Context) (*model.BookSearchParams, bool) {
	params, err := model.ParseSearchParams(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	params.UserID = middleware.UserIDFromContext(c)
	return params, true
}

// ListBooks - GET /v1/books
// The same filter set serves listing and search; /search is an alias.
func (h *BookHandler) ListBooks(c *gin.Context) {
	params, ok := searchParams(c)
	if !ok {
		return
	}

	items, total, err := h.service.SearchBooks(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	if params.Page != nil {
		response.SuccessWithMeta(c, http.StatusOK, items, response.NewMeta(*params.Page, params.Limit, int(total)))
		return
	}
	response.Success(c, http.StatusOK, items)
}

// GetBook - GET /v1/books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.service.GetBookDetail(c.Request.Context(), id, middleware.UserIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// CreateBook - POST /v1/books
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req model.BookCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	book, err := h.service.CreateBook(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, book)
}

// UpdateBook - PUT/PATCH /v1/books/:id
// Absent fields keep their stored values, so full and partial updates
// share one path.
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.BookUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	book, err := h.service.UpdateBook(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, book)
}

// DeleteBook - DELETE /v1/books/:id
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkDelete - POST /v1/books/bulk_delete
func (h *BookHandler) BulkDelete(c *gin.Context) {
	var req model.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.BulkDeleteBooks(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// BulkDeleteFiltered - POST /v1/books/bulk_delete_filtered
// Deletes every book matched by the usual search filters, passed as
// query parameters.
func (h *BookHandler) BulkDeleteFiltered(c *gin.Context) {
	params, ok := searchParams(c)
	if !ok {
		return
	}
	result, err := h.service.BulkDeleteFiltered(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// ExportBooks - GET /v1/books/export
// Staff only. Streams the current search page as an xlsx attachment.
func (h *BookHandler) ExportBooks(c *gin.Context) {
	params, ok := searchParams(c)
	if !ok {
		return
	}
	f, err := h.service.ExportBooks(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := "books_export_" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		// Headers are gone; nothing more useful than a log entry.
		logger.Error("failed to stream export", err)
	}
}

// UploadCover - POST /v1/books/:id/cover
// Multipart upload under the "cover_image" field. Variants generate
// asynchronously, the original is served immediately.
func (h *BookHandler) UploadCover(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("cover_image")
	if err != nil {
		response.BadRequest(c, "cover_image file is required (multipart/form-data)")
		return
	}
	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "cannot read uploaded file")
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		response.BadRequest(c, "cannot read uploaded file")
		return
	}

	url, err := h.covers.UploadCover(c.Request.Context(), id, data)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cover_image_display": url})
}

// DeleteCover - DELETE /v1/books/:id/cover
func (h *BookHandler) DeleteCover(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.covers.DeleteCover(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
