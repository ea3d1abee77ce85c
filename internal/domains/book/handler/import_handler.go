package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookcatalog-backend/internal/domains/book/model"
	"bookcatalog-backend/internal/domains/book/service"
	"bookcatalog-backend/internal/shared/middleware"
	"bookcatalog-backend/internal/shared/response"
	"bookcatalog-backend/pkg/logger"
)

type ImportHandler struct {
	service service.ImportServiceInterface
}

func NewImportHandler(svc service.ImportServiceInterface) *ImportHandler {
	return &ImportHandler{service: svc}
}

// ImportBooks - POST /v1/books/import
// Staff only. Accepts a CSV or XLSX upload under "file" and runs the
// import synchronously, returning the per-row report.
func (h *ImportHandler) ImportBooks(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required (multipart/form-data)")
		return
	}

	opts := model.ImportOptions{
		BatchSize:      intForm(c, "batch_size", 100),
		Limit:          intForm(c, "limit", 0),
		SkipDuplicates: c.PostForm("skip_duplicates") == "true",
	}

	logger.Info("received import request", map[string]interface{}{
		"user_id":   middleware.UserIDFromContext(c),
		"file_name": file.Filename,
		"file_size": file.Size,
	})

	opened, err := file.Open()
	if err != nil {
		response.BadRequest(c, "cannot read uploaded file")
		return
	}
	source, err := service.OpenRecordSource(file.Filename, opened)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer source.Close()

	report, err := h.service.ImportBooks(c.Request.Context(), source, opts)
	if err != nil {
		// Only configuration problems (missing columns) surface here;
		// row failures live inside the report.
		response.BadRequest(c, err.Error())
		return
	}

	if report.Aborted {
		response.UnprocessableEntity(c, "import aborted after too many errors", report)
		return
	}
	response.Success(c, http.StatusOK, report)
}

func intForm(c *gin.Context, field string, fallback int) int {
	raw := c.PostForm(field)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
