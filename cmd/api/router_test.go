package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	bookHandler "bookcatalog-backend/internal/domains/book/handler"
	"bookcatalog-backend/internal/domains/book/model"
	bookService "bookcatalog-backend/internal/domains/book/service"
	"bookcatalog-backend/pkg/container"
	"bookcatalog-backend/pkg/jwt"
)

// exportStubService overrides only the method the export route calls;
// anything else panics, which is the point.
type exportStubService struct {
	bookService.ServiceInterface
}

func (exportStubService) ExportBooks(ctx context.Context, params *model.BookSearchParams) (*excelize.File, error) {
	return excelize.NewFile(), nil
}

func TestExportRouteRequiresStaff(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mgr := jwt.NewManager("test-secret", time.Hour, time.Hour)
	router := SetupRouter(&container.Container{
		JWTManager:  mgr,
		BookHandler: bookHandler.NewBookHandler(exportStubService{}, nil),
	})

	get := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/books/export", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("anonymous is rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get("").Code)
	})

	t.Run("non-staff user is rejected", func(t *testing.T) {
		token, err := mgr.GenerateAccessToken(7, "reader", "reader@example.com", false)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, get(token).Code)
	})

	t.Run("staff user receives the workbook", func(t *testing.T) {
		token, err := mgr.GenerateAccessToken(1, "admin", "admin@example.com", true)
		require.NoError(t, err)

		w := get(token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	})
}
