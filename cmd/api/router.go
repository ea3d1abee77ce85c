package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookcatalog-backend/internal/shared/middleware"
	"bookcatalog-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupFavoriteRoutes(v1, c)
		setupCatalogRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authed := middleware.AuthMiddleware(c.JWTManager)

	auth := v1.Group("/auth")
	{
		auth.POST("/user", c.AuthHandler.Register)
		auth.POST("/login", c.AuthHandler.Login)
		auth.POST("/token/refresh", c.AuthHandler.Refresh)
		auth.POST("/logout", authed, c.AuthHandler.Logout)

		auth.GET("/user", authed, c.AuthHandler.GetProfile)
		auth.PUT("/user", authed, c.AuthHandler.UpdateProfile)
		auth.PATCH("/user", authed, c.AuthHandler.UpdateProfile)
		auth.POST("/user/change-password", authed, c.AuthHandler.ChangePassword)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	optional := middleware.OptionalAuthMiddleware(c.JWTManager)
	authed := middleware.AuthMiddleware(c.JWTManager)
	staff := middleware.StaffMiddleware()

	books := v1.Group("/books")
	{
		// Read endpoints resolve favorite flags when a token is present.
		books.GET("", optional, c.BookHandler.ListBooks)
		books.GET("/search", optional, c.BookHandler.ListBooks)
		books.GET("/:id", optional, c.BookHandler.GetBook)

		books.POST("/toggle_favorite", authed, c.FavoriteHandler.ToggleFavorite)

		// Catalog mutations are staff only.
		books.POST("", authed, staff, c.BookHandler.CreateBook)
		books.PUT("/:id", authed, staff, c.BookHandler.UpdateBook)
		books.PATCH("/:id", authed, staff, c.BookHandler.UpdateBook)
		books.DELETE("/:id", authed, staff, c.BookHandler.DeleteBook)
		books.POST("/bulk_delete", authed, staff, c.BookHandler.BulkDelete)
		books.POST("/bulk_delete_filtered", authed, staff, c.BookHandler.BulkDeleteFiltered)
		books.POST("/import", authed, staff, c.ImportHandler.ImportBooks)
		books.GET("/export", authed, staff, c.BookHandler.ExportBooks)
		books.POST("/:id/cover", authed, staff, c.BookHandler.UploadCover)
		books.DELETE("/:id/cover", authed, staff, c.BookHandler.DeleteCover)
	}
}

// ========================================
// FAVORITE ROUTES
// ========================================
func setupFavoriteRoutes(v1 *gin.RouterGroup, c *container.Container) {
	favorites := v1.Group("/favorites")
	favorites.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		favorites.GET("", c.FavoriteHandler.ListFavorites)
		favorites.POST("", c.FavoriteHandler.AddFavorite)
		favorites.GET("/:id", c.FavoriteHandler.GetFavorite)
		favorites.DELETE("/:id", c.FavoriteHandler.RemoveFavorite)
	}
}

// ========================================
// CATALOG ROUTES
// ========================================
// Entity reads are public; mutations require a staff account.
func setupCatalogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authed := middleware.AuthMiddleware(c.JWTManager)
	staff := middleware.StaffMiddleware()
	h := c.CatalogHandler

	authors := v1.Group("/authors")
	{
		authors.GET("", h.ListAuthors)
		authors.GET("/search_all", h.SearchAllAuthors)
		authors.GET("/:id", h.GetAuthor)
		authors.POST("", authed, staff, h.CreateAuthor)
		authors.PUT("/:id", authed, staff, h.UpdateAuthor)
		authors.PATCH("/:id", authed, staff, h.UpdateAuthor)
		authors.DELETE("/:id", authed, staff, h.DeleteAuthor)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/search_all", h.SearchAllCategories)
		categories.GET("/:id", h.GetCategory)
		categories.POST("", authed, staff, h.CreateCategory)
		categories.PUT("/:id", authed, staff, h.UpdateCategory)
		categories.PATCH("/:id", authed, staff, h.UpdateCategory)
		categories.DELETE("/:id", authed, staff, h.DeleteCategory)
	}

	genres := v1.Group("/genres")
	{
		genres.GET("", h.ListGenres)
		genres.GET("/:id", h.GetGenre)
		genres.POST("", authed, staff, h.CreateGenre)
		genres.PUT("/:id", authed, staff, h.UpdateGenre)
		genres.PATCH("/:id", authed, staff, h.UpdateGenre)
		genres.DELETE("/:id", authed, staff, h.DeleteGenre)
	}

	characters := v1.Group("/characters")
	{
		characters.GET("", h.ListCharacters)
		characters.GET("/:id", h.GetCharacter)
		characters.POST("", authed, staff, h.CreateCharacter)
		characters.PUT("/:id", authed, staff, h.UpdateCharacter)
		characters.PATCH("/:id", authed, staff, h.UpdateCharacter)
		characters.DELETE("/:id", authed, staff, h.DeleteCharacter)
	}

	awards := v1.Group("/awards")
	{
		awards.GET("", h.ListAwards)
		awards.GET("/:id", h.GetAward)
		awards.POST("", authed, staff, h.CreateAward)
		awards.PUT("/:id", authed, staff, h.UpdateAward)
		awards.PATCH("/:id", authed, staff, h.UpdateAward)
		awards.DELETE("/:id", authed, staff, h.DeleteAward)
	}

	publishers := v1.Group("/publishers")
	{
		publishers.GET("", h.ListPublishers)
		publishers.GET("/:id", h.GetPublisher)
		publishers.POST("", authed, staff, h.CreatePublisher)
		publishers.PUT("/:id", authed, staff, h.UpdatePublisher)
		publishers.PATCH("/:id", authed, staff, h.UpdatePublisher)
		publishers.DELETE("/:id", authed, staff, h.DeletePublisher)
	}

	languages := v1.Group("/languages")
	{
		languages.GET("", h.ListLanguages)
		languages.GET("/:id", h.GetLanguage)
		languages.POST("", authed, staff, h.CreateLanguage)
		languages.PUT("/:id", authed, staff, h.UpdateLanguage)
		languages.PATCH("/:id", authed, staff, h.UpdateLanguage)
		languages.DELETE("/:id", authed, staff, h.DeleteLanguage)
	}

	series := v1.Group("/series")
	{
		series.GET("", h.ListSeries)
		series.GET("/:id", h.GetSeries)
		series.POST("", authed, staff, h.CreateSeries)
		series.PUT("/:id", authed, staff, h.UpdateSeries)
		series.PATCH("/:id", authed, staff, h.UpdateSeries)
		series.DELETE("/:id", authed, staff, h.DeleteSeries)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
