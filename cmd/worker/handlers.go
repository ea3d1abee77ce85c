package main

import (
	"github.com/hibiken/asynq"

	authJob "bookcatalog-backend/internal/domains/auth/job"
	bookJob "bookcatalog-backend/internal/domains/book/job"
	"bookcatalog-backend/internal/shared"
	"bookcatalog-backend/pkg/container"
)

// HandlerRegistry holds every background job handler.
type HandlerRegistry struct {
	cleanupTokens *authJob.CleanupExpiredTokensHandler
	processCover  *bookJob.ProcessCoverHandler
	deleteCovers  *bookJob.DeleteCoverHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		cleanupTokens: authJob.NewCleanupExpiredTokensHandler(c.TokenRepo),
		processCover:  bookJob.NewProcessCoverHandler(c.CoverService),
		deleteCovers:  bookJob.NewDeleteCoverHandler(c.CoverService),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeCleanupExpiredTokens, h.cleanupTokens.ProcessTask)
	mux.HandleFunc(shared.TypeProcessCoverImage, h.processCover.ProcessTask)
	mux.HandleFunc(shared.TypeDeleteCoverImages, h.deleteCovers.ProcessTask)
}
