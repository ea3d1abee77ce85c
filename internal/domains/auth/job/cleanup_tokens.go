package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookcatalog-backend/internal/domains/auth/repository"
	"bookcatalog-backend/internal/shared"
	"bookcatalog-backend/pkg/logger"
)

// CleanupExpiredTokensHandler prunes refresh tokens whose expiry has
// passed. Blacklisted rows go too: an expired token can no longer be
// replayed, so the revocation marker has done its job.
type CleanupExpiredTokensHandler struct {
	tokens repository.TokenRepositoryInterface
}

func NewCleanupExpiredTokensHandler(tokens repository.TokenRepositoryInterface) *CleanupExpiredTokensHandler {
	return &CleanupExpiredTokensHandler{tokens: tokens}
}

func (h *CleanupExpiredTokensHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.CleanupTokensPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("unmarshal cleanup payload failed", err)
		return err
	}

	cutoff := time.Now()
	log.Info().
		Time("cutoff", cutoff).
		Msg("Starting cleanup of expired refresh tokens")

	deleted, err := h.tokens.DeleteExpired(ctx, cutoff)
	if err != nil {
		logger.Error("delete expired tokens failed", err)
		return err
	}

	log.Info().
		Int64("tokens_deleted", deleted).
		Msg("Expired refresh tokens cleaned up")
	return nil
}
