package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	bookService "bookcatalog-backend/internal/domains/book/service"
	"bookcatalog-backend/internal/shared"
)

// DeleteCoverHandler removes every stored object under a retired
// cover's prefix.
type DeleteCoverHandler struct {
	covers bookService.CoverServiceInterface
}

func NewDeleteCoverHandler(covers bookService.CoverServiceInterface) *DeleteCoverHandler {
	return &DeleteCoverHandler{covers: covers}
}

func (h *DeleteCoverHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteCoverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal cover delete payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("prefix", payload.Prefix).
		Msg("deleting cover objects")

	if err := h.covers.RemoveCoverObjects(ctx, payload.Prefix); err != nil {
		log.Error().
			Err(err).
			Str("prefix", payload.Prefix).
			Msg("failed to delete cover objects")
		return fmt.Errorf("delete cover objects: %w", err)
	}

	log.Info().
		Str("prefix", payload.Prefix).
		Msg("cover objects deleted")
	return nil
}
