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

// ProcessCoverHandler generates the resized cover variants after an
// upload.
type ProcessCoverHandler struct {
	covers bookService.CoverServiceInterface
}

func NewProcessCoverHandler(covers bookService.CoverServiceInterface) *ProcessCoverHandler {
	return &ProcessCoverHandler{covers: covers}
}

func (h *ProcessCoverHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.CoverImagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal cover payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Int64("book_id", payload.BookID).
		Str("key", payload.Key).
		Msg("processing cover variants")

	if err := h.covers.ProcessCover(ctx, payload.BookID, payload.Key); err != nil {
		log.Error().
			Err(err).
			Int64("book_id", payload.BookID).
			Str("key", payload.Key).
			Msg("failed to process cover")
		return fmt.Errorf("process cover: %w", err)
	}

	log.Info().
		Int64("book_id", payload.BookID).
		Msg("cover variants generated")
	return nil
}
