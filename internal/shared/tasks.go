package shared

// Task types routed through asynq. The "domain:action" naming keeps the
// worker mux readable.
const (
	TypeCleanupExpiredTokens = "auth:cleanup_expired_tokens"
	TypeProcessCoverImage    = "book:process_cover_image"
	TypeDeleteCoverImages    = "book:delete_cover_images"
)

// Queue names in priority order.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// CoverImagePayload is enqueued after a cover upload so the worker can
// generate resized variants.
type CoverImagePayload struct {
	BookID int64  `json:"book_id"`
	Key    string `json:"key"`
}

// DeleteCoverPayload removes every stored object under a cover prefix.
type DeleteCoverPayload struct {
	Prefix string `json:"prefix"`
}

// CleanupTokensPayload is empty today but kept as a struct so fields can
// be added without changing the task signature.
type CleanupTokensPayload struct{}
