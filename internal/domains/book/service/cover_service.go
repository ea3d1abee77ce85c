package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg" // Registers JPEG decoder
	_ "image/png"  // Registers PNG decoder
	"path"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"bookcatalog-backend/internal/domains/book/model"
	"bookcatalog-backend/internal/domains/book/repository"
	"bookcatalog-backend/internal/infrastructure/storage"
	"bookcatalog-backend/internal/shared"
	"bookcatalog-backend/pkg/logger"
)

const maxCoverBytes = 5 * 1024 * 1024

// CoverServiceInterface manages a book's stored cover image and its
// resized variants.
type CoverServiceInterface interface {
	UploadCover(ctx context.Context, bookID int64, data []byte) (string, error)
	DeleteCover(ctx context.Context, bookID int64) error
	ProcessCover(ctx context.Context, bookID int64, key string) error
	RemoveCoverObjects(ctx context.Context, prefix string) error
}

type coverService struct {
	repo      repository.RepositoryInterface
	storage   ObjectStorage
	processor *storage.ImageProcessor
	tasks     TaskEnqueuer
}

func NewCoverService(
	repo repository.RepositoryInterface,
	objectStorage ObjectStorage,
	processor *storage.ImageProcessor,
	tasks TaskEnqueuer,
) CoverServiceInterface {
	return &coverService{
		repo:      repo,
		storage:   objectStorage,
		processor: processor,
		tasks:     tasks,
	}
}

// UploadCover stores the original under a fresh prefix, points the book
// at it and queues variant generation. The previous cover's objects are
// cleaned up asynchronously.
func (s *coverService) UploadCover(ctx context.Context, bookID int64, data []byte) (string, error) {
	book, err := s.repo.GetBookByID(ctx, bookID)
	if err != nil {
		return "", err
	}
	if int64(len(data)) > maxCoverBytes {
		return "", model.ErrCoverTooLarge
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", model.ErrCoverNotSupported
	}
	var ext string
	switch format {
	case "jpeg":
		ext = "jpg"
	case "png":
		ext = "png"
	default:
		return "", model.ErrCoverNotSupported
	}

	key := fmt.Sprintf("covers/%s/original.%s", uuid.NewString(), ext)
	url, err := s.storage.Upload(ctx, key, data, "image/"+format)
	if err != nil {
		return "", fmt.Errorf("upload cover: %w", err)
	}
	if err := s.repo.SetCoverImage(ctx, bookID, &key); err != nil {
		return "", err
	}

	if book.CoverImage != nil && *book.CoverImage != "" {
		enqueueCoverCleanup(ctx, s.tasks, *book.CoverImage)
	}
	if err := s.enqueueProcessCover(ctx, bookID, key); err != nil {
		logger.Warn("failed to enqueue cover processing", map[string]interface{}{
			"book_id": bookID,
			"key":     key,
			"error":   err.Error(),
		})
	}

	logger.Info("cover uploaded", map[string]interface{}{
		"book_id": bookID,
		"key":     key,
	})
	return url, nil
}

func (s *coverService) DeleteCover(ctx context.Context, bookID int64) error {
	book, err := s.repo.GetBookByID(ctx, bookID)
	if err != nil {
		return err
	}
	if book.CoverImage == nil || *book.CoverImage == "" {
		return model.ErrCoverNotFound
	}
	if err := s.repo.SetCoverImage(ctx, bookID, nil); err != nil {
		return err
	}
	enqueueCoverCleanup(ctx, s.tasks, *book.CoverImage)
	logger.Info("cover deleted", map[string]interface{}{
		"book_id": bookID,
	})
	return nil
}

// ProcessCover regenerates every variant from the stored original. Ran
// by the worker; errors bubble up so the task retries.
func (s *coverService) ProcessCover(ctx context.Context, bookID int64, key string) error {
	data, err := s.storage.Download(ctx, key)
	if err != nil {
		return fmt.Errorf("download original: %w", err)
	}
	if err := s.processor.ValidateImage(data); err != nil {
		return fmt.Errorf("invalid cover image: %w", err)
	}
	variants, err := s.processor.ProcessImage(data)
	if err != nil {
		return fmt.Errorf("process cover image: %w", err)
	}

	dir := path.Dir(key)
	for name, variantData := range variants {
		variantKey := fmt.Sprintf("%s/%s.jpg", dir, name)
		if _, err := s.storage.Upload(ctx, variantKey, variantData, "image/jpeg"); err != nil {
			return fmt.Errorf("upload variant %s: %w", name, err)
		}
	}

	logger.Info("cover processed", map[string]interface{}{
		"book_id":  bookID,
		"key":      key,
		"variants": len(variants),
	})
	return nil
}

func (s *coverService) RemoveCoverObjects(ctx context.Context, prefix string) error {
	if err := s.storage.DeleteByPrefix(ctx, prefix); err != nil {
		return fmt.Errorf("delete cover objects: %w", err)
	}
	logger.Info("cover objects removed", map[string]interface{}{
		"prefix": prefix,
	})
	return nil
}

func (s *coverService) enqueueProcessCover(ctx context.Context, bookID int64, key string) error {
	payload, err := json.Marshal(shared.CoverImagePayload{BookID: bookID, Key: key})
	if err != nil {
		return err
	}
	task := asynq.NewTask(shared.TypeProcessCoverImage, payload)
	_, err = s.tasks.EnqueueContext(ctx, task, asynq.Queue(shared.QueueDefault))
	return err
}

// enqueueCoverCleanup schedules removal of every stored object under
// the cover's prefix. Failures only log; the row change already stuck.
func enqueueCoverCleanup(ctx context.Context, tasks TaskEnqueuer, key string) {
	payload, err := json.Marshal(shared.DeleteCoverPayload{Prefix: path.Dir(key) + "/"})
	if err != nil {
		return
	}
	task := asynq.NewTask(shared.TypeDeleteCoverImages, payload)
	if _, err := tasks.EnqueueContext(ctx, task, asynq.Queue(shared.QueueLow)); err != nil {
		logger.Warn("failed to enqueue cover cleanup", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
