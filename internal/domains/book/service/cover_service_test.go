package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog-backend/internal/domains/book/model"
	"bookcatalog-backend/internal/infrastructure/storage"
	"bookcatalog-backend/internal/shared"
)

func newTestCoverService() (CoverServiceInterface, *fakeBookRepo, *fakeStorage, *fakeEnqueuer) {
	repo := newFakeBookRepo()
	store := newFakeStorage()
	tasks := &fakeEnqueuer{}
	return NewCoverService(repo, store, storage.NewImageProcessor(), tasks), repo, store, tasks
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7 % 256), G: uint8(y * 5 % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadCoverStoresOriginalAndQueuesProcessing(t *testing.T) {
	svc, repo, store, tasks := newTestCoverService()
	book := seedBook(t, repo, "The Left Hand of Darkness", "9780441478125")

	url, err := svc.UploadCover(context.Background(), book.ID, encodePNG(t, 400, 600))
	require.NoError(t, err)

	require.NotNil(t, repo.books[book.ID].CoverImage)
	key := *repo.books[book.ID].CoverImage
	assert.True(t, strings.HasPrefix(key, "covers/"), key)
	assert.True(t, strings.HasSuffix(key, "/original.png"), key)
	assert.Equal(t, store.PublicURL(key), url)
	_, stored := store.objects[key]
	assert.True(t, stored, "the original upload should be persisted")

	require.Equal(t, []string{shared.TypeProcessCoverImage}, tasks.taskTypes())
	var payload shared.CoverImagePayload
	require.NoError(t, json.Unmarshal(tasks.tasks[0].Payload(), &payload))
	assert.Equal(t, book.ID, payload.BookID)
	assert.Equal(t, key, payload.Key)
}

func TestUploadCoverReplacesPreviousCover(t *testing.T) {
	svc, repo, _, tasks := newTestCoverService()
	book := seedBook(t, repo, "The Dispossessed", "9780061054884")

	_, err := svc.UploadCover(context.Background(), book.ID, encodePNG(t, 400, 600))
	require.NoError(t, err)
	firstKey := *repo.books[book.ID].CoverImage

	_, err = svc.UploadCover(context.Background(), book.ID, encodePNG(t, 300, 450))
	require.NoError(t, err)
	secondKey := *repo.books[book.ID].CoverImage
	assert.NotEqual(t, firstKey, secondKey, "every upload gets a fresh prefix")

	require.Equal(t, []string{
		shared.TypeProcessCoverImage,
		shared.TypeDeleteCoverImages,
		shared.TypeProcessCoverImage,
	}, tasks.taskTypes())
	var cleanup shared.DeleteCoverPayload
	require.NoError(t, json.Unmarshal(tasks.tasks[1].Payload(), &cleanup))
	assert.Equal(t, path.Dir(firstKey)+"/", cleanup.Prefix)
}

func TestUploadCoverValidation(t *testing.T) {
	svc, repo, _, tasks := newTestCoverService()
	book := seedBook(t, repo, "The Lathe of Heaven", "9781416556961")

	_, err := svc.UploadCover(context.Background(), 99, encodePNG(t, 40, 60))
	assert.ErrorIs(t, err, model.ErrBookNotFound)

	_, err = svc.UploadCover(context.Background(), book.ID, make([]byte, 5*1024*1024+1))
	assert.ErrorIs(t, err, model.ErrCoverTooLarge)

	_, err = svc.UploadCover(context.Background(), book.ID, []byte("plain text, not pixels"))
	assert.ErrorIs(t, err, model.ErrCoverNotSupported)

	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10)), nil))
	_, err = svc.UploadCover(context.Background(), book.ID, buf.Bytes())
	assert.ErrorIs(t, err, model.ErrCoverNotSupported)

	assert.Empty(t, tasks.tasks, "rejected uploads must not enqueue work")
}

func TestDeleteCover(t *testing.T) {
	svc, repo, _, tasks := newTestCoverService()
	book := seedBook(t, repo, "Rocannon's World", "9780441731664")
	key := "covers/rocannon/original.jpg"
	repo.books[book.ID].CoverImage = &key

	require.NoError(t, svc.DeleteCover(context.Background(), book.ID))
	assert.Nil(t, repo.books[book.ID].CoverImage)

	require.Equal(t, []string{shared.TypeDeleteCoverImages}, tasks.taskTypes())
	var cleanup shared.DeleteCoverPayload
	require.NoError(t, json.Unmarshal(tasks.tasks[0].Payload(), &cleanup))
	assert.Equal(t, "covers/rocannon/", cleanup.Prefix)

	assert.ErrorIs(t, svc.DeleteCover(context.Background(), book.ID), model.ErrCoverNotFound)
	assert.ErrorIs(t, svc.DeleteCover(context.Background(), 99), model.ErrBookNotFound)
}

func TestProcessCoverGeneratesVariants(t *testing.T) {
	svc, _, store, _ := newTestCoverService()
	key := "covers/earthsea/original.png"
	store.objects[key] = encodePNG(t, 800, 1200)

	require.NoError(t, svc.ProcessCover(context.Background(), 1, key))

	sizes := map[string][2]int{
		"large":     {800, 1200},
		"medium":    {400, 600},
		"thumbnail": {200, 300},
	}
	for name, want := range sizes {
		variantKey := fmt.Sprintf("covers/earthsea/%s.jpg", name)
		data, ok := store.objects[variantKey]
		require.True(t, ok, variantKey)

		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format, "variants are re-encoded as JPEG")
		assert.Equal(t, want[0], cfg.Width, name)
		assert.Equal(t, want[1], cfg.Height, name)
	}
}

func TestProcessCoverMissingOriginal(t *testing.T) {
	svc, _, _, _ := newTestCoverService()

	err := svc.ProcessCover(context.Background(), 1, "covers/nowhere/original.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download original")
}

func TestRemoveCoverObjects(t *testing.T) {
	svc, _, store, _ := newTestCoverService()
	store.objects["covers/old/original.jpg"] = []byte{1}
	store.objects["covers/old/thumbnail.jpg"] = []byte{2}
	store.objects["covers/kept/original.jpg"] = []byte{3}

	require.NoError(t, svc.RemoveCoverObjects(context.Background(), "covers/old/"))
	assert.NotContains(t, store.objects, "covers/old/original.jpg")
	assert.NotContains(t, store.objects, "covers/old/thumbnail.jpg")
	assert.Contains(t, store.objects, "covers/kept/original.jpg")
}
