package service

import (
	"context"
	"fmt"
	"time"

	"bookcatalog-backend/internal/domains/book/model"
	"bookcatalog-backend/internal/domains/book/repository"
	catalogrepo "bookcatalog-backend/internal/domains/catalog/repository"
	"bookcatalog-backend/pkg/cache"
	"bookcatalog-backend/pkg/logger"
)

const (
	searchCachePrefix = "books:search"
	searchCacheTTL    = time.Hour
)

type BookService struct {
	repo        repository.RepositoryInterface
	catalogRepo catalogrepo.RepositoryInterface
	cache       cache.Cache
	storage     ObjectStorage
	tasks       TaskEnqueuer
}

func NewBookService(
	repo repository.RepositoryInterface,
	catalogRepo catalogrepo.RepositoryInterface,
	cache cache.Cache,
	storage ObjectStorage,
	tasks TaskEnqueuer,
) ServiceInterface {
	return &BookService{
		repo:        repo,
		catalogRepo: catalogRepo,
		cache:       cache,
		storage:     storage,
		tasks:       tasks,
	}
}

func (s *BookService) SearchBooks(ctx context.Context, params *model.BookSearchParams) ([]model.BookListItem, int64, error) {
	type cachedSearch struct {
		Items []model.BookListItem `json:"items"`
		Total int64                `json:"total"`
	}

	cacheKey := model.SearchCacheKey(searchCachePrefix, params)
	var cached cachedSearch
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Warn("search cache read failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}
	if found {
		return cached.Items, cached.Total, nil
	}

	items, err := s.repo.SearchBooks(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("search books: %w", err)
	}
	total := int64(len(items))
	if params.Page != nil {
		total, err = s.repo.CountBooks(ctx, params)
		if err != nil {
			return nil, 0, fmt.Errorf("count books: %w", err)
		}
	}

	for i := range items {
		decorateListItem(&items[i], s.storage.PublicURL)
	}

	if err := s.cache.Set(ctx, cacheKey, cachedSearch{Items: items, Total: total}, searchCacheTTL); err != nil {
		logger.Warn("search cache write failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}
	return items, total, nil
}

func (s *BookService) GetBookDetail(ctx context.Context, id, userID int64) (*model.BookDetail, error) {
	book, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, book, userID)
}

func (s *BookService) CreateBook(ctx context.Context, req *model.BookCreateRequest) (*model.BookWriteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	exists, err := s.repo.CheckISBNExists(ctx, req.ISBN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrISBNExists
	}

	book, err := req.ToBook()
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreateBook(ctx, book)
	if err != nil {
		return nil, err
	}

	if req.GenreIDs != nil {
		if err := s.repo.SetBookGenres(ctx, created.ID, req.GenreIDs); err != nil {
			return nil, err
		}
	}
	if req.CharacterIDs != nil {
		if err := s.repo.SetBookCharacters(ctx, created.ID, req.CharacterIDs); err != nil {
			return nil, err
		}
	}
	if req.AwardIDs != nil {
		if err := s.repo.SetBookAwards(ctx, created.ID, req.AwardIDs); err != nil {
			return nil, err
		}
	}

	s.invalidateSearchCache(ctx)
	logger.Info("book created", map[string]interface{}{
		"book_id": created.ID,
		"isbn":    created.ISBN,
	})
	return model.NewBookWriteResponse(created, req.GenreIDs, req.CharacterIDs, req.AwardIDs), nil
}

func (s *BookService) UpdateBook(ctx context.Context, id int64, req *model.BookUpdateRequest) (*model.BookWriteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	book, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ISBN != nil && *req.ISBN != book.ISBN {
		exists, err := s.repo.CheckISBNExistsExcept(ctx, *req.ISBN, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrISBNExists
		}
	}
	if err := req.Apply(book); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBook(ctx, book); err != nil {
		return nil, err
	}

	if req.GenreIDs != nil {
		if err := s.repo.SetBookGenres(ctx, id, req.GenreIDs); err != nil {
			return nil, err
		}
	}
	if req.CharacterIDs != nil {
		if err := s.repo.SetBookCharacters(ctx, id, req.CharacterIDs); err != nil {
			return nil, err
		}
	}
	if req.AwardIDs != nil {
		if err := s.repo.SetBookAwards(ctx, id, req.AwardIDs); err != nil {
			return nil, err
		}
	}

	genreIDs := req.GenreIDs
	if genreIDs == nil {
		genres, err := s.repo.GetBookGenres(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, g := range genres {
			genreIDs = append(genreIDs, g.ID)
		}
	}
	characterIDs := req.CharacterIDs
	if characterIDs == nil {
		characters, err := s.repo.GetBookCharacters(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, c := range characters {
			characterIDs = append(characterIDs, c.ID)
		}
	}
	awardIDs := req.AwardIDs
	if awardIDs == nil {
		awards, err := s.repo.GetBookAwards(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, a := range awards {
			awardIDs = append(awardIDs, a.ID)
		}
	}

	s.invalidateSearchCache(ctx)
	logger.Info("book updated", map[string]interface{}{
		"book_id": id,
	})
	return model.NewBookWriteResponse(book, genreIDs, characterIDs, awardIDs), nil
}

func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	book, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}
	if book.CoverImage != nil && *book.CoverImage != "" {
		enqueueCoverCleanup(ctx, s.tasks, *book.CoverImage)
	}
	s.invalidateSearchCache(ctx)
	logger.Info("book deleted", map[string]interface{}{
		"book_id": id,
	})
	return nil
}

func (s *BookService) BulkDeleteBooks(ctx context.Context, req *model.BulkDeleteRequest) (*model.BulkDeleteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	deleted, err := s.repo.DeleteBooksByIDs(ctx, req.BookIDs)
	if err != nil {
		return nil, err
	}
	s.invalidateSearchCache(ctx)
	logger.Info("bulk delete by ids", map[string]interface{}{
		"requested": len(req.BookIDs),
		"deleted":   deleted,
	})
	return &model.BulkDeleteResponse{
		Message:      fmt.Sprintf("Successfully deleted %d books.", deleted),
		DeletedCount: deleted,
	}, nil
}

func (s *BookService) BulkDeleteFiltered(ctx context.Context, params *model.BookSearchParams) (*model.BulkDeleteResponse, error) {
	deleted, err := s.repo.DeleteBooksByFilter(ctx, params)
	if err != nil {
		return nil, err
	}
	s.invalidateSearchCache(ctx)
	logger.Info("bulk delete by filter", map[string]interface{}{
		"deleted": deleted,
	})
	return &model.BulkDeleteResponse{
		Message:      fmt.Sprintf("Successfully deleted %d books based on filters.", deleted),
		DeletedCount: deleted,
	}, nil
}

// buildDetail assembles the nested detail response: related entities
// come from the catalog, associations from the link tables.
func (s *BookService) buildDetail(ctx context.Context, book *model.Book, userID int64) (*model.BookDetail, error) {
	detail := &model.BookDetail{
		ID:                   book.ID,
		Title:                book.Title,
		ISBN:                 book.ISBN,
		Description:          book.Description,
		GoodreadsID:          book.GoodreadsID,
		SeriesInfo:           book.SeriesInfo,
		Price:                book.Price,
		PublicationDate:      book.PublicationDate,
		FirstPublicationDate: book.FirstPublicationDate,
		PageCount:            book.PageCount,
		BookFormat:           book.BookFormat,
		Edition:              book.Edition,
		CoverImage:           book.CoverImage,
		CoverImageURL:        book.CoverImageURL,
		AverageRating:        book.AverageRating,
		NumRatings:           book.NumRatings,
		LikedPercent:         book.LikedPercent,
		Ratings5Star:         book.Ratings5Star,
		Ratings4Star:         book.Ratings4Star,
		Ratings3Star:         book.Ratings3Star,
		Ratings2Star:         book.Ratings2Star,
		Ratings1Star:         book.Ratings1Star,
		BBEScore:             book.BBEScore,
		BBEVotes:             book.BBEVotes,
		Settings:             book.Settings,
		CreatedAt:            book.CreatedAt,
		UpdatedAt:            book.UpdatedAt,
	}

	author, err := s.catalogRepo.GetAuthor(ctx, book.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}
	detail.Author = author

	if book.CategoryID != nil {
		category, err := s.catalogRepo.GetCategory(ctx, *book.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("load category: %w", err)
		}
		detail.Category = category
	}
	if book.PublisherID != nil {
		publisher, err := s.catalogRepo.GetPublisher(ctx, *book.PublisherID)
		if err != nil {
			return nil, fmt.Errorf("load publisher: %w", err)
		}
		detail.Publisher = publisher
	}
	if book.LanguageID != nil {
		language, err := s.catalogRepo.GetLanguage(ctx, *book.LanguageID)
		if err != nil {
			return nil, fmt.Errorf("load language: %w", err)
		}
		detail.Language = language
	}
	if book.SeriesID != nil {
		series, err := s.catalogRepo.GetSeries(ctx, *book.SeriesID)
		if err != nil {
			return nil, fmt.Errorf("load series: %w", err)
		}
		detail.Series = series
	}

	genres, err := s.repo.GetBookGenres(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	detail.Genres = genres

	characters, err := s.repo.GetBookCharacters(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	detail.Characters = characters

	awards, err := s.repo.GetBookAwards(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	detail.Awards = awards

	if userID > 0 {
		favorited, err := s.repo.IsFavorited(ctx, userID, book.ID)
		if err != nil {
			return nil, err
		}
		detail.IsFavorited = favorited
	}

	var seriesName *string
	if detail.Series != nil {
		seriesName = &detail.Series.Name
	}
	detail.SeriesDisplay = model.SeriesDisplay(seriesName, book.SeriesInfo)
	detail.RatingDistribution = book.RatingDistribution()
	detail.SettingsList = model.SettingsList(book.Settings)
	detail.CoverImageDisplay = model.CoverImageDisplay(book.CoverImage, book.CoverImageURL, s.storage.PublicURL)
	return detail, nil
}

// invalidateSearchCache drops every cached search result. Book
// mutations change result sets for all viewers.
func (s *BookService) invalidateSearchCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, searchCachePrefix+":*"); err != nil {
		logger.Warn("failed to invalidate search cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// decorateListItem fills the display fields the list projection cannot
// compute in SQL.
func decorateListItem(item *model.BookListItem, resolve func(string) string) {
	item.CoverImageDisplay = model.CoverImageDisplay(item.CoverImage, item.CoverImageURL, resolve)
	item.RatingDisplay = model.RatingDisplay(item.AverageRating, item.NumRatings)
}
