package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"bookcatalog-backend/internal/domains/book/model"
	"bookcatalog-backend/internal/domains/book/repository"
	catalogrepo "bookcatalog-backend/internal/domains/catalog/repository"
	"bookcatalog-backend/internal/shared/types"
	"bookcatalog-backend/pkg/cache"
)

// maxImportErrors aborts a run once crossed; a systematically broken
// file should not grind through millions of rows.
const maxImportErrors = 100

var requiredImportHeaders = []string{"title", "author", "isbn"}

// ImportServiceInterface ingests normalized records from a RecordSource.
type ImportServiceInterface interface {
	ImportBooks(ctx context.Context, source RecordSource, opts model.ImportOptions) (*model.ImportReport, error)
}

type importService struct {
	repo     repository.RepositoryInterface
	resolver catalogrepo.EntityResolver
	cache    cache.Cache
}

func NewImportService(
	repo repository.RepositoryInterface,
	resolver catalogrepo.EntityResolver,
	cache cache.Cache,
) ImportServiceInterface {
	return &importService{
		repo:     repo,
		resolver: resolver,
		cache:    cache,
	}
}

type rowOutcome int

const (
	rowCreated rowOutcome = iota
	rowSkipped
)

// ImportBooks runs the pipeline row by row: normalize, resolve related
// entities, commit. Each record commits independently, so a failed row
// never takes down its neighbors.
func (s *importService) ImportBooks(ctx context.Context, source RecordSource, opts model.ImportOptions) (*model.ImportReport, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if err := checkRequiredHeaders(source.Headers()); err != nil {
		return nil, err
	}

	log.Info().
		Strs("headers", source.Headers()).
		Int("batch_size", opts.BatchSize).
		Int("limit", opts.Limit).
		Bool("skip_duplicates", opts.SkipDuplicates).
		Msg("starting book import")

	report := &model.ImportReport{}
	rowNum := 1 // the header row
	for {
		if opts.Limit > 0 && report.TotalRows >= opts.Limit {
			break
		}
		row, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		report.TotalRows++

		var outcome rowOutcome
		if err == nil {
			outcome, err = s.importRow(ctx, row, opts.SkipDuplicates)
		}
		if err != nil {
			report.Errored++
			report.Errors = append(report.Errors, model.RowError{
				Row:   rowNum,
				Title: strings.TrimSpace(row["title"]),
				Error: err.Error(),
			})
			log.Error().Err(err).Int("row", rowNum).Msg("failed to import row")
			if report.Errored > maxImportErrors {
				report.Aborted = true
				log.Error().Int("errors", report.Errored).Msg("too many errors, stopping import")
				break
			}
			continue
		}
		if outcome == rowSkipped {
			report.Skipped++
			continue
		}
		report.Created++
		if report.Created%opts.BatchSize == 0 {
			log.Info().Int("created", report.Created).Msg("import progress")
		}
	}

	if report.Created > 0 {
		if err := s.cache.DeletePattern(ctx, searchCachePrefix+":*"); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate search cache")
		}
	}

	log.Info().
		Int("total_rows", report.TotalRows).
		Int("created", report.Created).
		Int("skipped", report.Skipped).
		Int("errored", report.Errored).
		Bool("aborted", report.Aborted).
		Msg("import completed")
	return report, nil
}

func (s *importService) importRow(ctx context.Context, row map[string]string, skipDuplicates bool) (rowOutcome, error) {
	record := normalizeRecord(row)
	if record == nil {
		return rowSkipped, nil
	}
	if skipDuplicates {
		exists, err := s.repo.CheckISBNExists(ctx, record.ISBN)
		if err != nil {
			return 0, err
		}
		if exists {
			return rowSkipped, nil
		}
	}

	book, err := s.resolveRecord(ctx, record)
	if err != nil {
		return 0, err
	}
	created, err := s.repo.CreateBook(ctx, book)
	if err != nil {
		return 0, err
	}
	s.attachAssociations(ctx, created.ID, record)
	return rowCreated, nil
}

// normalizeRecord cleans one raw row. Rows without a title or author
// carry nothing worth keeping and map to nil.
func normalizeRecord(row map[string]string) *model.ImportRecord {
	title := strings.TrimSpace(row["title"])
	author := strings.TrimSpace(row["author"])
	if title == "" || author == "" {
		return nil
	}

	record := &model.ImportRecord{
		Title:      truncateRunes(title, 500),
		AuthorName: cleanAuthor(author),
		ISBN:       cleanISBN(row["isbn"], title, author),
	}

	record.Description = optionalText(row["description"], 5000)
	record.GoodreadsID = optionalText(row["bookid"], 100)
	record.Genres = cleanGenres(row["genres"])
	if len(record.Genres) > 0 {
		category := record.Genres[0]
		record.CategoryName = &category
	}
	record.Characters = cleanCharacters(row["characters"])
	record.Awards = cleanAwards(row["awards"])
	record.PublisherName = optionalText(row["publisher"], 200)
	if code, name := cleanLanguage(row["language"]); code != "" {
		record.LanguageCode = &code
		record.LanguageName = &name
	}
	record.SeriesName, record.SeriesInfo = cleanSeries(row["series"])

	record.Price = cleanPrice(row["price"])
	// An absent publish date borrows the first publication date before
	// falling back to the default.
	pubRaw := row["publishdate"]
	if pubRaw == "" {
		pubRaw = row["firstpublishdate"]
	}
	record.PublicationDate = cleanDate(pubRaw)
	record.FirstPublicationDate = cleanOptionalDate(row["firstpublishdate"])

	record.PageCount = cleanInt(row["pages"])
	record.BookFormat = cleanFormat(row["bookformat"])
	record.Edition = optionalText(row["edition"], 100)
	record.AverageRating = cleanRating(row["rating"])
	if n := cleanInt(row["numratings"]); n != nil {
		record.NumRatings = *n
	}
	record.LikedPercent = cleanInt(row["likedpercent"])
	record.RatingsByStar = cleanRatingsByStar(row["ratingsbystars"])
	record.BBEScore = cleanInt(row["bbescore"])
	record.BBEVotes = cleanInt(row["bbevotes"])
	record.Settings = cleanSettings(row["setting"])
	record.CoverImageURL = optionalText(row["coverimg"], 500)
	return record
}

// resolveRecord turns entity names into ids, creating catalog rows on
// first sight, and assembles the book to insert.
func (s *importService) resolveRecord(ctx context.Context, record *model.ImportRecord) (*model.Book, error) {
	author, err := s.resolver.Author(ctx, record.AuthorName)
	if err != nil {
		return nil, fmt.Errorf("resolve author %q: %w", record.AuthorName, err)
	}

	book := &model.Book{
		Title:           record.Title,
		ISBN:            record.ISBN,
		Description:     record.Description,
		GoodreadsID:     record.GoodreadsID,
		AuthorID:        author.ID,
		SeriesInfo:      record.SeriesInfo,
		Price:           record.Price,
		PublicationDate: types.NewDate(record.PublicationDate),
		PageCount:       record.PageCount,
		BookFormat:      record.BookFormat,
		Edition:         record.Edition,
		CoverImageURL:   record.CoverImageURL,
		AverageRating:   record.AverageRating,
		NumRatings:      record.NumRatings,
		LikedPercent:    record.LikedPercent,
		Ratings5Star:    record.RatingsByStar[0],
		Ratings4Star:    record.RatingsByStar[1],
		Ratings3Star:    record.RatingsByStar[2],
		Ratings2Star:    record.RatingsByStar[3],
		Ratings1Star:    record.RatingsByStar[4],
		BBEScore:        record.BBEScore,
		BBEVotes:        record.BBEVotes,
		Settings:        record.Settings,
	}
	if record.FirstPublicationDate != nil {
		d := types.NewDate(*record.FirstPublicationDate)
		book.FirstPublicationDate = &d
	}

	if record.CategoryName != nil {
		category, err := s.resolver.Category(ctx, *record.CategoryName)
		if err != nil {
			return nil, fmt.Errorf("resolve category %q: %w", *record.CategoryName, err)
		}
		book.CategoryID = &category.ID
	}
	if record.PublisherName != nil {
		publisher, err := s.resolver.Publisher(ctx, *record.PublisherName)
		if err != nil {
			return nil, fmt.Errorf("resolve publisher %q: %w", *record.PublisherName, err)
		}
		book.PublisherID = &publisher.ID
	}
	if record.LanguageCode != nil {
		language, err := s.resolver.Language(ctx, *record.LanguageCode, *record.LanguageName)
		if err != nil {
			return nil, fmt.Errorf("resolve language %q: %w", *record.LanguageName, err)
		}
		book.LanguageID = &language.ID
	}
	if record.SeriesName != nil {
		series, err := s.resolver.Series(ctx, *record.SeriesName)
		if err != nil {
			return nil, fmt.Errorf("resolve series %q: %w", *record.SeriesName, err)
		}
		book.SeriesID = &series.ID
	}
	return book, nil
}

// attachAssociations links genres, characters and awards to a created
// book. Failures only log; the book stands on its own.
func (s *importService) attachAssociations(ctx context.Context, bookID int64, record *model.ImportRecord) {
	var genreIDs []int64
	for _, name := range record.Genres {
		genre, err := s.resolver.Genre(ctx, name)
		if err != nil {
			log.Warn().Err(err).Int64("book_id", bookID).Str("genre", name).Msg("failed to resolve genre")
			continue
		}
		genreIDs = append(genreIDs, genre.ID)
	}
	if len(genreIDs) > 0 {
		if err := s.repo.SetBookGenres(ctx, bookID, genreIDs); err != nil {
			log.Warn().Err(err).Int64("book_id", bookID).Msg("failed to attach genres")
		}
	}

	var characterIDs []int64
	for _, name := range record.Characters {
		character, err := s.resolver.Character(ctx, name)
		if err != nil {
			log.Warn().Err(err).Int64("book_id", bookID).Str("character", name).Msg("failed to resolve character")
			continue
		}
		characterIDs = append(characterIDs, character.ID)
	}
	if len(characterIDs) > 0 {
		if err := s.repo.SetBookCharacters(ctx, bookID, characterIDs); err != nil {
			log.Warn().Err(err).Int64("book_id", bookID).Msg("failed to attach characters")
		}
	}

	var awardIDs []int64
	for _, entry := range record.Awards {
		award, err := s.resolver.Award(ctx, entry.Name, entry.Year)
		if err != nil {
			log.Warn().Err(err).Int64("book_id", bookID).Str("award", entry.Name).Msg("failed to resolve award")
			continue
		}
		awardIDs = append(awardIDs, award.ID)
	}
	if len(awardIDs) > 0 {
		if err := s.repo.SetBookAwards(ctx, bookID, awardIDs); err != nil {
			log.Warn().Err(err).Int64("book_id", bookID).Msg("failed to attach awards")
		}
	}
}

func checkRequiredHeaders(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, h := range requiredImportHeaders {
		if !present[h] {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
