package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog-backend/internal/domains/book/model"
)

// sliceSource feeds canned rows to the pipeline; parsing itself is
// covered by the record source tests.
type sliceSource struct {
	headers []string
	rows    []map[string]string
	pos     int
}

func (s *sliceSource) Headers() []string { return s.headers }

func (s *sliceSource) Next() (map[string]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func (s *sliceSource) Close() error { return nil }

var goodreadsHeaders = []string{
	"title", "author", "isbn", "description", "bookid", "genres",
	"characters", "awards", "publisher", "language", "series", "price",
	"publishdate", "firstpublishdate", "pages", "bookformat", "edition",
	"rating", "numratings", "likedpercent", "ratingsbystars", "bbescore",
	"bbevotes", "setting", "coverimg",
}

func minimalRow(title, author, isbn string) map[string]string {
	return map[string]string{"title": title, "author": author, "isbn": isbn}
}

func newTestImportService() (ImportServiceInterface, *fakeBookRepo, *fakeResolver, *fakeCache) {
	repo := newFakeBookRepo()
	resolver := newFakeResolver()
	cache := newFakeCache()
	return NewImportService(repo, resolver, cache), repo, resolver, cache
}

func TestImportBooksCreatesFullRecord(t *testing.T) {
	svc, repo, resolver, cache := newTestImportService()

	source := &sliceSource{
		headers: goodreadsHeaders,
		rows: []map[string]string{{
			"title":            "The Fellowship of the Ring",
			"author":           "J.R.R. Tolkien, Alan Lee (Illustrator)",
			"isbn":             "9780618346257",
			"description":      "One Ring to rule them all.",
			"bookid":           "34.The_Fellowship_of_the_Ring",
			"genres":           "['Fantasy', 'Classics', 'Fiction']",
			"characters":       "['Frodo Baggins', 'Gandalf']",
			"awards":           "['International Fantasy Award for Fiction (1957)']",
			"publisher":        "Houghton Mifflin",
			"language":         "English",
			"series":           "The Lord of the Rings #1",
			"price":            "5.99",
			"publishdate":      "07/29/2003",
			"firstpublishdate": "1954-07-29",
			"pages":            "423",
			"bookformat":       "Hardcover",
			"edition":          "50th Anniversary Edition",
			"rating":           "4.38",
			"numratings":       "8,912",
			"likedpercent":     "96",
			"ratingsbystars":   "['5000', '2500', '1200', '300', '100']",
			"bbescore":         "2652",
			"bbevotes":         "271",
			"setting":          "['Middle-earth', 'The Shire']",
			"coverimg":         "https://images.example.com/fellowship.jpg",
		}},
	}

	report, err := svc.ImportBooks(context.Background(), source, model.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalRows)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Errored)
	assert.False(t, report.Aborted)

	require.Len(t, repo.books, 1)
	book := repo.books[1]
	assert.Equal(t, "The Fellowship of the Ring", book.Title)
	assert.Equal(t, "9780618346257", book.ISBN)

	author := resolver.authors["J.R.R. Tolkien"]
	require.NotNil(t, author, "comma and role suffix should be stripped from the author")
	assert.Equal(t, author.ID, book.AuthorID)

	require.NotNil(t, book.CategoryID)
	assert.Equal(t, resolver.categories["Fantasy"].ID, *book.CategoryID, "first genre becomes the category")
	require.NotNil(t, book.PublisherID)
	assert.Equal(t, resolver.publishers["Houghton Mifflin"].ID, *book.PublisherID)
	require.NotNil(t, book.LanguageID)
	assert.Equal(t, resolver.languages["en"].ID, *book.LanguageID)
	require.NotNil(t, book.SeriesID)
	assert.Equal(t, resolver.series["The Lord of the Rings"].ID, *book.SeriesID)
	require.NotNil(t, book.SeriesInfo)
	assert.Equal(t, "The Lord of the Rings #1", *book.SeriesInfo)

	assert.True(t, book.Price.Equal(decimal.RequireFromString("5.99")))
	assert.Equal(t, time.Date(2003, 7, 29, 0, 0, 0, 0, time.UTC), book.PublicationDate.Time)
	require.NotNil(t, book.FirstPublicationDate)
	assert.Equal(t, time.Date(1954, 7, 29, 0, 0, 0, 0, time.UTC), book.FirstPublicationDate.Time)

	require.NotNil(t, book.PageCount)
	assert.Equal(t, 423, *book.PageCount)
	require.NotNil(t, book.BookFormat)
	assert.Equal(t, "hardcover", *book.BookFormat)
	require.NotNil(t, book.AverageRating)
	assert.True(t, book.AverageRating.Equal(decimal.RequireFromString("4.38")))
	assert.Equal(t, 8912, book.NumRatings)
	assert.Equal(t, 5000, book.Ratings5Star)
	assert.Equal(t, 2500, book.Ratings4Star)
	assert.Equal(t, 1200, book.Ratings3Star)
	assert.Equal(t, 300, book.Ratings2Star)
	assert.Equal(t, 100, book.Ratings1Star)
	require.NotNil(t, book.Settings)
	assert.Equal(t, "Middle-earth, The Shire", *book.Settings)

	assert.Len(t, repo.genreLinks[book.ID], 3)
	assert.Len(t, repo.characterLinks[book.ID], 2)
	assert.Len(t, repo.awardLinks[book.ID], 1)
	award := resolver.awards["International Fantasy Award for Fiction (1957)|1957"]
	require.NotNil(t, award, "the award year should be split out of the suffix")
	require.NotNil(t, award.Year)
	assert.Equal(t, 1957, *award.Year)

	assert.Contains(t, cache.deletedPatterns, "books:search:*")
}

func TestImportBooksSkipsRowsWithoutTitleOrAuthor(t *testing.T) {
	svc, repo, _, _ := newTestImportService()

	source := &sliceSource{
		headers: []string{"title", "author", "isbn"},
		rows: []map[string]string{
			minimalRow("", "Ursula K. Le Guin", ""),
			minimalRow("The Dispossessed", "   ", ""),
			minimalRow("A Wizard of Earthsea", "Ursula K. Le Guin", "9780547773742"),
		},
	}

	report, err := svc.ImportBooks(context.Background(), source, model.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 0, report.Errored)
	assert.Len(t, repo.books, 1)
}

func TestImportBooksSkipDuplicates(t *testing.T) {
	svc, repo, _, _ := newTestImportService()

	_, err := repo.CreateBook(context.Background(), &model.Book{
		Title: "Dune", ISBN: "9780441172719", AuthorID: 1,
	})
	require.NoError(t, err)

	source := &sliceSource{
		headers: []string{"title", "author", "isbn"},
		rows: []map[string]string{
			minimalRow("Dune", "Frank Herbert", "9780441172719"),
		},
	}
	report, err := svc.ImportBooks(context.Background(), source, model.ImportOptions{SkipDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 0, report.Errored)
	assert.Len(t, repo.books, 1)
}

func TestImportBooksDuplicateISBNFailsWithoutSkip(t *testing.T) {
	svc, repo, _, _ := newTestImportService()

	source := &sliceSource{
		headers: []string{"title", "author", "isbn"},
		rows: []map[string]string{
			minimalRow("Dune", "Frank Herbert", "9780441172719"),
			minimalRow("Dune Messiah", "Frank Herbert", "9780441172702"),
			minimalRow("Dune (reissue)", "Frank Herbert", "9780441172719"),
		},
	}

	report, err := svc.ImportBooks(context.Background(), source, model.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 1, report.Errored)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 4, report.Errors[0].Row, "row numbers count from the header row")
	assert.Equal(t, "Dune (reissue)", report.Errors[0].Title)
	assert.Len(t, repo.books, 2)
}

func TestImportBooksRespectsLimit(t *testing.T) {
	svc, repo, _, _ := newTestImportService()

	var rows []map[string]string
	for i := 0; i < 5; i++ {
		rows = append(rows, minimalRow(
			fmt.Sprintf("Discworld %d", i+1), "Terry Pratchett", ""))
	}
	source := &sliceSource{headers: []string{"title", "author", "isbn"}, rows: rows}

	report, err := svc.ImportBooks(context.Background(), source, model.ImportOptions{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 3, report.Created)
	assert.Len(t, repo.books, 3)
}

func TestImportBooksAbortsAfterTooManyErrors(t *testing.T) {
	svc, repo, _, cache := newTestImportService()
	repo.createErr = errors.New("connection refused")

	var rows []map[string]string
	for i := 0; i < 150; i++ {
		rows = append(rows, minimalRow(
			fmt.Sprintf("Book %d", i+1), "Somebody", ""))
	}
	source := &sliceSource{headers: []string{"title", "author", "isbn"}, rows: rows}

	report, err := svc.ImportBooks(context.Background(), source, model.ImportOptions{})
	require.NoError(t, err)
	assert.True(t, report.Aborted)
	assert.Equal(t, 101, report.Errored)
	assert.Equal(t, 101, report.TotalRows, "the run should stop at the threshold, not drain the file")
	assert.Equal(t, 0, report.Created)
	require.NotEmpty(t, report.Errors)
	assert.Equal(t, 2, report.Errors[0].Row)
	assert.Equal(t, "Book 1", report.Errors[0].Title)
	assert.Empty(t, cache.deletedPatterns, "nothing created, nothing to invalidate")
}

func TestImportBooksMissingRequiredHeaders(t *testing.T) {
	svc, _, _, _ := newTestImportService()

	source := &sliceSource{headers: []string{"title", "price"}}
	_, err := svc.ImportBooks(context.Background(), source, model.ImportOptions{})
	assert.EqualError(t, err, "missing required columns: author, isbn")
}

func TestImportBooksContinuesWhenAssociationsFail(t *testing.T) {
	svc, repo, resolver, _ := newTestImportService()
	resolver.genreErr = errors.New("genres table unavailable")

	source := &sliceSource{
		headers: []string{"title", "author", "isbn", "genres"},
		rows: []map[string]string{{
			"title":  "Hyperion",
			"author": "Dan Simmons",
			"isbn":   "9780553283686",
			"genres": "['Science Fiction', 'Space Opera']",
		}},
	}

	report, err := svc.ImportBooks(context.Background(), source, model.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Errored, "association failures must not fail the row")

	require.Len(t, repo.books, 1)
	book := repo.books[1]
	assert.Empty(t, repo.genreLinks[book.ID])
	require.NotNil(t, book.CategoryID, "the category comes from its own resolver and should survive")
	assert.Equal(t, resolver.categories["Science Fiction"].ID, *book.CategoryID)
}

func TestImportBooksGeneratesISBNWhenMissing(t *testing.T) {
	svc, repo, _, _ := newTestImportService()

	source := &sliceSource{
		headers: []string{"title", "author", "isbn"},
		rows: []map[string]string{
			minimalRow("The Colour of Magic", "Terry Pratchett", ""),
			minimalRow("The Light Fantastic", "Terry Pratchett", "9999999999999"),
		},
	}

	report, err := svc.ImportBooks(context.Background(), source, model.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)

	autoISBN := regexp.MustCompile(`^AUTO\d{8}$`)
	for _, book := range repo.books {
		assert.Regexp(t, autoISBN, book.ISBN)
	}
}

func TestImportBooksBorrowsFirstPublishDate(t *testing.T) {
	svc, repo, _, _ := newTestImportService()

	source := &sliceSource{
		headers: []string{"title", "author", "isbn", "publishdate", "firstpublishdate"},
		rows: []map[string]string{{
			"title":            "The Hobbit",
			"author":           "J.R.R. Tolkien",
			"isbn":             "9780618260300",
			"publishdate":      "",
			"firstpublishdate": "09/21/1937",
		}},
	}

	report, err := svc.ImportBooks(context.Background(), source, model.ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)

	book := repo.books[1]
	assert.Equal(t, time.Date(1937, 9, 21, 0, 0, 0, 0, time.UTC), book.PublicationDate.Time)
	require.NotNil(t, book.FirstPublicationDate)
	assert.Equal(t, time.Date(1937, 9, 21, 0, 0, 0, 0, time.UTC), book.FirstPublicationDate.Time)
}
