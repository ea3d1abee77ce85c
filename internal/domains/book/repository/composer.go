package repository

import (
	"fmt"
	"strings"

	"bookcatalog-backend/internal/domains/book/model"
)

// The search composer translates a validated BookSearchParams into a
// parameterized WHERE clause. Filters AND together; the free-text
// search term ORs across six columns. Alias contract: b books,
// a authors, c categories, p publishers, l languages, s series.

func buildSearchWhere(params *model.BookSearchParams) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if params.Search != "" {
		pattern := fmt.Sprintf("'%%' || $%d || '%%'", argIndex)
		conditions = append(conditions, fmt.Sprintf(
			"(b.title ILIKE %[1]s OR a.name ILIKE %[1]s OR b.description ILIKE %[1]s OR b.isbn ILIKE %[1]s OR s.name ILIKE %[1]s OR p.name ILIKE %[1]s)",
			pattern))
		args = append(args, params.Search)
		argIndex++
	}

	fkFilters := []struct {
		column string
		id     *int64
	}{
		{"b.category_id", params.CategoryID},
		{"b.author_id", params.AuthorID},
		{"b.publisher_id", params.PublisherID},
		{"b.language_id", params.LanguageID},
		{"b.series_id", params.SeriesID},
	}
	for _, f := range fkFilters {
		if f.id != nil {
			conditions = append(conditions, fmt.Sprintf("%s = $%d", f.column, argIndex))
			args = append(args, *f.id)
			argIndex++
		}
	}

	// Membership via subquery rather than a join keeps the result set
	// free of duplicates when a book matches several genres.
	if len(params.GenreIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"b.id IN (SELECT bg.book_id FROM book_genres bg WHERE bg.genre_id = ANY($%d))", argIndex))
		args = append(args, params.GenreIDs)
		argIndex++
	}

	if params.BookFormat != "" {
		conditions = append(conditions, fmt.Sprintf("b.book_format = $%d", argIndex))
		args = append(args, params.BookFormat)
		argIndex++
	}

	if params.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("b.price >= $%d", argIndex))
		args = append(args, *params.MinPrice)
		argIndex++
	}
	if params.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("b.price <= $%d", argIndex))
		args = append(args, *params.MaxPrice)
		argIndex++
	}

	if params.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("b.average_rating >= $%d", argIndex))
		args = append(args, *params.MinRating)
		argIndex++
	}
	if params.MaxRating != nil {
		conditions = append(conditions, fmt.Sprintf("b.average_rating <= $%d", argIndex))
		args = append(args, *params.MaxRating)
		argIndex++
	}

	if params.MinPublicationDate != nil {
		conditions = append(conditions, fmt.Sprintf("b.publication_date >= $%d", argIndex))
		args = append(args, *params.MinPublicationDate)
		argIndex++
	}
	if params.MaxPublicationDate != nil {
		conditions = append(conditions, fmt.Sprintf("b.publication_date <= $%d", argIndex))
		args = append(args, *params.MaxPublicationDate)
		argIndex++
	}

	if params.HasCoverImage {
		conditions = append(conditions, "(b.cover_image IS NOT NULL OR b.cover_image_url IS NOT NULL)")
	}

	// Anonymous callers get a no-op here, not an error.
	if params.FavoritesOnly && params.UserID > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"b.id IN (SELECT f.book_id FROM favorites f WHERE f.user_id = $%d)", argIndex))
		args = append(args, params.UserID)
		argIndex++
	}

	if len(conditions) == 0 {
		return "TRUE", args
	}
	return strings.Join(conditions, " AND "), args
}

// buildDeleteWhere is the reduced filter surface for bulk delete:
// three-column search, category, author, price range, publication date
// range, favorites-only.
func buildDeleteWhere(params *model.BookSearchParams) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if params.Search != "" {
		pattern := fmt.Sprintf("'%%' || $%d || '%%'", argIndex)
		conditions = append(conditions, fmt.Sprintf(
			"(b.title ILIKE %[1]s OR a.name ILIKE %[1]s OR b.description ILIKE %[1]s)", pattern))
		args = append(args, params.Search)
		argIndex++
	}

	if params.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("b.category_id = $%d", argIndex))
		args = append(args, *params.CategoryID)
		argIndex++
	}
	if params.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("b.author_id = $%d", argIndex))
		args = append(args, *params.AuthorID)
		argIndex++
	}

	if params.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("b.price >= $%d", argIndex))
		args = append(args, *params.MinPrice)
		argIndex++
	}
	if params.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("b.price <= $%d", argIndex))
		args = append(args, *params.MaxPrice)
		argIndex++
	}

	if params.MinPublicationDate != nil {
		conditions = append(conditions, fmt.Sprintf("b.publication_date >= $%d", argIndex))
		args = append(args, *params.MinPublicationDate)
		argIndex++
	}
	if params.MaxPublicationDate != nil {
		conditions = append(conditions, fmt.Sprintf("b.publication_date <= $%d", argIndex))
		args = append(args, *params.MaxPublicationDate)
		argIndex++
	}

	if params.FavoritesOnly && params.UserID > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"b.id IN (SELECT f.book_id FROM favorites f WHERE f.user_id = $%d)", argIndex))
		args = append(args, params.UserID)
		argIndex++
	}

	if len(conditions) == 0 {
		return "TRUE", args
	}
	return strings.Join(conditions, " AND "), args
}

var searchOrderClauses = map[string]string{
	"title":             "b.title ASC",
	"-title":            "b.title DESC",
	"price":             "b.price ASC",
	"-price":            "b.price DESC",
	"publication_date":  "b.publication_date ASC",
	"-publication_date": "b.publication_date DESC",
	"average_rating":    "b.average_rating ASC",
	"-average_rating":   "b.average_rating DESC",
	"num_ratings":       "b.num_ratings ASC",
	"-num_ratings":      "b.num_ratings DESC",
	"created_at":        "b.created_at ASC",
	"-created_at":       "b.created_at DESC",
}

// searchOrderBy maps the validated ordering key to its clause. The
// default is newest first, matching the catalog's storage ordering.
func searchOrderBy(ordering string) string {
	if clause, ok := searchOrderClauses[ordering]; ok {
		return clause
	}
	return "b.created_at DESC"
}

// favoritedColumn yields the is_favorited projection. Anonymous
// requests scan a constant FALSE without touching the favorites table.
func favoritedColumn(userID int64, args []interface{}) (string, []interface{}) {
	if userID <= 0 {
		return "FALSE", args
	}
	args = append(args, userID)
	return fmt.Sprintf(
		"EXISTS(SELECT 1 FROM favorites f WHERE f.user_id = $%d AND f.book_id = b.id)", len(args)), args
}

// listProjection is the column set scanned into model.BookListItem.
// genres_display carries at most the first three genre names in
// attachment order.
func listProjection(favoritedExpr string) string {
	return fmt.Sprintf(`
		b.id, b.title, b.isbn,
		a.name AS author_name,
		c.name AS category_name,
		p.name AS publisher_name,
		l.name AS language_name,
		s.name AS series_name,
		b.series_info, b.price, b.publication_date, b.page_count,
		b.cover_image, b.cover_image_url,
		b.average_rating, b.num_ratings, b.book_format,
		COALESCE(gd.names, '{}') AS genres_display,
		%s AS is_favorited,
		b.created_at`, favoritedExpr)
}

// relatedJoins hangs the denormalized names and the capped genre list
// off an already-bound books alias b.
const relatedJoins = `
	JOIN authors a ON a.id = b.author_id
	LEFT JOIN categories c ON c.id = b.category_id
	LEFT JOIN publishers p ON p.id = b.publisher_id
	LEFT JOIN languages l ON l.id = b.language_id
	LEFT JOIN series s ON s.id = b.series_id
	LEFT JOIN LATERAL (
		SELECT array_agg(x.name) AS names
		FROM (
			SELECT g.name
			FROM book_genres bg
			JOIN genres g ON g.id = bg.genre_id
			WHERE bg.book_id = b.id
			ORDER BY bg.id
			LIMIT 3
		) x
	) gd ON TRUE`

const listJoins = `
	FROM books b` + relatedJoins

const favoriteJoins = `
	FROM favorites f
	JOIN books b ON b.id = f.book_id` + relatedJoins

// countJoins carries only the aliases the WHERE clause can reference.
const countJoins = `
	FROM books b
	JOIN authors a ON a.id = b.author_id
	LEFT JOIN publishers p ON p.id = b.publisher_id
	LEFT JOIN series s ON s.id = b.series_id`
