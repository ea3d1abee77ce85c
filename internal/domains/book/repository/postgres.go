package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookcatalog-backend/internal/domains/book/model"
	catalogmodel "bookcatalog-backend/internal/domains/catalog/model"
	"bookcatalog-backend/internal/shared/utils"
	"bookcatalog-backend/pkg/database"
)

type bookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &bookRepository{pool: pool}
}

func queryList[T any](ctx context.Context, pool *pgxpool.Pool, query string, args ...interface{}) ([]T, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if items == nil {
		// Empty result sets serialize as [], not null.
		items = []T{}
	}
	return items, nil
}

func queryOne[T any](ctx context.Context, pool *pgxpool.Pool, notFound error, query string, args ...interface{}) (*T, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return item, nil
}

// ---- Search ----

func (r *bookRepository) SearchBooks(ctx context.Context, params *model.BookSearchParams) ([]model.BookListItem, error) {
	where, args := buildSearchWhere(params)
	favExpr, args := favoritedColumn(params.UserID, args)

	query := fmt.Sprintf("SELECT %s %s\n\tWHERE %s\n\tORDER BY %s",
		listProjection(favExpr), listJoins, where, searchOrderBy(params.Ordering))

	if params.Page != nil {
		offset := (*params.Page - 1) * params.Limit
		query = fmt.Sprintf("%s LIMIT $%d OFFSET $%d", query, len(args)+1, len(args)+2)
		args = append(args, params.Limit, offset)
	}

	return queryList[model.BookListItem](ctx, r.pool, query, args...)
}

func (r *bookRepository) CountBooks(ctx context.Context, params *model.BookSearchParams) (int64, error) {
	where, args := buildSearchWhere(params)
	query := fmt.Sprintf("SELECT COUNT(*) %s\n\tWHERE %s", countJoins, where)

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return total, nil
}

// ---- Books ----

const bookColumns = `id, title, isbn, description, goodreads_id,
	author_id, category_id, publisher_id, language_id, series_id,
	page_count, book_format, edition, publication_date, first_publication_date,
	price, average_rating, num_ratings, liked_percent,
	ratings_5_star, ratings_4_star, ratings_3_star, ratings_2_star, ratings_1_star,
	bbe_score, bbe_votes, series_info, cover_image, cover_image_url, settings,
	created_at, updated_at`

func (r *bookRepository) GetBookByID(ctx context.Context, id int64) (*model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)
	return queryOne[model.Book](ctx, r.pool, model.ErrBookNotFound, query, id)
}

func (r *bookRepository) BookExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check book: %w", err)
	}
	return exists, nil
}

func (r *bookRepository) CheckISBNExists(ctx context.Context, isbn string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE isbn = $1)`, isbn).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ISBN: %w", err)
	}
	return exists, nil
}

func (r *bookRepository) CheckISBNExistsExcept(ctx context.Context, isbn string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE isbn = $1 AND id != $2)`, isbn, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ISBN: %w", err)
	}
	return exists, nil
}

func (r *bookRepository) CreateBook(ctx context.Context, book *model.Book) (*model.Book, error) {
	query := fmt.Sprintf(`
		INSERT INTO books (
			title, isbn, description, goodreads_id,
			author_id, category_id, publisher_id, language_id, series_id,
			page_count, book_format, edition, publication_date, first_publication_date,
			price, average_rating, num_ratings, liked_percent,
			ratings_5_star, ratings_4_star, ratings_3_star, ratings_2_star, ratings_1_star,
			bbe_score, bbe_votes, series_info, cover_image, cover_image_url, settings
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14,
			$15, $16, $17, $18,
			$19, $20, $21, $22, $23,
			$24, $25, $26, $27, $28, $29
		)
		RETURNING %s`, bookColumns)

	created, err := queryOne[model.Book](ctx, r.pool, pgx.ErrNoRows, query,
		book.Title, book.ISBN, book.Description, book.GoodreadsID,
		book.AuthorID, book.CategoryID, book.PublisherID, book.LanguageID, book.SeriesID,
		book.PageCount, book.BookFormat, book.Edition, book.PublicationDate, book.FirstPublicationDate,
		book.Price, book.AverageRating, book.NumRatings, book.LikedPercent,
		book.Ratings5Star, book.Ratings4Star, book.Ratings3Star, book.Ratings2Star, book.Ratings1Star,
		book.BBEScore, book.BBEVotes, book.SeriesInfo, book.CoverImage, book.CoverImageURL, book.Settings,
	)
	if utils.IsUniqueViolation(err) {
		return nil, model.ErrISBNExists
	}
	if utils.IsForeignKeyViolation(err) {
		return nil, model.ErrRelatedNotFound
	}
	return created, err
}

func (r *bookRepository) UpdateBook(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $1, isbn = $2, description = $3, goodreads_id = $4,
		    author_id = $5, category_id = $6, publisher_id = $7, language_id = $8, series_id = $9,
		    page_count = $10, book_format = $11, edition = $12,
		    publication_date = $13, first_publication_date = $14,
		    price = $15, average_rating = $16, num_ratings = $17, liked_percent = $18,
		    ratings_5_star = $19, ratings_4_star = $20, ratings_3_star = $21,
		    ratings_2_star = $22, ratings_1_star = $23,
		    bbe_score = $24, bbe_votes = $25, series_info = $26,
		    cover_image = $27, cover_image_url = $28, settings = $29,
		    updated_at = NOW()
		WHERE id = $30`

	tag, err := r.pool.Exec(ctx, query,
		book.Title, book.ISBN, book.Description, book.GoodreadsID,
		book.AuthorID, book.CategoryID, book.PublisherID, book.LanguageID, book.SeriesID,
		book.PageCount, book.BookFormat, book.Edition, book.PublicationDate, book.FirstPublicationDate,
		book.Price, book.AverageRating, book.NumRatings, book.LikedPercent,
		book.Ratings5Star, book.Ratings4Star, book.Ratings3Star, book.Ratings2Star, book.Ratings1Star,
		book.BBEScore, book.BBEVotes, book.SeriesInfo, book.CoverImage, book.CoverImageURL, book.Settings,
		book.ID,
	)
	if utils.IsUniqueViolation(err) {
		return model.ErrISBNExists
	}
	if utils.IsForeignKeyViolation(err) {
		return model.ErrRelatedNotFound
	}
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) DeleteBook(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

// DeleteBooksByIDs removes every listed book and reports how many rows
// actually went away; missing ids are not an error.
func (r *bookRepository) DeleteBooksByIDs(ctx context.Context, ids []int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *bookRepository) DeleteBooksByFilter(ctx context.Context, params *model.BookSearchParams) (int64, error) {
	where, args := buildDeleteWhere(params)
	query := fmt.Sprintf(`
		DELETE FROM books
		WHERE id IN (
			SELECT b.id
			FROM books b
			JOIN authors a ON a.id = b.author_id
			WHERE %s
		)`, where)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("filtered delete: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ---- Associations ----

func (r *bookRepository) GetBookGenres(ctx context.Context, bookID int64) ([]catalogmodel.Genre, error) {
	query := `
		SELECT g.id, g.name, g.description
		FROM book_genres bg
		JOIN genres g ON g.id = bg.genre_id
		WHERE bg.book_id = $1
		ORDER BY bg.id`
	return queryList[catalogmodel.Genre](ctx, r.pool, query, bookID)
}

func (r *bookRepository) GetBookCharacters(ctx context.Context, bookID int64) ([]catalogmodel.Character, error) {
	query := `
		SELECT c.id, c.name
		FROM book_characters bc
		JOIN characters c ON c.id = bc.character_id
		WHERE bc.book_id = $1
		ORDER BY bc.id`
	return queryList[catalogmodel.Character](ctx, r.pool, query, bookID)
}

func (r *bookRepository) GetBookAwards(ctx context.Context, bookID int64) ([]catalogmodel.Award, error) {
	query := `
		SELECT aw.id, aw.name, aw.year
		FROM book_awards ba
		JOIN awards aw ON aw.id = ba.award_id
		WHERE ba.book_id = $1
		ORDER BY ba.id`
	return queryList[catalogmodel.Award](ctx, r.pool, query, bookID)
}

// setLinks replaces the association rows for one book. Delete and
// insert run in one transaction so readers never see a half-applied
// set.
func (r *bookRepository) setLinks(ctx context.Context, table, column string, bookID int64, ids []int64) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE book_id = $1`, table), bookID); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		query := fmt.Sprintf(`
			INSERT INTO %s (book_id, %s)
			SELECT $1, linked FROM unnest($2::bigint[]) AS linked
			ON CONFLICT DO NOTHING`, table, column)
		_, err := tx.Exec(ctx, query, bookID, ids)
		return err
	})
	if utils.IsForeignKeyViolation(err) {
		return model.ErrRelatedNotFound
	}
	return err
}

func (r *bookRepository) SetBookGenres(ctx context.Context, bookID int64, genreIDs []int64) error {
	return r.setLinks(ctx, "book_genres", "genre_id", bookID, genreIDs)
}

func (r *bookRepository) SetBookCharacters(ctx context.Context, bookID int64, characterIDs []int64) error {
	return r.setLinks(ctx, "book_characters", "character_id", bookID, characterIDs)
}

func (r *bookRepository) SetBookAwards(ctx context.Context, bookID int64, awardIDs []int64) error {
	return r.setLinks(ctx, "book_awards", "award_id", bookID, awardIDs)
}

// ---- Favorites ----

func (r *bookRepository) IsFavorited(ctx context.Context, userID, bookID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND book_id = $2)`,
		userID, bookID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

func (r *bookRepository) ListFavorites(ctx context.Context, userID int64) ([]model.FavoriteRow, error) {
	query := fmt.Sprintf(`
		SELECT f.id AS favorite_id, f.created_at AS favorited_at, %s %s
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`, listProjection("TRUE"), favoriteJoins)
	return queryList[model.FavoriteRow](ctx, r.pool, query, userID)
}

func (r *bookRepository) GetFavorite(ctx context.Context, userID, favoriteID int64) (*model.FavoriteRow, error) {
	query := fmt.Sprintf(`
		SELECT f.id AS favorite_id, f.created_at AS favorited_at, %s %s
		WHERE f.user_id = $1 AND f.id = $2`, listProjection("TRUE"), favoriteJoins)
	return queryOne[model.FavoriteRow](ctx, r.pool, model.ErrFavoriteNotFound, query, userID, favoriteID)
}

func (r *bookRepository) InsertFavorite(ctx context.Context, userID, bookID int64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO favorites (user_id, book_id) VALUES ($1, $2) RETURNING id`,
		userID, bookID).Scan(&id)
	if utils.IsUniqueViolation(err) {
		return 0, model.ErrAlreadyFavorited
	}
	if utils.IsForeignKeyViolation(err) {
		return 0, model.ErrFavoriteBookGone
	}
	if err != nil {
		return 0, fmt.Errorf("insert favorite: %w", err)
	}
	return id, nil
}

func (r *bookRepository) DeleteFavorite(ctx context.Context, userID, favoriteID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND id = $2`, userID, favoriteID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrFavoriteNotFound
	}
	return nil
}

// DeleteFavoriteByBook reports whether a favorite actually existed so
// the toggle can tell "removed" from "nothing to remove".
func (r *bookRepository) DeleteFavoriteByBook(ctx context.Context, userID, bookID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND book_id = $2`, userID, bookID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ---- Covers ----

func (r *bookRepository) SetCoverImage(ctx context.Context, bookID int64, key *string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET cover_image = $2, updated_at = NOW() WHERE id = $1`, bookID, key)
	if err != nil {
		return fmt.Errorf("set cover image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}
