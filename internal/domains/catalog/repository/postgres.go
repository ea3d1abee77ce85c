package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookcatalog-backend/internal/domains/catalog/model"
	"bookcatalog-backend/internal/shared/utils"
)

type catalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &catalogRepository{pool: pool}
}

// queryList runs a SELECT and collects every row into T by column name.
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

// queryOne runs a SELECT expected to return a single row, translating
// pgx.ErrNoRows into the domain's not-found error.
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

// orderBy picks the ORDER BY clause for a whitelisted ordering value,
// falling back to the entity default for anything unknown.
func orderBy(ordering string, allowed map[string]string, def string) string {
	if clause, ok := allowed[ordering]; ok {
		return clause
	}
	return def
}

func withLimit(query string, limit int) string {
	if limit > 0 {
		return fmt.Sprintf("%s LIMIT %d", query, limit)
	}
	return query
}

// ---- Authors ----

var authorOrderings = map[string]string{
	"name":        "a.name ASC",
	"-name":       "a.name DESC",
	"created_at":  "a.created_at ASC",
	"-created_at": "a.created_at DESC",
}

const authorColumns = `a.id, a.name, a.bio, a.birth_date, a.nationality,
	(SELECT COUNT(*) FROM books b WHERE b.author_id = a.id) AS books_count,
	a.created_at, a.updated_at`

func (r *catalogRepository) ListAuthors(ctx context.Context, params model.ListParams, limit int) ([]model.AuthorResponse, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM authors a
		WHERE ($1 = '' OR a.name ILIKE '%%' || $1 || '%%' OR a.nationality ILIKE '%%' || $1 || '%%')
		ORDER BY %s`, authorColumns, orderBy(params.Ordering, authorOrderings, "a.name ASC"))
	return queryList[model.AuthorResponse](ctx, r.pool, withLimit(query, limit), params.Search)
}

func (r *catalogRepository) GetAuthor(ctx context.Context, id int64) (*model.AuthorResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM authors a WHERE a.id = $1`, authorColumns)
	return queryOne[model.AuthorResponse](ctx, r.pool, model.ErrAuthorNotFound, query, id)
}

func (r *catalogRepository) CreateAuthor(ctx context.Context, author *model.Author) (*model.Author, error) {
	query := `
		INSERT INTO authors (name, bio, birth_date, nationality)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, bio, birth_date, nationality, created_at, updated_at`
	created, err := queryOne[model.Author](ctx, r.pool, pgx.ErrNoRows, query,
		author.Name, author.Bio, author.BirthDate, author.Nationality)
	if utils.IsUniqueViolation(err) {
		return nil, model.ErrDuplicateName
	}
	return created, err
}

func (r *catalogRepository) UpdateAuthor(ctx context.Context, author *model.Author) error {
	query := `
		UPDATE authors
		SET name = $1, bio = $2, birth_date = $3, nationality = $4, updated_at = NOW()
		WHERE id = $5`
	tag, err := r.pool.Exec(ctx, query,
		author.Name, author.Bio, author.BirthDate, author.Nationality, author.ID)
	if utils.IsUniqueViolation(err) {
		return model.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("update author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteAuthor(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}

// ---- Categories ----

var categoryOrderings = map[string]string{
	"name":        "c.name ASC",
	"-name":       "c.name DESC",
	"created_at":  "c.created_at ASC",
	"-created_at": "c.created_at DESC",
}

const categoryColumns = `c.id, c.name, c.description,
	(SELECT COUNT(*) FROM books b WHERE b.category_id = c.id) AS books_count,
	c.created_at, c.updated_at`

func (r *catalogRepository) ListCategories(ctx context.Context, params model.ListParams, limit int) ([]model.CategoryResponse, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM categories c
		WHERE ($1 = '' OR c.name ILIKE '%%' || $1 || '%%' OR c.description ILIKE '%%' || $1 || '%%')
		ORDER BY %s`, categoryColumns, orderBy(params.Ordering, categoryOrderings, "c.name ASC"))
	return queryList[model.CategoryResponse](ctx, r.pool, withLimit(query, limit), params.Search)
}

func (r *catalogRepository) GetCategory(ctx context.Context, id int64) (*model.CategoryResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories c WHERE c.id = $1`, categoryColumns)
	return queryOne[model.CategoryResponse](ctx, r.pool, model.ErrCategoryNotFound, query, id)
}

func (r *catalogRepository) CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	query := `
		INSERT INTO categories (name, description) VALUES ($1, $2)
		RETURNING id, name, description, created_at, updated_at`
	created, err := queryOne[model.Category](ctx, r.pool, pgx.ErrNoRows, query,
		category.Name, category.Description)
	if utils.IsUniqueViolation(err) {
		return nil, model.ErrDuplicateName
	}
	return created, err
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, category *model.Category) error {
	query := `UPDATE categories SET name = $1, description = $2, updated_at = NOW() WHERE id = $3`
	tag, err := r.pool.Exec(ctx, query, category.Name, category.Description, category.ID)
	if utils.IsUniqueViolation(err) {
		return model.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

// ---- Genres ----

// nameOrderings covers the entities that only sort by name.
var nameOrderings = map[string]string{
	"name":  "name ASC",
	"-name": "name DESC",
}

func (r *catalogRepository) ListGenres(ctx context.Context, params model.ListParams) ([]model.Genre, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description FROM genres
		WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%' OR description ILIKE '%%' || $1 || '%%')
		ORDER BY %s`, orderBy(params.Ordering, nameOrderings, "name ASC"))
	return queryList[model.Genre](ctx, r.pool, query, params.Search)
}

func (r *catalogRepository) GetGenre(ctx context.Context, id int64) (*model.Genre, error) {
	return queryOne[model.Genre](ctx, r.pool, model.ErrGenreNotFound,
		`SELECT id, name, description FROM genres WHERE id = $1`, id)
}

func (r *catalogRepository) CreateGenre(ctx context.Context, genre *model.Genre) (*model.Genre, error) {
	query := `
		INSERT INTO genres (name, description) VALUES ($1, $2)
		RETURNING id, name, description`
	created, err := queryOne[model.Genre](ctx, r.pool, pgx.ErrNoRows, query,
		genre.Name, genre.Description)
	if utils.IsUniqueViolation(err) {
		return nil, model.ErrDuplicateName
	}
	return created, err
}

func (r *catalogRepository) UpdateGenre(ctx context.Context, genre *model.Genre) error {
	query := `UPDATE genres SET name = $1, description = $2 WHERE id = $3`
	tag, err := r.pool.Exec(ctx, query, genre.Name, genre.Description, genre.ID)
	if utils.IsUniqueViolation(err) {
		return model.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("update genre: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrGenreNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteGenre(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM genres WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrGenreNotFound
	}
	return nil
}

// ---- Characters ----

func (r *catalogRepository) ListCharacters(ctx context.Context, params model.ListParams) ([]model.Character, error) {
	query := fmt.Sprintf(`
		SELECT id, name FROM characters
		WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%')
		ORDER BY %s`, orderBy(params.Ordering, nameOrderings, "name ASC"))
	return queryList[model.Character](ctx, r.pool, query, params.Search)
}

func (r *catalogRepository) GetCharacter(ctx context.Context, id int64) (*model.Character, error) {
	return queryOne[model.Character](ctx, r.pool, model.ErrCharacterNotFound,
		`SELECT id, name FROM characters WHERE id = $1`, id)
}

func (r *catalogRepository) CreateCharacter(ctx context.Context, character *model.Character) (*model.Character, error) {
	created, err := queryOne[model.Character](ctx, r.pool, pgx.ErrNoRows,
		`INSERT INTO characters (name) VALUES ($1) RETURNING id, name`, character.Name)
	if utils.IsUniqueViolation(err) {
		return nil, model.ErrDuplicateName
	}
	return created, err
}

func (r *catalogRepository) UpdateCharacter(ctx context.Context, character *model.Character) error {
	tag, err := r.pool.Exec(ctx, `UPDATE characters SET name = $1 WHERE id = $2`,
		character.Name, character.ID)
	if utils.IsUniqueViolation(err) {
		return model.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("update character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCharacterNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteCharacter(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCharacterNotFound
	}
	return nil
}

// ---- Awards ----

var awardOrderings = map[string]string{
	"name":  "name ASC",
	"-name": "name DESC",
	"year":  "year ASC",
	"-year": "year DESC",
}

func (r *catalogRepository) ListAwards(ctx context.Context, params model.ListParams) ([]model.Award, error) {
	query := fmt.Sprintf(`
		SELECT id, name, year FROM awards
		WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%')
		ORDER BY %s`, orderBy(params.Ordering, awardOrderings, "year DESC, name ASC"))
	return queryList[model.Award](ctx, r.pool, query, params.Search)
}

func (r *catalogRepository) GetAward(ctx context.Context, id int64) (*model.Award, error) {
	return queryOne[model.Award](ctx, r.pool, model.ErrAwardNotFound,
		`SELECT id, name, year FROM awards WHERE id = $1`, id)
}

func (r *catalogRepository) CreateAward(ctx context.Context, award *model.Award) (*model.Award, error) {
	created, err := queryOne[model.Award](ctx, r.pool, pgx.ErrNoRows,
		`INSERT INTO awards (name, year) VALUES ($1, $2) RETURNING id, name, year`,
		award.Name, award.Year)
	if utils.IsUniqueViolation(err) {
		return nil, model.ErrDuplicateName
	}
	return created, err
}

func (r *catalogRepository) UpdateAward(ctx context.Context, award *model.Award) error {
	tag, err := r.pool.Exec(ctx, `UPDATE awards SET name = $1, year = $2 WHERE id = $3`,
		award.Name, award.Year, award.ID)
	if utils.IsUniqueViolation(err) {
		return model.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("update award: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAwardNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteAward(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM awards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete award: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAwardNotFound
	}
	return nil
}

// ---- Publishers ----

var publisherOrderings = map[string]string{
	"name":        "p.name ASC",
	"-name":       "p.name DESC",
	"created_at":  "p.created_at ASC",
	"-created_at": "p.created_at DESC",
}

const publisherColumns = `p.id, p.name,
	(SELECT COUNT(*) FROM books b WHERE b.publisher_id = p.id) AS books_count,
	p.created_at`

func (r *catalogRepository) ListPublishers(ctx context.Context, params model.ListParams) ([]model.PublisherResponse, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM publishers p
		WHERE ($1 = '' OR p.name ILIKE '%%' || $1 || '%%')
		ORDER BY %s`, publisherColumns, orderBy(params.Ordering, publisherOrderings, "p.name ASC"))
	return queryList[model.PublisherResponse](ctx, r.pool, query, params.Search)
}

func (r *catalogRepository) GetPublisher(ctx context.Context, id int64) (*model.PublisherResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM publishers p WHERE p.id = $1`, publisherColumns)
	return queryOne[model.PublisherResponse](ctx, r.pool, model.ErrPublisherNotFound, query, id)
}

func (r *catalogRepository) CreatePublisher(ctx context.Context, publisher *model.Publisher) (*model.Publisher, error) {
	created, err := queryOne[model.Publisher](ctx, r.pool, pgx.ErrNoRows,
		`INSERT INTO publishers (name) VALUES ($1) RETURNING id, name, created_at`,
		publisher.Name)
	if utils.IsUniqueViolation(err) {
		return nil, model.ErrDuplicateName
	}
	return created, err
}

func (r *catalogRepository) UpdatePublisher(ctx context.Context, publisher *model.Publisher) error {
	tag, err := r.pool.Exec(ctx, `UPDATE publishers SET name = $1 WHERE id = $2`,
		publisher.Name, publisher.ID)
	if utils.IsUniqueViolation(err) {
		return model.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("update publisher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPublisherNotFound
	}
	return nil
}

func (r *catalogRepository) DeletePublisher(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM publishers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete publisher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPublisherNotFound
	}
	return nil
}

// ---- Languages ----

var languageOrderings = map[string]string{
	"name":  "name ASC",
	"-name": "name DESC",
	"code":  "code ASC",
	"-code": "code DESC",
}

func (r *catalogRepository) ListLanguages(ctx context.Context, params model.ListParams) ([]model.Language, error) {
	query := fmt.Sprintf(`
		SELECT id, code, name FROM languages
		WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%' OR code ILIKE '%%' || $1 || '%%')
		ORDER BY %s`, orderBy(params.Ordering, languageOrderings, "name ASC"))
	return queryList[model.Language](ctx, r.pool, query, params.Search)
}

func (r *catalogRepository) GetLanguage(ctx context.Context, id int64) (*model.Language, error) {
	return queryOne[model.Language](ctx, r.pool, model.ErrLanguageNotFound,
		`SELECT id, code, name FROM languages WHERE id = $1`, id)
}

func (r *catalogRepository) CreateLanguage(ctx context.Context, language *model.Language) (*model.Language, error) {
	created, err := queryOne[model.Language](ctx, r.pool, pgx.ErrNoRows,
		`INSERT INTO languages (code, name) VALUES ($1, $2) RETURNING id, code, name`,
		language.Code, language.Name)
	if utils.IsUniqueViolation(err) {
		return nil, model.ErrDuplicateName
	}
	return created, err
}

func (r *catalogRepository) UpdateLanguage(ctx context.Context, language *model.Language) error {
	tag, err := r.pool.Exec(ctx, `UPDATE languages SET code = $1, name = $2 WHERE id = $3`,
		language.Code, language.Name, language.ID)
	if utils.IsUniqueViolation(err) {
		return model.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("update language: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLanguageNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteLanguage(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM languages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete language: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLanguageNotFound
	}
	return nil
}

// ---- Series ----

const seriesColumns = `s.id, s.name,
	(SELECT COUNT(*) FROM books b WHERE b.series_id = s.id) AS books_count`

func (r *catalogRepository) ListSeries(ctx context.Context, params model.ListParams) ([]model.SeriesResponse, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM series s
		WHERE ($1 = '' OR s.name ILIKE '%%' || $1 || '%%')
		ORDER BY %s`, seriesColumns, orderBy(params.Ordering, map[string]string{
		"name":  "s.name ASC",
		"-name": "s.name DESC",
	}, "s.name ASC"))
	return queryList[model.SeriesResponse](ctx, r.pool, query, params.Search)
}

func (r *catalogRepository) GetSeries(ctx context.Context, id int64) (*model.SeriesResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM series s WHERE s.id = $1`, seriesColumns)
	return queryOne[model.SeriesResponse](ctx, r.pool, model.ErrSeriesNotFound, query, id)
}

func (r *catalogRepository) CreateSeries(ctx context.Context, series *model.Series) (*model.Series, error) {
	created, err := queryOne[model.Series](ctx, r.pool, pgx.ErrNoRows,
		`INSERT INTO series (name) VALUES ($1) RETURNING id, name`, series.Name)
	if utils.IsUniqueViolation(err) {
		return nil, model.ErrDuplicateName
	}
	return created, err
}

func (r *catalogRepository) UpdateSeries(ctx context.Context, series *model.Series) error {
	tag, err := r.pool.Exec(ctx, `UPDATE series SET name = $1 WHERE id = $2`,
		series.Name, series.ID)
	if utils.IsUniqueViolation(err) {
		return model.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("update series: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSeriesNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteSeries(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM series WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSeriesNotFound
	}
	return nil
}
