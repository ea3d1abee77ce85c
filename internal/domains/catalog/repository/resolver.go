package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookcatalog-backend/internal/domains/catalog/model"
)

// Placeholder values for entities created implicitly during an import.
const (
	importedAuthorBio         = "Author of books imported from CSV"
	importedAuthorNationality = "Unknown"
)

// Resolver implements EntityResolver with a single get-or-create routine
// shared by every entity type. Each entity contributes its queries and
// defaults; the concurrency handling lives in one place.
type Resolver struct {
	pool *pgxpool.Pool
}

func NewResolver(pool *pgxpool.Pool) *Resolver {
	return &Resolver{pool: pool}
}

type resolveSpec struct {
	selectQuery string
	insertQuery string
	keyArgs     []interface{}
	insertArgs  []interface{}
}

// getOrCreate looks the entity up by natural key, inserting it when
// missing. The insert uses ON CONFLICT DO NOTHING so losing a race to a
// concurrent insert is handled by re-reading the winner's row.
func getOrCreate[T any](ctx context.Context, pool *pgxpool.Pool, spec resolveSpec) (*T, error) {
	rows, err := pool.Query(ctx, spec.selectQuery, spec.keyArgs...)
	if err != nil {
		return nil, fmt.Errorf("resolve select: %w", err)
	}
	entity, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err == nil {
		return entity, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("resolve select: %w", err)
	}

	rows, err = pool.Query(ctx, spec.insertQuery, spec.insertArgs...)
	if err != nil {
		return nil, fmt.Errorf("resolve insert: %w", err)
	}
	entity, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err == nil {
		return entity, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("resolve insert: %w", err)
	}

	// Lost the race: the conflicting row exists now, read it.
	rows, err = pool.Query(ctx, spec.selectQuery, spec.keyArgs...)
	if err != nil {
		return nil, fmt.Errorf("resolve reread: %w", err)
	}
	entity, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("resolve reread: %w", err)
	}
	return entity, nil
}

func (r *Resolver) Author(ctx context.Context, name string) (*model.Author, error) {
	return getOrCreate[model.Author](ctx, r.pool, resolveSpec{
		selectQuery: `SELECT id, name, bio, birth_date, nationality, created_at, updated_at
			FROM authors WHERE name = $1`,
		insertQuery: `INSERT INTO authors (name, bio, nationality) VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
			RETURNING id, name, bio, birth_date, nationality, created_at, updated_at`,
		keyArgs:    []interface{}{name},
		insertArgs: []interface{}{name, importedAuthorBio, importedAuthorNationality},
	})
}

func (r *Resolver) Category(ctx context.Context, name string) (*model.Category, error) {
	description := fmt.Sprintf("Category for %s books", name)
	return getOrCreate[model.Category](ctx, r.pool, resolveSpec{
		selectQuery: `SELECT id, name, description, created_at, updated_at FROM categories WHERE name = $1`,
		insertQuery: `INSERT INTO categories (name, description) VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
			RETURNING id, name, description, created_at, updated_at`,
		keyArgs:    []interface{}{name},
		insertArgs: []interface{}{name, description},
	})
}

func (r *Resolver) Publisher(ctx context.Context, name string) (*model.Publisher, error) {
	return getOrCreate[model.Publisher](ctx, r.pool, resolveSpec{
		selectQuery: `SELECT id, name, created_at FROM publishers WHERE name = $1`,
		insertQuery: `INSERT INTO publishers (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
			RETURNING id, name, created_at`,
		keyArgs:    []interface{}{name},
		insertArgs: []interface{}{name},
	})
}

// Language resolves by code; the human readable name is only used when
// the row has to be created.
func (r *Resolver) Language(ctx context.Context, code, name string) (*model.Language, error) {
	return getOrCreate[model.Language](ctx, r.pool, resolveSpec{
		selectQuery: `SELECT id, code, name FROM languages WHERE code = $1`,
		insertQuery: `INSERT INTO languages (code, name) VALUES ($1, $2)
			ON CONFLICT (code) DO NOTHING
			RETURNING id, code, name`,
		keyArgs:    []interface{}{code},
		insertArgs: []interface{}{code, name},
	})
}

func (r *Resolver) Series(ctx context.Context, name string) (*model.Series, error) {
	return getOrCreate[model.Series](ctx, r.pool, resolveSpec{
		selectQuery: `SELECT id, name FROM series WHERE name = $1`,
		insertQuery: `INSERT INTO series (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
			RETURNING id, name`,
		keyArgs:    []interface{}{name},
		insertArgs: []interface{}{name},
	})
}

func (r *Resolver) Genre(ctx context.Context, name string) (*model.Genre, error) {
	return getOrCreate[model.Genre](ctx, r.pool, resolveSpec{
		selectQuery: `SELECT id, name, description FROM genres WHERE name = $1`,
		insertQuery: `INSERT INTO genres (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
			RETURNING id, name, description`,
		keyArgs:    []interface{}{name},
		insertArgs: []interface{}{name},
	})
}

func (r *Resolver) Character(ctx context.Context, name string) (*model.Character, error) {
	return getOrCreate[model.Character](ctx, r.pool, resolveSpec{
		selectQuery: `SELECT id, name FROM characters WHERE name = $1`,
		insertQuery: `INSERT INTO characters (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
			RETURNING id, name`,
		keyArgs:    []interface{}{name},
		insertArgs: []interface{}{name},
	})
}

// Award keys on (name, year) where year may be null, so the lookup uses
// IS NOT DISTINCT FROM to treat two nulls as equal.
func (r *Resolver) Award(ctx context.Context, name string, year *int) (*model.Award, error) {
	return getOrCreate[model.Award](ctx, r.pool, resolveSpec{
		selectQuery: `SELECT id, name, year FROM awards
			WHERE name = $1 AND year IS NOT DISTINCT FROM $2`,
		insertQuery: `INSERT INTO awards (name, year) VALUES ($1, $2)
			ON CONFLICT (name, year) DO NOTHING
			RETURNING id, name, year`,
		keyArgs:    []interface{}{name, year},
		insertArgs: []interface{}{name, year},
	})
}
