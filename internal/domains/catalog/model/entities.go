package model

import (
	"time"

	"bookcatalog-backend/internal/shared/types"
)

// Normalized catalog entities that books reference. Each has a natural
// key (name, or code for languages, name+year for awards) used by the
// get-or-create resolver during imports.

type Author struct {
	ID          int64       `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Bio         *string     `db:"bio" json:"bio"`
	BirthDate   *types.Date `db:"birth_date" json:"birth_date"`
	Nationality *string     `db:"nationality" json:"nationality"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Genre struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
}

type Character struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Award struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Year *int   `db:"year" json:"year"`
}

type Publisher struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Language struct {
	ID   int64  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

type Series struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Response shapes for entities whose API payload carries the number of
// books referencing them.

type AuthorResponse struct {
	ID          int64       `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Bio         *string     `db:"bio" json:"bio"`
	BirthDate   *types.Date `db:"birth_date" json:"birth_date"`
	Nationality *string     `db:"nationality" json:"nationality"`
	BooksCount  int         `db:"books_count" json:"books_count"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

type CategoryResponse struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	BooksCount  int       `db:"books_count" json:"books_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type PublisherResponse struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	BooksCount int       `db:"books_count" json:"books_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type SeriesResponse struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	BooksCount int    `db:"books_count" json:"books_count"`
}
