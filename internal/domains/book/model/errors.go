package model

import "errors"

var (
	ErrBookNotFound = errors.New("Book not found")
	// ErrFavoriteBookGone is the validation-level variant used when
	// favoriting a book that does not exist.
	ErrFavoriteBookGone  = errors.New("Book not found.")
	ErrISBNExists        = errors.New("A book with this ISBN already exists.")
	ErrRelatedNotFound   = errors.New("a referenced related object does not exist")
	ErrFavoriteNotFound  = errors.New("favorite not found")
	ErrAlreadyFavorited  = errors.New("Book is already in favorites.")
	ErrBookIDRequired    = errors.New("book_id is required")
	ErrCoverNotFound     = errors.New("book has no uploaded cover image")
	ErrCoverNotSupported = errors.New("cover image must be JPEG or PNG")
	ErrCoverTooLarge     = errors.New("cover image exceeds the maximum size (5MB)")
)
