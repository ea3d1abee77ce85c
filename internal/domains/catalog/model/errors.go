package model

import "errors"

var (
	ErrAuthorNotFound    = errors.New("author not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrGenreNotFound     = errors.New("genre not found")
	ErrCharacterNotFound = errors.New("character not found")
	ErrAwardNotFound     = errors.New("award not found")
	ErrPublisherNotFound = errors.New("publisher not found")
	ErrLanguageNotFound  = errors.New("language not found")
	ErrSeriesNotFound    = errors.New("series not found")

	// ErrDuplicateName maps unique constraint violations on natural keys.
	ErrDuplicateName = errors.New("an entry with this name already exists")
)
