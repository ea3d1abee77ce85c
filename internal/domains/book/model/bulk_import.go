package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportOptions configures a bulk catalog import run.
type ImportOptions struct {
	// BatchSize controls the progress reporting interval.
	BatchSize int
	// Limit stops the run after this many records; 0 means no limit.
	Limit int
	// SkipDuplicates skips records whose ISBN is already stored
	// instead of failing them.
	SkipDuplicates bool
}

// ImportAward is an award reference extracted from the raw awards
// field, with the year split out of a trailing "(2004)" suffix.
type ImportAward struct {
	Name string
	Year *int
}

// ImportRecord is one fully normalized source row, ready to be
// committed. Related entity names are resolved to ids at commit time.
type ImportRecord struct {
	Title                string
	AuthorName           string
	ISBN                 string
	Description          *string
	GoodreadsID          *string
	CategoryName         *string
	PublisherName        *string
	LanguageCode         *string
	LanguageName         *string
	SeriesName           *string
	SeriesInfo           *string
	Genres               []string
	Characters           []string
	Awards               []ImportAward
	Price                decimal.Decimal
	PublicationDate      time.Time
	FirstPublicationDate *time.Time
	PageCount            *int
	BookFormat           *string
	Edition              *string
	AverageRating        *decimal.Decimal
	NumRatings           int
	LikedPercent         *int
	// RatingsByStar holds the five star-bucket counts, index 0 = 5★.
	RatingsByStar [5]int
	BBEScore      *int
	BBEVotes      *int
	Settings      *string
	CoverImageURL *string
}

// RowError records one failed record; the run continues past it.
type RowError struct {
	Row   int    `json:"row"`
	Title string `json:"title,omitempty"`
	Error string `json:"error"`
}

// ImportReport is the final summary of an import run.
type ImportReport struct {
	TotalRows int        `json:"total_rows"`
	Created   int        `json:"created"`
	Skipped   int        `json:"skipped"`
	Errored   int        `json:"errored"`
	Errors    []RowError `json:"errors,omitempty"`
	// Aborted is set when the run stopped early because the error
	// threshold was crossed; counts cover only the processed prefix.
	Aborted bool `json:"aborted"`
}
