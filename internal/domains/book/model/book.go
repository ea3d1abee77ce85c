package model

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	catalogmodel "bookcatalog-backend/internal/domains/catalog/model"
	"bookcatalog-backend/internal/shared/types"
)

// BookFormats is the closed vocabulary for the book_format column.
var BookFormats = []string{
	"hardcover",
	"paperback",
	"mass_paperback",
	"audiobook",
	"ebook",
	"board_book",
	"other",
}

func IsValidFormat(format string) bool {
	for _, f := range BookFormats {
		if f == format {
			return true
		}
	}
	return false
}

type Book struct {
	ID                   int64            `db:"id" json:"id"`
	Title                string           `db:"title" json:"title"`
	ISBN                 string           `db:"isbn" json:"isbn"`
	Description          *string          `db:"description" json:"description"`
	GoodreadsID          *string          `db:"goodreads_id" json:"goodreads_id"`
	AuthorID             int64            `db:"author_id" json:"author_id"`
	CategoryID           *int64           `db:"category_id" json:"category_id"`
	PublisherID          *int64           `db:"publisher_id" json:"publisher_id"`
	LanguageID           *int64           `db:"language_id" json:"language_id"`
	SeriesID             *int64           `db:"series_id" json:"series_id"`
	PageCount            *int             `db:"page_count" json:"page_count"`
	BookFormat           *string          `db:"book_format" json:"book_format"`
	Edition              *string          `db:"edition" json:"edition"`
	PublicationDate      types.Date       `db:"publication_date" json:"publication_date"`
	FirstPublicationDate *types.Date      `db:"first_publication_date" json:"first_publication_date"`
	Price                decimal.Decimal  `db:"price" json:"price"`
	AverageRating        *decimal.Decimal `db:"average_rating" json:"average_rating"`
	NumRatings           int              `db:"num_ratings" json:"num_ratings"`
	LikedPercent         *int             `db:"liked_percent" json:"liked_percent"`
	Ratings5Star         int              `db:"ratings_5_star" json:"ratings_5_star"`
	Ratings4Star         int              `db:"ratings_4_star" json:"ratings_4_star"`
	Ratings3Star         int              `db:"ratings_3_star" json:"ratings_3_star"`
	Ratings2Star         int              `db:"ratings_2_star" json:"ratings_2_star"`
	Ratings1Star         int              `db:"ratings_1_star" json:"ratings_1_star"`
	BBEScore             *int             `db:"bbe_score" json:"bbe_score"`
	BBEVotes             *int             `db:"bbe_votes" json:"bbe_votes"`
	SeriesInfo           *string          `db:"series_info" json:"series_info"`
	CoverImage           *string          `db:"cover_image" json:"cover_image"`
	CoverImageURL        *string          `db:"cover_image_url" json:"cover_image_url"`
	Settings             *string          `db:"settings" json:"settings"`
	CreatedAt            time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time        `db:"updated_at" json:"updated_at"`
}

// RatingDistribution expresses each star bucket as a percentage of all
// ratings, rounded to one decimal. Nil when the book has no ratings.
func (b *Book) RatingDistribution() map[string]float64 {
	total := b.Ratings5Star + b.Ratings4Star + b.Ratings3Star + b.Ratings2Star + b.Ratings1Star
	if total == 0 {
		return nil
	}
	pct := func(count int) float64 {
		return math.Round(float64(count)/float64(total)*1000) / 10
	}
	return map[string]float64{
		"5": pct(b.Ratings5Star),
		"4": pct(b.Ratings4Star),
		"3": pct(b.Ratings3Star),
		"2": pct(b.Ratings2Star),
		"1": pct(b.Ratings1Star),
	}
}

// SeriesDisplay joins the series name and position info, e.g.
// "The Lord of the Rings - #2". Nil when the book has neither.
func SeriesDisplay(seriesName, seriesInfo *string) *string {
	switch {
	case seriesName != nil && seriesInfo != nil:
		display := *seriesName + " - " + *seriesInfo
		return &display
	case seriesName != nil:
		display := *seriesName
		return &display
	case seriesInfo != nil:
		display := *seriesInfo
		return &display
	}
	return nil
}

// RatingDisplay renders "4.25/5.0 (1,234 ratings)", or a placeholder
// for unrated books. A stored average of zero counts as unrated. The
// average keeps its stored two decimal places.
func RatingDisplay(averageRating *decimal.Decimal, numRatings int) string {
	if averageRating == nil || averageRating.IsZero() {
		return "No ratings yet"
	}
	return averageRating.StringFixed(2) + "/5.0 (" + groupThousands(numRatings) + " ratings)"
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// SettingsList splits the stored comma separated settings string into
// trimmed entries. Always returns a non-nil slice.
func SettingsList(settings *string) []string {
	list := []string{}
	if settings == nil {
		return list
	}
	for _, part := range strings.Split(*settings, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}

// CoverImageDisplay prefers the uploaded cover, resolved to a public
// URL, over the external cover URL.
func CoverImageDisplay(coverImage, coverImageURL *string, resolve func(string) string) *string {
	if coverImage != nil && *coverImage != "" && resolve != nil {
		url := resolve(*coverImage)
		return &url
	}
	return coverImageURL
}

// BookListItem is the denormalized list row produced by the search
// composer. Display fields are filled in by the service.
type BookListItem struct {
	ID                int64            `db:"id" json:"id"`
	Title             string           `db:"title" json:"title"`
	ISBN              string           `db:"isbn" json:"isbn"`
	AuthorName        string           `db:"author_name" json:"author_name"`
	CategoryName      *string          `db:"category_name" json:"category_name"`
	PublisherName     *string          `db:"publisher_name" json:"publisher_name"`
	LanguageName      *string          `db:"language_name" json:"language_name"`
	SeriesName        *string          `db:"series_name" json:"series_name"`
	SeriesInfo        *string          `db:"series_info" json:"series_info"`
	Price             decimal.Decimal  `db:"price" json:"price"`
	PublicationDate   types.Date       `db:"publication_date" json:"publication_date"`
	PageCount         *int             `db:"page_count" json:"page_count"`
	CoverImage        *string          `db:"cover_image" json:"cover_image"`
	CoverImageURL     *string          `db:"cover_image_url" json:"cover_image_url"`
	CoverImageDisplay *string          `db:"-" json:"cover_image_display"`
	AverageRating     *decimal.Decimal `db:"average_rating" json:"average_rating"`
	NumRatings        int              `db:"num_ratings" json:"num_ratings"`
	RatingDisplay     string           `db:"-" json:"rating_display"`
	BookFormat        *string          `db:"book_format" json:"book_format"`
	GenresDisplay     pq.StringArray   `db:"genres_display" json:"genres_display"`
	IsFavorited       bool             `db:"is_favorited" json:"is_favorited"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
}

// BookDetail nests the full related entities plus computed fields.
type BookDetail struct {
	ID                   int64                           `json:"id"`
	Title                string                          `json:"title"`
	ISBN                 string                          `json:"isbn"`
	Description          *string                         `json:"description"`
	GoodreadsID          *string                         `json:"goodreads_id"`
	Author               *catalogmodel.AuthorResponse    `json:"author"`
	Category             *catalogmodel.CategoryResponse  `json:"category"`
	Publisher            *catalogmodel.PublisherResponse `json:"publisher"`
	Language             *catalogmodel.Language          `json:"language"`
	Series               *catalogmodel.SeriesResponse    `json:"series"`
	SeriesInfo           *string                         `json:"series_info"`
	SeriesDisplay        *string                         `json:"series_display"`
	Genres               []catalogmodel.Genre            `json:"genres"`
	Characters           []catalogmodel.Character        `json:"characters"`
	Awards               []catalogmodel.Award            `json:"awards"`
	Price                decimal.Decimal                 `json:"price"`
	PublicationDate      types.Date                      `json:"publication_date"`
	FirstPublicationDate *types.Date                     `json:"first_publication_date"`
	PageCount            *int                            `json:"page_count"`
	BookFormat           *string                         `json:"book_format"`
	Edition              *string                         `json:"edition"`
	CoverImage           *string                         `json:"cover_image"`
	CoverImageURL        *string                         `json:"cover_image_url"`
	CoverImageDisplay    *string                         `json:"cover_image_display"`
	AverageRating        *decimal.Decimal                `json:"average_rating"`
	NumRatings           int                             `json:"num_ratings"`
	LikedPercent         *int                            `json:"liked_percent"`
	Ratings5Star         int                             `json:"ratings_5_star"`
	Ratings4Star         int                             `json:"ratings_4_star"`
	Ratings3Star         int                             `json:"ratings_3_star"`
	Ratings2Star         int                             `json:"ratings_2_star"`
	Ratings1Star         int                             `json:"ratings_1_star"`
	RatingDistribution   map[string]float64              `json:"rating_distribution"`
	BBEScore             *int                            `json:"bbe_score"`
	BBEVotes             *int                            `json:"bbe_votes"`
	Settings             *string                         `json:"settings"`
	SettingsList         []string                        `json:"settings_list"`
	IsFavorited          bool                            `json:"is_favorited"`
	CreatedAt            time.Time                       `json:"created_at"`
	UpdatedAt            time.Time                       `json:"updated_at"`
}

// FavoriteRow is the scan shape for a favorites listing; the book
// columns are flattened alongside the favorite's own id and timestamp.
type FavoriteRow struct {
	FavoriteID  int64     `db:"favorite_id" json:"-"`
	FavoritedAt time.Time `db:"favorited_at" json:"-"`
	BookListItem
}

type FavoriteResponse struct {
	ID        int64        `json:"id"`
	Book      BookListItem `json:"book"`
	CreatedAt time.Time    `json:"created_at"`
}

type ToggleFavoriteResponse struct {
	Message     string `json:"message"`
	IsFavorited bool   `json:"is_favorited"`
}
