package model

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

	"bookcatalog-backend/internal/shared/types"
)

const dateLayout = "2006-01-02"

var isbnDigitsRe = regexp.MustCompile(`^[0-9]+$`)

// SearchOrderings is the closed set of accepted ordering keys.
var SearchOrderings = []string{
	"title", "-title",
	"price", "-price",
	"publication_date", "-publication_date",
	"average_rating", "-average_rating",
	"num_ratings", "-num_ratings",
	"created_at", "-created_at",
}

func isValidOrdering(ordering string) bool {
	for _, o := range SearchOrderings {
		if o == ordering {
			return true
		}
	}
	return false
}

// BookSearchParams is the validated, typed form of the search query
// string. Nil pointer fields mean "filter not supplied".
type BookSearchParams struct {
	Search             string
	CategoryID         *int64
	AuthorID           *int64
	PublisherID        *int64
	LanguageID         *int64
	SeriesID           *int64
	GenreIDs           []int64
	BookFormat         string
	MinPrice           *decimal.Decimal
	MaxPrice           *decimal.Decimal
	MinRating          *decimal.Decimal
	MaxRating          *decimal.Decimal
	MinPublicationDate *time.Time
	MaxPublicationDate *time.Time
	FavoritesOnly      bool
	HasCoverImage      bool
	Ordering           string

	// Page == nil disables pagination and returns the full result set.
	Page  *int
	Limit int

	// UserID scopes favorites behavior; zero means anonymous.
	UserID int64
}

var searchParamKeys = map[string]bool{
	"search": true, "category": true, "author": true, "publisher": true,
	"language": true, "series": true, "genres": true, "book_format": true,
	"min_price": true, "max_price": true, "min_rating": true, "max_rating": true,
	"min_publication_date": true, "max_publication_date": true,
	"favorites_only": true, "has_cover_image": true, "ordering": true,
	"page": true, "limit": true,
}

// ParseSearchParams converts raw query values into typed params,
// collecting one error per malformed field. Unknown keys and invalid
// ordering or format values are rejected rather than ignored.
func ParseSearchParams(query url.Values) (*BookSearchParams, error) {
	params := &BookSearchParams{Limit: 20}
	errs := validation.Errors{}

	for key := range query {
		if !searchParamKeys[key] {
			errs[key] = fmt.Errorf("Unknown parameter.")
		}
	}

	params.Search = query.Get("search")

	parseID := func(field string) *int64 {
		raw := query.Get(field)
		if raw == "" {
			return nil
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			errs[field] = fmt.Errorf("A valid integer is required.")
			return nil
		}
		return &id
	}
	params.CategoryID = parseID("category")
	params.AuthorID = parseID("author")
	params.PublisherID = parseID("publisher")
	params.LanguageID = parseID("language")
	params.SeriesID = parseID("series")

	for _, raw := range query["genres"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				errs["genres"] = fmt.Errorf("A valid integer is required.")
				break
			}
			params.GenreIDs = append(params.GenreIDs, id)
		}
	}

	if format := query.Get("book_format"); format != "" {
		if !IsValidFormat(format) {
			errs["book_format"] = fmt.Errorf("%q is not a valid choice.", format)
		}
		params.BookFormat = format
	}

	parseDecimal := func(field string) *decimal.Decimal {
		raw := query.Get(field)
		if raw == "" {
			return nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			errs[field] = fmt.Errorf("A valid number is required.")
			return nil
		}
		return &d
	}
	params.MinPrice = parseDecimal("min_price")
	params.MaxPrice = parseDecimal("max_price")
	params.MinRating = parseDecimal("min_rating")
	params.MaxRating = parseDecimal("max_rating")

	parseDate := func(field string) *time.Time {
		raw := query.Get(field)
		if raw == "" {
			return nil
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			errs[field] = fmt.Errorf("Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
			return nil
		}
		return &t
	}
	params.MinPublicationDate = parseDate("min_publication_date")
	params.MaxPublicationDate = parseDate("max_publication_date")

	parseBool := func(field string) bool {
		raw := query.Get(field)
		if raw == "" {
			return false
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs[field] = fmt.Errorf("Must be a valid boolean.")
			return false
		}
		return v
	}
	params.FavoritesOnly = parseBool("favorites_only")
	params.HasCoverImage = parseBool("has_cover_image")

	if ordering := query.Get("ordering"); ordering != "" {
		if !isValidOrdering(ordering) {
			errs["ordering"] = fmt.Errorf("%q is not a valid choice.", ordering)
		}
		params.Ordering = ordering
	}

	// Pagination engages only when the caller asks for it; otherwise
	// the full result set is returned.
	if query.Get("page") != "" || query.Get("limit") != "" {
		page := 1
		if raw := query.Get("page"); raw != "" {
			p, err := strconv.Atoi(raw)
			if err != nil || p < 1 {
				errs["page"] = fmt.Errorf("A valid integer is required.")
			} else {
				page = p
			}
		}
		params.Page = &page
		if raw := query.Get("limit"); raw != "" {
			l, err := strconv.Atoi(raw)
			if err != nil || l < 1 {
				errs["limit"] = fmt.Errorf("A valid integer is required.")
			} else if l > 100 {
				params.Limit = 100
			} else {
				params.Limit = l
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return params, nil
}

// BookCreateRequest covers POST /v1/books. Related genre/character/
// award ids are attached after the row is created.
type BookCreateRequest struct {
	Title                string           `json:"title"`
	ISBN                 string           `json:"isbn"`
	Description          *string          `json:"description"`
	GoodreadsID          *string          `json:"goodreads_id"`
	AuthorID             int64            `json:"author"`
	CategoryID           *int64           `json:"category"`
	PublisherID          *int64           `json:"publisher"`
	LanguageID           *int64           `json:"language"`
	SeriesID             *int64           `json:"series"`
	SeriesInfo           *string          `json:"series_info"`
	GenreIDs             []int64          `json:"genres"`
	CharacterIDs         []int64          `json:"characters"`
	AwardIDs             []int64          `json:"awards"`
	Price                decimal.Decimal  `json:"price"`
	PublicationDate      string           `json:"publication_date"`
	FirstPublicationDate *string          `json:"first_publication_date"`
	PageCount            *int             `json:"page_count"`
	BookFormat           *string          `json:"book_format"`
	Edition              *string          `json:"edition"`
	CoverImageURL        *string          `json:"cover_image_url"`
	AverageRating        *decimal.Decimal `json:"average_rating"`
	NumRatings           int              `json:"num_ratings"`
	LikedPercent         *int             `json:"liked_percent"`
	BBEScore             *int             `json:"bbe_score"`
	BBEVotes             *int             `json:"bbe_votes"`
	Settings             *string          `json:"settings"`
}

func isbnRules() []validation.Rule {
	return []validation.Rule{
		validation.Length(13, 13).Error("ISBN must be exactly 13 characters long."),
		validation.Match(isbnDigitsRe).Error("ISBN must contain only digits."),
	}
}

func ratingRule(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		if p, okp := value.(*decimal.Decimal); okp && p != nil {
			d = *p
		} else {
			return nil
		}
	}
	if d.LessThan(decimal.Zero) || d.GreaterThan(decimal.NewFromInt(5)) {
		return fmt.Errorf("must be between 0.0 and 5.0")
	}
	return nil
}

func positivePriceRule(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		if p, okp := value.(*decimal.Decimal); okp && p != nil {
			d = *p
		} else {
			return nil
		}
	}
	if d.LessThan(decimal.NewFromFloat(0.01)) {
		return fmt.Errorf("Ensure this value is greater than or equal to 0.01.")
	}
	return nil
}

func (r BookCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, 500)),
		validation.Field(&r.ISBN, append([]validation.Rule{validation.Required.Error("isbn is required")}, isbnRules()...)...),
		validation.Field(&r.AuthorID, validation.Required.Error("author is required"), validation.Min(int64(1))),
		validation.Field(&r.Price, validation.Required.Error("price is required"), validation.By(positivePriceRule)),
		validation.Field(&r.PublicationDate, validation.Required.Error("publication date is required"), validation.Date(dateLayout)),
		validation.Field(&r.FirstPublicationDate, validation.Date(dateLayout)),
		validation.Field(&r.PageCount, validation.Min(1)),
		validation.Field(&r.BookFormat, validation.In(formatChoices()...).Error("not a valid choice")),
		validation.Field(&r.Edition, validation.Length(0, 100)),
		validation.Field(&r.SeriesInfo, validation.Length(0, 100)),
		validation.Field(&r.GoodreadsID, validation.Length(0, 100)),
		validation.Field(&r.CoverImageURL, validation.Length(0, 500), is.URL),
		validation.Field(&r.AverageRating, validation.By(ratingRule)),
		validation.Field(&r.NumRatings, validation.Min(0)),
		validation.Field(&r.LikedPercent, validation.Min(0), validation.Max(100)),
		validation.Field(&r.BBEScore, validation.Min(0)),
		validation.Field(&r.BBEVotes, validation.Min(0)),
	)
}

func formatChoices() []interface{} {
	choices := make([]interface{}, len(BookFormats))
	for i, f := range BookFormats {
		choices[i] = f
	}
	return choices
}

// ToBook converts a validated create request into a row ready for
// insertion. Association id lists are attached after the insert.
func (r *BookCreateRequest) ToBook() (*Book, error) {
	pubDate, err := types.ParseDate(r.PublicationDate)
	if err != nil {
		return nil, err
	}
	book := &Book{
		Title:           r.Title,
		ISBN:            r.ISBN,
		Description:     r.Description,
		GoodreadsID:     r.GoodreadsID,
		AuthorID:        r.AuthorID,
		CategoryID:      r.CategoryID,
		PublisherID:     r.PublisherID,
		LanguageID:      r.LanguageID,
		SeriesID:        r.SeriesID,
		SeriesInfo:      r.SeriesInfo,
		PageCount:       r.PageCount,
		BookFormat:      r.BookFormat,
		Edition:         r.Edition,
		PublicationDate: pubDate,
		Price:           r.Price,
		AverageRating:   r.AverageRating,
		NumRatings:      r.NumRatings,
		LikedPercent:    r.LikedPercent,
		BBEScore:        r.BBEScore,
		BBEVotes:        r.BBEVotes,
		CoverImageURL:   r.CoverImageURL,
		Settings:        r.Settings,
	}
	if r.FirstPublicationDate != nil && *r.FirstPublicationDate != "" {
		d, err := types.ParseDate(*r.FirstPublicationDate)
		if err != nil {
			return nil, err
		}
		book.FirstPublicationDate = &d
	}
	return book, nil
}

// BookUpdateRequest covers PUT and PATCH. Nil fields keep their stored
// value; supplied id lists replace the whole association set.
type BookUpdateRequest struct {
	Title                *string          `json:"title"`
	ISBN                 *string          `json:"isbn"`
	Description          *string          `json:"description"`
	GoodreadsID          *string          `json:"goodreads_id"`
	AuthorID             *int64           `json:"author"`
	CategoryID           *int64           `json:"category"`
	PublisherID          *int64           `json:"publisher"`
	LanguageID           *int64           `json:"language"`
	SeriesID             *int64           `json:"series"`
	SeriesInfo           *string          `json:"series_info"`
	GenreIDs             []int64          `json:"genres"`
	CharacterIDs         []int64          `json:"characters"`
	AwardIDs             []int64          `json:"awards"`
	Price                *decimal.Decimal `json:"price"`
	PublicationDate      *string          `json:"publication_date"`
	FirstPublicationDate *string          `json:"first_publication_date"`
	PageCount            *int             `json:"page_count"`
	BookFormat           *string          `json:"book_format"`
	Edition              *string          `json:"edition"`
	CoverImageURL        *string          `json:"cover_image_url"`
	AverageRating        *decimal.Decimal `json:"average_rating"`
	NumRatings           *int             `json:"num_ratings"`
	LikedPercent         *int             `json:"liked_percent"`
	BBEScore             *int             `json:"bbe_score"`
	BBEVotes             *int             `json:"bbe_votes"`
	Settings             *string          `json:"settings"`
}

func (r BookUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(1, 500)),
		validation.Field(&r.ISBN, isbnRules()...),
		validation.Field(&r.AuthorID, validation.Min(int64(1))),
		validation.Field(&r.Price, validation.By(positivePriceRule)),
		validation.Field(&r.PublicationDate, validation.Date(dateLayout)),
		validation.Field(&r.FirstPublicationDate, validation.Date(dateLayout)),
		validation.Field(&r.PageCount, validation.Min(1)),
		validation.Field(&r.BookFormat, validation.In(formatChoices()...).Error("not a valid choice")),
		validation.Field(&r.Edition, validation.Length(0, 100)),
		validation.Field(&r.SeriesInfo, validation.Length(0, 100)),
		validation.Field(&r.GoodreadsID, validation.Length(0, 100)),
		validation.Field(&r.CoverImageURL, validation.Length(0, 500), is.URL),
		validation.Field(&r.AverageRating, validation.By(ratingRule)),
		validation.Field(&r.NumRatings, validation.Min(0)),
		validation.Field(&r.LikedPercent, validation.Min(0), validation.Max(100)),
		validation.Field(&r.BBEScore, validation.Min(0)),
		validation.Field(&r.BBEVotes, validation.Min(0)),
	)
}

// Apply copies the supplied fields onto an existing row. An empty
// first_publication_date string clears the stored date.
func (r *BookUpdateRequest) Apply(b *Book) error {
	if r.Title != nil {
		b.Title = *r.Title
	}
	if r.ISBN != nil {
		b.ISBN = *r.ISBN
	}
	if r.Description != nil {
		b.Description = r.Description
	}
	if r.GoodreadsID != nil {
		b.GoodreadsID = r.GoodreadsID
	}
	if r.AuthorID != nil {
		b.AuthorID = *r.AuthorID
	}
	if r.CategoryID != nil {
		b.CategoryID = r.CategoryID
	}
	if r.PublisherID != nil {
		b.PublisherID = r.PublisherID
	}
	if r.LanguageID != nil {
		b.LanguageID = r.LanguageID
	}
	if r.SeriesID != nil {
		b.SeriesID = r.SeriesID
	}
	if r.SeriesInfo != nil {
		b.SeriesInfo = r.SeriesInfo
	}
	if r.PageCount != nil {
		b.PageCount = r.PageCount
	}
	if r.BookFormat != nil {
		b.BookFormat = r.BookFormat
	}
	if r.Edition != nil {
		b.Edition = r.Edition
	}
	if r.PublicationDate != nil {
		d, err := types.ParseDate(*r.PublicationDate)
		if err != nil {
			return err
		}
		b.PublicationDate = d
	}
	if r.FirstPublicationDate != nil {
		if *r.FirstPublicationDate == "" {
			b.FirstPublicationDate = nil
		} else {
			d, err := types.ParseDate(*r.FirstPublicationDate)
			if err != nil {
				return err
			}
			b.FirstPublicationDate = &d
		}
	}
	if r.Price != nil {
		b.Price = *r.Price
	}
	if r.AverageRating != nil {
		b.AverageRating = r.AverageRating
	}
	if r.NumRatings != nil {
		b.NumRatings = *r.NumRatings
	}
	if r.LikedPercent != nil {
		b.LikedPercent = r.LikedPercent
	}
	if r.BBEScore != nil {
		b.BBEScore = r.BBEScore
	}
	if r.BBEVotes != nil {
		b.BBEVotes = r.BBEVotes
	}
	if r.CoverImageURL != nil {
		b.CoverImageURL = r.CoverImageURL
	}
	if r.Settings != nil {
		b.Settings = r.Settings
	}
	return nil
}

// BookWriteResponse echoes the write shape of a created or updated
// book, with related entities as ids rather than nested objects.
type BookWriteResponse struct {
	ID                   int64            `json:"id"`
	Title                string           `json:"title"`
	ISBN                 string           `json:"isbn"`
	Description          *string          `json:"description"`
	GoodreadsID          *string          `json:"goodreads_id"`
	AuthorID             int64            `json:"author"`
	CategoryID           *int64           `json:"category"`
	PublisherID          *int64           `json:"publisher"`
	LanguageID           *int64           `json:"language"`
	SeriesID             *int64           `json:"series"`
	SeriesInfo           *string          `json:"series_info"`
	GenreIDs             []int64          `json:"genres"`
	CharacterIDs         []int64          `json:"characters"`
	AwardIDs             []int64          `json:"awards"`
	Price                decimal.Decimal  `json:"price"`
	PublicationDate      types.Date       `json:"publication_date"`
	FirstPublicationDate *types.Date      `json:"first_publication_date"`
	PageCount            *int             `json:"page_count"`
	BookFormat           *string          `json:"book_format"`
	Edition              *string          `json:"edition"`
	CoverImageURL        *string          `json:"cover_image_url"`
	AverageRating        *decimal.Decimal `json:"average_rating"`
	NumRatings           int              `json:"num_ratings"`
	LikedPercent         *int             `json:"liked_percent"`
	BBEScore             *int             `json:"bbe_score"`
	BBEVotes             *int             `json:"bbe_votes"`
	Settings             *string          `json:"settings"`
}

func NewBookWriteResponse(b *Book, genreIDs, characterIDs, awardIDs []int64) *BookWriteResponse {
	if genreIDs == nil {
		genreIDs = []int64{}
	}
	if characterIDs == nil {
		characterIDs = []int64{}
	}
	if awardIDs == nil {
		awardIDs = []int64{}
	}
	return &BookWriteResponse{
		ID:                   b.ID,
		Title:                b.Title,
		ISBN:                 b.ISBN,
		Description:          b.Description,
		GoodreadsID:          b.GoodreadsID,
		AuthorID:             b.AuthorID,
		CategoryID:           b.CategoryID,
		PublisherID:          b.PublisherID,
		LanguageID:           b.LanguageID,
		SeriesID:             b.SeriesID,
		SeriesInfo:           b.SeriesInfo,
		GenreIDs:             genreIDs,
		CharacterIDs:         characterIDs,
		AwardIDs:             awardIDs,
		Price:                b.Price,
		PublicationDate:      b.PublicationDate,
		FirstPublicationDate: b.FirstPublicationDate,
		PageCount:            b.PageCount,
		BookFormat:           b.BookFormat,
		Edition:              b.Edition,
		CoverImageURL:        b.CoverImageURL,
		AverageRating:        b.AverageRating,
		NumRatings:           b.NumRatings,
		LikedPercent:         b.LikedPercent,
		BBEScore:             b.BBEScore,
		BBEVotes:             b.BBEVotes,
		Settings:             b.Settings,
	}
}

type BulkDeleteRequest struct {
	BookIDs []int64 `json:"book_ids"`
}

func (r BulkDeleteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookIDs, validation.Required.Error("At least one book ID is required.")),
	)
}

type BulkDeleteResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

type ToggleFavoriteRequest struct {
	BookID int64 `json:"book_id"`
}

type AddFavoriteRequest struct {
	BookID int64 `json:"book_id"`
}

func (r AddFavoriteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required.Error("This field is required.")),
	)
}
