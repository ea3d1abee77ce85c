package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SearchCacheKey derives a stable cache key from the full filter set,
// so two requests with identical filters share a cache entry. The user
// id sits outside the hash (is_favorited is viewer dependent) so one
// user's keys can be dropped with a glob when their favorites change.
func SearchCacheKey(prefix string, params *BookSearchParams) string {
	var b strings.Builder
	b.WriteString(params.Search)
	writeID(&b, params.CategoryID)
	writeID(&b, params.AuthorID)
	writeID(&b, params.PublisherID)
	writeID(&b, params.LanguageID)
	writeID(&b, params.SeriesID)
	for _, id := range params.GenreIDs {
		fmt.Fprintf(&b, "|g%d", id)
	}
	b.WriteString("|" + params.BookFormat)
	writeDecimal(&b, params.MinPrice)
	writeDecimal(&b, params.MaxPrice)
	writeDecimal(&b, params.MinRating)
	writeDecimal(&b, params.MaxRating)
	writeDate(&b, params.MinPublicationDate)
	writeDate(&b, params.MaxPublicationDate)
	fmt.Fprintf(&b, "|%t|%t|%s", params.FavoritesOnly, params.HasCoverImage, params.Ordering)
	if params.Page != nil {
		fmt.Fprintf(&b, "|p%d:%d", *params.Page, params.Limit)
	}
	return fmt.Sprintf("%s:u%d:%x", prefix, params.UserID, hashString(b.String()))
}

func writeID(b *strings.Builder, id *int64) {
	if id == nil {
		b.WriteString("|-")
		return
	}
	fmt.Fprintf(b, "|%d", *id)
}

func writeDecimal(b *strings.Builder, d *decimal.Decimal) {
	if d == nil {
		b.WriteString("|-")
		return
	}
	b.WriteString("|" + d.String())
}

func writeDate(b *strings.Builder, t *time.Time) {
	if t == nil {
		b.WriteString("|-")
		return
	}
	b.WriteString("|" + t.Format(dateLayout))
}

// Helper: Hash string to integer
func hashString(s string) uint32 {
	h := uint32(5381)
	for i := 0; i < len(s); i++ {
		h = ((h << 5) + h) + uint32(s[i])
	}
	return h
}
