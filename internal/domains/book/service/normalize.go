package service

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bookcatalog-backend/internal/domains/book/model"
)

// Source dumps are messy: truncated rows, sentinel ISBNs, prices with
// currency noise, dates in four layouts and list fields exported as
// Python-style literals. Every cleaner here is total; bad input maps to
// a default or nil, never an error.

var (
	defaultPrice  = decimal.RequireFromString("9.99")
	maxValidPrice = decimal.NewFromInt(1000)

	// defaultPublicationDate stands in when no layout yields a
	// plausible date.
	defaultPublicationDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	dateLayouts = []string{"01/02/06", "01/02/2006", "2006-01-02", "02/01/2006"}

	languageCodes = map[string]string{
		"English":    "en",
		"Spanish":    "es",
		"French":     "fr",
		"German":     "de",
		"Italian":    "it",
		"Portuguese": "pt",
		"Russian":    "ru",
		"Japanese":   "ja",
		"Chinese":    "zh",
	}

	bookFormats = map[string]string{
		"hardcover":             "hardcover",
		"paperback":             "paperback",
		"mass market paperback": "mass_paperback",
		"audiobook":             "audiobook",
		"ebook":                 "ebook",
		"kindle":                "ebook",
		"board book":            "board_book",
	}
)

// cleanISBN substitutes a synthetic but stable identifier when the
// source value is missing, the known placeholder or overlong. The same
// title and author always produce the same AUTO isbn, so re-imports
// dedupe correctly.
func cleanISBN(raw, title, author string) string {
	isbn := strings.TrimSpace(raw)
	if isbn == "" || isbn == "9999999999999" || len(isbn) > 13 {
		h := fnv.New32a()
		h.Write([]byte(title + author))
		return fmt.Sprintf("AUTO%08d", h.Sum32()%100000000)
	}
	return isbn
}

// cleanAuthor keeps only the primary author: everything before the
// first comma, with any parenthesised role stripped.
func cleanAuthor(raw string) string {
	name := strings.SplitN(raw, ",", 2)[0]
	name = strings.SplitN(name, "(", 2)[0]
	return truncateRunes(strings.TrimSpace(name), 200)
}

// cleanPrice accepts values like "$1,234.50"; anything unparseable or
// outside (0, 1000) falls back to the default price.
func cleanPrice(raw string) decimal.Decimal {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(raw)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || cleaned == `""` {
		return defaultPrice
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return defaultPrice
	}
	if !price.IsPositive() || !price.LessThan(maxValidPrice) {
		return defaultPrice
	}
	return price
}

// cleanDate tries each known layout and keeps the first parse whose
// year lands in [1900, 2030]. Layouts disagree on day/month order, so
// the window also guards against a wrong-layout match.
func cleanDate(raw string) time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return defaultPublicationDate
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if t.Year() >= 1900 && t.Year() <= 2030 {
			return t
		}
	}
	return defaultPublicationDate
}

// cleanOptionalDate is cleanDate for nullable columns: blank input
// stays NULL instead of collapsing onto the default date.
func cleanOptionalDate(raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t := cleanDate(raw)
	return &t
}

// cleanInt parses counts like "1,234" or "320.0". Values outside
// (0, 10000) are treated as garbage.
func cleanInt(raw string) *int {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	if n <= 0 || n >= 10000 {
		return nil
	}
	return &n
}

func cleanRating(raw string) *decimal.Decimal {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 || f > 5 {
		return nil
	}
	d := decimal.NewFromFloat(f).Round(2)
	return &d
}

// cleanRatingsByStar parses the per-star counts, index 0 = 5 stars.
// Rows with fewer than five buckets report zeroes across the board.
func cleanRatingsByStar(raw string) [5]int {
	var counts [5]int
	entries := splitQuotedList(raw)
	if len(entries) < 5 {
		return counts
	}
	for i := 0; i < 5; i++ {
		n, err := strconv.Atoi(entries[i])
		if err != nil || n < 0 {
			n = 0
		}
		counts[i] = n
	}
	return counts
}

// splitQuotedList splits a Python-style list literal on commas outside
// quotes. Entries are trimmed of surrounding quotes and whitespace;
// blanks are dropped.
func splitQuotedList(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
	}

	var (
		parts   []string
		current strings.Builder
		quote   rune
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ',':
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	parts = append(parts, current.String())

	var entries []string
	for _, p := range parts {
		p = strings.Trim(p, "'\" \t\n\r")
		if p != "" {
			entries = append(entries, p)
		}
	}
	return entries
}

// cleanGenres keeps the first five genres; scraped entries sometimes
// carry a stray trailing colon.
func cleanGenres(raw string) []string {
	var genres []string
	for _, e := range splitQuotedList(raw) {
		name := strings.TrimSpace(strings.TrimSuffix(e, ":"))
		if name == "" {
			continue
		}
		genres = append(genres, truncateRunes(name, 50))
		if len(genres) == 5 {
			break
		}
	}
	return genres
}

func cleanCharacters(raw string) []string {
	var characters []string
	for _, e := range splitQuotedList(raw) {
		characters = append(characters, truncateRunes(e, 200))
		if len(characters) == 10 {
			break
		}
	}
	return characters
}

// cleanAwards keeps the first ten awards. The year, when one sits in
// the last parenthesised group, becomes part of the award's identity;
// the display name keeps its suffix.
func cleanAwards(raw string) []model.ImportAward {
	var awards []model.ImportAward
	for _, e := range splitQuotedList(raw) {
		name := truncateRunes(e, 500)
		awards = append(awards, model.ImportAward{Name: name, Year: awardYear(name)})
		if len(awards) == 10 {
			break
		}
	}
	return awards
}

func awardYear(name string) *int {
	open := strings.LastIndex(name, "(")
	if open < 0 {
		return nil
	}
	rest := name[open+1:]
	end := strings.Index(rest, ")")
	if end <= 0 {
		return nil
	}
	digits := rest[:end]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil
		}
	}
	year, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &year
}

// cleanSettings flattens the settings list into one comma separated
// string column.
func cleanSettings(raw string) *string {
	entries := splitQuotedList(raw)
	if len(entries) == 0 {
		return nil
	}
	joined := truncateRunes(strings.Join(entries, ", "), 500)
	return &joined
}

// cleanLanguage maps a display name to its ISO 639-1 code. Names
// outside the known set get a best-effort code from their first two
// letters.
func cleanLanguage(raw string) (code, name string) {
	name = strings.TrimSpace(raw)
	if name == "" {
		return "", ""
	}
	code, ok := languageCodes[name]
	if !ok {
		runes := []rune(strings.ToLower(name))
		if len(runes) > 2 {
			runes = runes[:2]
		}
		code = string(runes)
	}
	return code, truncateRunes(name, 50)
}

// cleanFormat normalizes the binding to the catalog's format enum;
// anything unrecognized lands in "other".
func cleanFormat(raw string) *string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return nil
	}
	format, ok := bookFormats[value]
	if !ok {
		format = "other"
	}
	return &format
}

// cleanSeries splits "The Expanse #1" into the series name and keeps
// the raw value as the position hint. A bare "#1" yields no name.
func cleanSeries(raw string) (name, info *string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	n := truncateRunes(strings.TrimSpace(strings.SplitN(trimmed, "#", 2)[0]), 200)
	i := truncateRunes(trimmed, 100)
	if n != "" {
		name = &n
	}
	return name, &i
}

func optionalText(raw string, max int) *string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	value = truncateRunes(value, max)
	return &value
}

// truncateRunes cuts on rune boundaries so multibyte titles survive
// the column limits intact.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
