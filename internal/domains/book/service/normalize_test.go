package service

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanISBN(t *testing.T) {
	t.Run("valid isbn passes through", func(t *testing.T) {
		assert.Equal(t, "0439554934", cleanISBN("0439554934", "Harry Potter", "J.K. Rowling"))
		assert.Equal(t, "9780439554930", cleanISBN(" 9780439554930 ", "Harry Potter", "J.K. Rowling"))
	})

	t.Run("missing or bogus isbn gets a synthetic one", func(t *testing.T) {
		for _, raw := range []string{"", "9999999999999", "97804395549301234"} {
			got := cleanISBN(raw, "The Hobbit", "J.R.R. Tolkien")
			assert.Regexp(t, `^AUTO\d{8}$`, got, "raw=%q", raw)
		}
	})

	t.Run("synthetic isbn is stable per title and author", func(t *testing.T) {
		first := cleanISBN("", "The Hobbit", "J.R.R. Tolkien")
		second := cleanISBN("9999999999999", "The Hobbit", "J.R.R. Tolkien")
		assert.Equal(t, first, second)

		other := cleanISBN("", "Dune", "Frank Herbert")
		assert.NotEqual(t, first, other)
	})
}

func TestCleanAuthor(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"J.K. Rowling, Mary GrandPré (Illustrator)", "J.K. Rowling"},
		{"Stephen King (Goodreads Author)", "Stephen King"},
		{"  Frank Herbert  ", "Frank Herbert"},
		{"Anonymous", "Anonymous"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanAuthor(tt.raw), "raw=%q", tt.raw)
	}

	long := strings.Repeat("a", 250)
	assert.Len(t, cleanAuthor(long), 200)
}

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"$12.50", "12.50"},
		{"12.345", "12.345"}, // no rounding on import
		{"999.99", "999.99"},
		{"0.01", "0.01"},
		{"", "9.99"},
		{`""`, "9.99"},
		{"abc", "9.99"},
		{"0", "9.99"},
		{"-4.20", "9.99"},
		{"1000", "9.99"},
		{"1,234.50", "9.99"}, // over the cap once the comma is stripped
	}
	for _, tt := range tests {
		got := cleanPrice(tt.raw)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
			"raw=%q got=%s want=%s", tt.raw, got, tt.want)
	}
}

func TestCleanDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"01/15/99", time.Date(1999, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{"09/01/2005", time.Date(2005, time.September, 1, 0, 0, 0, 0, time.UTC)},
		{"2014-05-06", time.Date(2014, time.May, 6, 0, 0, 0, 0, time.UTC)},
		// Day-first layout is the only one that fits.
		{"31/12/2010", time.Date(2010, time.December, 31, 0, 0, 0, 0, time.UTC)},
		// Out-of-window years and garbage collapse onto the default.
		{"01/01/1850", defaultPublicationDate},
		{"06/15/2031", defaultPublicationDate},
		{"not a date", defaultPublicationDate},
		{"", defaultPublicationDate},
	}
	for _, tt := range tests {
		got := cleanDate(tt.raw)
		assert.True(t, got.Equal(tt.want), "raw=%q got=%s want=%s", tt.raw, got, tt.want)
	}
}

func TestCleanOptionalDate(t *testing.T) {
	assert.Nil(t, cleanOptionalDate(""))
	assert.Nil(t, cleanOptionalDate("   "))

	got := cleanOptionalDate("2014-05-06")
	require.NotNil(t, got)
	assert.Equal(t, 2014, got.Year())

	// Unparseable but non-blank still fills the default, not NULL.
	fallback := cleanOptionalDate("garbage")
	require.NotNil(t, fallback)
	assert.True(t, fallback.Equal(defaultPublicationDate))
}

func TestCleanInt(t *testing.T) {
	tests := []struct {
		raw  string
		want *int
	}{
		{"1,234", intPtr(1234)},
		{"320.0", intPtr(320)},
		{"9999", intPtr(9999)},
		{"1", intPtr(1)},
		{"", nil},
		{"abc", nil},
		{"0", nil},
		{"-5", nil},
		{"10000", nil},
		{"15000", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanInt(tt.raw), "raw=%q", tt.raw)
	}
}

func TestCleanRating(t *testing.T) {
	got := cleanRating("4.38")
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.RequireFromString("4.38")))

	rounded := cleanRating("4.375")
	require.NotNil(t, rounded)
	assert.True(t, rounded.Equal(decimal.RequireFromString("4.38")), "got=%s", rounded)

	zero := cleanRating("0")
	require.NotNil(t, zero)
	assert.True(t, zero.IsZero())

	assert.Nil(t, cleanRating(""))
	assert.Nil(t, cleanRating("5.5"))
	assert.Nil(t, cleanRating("-1"))
	assert.Nil(t, cleanRating("n/a"))
}

func TestCleanRatingsByStar(t *testing.T) {
	counts := cleanRatingsByStar("['3444695', '1921313', '745221', '171994', '93557']")
	assert.Equal(t, [5]int{3444695, 1921313, 745221, 171994, 93557}, counts)

	// Fewer than five buckets means the breakdown is unusable.
	assert.Equal(t, [5]int{}, cleanRatingsByStar("['100', '200']"))
	assert.Equal(t, [5]int{}, cleanRatingsByStar(""))

	// A bad bucket zeroes only itself.
	partial := cleanRatingsByStar("['x', '1', '2', '3', '4']")
	assert.Equal(t, [5]int{0, 1, 2, 3, 4}, partial)
}

func TestSplitQuotedList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"['Young Adult', 'Fantasy']", []string{"Young Adult", "Fantasy"}},
		{`["Classics", "Fiction"]`, []string{"Classics", "Fiction"}},
		// Commas inside quotes do not split.
		{"['London, England', 'Paris']", []string{"London, England", "Paris"}},
		// Apostrophes survive inside double-quoted entries.
		{`["The Handmaid's Tale"]`, []string{"The Handmaid's Tale"}},
		{"['', 'Kept']", []string{"Kept"}},
		{"plain, values", []string{"plain", "values"}},
		{"[]", nil},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitQuotedList(tt.raw), "raw=%q", tt.raw)
	}
}

func TestCleanGenres(t *testing.T) {
	genres := cleanGenres("['Fantasy:', 'Fiction', 'Young Adult']")
	assert.Equal(t, []string{"Fantasy", "Fiction", "Young Adult"}, genres)

	capped := cleanGenres("['A', 'B', 'C', 'D', 'E', 'F', 'G']")
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, capped)

	long := cleanGenres("['" + strings.Repeat("x", 80) + "']")
	require.Len(t, long, 1)
	assert.Len(t, long[0], 50)
}

func TestCleanCharacters(t *testing.T) {
	chars := cleanCharacters("['Harry Potter', 'Hermione Granger']")
	assert.Equal(t, []string{"Harry Potter", "Hermione Granger"}, chars)

	var entries []string
	for i := 0; i < 12; i++ {
		entries = append(entries, "'c"+strings.Repeat("x", i)+"'")
	}
	capped := cleanCharacters("[" + strings.Join(entries, ", ") + "]")
	assert.Len(t, capped, 10)
}

func TestCleanAwards(t *testing.T) {
	awards := cleanAwards("['Locus Award Nominee for Best Fantasy Novel (2004)', 'Mythopoeic Fantasy Award']")
	require.Len(t, awards, 2)

	// The year is split out but the display name keeps its suffix.
	assert.Equal(t, "Locus Award Nominee for Best Fantasy Novel (2004)", awards[0].Name)
	require.NotNil(t, awards[0].Year)
	assert.Equal(t, 2004, *awards[0].Year)

	assert.Equal(t, "Mythopoeic Fantasy Award", awards[1].Name)
	assert.Nil(t, awards[1].Year)
}

func TestAwardYear(t *testing.T) {
	tests := []struct {
		name string
		want *int
	}{
		{"Hugo Award (2004)", intPtr(2004)},
		// The last parenthesised group wins.
		{"Prize (for a novel) (1999)", intPtr(1999)},
		{"No Year Award", nil},
		{"Odd (TBD)", nil},
		{"Empty ()", nil},
		{"Mixed (20a4)", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, awardYear(tt.name), "name=%q", tt.name)
	}
}

func TestCleanSettings(t *testing.T) {
	got := cleanSettings("['London, England', 'Hogwarts']")
	require.NotNil(t, got)
	assert.Equal(t, "London, England, Hogwarts", *got)

	assert.Nil(t, cleanSettings(""))
	assert.Nil(t, cleanSettings("[]"))
}

func TestCleanLanguage(t *testing.T) {
	code, name := cleanLanguage("English")
	assert.Equal(t, "en", code)
	assert.Equal(t, "English", name)

	code, name = cleanLanguage("Portuguese")
	assert.Equal(t, "pt", code)
	assert.Equal(t, "Portuguese", name)

	// Unknown languages get a best-effort two letter code.
	code, name = cleanLanguage("Klingon")
	assert.Equal(t, "kl", code)
	assert.Equal(t, "Klingon", name)

	code, name = cleanLanguage("")
	assert.Empty(t, code)
	assert.Empty(t, name)
}

func TestCleanFormat(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Hardcover", "hardcover"},
		{"Paperback", "paperback"},
		{"Mass Market Paperback", "mass_paperback"},
		{"Kindle", "ebook"},
		{"ebook", "ebook"},
		{"Board Book", "board_book"},
		{"Spiral-bound", "other"},
	}
	for _, tt := range tests {
		got := cleanFormat(tt.raw)
		require.NotNil(t, got, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, *got, "raw=%q", tt.raw)
	}

	assert.Nil(t, cleanFormat(""))
}

func TestCleanSeries(t *testing.T) {
	name, info := cleanSeries("The Lord of the Rings #1")
	require.NotNil(t, name)
	assert.Equal(t, "The Lord of the Rings", *name)
	require.NotNil(t, info)
	assert.Equal(t, "The Lord of the Rings #1", *info)

	// Position-only values keep the hint but name no series.
	name, info = cleanSeries("#2")
	assert.Nil(t, name)
	require.NotNil(t, info)
	assert.Equal(t, "#2", *info)

	name, info = cleanSeries("Discworld")
	require.NotNil(t, name)
	assert.Equal(t, "Discworld", *name)
	require.NotNil(t, info)
	assert.Equal(t, "Discworld", *info)

	name, info = cleanSeries("  ")
	assert.Nil(t, name)
	assert.Nil(t, info)
}

func TestOptionalText(t *testing.T) {
	assert.Nil(t, optionalText("", 10))
	assert.Nil(t, optionalText("   ", 10))

	got := optionalText("  value  ", 10)
	require.NotNil(t, got)
	assert.Equal(t, "value", *got)

	capped := optionalText(strings.Repeat("y", 20), 10)
	require.NotNil(t, capped)
	assert.Len(t, *capped, 10)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
	// Cuts on rune boundaries, not bytes.
	assert.Equal(t, "ééé", truncateRunes("ééééé", 3))
}

func intPtr(n int) *int { return &n }
