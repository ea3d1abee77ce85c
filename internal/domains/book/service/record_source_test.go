package service

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVSource(t *testing.T) {
	csv := "\ufeffTitle,Author,ISBN\n" +
		"The Hobbit,J.R.R. Tolkien,0618260307\n" +
		"\"Dune, Messiah\",Frank Herbert\n"

	source, err := OpenRecordSource("books.csv", io.NopCloser(strings.NewReader(csv)))
	require.NoError(t, err)
	defer source.Close()

	// Headers are lowercased and stripped of the BOM.
	assert.Equal(t, []string{"title", "author", "isbn"}, source.Headers())

	row, err := source.Next()
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", row["title"])
	assert.Equal(t, "J.R.R. Tolkien", row["author"])
	assert.Equal(t, "0618260307", row["isbn"])

	// Ragged rows read missing cells as empty.
	row, err = source.Next()
	require.NoError(t, err)
	assert.Equal(t, "Dune, Messiah", row["title"])
	assert.Equal(t, "", row["isbn"])

	_, err = source.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestCSVSourceEmptyInput(t *testing.T) {
	_, err := OpenRecordSource("books.csv", io.NopCloser(strings.NewReader("")))
	assert.Error(t, err)
}

func TestXLSXSource(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Title", "Author", "ISBN"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"The Hobbit", "J.R.R. Tolkien", "0618260307"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Dune", "Frank Herbert"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	source, err := OpenRecordSource("books.xlsx", io.NopCloser(buf))
	require.NoError(t, err)
	defer source.Close()

	assert.Equal(t, []string{"title", "author", "isbn"}, source.Headers())

	row, err := source.Next()
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", row["title"])

	row, err = source.Next()
	require.NoError(t, err)
	assert.Equal(t, "Dune", row["title"])
	assert.Equal(t, "", row["isbn"])

	_, err = source.Next()
	assert.ErrorIs(t, err, io.EOF)
}
