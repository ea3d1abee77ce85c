package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RecordSource yields raw import rows as header-keyed maps. Header keys
// are lowercased so callers need not care about the export's casing.
type RecordSource interface {
	Headers() []string
	// Next returns the following data row, or io.EOF when exhausted.
	Next() (map[string]string, error)
	Close() error
}

// OpenRecordSource picks the parser from the file extension; anything
// that is not a workbook is treated as CSV.
func OpenRecordSource(filename string, r io.ReadCloser) (RecordSource, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		// The workbook is fully buffered on open, the input can go.
		src, err := NewXLSXSource(r)
		r.Close()
		return src, err
	}
	return NewCSVSource(r)
}

type csvSource struct {
	reader  *csv.Reader
	closer  io.Closer
	headers []string
}

// NewCSVSource reads the header row up front. Ragged rows are allowed;
// missing cells read as empty strings.
func NewCSVSource(r io.ReadCloser) (RecordSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	return &csvSource{reader: cr, closer: r, headers: normalizeHeaders(header)}, nil
}

func (s *csvSource) Headers() []string { return s.headers }

func (s *csvSource) Next() (map[string]string, error) {
	record, err := s.reader.Read()
	if err != nil {
		return nil, err
	}
	return rowMap(s.headers, record), nil
}

func (s *csvSource) Close() error { return s.closer.Close() }

type xlsxSource struct {
	file    *excelize.File
	rows    *excelize.Rows
	headers []string
}

// NewXLSXSource streams the first sheet of a workbook.
func NewXLSXSource(r io.Reader) (RecordSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if !rows.Next() {
		rows.Close()
		f.Close()
		return nil, fmt.Errorf("workbook has no header row")
	}
	header, err := rows.Columns()
	if err != nil {
		rows.Close()
		f.Close()
		return nil, fmt.Errorf("read header row: %w", err)
	}
	return &xlsxSource{file: f, rows: rows, headers: normalizeHeaders(header)}, nil
}

func (s *xlsxSource) Headers() []string { return s.headers }

func (s *xlsxSource) Next() (map[string]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	record, err := s.rows.Columns()
	if err != nil {
		return nil, err
	}
	return rowMap(s.headers, record), nil
}

func (s *xlsxSource) Close() error {
	s.rows.Close()
	return s.file.Close()
}

func normalizeHeaders(header []string) []string {
	headers := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return headers
}

func rowMap(headers, record []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(record) {
			row[h] = record[i]
		} else {
			row[h] = ""
		}
	}
	return row
}
