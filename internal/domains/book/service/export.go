package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"bookcatalog-backend/internal/domains/book/model"
)

const exportSheetName = "Books"

// ExportBooks renders the current search page as a spreadsheet. The
// page size is clamped to 100 rows so a filter matching the whole
// catalog cannot produce an unbounded file.
func (s *BookService) ExportBooks(ctx context.Context, params *model.BookSearchParams) (*excelize.File, error) {
	if params.Page == nil {
		page := 1
		params.Page = &page
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}
	if params.Limit > 100 {
		params.Limit = 100
	}

	items, _, err := s.SearchBooks(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list books for export: %w", err)
	}
	return buildBooksWorkbook(items)
}

func buildBooksWorkbook(items []model.BookListItem) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", exportSheetName)

	headers := []string{
		"ID",
		"Title",
		"ISBN",
		"Author",
		"Category",
		"Publisher",
		"Language",
		"Series",
		"Series Info",
		"Price",
		"Publication Date",
		"Page Count",
		"Format",
		"Genres",
		"Average Rating",
		"Ratings Count",
		"Cover URL",
		"Created At",
	}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(exportSheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetCellStyle(exportSheetName, "A1", "R1", headerStyle)
	}

	for i, item := range items {
		rowNum := i + 2
		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}

		f.SetCellValue(exportSheetName, cell(1), item.ID)
		f.SetCellValue(exportSheetName, cell(2), item.Title)
		f.SetCellValue(exportSheetName, cell(3), item.ISBN)
		f.SetCellValue(exportSheetName, cell(4), item.AuthorName)
		f.SetCellValue(exportSheetName, cell(5), derefOrNil(item.CategoryName))
		f.SetCellValue(exportSheetName, cell(6), derefOrNil(item.PublisherName))
		f.SetCellValue(exportSheetName, cell(7), derefOrNil(item.LanguageName))
		f.SetCellValue(exportSheetName, cell(8), derefOrNil(item.SeriesName))
		f.SetCellValue(exportSheetName, cell(9), derefOrNil(item.SeriesInfo))
		f.SetCellValue(exportSheetName, cell(10), item.Price.InexactFloat64())
		f.SetCellValue(exportSheetName, cell(11), item.PublicationDate.String())
		if item.PageCount != nil {
			f.SetCellValue(exportSheetName, cell(12), *item.PageCount)
		} else {
			f.SetCellValue(exportSheetName, cell(12), nil)
		}
		f.SetCellValue(exportSheetName, cell(13), derefOrNil(item.BookFormat))
		if len(item.GenresDisplay) > 0 {
			f.SetCellValue(exportSheetName, cell(14), strings.Join(item.GenresDisplay, "|"))
		} else {
			f.SetCellValue(exportSheetName, cell(14), "")
		}
		if item.AverageRating != nil {
			f.SetCellValue(exportSheetName, cell(15), item.AverageRating.InexactFloat64())
		} else {
			f.SetCellValue(exportSheetName, cell(15), nil)
		}
		f.SetCellValue(exportSheetName, cell(16), item.NumRatings)
		f.SetCellValue(exportSheetName, cell(17), derefOrNil(item.CoverImageDisplay))
		f.SetCellValue(exportSheetName, cell(18), item.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := f.SetColWidth(exportSheetName, "A", "R", 18); err != nil {
		return nil, err
	}
	return f, nil
}

func derefOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
