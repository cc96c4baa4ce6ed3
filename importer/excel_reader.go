package importer

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads the first worksheet of an xlsx workbook. Row 0 is the
// header row.
type ExcelReader struct{}

func (r *ExcelReader) Read(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{FileType: FileTypeExcel, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, &FormatError{FileType: FileTypeExcel, Err: errors.New("workbook has no sheets")}
	}

	sheetRows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, &FormatError{FileType: FileTypeExcel, Err: fmt.Errorf("read rows from sheet %s: %w", sheetName, err)}
	}
	if len(sheetRows) == 0 {
		return nil, &StructuralError{FileType: FileTypeExcel}
	}
	if err := restoreDateCells(file, sheetName, sheetRows); err != nil {
		return nil, &FormatError{FileType: FileTypeExcel, Err: err}
	}

	headers := trimCells(sheetRows[0])
	rows := make([][]string, 0, len(sheetRows))
	rows = append(rows, headers)
	for _, row := range sheetRows[1:] {
		cells := trimCells(row)
		if isBlankRow(cells) {
			continue
		}
		rows = append(rows, cells)
	}

	if isBlankRow(headers) {
		return nil, &StructuralError{FileType: FileTypeExcel, Lines: len(rows) - 1}
	}
	if len(rows) < 2 {
		return nil, &StructuralError{FileType: FileTypeExcel, Lines: len(rows)}
	}

	return rows, nil
}

func trimCells(row []string) []string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

// builtinDateFormats are the built-in number format ids Excel renders as a
// date or date-time.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 57: true, 58: true,
}

var numFmtLiterals = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

// restoreDateCells replaces the locale dependent display text of date
// formatted cells with YYYY-MM-DD. Header cells and everything else keep
// their display text.
func restoreDateCells(file *excelize.File, sheetName string, rows [][]string) error {
	rawRows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("read raw rows from sheet %s: %w", sheetName, err)
	}

	date1904 := false
	if props, err := file.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	dateStyles := make(map[int]bool)
	for r := 1; r < len(rows) && r < len(rawRows); r++ {
		for c := range rows[r] {
			if c >= len(rawRows[r]) || rawRows[r][c] == rows[r][c] {
				continue
			}
			serial, err := strconv.ParseFloat(strings.TrimSpace(rawRows[r][c]), 64)
			if err != nil {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			styleID, err := file.GetCellStyle(sheetName, cell)
			if err != nil {
				return fmt.Errorf("read style of %s: %w", cell, err)
			}
			isDate, known := dateStyles[styleID]
			if !known {
				isDate = isDateStyle(file, styleID)
				dateStyles[styleID] = isDate
			}
			if !isDate {
				continue
			}

			date, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			rows[r][c] = date.Format("2006-01-02")
		}
	}
	return nil
}

func isDateStyle(file *excelize.File, styleID int) bool {
	style, err := file.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if builtinDateFormats[style.NumFmt] {
		return true
	}
	if style.CustomNumFmt == nil {
		return false
	}
	code := strings.ToLower(numFmtLiterals.ReplaceAllString(*style.CustomNumFmt, ""))
	return strings.ContainsAny(code, "yd")
}
