package statement

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// LoadSheet reads the first worksheet of an xlsx payload into a typed cell
// grid. Cell typing follows the workbook: shared/inline strings become
// string cells, numeric cells with a date number format become date cells,
// remaining numerics become number cells.
func LoadSheet(data []byte) (Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	name := sheets[0]

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}

	sheet := make(Sheet, len(rows))
	for r, row := range rows {
		cells := make([]Cell, len(row))
		for c := range row {
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("invalid cell coordinates (%d,%d): %w", c+1, r+1, err)
			}
			cells[c] = readCell(f, name, axis)
		}
		sheet[r] = cells
	}
	return sheet, nil
}

func readCell(f *excelize.File, sheetName, axis string) Cell {
	formatted, _ := f.GetCellValue(sheetName, axis)
	raw, _ := f.GetCellValue(sheetName, axis, excelize.Options{RawCellValue: true})
	if strings.TrimSpace(formatted) == "" && strings.TrimSpace(raw) == "" {
		return Cell{}
	}

	cellType, _ := f.GetCellType(sheetName, axis)
	switch cellType {
	case excelize.CellTypeBool:
		return Cell{Type: CellBool, Text: formatted, Bool: raw == "1" || strings.EqualFold(raw, "true")}
	case excelize.CellTypeFormula:
		return Cell{Type: CellFormula, Text: formatted}
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return Cell{Type: CellString, Text: formatted}
	case excelize.CellTypeDate:
		if t, err := excelize.ExcelDateToTime(mustFloat(raw), false); err == nil {
			return Cell{Type: CellDate, Text: formatted, Date: t}
		}
		return Cell{Type: CellString, Text: formatted}
	}

	// Untyped or numeric cell: a parseable raw value is a number, and a
	// number carrying a date format is a date.
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Cell{Type: CellString, Text: formatted}
	}
	if isDateStyled(f, sheetName, axis) {
		if t, convErr := excelize.ExcelDateToTime(serial, false); convErr == nil {
			return Cell{Type: CellDate, Text: formatted, Date: t}
		}
	}
	num, err := decimal.NewFromString(raw)
	if err != nil {
		return Cell{Type: CellString, Text: formatted}
	}
	return Cell{Type: CellNumber, Text: formatted, Number: num}
}

// Builtin number formats 14-22 and 45-47 are the date/time formats.
func isDateStyled(f *excelize.File, sheetName, axis string) bool {
	styleID, err := f.GetCellStyle(sheetName, axis)
	if err != nil {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if (style.NumFmt >= 14 && style.NumFmt <= 22) || (style.NumFmt >= 45 && style.NumFmt <= 47) {
		return true
	}
	if style.CustomNumFmt != nil {
		fmtStr := strings.ToLower(*style.CustomNumFmt)
		return strings.Contains(fmtStr, "yy") || strings.Contains(fmtStr, "dd")
	}
	return false
}

func mustFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
