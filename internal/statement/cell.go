// Package statement parses bank-statement spreadsheets of the two known
// layouts into canonical transactions: sheet loading, format detection, row
// extraction and dedup hashing.
package statement

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CellType is the closed set of value kinds a spreadsheet cell can carry.
type CellType int

const (
	CellEmpty CellType = iota
	CellString
	CellNumber
	CellDate
	CellBool
	CellFormula
)

// Cell is a typed spreadsheet cell. Exactly one of the value fields is
// meaningful, selected by Type; Text always holds the display string.
type Cell struct {
	Type   CellType
	Text   string
	Number decimal.Decimal
	Date   time.Time
	Bool   bool
}

// Sheet is a rectangular grid of cells. Rows may have differing lengths;
// out-of-range access yields an empty cell.
type Sheet [][]Cell

// At returns the cell at (row, col), or an empty cell if out of range.
func (s Sheet) At(row, col int) Cell {
	if row < 0 || row >= len(s) {
		return Cell{}
	}
	r := s[row]
	if col < 0 || col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// AsString converts the cell to its string content. Numeric cells render
// without a trailing ".0" when integral. The second return is false for
// empty cells.
func (c Cell) AsString() (string, bool) {
	switch c.Type {
	case CellString, CellFormula:
		return strings.TrimSpace(c.Text), true
	case CellNumber:
		return c.Number.String(), true
	case CellDate:
		return c.Date.Format("2006-01-02T15:04:05"), true
	case CellBool:
		return strconv.FormatBool(c.Bool), true
	default:
		return "", false
	}
}

// AsDate converts the cell to a calendar date. String cells are expected in
// DD/MM/YYYY form, the format both bank exports use.
func (c Cell) AsDate() (time.Time, bool) {
	switch c.Type {
	case CellDate:
		d := c.Date
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
	case CellString, CellFormula:
		return parseSlashDate(c.Text)
	default:
		return time.Time{}, false
	}
}

// AsAmount converts the cell to a decimal rounded half-up to 2 digits.
// String content uses the statement locale: dot as thousands separator,
// comma as decimal separator.
func (c Cell) AsAmount() (decimal.Decimal, bool) {
	switch c.Type {
	case CellNumber:
		return c.Number.Round(2), true
	case CellString, CellFormula:
		return parseLocaleAmount(c.Text)
	default:
		return decimal.Decimal{}, false
	}
}

func parseSlashDate(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days (31/04 -> 01/05); reject those.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func parseLocaleAmount(s string) (decimal.Decimal, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return decimal.Decimal{}, false
	}
	v = strings.ReplaceAll(v, ".", "")
	v = strings.ReplaceAll(v, ",", ".")
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d.Round(2), true
}
