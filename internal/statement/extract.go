package statement

import (
	"fmt"
	"strings"

	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
)

// Rows tagged with these markers are internal account movements, not spend;
// they are excluded from extraction entirely (not errors, not duplicates).
var suppressedTagMarkers = []string{"döviz al / sat", "kart ödemesi"}

// columnNames holds the layout-specific header labels; empty means the
// column does not exist in that layout.
type columnNames struct {
	date     string
	merchant string
	tag      string
	amount   string
	balance  string
	receipt  string
	bonus    string
}

var layoutColumns = map[domain.StatementLayout]columnNames{
	domain.LayoutA: {date: "Tarih", merchant: "Açıklama", tag: "Etiket", amount: "Tutar", balance: "Bakiye", receipt: "Dekont No"},
	domain.LayoutB: {date: "Tarih", merchant: "İşlem", tag: "Etiket", amount: "Tutar(TL)", bonus: "Bonus"},
}

// ExtractRows walks the data rows below the header and produces typed
// intermediate records. Unparseable dates/amounts and empty merchants skip
// the row silently; a missing receipt id on layout A is a reported row
// error. Row numbers in error messages are 1-based sheet rows.
func ExtractRows(s Sheet, layout domain.StatementLayout) ([]domain.ParsedRow, []string) {
	var rows []domain.ParsedRow
	var errs []string

	names, ok := layoutColumns[layout]
	if !ok {
		return rows, []string{"unsupported layout"}
	}

	headerRow := findHeaderRow(s, names.date)
	if headerRow == -1 {
		return rows, []string{"Could not find header row"}
	}
	cols := mapColumns(s[headerRow])

	for i := headerRow + 1; i < len(s); i++ {
		if len(s[i]) == 0 {
			continue
		}
		rowNum := i + 1

		dateCol, ok := cols[names.date]
		if !ok {
			continue
		}
		date, ok := s.At(i, dateCol).AsDate()
		if !ok {
			continue
		}

		merchantCol, ok := cols[names.merchant]
		if !ok {
			continue
		}
		merchant, _ := s.At(i, merchantCol).AsString()
		merchant = strings.TrimSpace(merchant)
		if merchant == "" {
			continue
		}

		var tag string
		if tagCol, ok := cols[names.tag]; ok {
			tag, _ = s.At(i, tagCol).AsString()
		}
		if isSuppressedTag(tag) {
			continue
		}

		amountCol, ok := cols[names.amount]
		if !ok {
			continue
		}
		amount, ok := s.At(i, amountCol).AsAmount()
		if !ok {
			continue
		}

		parsed := domain.ParsedRow{
			Layout:   layout,
			Date:     date,
			Merchant: merchant,
			Amount:   amount,
			Tag:      strings.TrimSpace(tag),
		}

		if layout == domain.LayoutA {
			if balCol, ok := cols[names.balance]; ok {
				if bal, ok := s.At(i, balCol).AsAmount(); ok {
					parsed.Balance = &bal
				}
			}
			receiptCol, ok := cols[names.receipt]
			if !ok {
				errs = append(errs, fmt.Sprintf("Row %d: Missing Dekont No column", rowNum))
				continue
			}
			receipt, _ := s.At(i, receiptCol).AsString()
			receipt = strings.TrimSpace(receipt)
			if receipt == "" {
				errs = append(errs, fmt.Sprintf("Row %d: Missing Dekont No value", rowNum))
				continue
			}
			parsed.ReceiptID = receipt
		} else {
			if bonusCol, ok := cols[names.bonus]; ok {
				if bonus, ok := s.At(i, bonusCol).AsAmount(); ok {
					parsed.BonusPoints = &bonus
				}
			}
		}

		rows = append(rows, parsed)
	}

	return rows, errs
}

// findHeaderRow locates the first row within the scan window containing a
// cell equal (case-insensitively) to the date header label.
func findHeaderRow(s Sheet, dateHeader string) int {
	limit := min(headerScanLimit, len(s))
	for i := 0; i < limit; i++ {
		for _, c := range s[i] {
			if v, ok := c.AsString(); ok && strings.EqualFold(strings.TrimSpace(v), dateHeader) {
				return i
			}
		}
	}
	return -1
}

// mapColumns builds the header-name to column-index map from the header
// row's non-empty cells. Duplicate header names keep the last occurrence.
func mapColumns(header []Cell) map[string]int {
	cols := make(map[string]int, len(header))
	for idx, c := range header {
		if v, ok := c.AsString(); ok {
			v = strings.TrimSpace(v)
			if v != "" {
				cols[v] = idx
			}
		}
	}
	return cols
}

func isSuppressedTag(tag string) bool {
	lt := turkishLower(tag)
	if lt == "" {
		return false
	}
	for _, marker := range suppressedTagMarkers {
		if strings.Contains(lt, marker) {
			return true
		}
	}
	return false
}
