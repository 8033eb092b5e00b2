package statement

import (
	"strings"
	"unicode"

	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
)

// Bank exports put banners and blank rows above the header, so detection
// scans a bounded window instead of assuming a fixed header row.
const headerScanLimit = 20

var (
	layoutAHeaders = []string{"Tarih", "Açıklama", "Etiket", "Tutar", "Bakiye", "Dekont No"}
	layoutBHeaders = []string{"Tarih", "İşlem", "Etiket", "Bonus", "Tutar(TL)"}
)

// DetectLayout classifies a sheet into one of the two known statement
// layouts by matching the full header token set within the scan window. If
// neither full set matches it falls back to a looser structural heuristic:
// a date column next to a balance or receipt-id column means layout A, a
// date column next to a bonus or operation column without a balance means
// layout B. Returns LayoutUnknown when no signal is found.
func DetectLayout(s Sheet) domain.StatementLayout {
	limit := min(headerScanLimit, len(s))

	for i := 0; i < limit; i++ {
		headers := headerSet(s[i])
		if containsAll(headers, layoutAHeaders) {
			return domain.LayoutA
		}
		if containsAll(headers, layoutBHeaders) {
			return domain.LayoutB
		}
	}

	for i := 0; i < limit; i++ {
		var hasDate, hasReceipt, hasBalance, hasBonus, hasOperation bool
		for _, c := range s[i] {
			v, ok := c.AsString()
			if !ok {
				continue
			}
			lv := turkishLower(v)
			switch {
			case strings.Contains(lv, "tarih"):
				hasDate = true
			case strings.Contains(lv, "dekont"):
				hasReceipt = true
			case strings.Contains(lv, "bakiye"):
				hasBalance = true
			case strings.Contains(lv, "bonus"):
				hasBonus = true
			case strings.Contains(lv, "işlem"):
				hasOperation = true
			}
		}
		if hasDate {
			if hasReceipt || hasBalance {
				return domain.LayoutA
			}
			if hasBonus || (hasOperation && !hasBalance) {
				return domain.LayoutB
			}
		}
	}

	return domain.LayoutUnknown
}

func headerSet(row []Cell) map[string]bool {
	set := make(map[string]bool, len(row))
	for _, c := range row {
		if v, ok := c.AsString(); ok && v != "" {
			set[v] = true
		}
	}
	return set
}

func containsAll(set map[string]bool, required []string) bool {
	for _, r := range required {
		if !set[r] {
			return false
		}
	}
	return true
}

// turkishLower lowercases with Turkish casing rules so dotted/dotless I
// headers ("İşlem") compare correctly.
func turkishLower(s string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, strings.TrimSpace(s))
}
