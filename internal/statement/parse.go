package statement

import (
	"fmt"
	"time"

	"github.com/spendinganalytics/spending_analytics_app/internal/apperrors"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
)

// Parse runs the full per-file pipeline: sheet load, layout detection, row
// extraction and canonical hashing. Row-level problems are returned as
// messages alongside the successfully parsed transactions; an unreadable
// payload or unrecognised layout is a file-level error.
func Parse(data []byte, importedAt time.Time) ([]domain.Transaction, []string, error) {
	sheet, err := LoadSheet(data)
	if err != nil {
		return nil, nil, err
	}

	layout := DetectLayout(sheet)
	if layout == domain.LayoutUnknown {
		return nil, nil, fmt.Errorf("%w: expected headers Tarih, Açıklama, Etiket, Tutar, Bakiye, Dekont No (layout A) or Tarih, İşlem, Etiket, Bonus, Tutar(TL) (layout B)", apperrors.ErrUnknownFormat)
	}

	rows, rowErrs := ExtractRows(sheet, layout)

	txns := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, ToTransaction(row, importedAt))
	}
	return txns, rowErrs, nil
}
