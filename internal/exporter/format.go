package exporter

import (
	"fmt"
	"time"

	"ecdash/pkg/contracts/domain"
)

// formatFloat formats a value for CSV output with two decimal places.
// Missing values (NaN) become empty cells.
func formatFloat(f domain.Float) string {
	if f.IsNaN() {
		return ""
	}
	return fmt.Sprintf("%.2f", float64(f))
}

// formatTimestamp formats an optional timestamp; nil becomes an empty cell.
func formatTimestamp(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.Format("2006-01-02 15:04:05")
}
