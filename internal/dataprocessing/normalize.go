package dataprocessing

import (
	"strings"

	"ecdash/internal/files"
)

// NormalizeHeader trims surrounding whitespace from a column header,
// lowercases it and applies NFC. Required-column checks and all column
// lookups go through this form, so headers differing only in case, padding
// or Hangul composition are equivalent.
func NormalizeHeader(header string) string {
	return files.Normalize(strings.ToLower(strings.TrimSpace(header)))
}

// ColumnIndex maps normalized header names to their positions in the header
// row. When a normalized name appears more than once the first position wins.
func ColumnIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, header := range headers {
		key := NormalizeHeader(header)
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}

// MissingColumns returns the required columns (already in normalized form)
// absent from the index, in the order given. A non-empty result rejects the
// whole table: downstream aggregation assumes full-row shape, so a table
// with some but not all required fields is unusable.
func MissingColumns(index map[string]int, required []string) []string {
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// cell returns the value at the named column for one row, or "" when the row
// is shorter than the header.
func cell(row []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
