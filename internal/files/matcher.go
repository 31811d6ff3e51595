package files

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	apperrors "ecdash/internal/errors"
)

// lockFilePrefix marks temporary files that spreadsheet applications leave
// behind while a workbook is open.
const lockFilePrefix = "~$"

// ErrNoMatch is returned when no candidate file or sheet matches. It is a
// per-file condition; I/O failures on the directory itself surface as
// storage errors instead.
var ErrNoMatch = errors.New("no matching file")

// Matcher resolves logical names to files on disk despite Unicode
// normalization drift and inconsistent naming conventions.
type Matcher struct {
	logger *slog.Logger
}

// NewMatcher creates a new file matcher
func NewMatcher(logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{logger: logger}
}

// Normalize returns s in Unicode Normalization Form C.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// ListFiles returns the plain-file entries of dir, lock files excluded, in a
// stable order sorted by NFC-normalized name. The stable ordering makes every
// downstream tie-break deterministic.
func (m *Matcher) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read directory %s", dir), err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), lockFilePrefix) {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Slice(names, func(i, j int) bool {
		return Normalize(names[i]) < Normalize(names[j])
	})

	return names, nil
}

// FindExact finds the file in dir whose name equals filename after both
// sides are NFC-normalized. Returns ErrNoMatch when nothing matches.
func (m *Matcher) FindExact(dir, filename string) (string, error) {
	names, err := m.ListFiles(dir)
	if err != nil {
		return "", err
	}

	want := Normalize(filename)
	for _, name := range names {
		if Normalize(name) == want {
			return filepath.Join(dir, name), nil
		}
	}

	return "", ErrNoMatch
}

// FindFuzzy finds the first file in dir whose NFC-normalized name contains
// both the logical key and the extension token. The extension comparison is
// case-insensitive. Fuzzy hits are logged at WARN with the full candidate
// list, since a substring can match an unintended file.
func (m *Matcher) FindFuzzy(dir, key, ext string) (string, error) {
	names, err := m.ListFiles(dir)
	if err != nil {
		return "", err
	}

	wantKey := Normalize(key)
	wantExt := strings.ToLower(Normalize(ext))

	var hits []string
	for _, name := range names {
		normalized := Normalize(name)
		if strings.Contains(normalized, wantKey) && strings.Contains(strings.ToLower(normalized), wantExt) {
			hits = append(hits, name)
		}
	}

	if len(hits) == 0 {
		return "", ErrNoMatch
	}

	m.logger.Warn("fuzzy filename match used",
		slog.String("dir", dir),
		slog.String("key", key),
		slog.String("ext", ext),
		slog.String("selected", hits[0]),
		slog.Any("candidates", hits))

	return filepath.Join(dir, hits[0]), nil
}

// Resolve tries the exact strategy first and falls back to fuzzy matching.
// filename is the expected exact name; key and ext drive the fallback.
func (m *Matcher) Resolve(dir, filename, key, ext string) (string, error) {
	path, err := m.FindExact(dir, filename)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, ErrNoMatch) {
		return "", err
	}
	return m.FindFuzzy(dir, key, ext)
}

// MatchSheet applies the file-matching policy to workbook sheet names:
// NFC-normalized equality first, then substring containment against the
// stable-sorted sheet list.
func (m *Matcher) MatchSheet(sheets []string, school string) (string, bool) {
	want := Normalize(school)

	for _, sheet := range sheets {
		if Normalize(sheet) == want {
			return sheet, true
		}
	}

	sorted := make([]string, len(sheets))
	copy(sorted, sheets)
	sort.Slice(sorted, func(i, j int) bool {
		return Normalize(sorted[i]) < Normalize(sorted[j])
	})
	for _, sheet := range sorted {
		if strings.Contains(Normalize(sheet), want) {
			m.logger.Warn("fuzzy sheet match used",
				slog.String("school", school),
				slog.String("selected", sheet))
			return sheet, true
		}
	}

	return "", false
}
