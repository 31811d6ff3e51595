// Package files resolves logical names (school names, data categories) to
// actual files and workbook sheets on disk.
//
// The same visible filename can be encoded in composed (NFC) or decomposed
// (NFD) Unicode form depending on the filesystem that created it, which is
// common for Hangul names copied between macOS and other systems. All
// comparisons here normalize both sides to NFC first, so a byte-level
// mismatch never hides an existing file.
//
// Two strategies are provided, in order of strictness:
//
//  1. FindExact: NFC-normalized byte equality of the full filename.
//  2. FindFuzzy: the normalized name must contain both the logical key and
//     the extension token. This tolerates duplicated extensions such as
//     ".csv.csv" and stray prefixes or suffixes around the key.
//
// Spreadsheet lock files ("~$" prefix) are never candidates. A missing
// directory is reported as a storage error, distinct from ErrNoMatch.
package files
