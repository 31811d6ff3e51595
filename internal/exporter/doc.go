// Package exporter produces downloadable artifacts from the unified
// datasets.
//
// CSV output is prefixed with a UTF-8 byte-order mark so spreadsheet
// applications detect the encoding of the Hangul school names correctly.
// Growth data can be exported as a workbook with one sheet per school plus a
// combined sheet, mirroring the shape of the source workbook.
package exporter
