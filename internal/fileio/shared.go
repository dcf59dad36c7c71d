// Package fileio reads uploaded inventory files (CSV, XLSX, legacy XLS)
// into header-keyed row maps and maps those onto product records. Parsing
// is deliberately forgiving: exports from POS systems and hand-kept
// spreadsheets drift, so column resolution is fuzzy and bad rows are
// dropped by the record mapper, not the reader.
package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ReadAnyMaps picks a parser by file extension and returns rows as
// map[header]value. headerRow is 1-based.
func ReadAnyMaps(r io.Reader, filename string, headerRow int) ([]map[string]string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return readCSV(r, headerRow)
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

// headerFor returns the header row, substituting "column N" for blanks so
// every cell stays addressable.
func headerFor(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) {
		idx = 0
	}
	src := rows[idx]
	h := make([]string, len(src))
	for i, v := range src {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("column %d", i+1)
		}
		h[i] = v
	}
	return h
}

// rowsToMaps converts raw rows to header-keyed maps, starting right after
// the header row and skipping rows that are entirely blank.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	var out []map[string]string
	for r := headerRow; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c, h := range headers {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			m[h] = v
			if strings.TrimSpace(v) != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
