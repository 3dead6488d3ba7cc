package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadCSV reads a comma-separated file with a header row.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV parses CSV with a header row. Short rows are padded with empty
// cells and long rows are truncated to the header width. Column types are
// decided once: a column is numeric only when all its non-empty cells are,
// otherwise every cell keeps its raw text.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv: missing header row")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var records [][]string
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cells := make([]string, len(header))
		for i := range cells {
			if i < len(rec) {
				cells[i] = strings.TrimSpace(rec[i])
			}
		}
		records = append(records, cells)
	}

	numeric := make([]bool, len(header))
	for i := range header {
		numeric[i] = numericColumn(records, i)
	}

	t := empty(header)
	t.rows = make([][]Value, len(records))
	for r, rec := range records {
		cells := make([]Value, len(rec))
		for i, raw := range rec {
			if numeric[i] && raw != "" {
				cells[i] = Parse(raw)
			} else {
				cells[i] = Text(raw)
			}
		}
		t.rows[r] = cells
	}
	return t, nil
}

// numericColumn reports whether every non-empty cell of column i is a finite
// number or a boolean literal. A column of empty cells is text.
func numericColumn(records [][]string, i int) bool {
	seen := false
	for _, rec := range records {
		if rec[i] == "" {
			continue
		}
		if !Parse(rec[i]).isNum {
			return false
		}
		seen = true
	}
	return seen
}
