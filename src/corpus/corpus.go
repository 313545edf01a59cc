// Package corpus reads and writes the labeled case corpus. The on-disk
// format is CSV with required columns id, error_text, error_family and
// fix_text; row order is insertion order.
package corpus

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"debugassist/src/contracts"
)

// Required CSV columns, in canonical write order.
var requiredColumns = []string{"id", "error_text", "error_family", "fix_text"}

// LoadCSV reads the corpus file. A missing file or a missing required
// column is a fatal precondition; the error says which file and what is
// wrong so callers can surface remediation steps.
func LoadCSV(path string) ([]contracts.Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus file not found at %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse corpus CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("corpus CSV %s is empty, expected a header row", path)
	}

	header := records[0]
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("corpus CSV %s is missing required column %q (need %v)", path, col, requiredColumns)
		}
	}

	seen := make(map[string]struct{}, len(records)-1)
	cases := make([]contracts.Case, 0, len(records)-1)
	for rowNum, rec := range records[1:] {
		get := func(col string) string {
			idx := colIndex[col]
			if idx >= len(rec) {
				return ""
			}
			return rec[idx]
		}

		id := get("id")
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("corpus CSV %s row %d: duplicate id %q", path, rowNum+2, id)
		}
		seen[id] = struct{}{}

		family, err := contracts.ParseFamily(get("error_family"))
		if err != nil {
			return nil, fmt.Errorf("corpus CSV %s row %d: %w", path, rowNum+2, err)
		}

		cases = append(cases, contracts.Case{
			ID:          id,
			ErrorText:   get("error_text"),
			ErrorFamily: family,
			FixText:     get("fix_text"),
		})
	}

	return cases, nil
}

// SaveCSV writes the corpus to path, creating parent directories as needed.
func SaveCSV(path string, cases []contracts.Case) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create corpus directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create corpus CSV %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(requiredColumns); err != nil {
		return fmt.Errorf("failed to write corpus header: %w", err)
	}
	for _, c := range cases {
		row := []string{c.ID, c.ErrorText, string(c.ErrorFamily), c.FixText}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write corpus row %s: %w", c.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush corpus CSV: %w", err)
	}
	return nil
}
