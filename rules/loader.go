package rules

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load reads the rule source at path and returns the rules in row order.
// CSV and XLSX sources are supported; the format is picked by extension.
func Load(path string) ([]Rule, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &RuleSourceNotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to stat rule source %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx", ".xlsm":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported rule source format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

func loadCSV(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule source: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are tolerated, cells default to ""
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule source %s: %w", path, err)
	}

	return fromRows(records)
}

func loadXLSX(path string) ([]Rule, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("rule workbook %s has no sheets", path)
	}

	// Rules live on the first sheet, same convention as the CSV layout.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rule sheet %q: %w", sheets[0], err)
	}

	return fromRows(rows)
}

// fromRows converts a header row plus data rows into rules. Header casing is
// normalized before validation so "Rule_ID" and "rule_id" are equivalent.
func fromRows(rows [][]string) ([]Rule, error) {
	if len(rows) == 0 {
		return nil, &MissingRuleColumnsError{Missing: missingColumns(nil)}
	}

	headers := rows[0]
	if missing := missingColumns(headers); len(missing) > 0 {
		return nil, &MissingRuleColumnsError{Missing: missing}
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	var loaded []Rule
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}

		rule := Rule{
			ID:             strings.TrimSpace(cell(row, ColRuleID)),
			Description:    strings.TrimSpace(cell(row, ColDescription)),
			FieldsRequired: splitFields(cell(row, ColFieldsRequired)),
			Formula:        strings.TrimSpace(cell(row, ColFormula)),
			MessageOnFail:  strings.TrimSpace(cell(row, ColMessageOnFail)),
		}
		if rule.MessageOnFail == "" {
			rule.MessageOnFail = DefaultFailMessage
		}

		loaded = append(loaded, rule)
	}

	return loaded, nil
}

// blankRow reports whether every cell is empty. Spreadsheet exports often
// carry trailing empty rows.
func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
