// Package rules loads validation rule definitions from tabular sources.
// Rules are authored externally (spreadsheets exported by business users),
// so the loader validates the shape of the file but treats formula text as
// opaque: it is parsed and sandboxed later by the formula package.
package rules

import (
	"fmt"
	"sort"
	"strings"
)

// Required column headers, matched case-insensitively.
const (
	ColRuleID         = "rule_id"
	ColDescription    = "description"
	ColFieldsRequired = "fields_required"
	ColFormula        = "formula"
	ColMessageOnFail  = "message_on_fail"
)

// DefaultFailMessage is used when a rule row leaves message_on_fail blank.
const DefaultFailMessage = "validation failed"

var requiredColumns = []string{
	ColRuleID,
	ColDescription,
	ColFieldsRequired,
	ColFormula,
	ColMessageOnFail,
}

// Rule is one externally-authored validation rule. Slice order follows row
// order in the source file and is the evaluation order.
type Rule struct {
	ID             string
	Description    string
	FieldsRequired []string
	Formula        string
	MessageOnFail  string
}

// RuleSourceNotFoundError reports a rule file path that does not exist.
type RuleSourceNotFoundError struct {
	Path string
	Err  error
}

func (e *RuleSourceNotFoundError) Error() string {
	return fmt.Sprintf("rule source not found at %s", e.Path)
}

func (e *RuleSourceNotFoundError) Unwrap() error { return e.Err }

// MissingRuleColumnsError reports which required headers are absent from the
// rule source. Missing is sorted.
type MissingRuleColumnsError struct {
	Missing []string
}

func (e *MissingRuleColumnsError) Error() string {
	return fmt.Sprintf("rule source is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// missingColumns computes the set difference between the required headers
// and the normalized headers present in the source.
func missingColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.ToLower(strings.TrimSpace(h))] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)
	return missing
}

// splitFields parses a comma-separated fields_required cell. Each name is
// trimmed; empty names (for example from a trailing comma) are preserved and
// resolve to null at context-building time.
func splitFields(raw string) []string {
	parts := strings.Split(raw, ",")
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}
	return fields
}
