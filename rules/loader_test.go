package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeRuleFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such-rules.csv"))
	if err == nil {
		t.Fatal("Load() should fail for a missing path")
	}

	var notFound *RuleSourceNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Load() error = %T, want *RuleSourceNotFoundError", err)
	}
	if notFound.Path == "" {
		t.Error("RuleSourceNotFoundError should carry the offending path")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeRuleFile(t, "rules.txt", "rule_id\nR1\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should reject unknown extensions")
	}
}

func TestLoadMissingColumns(t *testing.T) {
	testCases := []struct {
		name    string
		header  string
		missing []string
	}{
		{
			"no formula or message",
			"rule_id,description,fields_required",
			[]string{"formula", "message_on_fail"},
		},
		{
			"only formula present",
			"formula",
			[]string{"description", "fields_required", "message_on_fail", "rule_id"},
		},
		{
			"single column absent",
			"rule_id,description,fields_required,message_on_fail",
			[]string{"formula"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRuleFile(t, "rules.csv", tc.header+"\n")

			_, err := Load(path)
			var missing *MissingRuleColumnsError
			if !errors.As(err, &missing) {
				t.Fatalf("Load() error = %v, want *MissingRuleColumnsError", err)
			}

			got := append([]string(nil), missing.Missing...)
			sort.Strings(got)
			if !reflect.DeepEqual(got, tc.missing) {
				t.Errorf("missing columns = %v, want %v", got, tc.missing)
			}
		})
	}
}

func TestLoadCaseInsensitiveHeaders(t *testing.T) {
	path := writeRuleFile(t, "rules.csv",
		"Rule_ID,DESCRIPTION,Fields_Required,Formula,Message_On_Fail\n"+
			"R1,fee check,\"fee_total,fee_maxi\",fee_total >= fee_maxi,fee_total too low\n")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Load() returned %d rules, want 1", len(loaded))
	}
	if loaded[0].ID != "R1" {
		t.Errorf("rule ID = %q, want %q", loaded[0].ID, "R1")
	}
}

func TestLoadPreservesRowOrder(t *testing.T) {
	path := writeRuleFile(t, "rules.csv",
		"rule_id,description,fields_required,formula,message_on_fail\n"+
			"R3,third,fee_total,fee_total > 0,m3\n"+
			"R1,first,fee_total,fee_total > 1,m1\n"+
			"R2,second,fee_total,fee_total > 2,m2\n")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []string{"R3", "R1", "R2"}
	for i, r := range loaded {
		if r.ID != want[i] {
			t.Errorf("rule[%d].ID = %q, want %q", i, r.ID, want[i])
		}
	}
}

func TestLoadFieldsRequiredParsing(t *testing.T) {
	testCases := []struct {
		name string
		cell string
		want []string
	}{
		{"trimmed names", `"fee_total, fee_maxi ,origen"`, []string{"fee_total", "fee_maxi", "origen"}},
		{"single field", "fee_total", []string{"fee_total"}},
		// Trailing commas produce empty names; they are preserved, not
		// filtered, and degrade to null at context-building time.
		{"trailing comma kept", `"fee_total,"`, []string{"fee_total", ""}},
		{"empty cell", "", []string{""}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRuleFile(t, "rules.csv",
				"rule_id,description,fields_required,formula,message_on_fail\n"+
					"R1,d,"+tc.cell+",true,m\n")

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			if !reflect.DeepEqual(loaded[0].FieldsRequired, tc.want) {
				t.Errorf("FieldsRequired = %#v, want %#v", loaded[0].FieldsRequired, tc.want)
			}
		})
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"rule_id", "description", "fields_required", "formula", "message_on_fail"},
		{"R1", "fee floor", "fee_total,fee_maxi", "fee_total >= fee_maxi", "fee_total too low"},
		// The message_on_fail cell is left unset: workbook readers drop
		// trailing empty cells, so this row comes back shorter than the
		// header and must still default the message.
		{"R2", "positive fee", "fee_total,", "fee_total > 0"},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			t.Fatalf("failed to fill sheet row %d: %v", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []Rule{
		{
			ID:             "R1",
			Description:    "fee floor",
			FieldsRequired: []string{"fee_total", "fee_maxi"},
			Formula:        "fee_total >= fee_maxi",
			MessageOnFail:  "fee_total too low",
		},
		{
			ID:             "R2",
			Description:    "positive fee",
			FieldsRequired: []string{"fee_total", ""},
			Formula:        "fee_total > 0",
			MessageOnFail:  DefaultFailMessage,
		},
	}
	if !reflect.DeepEqual(loaded, want) {
		t.Errorf("Load() = %#v, want %#v", loaded, want)
	}
}

func TestLoadDefaultFailMessage(t *testing.T) {
	path := writeRuleFile(t, "rules.csv",
		"rule_id,description,fields_required,formula,message_on_fail\n"+
			"R1,d,fee_total,fee_total > 0,\n"+
			"R2,d,fee_total,fee_total > 0,custom message\n")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded[0].MessageOnFail != DefaultFailMessage {
		t.Errorf("blank message_on_fail = %q, want default %q", loaded[0].MessageOnFail, DefaultFailMessage)
	}
	if loaded[1].MessageOnFail != "custom message" {
		t.Errorf("message_on_fail = %q, want %q", loaded[1].MessageOnFail, "custom message")
	}
}

func TestLoadSkipsBlankRows(t *testing.T) {
	path := writeRuleFile(t, "rules.csv",
		"rule_id,description,fields_required,formula,message_on_fail\n"+
			"R1,d,fee_total,fee_total > 0,m\n"+
			",,,,\n")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("Load() returned %d rules, want 1 (blank row skipped)", len(loaded))
	}
}
