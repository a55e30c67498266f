// Package report persists or renders run results as JSON.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/maxipay/txvalidator/orchestrator"
)

// DefaultPrefix is the filename prefix used when none is configured.
const DefaultPrefix = "validations"

// timestampLayout produces filenames like validations_20260823_141530.json.
const timestampLayout = "20060102_150405"

// Render writes the result to w as pretty-printed JSON. HTML escaping is off
// so agent names and messages keep their literal characters.
func Render(w io.Writer, result orchestrator.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

// Save writes the result to <dir>/<prefix>_<UTC timestamp>.json, creating
// dir if needed, and returns the full path of the written file.
func Save(result orchestrator.RunResult, dir, prefix string) (string, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, result); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.json", prefix, time.Now().UTC().Format(timestampLayout))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write results file: %w", err)
	}
	return path, nil
}
