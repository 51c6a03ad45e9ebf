// Package testutil provides golden file testing utilities.
package testutil

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

var update = flag.Bool("update", false, "update golden files")

// CompareGoldenSlice compares the actual string slice with the golden file content.
// The golden file holds a JSON array of strings, one element per line.
// If the -update flag is provided, it rewrites the golden file with the actual output.
func CompareGoldenSlice(t *testing.T, goldenPath string, actual []string) {
	t.Helper()

	if *update {
		updateGoldenSlice(t, goldenPath, actual)
		return
	}

	expected := readGoldenSlice(t, goldenPath)
	if !slices.Equal(actual, expected) {
		t.Errorf("Golden file mismatch for %s\nExpected: %q\nActual:   %q", goldenPath, expected, actual)
	}
}

// readGoldenSlice reads a JSON array from a golden file and returns it as a string slice.
func readGoldenSlice(t *testing.T, goldenPath string) []string {
	t.Helper()

	content, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("Failed to read golden file %s: %v", goldenPath, err)
	}

	var result []string
	if err := json.Unmarshal(content, &result); err != nil {
		t.Fatalf("Failed to parse JSON from golden file %s: %v", goldenPath, err)
	}

	return result
}

// updateGoldenSlice writes the slice as an indented JSON array without HTML escaping.
func updateGoldenSlice(t *testing.T, goldenPath string, actual []string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", goldenPath, err)
	}

	f, err := os.Create(goldenPath)
	if err != nil {
		t.Fatalf("Failed to create golden file %s: %v", goldenPath, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(actual); err != nil {
		t.Fatalf("Failed to update golden file %s: %v", goldenPath, err)
	}
	t.Logf("Updated golden file: %s", goldenPath)
}
