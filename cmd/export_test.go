package cmd

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scoutdesk/output"
)

func TestDetectExportFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"players.csv":  "csv",
		"players.XLSX": "excel",
		"players.xlsm": "excel",
		"players.xls":  "excel",
		"players.out":  "csv",
		"players":      "csv",
	}
	for path, want := range tests {
		if got := detectExportFormat(path); got != want {
			t.Fatalf("detectExportFormat(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestWriteOutputFile_TemplateAndCleanup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "players.csv")
	if err := writeOutputFile(path, func(out io.Writer) error {
		return output.WriteTemplate(out, detectExportFormat(path))
	}); err != nil {
		t.Fatalf("write template: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	if !strings.HasPrefix(string(content), "firstName,lastName") {
		t.Fatalf("unexpected template content:\n%s", content)
	}

	failed := filepath.Join(dir, "failed.csv")
	writeErr := errors.New("boom")
	err = writeOutputFile(failed, func(io.Writer) error { return writeErr })
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}
	if _, err := os.Stat(failed); !os.IsNotExist(err) {
		t.Fatalf("expected partial file to be removed")
	}
}
