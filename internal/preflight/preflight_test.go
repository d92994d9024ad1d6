package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"segstats/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func writeStubAnalyzer(t *testing.T, dir, output string) string {
	t.Helper()
	path := filepath.Join(dir, "animaSegPerfAnalyzer")
	script := "#!/bin/sh\necho \"" + output + "\"\nexit 0\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub analyzer: %v", err)
	}
	return path
}

func TestCheckAnalyzer_OK(t *testing.T) {
	binDir := t.TempDir()
	writeStubAnalyzer(t, binDir, "SegPerfAnalyzer 4.2")

	result := CheckAnalyzer(context.Background(), config.Anima{BinariesDir: binDir}, "animaSegPerfAnalyzer")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "SegPerfAnalyzer 4.2") {
		t.Fatalf("expected version in detail, got: %s", result.Detail)
	}
}

func TestCheckAnalyzer_MissingBinary(t *testing.T) {
	result := CheckAnalyzer(context.Background(), config.Anima{BinariesDir: t.TempDir()}, "animaSegPerfAnalyzer")
	if result.Passed {
		t.Fatal("expected failure for missing binary")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckAnalyzer_MissingRegistration(t *testing.T) {
	cfg := config.Anima{ConfigPath: filepath.Join(t.TempDir(), "absent.txt")}
	result := CheckAnalyzer(context.Background(), cfg, "animaSegPerfAnalyzer")
	if result.Passed {
		t.Fatal("expected failure for missing registration file")
	}
}

func TestCheckResultsStore_OK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	result := CheckResultsStore(path)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	binDir := t.TempDir()
	writeStubAnalyzer(t, binDir, "SegPerfAnalyzer 4.2")

	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Anima.BinariesDir = binDir
	cfg.Results.Enabled = true
	cfg.Results.Path = filepath.Join(t.TempDir(), "results.db")

	results := RunAll(context.Background(), &cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestRunAll_SkipsResultsWhenDisabled(t *testing.T) {
	binDir := t.TempDir()
	writeStubAnalyzer(t, binDir, "SegPerfAnalyzer 4.2")

	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Anima.BinariesDir = binDir
	cfg.Results.Enabled = false

	results := RunAll(context.Background(), &cfg)
	for _, r := range results {
		if r.Name == "Results store" {
			t.Fatal("expected results store check to be skipped")
		}
	}
}
