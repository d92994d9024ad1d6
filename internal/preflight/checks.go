package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"segstats/internal/anima"
	"segstats/internal/config"
	"segstats/internal/results"
	"segstats/internal/segperf"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckAnalyzer verifies that the Anima analyzer binary resolves and answers
// a version probe. It uses a 30-second timeout and a single attempt.
func CheckAnalyzer(ctx context.Context, animaCfg config.Anima, binaryName string) Result {
	const name = "Anima analyzer"

	binary, err := anima.ResolveBinary(animaCfg.BinariesDir, animaCfg.ConfigPath, binaryName)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	analyzer, err := segperf.New(binary)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	version, err := analyzer.Version(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: version probe failed: %v)", binary, err)}
	}
	if line := firstLine(version); line != "" {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", binary, line)}
	}
	return Result{Name: name, Passed: true, Detail: binary}
}

// CheckResultsStore verifies that the run-history database can be opened.
func CheckResultsStore(path string) Result {
	const name = "Results store"

	store, err := results.Open(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if err := store.Close(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: close: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", path)}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
