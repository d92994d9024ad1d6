// Package anima locates the Anima toolbox binaries on the local machine.
//
// Anima installations register themselves in ~/.anima/config.txt, a small
// key = value file whose "anima" key points at the directory holding the
// compiled tools. This package reads that registration so callers can invoke
// binaries such as animaSegPerfAnalyzer without hard-coded paths.
package anima

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"segstats/internal/config"
)

// DefaultConfigPath returns the conventional Anima registration file path.
func DefaultConfigPath() (string, error) {
	return config.ExpandPath("~/.anima/config.txt")
}

// BinariesDir reads the Anima registration file and returns the expanded
// binaries directory recorded under the "anima" key. An empty configPath
// falls back to DefaultConfigPath.
func BinariesDir(configPath string) (string, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		resolved, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = resolved
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open anima config %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		if strings.TrimSpace(key) != "anima" {
			continue
		}
		dir := strings.TrimSpace(value)
		if dir == "" {
			return "", fmt.Errorf("anima config %s: empty anima directory", path)
		}
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return "", fmt.Errorf("anima config %s: %w", path, err)
		}
		return expanded, nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read anima config %s: %w", path, err)
	}
	return "", fmt.Errorf("anima config %s: %w", path, ErrKeyMissing)
}

// ErrKeyMissing indicates the registration file has no "anima" entry.
var ErrKeyMissing = errors.New(`no "anima" key found`)

// ResolveBinary locates the named Anima tool. An explicit binariesDir wins;
// otherwise the directory comes from the registration file at configPath.
// The returned path is verified to be an executable file.
func ResolveBinary(binariesDir, configPath, name string) (string, error) {
	dir := strings.TrimSpace(binariesDir)
	if dir == "" {
		resolved, err := BinariesDir(configPath)
		if err != nil {
			return "", err
		}
		dir = resolved
	}

	binary := filepath.Join(dir, name)
	if _, err := exec.LookPath(binary); err != nil {
		return "", fmt.Errorf("locate anima binary: %w", err)
	}
	return binary, nil
}
