package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ResolveBinaryPath finds a binary, checking common locations
func ResolveBinaryPath(binaryPath string) string {
	// If it's an absolute path, use it directly
	if filepath.IsAbs(binaryPath) {
		return binaryPath
	}

	// Check if it's in PATH
	if path, err := exec.LookPath(binaryPath); err == nil {
		return path
	}

	// Handle tilde prefix
	if strings.HasPrefix(binaryPath, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, binaryPath[1:])
		}
	}

	// Check common locations
	home, err := os.UserHomeDir()
	if err == nil {
		commonPaths := []string{
			filepath.Join(home, ".claude", "local", binaryPath),
			filepath.Join("/usr/local/bin", binaryPath),
			filepath.Join("/opt/homebrew/bin", binaryPath),
		}

		for _, p := range commonPaths {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	// Return original, will fail with helpful error later
	return binaryPath
}

// BinaryNotFoundError returns a helpful error message when the model CLI
// binary cannot be located
func BinaryNotFoundError(name string) error {
	return fmt.Errorf(`%s not found in PATH

To fix, install the CLI or add its location to your PATH.

Alternatively, set the full path in .stepflow/config.yaml:
  llm:
    binary: /path/to/%s`, name, name)
}

// FileExists checks if a file exists at the given path
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
