// Package pathutil provides shared path validation helpers.
package pathutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateFilePath rejects paths that cannot name a file: empty paths and
// paths containing null bytes.
func ValidateFilePath(filePath string) error {
	if strings.TrimSpace(filePath) == "" {
		return fmt.Errorf("file path cannot be empty")
	}
	if strings.Contains(filePath, "\x00") {
		return fmt.Errorf("file path contains invalid characters")
	}
	return nil
}

// ValidateDistinct returns an error when output names the same file as input.
// Both paths are cleaned and made absolute before comparison, so
// "data/in.vcf" and "./data/../data/in.vcf" are the same file.
func ValidateDistinct(input, output string) error {
	in, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("resolving input path %q: %w", input, err)
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolving output path %q: %w", output, err)
	}
	if in == out {
		return fmt.Errorf("output %q would overwrite input %q", output, input)
	}
	return nil
}
