// Package cli provides CLI output formatting and display functions.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/entni-lin/vcf-filter/internal/config"
)

// Output streams. Results go to Stdout; errors and hints go to Stderr.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// PrintParseErrors prints parse errors to stderr.
func PrintParseErrors(errors []config.ParseError, verbose bool) {
	fmt.Fprintln(Stderr, "✗ Parse errors:")
	for _, err := range errors {
		printSingleParseError(err, verbose)
	}
}

// printSingleParseError prints a single parse error with location information.
func printSingleParseError(err config.ParseError, verbose bool) {
	location := formatErrorLocation(err.Path, err.Line, err.Column)

	if location != "" {
		fmt.Fprintf(Stderr, "  %s: %s\n", location, err.Message)
	} else {
		fmt.Fprintf(Stderr, "  %s\n", err.Message)
	}

	if verbose && err.Type != "" {
		fmt.Fprintf(Stderr, "    Type: %s\n", err.Type)
	}
}

// formatErrorLocation formats the error location string (path:line:column).
func formatErrorLocation(path string, line, column int) string {
	if path == "" {
		return ""
	}

	location := path
	if line > 0 {
		location += fmt.Sprintf(":%d", line)
		if column > 0 {
			location += fmt.Sprintf(":%d", column)
		}
	}
	return location
}

// PrintValidationErrors prints validation errors to stderr.
func PrintValidationErrors(errors []config.ValidationError, verbose, quiet bool) {
	fmt.Fprintln(Stderr, "✗ Validation errors:")
	for _, err := range errors {
		printSingleValidationError(err, verbose)
	}
	printValidationHint(verbose, quiet)
}

func printSingleValidationError(err config.ValidationError, verbose bool) {
	path := err.Path
	if path == "" {
		path = "/"
	}

	if verbose {
		fmt.Fprintf(Stderr, "  %s:\n", path)
		fmt.Fprintf(Stderr, "    Message: %s\n", err.Message)
		if err.Type != "" {
			fmt.Fprintf(Stderr, "    Type: %s\n", err.Type)
		}
		return
	}

	shortMsg := err.Message
	if len(shortMsg) > 80 {
		shortMsg = shortMsg[:77] + "..."
	}
	fmt.Fprintf(Stderr, "  %s: %s\n", path, shortMsg)
}

func printValidationHint(verbose, quiet bool) {
	if !verbose && !quiet {
		fmt.Fprintln(Stderr, "")
		fmt.Fprintln(Stderr, "Hint: Use --verbose for detailed error information")
	}
}

// PrintError prints a fatal error that is not tied to a criteria document.
func PrintError(context string, err error) {
	fmt.Fprintf(Stderr, "✗ %s: %v\n", context, err)
}
