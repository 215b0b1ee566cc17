package cli

import (
	"fmt"
	"sort"

	"github.com/entni-lin/vcf-filter/internal/logger"
	"github.com/entni-lin/vcf-filter/pkg/connector"
)

// OutputOptions configures CLI output behavior.
type OutputOptions struct {
	Verbose bool
	Quiet   bool
	DryRun  bool
}

// PrintExecutionResult displays the result of a filtering run.
func PrintExecutionResult(result *connector.ExecutionResult, err error, opts OutputOptions) {
	if result == nil {
		fmt.Fprintln(Stderr, "✗ No execution result available")
		return
	}

	if err != nil {
		fmt.Fprintln(Stderr, "✗ Filtering failed")
		if result.Error != nil {
			fmt.Fprintf(Stderr, "  Module: %s\n", result.Error.Module)
			fmt.Fprintf(Stderr, "  Error: %s\n", result.Error.Message)
			if idx, ok := result.Error.Details["recordIndex"]; ok && result.RecordsProcessed > 0 {
				fmt.Fprintf(Stderr, "  After record: %v\n", idx)
			}
		} else {
			fmt.Fprintf(Stderr, "  Error: %v\n", err)
		}
		return
	}

	if opts.Quiet {
		return
	}

	if opts.DryRun {
		fmt.Fprintln(Stdout, "✓ Dry run completed (no output written)")
	} else {
		fmt.Fprintln(Stdout, "✓ Filtering completed")
	}

	duration := result.CompletedAt.Sub(result.StartedAt)
	var rate float64
	if result.RecordsProcessed > 0 && duration > 0 {
		rate = float64(result.RecordsProcessed) / duration.Seconds()
	}
	fmt.Fprintf(Stdout, "  %s\n", logger.FormatMetricsHuman(logger.RunMetrics{
		TotalDuration:    duration,
		RecordsProcessed: result.RecordsProcessed,
		RecordsAccepted:  result.RecordsAccepted,
		RecordsRejected:  result.RecordsRejected,
		RecordsPerSecond: rate,
	}))

	if opts.Verbose {
		fmt.Fprintf(Stdout, "  Run ID: %s\n", result.RunID)
	}
}

// PrintCriteriaSummary lists the conditions of a criteria document, sorted by field.
func PrintCriteriaSummary(criteria map[string]string) {
	if len(criteria) == 0 {
		fmt.Fprintln(Stdout, "  No conditions: every record is accepted")
		return
	}

	fields := make([]string, 0, len(criteria))
	for field := range criteria {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	fmt.Fprintf(Stdout, "  Conditions (%d):\n", len(fields))
	for _, field := range fields {
		fmt.Fprintf(Stdout, "    %s %s\n", field, criteria[field])
	}
}
