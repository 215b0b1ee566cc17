// Package factory provides module creation functions for the filter runtime.
// It centralizes the logic for instantiating the input, filter, and output
// modules of a run from paths, the criteria document and runtime settings.
package factory

import (
	"fmt"

	"github.com/entni-lin/vcf-filter/internal/config"
	"github.com/entni-lin/vcf-filter/internal/errhandling"
	"github.com/entni-lin/vcf-filter/internal/modules/filter"
	"github.com/entni-lin/vcf-filter/internal/modules/input"
	"github.com/entni-lin/vcf-filter/internal/modules/output"
)

// CreateInputModule opens the VCF file at path.
func CreateInputModule(path string) (input.Module, error) {
	if path == "" {
		return nil, errhandling.NewIOError("", "input path is empty", nil)
	}
	m, err := input.NewVCFFile(path)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// CreateOutputModule creates the VCF file at path. In dry-run mode nothing is
// created and a module discarding every record is returned instead.
func CreateOutputModule(path, passTag string, dryRun bool) (output.Module, error) {
	if dryRun {
		return output.NewDiscard(), nil
	}
	if path == "" {
		return nil, errhandling.NewIOError("", "output path is empty", nil)
	}
	m, err := output.NewVCFFile(path, output.WithPassTag(passTag))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// CreateFilterModule compiles the criteria of a parsed document into an
// evaluator. Missing-field diagnostics are logged for diagnosticFields; a nil
// list keeps filter.DefaultDiagnosticFields and an empty one disables them.
func CreateFilterModule(result *config.Result, diagnosticFields []string) (*filter.Evaluator, error) {
	if result == nil {
		return nil, errhandling.NewConfigError("no criteria document", errhandling.ErrConfigParse)
	}
	if len(result.ParseErrors) > 0 {
		return nil, errhandling.NewConfigError(
			fmt.Sprintf("criteria document has %d parse error(s): %v", len(result.ParseErrors), result.ParseErrors[0]),
			errhandling.ErrConfigParse,
		)
	}
	if len(result.ValidationErrors) > 0 {
		return nil, errhandling.NewConfigError(
			fmt.Sprintf("criteria document has %d validation error(s): %v", len(result.ValidationErrors), result.ValidationErrors[0]),
			errhandling.ErrConfigInvalid,
		)
	}
	return CreateEvaluator(result.Criteria(), diagnosticFields)
}

// CreateEvaluator compiles raw criteria and wires the logging diagnostic reporter.
func CreateEvaluator(criteria map[string]string, diagnosticFields []string) (*filter.Evaluator, error) {
	rules, err := filter.CompileCriteria(criteria)
	if err != nil {
		return nil, err
	}

	opts := []filter.EvaluatorOption{filter.WithMissingFieldReporter(filter.LogMissingField)}
	if diagnosticFields != nil {
		opts = append(opts, filter.WithDiagnosticFields(diagnosticFields...))
	}
	return filter.NewEvaluator(rules, opts...), nil
}
