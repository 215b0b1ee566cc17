// Package filter provides the criteria filter module.
// This file evaluates a compiled RuleSet against individual records.
package filter

import (
	"log/slog"
	"strings"

	"github.com/entni-lin/vcf-filter/internal/errhandling"
	"github.com/entni-lin/vcf-filter/internal/logger"
	"github.com/entni-lin/vcf-filter/pkg/connector"
)

// AllFields is the diagnostic field wildcard: report misses on every field.
const AllFields = "*"

// DefaultDiagnosticFields are the fields whose absence is reported by default.
var DefaultDiagnosticFields = []string{"TLOD", "DP"}

// MissingField describes a condition that failed because the record lacks the field.
type MissingField struct {
	Field  string
	Record connector.Record
}

// Err describes the miss as a resolution error.
func (m MissingField) Err() error {
	return errhandling.NewResolutionError(m.Field, "not present on record")
}

// MissingFieldReporter receives missing-field diagnostics. Reporters are
// advisory only; they cannot change the evaluation outcome.
type MissingFieldReporter func(MissingField)

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithMissingFieldReporter sets the diagnostic reporter. A nil reporter
// disables diagnostics.
func WithMissingFieldReporter(reporter MissingFieldReporter) EvaluatorOption {
	return func(e *Evaluator) {
		e.reporter = reporter
	}
}

// WithDiagnosticFields replaces the set of fields whose absence is reported.
// Names match case-insensitively; AllFields widens reporting to every field.
func WithDiagnosticFields(fields ...string) EvaluatorOption {
	return func(e *Evaluator) {
		e.diagnosticFields = make(map[string]bool, len(fields))
		e.diagnoseAll = false
		for _, f := range fields {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if f == AllFields {
				e.diagnoseAll = true
				continue
			}
			e.diagnosticFields[strings.ToUpper(f)] = true
		}
	}
}

// Evaluator decides whether records satisfy every condition of a RuleSet.
// It holds no per-record state.
type Evaluator struct {
	rules            *RuleSet
	reporter         MissingFieldReporter
	diagnosticFields map[string]bool
	diagnoseAll      bool
}

// NewEvaluator creates an evaluator for rules. By default misses on
// DefaultDiagnosticFields are reported, but no reporter is installed.
func NewEvaluator(rules *RuleSet, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{rules: rules}
	WithDiagnosticFields(DefaultDiagnosticFields...)(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the RuleSet the evaluator applies.
func (e *Evaluator) Rules() *RuleSet {
	return e.rules
}

// Accept implements Module. It reports whether record satisfies every condition.
func (e *Evaluator) Accept(record connector.Record) bool {
	if e.rules == nil {
		return true
	}
	for _, cond := range e.rules.conditions {
		if !e.satisfies(record, cond) {
			return false
		}
	}
	return true
}

// Passes reports whether record satisfies every condition in rules.
// An empty RuleSet accepts every record.
func Passes(record connector.Record, rules *RuleSet) bool {
	return NewEvaluator(rules).Accept(record)
}

func (e *Evaluator) satisfies(record connector.Record, cond Condition) bool {
	if cond.IsStatusTag() {
		return matchStatusTags(record.StatusTags(), cond)
	}

	value := record.Lookup(cond.Field)
	switch value.Kind {
	case connector.KindScalar:
		return cond.matches(value.Scalar)
	case connector.KindSequence:
		for _, item := range value.Items {
			if cond.matches(item) {
				return true
			}
		}
		return false
	default:
		e.reportMissing(record, cond.Field)
		return false
	}
}

// matchStatusTags checks membership of the operand among the record's tags.
// With a single tag this is exact string equality.
func matchStatusTags(tags []string, cond Condition) bool {
	for _, tag := range tags {
		if tag == cond.Operand {
			return true
		}
	}
	return false
}

func (e *Evaluator) reportMissing(record connector.Record, field string) {
	if e.reporter == nil {
		return
	}
	if !e.diagnoseAll && !e.diagnosticFields[strings.ToUpper(field)] {
		return
	}
	e.reporter(MissingField{Field: field, Record: record})
}

// LogMissingField is a MissingFieldReporter that writes a warning through the
// runtime logger.
func LogMissingField(m MissingField) {
	attrs := []any{
		slog.String("field", m.Field),
		slog.String("error", m.Err().Error()),
	}
	if loc, ok := m.Record.(connector.Locator); ok {
		chrom, pos := loc.Location()
		attrs = append(attrs, slog.String("chrom", chrom), slog.Int64("pos", pos))
	}
	logger.Warn("field missing on record; condition not met", attrs...)
}
