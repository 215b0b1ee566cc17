// Package connector provides public types and interfaces for the vcf-filter runtime.
// This package is intended to be importable by external projects that need
// to feed records through the criteria evaluator without the bundled VCF codec.
package connector

import "time"

// ValueKind discriminates the cases of a FieldValue.
type ValueKind int

const (
	// KindMissing means the field is absent from the record (or explicitly ".").
	KindMissing ValueKind = iota
	// KindScalar means the field holds a single value.
	KindScalar
	// KindSequence means the field holds one value per element (e.g. per alternate allele).
	KindSequence
)

// String returns the lower-case name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	default:
		return "missing"
	}
}

// FieldValue is the value a record holds for one field.
// Values are kept as text; numeric interpretation happens at comparison time.
type FieldValue struct {
	Kind   ValueKind
	Scalar string
	Items  []string
}

// Missing returns the FieldValue for an absent field.
func Missing() FieldValue {
	return FieldValue{Kind: KindMissing}
}

// Scalar returns a single-valued FieldValue.
func Scalar(v string) FieldValue {
	return FieldValue{Kind: KindScalar, Scalar: v}
}

// Sequence returns a multi-valued FieldValue. The slice is not copied.
func Sequence(items []string) FieldValue {
	return FieldValue{Kind: KindSequence, Items: items}
}

// IsMissing reports whether the field is absent.
func (v FieldValue) IsMissing() bool {
	return v.Kind == KindMissing
}

// Record is the view of a variant record consumed by the evaluator.
//
// Lookup resolves a field from the record's attribute/annotation store.
// StatusTags returns the current status-tag collection (nil or empty when the
// record carries none). ReplaceStatusTags clears every tag and adds the given one.
type Record interface {
	Lookup(field string) FieldValue
	StatusTags() []string
	ReplaceStatusTags(tag string)
}

// Locator is implemented by records that can describe their position,
// used to give diagnostics a location.
type Locator interface {
	Location() (chrom string, pos int64)
}

// ExecutionResult represents the result of one filtering run.
type ExecutionResult struct {
	// RunID uniquely identifies the run in logs
	RunID string `json:"runId"`

	// Status is the run status ("success", "error")
	Status string `json:"status"`

	// StartedAt is when the run started
	StartedAt time.Time `json:"startedAt"`

	// CompletedAt is when the run completed
	CompletedAt time.Time `json:"completedAt"`

	// RecordsProcessed is the number of records read from the input
	RecordsProcessed int `json:"recordsProcessed"`

	// RecordsAccepted is the number of records that satisfied every condition
	RecordsAccepted int `json:"recordsAccepted"`

	// RecordsRejected is the number of records written unchanged
	RecordsRejected int `json:"recordsRejected"`

	// DryRun is true when no output was written
	DryRun bool `json:"dryRun,omitempty"`

	// Error contains error details if the run failed
	Error *ExecutionError `json:"error,omitempty"`
}

// ExecutionError contains details about a run failure.
type ExecutionError struct {
	// Code is the error code
	Code string `json:"code"`

	// Message is the human-readable error message
	Message string `json:"message"`

	// Module is the module where the error occurred
	Module string `json:"module,omitempty"`

	// Details contains additional error context
	Details map[string]interface{} `json:"details,omitempty"`
}
