// Package filter provides the criteria filter module.
// Filter modules decide, record by record, whether a record is accepted.
package filter

import "github.com/entni-lin/vcf-filter/pkg/connector"

// Module represents a filter module that decides record acceptance.
type Module interface {
	// Accept reports whether the record satisfies the filter.
	// It must not mutate the record; the caller applies the acceptance mark.
	Accept(record connector.Record) bool
}

// Verify Evaluator implements Module
var _ Module = (*Evaluator)(nil)
