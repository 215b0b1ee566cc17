// Package input provides implementations for input modules.
// Input modules are responsible for streaming records from a source.
package input

import (
	"context"

	"github.com/entni-lin/vcf-filter/internal/vcf"
)

// Module represents an input module that streams records from a source.
type Module interface {
	// Header returns the stream header, read when the module was opened.
	Header() *vcf.Header
	// Next returns the next record, or io.EOF once the source is exhausted.
	// The context is checked before every record.
	Next(ctx context.Context) (*vcf.Record, error)
	// Close releases any resources held by the module.
	Close() error
}
