// Package output provides implementations for output modules.
// Output modules are responsible for writing records to a destination.
package output

import "github.com/entni-lin/vcf-filter/internal/vcf"

// Module represents an output module that writes records to a destination.
type Module interface {
	// WriteHeader writes the stream header. It is called once, before any record.
	WriteHeader(h *vcf.Header) error
	// Write writes one record.
	Write(rec *vcf.Record) error
	// Close flushes pending data and releases any resources held by the module.
	Close() error
}
