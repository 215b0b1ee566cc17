package output

import (
	"io"
	"log/slog"

	"github.com/entni-lin/vcf-filter/internal/errhandling"
	"github.com/entni-lin/vcf-filter/internal/logger"
	"github.com/entni-lin/vcf-filter/internal/vcf"
)

// VCFModule writes records to a VCF file or writer.
//
// When a pass tag other than PASS is configured, the header gains a ##FILTER
// declaration for it unless one is already present, so output written twice
// with the same tag carries a single declaration.
type VCFModule struct {
	name    string
	writer  *vcf.Writer
	passTag string
	count   int
}

// Option configures a VCFModule.
type Option func(*VCFModule)

// WithPassTag declares tag in the written header.
func WithPassTag(tag string) Option {
	return func(m *VCFModule) {
		m.passTag = tag
	}
}

// NewVCFFile creates (or truncates) the file at path. Paths ending in .gz are compressed.
func NewVCFFile(path string, opts ...Option) (*VCFModule, error) {
	w, err := vcf.Create(path)
	if err != nil {
		return nil, errhandling.NewIOError(path, "cannot create output", err)
	}
	logger.Debug("output created", slog.String("output", path))
	return newModule(path, w, opts), nil
}

// NewVCFWriter writes to w. The module does not close w.
func NewVCFWriter(name string, w io.Writer, opts ...Option) *VCFModule {
	return newModule(name, vcf.NewWriter(w), opts)
}

func newModule(name string, w *vcf.Writer, opts []Option) *VCFModule {
	m := &VCFModule{name: name, writer: w}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WriteHeader writes h, adding the pass tag declaration when needed.
// h is not modified.
func (m *VCFModule) WriteHeader(h *vcf.Header) error {
	out := *h
	out.Meta = append([]string(nil), h.Meta...)
	if m.passTag != "" && m.passTag != "PASS" {
		if out.EnsureFilter(m.passTag, "Record satisfies every filter criterion") {
			logger.Debug("filter declaration added to header", slog.String("tag", m.passTag))
		}
	}

	if err := m.writer.WriteHeader(&out); err != nil {
		return errhandling.NewIOError(m.name, "cannot write header", err)
	}
	return nil
}

// Write writes one record.
func (m *VCFModule) Write(rec *vcf.Record) error {
	if err := m.writer.Write(rec); err != nil {
		return errhandling.NewIOError(m.name, "cannot write record", err)
	}
	m.count++
	return nil
}

// Count returns the number of records written so far.
func (m *VCFModule) Count() int {
	return m.count
}

// Close flushes buffered records and closes the file, if the module created one.
func (m *VCFModule) Close() error {
	if err := m.writer.Close(); err != nil {
		return errhandling.NewIOError(m.name, "cannot close output", err)
	}
	return nil
}

// Discard accepts records and drops them. It backs dry runs.
type Discard struct {
	count int
}

// NewDiscard creates a Discard module.
func NewDiscard() *Discard {
	return &Discard{}
}

// WriteHeader drops the header.
func (d *Discard) WriteHeader(_ *vcf.Header) error {
	return nil
}

// Write counts and drops the record.
func (d *Discard) Write(_ *vcf.Record) error {
	d.count++
	return nil
}

// Count returns the number of records dropped.
func (d *Discard) Count() int {
	return d.count
}

// Close is a no-op.
func (d *Discard) Close() error {
	return nil
}

// Verify implementations
var _ Module = (*VCFModule)(nil)
var _ Module = (*Discard)(nil)
