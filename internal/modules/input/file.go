package input

import (
	"context"
	"io"
	"log/slog"

	"github.com/entni-lin/vcf-filter/internal/errhandling"
	"github.com/entni-lin/vcf-filter/internal/logger"
	"github.com/entni-lin/vcf-filter/internal/vcf"
)

// VCFModule streams records from a VCF file or reader.
type VCFModule struct {
	name   string
	reader *vcf.Reader
	count  int
}

// NewVCFFile opens the VCF file at path (plain or gzip) and reads its header.
func NewVCFFile(path string) (*VCFModule, error) {
	rd, err := vcf.Open(path)
	if err != nil {
		return nil, errhandling.NewIOError(path, "cannot open input", err)
	}

	logger.Debug("input opened",
		slog.String("input", path),
		slog.String("file_format", rd.Header().FileFormat()),
		slog.Int("header_lines", len(rd.Header().Meta)),
	)
	return &VCFModule{name: path, reader: rd}, nil
}

// NewVCFReader reads the header from r. The module does not close r.
func NewVCFReader(name string, r io.Reader) (*VCFModule, error) {
	rd, err := vcf.NewReader(r)
	if err != nil {
		return nil, errhandling.NewIOError(name, "cannot read input", err)
	}
	return &VCFModule{name: name, reader: rd}, nil
}

// Header returns the stream header.
func (m *VCFModule) Header() *vcf.Header {
	return m.reader.Header()
}

// Next returns the next record, or io.EOF once the input is exhausted.
func (m *VCFModule) Next(ctx context.Context) (*vcf.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, err := m.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errhandling.NewIOError(m.name, "cannot read record", err)
	}
	m.count++
	return rec, nil
}

// Count returns the number of records read so far.
func (m *VCFModule) Count() int {
	return m.count
}

// Close releases the underlying file, if the module opened one.
func (m *VCFModule) Close() error {
	return m.reader.Close()
}

// Verify VCFModule implements Module
var _ Module = (*VCFModule)(nil)
