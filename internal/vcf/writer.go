package vcf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Writer writes a header followed by records.
type Writer struct {
	bw            *bufio.Writer
	headerWritten bool
	closers       []io.Closer
}

// NewWriter returns a Writer on w. The caller keeps ownership of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, 64*1024)}
}

// Create creates (or truncates) the file at path. Paths ending in ".gz"
// are gzip-compressed.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		w := NewWriter(f)
		w.closers = []io.Closer{f}
		return w, nil
	}

	gz := gzip.NewWriter(f)
	w := NewWriter(gz)
	w.closers = []io.Closer{gz, f}
	return w, nil
}

// WriteHeader writes every header line. It must be called once, before any record.
func (w *Writer) WriteHeader(h *Header) error {
	if w.headerWritten {
		return errors.New("header already written")
	}
	for _, line := range h.Lines() {
		if err := w.writeLine(line); err != nil {
			return err
		}
	}
	w.headerWritten = true
	return nil
}

// Write writes one record.
func (w *Writer) Write(rec *Record) error {
	if !w.headerWritten {
		return errors.New("record written before header")
	}
	return w.writeLine(rec.String())
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Close flushes and releases the compressor and any file opened by Create.
func (w *Writer) Close() error {
	errs := []error{w.bw.Flush()}
	for _, c := range w.closers {
		errs = append(errs, c.Close())
	}
	w.closers = nil
	return errors.Join(errs...)
}

func (w *Writer) writeLine(line string) error {
	if _, err := w.bw.WriteString(line); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}
