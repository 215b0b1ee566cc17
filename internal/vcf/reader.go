package vcf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// ErrMissingColumnHeader is returned when a stream has no #CHROM line before its data.
var ErrMissingColumnHeader = errors.New("missing #CHROM column header line")

// SyntaxError reports a malformed line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Reader reads a VCF stream: the header eagerly, records one at a time.
type Reader struct {
	br      *bufio.Reader
	header  *Header
	line    int
	closers []io.Closer
}

// NewReader reads the header from r. Gzip input is detected from its magic
// bytes and decompressed. The caller keeps ownership of r.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	rd := &Reader{br: br}
	magic, err := br.Peek(len(gzipMagic))
	if err == nil && bytes.Equal(magic, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		rd.br = bufio.NewReaderSize(gz, 64*1024)
		rd.closers = append(rd.closers, gz)
	}

	if err := rd.readHeader(); err != nil {
		_ = rd.Close()
		return nil, err
	}
	return rd, nil
}

// Open opens the VCF file at path. The returned reader owns the file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rd, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	rd.closers = append(rd.closers, f)
	return rd, nil
}

// Header returns the stream header.
func (r *Reader) Header() *Header {
	return r.header
}

// Read returns the next record, or io.EOF after the last one.
// Blank lines are skipped.
func (r *Reader) Read() (*Record, error) {
	for {
		line, err := r.next()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, perr := ParseRecord(line)
		if perr != nil {
			return nil, &SyntaxError{Line: r.line, Msg: perr.Error()}
		}
		return rec, nil
	}
}

// Close releases the decompressor and any file opened by Open.
func (r *Reader) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

func (r *Reader) readHeader() error {
	h := &Header{}
	for {
		line, err := r.next()
		if err == io.EOF {
			return ErrMissingColumnHeader
		}
		if err != nil {
			return err
		}

		switch {
		case strings.HasPrefix(line, metaPrefix):
			h.Meta = append(h.Meta, line)
			continue
		case strings.HasPrefix(line, columnPrefix):
			h.Columns = line
		case strings.TrimSpace(line) == "":
			continue
		default:
			return &SyntaxError{Line: r.line, Msg: ErrMissingColumnHeader.Error()}
		}
		break
	}
	r.header = h
	return nil
}

// next returns the next line without its trailing newline.
func (r *Reader) next() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	r.line++
	return strings.TrimSuffix(line, "\n"), nil
}
