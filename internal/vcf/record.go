// Package vcf reads and writes Variant Call Format text streams.
//
// Records keep the line they were read from. A record whose status tags were
// not replaced is written back byte for byte; only the FILTER column of an
// accepted record is rewritten.
package vcf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/entni-lin/vcf-filter/pkg/connector"
)

// Fixed column indexes of a data line.
const (
	colChrom = iota
	colPos
	colID
	colRef
	colAlt
	colQual
	colFilter
	colInfo

	// minColumns is the number of mandatory columns.
	minColumns = colInfo + 1
)

// MissingValue is the VCF placeholder for an absent value.
const MissingValue = "."

// Record is one data line of a VCF stream.
type Record struct {
	raw     string
	eol     string
	columns []string
	pos     int64

	info     map[string]connector.FieldValue
	infoDone bool
	modified bool
}

// ParseRecord parses a data line. The line must not include its newline.
func ParseRecord(line string) (*Record, error) {
	raw := line
	eol := ""
	if strings.HasSuffix(line, "\r") {
		line = strings.TrimSuffix(line, "\r")
		eol = "\r"
	}

	columns := strings.Split(line, "\t")
	if len(columns) < minColumns {
		return nil, fmt.Errorf("expected at least %d tab-separated columns, got %d", minColumns, len(columns))
	}

	pos, err := strconv.ParseInt(columns[colPos], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid POS %q", columns[colPos])
	}

	return &Record{
		raw:     raw,
		eol:     eol,
		columns: columns,
		pos:     pos,
	}, nil
}

// Chrom returns the CHROM column.
func (r *Record) Chrom() string { return r.columns[colChrom] }

// Pos returns the POS column.
func (r *Record) Pos() int64 { return r.pos }

// ID returns the ID column.
func (r *Record) ID() string { return r.columns[colID] }

// Location implements connector.Locator.
func (r *Record) Location() (string, int64) {
	return r.Chrom(), r.pos
}

// Lookup resolves an INFO field. A key given as KEY=a,b resolves to a
// sequence, KEY=a to a scalar, KEY=. to missing and a bare flag KEY to the
// scalar "1". Keys are case-sensitive.
func (r *Record) Lookup(field string) connector.FieldValue {
	if !r.infoDone {
		r.info = parseInfo(r.columns[colInfo])
		r.infoDone = true
	}
	v, ok := r.info[field]
	if !ok {
		return connector.Missing()
	}
	return v
}

// StatusTags returns the FILTER column split on ';'. A missing FILTER (".")
// has no tags.
func (r *Record) StatusTags() []string {
	filter := r.columns[colFilter]
	if filter == "" || filter == MissingValue {
		return nil
	}
	return strings.Split(filter, ";")
}

// ReplaceStatusTags clears the FILTER column and sets it to tag.
func (r *Record) ReplaceStatusTags(tag string) {
	if r.columns[colFilter] == tag {
		return
	}
	r.columns[colFilter] = tag
	r.modified = true
}

// Modified reports whether the record differs from the line it was read from.
func (r *Record) Modified() bool { return r.modified }

// String returns the record as a data line, without newline.
func (r *Record) String() string {
	if !r.modified {
		return r.raw
	}
	return strings.Join(r.columns, "\t") + r.eol
}

func parseInfo(column string) map[string]connector.FieldValue {
	info := make(map[string]connector.FieldValue)
	if column == "" || column == MissingValue {
		return info
	}

	for _, entry := range strings.Split(column, ";") {
		if entry == "" {
			continue
		}
		key, value, hasValue := strings.Cut(entry, "=")
		if _, seen := info[key]; seen {
			continue
		}
		switch {
		case !hasValue:
			info[key] = connector.Scalar("1")
		case value == MissingValue:
			info[key] = connector.Missing()
		case strings.Contains(value, ","):
			info[key] = connector.Sequence(strings.Split(value, ","))
		default:
			info[key] = connector.Scalar(value)
		}
	}
	return info
}

var _ connector.Record = (*Record)(nil)
var _ connector.Locator = (*Record)(nil)
