package vcf

import (
	"fmt"
	"strings"
)

const (
	metaPrefix   = "##"
	columnPrefix = "#CHROM"
	filterPrefix = "##FILTER=<"
)

// Header holds the meta-information lines and the column header line.
// Lines are stored without their newline.
type Header struct {
	Meta    []string
	Columns string
}

// FileFormat returns the value of the ##fileformat line, or "" if absent.
func (h *Header) FileFormat() string {
	for _, line := range h.Meta {
		if v, ok := strings.CutPrefix(line, "##fileformat="); ok {
			return strings.TrimRight(v, "\r")
		}
	}
	return ""
}

// HasFilter reports whether a ##FILTER line declares id.
func (h *Header) HasFilter(id string) bool {
	if id == "" {
		return false
	}
	for _, line := range h.Meta {
		if filterID(line) == id {
			return true
		}
	}
	return false
}

// EnsureFilter appends a ##FILTER declaration for id unless one exists.
// It reports whether the header changed.
func (h *Header) EnsureFilter(id, description string) bool {
	if h.HasFilter(id) {
		return false
	}
	h.Meta = append(h.Meta, fmt.Sprintf(`##FILTER=<ID=%s,Description="%s">`, id, description))
	return true
}

// Lines returns every header line in output order.
func (h *Header) Lines() []string {
	lines := make([]string, 0, len(h.Meta)+1)
	lines = append(lines, h.Meta...)
	if h.Columns != "" {
		lines = append(lines, h.Columns)
	}
	return lines
}

// filterID extracts the ID of a ##FILTER=<ID=...> line, or "" for other lines.
func filterID(line string) string {
	body, ok := strings.CutPrefix(line, filterPrefix)
	if !ok {
		return ""
	}
	for _, part := range strings.Split(strings.TrimRight(body, ">\r"), ",") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(part), "ID="); ok {
			return v
		}
	}
	return ""
}
