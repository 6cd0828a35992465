package dataset

import (
	"strings"
	"time"
)

// Record is one lead/opportunity entry: a mapping from field name to the cell's
// raw string value. Absent fields read as empty string. Records have no
// identity beyond positional order; duplicates are legal.
type Record map[string]string

// Get returns the raw value of a field, empty string when absent.
func (r Record) Get(field string) string {
	return r[field]
}

// Has reports whether the field holds a non-blank value.
func (r Record) Has(field string) bool {
	return strings.TrimSpace(r[field]) != ""
}

// Snapshot is an immutable view of one fetch cycle: the header list and the
// ordered record sequence, installed atomically together. Version is a
// monotonic token issued per refresh attempt; a snapshot with a higher
// version always supersedes a lower one.
type Snapshot struct {
	Headers   []string
	Records   []Record
	Version   int64
	FetchedAt time.Time
	Source    string
}

// HeaderWindow returns headers[start:end) clamped to the available range.
func (s *Snapshot) HeaderWindow(start, end int) []string {
	if s == nil || start < 0 {
		return nil
	}
	if start > len(s.Headers) {
		start = len(s.Headers)
	}
	if end > len(s.Headers) {
		end = len(s.Headers)
	}
	if end <= start {
		return nil
	}
	return s.Headers[start:end]
}
