package catalog

import "strings"

// Field delimiters understood by the tokenizer and the delimiter detector.
const (
	// csvDelimiter is the delimiter for CSV files
	csvDelimiter = ','
	// tsvDelimiter is the delimiter for TSV files
	tsvDelimiter = '\t'
	// semicolonDelimiter is common in spreadsheets exported with a French locale
	semicolonDelimiter = ';'
	// pipeDelimiter is the last candidate tried by DetectDelimiter
	pipeDelimiter = '|'
)

// byteOrderMark is U+FEFF, which spreadsheet tools put at the start of
// UTF-8 exports.
const byteOrderMark = "\ufeff"

// Header is the resolved header row of a document. Every name is trimmed of
// surrounding whitespace.
type Header []string

// NewHeader creates a Header from raw header cells, trimming each cell.
// A byte order mark in front of the first cell is dropped as well.
func NewHeader(cells []string) Header {
	h := make(Header, len(cells))
	for i, c := range cells {
		if i == 0 {
			c = strings.TrimPrefix(c, byteOrderMark)
		}
		h[i] = strings.TrimSpace(c)
	}
	return h
}

// Index returns the position of name in the header, or -1 when absent.
// When a name occurs more than once the last occurrence wins.
func (h Header) Index(name string) int {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i] == name {
			return i
		}
	}
	return -1
}

// RawRow is one parsed data record viewed through the document header.
//
// A RawRow always exposes exactly the header key set: keys whose field is
// missing (short rows) read as the empty string. Fields beyond the header
// length are kept positionally and can only be reached through Fields.
type RawRow struct {
	header Header
	fields []string
}

// NewRawRow binds fields to header. Neither slice is copied.
func NewRawRow(header Header, fields []string) RawRow {
	return RawRow{header: header, fields: fields}
}

// Get returns the value stored under key, or "" when the key is unknown or
// the row is shorter than the header.
func (r RawRow) Get(key string) string {
	v, _ := r.Lookup(key)
	return v
}

// Lookup returns the value stored under key and whether key is part of the
// header at all.
func (r RawRow) Lookup(key string) (string, bool) {
	i := r.header.Index(key)
	if i < 0 {
		return "", false
	}
	if i >= len(r.fields) {
		return "", true
	}
	return r.fields[i], true
}

// Keys returns the header names in header order.
func (r RawRow) Keys() []string {
	keys := make([]string, len(r.header))
	copy(keys, r.header)
	return keys
}

// Fields returns the positional fields, including any extras past the header.
func (r RawRow) Fields() []string {
	fields := make([]string, len(r.fields))
	copy(fields, r.fields)
	return fields
}

// Len returns the number of keys, which is always the header length.
func (r RawRow) Len() int {
	return len(r.header)
}

// Map returns the row as a plain map. Duplicate header names resolve to the
// last occurrence.
func (r RawRow) Map() map[string]string {
	m := make(map[string]string, len(r.header))
	for _, key := range r.header {
		m[key] = r.Get(key)
	}
	return m
}

// isBlank reports whether every field is empty or whitespace only.
func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
