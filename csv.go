package catalog

import "strings"

// Tokenize splits text into records and fields using delimiter.
//
// The scanner has two states. Outside quotes a '"' enters quoted mode, the
// delimiter ends the current field, '\r' is dropped and '\n' ends both the
// field and the record. Inside quotes a doubled quote yields one literal
// quote, a single quote leaves quoted mode and every other character,
// newlines and delimiters included, is kept verbatim.
//
// Tokenize never fails. An unterminated quote runs to the end of input and
// a quote in the middle of an unquoted field simply toggles quoted mode. The
// last field and record are flushed even without a trailing newline, so the
// result always holds at least one record.
func Tokenize(text string, delimiter rune) [][]string {
	var (
		records  [][]string
		record   []string
		field    strings.Builder
		inQuotes bool
	)

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if inQuotes {
			if c != '"' {
				field.WriteRune(c)
				continue
			}
			if i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
				continue
			}
			inQuotes = false
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case delimiter:
			record = append(record, field.String())
			field.Reset()
		case '\r':
		case '\n':
			record = append(record, field.String())
			field.Reset()
			records = append(records, record)
			record = nil
		default:
			field.WriteRune(c)
		}
	}

	record = append(record, field.String())
	records = append(records, record)
	return records
}

// Parse parses comma-delimited text into rows keyed by the trimmed header.
//
// The first record is the header. Data records whose fields are all empty
// or whitespace are dropped; every other record yields exactly one RawRow.
func Parse(text string) []RawRow {
	return ParseDelimited(text, csvDelimiter)
}

// ParseDelimited is Parse with an explicit field delimiter.
func ParseDelimited(text string, delimiter rune) []RawRow {
	return rowsFromRecords(Tokenize(text, delimiter))
}

// rowsFromRecords resolves the header from the first record and binds the
// remaining non-blank records to it. Spreadsheet and parquet sources share
// this path with the text tokenizer.
func rowsFromRecords(records [][]string) []RawRow {
	if len(records) == 0 {
		return nil
	}

	header := NewHeader(records[0])
	rows := make([]RawRow, 0, len(records)-1)
	for _, fields := range records[1:] {
		if len(fields) == 0 || isBlank(fields) {
			continue
		}
		rows = append(rows, NewRawRow(header, fields))
	}
	return rows
}
