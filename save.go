package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Column names of exported records. They are the primary synonyms of
// DefaultSchema, so an export loads back into the same records.
const (
	headerYear      = "Year"
	headerHighlight = "Highlight"
)

// exportHeader is the column set every exporter writes, in order.
var exportHeader = []string{
	"ID",
	"Title",
	"Abstract",
	"Publication Date",
	"Publication URL",
	"Cover Image",
	"ISBN",
	"Author",
	"Slug",
	"Outlet",
	"Reference",
	headerYear,
	headerHighlight,
}

// recordFields renders r in exportHeader order.
func recordFields(r Record) []string {
	year := ""
	if r.Year != nil {
		year = strconv.Itoa(*r.Year)
	}
	return []string{
		r.ID,
		r.Title,
		r.Abstract,
		r.PublishedOn.String(),
		r.PublicationURL,
		r.CoverImage,
		r.ISBN,
		r.Author,
		r.Slug,
		r.Outlet,
		r.Reference,
		year,
		strconv.FormatBool(r.Highlight),
	}
}

// Dump writes records to w in the format and compression of opts.
func Dump(w io.Writer, records []Record, opts DumpOptions) (err error) {
	ec := NewErrorContext("dump", "").WithFormat(opts.Format.String() + opts.Compression.Extension())

	cw, closeCompression, err := newCompressWriter(w, opts.Compression)
	if err != nil {
		return ec.Error(err)
	}
	defer func() {
		if closeErr := closeCompression(); closeErr != nil && err == nil {
			err = ec.Error(closeErr)
		}
	}()

	switch opts.Format {
	case OutputFormatCSV:
		err = writeDelimited(cw, records, csvDelimiter)
	case OutputFormatTSV:
		err = writeDelimited(cw, records, tsvDelimiter)
	case OutputFormatXLSX:
		err = writeXLSX(cw, exportHeader, exportRows(records))
	case OutputFormatParquet:
		err = writeParquet(cw, records)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return ec.Error(err)
	}
	return nil
}

// DumpFile writes records to path. When path has no extension the one
// implied by opts is appended. The written path is returned.
func DumpFile(path string, records []Record, opts DumpOptions) (string, error) {
	if filepath.Ext(path) == "" {
		path += opts.FileExtension()
	}
	if err := newValidator().validateOutputPath(path); err != nil {
		return "", NewErrorContext("dump", path).Error(err)
	}

	f, err := os.Create(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return "", NewErrorContext("dump", path).Error(err)
	}
	if err := Dump(f, records, opts); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", NewErrorContext("dump", path).Error(err)
	}
	return path, nil
}

func exportRows(records []Record) [][]string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = recordFields(r)
	}
	return rows
}

// writeDelimited writes records with encoding/csv, which quotes fields
// exactly where Tokenize expects quotes.
func writeDelimited(w io.Writer, records []Record, delimiter rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delimiter

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range exportRows(records) {
		if delimiter == tsvDelimiter {
			row = flattenTabs(row)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// flattenTabs keeps TSV exports one field per cell for consumers that split
// on tabs without honouring quotes.
func flattenTabs(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.ReplaceAll(v, "\t", " ")
	}
	return out
}
