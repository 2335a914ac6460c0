package catalog

import (
	"fmt"
	"strings"
)

// OutputFormat represents the output file format
type OutputFormat int

const (
	// OutputFormatCSV represents CSV output format
	OutputFormatCSV OutputFormat = iota
	// OutputFormatTSV represents TSV output format
	OutputFormatTSV
	// OutputFormatXLSX represents Excel XLSX output format
	OutputFormatXLSX
	// OutputFormatParquet represents Parquet output format
	OutputFormatParquet
)

// String returns the string representation of OutputFormat
func (f OutputFormat) String() string {
	switch f {
	case OutputFormatTSV:
		return "tsv"
	case OutputFormatXLSX:
		return "xlsx"
	case OutputFormatParquet:
		return "parquet"
	default:
		return "csv"
	}
}

// Extension returns the file extension for the format
func (f OutputFormat) Extension() string {
	switch f {
	case OutputFormatTSV:
		return extTSV
	case OutputFormatXLSX:
		return extXLSX
	case OutputFormatParquet:
		return extParquet
	default:
		return extCSV
	}
}

// ParseOutputFormat maps a name such as "tsv" to an OutputFormat.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "csv":
		return OutputFormatCSV, nil
	case "tsv":
		return OutputFormatTSV, nil
	case "xlsx":
		return OutputFormatXLSX, nil
	case "parquet":
		return OutputFormatParquet, nil
	default:
		return OutputFormatCSV, fmt.Errorf("%w: output format %q", ErrUnsupportedFormat, name)
	}
}

// DumpOptions configures how records are exported.
//
// Example:
//
//	options := NewDumpOptions().
//		WithFormat(OutputFormatTSV).
//		WithCompression(CompressionGZ)
//
//	err := DumpFile("books", records, options)
type DumpOptions struct {
	// Format specifies the output file format
	Format OutputFormat
	// Compression specifies the compression type
	Compression CompressionType
}

// NewDumpOptions creates default export options (CSV, no compression).
func NewDumpOptions() DumpOptions {
	return DumpOptions{
		Format:      OutputFormatCSV,
		Compression: CompressionNone,
	}
}

// WithFormat sets the output file format.
func (o DumpOptions) WithFormat(format OutputFormat) DumpOptions {
	o.Format = format
	return o
}

// WithCompression adds compression to the output.
//
// Options:
//   - CompressionNone: No compression (default)
//   - CompressionGZ: Gzip compression (.gz)
//   - CompressionXZ: XZ compression (.xz)
//   - CompressionZSTD: Zstandard compression (.zst)
//
// CompressionBZ2 is accepted here but rejected by Dump.
func (o DumpOptions) WithCompression(compression CompressionType) DumpOptions {
	o.Compression = compression
	return o
}

// FileExtension returns the complete file extension including compression
func (o DumpOptions) FileExtension() string {
	return o.Format.Extension() + o.Compression.Extension()
}

// OptionsForPath infers dump options from the extensions of path.
func OptionsForPath(path string) (DumpOptions, error) {
	fileType, compression := DetectFileType(path)
	opts := NewDumpOptions().WithCompression(compression)
	switch fileType {
	case FileTypeCSV:
		return opts.WithFormat(OutputFormatCSV), nil
	case FileTypeTSV:
		return opts.WithFormat(OutputFormatTSV), nil
	case FileTypeXLSX:
		return opts.WithFormat(OutputFormatXLSX), nil
	case FileTypeParquet:
		return opts.WithFormat(OutputFormatParquet), nil
	default:
		return opts, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
