package catalog

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// FileType represents the container format of a catalog source
type FileType int

const (
	// FileTypeCSV represents CSV file type
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeXLSX represents Excel XLSX file type
	FileTypeXLSX
	// FileTypeParquet represents Parquet file type
	FileTypeParquet
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// File extensions
const (
	// extCSV is the CSV file extension
	extCSV = ".csv"
	// extTSV is the TSV file extension
	extTSV = ".tsv"
	// extXLSX is the Excel XLSX file extension
	extXLSX = ".xlsx"
	// extParquet is the Parquet file extension
	extParquet = ".parquet"
)

// String returns the string representation of FileType
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeXLSX:
		return "xlsx"
	case FileTypeParquet:
		return "parquet"
	default:
		return "unsupported"
	}
}

// Extension returns the file extension for the file type
func (ft FileType) Extension() string {
	switch ft {
	case FileTypeCSV:
		return extCSV
	case FileTypeTSV:
		return extTSV
	case FileTypeXLSX:
		return extXLSX
	case FileTypeParquet:
		return extParquet
	default:
		return ""
	}
}

// isText reports whether the format goes through the text tokenizer.
func (ft FileType) isText() bool {
	return ft == FileTypeCSV || ft == FileTypeTSV
}

// ParseFileType maps a name such as "csv" or ".xlsx" to a FileType.
func ParseFileType(name string) (FileType, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "csv":
		return FileTypeCSV, nil
	case "tsv":
		return FileTypeTSV, nil
	case "xlsx":
		return FileTypeXLSX, nil
	case "parquet":
		return FileTypeParquet, nil
	default:
		return FileTypeUnsupported, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// DetectFileType detects the file type and compression of a source from its
// name. For URLs only the path is considered, so query strings are ignored.
func DetectFileType(source string) (FileType, CompressionType) {
	name := sourcePath(source)
	compression := DetectCompressionType(name)
	base := strings.ToLower(removeCompressionExtension(name))

	switch path.Ext(base) {
	case extCSV:
		return FileTypeCSV, compression
	case extTSV:
		return FileTypeTSV, compression
	case extXLSX:
		return FileTypeXLSX, compression
	case extParquet:
		return FileTypeParquet, compression
	default:
		return FileTypeUnsupported, compression
	}
}

// isURL reports whether source names an http or https resource.
func isURL(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// sourcePath returns the path component of a URL, or source itself.
func sourcePath(source string) string {
	if isURL(source) {
		if u, err := url.Parse(source); err == nil {
			return u.Path
		}
	}
	return filepath.ToSlash(source)
}

// catalogName creates a catalog name from a source path or URL by dropping
// the directory and every known extension: "data/books.csv.gz" is "books".
func catalogName(source string) string {
	name := path.Base(sourcePath(source))
	if name == "." || name == "/" {
		return ""
	}
	name = removeCompressionExtension(name)
	return strings.TrimSuffix(name, path.Ext(name))
}
