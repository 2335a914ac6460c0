package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"time"
)

// DefaultMaxSize is the largest decompressed source a Loader accepts.
const DefaultMaxSize = 32 << 20

// Source kinds reported in logs and metrics.
const (
	kindURL    = "url"
	kindFile   = "file"
	kindFS     = "fs"
	kindReader = "reader"
)

// Loader reads catalogs from files, URLs, fs.FS trees and readers.
// Use NewLoader to create a new instance, then chain method calls to
// configure it.
//
// The typical usage pattern is:
//
//	books, err := catalog.NewLoader().
//		WithLogger(logger).
//		WithDelimiter(';').
//		Load(ctx, "data/books.csv.gz")
//
// A Loader may be shared once configured; loads do not modify it.
type Loader struct {
	// client fetches http(s) sources
	client *http.Client
	// delimiter overrides delimiter detection for CSV text; 0 means detect
	delimiter rune
	// schema maps header names onto record fields
	schema Schema
	// logger receives load diagnostics
	logger *slog.Logger
	// metrics is optional
	metrics *Metrics
	// maxSize bounds the decompressed size of a source
	maxSize int64
}

// NewLoader creates a loader with the default schema, a 30 second HTTP
// client, delimiter detection and the default logger.
func NewLoader() *Loader {
	return &Loader{
		client:  &http.Client{Timeout: 30 * time.Second},
		schema:  DefaultSchema,
		maxSize: DefaultMaxSize,
	}
}

// WithHTTPClient sets the client used for http(s) sources.
func (l *Loader) WithHTTPClient(client *http.Client) *Loader {
	if client != nil {
		l.client = client
	}
	return l
}

// WithDelimiter forces the field delimiter of CSV sources. Passing 0
// restores delimiter detection. TSV sources always use a tab.
func (l *Loader) WithDelimiter(delimiter rune) *Loader {
	l.delimiter = delimiter
	return l
}

// WithSchema replaces the header synonyms used to project rows.
func (l *Loader) WithSchema(schema Schema) *Loader {
	if schema != nil {
		l.schema = schema
	}
	return l
}

// WithLogger sets the logger. A nil logger means slog.Default().
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	l.logger = logger
	return l
}

// WithMetrics records load statistics in m.
func (l *Loader) WithMetrics(m *Metrics) *Loader {
	l.metrics = m
	return l
}

// WithMaxSize bounds the decompressed size of a source. Values <= 0 restore
// DefaultMaxSize.
func (l *Loader) WithMaxSize(n int64) *Loader {
	if n <= 0 {
		n = DefaultMaxSize
	}
	l.maxSize = n
	return l
}

func (l *Loader) log() *slog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return slog.Default()
}

// Load reads a catalog from source, a local path or an http(s) URL. The
// format and compression follow the file extensions. URLs are fetched once,
// bypassing caches, and any non-2xx status is an error.
func (l *Loader) Load(ctx context.Context, source string) (cat *Catalog, err error) {
	if err := newValidator().validateSource(source); err != nil {
		return nil, NewErrorContext("load", source).Error(err)
	}

	if isURL(source) {
		start := time.Now()
		defer func() { l.metrics.observeLoad(kindURL, start, err) }()
		return l.loadURL(ctx, source)
	}

	start := time.Now()
	defer func() { l.metrics.observeLoad(kindFile, start, err) }()

	fileType, compression := DetectFileType(source)
	f, err := os.Open(source) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, NewErrorContext("load", source).Error(openError(err))
	}
	defer f.Close()

	return l.load(ctx, f, source, fileType, compression)
}

// LoadFS reads the catalog stored under name in fsys, typically an
// embed.FS bundled with the binary.
func (l *Loader) LoadFS(ctx context.Context, fsys fs.FS, name string) (cat *Catalog, err error) {
	start := time.Now()
	defer func() { l.metrics.observeLoad(kindFS, start, err) }()

	fileType, compression := DetectFileType(name)
	if fileType == FileTypeUnsupported {
		return nil, NewErrorContext("load", name).Error(ErrUnsupportedFormat)
	}

	f, err := fsys.Open(name)
	if err != nil {
		return nil, NewErrorContext("load", name).Error(openError(err))
	}
	defer f.Close()

	return l.load(ctx, f, name, fileType, compression)
}

// LoadReader reads a catalog from r. name only provides the catalog name,
// the format and compression are given explicitly.
func (l *Loader) LoadReader(ctx context.Context, r io.Reader, name string, fileType FileType, compression CompressionType) (cat *Catalog, err error) {
	start := time.Now()
	defer func() { l.metrics.observeLoad(kindReader, start, err) }()

	if err := newValidator().validateReader(r, fileType); err != nil {
		return nil, NewErrorContext("load", name).Error(err)
	}
	return l.load(ctx, r, name, fileType, compression)
}

// LoadOrEmpty loads source and, on failure, logs the error and returns an
// empty catalog. It suits pages that render nothing rather than fail.
func (l *Loader) LoadOrEmpty(ctx context.Context, source string) *Catalog {
	cat, err := l.Load(ctx, source)
	if err != nil {
		l.log().ErrorContext(ctx, "failed to load catalog", "source", source, "error", err)
		return Empty(catalogName(source))
	}
	return cat
}

func (l *Loader) loadURL(ctx context.Context, source string) (*Catalog, error) {
	ec := NewErrorContext("fetch", source)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, ec.Error(err)
	}
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, ec.Error(fmt.Errorf("%w: %w", ErrFetch, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ec.WithDetails(resp.Status).Error(fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode))
	}

	fileType, compression := DetectFileType(source)
	if fileType == FileTypeUnsupported {
		fileType = fileTypeFromContentType(resp.Header.Get("Content-Type"))
	}

	l.log().DebugContext(ctx, "fetched catalog", "source", source, "status", resp.StatusCode, "format", fileType.String())
	return l.load(ctx, resp.Body, source, fileType, compression)
}

// fileTypeFromContentType guesses the format of a URL without a known
// extension. Anything unrecognised is read as CSV.
func fileTypeFromContentType(contentType string) FileType {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return FileTypeCSV
	}
	switch mediaType {
	case "text/tab-separated-values":
		return FileTypeTSV
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return FileTypeXLSX
	case "application/vnd.apache.parquet", "application/x-parquet":
		return FileTypeParquet
	default:
		return FileTypeCSV
	}
}

// load decompresses, decodes and projects one source.
func (l *Loader) load(ctx context.Context, r io.Reader, source string, fileType FileType, compression CompressionType) (*Catalog, error) {
	ec := NewErrorContext("load", source).WithFormat(fileType.String() + compression.Extension())

	if err := ctx.Err(); err != nil {
		return nil, ec.Error(err)
	}

	reader, cleanup, err := newDecompressReader(r, compression)
	if err != nil {
		return nil, ec.Error(err)
	}
	defer func() {
		_ = cleanup() // Ignore cleanup error
	}()

	data, err := io.ReadAll(io.LimitReader(reader, l.maxSize+1))
	if err != nil {
		return nil, ec.Error(err)
	}
	if int64(len(data)) > l.maxSize {
		return nil, ec.WithDetails(fmt.Sprintf("limit %d bytes", l.maxSize)).Error(ErrTooLarge)
	}

	records, err := l.decode(ctx, data, source, fileType)
	if err != nil {
		return nil, ec.Error(err)
	}

	projected := l.schema.ProjectAll(rowsFromRecords(records))
	l.metrics.observeRecords(projected)

	cat := New(catalogName(source), projected)
	l.log().InfoContext(ctx, "catalog loaded",
		"source", source,
		"format", fileType.String(),
		"records", cat.Len(),
	)
	return cat, nil
}

// decode turns the raw bytes of one source into records of cells, header
// first.
func (l *Loader) decode(ctx context.Context, data []byte, source string, fileType FileType) ([][]string, error) {
	switch {
	case fileType.isText():
		text, transcoded := decodeText(data)
		if transcoded {
			l.metrics.observeTranscoded()
			l.log().WarnContext(ctx, "source is not UTF-8, decoded as Windows-1252", "source", source)
		}
		return Tokenize(text, l.textDelimiter(fileType, text)), nil

	case fileType == FileTypeXLSX:
		if len(data) == 0 {
			return nil, ErrEmptyData
		}
		return readXLSXRecords(data)

	case fileType == FileTypeParquet:
		if len(data) == 0 {
			return nil, ErrEmptyData
		}
		return readParquetRecords(ctx, data)

	default:
		return nil, ErrUnsupportedFormat
	}
}

func (l *Loader) textDelimiter(fileType FileType, text string) rune {
	switch {
	case fileType == FileTypeTSV:
		return tsvDelimiter
	case l.delimiter != 0:
		return l.delimiter
	default:
		return DetectDelimiter(text)
	}
}

// openError maps missing files onto ErrNotFound.
func openError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
