// Command catalog loads a book or publication catalog from a CSV, TSV, XLSX
// or Parquet source and prints, exports or queries it.
//
// Usage:
//
//	catalog [options] SOURCE
//	catalog --config pages/books.yaml --featured 5
//	catalog --year 2021 --group data/publications.csv
//	catalog --export books.parquet.zst https://example.org/data/books.csv
//	catalog --sql "SELECT year, COUNT(*) FROM books GROUP BY year" books.csv
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/etourpe/catalog"
	"github.com/etourpe/catalog/config"
	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	Config      string        `short:"c" long:"config" env:"CATALOG_CONFIG" description:"Page configuration file (YAML)"`
	Delimiter   string        `short:"d" long:"delimiter" description:"Field delimiter: , ; | or tab (default: detect)"`
	Year        int           `short:"y" long:"year" description:"Only records of this year"`
	Query       string        `short:"q" long:"query" description:"Only records whose title, outlet or reference contains this text"`
	FoldAccents bool          `long:"fold-accents" description:"Ignore accents when matching --query"`
	Group       bool          `short:"g" long:"group" description:"Group records by year"`
	Featured    int           `short:"f" long:"featured" description:"Print the featured selection of N records"`
	Excerpt     int           `short:"x" long:"excerpt" description:"Print abstracts shortened to N characters"`
	Format      string        `short:"o" long:"format" default:"text" choice:"text" choice:"json" choice:"yaml" description:"Output format"`
	Export      string        `short:"e" long:"export" description:"Write the records to FILE; the format follows the extension"`
	SQL         string        `long:"sql" description:"Run a SQL query against the catalog table"`
	Timeout     time.Duration `long:"timeout" env:"CATALOG_TIMEOUT" default:"30s" description:"Fetch timeout"`
	LogLevel    string        `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Log level: debug, info, warn, error"`
	LogFormat   string        `long:"log-format" env:"LOG_FORMAT" default:"text" description:"Log format: text, json"`
	Version     bool          `short:"v" long:"version" description:"Print version and exit"`

	Args struct {
		Source string `positional-arg-name:"SOURCE" description:"Local path or http(s) URL"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if opts == nil {
		return 0 // help was shown
	}
	if opts.Version {
		fmt.Fprintln(stdout, "catalog", Version)
		return 0
	}

	setupLogging(stderr, opts.LogLevel, opts.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, stdout); err != nil {
		slog.Error("catalog failed", "error", err)
		return 1
	}
	return 0
}

func parseOptions(args []string) (*options, error) {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse options: %w", err)
	}
	if !opts.Version && opts.Args.Source == "" && opts.Config == "" {
		return nil, errors.New("a SOURCE or --config is required")
	}
	return &opts, nil
}

// setupLogging configures the default slog logger
func setupLogging(w io.Writer, level, format string) {
	handlerOpts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLoader builds the loader and resolves the source from the options and
// the optional page configuration. page is nil without --config.
func newLoader(opts *options) (loader *catalog.Loader, source string, page *config.PageConfig, err error) {
	loader = catalog.NewLoader()
	source = opts.Args.Source

	if opts.Config != "" {
		page, err = config.LoadFile(opts.Config)
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to load %s: %w", opts.Config, err)
		}
		loader = page.NewLoader()
		if source == "" {
			source = page.ResolveSource(opts.Config)
		}
		slog.Debug("using page configuration", "page", page.Page.Name, "source", source)
	} else {
		loader = loader.WithHTTPClient(newHTTPClient(opts.Timeout))
	}

	if opts.Delimiter != "" {
		d, err := config.ParseDelimiter(opts.Delimiter)
		if err != nil {
			return nil, "", nil, err
		}
		loader = loader.WithDelimiter(d)
	}
	return loader.WithLogger(slog.Default()), source, page, nil
}

// view is how the loaded records are presented.
type view struct {
	featured int
	group    bool
	excerpt  int
}

// newView merges the command line with the page configuration. Flags win.
// Without --featured, --group, --year or --query a publications page is
// grouped by year and a books page shows its featured selection.
func newView(opts *options, page *config.PageConfig) view {
	v := view{featured: opts.Featured, group: opts.Group, excerpt: opts.Excerpt}
	if page == nil {
		return v
	}

	if v.excerpt == 0 {
		v.excerpt = page.Settings.Excerpt
	}
	if v.featured > 0 || v.group || opts.Year != 0 || opts.Query != "" {
		return v
	}
	switch page.Page.Kind {
	case config.KindPublications:
		v.group = true
	case config.KindBooks:
		v.featured = page.Settings.Featured
	}
	return v
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func run(ctx context.Context, opts *options, stdout io.Writer) error {
	loader, source, page, err := newLoader(opts)
	if err != nil {
		return err
	}
	v := newView(opts, page)

	if info, err := os.Stat(source); err == nil && info.IsDir() {
		return runBundle(ctx, loader, source, opts, v, stdout)
	}

	cat, err := loader.Load(ctx, source)
	if err != nil {
		return err
	}

	if opts.Export != "" {
		dumpOpts, err := catalog.OptionsForPath(opts.Export)
		if err != nil {
			return err
		}
		path, err := catalog.DumpFile(opts.Export, cat.Filter(filterFrom(opts)), dumpOpts)
		if err != nil {
			return err
		}
		slog.Info("catalog exported", "path", path, "format", dumpOpts.Format.String())
		return nil
	}

	if opts.SQL != "" {
		db, err := cat.OpenDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		return runQuery(ctx, db, opts.SQL, stdout)
	}

	switch {
	case v.featured > 0:
		return render(stdout, opts.Format, cat.Featured(v.featured), v.excerpt)
	case v.group:
		return renderGroups(stdout, opts.Format, cat.Groups(filterFrom(opts)), v.excerpt)
	default:
		return render(stdout, opts.Format, cat.Filter(filterFrom(opts)), v.excerpt)
	}
}

// runBundle handles a directory source: every catalog below it is loaded,
// queried together with --sql or printed one after the other.
func runBundle(ctx context.Context, loader *catalog.Loader, dir string, opts *options, v view, stdout io.Writer) error {
	bundle, err := loader.LoadDir(ctx, dir)
	if err != nil {
		return err
	}

	if opts.SQL != "" {
		db, err := bundle.OpenDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		return runQuery(ctx, db, opts.SQL, stdout)
	}

	f := filterFrom(opts)
	switch opts.Format {
	case "json", "yaml":
		all := make(map[string][]catalog.Record, bundle.Len())
		for _, name := range bundle.Names() {
			cat, _ := bundle.Get(name)
			all[name] = cat.Filter(f)
		}
		if opts.Format == "json" {
			return writeJSON(stdout, all)
		}
		return yaml.NewEncoder(stdout).Encode(all)
	default:
		tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		for i, name := range bundle.Names() {
			cat, _ := bundle.Get(name)
			if i > 0 {
				fmt.Fprintln(tw)
			}
			fmt.Fprintf(tw, "# %s\n", name)
			writeRecords(tw, cat.Filter(f), v.excerpt)
		}
		return tw.Flush()
	}
}

func filterFrom(opts *options) catalog.Filter {
	return catalog.Filter{
		Year:        opts.Year,
		Query:       opts.Query,
		FoldAccents: opts.FoldAccents,
	}
}

func render(w io.Writer, format string, records []catalog.Record, excerpt int) error {
	switch format {
	case "json":
		return writeJSON(w, records)
	case "yaml":
		return yaml.NewEncoder(w).Encode(records)
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		writeRecords(tw, records, excerpt)
		return tw.Flush()
	}
}

func renderGroups(w io.Writer, format string, groups []catalog.YearGroup, excerpt int) error {
	switch format {
	case "json":
		return writeJSON(w, groups)
	case "yaml":
		return yaml.NewEncoder(w).Encode(groups)
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for i, g := range groups {
			if i > 0 {
				fmt.Fprintln(tw)
			}
			fmt.Fprintf(tw, "%s (%d)\n", g.Label(), len(g.Records))
			writeRecords(tw, g.Records, excerpt)
		}
		return tw.Flush()
	}
}

// writeRecords prints one line per record. A positive excerpt adds the
// shortened abstract as a last column.
func writeRecords(w io.Writer, records []catalog.Record, excerpt int) {
	for _, r := range records {
		date := r.PublishedOn.FormatFrench()
		if date == "" && r.Year != nil {
			date = fmt.Sprint(*r.Year)
		}
		if excerpt > 0 && r.Abstract != "" {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, date, r.Title, r.Excerpt(excerpt))
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, date, r.Title)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// runQuery executes query and prints the result as aligned columns.
func runQuery(ctx context.Context, db *sql.DB, query string, w io.Writer) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		cells := make([]string, len(values))
		for i, v := range values {
			if v.Valid {
				cells[i] = v.String
			} else {
				cells[i] = "NULL"
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return tw.Flush()
}
