// Package catalog turns the CSV files behind a book and publication website
// into typed, sorted and queryable records.
//
// The package is built from small pure pieces that can be used on their own:
//
//   - Tokenize and Parse, an RFC 4180 style tokenizer that never fails
//   - NormalizeDate, which understands ISO, US month-first and free-form dates
//   - Schema.Project, which maps rows with drifting header names onto Record
//   - SortByDate, FilterRecords, GroupByYear and Featured for list pages
//
// # Basic Usage
//
// Load fetches or opens a source and returns an immutable Catalog:
//
//	books, err := catalog.Load(ctx, "https://example.org/data/books.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, g := range books.Groups(catalog.Filter{Query: "ville"}) {
//	    fmt.Println(g.Label(), len(g.Records))
//	}
//
// Pages that prefer rendering nothing over failing use LoadOrEmpty, which
// logs the error through log/slog and returns an empty catalog.
//
// # Advanced Usage
//
// A Loader configures the HTTP client, delimiter, header synonyms, logger,
// metrics and size limit:
//
//	loader := catalog.NewLoader().
//	    WithDelimiter(';').
//	    WithSchema(catalog.DefaultSchema.With(catalog.FieldOutlet, "Revue")).
//	    WithMetrics(catalog.NewMetrics(prometheus.DefaultRegisterer))
//
//	pubs, err := loader.Load(ctx, "data/publications.csv.gz")
//
// # Supported Sources
//
// CSV, TSV, Excel (XLSX, first sheet only) and Parquet, each optionally
// compressed with gzip, bzip2, xz or zstandard. Text sources may carry a
// UTF-8 byte order mark; text that is not valid UTF-8 is decoded as
// Windows-1252.
//
// # Dates
//
// Two-digit years pivot at 70: "3/5/69" is 2069-03-05 and "3/5/70" is
// 1970-03-05. Dates no format accepts are kept as Unparseable and sort
// after every concrete date.
//
// # Export
//
// Dump and DumpFile write records back as CSV, TSV, XLSX or Parquet with
// the canonical header, so exports load into the same records. OpenDB
// exposes records as a table of an in-memory SQLite database.
//
// # Several Catalogs
//
// LoadDir and LoadAllFS load every supported file of a directory or fs.FS
// into a Bundle keyed by catalog name. Bundle.OpenDB puts each catalog in
// its own table so they can be joined:
//
//	site, err := catalog.NewLoader().LoadDir(ctx, "data")
//	db, err := site.OpenDB(ctx)
//	rows, err := db.QueryContext(ctx,
//	    "SELECT b.title, p.title FROM books b JOIN publications p USING (year)")
package catalog
