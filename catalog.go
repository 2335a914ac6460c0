package catalog

import (
	"context"
	"database/sql"
	"io"
	"slices"
)

// DefaultFeatured is the number of records shown in a featured selection.
const DefaultFeatured = 5

// Catalog is a loaded collection of records, ordered newest first.
// A Catalog is immutable; every accessor returns fresh slices.
type Catalog struct {
	name    string
	records []Record
}

// New returns a catalog holding a date-sorted copy of records.
func New(name string, records []Record) *Catalog {
	return &Catalog{
		name:    name,
		records: SortByDate(records),
	}
}

// Empty returns a catalog with no records.
func Empty(name string) *Catalog {
	return &Catalog{name: name}
}

// Name returns the catalog name, derived from the source file name.
func (c *Catalog) Name() string {
	return c.name
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Records returns the records, newest first.
func (c *Catalog) Records() []Record {
	return slices.Clone(c.records)
}

// Filter returns the records matching f, newest first.
func (c *Catalog) Filter(f Filter) []Record {
	return FilterRecords(c.records, f)
}

// Groups buckets the records matching f by year.
func (c *Catalog) Groups(f Filter) []YearGroup {
	return GroupByYear(c.Filter(f))
}

// Years returns the distinct years present, newest first.
func (c *Catalog) Years() []int {
	return Years(c.records)
}

// Featured returns up to n records for a featured selection.
func (c *Catalog) Featured(n int) []Record {
	return Featured(c.records, n)
}

// Find returns the record with the given ID or slug.
func (c *Catalog) Find(key string) (Record, bool) {
	return Find(c.records, key)
}

// OpenDB exposes the records as a table, named after the catalog, of an
// in-memory SQLite database.
func (c *Catalog) OpenDB(ctx context.Context) (*sql.DB, error) {
	return OpenDB(ctx, c.name, c.records)
}

// Dump writes the records to w.
func (c *Catalog) Dump(w io.Writer, opts DumpOptions) error {
	return Dump(w, c.records, opts)
}

// Load reads a catalog from a local path or an http(s) URL with the
// default loader.
//
// Example:
//
//	books, err := catalog.Load(ctx, "https://example.org/data/books.csv")
//	if err != nil {
//		return err
//	}
//	for _, r := range books.Featured(catalog.DefaultFeatured) {
//		fmt.Println(r.Title, r.PublishedOn.FormatFrench())
//	}
func Load(ctx context.Context, source string) (*Catalog, error) {
	return NewLoader().Load(ctx, source)
}

// LoadOrEmpty is Load that logs failures and falls back to an empty catalog.
func LoadOrEmpty(ctx context.Context, source string) *Catalog {
	return NewLoader().LoadOrEmpty(ctx, source)
}
