package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sort"
)

// Bundle holds several catalogs keyed by name, typically every data file
// of a site: "books", "publications" and so on.
type Bundle struct {
	catalogs map[string]*Catalog
}

// NewBundle groups catalogs by name. Two catalogs with the same name are
// an error.
func NewBundle(catalogs ...*Catalog) (*Bundle, error) {
	b := &Bundle{catalogs: make(map[string]*Catalog, len(catalogs))}
	for _, c := range catalogs {
		if _, dup := b.catalogs[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate catalog name: %s", c.Name())
		}
		b.catalogs[c.Name()] = c
	}
	return b, nil
}

// Names returns the catalog names in lexical order.
func (b *Bundle) Names() []string {
	names := make([]string, 0, len(b.catalogs))
	for name := range b.catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the catalog called name.
func (b *Bundle) Get(name string) (*Catalog, bool) {
	c, ok := b.catalogs[name]
	return c, ok
}

// Len returns the number of catalogs.
func (b *Bundle) Len() int {
	return len(b.catalogs)
}

// OpenDB loads every catalog into its own table of one in-memory SQLite
// database, so catalogs can be joined. Table names follow TableName.
func (b *Bundle) OpenDB(ctx context.Context) (*sql.DB, error) {
	ec := NewErrorContext("open database", "bundle")

	db, err := openMemoryDB()
	if err != nil {
		return nil, ec.Error(err)
	}

	tables := make(map[string]string, len(b.catalogs))
	for _, name := range b.Names() {
		table := TableName(name)
		if table == "" {
			_ = db.Close()
			return nil, ec.WithDetails("catalog "+name).Error(ErrInvalidTableName)
		}
		if other, dup := tables[table]; dup {
			_ = db.Close()
			return nil, ec.Error(fmt.Errorf("catalogs %q and %q map to the same table %s", other, name, table))
		}
		tables[table] = name

		if err := populateTable(ctx, db, table, b.catalogs[name].records); err != nil {
			_ = db.Close()
			return nil, ec.WithDetails("table "+table).Error(err)
		}
	}
	return db, nil
}

// LoadDir loads every supported file below dir, recursively.
func (l *Loader) LoadDir(ctx context.Context, dir string) (*Bundle, error) {
	if err := newValidator().validateDir(dir); err != nil {
		return nil, NewErrorContext("load", dir).Error(err)
	}
	return l.LoadAllFS(ctx, os.DirFS(dir))
}

// LoadAllFS loads every supported file of fsys, recursively. Each file
// becomes one catalog named after its base name, so "books.csv" and
// "archive/books.tsv" conflict.
func (l *Loader) LoadAllFS(ctx context.Context, fsys fs.FS) (*Bundle, error) {
	paths, err := collectSources(fsys)
	if err != nil {
		return nil, NewErrorContext("load", "fs").Error(err)
	}

	catalogs := make([]*Catalog, 0, len(paths))
	for _, p := range paths {
		cat, err := l.LoadFS(ctx, fsys, p)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, cat)
	}

	bundle, err := NewBundle(catalogs...)
	if err != nil {
		return nil, NewErrorContext("load", "fs").Error(err)
	}
	return bundle, nil
}

// collectSources walks fsys and returns the paths of supported files.
func collectSources(fsys fs.FS) ([]string, error) {
	if fsys == nil {
		return nil, errors.New("FS cannot be nil")
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if fileType, _ := DetectFileType(p); fileType != FileTypeUnsupported {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk filesystem: %w", err)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no supported files found", ErrNotFound)
	}
	slices.Sort(paths)
	return paths, nil
}
