package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// directConnector implements driver.Connector to wrap an existing driver.Conn
type directConnector struct {
	conn driver.Conn
}

func (dc *directConnector) Connect(_ context.Context) (driver.Conn, error) {
	return dc.conn, nil
}

func (dc *directConnector) Driver() driver.Driver {
	return &sqlite.Driver{}
}

// sqlColumns mirrors exportHeader with SQL column names and types.
var sqlColumns = []struct {
	name string
	typ  string
}{
	{"id", "TEXT"},
	{"title", "TEXT"},
	{"abstract", "TEXT"},
	{"published_on", "TEXT"},
	{"publication_url", "TEXT"},
	{"cover_image", "TEXT"},
	{"isbn", "TEXT"},
	{"author", "TEXT"},
	{"slug", "TEXT"},
	{"outlet", "TEXT"},
	{"reference", "TEXT"},
	{"year", "INTEGER"},
	{"highlight", "INTEGER"},
}

// OpenDB loads records into a table of a private in-memory SQLite database.
// The table name is sanitized into a plain identifier. Undated records store
// NULL in published_on, and year holds the explicit or derived group year.
// Nothing touches the disk; the data is gone once the returned DB is closed.
func OpenDB(ctx context.Context, table string, records []Record) (*sql.DB, error) {
	ec := NewErrorContext("open database", table)

	name := TableName(table)
	if name == "" {
		return nil, ec.Error(ErrInvalidTableName)
	}

	db, err := openMemoryDB()
	if err != nil {
		return nil, ec.Error(err)
	}

	if err := populateTable(ctx, db, name, records); err != nil {
		_ = db.Close()
		return nil, ec.WithDetails("table "+name).Error(err)
	}
	return db, nil
}

// openMemoryDB returns a handle on a fresh in-memory SQLite database.
func openMemoryDB() (*sql.DB, error) {
	conn, err := (&sqlite.Driver{}).Open(":memory:")
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(&directConnector{conn: conn})
	// every pooled connection would otherwise see its own empty database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}

func populateTable(ctx context.Context, db *sql.DB, table string, records []Record) error {
	defs := make([]string, len(sqlColumns))
	names := make([]string, len(sqlColumns))
	placeholders := make([]string, len(sqlColumns))
	for i, c := range sqlColumns {
		defs[i] = fmt.Sprintf(`"%s" %s`, c.name, c.typ)
		names[i] = `"` + c.name + `"`
		placeholders[i] = "?"
	}

	createQuery := fmt.Sprintf(`CREATE TABLE "%s" (%s)`, table, strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, createQuery); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	insertQuery := fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`,
		table, strings.Join(names, ", "), strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, sqlValues(r)...); err != nil {
			return fmt.Errorf("failed to insert record %q: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func sqlValues(r Record) []any {
	var publishedOn, year any
	if r.PublishedOn.IsValid() {
		publishedOn = r.PublishedOn.String()
	}
	if y, ok := r.GroupYear(); ok {
		year = y
	}
	return []any{
		r.ID,
		r.Title,
		r.Abstract,
		publishedOn,
		r.PublicationURL,
		r.CoverImage,
		r.ISBN,
		r.Author,
		r.Slug,
		r.Outlet,
		r.Reference,
		year,
		r.Highlight,
	}
}

// TableName turns a catalog name or source path into an SQL identifier:
// extensions are dropped, the result is lowercased and every character
// outside [a-z0-9_] becomes an underscore. A leading digit gets a "t_"
// prefix. The empty string is returned when nothing usable remains.
func TableName(name string) string {
	if base := catalogName(name); base != "" {
		name = base
	}

	var b strings.Builder
	for _, c := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return ""
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "t_" + out
	}
	return out
}
