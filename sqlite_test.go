package catalog

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := OpenDB(ctx, "books.csv.gz", sampleRecords())
	require.NoError(t, err)
	defer db.Close()

	t.Run("Row count", func(t *testing.T) {
		var n int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n))
		assert.Equal(t, 3, n)
	})

	t.Run("Typed columns", func(t *testing.T) {
		var (
			publishedOn sql.NullString
			year        sql.NullInt64
			highlight   bool
		)
		err := db.QueryRowContext(ctx,
			`SELECT published_on, year, highlight FROM books WHERE id = ?`, "b1").
			Scan(&publishedOn, &year, &highlight)
		require.NoError(t, err)

		assert.Equal(t, "2024-03-05", publishedOn.String)
		assert.Equal(t, int64(2024), year.Int64, "year is derived from the publication date")
		assert.True(t, highlight)
	})

	t.Run("Undated record stores NULL", func(t *testing.T) {
		var (
			publishedOn sql.NullString
			year        sql.NullInt64
		)
		err := db.QueryRowContext(ctx, `SELECT published_on, year FROM books WHERE id = ?`, "u1").
			Scan(&publishedOn, &year)
		require.NoError(t, err)

		assert.False(t, publishedOn.Valid)
		assert.False(t, year.Valid)
	})

	t.Run("Grouping query", func(t *testing.T) {
		rows, err := db.QueryContext(ctx, `SELECT year, COUNT(*) FROM books WHERE year IS NOT NULL GROUP BY year ORDER BY year DESC`)
		require.NoError(t, err)
		defer rows.Close()

		var years []int64
		for rows.Next() {
			var year, n int64
			require.NoError(t, rows.Scan(&year, &n))
			years = append(years, year)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []int64{2024, 2019}, years)
	})
}

func TestOpenDB_InvalidName(t *testing.T) {
	t.Parallel()

	_, err := OpenDB(context.Background(), "---", nil)
	assert.ErrorIs(t, err, ErrInvalidTableName)
}

func TestOpenDB_Isolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first, err := OpenDB(ctx, "books", sampleRecords())
	require.NoError(t, err)
	defer first.Close()

	second, err := OpenDB(ctx, "books", nil)
	require.NoError(t, err)
	defer second.Close()

	var n int
	require.NoError(t, second.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestTableName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "books", want: "books"},
		{in: "data/Books.csv.gz", want: "books"},
		{in: "Mes publications.tsv", want: "mes_publications"},
		{in: "2024-books.csv", want: "t_2024_books"},
		{in: "https://example.org/data/pubs.csv?v=1", want: "pubs"},
		{in: "---", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TableName(tt.in), "TableName(%q)", tt.in)
	}
}
