package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	t.Parallel()

	records := []Record{
		{ID: "old", Title: "Ancien", PublishedOn: NewDate(2001, time.May, 1)},
		{ID: "new", Title: "Nouveau", PublishedOn: NewDate(2022, time.May, 1), Highlight: true},
		{ID: "none", Title: "Sans"},
	}
	cat := New("books", records)

	t.Run("Sorted newest first", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"new", "old", "none"}, ids(cat.Records()))
		assert.Equal(t, "old", records[0].ID, "input must not be reordered")
	})

	t.Run("Records returns a copy", func(t *testing.T) {
		t.Parallel()

		got := cat.Records()
		got[0].Title = "changed"
		assert.Equal(t, "Nouveau", cat.Records()[0].Title)
	})

	t.Run("Queries", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 3, cat.Len())
		assert.Equal(t, "books", cat.Name())
		assert.Equal(t, []int{2022, 2001}, cat.Years())
		assert.Equal(t, []string{"new"}, ids(cat.Featured(DefaultFeatured)))
		assert.Equal(t, []string{"old"}, ids(cat.Filter(Filter{Year: 2001})))

		groups := cat.Groups(Filter{})
		require.Len(t, groups, 3)
		assert.True(t, groups[2].Undated)

		r, ok := cat.Find("old")
		require.True(t, ok)
		assert.Equal(t, "Ancien", r.Title)
	})

	t.Run("OpenDB uses the catalog name", func(t *testing.T) {
		t.Parallel()

		db, err := cat.OpenDB(context.Background())
		require.NoError(t, err)
		defer db.Close()

		var title string
		require.NoError(t, db.QueryRow(`SELECT title FROM books ORDER BY published_on DESC LIMIT 1`).Scan(&title))
		assert.Equal(t, "Nouveau", title)
	})

	t.Run("Dump", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, cat.Dump(&buf, NewDumpOptions()))
		assert.Equal(t, cat.Records(), ProjectAll(Parse(buf.String())))
	})
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	cat := Empty("pubs")

	assert.Equal(t, 0, cat.Len())
	assert.Empty(t, cat.Records())
	assert.Empty(t, cat.Groups(Filter{}))
	assert.Empty(t, cat.Featured(DefaultFeatured))
}

func TestLoadAndLoadOrEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(path, []byte(booksCSV), 0o600))

	cat, err := Load(context.Background(), path)
	require.NoError(t, err)
	assertBooks(t, cat)

	assertBooks(t, LoadOrEmpty(context.Background(), path))
	assert.Equal(t, 0, NewLoader().WithLogger(quietLogger()).LoadOrEmpty(context.Background(), path+".missing.csv").Len())
}
