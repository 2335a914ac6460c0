package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etourpe/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const booksCSV = `ID,Title,Publication Date,Highlight,Author
b1,La ville,2021-03-05,TRUE,Anne
b2,Les champs,2019-11-20,,Paul
b3,Été urbain,2021-06-01,,Anne
b4,Sans titre,bientôt,,
`

func writeSource(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(path, []byte(booksCSV), 0o600))
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runArgs(t *testing.T, args ...string) string {
	t.Helper()

	opts, err := parseOptions(args)
	require.NoError(t, err)
	require.NotNil(t, opts)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &out))
	return out.String()
}

func TestParseOptions(t *testing.T) {
	t.Parallel()

	t.Run("Defaults", func(t *testing.T) {
		t.Parallel()

		opts, err := parseOptions([]string{"books.csv"})
		require.NoError(t, err)
		assert.Equal(t, "books.csv", opts.Args.Source)
		assert.Equal(t, "text", opts.Format)
		assert.Equal(t, "info", opts.LogLevel)
		assert.Equal(t, "30s", opts.Timeout.String())
	})

	t.Run("Missing source", func(t *testing.T) {
		t.Parallel()

		_, err := parseOptions(nil)
		assert.Error(t, err)
	})

	t.Run("Invalid format", func(t *testing.T) {
		t.Parallel()

		_, err := parseOptions([]string{"--format", "xml", "books.csv"})
		assert.Error(t, err)
	})
}

func TestRunText(t *testing.T) {
	t.Parallel()

	out := runArgs(t, writeSource(t))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "b3")
	assert.Contains(t, lines[0], "1 juin 2021")
	assert.Contains(t, lines[3], "b4")
}

func TestRunJSONFiltered(t *testing.T) {
	t.Parallel()

	out := runArgs(t, "--format", "json", "--year", "2021", "--query", "ete", "--fold-accents", writeSource(t))

	var records []catalog.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "b3", records[0].ID)
}

func TestRunGroups(t *testing.T) {
	t.Parallel()

	t.Run("Text", func(t *testing.T) {
		t.Parallel()

		out := runArgs(t, "--group", writeSource(t))
		assert.Contains(t, out, "2021 (2)")
		assert.Contains(t, out, "2019 (1)")
		assert.Contains(t, out, catalog.UndatedLabel+" (1)")
		assert.Less(t, strings.Index(out, "2021"), strings.Index(out, catalog.UndatedLabel))
	})

	t.Run("YAML", func(t *testing.T) {
		t.Parallel()

		out := runArgs(t, "--group", "--format", "yaml", writeSource(t))

		var groups []catalog.YearGroup
		require.NoError(t, yaml.Unmarshal([]byte(out), &groups))
		require.Len(t, groups, 3)
		assert.Equal(t, 2021, groups[0].Year)
		assert.True(t, groups[2].Undated)
	})
}

func TestRunFeatured(t *testing.T) {
	t.Parallel()

	out := runArgs(t, "--featured", "5", "--format", "json", writeSource(t))

	var records []catalog.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1, "only highlighted records are featured")
	assert.Equal(t, "b1", records[0].ID)
}

func TestRunExport(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "export.tsv.gz")
	out := runArgs(t, "--export", target, "--year", "2021", writeSource(t))
	assert.Empty(t, out)

	cat, err := catalog.NewLoader().WithLogger(quietLogger()).Load(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
}

func TestRunSQL(t *testing.T) {
	t.Parallel()

	out := runArgs(t, "--sql", "SELECT year, COUNT(*) AS n FROM books WHERE year IS NOT NULL GROUP BY year ORDER BY year", writeSource(t))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"year", "n"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"2019", "1"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2021", "2"}, strings.Fields(lines[2]))
}

func TestRunWithConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pubs.csv"), []byte("Ref|Titre|Year\np1|Habiter|2020\n"), 0o600))
	configPath := filepath.Join(dir, "pubs.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
page:
  source: pubs.csv
  kind: publications
settings:
  delimiter: "|"
fields:
  id: [Ref]
  title: [Titre]
`), 0o600))

	out := runArgs(t, "--config", configPath, "--format", "json")

	var groups []catalog.YearGroup
	require.NoError(t, json.Unmarshal([]byte(out), &groups), "a publications page is grouped by year")
	require.Len(t, groups, 1)
	assert.Equal(t, 2020, groups[0].Year)
	require.Len(t, groups[0].Records, 1)
	assert.Equal(t, "p1", groups[0].Records[0].ID)
	assert.Equal(t, "Habiter", groups[0].Records[0].Title)

	out = runArgs(t, "--config", configPath, "--format", "json", "--query", "habiter")

	var records []catalog.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records), "a filter lists records")
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Year)
	assert.Equal(t, 2020, *records[0].Year)
}

func writePage(t *testing.T, data, page string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte(data), 0o600))
	path := filepath.Join(dir, "page.yaml")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o600))
	return path
}

func TestRunPageSettings(t *testing.T) {
	t.Parallel()

	const pubsCSV = `ID,Title,Outlet,Year
p1,La rue,Revue urbaine,2022
p2,Le marché,Études rurales,2021
p3,Notes,Bulletin,
`
	const plainBooksCSV = `ID,Title,Abstract,Publication Date
b1,Premier,Un livre sur la ville et ses marges,2019-01-01
b2,Second,,2020-01-01
b3,Troisième,,2021-01-01
`

	t.Run("Publications are grouped", func(t *testing.T) {
		t.Parallel()

		path := writePage(t, pubsCSV, `page:
  source: data.csv
  kind: publications
settings:
  featured: 2
`)

		out := runArgs(t, "--config", path)
		assert.Contains(t, out, "2022 (1)")
		assert.Contains(t, out, "2021 (1)")
		assert.Contains(t, out, catalog.UndatedLabel+" (1)")

		plain := runArgs(t, writeSourceNamed(t, "pubs.csv", pubsCSV))
		assert.NotContains(t, plain, "2022 (1)", "without a page the records are listed")
	})

	t.Run("Books show the configured featured count", func(t *testing.T) {
		t.Parallel()

		path := writePage(t, plainBooksCSV, `page:
  source: data.csv
  kind: books
settings:
  featured: 2
`)

		out := runArgs(t, "--config", path, "--format", "json")

		var records []catalog.Record
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		assert.Equal(t, []string{"b3", "b2"}, recordIDs(records))

		out = runArgs(t, "--config", path, "--format", "json", "--featured", "1")
		records = nil
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		assert.Equal(t, []string{"b3"}, recordIDs(records), "the flag wins over the page")

		out = runArgs(t, "--config", path, "--format", "json", "--year", "2019")
		records = nil
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		assert.Equal(t, []string{"b1"}, recordIDs(records), "a filter lists every match")
	})

	t.Run("Excerpt", func(t *testing.T) {
		t.Parallel()

		path := writePage(t, plainBooksCSV, `page:
  source: data.csv
settings:
  featured: 3
  excerpt: 10
`)

		out := runArgs(t, "--config", path)
		assert.Contains(t, out, "Un livre s…")
		assert.NotContains(t, out, "et ses marges")

		out = runArgs(t, "--excerpt", "200", writeSourceNamed(t, "books.csv", plainBooksCSV))
		assert.Contains(t, out, "Un livre sur la ville et ses marges")
	})
}

func writeSourceNamed(t *testing.T, name, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func recordIDs(records []catalog.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestRealMain(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, realMain([]string{"--version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), Version)

	assert.Equal(t, 2, realMain(nil, &stdout, &stderr))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("Warning").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}

func TestRunDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.csv"), []byte(booksCSV), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "publications.csv"), []byte("ID,Title,Year\np1,Habiter,2021\np2,Notes,2018\n"), 0o600))

	t.Run("JSON", func(t *testing.T) {
		t.Parallel()

		out := runArgs(t, "--format", "json", "--year", "2021", dir)

		var all map[string][]catalog.Record
		require.NoError(t, json.Unmarshal([]byte(out), &all))
		assert.Len(t, all["books"], 2)
		assert.Len(t, all["publications"], 1)
	})

	t.Run("SQL join", func(t *testing.T) {
		t.Parallel()

		out := runArgs(t, "--sql", "SELECT b.id, p.id FROM books b JOIN publications p USING (year) ORDER BY b.id", dir)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, []string{"b1", "p1"}, strings.Fields(lines[1]))
		assert.Equal(t, []string{"b3", "p1"}, strings.Fields(lines[2]))
	})
}
