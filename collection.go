package catalog

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UndatedLabel is the label of the bucket collecting records without a year.
const UndatedLabel = "Sans date"

// SortByDate returns a copy of records ordered newest first. Records that
// compare equal keep their input order and undated records come last.
func SortByDate(records []Record) []Record {
	sorted := slices.Clone(records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].sortDate().Compare(sorted[j].sortDate()) > 0
	})
	return sorted
}

// Filter selects records by year and free-text query. The zero Filter
// matches everything.
type Filter struct {
	// Year restricts the result to one year. 0 means any year.
	Year int
	// Query must occur, ignoring case, in the title, outlet or reference.
	Query string
	// FoldAccents also ignores diacritics, so "ecole" matches "École".
	FoldAccents bool
}

// Match reports whether r satisfies every criterion of f.
func (f Filter) Match(r Record) bool {
	if f.Year != 0 {
		y, ok := r.GroupYear()
		if !ok || y != f.Year {
			return false
		}
	}

	query := f.fold(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}
	haystack := f.fold(r.Title + " " + r.Outlet + " " + r.Reference)
	return strings.Contains(haystack, query)
}

func (f Filter) fold(s string) string {
	s = norm.NFC.String(s)
	if f.FoldAccents {
		t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if out, _, err := transform.String(t, s); err == nil {
			s = out
		}
	}
	return cases.Fold().String(s)
}

// FilterRecords returns the records matching f in their input order.
func FilterRecords(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// YearGroup is one bucket produced by GroupByYear.
type YearGroup struct {
	Year    int      `json:"year,omitempty" yaml:"year,omitempty"`
	Undated bool     `json:"undated,omitempty" yaml:"undated,omitempty"`
	Records []Record `json:"records" yaml:"records"`
}

// Label returns the heading of the group.
func (g YearGroup) Label() string {
	if g.Undated {
		return UndatedLabel
	}
	return strconv.Itoa(g.Year)
}

// GroupByYear buckets records by GroupYear. Buckets are ordered by year,
// newest first, with the undated bucket last; records keep their input
// order inside a bucket.
func GroupByYear(records []Record) []YearGroup {
	byYear := make(map[int][]Record)
	var undated []Record
	for _, r := range records {
		y, ok := r.GroupYear()
		if !ok {
			undated = append(undated, r)
			continue
		}
		byYear[y] = append(byYear[y], r)
	}

	groups := make([]YearGroup, 0, len(byYear)+1)
	for _, y := range sortedYears(byYear) {
		groups = append(groups, YearGroup{Year: y, Records: byYear[y]})
	}
	if len(undated) > 0 {
		groups = append(groups, YearGroup{Undated: true, Records: undated})
	}
	return groups
}

// Years returns the distinct years present in records, newest first.
func Years(records []Record) []int {
	seen := make(map[int][]Record)
	for _, r := range records {
		if y, ok := r.GroupYear(); ok {
			seen[y] = nil
		}
	}
	return sortedYears(seen)
}

func sortedYears(m map[int][]Record) []int {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Featured returns at most n highlighted records in input order. When no
// record is highlighted the first n records are returned instead.
func Featured(records []Record, n int) []Record {
	if n <= 0 {
		return nil
	}

	var out []Record
	for _, r := range records {
		if r.Highlight {
			out = append(out, r)
			if len(out) == n {
				return out
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	return slices.Clone(records[:min(n, len(records))])
}

// Find returns the record whose ID equals key, falling back to the first
// record whose slug does.
func Find(records []Record, key string) (Record, bool) {
	if key == "" {
		return Record{}, false
	}
	for _, r := range records {
		if r.ID == key {
			return r, true
		}
	}
	for _, r := range records {
		if r.Slug == key {
			return r, true
		}
	}
	return Record{}, false
}
