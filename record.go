package catalog

import (
	"fmt"
	"strings"
)

// Field identifies one logical attribute of a Record.
type Field int

const (
	// FieldID is the record identifier
	FieldID Field = iota
	// FieldTitle is the title
	FieldTitle
	// FieldAbstract is the abstract or description
	FieldAbstract
	// FieldPublicationDate is the free-form publication date
	FieldPublicationDate
	// FieldPublicationURL links to the publisher page
	FieldPublicationURL
	// FieldCoverImage is the cover image URL
	FieldCoverImage
	// FieldISBN is the ISBN
	FieldISBN
	// FieldHighlight marks a record for the featured selection
	FieldHighlight
	// FieldAuthor is the author line
	FieldAuthor
	// FieldSlug is the URL slug used by detail pages
	FieldSlug
	// FieldOutlet is the journal, publisher or venue of a publication
	FieldOutlet
	// FieldReference is the bibliographic reference of a publication
	FieldReference
	// FieldYear is the publication year of a publication list entry
	FieldYear
)

// fieldNames are the configuration names of the logical fields.
var fieldNames = map[Field]string{
	FieldID:              "id",
	FieldTitle:           "title",
	FieldAbstract:        "abstract",
	FieldPublicationDate: "publication_date",
	FieldPublicationURL:  "publication_url",
	FieldCoverImage:      "cover_image",
	FieldISBN:            "isbn",
	FieldHighlight:       "highlight",
	FieldAuthor:          "author",
	FieldSlug:            "slug",
	FieldOutlet:          "outlet",
	FieldReference:       "reference",
	FieldYear:            "year",
}

// String returns the configuration name of f.
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// ParseField returns the Field whose configuration name is name.
func ParseField(name string) (Field, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("catalog: unknown field %q", name)
}

// Schema lists, for each logical field, the header names that may carry it
// in priority order. Header names changed across revisions of the data
// files, so several synonyms are usually registered for one field.
type Schema map[Field][]string

// DefaultSchema knows every header spelling seen in the catalog files.
var DefaultSchema = Schema{
	FieldID:              {"ID", "Id", "id"},
	FieldTitle:           {"Title", "title"},
	FieldAbstract:        {"Abstract", "Description", "description"},
	FieldPublicationDate: {"Publication Date", "PublicationDate", "publishDate"},
	FieldPublicationURL:  {"Publication URL", "PublicationURL", "url"},
	FieldCoverImage:      {"Cover Image", "CoverImage", "coverUrl"},
	FieldISBN:            {"ISBN", "isbn"},
	FieldHighlight:       {"Highlight", "highlight"},
	FieldAuthor:          {"Author", "author"},
	FieldSlug:            {"Slug", "slug"},
	FieldOutlet:          {"Outlet", "outlet"},
	FieldReference:       {"Reference", "reference"},
	FieldYear:            {"Year", "year"},
}

// With returns a copy of s in which field resolves through keys only.
func (s Schema) With(field Field, keys ...string) Schema {
	out := make(Schema, len(s)+1)
	for f, k := range s {
		out[f] = k
	}
	out[field] = append([]string(nil), keys...)
	return out
}

// Resolve returns the value of field in row: the first synonym present in
// the row with a non-empty value wins, and "" is returned when none does.
func (s Schema) Resolve(row RawRow, field Field) string {
	for _, key := range s[field] {
		if v, ok := row.Lookup(key); ok && v != "" {
			return v
		}
	}
	return ""
}

// Record is a typed catalog entry, a book or a publication. Records are built
// by Project and are not modified afterwards.
type Record struct {
	ID             string `json:"id" yaml:"id"`
	Title          string `json:"title" yaml:"title"`
	Abstract       string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	PublishedOn    Date   `json:"published_on" yaml:"published_on"`
	PublicationURL string `json:"publication_url,omitempty" yaml:"publication_url,omitempty"`
	CoverImage     string `json:"cover_image,omitempty" yaml:"cover_image,omitempty"`
	Highlight      bool   `json:"highlight" yaml:"highlight"`
	ISBN           string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Author         string `json:"author,omitempty" yaml:"author,omitempty"`
	Slug           string `json:"slug,omitempty" yaml:"slug,omitempty"`
	Outlet         string `json:"outlet,omitempty" yaml:"outlet,omitempty"`
	Reference      string `json:"reference,omitempty" yaml:"reference,omitempty"`
	// Year is set for publication list entries that carry an explicit year.
	Year *int `json:"year,omitempty" yaml:"year,omitempty"`
}

// Project maps row onto a Record using DefaultSchema.
func Project(row RawRow) Record {
	return DefaultSchema.Project(row)
}

// ProjectAll projects every row, preserving order.
func ProjectAll(rows []RawRow) []Record {
	return DefaultSchema.ProjectAll(rows)
}

// Project maps row onto a Record through s.
func (s Schema) Project(row RawRow) Record {
	r := Record{
		ID:             s.Resolve(row, FieldID),
		Title:          s.Resolve(row, FieldTitle),
		Abstract:       s.Resolve(row, FieldAbstract),
		PublishedOn:    NormalizeDate(s.Resolve(row, FieldPublicationDate)),
		PublicationURL: s.Resolve(row, FieldPublicationURL),
		CoverImage:     s.Resolve(row, FieldCoverImage),
		Highlight:      ParseBool(s.Resolve(row, FieldHighlight)),
		ISBN:           s.Resolve(row, FieldISBN),
		Author:         s.Resolve(row, FieldAuthor),
		Slug:           s.Resolve(row, FieldSlug),
		Outlet:         s.Resolve(row, FieldOutlet),
		Reference:      s.Resolve(row, FieldReference),
	}
	if y, ok := ParseInt(s.Resolve(row, FieldYear)); ok {
		r.Year = &y
	}
	return r
}

// ProjectAll projects every row through s, preserving order.
func (s Schema) ProjectAll(rows []RawRow) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, s.Project(row))
	}
	return records
}

// explicitYear returns Year unless it is missing or zero. A zero year
// reads as "no year" so it never forms a bucket of its own.
func (r Record) explicitYear() (int, bool) {
	if r.Year == nil || *r.Year == 0 {
		return 0, false
	}
	return *r.Year, true
}

// GroupYear returns the year a record is listed under: the explicit Year
// when present, otherwise the year of PublishedOn. ok is false for undated
// records.
func (r Record) GroupYear() (year int, ok bool) {
	if y, ok := r.explicitYear(); ok {
		return y, true
	}
	if r.PublishedOn.IsValid() {
		return r.PublishedOn.Year(), true
	}
	return 0, false
}

// sortDate is the date a record is ordered by. Entries that only carry a
// year sort as January 1st of that year.
func (r Record) sortDate() Date {
	if r.PublishedOn.IsValid() {
		return r.PublishedOn
	}
	if y, ok := r.explicitYear(); ok {
		return NewDate(y, 1, 1)
	}
	return Unparseable
}

// Excerpt returns the abstract shortened to n characters.
func (r Record) Excerpt(n int) string {
	return Excerpt(r.Abstract, n)
}
