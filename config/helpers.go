package config

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/etourpe/catalog"
)

// ParseDelimiter maps a configured delimiter onto a rune. The empty string
// means "detect" and yields 0. "tab" and "\t" both mean a tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case ",", ";", "|":
		return rune(s[0]), nil
	default:
		return 0, fmt.Errorf("invalid delimiter: %q", s)
	}
}

// GetDelimiter returns the configured delimiter, 0 when it must be detected
func (s *PageSettings) GetDelimiter() rune {
	d, _ := ParseDelimiter(s.Delimiter)
	return d
}

// GetTimeout returns the fetch timeout as time.Duration
func (s *PageSettings) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 30 * time.Second // default 30 seconds
	}
	return time.Duration(s.Timeout) * time.Second
}

// Schema returns catalog.DefaultSchema with the configured field overrides
func (c *PageConfig) Schema() catalog.Schema {
	schema := catalog.DefaultSchema
	for name, keys := range c.Fields {
		field, err := catalog.ParseField(name)
		if err != nil {
			continue // rejected by validate
		}
		schema = schema.With(field, keys...)
	}
	return schema
}

// NewLoader returns a catalog loader configured for the page
func (c *PageConfig) NewLoader() *catalog.Loader {
	return catalog.NewLoader().
		WithHTTPClient(&http.Client{Timeout: c.Settings.GetTimeout()}).
		WithDelimiter(c.Settings.GetDelimiter()).
		WithSchema(c.Schema()).
		WithMaxSize(c.Settings.MaxSize)
}

// ResolveSource returns the page source with relative local paths resolved
// against the directory of configPath. URLs are returned unchanged.
func (c *PageConfig) ResolveSource(configPath string) string {
	src := c.Page.Source
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") || filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(filepath.Dir(configPath), src)
}
