package config

// Page kinds.
const (
	KindBooks        = "books"
	KindPublications = "publications"
)

// PageConfig describes one catalog page: where its data lives and how the
// data file is laid out.
type PageConfig struct {
	Page     PageInfo            `yaml:"page"`
	Settings PageSettings        `yaml:"settings"`
	Fields   map[string][]string `yaml:"fields"`
}

// PageInfo contains basic page information
type PageInfo struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Kind   string `yaml:"kind"`
}

// PageSettings contains loading and rendering settings
type PageSettings struct {
	Delimiter string `yaml:"delimiter"` // empty means detect
	Featured  int    `yaml:"featured"`
	MaxSize   int64  `yaml:"max_size"` // bytes
	Timeout   int    `yaml:"timeout"`  // seconds
	Excerpt   int    `yaml:"excerpt"`  // characters
}
