package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/etourpe/catalog"
	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of page configurations
type Loader struct {
	pagesDir string
}

// NewLoader creates a new configuration loader
func NewLoader(pagesDir string) *Loader {
	return &Loader{pagesDir: pagesDir}
}

// LoadAll loads all YAML configuration files from the pages directory,
// keyed by file path.
func (l *Loader) LoadAll() (map[string]*PageConfig, error) {
	configs := make(map[string]*PageConfig)

	if _, err := os.Stat(l.pagesDir); os.IsNotExist(err) {
		return configs, nil // Return empty map if directory doesn't exist
	}

	files, err := filepath.Glob(filepath.Join(l.pagesDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(l.pagesDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)
	sort.Strings(files)

	names := make(map[string]string, len(files))
	for _, file := range files {
		config, err := LoadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}
		if other, ok := names[config.Page.Name]; ok {
			return nil, fmt.Errorf("page %q is defined in both %s and %s", config.Page.Name, other, file)
		}
		names[config.Page.Name] = file

		configs[file] = config
		slog.Debug("loaded page configuration", "file", file, "page", config.Page.Name)
	}

	return configs, nil
}

// LoadFile loads, completes and validates a single YAML configuration file
func LoadFile(path string) (*PageConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config PageConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setDefaults(&config, path)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// setDefaults applies default values to configuration
func setDefaults(config *PageConfig, path string) {
	if config.Page.Name == "" {
		base := filepath.Base(path)
		config.Page.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if config.Page.Kind == "" {
		config.Page.Kind = KindBooks
	}
	if config.Settings.Featured == 0 {
		config.Settings.Featured = catalog.DefaultFeatured
	}
	if config.Settings.MaxSize == 0 {
		config.Settings.MaxSize = catalog.DefaultMaxSize
	}
	if config.Settings.Timeout == 0 {
		config.Settings.Timeout = 30 // seconds
	}
	if config.Settings.Excerpt == 0 {
		config.Settings.Excerpt = 160
	}
}

// validate validates the configuration
func validate(config *PageConfig) error {
	if config.Page.Source == "" {
		return errors.New("page source is required")
	}
	if config.Page.Kind != KindBooks && config.Page.Kind != KindPublications {
		return fmt.Errorf("invalid page kind: %s", config.Page.Kind)
	}

	if _, err := ParseDelimiter(config.Settings.Delimiter); err != nil {
		return err
	}

	if config.Settings.Featured < 0 {
		return errors.New("featured must be non-negative")
	}
	if config.Settings.MaxSize < 0 {
		return errors.New("max size must be non-negative")
	}
	if config.Settings.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	if config.Settings.Excerpt < 0 {
		return errors.New("excerpt must be non-negative")
	}

	for name, keys := range config.Fields {
		if _, err := catalog.ParseField(name); err != nil {
			return fmt.Errorf("invalid field mapping: %w", err)
		}
		if len(keys) == 0 {
			return fmt.Errorf("field %s must list at least one header name", name)
		}
	}

	return nil
}
