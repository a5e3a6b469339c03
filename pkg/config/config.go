// Package config defines the configuration types shared by the snoomark
// commands. The types are plain data; loading and merging live in
// internal/configloader.
package config

// DocumentConfig controls wrapping rendered fragments in a full HTML page.
type DocumentConfig struct {
	// Enabled wraps each rendered file in <!DOCTYPE html>, <head> and <body>.
	Enabled bool `yaml:"enabled"`

	// Title is the page title. Empty means the first heading, or the file name.
	Title string `yaml:"title,omitempty"`

	// Stylesheet is linked from the page head when set.
	Stylesheet string `yaml:"stylesheet,omitempty"`

	// Lang is the value of the html lang attribute.
	Lang string `yaml:"lang,omitempty"`
}

// CacheConfig controls the on-disk render cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	// Path is the bbolt database file. Empty means the user cache directory.
	Path string `yaml:"path,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	// Extensions are the file extensions treated as markdown, with leading dot.
	Extensions []string `yaml:"extensions,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// OutDir mirrors rendered files under this directory instead of writing
	// them beside their sources.
	OutDir string `yaml:"out_dir,omitempty"`

	Document DocumentConfig `yaml:"document"`
	Cache    CacheConfig    `yaml:"cache"`

	// CLI-level options (not persisted to config files).

	// Format specifies the report format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers. 0 means one per CPU.
	Jobs int `yaml:"-"`

	// DryRun renders without writing output files.
	DryRun bool `yaml:"-"`

	// Force bypasses the render cache and rewrites unchanged outputs.
	Force bool `yaml:"-"`
}

// DefaultExtensions returns the extensions rendered when none are configured.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		Extensions: DefaultExtensions(),
		Document: DocumentConfig{
			Lang: "en",
		},
		Format: FormatText,
	}
}
