package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	appLog "calview/internal/log"
)

// DefaultPath is where the CLI looks for its config when --config is not set.
const DefaultPath = "~/.calview/config.yaml"

// Source formats.
const (
	FormatYAML = "yaml"
	FormatICS  = "ics"
)

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// SourceConfig describes one dataset source: a local YAML dataset, a local
// .ics file, or an ICS subscription URL.
type SourceConfig struct {
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
	// Path is a local file. Either Path or URL is set.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	// URL is an ICS subscription endpoint.
	URL string `yaml:"url,omitempty" json:"url,omitempty"`
	// Kind is stamped on items produced from ICS sources (event, goal,
	// attendance). YAML datasets carry their own kinds.
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`
	// Format is "yaml" or "ics"; empty is derived from the path extension.
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Location returns the path or URL of the source.
func (s SourceConfig) Location() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Path
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone used to decide "today" and to convert
	// ICS occurrences (e.g. "Asia/Seoul").
	Timezone string `yaml:"timezone" json:"timezone"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// used for periodic dataset reloads.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// WeekLabels are the seven weekday header labels, Sunday first.
	WeekLabels []string `yaml:"week_labels" json:"week_labels"`

	// CellWidth is the pixel width of one timeline day column in API
	// responses.
	CellWidth int `yaml:"cell_width" json:"cell_width"`

	// LabelWidth is the terminal width of the timeline label column.
	LabelWidth int `yaml:"label_width" json:"label_width"`

	// Color is auto, always or never.
	Color string `yaml:"color" json:"color"`

	// CacheDir holds the ICS fetch cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// Sources is the list of dataset sources.
	Sources []SourceConfig `yaml:"sources" json:"sources"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		Timezone:    "Local",
		RefreshCron: "*/15 * * * *",
		LogLevel:    "info",
		WeekLabels:  []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		CellWidth:   40,
		LabelWidth:  24,
		Color:       ColorAuto,
		CacheDir:    "~/.calview/cache",
		Sources:     []SourceConfig{},
		BasicAuth:   nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	// Anything but a full week falls back to the defaults.
	if len(c.WeekLabels) != 7 {
		c.WeekLabels = def.WeekLabels
	}
	if c.CellWidth <= 0 {
		c.CellWidth = def.CellWidth
	}
	if c.LabelWidth <= 0 {
		c.LabelWidth = def.LabelWidth
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		c.Color = ColorAuto
	}
	if c.CacheDir == "" {
		c.CacheDir = def.CacheDir
	}
	if c.Sources == nil {
		c.Sources = []SourceConfig{}
	}
	for i := range c.Sources {
		s := &c.Sources[i]
		if s.ID == "" {
			s.ID = fmt.Sprintf("source-%d", i+1)
		}
		if s.Format == "" {
			s.Format = guessFormat(s.Location())
		}
	}
}

// Validate reports configuration errors Normalize cannot repair.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Sources))
	var errs []error
	for _, s := range c.Sources {
		if seen[s.ID] {
			errs = append(errs, fmt.Errorf("source %q: duplicate id", s.ID))
		}
		seen[s.ID] = true
		switch {
		case s.Path == "" && s.URL == "":
			errs = append(errs, fmt.Errorf("source %q: path or url is required", s.ID))
		case s.Path != "" && s.URL != "":
			errs = append(errs, fmt.Errorf("source %q: path and url are exclusive", s.ID))
		}
		switch s.Format {
		case FormatYAML:
			if s.URL != "" {
				errs = append(errs, fmt.Errorf("source %q: yaml datasets must be local files", s.ID))
			}
		case FormatICS:
		default:
			errs = append(errs, fmt.Errorf("source %q: unknown format %q", s.ID, s.Format))
		}
	}
	return errors.Join(errs...)
}

// ExpandPaths resolves a leading ~ in the cache directory and local source
// paths.
func (c *Config) ExpandPaths() error {
	dir, err := homedir.Expand(c.CacheDir)
	if err != nil {
		return err
	}
	c.CacheDir = dir
	for i := range c.Sources {
		if c.Sources[i].Path == "" {
			continue
		}
		p, err := homedir.Expand(c.Sources[i].Path)
		if err != nil {
			return fmt.Errorf("source %q: %w", c.Sources[i].ID, err)
		}
		c.Sources[i].Path = p
	}
	return nil
}

// Location loads the configured IANA zone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", c.Timezone)
		return time.Local
	}
	return loc
}

func guessFormat(location string) string {
	ext := strings.ToLower(filepath.Ext(location))
	if i := strings.IndexByte(ext, '?'); i >= 0 {
		ext = ext[:i]
	}
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatICS
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - A leading ~ in path is expanded.
//   - If the file does not exist a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is unmarshalled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600 perms,
// creating the parent directory (0700) when needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calview-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
