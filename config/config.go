package config

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/docview/docs"
	"github.com/viant/docview/inspector/java"
	"gopkg.in/yaml.v3"
)

// Config represents session configuration
type Config struct {
	LoaderID      string        `yaml:"loaderID"`
	Project       string        `yaml:"project,omitempty"`      // project directory used to detect roots
	PlatformRoots []string      `yaml:"platformRoots,omitempty"` // sources visible through the parent loader
	SourceRoots   []string      `yaml:"sourceRoots,omitempty"`
	PackageRoots  []string      `yaml:"packageRoots,omitempty"` // first root receives updated contexts
	ContextSuffix string        `yaml:"contextSuffix,omitempty"`
	SourceSuffix  string        `yaml:"sourceSuffix,omitempty"`
	Watch         bool          `yaml:"watch,omitempty"`
	Debounce      time.Duration `yaml:"debounce,omitempty"`
}

// DefaultConfig returns configuration defaults
func DefaultConfig() *Config {
	return &Config{
		LoaderID:      "project",
		ContextSuffix: docs.DefaultSuffix,
		SourceSuffix:  java.DefaultSourceSuffix,
		Debounce:      docs.DefaultDebounce,
	}
}

// Load reads YAML configuration from URL, unset values keep defaults
func Load(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, unset values keep defaults
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can locate sources
func (c *Config) Validate() error {
	if c.LoaderID == "" {
		return fmt.Errorf("invalid config: loaderID is required")
	}
	if c.Project == "" && len(c.SourceRoots) == 0 {
		return fmt.Errorf("invalid config: either project or sourceRoots is required")
	}
	return nil
}
