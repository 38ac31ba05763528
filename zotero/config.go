package zotero

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Library types accepted in Config.LibraryType.
const (
	LibraryUser  = "user"
	LibraryGroup = "group"
)

// Config holds Zotero API access settings, loaded from a YAML file.
// The API key can also come from the ZOTERO_API_KEY environment variable,
// which takes precedence over the file so keys stay out of checked-in config.
type Config struct {
	APIKey      string `yaml:"api_key"`
	UserID      string `yaml:"user_id"`
	LibraryType string `yaml:"library_type"` // "user" (default) or "group"
	GroupID     string `yaml:"group_id"`
}

// LoadConfig reads a YAML config file and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zotero config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse zotero config: %w", err)
	}

	if key := os.Getenv("ZOTERO_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if cfg.LibraryType == "" {
		cfg.LibraryType = LibraryUser
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is complete for its library type.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("zotero config: api_key is required (file or ZOTERO_API_KEY)")
	}
	switch c.LibraryType {
	case LibraryUser:
		if c.UserID == "" {
			return errors.New("zotero config: user_id is required for user libraries")
		}
	case LibraryGroup:
		if c.GroupID == "" {
			return errors.New("zotero config: group_id is required for group libraries")
		}
	default:
		return fmt.Errorf("zotero config: unknown library_type %q", c.LibraryType)
	}
	return nil
}

// libraryPath returns the API path prefix for the configured library.
func (c *Config) libraryPath() string {
	if c.LibraryType == LibraryGroup {
		return "/groups/" + c.GroupID
	}
	return "/users/" + c.UserID
}
