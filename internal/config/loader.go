package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name searched for in the
// current and home directories.
const DefaultConfigFile = ".rpvsharvest"

// XDGConfigFile is the configuration file name inside XDGConfigDir.
const XDGConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk configuration.
// Every field is optional; unset fields keep the value already in Config.
type File struct {
	Start           *int              `yaml:"start"`
	End             *int              `yaml:"end"`
	Output          string            `yaml:"output"`
	Cache           string            `yaml:"cache"`
	Delay           *time.Duration    `yaml:"delay"`
	Timeout         *time.Duration    `yaml:"timeout"`
	CountTimeout    *time.Duration    `yaml:"count_timeout"`
	UserAgent       string            `yaml:"user_agent"`
	DetailBaseURL   string            `yaml:"detail_base_url"`
	CountURL        string            `yaml:"count_url"`
	DocumentBaseURL string            `yaml:"document_base_url"`
	Headers         map[string]string `yaml:"headers"`
	MetricsFile     string            `yaml:"metrics_file"`
	LogFormat       string            `yaml:"log_format"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Apply copies every set field of f into c.
// Headers are merged; a header in f replaces one with the same name.
func (f *File) Apply(c *Config) {
	if f.Start != nil {
		c.StartID = *f.Start
	}
	if f.End != nil {
		c.EndID = *f.End
	}
	if f.Output != "" {
		c.OutputFile = f.Output
	}
	if f.Cache != "" {
		c.CacheFile = f.Cache
	}
	if f.Delay != nil {
		c.Delay = *f.Delay
	}
	if f.Timeout != nil {
		c.Timeout = *f.Timeout
	}
	if f.CountTimeout != nil {
		c.CountTimeout = *f.CountTimeout
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.DetailBaseURL != "" {
		c.DetailBaseURL = f.DetailBaseURL
	}
	if f.CountURL != "" {
		c.CountURL = f.CountURL
	}
	if f.DocumentBaseURL != "" {
		c.DocumentBaseURL = f.DocumentBaseURL
	}
	if len(f.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(f.Headers))
		}
		for k, v := range f.Headers {
			c.Headers[k] = v
		}
	}
	if f.MetricsFile != "" {
		c.MetricsFile = f.MetricsFile
	}
	if f.LogFormat != "" {
		c.LogFormat = f.LogFormat
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .rpvsharvest in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .rpvsharvest in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}
