package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Sources  []string `yaml:"sources"`
	Keywords []string `yaml:"keywords"`
	Crawl    Crawl    `yaml:"crawl"`
	Output   Output   `yaml:"output"`
	Server   Server   `yaml:"server"`
}

type Crawl struct {
	MaxPages       int    `yaml:"max_pages"`
	MaxSentences   int    `yaml:"max_sentences"`
	DelayMs        int    `yaml:"delay_ms"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Extractor      string `yaml:"extractor"` // "container" or "readability"
	UserAgent      string `yaml:"user_agent"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

// ConfigDir returns the XDG config directory for trendscan.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "trendscan")
}

// DataDir returns the XDG data directory for trendscan.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "trendscan")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/trendscan/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'trendscan init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Crawl: Crawl{
			MaxPages:       8,
			MaxSentences:   3,
			DelayMs:        400,
			TimeoutSeconds: 20,
			Extractor:      "container",
		},
		Server: Server{Port: 8000},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Crawl.Extractor != "container" && cfg.Crawl.Extractor != "readability" {
		return nil, fmt.Errorf("unknown extractor %q (want container or readability)", cfg.Crawl.Extractor)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
