package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CLIConfig holds CLI configuration persisted to disk.
type CLIConfig struct {
	ServerURL string `yaml:"server_url,omitempty"`
	Locale    string `yaml:"locale,omitempty"`
	SiteURL   string `yaml:"site_url,omitempty"`
}

const (
	defaultServerURL = "http://localhost:8080"
	defaultSiteURL   = "https://panamagoldenkey.com"
)

// configPath returns the path to the CLI config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "goldenkey", "config.yaml"), nil
}

// loadConfig reads the CLI config from disk.
// Returns a zero-value config if the file doesn't exist.
func loadConfig() (CLIConfig, error) {
	path, err := configPath()
	if err != nil {
		return CLIConfig{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return CLIConfig{}, nil
	}
	if err != nil {
		return CLIConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// saveConfig writes the CLI config to disk.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// getServerURL returns the server URL from flag, env var, config, or default.
func getServerURL() string {
	if flagServer != "" {
		return flagServer
	}
	if v := os.Getenv("GK_SERVER_URL"); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err == nil && cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	return defaultServerURL
}

// getLocale resolves the language from flag, env var, config or LANG and
// narrows it to a supported catalog.
func getLocale() string {
	lang := flagLang
	if lang == "" {
		lang = os.Getenv("GK_LOCALE")
	}
	if lang == "" {
		if cfg, err := loadConfig(); err == nil {
			lang = cfg.Locale
		}
	}
	if lang == "" {
		// LANG looks like es_PA.UTF-8
		lang, _, _ = strings.Cut(os.Getenv("LANG"), ".")
		lang = strings.ReplaceAll(lang, "_", "-")
	}
	return catalog.Match(lang)
}

// getSiteURL is the public site used to build shareable links.
func getSiteURL() string {
	if v := os.Getenv("GK_SITE_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	cfg, err := loadConfig()
	if err == nil && cfg.SiteURL != "" {
		return strings.TrimRight(cfg.SiteURL, "/")
	}
	return defaultSiteURL
}
