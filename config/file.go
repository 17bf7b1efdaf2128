package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig represents the optional YAML config file
type FileConfig struct {
	// Editor is the editor command to open matches with (cursor or code)
	Editor string `yaml:"editor"`

	// UI selects the interactive backend (tea or tview)
	UI string `yaml:"ui"`

	// Mask is the default file mask, e.g. "*.go"
	Mask string `yaml:"mask"`

	// MaxFileSize is the largest file, in bytes, loaded into the corpus
	MaxFileSize int64 `yaml:"max_file_size"`

	// ExcludeDirs are directory names skipped while walking
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// CaseSensitive sets the default match sensitivity
	CaseSensitive bool `yaml:"case_sensitive"`
}

// DefaultFileConfig returns a FileConfig with sensible default values
func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Editor:        "", // auto-detect
		UI:            UITea,
		Mask:          "*",
		MaxFileSize:   10 << 20, // 10 MiB
		ExcludeDirs:   []string{".git", "node_modules", "vendor"},
		CaseSensitive: true,
	}
}

// LoadFileConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadFileConfig(path string) (*FileConfig, error) {
	cfg := DefaultFileConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal over the defaults so absent keys keep their default values
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.MaxFileSize < 0 {
		return nil, fmt.Errorf("max_file_size must be >= 0, got %d", cfg.MaxFileSize)
	}

	return cfg, nil
}

// DefaultConfigPath returns the config file location: $SIMPLEFIND_CONFIG if
// set, otherwise ~/.config/simplefind/config.yaml
func DefaultConfigPath() string {
	if p := os.Getenv("SIMPLEFIND_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "simplefind", "config.yaml")
}
