package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/takaishi/simplefind/editor"
)

// UI backend names accepted by -ui and the config file.
const (
	UITea   = "tea"
	UITview = "tview"
)

// Config holds application configuration
type Config struct {
	Pattern       string // positional argument; may be empty
	Root          string // directory whose files form the corpus
	Mask          string
	UI            string
	Editor        editor.Editor
	CaseSensitive bool
	JSON          bool
	Print         bool
	MaxFileSize   int64
	ExcludeDirs   []string
}

// ParseFlags parses command line flags, layered over the environment and
// the config file, and returns configuration. Precedence per knob is
// flag > environment > config file > default.
func ParseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("simplefind", flag.ContinueOnError)
	pathFlag := fs.String("path", "", "directory to search (default: current directory)")
	maskFlag := fs.String("mask", "", `file mask, e.g. "*.go" (default: all files)`)
	ignoreCase := fs.Bool("i", false, "case-insensitive matching")
	jsonFlag := fs.Bool("json", false, "print results as JSON and exit")
	printFlag := fs.Bool("print", false, "print results and exit instead of starting the TUI")
	uiFlag := fs.String("ui", "", "UI backend (tea or tview)")
	editorFlag := fs.String("editor", "", "editor to open matches with (cursor or code)")
	configFlag := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 1 {
		return nil, fmt.Errorf("too many arguments: %v", fs.Args()[1:])
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = DefaultConfigPath()
	}
	file, err := LoadFileConfig(configPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Pattern:       fs.Arg(0),
		Mask:          file.Mask,
		UI:            file.UI,
		CaseSensitive: file.CaseSensitive,
		JSON:          *jsonFlag,
		Print:         *printFlag,
		MaxFileSize:   file.MaxFileSize,
		ExcludeDirs:   file.ExcludeDirs,
	}

	if *pathFlag != "" {
		cfg.Root = *pathFlag
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		cfg.Root = wd
	}

	if *maskFlag != "" {
		cfg.Mask = *maskFlag
	}
	if *ignoreCase {
		cfg.CaseSensitive = false
	}

	// Determine UI backend
	if *uiFlag != "" {
		cfg.UI = *uiFlag
	} else if envUI := getEnvUI(); envUI != "" {
		cfg.UI = envUI
	}
	if cfg.UI != UITea && cfg.UI != UITview {
		return nil, fmt.Errorf("unknown ui %q (want %s or %s)", cfg.UI, UITea, UITview)
	}

	// Determine editor
	if *editorFlag != "" {
		cfg.Editor = editor.Editor(*editorFlag)
	} else if envEditor := getEnvEditor(); envEditor != "" {
		cfg.Editor = editor.Editor(envEditor)
	} else if file.Editor != "" {
		cfg.Editor = editor.Editor(file.Editor)
	} else {
		// Auto-detect; a missing editor only matters when a match is
		// opened, so detection failure is not fatal here
		if ed, err := editor.DetectEditor(); err == nil {
			cfg.Editor = ed
		}
	}

	return cfg, nil
}

// getEnvEditor gets the editor from the SIMPLEFIND_EDITOR environment variable
func getEnvEditor() string {
	return os.Getenv("SIMPLEFIND_EDITOR")
}

// getEnvUI gets the UI backend from the SIMPLEFIND_UI environment variable
func getEnvUI() string {
	return os.Getenv("SIMPLEFIND_UI")
}
