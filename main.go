package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/takaishi/simplefind/config"
	"github.com/takaishi/simplefind/loader"
	"github.com/takaishi/simplefind/output"
	"github.com/takaishi/simplefind/search"
	"github.com/takaishi/simplefind/tui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.ParseFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	stdoutTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	// A pattern plus -json, -print or a redirected stdout runs one search
	// and exits; everything else opens the interactive picker.
	if cfg.Pattern != "" && (cfg.JSON || cfg.Print || !stdoutTTY) {
		return runOnce(cfg, stdoutTTY)
	}
	if !stdoutTTY {
		fmt.Fprintln(os.Stderr, "Error: a pattern argument is required when stdout is not a terminal")
		return 2
	}

	if cfg.UI == config.UITview {
		if err := tui.NewApp(cfg).Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		return 0
	}

	if err := tui.New(cfg).Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

// runOnce performs a single search and prints every match. Exit codes
// follow grep: 0 matched, 1 no match, 2 error.
func runOnce(cfg *config.Config, stdoutTTY bool) int {
	// Compile first so a bad pattern fails before the walk
	matcher, err := search.Compile(cfg.Pattern, cfg.CaseSensitive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	files, err := loader.Load(context.Background(), loader.Options{
		Root:        cfg.Root,
		Mask:        cfg.Mask,
		MaxFileSize: cfg.MaxFileSize,
		ExcludeDirs: cfg.ExcludeDirs,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	results := matcher.Scan(files)

	if cfg.JSON {
		err = output.WriteJSON(os.Stdout, results)
	} else {
		w := &output.Writer{Out: os.Stdout, Color: stdoutTTY}
		err = w.PrintResults(matcher, results)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if len(results) == 0 {
		return 1
	}
	return 0
}
