// Package loader reads files from disk into the in-memory form the search
// package consumes. It is the only part of the tool that touches the
// filesystem for search input; the search core itself performs no I/O.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/takaishi/simplefind/search"
)

// Options controls which files Load picks up.
type Options struct {
	Root        string   // directory to load from; "" means the working directory
	Mask        string   // file-name glob; empty or "*" accepts everything
	MaxFileSize int64    // skip files larger than this; 0 = no limit
	ExcludeDirs []string // directory names skipped entirely
}

// Load walks Root and returns every eligible file as a search input. Paths
// are relative to Root with forward slashes, and the sequence is in
// deterministic lexical walk order so search results are reproducible.
// Hidden entries, excluded directories, oversized files, binary files
// (containing a NUL byte) and unreadable files are skipped silently.
func Load(ctx context.Context, opts Options) ([]search.FileInput, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}

	var files []search.FileInput
	var canceled error

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				canceled = err
				return err
			}

			name := de.Name()
			if de.IsDir() {
				if osPathname != root && (isHidden(name) || isExcluded(name, opts.ExcludeDirs)) {
					return filepath.SkipDir
				}
				return nil
			}
			if !de.IsRegular() || isHidden(name) {
				return nil
			}

			rel, err := filepath.Rel(root, osPathname)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if !MatchMask(opts.Mask, rel) {
				return nil
			}

			if opts.MaxFileSize > 0 {
				info, err := os.Stat(osPathname)
				if err != nil || info.Size() > opts.MaxFileSize {
					return nil
				}
			}

			data, err := os.ReadFile(osPathname)
			if err != nil {
				return nil
			}
			if bytes.IndexByte(data, 0) >= 0 {
				return nil
			}

			files = append(files, search.FileInput{Path: rel, Content: string(data)})
			return nil
		},
		ErrorCallback: func(string, error) godirwalk.ErrorAction {
			if canceled != nil {
				return godirwalk.Halt
			}
			// Unreadable entries are skipped, not fatal.
			return godirwalk.SkipNode
		},
		Unsorted: false, // sorted walk keeps input order deterministic
	})
	if canceled != nil {
		return nil, fmt.Errorf("walk %s: %w", root, canceled)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

// MatchMask reports whether relPath passes the file mask. A mask without a
// path separator is matched against the base name (e.g. "*.go"); a mask
// containing one is matched against the whole relative path.
func MatchMask(mask, relPath string) bool {
	if mask == "" || mask == "*" {
		return true
	}
	if strings.ContainsRune(mask, '/') {
		ok, _ := path.Match(mask, relPath)
		return ok
	}
	ok, _ := path.Match(mask, path.Base(relPath))
	return ok
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func isExcluded(name string, excluded []string) bool {
	for _, e := range excluded {
		if name == e {
			return true
		}
	}
	return false
}
