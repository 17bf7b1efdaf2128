// Package search provides in-memory regular-expression search across a set
// of files. A pattern is compiled once into an immutable Matcher and then
// applied line by line to each file's content, producing one MatchResult per
// match occurrence with 1-based line and column positions.
//
// Content is scanned one line at a time, so a pattern can never match across
// a line boundary. Columns count characters (runes), not bytes, so positions
// stay meaningful in non-ASCII text. Matches within a line are found
// leftmost-first and never overlap.
//
// The package performs no I/O and keeps no state between calls; a Matcher is
// safe for concurrent use once compiled.
package search

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// PatternError reports that a search pattern failed to compile. Its message
// is meant to be shown to the user as is.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid regex pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Matcher is a compiled, immutable search pattern. It is created by Compile
// and may be shared by any number of concurrent scans.
type Matcher struct {
	re *regexp.Regexp
}

// Compile builds a Matcher from pattern. When caseSensitive is false the
// pattern is compiled with the case-insensitive flag; the pattern text
// itself is never modified. An empty pattern is valid and matches the empty
// string at every position. A malformed pattern returns a *PatternError.
func Compile(pattern string, caseSensitive bool) (*Matcher, error) {
	expr := pattern
	if !caseSensitive {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	return &Matcher{re: re}, nil
}

// FindAll returns the byte-index [start, end) pair of every non-overlapping
// match of the pattern in text, leftmost-first. Hosts use it to locate match
// spans for highlighting; a nil result means no match.
func (m *Matcher) FindAll(text string) [][]int {
	return m.re.FindAllStringIndex(text, -1)
}

// ScanFile scans a single file and returns its matches ordered by line, then
// by column. Scanning cannot fail once a pattern is compiled.
func (m *Matcher) ScanFile(f FileInput) []MatchResult {
	var results []MatchResult

	for i, line := range SplitLines(f.Content) {
		spans := m.re.FindAllStringIndex(line, -1)
		for _, span := range spans {
			results = append(results, MatchResult{
				Path:     f.Path,
				Line:     i + 1,
				Column:   utf8.RuneCountInString(line[:span[0]]) + 1,
				LineText: line,
			})
		}
	}
	return results
}

// Scan scans every file in input order and returns the concatenated matches.
// The result is freshly allocated on every call.
func (m *Matcher) Scan(files []FileInput) []MatchResult {
	var results []MatchResult
	for _, f := range files {
		results = append(results, m.ScanFile(f)...)
	}
	return results
}

// Search compiles pattern and scans files with it, returning all matches
// grouped by input file order. If the pattern does not compile, no file is
// scanned and the *PatternError is returned unchanged.
func Search(pattern string, files []FileInput, caseSensitive bool) ([]MatchResult, error) {
	m, err := Compile(pattern, caseSensitive)
	if err != nil {
		return nil, err
	}
	return m.Scan(files), nil
}

// SplitLines splits content into lines using the universal line-terminator
// convention: lines end at "\n" or "\r\n", a trailing terminator does not
// produce an empty final line, and empty content yields no lines at all. A
// final line without a terminator is returned as is, including any bare
// trailing "\r".
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}

	terminated := strings.HasSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	if terminated {
		lines = lines[:len(lines)-1]
	}
	for i := range lines {
		if i == len(lines)-1 && !terminated {
			break
		}
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}
