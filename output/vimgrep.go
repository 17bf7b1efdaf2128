package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/takaishi/simplefind/search"
)

// FormatLine renders a single match in vimgrep format
// Format: file:line:column:text
func FormatLine(m search.MatchResult) string {
	return fmt.Sprintf("%s:%d:%d:%s", m.Path, m.Line, m.Column, m.LineText)
}

// ParseLine parses a single line of vimgrep output back into a match
func ParseLine(line string) (search.MatchResult, error) {
	// Split on the first three colons only; the text part may contain colons
	parts := strings.SplitN(line, ":", 4)
	if len(parts) < 4 {
		return search.MatchResult{}, fmt.Errorf("invalid vimgrep format: %s", line)
	}

	lineNum, err := strconv.Atoi(parts[1])
	if err != nil {
		return search.MatchResult{}, fmt.Errorf("invalid line number: %s", parts[1])
	}

	columnNum, err := strconv.Atoi(parts[2])
	if err != nil {
		return search.MatchResult{}, fmt.Errorf("invalid column number: %s", parts[2])
	}

	return search.MatchResult{
		Path:     parts[0],
		Line:     lineNum,
		Column:   columnNum,
		LineText: parts[3],
	}, nil
}

// ParseLines parses multiple lines of vimgrep output, skipping lines that
// do not parse
func ParseLines(text string) []search.MatchResult {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	results := make([]search.MatchResult, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		result, err := ParseLine(line)
		if err != nil {
			continue
		}
		results = append(results, result)
	}

	return results
}
