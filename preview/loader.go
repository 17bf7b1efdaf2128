// Package preview builds context windows around matched lines from the
// in-memory corpus.
package preview

import (
	"github.com/takaishi/simplefind/search"
)

const (
	previewBefore = 5
	previewAfter  = 10
)

// FromContent builds a preview window around a matched line. The content is
// split with the same line rules as the scanner, so the window always
// agrees with result line numbers.
func FromContent(f search.FileInput, lineNum int) *Preview {
	allLines := search.SplitLines(f.Content)

	// Calculate preview range
	startLine := lineNum - previewBefore
	if startLine < 1 {
		startLine = 1
	}

	endLine := lineNum + previewAfter
	if endLine > len(allLines) {
		endLine = len(allLines)
	}

	previewLines := make([]string, 0, previewBefore+previewAfter+1)
	for i := startLine - 1; i < endLine; i++ {
		if i >= 0 && i < len(allLines) {
			previewLines = append(previewLines, allLines[i])
		}
	}

	return &Preview{
		Path:      f.Path,
		StartLine: startLine,
		Lines:     previewLines,
		HitLine:   lineNum - startLine + 1,
	}
}
