package output

import (
	"encoding/json"
	"io"

	"github.com/takaishi/simplefind/search"
)

// matchJSON is the wire shape for a single match. Field names are part of
// the tool's JSON contract and must not change.
type matchJSON struct {
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	LineText string `json:"line_text"`
}

// WriteJSON writes results as a JSON array. No matches encodes as [],
// never null.
func WriteJSON(w io.Writer, results []search.MatchResult) error {
	out := make([]matchJSON, 0, len(results))
	for _, r := range results {
		out = append(out, matchJSON{
			Path:     r.Path,
			Line:     r.Line,
			Column:   r.Column,
			LineText: r.LineText,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
