package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/takaishi/simplefind/search"
)

// Writer prints matches in vimgrep format, optionally colorized. The zero
// value with Out set writes plain lines.
type Writer struct {
	Out   io.Writer
	Color bool
}

// PrintResults writes one line per match. With color enabled the path,
// line/column numbers, and the matched spans inside the line text are
// highlighted; the matcher is re-run on each line text to locate the spans.
func (w *Writer) PrintResults(m *search.Matcher, results []search.MatchResult) error {
	if !w.Color {
		for _, r := range results {
			if _, err := fmt.Fprintln(w.Out, FormatLine(r)); err != nil {
				return err
			}
		}
		return nil
	}

	pathCol := color.New(color.FgMagenta)
	numCol := color.New(color.FgGreen)
	hitCol := color.New(color.FgRed, color.Bold)
	pathCol.EnableColor()
	numCol.EnableColor()
	hitCol.EnableColor()

	for _, r := range results {
		text := highlight(m, r.LineText, hitCol)
		_, err := fmt.Fprintf(w.Out, "%s:%s:%s:%s\n",
			pathCol.Sprint(r.Path),
			numCol.Sprint(r.Line),
			numCol.Sprint(r.Column),
			text,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func highlight(m *search.Matcher, text string, hit *color.Color) string {
	spans := m.FindAll(text)
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, span := range spans {
		b.WriteString(text[last:span[0]])
		b.WriteString(hit.Sprint(text[span[0]:span[1]]))
		last = span[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
