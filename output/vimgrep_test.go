package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takaishi/simplefind/search"
)

func TestFormatLine(t *testing.T) {
	m := search.MatchResult{Path: "src/app.go", Line: 3, Column: 8, LineText: `x := "hello"`}
	assert.Equal(t, `src/app.go:3:8:x := "hello"`, FormatLine(m))
}

func TestParseLine(t *testing.T) {
	got, err := ParseLine(`main.go:10:5:fmt.Println("a:b")`)
	require.NoError(t, err)

	want := search.MatchResult{
		Path:     "main.go",
		Line:     10,
		Column:   5,
		LineText: `fmt.Println("a:b")`,
	}
	assert.Equal(t, want, got)
}

func TestParseLine_Invalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "too few fields", line: "main.go:10"},
		{name: "bad line number", line: "main.go:x:5:text"},
		{name: "bad column number", line: "main.go:10:y:text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line)
			assert.Error(t, err)
		})
	}
}

func TestFormatLine_RoundTrip(t *testing.T) {
	want := search.MatchResult{Path: "a/b.txt", Line: 1, Column: 14, LineText: "tail: value"}
	got, err := ParseLine(FormatLine(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseLines(t *testing.T) {
	text := "a.go:1:1:foo\n\nnot a vimgrep line\nb.go:2:3:bar\n"
	got := ParseLines(text)
	require.Len(t, got, 2)
	assert.Equal(t, "a.go", got[0].Path)
	assert.Equal(t, "b.go", got[1].Path)
}
