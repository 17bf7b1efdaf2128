package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takaishi/simplefind/search"
)

func TestSearcherOrdersResultsByCorpus(t *testing.T) {
	corpus := []search.FileInput{
		{Path: "b.txt", Content: "beta\nno\nbeta\n"},
		{Path: "a.txt", Content: "beta beta\n"},
	}
	s := NewSearcher(corpus)

	msg := <-s.Search(context.Background(), "beta", "", true)

	require.NoError(t, msg.Err)
	want := []search.MatchResult{
		{Path: "b.txt", Line: 1, Column: 1, LineText: "beta"},
		{Path: "b.txt", Line: 3, Column: 1, LineText: "beta"},
		{Path: "a.txt", Line: 1, Column: 1, LineText: "beta beta"},
		{Path: "a.txt", Line: 1, Column: 6, LineText: "beta beta"},
	}
	assert.Equal(t, want, msg.Results)
}

func TestSearcherKeepsInputOrderAcrossWorkers(t *testing.T) {
	var corpus []search.FileInput
	for i := 0; i < 50; i++ {
		corpus = append(corpus, search.FileInput{
			Path:    fmt.Sprintf("file%02d.txt", i),
			Content: fmt.Sprintf("hit number %d\n", i),
		})
	}
	s := NewSearcher(corpus)

	msg := <-s.Search(context.Background(), "hit", "", true)

	require.NoError(t, msg.Err)
	require.Len(t, msg.Results, 50)
	for i, r := range msg.Results {
		assert.Equal(t, corpus[i].Path, r.Path)
	}
}

func TestSearcherReportsPatternError(t *testing.T) {
	s := NewSearcher([]search.FileInput{{Path: "a.txt", Content: "aaa\n"}})

	msg := <-s.Search(context.Background(), "[unclosed", "", true)

	require.Error(t, msg.Err)
	var perr *search.PatternError
	require.ErrorAs(t, msg.Err, &perr)
	assert.Equal(t, "[unclosed", perr.Pattern)
	assert.Nil(t, msg.Results)
}

func TestSearcherAppliesMask(t *testing.T) {
	corpus := []search.FileInput{
		{Path: "main.go", Content: "package main\n"},
		{Path: "README.md", Content: "package docs\n"},
		{Path: "cmd/run.go", Content: "package cmd\n"},
	}
	s := NewSearcher(corpus)

	msg := <-s.Search(context.Background(), "package", "*.go", true)

	require.NoError(t, msg.Err)
	var paths []string
	for _, r := range msg.Results {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{"main.go", "cmd/run.go"}, paths)
}

func TestSearcherCaseSensitivity(t *testing.T) {
	corpus := []search.FileInput{{Path: "a.txt", Content: "Foo\nfoo\n"}}
	s := NewSearcher(corpus)

	sensitive := <-s.Search(context.Background(), "foo", "", true)
	require.NoError(t, sensitive.Err)
	assert.Len(t, sensitive.Results, 1)

	insensitive := <-s.Search(context.Background(), "foo", "", false)
	require.NoError(t, insensitive.Err)
	assert.Len(t, insensitive.Results, 2)
}

func TestSearcherCancelClosesWithoutReply(t *testing.T) {
	var corpus []search.FileInput
	for i := 0; i < 200; i++ {
		corpus = append(corpus, search.FileInput{
			Path:    fmt.Sprintf("f%03d.txt", i),
			Content: strings.Repeat("needle haystack\n", 100),
		})
	}
	s := NewSearcher(corpus)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg, ok := <-s.Search(ctx, "needle", "", true)
	assert.False(t, ok, "canceled search must close without replying, got %+v", msg)
}

func TestSearcherSearchIDAdvances(t *testing.T) {
	s := NewSearcher([]search.FileInput{{Path: "a.txt", Content: "x\n"}})

	first := <-s.Search(context.Background(), "x", "", true)
	second := <-s.Search(context.Background(), "x", "", true)

	assert.Equal(t, first.SearchID+1, second.SearchID)
	assert.Equal(t, second.SearchID, s.CurrentID())
}

func TestSearcherCorpusLookup(t *testing.T) {
	s := NewSearcher(nil)
	assert.Equal(t, 0, s.Size())

	_, ok := s.File("a.txt")
	assert.False(t, ok)

	s.SetCorpus([]search.FileInput{
		{Path: "a.txt", Content: "alpha\n"},
		{Path: "b.txt", Content: "bravo\n"},
	})

	assert.Equal(t, 2, s.Size())
	f, ok := s.File("b.txt")
	require.True(t, ok)
	assert.Equal(t, "bravo\n", f.Content)
}
