package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takaishi/simplefind/config"
	"github.com/takaishi/simplefind/search"
)

// newTestModel builds a model over an in-memory corpus, skipping the
// filesystem walk that Init would do.
func newTestModel(t *testing.T, files []search.FileInput) *Model {
	t.Helper()
	m := New(&config.Config{
		Root:          t.TempDir(),
		Mask:          "*",
		CaseSensitive: true,
		MaxFileSize:   10 << 20,
	})
	m.Update(corpusLoadedMsg{files: files})
	return m
}

func TestModelSearchRoundTrip(t *testing.T) {
	m := newTestModel(t, []search.FileInput{
		{Path: "a.txt", Content: "alpha\nbeta\n"},
		{Path: "b.txt", Content: "beta beta\n"},
	})

	m.query = "beta"
	m.queryInput.value = "beta"

	_, cmd := m.Update(startSearchMsg{Query: "beta", Mask: ""})
	require.NotNil(t, cmd)
	assert.True(t, m.isSearching)

	// The command blocks until the searcher replies
	msg, ok := cmd().(SearchResultMsg)
	require.True(t, ok)

	m.Update(msg)
	assert.False(t, m.isSearching)
	require.Len(t, m.searchResults, 3)
	assert.Equal(t, "a.txt", m.searchResults[0].Path)
	assert.Equal(t, 2, m.searchResults[0].Line)
	assert.Equal(t, 0, m.selectedIndex, "first result is auto-selected")
	require.NotNil(t, m.preview)
	assert.Equal(t, "a.txt", m.preview.Path)
}

func TestModelDiscardsStaleSearchReply(t *testing.T) {
	m := newTestModel(t, []search.FileInput{{Path: "a.txt", Content: "alpha\nbeta\n"}})

	m.query = "alpha"
	_, cmd := m.Update(startSearchMsg{Query: "alpha", Mask: ""})
	require.NotNil(t, cmd)
	stale := cmd().(SearchResultMsg)

	m.query = "beta"
	_, cmd = m.Update(startSearchMsg{Query: "beta", Mask: ""})
	require.NotNil(t, cmd)
	fresh := cmd().(SearchResultMsg)

	m.Update(stale)
	assert.Nil(t, m.searchResults, "stale reply must not install results")
	assert.True(t, m.isSearching)

	m.Update(fresh)
	require.Len(t, m.searchResults, 1)
	assert.Equal(t, "beta", m.searchResults[0].LineText)
}

func TestModelIgnoresOutdatedDebounceTick(t *testing.T) {
	m := newTestModel(t, []search.FileInput{{Path: "a.txt", Content: "alpha\n"}})

	// The query moved on while the tick was in flight
	m.query = "alph"
	_, cmd := m.Update(startSearchMsg{Query: "alp", Mask: ""})
	assert.Nil(t, cmd)
	assert.False(t, m.isSearching)
}

func TestModelShowsPatternError(t *testing.T) {
	m := newTestModel(t, []search.FileInput{{Path: "a.txt", Content: "alpha\n"}})

	m.query = "[bad"
	_, cmd := m.Update(startSearchMsg{Query: "[bad", Mask: ""})
	require.NotNil(t, cmd)

	m.Update(cmd().(SearchResultMsg))

	require.Error(t, m.searchError)
	assert.Contains(t, m.searchError.Error(), `invalid regex pattern "[bad"`)
	assert.Nil(t, m.searchResults)
	assert.Contains(t, renderStatus(m), m.searchError.Error())
}

func TestModelTypingDrivesSearch(t *testing.T) {
	m := newTestModel(t, []search.FileInput{{Path: "a.txt", Content: "go gopher\n"}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("go")})
	assert.Equal(t, "go", m.query)
	require.NotNil(t, cmd, "typing schedules a debounced search")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "g", m.query)
	require.NotNil(t, cmd)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "", m.query)
	assert.Nil(t, cmd, "empty query clears instead of searching")
	assert.Nil(t, m.searchResults)
}

func TestModelBackspaceRemovesWholeRune(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("日本")})
	assert.Equal(t, "日本", m.query)

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "日", m.query)
}

func TestModelTabSwitchesToMaskInput(t *testing.T) {
	m := newTestModel(t, []search.FileInput{
		{Path: "a.go", Content: "needle\n"},
		{Path: "a.txt", Content: "needle\n"},
	})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("needle")})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, InputModeMask, m.inputMode)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("*.go")})
	assert.Equal(t, "*.go", m.mask)
	assert.Equal(t, "needle", m.query)
	require.NotNil(t, cmd)

	_, cmd = m.Update(startSearchMsg{Query: "needle", Mask: "*.go"})
	require.NotNil(t, cmd)
	m.Update(cmd().(SearchResultMsg))

	require.Len(t, m.searchResults, 1)
	assert.Equal(t, "a.go", m.searchResults[0].Path)
}

func TestModelNavigationAndScroll(t *testing.T) {
	var files []search.FileInput
	for i := 0; i < 8; i++ {
		files = append(files, search.FileInput{
			Path:    fmt.Sprintf("f%d.txt", i),
			Content: "needle\n",
		})
	}
	m := newTestModel(t, files)

	m.query = "needle"
	_, cmd := m.Update(startSearchMsg{Query: "needle", Mask: ""})
	require.NotNil(t, cmd)
	m.Update(cmd().(SearchResultMsg))
	require.Len(t, m.searchResults, 8)
	assert.Equal(t, 0, m.selectedIndex)

	// Walk past the bottom; the 5-row window follows the selection
	for i := 0; i < 10; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 7, m.selectedIndex)
	assert.Equal(t, 3, m.resultsOffset)
	require.NotNil(t, m.preview)
	assert.Equal(t, "f7.txt", m.preview.Path)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 6, m.selectedIndex)
	assert.Equal(t, 3, m.resultsOffset)
}

func TestModelCaseToggle(t *testing.T) {
	m := newTestModel(t, []search.FileInput{{Path: "a.txt", Content: "Alpha\nalpha\n"}})
	require.True(t, m.caseSensitive)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("alpha")})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'ç'}})
	assert.False(t, m.caseSensitive)
	require.NotNil(t, cmd)

	_, cmd = m.Update(startSearchMsg{Query: "alpha", Mask: ""})
	require.NotNil(t, cmd)
	m.Update(cmd().(SearchResultMsg))
	assert.Len(t, m.searchResults, 2)
}

func TestModelScopeSwitchRequiresGitRoot(t *testing.T) {
	m := newTestModel(t, nil)
	require.Empty(t, m.gitRoot)
	assert.Equal(t, scopeDirectory, m.searchScope)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'π'}})
	assert.Nil(t, cmd)
	assert.Equal(t, scopeDirectory, m.searchScope)
}

func TestModelScopeSwitchWithGitRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	sub := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	m := New(&config.Config{Root: sub, CaseSensitive: true})
	assert.Equal(t, scopeProject, m.searchScope)
	assert.Equal(t, dir, m.gitRoot)
	assert.Equal(t, dir, m.scopeRoot())

	cmd := m.switchScope(scopeDirectory)
	require.NotNil(t, cmd, "scope change reloads the corpus")
	assert.Equal(t, sub, m.scopeRoot())
}

func TestModelCorpusLoadRetriggersPendingQuery(t *testing.T) {
	m := New(&config.Config{Root: t.TempDir(), Pattern: "alpha", CaseSensitive: true})

	_, cmd := m.Update(corpusLoadedMsg{files: []search.FileInput{{Path: "a.txt", Content: "alpha\n"}}})
	require.NotNil(t, cmd, "a pre-filled pattern searches as soon as files arrive")
}

func TestModelCorpusLoadError(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(corpusLoadedMsg{err: errors.New("walk /x: permission denied")})
	require.Error(t, m.corpusError)
	assert.Contains(t, renderStatus(m), "permission denied")
}

func TestModelEnterWithoutEditorShowsError(t *testing.T) {
	m := newTestModel(t, []search.FileInput{{Path: "a.txt", Content: "alpha\n"}})
	m.editor = ""

	m.query = "alpha"
	_, cmd := m.Update(startSearchMsg{Query: "alpha", Mask: ""})
	require.NotNil(t, cmd)
	m.Update(cmd().(SearchResultMsg))
	require.Len(t, m.searchResults, 1)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "a failed open keeps the picker running")
	require.Error(t, m.searchError)
	assert.Contains(t, m.searchError.Error(), "no editor configured")
}

func TestRenderStatusCounts(t *testing.T) {
	m := newTestModel(t, []search.FileInput{
		{Path: "a.txt", Content: "x\n"},
		{Path: "b.txt", Content: "x\nx\n"},
	})

	m.query = "x"
	_, cmd := m.Update(startSearchMsg{Query: "x", Mask: ""})
	require.NotNil(t, cmd)
	m.Update(cmd().(SearchResultMsg))

	assert.Equal(t, "3 matches in 2 files", renderStatus(m))

	m.searchResults = m.searchResults[:1]
	assert.Equal(t, "1 match in 1 file", renderStatus(m))

	m.searchResults = nil
	assert.Equal(t, "No matches found", renderStatus(m))

	m.query = ""
	assert.Equal(t, "Enter a search query... (2 files)", renderStatus(m))
}
