package tui

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/takaishi/simplefind/config"
	"github.com/takaishi/simplefind/editor"
	"github.com/takaishi/simplefind/loader"
	"github.com/takaishi/simplefind/preview"
	"github.com/takaishi/simplefind/search"
)

const debounceDuration = 250 * time.Millisecond

// Search scopes
const (
	scopeProject   = "project"
	scopeDirectory = "directory"
)

// InputMode represents which input field is active
type InputMode int

const (
	InputModeQuery InputMode = iota
	InputModeMask
)

// Model represents the application state
type Model struct {
	// Input fields
	query      string
	mask       string
	inputMode  InputMode
	queryInput textInput
	maskInput  textInput

	// Search state
	searcher      *Searcher
	searchCancel  context.CancelFunc
	searchResults []search.MatchResult
	selectedIndex int
	resultsOffset int // Scroll offset for results list
	isSearching   bool
	searchError   error
	caseSensitive bool

	// Corpus state
	corpusLoading bool
	corpusError   error

	// Preview state
	preview *preview.Preview

	// Editor
	editor editor.Editor

	// Search scope
	searchScope string
	gitRoot     string
	currentDir  string
	maxFileSize int64
	excludeDirs []string

	// UI dimensions
	width  int
	height int
}

// textInput represents a simple text input field
type textInput struct {
	value string
}

// New creates a new Model instance. The pattern and mask from cfg pre-fill
// the inputs.
func New(cfg *config.Config) *Model {
	// Detect git repository and set initial search scope
	gitRoot, isGitRepo := loader.FindGitRoot(cfg.Root)

	searchScope := scopeDirectory
	if isGitRepo {
		searchScope = scopeProject
	}

	m := &Model{
		searcher:      NewSearcher(nil),
		editor:        cfg.Editor,
		inputMode:     InputModeQuery,
		selectedIndex: -1,
		searchScope:   searchScope,
		gitRoot:       gitRoot,
		currentDir:    cfg.Root,
		caseSensitive: cfg.CaseSensitive,
		maxFileSize:   cfg.MaxFileSize,
		excludeDirs:   cfg.ExcludeDirs,
	}

	m.queryInput.value = cfg.Pattern
	m.query = cfg.Pattern
	if cfg.Mask != "" && cfg.Mask != "*" {
		m.maskInput.value = cfg.Mask
		m.mask = cfg.Mask
	}

	return m
}

// SetEditor sets the editor to use
func (m *Model) SetEditor(ed editor.Editor) {
	m.editor = ed
}

// Init loads the corpus for the initial scope
func (m *Model) Init() tea.Cmd {
	return m.reloadCorpus()
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case corpusLoadedMsg:
		return m.handleCorpusLoaded(msg)

	case startSearchMsg:
		return m.handleStartSearch(msg)

	case SearchResultMsg:
		return m.handleSearchResult(msg)

	default:
		return m, nil
	}
}

// View renders the UI
func (m *Model) View() string {
	return renderView(m)
}

// Start starts the Bubble Tea program
func (m *Model) Start() error {
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := program.Run()
	return err
}

// handleKey processes keyboard input
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// macOS sends Option+P as π, Option+D as ∂ and Option+C as ç: plain
	// runes without the Alt modifier flag. Intercept them before they
	// reach the text inputs.
	if len(msg.Runes) > 0 {
		switch msg.Runes[0] {
		case 'π':
			return m, m.switchScope(scopeProject)
		case '∂':
			return m, m.switchScope(scopeDirectory)
		case 'ç':
			return m, m.toggleCase()
		}
	}

	// Terminals that report a real Alt modifier
	if msg.Alt && len(msg.Runes) > 0 {
		switch msg.Runes[0] {
		case 'p', 'P':
			return m, m.switchScope(scopeProject)
		case 'd', 'D':
			return m, m.switchScope(scopeDirectory)
		case 'c', 'C':
			return m, m.toggleCase()
		}
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		if m.searchCancel != nil {
			m.searchCancel()
		}
		return m, tea.Quit

	case "tab":
		// Switch between query and mask input
		if m.inputMode == InputModeQuery {
			m.inputMode = InputModeMask
		} else {
			m.inputMode = InputModeQuery
		}
		return m, nil

	case "up", "ctrl+p":
		if m.selectedIndex > 0 {
			m.selectedIndex--
			m.adjustScroll()
			m.loadPreview()
		}
		return m, nil

	case "down", "ctrl+n":
		if m.selectedIndex < len(m.searchResults)-1 {
			m.selectedIndex++
			m.adjustScroll()
			m.loadPreview()
		}
		return m, nil

	case "enter":
		return m.openSelected()

	default:
		return m.handleTextInput(msg)
	}
}

// handleTextInput processes text input for the query and mask fields
func (m *Model) handleTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	input := &m.queryInput
	if m.inputMode == InputModeMask {
		input = &m.maskInput
	}

	switch msg.String() {
	case "backspace":
		if len(input.value) > 0 {
			runes := []rune(input.value)
			input.value = string(runes[:len(runes)-1])
		}
	case " ":
		input.value += " "
	default:
		if msg.Type != tea.KeyRunes {
			return m, nil
		}
		input.value += string(msg.Runes)
	}

	if m.inputMode == InputModeQuery {
		m.query = input.value
	} else {
		m.mask = input.value
	}

	return m, m.triggerSearch()
}

// switchScope changes the search scope and reloads the corpus
func (m *Model) switchScope(scope string) tea.Cmd {
	if scope == scopeProject && m.gitRoot == "" {
		return nil
	}
	if m.searchScope == scope {
		return nil
	}
	m.searchScope = scope
	return m.reloadCorpus()
}

// toggleCase flips case sensitivity and re-runs the current query
func (m *Model) toggleCase() tea.Cmd {
	m.caseSensitive = !m.caseSensitive
	return m.triggerSearch()
}

// scopeRoot returns the directory the active scope searches under
func (m *Model) scopeRoot() string {
	if m.searchScope == scopeProject && m.gitRoot != "" {
		return m.gitRoot
	}
	return m.currentDir
}

// reloadCorpus loads all files under the active scope into memory
func (m *Model) reloadCorpus() tea.Cmd {
	m.corpusLoading = true
	opts := loader.Options{
		Root:        m.scopeRoot(),
		MaxFileSize: m.maxFileSize,
		ExcludeDirs: m.excludeDirs,
	}
	return func() tea.Msg {
		files, err := loader.Load(context.Background(), opts)
		return corpusLoadedMsg{files: files, err: err}
	}
}

// triggerSearch starts a new search with debounce
func (m *Model) triggerSearch() tea.Cmd {
	// Cancel previous search if any
	if m.searchCancel != nil {
		m.searchCancel()
		m.searchCancel = nil
	}

	// Reset selection and scroll
	m.selectedIndex = -1
	m.resultsOffset = 0
	m.preview = nil
	m.searchError = nil

	// If query is empty, clear results
	if m.query == "" {
		m.searchResults = nil
		m.isSearching = false
		return nil
	}

	query := m.query
	mask := m.mask
	return tea.Tick(debounceDuration, func(time.Time) tea.Msg {
		return startSearchMsg{Query: query, Mask: mask}
	})
}

// startSearchMsg is sent after debounce to start the actual search
type startSearchMsg struct {
	Query string
	Mask  string
}

// corpusLoadedMsg is sent when the corpus for the active scope is in memory
type corpusLoadedMsg struct {
	files []search.FileInput
	err   error
}

// handleStartSearch starts the actual search
func (m *Model) handleStartSearch(msg startSearchMsg) (tea.Model, tea.Cmd) {
	// Only start if the input hasn't moved on since the debounce tick
	if m.query != msg.Query || m.mask != msg.Mask {
		return m, nil
	}
	if m.corpusLoading {
		// handleCorpusLoaded retriggers the search once files are in
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.searchCancel = cancel
	m.isSearching = true
	m.searchError = nil

	resultChan := m.searcher.Search(ctx, msg.Query, msg.Mask, m.caseSensitive)
	return m, func() tea.Msg {
		return <-resultChan
	}
}

// handleSearchResult processes search results
func (m *Model) handleSearchResult(msg SearchResultMsg) (tea.Model, tea.Cmd) {
	if msg.SearchID != m.searcher.CurrentID() {
		// Stale reply from a superseded search
		return m, nil
	}

	m.isSearching = false
	m.searchCancel = nil

	if msg.Err != nil {
		m.searchError = msg.Err
		m.searchResults = nil
		return m, nil
	}

	m.searchResults = msg.Results
	m.searchError = nil

	// Auto-select first result if available
	if len(m.searchResults) > 0 && m.selectedIndex < 0 {
		m.selectedIndex = 0
		m.resultsOffset = 0
		m.loadPreview()
	}

	return m, nil
}

// handleCorpusLoaded installs the freshly loaded corpus
func (m *Model) handleCorpusLoaded(msg corpusLoadedMsg) (tea.Model, tea.Cmd) {
	m.corpusLoading = false
	if msg.err != nil {
		m.corpusError = msg.err
		return m, nil
	}

	m.corpusError = nil
	m.searcher.SetCorpus(msg.files)

	if m.query != "" {
		return m, m.triggerSearch()
	}
	return m, nil
}

// adjustScroll adjusts the scroll offset to keep the selected item visible
func (m *Model) adjustScroll() {
	const visibleResults = 5

	if len(m.searchResults) <= visibleResults {
		m.resultsOffset = 0
		return
	}

	if m.selectedIndex < m.resultsOffset {
		m.resultsOffset = m.selectedIndex
	}
	if m.selectedIndex >= m.resultsOffset+visibleResults {
		m.resultsOffset = m.selectedIndex - visibleResults + 1
	}

	if m.resultsOffset < 0 {
		m.resultsOffset = 0
	}
	maxOffset := len(m.searchResults) - visibleResults
	if m.resultsOffset > maxOffset {
		m.resultsOffset = maxOffset
	}
}

// loadPreview rebuilds the preview for the currently selected result. The
// corpus is in memory, so this is synchronous.
func (m *Model) loadPreview() {
	m.preview = nil
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.searchResults) {
		return
	}

	result := m.searchResults[m.selectedIndex]
	file, ok := m.searcher.File(result.Path)
	if !ok {
		return
	}
	m.preview = preview.FromContent(file, result.Line)
}

// openSelected opens the selected match in the editor and quits
func (m *Model) openSelected() (tea.Model, tea.Cmd) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.searchResults) {
		return m, nil
	}

	result := m.searchResults[m.selectedIndex]
	path := filepath.Join(m.scopeRoot(), filepath.FromSlash(result.Path))
	if err := editor.OpenFile(m.editor, path, result.Line, result.Column); err != nil {
		m.searchError = err
		return m, nil
	}
	return m, tea.Quit
}
