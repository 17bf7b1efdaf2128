package tui

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"

	"github.com/takaishi/simplefind/config"
	"github.com/takaishi/simplefind/editor"
	"github.com/takaishi/simplefind/loader"
	"github.com/takaishi/simplefind/preview"
	"github.com/takaishi/simplefind/search"
)

const appDebounceDuration = 250 * time.Millisecond

// App is the tview backend, selected with -ui tview
type App struct {
	app *tview.Application

	// UI components
	queryInput   *tview.InputField
	maskInput    *tview.InputField
	maskCheckbox *tview.Checkbox
	resultsList  *tview.List
	previewText  *tview.TextView
	statusText   *tview.TextView
	scopeTabs    *tview.TextView
	headerFlex   *tview.Flex
	scopeFlex    *tview.Flex
	flex         *tview.Flex

	// State
	query         string
	mask          string
	maskEnabled   bool
	caseSensitive bool
	searcher      *Searcher
	searchCancel  context.CancelFunc
	searchResults []search.MatchResult
	selectedIndex int
	isSearching   bool
	searchError   error
	preview       *preview.Preview
	editor        editor.Editor
	searchScope   string
	gitRoot       string
	currentDir    string
	maxFileSize   int64
	excludeDirs   []string

	// Debounce
	searchTimer *time.Timer
}

// NewApp creates a new App instance
func NewApp(cfg *config.Config) *App {
	gitRoot, isGitRepo := loader.FindGitRoot(cfg.Root)

	searchScope := scopeDirectory
	if isGitRepo {
		searchScope = scopeProject
	}

	a := &App{
		app:           tview.NewApplication(),
		searcher:      NewSearcher(nil),
		editor:        cfg.Editor,
		searchScope:   searchScope,
		gitRoot:       gitRoot,
		currentDir:    cfg.Root,
		caseSensitive: cfg.CaseSensitive,
		maxFileSize:   cfg.MaxFileSize,
		excludeDirs:   cfg.ExcludeDirs,
		maskEnabled:   true,
		selectedIndex: -1,
		query:         cfg.Pattern,
	}
	if cfg.Mask != "" && cfg.Mask != "*" {
		a.mask = cfg.Mask
	}

	a.setupUI()
	return a
}

// SetEditor sets the editor to use
func (a *App) SetEditor(ed editor.Editor) {
	a.editor = ed
}

// Start loads the corpus in the background and runs the application
func (a *App) Start() error {
	go a.loadCorpus()
	return a.app.Run()
}

// setupUI creates and configures all UI components
func (a *App) setupUI() {
	a.queryInput = tview.NewInputField().
		SetLabel("Find in Files ").
		SetFieldWidth(0).
		SetFieldBackgroundColor(tcell.ColorDefault)
	a.queryInput.SetText(a.query)
	// Attach the change handler after the initial text so the pre-filled
	// pattern does not fire a search before the corpus exists
	a.queryInput.SetChangedFunc(a.onQueryChanged)
	a.queryInput.SetBorder(false)

	maskText := a.mask
	if maskText == "" {
		maskText = "*"
	}
	a.maskInput = tview.NewInputField().
		SetLabel("File mask: ").
		SetFieldWidth(15).
		SetFieldBackgroundColor(tcell.ColorDefault)
	a.maskInput.SetText(maskText)
	a.maskInput.SetChangedFunc(a.onMaskChanged)
	a.maskInput.SetBorder(false)

	a.maskCheckbox = tview.NewCheckbox().
		SetLabel("[x]").
		SetChecked(true).
		SetChangedFunc(a.onMaskCheckboxChanged)
	a.maskCheckbox.SetBorder(false)

	a.resultsList = tview.NewList().
		SetSelectedFunc(a.onResultSelected).
		SetChangedFunc(a.onResultChanged).
		SetHighlightFullLine(true).
		SetSelectedBackgroundColor(tcell.ColorBlue).
		SetSelectedTextColor(tcell.ColorWhite).
		ShowSecondaryText(false)
	a.resultsList.SetBorder(true).
		SetTitle(" Results ").
		SetBorderColor(tcell.ColorWhite)

	a.previewText = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(false).
		SetScrollable(true)
	a.previewText.SetBorder(true).
		SetTitle(" Preview ").
		SetBorderColor(tcell.ColorWhite)

	a.statusText = tview.NewTextView().
		SetText("Loading files...").
		SetTextAlign(tview.AlignLeft)

	a.scopeTabs = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	a.scopeTabs.SetBorder(false)

	a.buildLayout()

	a.app.SetInputCapture(a.handleGlobalKeys)
}

// buildLayout creates the UI layout
func (a *App) buildLayout() {
	a.headerFlex = tview.NewFlex().
		AddItem(a.queryInput, 0, 1, true).
		AddItem(nil, 0, 1, false). // Spacer pushing the mask to the right
		AddItem(a.maskCheckbox, 3, 0, false).
		AddItem(a.maskInput, 26, 0, false)
	a.headerFlex.SetBorder(true).
		SetBorderColor(tcell.ColorWhite)

	a.scopeFlex = tview.NewFlex().
		AddItem(a.scopeTabs, 0, 1, false)
	a.scopeFlex.SetBorder(true).
		SetTitle(" Scope ").
		SetBorderColor(tcell.ColorWhite)

	a.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.headerFlex, 3, 0, false).
		AddItem(a.scopeFlex, 3, 0, false).
		AddItem(a.resultsList, 7, 0, true).
		AddItem(a.previewText, 0, 1, false).
		AddItem(a.statusText, 1, 0, false)

	a.app.SetRoot(a.flex, true)
	a.updateScopeTabs()
	a.app.SetFocus(a.queryInput)
}

// scopeRoot returns the directory the active scope searches under
func (a *App) scopeRoot() string {
	if a.searchScope == scopeProject && a.gitRoot != "" {
		return a.gitRoot
	}
	return a.currentDir
}

// loadCorpus loads all files under the active scope into memory, then
// re-runs the current query
func (a *App) loadCorpus() {
	files, err := loader.Load(context.Background(), loader.Options{
		Root:        a.scopeRoot(),
		MaxFileSize: a.maxFileSize,
		ExcludeDirs: a.excludeDirs,
	})

	a.app.QueueUpdateDraw(func() {
		if err != nil {
			a.statusText.SetText("Error: " + err.Error())
			return
		}
		a.searcher.SetCorpus(files)
		if a.query != "" {
			a.triggerSearch()
		} else {
			a.updateStatus()
		}
	})
}

// switchScope changes the search scope and reloads the corpus
func (a *App) switchScope(scope string) {
	if scope == scopeProject && a.gitRoot == "" {
		return
	}
	if a.searchScope == scope {
		return
	}
	a.searchScope = scope
	a.updateScopeTabs()
	a.statusText.SetText("Loading files...")
	go a.loadCorpus()
}

// updateScopeTabs updates the scope tabs display
func (a *App) updateScopeTabs() {
	var projectTab, directoryTab string
	if a.searchScope == scopeProject {
		projectTab = "[white:blue]In Project[white:black]"
		directoryTab = "In Directory"
	} else {
		projectTab = "In Project"
		directoryTab = "[white:blue]In Directory[white:black]"
	}

	scopeText := directoryTab
	if a.gitRoot != "" {
		scopeText = projectTab + "  " + directoryTab
	}

	caseTab := "cc"
	if a.caseSensitive {
		caseTab = "[white:blue]Cc[white:black]"
	}
	a.scopeTabs.SetText(scopeText + "  " + caseTab)
}

// handleGlobalKeys handles global keyboard shortcuts
func (a *App) handleGlobalKeys(event *tcell.EventKey) *tcell.EventKey {
	currentFocus := a.app.GetFocus()
	if currentFocus == a.headerFlex {
		a.app.SetFocus(a.queryInput)
		currentFocus = a.queryInput
	}

	// Quit works everywhere
	if event.Key() == tcell.KeyEscape || event.Key() == tcell.KeyCtrlC {
		if a.searchCancel != nil {
			a.searchCancel()
		}
		a.app.Stop()
		return nil
	}

	// Scope and case shortcuts work everywhere. macOS sends Option+P as π,
	// Option+D as ∂ and Option+C as ç without the Alt modifier.
	if event.Key() == tcell.KeyRune {
		r := event.Rune()
		alt := event.Modifiers()&tcell.ModAlt != 0
		switch {
		case r == 'π' || (alt && (r == 'p' || r == 'P')):
			a.switchScope(scopeProject)
			return nil
		case r == '∂' || (alt && (r == 'd' || r == 'D')):
			a.switchScope(scopeDirectory)
			return nil
		case r == 'ç' || (alt && (r == 'c' || r == 'C')):
			a.caseSensitive = !a.caseSensitive
			a.updateScopeTabs()
			a.triggerSearch()
			return nil
		}
	}

	if currentFocus == a.resultsList {
		// tviewのListコンポーネントは上下キーで自動的に選択を移動するので、
		// ここではイベントをそのまま返す必要がある
		if event.Key() == tcell.KeyUp || event.Key() == tcell.KeyDown {
			return event
		}
		if event.Key() == tcell.KeyEnter {
			a.openSelected(a.resultsList.GetCurrentItem())
			return nil
		}
		// Vim-style navigation while the list has focus
		if event.Key() == tcell.KeyRune {
			if event.Rune() == 'j' || event.Rune() == 'J' {
				a.moveSelection(1)
				return nil
			}
			if event.Rune() == 'k' || event.Rune() == 'K' {
				a.moveSelection(-1)
				return nil
			}
		}
		if event.Key() == tcell.KeyTab {
			a.app.SetFocus(a.queryInput)
			return nil
		}
		return event
	}

	if currentFocus == a.queryInput || currentFocus == a.maskInput {
		// Arrow keys move the selection without leaving the input, so the
		// query can keep changing while browsing results
		if (event.Key() == tcell.KeyUp || event.Key() == tcell.KeyDown) && len(a.searchResults) > 0 {
			if event.Key() == tcell.KeyUp {
				a.moveSelection(-1)
			} else {
				a.moveSelection(1)
			}
			return nil
		}
		if event.Key() == tcell.KeyEnter && len(a.searchResults) > 0 {
			idx := a.selectedIndex
			if idx < 0 {
				idx = 0
			}
			a.openSelected(idx)
			return nil
		}
		if event.Key() == tcell.KeyTab {
			if currentFocus == a.queryInput {
				a.app.SetFocus(a.maskInput)
			} else if len(a.searchResults) > 0 {
				a.app.SetFocus(a.resultsList)
			} else {
				a.app.SetFocus(a.queryInput)
			}
			return nil
		}
		// Everything else, including j and k, is text input
		return event
	}

	if event.Key() == tcell.KeyTab {
		a.app.SetFocus(a.queryInput)
		return nil
	}
	return event
}

// moveSelection moves the result selection by delta, clamped to the list
func (a *App) moveSelection(delta int) {
	if len(a.searchResults) == 0 {
		return
	}

	idx := a.selectedIndex
	if idx < 0 {
		idx = 0
	} else {
		idx += delta
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(a.searchResults) {
		idx = len(a.searchResults) - 1
	}

	a.resultsList.SetCurrentItem(idx)
	a.selectedIndex = idx
	a.loadPreview(a.searchResults[idx])
}

// openSelected opens the match at idx in the editor and stops the app
func (a *App) openSelected(idx int) {
	if idx < 0 || idx >= len(a.searchResults) {
		return
	}

	result := a.searchResults[idx]
	target := filepath.Join(a.scopeRoot(), filepath.FromSlash(result.Path))
	if err := editor.OpenFile(a.editor, target, result.Line, result.Column); err != nil {
		a.statusText.SetText("Error: " + err.Error())
		return
	}
	a.app.Stop()
}

// onQueryChanged is called when query input changes
func (a *App) onQueryChanged(text string) {
	if a.query != text {
		a.query = text
		a.triggerSearch()
	}
}

// onMaskChanged is called when mask input changes
func (a *App) onMaskChanged(text string) {
	if a.mask != text {
		a.mask = text
		a.triggerSearch()
	}
}

// onMaskCheckboxChanged is called when the mask checkbox changes
func (a *App) onMaskCheckboxChanged(checked bool) {
	a.maskEnabled = checked
	if checked {
		a.maskCheckbox.SetLabel("[x]")
	} else {
		a.maskCheckbox.SetLabel("[ ]")
	}
	a.triggerSearch()
}

// onResultSelected is called when a result is selected (Enter)
func (a *App) onResultSelected(index int, mainText, secondaryText string, shortcut rune) {
	a.openSelected(index)
}

// onResultChanged is called when result selection changes
func (a *App) onResultChanged(index int, mainText, secondaryText string, shortcut rune) {
	a.selectedIndex = index
	if index >= 0 && index < len(a.searchResults) {
		a.loadPreview(a.searchResults[index])
	} else {
		a.selectedIndex = -1
		a.previewText.Clear()
		a.preview = nil
	}
}

// triggerSearch starts a new search with debounce
func (a *App) triggerSearch() {
	if a.searchTimer != nil {
		a.searchTimer.Stop()
	}
	if a.searchCancel != nil {
		a.searchCancel()
		a.searchCancel = nil
	}

	a.selectedIndex = -1
	a.resultsList.Clear()
	a.previewText.Clear()
	a.preview = nil
	a.searchError = nil

	if a.query == "" {
		a.searchResults = nil
		a.isSearching = false
		a.updateStatus()
		return
	}

	a.searchTimer = time.AfterFunc(appDebounceDuration, func() {
		a.app.QueueUpdateDraw(a.performSearch)
	})
}

// performSearch executes the actual search
func (a *App) performSearch() {
	a.isSearching = true
	a.updateStatus()

	ctx, cancel := context.WithCancel(context.Background())
	a.searchCancel = cancel

	mask := a.mask
	if !a.maskEnabled {
		mask = ""
	}

	resultChan := a.searcher.Search(ctx, a.query, mask, a.caseSensitive)

	go func() {
		msg, ok := <-resultChan
		if !ok {
			// Canceled; a newer search owns the UI
			return
		}
		a.app.QueueUpdateDraw(func() {
			if msg.SearchID != a.searcher.CurrentID() {
				return
			}
			a.isSearching = false
			a.searchCancel = nil

			if msg.Err != nil {
				a.searchError = msg.Err
				a.searchResults = nil
				a.updateStatus()
				return
			}

			a.searchResults = msg.Results
			a.searchError = nil
			a.updateResultsList()
			a.updateStatus()
		})
	}()
}

// updateResultsList updates the results list display
func (a *App) updateResultsList() {
	a.resultsList.Clear()

	_, _, width, _ := a.resultsList.GetRect()
	if width == 0 {
		width = 80
	}

	for _, result := range a.searchResults {
		a.resultsList.AddItem(formatResultLine(result, width), "", 0, nil)
	}

	if len(a.searchResults) > 0 {
		a.selectedIndex = 0
		a.resultsList.SetCurrentItem(0)
		a.loadPreview(a.searchResults[0])
	} else {
		a.selectedIndex = -1
	}
}

// formatResultLine lays a result out as snippet | padding | file:line,
// measured in display cells so wide runes do not break the right edge
func formatResultLine(result search.MatchResult, width int) string {
	fileInfo := path.Base(result.Path) + ":" + strconv.Itoa(result.Line)
	fileInfoWidth := runewidth.StringWidth(fileInfo)

	codeWidth := width - fileInfoWidth - 3
	if codeWidth < 10 {
		codeWidth = 10
	}

	snippet := runewidth.Truncate(result.LineText, codeWidth, "...")

	padding := width - runewidth.StringWidth(snippet) - 3 - fileInfoWidth
	if padding < 0 {
		padding = 0
	}

	return snippet + " | " + strings.Repeat(" ", padding) + fileInfo
}

// updateStatus updates the status text
func (a *App) updateStatus() {
	if a.isSearching {
		a.statusText.SetText("Searching...")
		return
	}
	if a.searchError != nil {
		a.statusText.SetText("Error: " + a.searchError.Error())
		return
	}
	if a.query == "" {
		a.statusText.SetText(fmt.Sprintf("Enter a search query... (%d files)", a.searcher.Size()))
		return
	}
	if len(a.searchResults) == 0 {
		a.statusText.SetText("No matches found")
		return
	}

	fileMap := make(map[string]bool)
	for _, result := range a.searchResults {
		fileMap[result.Path] = true
	}
	a.statusText.SetText(formatMatchCount(len(a.searchResults), len(fileMap)))
}

// formatMatchCount renders counts JetBrains style, capping at 100+
func formatMatchCount(matches, files int) string {
	if matches == 1 {
		return "1 match in 1 file"
	}

	matchText := strconv.Itoa(matches)
	if matches >= 100 {
		matchText = "100+"
	}
	fileText := strconv.Itoa(files)
	if files >= 100 {
		fileText = "100+"
	}

	s := matchText + " matches in " + fileText
	if files == 1 {
		return s + " file"
	}
	return s + " files"
}

// loadPreview loads the preview for the selected result from the corpus
func (a *App) loadPreview(result search.MatchResult) {
	file, ok := a.searcher.File(result.Path)
	if !ok {
		a.previewText.Clear()
		a.preview = nil
		return
	}

	a.preview = preview.FromContent(file, result.Line)
	a.renderPreview()
}

// renderPreview renders the preview content
func (a *App) renderPreview() {
	if a.preview == nil {
		a.previewText.Clear()
		return
	}

	var lines []string
	lines = append(lines, "[yellow:black:b]"+a.preview.Path+"[white:black]")
	lines = append(lines, "")

	for i, line := range a.preview.Lines {
		lineNum := a.preview.StartLine + i
		lineNumStr := fmt.Sprintf("%4d", lineNum)
		// Escape so code containing [ is not eaten as a color tag
		line = tview.Escape(line)
		if i+1 == a.preview.HitLine {
			lines = append(lines, "[white:blue]"+lineNumStr+"[white:black] | [yellow:black]"+line+"[white:black]")
		} else {
			lines = append(lines, "[gray:black]"+lineNumStr+"[white:black] | "+line)
		}
	}

	a.previewText.SetText(strings.Join(lines, "\n"))
}
