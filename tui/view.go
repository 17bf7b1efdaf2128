package tui

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/takaishi/simplefind/search"
)

var (
	// Header styles
	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	searchIconStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	queryInputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236"))

	maskLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	scopeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 1)

	scopeInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 1)

	// Result styles
	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedResultStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("25"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Background(lipgloss.Color("236")).
			Bold(true)

	fileInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Align(lipgloss.Right).
			PaddingLeft(1)

	// Preview styles
	previewHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Bold(true)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(6).
			Align(lipgloss.Right)

	hitLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("25"))

	hitLineNumberStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("25")).
				Width(6).
				Align(lipgloss.Right)
)

// renderView renders the entire UI
func renderView(m *Model) string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	// One compiled matcher per frame drives all highlighting, so the
	// highlighted spans are exactly what the scanner matched
	matcher := compileQuery(m)

	headerHeight := 3
	statusHeight := 1
	const resultsHeight = 5
	previewHeight := m.height - headerHeight - statusHeight - resultsHeight - 2
	if previewHeight < 5 {
		previewHeight = 5
	}

	var sections []string
	sections = append(sections, renderHeader(m))
	sections = append(sections, renderResults(m, matcher))
	sections = append(sections, renderPreview(m, matcher, previewHeight))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// compileQuery compiles the current query for highlighting; nil when the
// query is empty or invalid
func compileQuery(m *Model) *search.Matcher {
	if m.query == "" {
		return nil
	}
	matcher, err := search.Compile(m.query, m.caseSensitive)
	if err != nil {
		return nil
	}
	return matcher
}

// renderHeader renders the search bar with icon, query, mask, and status
func renderHeader(m *Model) string {
	icon := searchIconStyle.Render("🔍")

	queryValue := m.queryInput.value
	if m.inputMode == InputModeQuery {
		queryValue += "█" // Cursor indicator
	}
	queryDisplay := queryInputStyle.Render(queryValue)

	maskValue := m.maskInput.value
	if maskValue == "" {
		maskValue = "*"
	}
	if m.inputMode == InputModeMask {
		maskValue += "█" // Cursor indicator
	}
	maskDisplay := maskLabelStyle.Render(fmt.Sprintf("File mask: %s", maskValue))

	// Case sensitivity badge
	caseTab := scopeInactiveStyle.Render("Cc")
	if m.caseSensitive {
		caseTab = scopeStyle.Render("Cc")
	}

	// Search scope tabs (In Project / In Directory)
	var projectTab, directoryTab string
	if m.searchScope == scopeProject {
		projectTab = scopeStyle.Render("In Project")
		directoryTab = scopeInactiveStyle.Render("In Directory")
	} else {
		projectTab = scopeInactiveStyle.Render("In Project")
		directoryTab = scopeStyle.Render("In Directory")
	}

	// Only show the project tab if a git repository was detected
	scopeTabs := directoryTab
	if m.gitRoot != "" {
		scopeTabs = lipgloss.JoinHorizontal(lipgloss.Left, projectTab, " ", directoryTab)
	}

	headerLine := lipgloss.JoinHorizontal(lipgloss.Left,
		icon+" ",
		queryDisplay,
		"  ",
		maskDisplay,
		"  ",
		caseTab,
		" ",
		scopeTabs,
	)

	statusLine := statusStyle.Render(renderStatus(m))

	header := lipgloss.JoinVertical(lipgloss.Left, headerLine, statusLine)
	return headerStyle.Width(m.width - 2).Render(header)
}

// renderStatus renders the status information
func renderStatus(m *Model) string {
	if m.corpusLoading {
		return "Loading files..."
	}
	if m.corpusError != nil {
		return fmt.Sprintf("Error: %s", m.corpusError.Error())
	}
	if m.isSearching {
		return "Searching..."
	}
	if m.searchError != nil {
		// Pattern errors reach the user exactly as reported
		return fmt.Sprintf("Error: %s", m.searchError.Error())
	}
	if len(m.searchResults) == 0 {
		if m.query == "" {
			return fmt.Sprintf("Enter a search query... (%d files)", m.searcher.Size())
		}
		return "No matches found"
	}

	// Count unique files
	fileMap := make(map[string]bool)
	for _, result := range m.searchResults {
		fileMap[result.Path] = true
	}
	fileCount := len(fileMap)
	matchCount := len(m.searchResults)

	if matchCount == 1 {
		return "1 match in 1 file"
	}
	if fileCount == 1 {
		return fmt.Sprintf("%d matches in 1 file", matchCount)
	}
	return fmt.Sprintf("%d matches in %d files", matchCount, fileCount)
}

// renderResults renders the search results list
func renderResults(m *Model, matcher *search.Matcher) string {
	if len(m.searchResults) == 0 {
		return ""
	}

	const visibleResults = 5
	availableWidth := m.width - 4

	startIdx := m.resultsOffset
	endIdx := startIdx + visibleResults
	if endIdx > len(m.searchResults) {
		endIdx = len(m.searchResults)
	}

	var lines []string
	for i := startIdx; i < endIdx; i++ {
		lines = append(lines, formatResult(m.searchResults[i], matcher, availableWidth, i == m.selectedIndex))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// formatResult formats a result in a 2-column layout: code snippet on the
// left, file name and line number at the right edge
func formatResult(result search.MatchResult, matcher *search.Matcher, width int, selected bool) string {
	fileInfo := fmt.Sprintf("%s %d", path.Base(result.Path), result.Line)

	fileInfoWidth := 30
	if fileInfoWidth > width/3 {
		fileInfoWidth = width / 3
	}
	if fileInfoWidth < 25 {
		fileInfoWidth = 25
	}

	codeWidth := width - fileInfoWidth
	if codeWidth < 10 {
		codeWidth = 10
		fileInfoWidth = width - codeWidth
	}

	snippet := highlightLine(matcher, result.LineText, codeWidth)
	snippetCell := lipgloss.NewStyle().Width(codeWidth).Render(snippet)
	fileCell := fileInfoStyle.Width(fileInfoWidth).Align(lipgloss.Right).Render(fileInfo)

	line := lipgloss.JoinHorizontal(lipgloss.Left, snippetCell, fileCell)
	if selected {
		return selectedResultStyle.Width(width).Render(line)
	}
	return resultStyle.Width(width).Render(line)
}

// highlightLine truncates line to the display width and highlights the
// spans the matcher finds in it
func highlightLine(matcher *search.Matcher, line string, width int) string {
	line = runewidth.Truncate(line, width, "...")
	if matcher == nil {
		return line
	}

	spans := matcher.FindAll(line)
	if len(spans) == 0 {
		return line
	}

	var b strings.Builder
	last := 0
	for _, span := range spans {
		if span[0] == span[1] {
			continue // nothing to paint for empty matches
		}
		b.WriteString(line[last:span[0]])
		b.WriteString(highlightStyle.Render(line[span[0]:span[1]]))
		last = span[1]
	}
	b.WriteString(line[last:])
	return b.String()
}

// renderPreview renders the code preview
func renderPreview(m *Model, matcher *search.Matcher, maxHeight int) string {
	if m.preview == nil {
		return ""
	}

	header := previewHeaderStyle.Render(m.preview.Path)

	lines := []string{header}
	availableWidth := m.width - 10 // Reserve space for line numbers and borders
	for i, line := range m.preview.Lines {
		if len(lines) >= maxHeight-1 {
			break
		}

		lineNum := m.preview.StartLine + i
		lineNumStr := fmt.Sprintf("%4d", lineNum)

		if i+1 == m.preview.HitLine {
			lineNumStr = hitLineNumberStyle.Render(lineNumStr)
			line = hitLineStyle.Render(highlightLine(matcher, line, availableWidth))
		} else {
			lineNumStr = lineNumberStyle.Render(lineNumStr)
			line = runewidth.Truncate(line, availableWidth, "...")
		}

		lines = append(lines, fmt.Sprintf("%s | %s", lineNumStr, line))
	}

	previewContent := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return previewStyle.Width(m.width - 2).Render(previewContent)
}
