package preview

// Preview represents a code preview with context lines
type Preview struct {
	Path      string
	StartLine int // 1-based file line number of Lines[0]
	Lines     []string
	HitLine   int // the matched line, 1-based relative to Lines
}
