package search

// FileInput represents one logical file to search. The caller owns both
// fields; the searcher reads them without mutation and does not retain
// them beyond the call.
type FileInput struct {
	Path    string // opaque identifier, returned verbatim in results
	Content string // full file text; may be empty
}

// MatchResult represents a single match occurrence.
type MatchResult struct {
	Path     string // copied from the owning FileInput
	Line     int    // 1-based line number
	Column   int    // 1-based character offset of the match start within the line
	LineText string // full text of the matching line, without the line terminator
}
