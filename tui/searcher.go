package tui

import (
	"context"
	"runtime"
	"sync"

	"github.com/takaishi/simplefind/loader"
	"github.com/takaishi/simplefind/search"
)

// Searcher runs queries against an in-memory corpus. It is safe for use
// from multiple goroutines; both UI backends share one instance.
type Searcher struct {
	mu       sync.Mutex
	searchID int64
	corpus   []search.FileInput
	byPath   map[string]int
}

// NewSearcher creates a new Searcher instance
func NewSearcher(corpus []search.FileInput) *Searcher {
	s := &Searcher{}
	s.SetCorpus(corpus)
	return s
}

// SetCorpus replaces the corpus, e.g. after a scope switch
func (s *Searcher) SetCorpus(corpus []search.FileInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus = corpus
	s.byPath = make(map[string]int, len(corpus))
	for i, f := range corpus {
		s.byPath[f.Path] = i
	}
}

// File returns the corpus entry for path, for preview rendering
func (s *Searcher) File(path string) (search.FileInput, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byPath[path]
	if !ok {
		return search.FileInput{}, false
	}
	return s.corpus[i], true
}

// Size returns the number of files in the corpus
func (s *Searcher) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.corpus)
}

// CurrentID returns the ID of the most recently started search. Replies
// carrying any other ID are stale and must be discarded.
func (s *Searcher) CurrentID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchID
}

// SearchResultMsg is sent when search results are available
type SearchResultMsg struct {
	SearchID int64
	Results  []search.MatchResult
	Err      error
}

// Search compiles query and scans the corpus in the background, honoring
// mask as a file filter. It returns a channel that receives exactly one
// message, unless ctx is canceled first, in which case the channel closes
// without a message. Results keep corpus order regardless of how the scan
// is scheduled across workers.
func (s *Searcher) Search(ctx context.Context, query, mask string, caseSensitive bool) <-chan SearchResultMsg {
	s.mu.Lock()
	s.searchID++
	currentID := s.searchID
	corpus := s.corpus
	s.mu.Unlock()

	resultChan := make(chan SearchResultMsg, 1)

	go func() {
		defer close(resultChan)

		matcher, err := search.Compile(query, caseSensitive)
		if err != nil {
			// Compile failure scans nothing
			resultChan <- SearchResultMsg{
				SearchID: currentID,
				Err:      err,
			}
			return
		}

		files := corpus
		if mask != "" && mask != "*" {
			files = make([]search.FileInput, 0, len(corpus))
			for _, f := range corpus {
				if loader.MatchMask(mask, f.Path) {
					files = append(files, f)
				}
			}
		}

		// Fan the per-file scans out across workers. Each worker writes
		// into its file's slot, so concatenation preserves corpus order.
		perFile := make([][]search.MatchResult, len(files))

		workers := runtime.NumCPU()
		if workers > len(files) {
			workers = len(files)
		}
		if workers < 1 {
			workers = 1
		}

		indexes := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range indexes {
					perFile[i] = matcher.ScanFile(files[i])
				}
			}()
		}

	feed:
		for i := range files {
			select {
			case <-ctx.Done():
				break feed
			case indexes <- i:
			}
		}
		close(indexes)
		wg.Wait()

		if ctx.Err() != nil {
			return
		}

		results := make([]search.MatchResult, 0)
		for _, rs := range perFile {
			results = append(results, rs...)
		}

		resultChan <- SearchResultMsg{
			SearchID: currentID,
			Results:  results,
		}
	}()

	return resultChan
}
