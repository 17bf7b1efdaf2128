package loader

import (
	"os"
	"path/filepath"
)

// FindGitRoot walks upward from startPath looking for a .git directory and
// returns the repository root containing it.
func FindGitRoot(startPath string) (string, bool) {
	path := startPath
	for {
		gitDir := filepath.Join(path, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return path, true
		}

		parent := filepath.Dir(path)
		if parent == path {
			break
		}
		path = parent
	}
	return "", false
}

// GetCurrentGitRoot finds the git repository root from the current working
// directory.
func GetCurrentGitRoot() (string, bool) {
	wd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return FindGitRoot(wd)
}
