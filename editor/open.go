package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
)

// Editor represents an editor type
type Editor string

const (
	EditorCursor Editor = "cursor"
	EditorCode   Editor = "code"
)

// DetectEditor detects which editor is available
func DetectEditor() (Editor, error) {
	// Check for cursor first
	if _, err := exec.LookPath("cursor"); err == nil {
		return EditorCursor, nil
	}

	// Then check for code
	if _, err := exec.LookPath("code"); err == nil {
		return EditorCode, nil
	}

	return "", fmt.Errorf("no editor found (cursor or code)")
}

// OpenFile opens a file in the given editor at line:column. The editor is
// started detached so the caller never blocks on it.
func OpenFile(ed Editor, file string, line, column int) error {
	if ed == "" {
		return fmt.Errorf("no editor configured")
	}

	args := gotoArgs(file, line, column, insideEditorTerminal())
	cmd := exec.Command(string(ed), args...)
	// Discard output to prevent any interference with the TUI
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", ed, err)
	}
	go cmd.Wait()

	return nil
}

// gotoArgs builds the CLI arguments for jumping to a position. Cursor and
// VS Code share the --goto file:line:column convention.
func gotoArgs(file string, line, column int, reuseWindow bool) []string {
	args := []string{"--goto", fmt.Sprintf("%s:%d:%d", file, line, column)}
	if reuseWindow {
		// Reuse the window we are already inside instead of opening a new one
		args = append([]string{"--reuse-window"}, args...)
	}
	return args
}

// insideEditorTerminal checks if the process is running inside a Cursor or
// VS Code integrated terminal
func insideEditorTerminal() bool {
	if hook := os.Getenv("VSCODE_IPC_HOOK"); hook != "" {
		if _, err := os.Stat(hook); err == nil {
			return true
		}
		// The env var alone indicates we're in the editor even when the
		// socket file has moved
		if strings.HasSuffix(hook, ".sock") {
			return true
		}
	}

	if pid := os.Getenv("CURSOR_PID"); pid != "" && processExists(pid) {
		return true
	}
	if pid := os.Getenv("VSCODE_PID"); pid != "" && processExists(pid) {
		return true
	}

	return os.Getenv("CURSOR_AGENT") != ""
}

// processExists checks if a process with the given PID exists
func processExists(pidStr string) bool {
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 doesn't touch the process, just checks that it exists
	return proc.Signal(syscall.Signal(0)) == nil
}
