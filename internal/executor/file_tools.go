// Package executor implements the local file tools the model can call.
// Every operation is confined to a single workspace root; paths that
// resolve outside it are blocked, never executed.
package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxEditFileSize is the maximum file size edit_file will load (512KB)
const MaxEditFileSize = 512 * 1024

// FileToolResult provides consistent return values for file operations.
// Output is always safe to feed back to the model as the tool result.
type FileToolResult struct {
	Success bool
	Output  string
}

// Executor runs file tools inside a workspace root
type Executor struct {
	root string
}

// NewExecutor creates an Executor confined to root. The root must already
// be an absolute path to an existing directory (config validates this).
func NewExecutor(root string) *Executor {
	resolved, err := filepath.EvalSymlinks(root)
	if err == nil {
		root = resolved
	}
	return &Executor{root: root}
}

// Root returns the workspace root the executor is confined to
func (e *Executor) Root() string {
	return e.root
}

// resolve turns a tool-supplied path into an absolute path and verifies it
// stays inside the workspace root. Relative paths are joined to the root;
// symlinked parents are resolved so a link cannot escape the tree.
func (e *Executor) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(e.root, abs)
	}
	abs = filepath.Clean(abs)

	// Resolve the deepest existing ancestor so symlinks cannot point the
	// final path outside the root
	check := abs
	for {
		if resolved, err := filepath.EvalSymlinks(check); err == nil {
			abs = filepath.Join(resolved, strings.TrimPrefix(abs, check))
			break
		}
		parent := filepath.Dir(check)
		if parent == check {
			break
		}
		check = parent
	}

	rel, err := filepath.Rel(e.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s escapes the workspace root %s", path, e.root)
	}

	return abs, nil
}

// CreateFile creates a new file with the given content.
// Parent directories are created as needed; existing files are not overwritten.
func (e *Executor) CreateFile(path, content string) FileToolResult {
	abs, err := e.resolve(path)
	if err != nil {
		return FileToolResult{Output: fmt.Sprintf("Blocked: %v", err)}
	}

	if _, err := os.Stat(abs); err == nil {
		return FileToolResult{Output: fmt.Sprintf("Error: file already exists: %s (use edit_file to change it)", path)}
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return FileToolResult{Output: fmt.Sprintf("Error creating directory: %v", err)}
	}

	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		return FileToolResult{Output: fmt.Sprintf("Error: %v", err)}
	}

	return FileToolResult{
		Success: true,
		Output:  fmt.Sprintf("Created %s (%d bytes)", path, len(content)),
	}
}

// MoveFile moves or renames a file. Both endpoints must stay inside the
// workspace root and the destination must not already exist.
func (e *Executor) MoveFile(source, destination string) FileToolResult {
	src, err := e.resolve(source)
	if err != nil {
		return FileToolResult{Output: fmt.Sprintf("Blocked: %v", err)}
	}
	dst, err := e.resolve(destination)
	if err != nil {
		return FileToolResult{Output: fmt.Sprintf("Blocked: %v", err)}
	}

	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return FileToolResult{Output: fmt.Sprintf("Error: file not found: %s", source)}
		}
		return FileToolResult{Output: fmt.Sprintf("Error: %v", err)}
	}
	if info.IsDir() {
		return FileToolResult{Output: fmt.Sprintf("Error: %s is a directory, only files can be moved", source)}
	}

	if _, err := os.Stat(dst); err == nil {
		return FileToolResult{Output: fmt.Sprintf("Error: destination already exists: %s", destination)}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return FileToolResult{Output: fmt.Sprintf("Error creating directory: %v", err)}
	}

	if err := os.Rename(src, dst); err != nil {
		return FileToolResult{Output: fmt.Sprintf("Error: %v", err)}
	}

	return FileToolResult{
		Success: true,
		Output:  fmt.Sprintf("Moved %s to %s", source, destination),
	}
}

// EditFile performs an exact search and replace on a file.
// Only the first occurrence is replaced.
func (e *Executor) EditFile(path, oldText, newText string) FileToolResult {
	abs, err := e.resolve(path)
	if err != nil {
		return FileToolResult{Output: fmt.Sprintf("Blocked: %v", err)}
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return FileToolResult{Output: fmt.Sprintf("Error: file not found: %s", path)}
		}
		return FileToolResult{Output: fmt.Sprintf("Error: %v", err)}
	}
	if info.IsDir() {
		return FileToolResult{Output: fmt.Sprintf("Error: %s is a directory", path)}
	}
	if info.Size() > MaxEditFileSize {
		return FileToolResult{Output: fmt.Sprintf("Error: file too large to edit (%d bytes, limit %d)", info.Size(), MaxEditFileSize)}
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return FileToolResult{Output: fmt.Sprintf("Error: %v", err)}
	}

	content := string(data)
	if oldText == "" {
		return FileToolResult{Output: "Error: old_text must not be empty"}
	}
	if !strings.Contains(content, oldText) {
		return FileToolResult{Output: "Error: text not found in file"}
	}

	count := strings.Count(content, oldText)
	newContent := strings.Replace(content, oldText, newText, 1)

	if err := os.WriteFile(abs, []byte(newContent), info.Mode().Perm()); err != nil {
		return FileToolResult{Output: fmt.Sprintf("Error: %v", err)}
	}

	msg := fmt.Sprintf("Edited %s", path)
	if count > 1 {
		msg += fmt.Sprintf(" (replaced 1 of %d occurrences)", count)
	}

	return FileToolResult{Success: true, Output: msg}
}
