// Package resolver expands @path file references in user input into the
// literal file contents before the turn is sent to the model.
package resolver

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultMaxFileSize is the largest file a reference may inline (512KB)
const DefaultMaxFileSize = 512 * 1024

// binarySniffLen is how many leading bytes are scanned for NUL bytes
const binarySniffLen = 8 * 1024

// Resolution error kinds. A failed resolution never aborts the turn; it
// degrades to an inline annotation in the outgoing text.
var (
	ErrNotFound     = errors.New("file not found")
	ErrNotRegular   = errors.New("not a regular file")
	ErrBinaryFile   = errors.New("binary file, contents not inlined")
	ErrTooLarge     = errors.New("file too large")
	ErrOutsideRoots = errors.New("path outside the allowed roots")
)

// referencePattern matches @ followed by a whitespace-delimited path
var referencePattern = regexp.MustCompile(`@([^\s@]+)`)

// Resolution records the outcome of resolving one @path token
type Resolution struct {
	RawToken string // the token as typed, including the @
	Path     string // absolute path after expansion
	Err      error  // nil on success
}

// Resolver expands @path references into file contents
type Resolver struct {
	// MaxFileSize caps the size of an inlined file
	MaxFileSize int64

	// AllowedRoots, when non-empty, restricts references to paths under
	// the listed directories. Empty means any readable path is allowed,
	// matching the interactive default where the user names the file.
	AllowedRoots []string
}

// New creates a Resolver with default limits and no root restriction
func New() *Resolver {
	return &Resolver{MaxFileSize: DefaultMaxFileSize}
}

// Expand scans text for @path tokens and substitutes each one in a single
// left-to-right pass. Successful references become a delimited block with
// the verbatim file contents; failures become an inline error annotation.
// Each token is resolved independently: one bad reference never blocks the
// others or the turn itself.
func (r *Resolver) Expand(text string) (string, []Resolution) {
	var resolutions []Resolution

	expanded := referencePattern.ReplaceAllStringFunc(text, func(token string) string {
		raw := strings.TrimPrefix(token, "@")
		res := Resolution{RawToken: token}

		content, path, err := r.readReference(raw)
		res.Path = path
		if err != nil {
			res.Err = err
			resolutions = append(resolutions, res)
			return fmt.Sprintf("[could not read %s: %v]", raw, err)
		}

		resolutions = append(resolutions, res)
		return fmt.Sprintf("\n--- Content from %s ---\n%s\n--- End of %s ---\n", raw, content, raw)
	})

	return expanded, resolutions
}

// readReference expands and validates one path, returning its contents
func (r *Resolver) readReference(raw string) (string, string, error) {
	path, err := expandHome(raw)
	if err != nil {
		return "", "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}

	if len(r.AllowedRoots) > 0 && !r.withinRoots(abs) {
		return "", abs, ErrOutsideRoots
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", abs, ErrNotFound
		}
		return "", abs, err
	}
	if !info.Mode().IsRegular() {
		return "", abs, ErrNotRegular
	}

	maxSize := r.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if info.Size() > maxSize {
		return "", abs, fmt.Errorf("%w (%d bytes, limit %d)", ErrTooLarge, info.Size(), maxSize)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", abs, err
	}

	if isBinary(data) {
		return "", abs, ErrBinaryFile
	}

	return string(data), abs, nil
}

// withinRoots reports whether abs is under one of the allowed roots
func (r *Resolver) withinRoots(abs string) bool {
	for _, root := range r.AllowedRoots {
		rootAbs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(rootAbs, abs)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return true
		}
	}
	return false
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// isBinary sniffs the leading bytes for NUL, the usual binary tell
func isBinary(data []byte) bool {
	n := len(data)
	if n > binarySniffLen {
		n = binarySniffLen
	}
	return bytes.IndexByte(data[:n], 0) >= 0
}
