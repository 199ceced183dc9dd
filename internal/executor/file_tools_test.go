package executor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	return NewExecutor(t.TempDir())
}

func TestCreateFile(t *testing.T) {
	e := newTestExecutor(t)

	result := e.CreateFile("notes.txt", "hello")
	if !result.Success {
		t.Fatalf("CreateFile failed: %s", result.Output)
	}

	data, err := os.ReadFile(filepath.Join(e.Root(), "notes.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", data, "hello")
	}
}

func TestCreateFileNestedDirectories(t *testing.T) {
	e := newTestExecutor(t)

	result := e.CreateFile("a/b/c.txt", "nested")
	if !result.Success {
		t.Fatalf("CreateFile failed: %s", result.Output)
	}

	if _, err := os.Stat(filepath.Join(e.Root(), "a", "b", "c.txt")); err != nil {
		t.Errorf("nested file not created: %v", err)
	}
}

func TestCreateFileExisting(t *testing.T) {
	e := newTestExecutor(t)

	if result := e.CreateFile("dup.txt", "first"); !result.Success {
		t.Fatal(result.Output)
	}
	result := e.CreateFile("dup.txt", "second")
	if result.Success {
		t.Fatal("overwriting an existing file should fail")
	}
	if !strings.Contains(result.Output, "already exists") {
		t.Errorf("output = %q, want already-exists error", result.Output)
	}

	// The original content survives
	data, _ := os.ReadFile(filepath.Join(e.Root(), "dup.txt"))
	if string(data) != "first" {
		t.Errorf("content = %q, want %q", data, "first")
	}
}

func TestCreateFileEscapeBlocked(t *testing.T) {
	e := newTestExecutor(t)

	tests := []string{
		"../escape.txt",
		"../../escape.txt",
		"a/../../escape.txt",
		"/tmp/absolute-escape.txt",
	}
	for _, path := range tests {
		result := e.CreateFile(path, "x")
		if result.Success {
			t.Errorf("CreateFile(%q) succeeded, want blocked", path)
		}
		if !strings.HasPrefix(result.Output, "Blocked:") {
			t.Errorf("CreateFile(%q) output = %q, want Blocked prefix", path, result.Output)
		}
	}
}

func TestMoveFile(t *testing.T) {
	e := newTestExecutor(t)
	if result := e.CreateFile("old.txt", "payload"); !result.Success {
		t.Fatal(result.Output)
	}

	result := e.MoveFile("old.txt", "sub/new.txt")
	if !result.Success {
		t.Fatalf("MoveFile failed: %s", result.Output)
	}

	if _, err := os.Stat(filepath.Join(e.Root(), "old.txt")); !os.IsNotExist(err) {
		t.Error("source still exists after move")
	}
	data, err := os.ReadFile(filepath.Join(e.Root(), "sub", "new.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q, want %q", data, "payload")
	}
}

func TestMoveFileMissing(t *testing.T) {
	e := newTestExecutor(t)

	result := e.MoveFile("ghost.txt", "somewhere.txt")
	if result.Success {
		t.Fatal("moving a missing file should fail")
	}
	if !strings.Contains(result.Output, "not found") {
		t.Errorf("output = %q, want not-found error", result.Output)
	}
}

func TestMoveFileDirectory(t *testing.T) {
	e := newTestExecutor(t)
	if err := os.Mkdir(filepath.Join(e.Root(), "dir"), 0755); err != nil {
		t.Fatal(err)
	}

	result := e.MoveFile("dir", "dir2")
	if result.Success {
		t.Fatal("moving a directory should fail")
	}
}

func TestMoveFileDestinationExists(t *testing.T) {
	e := newTestExecutor(t)
	if result := e.CreateFile("a.txt", "a"); !result.Success {
		t.Fatal(result.Output)
	}
	if result := e.CreateFile("b.txt", "b"); !result.Success {
		t.Fatal(result.Output)
	}

	result := e.MoveFile("a.txt", "b.txt")
	if result.Success {
		t.Fatal("moving onto an existing file should fail")
	}
	if !strings.Contains(result.Output, "already exists") {
		t.Errorf("output = %q, want already-exists error", result.Output)
	}
}

func TestMoveFileEscapeBlocked(t *testing.T) {
	e := newTestExecutor(t)
	if result := e.CreateFile("keep.txt", "x"); !result.Success {
		t.Fatal(result.Output)
	}

	result := e.MoveFile("keep.txt", "../stolen.txt")
	if result.Success {
		t.Fatal("moving out of the workspace should be blocked")
	}
	if _, err := os.Stat(filepath.Join(e.Root(), "keep.txt")); err != nil {
		t.Error("source should be untouched after a blocked move")
	}
}

func TestEditFile(t *testing.T) {
	e := newTestExecutor(t)
	if result := e.CreateFile("code.go", "old line\nkeep this\n"); !result.Success {
		t.Fatal(result.Output)
	}

	result := e.EditFile("code.go", "old line", "new line")
	if !result.Success {
		t.Fatalf("EditFile failed: %s", result.Output)
	}

	data, _ := os.ReadFile(filepath.Join(e.Root(), "code.go"))
	if string(data) != "new line\nkeep this\n" {
		t.Errorf("content = %q", data)
	}
}

func TestEditFileFirstOccurrenceOnly(t *testing.T) {
	e := newTestExecutor(t)
	if result := e.CreateFile("multi.txt", "x x x"); !result.Success {
		t.Fatal(result.Output)
	}

	result := e.EditFile("multi.txt", "x", "y")
	if !result.Success {
		t.Fatalf("EditFile failed: %s", result.Output)
	}
	if !strings.Contains(result.Output, "1 of 3") {
		t.Errorf("output = %q, want occurrence count", result.Output)
	}

	data, _ := os.ReadFile(filepath.Join(e.Root(), "multi.txt"))
	if string(data) != "y x x" {
		t.Errorf("content = %q, want %q", data, "y x x")
	}
}

func TestEditFileTextNotFound(t *testing.T) {
	e := newTestExecutor(t)
	if result := e.CreateFile("f.txt", "content"); !result.Success {
		t.Fatal(result.Output)
	}

	result := e.EditFile("f.txt", "absent", "replacement")
	if result.Success {
		t.Fatal("editing absent text should fail")
	}
	if !strings.Contains(result.Output, "not found") {
		t.Errorf("output = %q, want not-found error", result.Output)
	}
}

func TestEditFileEmptyOldText(t *testing.T) {
	e := newTestExecutor(t)
	if result := e.CreateFile("f.txt", "content"); !result.Success {
		t.Fatal(result.Output)
	}

	result := e.EditFile("f.txt", "", "x")
	if result.Success {
		t.Fatal("empty old_text should fail")
	}
}

func TestEditFileMissing(t *testing.T) {
	e := newTestExecutor(t)

	result := e.EditFile("ghost.txt", "a", "b")
	if result.Success {
		t.Fatal("editing a missing file should fail")
	}
	if !strings.Contains(result.Output, "not found") {
		t.Errorf("output = %q, want not-found error", result.Output)
	}
}

func TestResolveSymlinkEscapeBlocked(t *testing.T) {
	e := newTestExecutor(t)
	outside := t.TempDir()

	link := filepath.Join(e.Root(), "link")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	result := e.CreateFile("link/escape.txt", "x")
	if result.Success {
		t.Fatal("writing through an escaping symlink should be blocked")
	}
	if _, err := os.Stat(filepath.Join(outside, "escape.txt")); err == nil {
		t.Error("file was created outside the workspace via symlink")
	}
}
