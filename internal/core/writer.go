package core

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned for output paths that would leave the root.
var ErrUnsafePath = errors.New("path escapes output directory")

// WriteError reports a failure to write one output file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer writes rendered files below a root directory, creating missing
// parent directories and overwriting existing files.
type Writer struct {
	root   string
	dryRun bool
}

// NewWriter returns a Writer rooted at root. In dry-run mode Write only
// computes the target path.
func NewWriter(root string, dryRun bool) *Writer {
	return &Writer{root: root, dryRun: dryRun}
}

// Root returns the directory files are written under.
func (w *Writer) Root() string {
	return w.root
}

// Target returns the filesystem path for a slash-separated relative path.
func (w *Writer) Target(rel string) (string, error) {
	clean := path.Clean(rel)
	if rel == "" || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", &WriteError{Path: rel, Err: ErrUnsafePath}
	}
	return filepath.Join(w.root, filepath.FromSlash(clean)), nil
}

// Write stores f and returns the filesystem path it was written to.
func (w *Writer) Write(f File) (string, error) {
	target, err := w.Target(f.Path)
	if err != nil {
		return "", err
	}
	if w.dryRun {
		return target, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return target, &WriteError{Path: target, Err: err}
	}
	if err := os.WriteFile(target, []byte(f.Content), 0o644); err != nil {
		return target, &WriteError{Path: target, Err: err}
	}
	return target, nil
}
