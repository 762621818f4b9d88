// Package workspace applies the file operations a step response embeds.
// Relative paths are resolved against the workspace root; writes outside
// the root are rejected.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/avendel/stepflow/internal/llm"
)

// FileOpError indicates a file operation could not be applied
type FileOpError struct {
	Path string
	Err  error
}

func (e *FileOpError) Error() string {
	return fmt.Sprintf("file operation failed: %s: %v", e.Path, e.Err)
}

func (e *FileOpError) Unwrap() error {
	return e.Err
}

// ChangeSummary describes what one applied operation did
type ChangeSummary struct {
	Path    string // Relative path as declared in the response
	Created bool   // True when the file did not exist before
	Added   int    // Characters inserted relative to the previous content
	Removed int    // Characters deleted relative to the previous content
}

// Applier applies extracted file operations and reports what changed
type Applier interface {
	Apply(ops []llm.FileOp) ([]ChangeSummary, error)
}

// DirApplier writes file operations under a workspace root directory
type DirApplier struct {
	Root string
}

// NewDirApplier creates an applier rooted at the given directory
func NewDirApplier(root string) *DirApplier {
	return &DirApplier{Root: root}
}

// Apply writes each operation in order, creating parent directories as
// needed. The first failure aborts the batch.
func (a *DirApplier) Apply(ops []llm.FileOp) ([]ChangeSummary, error) {
	summaries := make([]ChangeSummary, 0, len(ops))

	for _, op := range ops {
		summary, err := a.applyOne(op)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (a *DirApplier) applyOne(op llm.FileOp) (ChangeSummary, error) {
	rel := filepath.Clean(op.Path)
	if !filepath.IsLocal(rel) {
		return ChangeSummary{}, &FileOpError{Path: op.Path, Err: fmt.Errorf("path escapes workspace root")}
	}
	full := filepath.Join(a.Root, rel)

	summary := ChangeSummary{Path: op.Path, Created: true}
	if previous, err := os.ReadFile(full); err == nil {
		summary.Created = false
		summary.Added, summary.Removed = diffCounts(string(previous), op.Content)
	} else {
		summary.Added = len(op.Content)
	}

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return ChangeSummary{}, &FileOpError{Path: op.Path, Err: err}
	}
	if err := os.WriteFile(full, []byte(op.Content), 0644); err != nil {
		return ChangeSummary{}, &FileOpError{Path: op.Path, Err: err}
	}

	return summary, nil
}

// diffCounts reports how much text an overwrite inserted and deleted
func diffCounts(before, after string) (added, removed int) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += len(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += len(d.Text)
		}
	}
	return added, removed
}
