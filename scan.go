package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type ScanOptions struct {
	Root       string
	RootHandle *os.Root
	Patterns   []PatternDef
	Exclude    []string // filename globs that never enter the scan
}

// ScanError is the fatal failure mode: the root itself is missing or not a
// directory. Problems with individual entries degrade to warnings instead.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string { return fmt.Sprintf("scan %s: %v", e.Path, e.Err) }
func (e *ScanError) Unwrap() error { return e.Err }

// FileEntry is one regular file found directly inside the scan root.
type FileEntry struct {
	Path    string // absolute
	Name    string
	Size    int64
	ModTime time.Time
}

// openScanRoot validates the root path and opens a traversal-safe handle.
func openScanRoot(dir string) (*os.Root, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &ScanError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanError{Path: dir, Err: errors.New("not a directory")}
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, &ScanError{Path: dir, Err: err}
	}
	return root, nil
}

// scanDirectory lists the regular files directly inside the root. Symlinks
// count only when they resolve to a regular file within the root; anything
// whose metadata cannot be read is skipped with a warning rather than
// aborting the whole scan. Results come back sorted by name so downstream
// grouping is deterministic. progress, when non-nil, is called with the
// running entry count.
func scanDirectory(ctx context.Context, opts ScanOptions, progress func(visited int)) ([]FileEntry, []string, error) {
	if opts.RootHandle == nil {
		return nil, nil, &ScanError{Path: opts.Root, Err: errors.New("root handle is nil")}
	}

	rootFS := opts.RootHandle.FS()
	dirents, err := fs.ReadDir(rootFS, ".")
	if err != nil {
		return nil, nil, &ScanError{Path: opts.Root, Err: err}
	}

	var entries []FileEntry
	var warnings []string
	visited := 0

	for _, dirent := range dirents {
		if ctx.Err() != nil {
			return nil, warnings, ctx.Err()
		}
		visited++
		if progress != nil {
			progress(visited)
		}

		name := dirent.Name()
		if excludedName(name, opts.Exclude) {
			continue
		}

		var info fs.FileInfo
		switch mode := dirent.Type(); {
		case mode.IsRegular():
			var infoErr error
			info, infoErr = dirent.Info()
			if infoErr != nil {
				warnings = append(warnings, fmt.Sprintf("unreadable: %s: %v", name, infoErr))
				continue
			}
		case mode&os.ModeSymlink != 0:
			// Stat through the link; only regular targets inside the
			// root count. Directory links are never followed.
			var statErr error
			info, statErr = fs.Stat(rootFS, name)
			if statErr != nil {
				warnings = append(warnings, fmt.Sprintf("unreadable link skipped: %s", name))
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
		default:
			continue
		}

		entries = append(entries, FileEntry{
			Path:    filepath.Join(opts.Root, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, warnings, nil
}

func excludedName(name string, globs []string) bool {
	for _, glob := range globs {
		if ok, err := path.Match(glob, name); err == nil && ok {
			return true
		}
	}
	return false
}

// runScanStream scans, builds the plan, and feeds the UI one row per
// duplicate group over the channel.
func runScanStream(ctx context.Context, opts ScanOptions, id int, out chan<- tea.Msg) {
	defer close(out)

	start := time.Now()
	lastProgress := time.Now()

	entries, warnings, err := scanDirectory(ctx, opts, func(visited int) {
		if time.Since(lastProgress) > 200*time.Millisecond {
			out <- scanProgressMsg{ID: id, Visited: visited}
			lastProgress = time.Now()
		}
	})
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		out <- scanFinishedMsg{ID: id, Warnings: warnings, Err: err, Elapsed: time.Since(start)}
		return
	}

	plan := BuildPlan(entries, opts.Patterns)
	for _, group := range plan.Groups {
		out <- scanRowMsg{ID: id, Row: rowData{Group: group}}
	}

	out <- scanFinishedMsg{
		ID:       id,
		Warnings: warnings,
		Err:      err,
		Elapsed:  time.Since(start),
		Visited:  len(entries),
		Found:    len(plan.Groups),
	}
}
