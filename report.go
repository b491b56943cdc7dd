package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// renderPlan writes the duplicate-set report consumed by the batch modes.
func renderPlan(w io.Writer, plan Plan, warnings []string, dryRun bool) {
	for _, group := range plan.Groups {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ui.accent.Render("--- Duplicate Set ---"))
		fmt.Fprintf(w, "Original name: %s\n", group.DisplayName())
		if group.SizeMismatch {
			fmt.Fprintln(w, ui.warning.Render("Warning: sizes differ; these may not be identical copies"))
		} else {
			fmt.Fprintf(w, "Size: %d bytes\n", group.Keep.Size)
		}
		fmt.Fprintf(w, "Keeping: %s\n", group.Keep.Path)
		verb := "Will delete"
		if dryRun {
			verb = "Would delete"
		}
		for _, entry := range group.Delete {
			fmt.Fprintf(w, "%s: %s\n", verb, entry.Path)
		}
	}

	for _, warning := range warnings {
		fmt.Fprintln(w, ui.warning.Render("Warning: "+warning))
	}

	if len(plan.Groups) == 0 {
		fmt.Fprintln(w, "\nNo duplicates found!")
		return
	}

	fmt.Fprintln(w, "\n================================")
	fmt.Fprintf(w, "Summary: found %d duplicate set(s)\n", len(plan.Groups))
	fmt.Fprintf(w, "Total files to delete: %d\n", plan.TotalFilesToDelete)
	if dryRun {
		fmt.Fprintln(w, "\n[DRY RUN] No files were deleted.")
		fmt.Fprintln(w, "Run with -force to delete them.")
	}
}

type batchOptions struct {
	in      io.Reader
	out     io.Writer
	dryRun  bool
	confirm bool
}

// runBatch prints the plan and, outside dry-run mode, deletes the duplicate
// files after an optional y/N prompt. Returns the process exit code.
func runBatch(root *os.Root, plan Plan, warnings []string, opts batchOptions) int {
	renderPlan(opts.out, plan, warnings, opts.dryRun)
	if opts.dryRun || plan.TotalFilesToDelete == 0 {
		return 0
	}

	if opts.confirm {
		fmt.Fprint(opts.out, "\nProceed with deletion? (y/N): ")
		scanner := bufio.NewScanner(opts.in)
		if !scanner.Scan() || !confirmInput(scanner.Text()) {
			fmt.Fprintln(opts.out, "Deletion cancelled.")
			return 0
		}
	}

	fmt.Fprintln(opts.out, "\nDeleting files...")
	deleted := 0
	failed := 0
	for _, group := range plan.Groups {
		for _, entry := range group.Delete {
			err := removeFile(root, entry.Name)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				fmt.Fprintln(opts.out, ui.warning.Render("Already removed: "+entry.Path))
			case err != nil:
				fmt.Fprintln(opts.out, ui.danger.Render(fmt.Sprintf("Error deleting %s: %v", entry.Path, err)))
				failed++
			default:
				fmt.Fprintf(opts.out, "Deleted: %s\n", entry.Path)
				deleted++
			}
		}
	}

	fmt.Fprintln(opts.out, "\n================================")
	fmt.Fprintf(opts.out, "Deletion complete! Files deleted: %d\n", deleted)
	if failed > 0 {
		fmt.Fprintf(opts.out, "Errors encountered: %d\n", failed)
		return 1
	}
	return 0
}

func confirmInput(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes":
		return true
	}
	return false
}

// removeFile deletes one file through the root handle. Callers decide how
// to report fs.ErrNotExist; rerunning a plan must not crash on it.
func removeFile(root *os.Root, name string) error {
	cleaned, err := validateDeletePath(name)
	if err != nil {
		return err
	}
	if root == nil {
		return errors.New("delete: root handle is nil")
	}
	return root.Remove(cleaned)
}
