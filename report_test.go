package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func scanAndPlan(t *testing.T, dir string, root *os.Root) (Plan, []string) {
	t.Helper()
	opts := ScanOptions{Root: dir, RootHandle: root, Patterns: defaultPatterns}
	entries, warnings, err := scanDirectory(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("scanDirectory: %v", err)
	}
	return BuildPlan(entries, defaultPatterns), warnings
}

func TestRenderPlanDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "report.pdf", "content")
	writeFile(t, dir, "report copy.pdf", "content")
	writeFile(t, dir, "report copy 2.pdf", "content")
	root := openTestRoot(t, dir)
	plan, warnings := scanAndPlan(t, dir, root)

	var out bytes.Buffer
	renderPlan(&out, plan, warnings, true)
	got := out.String()

	for _, want := range []string{
		"--- Duplicate Set ---",
		"Original name: report.pdf",
		"Keeping: " + filepath.Join(dir, "report.pdf"),
		"Would delete: " + filepath.Join(dir, "report copy.pdf"),
		"Would delete: " + filepath.Join(dir, "report copy 2.pdf"),
		"Summary: found 1 duplicate set(s)",
		"Total files to delete: 2",
		"[DRY RUN] No files were deleted.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "Will delete") {
		t.Error("dry-run report must not promise deletion")
	}
}

func TestRenderPlanEmpty(t *testing.T) {
	var out bytes.Buffer
	renderPlan(&out, Plan{}, nil, true)
	if !strings.Contains(out.String(), "No duplicates found!") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRenderPlanSizeMismatchWarning(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "draft.docx", "short")
	writeFile(t, dir, "draft copy.docx", "much longer content")
	root := openTestRoot(t, dir)
	plan, warnings := scanAndPlan(t, dir, root)

	var out bytes.Buffer
	renderPlan(&out, plan, warnings, true)
	if !strings.Contains(out.String(), "sizes differ") {
		t.Errorf("expected size warning in report:\n%s", out.String())
	}
}

func TestRunBatchCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "report.pdf", "content")
	dupe := writeFile(t, dir, "report copy.pdf", "content")
	root := openTestRoot(t, dir)
	plan, warnings := scanAndPlan(t, dir, root)

	var out bytes.Buffer
	code := runBatch(root, plan, warnings, batchOptions{
		in:      strings.NewReader("n\n"),
		out:     &out,
		confirm: true,
	})
	if code != 0 {
		t.Fatalf("exit code = %d; want 0", code)
	}
	if !strings.Contains(out.String(), "Deletion cancelled.") {
		t.Errorf("expected cancellation notice:\n%s", out.String())
	}
	if _, err := os.Stat(dupe); err != nil {
		t.Errorf("cancelled run must not delete files: %v", err)
	}
}

func TestRunBatchDeletes(t *testing.T) {
	dir := t.TempDir()
	keep := writeFile(t, dir, "report.pdf", "content")
	dupe1 := writeFile(t, dir, "report copy.pdf", "content")
	dupe2 := writeFile(t, dir, "report copy 2.pdf", "content")
	root := openTestRoot(t, dir)
	plan, warnings := scanAndPlan(t, dir, root)

	var out bytes.Buffer
	code := runBatch(root, plan, warnings, batchOptions{
		in:      strings.NewReader("y\n"),
		out:     &out,
		confirm: true,
	})
	if code != 0 {
		t.Fatalf("exit code = %d; want 0\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "Files deleted: 2") {
		t.Errorf("expected deletion summary:\n%s", out.String())
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("kept file missing: %v", err)
	}
	for _, gone := range []string{dupe1, dupe2} {
		if _, err := os.Stat(gone); !os.IsNotExist(err) {
			t.Errorf("%s still exists", gone)
		}
	}
}

func TestRunBatchNoConfirmSkipsPrompt(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x")
	writeFile(t, dir, "a copy.txt", "x")
	root := openTestRoot(t, dir)
	plan, warnings := scanAndPlan(t, dir, root)

	var out bytes.Buffer
	// No stdin at all: the prompt must not be reached.
	code := runBatch(root, plan, warnings, batchOptions{
		in:      strings.NewReader(""),
		out:     &out,
		confirm: false,
	})
	if code != 0 {
		t.Fatalf("exit code = %d; want 0\n%s", code, out.String())
	}
	if strings.Contains(out.String(), "Proceed with deletion?") {
		t.Error("prompt shown despite confirm=false")
	}
	if _, err := os.Stat(filepath.Join(dir, "a copy.txt")); !os.IsNotExist(err) {
		t.Error("duplicate not deleted")
	}
}

func TestRunBatchAlreadyRemoved(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x")
	dupe := writeFile(t, dir, "a copy.txt", "x")
	root := openTestRoot(t, dir)
	plan, warnings := scanAndPlan(t, dir, root)

	// Something else removed the file between planning and execution.
	if err := os.Remove(dupe); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	code := runBatch(root, plan, warnings, batchOptions{
		in:      strings.NewReader(""),
		out:     &out,
		confirm: false,
	})
	if code != 0 {
		t.Fatalf("exit code = %d; want 0 (missing file is a warning, not a failure)", code)
	}
	if !strings.Contains(out.String(), "Already removed") {
		t.Errorf("expected already-removed notice:\n%s", out.String())
	}
}

func TestConfirmInput(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"YES", true},
		{" y ", true},
		{"", false},
		{"n", false},
		{"no", false},
		{"yeah", false},
	}
	for _, tt := range tests {
		if got := confirmInput(tt.raw); got != tt.want {
			t.Errorf("confirmInput(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}
