package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

type stringFlag struct {
	value string
	set   bool
}

func (s *stringFlag) String() string { return s.value }
func (s *stringFlag) Set(val string) error {
	s.value = val
	s.set = true
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var patternFlag stringFlag
	var excludeFlag stringFlag
	var configPath stringFlag
	var dryRun bool
	var force bool
	var noConfirm bool
	var listPatterns bool

	flag.Var(&patternFlag, "patterns", "Comma-separated copy-suffix grammars to enable (default: all)")
	flag.Var(&excludeFlag, "exclude", "Comma-separated filename globs to skip")
	flag.Var(&configPath, "config", "Path to a JSON config file")
	flag.BoolVar(&dryRun, "dry-run", false, "Report duplicates without deleting anything")
	flag.BoolVar(&force, "force", false, "Report and delete without the interactive UI")
	flag.BoolVar(&noConfirm, "no-confirm", false, "Delete without confirmation prompts")
	flag.BoolVar(&listPatterns, "list-patterns", false, "Print recognized copy-suffix grammars and exit")
	flag.Parse()

	if listPatterns {
		for _, def := range defaultPatterns {
			fmt.Printf("%-8s  e.g. %q\n", def.Name, def.Example)
		}
		return
	}

	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error resolving path:", err)
		os.Exit(1)
	}

	config := Config{}
	if path, ok, err := resolveConfigPath(absRoot, configPath.value); err != nil {
		fmt.Fprintln(os.Stderr, "Error resolving config:", err)
		os.Exit(1)
	} else if ok {
		cfg, err := loadConfig(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
			os.Exit(1)
		}
		normalized, err := normalizeConfig(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error in config:", err)
			os.Exit(1)
		}
		config = normalized
	}

	patternNames := config.Patterns
	excludes := config.Exclude
	confirmDeletes := true
	if config.Confirm != nil {
		confirmDeletes = *config.Confirm
	}
	if noConfirm {
		confirmDeletes = false
	}
	if patternFlag.set {
		patternNames = parseNameList(patternFlag.value)
	}
	if excludeFlag.set {
		excludes = parseNameList(excludeFlag.value)
	}

	patterns, err := enabledPatterns(patternNames)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	rootHandle, err := openScanRoot(absRoot)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := rootHandle.Close(); closeErr != nil {
			fmt.Fprintln(os.Stderr, "Error closing root:", closeErr)
		}
	}()

	opts := ScanOptions{
		Root:       absRoot,
		RootHandle: rootHandle,
		Patterns:   patterns,
		Exclude:    excludes,
	}

	if dryRun || force {
		entries, warnings, err := scanDirectory(ctx, opts, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		plan := BuildPlan(entries, opts.Patterns)
		code := runBatch(rootHandle, plan, warnings, batchOptions{
			in:      os.Stdin,
			out:     os.Stdout,
			dryRun:  dryRun,
			confirm: confirmDeletes,
		})
		if code != 0 {
			os.Exit(code)
		}
		return
	}

	m := NewModel(ctx, opts, confirmDeletes)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		os.Exit(1)
	}
}
