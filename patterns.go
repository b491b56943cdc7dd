package main

import (
	"fmt"
	"strings"
)

// PatternDef describes one copy-suffix grammar. Match receives a filename
// stem (extension already split off) and reports the stem with the suffix
// stripped plus the copy index, or ok=false when the stem does not end in
// this suffix. Matching is anchored at the end of the stem; a stem that
// merely contains "copy" somewhere never matches.
type PatternDef struct {
	Name    string
	Example string
	Match   func(stem string) (base string, index int, ok bool)
}

// Slice order is match priority: the first grammar that matches wins.
var defaultPatterns = []PatternDef{
	{Name: "macos", Example: "report copy 2.pdf", Match: matchMacOS},
	{Name: "windows", Example: "report - Copy (2).pdf", Match: matchWindows},
	{Name: "browser", Example: "report (2).pdf", Match: matchBrowser},
}

// matchMacOS strips " copy" or " copy <N>".
func matchMacOS(stem string) (string, int, bool) {
	if base, ok := strings.CutSuffix(stem, " copy"); ok {
		if base == "" {
			return "", 0, false
		}
		return base, 1, true
	}
	sep := strings.LastIndex(stem, " copy ")
	if sep <= 0 {
		return "", 0, false
	}
	index, ok := parseCopyIndex(stem[sep+len(" copy "):])
	if !ok {
		return "", 0, false
	}
	return stem[:sep], index, true
}

// matchWindows strips " - Copy" or " - Copy (<N>)". "Copy" is
// case-sensitive, the way Explorer writes it.
func matchWindows(stem string) (string, int, bool) {
	if base, ok := strings.CutSuffix(stem, " - Copy"); ok {
		if base == "" {
			return "", 0, false
		}
		return base, 1, true
	}
	if !strings.HasSuffix(stem, ")") {
		return "", 0, false
	}
	open := strings.LastIndex(stem, " - Copy (")
	if open <= 0 {
		return "", 0, false
	}
	index, ok := parseCopyIndex(stem[open+len(" - Copy (") : len(stem)-1])
	if !ok {
		return "", 0, false
	}
	return stem[:open], index, true
}

// matchBrowser strips " (<N>)", the download-manager convention.
func matchBrowser(stem string) (string, int, bool) {
	if !strings.HasSuffix(stem, ")") {
		return "", 0, false
	}
	open := strings.LastIndex(stem, " (")
	if open <= 0 {
		return "", 0, false
	}
	index, ok := parseCopyIndex(stem[open+len(" (") : len(stem)-1])
	if !ok {
		return "", 0, false
	}
	return stem[:open], index, true
}

// parseCopyIndex accepts a positive decimal integer with no leading zeros.
func parseCopyIndex(raw string) (int, bool) {
	if raw == "" || raw[0] == '0' {
		return 0, false
	}
	index := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
		index = index*10 + int(r-'0')
		if index > 1<<30 {
			return 0, false
		}
	}
	return index, true
}

// enabledPatterns resolves a list of grammar names to pattern definitions in
// priority order. An empty list enables everything; unknown names are
// configuration errors, not silent no-ops.
func enabledPatterns(names []string) ([]PatternDef, error) {
	if len(names) == 0 {
		return defaultPatterns, nil
	}
	wanted := map[string]bool{}
	for _, name := range names {
		if name == "" {
			continue
		}
		known := false
		for _, def := range defaultPatterns {
			if def.Name == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown copy-suffix pattern %q", name)
		}
		wanted[name] = true
	}
	patterns := make([]PatternDef, 0, len(wanted))
	for _, def := range defaultPatterns {
		if wanted[def.Name] {
			patterns = append(patterns, def)
		}
	}
	return patterns, nil
}

func parseNameList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
