package main

import "strings"

// NormalizedName is the identity a copy-suffixed filename was derived from.
type NormalizedName struct {
	Stem      string
	Ext       string // after the last dot, original case, no dot
	CopyIndex int    // 0 when IsCopy is false; bare suffixes count as 1
	IsCopy    bool
	Pattern   string // name of the grammar that matched, "" otherwise
}

// splitName separates a filename into stem and extension. The extension is
// everything after the last dot. A dot in first position (hidden files with
// no further dot) or last position leaves the whole name as the stem.
func splitName(filename string) (stem, ext string) {
	dot := strings.LastIndexByte(filename, '.')
	if dot <= 0 || dot == len(filename)-1 {
		return filename, ""
	}
	return filename[:dot], filename[dot+1:]
}

// normalizeFilename applies the enabled grammars in priority order. Stems
// that would be empty after stripping are not treated as copies; grouping
// under an empty name helps nobody.
func normalizeFilename(filename string, patterns []PatternDef) NormalizedName {
	stem, ext := splitName(filename)
	for _, def := range patterns {
		base, index, ok := def.Match(stem)
		if !ok || base == "" {
			continue
		}
		return NormalizedName{
			Stem:      base,
			Ext:       ext,
			CopyIndex: index,
			IsCopy:    true,
			Pattern:   def.Name,
		}
	}
	return NormalizedName{Stem: stem, Ext: ext}
}
