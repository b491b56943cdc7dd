package main

import (
	"sort"
	"strings"
)

// groupKey identifies one logical file. Stems compare case-sensitively
// (differently-cased originals are different files); extensions do not.
type groupKey struct {
	stem string
	ext  string // lowercased
}

// DuplicateGroup is one original plus the copy-suffixed files derived from
// it. Keep is always one of Members; Delete is everything else.
type DuplicateGroup struct {
	Stem         string
	Ext          string // lowercased, no dot
	Members      []FileEntry
	Keep         FileEntry
	Delete       []FileEntry
	Pattern      string // grammar the copies matched, first seen
	SizeMismatch bool   // member sizes disagree; surfaced, never dropped
}

// DisplayName reconstructs the canonical filename for the group.
func (g DuplicateGroup) DisplayName() string {
	if g.Ext == "" {
		return g.Stem
	}
	return g.Stem + "." + g.Ext
}

// ReclaimableBytes is the total size of the files slated for deletion.
func (g DuplicateGroup) ReclaimableBytes() int64 {
	var total int64
	for _, entry := range g.Delete {
		total += entry.Size
	}
	return total
}

// Plan is the complete outcome of one scan: which files to keep and which
// to delete. Building it performs no I/O; deletion belongs to the caller.
type Plan struct {
	Groups             []DuplicateGroup
	TotalFilesToDelete int
}

// BuildPlan partitions the scanned files by normalized name and keeps every
// partition with at least two members. Groups and members come back in
// sorted order, so the same files always produce the same plan regardless
// of input order.
func BuildPlan(entries []FileEntry, patterns []PatternDef) Plan {
	buckets := map[groupKey][]FileEntry{}
	for _, entry := range entries {
		norm := normalizeFilename(entry.Name, patterns)
		key := groupKey{stem: norm.Stem, ext: strings.ToLower(norm.Ext)}
		buckets[key] = append(buckets[key], entry)
	}

	keys := make([]groupKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].stem != keys[j].stem {
			return keys[i].stem < keys[j].stem
		}
		return keys[i].ext < keys[j].ext
	})

	var plan Plan
	for _, key := range keys {
		members := buckets[key]
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
		group := finalizeGroup(key, members, patterns)
		plan.Groups = append(plan.Groups, group)
		plan.TotalFilesToDelete += len(group.Delete)
	}
	return plan
}

// finalizeGroup applies the selection policy: the unique member whose name
// carries no copy-suffix wins; with zero or several such members the
// earliest mtime wins, ties broken by shortest filename, then path.
func finalizeGroup(key groupKey, members []FileEntry, patterns []PatternDef) DuplicateGroup {
	keepIdx := -1
	originals := 0
	pattern := ""
	for i, member := range members {
		norm := normalizeFilename(member.Name, patterns)
		if norm.IsCopy {
			if pattern == "" {
				pattern = norm.Pattern
			}
			continue
		}
		originals++
		keepIdx = i
	}
	if originals != 1 {
		keepIdx = oldestIndex(members)
	}

	mismatch := false
	for _, member := range members {
		if member.Size != members[0].Size {
			mismatch = true
			break
		}
	}

	group := DuplicateGroup{
		Stem:         key.stem,
		Ext:          key.ext,
		Members:      members,
		Keep:         members[keepIdx],
		Pattern:      pattern,
		SizeMismatch: mismatch,
	}
	for i, member := range members {
		if i != keepIdx {
			group.Delete = append(group.Delete, member)
		}
	}
	return group
}

func oldestIndex(members []FileEntry) int {
	best := 0
	for i := 1; i < len(members); i++ {
		if entryBefore(members[i], members[best]) {
			best = i
		}
	}
	return best
}

func entryBefore(a, b FileEntry) bool {
	if !a.ModTime.Equal(b.ModTime) {
		return a.ModTime.Before(b.ModTime)
	}
	if len(a.Name) != len(b.Name) {
		return len(a.Name) < len(b.Name)
	}
	return a.Path < b.Path
}
