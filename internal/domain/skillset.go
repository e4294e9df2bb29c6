package domain

import (
	"sort"
	"strings"
)

// SkillSet is a set of lowercase skill tokens.
type SkillSet map[string]struct{}

// ParseSkillSet splits a comma-separated skill field into a case-insensitive
// trimmed token set. Empty tokens are dropped.
func ParseSkillSet(csv string) SkillSet {
	set := make(SkillSet)
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" {
			set[tok] = struct{}{}
		}
	}
	return set
}

// Intersect returns the skills present in both sets.
func (s SkillSet) Intersect(other SkillSet) SkillSet {
	out := make(SkillSet)
	for k := range s {
		if _, ok := other[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// Diff returns the skills in s that are absent from other.
func (s SkillSet) Diff(other SkillSet) SkillSet {
	out := make(SkillSet)
	for k := range s {
		if _, ok := other[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// Sorted returns the set as a sorted slice for deterministic serialization.
func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Join serializes the set as a sorted comma-joined string (storage format).
func (s SkillSet) Join() string {
	return strings.Join(s.Sorted(), ", ")
}
