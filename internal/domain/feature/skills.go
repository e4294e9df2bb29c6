// Package feature derives structured signals (skills, education mentions,
// experience duration) from plain resume text.
package feature

import (
	"regexp"
	"sort"
	"strings"
)

// vocabulary is the fixed set of known technology and methodology terms.
// Matching is whole-word and case-insensitive; multi-word terms match as
// phrases.
var vocabulary = []string{
	"python", "java", "javascript", "react", "angular", "vue",
	"django", "flask", "fastapi",
	"sql", "postgresql", "mysql", "mongodb",
	"docker", "kubernetes", "aws", "azure", "gcp",
	"machine learning", "deep learning", "nlp", "computer vision",
	"tensorflow", "pytorch",
	"git", "agile", "scrum", "rest api", "graphql",
	"html", "css", "node.js", "typescript",
}

var skillRegex = buildSkillRegex(vocabulary)

func buildSkillRegex(terms []string) *regexp.Regexp {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`)
}

// Skills extracts known skill tokens from text.
// The result is sorted and de-duplicated; repeated or differently-cased
// mentions collapse to a single lowercase token.
func Skills(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	for _, m := range skillRegex.FindAllString(lower, -1) {
		seen[m] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
