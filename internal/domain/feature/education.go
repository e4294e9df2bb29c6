package feature

import "strings"

const (
	maxEducationSentences = 3
	educationDelimiter    = " | "
)

var educationKeywords = []string{
	"university", "college", "bachelor", "master", "phd", "degree", "diploma",
}

// Education scans sentence-split text for education mentions and returns
// the first 3 matching sentences joined with " | ", in document order.
func Education(text string) string {
	var matches []string
	for _, sent := range SplitSentences(text) {
		lower := strings.ToLower(sent)
		for _, kw := range educationKeywords {
			if strings.Contains(lower, kw) {
				matches = append(matches, sent)
				break
			}
		}
		if len(matches) == maxEducationSentences {
			break
		}
	}
	return strings.Join(matches, educationDelimiter)
}

// SplitSentences segments text on terminal punctuation. A heuristic stand-in
// for linguistic boundary detection; matches stay in document order.
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}
	for _, r := range text {
		b.WriteRune(r)
		switch r {
		case '.', '!', '?':
			flush()
		}
	}
	flush()
	return sentences
}
