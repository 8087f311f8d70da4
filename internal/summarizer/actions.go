package summarizer

import (
	"regexp"
	"strings"
)

// actionPatterns are the cues that mark a sentence as a candidate action
// item: modal/imperative language, explicit assignment phrasing, and
// meeting bookkeeping markers. Recall-oriented on purpose; a false
// positive is cheap, a missed commitment is not.
var actionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\baction items?\b`),
	regexp.MustCompile(`(?i)\bneeds? to\b`),
	regexp.MustCompile(`(?i)\bshould\b`),
	regexp.MustCompile(`(?i)\bwill\b`),
	regexp.MustCompile(`(?i)\bmust\b`),
	regexp.MustCompile(`(?i)\blet'?s\b`),
	regexp.MustCompile(`(?i)\bplease\b`),
	regexp.MustCompile(`(?i)\bto[\s-]?do\b`),
	regexp.MustCompile(`(?i)\bfollow[\s-]?up\b`),
	regexp.MustCompile(`(?i)\bdeadline\b`),
	regexp.MustCompile(`(?i)\bby (monday|tuesday|wednesday|thursday|friday|saturday|sunday|tomorrow|next week|end of)\b`),
	regexp.MustCompile(`(?i)\bassign(ed)?\b`),
	regexp.MustCompile(`(?i)\bschedule\b`),
	regexp.MustCompile(`(?i)\bmake sure\b`),
}

// DetectActionItems scans sentences for action cues. Each matching
// sentence becomes one item (first matching pattern wins), trimmed and
// de-duplicated case-insensitively, in original sentence order. An empty
// result is a valid outcome, not an error.
func DetectActionItems(sentences []string) []string {
	items := []string{}
	seen := make(map[string]bool)

	for _, sentence := range sentences {
		for _, pattern := range actionPatterns {
			if !pattern.MatchString(sentence) {
				continue
			}
			item := strings.TrimSuffix(strings.TrimSpace(sentence), ".")
			key := strings.ToLower(item)
			if len(item) > minItemChars && !seen[key] {
				seen[key] = true
				items = append(items, item)
			}
			break // one item per sentence
		}
	}

	return items
}

// DetectActionItemsInText is the text-level convenience used by callers
// that have not already segmented the transcript.
func DetectActionItemsInText(text string) []string {
	return DetectActionItems(splitSentences(text))
}
