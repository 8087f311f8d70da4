// Package summarizer turns transcript text into an extractive summary,
// key points, and action items. The approach is TF-based sentence scoring:
// fast, deterministic, and total over any string input.
package summarizer

import "strings"

const (
	// minItemChars filters out fragments too short to stand alone as a
	// key point or action item.
	minItemChars = 15

	// Transcripts over mapReduceThreshold sentences are summarized
	// segment-by-segment first, then reduced.
	mapReduceThreshold      = 50
	segmentSize             = 20
	segmentSummarySentences = 3
)

// Notes is the structured output of one summarization run.
type Notes struct {
	Summary     string
	KeyPoints   []string
	ActionItems []string
}

// Summarizer extracts summaries, key points, and action items from
// transcript text.
type Summarizer struct {
	sentenceCount int
	keyPointCount int
}

// New creates a summarizer with the given default summary length and key
// point count.
func New(sentenceCount, keyPointCount int) *Summarizer {
	if sentenceCount < 1 {
		sentenceCount = 5
	}
	if keyPointCount < 1 {
		keyPointCount = 5
	}
	return &Summarizer{
		sentenceCount: sentenceCount,
		keyPointCount: keyPointCount,
	}
}

// Summarize runs the full extraction: summary, key points, action items.
// Empty or whitespace-only input yields empty results, never an error.
// sentenceCount <= 0 falls back to the configured default.
func (s *Summarizer) Summarize(text string, sentenceCount int) Notes {
	if sentenceCount < 1 {
		sentenceCount = s.sentenceCount
	}

	notes := Notes{KeyPoints: []string{}, ActionItems: []string{}}
	if strings.TrimSpace(text) == "" {
		return notes
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return notes
	}

	// Action items are pattern-local; always detected over the full text.
	notes.ActionItems = DetectActionItems(sentences)

	if len(sentences) > mapReduceThreshold {
		combined := s.mapReduce(sentences)
		sentences = splitSentences(combined)
	}

	notes.Summary, notes.KeyPoints = s.extract(sentences, sentenceCount)
	return notes
}

// Summary extracts only the top-n summary for the given text.
func (s *Summarizer) Summary(text string, sentenceCount int) string {
	if sentenceCount < 1 {
		sentenceCount = s.sentenceCount
	}
	summary, _ := s.extract(splitSentences(text), sentenceCount)
	return summary
}

// extract selects the summary sentences, then picks key points from the
// sentences not already chosen so the two sections never duplicate
// content. Both selections read in source order.
func (s *Summarizer) extract(sentences []string, sentenceCount int) (string, []string) {
	if len(sentences) == 0 {
		return "", []string{}
	}

	scored := scoreSentences(sentences)

	selected := topByScore(scored, sentenceCount)
	chosen := make(map[int]bool, len(selected))
	for _, sel := range selected {
		chosen[sel.index] = true
	}

	parts := make([]string, 0, len(selected))
	for _, sel := range byPosition(selected) {
		parts = append(parts, sel.text)
	}
	summary := strings.Join(parts, " ")

	remaining := make([]scoredSentence, 0, len(scored)-len(selected))
	for _, sc := range scored {
		if !chosen[sc.index] {
			remaining = append(remaining, sc)
		}
	}

	keyPoints := []string{}
	for _, kp := range byPosition(topByScore(remaining, s.keyPointCount)) {
		point := strings.TrimSuffix(strings.TrimSpace(kp.text), ".")
		if len(point) > minItemChars {
			keyPoints = append(keyPoints, point)
		}
	}

	return summary, keyPoints
}

// mapReduce summarizes long transcripts segment-by-segment and returns the
// concatenation of segment summaries for a final reduce pass.
func (s *Summarizer) mapReduce(sentences []string) string {
	var segmentSummaries []string
	for start := 0; start < len(sentences); start += segmentSize {
		end := start + segmentSize
		if end > len(sentences) {
			end = len(sentences)
		}
		segment := sentences[start:end]
		summary, _ := s.extract(segment, segmentSummarySentences)
		if summary != "" {
			segmentSummaries = append(segmentSummaries, summary)
		}
	}
	return strings.Join(segmentSummaries, " ")
}
