package summarizer

import (
	"regexp"
	"sort"
	"strings"
)

// minSentenceTokens is the floor below which a sentence is treated as
// noise and discarded before scoring.
const minSentenceTokens = 3

var wordRe = regexp.MustCompile(`[a-z]+`)

// stopWords are excluded from the frequency table. Includes filler words
// common in spoken transcripts (um, uh, yeah, okay).
var stopWords = buildStopWords()

func buildStopWords() map[string]bool {
	list := "i me my myself we our ours ourselves you your yours yourself yourselves " +
		"he him his himself she her hers herself it its itself they them their " +
		"theirs themselves what which who whom this that these those am is are was " +
		"were be been being have has had having do does did doing a an the and but " +
		"if or because as until while of at by for with about against between through " +
		"during before after above below to from up down in out on off over under " +
		"again further then once here there when where why how all both each few more " +
		"most other some such no nor not only own same so than too very s t can will " +
		"just don should now d ll m o re ve y ain aren couldn didn doesn hadn hasn " +
		"haven isn ma mightn mustn needn shan shouldn wasn weren won wouldn " +
		"also would could may might shall well really actually going got let " +
		"like thing things know think go get make right um uh yeah okay"

	set := make(map[string]bool)
	for _, w := range strings.Fields(list) {
		set[w] = true
	}
	return set
}

// splitSentences segments text on sentence-terminal punctuation, preserving
// order, and drops sentences under minSentenceTokens tokens.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		// Terminal only when followed by whitespace or end of text;
		// keeps abbreviated tokens like "CI/CD v1.2" intact.
		if i+1 < len(text) && !isSpace(text[i+1]) {
			continue
		}
		sentences = appendSentence(sentences, text[start:i+1])
		start = i + 1
	}
	if start < len(text) {
		sentences = appendSentence(sentences, text[start:])
	}
	return sentences
}

func appendSentence(sentences []string, raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" || len(strings.Fields(s)) < minSentenceTokens {
		return sentences
	}
	return append(sentences, s)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// scoredSentence carries a sentence's importance score together with its
// position in the source text.
type scoredSentence struct {
	score float64
	index int
	text  string
}

// contentWords extracts the lowercase alphabetic tokens of a sentence.
func contentWords(sentence string) []string {
	return wordRe.FindAllString(strings.ToLower(sentence), -1)
}

// scoreSentences builds a normalized word-frequency table over all
// sentences and scores each sentence as the sum of its words' normalized
// frequencies divided by its word count, so long sentences cannot win on
// length alone.
func scoreSentences(sentences []string) []scoredSentence {
	freq := make(map[string]float64)
	for _, sentence := range sentences {
		for _, w := range contentWords(sentence) {
			if len(w) > 2 && !stopWords[w] {
				freq[w]++
			}
		}
	}

	scored := make([]scoredSentence, 0, len(sentences))
	if len(freq) == 0 {
		for i, s := range sentences {
			scored = append(scored, scoredSentence{index: i, text: s})
		}
		return scored
	}

	var maxFreq float64
	for _, f := range freq {
		if f > maxFreq {
			maxFreq = f
		}
	}
	for w := range freq {
		freq[w] /= maxFreq
	}

	for i, sentence := range sentences {
		words := contentWords(sentence)
		if len(words) == 0 {
			scored = append(scored, scoredSentence{index: i, text: sentence})
			continue
		}
		var sum float64
		for _, w := range words {
			sum += freq[w]
		}
		scored = append(scored, scoredSentence{
			score: sum / float64(len(words)),
			index: i,
			text:  sentence,
		})
	}
	return scored
}

// topByScore returns up to n entries ranked by score descending, ties
// broken by earliest position in the source text.
func topByScore(scored []scoredSentence, n int) []scoredSentence {
	ranked := make([]scoredSentence, len(scored))
	copy(ranked, scored)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].index < ranked[j].index
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// byPosition reorders a selection into source-text order.
func byPosition(ss []scoredSentence) []scoredSentence {
	out := make([]scoredSentence, len(ss))
	copy(out, ss)
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}
