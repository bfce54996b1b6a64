// Package summarize produces extractive summaries by term-frequency
// sentence scoring: no generated text, only sentences selected from the
// input and re-joined in their original order.
package summarize

import (
	"sort"
	"strings"
)

// Summarize reduces text to at most maxSentences sentences. Sentences are
// scored by the document-wide frequency of their significant words,
// normalized by sentence length, and the winners are emitted in source
// order. Blank input returns the empty string.
func Summarize(text string, maxSentences int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	sentences := SplitSentences(text)
	if len(sentences) <= maxSentences {
		return strings.Join(sentences, " ")
	}

	freqs := make(map[string]int)
	total := 0
	for _, w := range significantWords(text) {
		freqs[w]++
		total++
	}
	if total == 0 {
		// Nothing survives the stopword/length filter; scoring is
		// meaningless, so fall back to the leading sentences.
		return strings.Join(sentences[:maxSentences], " ")
	}

	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, s := range sentences {
		words := significantWords(s)
		score := 0.0
		if len(words) > 0 {
			sum := 0
			for _, w := range words {
				sum += freqs[w]
			}
			score = float64(sum) / float64(len(words))
		}
		ranked[i] = scored{index: i, score: score}
	}

	// Stable sort keeps earlier sentences ahead on ties.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	chosen := make([]int, maxSentences)
	for i, r := range ranked[:maxSentences] {
		chosen[i] = r.index
	}
	sort.Ints(chosen)

	parts := make([]string, len(chosen))
	for i, idx := range chosen {
		parts[i] = sentences[idx]
	}
	return strings.Join(parts, " ")
}

// SplitSentences splits text at sentence boundaries: a '.', '!' or '?'
// followed by whitespace. Empty fragments are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if isTerminator(r) && i+1 < len(runes) && isSpace(runes[i+1]) {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// significantWords tokenizes text into lowercase alphabetic words
// (apostrophes allowed), dropping stopwords and tokens of length <= 2.
func significantWords(text string) []string {
	var words []string
	var b strings.Builder

	flush := func() {
		if b.Len() == 0 {
			return
		}
		w := b.String()
		b.Reset()
		if len(w) <= 2 {
			return
		}
		if _, stop := stopwords[w]; stop {
			return
		}
		words = append(words, w)
	}

	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || r == '\'' {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}
