// Package terms derives a frequency-ranked set of topic terms from a
// message stream. Output is deterministic: identical input always yields
// identical ordered output.
package terms

import (
	"sort"
	"strings"
	"unicode"

	"github.com/tekacs/session-finder/internal/session"
)

// TermCount pairs a term with its occurrence count.
type TermCount struct {
	Term  string
	Count int
}

// Extractor holds the immutable extraction policy: stopword set, minimum
// token length and result cap. Build one per process and pass it around
// instead of relying on ambient state.
type Extractor struct {
	stop   map[string]struct{}
	minLen int
	topN   int
}

// NewExtractor builds an Extractor. minLen <= 0 defaults to 3, topN <= 0
// defaults to 50.
func NewExtractor(stopwords []string, minLen, topN int) *Extractor {
	if minLen <= 0 {
		minLen = 3
	}
	if topN <= 0 {
		topN = 50
	}
	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Extractor{stop: stop, minLen: minLen, topN: topN}
}

// Extract tokenizes every message's searchable text, filters boilerplate,
// and returns the top terms sorted by descending count. Ties keep
// first-occurrence order so output stays stable and meaningful.
func (e *Extractor) Extract(msgs []session.Message) []TermCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for i := range msgs {
		for _, tok := range tokenize(msgs[i].PlainText()) {
			if len(tok) < e.minLen {
				continue
			}
			if _, skip := e.stop[tok]; skip {
				continue
			}
			if _, seen := counts[tok]; !seen {
				firstSeen[tok] = order
				order++
			}
			counts[tok]++
		}
	}

	ranked := make([]TermCount, 0, len(counts))
	for term, n := range counts {
		ranked = append(ranked, TermCount{Term: term, Count: n})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Term] < firstSeen[ranked[j].Term]
	})

	if len(ranked) > e.topN {
		ranked = ranked[:e.topN]
	}
	return ranked
}

// tokenize lowercases and splits on non-alphanumeric boundaries.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
