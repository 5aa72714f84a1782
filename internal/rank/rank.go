// Package rank orders session summaries against a query. Topical overlap
// dominates; recency breaks ties among equally relevant sessions.
package rank

import (
	"sort"
	"strings"
	"time"

	"github.com/tekacs/session-finder/internal/summary"
)

// Scoring weights: one term hit outweighs the maximum possible recency
// bonus, so topical overlap always dominates.
const (
	hitWeight     = 10.0
	recencyWeight = 5.0
	recencyWindow = 30 * 24 * time.Hour
)

// Ranked is a summary with its computed score.
type Ranked struct {
	*summary.Summary
	Score    float64
	TermHits int
}

// Rank scores and orders summaries, best first. now is injectable for
// tests; pass time.Time{} for the current time. The sort is stable over the
// caller's input order so equal scores stay deterministic.
func Rank(sums []*summary.Summary, queryTerms []string, now time.Time) []Ranked {
	if now.IsZero() {
		now = time.Now()
	}

	lowered := make([]string, 0, len(queryTerms))
	for _, q := range queryTerms {
		if q = strings.ToLower(strings.TrimSpace(q)); q != "" {
			lowered = append(lowered, q)
		}
	}

	ranked := make([]Ranked, 0, len(sums))
	for _, s := range sums {
		hits := termHits(s, lowered)
		ranked = append(ranked, Ranked{
			Summary:  s,
			TermHits: hits,
			Score:    hitWeight*float64(hits) + recencyBonus(s, now),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].lastActivity().After(ranked[j].lastActivity())
	})
	return ranked
}

// Limit truncates a ranked list to at most n entries.
func Limit(ranked []Ranked, n int) []Ranked {
	if n > 0 && len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}

// termHits counts how many query terms appear among the summary's top
// terms. Substring containment on the term text, case-insensitive, matching
// the timeline's query semantics.
func termHits(s *summary.Summary, queryTerms []string) int {
	hits := 0
	for _, q := range queryTerms {
		for _, tc := range s.TopTerms {
			if strings.Contains(tc.Term, q) {
				hits++
				break
			}
		}
	}
	return hits
}

// recencyBonus decays linearly from recencyWeight to zero over
// recencyWindow, measured from the session's last activity.
func recencyBonus(s *summary.Summary, now time.Time) float64 {
	last := s.LastMessageAt
	if last.IsZero() {
		last = s.ModTime
	}
	if last.IsZero() {
		return 0
	}
	age := now.Sub(last)
	if age < 0 {
		age = 0
	}
	if age >= recencyWindow {
		return 0
	}
	return recencyWeight * (1 - float64(age)/float64(recencyWindow))
}

func (r Ranked) lastActivity() time.Time {
	if !r.LastMessageAt.IsZero() {
		return r.LastMessageAt
	}
	return r.ModTime
}
