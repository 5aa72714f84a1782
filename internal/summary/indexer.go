package summary

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tekacs/session-finder/internal/terms"
)

// Filter narrows the candidate set before any parsing happens.
type Filter struct {
	ProjectPrefix string    // decoded project path prefix, "" = all
	RecentDays    int       // 0 = no recency cutoff
	Now           time.Time // zero = time.Now(); injectable for tests
}

// Stats counts what happened during an indexing pass. Nothing is silently
// dropped: every skipped file lands in a counter.
type Stats struct {
	Candidates int
	Built      int
	Filtered   int
	Unreadable int
	Empty      int
}

func (s Stats) String() string {
	return fmt.Sprintf("candidates=%d built=%d filtered=%d unreadable=%d empty=%d",
		s.Candidates, s.Built, s.Filtered, s.Unreadable, s.Empty)
}

// BuildAll summarizes candidate files concurrently. Per-file parsing is
// independent work, so it fans out across workers and aggregates through a
// single channel; final ordering is left to the ranker, never to completion
// order. Unreadable and empty files are warned about and counted, not fatal.
func BuildAll(paths []string, f Filter, ex *terms.Extractor, workers int) ([]*Summary, Stats) {
	var stats Stats
	stats.Candidates = len(paths)

	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		ok, reason := admit(p, f)
		if !ok {
			if reason == reasonUnreadable {
				stats.Unreadable++
				fmt.Fprintf(os.Stderr, "warning: cannot stat %s\n", p)
			} else {
				stats.Filtered++
			}
			continue
		}
		kept = append(kept, p)
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(kept) {
		workers = len(kept)
	}

	type outcome struct {
		sum *Summary
		err error
	}

	jobs := make(chan string)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				sum, err := Build(p, ex)
				results <- outcome{sum: sum, err: err}
			}
		}()
	}

	go func() {
		for _, p := range kept {
			jobs <- p
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var summaries []*Summary
	for out := range results {
		if out.err != nil {
			if errors.Is(out.err, ErrEmptySession) {
				stats.Empty++
			} else {
				stats.Unreadable++
			}
			fmt.Fprintf(os.Stderr, "warning: %v\n", out.err)
			continue
		}
		summaries = append(summaries, out.sum)
		stats.Built++
	}

	// Stable base order before ranking, so equal-scored sessions do not
	// depend on goroutine scheduling.
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].SessionID < summaries[j].SessionID
	})

	return summaries, stats
}

const (
	reasonFiltered   = "filtered"
	reasonUnreadable = "unreadable"
)

// admit applies the project-prefix and recency filters using only path and
// stat data, so rejected files are never parsed.
func admit(path string, f Filter) (bool, string) {
	if f.ProjectPrefix != "" {
		if !strings.HasPrefix(ProjectPath(path), f.ProjectPrefix) {
			return false, reasonFiltered
		}
	}
	if f.RecentDays > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return false, reasonUnreadable
		}
		now := f.Now
		if now.IsZero() {
			now = time.Now()
		}
		cutoff := now.AddDate(0, 0, -f.RecentDays)
		if info.ModTime().Before(cutoff) {
			return false, reasonFiltered
		}
	}
	return true, ""
}
