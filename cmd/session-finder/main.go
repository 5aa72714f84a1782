// Command session-finder locates past agent coding sessions by topic. It
// scans Claude Code JSONL logs, ranks sessions against the query terms, and
// either opens an interactive picker or prints a report; per-session modes
// reconstruct a timeline or the session's code changes.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tekacs/session-finder/internal/config"
	"github.com/tekacs/session-finder/internal/finder"
	"github.com/tekacs/session-finder/internal/rank"
	"github.com/tekacs/session-finder/internal/render"
	"github.com/tekacs/session-finder/internal/session"
	"github.com/tekacs/session-finder/internal/summary"
	"github.com/tekacs/session-finder/internal/terms"
	"github.com/tekacs/session-finder/internal/timeline"
	"github.com/tekacs/session-finder/internal/tui"
)

var version = "dev"

type findFlags struct {
	project  string
	recent   int
	limit    int
	timeline string // session id
	codeDiff string // session id
	context  int
	plain    bool
}

func main() {
	var flags findFlags

	rootCmd := &cobra.Command{
		Use:     "session-finder [terms...]",
		Short:   "Find past Claude Code sessions by topic",
		Version: version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runFind(args, flags)
		},
	}

	rootCmd.Flags().StringVar(&flags.project, "project", "", "Only sessions whose project path starts with this prefix")
	rootCmd.Flags().IntVar(&flags.recent, "recent", 0, "Only sessions modified within the last N days")
	rootCmd.Flags().IntVar(&flags.limit, "limit", 10, "Max sessions to show")
	rootCmd.Flags().StringVar(&flags.timeline, "timeline", "", "Show the matching-message timeline for one session")
	rootCmd.Flags().StringVar(&flags.codeDiff, "code-diff", "", "Show the code changes of one session")
	rootCmd.Flags().IntVar(&flags.context, "context", 2, "Messages of context around each match")
	rootCmd.Flags().BoolVar(&flags.plain, "plain", false, "Plain report output, no TUI, no colors")

	rootCmd.AddCommand(doctorCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runFind(queryTerms []string, flags findFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if info, err := os.Stat(cfg.ProjectsRoot); err != nil || !info.IsDir() {
		return fmt.Errorf("session root not found: %s", cfg.ProjectsRoot)
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd())) && !flags.plain
	opts := render.Options{Plain: !interactive, QueryTerms: queryTerms}

	// Single-session modes bypass discovery and ranking entirely; an
	// unknown session id is a hard error, not an empty report.
	switch {
	case flags.timeline != "":
		// No terms means no matches, which renders as the empty report.
		msgs, err := loadSession(cfg.ProjectsRoot, flags.timeline)
		if err != nil {
			return err
		}
		fmt.Print(render.Timeline(timeline.Build(msgs, queryTerms, flags.context), opts))
		return nil

	case flags.codeDiff != "":
		msgs, err := loadSession(cfg.ProjectsRoot, flags.codeDiff)
		if err != nil {
			return err
		}
		fmt.Print(render.CodeDiff(timeline.CodeChanges(msgs, queryTerms, flags.context), opts))
		return nil
	}

	if len(queryTerms) == 0 && !interactive {
		return errors.New("at least one search term required")
	}

	candidates, err := pickFinder(cfg).FindCandidates(queryTerms)
	if err != nil {
		// Coarse search failing is degraded, not fatal: report no matches.
		fmt.Fprintf(os.Stderr, "warning: candidate search failed: %v\n", err)
		candidates = nil
	}

	ex := terms.NewExtractor(terms.DefaultStopwords(), cfg.MinTermLen, cfg.TopTerms)
	filter := summary.Filter{ProjectPrefix: flags.project, RecentDays: flags.recent}
	sums, _ := summary.BuildAll(candidates, filter, ex, cfg.Workers)

	if interactive {
		return tui.Run(sums, queryTerms)
	}

	ranked := rank.Limit(rank.Rank(sums, queryTerms, time.Time{}), flags.limit)
	fmt.Print(render.ResultList(ranked, opts))
	return nil
}

func loadSession(root, sessionID string) ([]session.Message, error) {
	path, err := finder.Resolve(root, sessionID)
	if err != nil {
		return nil, err
	}
	log, err := session.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return log.Messages, nil
}

// pickFinder chooses the coarse filter: ripgrep when configured and
// present, otherwise the in-process FTS index.
func pickFinder(cfg *config.Config) finder.Finder {
	if cfg.Finder == "sqlite" {
		return finder.FTS{Root: cfg.ProjectsRoot}
	}
	rg := finder.Ripgrep{Root: cfg.ProjectsRoot, Bin: cfg.RipgrepPath}
	if !rg.Available() {
		fmt.Fprintln(os.Stderr, "warning: ripgrep not found, using built-in matcher")
		return finder.FTS{Root: cfg.ProjectsRoot}
	}
	return rg
}
