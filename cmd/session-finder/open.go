package main

import (
	"github.com/spf13/cobra"

	"github.com/tekacs/session-finder/internal/config"
	"github.com/tekacs/session-finder/internal/finder"
	"github.com/tekacs/session-finder/internal/open"
)

func openCmd() *cobra.Command {
	var line int

	cmd := &cobra.Command{
		Use:   "open <session-id>",
		Short: "Open a session's JSONL file in $EDITOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			path, err := finder.Resolve(cfg.ProjectsRoot, args[0])
			if err != nil {
				return err
			}

			return open.Session(path, line)
		},
	}

	cmd.Flags().IntVar(&line, "line", 1, "Line number to jump to")

	return cmd
}
