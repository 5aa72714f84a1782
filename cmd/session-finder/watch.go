package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tekacs/session-finder/internal/config"
	"github.com/tekacs/session-finder/internal/finder"
	"github.com/tekacs/session-finder/internal/render"
	"github.com/tekacs/session-finder/internal/watch"
)

func watchCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "watch <session-id>",
		Short: "Follow a live session, printing code changes as they land",
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

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = watch.Follow(ctx, path, os.Stdout, render.Options{Plain: plain})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "No colors")

	return cmd
}
