// Package watch follows a live session log and streams code changes as
// they are appended.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/tekacs/session-finder/internal/render"
	"github.com/tekacs/session-finder/internal/session"
	"github.com/tekacs/session-finder/internal/timeline"
)

// Follow blocks, printing code changes appended to the session log at path
// until ctx is cancelled. Changes already present when the watch starts are
// not replayed.
//
// The watch is placed on the parent directory rather than the file: agents
// rewrite logs with rename-over-replace, which silently drops a watch on
// the inode itself.
func Follow(ctx context.Context, path string, out io.Writer, opts render.Options) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("session file not found: %s", abs)
	}

	lastSeq, err := tailSeq(abs)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	fmt.Fprintf(os.Stderr, "watching %s\n", abs)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			lastSeq, err = emitNew(abs, lastSeq, out, opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "warning: watch: %v\n", err)
		}
	}
}

// tailSeq returns the sequence index of the last message in the log, or -1
// for an empty log.
func tailSeq(path string) (int, error) {
	log, err := session.ParseFile(path)
	if err != nil {
		return -1, err
	}
	if len(log.Messages) == 0 {
		return -1, nil
	}
	return log.Messages[len(log.Messages)-1].Seq, nil
}

// emitNew reparses the log and prints code changes from messages past
// lastSeq. Reparsing the whole file on every event is deliberate: logs are
// append-only JSONL, partial reads would have to handle torn lines, and
// session files stay small enough that a reparse is cheap.
func emitNew(path string, lastSeq int, out io.Writer, opts render.Options) (int, error) {
	log, err := session.ParseFile(path)
	if err != nil {
		return lastSeq, err
	}
	if len(log.Messages) == 0 {
		return lastSeq, nil
	}

	var fresh []session.Message
	for _, m := range log.Messages {
		if m.Seq > lastSeq {
			fresh = append(fresh, m)
		}
	}
	if len(fresh) == 0 {
		return lastSeq, nil
	}

	changes := timeline.CodeChanges(fresh, nil, 0)
	if len(changes) > 0 {
		fmt.Fprint(out, render.CodeDiff(changes, opts))
	}
	return log.Messages[len(log.Messages)-1].Seq, nil
}
