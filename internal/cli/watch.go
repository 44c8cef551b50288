package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/formwork/pkg/ports"
)

// reloadDelay lets a burst of file events settle before reloading.
const reloadDelay = 100 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	FormID    string
	SessionID string
	Format    string
	Logger    *slog.Logger
}

// Watch inspects a form and inspects it again every time the loader
// reports a change, until ctx is cancelled or the loader stops watching.
// Every change reloads, since a form can import fragments of others.
func Watch(ctx context.Context, w io.Writer, loader ports.ContentLoader, backend *Backend, opts WatchOptions) error {
	watchable, ok := loader.(ports.Watchable)
	if !ok {
		return errors.New("the content loader does not support watching, use a loam directory")
	}
	logger := opts.Logger
	if logger == nil {
		logger = createLogger("")
	}

	events, err := watchable.Watch(ctx)
	if err != nil {
		return err
	}

	show := func() {
		f, err := OpenForm(ctx, loader, backend, opts.FormID, opts.SessionID, logger)
		if err != nil {
			logger.Error("Reload failed", "err", err)
			printSystemMessage(w, "Reload failed: %v", err)
			return
		}
		defer f.Close()
		if err := Inspect(ctx, w, f, opts.Format); err != nil {
			printSystemMessage(w, "Inspect failed: %v", err)
		}
	}

	logger.Info("Starting Watcher", "form", opts.FormID, "session_id", opts.SessionID)
	show()
	printSystemMessage(w, "Watching '%s' for changes...", opts.FormID)

	for {
		select {
		case <-ctx.Done():
			return nil
		case id, ok := <-events:
			if !ok {
				return nil
			}
			logger.Info("Change detected, triggering reload", "event", id)
			printSystemMessage(w, "Change detected in '%s'.", id)
			drain(ctx, events)
			show()
		}
	}
}

// drain waits reloadDelay and drops the events that arrived meanwhile.
func drain(ctx context.Context, events <-chan string) {
	timer := time.NewTimer(reloadDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			return
		case _, ok := <-events:
			if !ok {
				return
			}
		}
	}
}
