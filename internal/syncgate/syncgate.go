// Package syncgate delays the first reconciliation run until vault file
// activity has quiesced. Vaults replicated by an external sync tool can
// still be receiving files at startup; running reconciliation mid-sync
// would create slots the sync is about to deliver.
package syncgate

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	defaultQuietPeriod = 2 * time.Second
	defaultMaxWait     = 30 * time.Second
)

// Option configures a Gate.
type Option func(*Gate)

// WithQuietPeriod sets how long the vault must stay silent before the
// gate opens.
func WithQuietPeriod(d time.Duration) Option {
	return func(g *Gate) { g.quiet = d }
}

// WithMaxWait bounds the total wait; the gate opens at the deadline
// even if events keep arriving.
func WithMaxWait(d time.Duration) Option {
	return func(g *Gate) { g.maxWait = d }
}

// Gate watches a vault root and opens once file events stop for a quiet
// period. It is one-shot: after the first Wait returns, later calls
// return immediately.
type Gate struct {
	root    string
	quiet   time.Duration
	maxWait time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	opened bool
}

// New creates a Gate over the given absolute vault root.
func New(root string, logger *slog.Logger, opts ...Option) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gate{
		root:    root,
		quiet:   defaultQuietPeriod,
		maxWait: defaultMaxWait,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Opened reports whether the gate has already opened.
func (g *Gate) Opened() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.opened
}

// Wait blocks until the vault has been quiet for the configured period,
// the maximum wait elapses, or ctx is cancelled. A cancelled context is
// the only error case; timeout and quiesce both open the gate.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	if g.opened {
		g.mu.Unlock()
		return nil
	}
	g.mu.Unlock()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, g.root); err != nil {
		return err
	}

	g.logger.Info("syncgate: waiting for vault to settle",
		slog.String("root", g.root),
		slog.Duration("quiet", g.quiet))

	quietTimer := time.NewTimer(g.quiet)
	defer quietTimer.Stop()
	deadline := time.NewTimer(g.maxWait)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-quietTimer.C:
			g.open("quiesced")
			return nil

		case <-deadline.C:
			g.open("deadline reached")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				g.open("watcher closed")
				return nil
			}
			// New dirs must be watched too, or activity inside them
			// would look like silence.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						g.logger.Warn("syncgate: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
				}
			}
			if !quietTimer.Stop() {
				select {
				case <-quietTimer.C:
				default:
				}
			}
			quietTimer.Reset(g.quiet)

		case watchErr, ok := <-w.Errors:
			if !ok {
				g.open("watcher closed")
				return nil
			}
			g.logger.Warn("syncgate: watch error", slog.String("error", watchErr.Error()))
		}
	}
}

func (g *Gate) open(reason string) {
	g.mu.Lock()
	g.opened = true
	g.mu.Unlock()
	g.logger.Info("syncgate: open", slog.String("reason", reason))
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
