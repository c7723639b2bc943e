// Package watch rebuilds a device document whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/berfenger/hwpgen/internal/adapter/loader"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type RebuildFunc func(ctx context.Context) error

// Watcher watches the document directory so that editors replacing the file
// are seen. Secrets next to the document also trigger a rebuild.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Rebuild  RebuildFunc
	Logger   *zap.Logger
}

// Run builds once and then after every burst of changes until ctx is done.
// Failed rebuilds are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.Path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.Logger.Info("watch@run: watching", zap.String("file", w.Path))

	w.rebuild(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.Logger.Debug("watch@run: change", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watch@run: watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	base := filepath.Base(ev.Name)
	return base == filepath.Base(w.Path) || base == loader.SECRETS_FILE
}

func (w *Watcher) rebuild(ctx context.Context) {
	start := time.Now()
	if err := w.Rebuild(ctx); err != nil {
		w.Logger.Error("watch@rebuild: failed", zap.Error(err))
		return
	}
	w.Logger.Info("watch@rebuild: done", zap.Duration("took", time.Since(start)))
}
