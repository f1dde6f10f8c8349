package expfile

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fiberlab/expreg/internal/domain"
)

// Watch hot-reloads the definition directory until ctx is cancelled.
// Created and rewritten files re-register their experiment; removed files
// delete it. Load failures keep the previous registry state.
func (l *Loader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("watch definition dir %s: %w", l.dir, err)
	}

	l.logger.Info("watching experiment definitions", zap.String("dir", l.dir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			l.handleEvent(ctx, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Error("definition watcher error", zap.Error(err))
		}
	}
}

func (l *Loader) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !isDefinition(event.Name) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		if err := l.loadFile(ctx, event.Name); err != nil {
			l.logger.Error("definition reload failed",
				zap.String("file", event.Name),
				zap.Error(err),
			)
		}

	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		err := l.removeFile(ctx, event.Name)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			l.logger.Error("definition removal failed",
				zap.String("file", event.Name),
				zap.Error(err),
			)
		}
	}
}
