package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// PolicyWatcher watches the cache policy file and applies changes to a
// CachePolicy at runtime.
type PolicyWatcher struct {
	path    string
	policy  *CachePolicy
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	stopCh  chan struct{}
}

// NewPolicyWatcher loads the policy file once and starts watching it for
// changes. The directory is watched too, so atomic saves (write to temp,
// rename over) are picked up.
func NewPolicyWatcher(path string, policy *CachePolicy, logger *zap.Logger) (*PolicyWatcher, error) {
	overrides, err := LoadPolicyFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial policy: %w", err)
	}
	policy.Apply(overrides)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch policy file: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("Failed to watch policy directory", zap.Error(err))
	}

	pw := &PolicyWatcher{
		path:    path,
		policy:  policy,
		watcher: watcher,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}

	return pw, nil
}

// Start begins watching for policy changes.
func (w *PolicyWatcher) Start() {
	go w.watchLoop()
	w.logger.Info("Cache policy watcher started", zap.String("path", w.path))
}

// Stop stops watching for policy changes.
func (w *PolicyWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	w.logger.Info("Cache policy watcher stopped")
}

// watchLoop reloads the file on write/create/rename events, debounced so
// editors that fire several events per save cause a single reload.
func (w *PolicyWatcher) watchLoop() {
	var reloadTimer *time.Timer

	for {
		select {
		case <-w.stopCh:
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(200*time.Millisecond, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Policy watcher error", zap.Error(err))
		}
	}
}

func (w *PolicyWatcher) reload() {
	overrides, err := LoadPolicyFile(w.path)
	if err != nil {
		// Keep the last good policy on a broken file.
		w.logger.Error("Failed to reload cache policy", zap.Error(err))
		return
	}

	w.policy.Apply(overrides)
	w.logger.Info("Cache policy reloaded", zap.Int("overrides", len(overrides)))
}
