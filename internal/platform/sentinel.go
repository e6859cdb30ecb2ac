// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package platform

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tomtom215/audience-controller/internal/logging"
)

// SentinelWatcher watches the directory containing the installation-mode
// sentinel file so moveOutInstallationMode's 60s re-check wait (spec §4.5)
// can abort early the moment the sentinel reappears ("the mode is sticky
// if the sentinel reappears"), instead of always blocking the full 60s.
type SentinelWatcher struct {
	watcher  *fsnotify.Watcher
	basename string
}

// NewSentinelWatcher starts watching the parent directory of path.
func NewSentinelWatcher(path string) (*SentinelWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &SentinelWatcher{watcher: w, basename: filepath.Base(path)}, nil
}

// Close stops the watcher.
func (s *SentinelWatcher) Close() error {
	return s.watcher.Close()
}

// WaitOrReappear blocks up to timeout, returning true as soon as the
// sentinel file is created/written within the directory, or false if
// timeout elapses first.
func (s *SentinelWatcher) WaitOrReappear(ctx context.Context, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return false
			}
			if filepath.Base(ev.Name) != s.basename {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				return true
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return false
			}
			logging.Warn().Err(err).Msg("sentinel watcher error")
		}
	}
}
