package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/logging"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Source holds the current content snapshot. Sessions take a snapshot when
// they start and keep it; reloads only affect sessions started afterwards.
type Source struct {
	path     string
	logger   *logging.Logger
	current  atomic.Pointer[Content]
	debounce time.Duration

	// OnReload is called after every reload attempt.
	OnReload func(version string, err error)
}

// NewSource loads path once. An empty path serves the embedded default.
func NewSource(path string, logger *logging.Logger) (*Source, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	s := &Source{
		path:     path,
		logger:   logger,
		debounce: 300 * time.Millisecond,
	}
	s.current.Store(c)
	return s, nil
}

// Current returns the latest successfully loaded snapshot.
func (s *Source) Current() *Content {
	return s.current.Load()
}

// Reload re-reads the source. On failure the previous snapshot stays.
func (s *Source) Reload() error {
	c, err := Load(s.path)
	if s.OnReload != nil {
		version := ""
		if c != nil {
			version = c.Version
		}
		s.OnReload(version, err)
	}
	if err != nil {
		s.logger.Warn("content reload failed, keeping previous snapshot",
			zap.String("path", s.path), zap.Error(err))
		return err
	}

	prev := s.current.Swap(c)
	if prev == nil || prev.Version != c.Version {
		s.logger.Info("content reloaded", zap.String("path", s.path), zap.String("version", c.Version))
	}
	return nil
}

// Watch reloads on filesystem changes until ctx is done. Bursts of events
// (editors write, rename and chmod in quick succession) collapse into one
// reload.
func (s *Source) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := s.addWatches(watcher); err != nil {
		return err
	}
	s.logger.Info("watching content", zap.String("path", s.path))

	ticker := time.NewTicker(s.debounce / 3)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevant(event) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			pending = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("content watcher error", zap.Error(err))

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= s.debounce {
				pending = time.Time{}
				_ = s.Reload()
			}
		}
	}
}

// addWatches watches the parent directory of a content file (editors often
// replace the file rather than write it) or every directory of a tree.
func (s *Source) addWatches(w *fsnotify.Watcher) error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("stat content: %w", err)
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(s.path))
	}

	return filepath.WalkDir(s.path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}

func (s *Source) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	info, err := os.Stat(s.path)
	if err == nil && info.IsDir() {
		return true
	}
	return filepath.Clean(event.Name) == filepath.Clean(s.path)
}
