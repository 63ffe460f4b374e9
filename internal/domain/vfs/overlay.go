package vfs

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/termfolio/backend/internal/providers/storage"
	"go.uber.org/zap"
)

// Storage keys of the created-file overlay. OrderKey holds the keys in
// creation order.
const (
	OverlayKey = "vfs.created_files"
	OrderKey   = "vfs.created_order"
)

// Persister is the slice of storage.Store the overlay needs.
type Persister interface {
	Get(ctx context.Context, namespace, key string, out any) error
	Set(ctx context.Context, namespace, key string, value any) error
}

// Overlay is the flat map of user-created files, keyed by
// joined(cwd) + "/" + name. It is saved on every mutation.
type Overlay struct {
	files     map[string]string
	order     []string
	store     Persister
	namespace string
	logger    *logging.Logger
}

// NewOverlay returns an empty overlay that is never persisted.
func NewOverlay() *Overlay {
	return &Overlay{files: map[string]string{}, logger: logging.NewNop()}
}

// LoadOverlay reads the namespace's overlay once. A missing or unreadable
// record yields an empty overlay.
func LoadOverlay(ctx context.Context, store Persister, namespace string, logger *logging.Logger) *Overlay {
	o := &Overlay{files: map[string]string{}, store: store, namespace: namespace, logger: logger}
	if store == nil {
		return o
	}

	var files map[string]string
	err := store.Get(ctx, namespace, OverlayKey, &files)
	switch {
	case err == nil:
		if files != nil {
			o.files = files
		}
	case errors.Is(err, storage.ErrNotFound):
		return o
	default:
		logger.Warn("created files unreadable, starting empty", zap.Error(err))
		return o
	}

	var order []string
	if err := store.Get(ctx, namespace, OrderKey, &order); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("created file order unreadable, using name order", zap.Error(err))
	}
	o.order = reconcile(order, o.files)
	return o
}

// reconcile keeps the recorded keys that still exist, then appends any key
// the order lacks in name order.
func reconcile(order []string, files map[string]string) []string {
	seen := make(map[string]bool, len(files))
	out := make([]string, 0, len(files))
	for _, key := range order {
		if _, ok := files[key]; ok && !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	var missing []string
	for key := range files {
		if !seen[key] {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return append(out, missing...)
}

// Get returns the content stored under key.
func (o *Overlay) Get(key string) (string, bool) {
	c, ok := o.files[key]
	return c, ok
}

// Put stores content under key and persists the overlay.
func (o *Overlay) Put(key, content string) {
	if _, ok := o.files[key]; !ok {
		o.order = append(o.order, key)
	}
	o.files[key] = content
	o.save()
}

// Names returns the files directly inside dir in creation order.
func (o *Overlay) Names(dir []string) []string {
	prefix := Key(dir, "")
	var names []string
	for _, key := range o.order {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok || rest == "" || strings.Contains(rest, "/") {
			continue
		}
		names = append(names, rest)
	}
	return names
}

// Len is the number of created files.
func (o *Overlay) Len() int { return len(o.files) }

func (o *Overlay) save() {
	if o.store == nil {
		return
	}
	// best effort: failures are logged, the session continues in memory
	ctx := context.Background()
	if err := o.store.Set(ctx, o.namespace, OverlayKey, o.files); err != nil {
		o.logger.Warn("failed to persist created files", zap.Error(err))
		return
	}
	if err := o.store.Set(ctx, o.namespace, OrderKey, o.order); err != nil {
		o.logger.Warn("failed to persist created file order", zap.Error(err))
	}
}

// Key builds the overlay key for name inside dir.
func Key(dir []string, name string) string {
	return strings.Join(dir, "/") + "/" + name
}
