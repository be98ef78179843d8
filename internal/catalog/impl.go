package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rickgao/market-pricer/internal/model"
)

// registryImpl implements the Registry interface.
type registryImpl struct {
	cfg    Config
	source Source
	logger *slog.Logger
	now    func() time.Time

	state *registryState
}

// NewRegistry creates an empty catalog backed by source.
func NewRegistry(cfg Config, source Source, logger *slog.Logger) Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &registryImpl{
		cfg:    cfg,
		source: source,
		logger: logger,
		now:    time.Now,
		state:  newState(),
	}
}

// Load fetches the full item index.
func (r *registryImpl) Load(ctx context.Context) error {
	start := r.now()

	items, err := r.source.GetItems(ctx)
	if err != nil {
		return fmt.Errorf("load item index: %w", err)
	}

	r.state.replaceIndex(items, r.now())

	r.logger.Debug("item index loaded",
		"items", r.state.size(),
		"duration", r.now().Sub(start),
	)
	return nil
}

// Search resolves name case-insensitively against display names, then
// against url names with spaces read as underscores.
func (r *registryImpl) Search(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", &model.ValidationError{Field: "item name", Reason: "empty", Err: ErrItemNotFound}
	}

	if r.state.stale(r.cfg.IndexTTL, r.now()) {
		if err := r.Load(ctx); err != nil {
			return "", err
		}
	}

	key, ok := r.state.lookup(name)
	if !ok {
		return "", &model.ValidationError{Field: "item name", Value: name, Reason: "not found", Err: ErrItemNotFound}
	}
	return key, nil
}

// Describe returns the cached descriptor or fetches it.
func (r *registryImpl) Describe(ctx context.Context, key string) (model.Item, error) {
	if item, ok := r.state.getDescriptor(key); ok {
		return item, nil
	}

	item, err := r.source.GetItem(ctx, key)
	if err != nil {
		return model.Item{}, fmt.Errorf("describe %s: %w", key, err)
	}

	r.state.putDescriptor(item)
	return item, nil
}

// Remember caches item if it carries a key and a tag list.
func (r *registryImpl) Remember(item model.Item) {
	if item.Key == "" || item.Tags == nil {
		return
	}
	r.state.putDescriptor(item)
}
