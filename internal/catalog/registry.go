// Package catalog resolves item names to marketplace keys and caches item
// descriptors.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/rickgao/market-pricer/internal/api"
	"github.com/rickgao/market-pricer/internal/model"
)

// ErrItemNotFound is wrapped by the ValidationError returned for unknown items.
var ErrItemNotFound = errors.New("item not found")

// Registry is the item catalog.
type Registry interface {
	// Load fetches the item index. Search loads it on demand.
	Load(ctx context.Context) error

	// Search resolves a display name or url name to an item key.
	Search(ctx context.Context, name string) (string, error)

	// Describe returns the descriptor of an item, fetching it once.
	Describe(ctx context.Context, key string) (model.Item, error)

	// Remember caches a descriptor obtained elsewhere, e.g. embedded in an order.
	Remember(item model.Item)
}

// Source is where the catalog fetches items from. *api.Client implements it.
type Source interface {
	GetItems(ctx context.Context) ([]api.APIItemSummary, error)
	GetItem(ctx context.Context, key string) (model.Item, error)
}

// Config holds catalog configuration.
type Config struct {
	// IndexTTL is how long a loaded item index is trusted. Zero keeps it
	// for the life of the registry.
	IndexTTL time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		IndexTTL: time.Hour,
	}
}
