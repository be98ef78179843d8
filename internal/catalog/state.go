package catalog

import (
	"strings"
	"sync"
	"time"

	"github.com/rickgao/market-pricer/internal/api"
	"github.com/rickgao/market-pricer/internal/model"
)

// registryState holds the thread-safe item cache.
type registryState struct {
	mu sync.RWMutex

	// Item keys indexed by lowercased display name and by url name.
	byName map[string]string
	byKey  map[string]api.APIItemSummary

	// Full descriptors, fetched on demand.
	descriptors map[string]model.Item

	// Last successful index load.
	loadedAt time.Time
}

func newState() *registryState {
	return &registryState{
		byName:      make(map[string]string),
		byKey:       make(map[string]api.APIItemSummary),
		descriptors: make(map[string]model.Item),
	}
}

// replaceIndex swaps in a freshly loaded index (write-locked).
func (s *registryState) replaceIndex(items []api.APIItemSummary, at time.Time) {
	byName := make(map[string]string, len(items))
	byKey := make(map[string]api.APIItemSummary, len(items))
	for _, it := range items {
		if it.URLName == "" {
			continue
		}
		byKey[it.URLName] = it
		if it.ItemName != "" {
			byName[strings.ToLower(it.ItemName)] = it.URLName
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName = byName
	s.byKey = byKey
	s.loadedAt = at
}

// stale reports whether the index must be (re)loaded (read-locked).
func (s *registryState) stale(ttl time.Duration, now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loadedAt.IsZero() {
		return true
	}
	return ttl > 0 && now.Sub(s.loadedAt) > ttl
}

// lookup matches a name against display names, then url names (read-locked).
func (s *registryState) lookup(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lower := strings.ToLower(strings.TrimSpace(name))
	if key, ok := s.byName[lower]; ok {
		return key, true
	}
	if _, ok := s.byKey[strings.ReplaceAll(lower, " ", "_")]; ok {
		return strings.ReplaceAll(lower, " ", "_"), true
	}
	return "", false
}

// getDescriptor returns a cached descriptor (read-locked).
func (s *registryState) getDescriptor(key string) (model.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.descriptors[key]
	return item, ok
}

// putDescriptor caches a descriptor (write-locked).
func (s *registryState) putDescriptor(item model.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.descriptors[item.Key] = item
}

// size returns the number of indexed items (read-locked).
func (s *registryState) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}
