package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"wayfind/application/ports"
	"wayfind/domain"
	pkgerrors "wayfind/pkg/errors"
	"wayfind/pkg/observability"
)

const (
	favoritesKey      = "favorites"
	recentSearchesKey = "recent_searches"
	snapshotKeyPrefix = "offline_building_"
)

// LocationCache persists favorites, recent searches and per-building offline
// snapshots in durable key-value storage.
//
// Failure semantics: read failures (I/O or corrupt payloads) degrade to an
// empty result and are logged, so a broken cache never crashes a screen.
// Write failures are returned to the caller.
type LocationCache struct {
	store   ports.KVStore
	logger  *zap.Logger
	metrics *observability.Metrics

	// mu serializes read-modify-write cycles on the favorites and recents
	// lists. Snapshot writes are whole-value and need no coordination
	// beyond the store's own atomicity.
	mu sync.Mutex
}

// NewLocationCache creates a location cache over the given store.
// metrics may be nil.
func NewLocationCache(store ports.KVStore, logger *zap.Logger, metrics *observability.Metrics) *LocationCache {
	return &LocationCache{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// snapshotKey builds the storage key for a building's offline snapshot.
func snapshotKey(buildingID string) string {
	return snapshotKeyPrefix + buildingID
}

// GetOfflineSnapshot returns the cached snapshot for a building, or nil if
// none is cached or the cached value is unreadable.
func (c *LocationCache) GetOfflineSnapshot(ctx context.Context, buildingID string) *domain.OfflineSnapshot {
	raw, ok, err := c.store.GetItem(ctx, snapshotKey(buildingID))
	if err != nil {
		c.metrics.RecordCacheRead("error")
		c.logger.Warn("Failed to read offline snapshot",
			zap.String("buildingID", buildingID),
			zap.Error(err),
		)
		return nil
	}
	if !ok {
		c.metrics.RecordCacheRead("miss")
		return nil
	}

	var snapshot domain.OfflineSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		c.metrics.RecordCacheRead("error")
		c.logger.Warn("Discarding corrupt offline snapshot",
			zap.String("buildingID", buildingID),
			zap.Error(err),
		)
		return nil
	}

	c.metrics.RecordCacheRead("hit")
	return &snapshot
}

// SaveOfflineSnapshot stores a building snapshot, replacing any previous one
// whole. Partial merges are deliberately not supported to avoid inconsistent
// floor data.
func (c *LocationCache) SaveOfflineSnapshot(ctx context.Context, buildingID string, snapshot *domain.OfflineSnapshot) error {
	if snapshot == nil {
		return pkgerrors.NewValidationError("snapshot cannot be nil")
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return pkgerrors.NewInternalError("failed to encode snapshot").WithCause(err)
	}

	if err := c.store.SetItem(ctx, snapshotKey(buildingID), string(raw)); err != nil {
		return pkgerrors.NewStorageError("save snapshot", err)
	}

	c.logger.Info("Offline snapshot saved",
		zap.String("buildingID", buildingID),
		zap.Int("floors", len(snapshot.Floors)),
		zap.Int("nodes", snapshot.NodeCount()),
	)
	return nil
}

// IsCached reports whether a snapshot exists for the building. Presence
// only; freshness is not validated.
func (c *LocationCache) IsCached(ctx context.Context, buildingID string) bool {
	_, ok, err := c.store.GetItem(ctx, snapshotKey(buildingID))
	if err != nil {
		c.logger.Warn("Failed to check snapshot presence",
			zap.String("buildingID", buildingID),
			zap.Error(err),
		)
		return false
	}
	return ok
}

// RemoveOfflineSnapshot deletes a building's cached snapshot.
func (c *LocationCache) RemoveOfflineSnapshot(ctx context.Context, buildingID string) error {
	if err := c.store.RemoveItem(ctx, snapshotKey(buildingID)); err != nil {
		return pkgerrors.NewStorageError("remove snapshot", err)
	}
	return nil
}

// GetFavorites returns all stored favorites, newest first.
func (c *LocationCache) GetFavorites(ctx context.Context) []domain.FavoriteDestination {
	var favorites []domain.FavoriteDestination
	c.readList(ctx, favoritesKey, &favorites)
	return favorites
}

// AddFavorite stores a favorite. Adding a node that is already a favorite
// is a no-op.
func (c *LocationCache) AddFavorite(ctx context.Context, fav domain.FavoriteDestination) error {
	if fav.NodeID == "" {
		return pkgerrors.NewValidationError("favorite requires a node id")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var favorites []domain.FavoriteDestination
	c.readList(ctx, favoritesKey, &favorites)

	for _, existing := range favorites {
		if existing.NodeID == fav.NodeID {
			return nil
		}
	}

	if fav.AddedAt.IsZero() {
		fav.AddedAt = time.Now()
	}
	favorites = append([]domain.FavoriteDestination{fav}, favorites...)

	return c.writeList(ctx, favoritesKey, favorites)
}

// RemoveFavorite deletes a favorite by node id. Removing an absent favorite
// is a no-op.
func (c *LocationCache) RemoveFavorite(ctx context.Context, nodeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var favorites []domain.FavoriteDestination
	c.readList(ctx, favoritesKey, &favorites)

	kept := favorites[:0]
	removed := false
	for _, fav := range favorites {
		if fav.NodeID == nodeID {
			removed = true
			continue
		}
		kept = append(kept, fav)
	}
	if !removed {
		return nil
	}

	return c.writeList(ctx, favoritesKey, kept)
}

// IsFavorite reports whether the node is stored as a favorite.
func (c *LocationCache) IsFavorite(ctx context.Context, nodeID string) bool {
	for _, fav := range c.GetFavorites(ctx) {
		if fav.NodeID == nodeID {
			return true
		}
	}
	return false
}

// GetRecentSearches returns the recent-search list, most recent first.
func (c *LocationCache) GetRecentSearches(ctx context.Context) []domain.RecentSearch {
	var recents []domain.RecentSearch
	c.readList(ctx, recentSearchesKey, &recents)
	return recents
}

// AddRecentSearch prepends a recent search. Any existing entry for the same
// node is evicted first, which guarantees recency ordering with no
// duplicates; the list is then truncated to domain.MaxRecentSearches.
func (c *LocationCache) AddRecentSearch(ctx context.Context, rec domain.RecentSearch) error {
	if rec.NodeID == "" {
		return pkgerrors.NewValidationError("recent search requires a node id")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var recents []domain.RecentSearch
	c.readList(ctx, recentSearchesKey, &recents)

	kept := recents[:0]
	for _, existing := range recents {
		if existing.NodeID != rec.NodeID {
			kept = append(kept, existing)
		}
	}

	if rec.SearchedAt.IsZero() {
		rec.SearchedAt = time.Now()
	}
	updated := append([]domain.RecentSearch{rec}, kept...)
	if len(updated) > domain.MaxRecentSearches {
		updated = updated[:domain.MaxRecentSearches]
	}

	return c.writeList(ctx, recentSearchesKey, updated)
}

// ClearRecentSearches wipes the recent-search list.
func (c *LocationCache) ClearRecentSearches(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.RemoveItem(ctx, recentSearchesKey); err != nil {
		return pkgerrors.NewStorageError("clear recent searches", err)
	}
	return nil
}

// readList loads a JSON list from storage into out, degrading to the empty
// list on any failure.
func (c *LocationCache) readList(ctx context.Context, key string, out interface{}) {
	raw, ok, err := c.store.GetItem(ctx, key)
	if err != nil {
		c.metrics.RecordCacheRead("error")
		c.logger.Warn("Failed to read cached list", zap.String("key", key), zap.Error(err))
		return
	}
	if !ok {
		c.metrics.RecordCacheRead("miss")
		return
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.metrics.RecordCacheRead("error")
		c.logger.Warn("Discarding corrupt cached list", zap.String("key", key), zap.Error(err))
		return
	}
	c.metrics.RecordCacheRead("hit")
}

// writeList stores a JSON list. Write failures are surfaced to the caller.
func (c *LocationCache) writeList(ctx context.Context, key string, list interface{}) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return pkgerrors.NewInternalError(fmt.Sprintf("failed to encode %s", key)).WithCause(err)
	}
	if err := c.store.SetItem(ctx, key, string(raw)); err != nil {
		return pkgerrors.NewStorageError(fmt.Sprintf("write %s", key), err)
	}
	return nil
}
