package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"wayfind/application/ports"
	"wayfind/domain"
	pkgerrors "wayfind/pkg/errors"
	"wayfind/pkg/observability"
)

// SyncProgress reports download progress to an optional handler.
type SyncProgress struct {
	BuildingID    string
	FetchedFloors int
	TotalFloors   int
}

// OfflineSyncManager downloads a full building snapshot (building, floors,
// per-floor nodes and edges) and stores it through the LocationCache in one
// atomic write. Failure of any sub-fetch aborts the whole operation; no
// partial snapshot is ever persisted.
//
// Downloads are idempotent per building: a second call while one is in
// flight joins the pending download instead of starting another write.
type OfflineSyncManager struct {
	buildings ports.BuildingAPI
	floors    ports.FloorAPI
	nodes     ports.NodeAPI
	edges     ports.EdgeAPI
	cache     *LocationCache
	logger    *zap.Logger
	metrics   *observability.Metrics

	mu         sync.Mutex
	inflight   map[string]*downloadCall
	onProgress func(SyncProgress)
}

// downloadCall tracks one in-flight building download that late callers
// can join.
type downloadCall struct {
	done     chan struct{}
	snapshot *domain.OfflineSnapshot
	err      error
}

// NewOfflineSyncManager creates a sync manager. metrics may be nil.
func NewOfflineSyncManager(
	buildings ports.BuildingAPI,
	floors ports.FloorAPI,
	nodes ports.NodeAPI,
	edges ports.EdgeAPI,
	cache *LocationCache,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *OfflineSyncManager {
	return &OfflineSyncManager{
		buildings: buildings,
		floors:    floors,
		nodes:     nodes,
		edges:     edges,
		cache:     cache,
		logger:    logger,
		metrics:   metrics,
		inflight:  make(map[string]*downloadCall),
	}
}

// SetProgressHandler registers a progress callback. Pass nil to clear.
func (m *OfflineSyncManager) SetProgressHandler(fn func(SyncProgress)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onProgress = fn
}

// DownloadBuildingData fetches and caches a building's full offline
// snapshot. Concurrent calls for the same building share one download.
func (m *OfflineSyncManager) DownloadBuildingData(ctx context.Context, buildingID string) (*domain.OfflineSnapshot, error) {
	if buildingID == "" {
		return nil, pkgerrors.NewValidationError("building id is required")
	}

	m.mu.Lock()
	if call, ok := m.inflight[buildingID]; ok {
		m.mu.Unlock()
		select {
		case <-call.done:
			return call.snapshot, call.err
		case <-ctx.Done():
			return nil, pkgerrors.NewTimeoutError("download building data")
		}
	}
	call := &downloadCall{done: make(chan struct{})}
	m.inflight[buildingID] = call
	m.mu.Unlock()

	call.snapshot, call.err = m.download(ctx, buildingID)

	m.mu.Lock()
	delete(m.inflight, buildingID)
	m.mu.Unlock()
	close(call.done)

	return call.snapshot, call.err
}

// IsBuildingCached is a cheap existence check. It does not validate
// freshness; whether stale snapshots should expire is a product decision
// that is deliberately not made here.
func (m *OfflineSyncManager) IsBuildingCached(ctx context.Context, buildingID string) bool {
	return m.cache.IsCached(ctx, buildingID)
}

// download performs the actual multi-fetch and single atomic save.
func (m *OfflineSyncManager) download(ctx context.Context, buildingID string) (*domain.OfflineSnapshot, error) {
	started := time.Now()
	m.logger.Info("Downloading building data", zap.String("buildingID", buildingID))

	building, err := m.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return m.fail(buildingID, "fetch building", err)
	}

	floors, err := m.floors.GetByBuilding(ctx, buildingID)
	if err != nil {
		return m.fail(buildingID, "fetch floors", err)
	}

	snapshot := &domain.OfflineSnapshot{
		Building:     *building,
		Floors:       floors,
		NodesByFloor: make(map[string][]domain.Node, len(floors)),
		EdgesByFloor: make(map[string][]domain.Edge, len(floors)),
		DownloadedAt: time.Now(),
	}

	for i, floor := range floors {
		nodes, err := m.nodes.GetByFloor(ctx, floor.ID)
		if err != nil {
			return m.fail(buildingID, "fetch floor nodes", err)
		}
		edges, err := m.edges.GetByFloor(ctx, floor.ID)
		if err != nil {
			return m.fail(buildingID, "fetch floor edges", err)
		}
		snapshot.NodesByFloor[floor.ID] = nodes
		snapshot.EdgesByFloor[floor.ID] = edges
		m.reportProgress(SyncProgress{
			BuildingID:    buildingID,
			FetchedFloors: i + 1,
			TotalFloors:   len(floors),
		})
	}

	if err := m.cache.SaveOfflineSnapshot(ctx, buildingID, snapshot); err != nil {
		return m.fail(buildingID, "persist snapshot", err)
	}

	m.metrics.RecordSnapshotDownload("ok")
	m.logger.Info("Building data downloaded",
		zap.String("buildingID", buildingID),
		zap.Int("floors", len(floors)),
		zap.Int("nodes", snapshot.NodeCount()),
		zap.Duration("elapsed", time.Since(started)),
	)
	return snapshot, nil
}

// fail logs, counts and wraps a sub-fetch failure.
func (m *OfflineSyncManager) fail(buildingID, stage string, err error) (*domain.OfflineSnapshot, error) {
	m.metrics.RecordSnapshotDownload("failed")
	m.logger.Warn("Building download aborted",
		zap.String("buildingID", buildingID),
		zap.String("stage", stage),
		zap.Error(err),
	)
	return nil, pkgerrors.Wrapf(err, "download building %s: %s", buildingID, stage)
}

// reportProgress invokes the handler outside the manager lock.
func (m *OfflineSyncManager) reportProgress(p SyncProgress) {
	m.mu.Lock()
	fn := m.onProgress
	m.mu.Unlock()
	if fn != nil {
		fn(p)
	}
}
