package services

import (
	"context"
	"sync"

	"wayfind/application/ports"
	"wayfind/domain"
)

// fakeRouteAPI is a func-backed ports.RouteAPI with a call counter.
type fakeRouteAPI struct {
	mu      sync.Mutex
	calls   int
	handler func(req ports.RouteRequest) (*domain.RouteResult, error)
}

func (f *fakeRouteAPI) Calculate(_ context.Context, req ports.RouteRequest) (*domain.RouteResult, error) {
	f.mu.Lock()
	f.calls++
	handler := f.handler
	f.mu.Unlock()
	return handler(req)
}

func (f *fakeRouteAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeNodeAPI is a func-backed ports.NodeAPI. Only the funcs a test sets
// are expected to be hit.
type fakeNodeAPI struct {
	mu          sync.Mutex
	searchCalls int
	qrCalls     int

	searchFn    func(q ports.NodeSearchQuery) ([]domain.Node, error)
	qrFn        func(code string) (*domain.Node, error)
	byFloorFn   func(floorID string) ([]domain.Node, error)
	byIDFn      func(id string) (*domain.Node, error)
	allFn       func() ([]domain.Node, error)
}

func (f *fakeNodeAPI) GetAll(_ context.Context) ([]domain.Node, error) {
	return f.allFn()
}

func (f *fakeNodeAPI) GetByID(_ context.Context, id string) (*domain.Node, error) {
	return f.byIDFn(id)
}

func (f *fakeNodeAPI) GetByFloor(_ context.Context, floorID string) ([]domain.Node, error) {
	return f.byFloorFn(floorID)
}

func (f *fakeNodeAPI) GetByQRCode(_ context.Context, code string) (*domain.Node, error) {
	f.mu.Lock()
	f.qrCalls++
	fn := f.qrFn
	f.mu.Unlock()
	return fn(code)
}

func (f *fakeNodeAPI) Search(_ context.Context, q ports.NodeSearchQuery) ([]domain.Node, error) {
	f.mu.Lock()
	f.searchCalls++
	fn := f.searchFn
	f.mu.Unlock()
	return fn(q)
}

func (f *fakeNodeAPI) searchCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls
}

func (f *fakeNodeAPI) qrCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.qrCalls
}

// fakeBuildingAPI / fakeFloorAPI / fakeEdgeAPI back the sync manager tests.
type fakeBuildingAPI struct {
	mu      sync.Mutex
	byID    int
	byIDFn  func(id string) (*domain.Building, error)
}

func (f *fakeBuildingAPI) GetAll(_ context.Context, page, pageSize int) ([]domain.Building, error) {
	return nil, nil
}

func (f *fakeBuildingAPI) GetByID(_ context.Context, id string) (*domain.Building, error) {
	f.mu.Lock()
	f.byID++
	fn := f.byIDFn
	f.mu.Unlock()
	return fn(id)
}

func (f *fakeBuildingAPI) byIDCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID
}

type fakeFloorAPI struct {
	byBuildingFn func(buildingID string) ([]domain.Floor, error)
}

func (f *fakeFloorAPI) GetByID(_ context.Context, id string) (*domain.Floor, error) {
	return nil, nil
}

func (f *fakeFloorAPI) GetByBuilding(_ context.Context, buildingID string) ([]domain.Floor, error) {
	return f.byBuildingFn(buildingID)
}

type fakeEdgeAPI struct {
	byFloorFn func(floorID string) ([]domain.Edge, error)
}

func (f *fakeEdgeAPI) GetByFloor(_ context.Context, floorID string) ([]domain.Edge, error) {
	return f.byFloorFn(floorID)
}

// testNode builds a minimal node for selection tests.
func testNode(id, name string) *domain.Node {
	return &domain.Node{
		ID:      id,
		Name:    name,
		Type:    domain.NodeTypeRoom,
		FloorID: "floor-1",
	}
}

// routeThrough builds a found route over the given node ids.
func routeThrough(ids ...string) *domain.RouteResult {
	nodes := make([]domain.Node, len(ids))
	for i, id := range ids {
		nodes[i] = *testNode(id, "node "+id)
	}
	return &domain.RouteResult{
		PathFound:            true,
		PathNodes:            nodes,
		TotalDistance:        42,
		EstimatedTimeMinutes: 1,
	}
}
