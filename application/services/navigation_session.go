package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"wayfind/application/ports"
	"wayfind/domain"
	pkgerrors "wayfind/pkg/errors"
	"wayfind/pkg/observability"
)

// User-facing messages for the session error field.
const (
	msgMissingSelection = "select both a start and an end location first"
	msgCalculateFailed  = "route calculation failed, please try again"
)

// NavigationSession owns the lifecycle of one wayfinding attempt: start/end
// selection, building/floor scoping context, the route-calculation request
// and the step cursor over the resulting path.
//
// Exactly one session exists per app run; construct it once and pass the
// handle to consumers. Reset returns it to the initial empty state.
//
// Concurrency contract for CalculateRoute: last-issued wins. Every call
// (and every mutation that invalidates the route) bumps a generation
// counter; a response is applied only if its generation is still current,
// so a stale response is never applied after a newer request has started.
type NavigationSession struct {
	routes       ports.RouteAPI
	cache        *LocationCache
	connectivity *ConnectivityMonitor
	logger       *zap.Logger
	metrics      *observability.Metrics

	mu                sync.Mutex
	startNode         *domain.Node
	endNode           *domain.Node
	currentBuildingID string
	currentFloorID    string
	requireAccessible bool
	route             *domain.RouteResult
	currentStepIndex  int
	isCalculating     bool
	errMsg            string
	calcGen           uint64
}

// NewNavigationSession creates an empty session. metrics may be nil.
func NewNavigationSession(
	routes ports.RouteAPI,
	cache *LocationCache,
	connectivity *ConnectivityMonitor,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *NavigationSession {
	return &NavigationSession{
		routes:       routes,
		cache:        cache,
		connectivity: connectivity,
		logger:       logger,
		metrics:      metrics,
	}
}

// SetStartNode replaces the start selection and clears any error. The
// computed route is kept: only CalculateRoute clears or replaces it.
func (s *NavigationSession) SetStartNode(node *domain.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startNode = node
	s.errMsg = ""
}

// SetEndNode replaces the end selection and clears any error. The computed
// route is kept: only CalculateRoute clears or replaces it.
func (s *NavigationSession) SetEndNode(node *domain.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endNode = node
	s.errMsg = ""
}

// SwapNodes exchanges start and end atomically. A swapped route is not the
// reverse of the old one without recomputation, so the route and step
// cursor are invalidated.
func (s *NavigationSession) SwapNodes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startNode, s.endNode = s.endNode, s.startNode
	s.route = nil
	s.currentStepIndex = 0
	s.isCalculating = false
	s.errMsg = ""
	s.calcGen++ // an in-flight calculation now targets stale endpoints
}

// SetRequireAccessible updates the accessibility preference. Recalculation
// is an explicit, user-visible action; it is not triggered here.
func (s *NavigationSession) SetRequireAccessible(require bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireAccessible = require
}

// SetContext records the building/floor scoping context used by search.
func (s *NavigationSession) SetContext(buildingID, floorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentBuildingID = buildingID
	s.currentFloorID = floorID
}

// CalculateRoute issues one route-calculation request for the current
// selections. It fails fast without touching the route if either selection
// is missing. The returned error mirrors the session's terminal error
// state; callers may rely on either.
func (s *NavigationSession) CalculateRoute(ctx context.Context) error {
	s.mu.Lock()
	if s.startNode == nil || s.endNode == nil {
		s.errMsg = msgMissingSelection
		s.mu.Unlock()
		s.metrics.RecordRouteCalculation("rejected")
		return pkgerrors.NewValidationError(msgMissingSelection)
	}

	s.calcGen++
	gen := s.calcGen
	s.isCalculating = true
	s.errMsg = ""
	req := ports.RouteRequest{
		StartNodeID:       s.startNode.ID,
		EndNodeID:         s.endNode.ID,
		RequireAccessible: s.requireAccessible,
	}
	endNode := *s.endNode
	s.mu.Unlock()

	if !s.connectivity.IsOnline() {
		return s.finishOffline(ctx, gen, req)
	}

	s.logger.Debug("Calculating route",
		zap.String("startNodeID", req.StartNodeID),
		zap.String("endNodeID", req.EndNodeID),
		zap.Bool("requireAccessible", req.RequireAccessible),
	)

	result, err := s.routes.Calculate(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.calcGen {
		// Superseded by a newer request or an invalidating mutation.
		s.logger.Debug("Discarding stale route result",
			zap.Uint64("gen", gen),
			zap.Uint64("current", s.calcGen),
		)
		return nil
	}
	s.isCalculating = false

	switch {
	case err != nil:
		s.route = nil
		s.currentStepIndex = 0
		s.errMsg = msgCalculateFailed
		s.metrics.RecordRouteCalculation("failed")
		s.logger.Warn("Route calculation failed", zap.Error(err))
		return pkgerrors.Wrap(err, "route calculation")

	case !result.PathFound:
		s.route = nil
		s.currentStepIndex = 0
		s.errMsg = result.ErrorMessage
		if s.errMsg == "" {
			s.errMsg = "no path found between the selected locations"
		}
		s.metrics.RecordRouteCalculation("no_path")
		return pkgerrors.NewNoPathError(result.ErrorMessage)

	default:
		s.route = result
		s.currentStepIndex = 0
		s.metrics.RecordRouteCalculation("found")
		s.logger.Info("Route calculated",
			zap.Int("steps", result.Length()),
			zap.Float64("totalDistance", result.TotalDistance),
		)
		s.recordDestination(ctx, endNode)
		return nil
	}
}

// finishOffline resolves a calculation attempted without connectivity. The
// path search runs server-side, so the best the session can do is fail with
// a message that tells the user whether cached map data is available.
func (s *NavigationSession) finishOffline(ctx context.Context, gen uint64, req ports.RouteRequest) error {
	msg := "you are offline; route calculation needs a connection"

	s.mu.Lock()
	buildingID := s.currentBuildingID
	s.mu.Unlock()
	if buildingID != "" && s.cache.IsCached(ctx, buildingID) {
		msg = "you are offline; cached map data for this building is available, but route calculation needs a connection"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.calcGen {
		return nil
	}
	s.isCalculating = false
	s.route = nil
	s.currentStepIndex = 0
	s.errMsg = msg
	s.metrics.RecordRouteCalculation("failed")
	s.logger.Warn("Route calculation attempted offline",
		zap.String("startNodeID", req.StartNodeID),
		zap.String("endNodeID", req.EndNodeID),
	)
	return pkgerrors.NewNetworkError(msg, nil)
}

// recordDestination writes the reached-for destination into the recent
// searches list. Called with s.mu held; failures only get logged since
// recents are a convenience, not session state.
func (s *NavigationSession) recordDestination(ctx context.Context, node domain.Node) {
	if err := s.cache.AddRecentSearch(ctx, domain.RecentSearch{
		NodeID:   node.ID,
		NodeName: node.Name,
		NodeType: node.Type,
	}); err != nil {
		s.logger.Warn("Failed to record recent destination",
			zap.String("nodeID", node.ID),
			zap.Error(err),
		)
	}
}

// NextStep advances the step cursor, clamped to the last path entry.
func (s *NavigationSession) NextStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.route == nil {
		return
	}
	if s.currentStepIndex < s.route.Length()-1 {
		s.currentStepIndex++
	}
}

// PreviousStep moves the step cursor back, clamped to the first entry.
func (s *NavigationSession) PreviousStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.route == nil {
		return
	}
	if s.currentStepIndex > 0 {
		s.currentStepIndex--
	}
}

// GoToStep jumps the cursor to index, clamping out-of-range requests. The
// UI's enabled state should already prevent invalid calls, but the bound
// holds even if it doesn't.
func (s *NavigationSession) GoToStep(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.route == nil {
		return
	}
	if index < 0 {
		index = 0
	}
	if max := s.route.Length() - 1; index > max {
		index = max
	}
	s.currentStepIndex = index
}

// CurrentStep returns the path node under the cursor, or nil without a route.
func (s *NavigationSession) CurrentStep() *domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.route == nil {
		return nil
	}
	return s.route.NodeAt(s.currentStepIndex)
}

// ClearRoute drops the route, cursor and error while preserving the
// start/end selections and the accessibility flag, so the user can
// recompute with different options without re-picking endpoints.
func (s *NavigationSession) ClearRoute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = nil
	s.currentStepIndex = 0
	s.errMsg = ""
	s.isCalculating = false
	s.calcGen++ // discard any in-flight result
}

// Reset wipes the session back to its initial empty state.
func (s *NavigationSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startNode = nil
	s.endNode = nil
	s.currentBuildingID = ""
	s.currentFloorID = ""
	s.requireAccessible = false
	s.route = nil
	s.currentStepIndex = 0
	s.isCalculating = false
	s.errMsg = ""
	s.calcGen++
}

// StartNode returns the current start selection.
func (s *NavigationSession) StartNode() *domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startNode
}

// EndNode returns the current end selection.
func (s *NavigationSession) EndNode() *domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endNode
}

// Route returns the current route, or nil.
func (s *NavigationSession) Route() *domain.RouteResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route
}

// CurrentStepIndex returns the step cursor position.
func (s *NavigationSession) CurrentStepIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentStepIndex
}

// IsCalculating reports whether a calculation is in flight.
func (s *NavigationSession) IsCalculating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isCalculating
}

// RequireAccessible returns the accessibility preference.
func (s *NavigationSession) RequireAccessible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requireAccessible
}

// Err returns the current user-facing error message, empty when none.
func (s *NavigationSession) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Context returns the building/floor scoping context.
func (s *NavigationSession) Context() (buildingID, floorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentBuildingID, s.currentFloorID
}
