package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wayfind/application/ports"
	"wayfind/domain"
	pkgerrors "wayfind/pkg/errors"
	"wayfind/pkg/observability"
)

// ScanTarget selects which session slot a resolved scan is written into.
type ScanTarget int

const (
	// ScanTargetStart writes the resolved node as the session's start
	// ("current location") selection.
	ScanTargetStart ScanTarget = iota

	// ScanTargetEnd writes the resolved node as the destination.
	ScanTargetEnd
)

// ScanResolver converts a scanned QR payload into a validated node.
// Payloads are UUID-shaped; a malformed payload fails locally without a
// network round-trip. The same payload scanned repeatedly while the camera
// stays open is suppressed; a failed lookup re-arms scanning so the user
// can retry immediately.
type ScanResolver struct {
	nodes   ports.NodeAPI
	session *NavigationSession
	logger  *zap.Logger
	metrics *observability.Metrics
	target  ScanTarget

	mu          sync.Mutex
	processing  bool
	lastPayload string
	resolved    *domain.Node
	errMsg      string
}

// NewScanResolver creates a resolver writing into the given session slot.
// metrics may be nil.
func NewScanResolver(
	nodes ports.NodeAPI,
	session *NavigationSession,
	logger *zap.Logger,
	metrics *observability.Metrics,
	target ScanTarget,
) *ScanResolver {
	return &ScanResolver{
		nodes:   nodes,
		session: session,
		logger:  logger,
		metrics: metrics,
		target:  target,
	}
}

// HandleScan processes one scanned payload. It is a no-op while a lookup is
// in flight or when payload equals the last successfully dispatched one.
// On success the resolved node is returned and written into the session.
func (r *ScanResolver) HandleScan(ctx context.Context, payload string) (*domain.Node, error) {
	r.mu.Lock()
	if r.processing || payload == r.lastPayload {
		r.mu.Unlock()
		return nil, nil
	}

	if _, err := uuid.Parse(payload); err != nil {
		r.errMsg = "this code is not a valid location code"
		r.mu.Unlock()
		r.metrics.RecordScan("invalid")
		r.logger.Debug("Rejected malformed scan payload", zap.String("payload", payload))
		return nil, pkgerrors.NewValidationError("scanned code is not a valid location code")
	}

	r.processing = true
	r.lastPayload = payload
	r.errMsg = ""
	r.mu.Unlock()

	node, err := r.nodes.GetByQRCode(ctx, payload)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.processing = false

	if err != nil {
		// Re-arm so an immediate retry of any code is accepted.
		r.lastPayload = ""
		if pkgerrors.IsNotFound(err) {
			r.errMsg = "this code is not registered to any location"
			r.metrics.RecordScan("not_found")
		} else {
			r.errMsg = "could not look up the scanned code"
			r.metrics.RecordScan("failed")
		}
		r.logger.Warn("Scan lookup failed", zap.String("payload", payload), zap.Error(err))
		return nil, pkgerrors.Wrap(err, "scan lookup")
	}

	r.resolved = node
	r.metrics.RecordScan("resolved")
	r.logger.Info("Scan resolved",
		zap.String("nodeID", node.ID),
		zap.String("nodeName", node.Name),
	)

	switch r.target {
	case ScanTargetStart:
		r.session.SetStartNode(node)
	case ScanTargetEnd:
		r.session.SetEndNode(node)
	}

	return node, nil
}

// Rearm clears the duplicate-suppression marker and error, e.g. when the
// scanner screen is reopened.
func (r *ScanResolver) Rearm() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastPayload = ""
	r.errMsg = ""
}

// LastResolved returns the most recently resolved node, or nil.
func (r *ScanResolver) LastResolved() *domain.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolved
}

// IsProcessing reports whether a lookup is in flight.
func (r *ScanResolver) IsProcessing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.processing
}

// Err returns the current scan error message, empty when none.
func (r *ScanResolver) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errMsg
}
