package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"wayfind/application/ports"
	"wayfind/domain"
	pkgerrors "wayfind/pkg/errors"
	"wayfind/pkg/observability"
)

const (
	// DefaultSearchDebounce is the delay between the last keystroke and the
	// search actually running.
	DefaultSearchDebounce = 300 * time.Millisecond

	// DefaultMaxSearchResults caps the visible result list.
	DefaultMaxSearchResults = 50

	// minQueryLength is the shortest trimmed query that hits the network.
	minQueryLength = 2
)

// SearchConfig tunes the search index. Zero values fall back to defaults.
type SearchConfig struct {
	Debounce   time.Duration
	MaxResults int
}

// SearchIndex is a debounced, cancellable text/type search over nodes. It
// delegates to the remote API when online and falls back to the cached
// building snapshot when offline.
//
// Ordering: only the most recently scheduled search may mutate visible
// results. Debounce timers are cancelled when superseded, and a generation
// counter discards slow responses that arrive after a newer query.
type SearchIndex struct {
	nodes        ports.NodeAPI
	cache        *LocationCache
	connectivity *ConnectivityMonitor
	logger       *zap.Logger
	metrics      *observability.Metrics

	debounce   time.Duration
	maxResults int

	mu         sync.Mutex
	query      string
	buildingID string
	floorID    string
	nodeType   domain.NodeType
	results    []domain.Node
	searching  bool
	errMsg     string
	timer      *time.Timer
	gen        uint64
}

// NewSearchIndex creates a search index. metrics may be nil.
func NewSearchIndex(
	nodes ports.NodeAPI,
	cache *LocationCache,
	connectivity *ConnectivityMonitor,
	logger *zap.Logger,
	metrics *observability.Metrics,
	cfg SearchConfig,
) *SearchIndex {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultSearchDebounce
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxSearchResults
	}
	return &SearchIndex{
		nodes:        nodes,
		cache:        cache,
		connectivity: connectivity,
		logger:       logger,
		metrics:      metrics,
		debounce:     cfg.Debounce,
		maxResults:   cfg.MaxResults,
	}
}

// SetScope restricts searches to a building, floor and/or node type. Empty
// values leave that dimension unscoped.
func (s *SearchIndex) SetScope(buildingID, floorID string, nodeType domain.NodeType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buildingID = buildingID
	s.floorID = floorID
	s.nodeType = nodeType
}

// SetQuery updates the visible query immediately and schedules a debounced
// search, cancelling any search still pending for the previous keystroke.
// Queries shorter than two characters after trimming never hit the network
// and clear the results instead.
func (s *SearchIndex) SetQuery(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = text
	s.gen++
	gen := s.gen

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minQueryLength {
		s.results = nil
		s.searching = false
		s.errMsg = ""
		return
	}

	s.searching = true
	s.errMsg = ""
	s.timer = time.AfterFunc(s.debounce, func() {
		s.runSearch(context.Background(), trimmed, gen)
	})
}

// SearchNow runs a search for term immediately, bypassing the debounce.
// It still participates in stale-response suppression.
func (s *SearchIndex) SearchNow(ctx context.Context, term string) ([]domain.Node, error) {
	term = strings.TrimSpace(term)
	if len(term) < minQueryLength {
		return nil, pkgerrors.NewValidationError("search term must be at least 2 characters")
	}

	s.mu.Lock()
	s.query = term
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.searching = true
	s.errMsg = ""
	s.mu.Unlock()

	return s.search(ctx, term, gen)
}

// ClearSearch cancels any pending debounce timer and clears the query,
// results and error.
func (s *SearchIndex) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.query = ""
	s.results = nil
	s.searching = false
	s.errMsg = ""
}

// Query returns the currently visible query text.
func (s *SearchIndex) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Results returns a copy of the visible results.
func (s *SearchIndex) Results() []domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make([]domain.Node, len(s.results))
	copy(results, s.results)
	return results
}

// IsSearching reports whether a search is scheduled or in flight.
func (s *SearchIndex) IsSearching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searching
}

// Err returns the current search error message, empty when none.
func (s *SearchIndex) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// runSearch is the debounce timer body.
func (s *SearchIndex) runSearch(ctx context.Context, term string, gen uint64) {
	if _, err := s.search(ctx, term, gen); err != nil {
		s.logger.Debug("Search failed", zap.String("term", term), zap.Error(err))
	}
}

// search performs one search attempt and applies the outcome to visible
// state if gen is still current.
func (s *SearchIndex) search(ctx context.Context, term string, gen uint64) ([]domain.Node, error) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return nil, nil
	}
	query := ports.NodeSearchQuery{
		Term:       term,
		BuildingID: s.buildingID,
		FloorID:    s.floorID,
		Type:       s.nodeType,
		MaxResults: s.maxResults,
	}
	s.mu.Unlock()

	var (
		results []domain.Node
		err     error
	)
	if s.connectivity.IsOnline() {
		s.metrics.RecordSearch("online")
		results, err = s.nodes.Search(ctx, query)
		if err == nil && len(results) > s.maxResults {
			results = results[:s.maxResults]
		}
	} else {
		s.metrics.RecordSearch("offline")
		results, err = s.searchOffline(ctx, query)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// A newer query was typed while this one was in flight.
		return nil, nil
	}
	s.searching = false
	if err != nil {
		s.results = nil
		s.errMsg = "search failed, please try again"
		return nil, pkgerrors.Wrap(err, "search")
	}
	s.results = results
	s.errMsg = ""
	return results, nil
}

// searchOffline filters the cached snapshot's nodes by case-insensitive
// substring match on name, applying the same scope filters as the remote
// search. No network call is made.
func (s *SearchIndex) searchOffline(ctx context.Context, query ports.NodeSearchQuery) ([]domain.Node, error) {
	if query.BuildingID == "" {
		return nil, pkgerrors.NewValidationError("offline search needs a building context")
	}

	snapshot := s.cache.GetOfflineSnapshot(ctx, query.BuildingID)
	if snapshot == nil {
		return nil, pkgerrors.NewNotFoundError("offline data for this building")
	}

	needle := strings.ToLower(query.Term)
	var matches []domain.Node
	for _, node := range snapshot.AllNodes() {
		if query.FloorID != "" && node.FloorID != query.FloorID {
			continue
		}
		if query.Type != "" && node.Type != query.Type {
			continue
		}
		if !strings.Contains(strings.ToLower(node.Name), needle) {
			continue
		}
		matches = append(matches, node)
		if len(matches) >= query.MaxResults {
			break
		}
	}

	s.logger.Debug("Offline search served from snapshot",
		zap.String("buildingID", query.BuildingID),
		zap.Int("matches", len(matches)),
	)
	return matches, nil
}
