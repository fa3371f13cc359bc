package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"wayfind/application/ports"
	"wayfind/domain"
	"wayfind/infrastructure/persistence/memory"
	pkgerrors "wayfind/pkg/errors"
)

func newTestSearchIndex(t *testing.T, nodes ports.NodeAPI, online bool, cfg SearchConfig) (*SearchIndex, *LocationCache) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cache := NewLocationCache(memory.NewStore(), logger, nil)
	monitor := NewConnectivityMonitor(logger, online)
	return NewSearchIndex(nodes, cache, monitor, logger, nil, cfg), cache
}

func labSnapshot() *domain.OfflineSnapshot {
	return &domain.OfflineSnapshot{
		Building: domain.Building{ID: "b1", Name: "Science Block"},
		Floors: []domain.Floor{
			{ID: "f1", BuildingID: "b1", FloorNumber: 0},
			{ID: "f2", BuildingID: "b1", FloorNumber: 1},
		},
		NodesByFloor: map[string][]domain.Node{
			"f1": {
				{ID: "n1", Name: "Lobby", Type: domain.NodeTypeRoom, FloorID: "f1"},
				{ID: "n2", Name: "Computer Lab", Type: domain.NodeTypeRoom, FloorID: "f1"},
			},
			"f2": {
				{ID: "n3", Name: "Chemistry Lab", Type: domain.NodeTypeRoom, FloorID: "f2"},
				{ID: "n4", Name: "Lab Storage", Type: domain.NodeTypeOther, FloorID: "f2"},
			},
		},
		DownloadedAt: time.Now(),
	}
}

func TestSetQueryDebouncesBeforeSearching(t *testing.T) {
	nodes := &fakeNodeAPI{searchFn: func(q ports.NodeSearchQuery) ([]domain.Node, error) {
		return []domain.Node{{ID: "n2", Name: "Computer Lab"}}, nil
	}}
	index, _ := newTestSearchIndex(t, nodes, true, SearchConfig{Debounce: 20 * time.Millisecond})

	index.SetQuery("lab")

	assert.Equal(t, "lab", index.Query(), "query text echoes immediately")
	assert.True(t, index.IsSearching())
	assert.Equal(t, 0, nodes.searchCallCount(), "search waits out the debounce window")

	require.Eventually(t, func() bool {
		return len(index.Results()) == 1 && !index.IsSearching()
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, nodes.searchCallCount())
}

func TestRapidTypingCollapsesToOneSearch(t *testing.T) {
	var lastTerm string
	nodes := &fakeNodeAPI{searchFn: func(q ports.NodeSearchQuery) ([]domain.Node, error) {
		lastTerm = q.Term
		return []domain.Node{{ID: "n3", Name: "Chemistry Lab"}}, nil
	}}
	index, _ := newTestSearchIndex(t, nodes, true, SearchConfig{Debounce: 30 * time.Millisecond})

	index.SetQuery("ch")
	index.SetQuery("che")
	index.SetQuery("chem")

	require.Eventually(t, func() bool {
		return nodes.searchCallCount() > 0 && !index.IsSearching()
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, nodes.searchCallCount(), "earlier keystrokes must be cancelled")
	assert.Equal(t, "chem", lastTerm)
}

func TestShortQueryClearsWithoutNetwork(t *testing.T) {
	nodes := &fakeNodeAPI{searchFn: func(q ports.NodeSearchQuery) ([]domain.Node, error) {
		return []domain.Node{{ID: "n1", Name: "Lobby"}}, nil
	}}
	index, _ := newTestSearchIndex(t, nodes, true, SearchConfig{Debounce: 10 * time.Millisecond})

	_, err := index.SearchNow(context.Background(), "lobby")
	require.NoError(t, err)
	require.Len(t, index.Results(), 1)

	index.SetQuery("l")
	assert.Empty(t, index.Results())
	assert.False(t, index.IsSearching())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, nodes.searchCallCount(), "one-character query must not hit the network")

	_, err = index.SearchNow(context.Background(), " a ")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestSlowResponseCannotOverwriteNewerResults(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	nodes := &fakeNodeAPI{searchFn: func(q ports.NodeSearchQuery) ([]domain.Node, error) {
		if q.Term == "lobby" {
			close(firstStarted)
			<-releaseFirst
			return []domain.Node{{ID: "n1", Name: "Lobby"}}, nil
		}
		return []domain.Node{{ID: "n3", Name: "Chemistry Lab"}}, nil
	}}
	index, _ := newTestSearchIndex(t, nodes, true, SearchConfig{Debounce: 5 * time.Millisecond})

	index.SetQuery("lobby")
	<-firstStarted

	results, err := index.SearchNow(context.Background(), "chem")
	require.NoError(t, err)
	require.Len(t, results, 1)

	close(releaseFirst)

	// Give the stale response a chance to (incorrectly) apply itself.
	time.Sleep(30 * time.Millisecond)
	got := index.Results()
	require.Len(t, got, 1)
	assert.Equal(t, "n3", got[0].ID, "stale lobby results must be discarded")
}

func TestClearSearchCancelsPending(t *testing.T) {
	nodes := &fakeNodeAPI{searchFn: func(q ports.NodeSearchQuery) ([]domain.Node, error) {
		return []domain.Node{{ID: "n1", Name: "Lobby"}}, nil
	}}
	index, _ := newTestSearchIndex(t, nodes, true, SearchConfig{Debounce: 20 * time.Millisecond})

	index.SetQuery("lobby")
	index.ClearSearch()

	assert.Empty(t, index.Query())
	assert.Empty(t, index.Results())
	assert.False(t, index.IsSearching())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, nodes.searchCallCount())
}

func TestSearchErrorSetsMessage(t *testing.T) {
	nodes := &fakeNodeAPI{searchFn: func(q ports.NodeSearchQuery) ([]domain.Node, error) {
		return nil, pkgerrors.NewNetworkError("connection reset", nil)
	}}
	index, _ := newTestSearchIndex(t, nodes, true, SearchConfig{})

	_, err := index.SearchNow(context.Background(), "lobby")
	require.Error(t, err)
	assert.Equal(t, "search failed, please try again", index.Err())
	assert.Empty(t, index.Results())
	assert.False(t, index.IsSearching())
}

func TestOfflineSearchServedFromSnapshot(t *testing.T) {
	ctx := context.Background()
	nodes := &fakeNodeAPI{searchFn: func(q ports.NodeSearchQuery) ([]domain.Node, error) {
		t.Fatal("offline search must not touch the network")
		return nil, nil
	}}
	index, cache := newTestSearchIndex(t, nodes, false, SearchConfig{})
	require.NoError(t, cache.SaveOfflineSnapshot(ctx, "b1", labSnapshot()))
	index.SetScope("b1", "", "")

	results, err := index.SearchNow(ctx, "lab")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 0, nodes.searchCallCount())

	// Matching is case-insensitive substring on the name.
	results, err = index.SearchNow(ctx, "CHEMIS")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "n3", results[0].ID)
}

func TestOfflineSearchAppliesScopeFilters(t *testing.T) {
	ctx := context.Background()
	nodes := &fakeNodeAPI{}
	index, cache := newTestSearchIndex(t, nodes, false, SearchConfig{})
	require.NoError(t, cache.SaveOfflineSnapshot(ctx, "b1", labSnapshot()))

	index.SetScope("b1", "f2", "")
	results, err := index.SearchNow(ctx, "lab")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, node := range results {
		assert.Equal(t, "f2", node.FloorID)
	}

	index.SetScope("b1", "", domain.NodeTypeOther)
	results, err = index.SearchNow(ctx, "lab")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "n4", results[0].ID)
}

func TestOfflineSearchWithoutBuildingFails(t *testing.T) {
	nodes := &fakeNodeAPI{}
	index, _ := newTestSearchIndex(t, nodes, false, SearchConfig{})

	_, err := index.SearchNow(context.Background(), "lab")
	require.Error(t, err)
	assert.Equal(t, "search failed, please try again", index.Err())
}

func TestOfflineSearchWithoutSnapshotFails(t *testing.T) {
	nodes := &fakeNodeAPI{}
	index, _ := newTestSearchIndex(t, nodes, false, SearchConfig{})
	index.SetScope("b1", "", "")

	_, err := index.SearchNow(context.Background(), "lab")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestSearchResultsCapped(t *testing.T) {
	many := make([]domain.Node, 10)
	for i := range many {
		many[i] = domain.Node{ID: string(rune('a' + i)), Name: "Office"}
	}
	nodes := &fakeNodeAPI{searchFn: func(q ports.NodeSearchQuery) ([]domain.Node, error) {
		assert.Equal(t, 3, q.MaxResults)
		return many, nil
	}}
	index, _ := newTestSearchIndex(t, nodes, true, SearchConfig{MaxResults: 3})

	results, err := index.SearchNow(context.Background(), "office")
	require.NoError(t, err)
	assert.Len(t, results, 3)
}
