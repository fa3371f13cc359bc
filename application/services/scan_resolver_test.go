package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"wayfind/application/ports"
	"wayfind/domain"
	"wayfind/infrastructure/persistence/memory"
	pkgerrors "wayfind/pkg/errors"
)

func newTestScanResolver(t *testing.T, nodes ports.NodeAPI, target ScanTarget) (*ScanResolver, *NavigationSession) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cache := NewLocationCache(memory.NewStore(), logger, nil)
	monitor := NewConnectivityMonitor(logger, true)
	session := NewNavigationSession(nil, cache, monitor, logger, nil)
	return NewScanResolver(nodes, session, logger, nil, target), session
}

func TestHandleScanRejectsMalformedPayloadLocally(t *testing.T) {
	nodes := &fakeNodeAPI{qrFn: func(code string) (*domain.Node, error) {
		t.Fatal("a malformed payload must not reach the network")
		return nil, nil
	}}
	resolver, _ := newTestScanResolver(t, nodes, ScanTargetEnd)

	node, err := resolver.HandleScan(context.Background(), "not-a-uuid")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Nil(t, node)
	assert.Equal(t, "this code is not a valid location code", resolver.Err())
	assert.Equal(t, 0, nodes.qrCallCount())

	// A malformed payload is not remembered for duplicate suppression, so a
	// valid scan right after goes through.
	valid := uuid.NewString()
	nodes.qrFn = func(code string) (*domain.Node, error) {
		return testNode("n1", "Lobby"), nil
	}
	node, err = resolver.HandleScan(context.Background(), valid)
	require.NoError(t, err)
	require.NotNil(t, node)
}

func TestHandleScanResolvesIntoSession(t *testing.T) {
	payload := uuid.NewString()
	nodes := &fakeNodeAPI{qrFn: func(code string) (*domain.Node, error) {
		assert.Equal(t, payload, code)
		return testNode("n1", "Chemistry Lab"), nil
	}}
	resolver, session := newTestScanResolver(t, nodes, ScanTargetEnd)

	node, err := resolver.HandleScan(context.Background(), payload)

	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "n1", node.ID)
	assert.Equal(t, node, resolver.LastResolved())
	require.NotNil(t, session.EndNode())
	assert.Equal(t, "n1", session.EndNode().ID)
	assert.Nil(t, session.StartNode())
	assert.Empty(t, resolver.Err())
}

func TestHandleScanWritesStartSlot(t *testing.T) {
	payload := uuid.NewString()
	nodes := &fakeNodeAPI{qrFn: func(code string) (*domain.Node, error) {
		return testNode("n1", "Lobby"), nil
	}}
	resolver, session := newTestScanResolver(t, nodes, ScanTargetStart)

	_, err := resolver.HandleScan(context.Background(), payload)

	require.NoError(t, err)
	require.NotNil(t, session.StartNode())
	assert.Nil(t, session.EndNode())
}

func TestHandleScanSuppressesDuplicatePayload(t *testing.T) {
	payload := uuid.NewString()
	nodes := &fakeNodeAPI{qrFn: func(code string) (*domain.Node, error) {
		return testNode("n1", "Lobby"), nil
	}}
	resolver, _ := newTestScanResolver(t, nodes, ScanTargetEnd)

	node, err := resolver.HandleScan(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, node)

	// The camera keeps emitting the same frame; nothing happens.
	node, err = resolver.HandleScan(context.Background(), payload)
	require.NoError(t, err)
	assert.Nil(t, node)
	assert.Equal(t, 1, nodes.qrCallCount())

	// Rearm allows the same code to be scanned again.
	resolver.Rearm()
	node, err = resolver.HandleScan(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, 2, nodes.qrCallCount())
}

func TestHandleScanUnknownCodeRearms(t *testing.T) {
	payload := uuid.NewString()
	nodes := &fakeNodeAPI{qrFn: func(code string) (*domain.Node, error) {
		return nil, pkgerrors.NewNotFoundError("node")
	}}
	resolver, session := newTestScanResolver(t, nodes, ScanTargetEnd)

	node, err := resolver.HandleScan(context.Background(), payload)

	require.Error(t, err)
	assert.Nil(t, node)
	assert.Equal(t, "this code is not registered to any location", resolver.Err())
	assert.Nil(t, session.EndNode())

	// A failed lookup re-arms: retrying the same payload is not suppressed.
	nodes.qrFn = func(code string) (*domain.Node, error) {
		return testNode("n1", "Lobby"), nil
	}
	node, err = resolver.HandleScan(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, 2, nodes.qrCallCount())
}

func TestHandleScanLookupErrorMessage(t *testing.T) {
	payload := uuid.NewString()
	nodes := &fakeNodeAPI{qrFn: func(code string) (*domain.Node, error) {
		return nil, pkgerrors.NewNetworkError("connection reset", nil)
	}}
	resolver, _ := newTestScanResolver(t, nodes, ScanTargetEnd)

	_, err := resolver.HandleScan(context.Background(), payload)

	require.Error(t, err)
	assert.Equal(t, "could not look up the scanned code", resolver.Err())
	assert.False(t, resolver.IsProcessing())
}
