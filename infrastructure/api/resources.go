package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"wayfind/application/ports"
	"wayfind/domain"
	pkgerrors "wayfind/pkg/errors"
)

// BuildingClient implements ports.BuildingAPI.
type BuildingClient struct {
	core *core
}

func (c *BuildingClient) GetAll(ctx context.Context, page, pageSize int) ([]domain.Building, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("pageSize", strconv.Itoa(pageSize))
	}
	var buildings []domain.Building
	if err := c.core.get(ctx, "/api/buildings", query, &buildings); err != nil {
		return nil, err
	}
	return buildings, nil
}

func (c *BuildingClient) GetByID(ctx context.Context, id string) (*domain.Building, error) {
	var building domain.Building
	if err := c.core.get(ctx, "/api/buildings/"+url.PathEscape(id), nil, &building); err != nil {
		return nil, err
	}
	return &building, nil
}

// FloorClient implements ports.FloorAPI.
type FloorClient struct {
	core *core
}

func (c *FloorClient) GetByID(ctx context.Context, id string) (*domain.Floor, error) {
	var floor domain.Floor
	if err := c.core.get(ctx, "/api/floors/"+url.PathEscape(id), nil, &floor); err != nil {
		return nil, err
	}
	return &floor, nil
}

func (c *FloorClient) GetByBuilding(ctx context.Context, buildingID string) ([]domain.Floor, error) {
	var floors []domain.Floor
	path := "/api/buildings/" + url.PathEscape(buildingID) + "/floors"
	if err := c.core.get(ctx, path, nil, &floors); err != nil {
		return nil, err
	}
	return floors, nil
}

// NodeClient implements ports.NodeAPI.
type NodeClient struct {
	core *core
}

func (c *NodeClient) GetAll(ctx context.Context) ([]domain.Node, error) {
	var nodes []domain.Node
	if err := c.core.get(ctx, "/api/nodes", nil, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (c *NodeClient) GetByID(ctx context.Context, id string) (*domain.Node, error) {
	var node domain.Node
	if err := c.core.get(ctx, "/api/nodes/"+url.PathEscape(id), nil, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

func (c *NodeClient) GetByFloor(ctx context.Context, floorID string) ([]domain.Node, error) {
	var nodes []domain.Node
	path := "/api/floors/" + url.PathEscape(floorID) + "/nodes"
	if err := c.core.get(ctx, path, nil, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (c *NodeClient) GetByQRCode(ctx context.Context, code string) (*domain.Node, error) {
	if code == "" {
		return nil, pkgerrors.NewValidationError("qr code is required")
	}
	var node domain.Node
	if err := c.core.get(ctx, "/api/nodes/qr/"+url.PathEscape(code), nil, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

func (c *NodeClient) Search(ctx context.Context, q ports.NodeSearchQuery) ([]domain.Node, error) {
	query := url.Values{}
	query.Set("term", q.Term)
	if q.BuildingID != "" {
		query.Set("buildingId", q.BuildingID)
	}
	if q.FloorID != "" {
		query.Set("floorId", q.FloorID)
	}
	if q.Type != "" {
		query.Set("type", string(q.Type))
	}
	if q.MaxResults > 0 {
		query.Set("maxResults", strconv.Itoa(q.MaxResults))
	}

	var nodes []domain.Node
	if err := c.core.get(ctx, "/api/nodes/search", query, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// EdgeClient implements ports.EdgeAPI.
type EdgeClient struct {
	core *core
}

func (c *EdgeClient) GetByFloor(ctx context.Context, floorID string) ([]domain.Edge, error) {
	var edges []domain.Edge
	path := "/api/floors/" + url.PathEscape(floorID) + "/edges"
	if err := c.core.get(ctx, path, nil, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

// RouteClient implements ports.RouteAPI with a circuit breaker around the
// server-side path search.
type RouteClient struct {
	core    *core
	breaker *gobreaker.CircuitBreaker
}

func (c *RouteClient) Calculate(ctx context.Context, req ports.RouteRequest) (*domain.RouteResult, error) {
	if err := c.core.validate.Struct(req); err != nil {
		return nil, pkgerrors.NewValidationError("start and end node ids are required")
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out domain.RouteResult
		if err := c.core.post(ctx, "/api/routes/calculate", req, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, pkgerrors.NewNetworkError("route service temporarily unavailable", err)
		}
		return nil, err
	}
	return result.(*domain.RouteResult), nil
}
