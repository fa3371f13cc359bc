package ports

import (
	"context"

	"wayfind/domain"
)

// BuildingAPI is the remote building endpoint.
// This is a port in hexagonal architecture - the services don't know about
// the transport implementation.
type BuildingAPI interface {
	// GetAll retrieves a page of buildings.
	GetAll(ctx context.Context, page, pageSize int) ([]domain.Building, error)

	// GetByID retrieves a single building.
	GetByID(ctx context.Context, id string) (*domain.Building, error)
}

// FloorAPI is the remote floor endpoint.
type FloorAPI interface {
	// GetByID retrieves a single floor.
	GetByID(ctx context.Context, id string) (*domain.Floor, error)

	// GetByBuilding retrieves all floors of a building, ordered by floor number.
	GetByBuilding(ctx context.Context, buildingID string) ([]domain.Floor, error)
}

// NodeSearchQuery scopes a remote node search.
type NodeSearchQuery struct {
	Term       string
	BuildingID string
	FloorID    string
	Type       domain.NodeType
	MaxResults int
}

// NodeAPI is the remote node endpoint.
type NodeAPI interface {
	// GetAll retrieves every node visible to the caller.
	GetAll(ctx context.Context) ([]domain.Node, error)

	// GetByID retrieves a single node.
	GetByID(ctx context.Context, id string) (*domain.Node, error)

	// GetByFloor retrieves all nodes on a floor.
	GetByFloor(ctx context.Context, floorID string) ([]domain.Node, error)

	// GetByQRCode resolves a QR code payload to its node.
	GetByQRCode(ctx context.Context, code string) (*domain.Node, error)

	// Search finds nodes matching the query.
	Search(ctx context.Context, query NodeSearchQuery) ([]domain.Node, error)
}

// EdgeAPI is the remote edge endpoint.
type EdgeAPI interface {
	// GetByFloor retrieves all edges on a floor.
	GetByFloor(ctx context.Context, floorID string) ([]domain.Edge, error)
}

// RouteRequest carries the inputs of a route calculation.
type RouteRequest struct {
	StartNodeID       string `json:"startNodeId" validate:"required"`
	EndNodeID         string `json:"endNodeId" validate:"required"`
	RequireAccessible bool   `json:"requireAccessible"`
}

// RouteAPI is the remote path-finding endpoint. The graph search itself
// runs server-side; the client only submits endpoints and reads the result.
type RouteAPI interface {
	// Calculate asks the server for a route between two nodes.
	Calculate(ctx context.Context, req RouteRequest) (*domain.RouteResult, error)
}
