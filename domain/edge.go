package domain

// EdgeType describes how an edge is traversed. It is used for display and
// weight suggestion only; the client core never branches on it.
type EdgeType string

const (
	EdgeTypeWalking    EdgeType = "Walking"
	EdgeTypeStairs     EdgeType = "Stairs"
	EdgeTypeElevator   EdgeType = "Elevator"
	EdgeTypeTransition EdgeType = "Transition"
)

// Edge is a weighted connection between two nodes, consumed by the
// server-side path-finding service.
type Edge struct {
	ID           string   `json:"id"`
	FromNodeID   string   `json:"fromNodeId"`
	ToNodeID     string   `json:"toNodeId"`
	Weight       float64  `json:"weight"`
	IsAccessible bool     `json:"isAccessible"`
	EdgeType     EdgeType `json:"edgeType,omitempty"`
}
