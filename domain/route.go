package domain

// RouteResult is the answer from the server-side path-finding call.
// It is treated as an opaque, immutable value once received: the client
// only indexes into it, never mutates it.
type RouteResult struct {
	PathFound            bool    `json:"pathFound"`
	PathNodes            []Node  `json:"pathNodes,omitempty"`
	PathEdges            []Edge  `json:"pathEdges,omitempty"`
	TotalDistance        float64 `json:"totalDistance,omitempty"`
	EstimatedTimeMinutes float64 `json:"estimatedTimeMinutes,omitempty"`
	ErrorMessage         string  `json:"errorMessage,omitempty"`
}

// Length returns the number of path nodes.
func (r *RouteResult) Length() int {
	if r == nil {
		return 0
	}
	return len(r.PathNodes)
}

// NodeAt returns the path node at index i, or nil if out of range.
func (r *RouteResult) NodeAt(i int) *Node {
	if r == nil || i < 0 || i >= len(r.PathNodes) {
		return nil
	}
	return &r.PathNodes[i]
}
