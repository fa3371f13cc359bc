package domain

import "time"

// OfflineSnapshot is a locally cached copy of one building's floors, nodes
// and edges for use without connectivity. Snapshots are written whole and
// replaced whole; there is no partial merge. Freshness is presence-only:
// DownloadedAt is stored for display, not for expiry.
type OfflineSnapshot struct {
	Building     Building          `json:"building"`
	Floors       []Floor           `json:"floors"`
	NodesByFloor map[string][]Node `json:"nodesByFloor"`
	EdgesByFloor map[string][]Edge `json:"edgesByFloor"`
	DownloadedAt time.Time         `json:"downloadedAt"`
}

// AllNodes flattens the per-floor node lists in floor order.
func (s *OfflineSnapshot) AllNodes() []Node {
	if s == nil {
		return nil
	}
	var nodes []Node
	for _, floor := range s.Floors {
		nodes = append(nodes, s.NodesByFloor[floor.ID]...)
	}
	return nodes
}

// NodeCount returns the total number of cached nodes.
func (s *OfflineSnapshot) NodeCount() int {
	if s == nil {
		return 0
	}
	count := 0
	for _, nodes := range s.NodesByFloor {
		count += len(nodes)
	}
	return count
}
