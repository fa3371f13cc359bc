package domain

// Floor is one level of a building. The Nodes and Edges collections are
// only populated on endpoints that embed them (e.g. offline snapshots).
type Floor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FloorNumber  int    `json:"floorNumber"`
	BuildingID   string `json:"buildingId"`
	FloorPlanURL string `json:"floorPlanUrl,omitempty"`
	Nodes        []Node `json:"nodes,omitempty"`
	Edges        []Edge `json:"edges,omitempty"`
}
