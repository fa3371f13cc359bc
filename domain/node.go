package domain

// NodeType categorizes a wayfinding node for search and display.
type NodeType string

const (
	NodeTypeRoom      NodeType = "Room"
	NodeTypeCorridor  NodeType = "Corridor"
	NodeTypeElevator  NodeType = "Elevator"
	NodeTypeStairs    NodeType = "Stairs"
	NodeTypeRestroom  NodeType = "Restroom"
	NodeTypeEntrance  NodeType = "Entrance"
	NodeTypeExit      NodeType = "Exit"
	NodeTypeOffice    NodeType = "Office"
	NodeTypeCafeteria NodeType = "Cafeteria"
	NodeTypeParking   NodeType = "Parking"
	NodeTypeOther     NodeType = "Other"
)

// Node is a point of interest or wayfinding vertex inside a building.
// Nodes are immutable once fetched from the server; identity is the ID.
type Node struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         NodeType `json:"type"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	FloorID      string   `json:"floorId"`
	IsAccessible bool     `json:"isAccessible"`
	QRCode       string   `json:"qrCode,omitempty"`
	Description  string   `json:"description,omitempty"`
}
