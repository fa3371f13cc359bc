package domain

import "time"

// MaxRecentSearches bounds the recent-search list; insertion past the bound
// evicts the oldest entry.
const MaxRecentSearches = 20

// FavoriteDestination is a lightweight saved location. Building and floor
// names are denormalized so the record renders offline without a join; they
// can drift from the canonical names if renamed server-side, and no refresh
// path exists for them.
type FavoriteDestination struct {
	NodeID       string    `json:"nodeId"`
	NodeName     string    `json:"nodeName"`
	NodeType     NodeType  `json:"nodeType"`
	BuildingName string    `json:"buildingName,omitempty"`
	FloorName    string    `json:"floorName,omitempty"`
	AddedAt      time.Time `json:"addedAt"`
}

// RecentSearch records a previously visited location, denormalized the same
// way as FavoriteDestination.
type RecentSearch struct {
	NodeID       string    `json:"nodeId"`
	NodeName     string    `json:"nodeName"`
	NodeType     NodeType  `json:"nodeType"`
	BuildingName string    `json:"buildingName,omitempty"`
	FloorName    string    `json:"floorName,omitempty"`
	SearchedAt   time.Time `json:"searchedAt"`
}
