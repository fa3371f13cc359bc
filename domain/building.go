package domain

// Building is the top-level unit of the facility model. Floors are ordered
// by floor number as returned by the server.
type Building struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Floors    []Floor `json:"floors,omitempty"`
}
