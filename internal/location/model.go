package location

import "time"

// Location is a geocoded delivery address saved by a customer.
type Location struct {
	ID        uint      `json:"location_id"`
	UserID    uint      `json:"-"`
	Address   string    `json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

type Coordinates struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
}
