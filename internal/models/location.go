package models

import "fmt"

const (
	LocationNotShared   = "Not shared"
	LocationUnavailable = "Location not available"
)

type Location struct {
	Lat float64 `json:"lat" mapstructure:"latitude"`
	Lon float64 `json:"lon" mapstructure:"longitude"`
}

// MapLink points a maps client at the coordinates.
func (l Location) MapLink() string {
	return fmt.Sprintf("https://maps.google.com/?q=%v,%v", l.Lat, l.Lon)
}
