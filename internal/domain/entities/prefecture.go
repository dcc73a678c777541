// Package entities contains domain entities used across the application.
package entities

// Prefecture is one row of the reference table: a prefecture, its capital
// and the capital's coordinates.
type Prefecture struct {
	Name    string  `json:"name"`    // prefecture name, e.g. 大阪府
	Capital string  `json:"capital"` // capital city, e.g. 大阪市
	Lat     float64 `json:"lat"`     // latitude of the capital (WGS84)
	Lon     float64 `json:"lon"`     // longitude of the capital (WGS84)
}
