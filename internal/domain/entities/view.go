package entities

// MapView is what a map client needs to draw the current question.
type MapView struct {
	Lat   float64     `json:"lat"`             // viewport center latitude
	Lon   float64     `json:"lon"`             // viewport center longitude
	Zoom  int         `json:"zoom"`            // suggested zoom level
	Label string      `json:"label"`           // caption shown next to the point
	Point *[2]float64 `json:"point,omitempty"` // [lon, lat] of the marker, if any
}
