package models

// GeoPoint is a GeoJSON point stored as [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from a longitude/latitude pair.
func NewGeoPoint(lon, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

// Longitude returns the first coordinate, or 0 if the point is malformed.
func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

// Latitude returns the second coordinate, or 0 if the point is malformed.
func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Location couples a human-readable address with its geo coordinates.
type Location struct {
	Address string   `bson:"address" json:"address"`
	Geo     GeoPoint `bson:"geo" json:"geo"`
}
