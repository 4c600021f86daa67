package sta

import "github.com/paulmach/orb/geojson"

// EncodingGeoJSON is the encodingType for GeoJSON-encoded Locations.
const EncodingGeoJSON = "application/geo+json"

// Thing is the request body for Thing creation. Nested Locations are
// deep-inserted in the same request.
type Thing struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Properties  map[string]any `json:"properties,omitempty"`
	Locations   []Location     `json:"Locations,omitempty"`
}

// Location is the request body for a GeoJSON-encoded Location.
type Location struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	EncodingType string            `json:"encodingType"`
	Location     *geojson.Geometry `json:"location"`
}

// NewGeoJSONLocation builds a Location with the GeoJSON encoding type.
func NewGeoJSONLocation(name, description string, geometry *geojson.Geometry) Location {
	return Location{
		Name:         name,
		Description:  description,
		EncodingType: EncodingGeoJSON,
		Location:     geometry,
	}
}
