package model

// LatLng is a basic latitude/longitude pair used across the scoring pipeline.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// POIType identifies a category of emergency-service POI.
type POIType string

const (
	POITypeFire     POIType = "fire"
	POITypeHospital POIType = "hospital"
	POITypePolice   POIType = "police"
)

// AllPOITypes returns the canonical POI type ordering. Score breakdowns and
// grid responses always list components in this order, regardless of the
// order the distance lookups complete in.
func AllPOITypes() []POIType {
	return []POIType{POITypeFire, POITypeHospital, POITypePolice}
}

// POI represents a point of interest as stored in the spatial database.
// The scoring engine only ever reads this narrow summary; the raw attribute
// payloads collected by the ingestion scripts never reach the engine.
type POI struct {
	ID       string    `json:"id" db:"id"`
	Type     POIType   `json:"type" db:"type"`
	Name     string    `json:"name" db:"name"`
	Location *Geometry `json:"location" db:"geom"`
	Source   string    `json:"source,omitempty" db:"source"`
	SourceID string    `json:"source_id,omitempty" db:"source_id"`
}

// ToLatLng converts the POI location to a LatLng pair.
func (p *POI) ToLatLng() LatLng {
	if p.Location != nil && len(p.Location.Coordinates) >= 2 {
		return LatLng{
			Lat: p.Location.Coordinates[1],
			Lng: p.Location.Coordinates[0],
		}
	}
	return LatLng{}
}

// NearestPOI is the answer of a nearest-neighbor lookup for one POI type.
type NearestPOI struct {
	Type      POIType `json:"type"`
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	DistanceM float64 `json:"distance_m"`
}

// Geometry corresponds to a PostGIS GEOMETRY point in GeoJSON form.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

// Location is a validated latitude/longitude pair used in request payloads.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// ToGeometry converts a Location to a PostGIS-compatible point geometry.
func (l *Location) ToGeometry() *Geometry {
	return &Geometry{
		Type:        "Point",
		Coordinates: []float64{l.Longitude, l.Latitude},
	}
}

// POIFilter narrows POI listings by type and/or bounding box.
type POIFilter struct {
	Type  POIType
	BBox  *BoundingBox
	Limit int
}

// POIStats summarizes the stored POIs per type.
type POIStats struct {
	Counts map[POIType]int `json:"poi_counts"`
	Total  int             `json:"total"`
}
