package model

import (
	"fmt"
	"math"
)

// geoDistanceThreshold is the maximum haversine distance in km between two
// geographic positions that are still considered the same point (~5 metres).
const geoDistanceThreshold = 0.005

// earthRadiusKm is the mean Earth radius used for haversine distances.
const earthRadiusKm = 6371.0

// Position is an immutable coordinate value. Implementations differ in
// coordinate system and distance metric but share the same capability set:
// distance, raw coordinates, tolerant equality and log serialization.
type Position interface {
	// Coords returns the raw x/y coordinate pair (lon/lat for geographic
	// positions, column/row for grid cells).
	Coords() (x, y float64)
	// Distance returns the metric distance to another position: haversine
	// kilometres for geographic positions, Manhattan cells for grid cells.
	Distance(other Position) float64
	// Equal reports whether two positions are the same point within the
	// coordinate system's tolerance.
	Equal(other Position) bool
	String() string
}

// GeoPosition is a geographic lon/lat position. Coordinates are rounded to 6
// decimal places on construction (~111 mm of precision).
type GeoPosition struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// NewGeoPosition builds a geographic position, rounding coordinates to 6
// decimal places. Range validation is left to Validate so that interpolated
// waypoints can be built without error plumbing.
func NewGeoPosition(lon, lat float64) GeoPosition {
	return GeoPosition{Lon: round6(lon), Lat: round6(lat)}
}

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// Validate checks the coordinates are a real lon/lat pair.
func (p GeoPosition) Validate() error {
	if p.Lat > 90 || p.Lat < -90 {
		return fmt.Errorf("%v is not a correct latitude", p.Lat)
	}
	if p.Lon > 180 || p.Lon < -180 {
		return fmt.Errorf("%v is not a correct longitude", p.Lon)
	}
	return nil
}

func (p GeoPosition) Coords() (float64, float64) { return p.Lon, p.Lat }

// Distance returns the haversine distance in kilometres.
func (p GeoPosition) Distance(other Position) float64 {
	lon, lat := other.Coords()
	return haversineKm(p.Lat, p.Lon, lat, lon)
}

// Equal reports whether the two positions are closer than the system-wide
// distance threshold.
func (p GeoPosition) Equal(other Position) bool {
	return p.Distance(other) < geoDistanceThreshold
}

func (p GeoPosition) String() string {
	return fmt.Sprintf(`{"lon": %g, "lat": %g}`, p.Lon, p.Lat)
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// GridPosition is a cell in a rectangular grid world. Equality is exact and
// distance is the Manhattan (city block) metric in cells.
type GridPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewGridPosition builds a grid cell position.
func NewGridPosition(x, y int) GridPosition { return GridPosition{X: x, Y: y} }

func (p GridPosition) Coords() (float64, float64) { return float64(p.X), float64(p.Y) }

// Distance returns the Manhattan distance in cells.
func (p GridPosition) Distance(other Position) float64 {
	x, y := other.Coords()
	return math.Abs(float64(p.X)-x) + math.Abs(float64(p.Y)-y)
}

func (p GridPosition) Equal(other Position) bool {
	x, y := other.Coords()
	return float64(p.X) == x && float64(p.Y) == y
}

func (p GridPosition) String() string {
	return fmt.Sprintf(`{"x": %d, "y": %d}`, p.X, p.Y)
}
