package model

import (
	"math"
	"testing"
)

func TestGeoPositionRoundsCoordinates(t *testing.T) {
	p := NewGeoPosition(13.40501234999, 52.52000111222)
	if p.Lon != 13.405012 || p.Lat != 52.520001 {
		t.Fatalf("expected coordinates rounded to 6 decimals, got %v, %v", p.Lon, p.Lat)
	}
}

func TestGeoPositionDistance(t *testing.T) {
	// Alexanderplatz to Zoologischer Garten is roughly 5.6 km.
	a := NewGeoPosition(13.4132, 52.5219)
	b := NewGeoPosition(13.3326, 52.5072)
	d := a.Distance(b)
	if d < 5.3 || d > 6.0 {
		t.Fatalf("expected roughly 5.6 km, got %v", d)
	}
	if got := b.Distance(a); math.Abs(got-d) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", d, got)
	}
	if got := a.Distance(a); got != 0 {
		t.Fatalf("self distance should be 0, got %v", got)
	}
}

func TestGeoPositionEqualUsesThreshold(t *testing.T) {
	a := NewGeoPosition(13.405, 52.52)
	near := NewGeoPosition(13.405001, 52.520001) // well under 5 metres away
	far := NewGeoPosition(13.406, 52.521)
	if !a.Equal(near) {
		t.Fatal("expected positions within the threshold to be equal")
	}
	if a.Equal(far) {
		t.Fatal("expected positions beyond the threshold to differ")
	}
}

func TestGeoPositionValidate(t *testing.T) {
	if err := NewGeoPosition(13.4, 52.5).Validate(); err != nil {
		t.Fatalf("valid position rejected: %v", err)
	}
	if err := (GeoPosition{Lon: 13.4, Lat: 91}).Validate(); err == nil {
		t.Fatal("expected latitude out of range error")
	}
	if err := (GeoPosition{Lon: 181, Lat: 52.5}).Validate(); err == nil {
		t.Fatal("expected longitude out of range error")
	}
}

func TestGridPositionManhattanDistance(t *testing.T) {
	a := NewGridPosition(1, 2)
	b := NewGridPosition(4, -2)
	if got := a.Distance(b); got != 7 {
		t.Fatalf("expected Manhattan distance 7, got %v", got)
	}
	if !a.Equal(NewGridPosition(1, 2)) {
		t.Fatal("expected identical cells to be equal")
	}
	if a.Equal(b) {
		t.Fatal("expected different cells to differ")
	}
}
