// Package data holds embedded demo inputs for simulations that do not load
// external files.
package data

// Depot is a named starting location for placing demo fleets.
type Depot struct {
	Name string  `json:"name"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

// BerlinDepots are demo depots spread across central Berlin; the demo
// bounding box below encloses them.
var BerlinDepots = []Depot{
	{Name: "Mitte", Lon: 13.4050, Lat: 52.5200},
	{Name: "Prenzlauer Berg", Lon: 13.4210, Lat: 52.5390},
	{Name: "Kreuzberg", Lon: 13.4034, Lat: 52.4996},
	{Name: "Charlottenburg", Lon: 13.3045, Lat: 52.5166},
	{Name: "Friedrichshain", Lon: 13.4531, Lat: 52.5159},
	{Name: "Wedding", Lon: 13.3550, Lat: 52.5470},
	{Name: "Neukoelln", Lon: 13.4399, Lat: 52.4811},
	{Name: "Moabit", Lon: 13.3427, Lat: 52.5300},
}

// Demo bounding box for synthetic demand, covering the depots above.
var (
	DemoMinLon = 13.30
	DemoMinLat = 52.48
	DemoMaxLon = 13.46
	DemoMaxLat = 52.55
)
