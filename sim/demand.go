package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"

	"fleetsim/model"
)

// BoundingBox limits where synthetic demand is generated.
type BoundingBox struct {
	MinLon, MinLat float64
	MaxLon, MaxLat float64
}

// RandomDemand generates synthetic trip requests: Poisson arrivals per tick
// with uniformly random pickup and dropoff positions inside a bounding box.
type RandomDemand struct {
	clock *model.Clock
	rec   model.Recorder
	rng   *rand.Rand

	// RatePerTick is the expected number of new bookings per tick.
	RatePerTick float64
	Box         BoundingBox
	MaxSeats    int
}

// NewRandomDemand creates a seeded synthetic demand source.
func NewRandomDemand(clock *model.Clock, rec model.Recorder, seed int64, ratePerTick float64, box BoundingBox) *RandomDemand {
	return &RandomDemand{
		clock:       clock,
		rec:         rec,
		rng:         rand.New(rand.NewSource(seed)),
		RatePerTick: ratePerTick,
		Box:         box,
		MaxSeats:    3,
	}
}

func (d *RandomDemand) Next() []*model.Booking {
	n := poisson(d.rng, d.RatePerTick)
	bookings := make([]*model.Booking, 0, n)
	for i := 0; i < n; i++ {
		pickup := d.randomPosition()
		dropoff := d.randomPosition()
		seats := 1 + d.rng.Intn(d.MaxSeats)
		bookings = append(bookings, model.NewBooking(d.clock, d.rec, pickup, dropoff, seats, nil))
	}
	return bookings
}

func (d *RandomDemand) randomPosition() model.GeoPosition {
	lon := d.Box.MinLon + d.rng.Float64()*(d.Box.MaxLon-d.Box.MinLon)
	lat := d.Box.MinLat + d.rng.Float64()*(d.Box.MaxLat-d.Box.MinLat)
	return model.NewGeoPosition(lon, lat)
}

// poisson samples with the given mean using Knuth's algorithm, switching to a
// normal approximation for large means.
func poisson(rng *rand.Rand, mean float64) int {
	if mean <= 0 {
		return 0
	}
	if mean > 30 {
		std := math.Sqrt(mean)
		v := int(math.Round(rng.NormFloat64()*std + mean))
		if v < 0 {
			return 0
		}
		return v
	}
	L := math.Exp(-mean)
	k := 0
	p := 1.0
	for p > L {
		k++
		p *= rng.Float64()
	}
	return k - 1
}

// ReplayDemand replays recorded trip requests. The input is a CSV file with
// header "tick,pickup_lon,pickup_lat,dropoff_lon,dropoff_lat,seats"; rows are
// grouped by tick at load time and emitted when the clock reaches them.
type ReplayDemand struct {
	clock *model.Clock
	rec   model.Recorder

	trips map[int][]replayTrip
	// mapMatcher, when set, snaps replayed positions onto the router's
	// coordinate system.
	mapMatcher model.Router
}

type replayTrip struct {
	pickup  model.GeoPosition
	dropoff model.GeoPosition
	seats   int
}

// NewReplayDemand loads a demand file for replay.
func NewReplayDemand(clock *model.Clock, rec model.Recorder, path string, mapMatcher model.Router) (*ReplayDemand, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open demand file: %w", err)
	}
	defer f.Close()

	d := &ReplayDemand{clock: clock, rec: rec, trips: make(map[int][]replayTrip), mapMatcher: mapMatcher}
	if err := d.load(f); err != nil {
		return nil, fmt.Errorf("load demand file %s: %w", path, err)
	}
	return d, nil
}

func (d *ReplayDemand) load(r io.Reader) error {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return err
	}
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "tick" {
			continue // header
		}
		if len(row) < 5 {
			return fmt.Errorf("row %d: expected at least 5 columns, got %d", i, len(row))
		}
		tick, err := strconv.Atoi(row[0])
		if err != nil {
			return fmt.Errorf("row %d: bad tick: %w", i, err)
		}
		vals := make([]float64, 4)
		for j := 0; j < 4; j++ {
			if vals[j], err = strconv.ParseFloat(row[j+1], 64); err != nil {
				return fmt.Errorf("row %d: bad coordinate: %w", i, err)
			}
		}
		seats := 1
		if len(row) > 5 && row[5] != "" {
			if seats, err = strconv.Atoi(row[5]); err != nil {
				return fmt.Errorf("row %d: bad seats: %w", i, err)
			}
		}

		pickup := model.NewGeoPosition(vals[0], vals[1])
		dropoff := model.NewGeoPosition(vals[2], vals[3])
		if err := pickup.Validate(); err != nil {
			return fmt.Errorf("row %d: pickup: %w", i, err)
		}
		if err := dropoff.Validate(); err != nil {
			return fmt.Errorf("row %d: dropoff: %w", i, err)
		}
		d.trips[tick] = append(d.trips[tick], replayTrip{pickup: pickup, dropoff: dropoff, seats: seats})
	}
	return nil
}

func (d *ReplayDemand) Next() []*model.Booking {
	trips := d.trips[d.clock.Now()]
	bookings := make([]*model.Booking, 0, len(trips))
	for _, t := range trips {
		pickup, dropoff := model.Position(t.pickup), model.Position(t.dropoff)
		if d.mapMatcher != nil {
			pickup = d.mapMatcher.MapMatch(pickup)
			dropoff = d.mapMatcher.MapMatch(dropoff)
		}
		bookings = append(bookings, model.NewBooking(d.clock, d.rec, pickup, dropoff, t.seats, nil))
	}
	return bookings
}
