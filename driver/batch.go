// Package driver runs headless simulations without the HTTP server: one
// fresh world per fleet size, fast-forwarded, with a report per run.
package driver

import (
	"fmt"
	"log"
	"time"

	"fleetsim/data"
	"fleetsim/model"
	"fleetsim/router"
	"fleetsim/sim"
)

// Options mirrors the flags of the single-run mode, plus the fleet sizes to
// sweep over.
type Options struct {
	FleetSizes       []int
	DurationMins     float64
	SpeedKmph        float64
	DemandRate       float64
	Seed             int64
	MaxPendingMins   float64
	SearchRadiusMins float64
	ReportPath       string
}

// Summary is one row of a sweep: the fleet size and the run's report.
type Summary struct {
	FleetSize int
	Report    sim.Report
}

// Run executes one headless simulation per fleet size and returns the
// summaries in the order given. Each run gets a fresh clock, fleet and
// booking service; the seed is shared so demand is identical across runs.
func Run(opt Options) ([]Summary, error) {
	if len(opt.FleetSizes) == 0 {
		return nil, fmt.Errorf("batch driver requires at least one fleet size")
	}
	seed := opt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		log.Printf("seed not set, using %d", seed)
	}

	summaries := make([]Summary, 0, len(opt.FleetSizes))
	for _, size := range opt.FleetSizes {
		if size <= 0 {
			return nil, fmt.Errorf("invalid fleet size %d", size)
		}
		report, err := runOnce(size, seed, opt)
		if err != nil {
			return nil, fmt.Errorf("run with %d vehicles: %w", size, err)
		}
		summaries = append(summaries, Summary{FleetSize: size, Report: report})
	}

	for _, s := range summaries {
		fmt.Printf("=== fleet size %d ===\n", s.FleetSize)
		s.Report.Print()
	}
	if opt.ReportPath != "" {
		for _, s := range summaries {
			if err := s.Report.WriteCSV(opt.ReportPath); err != nil {
				return summaries, fmt.Errorf("write report: %w", err)
			}
		}
		log.Printf("CSV report written to %s", opt.ReportPath)
	}
	return summaries, nil
}

func runOnce(fleetSize int, seed int64, opt Options) (sim.Report, error) {
	clock := model.DefaultClock()
	rec := model.NewMemoryRecorder()

	maxPending, err := clock.TimeToClockTime(opt.MaxPendingMins, model.Minutes)
	if err != nil {
		return sim.Report{}, err
	}

	r := router.NewLinearRouter(clock, opt.SpeedKmph)
	fleet := model.NewFleet(clock, r)
	ctx := sim.Context{
		Clock:      clock,
		Fleet:      fleet,
		Bookings:   model.NewBookingService(clock, maxPending),
		Dispatcher: model.NewDispatcher(),
	}

	for i := 0; i < fleetSize; i++ {
		depot := data.BerlinDepots[i%len(data.BerlinDepots)]
		pos := model.NewGeoPosition(depot.Lon, depot.Lat)
		if err := fleet.Infleet(model.NewVehicle(clock, rec), pos); err != nil {
			return sim.Report{}, err
		}
	}

	box := sim.BoundingBox{
		MinLon: data.DemoMinLon, MinLat: data.DemoMinLat,
		MaxLon: data.DemoMaxLon, MaxLat: data.DemoMaxLat,
	}
	demand := sim.NewRandomDemand(clock, rec, seed, opt.DemandRate, box)
	matcher, err := sim.NewGreedyMatcher(ctx, r, opt.SearchRadiusMins)
	if err != nil {
		return sim.Report{}, err
	}

	if err := sim.NewSimulator(ctx, matcher).Simulate(demand, opt.DurationMins); err != nil {
		return sim.Report{}, err
	}
	return sim.BuildReport(rec.Transitions, clock), nil
}
