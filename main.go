package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"fleetsim/data"
	"fleetsim/driver"
	"fleetsim/model"
	"fleetsim/router"
	"fleetsim/server"
	"fleetsim/sim"
	"fleetsim/sink"
)

func main() {
	// Optional .env overlay; flags still take precedence over defaults.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	mode := flag.String("mode", "run", "run | serve | batch")
	durationMins := flag.Float64("duration_mins", envFloat("SIM_DURATION_MINS", 60), "simulated duration in minutes")
	vehicles := flag.Int("vehicles", envInt("SIM_VEHICLES", 20), "fleet size (run/serve); batch uses -fleet_sizes")
	fleetSizes := flag.String("fleet_sizes", "", "comma-separated fleet sizes for batch mode, e.g. 10,20,50")
	speedKmph := flag.Float64("speed_kmph", 25, "vehicle speed for the linear router")
	demandRate := flag.Float64("demand_rate", 0.5, "mean bookings generated per tick")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	maxPendingMins := flag.Float64("max_pending_mins", 10, "minutes before a pending booking expires")
	searchRadiusMins := flag.Float64("search_radius_mins", 15, "max pickup ETA the matcher accepts, in minutes")
	replayPath := flag.String("replay", "", "CSV file of recorded demand to replay instead of random demand")
	csvPath := flag.String("csv", "", "write transition records to this CSV file")
	sqlitePath := flag.String("sqlite", "", "write transition records to this SQLite database")
	reportPath := flag.String("report", "", "append run summaries to this CSV file")
	addr := flag.String("addr", envStr("SIM_ADDR", ":8080"), "listen address (serve mode)")
	tickDelayMs := flag.Int("tick_delay_ms", 250, "real-time pause per tick (serve mode)")
	flag.Parse()

	switch *mode {
	case "run":
		if err := runOnce(*durationMins, *vehicles, *speedKmph, *demandRate, *seed,
			*maxPendingMins, *searchRadiusMins, *replayPath, *csvPath, *sqlitePath, *reportPath); err != nil {
			log.Fatal(err)
		}
	case "serve":
		if err := serve(*addr, time.Duration(*tickDelayMs)*time.Millisecond,
			*durationMins, *vehicles, *speedKmph, *demandRate, *seed,
			*maxPendingMins, *searchRadiusMins, *replayPath, *csvPath, *sqlitePath, *reportPath); err != nil {
			log.Fatal(err)
		}
	case "batch":
		sizes, err := parseFleetSizes(*fleetSizes, *vehicles)
		if err != nil {
			log.Fatal(err)
		}
		_, err = driver.Run(driver.Options{
			FleetSizes:       sizes,
			DurationMins:     *durationMins,
			SpeedKmph:        *speedKmph,
			DemandRate:       *demandRate,
			Seed:             *seed,
			MaxPendingMins:   *maxPendingMins,
			SearchRadiusMins: *searchRadiusMins,
			ReportPath:       *reportPath,
		})
		if err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("unknown mode %q (want run, serve or batch)", *mode)
	}
}

// world is one fully wired simulation: kernel context, matcher, demand and
// the recorders feeding the sinks.
type world struct {
	ctx     sim.Context
	sim     *sim.Simulator
	demand  sim.Demand
	memory  *model.MemoryRecorder
	closers []interface{ Close() error }
}

func (w *world) close() {
	for _, c := range w.closers {
		if err := c.Close(); err != nil {
			log.Printf("close sink: %v", err)
		}
	}
}

// buildWorld wires a simulation from the CLI parameters. extra recorders
// (the serve-mode broadcast sink) are appended to the record fan-out.
func buildWorld(vehicles int, speedKmph, demandRate float64, seed int64,
	maxPendingMins, searchRadiusMins float64,
	replayPath, csvPath, sqlitePath string, extra ...model.Recorder) (*world, error) {

	clock := model.DefaultClock()
	clock.SetStartingTime(time.Now())

	w := &world{memory: model.NewMemoryRecorder()}
	recorders := model.MultiRecorder{w.memory}
	if csvPath != "" {
		c, err := sink.NewCSVRecorder(csvPath)
		if err != nil {
			return nil, fmt.Errorf("open csv sink: %w", err)
		}
		recorders = append(recorders, c)
		w.closers = append(w.closers, c)
	}
	if sqlitePath != "" {
		s, err := sink.NewSQLiteRecorder(sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite sink: %w", err)
		}
		recorders = append(recorders, s)
		w.closers = append(w.closers, s)
	}
	recorders = append(recorders, extra...)

	maxPending, err := clock.TimeToClockTime(maxPendingMins, model.Minutes)
	if err != nil {
		return nil, err
	}

	r := router.NewLinearRouter(clock, speedKmph)
	fleet := model.NewFleet(clock, r)
	w.ctx = sim.Context{
		Clock:      clock,
		Fleet:      fleet,
		Bookings:   model.NewBookingService(clock, maxPending),
		Dispatcher: model.NewDispatcher(),
	}

	for i := 0; i < vehicles; i++ {
		depot := data.BerlinDepots[i%len(data.BerlinDepots)]
		pos := model.NewGeoPosition(depot.Lon, depot.Lat)
		if err := fleet.Infleet(model.NewVehicle(clock, recorders), pos); err != nil {
			return nil, err
		}
	}

	if replayPath != "" {
		w.demand, err = sim.NewReplayDemand(clock, recorders, replayPath, r)
		if err != nil {
			return nil, fmt.Errorf("load replay demand: %w", err)
		}
	} else {
		if seed == 0 {
			seed = time.Now().UnixNano()
			log.Printf("seed not set, using %d", seed)
		}
		box := sim.BoundingBox{
			MinLon: data.DemoMinLon, MinLat: data.DemoMinLat,
			MaxLon: data.DemoMaxLon, MaxLat: data.DemoMaxLat,
		}
		w.demand = sim.NewRandomDemand(clock, recorders, seed, demandRate, box)
	}

	matcher, err := sim.NewGreedyMatcher(w.ctx, r, searchRadiusMins)
	if err != nil {
		return nil, err
	}
	w.sim = sim.NewSimulator(w.ctx, matcher)
	return w, nil
}

func runOnce(durationMins float64, vehicles int, speedKmph, demandRate float64, seed int64,
	maxPendingMins, searchRadiusMins float64,
	replayPath, csvPath, sqlitePath, reportPath string) error {

	w, err := buildWorld(vehicles, speedKmph, demandRate, seed,
		maxPendingMins, searchRadiusMins, replayPath, csvPath, sqlitePath)
	if err != nil {
		return err
	}
	defer w.close()

	if err := w.sim.Simulate(w.demand, durationMins); err != nil {
		return err
	}

	report := sim.BuildReport(w.memory.Transitions, w.ctx.Clock)
	report.Print()
	if reportPath != "" {
		if err := report.WriteCSV(reportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Printf("report appended to %s", reportPath)
	}
	return nil
}

func serve(addr string, tickDelay time.Duration,
	durationMins float64, vehicles int, speedKmph, demandRate float64, seed int64,
	maxPendingMins, searchRadiusMins float64,
	replayPath, csvPath, sqlitePath, reportPath string) error {

	stream := sink.NewBroadcastRecorder()
	w, err := buildWorld(vehicles, speedKmph, demandRate, seed,
		maxPendingMins, searchRadiusMins, replayPath, csvPath, sqlitePath, stream)
	if err != nil {
		return err
	}
	defer w.close()

	srv := server.New(w.ctx, w.sim, w.demand, w.memory, stream, server.Options{
		Addr:         addr,
		DurationMins: durationMins,
		TickDelay:    tickDelay,
	})
	return srv.Run()
}

func parseFleetSizes(s string, fallback int) ([]int, error) {
	if s == "" {
		return []int{fallback}, nil
	}
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid fleet size %q", p)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
