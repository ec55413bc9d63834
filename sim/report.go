package sim

import (
	"fmt"
	"os"
	"time"

	"fleetsim/model"
)

// Report aggregates an end-of-run view of a simulation from its transition
// records. Times are in real seconds.
type Report struct {
	NumVehicles int `json:"num_vehicles"`

	Created  int `json:"created"`
	Pickups  int `json:"pickups"`
	Dropoffs int `json:"dropoffs"`
	Expired  int `json:"expired"`

	PickupRate float64 `json:"pickup_rate"` // percent of created bookings picked up

	AvgWaitingTime float64 `json:"avg_waiting_time"` // pending -> pickup
	AvgTripTime    float64 `json:"avg_trip_time"`    // pickup -> dropoff

	TotalDistance float64 `json:"total_distance"` // km traveled by the fleet
}

// BuildReport computes run metrics from recorded transitions.
func BuildReport(transitions []model.Transition, clock *model.Clock) Report {
	var r Report

	vehicles := map[string]struct{}{}
	pendingAt := map[string]int{}
	pickupAt := map[string]int{}

	var waitTotal, waitCount, tripTotal, tripCount int

	for _, t := range transitions {
		switch t.ObjectType {
		case "vehicle":
			vehicles[t.ID] = struct{}{}
			if t.ToState == string(model.VehicleIdling) && t.FromState == string(model.VehicleMovingTo) {
				if d, ok := t.Details["trip_distance"].(float64); ok {
					r.TotalDistance += d
				}
			}
		case "booking":
			switch t.ToState {
			case string(model.BookingPending):
				r.Created++
				pendingAt[t.ID] = t.ClockTime
			case string(model.BookingPickup):
				r.Pickups++
				pickupAt[t.ID] = t.ClockTime
				if created, ok := pendingAt[t.ID]; ok {
					waitTotal += t.ClockTime - created
					waitCount++
				}
			case string(model.BookingDropoff):
				r.Dropoffs++
				if picked, ok := pickupAt[t.ID]; ok {
					tripTotal += t.ClockTime - picked
					tripCount++
				}
			case string(model.BookingExpired):
				r.Expired++
			}
		}
	}

	r.NumVehicles = len(vehicles)
	if r.Created > 0 {
		r.PickupRate = float64(r.Pickups) / float64(r.Created) * 100
	}
	if waitCount > 0 {
		r.AvgWaitingTime = clock.ClockTimeToSeconds(waitTotal) / float64(waitCount)
	}
	if tripCount > 0 {
		r.AvgTripTime = clock.ClockTimeToSeconds(tripTotal) / float64(tripCount)
	}
	return r
}

// Print writes a human-readable report to stdout.
func (r Report) Print() {
	fmt.Println("=== Simulation Report ===")
	fmt.Printf("Vehicles: %d\n", r.NumVehicles)
	fmt.Printf("Bookings created: %d\n", r.Created)
	fmt.Printf("Pickups: %d (%.1f%%)\n", r.Pickups, r.PickupRate)
	fmt.Printf("Dropoffs: %d\n", r.Dropoffs)
	fmt.Printf("Expired: %d\n", r.Expired)
	fmt.Printf("Average waiting time: %.1f s\n", r.AvgWaitingTime)
	fmt.Printf("Average trip time: %.1f s\n", r.AvgTripTime)
	fmt.Printf("Fleet distance: %.2f km\n", r.TotalDistance)
}

// WriteCSV appends the report as one CSV row, writing a header when the file
// is new. A timestamp column records when the run finished.
func (r Report) WriteCSV(path string) error {
	if path == "" {
		return nil
	}
	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open report file: %w", err)
	}
	defer f.Close()

	if os.IsNotExist(statErr) {
		fmt.Fprintln(f, "timestamp,num_vehicles,created,pickups,dropoffs,expired,pickup_rate,avg_waiting_time,avg_trip_time,total_distance")
	}
	ts := time.Now().Format("2006-01-02 15:04:05")
	_, err = fmt.Fprintf(f, "%s,%d,%d,%d,%d,%d,%.2f,%.2f,%.2f,%.3f\n",
		ts, r.NumVehicles, r.Created, r.Pickups, r.Dropoffs, r.Expired,
		r.PickupRate, r.AvgWaitingTime, r.AvgTripTime, r.TotalDistance)
	return err
}
