package model

// Transition is the structured record emitted once per booking or vehicle
// state change, in the order the changes occur. Consumers treat the stream as
// an append-only log and reconstruct simulation history from it.
//
// Column order for flat encodings:
// clock_time;object_type;uuid;itinerary_id;from_state;to_state;lon;lat;details
type Transition struct {
	ClockTime   int            `json:"clock_time"`
	ObjectType  string         `json:"object_type"`
	ID          string         `json:"uuid"`
	ItineraryID string         `json:"itinerary_id,omitempty"`
	FromState   string         `json:"from_state"`
	ToState     string         `json:"to_state"`
	Lon         float64        `json:"lon"`
	Lat         float64        `json:"lat"`
	Details     map[string]any `json:"details,omitempty"`
}

// Recorder receives transition records synchronously as they happen. The
// kernel's only observability obligation is to call Record once per actual
// state transition.
type Recorder interface {
	Record(t Transition)
}

// NopRecorder discards all records.
type NopRecorder struct{}

func (NopRecorder) Record(Transition) {}

// MemoryRecorder keeps every record in memory, in emission order. It is the
// input to report building and to tests.
type MemoryRecorder struct {
	Transitions []Transition
}

func NewMemoryRecorder() *MemoryRecorder { return &MemoryRecorder{} }

func (m *MemoryRecorder) Record(t Transition) { m.Transitions = append(m.Transitions, t) }

// MultiRecorder fans records out to several sinks in order.
type MultiRecorder []Recorder

func (m MultiRecorder) Record(t Transition) {
	for _, r := range m {
		r.Record(t)
	}
}

// record is the single emission path used by the state machines. A nil
// recorder is treated as a no-op sink.
func record(rec Recorder, t Transition) {
	if rec != nil {
		rec.Record(t)
	}
}
