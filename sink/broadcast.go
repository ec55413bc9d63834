package sink

import (
	"sync"

	"fleetsim/model"
)

// BroadcastRecorder fans transition records out to live subscribers. The
// simulation loop records synchronously; slow subscribers drop records rather
// than stall the tick.
type BroadcastRecorder struct {
	mu   sync.Mutex
	subs map[chan model.Transition]struct{}
}

// NewBroadcastRecorder creates a hub with no subscribers.
func NewBroadcastRecorder() *BroadcastRecorder {
	return &BroadcastRecorder{subs: make(map[chan model.Transition]struct{})}
}

// Subscribe registers a consumer and returns its channel.
func (b *BroadcastRecorder) Subscribe() chan model.Transition {
	ch := make(chan model.Transition, 1024)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a consumer and closes its channel.
func (b *BroadcastRecorder) Unsubscribe(ch chan model.Transition) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *BroadcastRecorder) Record(t model.Transition) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- t:
		default: // subscriber too slow, drop
		}
	}
	b.mu.Unlock()
}
