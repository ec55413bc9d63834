package model

import (
	"errors"
	"testing"
	"time"
)

func TestClockTickAdvancesByOne(t *testing.T) {
	c := DefaultClock()
	if c.Now() != 0 {
		t.Fatalf("expected fresh clock at 0, got %d", c.Now())
	}
	for i := 0; i < 5; i++ {
		c.Tick()
	}
	if c.Now() != 5 {
		t.Fatalf("expected clock at 5 after 5 ticks, got %d", c.Now())
	}
	c.Reset()
	if c.Now() != 0 {
		t.Fatalf("expected clock at 0 after reset, got %d", c.Now())
	}
}

func TestNewClockRejectsUnknownUnit(t *testing.T) {
	if _, err := NewClock(1, TimeUnit("d")); !errors.Is(err, ErrUnknownTimeUnit) {
		t.Fatalf("expected ErrUnknownTimeUnit, got %v", err)
	}
	if _, err := NewClock(0, Minutes); err == nil {
		t.Fatal("expected error for non-positive time step")
	}
}

func TestTimeToClockTimeRoundsUp(t *testing.T) {
	cases := []struct {
		step     int
		unit     TimeUnit
		amount   float64
		fromUnit TimeUnit
		want     int
	}{
		{1, Minutes, 10, Minutes, 10},
		{1, Minutes, 0.5, Minutes, 1},
		{1, Minutes, 1, Hours, 60},
		{5, Minutes, 12, Minutes, 3},
		{5, Minutes, 11, Minutes, 3},
		{1, Seconds, 1, Minutes, 60},
		{10, Seconds, 25, Seconds, 3},
		{1, Hours, 90, Minutes, 2},
		{1, Minutes, 0, Minutes, 0},
	}
	for _, tc := range cases {
		c, err := NewClock(tc.step, tc.unit)
		if err != nil {
			t.Fatalf("NewClock(%d, %q): %v", tc.step, tc.unit, err)
		}
		got, err := c.TimeToClockTime(tc.amount, tc.fromUnit)
		if err != nil {
			t.Fatalf("TimeToClockTime(%v, %q): %v", tc.amount, tc.fromUnit, err)
		}
		if got != tc.want {
			t.Errorf("clock(%d %q): TimeToClockTime(%v, %q) = %d, want %d",
				tc.step, tc.unit, tc.amount, tc.fromUnit, got, tc.want)
		}
	}
}

func TestTimeToClockTimeRejectsUnknownUnit(t *testing.T) {
	c := DefaultClock()
	if _, err := c.TimeToClockTime(1, TimeUnit("fortnight")); !errors.Is(err, ErrUnknownTimeUnit) {
		t.Fatalf("expected ErrUnknownTimeUnit, got %v", err)
	}
}

func TestClockTimeToSecondsIsExact(t *testing.T) {
	c, _ := NewClock(5, Minutes)
	if got := c.ClockTimeToSeconds(0); got != 0 {
		t.Fatalf("expected 0 seconds for clock time 0, got %v", got)
	}
	if got := c.ClockTimeToSeconds(2); got != 600 {
		t.Fatalf("expected 600 seconds for 2 ticks of 5 minutes, got %v", got)
	}

	s, _ := NewClock(10, Seconds)
	if got := s.ClockTimeToSeconds(3); got != 30 {
		t.Fatalf("expected 30 seconds for 3 ticks of 10 seconds, got %v", got)
	}
}

func TestToDatetimeRequiresStartingTime(t *testing.T) {
	c := DefaultClock()
	if _, err := c.ToDatetime(1); err == nil {
		t.Fatal("expected error without starting time")
	}

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	c.SetStartingTime(start)
	got, err := c.ToDatetime(90)
	if err != nil {
		t.Fatalf("ToDatetime: %v", err)
	}
	want := start.Add(90 * time.Minute)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
