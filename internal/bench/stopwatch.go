// Package bench measures pipeline phases and prints the human-readable
// timing report.
package bench

import "time"

// Lap is the wall-clock duration of one named phase.
type Lap struct {
	Phase    string
	Duration time.Duration
}

// Stopwatch splits elapsed wall-clock time into consecutive laps.
type Stopwatch struct {
	now  func() time.Time
	last time.Time
	laps []Lap
}

// NewStopwatch starts a stopwatch. A nil now uses time.Now.
func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now, last: now()}
}

// Lap closes the current phase under name and returns its duration. The
// next phase starts immediately.
func (s *Stopwatch) Lap(phase string) time.Duration {
	t := s.now()
	d := t.Sub(s.last)
	s.last = t
	s.laps = append(s.laps, Lap{Phase: phase, Duration: d})
	return d
}

// Laps returns a copy of the recorded laps in order.
func (s *Stopwatch) Laps() []Lap {
	return append([]Lap(nil), s.laps...)
}

// Total is the sum of all laps.
func (s *Stopwatch) Total() time.Duration {
	var d time.Duration
	for _, l := range s.laps {
		d += l.Duration
	}
	return d
}
