package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	callsCounters   []counterCall
	callsHistograms []histCall
	flushCount      int
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type histCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsCounters = append(f.callsCounters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsHistograms = append(f.callsHistograms, histCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
	return nil
}

func install(t *testing.T) *fakeBackend {
	t.Helper()
	orig := backend
	t.Cleanup(func() { backend = orig })
	fb := &fakeBackend{}
	backend = fb
	return fb
}

func TestRecordPhase_SuccessAndFailure(t *testing.T) {
	fb := install(t)

	RecordPhase("bench", "frame", "read", nil, 2*time.Second)
	RecordPhase("bench", "engine", "query", errors.New("boom"), 1500*time.Millisecond)

	if len(fb.callsCounters) != 2 || len(fb.callsHistograms) != 2 {
		t.Fatalf("calls: counters=%d hists=%d, want 2/2", len(fb.callsCounters), len(fb.callsHistograms))
	}

	cc0 := fb.callsCounters[0]
	if cc0.name != PhaseTotal || cc0.delta != 1 {
		t.Fatalf("counter[0] = %#v", cc0)
	}
	for k, want := range map[string]string{"job": "bench", "pipeline": "frame", "phase": "read", "status": "success"} {
		if got := cc0.labels[k]; got != want {
			t.Fatalf("counter[0].labels[%s]=%q; want %q", k, got, want)
		}
	}
	if h0 := fb.callsHistograms[0]; h0.name != PhaseDuration || h0.value < 1.999 || h0.value > 2.001 {
		t.Fatalf("hist[0] = %#v", h0)
	}

	if got := fb.callsCounters[1].labels["status"]; got != "failure" {
		t.Fatalf("counter[1].status=%q; want failure", got)
	}
	if h1 := fb.callsHistograms[1]; h1.value < 1.499 || h1.value > 1.501 {
		t.Fatalf("hist[1].value=%v; want ~1.5", h1.value)
	}
}

func TestRecordRows(t *testing.T) {
	fb := install(t)

	RecordRows("bench", "frame", "filtered", 3)
	RecordRows("bench", "frame", "selected", 0) // ignored
	RecordRows("bench", "engine", "written", 10)

	if len(fb.callsCounters) != 2 {
		t.Fatalf("expected 2 counter calls, got %d", len(fb.callsCounters))
	}
	c1 := fb.callsCounters[1]
	if c1.name != RowsTotal || c1.delta != 10 || c1.labels["pipeline"] != "engine" || c1.labels["kind"] != "written" {
		t.Fatalf("counter[1] = %#v", c1)
	}
}

func TestSetBackendNilKeepsCurrent(t *testing.T) {
	fb := install(t)

	SetBackend(nil)
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if fb.flushCount != 1 {
		t.Fatalf("flushCount = %d, want 1", fb.flushCount)
	}
}
