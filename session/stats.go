package session

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"go.uber.org/atomic"
)

// Stats counts what happened in a session. It is safe to read from other goroutines, for example a
// debug endpoint.
type Stats struct {
	Ticks          atomic.Int64
	Inputs         atomic.Int64
	Snapshots      atomic.Int64
	StaleSnapshots atomic.Int64
	// RejectedSnapshots counts snapshots carrying a non-finite core.
	RejectedSnapshots atomic.Int64
	Divergences       atomic.Int64
	RecordedTicks     atomic.Int64
	PhantomTicks      atomic.Int64
	Rollbacks         atomic.Int64
	LoadFailures      atomic.Int64
	// NonFiniteTicks counts ticks whose prediction was dropped and kept out of the recording.
	NonFiniteTicks atomic.Int64
	FreezeRescues  atomic.Int64
	TotalTickTime  atomic.Duration
}

func (s *Stats) addTick(d time.Duration) {
	s.Ticks.Inc()
	s.TotalTickTime.Add(d)
}

// Snapshot returns a read only copy of the counters in a stable order.
func (s *Stats) Snapshot() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.NewOrderedMap[string, any]()
	ticks := s.Ticks.Load()
	var avg time.Duration
	if ticks > 0 {
		avg = s.TotalTickTime.Load() / time.Duration(ticks)
	}
	m.Set("ticks", ticks)
	m.Set("inputs", s.Inputs.Load())
	m.Set("snapshots", s.Snapshots.Load())
	m.Set("stale_snapshots", s.StaleSnapshots.Load())
	m.Set("rejected_snapshots", s.RejectedSnapshots.Load())
	m.Set("divergences", s.Divergences.Load())
	m.Set("recorded_ticks", s.RecordedTicks.Load())
	m.Set("phantom_ticks", s.PhantomTicks.Load())
	m.Set("rollbacks", s.Rollbacks.Load())
	m.Set("load_failures", s.LoadFailures.Load())
	m.Set("non_finite_ticks", s.NonFiniteTicks.Load())
	m.Set("freeze_rescues", s.FreezeRescues.Load())
	m.Set("avg_tick", avg)
	return m
}
