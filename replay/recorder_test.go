package replay

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/fujix-tas/fujix/physics"
	"github.com/sirupsen/logrus"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// drive calls OnTickBoundary until the recorder is idle again.
func drive(t *testing.T, r *Recorder) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for r.State() != StateIdle {
		if time.Now().After(deadline) {
			t.Fatalf("recorder stuck in state %v", r.State())
		}
		r.OnTickBoundary()
		time.Sleep(time.Millisecond)
	}
}

func TestRecorderLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.fjx")
	r := NewRecorder(testLogger(), true)

	if err := r.Start(path, 99); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := r.Start(path, 99); err == nil {
		t.Fatalf("expected a second start to fail")
	}
	if r.StartTick() != 100 {
		t.Fatalf("expected recording to start on the next tick, got %d", r.StartTick())
	}

	r.Record(99, physics.InputFrame{Direction: 1})
	for tick := int32(100); tick < 110; tick++ {
		r.Record(tick, physics.InputFrame{Direction: 1, Jump: tick % 2})
		r.OnTickBoundary()
	}

	r.RequestStop()
	if r.State() != StateStopRequested {
		t.Fatalf("expected a pending stop, got %v", r.State())
	}
	r.Record(110, physics.InputFrame{Direction: -1})
	r.OnTickBoundary()
	if r.State() != StateFinalizing {
		t.Fatalf("expected finalizing after the tick boundary, got %v", r.State())
	}
	if added := r.Record(111, physics.InputFrame{}); added != nil {
		t.Fatalf("expected no recording while finalizing")
	}
	drive(t, r)
	if r.Err() != nil {
		t.Fatalf("recording failed: %v", r.Err())
	}

	rec, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.Header.NumTicks != 11 || rec.Log.Len() != 11 {
		t.Fatalf("expected 11 ticks, got header %d log %d", rec.Header.NumTicks, rec.Log.Len())
	}
	for i := 0; i < 11; i++ {
		if rec.Log.At(i) != r.Log().At(i) {
			t.Fatalf("entry %d on disk differs from memory", i)
		}
	}
	if last, _ := rec.Log.Last(); last.Tick != 10 || last.Input.Direction != -1 {
		t.Fatalf("unexpected last entry %+v", last)
	}
}

func TestRecorderFillsGaps(t *testing.T) {
	r := NewRecorder(testLogger(), true)
	if err := r.Start(filepath.Join(t.TempDir(), "gaps.fjx"), 0); err != nil {
		t.Fatalf("start: %v", err)
	}

	r.Record(1, physics.InputFrame{Direction: 1})
	added := r.Record(4, physics.InputFrame{Direction: -1})
	if len(added) != 3 {
		t.Fatalf("expected two fill entries and the new one, got %d", len(added))
	}
	entries := r.Log().Entries()
	want := []int32{1, 1, 1, -1}
	wantAction := []uint8{1, 0, 0, 1}
	for i, e := range entries {
		if e.Tick != int32(i) || e.Input.Direction != want[i] || e.Action != wantAction[i] {
			t.Fatalf("entry %d unexpected: %+v", i, e)
		}
	}

	r.RequestStop()
	drive(t, r)
}

func TestRecorderFillsLeadingGapWithFirstInput(t *testing.T) {
	r := NewRecorder(testLogger(), true)
	if err := r.Start(filepath.Join(t.TempDir(), "late.fjx"), 0); err != nil {
		t.Fatalf("start: %v", err)
	}

	in := physics.InputFrame{Direction: 1, TargetX: 12}
	added := r.Record(3, in)
	if len(added) != 3 {
		t.Fatalf("expected two fill entries and the new one, got %d", len(added))
	}
	for i, e := range added[:2] {
		if e.Tick != int32(i) || e.Input != in || e.Action != 0 {
			t.Fatalf("fill entry %d unexpected: %+v", i, e)
		}
	}
	if added[2].Tick != 2 || added[2].Action != 1 {
		t.Fatalf("recorded entry lost its action: %+v", added[2])
	}

	r.RequestStop()
	drive(t, r)
}

func TestRecorderTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollback.fjx")
	r := NewRecorder(testLogger(), false)
	if err := r.Start(path, -1); err != nil {
		t.Fatalf("start: %v", err)
	}
	for tick := int32(0); tick < 20; tick++ {
		r.Record(tick, physics.InputFrame{TargetX: tick})
	}

	r.TruncateAfter(9, 19)
	if r.Log().Len() != 10 {
		t.Fatalf("expected 10 entries after truncation, got %d", r.Log().Len())
	}
	added := r.Record(20, physics.InputFrame{TargetX: 100})
	if len(added) != 1 || added[0].Tick != 10 {
		t.Fatalf("expected recording to resume at offset 10, got %+v", added)
	}

	r.RequestStop()
	drive(t, r)

	rec, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.Log.Len() != 11 {
		t.Fatalf("expected 11 entries on disk, got %d", rec.Log.Len())
	}
	if last, _ := rec.Log.Last(); last.Input.TargetX != 100 {
		t.Fatalf("expected the resumed entry last, got %+v", last)
	}
}

func TestRecorderWriteFailure(t *testing.T) {
	r := NewRecorder(testLogger(), false)
	if err := r.Start(filepath.Join(t.TempDir(), "missing", "dir", "x.fjx"), 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	r.Record(1, physics.InputFrame{})
	r.RequestStop()
	drive(t, r)
	if r.Err() == nil {
		t.Fatalf("expected the write failure to surface")
	}
}
