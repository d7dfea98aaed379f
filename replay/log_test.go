package replay

import (
	"errors"
	"testing"

	"github.com/fujix-tas/fujix/oerror"
	"github.com/fujix-tas/fujix/physics"
)

func TestLogAppendOrdering(t *testing.T) {
	l := NewLog()
	if _, err := l.Append(NewEntry(0, physics.InputFrame{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Append(NewEntry(2, physics.InputFrame{Direction: 1})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	replaced, err := l.Append(NewEntry(2, physics.InputFrame{Direction: -1}))
	if err != nil || !replaced {
		t.Fatalf("expected the duplicate tick to replace the last entry, got %v %v", replaced, err)
	}
	if last, _ := l.Last(); last.Input.Direction != -1 || l.Len() != 2 {
		t.Fatalf("unexpected log after replacement: %+v", l.Entries())
	}

	_, err = l.Append(NewEntry(1, physics.InputFrame{}))
	if !errors.Is(err, oerror.ErrOutOfOrder) {
		t.Fatalf("expected an out of order error, got %v", err)
	}
}

func TestLogTruncateAfter(t *testing.T) {
	l, err := NewLogFromEntries([]TickEntry{{Tick: 0}, {Tick: 1}, {Tick: 3}, {Tick: 4}, {Tick: 8}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := l.TruncateAfter(3); n != 3 {
		t.Fatalf("expected 3 entries left, got %d", n)
	}
	if n := l.TruncateAfter(2); n != 2 {
		t.Fatalf("expected 2 entries left when cutting between ticks, got %d", n)
	}
	if n := l.TruncateAfter(-1); n != 0 {
		t.Fatalf("expected an empty log, got %d", n)
	}
}

func TestLogFind(t *testing.T) {
	l, _ := NewLogFromEntries([]TickEntry{{Tick: 2}, {Tick: 5}, {Tick: 9}})
	if i, ok := l.Find(5); !ok || i != 1 {
		t.Fatalf("expected tick 5 at index 1, got %d %v", i, ok)
	}
	if i, ok := l.Find(6); ok || i != 2 {
		t.Fatalf("expected tick 6 to insert at index 2, got %d %v", i, ok)
	}
}
