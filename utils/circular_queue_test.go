package utils

import "testing"

func TestCircularQueueEvictsOldest(t *testing.T) {
	q := NewCircularQueue[int](3)
	for i := 1; i <= 3; i++ {
		if q.Append(i) {
			t.Fatalf("unexpected eviction while appending %d", i)
		}
	}
	if !q.Append(4) {
		t.Fatalf("expected eviction on full queue")
	}
	if q.Len() != 3 || q.Cap() != 3 {
		t.Fatalf("expected len 3 cap 3, got %d %d", q.Len(), q.Cap())
	}

	front, _ := q.Front()
	back, _ := q.Back()
	if front != 2 || back != 4 {
		t.Fatalf("expected front 2 back 4, got %d %d", front, back)
	}

	var got []int
	for _, v := range q.Iter() {
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 2 || got[1] != 3 || got[2] != 4 {
		t.Fatalf("unexpected iteration order %v", got)
	}
}

func TestCircularQueueTruncate(t *testing.T) {
	q := NewCircularQueue[int](4)
	for i := 0; i < 6; i++ {
		q.Append(i)
	}
	q.Truncate(2)
	if q.Len() != 2 {
		t.Fatalf("expected 2 items after truncate, got %d", q.Len())
	}
	if v, _ := q.Back(); v != 3 {
		t.Fatalf("expected newest item 3 after truncate, got %d", v)
	}

	q.Append(10)
	if v, err := q.Get(2); err != nil || v != 10 {
		t.Fatalf("expected 10 at index 2, got %d (%v)", v, err)
	}
	if _, err := q.Get(3); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestCircularQueuePopAndBackward(t *testing.T) {
	q := NewCircularQueue[string](2)
	q.Append("a")
	q.Append("b")
	q.Append("c")

	var seen []string
	for _, v := range q.Backward() {
		seen = append(seen, v)
	}
	if len(seen) != 2 || seen[0] != "c" || seen[1] != "b" {
		t.Fatalf("unexpected backward order %v", seen)
	}

	if v, ok := q.Pop(); !ok || v != "b" {
		t.Fatalf("expected to pop b, got %q %v", v, ok)
	}
	q.Clear()
	if _, ok := q.Pop(); ok {
		t.Fatalf("expected empty queue after clear")
	}
}
