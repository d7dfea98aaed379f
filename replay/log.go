package replay

import (
	"slices"

	"github.com/fujix-tas/fujix/oerror"
)

// Log is an in-memory input log ordered by strictly increasing tick.
type Log struct {
	entries []TickEntry
}

func NewLog() *Log {
	return &Log{}
}

// NewLogFromEntries builds a log from entries, which must be in strictly increasing tick order.
func NewLogFromEntries(entries []TickEntry) (*Log, error) {
	l := NewLog()
	for _, e := range entries {
		if _, err := l.Append(e); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Append adds e to the end of the log. An entry for the last tick replaces it, in which case
// replaced is true. Entries older than the last tick are rejected.
func (l *Log) Append(e TickEntry) (replaced bool, err error) {
	if e.Tick < 0 {
		return false, oerror.Newf(oerror.KindOutOfOrder, "negative tick %d", e.Tick)
	}
	if n := len(l.entries); n > 0 {
		last := l.entries[n-1]
		switch {
		case e.Tick == last.Tick:
			l.entries[n-1] = e
			return true, nil
		case e.Tick < last.Tick:
			return false, oerror.Newf(oerror.KindOutOfOrder, "tick %d appended after tick %d", e.Tick, last.Tick)
		}
	}
	l.entries = append(l.entries, e)
	return false, nil
}

func (l *Log) Len() int {
	return len(l.entries)
}

// At returns the i-th entry.
func (l *Log) At(i int) TickEntry {
	return l.entries[i]
}

func (l *Log) Last() (TickEntry, bool) {
	if len(l.entries) == 0 {
		return TickEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Entries returns a copy of the entries.
func (l *Log) Entries() []TickEntry {
	return slices.Clone(l.entries)
}

// Find returns the index of the entry for tick.
func (l *Log) Find(tick int32) (int, bool) {
	return slices.BinarySearchFunc(l.entries, tick, func(e TickEntry, t int32) int {
		return int(e.Tick) - int(t)
	})
}

// TruncateAfter drops every entry with a tick greater than tick and returns the number of entries
// left.
func (l *Log) TruncateAfter(tick int32) int {
	i, found := l.Find(tick)
	if found {
		i++
	}
	clear(l.entries[i:])
	l.entries = l.entries[:i]
	return i
}
