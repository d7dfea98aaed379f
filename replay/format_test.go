package replay

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fujix-tas/fujix/oerror"
	"github.com/fujix-tas/fujix/physics"
	"github.com/google/uuid"
)

func sampleLog(t *testing.T, n int) *Log {
	t.Helper()
	l := NewLog()
	for i := 0; i < n; i++ {
		in := physics.InputFrame{
			Direction:    int32(i%3) - 1,
			TargetX:      int32(i * 7),
			TargetY:      -int32(i * 3),
			Jump:         int32(i / 4),
			Fire:         int32(i / 5),
			Hook:         i%6 > 2,
			WantedWeapon: int32(i % 2),
		}
		if _, err := l.Append(NewEntry(int32(i), in)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	return l
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.fjx")
	session := uuid.New()
	want := sampleLog(t, 40)

	if err := Save(path, session, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != HeaderSize+40*RecordSize {
		t.Fatalf("unexpected file size %d", info.Size())
	}

	rec, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.Header.NumTicks != 40 || rec.Header.Session != session {
		t.Fatalf("unexpected header %+v", rec.Header)
	}
	if rec.Log.Len() != want.Len() {
		t.Fatalf("expected %d entries, got %d", want.Len(), rec.Log.Len())
	}
	for i := 0; i < want.Len(); i++ {
		if rec.Log.At(i) != want.At(i) {
			t.Fatalf("entry %d differs: %+v != %+v", i, rec.Log.At(i), want.At(i))
		}
	}
}

func encoded(t *testing.T, l *Log) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, uuid.Nil, l); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	data := encoded(t, sampleLog(t, 3))
	copy(data, "KJM1")
	_, err := Decode(bytes.NewReader(data))
	if !errors.Is(err, oerror.ErrMalformedLogRecord) {
		t.Fatalf("expected a malformed log error, got %v", err)
	}
}

func TestDecodeRejectsTruncatedRecord(t *testing.T) {
	data := encoded(t, sampleLog(t, 3))
	_, err := Decode(bytes.NewReader(data[:len(data)-5]))
	if !errors.Is(err, oerror.ErrMalformedLogRecord) {
		t.Fatalf("expected a malformed log error, got %v", err)
	}
}

func TestDecodeRejectsCountMismatch(t *testing.T) {
	data := encoded(t, sampleLog(t, 3))
	_, err := Decode(bytes.NewReader(data[:len(data)-RecordSize]))
	if !errors.Is(err, oerror.ErrMalformedLogRecord) {
		t.Fatalf("expected a malformed log error, got %v", err)
	}
}

func TestDecodeUnfinalizedLog(t *testing.T) {
	data := encoded(t, sampleLog(t, 3))
	copy(data[numTicksOffset:], []byte{0, 0, 0, 0})
	rec, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("expected an unfinalized log to load, got %v", err)
	}
	if rec.Log.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", rec.Log.Len())
	}
}

func TestDecodeRejectsOutOfOrderTicks(t *testing.T) {
	l := sampleLog(t, 2)
	data := encoded(t, l)
	second := HeaderSize + RecordSize
	copy(data[second:], []byte{0, 0, 0, 0})
	_, err := Decode(bytes.NewReader(data))
	if !errors.Is(err, oerror.ErrMalformedLogRecord) {
		t.Fatalf("expected a malformed log error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.fjx"))
	if !errors.Is(err, oerror.ErrIO) {
		t.Fatalf("expected an io error, got %v", err)
	}
}

func TestEntryActionFlag(t *testing.T) {
	if NewEntry(0, physics.InputFrame{TargetX: 5}).Action != 0 {
		t.Fatalf("aiming alone is not an action")
	}
	if NewEntry(0, physics.InputFrame{Hook: true}).Action != 1 {
		t.Fatalf("hooking is an action")
	}
}
