package replay

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/fujix-tas/fujix/oerror"
	"github.com/fujix-tas/fujix/physics"
	"github.com/google/uuid"
)

const (
	// Magic marks the start of every input log file.
	Magic = "FJX1"

	// HeaderSize is the size of the file header: magic, tick count and session id.
	HeaderSize = 4 + 4 + 16
	// RecordSize is the size of one encoded TickEntry.
	RecordSize = 4 + 4 + 7*4

	// numTicksOffset is where the tick count lives in the header.
	numTicksOffset = 4
)

// Header is the fixed header of an input log file.
type Header struct {
	// NumTicks is the number of records in the file, or 0 if the file was never finalized.
	NumTicks int32
	Session  uuid.UUID
}

// TickEntry is one recorded tick. Tick is the offset from the start of the recording.
type TickEntry struct {
	Tick   int32
	Action uint8
	Input  physics.InputFrame
}

// NewEntry returns the entry for the input recorded at tick.
func NewEntry(tick int32, in physics.InputFrame) TickEntry {
	e := TickEntry{Tick: tick, Input: in}
	if in.Active() {
		e.Action = 1
	}
	return e
}

// Recording is a decoded input log file.
type Recording struct {
	Header Header
	Log    *Log
}

func (h Header) AppendBinary(b []byte) []byte {
	b = append(b, Magic...)
	b = binary.LittleEndian.AppendUint32(b, uint32(h.NumTicks))
	return append(b, h.Session[:]...)
}

func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, oerror.Newf(oerror.KindMalformedLogRecord, "header is %d bytes, need %d", len(b), HeaderSize)
	}
	if string(b[:4]) != Magic {
		return Header{}, oerror.Newf(oerror.KindMalformedLogRecord, "bad magic %q", b[:4])
	}
	h := Header{NumTicks: int32(binary.LittleEndian.Uint32(b[numTicksOffset:]))}
	copy(h.Session[:], b[8:HeaderSize])
	if h.NumTicks < 0 {
		return Header{}, oerror.Newf(oerror.KindMalformedLogRecord, "negative tick count %d", h.NumTicks)
	}
	return h, nil
}

func (e TickEntry) AppendBinary(b []byte) []byte {
	in := e.Input
	b = binary.LittleEndian.AppendUint32(b, uint32(e.Tick))
	b = append(b, e.Action, 0, 0, 0)
	for _, v := range [...]int32{in.Direction, in.TargetX, in.TargetY, in.Jump, in.Fire, boolToInt32(in.Hook), in.WantedWeapon} {
		b = binary.LittleEndian.AppendUint32(b, uint32(v))
	}
	return b
}

func DecodeEntry(b []byte) (TickEntry, error) {
	if len(b) < RecordSize {
		return TickEntry{}, oerror.Newf(oerror.KindMalformedLogRecord, "record is %d bytes, need %d", len(b), RecordSize)
	}
	field := func(i int) int32 {
		return int32(binary.LittleEndian.Uint32(b[8+i*4:]))
	}
	e := TickEntry{
		Tick:   int32(binary.LittleEndian.Uint32(b)),
		Action: b[4],
		Input: physics.InputFrame{
			Direction:    field(0),
			TargetX:      field(1),
			TargetY:      field(2),
			Jump:         field(3),
			Fire:         field(4),
			Hook:         field(5) != 0,
			WantedWeapon: field(6),
		},
	}
	if e.Tick < 0 {
		return TickEntry{}, oerror.Newf(oerror.KindMalformedLogRecord, "negative tick %d", e.Tick)
	}
	return e, nil
}

// Decode reads a complete input log. A trailing partial record, a tick count that does not match the
// records present or ticks out of order all make the log malformed.
func Decode(r io.Reader) (*Recording, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, oerror.Newf(oerror.KindIO, "read log: %v", err)
	}
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[HeaderSize:]
	if len(body)%RecordSize != 0 {
		return nil, oerror.Newf(oerror.KindMalformedLogRecord, "trailing record truncated to %d of %d bytes", len(body)%RecordSize, RecordSize)
	}
	count := len(body) / RecordSize
	if h.NumTicks != 0 && int(h.NumTicks) != count {
		return nil, oerror.Newf(oerror.KindMalformedLogRecord, "header declares %d ticks, file holds %d", h.NumTicks, count)
	}

	log := NewLog()
	for i := 0; i < count; i++ {
		e, err := DecodeEntry(body[i*RecordSize:])
		if err != nil {
			return nil, err
		}
		if last, ok := log.Last(); ok && e.Tick <= last.Tick {
			return nil, oerror.Newf(oerror.KindMalformedLogRecord, "record %d has tick %d after tick %d", i, e.Tick, last.Tick)
		}
		log.entries = append(log.entries, e)
	}
	return &Recording{Header: h, Log: log}, nil
}

// Encode writes a complete, finalized input log.
func Encode(w io.Writer, session uuid.UUID, log *Log) error {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + log.Len()*RecordSize)
	buf.Write(Header{NumTicks: int32(log.Len()), Session: session}.AppendBinary(nil))
	b := buf.AvailableBuffer()
	for _, e := range log.entries {
		b = e.AppendBinary(b)
	}
	buf.Write(b)
	_, err := w.Write(buf.Bytes())
	return err
}

// Load reads the input log at path.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oerror.Newf(oerror.KindIO, "open log: %v", err)
	}
	defer f.Close()

	rec, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return rec, nil
}

// Save writes log to path, replacing any existing file.
func Save(path string, session uuid.UUID, log *Log) error {
	f, err := os.Create(path)
	if err != nil {
		return oerror.Newf(oerror.KindIO, "create log: %v", err)
	}
	if err := Encode(f, session, log); err != nil {
		f.Close()
		return oerror.Newf(oerror.KindIO, "write log: %v", err)
	}
	if err := f.Close(); err != nil {
		return oerror.Newf(oerror.KindIO, "close log: %v", err)
	}
	return nil
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
