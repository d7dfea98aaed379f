package replay

import (
	"context"

	"github.com/fujix-tas/fujix/oerror"
	"github.com/fujix-tas/fujix/physics"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// State is the lifecycle state of a Recorder.
type State uint8

const (
	StateIdle State = iota
	StateRecording
	// StateStopRequested keeps recording until the next tick boundary so the last tick is complete.
	StateStopRequested
	// StateFinalizing waits for the writer to patch the header and close the file.
	StateFinalizing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopRequested:
		return "stop requested"
	case StateFinalizing:
		return "finalizing"
	}
	return "unknown"
}

// Recorder captures the live input stream into an input log and persists it in the background.
type Recorder struct {
	log logrus.FieldLogger

	// FillGaps repeats the previous input for ticks that were skipped.
	FillGaps bool

	state     State
	path      string
	startTick int32
	header    Header
	entries   *Log
	writer    *Writer
	err       error
}

func NewRecorder(log logrus.FieldLogger, fillGaps bool) *Recorder {
	return &Recorder{log: log, FillGaps: fillGaps, entries: NewLog()}
}

// Start begins recording into path. The first recorded tick is the one after tick.
func (r *Recorder) Start(path string, tick int32) error {
	if r.state != StateIdle {
		return oerror.Newf(oerror.KindInvalidState, "cannot start recording while %v", r.state)
	}
	r.state = StateRecording
	r.path = path
	r.startTick = tick + 1
	r.header = Header{Session: uuid.New()}
	r.entries = NewLog()
	r.err = nil
	r.writer = NewWriter(path, r.header, r.log)
	r.log.Infof("recording to %s from tick %d (session %s)", path, r.startTick, r.header.Session)
	return nil
}

// Record stores the input applied on the absolute tick. It returns the entries that were added,
// which includes repeated inputs for skipped ticks when FillGaps is set.
func (r *Recorder) Record(tick int32, in physics.InputFrame) []TickEntry {
	if r.state != StateRecording && r.state != StateStopRequested {
		return nil
	}
	offset := tick - r.startTick
	if offset < 0 {
		return nil
	}

	var added []TickEntry
	if r.FillGaps {
		// Filled ticks repeat the previous input, or this one when nothing was recorded yet, and
		// carry no action.
		next, fill := int32(0), in
		if last, ok := r.entries.Last(); ok {
			next, fill = last.Tick+1, last.Input
		}
		for t := next; t < offset; t++ {
			added = append(added, TickEntry{Tick: t, Input: fill})
		}
	}
	added = append(added, NewEntry(offset, in))

	for _, e := range added {
		replaced, err := r.entries.Append(e)
		if err != nil {
			r.log.WithError(err).Warnf("dropping input for tick %d", tick)
			return nil
		}
		if replaced {
			r.writer.Truncate(r.entries.Len() - 1)
		}
		r.writer.Append(e)
	}
	return added
}

// RequestStop asks the recorder to stop at the next tick boundary.
func (r *Recorder) RequestStop() {
	if r.state == StateRecording {
		r.state = StateStopRequested
	}
}

// OnTickBoundary advances the stop sequence and retries queued writes. It never blocks.
func (r *Recorder) OnTickBoundary() {
	if r.writer == nil {
		return
	}
	r.writer.Pump()

	switch r.state {
	case StateStopRequested:
		r.writer.Finalize(r.entries.Len())
		r.state = StateFinalizing
	case StateFinalizing:
		select {
		case <-r.writer.Done():
			r.finish()
		default:
		}
	}
}

// Close stops recording and waits for the log to be finalized. It is used on shutdown.
func (r *Recorder) Close(ctx context.Context) error {
	if r.state == StateIdle {
		return r.err
	}
	if r.state == StateRecording || r.state == StateStopRequested {
		r.writer.Finalize(r.entries.Len())
		r.state = StateFinalizing
	}
	if err := r.writer.Wait(ctx); err != nil {
		return err
	}
	r.finish()
	return r.err
}

func (r *Recorder) finish() {
	r.err = r.writer.Err()
	r.state = StateIdle
	if r.err != nil {
		r.log.WithError(r.err).Errorf("recording %s failed", r.path)
		return
	}
	r.log.Infof("saved %d ticks to %s", r.entries.Len(), r.path)
}

// TruncateAfter drops every entry recorded after offset in memory and on disk. lastTick is the last
// absolute tick that was recorded; recording resumes with offset+1 on the tick after it.
func (r *Recorder) TruncateAfter(offset int32, lastTick int32) {
	if r.state != StateRecording && r.state != StateStopRequested {
		return
	}
	n := r.entries.TruncateAfter(offset)
	r.writer.Truncate(n)
	r.startTick = lastTick - offset
	r.log.Debugf("truncated recording to %d entries, next offset %d", n, offset+1)
}

func (r *Recorder) State() State {
	return r.state
}

// Recording reports whether inputs are being captured.
func (r *Recorder) Recording() bool {
	return r.state == StateRecording || r.state == StateStopRequested
}

// StartTick is the absolute tick of offset zero.
func (r *Recorder) StartTick() int32 {
	return r.startTick
}

// Offset converts an absolute tick to an offset into the recording.
func (r *Recorder) Offset(tick int32) int32 {
	return tick - r.startTick
}

func (r *Recorder) Path() string {
	return r.path
}

// Log returns the in-memory log of the current or last recording.
func (r *Recorder) Log() *Log {
	return r.entries
}

// Err returns the I/O error of the last finished recording.
func (r *Recorder) Err() error {
	return r.err
}
