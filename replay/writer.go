package replay

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fujix-tas/fujix/internal"
	"github.com/fujix-tas/fujix/oerror"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

type writeOpKind uint8

const (
	writeOpAppend writeOpKind = iota
	writeOpTruncate
	writeOpFinalize
)

type writeOp struct {
	kind  writeOpKind
	entry TickEntry
	count int
}

// Writer persists an input log on a background goroutine. None of its methods block on file I/O:
// operations are queued, and once the queue is full they wait in a backlog that Pump retries.
type Writer struct {
	path   string
	header Header
	log    logrus.FieldLogger

	ops     chan writeOp
	backlog []writeOp

	done chan struct{}

	errMu sync.Mutex
	err   error
}

// NewWriter starts a writer that creates the file at path and writes the header.
func NewWriter(path string, header Header, log logrus.FieldLogger) *Writer {
	w := &Writer{
		path:   path,
		header: header,
		log:    log,
		ops:    make(chan writeOp, 256),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

// Append queues an entry to be written at the end of the file.
func (w *Writer) Append(e TickEntry) {
	w.submit(writeOp{kind: writeOpAppend, entry: e})
}

// Truncate queues cutting the file down to its first count records.
func (w *Writer) Truncate(count int) {
	w.submit(writeOp{kind: writeOpTruncate, count: count})
}

// Finalize queues writing the tick count into the header and closing the file. Done is closed once
// that has happened.
func (w *Writer) Finalize(numTicks int) {
	w.submit(writeOp{kind: writeOpFinalize, count: numTicks})
}

// Pump moves backlogged operations onto the queue as far as it has room.
func (w *Writer) Pump() {
	for len(w.backlog) > 0 {
		select {
		case w.ops <- w.backlog[0]:
			w.backlog = w.backlog[1:]
		default:
			return
		}
	}
	w.backlog = nil
}

// Done is closed after the writer has finalized the file or given up on it.
func (w *Writer) Done() <-chan struct{} {
	return w.done
}

// Wait blocks until the writer is done or ctx expires. It is meant for shutdown, never for the tick
// loop.
func (w *Writer) Wait(ctx context.Context) error {
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	for {
		w.Pump()
		select {
		case <-w.done:
			return w.Err()
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Err returns the first I/O error the writer ran into.
func (w *Writer) Err() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}

func (w *Writer) setErr(err error) {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	if w.err == nil {
		w.err = err
		w.log.WithError(err).Errorf("input log %s failed", w.path)
	}
}

func (w *Writer) submit(op writeOp) {
	if len(w.backlog) == 0 {
		select {
		case w.ops <- op:
			return
		default:
		}
	}
	w.backlog = append(w.backlog, op)
}

func (w *Writer) run() {
	hub := sentry.CurrentHub().Clone()
	defer close(w.done)
	defer func() {
		if v := recover(); v != nil {
			err := fmt.Errorf("input log writer panicked: %v", v)
			hub.Recover(err)
			w.setErr(err)
		}
	}()

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		w.setErr(oerror.Newf(oerror.KindIO, "create input log: %v", err))
		w.discard()
		return
	}
	defer f.Close()

	if _, err := f.Write(w.header.AppendBinary(nil)); err != nil {
		w.setErr(oerror.Newf(oerror.KindIO, "write header: %v", err))
	}

	for op := range w.ops {
		if w.Err() != nil {
			if op.kind == writeOpFinalize {
				return
			}
			continue
		}

		switch op.kind {
		case writeOpAppend:
			buf := internal.GetBuffer()
			buf.Write(op.entry.AppendBinary(buf.AvailableBuffer()))
			if _, err := f.Write(buf.Bytes()); err != nil {
				w.setErr(oerror.Newf(oerror.KindIO, "append tick %d: %v", op.entry.Tick, err))
			}
			internal.PutBuffer(buf)
		case writeOpTruncate:
			size := int64(HeaderSize + op.count*RecordSize)
			if err := f.Truncate(size); err != nil {
				w.setErr(oerror.Newf(oerror.KindIO, "truncate to %d records: %v", op.count, err))
			} else if _, err := f.Seek(size, io.SeekStart); err != nil {
				w.setErr(oerror.Newf(oerror.KindIO, "seek: %v", err))
			}
		case writeOpFinalize:
			var count [4]byte
			binary.LittleEndian.PutUint32(count[:], uint32(op.count))
			if _, err := f.WriteAt(count[:], numTicksOffset); err != nil {
				w.setErr(oerror.Newf(oerror.KindIO, "write tick count: %v", err))
			} else if err := f.Sync(); err != nil {
				w.setErr(oerror.Newf(oerror.KindIO, "sync: %v", err))
			}
			w.log.Debugf("input log %s finalized with %d ticks", w.path, op.count)
			return
		}
	}
}

// discard drains the queue until finalize so callers never stall on a dead writer.
func (w *Writer) discard() {
	for op := range w.ops {
		if op.kind == writeOpFinalize {
			return
		}
	}
}
