package transport

import (
	"context"
	"sync"
	"time"

	"github.com/fujix-tas/fujix/physics"
	"github.com/fujix-tas/fujix/prediction"
	"github.com/getsentry/sentry-go"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// SnapshotBuffer is the number of snapshots kept until the next Drain. Older snapshots are dropped
// when it overflows since a newer one supersedes them.
const SnapshotBuffer = 64

// Client receives authoritative snapshots from a server and sends local inputs to it.
type Client struct {
	conn *websocket.Conn
	log  logrus.FieldLogger

	snapshots chan prediction.Snapshot
	dropped   atomic.Int64

	writeMu sync.Mutex
	done    chan struct{}
	err     atomic.Error
}

// Dial connects to the websocket server at url.
func Dial(ctx context.Context, url string, log logrus.FieldLogger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		conn:      conn,
		log:       log,
		snapshots: make(chan prediction.Snapshot, SnapshotBuffer),
		done:      make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer close(c.done)
	defer func() {
		if v := recover(); v != nil {
			hub := sentry.CurrentHub().Clone()
			hub.Recover(v)
			hub.Flush(time.Second * 5)
			c.log.Errorf("transport read loop panicked: %v", v)
		}
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.err.Store(err)
			}
			return
		}
		msg, err := Decode(data)
		if err != nil {
			c.log.WithError(err).Warn("dropping malformed message")
			continue
		}
		if msg.Kind != KindSnapshot {
			continue
		}
		c.push(prediction.Snapshot{Tick: msg.Tick, Core: *msg.Core})
	}
}

func (c *Client) push(snap prediction.Snapshot) {
	for {
		select {
		case c.snapshots <- snap:
			return
		default:
		}
		select {
		case <-c.snapshots:
			c.dropped.Inc()
		default:
		}
	}
}

// Drain returns every snapshot received since the last call without blocking.
func (c *Client) Drain() []prediction.Snapshot {
	var out []prediction.Snapshot
	for {
		select {
		case snap := <-c.snapshots:
			out = append(out, snap)
		default:
			return out
		}
	}
}

// SendInput sends the local input for tick.
func (c *Client) SendInput(tick int32, in physics.InputFrame) error {
	data, err := Encode(Message{Kind: KindInput, Tick: tick, Input: &in})
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, data)
}

// Dropped returns the number of snapshots dropped because Drain was not called often enough.
func (c *Client) Dropped() int64 {
	return c.dropped.Load()
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that ended the connection, if any.
func (c *Client) Err() error {
	return c.err.Load()
}

func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	return c.conn.Close()
}
