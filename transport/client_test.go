package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fujix-tas/fujix/physics"
	"github.com/fujix-tas/fujix/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDecodeRejectsIncompleteMessages(t *testing.T) {
	for _, m := range []Message{
		{Kind: KindSnapshot, Tick: 3},
		{Kind: KindInput, Tick: 3},
		{Kind: "chat", Tick: 3},
	} {
		data, err := Encode(m)
		if err != nil {
			t.Fatalf("encode %v: %v", m.Kind, err)
		}
		if _, err := Decode(data); err == nil {
			t.Fatalf("expected %q message without payload to be rejected", m.Kind)
		}
	}
	if _, err := Decode([]byte{0xc1}); err == nil {
		t.Fatalf("expected garbage to be rejected")
	}
}

func TestClientExchange(t *testing.T) {
	core := physics.NewCore(world.TileCenter(4, 4), physics.DefaultTuning())
	core.Vel = mgl32.Vec2{1.5, -2.25}
	core.HookState = physics.HookGrabbed

	inputs := make(chan Message, 1)
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for tick := int32(1); tick <= 3; tick++ {
			c := core
			c.Tick = tick
			data, _ := Encode(Message{Kind: KindSnapshot, Tick: tick, Core: &c})
			if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msg, err := Decode(data); err == nil {
			inputs <- msg
		}
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, "ws"+strings.TrimPrefix(server.URL, "http"), testLogger())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	var got []int32
	deadline := time.Now().Add(5 * time.Second)
	for len(got) < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("only received snapshots %v", got)
		}
		for _, snap := range c.Drain() {
			if snap.Core.Pos != core.Pos || snap.Core.Vel != core.Vel {
				t.Fatalf("snapshot core changed on the wire: %+v", snap.Core)
			}
			got = append(got, snap.Tick)
		}
		time.Sleep(time.Millisecond)
	}
	if got[0] != 1 || got[2] != 3 {
		t.Fatalf("snapshots out of order: %v", got)
	}

	if err := c.SendInput(7, physics.InputFrame{Direction: -1, Hook: true, TargetX: 10}); err != nil {
		t.Fatalf("send input: %v", err)
	}
	select {
	case msg := <-inputs:
		if msg.Kind != KindInput || msg.Tick != 7 || msg.Input.Direction != -1 || !msg.Input.Hook {
			t.Fatalf("server received %+v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server never received the input")
	}
}
