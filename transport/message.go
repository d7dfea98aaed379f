package transport

import (
	"github.com/fujix-tas/fujix/oerror"
	"github.com/fujix-tas/fujix/physics"
	"github.com/vmihailenco/msgpack/v5"
)

type Kind string

const (
	KindSnapshot Kind = "snapshot"
	KindInput    Kind = "input"
)

// Message is the unit exchanged with the server. Snapshots carry a core, inputs carry an input frame.
type Message struct {
	Kind  Kind                   `msgpack:"kind"`
	Tick  int32                  `msgpack:"tick"`
	Core  *physics.CharacterCore `msgpack:"core,omitempty"`
	Input *physics.InputFrame    `msgpack:"input,omitempty"`
}

func Encode(m Message) ([]byte, error) {
	return msgpack.Marshal(&m)
}

func Decode(data []byte) (Message, error) {
	var m Message
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return Message{}, oerror.Newf(oerror.KindMalformedLogRecord, "decode message: %v", err)
	}
	switch m.Kind {
	case KindSnapshot:
		if m.Core == nil {
			return Message{}, oerror.Newf(oerror.KindMalformedLogRecord, "snapshot for tick %d without a core", m.Tick)
		}
	case KindInput:
		if m.Input == nil {
			return Message{}, oerror.Newf(oerror.KindMalformedLogRecord, "input for tick %d without a frame", m.Tick)
		}
	default:
		return Message{}, oerror.Newf(oerror.KindMalformedLogRecord, "unknown message kind %q", m.Kind)
	}
	return m, nil
}
