// Package wire defines the binary layout of messages exchanged between nodes.
//
// Every message is 16 bytes, big-endian:
//
//	version(1) | type(1) | id(4) | port(2) | heartbeat(8)
//
// The id and port describe the subject of the message, which is not necessarily
// the node that sent it: heartbeats about other members are forwarded as is.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/maxpoletaev/hbgossip/internal/binario"
)

// Version is the current layout version written into every message.
const Version uint8 = 1

// Size is the encoded size of a message.
const Size = 16

var (
	ErrShortMessage       = errors.New("message too short")
	ErrUnsupportedVersion = errors.New("unsupported message version")
	ErrUnknownType        = errors.New("unknown message type")
)

var byteOrder = binary.BigEndian

type Type uint8

const (
	TypeJoinRequest Type = iota + 1
	TypeHeartbeat
)

func (t Type) String() string {
	switch t {
	case TypeJoinRequest:
		return "join_request"
	case TypeHeartbeat:
		return "heartbeat"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

func (t Type) valid() bool {
	return t == TypeJoinRequest || t == TypeHeartbeat
}

// Message carries what the sender knows about a single member.
type Message struct {
	Type      Type
	ID        uint32
	Port      uint16
	Heartbeat int64
}

// Encode serializes the message using the current layout version.
func Encode(msg Message) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, Size))
	w := binario.NewWriter(buf, byteOrder)

	// Writes into bytes.Buffer never fail.
	_ = w.WriteUint8(Version)
	_ = w.WriteUint8(uint8(msg.Type))
	_ = w.WriteUint32(msg.ID)
	_ = w.WriteUint16(msg.Port)
	_ = w.WriteInt64(msg.Heartbeat)

	return buf.Bytes()
}

// Decode parses a message. Trailing bytes beyond Size are ignored.
func Decode(b []byte) (Message, error) {
	if len(b) < Size {
		return Message{}, fmt.Errorf("%w: %d bytes", ErrShortMessage, len(b))
	}

	r := binario.NewReader(bytes.NewReader(b), byteOrder)

	var (
		msg Message
		err error
	)

	version, err := r.ReadUint8()
	if err != nil {
		return Message{}, err
	}

	if version != Version {
		return Message{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	typ, err := r.ReadUint8()
	if err != nil {
		return Message{}, err
	}

	msg.Type = Type(typ)
	if !msg.Type.valid() {
		return Message{}, fmt.Errorf("%w: %d", ErrUnknownType, typ)
	}

	if msg.ID, err = r.ReadUint32(); err != nil {
		return Message{}, err
	}

	if msg.Port, err = r.ReadUint16(); err != nil {
		return Message{}, err
	}

	if msg.Heartbeat, err = r.ReadInt64(); err != nil {
		return Message{}, err
	}

	return msg, nil
}
