package udp

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/maxpoletaev/hbgossip/membership"
)

const (
	fieldFromID   protowire.Number = 1
	fieldFromPort protowire.Number = 2
	fieldToID     protowire.Number = 3
	fieldToPort   protowire.Number = 4
	fieldPayload  protowire.Number = 5
)

var errMalformedEnvelope = errors.New("malformed envelope")

// envelope carries a protocol message between sockets. Both ends are needed
// since several nodes may share one socket.
type envelope struct {
	from    membership.Address
	to      membership.Address
	payload []byte
}

func appendEnvelope(b []byte, env envelope) []byte {
	b = protowire.AppendTag(b, fieldFromID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(env.from.ID))
	b = protowire.AppendTag(b, fieldFromPort, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(env.from.Port))
	b = protowire.AppendTag(b, fieldToID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(env.to.ID))
	b = protowire.AppendTag(b, fieldToPort, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(env.to.Port))
	b = protowire.AppendTag(b, fieldPayload, protowire.BytesType)
	b = protowire.AppendBytes(b, env.payload)

	return b
}

// parseEnvelope decodes an envelope. Unknown fields are skipped. The payload
// is copied, so the input buffer may be reused afterwards.
func parseEnvelope(b []byte) (envelope, error) {
	var env envelope

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return env, fmt.Errorf("%w: %w", errMalformedEnvelope, protowire.ParseError(n))
		}

		b = b[n:]

		switch {
		case typ == protowire.VarintType && num != fieldPayload:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return env, fmt.Errorf("%w: %w", errMalformedEnvelope, protowire.ParseError(n))
			}

			b = b[n:]

			switch num {
			case fieldFromID:
				env.from.ID = membership.NodeID(v)
			case fieldFromPort:
				env.from.Port = uint16(v)
			case fieldToID:
				env.to.ID = membership.NodeID(v)
			case fieldToPort:
				env.to.Port = uint16(v)
			}

		case typ == protowire.BytesType && num == fieldPayload:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return env, fmt.Errorf("%w: %w", errMalformedEnvelope, protowire.ParseError(n))
			}

			b = b[n:]
			env.payload = append([]byte(nil), v...)

		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return env, fmt.Errorf("%w: %w", errMalformedEnvelope, protowire.ParseError(n))
			}

			b = b[n:]
		}
	}

	return env, nil
}
