package membership

import (
	"errors"
	"fmt"

	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/hbgossip/internal/generic"
	"github.com/maxpoletaev/hbgossip/internal/multierror"
	"github.com/maxpoletaev/hbgossip/transport"
	"github.com/maxpoletaev/hbgossip/wire"
)

// disseminate advances the own heartbeat and pushes everything the node knows
// (itself plus every live member) to the selected destinations, one message per
// known member and destination. Failed sends are not retried: the next tick
// sends the then current state anyway.
//
// The returned error is only set when the transport has been closed.
func (n *Node) disseminate() (sent, failed int, _ error) {
	n.heartbeat++

	members := generic.SortedValues(n.members)

	payloads := make([][]byte, 0, len(members)+1)
	payloads = append(payloads, heartbeatPayload(n.self, n.heartbeat))

	for _, m := range members {
		payloads = append(payloads, heartbeatPayload(m.Address, m.Heartbeat))
	}

	errs := multierror.New[Address]()

	for _, dst := range n.pickDestinations(members) {
		for _, payload := range payloads {
			err := n.transport.Send(n.self, dst, payload)
			if err == nil {
				sent++
				continue
			}

			if errors.Is(err, transport.ErrClosed) {
				return sent, failed + 1, err
			}

			errs.Add(dst, err)
			failed++
		}
	}

	if errs.Len() > 0 {
		level.Warn(n.logger).Log(
			"msg", "failed to send heartbeats",
			"failed", failed,
			"destinations", fmt.Sprint(errs.Keys()),
			"err", errs,
		)
	}

	return sent, failed, nil
}

// pickDestinations returns the members heartbeats are sent to on this tick.
// Members are never dead here, since eviction removes them from the table.
func (n *Node) pickDestinations(members []Member) []Address {
	dst := make([]Address, 0, len(members))
	for _, m := range members {
		dst = append(dst, m.Address)
	}

	if n.gossipFanout > 0 && len(dst) > n.gossipFanout {
		generic.Shuffle(n.rnd, dst)
		dst = dst[:n.gossipFanout]
	}

	return dst
}

func heartbeatPayload(addr Address, heartbeat int64) []byte {
	return wire.Encode(wire.Message{
		Type:      wire.TypeHeartbeat,
		ID:        uint32(addr.ID),
		Port:      addr.Port,
		Heartbeat: heartbeat,
	})
}
