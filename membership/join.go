package membership

import (
	"fmt"

	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/hbgossip/wire"
)

// Start joins the node to the group through the introducer. If the node is the
// introducer itself, it bootstraps a new group. Otherwise a join request is sent
// and the node considers itself joined right away, without waiting for a reply:
// a lost request only means other members learn about the node later, once its
// heartbeats reach them.
//
// A failure to send the request is fatal. The node is marked failed and must
// not be used further.
func (n *Node) Start(introducer Address) error {
	if n.failed || n.stopped {
		return ErrNodeFailed
	}

	n.introducer = introducer

	if n.self == introducer {
		level.Info(n.logger).Log("msg", "starting up group")
		n.inGroup = true

		return nil
	}

	level.Info(n.logger).Log("msg", "trying to join", "introducer", introducer)

	if err := n.sendJoin(); err != nil {
		n.markFailed(err)
		return fmt.Errorf("%w: %w", ErrJoinFailed, err)
	}

	n.inGroup = true

	return nil
}

func (n *Node) sendJoin() error {
	payload := wire.Encode(wire.Message{
		Type:      wire.TypeJoinRequest,
		ID:        uint32(n.self.ID),
		Port:      n.self.Port,
		Heartbeat: n.heartbeat,
	})

	n.sinceJoin = 0

	if err := n.transport.Send(n.self, n.introducer, payload); err != nil {
		return fmt.Errorf("send join request to %s: %w", n.introducer, err)
	}

	return nil
}

// retryJoin re-sends the join request while no other member is known.
func (n *Node) retryJoin() {
	if n.joinRetryTicks == 0 || n.self == n.introducer || len(n.members) > 0 {
		return
	}

	n.sinceJoin++
	if n.sinceJoin < n.joinRetryTicks {
		return
	}

	level.Debug(n.logger).Log("msg", "no members known, retrying join", "introducer", n.introducer)

	if err := n.sendJoin(); err != nil {
		level.Warn(n.logger).Log("msg", "join retry failed", "err", err)
	}
}
