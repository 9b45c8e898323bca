package membership

import (
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/hbgossip/wire"
)

// drainInbox dispatches every buffered message and returns how many were
// processed and how many of them could not be decoded.
func (n *Node) drainInbox() (received, malformed int) {
	received = n.inbox.Drain(func(payload []byte) {
		if !n.dispatch(payload) {
			malformed++
		}
	})

	return received, malformed
}

// takeInboxDropped returns how many messages the inbox has discarded on
// overflow since the previous call.
func (n *Node) takeInboxDropped() int {
	total := n.inbox.Dropped()
	dropped := total - n.inboxDropped
	n.inboxDropped = total

	if dropped > 0 {
		level.Warn(n.logger).Log("msg", "inbox overflow, oldest messages dropped", "dropped", dropped)
	}

	return int(dropped)
}

// dispatch handles a single raw message. It returns false if the message was
// dropped as malformed.
func (n *Node) dispatch(payload []byte) bool {
	msg, err := wire.Decode(payload)
	if err != nil {
		level.Debug(n.logger).Log("msg", "dropped malformed message", "size", len(payload), "err", err)
		return false
	}

	addr := Address{ID: NodeID(msg.ID), Port: msg.Port}

	switch msg.Type {
	case wire.TypeHeartbeat:
		n.applyHeartbeat(addr, msg.Heartbeat)
	case wire.TypeJoinRequest:
		// The introducer learns about a joining node the same way it learns from
		// a heartbeat, which lets it start gossiping to the new node right away.
		if n.applyHeartbeat(addr, msg.Heartbeat) {
			level.Debug(n.logger).Log("msg", "join request accepted", "from", addr)
		}
	}

	return true
}

// applyHeartbeat merges what a message says about a member into the table.
// It returns true if the table has changed.
func (n *Node) applyHeartbeat(addr Address, heartbeat int64) bool {
	// Hearsay about ourselves is never trusted.
	if addr.ID == n.self.ID {
		return false
	}

	// Evicted members are never resurrected, no matter how late their
	// heartbeats arrive.
	if n.dead.Has(addr.ID) {
		return false
	}

	if m, ok := n.members[addr.ID]; ok {
		if heartbeat <= m.Heartbeat {
			return false
		}

		m.Heartbeat = heartbeat
		m.UpdatedAt = n.clock.Now()
		n.members[addr.ID] = m

		return true
	}

	n.members[addr.ID] = Member{
		Address:   addr,
		Heartbeat: heartbeat,
		UpdatedAt: n.clock.Now(),
	}

	n.events.MemberAdded(n.self, addr)

	level.Debug(n.logger).Log("msg", "member added", "member", addr, "heartbeat", heartbeat)

	return true
}
