package membership

import (
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/hbgossip/internal/generic"
)

// detectFailures evicts every member whose heartbeat lags behind the local
// counter by more than the fail timeout. Evicted ids go to the dead set, which
// makes a repeated scan a no-op. Returns the number of evicted members.
func (n *Node) detectFailures() int {
	evicted := 0

	for _, id := range generic.SortedKeys(n.members) {
		m := n.members[id]

		if n.heartbeat-m.Heartbeat <= n.failTimeout || n.dead.Has(id) {
			continue
		}

		delete(n.members, id)
		n.dead.Add(id)
		evicted++

		n.events.MemberRemoved(n.self, m.Address)

		level.Info(n.logger).Log(
			"msg", "member removed",
			"member", m.Address,
			"last_heartbeat", m.Heartbeat,
			"own_heartbeat", n.heartbeat,
		)
	}

	return evicted
}
