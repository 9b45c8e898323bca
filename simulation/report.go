package simulation

import (
	"errors"
	"fmt"

	"github.com/maxpoletaev/hbgossip/eventlog"
	"github.com/maxpoletaev/hbgossip/internal/multierror"
	"github.com/maxpoletaev/hbgossip/membership"
)

var (
	ErrMissingJoin     = errors.New("missing join event")
	ErrMissingRemoval  = errors.New("missing removal event")
	ErrDuplicateEvent  = errors.New("duplicate event")
	ErrLiveNodeRemoved = errors.New("live node removed")
)

// NodeReport is the final state of a single node.
type NodeReport struct {
	Address   membership.Address
	Status    membership.Status
	Started   bool
	Heartbeat int64
	Members   []membership.NodeID
	Dead      []membership.NodeID
	ViewHash  uint64
	Stats     membership.Stats
}

// Report is the outcome of a run.
type Report struct {
	Config Config
	Nodes  []NodeReport
	Failed []membership.Address
	Events []eventlog.Event

	// Converged is set when all live nodes ended up with the same view of
	// the group.
	Converged bool
}

func (r *runner) report() *Report {
	rep := &Report{
		Config: r.conf,
		Events: r.events.Events(),
	}

	var hash uint64

	rep.Converged = true
	live := 0

	for i, node := range r.nodes {
		members := node.Members()
		ids := make([]membership.NodeID, 0, len(members))

		for _, m := range members {
			ids = append(ids, m.ID)
		}

		nr := NodeReport{
			Address:   node.Self(),
			Status:    node.Status(),
			Started:   r.started[i],
			Heartbeat: node.Heartbeat(),
			Members:   ids,
			Dead:      node.DeadMembers(),
			ViewHash:  node.ViewHash(),
			Stats:     node.Stats(),
		}

		rep.Nodes = append(rep.Nodes, nr)

		if node.Failed() {
			rep.Failed = append(rep.Failed, node.Self())
			continue
		}

		if !nr.Started {
			continue
		}

		if live > 0 && nr.ViewHash != hash {
			rep.Converged = false
		}

		hash = nr.ViewHash
		live++
	}

	return rep
}

// Live returns the nodes that were started and have not failed.
func (r *Report) Live() []membership.Address {
	var addrs []membership.Address

	for _, n := range r.Nodes {
		if n.Started && n.Status != membership.StatusFailed {
			addrs = append(addrs, n.Address)
		}
	}

	return addrs
}

// Check grades the run. Every live node must have recorded exactly one join
// for each other node that took part in the group, and exactly one removal for
// each crashed node. Live nodes must never be removed, unless the network was
// losing messages, in which case a false positive is tolerated.
func (r *Report) Check() error {
	type key struct {
		kind    eventlog.Kind
		self    membership.Address
		subject membership.Address
	}

	counts := make(map[key]int, len(r.Events))
	for _, ev := range r.Events {
		counts[key{ev.Kind, ev.Self, ev.Subject}]++
	}

	failed := make(map[membership.Address]bool, len(r.Failed))
	for _, addr := range r.Failed {
		failed[addr] = true
	}

	errs := multierror.New[membership.Address]()

	for _, self := range r.Live() {
		var problems []error

		for _, other := range r.Nodes {
			if !other.Started || other.Address == self {
				continue
			}

			joins := counts[key{eventlog.KindAdded, self, other.Address}]
			removals := counts[key{eventlog.KindRemoved, self, other.Address}]

			switch {
			case joins == 0:
				problems = append(problems, fmt.Errorf("%w: %s", ErrMissingJoin, other.Address))
			case joins > 1:
				problems = append(problems, fmt.Errorf("%w: %s joined %d times", ErrDuplicateEvent, other.Address, joins))
			}

			if failed[other.Address] {
				switch {
				case removals == 0:
					problems = append(problems, fmt.Errorf("%w: %s", ErrMissingRemoval, other.Address))
				case removals > 1:
					problems = append(problems, fmt.Errorf("%w: %s removed %d times", ErrDuplicateEvent, other.Address, removals))
				}
			} else if removals > 0 && !r.Config.Drop.Enabled {
				problems = append(problems, fmt.Errorf("%w: %s", ErrLiveNodeRemoved, other.Address))
			}
		}

		if len(problems) > 0 {
			errs.Add(self, errors.Join(problems...))
		}
	}

	return errs.Ret()
}
