package membership

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/twmb/murmur3"

	"github.com/maxpoletaev/hbgossip/internal/generic"
	"github.com/maxpoletaev/hbgossip/internal/inbox"
	"github.com/maxpoletaev/hbgossip/internal/set"
	"github.com/maxpoletaev/hbgossip/transport"
)

var (
	ErrJoinFailed = errors.New("failed to join the group")
	ErrNodeFailed = errors.New("node has failed")
)

// Node is a single participant of the group. It owns its membership table and
// dead set exclusively; the only way other nodes affect them is through messages.
//
// Node is not safe for concurrent use. Start, Receive and Tick must be called
// from one goroutine, and a tick must complete before the next one begins.
// Several nodes may run concurrently in the same process since they share
// nothing.
type Node struct {
	self      Address
	heartbeat int64
	inGroup   bool
	failed    bool
	stopped   bool

	members map[NodeID]Member
	dead    set.Set[NodeID]
	inbox   *inbox.Queue

	// inboxDropped is the inbox overflow count already reported in stats.
	inboxDropped uint64

	transport Transport
	clock     Clock
	events    EventLog
	observer  TickObserver
	logger    kitlog.Logger
	rnd       *rand.Rand

	failTimeout    int64
	gossipFanout   int
	joinRetryTicks int
	introducer     Address
	sinceJoin      int

	stats Stats
}

// NewNode creates a node that is not part of any group yet. Call Start to join.
func NewNode(conf Config) (*Node, error) {
	conf.setDefaults()

	if err := conf.validate(); err != nil {
		return nil, err
	}

	seed := int64(murmur3.Sum64(conf.Address.Bytes()))

	return &Node{
		self:           conf.Address,
		members:        make(map[NodeID]Member),
		dead:           set.New[NodeID](),
		inbox:          inbox.New(conf.InboxSize),
		transport:      conf.Transport,
		clock:          conf.Clock,
		events:         conf.EventLog,
		observer:       conf.Observer,
		logger:         kitlog.With(conf.Logger, "node", conf.Address),
		rnd:            rand.New(rand.NewSource(seed)),
		failTimeout:    conf.FailTimeout,
		gossipFanout:   conf.GossipFanout,
		joinRetryTicks: conf.JoinRetryTicks,
	}, nil
}

// Self returns the address of the node.
func (n *Node) Self() Address {
	return n.self
}

// Heartbeat returns the current value of the node's own heartbeat counter.
func (n *Node) Heartbeat() int64 {
	return n.heartbeat
}

// InGroup reports whether the node has completed the join.
func (n *Node) InGroup() bool {
	return n.inGroup
}

// Failed reports whether the node has crashed or lost its transport.
func (n *Node) Failed() bool {
	return n.failed
}

// Status returns the lifecycle status of the node.
func (n *Node) Status() Status {
	switch {
	case n.stopped:
		return StatusStopped
	case n.failed:
		return StatusFailed
	case n.inGroup:
		return StatusJoined
	default:
		return StatusIdle
	}
}

// Members returns the live entries of the membership table ordered by id. The
// node itself is never part of the list.
func (n *Node) Members() []Member {
	return generic.SortedValues(n.members)
}

// Member returns the table entry for the given id, if there is one.
func (n *Node) Member(id NodeID) (Member, bool) {
	m, ok := n.members[id]
	return m, ok
}

// IsDead reports whether the id has been evicted by this node.
func (n *Node) IsDead(id NodeID) bool {
	return n.dead.Has(id)
}

// DeadMembers returns the evicted ids in ascending order.
func (n *Node) DeadMembers() []NodeID {
	return n.dead.Values()
}

// Stats returns the counters accumulated since the node was created.
func (n *Node) Stats() Stats {
	return n.stats
}

// ViewHash returns a digest of the set of ids the node considers alive,
// including itself. Two nodes with the same hash agree on the group.
func (n *Node) ViewHash() uint64 {
	ids := generic.SortedKeys(n.members)
	buf := make([]byte, 0, 4*(len(ids)+1))
	self := false

	for _, id := range ids {
		if !self && id > n.self.ID {
			buf = binary.BigEndian.AppendUint32(buf, uint32(n.self.ID))
			self = true
		}

		buf = binary.BigEndian.AppendUint32(buf, uint32(id))
	}

	if !self {
		buf = binary.BigEndian.AppendUint32(buf, uint32(n.self.ID))
	}

	return murmur3.Sum64(buf)
}

// Receive moves the messages waiting in the transport into the node's inbox,
// where they stay until the next tick.
func (n *Node) Receive() (int, error) {
	if n.failed || n.stopped {
		return 0, nil
	}

	count, err := n.transport.Drain(n.self, n.inbox.Push)
	if err != nil {
		if errors.Is(err, transport.ErrClosed) {
			n.markFailed(err)
		}

		return count, fmt.Errorf("receive: %w", err)
	}

	return count, nil
}

// Tick runs one round of the protocol: the inbox is drained and dispatched,
// then, once the node is in the group, stale members are evicted and the
// heartbeats are pushed to the peers. A failed or stopped node does nothing.
//
// Protocol problems such as malformed messages or lost sends never make Tick
// fail. An error is returned only if the transport has been closed, in which
// case the node is considered failed.
func (n *Node) Tick() error {
	if n.failed || n.stopped {
		return nil
	}

	var ts TickStats

	ts.Received, ts.Malformed = n.drainInbox()
	ts.Dropped = n.takeInboxDropped()

	if n.inGroup {
		ts.Evicted = n.detectFailures()

		sent, failed, err := n.disseminate()
		ts.Sent, ts.SendFailed = sent, failed

		if err != nil {
			n.stats.add(ts)
			n.markFailed(err)

			return fmt.Errorf("disseminate: %w", err)
		}

		n.retryJoin()
	}

	ts.Members = len(n.members)
	ts.Heartbeat = n.heartbeat

	n.stats.add(ts)
	n.observer.TickCompleted(n.self, ts)

	return nil
}

// Fail simulates a crash. The node stops sending and receiving messages, and
// its heartbeat stops advancing, so other members will eventually evict it.
func (n *Node) Fail() {
	n.markFailed(nil)
}

// Stop tears the node down. The membership table is discarded; the dead set
// is kept so that inspecting a stopped node still shows whom it evicted.
func (n *Node) Stop() {
	if n.stopped {
		return
	}

	n.stopped = true
	n.inGroup = false
	n.members = make(map[NodeID]Member)
	n.inbox.Drain(func([]byte) {})

	level.Info(n.logger).Log("msg", "node stopped")
}

func (n *Node) markFailed(err error) {
	if n.failed {
		return
	}

	n.failed = true

	level.Warn(n.logger).Log("msg", "node failed", "heartbeat", n.heartbeat, "err", err)
}
