package membership

import "time"

//go:generate mockgen -source=facilities.go -destination=facilities_mock_test.go -package=membership

// Transport is an unreliable point-to-point network. Messages may be lost or
// duplicated, but are not reordered between a pair of addresses.
type Transport interface {
	// Send delivers the payload to the destination. The transport must not keep
	// a reference to the payload after the call returns.
	Send(from, to Address, payload []byte) error

	// Drain passes every message currently waiting for addr to fn and returns
	// the number of messages delivered.
	Drain(addr Address, fn func([]byte)) (int, error)
}

// Clock is the time source used to stamp membership entries.
type Clock interface {
	Now() time.Time
}

// EventLog records membership changes as seen by a node.
type EventLog interface {
	MemberAdded(self, added Address)
	MemberRemoved(self, removed Address)
}

// TickObserver is notified at the end of every completed tick.
type TickObserver interface {
	TickCompleted(self Address, stats TickStats)
}

type nopEventLog struct{}

func (nopEventLog) MemberAdded(Address, Address)   {}
func (nopEventLog) MemberRemoved(Address, Address) {}

type nopObserver struct{}

func (nopObserver) TickCompleted(Address, TickStats) {}
