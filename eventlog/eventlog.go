// Package eventlog records membership changes observed by the nodes. The
// recorded events are what a group run is judged by: every node must learn
// about every member that joined, and about every member that failed.
package eventlog

import (
	"fmt"
	"io"
	"sync"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/hbgossip/clock"
	"github.com/maxpoletaev/hbgossip/membership"
)

type Kind uint8

const (
	KindAdded Kind = iota + 1
	KindRemoved
)

func (k Kind) String() string {
	switch k {
	case KindAdded:
		return "joined"
	case KindRemoved:
		return "removed"
	default:
		return ""
	}
}

// Event is a single membership change as seen by Self.
type Event struct {
	Kind    Kind
	Self    membership.Address
	Subject membership.Address
	Time    time.Time
}

type Config struct {
	// Clock stamps the events. Defaults to the wall clock.
	Clock membership.Clock

	// Epoch is the moment event times in the text output are counted from.
	Epoch time.Time

	// Output receives one line per event, such as "Node 2:0 joined at time 5".
	// Optional.
	Output io.Writer

	Logger kitlog.Logger
}

// Recorder keeps every event in memory. It is safe for concurrent use, so a
// single recorder may be shared by nodes running on different goroutines.
type Recorder struct {
	mut    sync.RWMutex
	events []Event
	clock  membership.Clock
	epoch  time.Time
	output io.Writer
	logger kitlog.Logger
}

var _ membership.EventLog = (*Recorder)(nil)

func NewRecorder(conf Config) *Recorder {
	if conf.Clock == nil {
		conf.Clock = clock.System{}
	}

	if conf.Logger == nil {
		conf.Logger = kitlog.NewNopLogger()
	}

	return &Recorder{
		clock:  conf.Clock,
		epoch:  conf.Epoch,
		output: conf.Output,
		logger: conf.Logger,
	}
}

func (r *Recorder) MemberAdded(self, added membership.Address) {
	r.record(KindAdded, self, added)
}

func (r *Recorder) MemberRemoved(self, removed membership.Address) {
	r.record(KindRemoved, self, removed)
}

func (r *Recorder) record(kind Kind, self, subject membership.Address) {
	ev := Event{
		Kind:    kind,
		Self:    self,
		Subject: subject,
		Time:    r.clock.Now(),
	}

	r.mut.Lock()
	defer r.mut.Unlock()

	r.events = append(r.events, ev)

	level.Debug(r.logger).Log(
		"msg", "membership event",
		"event", kind,
		"node", self,
		"member", subject,
	)

	if r.output != nil {
		elapsed := int64(ev.Time.Sub(r.epoch) / time.Second)

		if _, err := fmt.Fprintf(r.output, "%s: Node %s %s at time %d\n", self, subject, kind, elapsed); err != nil {
			level.Warn(r.logger).Log("msg", "failed to write event", "err", err)
		}
	}
}

// Events returns a copy of all recorded events in the order they happened.
func (r *Recorder) Events() []Event {
	r.mut.RLock()
	defer r.mut.RUnlock()

	events := make([]Event, len(r.events))
	copy(events, r.events)

	return events
}

// Added returns the members the given node has learned about.
func (r *Recorder) Added(self membership.Address) []membership.Address {
	return r.subjects(KindAdded, self)
}

// Removed returns the members the given node has evicted.
func (r *Recorder) Removed(self membership.Address) []membership.Address {
	return r.subjects(KindRemoved, self)
}

// Count returns how many times self has recorded an event of the given kind
// about subject.
func (r *Recorder) Count(kind Kind, self, subject membership.Address) int {
	r.mut.RLock()
	defer r.mut.RUnlock()

	count := 0

	for _, ev := range r.events {
		if ev.Kind == kind && ev.Self == self && ev.Subject == subject {
			count++
		}
	}

	return count
}

func (r *Recorder) subjects(kind Kind, self membership.Address) []membership.Address {
	r.mut.RLock()
	defer r.mut.RUnlock()

	var addrs []membership.Address

	for _, ev := range r.events {
		if ev.Kind == kind && ev.Self == self {
			addrs = append(addrs, ev.Subject)
		}
	}

	return addrs
}
