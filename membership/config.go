package membership

import (
	"errors"
	"fmt"

	kitlog "github.com/go-kit/log"

	"github.com/maxpoletaev/hbgossip/clock"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Address is the address of the local node.
	Address Address

	// Transport delivers messages to other nodes. Required.
	Transport Transport

	// Clock stamps membership entries. Defaults to the wall clock.
	Clock Clock

	// EventLog receives member added and removed events.
	EventLog EventLog

	// Observer is notified after every tick. Optional.
	Observer TickObserver

	// Logger is a go-kit logger for debug messages and non-critical errors.
	Logger kitlog.Logger

	// FailTimeout is the number of own heartbeats a member may stay silent
	// before it is evicted. The comparison is made against the local heartbeat
	// counter rather than wall time, so detection speed only depends on gossip
	// progress.
	FailTimeout int64

	// GossipFanout limits the number of members heartbeats are pushed to on each
	// tick. Zero means every known member, which costs O(n²) messages per round.
	GossipFanout int

	// JoinRetryTicks makes a node that still knows no other members re-send its
	// join request every given number of ticks. Zero disables retries.
	JoinRetryTicks int

	// InboxSize is the maximum number of buffered messages between ticks.
	// When exceeded, the oldest messages are dropped. Zero means unbounded.
	InboxSize int
}

func DefaultConfig() Config {
	return Config{
		Clock:       clock.System{},
		EventLog:    nopEventLog{},
		Observer:    nopObserver{},
		Logger:      kitlog.NewNopLogger(),
		FailTimeout: 40,
		InboxSize:   4096,
	}
}

func (c *Config) validate() error {
	switch {
	case c.Transport == nil:
		return fmt.Errorf("%w: transport is required", ErrInvalidConfig)
	case c.FailTimeout <= 0:
		return fmt.Errorf("%w: fail timeout must be positive", ErrInvalidConfig)
	case c.GossipFanout < 0:
		return fmt.Errorf("%w: gossip fanout must not be negative", ErrInvalidConfig)
	case c.JoinRetryTicks < 0:
		return fmt.Errorf("%w: join retry ticks must not be negative", ErrInvalidConfig)
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.Clock == nil {
		c.Clock = clock.System{}
	}

	if c.EventLog == nil {
		c.EventLog = nopEventLog{}
	}

	if c.Observer == nil {
		c.Observer = nopObserver{}
	}

	if c.Logger == nil {
		c.Logger = kitlog.NewNopLogger()
	}
}
