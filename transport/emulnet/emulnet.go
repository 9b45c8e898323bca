// Package emulnet is an in-process network for running many nodes in a single
// program. Every address has its own FIFO buffer. Messages can be dropped at
// random to emulate an unreliable network, and nothing is ever reordered
// between a pair of addresses.
package emulnet

import (
	"fmt"
	"math/rand"
	"sync"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/hbgossip/internal/inbox"
	"github.com/maxpoletaev/hbgossip/membership"
	"github.com/maxpoletaev/hbgossip/transport"
)

type Config struct {
	// Seed initializes the random source used to decide which messages are dropped.
	Seed int64

	// DropRate is the probability in [0, 1] of a message being lost.
	DropRate float64

	// BufferSize is the maximum number of undelivered messages per address.
	// When exceeded, the oldest message is dropped. Zero means unbounded.
	BufferSize int

	// MaxPayloadSize rejects larger payloads with transport.ErrMaxSizeExceeded.
	// Zero disables the check.
	MaxPayloadSize int

	Logger kitlog.Logger
}

func DefaultConfig() Config {
	return Config{
		Seed:           1,
		BufferSize:     30000,
		MaxPayloadSize: 1500,
		Logger:         kitlog.NewNopLogger(),
	}
}

// Stats are per-address message counters.
type Stats struct {
	Sent     uint64
	Received uint64
	Dropped  uint64
}

// Network is the emulated network. It is safe for concurrent use.
type Network struct {
	mut        sync.Mutex
	rnd        *rand.Rand
	dropRate   float64
	bufferSize int
	maxPayload int
	buffers    map[membership.Address]*inbox.Queue
	stats      map[membership.Address]*Stats
	closed     bool
	logger     kitlog.Logger
}

var _ membership.Transport = (*Network)(nil)

func New(conf Config) *Network {
	if conf.Logger == nil {
		conf.Logger = kitlog.NewNopLogger()
	}

	return &Network{
		rnd:        rand.New(rand.NewSource(conf.Seed)),
		dropRate:   conf.DropRate,
		bufferSize: conf.BufferSize,
		maxPayload: conf.MaxPayloadSize,
		buffers:    make(map[membership.Address]*inbox.Queue),
		stats:      make(map[membership.Address]*Stats),
		logger:     conf.Logger,
	}
}

// SetDropRate changes the probability of a message being lost. It is used by
// simulations to open and close a lossy window.
func (n *Network) SetDropRate(rate float64) {
	n.mut.Lock()
	n.dropRate = rate
	n.mut.Unlock()
}

func (n *Network) statsFor(addr membership.Address) *Stats {
	s, ok := n.stats[addr]
	if !ok {
		s = &Stats{}
		n.stats[addr] = s
	}

	return s
}

func (n *Network) bufferFor(addr membership.Address) *inbox.Queue {
	q, ok := n.buffers[addr]
	if !ok {
		q = inbox.New(n.bufferSize)
		n.buffers[addr] = q
	}

	return q
}

// Send copies the payload into the destination buffer, unless the message is
// picked to be dropped. A dropped message is not an error, just like a lost
// datagram is not.
func (n *Network) Send(from, to membership.Address, payload []byte) error {
	n.mut.Lock()
	defer n.mut.Unlock()

	if n.closed {
		return transport.ErrClosed
	}

	if n.maxPayload > 0 && len(payload) > n.maxPayload {
		return fmt.Errorf("%w: %d bytes", transport.ErrMaxSizeExceeded, len(payload))
	}

	stats := n.statsFor(from)

	if n.dropRate > 0 && n.rnd.Float64() < n.dropRate {
		stats.Dropped++
		level.Debug(n.logger).Log("msg", "message dropped", "from", from, "to", to)

		return nil
	}

	buf := make([]byte, len(payload))
	copy(buf, payload)

	n.bufferFor(to).Push(buf)
	stats.Sent++

	return nil
}

// Drain passes the messages buffered for addr to fn in the order they were sent.
func (n *Network) Drain(addr membership.Address, fn func([]byte)) (int, error) {
	n.mut.Lock()

	if n.closed {
		n.mut.Unlock()
		return 0, transport.ErrClosed
	}

	q := n.bufferFor(addr)
	n.mut.Unlock()

	count := q.Drain(fn)

	n.mut.Lock()
	n.statsFor(addr).Received += uint64(count)
	n.mut.Unlock()

	return count, nil
}

// Pending returns the number of undelivered messages for addr.
func (n *Network) Pending(addr membership.Address) int {
	n.mut.Lock()
	defer n.mut.Unlock()

	if q, ok := n.buffers[addr]; ok {
		return q.Len()
	}

	return 0
}

// Stats returns the counters of the given address.
func (n *Network) Stats(addr membership.Address) Stats {
	n.mut.Lock()
	defer n.mut.Unlock()

	if s, ok := n.stats[addr]; ok {
		return *s
	}

	return Stats{}
}

// Close shuts the network down. All further calls fail with transport.ErrClosed.
func (n *Network) Close() error {
	n.mut.Lock()
	defer n.mut.Unlock()

	if n.closed {
		return transport.ErrClosed
	}

	n.closed = true
	n.buffers = make(map[membership.Address]*inbox.Queue)

	return nil
}
