// Package udp runs the membership protocol over UDP datagrams. Each datagram
// holds exactly one protocol message wrapped into a small envelope.
package udp

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/hbgossip/internal/inbox"
	"github.com/maxpoletaev/hbgossip/membership"
	"github.com/maxpoletaev/hbgossip/transport"
)

const (
	maxPacketSize     = 1500 // implied by MTU
	receiveBufferSize = 1 * 1024 * 1024
)

var ErrUnresolvable = errors.New("unresolvable address")

type packet struct {
	len  int
	body []byte
}

func (p *packet) Body() []byte {
	return p.body[:p.len]
}

type Config struct {
	// ListenAddr is the local socket address, such as "127.0.0.1:7001".
	ListenAddr string

	// Resolver maps destination nodes to their sockets. Required.
	Resolver Resolver

	// InboxSize is the maximum number of undelivered messages per local node.
	InboxSize int

	Logger kitlog.Logger
}

func DefaultConfig() Config {
	return Config{
		InboxSize: 4096,
		Logger:    kitlog.NewNopLogger(),
	}
}

// Transport sends and receives membership messages through a single UDP
// socket. A background goroutine reads datagrams as soon as they arrive and
// buffers them per destination node until they are drained. Datagrams are only
// accepted for nodes that have been registered or drained at least once.
type Transport struct {
	conn      *net.UDPConn
	pool      *sync.Pool
	resolver  Resolver
	logger    kitlog.Logger
	inboxSize int

	mut     sync.Mutex
	inboxes map[membership.Address]*inbox.Queue

	done   chan struct{}
	closed int32
}

var _ membership.Transport = (*Transport)(nil)

// Listen opens the socket and starts receiving datagrams.
func Listen(conf Config) (*Transport, error) {
	if conf.Resolver == nil {
		return nil, errors.New("resolver is required")
	}

	if conf.Logger == nil {
		conf.Logger = kitlog.NewNopLogger()
	}

	addr, err := net.ResolveUDPAddr("udp", conf.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve listen address %q: %w", conf.ListenAddr, err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen udp port on %s: %w", addr, err)
	}

	// Set system buffer to larger size to reduce the number of packet drops
	// when the ticks are too slow to keep up with the incoming message rate.
	if err := conn.SetReadBuffer(receiveBufferSize); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to alter udp read buffer size: %w", err)
	}

	t := &Transport{
		conn:      conn,
		resolver:  conf.Resolver,
		logger:    conf.Logger,
		inboxSize: conf.InboxSize,
		inboxes:   make(map[membership.Address]*inbox.Queue),
		done:      make(chan struct{}),
		pool: &sync.Pool{
			New: func() any {
				return &packet{
					body: make([]byte, maxPacketSize),
				}
			},
		},
	}

	go t.consume()

	return t, nil
}

// LocalAddr returns the address the socket is bound to.
func (t *Transport) LocalAddr() netip.AddrPort {
	ap := t.conn.LocalAddr().(*net.UDPAddr).AddrPort()
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}

// Register makes the transport accept datagrams addressed to addr. Draining
// an address registers it as well.
func (t *Transport) Register(addr membership.Address) {
	t.inboxFor(addr)
}

func (t *Transport) lookupInbox(addr membership.Address) (*inbox.Queue, bool) {
	t.mut.Lock()
	defer t.mut.Unlock()

	q, ok := t.inboxes[addr]

	return q, ok
}

func (t *Transport) inboxFor(addr membership.Address) *inbox.Queue {
	t.mut.Lock()
	defer t.mut.Unlock()

	q, ok := t.inboxes[addr]
	if !ok {
		q = inbox.New(t.inboxSize)
		t.inboxes[addr] = q
	}

	return q
}

func (t *Transport) consume() {
	const (
		initialDelay = 30 * time.Millisecond
		maxDelay     = 10 * time.Second
	)

	defer close(t.done)

	delay := initialDelay

	for {
		pkt := t.pool.Get().(*packet)

		n, from, err := t.conn.ReadFromUDPAddrPort(pkt.body)
		if err != nil {
			t.pool.Put(pkt)

			if atomic.LoadInt32(&t.closed) == 1 {
				return
			}

			level.Error(t.logger).Log("msg", "failed to read from udp", "err", err)
			time.Sleep(delay)

			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}

			continue
		}

		delay = initialDelay
		pkt.len = n

		env, err := parseEnvelope(pkt.Body())
		t.pool.Put(pkt)

		if err != nil {
			level.Debug(t.logger).Log("msg", "dropped malformed packet", "from", from, "err", err)
			continue
		}

		q, ok := t.lookupInbox(env.to)
		if !ok {
			level.Debug(t.logger).Log("msg", "dropped packet for unknown node", "from", env.from, "to", env.to)
			continue
		}

		q.Push(env.payload)
	}
}

// Send wraps the payload into an envelope and writes it to the socket of the
// destination node. Delivery is not confirmed in any way.
func (t *Transport) Send(from, to membership.Address, payload []byte) error {
	if atomic.LoadInt32(&t.closed) == 1 {
		return transport.ErrClosed
	}

	dst, err := t.resolver.Resolve(to)
	if err != nil {
		return fmt.Errorf("%w: %w", transport.ErrUnknownDestination, err)
	}

	pkt := t.pool.Get().(*packet)
	defer t.pool.Put(pkt)

	body := appendEnvelope(pkt.body[:0], envelope{from: from, to: to, payload: payload})
	if len(body) > maxPacketSize {
		return fmt.Errorf("%w: %d bytes", transport.ErrMaxSizeExceeded, len(body))
	}

	if _, err := t.conn.WriteToUDPAddrPort(body, dst); err != nil {
		if atomic.LoadInt32(&t.closed) == 1 {
			return transport.ErrClosed
		}

		return fmt.Errorf("failed to send message to udp socket: %w", err)
	}

	return nil
}

// Drain passes the messages received for addr to fn in arrival order.
func (t *Transport) Drain(addr membership.Address, fn func([]byte)) (int, error) {
	if atomic.LoadInt32(&t.closed) == 1 {
		return 0, transport.ErrClosed
	}

	return t.inboxFor(addr).Drain(fn), nil
}

// Pending returns the number of received messages waiting for addr.
func (t *Transport) Pending(addr membership.Address) int {
	if q, ok := t.lookupInbox(addr); ok {
		return q.Len()
	}

	return 0
}

// Close closes the socket and waits for the receiving goroutine to exit.
func (t *Transport) Close() error {
	if !atomic.CompareAndSwapInt32(&t.closed, 0, 1) {
		return transport.ErrClosed
	}

	if err := t.conn.Close(); err != nil {
		return err
	}

	<-t.done

	return nil
}
