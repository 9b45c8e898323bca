// Package transport holds what the network implementations share. Concrete
// transports live in the subpackages: emulnet is an in-process lossy network
// used by simulations and tests, udp sends datagrams over a real socket.
package transport

import "errors"

var (
	// ErrClosed is returned by every operation on a transport that has been closed.
	ErrClosed = errors.New("transport closed")

	// ErrMaxSizeExceeded is returned when a payload does not fit into a single datagram.
	ErrMaxSizeExceeded = errors.New("max payload size exceeded")

	// ErrUnknownDestination is returned when the destination address cannot be resolved.
	ErrUnknownDestination = errors.New("unknown destination")
)
