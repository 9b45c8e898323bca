package udp

import (
	"fmt"
	"net/netip"

	"github.com/maxpoletaev/hbgossip/membership"
)

// Resolver maps a node address to the socket the node listens on.
type Resolver interface {
	Resolve(addr membership.Address) (netip.AddrPort, error)
}

type ResolverFunc func(addr membership.Address) (netip.AddrPort, error)

func (f ResolverFunc) Resolve(addr membership.Address) (netip.AddrPort, error) {
	return f(addr)
}

// LoopbackResolver places every node on the loopback interface, node N
// listening on basePort+N.
func LoopbackResolver(basePort uint16) ResolverFunc {
	return func(addr membership.Address) (netip.AddrPort, error) {
		port := uint64(basePort) + uint64(addr.ID)
		if port > 0xffff {
			return netip.AddrPort{}, fmt.Errorf("%w: port for %s is out of range", ErrUnresolvable, addr)
		}

		return netip.AddrPortFrom(netip.AddrFrom4([4]byte{127, 0, 0, 1}), uint16(port)), nil
	}
}

// StaticResolver resolves addresses from a fixed table.
type StaticResolver map[membership.NodeID]netip.AddrPort

func (r StaticResolver) Resolve(addr membership.Address) (netip.AddrPort, error) {
	ap, ok := r[addr.ID]
	if !ok {
		return netip.AddrPort{}, fmt.Errorf("%w: %s", ErrUnresolvable, addr)
	}

	return ap, nil
}
