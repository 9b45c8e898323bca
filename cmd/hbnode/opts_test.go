package main

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpoletaev/hbgossip/membership"
	"github.com/maxpoletaev/hbgossip/transport/udp"
)

func TestParsePeers(t *testing.T) {
	peers, err := parsePeers("1=10.0.0.1:7001, 2=10.0.0.2:7002,")
	require.NoError(t, err)

	assert.Equal(t, udp.StaticResolver{
		1: netip.MustParseAddrPort("10.0.0.1:7001"),
		2: netip.MustParseAddrPort("10.0.0.2:7002"),
	}, peers)

	ap, err := peers.Resolve(membership.Address{ID: 2})
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddrPort("10.0.0.2:7002"), ap)
}

func TestParsePeers_Errors(t *testing.T) {
	for _, peers := range []string{"1", "x=10.0.0.1:7001", "1=10.0.0.1", "1=host:7001"} {
		_, err := parsePeers(peers)
		assert.Error(t, err, peers)
	}
}
