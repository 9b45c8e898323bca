package main

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/maxpoletaev/hbgossip/membership"
	"github.com/maxpoletaev/hbgossip/transport/udp"
)

var opts struct {
	Node struct {
		ID         uint32 `long:"id" env:"ID" required:"true" description:"unique node id"`
		Port       uint16 `long:"port" env:"PORT" default:"0" description:"port part of the node address"`
		Introducer uint32 `long:"introducer" env:"INTRODUCER" default:"1" description:"id of the node to join through"`
	} `group:"node" namespace:"node" env-namespace:"NODE"`

	Net struct {
		BindAddr string `long:"bind-addr" env:"BIND_ADDR" description:"udp address to listen on (derived from peers when empty)"`
		BasePort uint16 `long:"base-port" env:"BASE_PORT" default:"7000" description:"node N listens on 127.0.0.1:base-port+N when no peers are given"`
		Peers    string `long:"peers" env:"PEERS" description:"comma-separated list of id=host:port pairs"`
	} `group:"net" namespace:"net" env-namespace:"NET"`

	Protocol struct {
		TickInterval   int   `long:"tick-interval" env:"TICK_INTERVAL" default:"500" description:"protocol round interval (ms)"`
		FailTimeout    int64 `long:"fail-timeout" env:"FAIL_TIMEOUT" default:"40" description:"number of rounds a member may stay silent"`
		GossipFanout   int   `long:"gossip-fanout" env:"GOSSIP_FANOUT" default:"0" description:"number of members gossiped to per round (0 for all)"`
		JoinRetryTicks int   `long:"join-retry-ticks" env:"JOIN_RETRY_TICKS" default:"10" description:"re-send join request after this many rounds alone (0 to disable)"`
	} `group:"protocol" namespace:"protocol" env-namespace:"PROTOCOL"`

	Admin struct {
		GRPCBindAddr    string `long:"grpc-bind-addr" env:"GRPC_BIND_ADDR" default:":9100" description:"address to bind grpc health server"`
		MetricsBindAddr string `long:"metrics-bind-addr" env:"METRICS_BIND_ADDR" default:":9101" description:"address to bind prometheus metrics endpoint"`
	} `group:"admin" namespace:"admin" env-namespace:"ADMIN"`

	Verbose bool `long:"verbose" description:"verbose mode" env:"VERBOSE"`
}

// parsePeers parses a list like "1=10.0.0.1:7001, 2=10.0.0.2:7001".
func parsePeers(peers string) (udp.StaticResolver, error) {
	res := make(udp.StaticResolver)

	for _, pair := range strings.Split(peers, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		idStr, addrStr, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid peer %q: expected id=host:port", pair)
		}

		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid peer id %q: %w", idStr, err)
		}

		addr, err := netip.ParseAddrPort(addrStr)
		if err != nil {
			return nil, fmt.Errorf("invalid peer address %q: %w", addrStr, err)
		}

		res[membership.NodeID(id)] = addr
	}

	return res, nil
}
