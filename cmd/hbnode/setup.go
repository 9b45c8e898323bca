package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/maxpoletaev/hbgossip/eventlog"
	"github.com/maxpoletaev/hbgossip/membership"
	"github.com/maxpoletaev/hbgossip/metrics"
	"github.com/maxpoletaev/hbgossip/transport/udp"
)

type shutdownFunc func(ctx context.Context) error

var noopShutdown = func(ctx context.Context) error { return nil }

func setupLogger() (kitlog.Logger, shutdownFunc) {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)

	if !opts.Verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	return logger, noopShutdown
}

func setupTransport(self membership.Address, logger kitlog.Logger) (*udp.Transport, shutdownFunc) {
	var resolver udp.Resolver = udp.LoopbackResolver(opts.Net.BasePort)

	if opts.Net.Peers != "" {
		peers, err := parsePeers(opts.Net.Peers)
		if err != nil {
			panic(fmt.Sprintf("failed to parse peers: %v", err))
		}

		resolver = peers
	}

	bindAddr := opts.Net.BindAddr

	if bindAddr == "" {
		ap, err := resolver.Resolve(self)
		if err != nil {
			panic(fmt.Sprintf("failed to resolve own address: %v", err))
		}

		bindAddr = ap.String()
	}

	conf := udp.DefaultConfig()
	conf.ListenAddr = bindAddr
	conf.Resolver = resolver
	conf.Logger = logger

	tr, err := udp.Listen(conf)
	if err != nil {
		panic(fmt.Sprintf("failed to start udp transport: %v", err))
	}

	tr.Register(self)

	level.Info(logger).Log("msg", "listening for gossip", "addr", tr.LocalAddr())

	shutdown := func(ctx context.Context) error {
		logger.Log("msg", "closing udp transport")

		if err := tr.Close(); err != nil {
			return fmt.Errorf("failed to close udp transport: %w", err)
		}

		return nil
	}

	return tr, shutdown
}

func setupNode(
	self membership.Address,
	tr membership.Transport,
	collector *metrics.Collector,
	logger kitlog.Logger,
) (*membership.Node, shutdownFunc) {
	events := eventlog.NewRecorder(eventlog.Config{
		Logger: logger,
	})

	conf := membership.DefaultConfig()
	conf.Address = self
	conf.Transport = tr
	conf.EventLog = eventlog.Tee(events, collector)
	conf.Observer = collector
	conf.Logger = logger
	conf.FailTimeout = opts.Protocol.FailTimeout
	conf.GossipFanout = opts.Protocol.GossipFanout
	conf.JoinRetryTicks = opts.Protocol.JoinRetryTicks

	node, err := membership.NewNode(conf)
	if err != nil {
		panic(fmt.Sprintf("failed to create node: %v", err))
	}

	shutdown := func(ctx context.Context) error {
		logger.Log("msg", "stopping node")
		node.Stop()

		return nil
	}

	return node, shutdown
}

func setupGRPCServer(wg *sync.WaitGroup, logger kitlog.Logger) (*health.Server, shutdownFunc) {
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	listener, err := net.Listen("tcp", opts.Admin.GRPCBindAddr)
	if err != nil {
		panic(fmt.Sprintf("failed to create GRPC listener: %v", err))
	}

	wg.Add(1)

	go func() {
		defer wg.Done()

		if err := grpcServer.Serve(listener); err != nil {
			level.Error(logger).Log("msg", "grpc server stopped", "err", err)
		}
	}()

	shutdown := func(ctx context.Context) error {
		logger.Log("msg", "shutting down GRPC server")
		healthServer.Shutdown()
		grpcServer.GracefulStop()

		return nil
	}

	return healthServer, shutdown
}

func setupMetricsServer(wg *sync.WaitGroup, collector *metrics.Collector, logger kitlog.Logger) shutdownFunc {
	if opts.Admin.MetricsBindAddr == "" {
		return noopShutdown
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	server := &http.Server{
		Addr:              opts.Admin.MetricsBindAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)

	go func() {
		defer wg.Done()

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			level.Error(logger).Log("msg", "metrics server stopped", "err", err)
		}
	}()

	shutdown := func(ctx context.Context) error {
		logger.Log("msg", "shutting down metrics server")

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown metrics server: %w", err)
		}

		return nil
	}

	return shutdown
}
