// Package supervisor composes the daemon (spec.md §4.8, C8): from an
// already resolved configuration and interface inventory, construct the
// shared maps and both emitters, start the receiver and HELLO emitter as
// background activities, expose metrics, and idle until the context is
// cancelled.
package supervisor

import (
	"context"
	"time"

	"github.com/malujoro/lsrouter/internal/config"
	"github.com/malujoro/lsrouter/internal/costs"
	"github.com/malujoro/lsrouter/internal/hello"
	"github.com/malujoro/lsrouter/internal/ifaces"
	"github.com/malujoro/lsrouter/internal/logger"
	"github.com/malujoro/lsrouter/internal/lsaflood"
	"github.com/malujoro/lsrouter/internal/lsdb"
	"github.com/malujoro/lsrouter/internal/metrics"
	"github.com/malujoro/lsrouter/internal/neighbor"
	"github.com/malujoro/lsrouter/internal/routeinstall"
	"github.com/malujoro/lsrouter/internal/transport"
)

// Supervisor owns every long-running activity of the daemon.
type Supervisor struct {
	cfg        *config.Config
	interfaces []ifaces.Interface

	socket      transport.Socket
	receiver    *transport.Receiver
	helloEmit   *hello.Emitter
	lsaEmit     *lsaflood.Emitter
	manager     *neighbor.Manager
	db          *lsdb.LSDB
	metricsAddr string

	stopHello chan struct{}
	stopLSA   chan struct{}
}

// New builds a Supervisor from cfg and the local interface inventory.
//
// Construction order is Neighbor Manager, then LSDB (which reads the
// manager's table), then LSA emitter. The Neighbor Manager's "start the LSA
// emitter on first confirmation" callback is a closure over the
// not-yet-assigned lsaEmit variable, which Go permits since the closure only
// runs long after construction completes; this avoids needing a mutable
// setter on Manager just to break the cycle.
func New(cfg *config.Config, interfaces []ifaces.Interface) *Supervisor {
	resolver := costs.NewResolver(cfg.RouterID, lookupEnv)
	installer := routeinstall.NewCommandInstaller(cfg.RouteCommand)
	socket := transport.NewUDPSocket(cfg.BufferBytes)

	stopLSA := make(chan struct{})

	var lsaEmit *lsaflood.Emitter
	manager := neighbor.NewManager(cfg.RouterID, resolver, func() {
		logger.Infof("first bidirectional confirmation: starting LSA emitter")
		go lsaEmit.Run(context.Background(), cfg.LSAPeriod, stopLSA)
	})

	db := lsdb.New(cfg.RouterID, manager.Table(), installer)
	lsaEmit = lsaflood.NewEmitter(cfg.RouterID, cfg.Port, interfaces, manager.Table(), db, socket, wallClock)

	receiver := transport.NewReceiver(cfg.RouterID, socket, manager, db, lsaEmit)
	helloEmit := hello.NewEmitter(cfg.RouterID, cfg.Port, interfaces, manager.Table(), socket, wallClock)

	return &Supervisor{
		cfg:         cfg,
		interfaces:  interfaces,
		socket:      socket,
		receiver:    receiver,
		helloEmit:   helloEmit,
		lsaEmit:     lsaEmit,
		manager:     manager,
		db:          db,
		metricsAddr: cfg.MetricsAddr,
		stopHello:   make(chan struct{}),
		stopLSA:     stopLSA,
	}
}

// Run opens the socket, starts every background activity, and blocks until
// ctx is cancelled (spec.md §4.8: "enter an idle wait; the process runs
// until externally terminated").
func (s *Supervisor) Run(ctx context.Context) error {
	addr, err := s.socket.Open(s.cfg.Port)
	if err != nil {
		return err
	}
	logger.Infof("router %s listening on %s", s.cfg.RouterID, addr)

	go s.receiver.Run(ctx)
	go s.helloEmit.Run(s.cfg.HelloPeriod, s.stopHello)
	go func() {
		if err := metrics.Serve(ctx, s.metricsAddr); err != nil {
			logger.Warnf("metrics server stopped: %v", err)
		}
	}()

	go s.reportLoop(ctx)

	<-ctx.Done()
	close(s.stopHello)
	close(s.stopLSA)
	return s.socket.Close()
}

// reportLoop periodically pushes neighbor-count gauges so they reflect
// reality even between LSA/HELLO ticks.
func (s *Supervisor) reportLoop(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.SetNeighborCounts(len(s.manager.Table().DetectedIDs()), len(s.manager.Table().ConfirmedSnapshot()))
		}
	}
}
