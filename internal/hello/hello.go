// Package hello implements the HELLO Emitter (spec.md §4.3, C3): every
// T_hello tick, broadcast a self-describing HELLO on each inter-router
// interface, carrying a live snapshot of detected neighbors.
package hello

import (
	"net"
	"strconv"
	"time"

	"github.com/malujoro/lsrouter/internal/ifaces"
	"github.com/malujoro/lsrouter/internal/logger"
	"github.com/malujoro/lsrouter/internal/neighbor"
	"github.com/malujoro/lsrouter/internal/transport"
	"github.com/malujoro/lsrouter/internal/wire"
)

// Clock abstracts wall-clock timestamping so tests don't depend on real
// time.
type Clock func() float64

// Emitter periodically broadcasts HELLOs.
type Emitter struct {
	selfID     string
	port       int
	interfaces []ifaces.Interface
	neighbors  *neighbor.Table
	socket     transport.Socket
	now        Clock
}

// NewEmitter builds an Emitter for selfID, broadcasting on port over the
// inter-router entries of interfaces.
func NewEmitter(selfID string, port int, interfaces []ifaces.Interface, neighbors *neighbor.Table, socket transport.Socket, now Clock) *Emitter {
	return &Emitter{
		selfID:     selfID,
		port:       port,
		interfaces: interfaces,
		neighbors:  neighbors,
		socket:     socket,
		now:        now,
	}
}

// Run sends one HELLO burst immediately, then ticks every period until stop
// is closed, sending one HELLO per inter-router interface each tick. Send
// failures are logged and the loop continues (spec.md §4.3: HELLOs are
// idempotent, so a dropped one is healed by the next tick). The immediate
// first send matters for convergence time (spec.md §4.6's rationale) —
// without it, neighbor discovery cannot even start until the first tick.
func (e *Emitter) Run(period time.Duration, stop <-chan struct{}) {
	e.tick()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *Emitter) tick() {
	known := e.neighbors.DetectedIDs()

	for _, iface := range e.interfaces {
		if iface.IsHostSubnet() {
			continue
		}

		pkt := wire.NewHello(e.selfID, iface.Address, known, e.now())
		data, err := wire.Encode(pkt)
		if err != nil {
			logger.Warnf("encoding HELLO: %v", err)
			continue
		}

		addr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(iface.Broadcast, strconv.Itoa(e.port)))
		if err != nil {
			logger.Warnf("resolving broadcast address %s: %v", iface.Broadcast, err)
			continue
		}

		if err := e.socket.SendTo(addr, data); err != nil {
			logger.Warnf("sending HELLO on %s: %v", iface.Address, err)
			continue
		}
	}
}
