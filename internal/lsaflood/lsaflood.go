// Package lsaflood implements the LSA Emitter / Flooder (spec.md §4.6, C6):
// periodic origination with a monotonically increasing sequence number,
// self-ingest before send, and the split-horizon-on-sender forwarding path
// for LSAs accepted by the receiver.
package lsaflood

import (
	"context"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/malujoro/lsrouter/internal/ifaces"
	"github.com/malujoro/lsrouter/internal/lsdb"
	"github.com/malujoro/lsrouter/internal/logger"
	"github.com/malujoro/lsrouter/internal/neighbor"
	"github.com/malujoro/lsrouter/internal/transport"
	"github.com/malujoro/lsrouter/internal/wire"
)

// Clock abstracts wall-clock timestamping so tests don't depend on real
// time.
type Clock func() float64

// Emitter originates this router's own LSAs and floods accepted ones from
// peers.
type Emitter struct {
	selfID     string
	port       int
	interfaces []ifaces.Interface
	neighbors  *neighbor.Table
	db         *lsdb.LSDB
	socket     transport.Socket
	now        Clock

	seqNum atomic.Int64
}

// NewEmitter builds an Emitter for selfID.
func NewEmitter(selfID string, port int, interfaces []ifaces.Interface, neighbors *neighbor.Table, db *lsdb.LSDB, socket transport.Socket, now Clock) *Emitter {
	return &Emitter{
		selfID:     selfID,
		port:       port,
		interfaces: interfaces,
		neighbors:  neighbors,
		db:         db,
		socket:     socket,
		now:        now,
	}
}

// Run originates one LSA immediately, then ticks every period until stop is
// closed, originating a fresh LSA each time (spec.md §4.6's origination
// loop). The immediate first origination matters for convergence time
// (spec.md §4.6's rationale): waiting a full period before the first LSA
// would needlessly delay every peer's view of this router.
func (e *Emitter) Run(ctx context.Context, period time.Duration, stop <-chan struct{}) {
	e.originate(ctx)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.originate(ctx)
		}
	}
}

// originate implements spec.md §4.6 steps 1-4: pre-increment the sequence
// number, build the LSA from the interface inventory and the current
// detected-neighbor snapshot, self-ingest it into the LSDB before sending,
// then send to every confirmed neighbor.
func (e *Emitter) originate(ctx context.Context) {
	seq := e.seqNum.Add(1)

	var addresses []string
	for _, iface := range e.interfaces {
		addresses = append(addresses, iface.Address)
	}

	pkt := wire.NewLSA(e.selfID, seq, addresses, e.neighbors.DetectedSnapshot(), e.now())

	e.db.Update(ctx, pkt)

	e.sendToConfirmed(pkt, "")
}

// ForwardExcept implements spec.md §4.6's forward_except: resend pkt, with
// its sequence number and timestamp unchanged, to every confirmed neighbor
// other than the one it arrived from. The datagram is re-encoded from pkt's
// decoded fields, so it is not byte-identical to the one received: key
// order may differ and top-level keys unknown to wire.LSA are not carried.
func (e *Emitter) ForwardExcept(pkt *wire.LSA, senderIP string) error {
	return e.sendToConfirmed(pkt, senderIP)
}

func (e *Emitter) sendToConfirmed(pkt *wire.LSA, exceptIP string) error {
	data, err := wire.Encode(pkt)
	if err != nil {
		logger.Warnf("encoding LSA for %s seq %d: %v", pkt.RouterID, pkt.SequenceNumber, err)
		return err
	}

	for neighborID, ip := range e.neighbors.ConfirmedSnapshot() {
		if ip == exceptIP {
			continue
		}

		addr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(ip, strconv.Itoa(e.port)))
		if err != nil {
			logger.Warnf("resolving confirmed neighbor %s at %s: %v", neighborID, ip, err)
			continue
		}

		if err := e.socket.SendTo(addr, data); err != nil {
			logger.Warnf("sending LSA to %s [%s]: %v", neighborID, ip, err)
			continue
		}
	}

	return nil
}
