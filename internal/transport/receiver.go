package transport

import (
	"context"
	"errors"

	"github.com/malujoro/lsrouter/internal/costs"
	"github.com/malujoro/lsrouter/internal/lsdb"
	"github.com/malujoro/lsrouter/internal/logger"
	"github.com/malujoro/lsrouter/internal/neighbor"
	"github.com/malujoro/lsrouter/internal/wire"
)

// Flooder is the subset of the LSA emitter the receiver needs: forwarding an
// accepted LSA to every confirmed neighbor except the one it arrived from
// (spec.md §4.6's forward_except, exercised by scenario S6).
type Flooder interface {
	ForwardExcept(pkt *wire.LSA, senderIP string) error
}

// Receiver is the Packet Receiver (C4): decode, discard on error/unknown
// type/self-echo, dispatch HELLO and LSA to the Neighbor Manager and LSDB
// (spec.md §4.4).
type Receiver struct {
	selfID    string
	socket    Socket
	neighbors *neighbor.Manager
	db        *lsdb.LSDB
	flooder   Flooder
}

// NewReceiver builds a Receiver for selfID, reading packets from socket and
// dispatching to neighbors/db, flooding accepted LSAs via flooder.
func NewReceiver(selfID string, socket Socket, neighbors *neighbor.Manager, db *lsdb.LSDB, flooder Flooder) *Receiver {
	return &Receiver{
		selfID:    selfID,
		socket:    socket,
		neighbors: neighbors,
		db:        db,
		flooder:   flooder,
	}
}

// Run drains the socket's packet channel until it is closed or ctx is
// cancelled. It is meant to be run on its own goroutine (spec.md §5: the
// receiver is one of the daemon's parallel activities).
func (r *Receiver) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case pkt, ok := <-r.socket.Packets():
			if !ok {
				return
			}
			r.handle(ctx, pkt)
		}
	}
}

func (r *Receiver) handle(ctx context.Context, pkt *Packet) {
	decoded, err := wire.Decode(pkt.Data)
	if err != nil {
		logger.Debugf("discarding malformed datagram from %s: %v", pkt.Addr, err)
		return
	}

	switch v := decoded.(type) {
	case *wire.Hello:
		if v.RouterID == r.selfID {
			return // receivers always see their own broadcasts
		}
		if err := r.neighbors.ProcessHello(v, pkt.Addr.IP.String()); err != nil {
			if errors.Is(err, costs.ErrMissingCost) {
				// spec.md §4.2/§7: a missing link cost is configuration-fatal,
				// not a per-packet error to log and ignore.
				logger.Errorf("processing HELLO from %s: %v", v.RouterID, err)
			} else {
				logger.Warnf("processing HELLO from %s: %v", v.RouterID, err)
			}
		}
	case *wire.LSA:
		if v.RouterID == r.selfID {
			return
		}
		if accepted := r.db.Update(ctx, v); accepted && r.flooder != nil {
			if err := r.flooder.ForwardExcept(v, pkt.Addr.IP.String()); err != nil {
				logger.Warnf("forwarding LSA from %s: %v", v.RouterID, err)
			}
		}
	default:
		logger.Debugf("discarding datagram of unrecognized decoded type from %s", pkt.Addr)
	}
}
