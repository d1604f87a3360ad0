// Package lsdb implements the Link State Database (spec.md §4.7, C7): the
// per-originator store of the latest accepted LSA, the sequence-number
// freshness gate, placeholder seeding for routers known only by name,
// Dijkstra over the resulting graph, next-hop derivation, and route
// installation.
package lsdb

import (
	"context"
	"time"

	"github.com/malujoro/lsrouter/internal/assert"
	"github.com/malujoro/lsrouter/internal/logger"
	"github.com/malujoro/lsrouter/internal/metrics"
	"github.com/malujoro/lsrouter/internal/neighbor"
	"github.com/malujoro/lsrouter/internal/routeinstall"
	"github.com/malujoro/lsrouter/internal/wire"

	"sync"
)

// PlaceholderSeqNum is the sequence number a placeholder entry carries:
// "heard of by name only" (spec.md §3).
const PlaceholderSeqNum = -1

// Entry is one LSDB row: the latest accepted LSA content for one originator,
// or a placeholder (spec.md §3).
type Entry struct {
	SeqNum    int64
	Timestamp float64
	Addresses []string
	Links     map[string]int
}

// IsPlaceholder reports whether e is a "heard of by name only" entry.
func (e Entry) IsPlaceholder() bool {
	return e.SeqNum == PlaceholderSeqNum
}

func placeholder() Entry {
	return Entry{SeqNum: PlaceholderSeqNum, Links: map[string]int{}}
}

// LSDB is the replicated link-state database for one router.
type LSDB struct {
	mu   sync.Mutex
	self string

	entries      map[string]Entry
	routingTable map[string]string // destination id -> first-hop neighbor id

	neighbors *neighbor.Table
	installer routeinstall.Installer
}

// New builds an empty LSDB for router id self. neighbors supplies the
// confirmed-neighbor addresses used at route-install time; installer
// programs the kernel routes.
func New(self string, neighbors *neighbor.Table, installer routeinstall.Installer) *LSDB {
	return &LSDB{
		self:         self,
		entries:      make(map[string]Entry),
		routingTable: make(map[string]string),
		neighbors:    neighbors,
		installer:    installer,
	}
}

// Get returns the entry for routerID, if any.
func (l *LSDB) Get(routerID string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[routerID]
	return e, ok
}

// RoutingTable returns a copy of the current routing map.
func (l *LSDB) RoutingTable() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]string, len(l.routingTable))
	for k, v := range l.routingTable {
		out[k] = v
	}
	return out
}

// Size returns the number of LSDB entries (real and placeholder).
func (l *LSDB) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Update implements spec.md §4.7's update(pkt): the sequence-number gate,
// placeholder seeding, Dijkstra, next-hop derivation and route install. It
// returns true ("accepted") if pkt updated the database, false
// ("rejected") if it was stale or a replay.
//
// Update is called from both the receiver's activity (peer LSAs) and the
// LSA emitter's activity (self-ingest, spec.md §4.6 step 3), so it takes
// the LSDB's own mutex for its full duration — this is the one lock the
// concurrency model (spec.md §5) requires.
func (l *LSDB) Update(ctx context.Context, pkt *wire.LSA) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, exists := l.entries[pkt.RouterID]
	if exists && pkt.SequenceNumber <= existing.SeqNum {
		metrics.RecordLSAGate(false)
		return false
	}

	l.entries[pkt.RouterID] = Entry{
		SeqNum:    pkt.SequenceNumber,
		Timestamp: pkt.Timestamp,
		Addresses: pkt.Addresses,
		Links:     pkt.Links,
	}

	for neighborID := range pkt.Links {
		if _, known := l.entries[neighborID]; !known {
			l.entries[neighborID] = placeholder()
			logger.Debugf("LSDB: discovered new router %s by name only", neighborID)
		}
	}

	start := time.Now()
	distances, predecessors := dijkstra(l.entries, l.self)
	metrics.ObserveDijkstra(time.Since(start))

	l.routingTable = nextHops(l.self, distances, predecessors)
	_, selfRouted := l.routingTable[l.self]
	assert.Assert(!selfRouted, "routing table must never name self (%s) as a destination", l.self)
	metrics.SetLSDBSize(len(l.entries), len(l.routingTable))

	l.installRoutes(ctx)

	metrics.RecordLSAGate(true)
	return true
}

// installRoutes implements spec.md §4.7's route-install step: for each
// routing-map entry, skip destinations whose first hop is not (yet) a
// confirmed neighbor; otherwise replace the route for every address the
// destination advertises, via the confirmed neighbor's IP. One failing
// destination does not abort the batch (spec.md §7).
func (l *LSDB) installRoutes(ctx context.Context) {
	confirmed := l.neighbors.ConfirmedSnapshot()

	for dest, nextHop := range l.routingTable {
		gateway, ok := confirmed[nextHop]
		if !ok {
			logger.Infof("skipping route to %s via %s: gateway not confirmed yet", dest, nextHop)
			continue
		}

		entry, ok := l.entries[dest]
		if !ok {
			continue
		}

		for _, addr := range entry.Addresses {
			err := l.installer.Replace(ctx, addr, gateway)
			metrics.RecordRouteInstall(err)
			if err != nil {
				logger.Warnf("failed to install route %s via %s [%s]: %v", addr, gateway, nextHop, err)
				continue
			}
			logger.Infof("route installed: %s -> %s [%s]", addr, gateway, nextHop)
		}
	}
}
