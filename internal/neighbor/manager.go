package neighbor

import (
	"slices"
	"sync"

	"github.com/malujoro/lsrouter/internal/costs"
	"github.com/malujoro/lsrouter/internal/wire"
)

// Manager is the Neighbor Manager (C5): it owns a Table and applies the
// promotion rule from spec.md §4.5 — a neighbor becomes confirmed the first
// time it sends a HELLO that lists this router among its own known
// neighbors. The start of LSA emission is edge-triggered on the very first
// confirmation of the run, never restarted by later confirmations
// (spec.md §4.5's ordering note, exercised by scenario S5).
type Manager struct {
	selfID   string
	table    *Table
	resolver *costs.Resolver

	startOnce  sync.Once
	onFirstCfm func()
}

// NewManager builds a Manager for selfID. onFirstConfirmation is invoked
// exactly once, the first time any neighbor is bidirectionally confirmed;
// the caller wires it to start the LSA emitter.
func NewManager(selfID string, resolver *costs.Resolver, onFirstConfirmation func()) *Manager {
	return &Manager{
		selfID:     selfID,
		table:      NewTable(),
		resolver:   resolver,
		onFirstCfm: onFirstConfirmation,
	}
}

// Table returns the underlying neighbor table for read access by other
// components (HELLO emitter, LSA emitter, route installer).
func (m *Manager) Table() *Table {
	return m.table
}

// ProcessHello implements spec.md §4.5's process_hello: resolve the link
// cost and mark the sender detected, then — if the sender has reciprocated
// by listing selfID — confirm it (recording the UDP source address the
// datagram actually arrived from, senderIP, not the packet's self-reported
// ip_address field) and, on the very first such confirmation across the
// whole run, start LSA emission.
func (m *Manager) ProcessHello(pkt *wire.Hello, senderIP string) error {
	cost, err := m.resolver.Cost(pkt.RouterID)
	if err != nil {
		return err
	}

	m.table.Detect(pkt.RouterID, cost)

	if !slices.Contains(pkt.KnownNeighbors, m.selfID) {
		return nil
	}

	if _, alreadyConfirmed := m.table.ConfirmedAddr(pkt.RouterID); alreadyConfirmed {
		return nil
	}

	confirmedNow := m.table.Confirm(pkt.RouterID, senderIP)
	if confirmedNow {
		m.startOnce.Do(m.startLSAEmission)
	}
	return nil
}

func (m *Manager) startLSAEmission() {
	if m.onFirstCfm != nil {
		m.onFirstCfm()
	}
}
