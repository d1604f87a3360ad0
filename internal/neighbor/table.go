// Package neighbor implements the Neighbor Manager (spec.md §4.5, C5): the
// detected- and confirmed-neighbor maps and the logic that promotes a
// neighbor from merely detected to bidirectionally confirmed.
//
// Per the design note in spec.md §9, both maps live behind one mutex in a
// single table object with snapshot-returning read accessors, so the HELLO
// and LSA emitters never iterate a container the receiver is concurrently
// mutating, and never hold the lock across a network send.
package neighbor

import "sync"

// Table holds the detected- and confirmed-neighbor maps (spec.md §3). Both
// only grow during a run; nothing is ever evicted (no-eviction lifecycle).
type Table struct {
	mu        sync.Mutex
	detected  map[string]int    // neighbor id -> link cost
	confirmed map[string]string // neighbor id -> sender IP
}

// NewTable returns an empty neighbor table.
func NewTable() *Table {
	return &Table{
		detected:  make(map[string]int),
		confirmed: make(map[string]string),
	}
}

// Detect records neighbor as directly reachable at the given cost. Returns
// true if this is the first time neighbor was detected.
func (t *Table) Detect(neighborID string, cost int) (firstTime bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, existed := t.detected[neighborID]
	t.detected[neighborID] = cost
	return !existed
}

// Confirm records neighbor as bidirectionally confirmed, reachable at ip.
// Returns true if this is the first time neighbor was confirmed; confirming
// an already-confirmed neighbor again is a no-op (invariant: confirmed is a
// monotone-growing set, spec.md §3).
func (t *Table) Confirm(neighborID, ip string) (firstTime bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.confirmed[neighborID]; exists {
		return false
	}
	t.confirmed[neighborID] = ip
	return true
}

// DetectedCost returns the cost recorded for neighborID and whether it has
// been detected at all.
func (t *Table) DetectedCost(neighborID string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cost, ok := t.detected[neighborID]
	return cost, ok
}

// ConfirmedAddr returns the sender IP recorded for neighborID and whether it
// is confirmed.
func (t *Table) ConfirmedAddr(neighborID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	addr, ok := t.confirmed[neighborID]
	return addr, ok
}

// DetectedIDs returns a snapshot of detected-neighbor ids. Safe to range
// over and to retain after the call returns.
func (t *Table) DetectedIDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.detected))
	for id := range t.detected {
		ids = append(ids, id)
	}
	return ids
}

// DetectedSnapshot returns a copy of the full detected-neighbor map
// (neighbor id -> cost), suitable for embedding in an originated LSA.
func (t *Table) DetectedSnapshot() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := make(map[string]int, len(t.detected))
	for id, cost := range t.detected {
		snap[id] = cost
	}
	return snap
}

// ConfirmedSnapshot returns a copy of the full confirmed-neighbor map
// (neighbor id -> sender IP), suitable for iterating while sending.
func (t *Table) ConfirmedSnapshot() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := make(map[string]string, len(t.confirmed))
	for id, addr := range t.confirmed {
		snap[id] = addr
	}
	return snap
}
