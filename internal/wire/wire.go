// Package wire defines the on-the-wire packet formats exchanged between
// routing daemons and their JSON encoding, per spec.md §6. Packets are
// UTF-8 JSON objects; unknown top-level keys are ignored by encoding/json's
// default Unmarshal behavior, so decoding a foreign or newer payload into
// these structs already satisfies that requirement without extra code.
package wire

import (
	"encoding/json"
	"fmt"
)

const (
	TypeHello = "HELLO"
	TypeLSA   = "LSA"
)

// envelope is decoded first to dispatch on Type before committing to a
// concrete packet shape, per the "polymorphic packets" design note in
// spec.md §9: model the tag explicitly rather than groping at fields.
type envelope struct {
	Type string `json:"type"`
}

// Hello is the wire form of a HELLO packet (spec.md §3, §6).
type Hello struct {
	Type           string   `json:"type"`
	RouterID       string   `json:"router_id"`
	Timestamp      float64  `json:"timestamp"`
	IPAddress      string   `json:"ip_address"`
	KnownNeighbors []string `json:"known_neighbors"`
}

// LSA is the wire form of an LSA packet (spec.md §3, §6).
type LSA struct {
	Type           string         `json:"type"`
	RouterID       string         `json:"router_id"`
	Timestamp      float64        `json:"timestamp"`
	SequenceNumber int64          `json:"sequence_number"`
	Addresses      []string       `json:"addresses"`
	Links          map[string]int `json:"links"`
}

// NewHello builds a HELLO packet carrying a live snapshot of known
// neighbors. timestamp is the caller's wall-clock reading (injected so
// callers can stay testable without faking time.Now internally).
func NewHello(routerID, ipAddress string, knownNeighbors []string, timestamp float64) *Hello {
	return &Hello{
		Type:           TypeHello,
		RouterID:       routerID,
		Timestamp:      timestamp,
		IPAddress:      ipAddress,
		KnownNeighbors: knownNeighbors,
	}
}

// NewLSA builds an LSA packet for the given originator, sequence number,
// interface addresses and neighbor id -> link cost map (the LSA emitter
// fills it from its detected-neighbor table).
func NewLSA(routerID string, seqNum int64, addresses []string, links map[string]int, timestamp float64) *LSA {
	return &LSA{
		Type:           TypeLSA,
		RouterID:       routerID,
		Timestamp:      timestamp,
		SequenceNumber: seqNum,
		Addresses:      addresses,
		Links:          links,
	}
}

// Encode serializes a Hello or LSA to its wire JSON form.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode inspects the top-level "type" field of data and decodes it into a
// *Hello or *LSA accordingly. An unknown or missing type, or a malformed
// payload, is reported as an error so the caller can discard the datagram
// per spec.md §4.4 / §7 ("per-packet decode or dispatch" errors are
// non-fatal).
func Decode(data []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}

	switch env.Type {
	case TypeHello:
		var h Hello
		if err := json.Unmarshal(data, &h); err != nil {
			return nil, fmt.Errorf("decoding HELLO: %w", err)
		}
		return &h, nil
	case TypeLSA:
		var l LSA
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("decoding LSA: %w", err)
		}
		return &l, nil
	default:
		return nil, fmt.Errorf("unknown packet type %q", env.Type)
	}
}
