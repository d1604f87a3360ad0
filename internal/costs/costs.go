// Package costs implements the Cost Resolver (spec.md §4.2, C2): mapping a
// (self, neighbor) pair to the link cost declared in the process
// environment, tolerating either ordering of the pair since adjacent routers
// disagree on which endpoint is "first".
package costs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	envPrefix = "COST_"
	envSuffix = "_net"
)

// ErrMissingCost marks a Cost error as configuration-fatal per spec.md §4.2
// ("miss on both is a fatal configuration error for that neighbor") and §7
// ("missing link cost for a detected neighbor" is in the configuration-fatal
// bucket, distinct from per-packet decode/dispatch errors). Callers that
// receive a neighbor id from the wire (e.g. the Neighbor Manager) must check
// errors.Is(err, ErrMissingCost) and fail the process rather than log and
// continue.
var ErrMissingCost = errors.New("no cost configured for link")

// LookupFunc mirrors os.LookupEnv; Resolver takes one so tests don't have to
// mutate process environment state.
type LookupFunc func(key string) (string, bool)

// Resolver resolves link costs for a fixed self id against an injectable
// environment lookup.
type Resolver struct {
	self   string
	lookup LookupFunc
}

// NewResolver builds a Resolver for router id self using lookup to read
// configuration. Pass os.LookupEnv in production.
func NewResolver(self string, lookup LookupFunc) *Resolver {
	return &Resolver{self: self, lookup: lookup}
}

// Cost resolves the cost of the link to neighbor, consulting
// COST_<self>_<neighbor>_net then COST_<neighbor>_<self>_net. A miss on both
// is a configuration-fatal error per spec.md §4.2 and wraps ErrMissingCost.
// A value that is present but not a positive integer is also an error, but
// it does not wrap ErrMissingCost.
func (r *Resolver) Cost(neighbor string) (int, error) {
	if raw, present := r.lookup(envName(r.self, neighbor)); present {
		return parse(envName(r.self, neighbor), raw)
	}
	if raw, present := r.lookup(envName(neighbor, r.self)); present {
		return parse(envName(neighbor, r.self), raw)
	}
	return 0, fmt.Errorf("%w %s-%s (expected %s or %s)", ErrMissingCost,
		r.self, neighbor, envName(r.self, neighbor), envName(neighbor, r.self))
}

func parse(envVar, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", envVar, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s: cost must be a positive integer, got %d", envVar, v)
	}
	return v, nil
}

func envName(a, b string) string {
	return envPrefix + a + "_" + b + envSuffix
}
