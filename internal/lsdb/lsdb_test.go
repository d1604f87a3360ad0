package lsdb

import (
	"context"
	"sync"
	"testing"

	"github.com/malujoro/lsrouter/internal/neighbor"
	"github.com/malujoro/lsrouter/internal/wire"
)

// fakeInstaller records every Replace call instead of touching the kernel.
type fakeInstaller struct {
	mu    sync.Mutex
	calls []installCall
	err   error
}

type installCall struct {
	dest, gateway string
}

func (f *fakeInstaller) Replace(ctx context.Context, dest, gateway string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, installCall{dest, gateway})
	return f.err
}

func (f *fakeInstaller) snapshot() []installCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]installCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func TestUpdateAcceptsMonotoneSequenceNumbers(t *testing.T) {
	db := New("r1", neighbor.NewTable(), &fakeInstaller{})

	first := wire.NewLSA("r2", 1, []string{"10.0.0.2"}, map[string]int{"r1": 1}, 0)
	if !db.Update(context.Background(), first) {
		t.Fatal("expected first LSA to be accepted")
	}

	second := wire.NewLSA("r2", 2, []string{"10.0.0.2"}, map[string]int{"r1": 1}, 0)
	if !db.Update(context.Background(), second) {
		t.Fatal("expected LSA with a higher sequence number to be accepted")
	}
}

func TestUpdateRejectsDuplicateSequenceNumber(t *testing.T) {
	db := New("r1", neighbor.NewTable(), &fakeInstaller{})

	pkt := wire.NewLSA("r2", 5, []string{"10.0.0.2"}, map[string]int{"r1": 1}, 0)
	if !db.Update(context.Background(), pkt) {
		t.Fatal("expected first LSA to be accepted")
	}

	replay := wire.NewLSA("r2", 5, []string{"10.0.0.2"}, map[string]int{"r1": 1}, 0)
	if db.Update(context.Background(), replay) {
		t.Fatal("expected a replayed sequence number to be rejected")
	}
}

func TestUpdateRejectsStaleSequenceNumber(t *testing.T) {
	db := New("r1", neighbor.NewTable(), &fakeInstaller{})

	db.Update(context.Background(), wire.NewLSA("r2", 10, nil, map[string]int{}, 0))

	stale := wire.NewLSA("r2", 3, nil, map[string]int{}, 0)
	if db.Update(context.Background(), stale) {
		t.Fatal("expected a stale (lower) sequence number to be rejected")
	}

	entry, _ := db.Get("r2")
	if entry.SeqNum != 10 {
		t.Fatalf("stale update must not overwrite the existing entry, got seqnum %d", entry.SeqNum)
	}
}

func TestUpdateSeedsPlaceholdersForUnknownLinkTargets(t *testing.T) {
	db := New("r1", neighbor.NewTable(), &fakeInstaller{})

	pkt := wire.NewLSA("r2", 1, []string{"10.0.0.2"}, map[string]int{"r3": 1}, 0)
	db.Update(context.Background(), pkt)

	entry, ok := db.Get("r3")
	if !ok {
		t.Fatal("expected a placeholder entry to be seeded for r3")
	}
	if !entry.IsPlaceholder() {
		t.Fatalf("expected r3 to be a placeholder entry, got %+v", entry)
	}
}

func TestUpdateDoesNotOverwriteRealEntryWithPlaceholder(t *testing.T) {
	db := New("r1", neighbor.NewTable(), &fakeInstaller{})

	// r3 originates its own LSA first.
	db.Update(context.Background(), wire.NewLSA("r3", 1, []string{"10.0.0.3"}, map[string]int{}, 0))
	// r2 then names r3 as a link target — must not clobber r3's real entry.
	db.Update(context.Background(), wire.NewLSA("r2", 1, []string{"10.0.0.2"}, map[string]int{"r3": 1}, 0))

	entry, _ := db.Get("r3")
	if entry.IsPlaceholder() {
		t.Fatal("a real entry must not be downgraded back to a placeholder")
	}
}

func TestUpdateInstallsRoutesOnlyForConfirmedGateways(t *testing.T) {
	neighbors := neighbor.NewTable()
	neighbors.Detect("r2", 1)
	installer := &fakeInstaller{}
	db := New("r1", neighbors, installer)

	// Self's own LSA supplies r1's outbound edge to r2.
	db.Update(context.Background(), wire.NewLSA("r1", 1, nil, map[string]int{"r2": 1}, 0))

	// r2 is a direct neighbor but not yet bidirectionally confirmed.
	db.Update(context.Background(), wire.NewLSA("r2", 1, []string{"10.0.0.2"}, map[string]int{"r1": 1}, 0))
	if len(installer.snapshot()) != 0 {
		t.Fatalf("expected no route installs before the gateway is confirmed, got %v", installer.snapshot())
	}

	neighbors.Confirm("r2", "10.0.0.2")
	db.Update(context.Background(), wire.NewLSA("r2", 2, []string{"10.0.0.2"}, map[string]int{"r1": 1}, 0))

	calls := installer.snapshot()
	if len(calls) != 1 || calls[0].dest != "10.0.0.2" || calls[0].gateway != "10.0.0.2" {
		t.Fatalf("expected one route install to the confirmed gateway, got %v", calls)
	}
}

func TestUpdateInstallsMultiHopRouteViaFirstHop(t *testing.T) {
	neighbors := neighbor.NewTable()
	neighbors.Detect("r2", 1)
	neighbors.Confirm("r2", "10.0.0.2")
	installer := &fakeInstaller{}
	db := New("r1", neighbors, installer)

	// Self's own LSA supplies r1's outbound edge to r2.
	db.Update(context.Background(), wire.NewLSA("r1", 1, nil, map[string]int{"r2": 1}, 0))
	db.Update(context.Background(), wire.NewLSA("r2", 1, []string{"10.0.0.2"}, map[string]int{"r1": 1, "r3": 1}, 0))
	db.Update(context.Background(), wire.NewLSA("r3", 1, []string{"10.0.0.3"}, map[string]int{"r2": 1}, 0))

	calls := installer.snapshot()
	found := false
	for _, c := range calls {
		if c.dest == "10.0.0.3" && c.gateway == "10.0.0.2" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a route to r3's address via confirmed first hop r2, got %v", calls)
	}
}

func TestUpdateSkipsInstallFailureWithoutAbortingBatch(t *testing.T) {
	neighbors := neighbor.NewTable()
	neighbors.Detect("r2", 1)
	neighbors.Confirm("r2", "10.0.0.2")
	installer := &fakeInstaller{err: context.DeadlineExceeded}
	db := New("r1", neighbors, installer)

	// Self's own LSA supplies r1's outbound edge to r2.
	db.Update(context.Background(), wire.NewLSA("r1", 1, nil, map[string]int{"r2": 1}, 0))

	ok := db.Update(context.Background(), wire.NewLSA("r2", 1, []string{"10.0.0.2", "192.168.2.0/24"}, map[string]int{"r1": 1}, 0))
	if !ok {
		t.Fatal("a route-install failure must not affect whether the LSA was accepted")
	}
	if calls := installer.snapshot(); len(calls) != 2 {
		t.Fatalf("expected both of r2's addresses to be attempted despite the first failing, got %v", calls)
	}
}

func TestUpdateNeverRoutesToSelf(t *testing.T) {
	db := New("r1", neighbor.NewTable(), &fakeInstaller{})

	db.Update(context.Background(), wire.NewLSA("r2", 1, []string{"10.0.0.2"}, map[string]int{"r1": 1}, 0))

	if _, present := db.RoutingTable()["r1"]; present {
		t.Fatal("routing table must never contain a route to self")
	}
}
