package ifaces

import (
	"net"
	"testing"
)

func fakeInterfaces(t *testing.T, entries map[string][]string) func() ([]net.Interface, error) {
	t.Helper()
	return func() ([]net.Interface, error) {
		var out []net.Interface
		idx := 1
		for name := range entries {
			out = append(out, net.Interface{Index: idx, Name: name})
			idx++
		}
		return out, nil
	}
}

// Since net.Interface.Addrs() cannot be faked without a real interface, the
// inventory logic that depends on it (directedBroadcast, hostNetwork) is
// exercised directly here instead of through Inventory.

func TestHostNetwork(t *testing.T) {
	ip := net.ParseIP("192.168.7.42").To4()
	network, err := hostNetwork(ip)
	if err != nil {
		t.Fatalf("hostNetwork: %v", err)
	}
	if got, want := network.String(), "192.168.7.0/24"; got != want {
		t.Errorf("network = %s, want %s", got, want)
	}
}

func TestDirectedBroadcast(t *testing.T) {
	_, ipnet, err := net.ParseCIDR("10.0.5.1/30")
	if err != nil {
		t.Fatalf("ParseCIDR: %v", err)
	}

	broadcast, err := directedBroadcast(ipnet)
	if err != nil {
		t.Fatalf("directedBroadcast: %v", err)
	}
	if got, want := broadcast.String(), "10.0.5.3"; got != want {
		t.Errorf("broadcast = %s, want %s", got, want)
	}
}

func TestHasPrefix(t *testing.T) {
	tests := []struct {
		s, prefix string
		want      bool
	}{
		{"eth0", "eth", true},
		{"wlan0", "eth", false},
		{"et", "eth", false},
		{"192.168.1.1", "192.", true},
		{"10.0.0.1", "192.", false},
	}

	for _, tt := range tests {
		if got := hasPrefix(tt.s, tt.prefix); got != tt.want {
			t.Errorf("hasPrefix(%q, %q) = %v, want %v", tt.s, tt.prefix, got, tt.want)
		}
	}
}

func TestInventoryNoMatchingInterfaces(t *testing.T) {
	original := netInterfaces
	defer func() { netInterfaces = original }()
	netInterfaces = fakeInterfaces(t, map[string][]string{"lo": nil, "wlan0": nil})

	result, err := Inventory()
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected no entries, got %v", result)
	}
}
