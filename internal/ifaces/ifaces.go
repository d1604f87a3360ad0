// Package ifaces enumerates the local IPv4 interfaces a router daemon cares
// about (spec.md §4.1, §6): only interfaces named with the "eth" prefix are
// inspected, and each is classified as either a host-facing gateway (IPs in
// the 192.x.x.x range, emitted as a /24 network) or an inter-router link
// (emitted with its directed broadcast address).
package ifaces

import (
	"fmt"
	"net"

	"github.com/apparentlymart/go-cidr/cidr"
)

// InterfaceNamePrefix is the OS-visible interface naming convention this
// daemon looks for (spec.md §6).
const InterfaceNamePrefix = "eth"

// HostSubnetPrefix is the brittle-by-design address-prefix heuristic used to
// recognize a router's own host-facing subnet (spec.md §6, §9). It is kept
// exactly as specified rather than generalized, with the limitation
// documented here and in DESIGN.md.
const HostSubnetPrefix = "192."

// Interface is one entry of the interface inventory (spec.md §3).
// Broadcast is empty for host-facing gateway interfaces.
type Interface struct {
	Address   string
	Broadcast string
}

// IsHostSubnet reports whether this entry describes the router's own
// host-facing subnet (no broadcast address, address already in CIDR form).
func (i Interface) IsHostSubnet() bool {
	return i.Broadcast == ""
}

// netInterfaces is overridable in tests.
var netInterfaces = net.Interfaces

// Inventory enumerates local interfaces matching InterfaceNamePrefix and
// classifies each IPv4 address on them per spec.md §4.1.
func Inventory() ([]Interface, error) {
	all, err := netInterfaces()
	if err != nil {
		return nil, fmt.Errorf("listing network interfaces: %w", err)
	}

	var result []Interface
	var hostSubnets []*net.IPNet

	for _, iface := range all {
		if !hasPrefix(iface.Name, InterfaceNamePrefix) {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			return nil, fmt.Errorf("listing addresses for %s: %w", iface.Name, err)
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipnet.IP.To4()
			if ip4 == nil {
				continue
			}

			if hasPrefix(ip4.String(), HostSubnetPrefix) {
				network, err := hostNetwork(ip4)
				if err != nil {
					return nil, err
				}
				if err := cidr.VerifyNoOverlap(hostSubnets, network); err != nil {
					return nil, fmt.Errorf("host subnet %s overlaps an already inventoried subnet: %w", network, err)
				}
				hostSubnets = append(hostSubnets, network)

				result = append(result, Interface{Address: network.String()})
				continue
			}

			broadcast, err := directedBroadcast(ipnet)
			if err != nil {
				return nil, fmt.Errorf("computing broadcast for %s on %s: %w", ip4, iface.Name, err)
			}

			result = append(result, Interface{
				Address:   ip4.String(),
				Broadcast: broadcast.String(),
			})
		}
	}

	return result, nil
}

// hostNetwork returns the /24 network containing ip, in network/24 form.
func hostNetwork(ip net.IP) (*net.IPNet, error) {
	_, network, err := net.ParseCIDR(fmt.Sprintf("%s/24", ip.String()))
	if err != nil {
		return nil, fmt.Errorf("computing /24 network for %s: %w", ip, err)
	}
	return network, nil
}

// directedBroadcast computes the directed broadcast address of the network
// ipnet belongs to, using the last address of its address range.
func directedBroadcast(ipnet *net.IPNet) (net.IP, error) {
	_, last := cidr.AddressRange(ipnet)
	return last, nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
