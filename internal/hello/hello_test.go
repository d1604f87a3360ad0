package hello

import (
	"net"
	"strings"
	"testing"

	"github.com/malujoro/lsrouter/internal/ifaces"
	"github.com/malujoro/lsrouter/internal/neighbor"
	"github.com/malujoro/lsrouter/internal/transport"
)

type fakeTransportSocket struct {
	sent []sentPacket
}

type sentPacket struct {
	addr *net.UDPAddr
	data []byte
}

func (f *fakeTransportSocket) Open(port int) (*net.UDPAddr, error) { return nil, nil }

func (f *fakeTransportSocket) SendTo(addr *net.UDPAddr, data []byte) error {
	f.sent = append(f.sent, sentPacket{addr, data})
	return nil
}

func (f *fakeTransportSocket) Packets() <-chan *transport.Packet { return nil }
func (f *fakeTransportSocket) Close() error                      { return nil }

func TestTickSkipsHostSubnetInterfaces(t *testing.T) {
	sock := &fakeTransportSocket{}
	interfaces := []ifaces.Interface{
		{Address: "192.168.7.0/24"}, // host subnet, no broadcast
		{Address: "10.0.0.1", Broadcast: "10.0.0.255"},
	}
	e := NewEmitter("r1", 5000, interfaces, neighbor.NewTable(), sock, func() float64 { return 1.0 })

	e.tick()

	if len(sock.sent) != 1 {
		t.Fatalf("expected exactly one HELLO (host subnet skipped), got %d", len(sock.sent))
	}
	if sock.sent[0].addr.IP.String() != "10.0.0.255" {
		t.Fatalf("expected HELLO sent to the directed broadcast address, got %s", sock.sent[0].addr)
	}
}

func TestTickCarriesLiveDetectedNeighborSnapshot(t *testing.T) {
	sock := &fakeTransportSocket{}
	interfaces := []ifaces.Interface{{Address: "10.0.0.1", Broadcast: "10.0.0.255"}}
	neighbors := neighbor.NewTable()
	neighbors.Detect("r2", 1)

	e := NewEmitter("r1", 5000, interfaces, neighbors, sock, func() float64 { return 1.0 })
	e.tick()

	if len(sock.sent) != 1 {
		t.Fatalf("expected one HELLO sent, got %d", len(sock.sent))
	}
	if !strings.Contains(string(sock.sent[0].data), "r2") {
		t.Fatalf("expected the HELLO payload to mention detected neighbor r2, got %s", sock.sent[0].data)
	}

	// A neighbor detected after the emitter was built must still show up —
	// the field is a live read, not a snapshot taken at construction time.
	neighbors.Detect("r3", 1)
	e.tick()
	if !strings.Contains(string(sock.sent[1].data), "r3") {
		t.Fatalf("expected the second HELLO to reflect the newly detected neighbor r3")
	}
}
