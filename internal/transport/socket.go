// Package transport owns the daemon's single UDP socket (spec.md §4.4, C4)
// and the packet-receive loop, grounded on the pack's own UDP socket
// abstraction (sock/socket.go): bind once, read in a background loop, hand
// each datagram off through a channel rather than a blocking call into
// application code.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/malujoro/lsrouter/internal/assert"
	"github.com/malujoro/lsrouter/internal/logger"
)

// Packet is one received datagram together with its sender address.
type Packet struct {
	Addr *net.UDPAddr
	Data []byte
}

// Socket is the UDP transport the receiver and the emitters send over.
// Unlike the pack's unicast-only socket, SendTo here is also used to reach
// directed broadcast addresses for HELLOs.
type Socket interface {
	// Open binds the wildcard address on port and starts the receive loop.
	Open(port int) (*net.UDPAddr, error)
	// SendTo sends data to addr. Safe to call concurrently with itself and
	// with the receive loop.
	SendTo(addr *net.UDPAddr, data []byte) error
	// Packets returns the channel new datagrams are delivered on.
	Packets() <-chan *Packet
	// Close releases the underlying socket.
	Close() error
}

// UDPSocket is the default Socket implementation.
type UDPSocket struct {
	conn        *net.UDPConn
	bufferBytes int
	packets     chan *Packet
}

// NewUDPSocket builds a socket that reads bufferBytes-sized datagrams.
func NewUDPSocket(bufferBytes int) *UDPSocket {
	return &UDPSocket{
		bufferBytes: bufferBytes,
		packets:     make(chan *Packet, 64),
	}
}

// listenConfig enables SO_BROADCAST on the socket before it's bound. Without
// it, sendto() to a directed broadcast address (as the HELLO emitter does,
// spec.md §4.3) fails with EACCES on Linux, and no neighbor is ever
// discovered.
var listenConfig = net.ListenConfig{
	Control: func(network, address string, c syscall.RawConn) error {
		var sockErr error
		if err := c.Control(func(fd uintptr) {
			sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_BROADCAST, 1)
		}); err != nil {
			return err
		}
		return sockErr
	},
}

func (s *UDPSocket) Open(port int) (*net.UDPAddr, error) {
	assert.Assert(s.conn == nil, "UDP socket is already open; call Close before Open again")

	pc, err := listenConfig.ListenPacket(context.Background(), "udp4", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("binding UDP port %d: %w", port, err)
	}
	s.conn = pc.(*net.UDPConn)

	go s.readLoop()

	return s.conn.LocalAddr().(*net.UDPAddr), nil
}

func (s *UDPSocket) readLoop() {
	for {
		buf := make([]byte, s.bufferBytes)
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				close(s.packets)
				return
			}
			logger.Warnf("reading from UDP socket: %v", err)
			continue
		}
		s.packets <- &Packet{Addr: addr, Data: buf[:n]}
	}
}

func (s *UDPSocket) SendTo(addr *net.UDPAddr, data []byte) error {
	_, err := s.conn.WriteToUDP(data, addr)
	return err
}

func (s *UDPSocket) Packets() <-chan *Packet {
	return s.packets
}

func (s *UDPSocket) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
