package network

import (
	"fmt"
	"log"
	"net"
	"time"
)

// UDPSocket wraps a bound UDP endpoint. One telegram travels per
// datagram; there is no fragmentation or reassembly.
type UDPSocket struct {
	conn      *net.UDPConn
	address   string
	port      int
	localAddr *net.UDPAddr
}

// NewUDPSocket creates a UDP socket bound to a specific address and port
func NewUDPSocket(address string, port int) *UDPSocket {
	return &UDPSocket{
		address: address,
		port:    port,
	}
}

// NewUDPSocketServer creates a UDP socket for server mode (any address, specific port)
func NewUDPSocketServer(port int) *UDPSocket {
	return &UDPSocket{
		address: "",
		port:    port,
	}
}

// Open binds the socket
func (s *UDPSocket) Open() error {
	var err error

	if s.address == "" {
		s.localAddr = &net.UDPAddr{
			IP:   net.IPv4zero,
			Port: s.port,
		}
	} else {
		s.localAddr = &net.UDPAddr{
			IP:   net.ParseIP(s.address),
			Port: s.port,
		}
		if s.localAddr.IP == nil {
			return fmt.Errorf("invalid address: %s", s.address)
		}
	}

	s.conn, err = net.ListenUDP("udp4", s.localAddr)
	if err != nil {
		log.Printf("Error opening UDP socket: %v", err)
		return err
	}

	log.Printf("UDP socket bound to %s", s.conn.LocalAddr().String())
	return nil
}

// ReadTimeout reads one datagram, waiting at most the given duration.
// Returns 0 bytes and a nil error on timeout so a receive loop can
// poll its shutdown signal between reads.
func (s *UDPSocket) ReadTimeout(buffer []byte, timeout time.Duration) (int, *net.UDPAddr, error) {
	if s.conn == nil {
		return 0, nil, fmt.Errorf("socket not open")
	}

	if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, nil, err
	}

	n, addr, err := s.conn.ReadFromUDP(buffer)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return 0, nil, nil
		}
		return 0, nil, err
	}

	return n, addr, nil
}

// Write sends one datagram to the given address
func (s *UDPSocket) Write(buffer []byte, addr *net.UDPAddr) error {
	if s.conn == nil {
		return fmt.Errorf("socket not open")
	}
	if addr == nil {
		return fmt.Errorf("no destination address")
	}

	n, err := s.conn.WriteToUDP(buffer, addr)
	if err != nil {
		return err
	}
	if n != len(buffer) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(buffer))
	}
	return nil
}

// LocalAddr returns the bound address, nil before Open
func (s *UDPSocket) LocalAddr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Close releases the socket
func (s *UDPSocket) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
