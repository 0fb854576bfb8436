package transport

import (
	"net"
	"testing"
)

// TestSocketControlDialsSuccessfully exercises socketControl through a real
// net.Dialer against a loopback listener, the same Control hook path used by
// NewClient, without asserting on platform-specific socket option values.
func TestSocketControlDialsSuccessfully(t *testing.T) {
	t.Parallel()

	ln, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("ListenUDP() error: %v", err)
	}
	defer ln.Close()

	dialer := net.Dialer{Control: socketControl(0, 0)}
	conn, err := dialer.Dial("udp", ln.LocalAddr().String())
	if err != nil {
		t.Fatalf("Dial() with socketControl error: %v", err)
	}
	defer conn.Close()
}

func TestSocketControlWithBuffersDialsSuccessfully(t *testing.T) {
	t.Parallel()

	ln, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("ListenUDP() error: %v", err)
	}
	defer ln.Close()

	dialer := net.Dialer{Control: socketControl(65536, 65536)}
	conn, err := dialer.Dial("udp", ln.LocalAddr().String())
	if err != nil {
		t.Fatalf("Dial() with sized buffers error: %v", err)
	}
	defer conn.Close()
}
