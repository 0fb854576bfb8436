package transport

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/lp-radius/goradius/internal/radius"
	"github.com/lp-radius/goradius/internal/radius/registry"
)

var errMockClosed = errors.New("mock: closed")

// mockAuthConn is a test double for the connected auth-endpoint socket. Each
// Write invokes writeFunc (if set), letting a test script a fake server's
// behavior -- including replying out of order or after a delay, as
// scenario 6 requires.
type mockAuthConn struct {
	writeFunc func(wire []byte) error
	replies   chan []byte
	closed    chan struct{}
}

func newMockAuthConn() *mockAuthConn {
	return &mockAuthConn{replies: make(chan []byte, 8), closed: make(chan struct{})}
}

func (m *mockAuthConn) Write(b []byte) (int, error) {
	if m.writeFunc != nil {
		cp := make([]byte, len(b))
		copy(cp, b)
		if err := m.writeFunc(cp); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

func (m *mockAuthConn) Read(buf []byte) (int, error) {
	select {
	case raw := <-m.replies:
		return copy(buf, raw), nil
	case <-m.closed:
		return 0, errMockClosed
	}
}

func (m *mockAuthConn) Close() error {
	select {
	case <-m.closed:
	default:
		close(m.closed)
	}
	return nil
}

func (m *mockAuthConn) pushReply(raw []byte) { m.replies <- raw }

// mockDatagramConn is a test double for the unconnected accounting socket.
type mockDatagramConn struct {
	writeFunc func(wire []byte) error
	replies   chan datagramFromAddr
	closed    chan struct{}
}

type datagramFromAddr struct {
	raw  []byte
	from net.Addr
}

// serverAcctAddr is the accounting source address newTestClient configures
// as the trusted server; pushReply defaults to it so existing tests that
// don't care about sender spoofing keep working unchanged.
var serverAcctAddr net.Addr = &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 1813}

func newMockDatagramConn() *mockDatagramConn {
	return &mockDatagramConn{replies: make(chan datagramFromAddr, 8), closed: make(chan struct{})}
}

func (m *mockDatagramConn) WriteTo(b []byte, _ net.Addr) (int, error) {
	if m.writeFunc != nil {
		cp := make([]byte, len(b))
		copy(cp, b)
		if err := m.writeFunc(cp); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

func (m *mockDatagramConn) ReadFrom(buf []byte) (int, net.Addr, error) {
	select {
	case pkt := <-m.replies:
		return copy(buf, pkt.raw), pkt.from, nil
	case <-m.closed:
		return 0, nil, errMockClosed
	}
}

func (m *mockDatagramConn) Close() error {
	select {
	case <-m.closed:
	default:
		close(m.closed)
	}
	return nil
}

// pushReply delivers raw as if received from the trusted server address.
func (m *mockDatagramConn) pushReply(raw []byte) { m.replies <- datagramFromAddr{raw: raw, from: serverAcctAddr} }

// pushReplyFrom delivers raw as if received from an arbitrary source,
// letting tests simulate a spoofed accounting reply.
func (m *mockDatagramConn) pushReplyFrom(raw []byte, from net.Addr) {
	m.replies <- datagramFromAddr{raw: raw, from: from}
}

// newTestClient wires mocks into a Client without touching real sockets,
// starting the same reader goroutines NewClient would.
func newTestClient(t *testing.T, auth *mockAuthConn, acct *mockDatagramConn, timeout time.Duration) *Client {
	t.Helper()
	c := &Client{
		authConn:      auth,
		acctConn:      acct,
		acctAddr:      serverAcctAddr,
		authCorr:      newCorrelator(),
		acctCorr:      newCorrelator(),
		serverTag:     "mock-server",
		socketTimeout: timeout,
		logger:        slog.Default(),
		done:          make(chan struct{}),
	}
	go c.readPump(c.authConn.Read, c.authCorr)
	go c.readPumpPacket(c.acctConn.ReadFrom, c.acctCorr)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func signedReply(t *testing.T, identifier byte, code registry.Code, requestAuth [16]byte, secret []byte) []byte {
	t.Helper()
	p, err := radius.Create(code, identifier)
	if err != nil {
		t.Fatalf("Create reply: %v", err)
	}
	if err := p.SetAuthenticator(secret, requestAuth[:]); err != nil {
		t.Fatalf("SetAuthenticator reply: %v", err)
	}
	wire, err := p.Marshal()
	if err != nil {
		t.Fatalf("Marshal reply: %v", err)
	}
	return wire
}

func TestSendReceiveHappyPath(t *testing.T) {
	secret := []byte("testing123")
	auth := newMockAuthConn()
	acct := newMockDatagramConn()
	client := newTestClient(t, auth, acct, 500*time.Millisecond)

	pkt, err := radius.Create(registry.CodeAccessRequest, 11)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := pkt.SetAuthenticator(secret, nil); err != nil {
		t.Fatalf("SetAuthenticator: %v", err)
	}
	reqAuth := pkt.Authenticator

	auth.writeFunc = func(wire []byte) error {
		go auth.pushReply(signedReply(t, wire[1], registry.CodeAccessAccept, reqAuth, secret))
		return nil
	}

	reply, _, err := client.SendReceive(context.Background(), pkt, 3)
	if err != nil {
		t.Fatalf("SendReceive: %v", err)
	}
	if reply.Code != registry.CodeAccessAccept {
		t.Fatalf("reply code = %v", reply.Code)
	}
	if reply.Identifier != 11 {
		t.Fatalf("reply identifier = %d", reply.Identifier)
	}
}

// TestSendReceiveDropsAlienIdentifier is end-to-end scenario 6: a responder
// that first answers with the wrong Identifier, then (after a delay) sends
// the correct reply. With maxAttempts = 1 and a generous socketTimeout the
// correlator must still return the correct reply, never the alien one.
func TestSendReceiveDropsAlienIdentifier(t *testing.T) {
	secret := []byte("testing123")
	auth := newMockAuthConn()
	acct := newMockDatagramConn()
	client := newTestClient(t, auth, acct, 500*time.Millisecond)

	pkt, err := radius.Create(registry.CodeAccessRequest, 42)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := pkt.SetAuthenticator(secret, nil); err != nil {
		t.Fatalf("SetAuthenticator: %v", err)
	}
	reqAuth := pkt.Authenticator

	auth.writeFunc = func(wire []byte) error {
		identifier := wire[1]
		go func() {
			auth.pushReply(signedReply(t, identifier+1, registry.CodeAccessAccept, reqAuth, secret))
			time.Sleep(50 * time.Millisecond)
			auth.pushReply(signedReply(t, identifier, registry.CodeAccessAccept, reqAuth, secret))
		}()
		return nil
	}

	reply, _, err := client.SendReceive(context.Background(), pkt, 1)
	if err != nil {
		t.Fatalf("SendReceive: %v", err)
	}
	if reply.Identifier != 42 {
		t.Fatalf("expected the correct Identifier 42, got %d (alien reply leaked through)", reply.Identifier)
	}
}

func TestSendReceiveExhaustsAttemptsOnTimeout(t *testing.T) {
	auth := newMockAuthConn() // writeFunc left nil: never replies
	acct := newMockDatagramConn()
	client := newTestClient(t, auth, acct, 20*time.Millisecond)

	pkt, err := radius.Create(registry.CodeAccessRequest, 5)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := pkt.SetAuthenticator([]byte("secret"), nil); err != nil {
		t.Fatalf("SetAuthenticator: %v", err)
	}

	_, _, err = client.SendReceive(context.Background(), pkt, 2)
	if err == nil {
		t.Fatal("expected timeout error after exhausting attempts")
	}
}

func TestSendReceiveRejectsZeroAttempts(t *testing.T) {
	auth := newMockAuthConn()
	acct := newMockDatagramConn()
	client := newTestClient(t, auth, acct, 100*time.Millisecond)

	pkt, err := radius.Create(registry.CodeAccessRequest, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := client.SendReceive(context.Background(), pkt, 0); err == nil {
		t.Fatal("expected error for maxAttempts < 1")
	}
}

func TestPingSendsStatusServerWithMessageAuthenticator(t *testing.T) {
	secret := []byte("pingsecret")
	auth := newMockAuthConn()
	acct := newMockDatagramConn()
	client := newTestClient(t, auth, acct, 500*time.Millisecond)

	auth.writeFunc = func(wire []byte) error {
		req := radius.Parse(wire)
		if !req.Valid {
			t.Fatalf("ping request failed to parse")
		}
		if req.Code != registry.CodeStatusServer {
			t.Fatalf("ping code = %v", req.Code)
		}
		if !radius.VerifyMessageAuthenticator(wire, secret) {
			t.Fatal("expected ping's Message-Authenticator to verify")
		}
		go auth.pushReply(signedReply(t, req.Identifier, registry.CodeAccessAccept, req.Authenticator, secret))
		return nil
	}

	reply, _, err := client.Ping(context.Background(), secret)
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if reply == nil {
		t.Fatal("expected a reply")
	}
}

func TestSendReceiveAccountingHappyPath(t *testing.T) {
	secret := []byte("acctsecret")
	auth := newMockAuthConn()
	acct := newMockDatagramConn()
	client := newTestClient(t, auth, acct, 500*time.Millisecond)

	pkt, err := radius.Create(registry.CodeAccountingRequest, 9)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := pkt.SetAuthenticator(secret, nil); err != nil {
		t.Fatalf("SetAuthenticator: %v", err)
	}
	reqAuth := pkt.Authenticator

	acct.writeFunc = func(wire []byte) error {
		go acct.pushReply(signedReply(t, wire[1], registry.CodeAccountingResponse, reqAuth, secret))
		return nil
	}

	reply, _, err := client.SendReceive(context.Background(), pkt, 3)
	if err != nil {
		t.Fatalf("SendReceive: %v", err)
	}
	if reply.Code != registry.CodeAccountingResponse {
		t.Fatalf("reply code = %v", reply.Code)
	}
	if reply.Identifier != 9 {
		t.Fatalf("reply identifier = %d", reply.Identifier)
	}
}

// TestSendReceiveDropsSpoofedAccountingSource exercises the unconnected
// accounting socket's receive filter: a reply carrying the right Identifier
// but arriving from a source other than the configured server address must
// never be dispatched, even though nothing but the source address
// distinguishes it from the legitimate reply.
func TestSendReceiveDropsSpoofedAccountingSource(t *testing.T) {
	secret := []byte("acctsecret")
	auth := newMockAuthConn()
	acct := newMockDatagramConn()
	client := newTestClient(t, auth, acct, 80*time.Millisecond)

	pkt, err := radius.Create(registry.CodeAccountingRequest, 3)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := pkt.SetAuthenticator(secret, nil); err != nil {
		t.Fatalf("SetAuthenticator: %v", err)
	}
	reqAuth := pkt.Authenticator

	spoofedAddr := &net.UDPAddr{IP: net.ParseIP("203.0.113.66"), Port: 1813}

	acct.writeFunc = func(wire []byte) error {
		go acct.pushReplyFrom(signedReply(t, wire[1], registry.CodeAccountingResponse, reqAuth, secret), spoofedAddr)
		return nil
	}

	_, _, err = client.SendReceive(context.Background(), pkt, 1)
	if err == nil {
		t.Fatal("expected timeout: spoofed-source reply must not be dispatched")
	}
}
