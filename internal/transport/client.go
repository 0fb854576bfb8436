// Package transport implements the RADIUS client socket: dialing and
// configuring the UDP sockets, matching replies to outstanding requests by
// Identifier, and the attempt/timeout/retry loop used by every RADIUS
// operation (RFC 2865 §2.4, RFC 5997 §3.3).
package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/netip"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lp-radius/goradius/internal/radius"
	"github.com/lp-radius/goradius/internal/radius/registry"
	"github.com/lp-radius/goradius/internal/radiusmetrics"
)

// ErrSocketClosed indicates an operation was attempted on a closed Client.
var ErrSocketClosed = errors.New("transport: socket closed")

// DefaultAuthPort and DefaultAcctPort are RFC 2865 §3 / RFC 2866 §3
// standard UDP ports.
const (
	DefaultAuthPort uint16 = 1812
	DefaultAcctPort uint16 = 1813
)

// authConn is the subset of net.Conn a connected auth-endpoint socket needs.
// Defined as an interface so tests can substitute a mock without opening a
// real socket (spec §8 scenario 6).
type authConn interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

// datagramConn is the subset of net.PacketConn the unconnected accounting
// socket needs.
type datagramConn interface {
	WriteTo(b []byte, addr net.Addr) (int, error)
	ReadFrom(b []byte) (int, net.Addr, error)
	Close() error
}

// Client is a RADIUS client socket bound to one server: a connected UDP
// socket for Access-Request/Status-Server/CoA/Disconnect traffic, and a
// separate unconnected socket for Accounting-Request traffic addressed to
// the server's accounting port (RFC 2866 §3 uses a distinct port from
// authentication). Safe for concurrent use: each in-flight SendReceive call
// owns its own Identifier-keyed reply channel.
type Client struct {
	authConn  authConn
	acctConn  datagramConn
	acctAddr  net.Addr
	authCorr  *correlator
	acctCorr  *correlator
	serverTag string

	socketTimeout time.Duration
	logger        *slog.Logger
	metrics       *radiusmetrics.Collector

	closeOnce sync.Once
	done      chan struct{}
}

// ClientOption configures optional Client parameters.
type ClientOption func(*clientConfig)

type clientConfig struct {
	socketTimeout time.Duration
	localEndpoint netip.Addr
	logger        *slog.Logger
	metrics       *radiusmetrics.Collector
	rcvBufBytes   int
	sndBufBytes   int
}

// WithSocketTimeout sets the per-attempt timeout (spec default 3000ms).
func WithSocketTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) { c.socketTimeout = d }
}

// WithLocalEndpoint binds both sockets to a specific local address. Its
// family must match the resolved server address.
func WithLocalEndpoint(addr netip.Addr) ClientOption {
	return func(c *clientConfig) { c.localEndpoint = addr }
}

// WithLogger sets the Client's structured logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) { c.logger = logger }
}

// WithMetrics attaches a radiusmetrics.Collector; metrics are skipped if
// never set.
func WithMetrics(m *radiusmetrics.Collector) ClientOption {
	return func(c *clientConfig) { c.metrics = m }
}

// WithSocketBuffers sets SO_RCVBUF/SO_SNDBUF on both sockets (Linux only; a
// no-op elsewhere). Zero leaves the kernel default in place.
func WithSocketBuffers(rcvBytes, sndBytes int) ClientOption {
	return func(c *clientConfig) { c.rcvBufBytes = rcvBytes; c.sndBufBytes = sndBytes }
}

// NewClient resolves host (a literal IP parsed directly, otherwise a DNS
// lookup with a random pick among multiple results) and dials the auth and
// accounting sockets.
func NewClient(ctx context.Context, host string, authPort, acctPort uint16, opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{
		socketTimeout: 3000 * time.Millisecond,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	addr, err := resolveHost(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", host, err)
	}
	if cfg.localEndpoint.IsValid() && cfg.localEndpoint.Is4() != addr.Is4() {
		return nil, fmt.Errorf("transport: local endpoint family does not match server address family: %w", radius.ErrInvalidArgument)
	}

	network := "udp4"
	if addr.Is6() {
		network = "udp6"
	}

	var localUDPAddr *net.UDPAddr
	localStr := ":0"
	if cfg.localEndpoint.IsValid() {
		localUDPAddr = net.UDPAddrFromAddrPort(netip.AddrPortFrom(cfg.localEndpoint, 0))
		localStr = localUDPAddr.String()
	}
	control := socketControl(cfg.rcvBufBytes, cfg.sndBufBytes)

	authUDPAddr := net.UDPAddrFromAddrPort(netip.AddrPortFrom(addr, authPort))
	dialer := net.Dialer{LocalAddr: localUDPAddr, Control: control}
	authConnGeneric, err := dialer.DialContext(ctx, network, authUDPAddr.String())
	if err != nil {
		return nil, fmt.Errorf("dial auth endpoint %s: %w", authUDPAddr, err)
	}
	authSocket, ok := authConnGeneric.(*net.UDPConn)
	if !ok {
		_ = authConnGeneric.Close()
		return nil, fmt.Errorf("dial auth endpoint %s: unexpected connection type", authUDPAddr)
	}

	lc := net.ListenConfig{Control: control}
	acctConnGeneric, err := lc.ListenPacket(ctx, network, localStr)
	if err != nil {
		_ = authSocket.Close()
		return nil, fmt.Errorf("listen accounting socket: %w", err)
	}
	acctSocket, ok := acctConnGeneric.(*net.UDPConn)
	if !ok {
		_ = authSocket.Close()
		_ = acctConnGeneric.Close()
		return nil, fmt.Errorf("listen accounting socket: unexpected connection type")
	}
	acctUDPAddr := net.UDPAddrFromAddrPort(netip.AddrPortFrom(addr, acctPort))

	c := &Client{
		authConn:      authSocket,
		acctConn:      acctSocket,
		acctAddr:      acctUDPAddr,
		authCorr:      newCorrelator(),
		acctCorr:      newCorrelator(),
		serverTag:     addr.String(),
		socketTimeout: cfg.socketTimeout,
		logger:        cfg.logger.With(slog.String("component", "transport.client"), slog.String("server", addr.String())),
		metrics:       cfg.metrics,
		done:          make(chan struct{}),
	}

	go c.readPump(c.authConn.Read, c.authCorr)
	go c.readPumpPacket(c.acctConn.ReadFrom, c.acctCorr)

	return c, nil
}

// resolveHost parses host as a literal IP address; failing that, it
// resolves via DNS and, when multiple addresses are returned, picks one at
// random (grounded in the teacher's address-family auto-detection plus its
// math/rand/v2 usage in session.go).
func resolveHost(ctx context.Context, host string) (netip.Addr, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr, nil
	}

	addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("lookup %s: %w", host, err)
	}
	if len(addrs) == 0 {
		return netip.Addr{}, fmt.Errorf("lookup %s: no addresses", host)
	}
	return addrs[rand.N(len(addrs))], nil
}

// routeFor selects the conn/correlator/destination for pkt.Code.
// Accounting-Request is the only Code routed to the accounting socket;
// every other defined Code travels over the connected auth socket.
func (c *Client) routeFor(code registry.Code) (*correlator, func([]byte) error) {
	if code == registry.CodeAccountingRequest {
		return c.acctCorr, func(wire []byte) error {
			_, err := c.acctConn.WriteTo(wire, c.acctAddr)
			return err
		}
	}
	return c.authCorr, func(wire []byte) error {
		_, err := c.authConn.Write(wire)
		return err
	}
}

// SendReceive transmits pkt (already signed by the caller) and waits for a
// reply sharing its Identifier, retrying transmission up to maxAttempts
// times on a per-attempt socketTimeout. It returns the parsed reply and its
// raw bytes so the caller can run Authenticator/Message-Authenticator
// verification against the exact wire form received.
func (c *Client) SendReceive(ctx context.Context, pkt *radius.Packet, maxAttempts int) (*radius.Packet, []byte, error) {
	if maxAttempts < 1 {
		return nil, nil, fmt.Errorf("send receive: maxAttempts must be >= 1: %w", radius.ErrInvalidArgument)
	}

	select {
	case <-c.done:
		return nil, nil, ErrSocketClosed
	default:
	}

	wire, err := pkt.Marshal()
	if err != nil {
		return nil, nil, fmt.Errorf("send receive: %w", err)
	}

	corr, write := c.routeFor(pkt.Code)
	ch := corr.register(pkt.Identifier)
	defer corr.unregister(pkt.Identifier)

	codeLabel := pkt.Code.String()
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := write(wire); err != nil {
			lastErr = fmt.Errorf("attempt %d: write: %w", attempt, err)
			continue
		}
		c.incRequestsSent(codeLabel)

		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-c.done:
			return nil, nil, ErrSocketClosed
		case raw := <-ch:
			reply := radius.Parse(raw)
			if !reply.Valid {
				lastErr = fmt.Errorf("attempt %d: received malformed reply", attempt)
				continue
			}
			c.incResponsesReceived(codeLabel)
			c.observeRoundTrip(codeLabel, time.Since(start).Seconds())
			return reply, raw, nil
		case <-time.After(c.socketTimeout):
			lastErr = fmt.Errorf("attempt %d: timeout after %s", attempt, c.socketTimeout)
			if attempt < maxAttempts {
				c.incRetries(codeLabel)
			}
		}
	}

	c.incTimeouts(codeLabel)
	return nil, nil, fmt.Errorf("send receive: exhausted %d attempts: %w", maxAttempts, lastErr)
}

// Ping sends a signed Status-Server probe (RFC 5997) with a
// Message-Authenticator and a single attempt -- no retransmission, mirroring
// the teacher's unaffiliated-probe shape in internal/bfd/echo.go.
func (c *Client) Ping(ctx context.Context, secret []byte) (*radius.Packet, []byte, error) {
	pkt, err := radius.Create(registry.CodeStatusServer)
	if err != nil {
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	if err := pkt.SetMessageAuthenticator(secret); err != nil {
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	if err := pkt.SetAuthenticator(secret, nil); err != nil {
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return c.SendReceive(ctx, pkt, 1)
}

// Close shuts down both sockets concurrently and unblocks every pending
// SendReceive call with ErrSocketClosed.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		var g errgroup.Group
		g.Go(func() error {
			if e := c.authConn.Close(); e != nil {
				return fmt.Errorf("close auth socket: %w", e)
			}
			return nil
		})
		g.Go(func() error {
			if e := c.acctConn.Close(); e != nil {
				return fmt.Errorf("close accounting socket: %w", e)
			}
			return nil
		})
		err = g.Wait()
	})
	return err
}

// readPump continuously reads from a connected socket and dispatches each
// datagram to corr by Identifier. It exits when Close() closes the
// underlying connection.
func (c *Client) readPump(read func([]byte) (int, error), corr *correlator) {
	buf := make([]byte, radius.MaxPacketSize)
	for {
		n, err := read(buf)
		if err != nil {
			select {
			case <-c.done:
				return
			default:
				c.logger.Debug("auth socket read error", slog.String("error", err.Error()))
				return
			}
		}
		if !corr.dispatch(buf[:n]) {
			c.logger.Debug("dropped reply with no matching outstanding request")
		}
	}
}

// readPumpPacket is readPump's counterpart for the unconnected accounting
// socket, whose Read method also yields a source address. Unlike authConn
// (connected via net.Dial, so the kernel already rejects any datagram not
// from the server), acctConn accepts datagrams from any source, so every
// read is checked against c.acctAddr before dispatch: anything not from the
// server's IP and port is discarded rather than handed to the correlator.
func (c *Client) readPumpPacket(read func([]byte) (int, net.Addr, error), corr *correlator) {
	buf := make([]byte, radius.MaxPacketSize)
	for {
		n, from, err := read(buf)
		if err != nil {
			select {
			case <-c.done:
				return
			default:
				c.logger.Debug("accounting socket read error", slog.String("error", err.Error()))
				return
			}
		}
		if !addrMatchesServer(from, c.acctAddr) {
			c.logger.Debug("dropped accounting datagram from unexpected source", slog.Any("source", from))
			continue
		}
		if !corr.dispatch(buf[:n]) {
			c.logger.Debug("dropped accounting reply with no matching outstanding request")
		}
	}
}

// addrMatchesServer reports whether got names the same IP and port as want.
// Both are expected to stringify as "host:port" (net.UDPAddr.String()'s
// form); a malformed or nil address never matches.
func addrMatchesServer(got, want net.Addr) bool {
	if got == nil || want == nil {
		return false
	}

	gotHost, gotPort, err := net.SplitHostPort(got.String())
	if err != nil {
		return false
	}
	wantHost, wantPort, err := net.SplitHostPort(want.String())
	if err != nil {
		return false
	}
	if gotPort != wantPort {
		return false
	}

	gotIP := net.ParseIP(gotHost)
	wantIP := net.ParseIP(wantHost)
	return gotIP != nil && wantIP != nil && gotIP.Equal(wantIP)
}

func (c *Client) incRequestsSent(code string) {
	if c.metrics != nil {
		c.metrics.IncRequestsSent(c.serverTag, code)
	}
}

func (c *Client) incResponsesReceived(code string) {
	if c.metrics != nil {
		c.metrics.IncResponsesReceived(c.serverTag, code)
	}
}

func (c *Client) incRetries(code string) {
	if c.metrics != nil {
		c.metrics.IncRetries(c.serverTag, code)
	}
}

func (c *Client) incTimeouts(code string) {
	if c.metrics != nil {
		c.metrics.IncTimeouts(c.serverTag, code)
	}
}

func (c *Client) observeRoundTrip(code string, seconds float64) {
	if c.metrics != nil {
		c.metrics.ObserveRoundTrip(c.serverTag, code, seconds)
	}
}
