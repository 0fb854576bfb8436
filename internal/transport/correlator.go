package transport

import "sync"

// correlator routes received datagrams to the SendReceive call awaiting the
// matching RADIUS Identifier byte, replacing the teacher's
// discriminator-keyed Manager map (manager.go sessions map[uint32]*sessionEntry
// + sync.RWMutex) with an Identifier-keyed pending-request table sized for a
// single socket's in-flight requests rather than a whole fleet of sessions.
type correlator struct {
	mu      sync.Mutex
	pending map[byte]chan []byte
}

func newCorrelator() *correlator {
	return &correlator{pending: make(map[byte]chan []byte)}
}

// register opens a slot for identifier and returns the channel a matching
// reply will be delivered on. The channel is buffered so dispatch never
// blocks waiting for the caller to receive.
func (c *correlator) register(identifier byte) chan []byte {
	ch := make(chan []byte, 1)
	c.mu.Lock()
	c.pending[identifier] = ch
	c.mu.Unlock()
	return ch
}

// unregister closes out identifier's slot. Safe to call whether or not a
// reply was ever dispatched.
func (c *correlator) unregister(identifier byte) {
	c.mu.Lock()
	delete(c.pending, identifier)
	c.mu.Unlock()
}

// dispatch delivers raw to the registered waiter for its Identifier byte
// (raw[1]), if any. It reports whether a waiter was found; an unmatched
// Identifier -- an alien reply, or one arriving after its waiter gave up --
// is silently dropped, same as the teacher drops packets with no demux
// match (spec §8 scenario 6).
func (c *correlator) dispatch(raw []byte) bool {
	if len(raw) < 2 {
		return false
	}
	identifier := raw[1]

	c.mu.Lock()
	ch, ok := c.pending[identifier]
	c.mu.Unlock()
	if !ok {
		return false
	}

	cp := make([]byte, len(raw))
	copy(cp, raw)

	select {
	case ch <- cp:
		return true
	default:
		return false
	}
}
