package transport

import "testing"

func TestCorrelatorDispatchMatchesByIdentifier(t *testing.T) {
	c := newCorrelator()
	ch := c.register(7)
	defer c.unregister(7)

	raw := []byte{0x01, 0x07, 0x00, 0x14}
	if !c.dispatch(raw) {
		t.Fatal("expected dispatch to find the registered waiter")
	}

	select {
	case got := <-ch:
		if got[1] != 7 {
			t.Fatalf("delivered identifier = %d", got[1])
		}
	default:
		t.Fatal("expected a value on the channel")
	}
}

func TestCorrelatorDropsUnregisteredIdentifier(t *testing.T) {
	c := newCorrelator()
	ch := c.register(3)
	defer c.unregister(3)

	raw := []byte{0x01, 0x09, 0x00, 0x14} // identifier 9, nobody registered it
	if c.dispatch(raw) {
		t.Fatal("expected dispatch to report no match for an alien identifier")
	}

	select {
	case <-ch:
		t.Fatal("expected no value delivered to the unrelated waiter")
	default:
	}
}

func TestCorrelatorUnregisterStopsDelivery(t *testing.T) {
	c := newCorrelator()
	c.register(5)
	c.unregister(5)

	if c.dispatch([]byte{0x01, 0x05, 0x00, 0x14}) {
		t.Fatal("expected dispatch to find nothing after unregister")
	}
}
