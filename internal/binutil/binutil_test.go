package binutil_test

import (
	"errors"
	"testing"

	"github.com/lp-radius/goradius/internal/binutil"
)

func TestUint16RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	if err := binutil.PutUint16BE(buf, 1, 0xBEEF); err != nil {
		t.Fatalf("PutUint16BE: %v", err)
	}
	got, err := binutil.Uint16BE(buf, 1)
	if err != nil {
		t.Fatalf("Uint16BE: %v", err)
	}
	if got != 0xBEEF {
		t.Fatalf("got %#x, want %#x", got, 0xBEEF)
	}
}

func TestUint24RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 0xFFFFFF, 0x123456} {
		buf := make([]byte, 3)
		if err := binutil.PutUint24BE(buf, 0, v); err != nil {
			t.Fatalf("PutUint24BE(%d): %v", v, err)
		}
		got, err := binutil.Uint24BE(buf, 0)
		if err != nil {
			t.Fatalf("Uint24BE(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d: got %d", v, got)
		}
	}
}

func TestOutOfBounds(t *testing.T) {
	buf := make([]byte, 2)
	if _, err := binutil.Uint32BE(buf, 0); !errors.Is(err, binutil.ErrOutOfBounds) {
		t.Fatalf("want ErrOutOfBounds, got %v", err)
	}
	if err := binutil.PutUint64BE(buf, 0, 1); !errors.Is(err, binutil.ErrOutOfBounds) {
		t.Fatalf("want ErrOutOfBounds, got %v", err)
	}
}

func TestConstantTimeEqual(t *testing.T) {
	a := []byte("the-quick-brown-fox")
	b := []byte("the-quick-brown-fox")
	c := []byte("the-quick-brown-fax")
	d := []byte("short")

	if !binutil.ConstantTimeEqual(a, b) {
		t.Fatal("equal slices reported unequal")
	}
	if binutil.ConstantTimeEqual(a, c) {
		t.Fatal("unequal slices reported equal")
	}
	if binutil.ConstantTimeEqual(a, d) {
		t.Fatal("different-length slices reported equal")
	}
}

func TestSecureRandomFillsBuffer(t *testing.T) {
	buf := make([]byte, 32)
	if err := binutil.SecureRandom(buf); err != nil {
		t.Fatalf("SecureRandom: %v", err)
	}
	allZero := true
	for _, b := range buf {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Fatal("SecureRandom produced an all-zero buffer (astronomically unlikely)")
	}
}

func TestZero(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	binutil.Zero(buf)
	for _, b := range buf {
		if b != 0 {
			t.Fatalf("Zero left nonzero byte: %v", buf)
		}
	}
}
