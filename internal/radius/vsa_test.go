package radius_test

import (
	"bytes"
	"testing"

	"github.com/lp-radius/goradius/internal/radius"
)

func TestVSADialectRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		dialect radius.VSADialect
	}{
		{"T1L1", radius.DialectT1L1},
		{"T1L0", radius.DialectT1L0},
		{"T1L1C", radius.DialectT1L1C},
		{"T2L1", radius.DialectT2L1},
		{"T2L0", radius.DialectT2L0},
		{"T2L2", radius.DialectT2L2},
		{"T4L1", radius.DialectT4L1},
		{"T4L0", radius.DialectT4L0},
		{"T4L2", radius.DialectT4L2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := []byte("payload")
			attr, err := radius.EncodeVSA(9, tc.dialect, 5, 0x80, data)
			if err != nil {
				t.Fatalf("EncodeVSA: %v", err)
			}
			got, err := radius.DecodeVSA(attr, tc.dialect)
			if err != nil {
				t.Fatalf("DecodeVSA: %v", err)
			}
			if got.VendorID != 9 || got.SubType != 5 {
				t.Fatalf("got vendor=%d subtype=%d", got.VendorID, got.SubType)
			}
			if !bytes.Equal(got.Data, data) {
				t.Fatalf("data = %q, want %q", got.Data, data)
			}
			if tc.dialect == radius.DialectT1L1C && got.Continuation != 0x80 {
				t.Fatalf("continuation = %#x", got.Continuation)
			}
		})
	}
}

func TestVSAUnknownDialectRejected(t *testing.T) {
	_, err := radius.EncodeVSA(1, radius.VSADialect(99), 1, 0, []byte("x"))
	if err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

func TestVSADataTooLargeRejected(t *testing.T) {
	_, err := radius.EncodeVSA(1, radius.DialectT1L1, 1, 0, make([]byte, 250))
	if err == nil {
		t.Fatal("expected error for oversized sub-attribute data")
	}
}

func TestVSAStringer(t *testing.T) {
	if got := radius.DialectT2L2.String(); got != "T2L2" {
		t.Fatalf("got %q", got)
	}
	if got := radius.VSADialect(250).String(); got != "Unknown(250)" {
		t.Fatalf("got %q", got)
	}
}
