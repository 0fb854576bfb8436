package radius_test

import (
	"bytes"
	"testing"

	"github.com/lp-radius/goradius/internal/radius"
	"github.com/lp-radius/goradius/internal/radius/registry"
)

func TestAccessRequestPAPSuccessPath(t *testing.T) {
	secret := []byte("testing123")

	build := func() (*radius.Packet, []byte) {
		p, err := radius.Create(registry.CodeAccessRequest, 1)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		userName, err := radius.NewStringAttribute(1, "alice")
		if err != nil {
			t.Fatalf("NewStringAttribute: %v", err)
		}
		if err := p.Append(userName); err != nil {
			t.Fatalf("Append User-Name: %v", err)
		}

		cipher, err := radius.EncodePAP([]byte("password"), secret, p.Authenticator[:])
		if err != nil {
			t.Fatalf("EncodePAP: %v", err)
		}
		userPassword, err := radius.NewOpaqueAttribute(2, cipher)
		if err != nil {
			t.Fatalf("NewOpaqueAttribute: %v", err)
		}
		if err := p.Append(userPassword); err != nil {
			t.Fatalf("Append User-Password: %v", err)
		}

		if err := p.SetAuthenticator(secret, nil); err != nil {
			t.Fatalf("SetAuthenticator: %v", err)
		}
		wire, err := p.Marshal()
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		return p, wire
	}

	p1, wire1 := build()
	if p1.DeclaredLength() != 45 {
		t.Fatalf("declared length = %d, want 45", p1.DeclaredLength())
	}
	if wire1[0] != 0x01 {
		t.Fatalf("first byte = %#x, want 0x01", wire1[0])
	}

	_, wire2 := build()

	cipher1 := wire1[27:43]
	cipher2 := wire2[27:43]
	if !bytes.Equal(cipher1, cipher2) {
		t.Fatalf("PAP ciphertext differs between runs with the same zeroed Authenticator seed")
	}

	auth1 := wire1[4:20]
	auth2 := wire2[4:20]
	if bytes.Equal(auth1, auth2) {
		t.Fatal("expected independent executions to produce different random Authenticators")
	}
}

func TestResponseVerificationFlipsOnSingleBit(t *testing.T) {
	secret := []byte("s3cret")

	req, err := radius.Create(registry.CodeAccessRequest, 7)
	if err != nil {
		t.Fatalf("Create request: %v", err)
	}
	if err := req.SetAuthenticator(secret, nil); err != nil {
		t.Fatalf("SetAuthenticator request: %v", err)
	}

	resp, err := radius.Create(registry.CodeAccessAccept, 7)
	if err != nil {
		t.Fatalf("Create response: %v", err)
	}
	replyMsg, err := radius.NewStringAttribute(18, "welcome")
	if err != nil {
		t.Fatalf("NewStringAttribute: %v", err)
	}
	if err := resp.Append(replyMsg); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := resp.SetAuthenticator(secret, req.Authenticator[:]); err != nil {
		t.Fatalf("SetAuthenticator response: %v", err)
	}
	wire, err := resp.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if !radius.VerifyResponseAuthenticator(wire, req.Authenticator[:], secret) {
		t.Fatal("expected unmodified response to verify")
	}

	wire[20] ^= 0x01 // flip a bit inside the Reply-Message attribute
	if radius.VerifyResponseAuthenticator(wire, req.Authenticator[:], secret) {
		t.Fatal("expected single-bit-flipped response to fail verification")
	}
}

func TestAccountingRequestRoundTrip(t *testing.T) {
	secret := []byte("acctsecret")

	p, err := radius.Create(registry.CodeAccountingRequest, 3)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	statusType, err := radius.NewInt32Attribute(40, int32(registry.AcctStatusTypeStart))
	if err != nil {
		t.Fatalf("NewInt32Attribute: %v", err)
	}
	sessionID, err := radius.NewStringAttribute(44, "sess-1")
	if err != nil {
		t.Fatalf("NewStringAttribute sessionID: %v", err)
	}
	userName, err := radius.NewStringAttribute(1, "bob")
	if err != nil {
		t.Fatalf("NewStringAttribute userName: %v", err)
	}
	for _, a := range []*radius.Attribute{statusType, sessionID, userName} {
		if err := p.Append(a); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := p.SetAuthenticator(secret, nil); err != nil {
		t.Fatalf("SetAuthenticator: %v", err)
	}
	wire, err := p.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	parsed := radius.Parse(wire)
	if !parsed.Valid {
		t.Fatal("expected parsed packet to be valid")
	}
	if parsed.Code != registry.CodeAccountingRequest {
		t.Fatalf("Code = %v", parsed.Code)
	}
	if len(parsed.Attributes()) != 3 {
		t.Fatalf("attribute count = %d", len(parsed.Attributes()))
	}
	if !radius.VerifyRequestAuthenticator(wire, secret) {
		t.Fatal("expected VerifyRequestAuthenticator to return true")
	}
}

func TestVSAWiMAXContinuationParse(t *testing.T) {
	attr, err := radius.EncodeVSA(24757, radius.DialectT1L1C, 1, 0x80, []byte("A"))
	if err != nil {
		t.Fatalf("EncodeVSA: %v", err)
	}
	sub, err := radius.DecodeVSA(attr, radius.DialectT1L1C)
	if err != nil {
		t.Fatalf("DecodeVSA: %v", err)
	}
	if sub.SubType != 1 {
		t.Fatalf("SubType = %d", sub.SubType)
	}
	if sub.Continuation != 0x80 {
		t.Fatalf("Continuation = %#x", sub.Continuation)
	}
	if len(sub.Data) != 1 {
		t.Fatalf("data length = %d", len(sub.Data))
	}
}

func TestParseRejectsDeclaredLengthOutOfBounds(t *testing.T) {
	buf := make([]byte, 20)
	buf[2] = 0
	buf[3] = 10 // declared Length 10 < HeaderSize
	if radius.Parse(buf).Valid {
		t.Fatal("expected invalid packet for declared Length < 20")
	}

	buf2 := make([]byte, 20)
	buf2[2] = 0xFF
	buf2[3] = 0xFF // declared Length far beyond buffer size
	if radius.Parse(buf2).Valid {
		t.Fatal("expected invalid packet for declared Length > buffer size")
	}
}

func TestAppendOverflowAtBoundary(t *testing.T) {
	p, err := radius.Create(registry.CodeAccessRequest, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Fill to exactly 4096 using 253-byte-value attributes (255 bytes each).
	for p.DeclaredLength()+255 <= radius.MaxPacketSize {
		attr, err := radius.NewOpaqueAttribute(26, make([]byte, 253))
		if err != nil {
			t.Fatalf("NewOpaqueAttribute: %v", err)
		}
		if err := p.Append(attr); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	remaining := radius.MaxPacketSize - p.DeclaredLength()
	if remaining >= 2 {
		attr, err := radius.NewOpaqueAttribute(26, make([]byte, remaining-2))
		if err != nil {
			t.Fatalf("NewOpaqueAttribute: %v", err)
		}
		if err := p.Append(attr); err != nil {
			t.Fatalf("Append to exact boundary: %v", err)
		}
	}
	if p.DeclaredLength() != radius.MaxPacketSize {
		t.Fatalf("declared length = %d, want %d", p.DeclaredLength(), radius.MaxPacketSize)
	}

	overflow, err := radius.NewOpaqueAttribute(26, []byte{1})
	if err != nil {
		t.Fatalf("NewOpaqueAttribute: %v", err)
	}
	if err := p.Append(overflow); err == nil {
		t.Fatal("expected ErrOverflow appending past 4096 bytes")
	}
}

func TestMessageAuthenticatorVerifiesAfterSetAuthenticator(t *testing.T) {
	secret := []byte("msgauthsecret")

	p, err := radius.Create(registry.CodeAccessRequest, 9)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	userName, err := radius.NewStringAttribute(1, "carol")
	if err != nil {
		t.Fatalf("NewStringAttribute: %v", err)
	}
	if err := p.Append(userName); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := p.SetMessageAuthenticator(secret); err != nil {
		t.Fatalf("SetMessageAuthenticator: %v", err)
	}
	if err := p.SetAuthenticator(secret, nil); err != nil {
		t.Fatalf("SetAuthenticator: %v", err)
	}
	wire, err := p.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !radius.VerifyMessageAuthenticator(wire, secret) {
		t.Fatal("expected Message-Authenticator to verify after SetAuthenticator")
	}
}

func TestFindAttributeHelpers(t *testing.T) {
	p, err := radius.Create(registry.CodeAccountingRequest, 2)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	a1, _ := radius.NewInt32Attribute(40, 1)
	a2, _ := radius.NewInt32Attribute(40, 2)
	if err := p.Append(a1); err != nil {
		t.Fatalf("Append a1: %v", err)
	}
	if err := p.Append(a2); err != nil {
		t.Fatalf("Append a2: %v", err)
	}
	wire, err := p.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, ok := radius.FindAttribute(wire, 40)
	if !ok {
		t.Fatal("expected to find Type 40")
	}
	v, err := radius.DecodeUint32(got.Value())
	if err != nil || v != 1 {
		t.Fatalf("first match = %d, err = %v", v, err)
	}

	all := radius.FindAllAttributes(wire, 40)
	if len(all) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(all))
	}

	n, ok := radius.TryReadUInt32(wire, 40)
	if !ok || n != 1 {
		t.Fatalf("TryReadUInt32 = %d, %v", n, ok)
	}
}

func TestSetAuthenticatorUnsupportedCode(t *testing.T) {
	p, err := radius.Create(registry.Code(200), 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := p.SetAuthenticator([]byte("secret"), nil); err == nil {
		t.Fatal("expected ErrUnsupported for undefined Code")
	}
}
