package radius

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // G501: MD5 required by RFC 2865 §3 authenticator computation
	"fmt"
	"sync"

	"github.com/lp-radius/goradius/internal/binutil"
	"github.com/lp-radius/goradius/internal/radius/registry"
)

// HeaderSize is the mandatory RADIUS packet header size in bytes
// (RFC 2865 §3: Code(1) + Identifier(1) + Length(2) + Authenticator(16)).
const HeaderSize = 20

// MaxPacketSize is the maximum declared packet Length (spec §3).
const MaxPacketSize = 4096

// MessageAuthenticatorType is the Type-80 attribute (RFC 3579 §3.2).
const MessageAuthenticatorType byte = 80

// messageAuthenticatorLen is the Message-Authenticator TLV's total wire
// length: Type(1) + Length(1) + 16-byte HMAC-MD5 digest.
const messageAuthenticatorLen = 18

// Packet is {Code, Identifier, Length, Authenticator, AttributeList}
// (spec §3). The AttributeList preserves insertion order; multiple
// attributes of the same Type are permitted. Packets are single-use
// values with no in-place reset: an outbound Packet transitions
// Empty -> WithAttributes -> Signed and a Signed packet is the only state
// from which transmission is allowed.
type Packet struct {
	Code          registry.Code
	Identifier    byte
	Authenticator [16]byte

	attrs []*Attribute

	// Valid is set by Parse and must be checked before any field of a
	// parsed Packet is trusted (spec §4.4 Parse, §7 MalformedPacket).
	Valid bool
}

// workingBufPool supplies reusable buffers for authenticator and HMAC
// working copies, avoiding per-request allocation (spec §5 "Resource
// policy"). Buffers are zeroed before being returned to the pool.
var workingBufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, MaxPacketSize)
		return &buf
	},
}

func getWorkingBuf() *[]byte { return workingBufPool.Get().(*[]byte) }

func putWorkingBuf(bufp *[]byte) {
	binutil.Zero(*bufp)
	workingBufPool.Put(bufp)
}

// Create returns a fresh packet: 20-byte header, declared Length 20,
// Authenticator zeroed, empty attribute list, Valid = true. If identifier
// is omitted a random Identifier is generated.
func Create(code registry.Code, identifier ...byte) (*Packet, error) {
	p := &Packet{Code: code, Valid: true}

	if len(identifier) > 0 {
		p.Identifier = identifier[0]
		return p, nil
	}

	var idBuf [1]byte
	if err := binutil.SecureRandom(idBuf[:]); err != nil {
		return nil, fmt.Errorf("create packet: %w", err)
	}
	p.Identifier = idBuf[0]
	return p, nil
}

// DeclaredLength returns 20 + the sum of every attribute's Length byte.
func (p *Packet) DeclaredLength() int {
	total := HeaderSize
	for _, a := range p.attrs {
		total += int(a.Len())
	}
	return total
}

// Attributes returns the packet's attribute list in insertion order.
// Callers must not mutate the returned slice.
func (p *Packet) Attributes() []*Attribute { return p.attrs }

// Append appends attr's serialized bytes to the packet, updating the
// declared Length. Fails with ErrOverflow if the new declared Length would
// exceed 4096.
func (p *Packet) Append(attr *Attribute) error {
	if p.DeclaredLength()+int(attr.Len()) > MaxPacketSize {
		return fmt.Errorf("append type %d: %w", attr.Type(), ErrOverflow)
	}
	p.attrs = append(p.attrs, attr)
	return nil
}

// SetMessageAuthenticator appends a Type-80 attribute with an 18-byte TLV
// whose 16-byte value region is zero, then computes HMAC-MD5 over the
// current packet with that value region still zero and writes the hash in
// place. Must be called before SetAuthenticator when both are used
// (RFC 3579 §3.2).
func (p *Packet) SetMessageAuthenticator(secret []byte) error {
	if len(secret) == 0 {
		return fmt.Errorf("set message authenticator: empty secret: %w", ErrInvalidArgument)
	}

	placeholder, err := newAttribute(MessageAuthenticatorType, make([]byte, 16))
	if err != nil {
		return err
	}
	if err := p.Append(placeholder); err != nil {
		return fmt.Errorf("set message authenticator: %w", err)
	}

	bufp := getWorkingBuf()
	defer putWorkingBuf(bufp)

	n, err := p.marshalInto(*bufp)
	if err != nil {
		return fmt.Errorf("set message authenticator: %w", err)
	}

	digest := hmacMD5(secret, (*bufp)[:n])
	copy(placeholder.raw[2:], digest)
	binutil.Zero(digest)

	return nil
}

// SetAuthenticator dispatches on Code (the Authenticator strategies table,
// spec §4.4) and writes the computed 16-byte Authenticator. If the packet
// is an Access-Request or Status-Server and a Message-Authenticator
// attribute is already present, the HMAC-MD5 is recomputed afterward since
// it covers the full header including the final Authenticator.
func (p *Packet) SetAuthenticator(secret []byte, requestAuthenticator []byte) error {
	if len(secret) == 0 {
		return fmt.Errorf("set authenticator: empty secret: %w", ErrInvalidArgument)
	}

	switch p.Code {
	case registry.CodeAccessRequest, registry.CodeStatusServer:
		if err := p.signRandomAuthenticator(secret); err != nil {
			return err
		}

	case registry.CodeAccessAccept, registry.CodeAccessReject, registry.CodeAccessChallenge,
		registry.CodeAccountingResponse,
		registry.CodeDisconnectACK, registry.CodeDisconnectNAK,
		registry.CodeCoAACK, registry.CodeCoANAK:
		if len(requestAuthenticator) != 16 {
			return fmt.Errorf("set authenticator: code %s requires a 16-byte request authenticator: %w",
				p.Code, ErrInvalidArgument)
		}
		copy(p.Authenticator[:], requestAuthenticator)
		if err := p.signReplyAuthenticator(secret); err != nil {
			return err
		}

	case registry.CodeAccountingRequest, registry.CodeCoARequest, registry.CodeDisconnectRequest:
		if err := p.signZeroedAuthenticator(secret); err != nil {
			return err
		}

	default:
		return fmt.Errorf("set authenticator: code %s: %w", p.Code, ErrUnsupported)
	}

	if (p.Code == registry.CodeAccessRequest || p.Code == registry.CodeStatusServer) && p.hasMessageAuthenticator() {
		return p.recomputeMessageAuthenticator(secret)
	}
	return nil
}

// signRandomAuthenticator implements the Access-Request/Status-Server
// strategy: Authenticator := MD5(random16 || secret). The random16 prefix
// is stored into the header then replaced by the digest.
func (p *Packet) signRandomAuthenticator(secret []byte) error {
	var random [16]byte
	if err := binutil.SecureRandom(random[:]); err != nil {
		return fmt.Errorf("sign authenticator: %w", err)
	}
	defer binutil.Zero(random[:])

	h := md5.New() //nolint:gosec // G401: MD5 required by RFC 2865 §3
	h.Write(random[:])
	h.Write(secret)
	sum := h.Sum(nil)
	defer binutil.Zero(sum)

	copy(p.Authenticator[:], sum)
	return nil
}

// signReplyAuthenticator implements the reply-Code strategy:
// Authenticator := MD5(Code || Id || Length || requestAuthenticator ||
// Attrs || secret). p.Authenticator must already hold requestAuthenticator.
func (p *Packet) signReplyAuthenticator(secret []byte) error {
	bufp := getWorkingBuf()
	defer putWorkingBuf(bufp)

	n, err := p.marshalInto(*bufp)
	if err != nil {
		return fmt.Errorf("sign reply authenticator: %w", err)
	}

	digest := hashWithSecret((*bufp)[:n], secret)
	defer binutil.Zero(digest)
	copy(p.Authenticator[:], digest)
	return nil
}

// signZeroedAuthenticator implements the request-Code strategy: the
// 16-byte Authenticator field is zeroed in a working copy, then
// Authenticator := MD5(Code || Id || Length || 0^16 || Attrs || secret).
func (p *Packet) signZeroedAuthenticator(secret []byte) error {
	for i := range p.Authenticator {
		p.Authenticator[i] = 0
	}
	return p.signReplyAuthenticator(secret)
}

// hashWithSecret computes MD5(buf || secret), zeroing no caller state
// (the caller owns buf and is responsible for its hygiene).
func hashWithSecret(buf, secret []byte) []byte {
	h := md5.New() //nolint:gosec // G401: MD5 required by RFC 2865 §3
	h.Write(buf)
	h.Write(secret)
	return h.Sum(nil)
}

// hmacMD5 computes HMAC-MD5(key=secret, data) (RFC 3579 §3.2).
func hmacMD5(secret, data []byte) []byte {
	mac := hmac.New(md5.New, secret) //nolint:gosec // G401: HMAC-MD5 required by RFC 3579 §3.2
	mac.Write(data)
	return mac.Sum(nil)
}

// hasMessageAuthenticator reports whether the packet carries a Type-80
// attribute.
func (p *Packet) hasMessageAuthenticator() bool {
	for _, a := range p.attrs {
		if a.Type() == MessageAuthenticatorType {
			return true
		}
	}
	return false
}

// recomputeMessageAuthenticator recomputes the HMAC-MD5 over the packet
// now that the final Authenticator has been written, since the HMAC covers
// the whole header.
func (p *Packet) recomputeMessageAuthenticator(secret []byte) error {
	var target *Attribute
	for _, a := range p.attrs {
		if a.Type() == MessageAuthenticatorType {
			target = a
			break
		}
	}
	if target == nil {
		return nil
	}

	saved := make([]byte, 16)
	copy(saved, target.raw[2:18])
	defer binutil.Zero(saved)

	binutil.Zero(target.raw[2:18])

	bufp := getWorkingBuf()
	defer putWorkingBuf(bufp)

	n, err := p.marshalInto(*bufp)
	if err != nil {
		return fmt.Errorf("recompute message authenticator: %w", err)
	}

	digest := hmacMD5(secret, (*bufp)[:n])
	defer binutil.Zero(digest)
	copy(target.raw[2:18], digest)

	return nil
}

// Marshal serializes the packet's header and attribute region into a
// freshly allocated buffer.
func (p *Packet) Marshal() ([]byte, error) {
	buf := make([]byte, p.DeclaredLength())
	n, err := p.marshalInto(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// marshalInto serializes the packet into buf, which must be at least
// DeclaredLength() bytes.
func (p *Packet) marshalInto(buf []byte) (int, error) {
	total := p.DeclaredLength()
	if len(buf) < total {
		return 0, fmt.Errorf("marshal packet: need %d bytes, have %d: %w", total, len(buf), ErrOutOfRange)
	}

	buf[0] = byte(p.Code)
	buf[1] = p.Identifier
	if err := binutil.PutUint16BE(buf, 2, uint16(total)); err != nil {
		return 0, err
	}
	copy(buf[4:20], p.Authenticator[:])

	off := HeaderSize
	for _, a := range p.attrs {
		copy(buf[off:], a.Bytes())
		off += int(a.Len())
	}

	return total, nil
}

// Parse decodes a received RADIUS datagram. It never panics or returns an
// error: structural validation runs once and Valid is set accordingly; a
// caller must check Valid before trusting any field (spec §4.4, §7
// MalformedPacket).
func Parse(buf []byte) *Packet {
	p := &Packet{}

	if len(buf) < HeaderSize {
		return p
	}

	declared, err := binutil.Uint16BE(buf, 2)
	if err != nil {
		return p
	}
	if int(declared) < HeaderSize || int(declared) > len(buf) || int(declared) > MaxPacketSize {
		return p
	}

	p.Code = registry.Code(buf[0])
	p.Identifier = buf[1]
	copy(p.Authenticator[:], buf[4:20])

	attrs, ok := scanAttributes(buf, int(declared))
	if !ok {
		return p
	}

	p.attrs = attrs
	p.Valid = true
	return p
}

// scanAttributes walks the attribute region [HeaderSize, declaredLength)
// of buf, copying each attribute into an owned Attribute. It returns false
// if the region is not a well-formed sequence of TLVs.
func scanAttributes(buf []byte, declaredLength int) ([]*Attribute, bool) {
	var attrs []*Attribute
	off := HeaderSize
	for off < declaredLength {
		if off+2 > declaredLength {
			return nil, false
		}
		typ := buf[off]
		length := buf[off+1]
		if length < 2 || off+int(length) > declaredLength {
			return nil, false
		}
		attr, err := newAttribute(typ, buf[off+2:off+int(length)])
		if err != nil {
			return nil, false
		}
		attrs = append(attrs, attr)
		off += int(length)
	}
	return attrs, true
}

// FindAttribute performs a non-allocating scan of buf (a raw, possibly
// just-received datagram) using its own declared Length field -- never
// len(buf), to tolerate trailing padding from recv-style APIs -- and
// returns the first attribute of the given Type.
func FindAttribute(buf []byte, typ byte) (*Attribute, bool) {
	declared, ok := declaredLengthOf(buf)
	if !ok {
		return nil, false
	}
	off := HeaderSize
	for off+2 <= declared {
		t := buf[off]
		length := buf[off+1]
		if length < 2 || off+int(length) > declared {
			return nil, false
		}
		if t == typ {
			attr, err := newAttribute(t, buf[off+2:off+int(length)])
			if err != nil {
				return nil, false
			}
			return attr, true
		}
		off += int(length)
	}
	return nil, false
}

// FindAllAttributes returns every attribute of the given Type in buf, in
// wire order, scanning by declared Length as FindAttribute does.
func FindAllAttributes(buf []byte, typ byte) []*Attribute {
	declared, ok := declaredLengthOf(buf)
	if !ok {
		return nil
	}
	var out []*Attribute
	off := HeaderSize
	for off+2 <= declared {
		t := buf[off]
		length := buf[off+1]
		if length < 2 || off+int(length) > declared {
			return out
		}
		if t == typ {
			if attr, err := newAttribute(t, buf[off+2:off+int(length)]); err == nil {
				out = append(out, attr)
			}
		}
		off += int(length)
	}
	return out
}

// TryReadUInt32 scans buf for the first attribute of the given Type and
// decodes its Value as a big-endian uint32.
func TryReadUInt32(buf []byte, typ byte) (uint32, bool) {
	attr, ok := FindAttribute(buf, typ)
	if !ok {
		return 0, false
	}
	v, err := DecodeUint32(attr.Value())
	if err != nil {
		return 0, false
	}
	return v, true
}

// declaredLengthOf reads and sanity-checks buf's Length field, returning
// the smaller of the declared Length and len(buf) so scans never run past
// either bound.
func declaredLengthOf(buf []byte) (int, bool) {
	if len(buf) < HeaderSize {
		return 0, false
	}
	declared, err := binutil.Uint16BE(buf, 2)
	if err != nil || int(declared) < HeaderSize {
		return 0, false
	}
	if int(declared) > len(buf) {
		return len(buf), true
	}
	return int(declared), true
}
