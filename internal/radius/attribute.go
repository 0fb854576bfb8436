package radius

import (
	"encoding/hex"
	"fmt"
	"net/netip"
	"time"

	"github.com/lp-radius/goradius/internal/binutil"
	"github.com/lp-radius/goradius/internal/radius/registry"
)

// maxValueLen is the largest Value region a TLV attribute can carry: the
// 1-byte Length field names the whole TLV, so Value tops out at 255-2.
const maxValueLen = 253

// Attribute is a single TLV {Type, Length, Value} triple (spec §3). Every
// Attribute owns its serialization exclusively; Value is a sub-view of that
// same buffer, never an independently allocated copy, and the serialization
// is immutable once constructed.
type Attribute struct {
	raw []byte // Type(1) Length(1) Value(Length-2)
}

// Type returns the attribute's Type byte.
func (a *Attribute) Type() byte { return a.raw[0] }

// Len returns the attribute's Length byte (2 + len(Value)).
func (a *Attribute) Len() byte { return a.raw[1] }

// Value returns a view over the attribute's Value region. Callers must not
// mutate the returned slice.
func (a *Attribute) Value() []byte { return a.raw[2:] }

// Bytes returns the attribute's full wire serialization (Type, Length,
// Value). Callers must not mutate the returned slice.
func (a *Attribute) Bytes() []byte { return a.raw }

// newAttribute builds an Attribute by copying value into a freshly owned
// buffer (the caller's buffer must not be retained, per spec §4.2).
func newAttribute(typ byte, value []byte) (*Attribute, error) {
	if len(value) > maxValueLen {
		return nil, fmt.Errorf("attribute type %d: value %d bytes: %w", typ, len(value), ErrOutOfRange)
	}
	raw := make([]byte, 2+len(value))
	raw[0] = typ
	raw[1] = byte(2 + len(value))
	copy(raw[2:], value)
	return &Attribute{raw: raw}, nil
}

// NewOpaqueAttribute builds an attribute from an opaque byte payload.
func NewOpaqueAttribute(typ byte, value []byte) (*Attribute, error) {
	return newAttribute(typ, value)
}

// NewInt32Attribute builds an attribute whose Value is the 4-byte
// big-endian encoding of a 32-bit signed integer.
func NewInt32Attribute(typ byte, v int32) (*Attribute, error) {
	var buf [4]byte
	_ = binutil.PutUint32BE(buf[:], 0, uint32(v))
	return newAttribute(typ, buf[:])
}

// NewInt64Attribute builds an attribute whose Value is the 8-byte
// big-endian encoding of a 64-bit signed integer.
func NewInt64Attribute(typ byte, v int64) (*Attribute, error) {
	var buf [8]byte
	_ = binutil.PutUint64BE(buf[:], 0, uint64(v))
	return newAttribute(typ, buf[:])
}

// NewTimestampAttribute builds an attribute whose Value is a 32-bit
// Unix timestamp. Fails with ErrOutOfRange if t does not fit in uint32
// seconds-since-epoch (before 1970-01-01 UTC or after 2106-02-07
// 06:28:15 UTC).
func NewTimestampAttribute(typ byte, t time.Time) (*Attribute, error) {
	sec := t.Unix()
	if sec < 0 || sec > int64(^uint32(0)) {
		return nil, fmt.Errorf("timestamp %s out of uint32 range: %w", t, ErrOutOfRange)
	}
	var buf [4]byte
	_ = binutil.PutUint32BE(buf[:], 0, uint32(sec))
	return newAttribute(typ, buf[:])
}

// NewStringAttribute builds an attribute from a UTF-8 string. Fails with
// ErrOutOfRange if the encoded byte length exceeds 253.
func NewStringAttribute(typ byte, s string) (*Attribute, error) {
	return newAttribute(typ, []byte(s))
}

// NewIPAttribute builds an attribute from an IP address: 4 bytes for IPv4,
// 16 bytes for IPv6. Fails with ErrUnsupported for any other family
// (including the zero value).
func NewIPAttribute(typ byte, ip netip.Addr) (*Attribute, error) {
	if !ip.IsValid() {
		return nil, fmt.Errorf("invalid IP address: %w", ErrUnsupported)
	}
	if ip.Is4() || ip.Is4In6() {
		v4 := ip.As4()
		return newAttribute(typ, v4[:])
	}
	if ip.Is6() {
		v6 := ip.As16()
		return newAttribute(typ, v6[:])
	}
	return nil, fmt.Errorf("unsupported address family: %w", ErrUnsupported)
}

// NewIPv4PrefixAttribute builds an RFC 8044 §3.9 IPv4 prefix attribute:
// {reserved(1)=0, prefixLen(1), masked address(4)}. Host bits below
// prefixLen are zeroed before encoding. prefixLen must be in [0, 32].
func NewIPv4PrefixAttribute(typ byte, addr netip.Addr, prefixLen int) (*Attribute, error) {
	if prefixLen < 0 || prefixLen > 32 {
		return nil, fmt.Errorf("IPv4 prefix length %d: %w", prefixLen, ErrOutOfRange)
	}
	if !addr.Is4() {
		return nil, fmt.Errorf("IPv4 prefix requires an IPv4 address: %w", ErrUnsupported)
	}

	masked := maskAddressBits(addr.AsSlice(), prefixLen)
	value := make([]byte, 2+4)
	value[0] = 0
	value[1] = byte(prefixLen)
	copy(value[2:], masked)
	return newAttribute(typ, value)
}

// NewIPv6PrefixAttribute builds an RFC 3162 §2.3 / RFC 8044 §3.8 IPv6
// prefix attribute: {reserved(1)=0, prefixLen(1), ceil(prefixLen/8) bytes
// of masked address}. Host bits strictly beyond prefixLen are zeroed.
// prefixLen must be in [0, 128].
func NewIPv6PrefixAttribute(typ byte, addr netip.Addr, prefixLen int) (*Attribute, error) {
	if prefixLen < 0 || prefixLen > 128 {
		return nil, fmt.Errorf("IPv6 prefix length %d: %w", prefixLen, ErrOutOfRange)
	}
	if !addr.Is6() || addr.Is4In6() {
		return nil, fmt.Errorf("IPv6 prefix requires an IPv6 address: %w", ErrUnsupported)
	}

	addrBytes := addr.As16()
	masked := maskAddressBits(addrBytes[:], prefixLen)
	nbytes := (prefixLen + 7) / 8
	value := make([]byte, 2+nbytes)
	value[0] = 0
	value[1] = byte(prefixLen)
	copy(value[2:], masked[:nbytes])
	return newAttribute(typ, value)
}

// maskAddressBits returns a copy of addrBytes with every bit at position
// >= prefixLen cleared.
func maskAddressBits(addrBytes []byte, prefixLen int) []byte {
	out := make([]byte, len(addrBytes))
	copy(out, addrBytes)
	for i := range out {
		bitOffset := i * 8
		switch {
		case bitOffset+8 <= prefixLen:
			// fully inside the prefix, keep as-is
		case bitOffset >= prefixLen:
			out[i] = 0
		default:
			keep := prefixLen - bitOffset
			mask := byte(0xFF << (8 - keep))
			out[i] &= mask
		}
	}
	return out
}

// DecodeString renders an attribute's Value as a UTF-8 string.
func DecodeString(v []byte) string { return string(v) }

// DecodeUint32 reads an attribute's Value as a big-endian uint32.
func DecodeUint32(v []byte) (uint32, error) {
	return binutil.Uint32BE(v, 0)
}

// DecodeUint64 reads an attribute's Value as a big-endian uint64.
func DecodeUint64(v []byte) (uint64, error) {
	return binutil.Uint64BE(v, 0)
}

// DecodeAddress reads an attribute's Value as an IPv4 (4 byte) or IPv6
// (16 byte) address.
func DecodeAddress(v []byte) (netip.Addr, error) {
	switch len(v) {
	case 4:
		return netip.AddrFrom4([4]byte(v)), nil
	case 16:
		return netip.AddrFrom16([16]byte(v)), nil
	default:
		return netip.Addr{}, fmt.Errorf("address value is %d bytes: %w", len(v), ErrUnsupported)
	}
}

// DecodeTimestamp reads an attribute's Value as a 32-bit Unix timestamp.
func DecodeTimestamp(v []byte) (time.Time, error) {
	sec, err := binutil.Uint32BE(v, 0)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(sec), 0).UTC(), nil
}

// TaggedTunnelValue is the decoded form of a tagged tunnel attribute
// (RFC 2868 §3.1-3.2): an optional grouping Tag and a 3-byte code.
type TaggedTunnelValue struct {
	// HasTag reports whether the value region carried a Tag byte (the
	// 4-byte inbound shape) as opposed to the bare 3-byte outbound shape.
	HasTag bool
	Tag    byte
	Code   uint32
}

// DecodeTaggedTunnel reads a tagged tunnel attribute's Value. If the
// region is 4 bytes it includes a leading Tag byte and the 3-byte code
// follows; if 3 bytes (the outbound shape) the code is read from offset 0.
func DecodeTaggedTunnel(v []byte) (TaggedTunnelValue, error) {
	switch len(v) {
	case 4:
		code, err := binutil.Uint24BE(v, 1)
		if err != nil {
			return TaggedTunnelValue{}, err
		}
		return TaggedTunnelValue{HasTag: true, Tag: v[0], Code: code}, nil
	case 3:
		code, err := binutil.Uint24BE(v, 0)
		if err != nil {
			return TaggedTunnelValue{}, err
		}
		return TaggedTunnelValue{HasTag: false, Code: code}, nil
	default:
		return TaggedTunnelValue{}, fmt.Errorf("tagged tunnel value is %d bytes: %w", len(v), ErrUnsupported)
	}
}

// PrefixValue is the decoded form of an IPv4/IPv6 prefix attribute.
type PrefixValue struct {
	PrefixLen int
	Addr      netip.Addr
}

// DecodeIPv4Prefix reads an RFC 8044 §3.9 IPv4 prefix attribute's Value.
func DecodeIPv4Prefix(v []byte) (PrefixValue, error) {
	if len(v) != 6 {
		return PrefixValue{}, fmt.Errorf("IPv4 prefix value is %d bytes, want 6: %w", len(v), ErrUnsupported)
	}
	prefixLen := int(v[1])
	if prefixLen > 32 {
		return PrefixValue{}, fmt.Errorf("IPv4 prefix length %d: %w", prefixLen, ErrOutOfRange)
	}
	addr := netip.AddrFrom4([4]byte(v[2:6]))
	return PrefixValue{PrefixLen: prefixLen, Addr: addr}, nil
}

// DecodeIPv6Prefix reads an RFC 3162 §2.3 / RFC 8044 §3.8 IPv6 prefix
// attribute's Value.
func DecodeIPv6Prefix(v []byte) (PrefixValue, error) {
	if len(v) < 2 {
		return PrefixValue{}, fmt.Errorf("IPv6 prefix value is %d bytes: %w", len(v), ErrUnsupported)
	}
	prefixLen := int(v[1])
	if prefixLen > 128 {
		return PrefixValue{}, fmt.Errorf("IPv6 prefix length %d: %w", prefixLen, ErrOutOfRange)
	}
	nbytes := (prefixLen + 7) / 8
	if len(v) != 2+nbytes {
		return PrefixValue{}, fmt.Errorf("IPv6 prefix value is %d bytes, want %d: %w", len(v), 2+nbytes, ErrUnsupported)
	}
	var full [16]byte
	copy(full[:], v[2:])
	return PrefixValue{PrefixLen: prefixLen, Addr: netip.AddrFrom16(full)}, nil
}

// DecodeOpaque renders an attribute's Value as a hex dump, the fallback
// rendering for unknown or binary Types.
func DecodeOpaque(v []byte) string {
	return hex.EncodeToString(v)
}

// RenderValue renders an attribute's Value as a display string according
// to category, dispatching to the typed decoders above. It never mutates
// the attribute's buffer. Malformed values for a category fall back to the
// opaque hex rendering rather than erroring, since display rendering must
// never fail a caller holding an otherwise-valid packet.
func RenderValue(category registry.ValueCategory, v []byte) string {
	switch category {
	case registry.CategoryString:
		return DecodeString(v)
	case registry.CategoryInteger:
		if n, err := DecodeUint32(v); err == nil {
			return fmt.Sprintf("%d", n)
		}
	case registry.CategoryInteger64:
		if n, err := DecodeUint64(v); err == nil {
			return fmt.Sprintf("%d", n)
		}
	case registry.CategoryAddress:
		if addr, err := DecodeAddress(v); err == nil {
			return addr.String()
		}
	case registry.CategoryDate:
		if t, err := DecodeTimestamp(v); err == nil {
			return t.Format(time.RFC3339)
		}
	case registry.CategoryTaggedTunnel:
		if tv, err := DecodeTaggedTunnel(v); err == nil {
			return fmt.Sprintf("tag=%d code=%d", tv.Tag, tv.Code)
		}
	case registry.CategoryIPv4Prefix:
		if pv, err := DecodeIPv4Prefix(v); err == nil {
			return fmt.Sprintf("%s/%d", pv.Addr, pv.PrefixLen)
		}
	case registry.CategoryIPv6Prefix:
		if pv, err := DecodeIPv6Prefix(v); err == nil {
			return fmt.Sprintf("%s/%d", pv.Addr, pv.PrefixLen)
		}
	}
	return DecodeOpaque(v)
}
