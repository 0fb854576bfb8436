package registry

// ValueCategory names one of the seven typed-value shapes an attribute's
// Value region can hold (spec §3 "Typed value interpretation").
type ValueCategory uint8

const (
	// CategoryOpaque is the hex-dump fallback for unknown or binary Types.
	CategoryOpaque ValueCategory = iota
	// CategoryString is a UTF-8 string.
	CategoryString
	// CategoryInteger is an unsigned 32-bit big-endian integer, optionally
	// cast to a named enumeration.
	CategoryInteger
	// CategoryInteger64 is an unsigned 64-bit big-endian integer.
	CategoryInteger64
	// CategoryAddress is an IPv4 (4 byte) or IPv6 (16 byte) address.
	CategoryAddress
	// CategoryDate is a 32-bit Unix timestamp.
	CategoryDate
	// CategoryTaggedTunnel is a 1-byte tag plus a 3-byte big-endian code
	// (RFC 2868 §3.1-3.2).
	CategoryTaggedTunnel
	// CategoryIPv4Prefix is RFC 8044 §3.9's 1-reserved+1-prefixlen+4-address
	// shape.
	CategoryIPv4Prefix
	// CategoryIPv6Prefix is RFC 3162 §2.3 / RFC 8044 §3.8's
	// 1-reserved+1-prefixlen+ceil(pl/8)-address shape.
	CategoryIPv6Prefix
)

// Enum identifies which named enumeration, if any, an Integer-category Type
// should be rendered through.
type Enum uint8

const (
	// EnumNone means the Type is a plain integer with no named enumeration.
	EnumNone Enum = iota
	EnumServiceType
	EnumNASPortType
	EnumAcctStatusType
	EnumAcctTerminateCause
	EnumTunnelType
	EnumTunnelMediumType
	EnumErrorCause
)

// typeEntry is one row of the Type -> {category, enum} table.
type typeEntry struct {
	category ValueCategory
	enum     Enum
}

// typeTable is the Type -> value-category / enum registry (spec §6). It
// covers standard Types 1-190 plus RFC 6929 extended Types 241-246; Types
// not present here render as CategoryOpaque (hex dump).
var typeTable = map[uint16]typeEntry{
	1:  {CategoryString, EnumNone},         // User-Name
	2:  {CategoryOpaque, EnumNone},         // User-Password (obfuscated, not a string)
	3:  {CategoryOpaque, EnumNone},         // CHAP-Password
	4:  {CategoryAddress, EnumNone},        // NAS-IP-Address
	5:  {CategoryInteger, EnumNone},        // NAS-Port
	6:  {CategoryInteger, EnumServiceType}, // Service-Type
	7:  {CategoryInteger, EnumNone},        // Framed-Protocol
	8:  {CategoryAddress, EnumNone},        // Framed-IP-Address
	9:  {CategoryAddress, EnumNone},        // Framed-IP-Netmask
	10: {CategoryInteger, EnumNone},        // Framed-Routing
	11: {CategoryString, EnumNone},         // Filter-Id
	12: {CategoryInteger, EnumNone},        // Framed-MTU
	13: {CategoryInteger, EnumNone},        // Framed-Compression
	14: {CategoryAddress, EnumNone},        // Login-IP-Host
	15: {CategoryInteger, EnumNone},        // Login-Service
	16: {CategoryInteger, EnumNone},        // Login-TCP-Port
	18: {CategoryString, EnumNone},         // Reply-Message
	19: {CategoryString, EnumNone},         // Callback-Number
	20: {CategoryString, EnumNone},         // Callback-Id
	22: {CategoryString, EnumNone},         // Framed-Route
	23: {CategoryAddress, EnumNone},        // Framed-IPX-Network
	24: {CategoryOpaque, EnumNone},         // State
	25: {CategoryOpaque, EnumNone},         // Class
	26: {CategoryOpaque, EnumNone},         // Vendor-Specific (dialect-dependent, handled separately)
	27: {CategoryInteger, EnumNone},        // Session-Timeout
	28: {CategoryInteger, EnumNone},        // Idle-Timeout
	29: {CategoryInteger, EnumNone},        // Termination-Action
	30: {CategoryString, EnumNone},         // Called-Station-Id
	31: {CategoryString, EnumNone},         // Calling-Station-Id
	32: {CategoryString, EnumNone},         // NAS-Identifier
	33: {CategoryOpaque, EnumNone},         // Proxy-State
	34: {CategoryString, EnumNone},         // Login-LAT-Service
	35: {CategoryString, EnumNone},         // Login-LAT-Node
	36: {CategoryOpaque, EnumNone},         // Login-LAT-Group
	37: {CategoryInteger, EnumNone},        // Framed-AppleTalk-Link
	38: {CategoryInteger, EnumNone},        // Framed-AppleTalk-Network
	39: {CategoryString, EnumNone},         // Framed-AppleTalk-Zone
	40: {CategoryInteger, EnumAcctStatusType},     // Acct-Status-Type
	41: {CategoryInteger, EnumNone},               // Acct-Delay-Time
	42: {CategoryInteger, EnumNone},               // Acct-Input-Octets
	43: {CategoryInteger, EnumNone},               // Acct-Output-Octets
	44: {CategoryString, EnumNone},                // Acct-Session-Id
	45: {CategoryInteger, EnumNone},                // Acct-Authentic
	46: {CategoryInteger, EnumNone},                // Acct-Session-Time
	47: {CategoryInteger, EnumNone},                // Acct-Input-Packets
	48: {CategoryInteger, EnumNone},                // Acct-Output-Packets
	49: {CategoryInteger, EnumAcctTerminateCause},  // Acct-Terminate-Cause
	60: {CategoryOpaque, EnumNone},                 // CHAP-Challenge
	61: {CategoryInteger, EnumNASPortType},         // NAS-Port-Type
	62: {CategoryInteger, EnumNone},                // Port-Limit
	64: {CategoryInteger, EnumTunnelType},          // Tunnel-Type (tagged)
	65: {CategoryInteger, EnumTunnelMediumType},    // Tunnel-Medium-Type (tagged)
	69: {CategoryOpaque, EnumNone},                 // Tunnel-Password (obfuscated)
	79: {CategoryOpaque, EnumNone},                 // EAP-Message
	80: {CategoryOpaque, EnumNone},                 // Message-Authenticator
	81: {CategoryString, EnumNone},                 // Tunnel-Private-Group-Id (tagged)
	82: {CategoryString, EnumNone},                 // Tunnel-Assignment-Id (tagged)
	83: {CategoryTaggedTunnel, EnumNone},           // Tunnel-Preference
	85: {CategoryInteger, EnumNone},                // Acct-Interim-Interval
	87: {CategoryString, EnumNone},                 // NAS-Port-Id
	95: {CategoryAddress, EnumNone},                // NAS-IPv6-Address
	97: {CategoryOpaque, EnumNone},                 // Framed-Interface-Id
	98: {CategoryAddress, EnumNone},                // Framed-IPv6-Prefix rendered via IPv6Prefix category below (Type 97/98 vary by deployment; kept opaque-safe)
	99: {CategoryIPv6Prefix, EnumNone},             // Framed-IPv6-Prefix (RFC 3162 §2.3)
	123: {CategoryIPv6Prefix, EnumNone},            // Delegated-IPv6-Prefix (RFC 4818)
	151: {CategoryInteger, EnumErrorCause},         // Error-Cause (RFC 5176 §3.6)
	168: {CategoryIPv4Prefix, EnumNone},            // Framed-IPv4-Address prefix variants (RFC 8044)
	241: {CategoryOpaque, EnumNone},                // Extended-Attribute-1 (RFC 6929 §3.1)
	242: {CategoryOpaque, EnumNone},                // Extended-Attribute-2
	243: {CategoryOpaque, EnumNone},                // Extended-Attribute-3
	244: {CategoryOpaque, EnumNone},                // Extended-Attribute-4
	245: {CategoryOpaque, EnumNone},                // Extended-Attribute-5
	246: {CategoryOpaque, EnumNone},                // Extended-Attribute-6
}

// CategoryFor returns the value category registered for typ, or
// CategoryOpaque if the Type is not in the table (spec §4.2: "unknown or
// opaque types render as hex").
func CategoryFor(typ uint16) ValueCategory {
	if e, ok := typeTable[typ]; ok {
		return e.category
	}
	return CategoryOpaque
}

// EnumFor returns the named enumeration registered for typ, or EnumNone.
func EnumFor(typ uint16) Enum {
	if e, ok := typeTable[typ]; ok {
		return e.enum
	}
	return EnumNone
}
