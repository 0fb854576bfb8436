// Package registry carries the RADIUS protocol's fixed, mechanical data: the
// packet Code space (RFC 2865, 2866, 5176, 7930, and the commonly-cited
// Livingston/Ascend extensions), the attribute Type -> value-category table
// (standard Types 1-190 plus RFC 6929 extended Types 241-246), and the named
// enumerations associated with specific attribute Types (Service-Type,
// NAS-Port-Type, Acct-Status-Type, Acct-Terminate-Cause, Tunnel-Type,
// Tunnel-Medium-Type, Error-Cause). The registry is data, not code.
package registry

import "fmt"

// unknownFmt is the fallback format for values with no name in a table.
const unknownFmt = "Unknown(%d)"

// Code identifies a RADIUS packet's type (RFC 2865 §3, plus RFC 2866, 5176).
type Code uint8

// Packet Codes (RFC 2865 §3, RFC 2866 §3, RFC 5176 §3, RFC 5997).
const (
	CodeAccessRequest      Code = 1
	CodeAccessAccept       Code = 2
	CodeAccessReject       Code = 3
	CodeAccountingRequest  Code = 4
	CodeAccountingResponse Code = 5
	CodeAccessChallenge    Code = 11
	CodeStatusServer       Code = 12
	CodeStatusClient       Code = 13
	CodeDisconnectRequest  Code = 40
	CodeDisconnectACK      Code = 41
	CodeDisconnectNAK      Code = 42
	CodeCoARequest         Code = 43
	CodeCoAACK             Code = 44
	CodeCoANAK             Code = 45
	CodeReserved           Code = 255
)

var codeNames = map[Code]string{
	CodeAccessRequest:      "Access-Request",
	CodeAccessAccept:       "Access-Accept",
	CodeAccessReject:       "Access-Reject",
	CodeAccountingRequest:  "Accounting-Request",
	CodeAccountingResponse: "Accounting-Response",
	CodeAccessChallenge:    "Access-Challenge",
	CodeStatusServer:       "Status-Server",
	CodeStatusClient:       "Status-Client",
	CodeDisconnectRequest:  "Disconnect-Request",
	CodeDisconnectACK:      "Disconnect-ACK",
	CodeDisconnectNAK:      "Disconnect-NAK",
	CodeCoARequest:         "CoA-Request",
	CodeCoAACK:             "CoA-ACK",
	CodeCoANAK:             "CoA-NAK",
	CodeReserved:           "Reserved",
}

// String returns the human-readable name for the packet Code, or
// "Unknown(%d)" for a Code the registry does not carry.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf(unknownFmt, uint8(c))
}

// IsValid reports whether c falls in the Code space this registry covers
// (1-52 per spec, though only the commonly deployed subset is named above).
func (c Code) IsValid() bool {
	return c >= 1 && c <= 52
}
