package radius

import "errors"

// Sentinel errors for the attribute, VSA, and packet codecs, matching the
// kinds named in the error taxonomy: InvalidArgument, OutOfRange,
// Unsupported, Overflow, NetworkError. MalformedPacket and
// VerificationFailed are never returned as errors — they are recorded as
// the Packet.Valid flag and as verify-method boolean returns, respectively.
var (
	// ErrInvalidArgument indicates the caller violated a precondition: an
	// empty secret, a wrong-length key, a non-ASCII secret, an undefined
	// enum value, or a negative offset.
	ErrInvalidArgument = errors.New("radius: invalid argument")

	// ErrOutOfRange indicates a payload or field length exceeds the
	// protocol bound: an attribute value over 253 bytes, a packet over
	// 4096 bytes, a prefix length outside its valid range, or a timestamp
	// outside uint32.
	ErrOutOfRange = errors.New("radius: value out of range")

	// ErrUnsupported indicates no defined strategy exists for the given
	// Code, or an unsupported address family was supplied.
	ErrUnsupported = errors.New("radius: unsupported")

	// ErrOverflow indicates an Append or SetMessageAuthenticator call
	// would grow the packet beyond 4096 bytes.
	ErrOverflow = errors.New("radius: packet would exceed 4096 bytes")
)
