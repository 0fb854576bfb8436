package radius

import (
	"crypto/md5" //nolint:gosec // G501: MD5 required by RFC 2865 §5.2, RFC 2868 §3.5
	"fmt"

	"github.com/lp-radius/goradius/internal/binutil"
)

// EncodePAP obfuscates a User-Password value per RFC 2865 §5.2: the
// password is padded to a multiple of 16 bytes with trailing zeros, then
// XORed against a chain of MD5 digests seeded with the request
// Authenticator: b1 = MD5(secret||Authenticator), bn = MD5(secret||c(n-1)).
// password and the working copy are zeroed before return on every path.
func EncodePAP(password, secret, requestAuthenticator []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("encode PAP: empty secret: %w", ErrInvalidArgument)
	}
	if len(requestAuthenticator) != 16 {
		return nil, fmt.Errorf("encode PAP: request authenticator must be 16 bytes: %w", ErrInvalidArgument)
	}
	if len(password) > maxValueLen {
		return nil, fmt.Errorf("encode PAP: password %d bytes: %w", len(password), ErrOutOfRange)
	}

	padded := padTo16(password)
	defer binutil.Zero(padded)

	out := make([]byte, len(padded))
	prev := requestAuthenticator
	for i := 0; i < len(padded); i += 16 {
		block := hashWithSecret(prev, secret)[:16]
		for j := 0; j < 16; j++ {
			out[i+j] = padded[i+j] ^ block[j]
		}
		binutil.Zero(block)
		prev = out[i : i+16]
	}

	return out, nil
}

// DecodePAP reverses EncodePAP, then strips trailing zero padding. Per the
// accepted ambiguity (spec §9 Open Questions), a password whose plaintext
// genuinely ends in 0x00 bytes loses them; this matches RFC 2865's own
// obfuscation scheme, which carries no explicit length field.
func DecodePAP(encoded, secret, requestAuthenticator []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("decode PAP: empty secret: %w", ErrInvalidArgument)
	}
	if len(encoded) == 0 || len(encoded)%16 != 0 {
		return nil, fmt.Errorf("decode PAP: encoded value must be a non-zero multiple of 16 bytes: %w", ErrInvalidArgument)
	}
	if len(requestAuthenticator) != 16 {
		return nil, fmt.Errorf("decode PAP: request authenticator must be 16 bytes: %w", ErrInvalidArgument)
	}

	out := make([]byte, len(encoded))
	prev := requestAuthenticator
	for i := 0; i < len(encoded); i += 16 {
		block := hashWithSecret(prev, secret)[:16]
		for j := 0; j < 16; j++ {
			out[i+j] = encoded[i+j] ^ block[j]
		}
		binutil.Zero(block)
		prev = encoded[i : i+16]
	}

	n := len(out)
	for n > 0 && out[n-1] == 0 {
		n--
	}
	trimmed := make([]byte, n)
	copy(trimmed, out[:n])
	binutil.Zero(out)

	return trimmed, nil
}

// padTo16 returns password padded with trailing zeros to the next multiple
// of 16 (minimum 16), per RFC 2865 §5.2.
func padTo16(password []byte) []byte {
	n := len(password)
	padded := 16
	if n > 0 {
		padded = ((n + 15) / 16) * 16
	}
	out := make([]byte, padded)
	copy(out, password)
	return out
}

// chapResponseLen is CHAP-Password's fixed wire length: Identifier(1) +
// MD5 digest(16).
const chapResponseLen = 17

// EncodeCHAPResponse builds a CHAP-Password value per RFC 2865 §5.3:
// {chapID, MD5(chapID || password || challenge)}. password and challenge
// must both be non-empty, matching the codec's other construction
// contracts (e.g. attribute.go's opaque/string/IP constructors).
func EncodeCHAPResponse(chapID byte, password, challenge []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("encode CHAP response: empty password: %w", ErrInvalidArgument)
	}
	if len(challenge) == 0 {
		return nil, fmt.Errorf("encode CHAP response: empty challenge: %w", ErrInvalidArgument)
	}

	h := md5.New() //nolint:gosec // G401: MD5 required by RFC 2865 §5.3
	h.Write([]byte{chapID})
	h.Write(password)
	h.Write(challenge)
	digest := h.Sum(nil)

	out := make([]byte, chapResponseLen)
	out[0] = chapID
	copy(out[1:], digest)
	binutil.Zero(digest)
	return out, nil
}

// VerifyCHAPResponse reports whether response (as produced by
// EncodeCHAPResponse) matches password under challenge, using a
// constant-time comparison of the digest. Returns false, not an error, on
// any structural problem, matching the other Verify* functions in this
// file.
func VerifyCHAPResponse(response, password, challenge []byte) bool {
	if len(response) != chapResponseLen {
		return false
	}
	expected, err := EncodeCHAPResponse(response[0], password, challenge)
	if err != nil {
		return false
	}
	defer binutil.Zero(expected)
	return binutil.ConstantTimeEqual(response, expected)
}

// tunnelPasswordSaltLen is the 2-byte salt prefix of a Tunnel-Password
// value (RFC 2868 §3.5); its top bit must be 1.
const tunnelPasswordSaltLen = 2

// EncodeTunnelPassword obfuscates a Tunnel-Password value per RFC 2868
// §3.5: {salt(2, high bit set), lengthPrefixedPlaintext obfuscated in
// 16-byte blocks chained from MD5(secret||Authenticator||salt)}.
func EncodeTunnelPassword(password, secret, requestAuthenticator, salt []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("encode tunnel password: empty secret: %w", ErrInvalidArgument)
	}
	if len(requestAuthenticator) != 16 {
		return nil, fmt.Errorf("encode tunnel password: request authenticator must be 16 bytes: %w", ErrInvalidArgument)
	}
	if len(salt) != tunnelPasswordSaltLen || salt[0]&0x80 == 0 {
		return nil, fmt.Errorf("encode tunnel password: salt must be 2 bytes with the high bit set: %w", ErrInvalidArgument)
	}
	if len(password) > 253 {
		return nil, fmt.Errorf("encode tunnel password: password %d bytes: %w", len(password), ErrOutOfRange)
	}

	plain := make([]byte, 1+len(password))
	plain[0] = byte(len(password))
	copy(plain[1:], password)

	block0Len := 16 - (len(plain) % 16)
	if block0Len == 16 {
		block0Len = 0
	}
	padded := make([]byte, len(plain)+block0Len)
	copy(padded, plain)
	binutil.Zero(plain)
	defer binutil.Zero(padded)

	out := make([]byte, tunnelPasswordSaltLen+len(padded))
	copy(out[:2], salt)

	prev := hashFromSeed(secret, requestAuthenticator, salt)
	for i := 0; i < len(padded); i += 16 {
		for j := 0; j < 16; j++ {
			out[tunnelPasswordSaltLen+i+j] = padded[i+j] ^ prev[j]
		}
		binutil.Zero(prev)
		prev = hashWithSecret(out[tunnelPasswordSaltLen+i:tunnelPasswordSaltLen+i+16], secret)
	}
	binutil.Zero(prev)

	return out, nil
}

// DecodeTunnelPassword reverses EncodeTunnelPassword, returning the
// original plaintext password with its length prefix stripped.
func DecodeTunnelPassword(encoded, secret, requestAuthenticator []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("decode tunnel password: empty secret: %w", ErrInvalidArgument)
	}
	if len(requestAuthenticator) != 16 {
		return nil, fmt.Errorf("decode tunnel password: request authenticator must be 16 bytes: %w", ErrInvalidArgument)
	}
	if len(encoded) < tunnelPasswordSaltLen+16 || (len(encoded)-tunnelPasswordSaltLen)%16 != 0 {
		return nil, fmt.Errorf("decode tunnel password: malformed value length %d: %w", len(encoded), ErrInvalidArgument)
	}

	salt := encoded[:tunnelPasswordSaltLen]
	cipher := encoded[tunnelPasswordSaltLen:]

	plain := make([]byte, len(cipher))
	prev := hashFromSeed(secret, requestAuthenticator, salt)
	for i := 0; i < len(cipher); i += 16 {
		for j := 0; j < 16; j++ {
			plain[i+j] = cipher[i+j] ^ prev[j]
		}
		binutil.Zero(prev)
		prev = hashWithSecret(cipher[i:i+16], secret)
	}
	binutil.Zero(prev)
	defer binutil.Zero(plain)

	if len(plain) == 0 {
		return nil, fmt.Errorf("decode tunnel password: empty plaintext: %w", ErrInvalidArgument)
	}
	declared := int(plain[0])
	if declared > len(plain)-1 {
		return nil, fmt.Errorf("decode tunnel password: declared length %d exceeds plaintext %d: %w",
			declared, len(plain)-1, ErrOutOfRange)
	}

	out := make([]byte, declared)
	copy(out, plain[1:1+declared])
	return out, nil
}

// hashFromSeed computes MD5(secret || requestAuthenticator || salt), the
// first-block key stream seed for Tunnel-Password (RFC 2868 §3.5).
func hashFromSeed(secret, requestAuthenticator, salt []byte) []byte {
	h := md5.New() //nolint:gosec // G401: MD5 required by RFC 2868 §3.5
	h.Write(secret)
	h.Write(requestAuthenticator)
	h.Write(salt)
	return h.Sum(nil)
}

// VerifyMessageAuthenticator recomputes the HMAC-MD5 over a received
// datagram (its Message-Authenticator value zeroed for the computation, as
// it was when the sender signed it) and compares it in constant time
// against the value actually on the wire. Returns false, not an error, on
// any structural problem -- a missing or malformed Message-Authenticator
// attribute is a verification failure, never an exception (spec §7).
func VerifyMessageAuthenticator(buf []byte, secret []byte) bool {
	if len(secret) == 0 {
		return false
	}
	attr, ok := FindAttribute(buf, MessageAuthenticatorType)
	if !ok || attr.Len() != messageAuthenticatorLen {
		return false
	}

	declared, ok := declaredLengthOf(buf)
	if !ok || declared > len(buf) {
		return false
	}

	work := make([]byte, declared)
	copy(work, buf[:declared])
	defer binutil.Zero(work)

	maOff, found := offsetOfAttribute(work, declared, MessageAuthenticatorType)
	if !found {
		return false
	}
	received := make([]byte, 16)
	copy(received, work[maOff+2:maOff+2+16])
	defer binutil.Zero(received)

	binutil.Zero(work[maOff+2 : maOff+2+16])
	digest := hmacMD5(secret, work)
	defer binutil.Zero(digest)

	return binutil.ConstantTimeEqual(received, digest)
}

// offsetOfAttribute returns the byte offset of the first attribute of the
// given Type within buf[:declared].
func offsetOfAttribute(buf []byte, declared int, typ byte) (int, bool) {
	off := HeaderSize
	for off+2 <= declared {
		t := buf[off]
		length := buf[off+1]
		if length < 2 || off+int(length) > declared {
			return 0, false
		}
		if t == typ {
			return off, true
		}
		off += int(length)
	}
	return 0, false
}

// VerifyResponseAuthenticator recomputes a reply-Code Authenticator
// (Access-Accept/Reject/Challenge, Accounting-Response, Disconnect/CoA
// ACK/NAK) given the original request's Authenticator, then compares it in
// constant time against the Authenticator on the wire in response.
func VerifyResponseAuthenticator(response, requestAuthenticator, secret []byte) bool {
	if len(secret) == 0 || len(requestAuthenticator) != 16 {
		return false
	}
	declared, ok := declaredLengthOf(response)
	if !ok || declared > len(response) || declared < HeaderSize {
		return false
	}

	work := make([]byte, declared)
	copy(work, response[:declared])
	defer binutil.Zero(work)

	actual := make([]byte, 16)
	copy(actual, work[4:20])
	defer binutil.Zero(actual)

	copy(work[4:20], requestAuthenticator)
	expected := hashWithSecret(work, secret)
	defer binutil.Zero(expected)

	return binutil.ConstantTimeEqual(actual, expected)
}

// VerifyRequestAuthenticator recomputes a request-Code Authenticator
// (Accounting-Request, CoA-Request, Disconnect-Request) with the
// Authenticator field zeroed, then compares it in constant time against
// the Authenticator actually on the wire in buf.
func VerifyRequestAuthenticator(buf, secret []byte) bool {
	if len(secret) == 0 {
		return false
	}
	declared, ok := declaredLengthOf(buf)
	if !ok || declared > len(buf) || declared < HeaderSize {
		return false
	}

	work := make([]byte, declared)
	copy(work, buf[:declared])
	defer binutil.Zero(work)

	actual := make([]byte, 16)
	copy(actual, work[4:20])
	defer binutil.Zero(actual)

	for i := 4; i < 20; i++ {
		work[i] = 0
	}
	expected := hashWithSecret(work, secret)
	defer binutil.Zero(expected)

	return binutil.ConstantTimeEqual(actual, expected)
}
