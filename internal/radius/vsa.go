package radius

import (
	"fmt"

	"github.com/lp-radius/goradius/internal/binutil"
)

// VendorSpecificType is the RADIUS attribute Type that carries a
// Vendor-Specific Attribute container (RFC 2865 §5.26).
const VendorSpecificType byte = 26

// VSADialect names one of the nine vendor sub-attribute wire-format
// dialects (spec §4.3). The dialect is not self-describing on the wire;
// callers must supply it both when encoding and when parsing.
type VSADialect uint8

const (
	DialectT1L1  VSADialect = iota // Type(1) Length(1)
	DialectT1L0                    // Type(1)
	DialectT1L1C                   // Type(1) Length(1) Continuation(1)
	DialectT2L1                    // Type(2) Length(1)
	DialectT2L0                    // Type(2)
	DialectT2L2                    // Type(2) Length(2)
	DialectT4L1                    // Type(4) Length(1)
	DialectT4L0                    // Type(4)
	DialectT4L2                    // Type(4) Length(2)
)

var dialectNames = [...]string{
	"T1L1", "T1L0", "T1L1C", "T2L1", "T2L0", "T2L2", "T4L1", "T4L0", "T4L2",
}

func (d VSADialect) String() string {
	if int(d) < len(dialectNames) {
		return dialectNames[d]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(d))
}

// dialectShape describes one dialect's sub-header layout in bytes.
type dialectShape struct {
	typeBytes         int
	lengthBytes       int
	hasContinuation   bool
}

var dialectShapes = map[VSADialect]dialectShape{
	DialectT1L1:  {typeBytes: 1, lengthBytes: 1},
	DialectT1L0:  {typeBytes: 1, lengthBytes: 0},
	DialectT1L1C: {typeBytes: 1, lengthBytes: 1, hasContinuation: true},
	DialectT2L1:  {typeBytes: 2, lengthBytes: 1},
	DialectT2L0:  {typeBytes: 2, lengthBytes: 0},
	DialectT2L2:  {typeBytes: 2, lengthBytes: 2},
	DialectT4L1:  {typeBytes: 4, lengthBytes: 1},
	DialectT4L0:  {typeBytes: 4, lengthBytes: 0},
	DialectT4L2:  {typeBytes: 4, lengthBytes: 2},
}

// VendorSubAttribute is the decoded form of a vendor sub-attribute nested
// inside a Type-26 container.
type VendorSubAttribute struct {
	VendorID        uint32
	SubType         uint32
	HasContinuation bool
	Continuation    byte // high bit 0x80 means "more fragments follow" (T1L1C only)
	Data            []byte
}

// outerOverhead is the RADIUS TLV header (2 bytes) plus the 4-byte VendorId
// that precedes every vendor sub-attribute.
const outerOverhead = 2 + 4

// EncodeVSA builds a Type-26 attribute wrapping a single vendor
// sub-attribute in the given dialect (spec §4.3). continuation is ignored
// unless dialect is DialectT1L1C.
func EncodeVSA(vendorID uint32, dialect VSADialect, subType uint32, continuation byte, data []byte) (*Attribute, error) {
	shape, ok := dialectShapes[dialect]
	if !ok {
		return nil, fmt.Errorf("vendor sub-attribute: %w", ErrUnsupported)
	}

	subHeaderLen := shape.typeBytes + shape.lengthBytes
	if shape.hasContinuation {
		subHeaderLen++
	}

	maxData := maxValueLen - outerOverhead - subHeaderLen
	if len(data) > maxData {
		return nil, fmt.Errorf("vendor sub-attribute data %d bytes exceeds %d for dialect %s: %w",
			len(data), maxData, dialect, ErrOutOfRange)
	}

	value := make([]byte, 4+subHeaderLen+len(data))
	if err := binutil.PutUint32BE(value, 0, vendorID); err != nil {
		return nil, err
	}

	off := 4
	switch shape.typeBytes {
	case 1:
		value[off] = byte(subType)
	case 2:
		if err := binutil.PutUint16BE(value, off, uint16(subType)); err != nil {
			return nil, err
		}
	case 4:
		if err := binutil.PutUint32BE(value, off, subType); err != nil {
			return nil, err
		}
	}
	off += shape.typeBytes

	subTotal := subHeaderLen + len(data)
	switch shape.lengthBytes {
	case 1:
		value[off] = byte(subTotal)
	case 2:
		if err := binutil.PutUint16BE(value, off, uint16(subTotal)); err != nil {
			return nil, err
		}
	}
	off += shape.lengthBytes

	if shape.hasContinuation {
		value[off] = continuation
		off++
	}

	copy(value[off:], data)

	return newAttribute(VendorSpecificType, value)
}

// DecodeVSA parses a vendor sub-attribute out of a Type-26 attribute's
// Value region, in the caller-supplied dialect.
func DecodeVSA(attr *Attribute, dialect VSADialect) (*VendorSubAttribute, error) {
	shape, ok := dialectShapes[dialect]
	if !ok {
		return nil, fmt.Errorf("vendor sub-attribute: %w", ErrUnsupported)
	}

	v := attr.Value()
	if len(v) < 4 {
		return nil, fmt.Errorf("vendor sub-attribute: value %d bytes, need at least 4 for VendorId: %w", len(v), ErrOutOfRange)
	}
	vendorID, err := binutil.Uint32BE(v, 0)
	if err != nil {
		return nil, err
	}
	sub := v[4:]

	subHeaderLen := shape.typeBytes + shape.lengthBytes
	if shape.hasContinuation {
		subHeaderLen++
	}
	if len(sub) < subHeaderLen {
		return nil, fmt.Errorf("vendor sub-attribute: sub-buffer %d bytes, dialect %s needs %d: %w",
			len(sub), dialect, subHeaderLen, ErrOutOfRange)
	}

	off := 0
	var subType uint32
	switch shape.typeBytes {
	case 1:
		subType = uint32(sub[0])
	case 2:
		v16, err := binutil.Uint16BE(sub, 0)
		if err != nil {
			return nil, err
		}
		subType = uint32(v16)
	case 4:
		subType, err = binutil.Uint32BE(sub, 0)
		if err != nil {
			return nil, err
		}
	}
	off += shape.typeBytes

	var declaredTotal int
	haveLength := shape.lengthBytes > 0
	switch shape.lengthBytes {
	case 1:
		declaredTotal = int(sub[off])
	case 2:
		v16, err := binutil.Uint16BE(sub, off)
		if err != nil {
			return nil, err
		}
		declaredTotal = int(v16)
	}
	off += shape.lengthBytes

	var continuation byte
	if shape.hasContinuation {
		continuation = sub[off]
		off++
	}

	var data []byte
	if haveLength {
		if declaredTotal < subHeaderLen || declaredTotal > len(sub) {
			return nil, fmt.Errorf("vendor sub-attribute: declared length %d inconsistent with outer length %d: %w",
				declaredTotal, len(sub), ErrOutOfRange)
		}
		data = sub[off:declaredTotal]
	} else {
		// No Length field: the outer RADIUS Length supplies the total,
		// so the remainder of the sub-buffer is the data.
		data = sub[off:]
	}

	return &VendorSubAttribute{
		VendorID:        vendorID,
		SubType:         subType,
		HasContinuation: shape.hasContinuation,
		Continuation:    continuation,
		Data:            data,
	}, nil
}
