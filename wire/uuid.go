package wire

import (
	"errors"

	"github.com/google/uuid"
)

var ErrBadUUIDLength = errors.New("wire: exchange uuid must be 16 bytes")

// swapUUID reverses bytes 0-3, swaps 4-5 and 6-7. Bytes 8-15 are untouched.
// Applying it twice yields the input.
func swapUUID(b [16]byte) [16]byte {
	out := b
	out[0], out[1], out[2], out[3] = b[3], b[2], b[1], b[0]
	out[4], out[5] = b[5], b[4]
	out[6], out[7] = b[7], b[6]
	return out
}

// DecodeExchangeUUID converts exchange byte order into a standard UUID. An
// empty field decodes to uuid.Nil.
func DecodeExchangeUUID(b []byte) (uuid.UUID, error) {
	if len(b) == 0 {
		return uuid.Nil, nil
	}
	if len(b) != 16 {
		return uuid.Nil, ErrBadUUIDLength
	}
	var raw [16]byte
	copy(raw[:], b)
	return uuid.UUID(swapUUID(raw)), nil
}

// EncodeExchangeUUID converts a standard UUID into exchange byte order.
func EncodeExchangeUUID(id uuid.UUID) []byte {
	out := swapUUID([16]byte(id))
	return out[:]
}
