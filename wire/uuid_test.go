package wire

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeUUIDLayout(t *testing.T) {
	id := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")
	got := EncodeExchangeUUID(id)
	want := []byte{0x33, 0x22, 0x11, 0x00, 0x55, 0x44, 0x77, 0x66, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	assert.Equal(t, want, got)
}

func TestExchangeUUIDInvolution(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := uuid.New()
		back, err := DecodeExchangeUUID(EncodeExchangeUUID(id))
		require.NoError(t, err)
		assert.Equal(t, id, back)
		assert.Equal(t, [16]byte(id), swapUUID(swapUUID([16]byte(id))))
	}
}

func TestDecodeExchangeUUIDLength(t *testing.T) {
	id, err := DecodeExchangeUUID(nil)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)

	_, err = DecodeExchangeUUID([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrBadUUIDLength)
}
