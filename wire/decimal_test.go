package wire

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecimal(t *testing.T) {
	tests := []struct {
		in    string
		value int64
		scale uint32
	}{
		{"123.45", 12345, 2},
		{"0", 0, 0},
		{"7", 7, 0},
		{"-1.25", -125, 2},
		{"1.50", 15, 1},
		{"0.0001", 1, 4},
		{"-0.5", -5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, err := EncodeDecimal(decimal.RequireFromString(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.value, w.Value)
			assert.Equal(t, tt.scale, w.Scale)
		})
	}
}

func TestDecodeDecimal(t *testing.T) {
	assert.True(t, DecodeDecimal(nil).IsZero())
	assert.True(t, DecodeDecimal(&Decimal{Value: 12345, Scale: 2}).Equal(decimal.RequireFromString("123.45")))
	assert.True(t, DecodeDecimal(&Decimal{Value: -5, Scale: 0}).Equal(decimal.NewFromInt(-5)))
	assert.True(t, DecodeDecimal(&Decimal{Value: 5, Scale: MaxScale}).Equal(decimal.New(5, -MaxScale)))
	assert.True(t, DecodeDecimal(&Decimal{Value: 5, Scale: 0xFFFFFFFF}).IsZero())
}

func TestDecimalRoundTrip(t *testing.T) {
	for _, s := range []string{"0.1", "99999.99999", "-42.000001", "5", "0.000000000000000001", "9223372036854775807"} {
		d := decimal.RequireFromString(s)
		w, err := EncodeDecimal(d)
		require.NoError(t, err, s)
		assert.True(t, DecodeDecimal(&w).Equal(d), "round trip of %s", s)
	}
}

func TestEncodeDecimalBounds(t *testing.T) {
	_, err := EncodeDecimal(decimal.RequireFromString("0.0000000000000000001"))
	assert.ErrorIs(t, err, ErrScaleOverflow)

	_, err = EncodeDecimal(decimal.RequireFromString("92233720368547758080"))
	assert.ErrorIs(t, err, ErrValueOverflow)

	// fits before the point, overflows once fractional digits are folded in
	_, err = EncodeDecimal(decimal.RequireFromString("922337203685477580.75"))
	assert.ErrorIs(t, err, ErrValueOverflow)
}
