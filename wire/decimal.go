package wire

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MaxScale bounds the number of fractional digits EncodeDecimal will produce.
const MaxScale = 18

var (
	ErrScaleOverflow = errors.New("wire: decimal needs more than MaxScale fractional digits")
	ErrValueOverflow = errors.New("wire: decimal does not fit in a signed 64-bit scaled value")
	ErrScaleRange    = errors.New("wire: decimal scale exceeds MaxScale")
)

var (
	ten      = decimal.NewFromInt(10)
	maxInt64 = decimal.NewFromInt(int64(^uint64(0) >> 1))
	minInt64 = decimal.NewFromInt(-int64(^uint64(0)>>1) - 1)
)

// Decimal is the protocol's scaled-integer decimal: Value * 10^-Scale.
type Decimal struct {
	Value int64
	Scale uint32
}

// DecodeDecimal converts a wire decimal to a native one. A nil pointer is an
// absent field and decodes to zero, as does a scale above MaxScale; the
// envelope decoder rejects such scales before they get here.
func DecodeDecimal(d *Decimal) decimal.Decimal {
	if d == nil || d.Scale > MaxScale {
		return decimal.Zero
	}
	return decimal.New(d.Value, -int32(d.Scale))
}

// EncodeDecimal folds the digits of d into a scaled integer, one fractional
// digit at a time, until the remainder is exactly zero.
func EncodeDecimal(d decimal.Decimal) (Decimal, error) {
	whole := d.Truncate(0)
	if whole.GreaterThan(maxInt64) || whole.LessThan(minInt64) {
		return Decimal{}, ErrValueOverflow
	}
	acc := whole
	rem := d.Sub(whole)
	var scale uint32
	for !rem.IsZero() {
		if scale == MaxScale {
			return Decimal{}, ErrScaleOverflow
		}
		rem = rem.Mul(ten)
		digit := rem.Truncate(0)
		rem = rem.Sub(digit)
		acc = acc.Mul(ten).Add(digit)
		if acc.GreaterThan(maxInt64) || acc.LessThan(minInt64) {
			return Decimal{}, ErrValueOverflow
		}
		scale++
	}
	return Decimal{Value: acc.IntPart(), Scale: scale}, nil
}

// MustEncodeDecimal is EncodeDecimal for values known to be representable.
func MustEncodeDecimal(d decimal.Decimal) Decimal {
	w, err := EncodeDecimal(d)
	if err != nil {
		panic(err)
	}
	return w
}
