package wire

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/encoding/protowire"
)

// encoder appends protobuf wire fields and keeps the first error it hits.
// Zero values are omitted, as proto3 does.
type encoder struct {
	buf []byte
	err error
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) uint(n protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, n, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

func (e *encoder) sint(n protowire.Number, v int64) {
	e.uint(n, protowire.EncodeZigZag(v))
}

func (e *encoder) bool(n protowire.Number, v bool) {
	if v {
		e.uint(n, 1)
	}
}

func (e *encoder) bytes(n protowire.Number, v []byte) {
	if len(v) == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, n, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)
}

func (e *encoder) uuid(n protowire.Number, id uuid.UUID) {
	if id == uuid.Nil {
		return
	}
	e.bytes(n, EncodeExchangeUUID(id))
}

func (e *encoder) decimal(n protowire.Number, d decimal.Decimal) {
	if e.err != nil || d.IsZero() {
		return
	}
	w, err := EncodeDecimal(d)
	if err != nil {
		e.fail(fmt.Errorf("field %d: %w", n, err))
		return
	}
	e.message(n, func(s *encoder) {
		s.sint(1, w.Value)
		s.uint(2, uint64(w.Scale))
	})
}

// message writes a length-delimited sub-message, even when it is empty.
func (e *encoder) message(n protowire.Number, fn func(*encoder)) {
	if e.err != nil {
		return
	}
	var sub encoder
	fn(&sub)
	if sub.err != nil {
		e.fail(sub.err)
		return
	}
	e.buf = protowire.AppendTag(e.buf, n, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, sub.buf)
}

// field is one decoded key/value pair. For varints v is set, for
// length-delimited values b is set.
type field struct {
	num protowire.Number
	typ protowire.Type
	v   uint64
	b   []byte
}

func (f field) int64() int64 { return protowire.DecodeZigZag(f.v) }

func walk(b []byte, fn func(field)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.v, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.b, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
		fn(f)
	}
	return nil
}

// decoder keeps the first error seen while walking nested messages.
type decoder struct {
	err error
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *decoder) message(f field, set func(*decoder, field)) {
	if f.typ != protowire.BytesType {
		d.fail(fmt.Errorf("field %d: expected length-delimited value", f.num))
		return
	}
	d.fail(walk(f.b, func(g field) { set(d, g) }))
}

func (d *decoder) decimal(f field) decimal.Decimal {
	var w Decimal
	d.message(f, func(_ *decoder, g field) {
		switch g.num {
		case 1:
			w.Value = g.int64()
		case 2:
			if g.v > MaxScale {
				d.fail(fmt.Errorf("field %d: scale %d: %w", f.num, g.v, ErrScaleRange))
				return
			}
			w.Scale = uint32(g.v)
		}
	})
	return DecodeDecimal(&w)
}

func (d *decoder) uuid(f field) uuid.UUID {
	id, err := DecodeExchangeUUID(f.b)
	if err != nil {
		d.fail(fmt.Errorf("field %d: %w", f.num, err))
	}
	return id
}
