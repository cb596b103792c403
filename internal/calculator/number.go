package calculator

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
)

// maxIntBits bounds integer results; anything larger is an invalid
// expression rather than an unbounded allocation.
const maxIntBits = 4096

// Number is an evaluation result. Integers are exact at any size up to
// maxIntBits; true division and float operands produce a float.
type Number struct {
	i *big.Int
	f float64
}

// Int returns an integer Number.
func Int(v int64) Number { return Number{i: big.NewInt(v)} }

// Float returns a float Number.
func Float(v float64) Number { return Number{f: v} }

// bigInt wraps v, rejecting values beyond maxIntBits.
func bigInt(v *big.Int) (Number, error) {
	if v.BitLen() > maxIntBits {
		return Number{}, ErrInvalidExpression
	}
	return Number{i: v}, nil
}

// IsInt reports whether n holds an integer.
func (n Number) IsInt() bool { return n.i != nil }

// Float64 returns n as a float64; integers too large for a float64 become
// infinities.
func (n Number) Float64() float64 {
	if n.i != nil {
		f, _ := new(big.Float).SetInt(n.i).Float64()
		return f
	}
	return n.f
}

// Int64 returns the integer value; floats are truncated and integers
// outside the int64 range are clamped.
func (n Number) Int64() int64 {
	if n.i == nil {
		return int64(n.f)
	}
	switch {
	case n.i.IsInt64():
		return n.i.Int64()
	case n.i.Sign() > 0:
		return math.MaxInt64
	default:
		return math.MinInt64
	}
}

// BigInt returns a copy of the integer value, or nil for floats.
func (n Number) BigInt() *big.Int {
	if n.i == nil {
		return nil
	}
	return new(big.Int).Set(n.i)
}

// Value returns int64 for integers that fit, *big.Int for larger ones and
// float64 otherwise.
func (n Number) Value() any {
	switch {
	case n.i == nil:
		return n.f
	case n.i.IsInt64():
		return n.i.Int64()
	default:
		return n.BigInt()
	}
}

func (n Number) String() string {
	if n.i != nil {
		return n.i.String()
	}
	if n.f == math.Trunc(n.f) && math.Abs(n.f) < 1e16 {
		return strconv.FormatFloat(n.f, 'f', 1, 64)
	}
	return strconv.FormatFloat(n.f, 'g', -1, 64)
}

// MarshalJSON keeps floats recognisable, so 4/2 encodes as 2.0. Integers
// are written with every digit.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.i != nil {
		return json.Marshal(n.i)
	}
	return []byte(n.String()), nil
}

func (n Number) isZero() bool {
	if n.i != nil {
		return n.i.Sign() == 0
	}
	return n.f == 0
}

// toFloat converts n for mixed arithmetic. Integers beyond the float64
// range cannot take part.
func (n Number) toFloat() (float64, error) {
	f := n.Float64()
	if math.IsInf(f, 0) {
		return 0, ErrInvalidExpression
	}
	return f, nil
}

// floats converts both operands.
func floats(a, b Number) (float64, float64, error) {
	x, err := a.toFloat()
	if err != nil {
		return 0, 0, err
	}
	y, err := b.toFloat()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
