package typesystem

import (
	"math"
	"math/bits"
	"strings"
)

// MaxStrRepeat bounds the length of a string built by Str * Nat.
const MaxStrRepeat = 1 << 20

// numeric ranks: Nat < Int < Float. Bool counts as Nat.
type rank int

const (
	rankNone rank = iota
	rankNat
	rankInt
	rankFloat
)

func rankOf(v Value) rank {
	switch v.(type) {
	case BoolVal, NatVal:
		return rankNat
	case IntVal:
		return rankInt
	case FloatVal:
		return rankFloat
	}
	return rankNone
}

func asNat(v Value) uint64 {
	switch v := v.(type) {
	case BoolVal:
		if v {
			return 1
		}
		return 0
	case NatVal:
		return uint64(v)
	}
	return 0
}

// asInt fails for a Nat that does not fit in an Int.
func asInt(v Value) (int64, bool) {
	if i, ok := v.(IntVal); ok {
		return int64(i), true
	}
	n := asNat(v)
	if n > math.MaxInt64 {
		return 0, false
	}
	return int64(n), true
}

func asInts(l, r Value) (int64, int64, bool) {
	a, ok := asInt(l)
	if !ok {
		return 0, 0, false
	}
	b, ok := asInt(r)
	return a, b, ok
}

func asFloat(v Value) float64 {
	switch v := v.(type) {
	case FloatVal:
		return float64(v)
	case IntVal:
		return float64(v)
	}
	return float64(asNat(v))
}

func addInt(a, b int64) (int64, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}

func subInt(a, b int64) (int64, bool) {
	c := a - b
	return c, (c < a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) || c/b != a {
		return 0, false
	}
	return c, true
}

func mulNat(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// powNat squares its way through the exponent and stops at the first overflow.
func powNat(base, exp uint64) (uint64, bool) {
	out := uint64(1)
	for exp > 0 {
		if exp&1 == 1 {
			var ok bool
			if out, ok = mulNat(out, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			var ok bool
			if base, ok = mulNat(base, base); !ok {
				return 0, false
			}
		}
	}
	return out, true
}

func powInt(base int64, exp uint64) (int64, bool) {
	out := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			var ok bool
			if out, ok = mulInt(out, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			var ok bool
			if base, ok = mulInt(base, base); !ok {
				return 0, false
			}
		}
	}
	return out, true
}

func isInf(v Value) bool {
	switch v.(type) {
	case InfVal, NegInfVal:
		return true
	}
	return false
}

func maxRank(l, r Value) rank {
	a, b := rankOf(l), rankOf(r)
	if a == rankNone || b == rankNone {
		return rankNone
	}
	if a > b {
		return a
	}
	return b
}

func TryAdd(l, r Value) (Value, bool) {
	switch rk := maxRank(l, r); rk {
	case rankNat:
		sum, carry := bits.Add64(asNat(l), asNat(r), 0)
		return NatVal(sum), carry == 0
	case rankInt:
		a, b, ok := asInts(l, r)
		if !ok {
			return nil, false
		}
		sum, ok := addInt(a, b)
		return IntVal(sum), ok
	case rankFloat:
		return FloatVal(asFloat(l) + asFloat(r)), true
	}
	switch l := l.(type) {
	case StrVal:
		if r, ok := r.(StrVal); ok {
			return l + r, true
		}
	case ArrayVal:
		if r, ok := r.(ArrayVal); ok {
			return append(append(ArrayVal{}, l...), r...), true
		}
	case TupleVal:
		if r, ok := r.(TupleVal); ok {
			return append(append(TupleVal{}, l...), r...), true
		}
	case DictVal:
		if r, ok := r.(DictVal); ok {
			out := append(DictVal{}, l...)
			for _, e := range r {
				out = out.Insert(e.Key, e.Val)
			}
			return out, true
		}
	case InfVal:
		if _, ok := r.(NegInfVal); !ok && (rankOf(r) != rankNone || isInf(r)) {
			return l, true
		}
	case NegInfVal:
		if _, ok := r.(InfVal); !ok && (rankOf(r) != rankNone || isInf(r)) {
			return l, true
		}
	}
	if isInf(r) && rankOf(l) != rankNone {
		return r, true
	}
	return nil, false
}

// TrySub never yields a Nat: subtracting naturals may go negative.
func TrySub(l, r Value) (Value, bool) {
	switch rk := maxRank(l, r); rk {
	case rankNat, rankInt:
		a, b, ok := asInts(l, r)
		if !ok {
			return nil, false
		}
		diff, ok := subInt(a, b)
		return IntVal(diff), ok
	case rankFloat:
		return FloatVal(asFloat(l) - asFloat(r)), true
	}
	switch l.(type) {
	case InfVal:
		if _, ok := r.(InfVal); !ok && (rankOf(r) != rankNone || isInf(r)) {
			return l, true
		}
	case NegInfVal:
		if _, ok := r.(NegInfVal); !ok && (rankOf(r) != rankNone || isInf(r)) {
			return l, true
		}
	}
	if rankOf(l) != rankNone {
		switch r.(type) {
		case InfVal:
			return NegInfVal{}, true
		case NegInfVal:
			return InfVal{}, true
		}
	}
	return nil, false
}

func TryMul(l, r Value) (Value, bool) {
	switch rk := maxRank(l, r); rk {
	case rankNat:
		prod, ok := mulNat(asNat(l), asNat(r))
		return NatVal(prod), ok
	case rankInt:
		a, b, ok := asInts(l, r)
		if !ok {
			return nil, false
		}
		prod, ok := mulInt(a, b)
		return IntVal(prod), ok
	case rankFloat:
		return FloatVal(asFloat(l) * asFloat(r)), true
	}
	if s, ok := l.(StrVal); ok && rankOf(r) == rankNat {
		n := asNat(r)
		if len(s) == 0 {
			return s, true
		}
		if n > MaxStrRepeat/uint64(len(s)) {
			return nil, false
		}
		return StrVal(strings.Repeat(string(s), int(n))), true
	}
	if isInf(l) && rankOf(r) != rankNone {
		return l, true
	}
	if isInf(r) && rankOf(l) != rankNone {
		return r, true
	}
	return nil, false
}

// TryDiv is true division and always yields a Float.
func TryDiv(l, r Value) (Value, bool) {
	if maxRank(l, r) == rankNone || asFloat(r) == 0 {
		return nil, false
	}
	return FloatVal(asFloat(l) / asFloat(r)), true
}

func TryFloorDiv(l, r Value) (Value, bool) {
	switch rk := maxRank(l, r); rk {
	case rankNat:
		if asNat(r) == 0 {
			return nil, false
		}
		return NatVal(asNat(l) / asNat(r)), true
	case rankInt:
		n, d, ok := asInts(l, r)
		if !ok || d == 0 || (n == math.MinInt64 && d == -1) {
			return nil, false
		}
		q := n / d
		if (n%d != 0) && ((n < 0) != (d < 0)) {
			q--
		}
		return IntVal(q), true
	case rankFloat:
		if asFloat(r) == 0 {
			return nil, false
		}
		return FloatVal(math.Floor(asFloat(l) / asFloat(r))), true
	}
	return nil, false
}

func TryMod(l, r Value) (Value, bool) {
	switch rk := maxRank(l, r); rk {
	case rankNat:
		if asNat(r) == 0 {
			return nil, false
		}
		return NatVal(asNat(l) % asNat(r)), true
	case rankInt:
		n, d, ok := asInts(l, r)
		if !ok || d == 0 {
			return nil, false
		}
		if d == -1 {
			return IntVal(0), true
		}
		m := n % d
		if m != 0 && ((m < 0) != (d < 0)) {
			m += d
		}
		return IntVal(m), true
	case rankFloat:
		if asFloat(r) == 0 {
			return nil, false
		}
		return FloatVal(asFloat(l) - asFloat(r)*math.Floor(asFloat(l)/asFloat(r))), true
	}
	return nil, false
}

func TryPow(l, r Value) (Value, bool) {
	switch rk := maxRank(l, r); rk {
	case rankNat:
		out, ok := powNat(asNat(l), asNat(r))
		return NatVal(out), ok
	case rankInt:
		base, ok := asInt(l)
		if !ok {
			return nil, false
		}
		exp := asNat(r)
		if i, isInt := r.(IntVal); isInt {
			if i < 0 {
				return FloatVal(math.Pow(asFloat(l), asFloat(r))), true
			}
			exp = uint64(i)
		}
		out, ok := powInt(base, exp)
		return IntVal(out), ok
	case rankFloat:
		return FloatVal(math.Pow(asFloat(l), asFloat(r))), true
	}
	return nil, false
}

func TryShl(l, r Value) (Value, bool) {
	switch maxRank(l, r) {
	case rankNat:
		n, k := asNat(l), asNat(r)
		if k >= 64 {
			return nil, false
		}
		out := n << k
		if out>>k != n {
			return nil, false
		}
		return NatVal(out), true
	case rankInt:
		n, k, ok := asInts(l, r)
		if !ok || k < 0 || k >= 64 {
			return nil, false
		}
		out := n << uint64(k)
		if out>>uint64(k) != n {
			return nil, false
		}
		return IntVal(out), true
	}
	return nil, false
}

func TryShr(l, r Value) (Value, bool) {
	switch maxRank(l, r) {
	case rankNat:
		if asNat(r) >= 64 {
			return NatVal(0), true
		}
		return NatVal(asNat(l) >> asNat(r)), true
	case rankInt:
		n, k, ok := asInts(l, r)
		if !ok || k < 0 {
			return nil, false
		}
		if k >= 64 {
			k = 63
		}
		return IntVal(n >> uint64(k)), true
	}
	return nil, false
}

// compare orders numbers, infinities and strings.
func compare(l, r Value) (int, bool) {
	if x, ok := toFloat(l); ok {
		if y, ok := toFloat(r); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			}
			return 0, true
		}
	}
	if ls, ok := l.(StrVal); ok {
		if rs, ok := r.(StrVal); ok {
			switch {
			case ls < rs:
				return -1, true
			case ls > rs:
				return 1, true
			}
			return 0, true
		}
	}
	return 0, false
}

func TryLt(l, r Value) (Value, bool) {
	c, ok := compare(l, r)
	return BoolVal(c < 0), ok
}

func TryLe(l, r Value) (Value, bool) {
	c, ok := compare(l, r)
	return BoolVal(c <= 0), ok
}

func TryGt(l, r Value) (Value, bool) {
	c, ok := compare(l, r)
	return BoolVal(c > 0), ok
}

func TryGe(l, r Value) (Value, bool) {
	c, ok := compare(l, r)
	return BoolVal(c >= 0), ok
}

func TryEq(l, r Value) (Value, bool) { return BoolVal(EqValue(l, r)), true }
func TryNe(l, r Value) (Value, bool) { return BoolVal(!EqValue(l, r)), true }

// TryGetAttr reads a field of a record or of a generated type's attributes.
func TryGetAttr(v Value, name string) (Value, bool) {
	switch v := v.(type) {
	case RecordVal:
		return v.Get(name)
	case TypeVal:
		if v.Obj.Kind == GeneratedTypeObj && v.Obj.Gen != nil {
			return v.Obj.Gen.Attrs.Get(name)
		}
	}
	return nil, false
}
