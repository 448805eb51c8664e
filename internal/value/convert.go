package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/es3lang/es3/internal/strval"
)

// ToObjectHook is installed by package object (which depends on this
// package, not the reverse) so ToObject can wrap a primitive in a
// Number/String/Boolean wrapper object without value importing object.
var ToObjectHook func(Value) (Object, error)

// errNoToObjectHook is returned by ToObject if ToObjectHook was never
// installed (object.NewRealm installs it) — a wiring bug, not a
// script-level error.
var errNoToObjectHook = errNoHook("value: ToObjectHook not installed")

type errNoHook string

func (e errNoHook) Error() string { return string(e) }

// ToBoolean implements ECMA-262-3 §9.2.
func ToBoolean(v Value) Boolean {
	switch t := v.(type) {
	case undefinedT, nullT:
		return false
	case Boolean:
		return t
	case Number:
		f := float64(t)
		return Boolean(f != 0 && !math.IsNaN(f))
	case String:
		return Boolean(t.S.Len() > 0)
	case Object:
		return true
	default:
		return false
	}
}

// ToNumber implements ECMA-262-3 §9.3, including the exact StrWhiteSpace
// edge cases named in ECMA-262-3 §4.B: "" and all-whitespace strings convert
// to +0, and leading/trailing whitespace is tolerated around a numeric
// literal.
func ToNumber(v Value) (Number, error) {
	switch t := v.(type) {
	case undefinedT:
		return Number(math.NaN()), nil
	case nullT:
		return 0, nil
	case Boolean:
		if t {
			return 1, nil
		}
		return 0, nil
	case Number:
		return t, nil
	case String:
		return stringToNumber(t.S.String()), nil
	case Object:
		prim, err := ToPrimitive(t, HintNumber)
		if err != nil {
			return 0, err
		}
		if _, ok := prim.(Object); ok {
			// DefaultValue is required to return a primitive; a
			// misbehaving host object that doesn't is treated as NaN
			// rather than recursing forever.
			return Number(math.NaN()), nil
		}
		return ToNumber(prim)
	default:
		return Number(math.NaN()), nil
	}
}

// ToNumberFlags is ToNumber with the EXT1 compatibility extension applied
// when ext1 is true: a String operand is converted via ToNumberEXT1
// (accepting a signed hex string) instead of the standard grammar. Callers
// that know the active host's Flags (internal/eval, internal/bytecode) use
// this at the operator sites that ToNumber an operand coming straight from
// script-level arithmetic; ToNumber itself, and every abstract operation
// built on it (ToInteger, ToInt32, relational comparison, ...), stays
// flag-oblivious.
func ToNumberFlags(v Value, ext1 bool) (Number, error) {
	if !ext1 {
		return ToNumber(v)
	}
	switch t := v.(type) {
	case String:
		return ToNumberEXT1(t.S.String()), nil
	case Object:
		prim, err := ToPrimitive(t, HintNumber)
		if err != nil {
			return 0, err
		}
		if _, ok := prim.(Object); ok {
			return Number(math.NaN()), nil
		}
		return ToNumberFlags(prim, ext1)
	default:
		return ToNumber(v)
	}
}

func stringToNumber(s string) Number {
	trimmed := strings.TrimFunc(s, isStrWhiteSpace)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	switch lower {
	case "infinity", "+infinity":
		return Number(math.Inf(1))
	case "-infinity":
		return Number(math.Inf(-1))
	}
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0X") {
		n, err := strconv.ParseUint(lower[2:], 16, 64)
		if err != nil {
			return Number(math.NaN())
		}
		return Number(n)
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Number(math.NaN())
	}
	return Number(f)
}

// ToNumberEXT1 accepts a signed hex string ("-0x1F") when the EXT1
// compatibility flag (ECMA-262-3 §4.B, §6) is enabled; ToNumber alone never
// does, since a bare ToNumber("-0x1F") is NaN per the standard grammar.
func ToNumberEXT1(s string) Number {
	trimmed := strings.TrimFunc(s, isStrWhiteSpace)
	neg := false
	if strings.HasPrefix(trimmed, "+") {
		trimmed = trimmed[1:]
	} else if strings.HasPrefix(trimmed, "-") {
		neg = true
		trimmed = trimmed[1:]
	}
	if !strings.HasPrefix(strings.ToLower(trimmed), "0x") {
		return stringToNumber(trimmed)
	}
	n, err := strconv.ParseUint(trimmed[2:], 16, 64)
	if err != nil {
		return Number(math.NaN())
	}
	f := Number(n)
	if neg {
		f = -f
	}
	return f
}

func isStrWhiteSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', 0x00A0, 0xFEFF, 0x2028, 0x2029:
		return true
	}
	return false
}

// ToInteger implements ECMA-262-3 §9.4, with the exact edge cases of
// ECMA-262-3 §4.B: NaN -> +0; ±Infinity -> itself; otherwise sign(x)*floor(|x|).
func ToInteger(v Value) (Number, error) {
	n, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	f := float64(n)
	if math.IsNaN(f) {
		return 0, nil
	}
	if math.IsInf(f, 0) {
		return n, nil
	}
	sign := 1.0
	if f < 0 {
		sign = -1
		f = -f
	}
	return Number(sign * math.Floor(f)), nil
}

// ToInt32 implements ECMA-262-3 §9.5: bit-reinterpretation of ToUint32.
func ToInt32(v Value) (int32, error) {
	u, err := ToUint32(v)
	if err != nil {
		return 0, err
	}
	return int32(u), nil
}

// ToUint32 implements ECMA-262-3 §9.6: modulo 2^32, adjusted into
// [0, 2^32).
func ToUint32(v Value) (uint32, error) {
	n, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0, nil
	}
	sign := 1.0
	if f < 0 {
		sign = -1
		f = -f
	}
	posInt := sign * math.Floor(f)
	const twoTo32 = 4294967296.0
	m := math.Mod(posInt, twoTo32)
	if m < 0 {
		m += twoTo32
	}
	return uint32(m), nil
}

// ToUint16 implements ECMA-262-3 §9.7, used for String.fromCharCode-style
// conversions.
func ToUint16(v Value) (uint16, error) {
	u, err := ToUint32(v)
	if err != nil {
		return 0, err
	}
	return uint16(u % 65536), nil
}

// ToString implements ECMA-262-3 §9.8, using NumberToString (§9.8.1) for
// the Number case.
func ToString(v Value) (String, error) {
	switch t := v.(type) {
	case undefinedT:
		return NewString("undefined"), nil
	case nullT:
		return NewString("null"), nil
	case Boolean:
		if t {
			return NewString("true"), nil
		}
		return NewString("false"), nil
	case Number:
		return NewString(NumberToString(t)), nil
	case String:
		return t, nil
	case Object:
		prim, err := ToPrimitive(t, HintString)
		if err != nil {
			return String{}, err
		}
		if _, ok := prim.(Object); ok {
			return NewString("[object " + t.Class() + "]"), nil
		}
		return ToString(prim)
	default:
		return NewString(""), nil
	}
}

// NumberToString implements ECMA-262-3 §9.8.1's shortest-round-trip
// rendering (the Steele-White algorithm in the original SEE engine, via
// its SEE_dtoa hook). Go's strconv.FormatFloat(-1 precision) already
// computes the shortest decimal that round-trips to the same float64, so
// it is used as the digit generator; the exponent-range formatting rules
// (integer vs fixed vs scientific notation cutoffs) are applied on top to
// match ECMA-262-3 §4.B exactly.
func NumberToString(n Number) string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case f == 0:
		if math.Signbit(f) {
			return "0" // ToString(-0) is "0", unlike some host prints of -0
		}
		return "0"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	neg := f < 0
	if neg {
		f = -f
	}
	digits, k := shortestDigits(f)
	n10 := k // number of digits before the decimal point if not using exponent form
	var out string
	switch {
	case n10 >= 1 && n10 <= 21:
		if len(digits) >= n10 {
			out = digits[:n10]
			if len(digits) > n10 {
				out += "." + digits[n10:]
			}
		} else {
			out = digits + strings.Repeat("0", n10-len(digits))
		}
	case n10 > -6 && n10 <= 0:
		out = "0." + strings.Repeat("0", -n10) + digits
	default:
		mantissa := digits[:1]
		if len(digits) > 1 {
			mantissa += "." + digits[1:]
		}
		exp := n10 - 1
		sign := "+"
		if exp < 0 {
			sign = "-"
			exp = -exp
		}
		out = mantissa + "e" + sign + strconv.Itoa(exp)
	}
	if neg {
		return "-" + out
	}
	return out
}

// shortestDigits returns the shortest round-tripping decimal digit string
// for f (f > 0) and k, the position of the decimal point relative to the
// start of digits (i.e. the value equals 0.digits * 10^k).
func shortestDigits(f float64) (digits string, k int) {
	s := strconv.FormatFloat(f, 'e', -1, 64)
	// s looks like "d.ddddde±dd" or "de±dd".
	mantissa, expPart, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expPart)
	mantissa = strings.Replace(mantissa, ".", "", 1)
	mantissa = strings.TrimRight(mantissa, "0")
	if mantissa == "" {
		mantissa = "0"
	}
	return mantissa, exp + 1
}

// ToPrimitive implements ECMA-262-3 §9.1 by delegating to DefaultValue
// for Object values; every other kind is already primitive.
func ToPrimitive(v Value, hint Hint) (Value, error) {
	if obj, ok := v.(Object); ok {
		return obj.DefaultValue(hint)
	}
	return v, nil
}

// DefaultValueOrder implements ECMA-262-3 §8.6.2.6: with hint Number,
// try valueOf then toString; with hint String, try toString then
// valueOf; with HintDefault, behave as HintNumber (hint Number prefers
// valueOf, hint String prefers toString).
func DefaultValueOrder(hint Hint) [2]string {
	if hint == HintString {
		return [2]string{"toString", "valueOf"}
	}
	return [2]string{"valueOf", "toString"}
}

// ErrNotObjectCoercible is thrown by ToObject(undefined) / ToObject(null),
// per ECMA-262-3 §4.B.
var ErrNotObjectCoercible = &ConversionError{Message: "TypeError: cannot convert undefined or null to object"}

// ConversionError reports a failure in an abstract conversion that
// ECMA-262 specifies as a thrown TypeError (not a Go-level bug). Callers
// in the evaluator turn this into a thrown Error object.
type ConversionError struct {
	Message string
}

func (e *ConversionError) Error() string { return e.Message }

// ToObject implements ECMA-262-3 §9.9. undefined/null throw per spec;
// an existing Object passes through unchanged; primitives are wrapped via
// ToObjectHook (installed by package object).
func ToObject(v Value) (Object, error) {
	switch t := v.(type) {
	case undefinedT, nullT:
		return nil, ErrNotObjectCoercible
	case Object:
		return t, nil
	default:
		if ToObjectHook == nil {
			return nil, errNoToObjectHook
		}
		return ToObjectHook(v)
	}
}

// StrictEquals implements ECMA-262-3 §11.9.6.
func StrictEquals(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case undefinedT, nullT:
		return true
	case Boolean:
		return av == b.(Boolean)
	case Number:
		return float64(av) == float64(b.(Number))
	case String:
		return strval.Equal(av.S, b.(String).S)
	case Object:
		return av == b.(Object)
	default:
		return false
	}
}

// AbstractEquals implements ECMA-262-3 §11.9.3.
func AbstractEquals(a, b Value) (bool, error) {
	if a.Kind() == b.Kind() {
		return StrictEquals(a, b), nil
	}
	switch {
	case isNullOrUndefined(a) && isNullOrUndefined(b):
		return true, nil
	case isNullOrUndefined(a) || isNullOrUndefined(b):
		return false, nil
	case a.Kind() == KindNumber && b.Kind() == KindString:
		bn, err := ToNumber(b)
		if err != nil {
			return false, err
		}
		return AbstractEquals(a, bn)
	case a.Kind() == KindString && b.Kind() == KindNumber:
		an, err := ToNumber(a)
		if err != nil {
			return false, err
		}
		return AbstractEquals(an, b)
	case a.Kind() == KindBoolean:
		an, err := ToNumber(a)
		if err != nil {
			return false, err
		}
		return AbstractEquals(an, b)
	case b.Kind() == KindBoolean:
		bn, err := ToNumber(b)
		if err != nil {
			return false, err
		}
		return AbstractEquals(a, bn)
	case (a.Kind() == KindNumber || a.Kind() == KindString) && b.Kind() == KindObject:
		bp, err := ToPrimitive(b, HintDefault)
		if err != nil {
			return false, err
		}
		return AbstractEquals(a, bp)
	case a.Kind() == KindObject && (b.Kind() == KindNumber || b.Kind() == KindString):
		ap, err := ToPrimitive(a, HintDefault)
		if err != nil {
			return false, err
		}
		return AbstractEquals(ap, b)
	default:
		return false, nil
	}
}

func isNullOrUndefined(v Value) bool {
	return v.Kind() == KindNull || v.Kind() == KindUndefined
}

// RelResult is the three-valued result of an abstract relational
// comparison (ECMA-262-3 §11.8.5): True, False, or Undefined when either
// operand compares as NaN.
type RelResult uint8

const (
	RelFalse RelResult = iota
	RelTrue
	RelUndefined
)

// LessThan implements the abstract relational comparison x < y.
func LessThan(x, y Value) (RelResult, error) {
	px, err := ToPrimitive(x, HintNumber)
	if err != nil {
		return RelFalse, err
	}
	py, err := ToPrimitive(y, HintNumber)
	if err != nil {
		return RelFalse, err
	}
	if px.Kind() == KindString && py.Kind() == KindString {
		if strval.Cmp(px.(String).S, py.(String).S) < 0 {
			return RelTrue, nil
		}
		return RelFalse, nil
	}
	nx, err := ToNumber(px)
	if err != nil {
		return RelFalse, err
	}
	ny, err := ToNumber(py)
	if err != nil {
		return RelFalse, err
	}
	if math.IsNaN(float64(nx)) || math.IsNaN(float64(ny)) {
		return RelUndefined, nil
	}
	if float64(nx) < float64(ny) {
		return RelTrue, nil
	}
	return RelFalse, nil
}

// AsBool turns a RelResult into the boolean callers should use:
// "NaN on either side yields undefined (treated as false by <,>,<=,>=)".
func (r RelResult) AsBool() bool { return r == RelTrue }
