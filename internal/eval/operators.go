package eval

import (
	"math"

	"github.com/es3lang/es3/internal/strval"
	"github.com/es3lang/es3/internal/value"
)

// binaryOp implements the non-short-circuit infix operators (ECMA-262-3
// §11.5-§11.10): `+` is the one polymorphic case (§11.6.1) — string
// concatenation if either ToPrimitive'd operand is a String, numeric
// addition otherwise — every other operator has one fixed conversion.
// ext1 is the active host's EXT1 compatibility flag (ECMA-262-3 §6),
// threaded down to the arithmetic operators' ToNumber conversions.
func binaryOp(op string, left, right value.Value, ext1 bool) (value.Value, error) {
	switch op {
	case "+":
		return addOp(left, right, ext1)
	case "-":
		return numericOp(left, right, ext1, func(a, b float64) float64 { return a - b })
	case "*":
		return numericOp(left, right, ext1, func(a, b float64) float64 { return a * b })
	case "/":
		return numericOp(left, right, ext1, func(a, b float64) float64 { return a / b })
	case "%":
		return numericOp(left, right, ext1, math.Mod)
	case "<<":
		return shiftOp(left, right, func(l int32, r uint32) value.Number { return value.Number(l << (r & 31)) })
	case ">>":
		return shiftOp(left, right, func(l int32, r uint32) value.Number { return value.Number(l >> (r & 31)) })
	case ">>>":
		lu, err := value.ToUint32(left)
		if err != nil {
			return nil, err
		}
		ru, err := value.ToUint32(right)
		if err != nil {
			return nil, err
		}
		return value.Number(lu >> (ru & 31)), nil
	case "&":
		return bitwiseOp(left, right, func(a, b int32) int32 { return a & b })
	case "|":
		return bitwiseOp(left, right, func(a, b int32) int32 { return a | b })
	case "^":
		return bitwiseOp(left, right, func(a, b int32) int32 { return a ^ b })
	case "<":
		rel, err := value.LessThan(left, right)
		if err != nil {
			return nil, err
		}
		return value.Boolean(rel == value.RelTrue), nil
	case ">":
		rel, err := value.LessThan(right, left)
		if err != nil {
			return nil, err
		}
		return value.Boolean(rel == value.RelTrue), nil
	case "<=":
		rel, err := value.LessThan(right, left)
		if err != nil {
			return nil, err
		}
		return value.Boolean(rel == value.RelFalse), nil
	case ">=":
		rel, err := value.LessThan(left, right)
		if err != nil {
			return nil, err
		}
		return value.Boolean(rel == value.RelFalse), nil
	case "==":
		eq, err := value.AbstractEquals(left, right)
		return value.Boolean(eq), err
	case "!=":
		eq, err := value.AbstractEquals(left, right)
		return value.Boolean(!eq), err
	case "===":
		return value.Boolean(value.StrictEquals(left, right)), nil
	case "!==":
		return value.Boolean(!value.StrictEquals(left, right)), nil
	case "instanceof":
		return instanceOf(left, right)
	case "in":
		return inOp(left, right)
	default:
		return nil, &value.ConversionError{Message: "TypeError: unknown operator " + op}
	}
}

// instanceOf implements ECMA-262-3 §11.8.6.
func instanceOf(left, right value.Value) (value.Value, error) {
	ctor, ok := right.(value.Object)
	if !ok {
		return nil, &value.ConversionError{Message: "TypeError: right-hand side of instanceof is not an object"}
	}
	result, err := ctor.HasInstance(left)
	if err != nil {
		return nil, err
	}
	return value.Boolean(result), nil
}

// inOp implements ECMA-262-3 §11.8.7.
func inOp(left, right value.Value) (value.Value, error) {
	obj, ok := right.(value.Object)
	if !ok {
		return nil, &value.ConversionError{Message: "TypeError: right-hand side of 'in' is not an object"}
	}
	name, err := value.ToString(left)
	if err != nil {
		return nil, err
	}
	return value.Boolean(obj.HasProperty(name.String())), nil
}

// addOp implements ECMA-262-3 §11.6.1.
func addOp(left, right value.Value, ext1 bool) (value.Value, error) {
	lp, err := value.ToPrimitive(left, value.HintDefault)
	if err != nil {
		return nil, err
	}
	rp, err := value.ToPrimitive(right, value.HintDefault)
	if err != nil {
		return nil, err
	}
	if lp.Kind() == value.KindString || rp.Kind() == value.KindString {
		ls, err := value.ToString(lp)
		if err != nil {
			return nil, err
		}
		rs, err := value.ToString(rp)
		if err != nil {
			return nil, err
		}
		return value.String{S: strval.Concat(ls.S, rs.S)}, nil
	}
	ln, err := value.ToNumberFlags(lp, ext1)
	if err != nil {
		return nil, err
	}
	rn, err := value.ToNumberFlags(rp, ext1)
	if err != nil {
		return nil, err
	}
	return value.Number(float64(ln) + float64(rn)), nil
}

func numericOp(left, right value.Value, ext1 bool, f func(a, b float64) float64) (value.Value, error) {
	ln, err := value.ToNumberFlags(left, ext1)
	if err != nil {
		return nil, err
	}
	rn, err := value.ToNumberFlags(right, ext1)
	if err != nil {
		return nil, err
	}
	return value.Number(f(float64(ln), float64(rn))), nil
}

func bitwiseOp(left, right value.Value, f func(a, b int32) int32) (value.Value, error) {
	li, err := value.ToInt32(left)
	if err != nil {
		return nil, err
	}
	ri, err := value.ToInt32(right)
	if err != nil {
		return nil, err
	}
	return value.Number(f(li, ri)), nil
}

func shiftOp(left, right value.Value, f func(l int32, r uint32) value.Number) (value.Value, error) {
	li, err := value.ToInt32(left)
	if err != nil {
		return nil, err
	}
	ru, err := value.ToUint32(right)
	if err != nil {
		return nil, err
	}
	return f(li, ru), nil
}

// typeOf implements the `typeof` operator (ECMA-262-3 §11.4.3).
func typeOf(v value.Value) string {
	switch v.Kind() {
	case value.KindUndefined:
		return "undefined"
	case value.KindNull:
		return "object"
	case value.KindBoolean:
		return "boolean"
	case value.KindNumber:
		return "number"
	case value.KindString:
		return "string"
	case value.KindObject:
		if obj, ok := v.(value.Object); ok && obj.IsCallable() {
			return "function"
		}
		return "object"
	default:
		return "undefined"
	}
}
