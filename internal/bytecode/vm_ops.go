package bytecode

import (
	"math"

	"github.com/es3lang/es3/internal/lexer"
	"github.com/es3lang/es3/internal/strval"
	"github.com/es3lang/es3/internal/value"
)

// execBinary implements the arithmetic/bitwise/relational/equality
// opcodes. This duplicates internal/eval/operators.go's binaryOp/addOp/
// numericOp/bitwiseOp/shiftOp/typeOf rather than importing them: they are
// unexported, and the VM is a genuinely separate execution engine driven
// by opcodes rather than an *ast.BinaryExpression's operator string, so
// there is no shared call site the two could dispatch through without
// exporting internals solely for this one caller.
func (vm *VM) execBinary(f *frame, op OpCode) {
	right := f.pop()
	left := f.pop()

	result, err := binaryOpVM(op, left, right, vm.Flags.Has(lexer.EXT1))
	if err != nil {
		vm.raiseGoError(f, err)
		return
	}
	f.push(result)
}

func binaryOpVM(op OpCode, left, right value.Value, ext1 bool) (value.Value, error) {
	switch op {
	case OpAdd:
		return addOpVM(left, right, ext1)
	case OpSub:
		return numericOpVM(left, right, ext1, func(a, b float64) float64 { return a - b })
	case OpMul:
		return numericOpVM(left, right, ext1, func(a, b float64) float64 { return a * b })
	case OpDiv:
		return numericOpVM(left, right, ext1, func(a, b float64) float64 { return a / b })
	case OpMod:
		return numericOpVM(left, right, ext1, math.Mod)
	case OpLShift:
		return shiftOpVM(left, right, func(l int32, r uint32) value.Number { return value.Number(l << (r & 31)) })
	case OpRShift:
		return shiftOpVM(left, right, func(l int32, r uint32) value.Number { return value.Number(l >> (r & 31)) })
	case OpURShift:
		lu, err := value.ToUint32(left)
		if err != nil {
			return nil, err
		}
		ru, err := value.ToUint32(right)
		if err != nil {
			return nil, err
		}
		return value.Number(lu >> (ru & 31)), nil
	case OpBAnd:
		return bitwiseOpVM(left, right, func(a, b int32) int32 { return a & b })
	case OpBOr:
		return bitwiseOpVM(left, right, func(a, b int32) int32 { return a | b })
	case OpBXor:
		return bitwiseOpVM(left, right, func(a, b int32) int32 { return a ^ b })
	case OpLt:
		rel, err := value.LessThan(left, right)
		if err != nil {
			return nil, err
		}
		return value.Boolean(rel == value.RelTrue), nil
	case OpGt:
		rel, err := value.LessThan(right, left)
		if err != nil {
			return nil, err
		}
		return value.Boolean(rel == value.RelTrue), nil
	case OpLe:
		rel, err := value.LessThan(right, left)
		if err != nil {
			return nil, err
		}
		return value.Boolean(rel == value.RelFalse), nil
	case OpGe:
		rel, err := value.LessThan(left, right)
		if err != nil {
			return nil, err
		}
		return value.Boolean(rel == value.RelFalse), nil
	case OpEq:
		eq, err := value.AbstractEquals(left, right)
		return value.Boolean(eq), err
	case OpSEq:
		return value.Boolean(value.StrictEquals(left, right)), nil
	case OpInstanceOf:
		return instanceOfVM(left, right)
	case OpIn:
		return inOpVM(left, right)
	default:
		return nil, &value.ConversionError{Message: "TypeError: unknown operator " + op.String()}
	}
}

// addOpVM implements ECMA-262-3 §11.6.1.
func addOpVM(left, right value.Value, ext1 bool) (value.Value, error) {
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

func numericOpVM(left, right value.Value, ext1 bool, f func(a, b float64) float64) (value.Value, error) {
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

func bitwiseOpVM(left, right value.Value, f func(a, b int32) int32) (value.Value, error) {
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

func shiftOpVM(left, right value.Value, f func(l int32, r uint32) value.Number) (value.Value, error) {
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

// instanceOfVM implements ECMA-262-3 §11.8.6, mirroring internal/eval's
// instanceOf (duplicated for the same reason execBinary duplicates the
// rest of binaryOp).
func instanceOfVM(left, right value.Value) (value.Value, error) {
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

// inOpVM implements ECMA-262-3 §11.8.7.
func inOpVM(left, right value.Value) (value.Value, error) {
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

// typeOfValue implements the `typeof` operator (ECMA-262-3 §11.4.3),
// duplicated from internal/eval/operators.go's unexported typeOf for the
// same reason execBinary duplicates binaryOp.
func typeOfValue(v value.Value) string {
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
		return "object"
	}
}
