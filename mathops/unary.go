package mathops

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/convert"
	"github.com/katalvlaran/nour/dtype"
	"github.com/katalvlaran/nour/nerr"
)

var (
	ErrRequiresIntegerUnary = errors.New("mathops: operation requires an integer (or bool) operand")
	ErrRequiresFloatUnary   = errors.New("mathops: operation requires a floating-point operand")
)

func unaryFloat(a *ndar.Node, resolved dtype.DType, op func(x float64) float64) (*ndar.Node, error) {
	out, err := ndar.NewEmpty(a.Shape(), resolved)
	if err != nil {
		return nil, err
	}
	aIt, outIt := ndar.NewIter(a), ndar.NewIter(out)
	for aIt.NotDone() {
		x := convert.ReadAs[float64](aIt.Item(), 0, a.DType())
		convert.WriteAs[float64](outIt.Item(), 0, resolved, op(x))
		aIt.Next()
		outIt.Next()
	}
	return out, nil
}

func unaryInt(a *ndar.Node, resolved dtype.DType, op func(x int64) int64) (*ndar.Node, error) {
	out, err := ndar.NewEmpty(a.Shape(), resolved)
	if err != nil {
		return nil, err
	}
	aIt, outIt := ndar.NewIter(a), ndar.NewIter(out)
	for aIt.NotDone() {
		x := convert.ReadAs[int64](aIt.Item(), 0, a.DType())
		convert.WriteAs[int64](outIt.Item(), 0, resolved, op(x))
		aIt.Next()
		outIt.Next()
	}
	return out, nil
}

func unaryBool(a *ndar.Node, op func(x bool) bool) (*ndar.Node, error) {
	out, err := ndar.NewEmpty(a.Shape(), dtype.Bool)
	if err != nil {
		return nil, err
	}
	aIt, outIt := ndar.NewIter(a), ndar.NewIter(out)
	for aIt.NotDone() {
		ndar.SetAt[bool](outIt.Item(), 0, op(readTruthy(aIt.Item(), 0, a.DType())))
		aIt.Next()
		outIt.Next()
	}
	return out, nil
}

// Neg computes -a, preserving a's dtype (promoting to the signed kind of the
// same width for an unsigned operand would require widening the dtype
// itself, which spec §4.10 does not ask Neg to do; Neg operates in-dtype).
func Neg(a *ndar.Node) (*ndar.Node, error) {
	if a.DType().IsFloat() {
		return unaryFloat(a, a.DType(), func(x float64) float64 { return -x })
	}
	return unaryInt(a, a.DType(), func(x int64) int64 { return -x })
}

// Abs computes |a|, preserving a's dtype.
func Abs(a *ndar.Node) (*ndar.Node, error) {
	if a.DType().IsFloat() {
		return unaryFloat(a, a.DType(), math.Abs)
	}
	return unaryInt(a, a.DType(), func(x int64) int64 {
		if x < 0 {
			return -x
		}
		return x
	})
}

// Sign computes sign(a) in {-1, 0, 1}, preserving a's dtype.
func Sign(a *ndar.Node) (*ndar.Node, error) {
	if a.DType().IsFloat() {
		return unaryFloat(a, a.DType(), func(x float64) float64 {
			switch {
			case x > 0:
				return 1
			case x < 0:
				return -1
			default:
				return 0
			}
		})
	}
	return unaryInt(a, a.DType(), func(x int64) int64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return 0
		}
	})
}

func floatUnaryDType(a *ndar.Node) dtype.DType {
	if a.DType() == dtype.Float32 {
		return dtype.Float32
	}
	return dtype.Float64
}

// Sqrt, Exp, Log, Sin, Cos, Tan, Asin, Acos, Atan always produce a
// floating-point result (Float32 if the operand is already Float32,
// otherwise Float64), per the PolicyFloat output rule spec §4.9 assigns
// transcendental unary ops.
func Sqrt(a *ndar.Node) (*ndar.Node, error) { return unaryFloat(a, floatUnaryDType(a), math.Sqrt) }
func Exp(a *ndar.Node) (*ndar.Node, error)  { return unaryFloat(a, floatUnaryDType(a), math.Exp) }
func Log(a *ndar.Node) (*ndar.Node, error)  { return unaryFloat(a, floatUnaryDType(a), math.Log) }
func Sin(a *ndar.Node) (*ndar.Node, error)  { return unaryFloat(a, floatUnaryDType(a), math.Sin) }
func Cos(a *ndar.Node) (*ndar.Node, error)  { return unaryFloat(a, floatUnaryDType(a), math.Cos) }
func Tan(a *ndar.Node) (*ndar.Node, error)  { return unaryFloat(a, floatUnaryDType(a), math.Tan) }
func Asin(a *ndar.Node) (*ndar.Node, error) { return unaryFloat(a, floatUnaryDType(a), math.Asin) }
func Acos(a *ndar.Node) (*ndar.Node, error) { return unaryFloat(a, floatUnaryDType(a), math.Acos) }
func Atan(a *ndar.Node) (*ndar.Node, error) { return unaryFloat(a, floatUnaryDType(a), math.Atan) }

// Floor, Ceil, Round operate on floating-point operands only, preserving
// the operand's float width; calling them on an integer or bool operand
// (a no-op in those dtypes) is a Type error rather than a silent identity.
func Floor(a *ndar.Node) (*ndar.Node, error) { return requireFloatUnary("Floor", a, math.Floor) }
func Ceil(a *ndar.Node) (*ndar.Node, error)  { return requireFloatUnary("Ceil", a, math.Ceil) }
func Round(a *ndar.Node) (*ndar.Node, error) { return requireFloatUnary("Round", a, math.Round) }

func requireFloatUnary(op string, a *ndar.Node, fn func(float64) float64) (*ndar.Node, error) {
	if !a.DType().IsFloat() {
		return nil, nerr.Mirror(nerr.Type, fmt.Errorf("mathops: %s requires a floating-point operand, got %s: %w", op, a.DType(), ErrRequiresFloatUnary))
	}
	return unaryFloat(a, a.DType(), fn)
}

// LogicalNot computes the elementwise logical negation of a's truthiness,
// producing Bool.
func LogicalNot(a *ndar.Node) (*ndar.Node, error) {
	return unaryBool(a, func(x bool) bool { return !x })
}

// BitwiseNot computes the elementwise bitwise complement, preserving a's
// (integer or bool) dtype; calling it on a floating-point operand is a Type
// error.
func BitwiseNot(a *ndar.Node) (*ndar.Node, error) {
	if a.DType().IsFloat() {
		return nil, nerr.Mirror(nerr.Type, fmt.Errorf("mathops: BitwiseNot: %w", ErrRequiresIntegerUnary))
	}
	if a.DType() == dtype.Bool {
		return unaryBool(a, func(x bool) bool { return !x })
	}
	if a.DType() == dtype.Uint64 {
		out, err := ndar.NewEmpty(a.Shape(), a.DType())
		if err != nil {
			return nil, err
		}
		aIt, outIt := ndar.NewIter(a), ndar.NewIter(out)
		for aIt.NotDone() {
			x := convert.ReadAs[uint64](aIt.Item(), 0, a.DType())
			convert.WriteAs[uint64](outIt.Item(), 0, a.DType(), ^x)
			aIt.Next()
			outIt.Next()
		}
		return out, nil
	}
	return unaryInt(a, a.DType(), func(x int64) int64 { return ^x })
}
