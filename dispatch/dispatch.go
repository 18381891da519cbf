// Package dispatch resolves the output dtype of an elementwise or reduction
// kernel from its operands' (promoted) dtype and the kernel's declared
// output-dtype policy, and handles the "caller asked for a different output
// dtype than the kernel naturally produces" case by computing in the
// resolved dtype and converting the result afterward (spec §4.9).
package dispatch

import (
	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/convert"
	"github.com/katalvlaran/nour/dtype"
)

// OutPolicy is the output-dtype tag a kernel (an NFunc in spec terms) is
// declared with (spec §4.9):
//
//   - PolicyNone: the output has the operands' promoted dtype (arithmetic).
//   - PolicyFloat: the output is always floating point; a promoted integer
//     dtype is widened to Float64.
//   - PolicyBool: the output is always Bool (comparisons, logical ops).
//   - PolicyInt: the output is always integer; a promoted float or Bool
//     dtype falls back to Int64.
type OutPolicy int

const (
	PolicyNone OutPolicy = iota
	PolicyFloat
	PolicyBool
	PolicyInt
)

// ResolveDType computes the dtype a kernel tagged with policy must compute
// in, given the operands' already-promoted dtype.
func ResolveDType(promoted dtype.DType, policy OutPolicy) dtype.DType {
	switch policy {
	case PolicyFloat:
		if promoted.IsFloat() {
			return promoted
		}
		return dtype.Float64
	case PolicyBool:
		return dtype.Bool
	case PolicyInt:
		if promoted.IsInteger() {
			return promoted
		}
		return dtype.Int64
	default:
		return promoted
	}
}

// NFuncArgs describes one invocation of a binary NFunc: the two operands
// (already checked for broadcast-compatibility by the caller) and the
// caller's requested output dtype. A nil WantOut means "whatever the
// resolved policy dtype is" — the common case.
type NFuncArgs struct {
	A, B    *ndar.Node
	WantOut *dtype.DType
}

// Finalize converts computed (produced in the kernel's resolved dtype) to
// wantOut if the caller asked for a different dtype than the kernel
// naturally produced, per spec §4.9's "allocate a temporary in the resolved
// dtype, then convert to the caller's requested dtype" policy. A nil wantOut
// is a no-op: computed is returned unchanged.
func Finalize(computed *ndar.Node, wantOut *dtype.DType) (*ndar.Node, error) {
	if wantOut == nil || *wantOut == computed.DType() {
		return computed, nil
	}
	return convert.ToDType(nil, computed, *wantOut)
}
