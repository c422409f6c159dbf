package evaluator

import (
	"math"

	"github.com/sandrolain/rpncalc/pkg/types"
)

// apply computes x op y. The returned error has no position; the caller
// fills it in.
func apply(op types.Operator, x, y int64) (int64, *types.Error) {
	switch op {
	case types.OpAdd:
		return checkedAdd(x, y)
	case types.OpSub:
		return checkedSub(x, y)
	case types.OpMul:
		return checkedMul(x, y)
	case types.OpDiv:
		return checkedDiv(x, y)
	case types.OpMod:
		return checkedMod(x, y)
	}
	return 0, types.NewError(types.ErrInvalidToken, "invalid token", -1)
}

func overflow() *types.Error {
	return types.NewError(types.ErrOverflow, "overflow", -1)
}

func checkedAdd(x, y int64) (int64, *types.Error) {
	s := x + y
	// Overflow iff both operands share a sign that the sum does not.
	if (x^s)&(y^s) < 0 {
		return 0, overflow()
	}
	return s, nil
}

func checkedSub(x, y int64) (int64, *types.Error) {
	d := x - y
	if (x^y)&(x^d) < 0 {
		return 0, overflow()
	}
	return d, nil
}

func checkedMul(x, y int64) (int64, *types.Error) {
	if x == 0 || y == 0 {
		return 0, nil
	}
	// MinInt64 * -1 wraps to MinInt64, which the division check cannot see.
	if (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return 0, overflow()
	}
	p := x * y
	if p/y != x {
		return 0, overflow()
	}
	return p, nil
}

func checkedDiv(x, y int64) (int64, *types.Error) {
	if y == 0 {
		return 0, types.NewError(types.ErrDivisionByZero, "division by zero", -1)
	}
	if x == math.MinInt64 && y == -1 {
		return 0, overflow()
	}
	return x / y, nil
}

// checkedMod rejects every non-positive modulus, zero included.
func checkedMod(x, y int64) (int64, *types.Error) {
	if y < 0 {
		return 0, types.NewError(types.ErrNonPositiveModulus, "division by negative", -1)
	}
	if y == 0 {
		return 0, types.NewError(types.ErrNonPositiveModulus, "modulo by zero", -1)
	}
	return x % y, nil
}
