package types

// Operator is one of the five binary arithmetic operators.
type Operator uint8

const (
	OpInvalid Operator = iota
	OpAdd              // +
	OpSub              // -
	OpMul              // *
	OpDiv              // /
	OpMod              // %
)

var operatorSymbols = [...]string{
	OpInvalid: "",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
}

// LookupOperator maps an operator symbol to its Operator.
// It returns (OpInvalid, false) for anything else.
func LookupOperator(text string) (Operator, bool) {
	switch text {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMul, true
	case "/":
		return OpDiv, true
	case "%":
		return OpMod, true
	}
	return OpInvalid, false
}

// String returns the operator symbol.
func (op Operator) String() string {
	if int(op) < len(operatorSymbols) {
		return operatorSymbols[op]
	}
	return ""
}

// Precedence returns the binding strength: 2 for * / %, 1 for + -, 0 otherwise.
func (op Operator) Precedence() int {
	switch op {
	case OpMul, OpDiv, OpMod:
		return 2
	case OpAdd, OpSub:
		return 1
	}
	return 0
}

// Multiplicative reports whether the renderer must guard the operands
// of op against lower-precedence sub-expressions.
func (op Operator) Multiplicative() bool {
	return op == OpMul || op == OpDiv
}
