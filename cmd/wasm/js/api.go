package main

import (
	"errors"
	"fmt"

	"github.com/sandrolain/rpncalc"
)

// callEval implements rpncalc.eval(rpn) without touching syscall/js, so the
// argument handling is testable on any platform.
func callEval(calc *rpncalc.Calculator, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, errors.New("rpncalc.eval requires 1 argument: rpn (string)")
	}
	v, err := calc.EvalString(args[0])
	if err != nil {
		return nil, fmt.Errorf("rpncalc.eval: %w", err)
	}
	return v, nil
}

// callInfix implements rpncalc.infix(rpn).
func callInfix(calc *rpncalc.Calculator, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, errors.New("rpncalc.infix requires 1 argument: rpn (string)")
	}
	s, err := calc.Infix(args[0])
	if err != nil {
		return nil, fmt.Errorf("rpncalc.infix: %w", err)
	}
	return s, nil
}
