package kamin

import (
	"fmt"
	"math/big"
)

type ValueKind int

const (
	ValInt ValueKind = iota
	ValApplicable
)

// Value is the result of evaluation: an integer or a built-in operator.
type Value struct {
	Kind ValueKind
	Int  *big.Int
	Op   Op
}

func IntVal(n int64) Value      { return Value{Kind: ValInt, Int: big.NewInt(n)} }
func BigVal(n *big.Int) Value   { return Value{Kind: ValInt, Int: n} }
func ApplicableVal(op Op) Value { return Value{Kind: ValApplicable, Op: op} }

func boolVal(b bool) Value {
	if b {
		return IntVal(1)
	}
	return IntVal(0)
}

// Truthy is true only for a nonzero integer.
func (v Value) Truthy() bool {
	return v.Kind == ValInt && v.Int.Sign() != 0
}

// Arity returns the contract of an applicable value.
func (v Value) Arity() Arity {
	return v.Op.Arity()
}

func (v Value) String() string {
	switch v.Kind {
	case ValInt:
		return v.Int.String()
	case ValApplicable:
		return fmt.Sprintf("<builtin %s>", v.Op)
	default:
		return fmt.Sprintf("<unknown:%d>", v.Kind)
	}
}

func (v Value) KindName() string {
	switch v.Kind {
	case ValInt:
		return "Int"
	case ValApplicable:
		return "Applicable"
	default:
		return "Unknown"
	}
}

// ValuesEqual compares two Values.
func ValuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ValInt:
		return a.Int.Cmp(b.Int) == 0
	case ValApplicable:
		return a.Op == b.Op
	}
	return false
}
