package kamin

import "math/big"

// Arity is the argument contract shared by builtins and special forms.
type Arity struct {
	Min      int
	Variadic bool
}

// Check validates an argument count against the contract.
func (a Arity) Check(n int) error {
	if n < a.Min {
		return newError(MissingArguments, "")
	}
	if n > a.Min && !a.Variadic {
		return newError(TooManyArguments, "")
	}
	return nil
}

// Op identifies a builtin operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpLt
	OpGt
)

type builtin struct {
	name  string
	arity Arity
	apply func(a, b *big.Int) (Value, error)
}

var twoArgs = Arity{Min: 2}

var builtins = [...]builtin{
	OpAdd: {"+", twoArgs, func(a, b *big.Int) (Value, error) {
		return BigVal(new(big.Int).Add(a, b)), nil
	}},
	OpSub: {"-", twoArgs, func(a, b *big.Int) (Value, error) {
		return BigVal(new(big.Int).Sub(a, b)), nil
	}},
	OpMul: {"*", twoArgs, func(a, b *big.Int) (Value, error) {
		return BigVal(new(big.Int).Mul(a, b)), nil
	}},
	OpDiv: {"/", twoArgs, floorDiv},
	OpEq: {"=", twoArgs, func(a, b *big.Int) (Value, error) {
		return boolVal(a.Cmp(b) == 0), nil
	}},
	OpLt: {"<", twoArgs, func(a, b *big.Int) (Value, error) {
		return boolVal(a.Cmp(b) < 0), nil
	}},
	OpGt: {">", twoArgs, func(a, b *big.Int) (Value, error) {
		return boolVal(a.Cmp(b) > 0), nil
	}},
}

var builtinsByName map[string]Op

func init() {
	builtinsByName = make(map[string]Op, len(builtins))
	for op, b := range builtins {
		builtinsByName[b.name] = Op(op)
	}
}

// LookupBuiltin finds the operator named by a symbol.
func LookupBuiltin(name string) (Op, bool) {
	op, ok := builtinsByName[name]
	return op, ok
}

// BuiltinNames lists operator symbols in registry order.
func BuiltinNames() []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.name
	}
	return names
}

func (op Op) String() string {
	if int(op) < 0 || int(op) >= len(builtins) {
		return "?"
	}
	return builtins[op].name
}

func (op Op) Arity() Arity {
	return builtins[op].arity
}

// Apply runs the operator on already-evaluated arguments. The caller has
// checked the arity.
func (op Op) Apply(args []Value) (Value, error) {
	for _, a := range args {
		if a.Kind != ValInt {
			return Value{}, newError(InvalidOperand, a.String())
		}
	}
	return builtins[op].apply(args[0].Int, args[1].Int)
}

// floorDiv rounds the quotient toward negative infinity: (/ -7 2) is -4.
func floorDiv(a, b *big.Int) (Value, error) {
	if b.Sign() == 0 {
		return Value{}, newError(DivisionFault, "")
	}
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && r.Sign() != b.Sign() {
		q.Sub(q, big.NewInt(1))
	}
	return BigVal(q), nil
}
