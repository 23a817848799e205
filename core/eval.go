package kamin

import (
	"fmt"
	"io"
	"os"
)

// Evaluator evaluates expression trees. It holds no language state; Out is
// where print writes (stdout when nil).
type Evaluator struct {
	Out io.Writer
}

func (e *Evaluator) out() io.Writer {
	if e.Out == nil {
		return os.Stdout
	}
	return e.Out
}

// EvalString parses the first expression of src and evaluates it.
func (e *Evaluator) EvalString(src string) (Value, error) {
	node, err := Parse(src)
	if err != nil {
		return Value{}, err
	}
	return e.Eval(node)
}

func (e *Evaluator) Eval(node *Node) (Value, error) {
	switch node.Kind {
	case NodeInt:
		return BigVal(node.Int), nil
	case NodeSymbol:
		return e.resolveSymbol(node.Str)
	case NodeList:
		return e.evalList(node)
	default:
		return Value{}, fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

func (e *Evaluator) resolveSymbol(name string) (Value, error) {
	if op, ok := LookupBuiltin(name); ok {
		return ApplicableVal(op), nil
	}
	return Value{}, newError(InvalidOperator, name)
}

func (e *Evaluator) evalList(node *Node) (Value, error) {
	if len(node.Children) == 0 {
		return Value{}, newError(NullExpression, "")
	}

	head := node.Children[0]
	rest := node.Children[1:]

	// Special forms
	if head.Kind == NodeSymbol {
		if f, ok := LookupForm(head.Str); ok {
			if err := f.Arity().Check(len(rest)); err != nil {
				return Value{}, err
			}
			return forms[f].eval(e, rest)
		}
	}

	// Evaluate head and arguments left to right
	vals := make([]Value, len(node.Children))
	for i, child := range node.Children {
		val, err := e.Eval(child)
		if err != nil {
			return Value{}, err
		}
		vals[i] = val
	}

	fn, args := vals[0], vals[1:]
	if fn.Kind != ValApplicable {
		return Value{}, newError(InvalidOperator, fn.String())
	}
	if err := fn.Arity().Check(len(args)); err != nil {
		return Value{}, err
	}
	return fn.Op.Apply(args)
}
