package kamin

import "fmt"

// Form identifies a special form. Special forms receive their arguments
// unevaluated.
type Form int

const (
	FormIf Form = iota
	FormPrint
	FormBegin
)

type specialForm struct {
	name  string
	arity Arity
	eval  func(e *Evaluator, args []*Node) (Value, error)
}

var forms [3]specialForm

var formsByName map[string]Form

func init() {
	forms = [...]specialForm{
		FormIf:    {"if", Arity{Min: 3}, (*Evaluator).evalIf},
		FormPrint: {"print", Arity{Min: 1}, (*Evaluator).evalPrint},
		FormBegin: {"begin", Arity{Min: 1, Variadic: true}, (*Evaluator).evalBegin},
	}
	formsByName = make(map[string]Form, len(forms))
	for f, sf := range forms {
		formsByName[sf.name] = Form(f)
	}
}

// LookupForm finds the special form named by a symbol.
func LookupForm(name string) (Form, bool) {
	f, ok := formsByName[name]
	return f, ok
}

// FormNames lists special form keywords in registry order.
func FormNames() []string {
	names := make([]string, len(forms))
	for i, sf := range forms {
		names[i] = sf.name
	}
	return names
}

func (f Form) String() string { return forms[f].name }
func (f Form) Arity() Arity   { return forms[f].arity }

// evalIf: (if test conseq alt). Only the chosen branch is evaluated.
func (e *Evaluator) evalIf(args []*Node) (Value, error) {
	test, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if test.Truthy() {
		return e.Eval(args[1])
	}
	return e.Eval(args[2])
}

// evalPrint writes the value on its own line and returns it.
func (e *Evaluator) evalPrint(args []*Node) (Value, error) {
	val, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	fmt.Fprintln(e.out(), val.String())
	return val, nil
}

// evalBegin: (begin expr1 ... exprN), eval all, return last.
func (e *Evaluator) evalBegin(args []*Node) (Value, error) {
	var result Value
	var err error
	for _, arg := range args {
		result, err = e.Eval(arg)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}
