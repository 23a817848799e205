package kamin

import "errors"

type ErrorKind int

const (
	UnexpectedEndOfInput ErrorKind = iota
	UnexpectedRightParen
	InvalidOperator
	NullExpression
	MissingArguments
	TooManyArguments
	DivisionFault
	InvalidOperand
)

var errorKindNames = [...]string{
	UnexpectedEndOfInput: "UnexpectedEndOfInput",
	UnexpectedRightParen: "UnexpectedRightParen",
	InvalidOperator:      "InvalidOperator",
	NullExpression:       "NullExpression",
	MissingArguments:     "MissingArguments",
	TooManyArguments:     "TooManyArguments",
	DivisionFault:        "DivisionFault",
	InvalidOperand:       "InvalidOperand",
}

var errorKindMessages = [...]string{
	UnexpectedEndOfInput: "unexpected end of input",
	UnexpectedRightParen: "unexpected )",
	InvalidOperator:      "invalid operator",
	NullExpression:       "null expression",
	MissingArguments:     "missing arguments",
	TooManyArguments:     "too many arguments",
	DivisionFault:        "division by zero",
	InvalidOperand:       "invalid operand",
}

func (k ErrorKind) String() string {
	if int(k) < 0 || int(k) >= len(errorKindNames) {
		return "Unknown"
	}
	return errorKindNames[k]
}

// Error is returned by the parser and evaluator. Every error aborts the
// current input line.
type Error struct {
	Kind   ErrorKind
	Detail string // offending token or value, if any
}

func newError(kind ErrorKind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func (e *Error) Error() string {
	msg := "unknown error"
	if int(e.Kind) >= 0 && int(e.Kind) < len(errorKindMessages) {
		msg = errorKindMessages[e.Kind]
	}
	if e.Detail != "" {
		return msg + ": " + e.Detail
	}
	return msg
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// KindOf returns the kind of err, or false if err is not an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
