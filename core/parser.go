package kamin

import (
	"math/big"
	"regexp"
	"strings"
)

type NodeKind int

const (
	NodeInt NodeKind = iota
	NodeSymbol
	NodeList
)

type Node struct {
	Kind     NodeKind
	Int      *big.Int
	Str      string
	Children []*Node
}

func IntNode(n int64) *Node     { return &Node{Kind: NodeInt, Int: big.NewInt(n)} }
func SymbolNode(s string) *Node { return &Node{Kind: NodeSymbol, Str: s} }
func ListNode(children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Kind: NodeList, Children: children}
}

func (n *Node) String() string {
	switch n.Kind {
	case NodeInt:
		return n.Int.String()
	case NodeSymbol:
		return n.Str
	case NodeList:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = c.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return "<unknown>"
	}
}

// Tokenize splits source text into parentheses and whitespace-delimited atoms.
func Tokenize(src string) []string {
	src = strings.ReplaceAll(src, "(", " ( ")
	src = strings.ReplaceAll(src, ")", " ) ")
	return strings.Fields(src)
}

// TokenStream is a forward-only cursor over a token slice. The slice is never
// modified.
type TokenStream struct {
	tokens []string
	pos    int
}

func NewTokenStream(tokens []string) *TokenStream {
	return &TokenStream{tokens: tokens}
}

func (ts *TokenStream) peek() (string, bool) {
	if ts.pos >= len(ts.tokens) {
		return "", false
	}
	return ts.tokens[ts.pos], true
}

func (ts *TokenStream) next() (string, bool) {
	tok, ok := ts.peek()
	if ok {
		ts.pos++
	}
	return tok, ok
}

// Remaining reports how many tokens have not been consumed yet.
func (ts *TokenStream) Remaining() int {
	return len(ts.tokens) - ts.pos
}

// Parse reads the first expression of src. Tokens after it are left unread.
func Parse(src string) (*Node, error) {
	return Read(NewTokenStream(Tokenize(src)))
}

// Read consumes exactly one expression from ts.
func Read(ts *TokenStream) (*Node, error) {
	tok, ok := ts.next()
	if !ok {
		return nil, newError(UnexpectedEndOfInput, "")
	}
	switch tok {
	case "(":
		return readList(ts)
	case ")":
		return nil, newError(UnexpectedRightParen, "")
	default:
		return Atom(tok), nil
	}
}

func readList(ts *TokenStream) (*Node, error) {
	children := []*Node{}
	for {
		tok, ok := ts.peek()
		if !ok {
			return nil, newError(UnexpectedEndOfInput, "")
		}
		if tok == ")" {
			ts.pos++ // consume ')'
			return &Node{Kind: NodeList, Children: children}, nil
		}
		child, err := Read(ts)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
}

var integerPattern = regexp.MustCompile(`^-?[0-9]+$`)

// Atom classifies a token: -1 is an integer, +1 is a symbol.
func Atom(token string) *Node {
	if integerPattern.MatchString(token) {
		n, ok := new(big.Int).SetString(token, 10)
		if ok {
			return &Node{Kind: NodeInt, Int: n}
		}
	}
	return &Node{Kind: NodeSymbol, Str: token}
}
