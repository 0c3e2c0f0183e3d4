package policy

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Context holds the four variables a rule condition may reference. It is the
// only data conditions can see: there are no function calls, no other names,
// and no side effects in the expression language.
type Context struct {
	AIProb         float64
	LinesAdded     int
	TestsChanged   bool
	LicenseComment bool
}

type kind int

const (
	kindNum kind = iota
	kindBool
)

func (k kind) String() string {
	if k == kindNum {
		return "number"
	}
	return "boolean"
}

// varKinds fixes the variable set and each variable's type. Anything else is
// a parse error.
var varKinds = map[string]kind{
	"ai_prob":         kindNum,
	"lines_added":     kindNum,
	"tests_changed":   kindBool,
	"license_comment": kindBool,
}

type value struct {
	kind kind
	num  float64
	b    bool
}

// expr is a node in the tagged expression tree. Types are checked at parse
// time, so eval cannot fail.
type expr interface {
	eval(ctx Context) value
	kind() kind
}

type numLit struct{ v float64 }

func (n numLit) eval(Context) value { return value{kind: kindNum, num: n.v} }
func (n numLit) kind() kind         { return kindNum }

type boolLit struct{ v bool }

func (b boolLit) eval(Context) value { return value{kind: kindBool, b: b.v} }
func (b boolLit) kind() kind         { return kindBool }

type varRef struct {
	name string
	k    kind
}

func (v varRef) eval(ctx Context) value {
	switch v.name {
	case "ai_prob":
		return value{kind: kindNum, num: ctx.AIProb}
	case "lines_added":
		return value{kind: kindNum, num: float64(ctx.LinesAdded)}
	case "tests_changed":
		return value{kind: kindBool, b: ctx.TestsChanged}
	default: // license_comment; the parser admits nothing else
		return value{kind: kindBool, b: ctx.LicenseComment}
	}
}
func (v varRef) kind() kind { return v.k }

type compareExpr struct {
	op          string
	left, right expr
}

func (c compareExpr) eval(ctx Context) value {
	l, r := c.left.eval(ctx), c.right.eval(ctx)
	var result bool
	if l.kind == kindBool {
		switch c.op {
		case "==":
			result = l.b == r.b
		case "!=":
			result = l.b != r.b
		}
	} else {
		switch c.op {
		case ">":
			result = l.num > r.num
		case "<":
			result = l.num < r.num
		case ">=":
			result = l.num >= r.num
		case "<=":
			result = l.num <= r.num
		case "==":
			result = l.num == r.num
		case "!=":
			result = l.num != r.num
		}
	}
	return value{kind: kindBool, b: result}
}
func (c compareExpr) kind() kind { return kindBool }

type logicalExpr struct {
	op          string
	left, right expr
}

func (l logicalExpr) eval(ctx Context) value {
	if l.op == "&&" {
		return value{kind: kindBool, b: l.left.eval(ctx).b && l.right.eval(ctx).b}
	}
	return value{kind: kindBool, b: l.left.eval(ctx).b || l.right.eval(ctx).b}
}
func (l logicalExpr) kind() kind { return kindBool }

type notExpr struct{ operand expr }

func (n notExpr) eval(ctx Context) value {
	return value{kind: kindBool, b: !n.operand.eval(ctx).b}
}
func (n notExpr) kind() kind { return kindBool }

// Condition is a compiled boolean expression over the rule context.
type Condition struct {
	root expr
	src  string
}

// Eval evaluates the condition against ctx.
func (c *Condition) Eval(ctx Context) bool {
	return c.root.eval(ctx).b
}

// String returns the original expression source.
func (c *Condition) String() string { return c.src }

// ParseCondition compiles src into a Condition. Only comparisons and logical
// connectives over the four context variables are accepted; anything else —
// unknown identifiers, function calls, assignment — fails to parse and is
// therefore never executed.
func ParseCondition(src string) (*Condition, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != tokEOF {
		return nil, fmt.Errorf("unexpected %q", p.peek().text)
	}
	if root.kind() != kindBool {
		return nil, fmt.Errorf("condition must be boolean, got %s", root.kind())
	}
	return &Condition{root: root, src: strings.TrimSpace(src)}, nil
}

type tokenType int

const (
	tokEOF tokenType = iota
	tokIdent
	tokNumber
	tokOp     // comparison or logical operator
	tokLParen
	tokRParen
)

type token struct {
	typ  tokenType
	text string
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == '&' || c == '|':
			if i+1 >= len(src) || src[i+1] != c {
				return nil, fmt.Errorf("invalid operator %q", string(c))
			}
			toks = append(toks, token{tokOp, src[i : i+2]})
			i += 2
		case c == '>' || c == '<' || c == '=' || c == '!':
			if i+1 < len(src) && src[i+1] == '=' {
				toks = append(toks, token{tokOp, src[i : i+2]})
				i += 2
			} else if c == '=' {
				return nil, fmt.Errorf("invalid operator %q (use ==)", "=")
			} else {
				toks = append(toks, token{tokOp, string(c)})
				i++
			}
		case unicode.IsDigit(rune(c)) || c == '.':
			j := i
			for j < len(src) && (unicode.IsDigit(rune(src[j])) || src[j] == '.') {
				j++
			}
			toks = append(toks, token{tokNumber, src[i:j]})
			i = j
		case unicode.IsLetter(rune(c)) || c == '_':
			j := i
			for j < len(src) && (unicode.IsLetter(rune(src[j])) || unicode.IsDigit(rune(src[j])) || src[j] == '_') {
				j++
			}
			toks = append(toks, token{tokIdent, src[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", string(c))
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseOr() (expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().text == "||" {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		if left.kind() != kindBool || right.kind() != kindBool {
			return nil, fmt.Errorf("|| requires boolean operands")
		}
		left = logicalExpr{op: "||", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().text == "&&" {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if left.kind() != kindBool || right.kind() != kindBool {
			return nil, fmt.Errorf("&& requires boolean operands")
		}
		left = logicalExpr{op: "&&", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (expr, error) {
	if p.peek().text == "!" {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if operand.kind() != kindBool {
			return nil, fmt.Errorf("! requires a boolean operand")
		}
		return notExpr{operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	op := p.peek().text
	switch op {
	case ">", "<", ">=", "<=", "==", "!=":
		p.next()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if left.kind() != right.kind() {
			return nil, fmt.Errorf("cannot compare %s with %s", left.kind(), right.kind())
		}
		if left.kind() == kindBool && op != "==" && op != "!=" {
			return nil, fmt.Errorf("operator %s not defined for booleans", op)
		}
		return compareExpr{op: op, left: left, right: right}, nil
	}
	return left, nil
}

func (p *parser) parsePrimary() (expr, error) {
	t := p.next()
	switch t.typ {
	case tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", t.text)
		}
		return numLit{v: f}, nil
	case tokIdent:
		switch t.text {
		case "true":
			return boolLit{v: true}, nil
		case "false":
			return boolLit{v: false}, nil
		}
		k, ok := varKinds[t.text]
		if !ok {
			return nil, fmt.Errorf("unknown variable %q", t.text)
		}
		return varRef{name: t.text, k: k}, nil
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.next().typ != tokRParen {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		return inner, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected %q", t.text)
	}
}
