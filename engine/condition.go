package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition expressions use a deliberately small grammar: comparisons,
// existence checks and the two boolean combinators. User input is never
// executed as code. The clause structure is fixed by the raw expression
// before operands are resolved, so a value that happens to spell an
// operator is still treated as data and a placeholder that resolves to
// nothing stays in its clause as an empty operand.
//
//	expr   := clause { ("&&" | "||") clause }
//	clause := operand op operand | operand ("exists" | "not_exists") | operand
//	op     := == | != | > | >= | < | <= | contains
type conditionExpr interface {
	eval(resolve resolver) bool
}

type resolver func(string) string

type comparison struct {
	left  string
	op    string
	right string
}

type existence struct {
	operand string
	negate  bool
}

type operand struct {
	value string
}

type combinator struct {
	left  conditionExpr
	op    string
	right conditionExpr
}

func (c comparison) eval(resolve resolver) bool {
	left := resolve(c.left)
	right := resolve(c.right)
	lf, lerr := strconv.ParseFloat(left, 64)
	rf, rerr := strconv.ParseFloat(right, 64)
	numeric := lerr == nil && rerr == nil
	switch c.op {
	case "==":
		if numeric {
			return lf == rf
		}
		return left == right
	case "!=":
		if numeric {
			return lf != rf
		}
		return left != right
	case ">":
		return numeric && lf > rf
	case ">=":
		return numeric && lf >= rf
	case "<":
		return numeric && lf < rf
	case "<=":
		return numeric && lf <= rf
	case "contains":
		return strings.Contains(left, right)
	}
	return false
}

func (e existence) eval(resolve resolver) bool {
	present := resolve(e.operand) != ""
	if e.negate {
		return !present
	}
	return present
}

// A bare operand is truthy unless it resolves to nothing, "false" or "0".
func (o operand) eval(resolve resolver) bool {
	v := resolve(o.value)
	return v != "" && v != "false" && v != "0"
}

func (c combinator) eval(resolve resolver) bool {
	if c.op == "&&" {
		return c.left.eval(resolve) && c.right.eval(resolve)
	}
	return c.left.eval(resolve) || c.right.eval(resolve)
}

// EvalCondition parses and evaluates one literal condition expression.
func EvalCondition(expression string) (bool, error) {
	return EvalConditionTemplate(expression, func(s string) string { return s })
}

// EvalConditionTemplate evaluates an expression whose operands may still
// contain placeholders. Each operand passes through resolve only after
// parsing, so `{{trigger.email}} exists` stays an existence check even
// when the path resolves to an empty string.
func EvalConditionTemplate(expression string, resolve func(string) string) (bool, error) {
	expr, err := parseCondition(expression)
	if err != nil {
		return false, err
	}
	return expr.eval(resolve), nil
}

func parseCondition(expression string) (conditionExpr, error) {
	tokens, err := tokenize(expression)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty condition")
	}
	var root conditionExpr
	var pendingOp string
	clause := make([]string, 0, 3)

	flush := func() error {
		expr, err := parseClause(clause)
		if err != nil {
			return err
		}
		if root == nil {
			root = expr
		} else {
			root = combinator{left: root, op: pendingOp, right: expr}
		}
		clause = clause[:0]
		return nil
	}

	for _, tok := range tokens {
		if tok == "&&" || tok == "||" {
			if err := flush(); err != nil {
				return nil, err
			}
			pendingOp = tok
			continue
		}
		clause = append(clause, tok)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return root, nil
}

func parseClause(tokens []string) (conditionExpr, error) {
	switch len(tokens) {
	case 1:
		return operand{value: tokens[0]}, nil
	case 2:
		switch tokens[1] {
		case "exists":
			return existence{operand: tokens[0]}, nil
		case "not_exists":
			return existence{operand: tokens[0], negate: true}, nil
		}
		return nil, fmt.Errorf("unknown operator %q", tokens[1])
	case 3:
		switch tokens[1] {
		case "==", "!=", ">", ">=", "<", "<=", "contains":
			return comparison{left: tokens[0], op: tokens[1], right: tokens[2]}, nil
		}
		return nil, fmt.Errorf("unknown operator %q", tokens[1])
	}
	return nil, fmt.Errorf("malformed condition clause %v", tokens)
}

func tokenize(expression string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inQuote := false
	var quote byte

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(expression); i++ {
		ch := expression[i]
		if inQuote {
			if ch == quote {
				tokens = append(tokens, current.String())
				current.Reset()
				inQuote = false
			} else {
				current.WriteByte(ch)
			}
			continue
		}
		switch ch {
		case '\'', '"':
			flush()
			inQuote = true
			quote = ch
		case ' ', '\t':
			flush()
		default:
			current.WriteByte(ch)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote in condition %q", expression)
	}
	flush()
	return tokens, nil
}
