package query

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrSyntax is the sentinel wrapped into every QuerySyntaxError (spec §7).
	ErrSyntax    = errors.New("query syntax error")
	errNotAMatch = errors.New("not a match")
)

func notAMatch(err error) bool {
	return errors.Is(err, errNotAMatch)
}

func unexpected(t token, expected ...string) error {
	expect := expected[0]
	for _, e := range expected[1:] {
		expect += " or " + e
	}
	return fmt.Errorf("%w: expected %s at position %d, got %q", ErrSyntax, expect, t.Pos, t.Text)
}

// Parse compiles a query string into a Query AST, per spec §4.7. On any
// syntax error, it returns a structured error naming the failing token
// position; it never panics on malformed input.
func Parse(s string) (q *Query, rerr error) {
	l := lexString(s)
	go l.lex()
	p := &parser{str: newTokenStream(l.tokens)}

	defer func() {
		if r := recover(); r != nil {
			rerr = fmt.Errorf("%w: internal parser error: %v", ErrSyntax, r)
		}
	}()

	query, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	return query, nil
}

type parser struct {
	str *tokenStream
}

func (p *parser) parseQuery() (*Query, error) {
	q := &Query{}

	// Optional leading "where" keyword (spec §4.7: "The where keyword is optional").
	if p.str.peek().Type == tWhere {
		p.str.next()
	}

	expr, err := p.parseOrExpr()
	switch {
	case err == nil:
		q.Where = &expr
	case notAMatch(err):
		// No filter expression present; that's valid (spec §8 property 3).
	default:
		return nil, err
	}

	if p.str.peek().Type == tGroup {
		group, err := p.parseGroupClause()
		if err != nil {
			return nil, err
		}
		q.Group = group
	}

	for p.str.peek().Type == tCount || p.str.peek().Type == tAvg || p.str.peek().Type == tSum ||
		p.str.peek().Type == tMin || p.str.peek().Type == tMax {
		agg, err := p.parseAggClause()
		if err != nil {
			return nil, err
		}
		q.Aggs = append(q.Aggs, agg)
	}

	if p.str.peek().Type == tSort {
		sort, err := p.parseSortClause()
		if err != nil {
			return nil, err
		}
		q.Sort = sort
	}

	if p.str.peek().Type == tLimit {
		limit, err := p.parseLimitClause()
		if err != nil {
			return nil, err
		}
		q.Limit = &limit
	}

	if t := p.str.peek(); t.Type != tEof {
		return nil, unexpected(t, "end of query")
	}
	return q, nil
}

// parseOrExpr := AndExpr ('or' AndExpr)*
func (p *parser) parseOrExpr() (Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.str.peek().Type == tOr {
		p.str.next()
		right, err := p.parseAndExpr()
		if err != nil {
			if notAMatch(err) {
				return nil, unexpected(p.str.peek(), "expression")
			}
			return nil, err
		}
		left = BinaryExpr{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

// parseAndExpr := NotExpr ('and' NotExpr)*
func (p *parser) parseAndExpr() (Expr, error) {
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	for p.str.peek().Type == tAnd {
		p.str.next()
		right, err := p.parseNotExpr()
		if err != nil {
			if notAMatch(err) {
				return nil, unexpected(p.str.peek(), "expression")
			}
			return nil, err
		}
		left = BinaryExpr{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

// parseNotExpr := 'not' NotExpr | Primary
func (p *parser) parseNotExpr() (Expr, error) {
	if p.str.peek().Type == tNot {
		p.str.next()
		operand, err := p.parseNotExpr()
		if err != nil {
			if notAMatch(err) {
				return nil, unexpected(p.str.peek(), "expression")
			}
			return nil, err
		}
		return UnaryExpr{Op: OpNot, Operand: operand}, nil
	}
	return p.parsePrimary()
}

// parsePrimary := '(' Expr ')' | Comparison | InExpr | HasExpr | MatchExpr
func (p *parser) parsePrimary() (Expr, error) {
	t := p.str.peek()
	switch t.Type {
	case tLpar:
		p.str.next()
		inner, err := p.parseOrExpr()
		if err != nil {
			if notAMatch(err) {
				return nil, unexpected(p.str.peek(), "expression")
			}
			return nil, err
		}
		rp := p.str.next()
		if rp.Type != tRpar {
			return nil, unexpected(rp, ")")
		}
		return inner, nil
	case tHas:
		p.str.next()
		lp := p.str.next()
		if lp.Type != tLpar {
			return nil, unexpected(lp, "(")
		}
		field := p.str.next()
		if field.Type != tIdentifier {
			return nil, unexpected(field, "field name")
		}
		rp := p.str.next()
		if rp.Type != tRpar {
			return nil, unexpected(rp, ")")
		}
		return HasExpr{Field: field.Text}, nil
	case tIdentifier:
		p.str.next()
		return p.parseFieldExpr(t.Text)
	default:
		return nil, errNotAMatch
	}
}

func (p *parser) parseFieldExpr(field string) (Expr, error) {
	t := p.str.next()
	switch t.Type {
	case tEqEq, tNotEq, tLt, tLte, tGt, tGte:
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return Comparison{Field: field, Op: cmpOpFor(t.Type), Value: lit}, nil
	case tIn:
		lb := p.str.next()
		if lb.Type != tLbrace {
			return nil, unexpected(lb, "{")
		}
		var values []Literal
		for {
			lit, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			values = append(values, lit)
			next := p.str.next()
			if next.Type == tComma {
				continue
			}
			if next.Type == tRbrace {
				break
			}
			return nil, unexpected(next, ",", "}")
		}
		return InExpr{Field: field, Values: values}, nil
	case tMatches:
		pat := p.str.next()
		if pat.Type != tString {
			return nil, unexpected(pat, "string pattern")
		}
		return MatchExpr{Field: field, Pattern: pat.Text}, nil
	default:
		return nil, unexpected(t, "comparison operator", "in", "matches")
	}
}

func cmpOpFor(t lexType) CmpOp {
	switch t {
	case tEqEq:
		return OpEq
	case tNotEq:
		return OpNe
	case tLt:
		return OpLt
	case tLte:
		return OpLte
	case tGt:
		return OpGt
	case tGte:
		return OpGte
	default:
		panic("unreachable")
	}
}

func (p *parser) parseLiteral() (Literal, error) {
	t := p.str.next()
	switch t.Type {
	case tString:
		return Literal{Kind: LitString, S: t.Text}, nil
	case tInt:
		i, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return Literal{}, fmt.Errorf("%w: invalid integer literal %q", ErrSyntax, t.Text)
		}
		return Literal{Kind: LitInt, I: i}, nil
	case tFloat:
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return Literal{}, fmt.Errorf("%w: invalid float literal %q", ErrSyntax, t.Text)
		}
		return Literal{Kind: LitFloat, F: f}, nil
	default:
		return Literal{}, unexpected(t, "string", "number")
	}
}

// parseGroupClause := 'group' ['by'] Ident (',' Ident)*
func (p *parser) parseGroupClause() ([]string, error) {
	p.str.next() // 'group'
	if p.str.peek().Type == tBy {
		p.str.next()
	}
	var fields []string
	for {
		id := p.str.next()
		if id.Type != tIdentifier {
			return nil, unexpected(id, "field name")
		}
		fields = append(fields, id.Text)
		if p.str.peek().Type != tComma {
			break
		}
		p.str.next()
	}
	return fields, nil
}

// parseAggClause := 'count' | ('avg'|'sum'|'min'|'max') Ident
func (p *parser) parseAggClause() (Agg, error) {
	t := p.str.next()
	switch t.Type {
	case tCount:
		return Agg{Func: AggCount}, nil
	case tAvg, tSum, tMin, tMax:
		id := p.str.next()
		if id.Type != tIdentifier {
			return Agg{}, unexpected(id, "field name")
		}
		return Agg{Func: aggFuncFor(t.Type), Field: id.Text}, nil
	default:
		return Agg{}, unexpected(t, "count", "avg", "sum", "min", "max")
	}
}

func aggFuncFor(t lexType) AggFunc {
	switch t {
	case tAvg:
		return AggAvg
	case tSum:
		return AggSum
	case tMin:
		return AggMin
	case tMax:
		return AggMax
	default:
		panic("unreachable")
	}
}

// parseSortClause := 'sort' ['by'] Ident [('asc'|'desc')]
func (p *parser) parseSortClause() (*SortClause, error) {
	p.str.next() // 'sort'
	if p.str.peek().Type == tBy {
		p.str.next()
	}
	id := p.str.next()
	if id.Type != tIdentifier {
		return nil, unexpected(id, "field name")
	}
	sc := &SortClause{Field: id.Text, Dir: SortAsc}
	switch p.str.peek().Type {
	case tAsc:
		p.str.next()
	case tDesc:
		p.str.next()
		sc.Dir = SortDesc
	}
	return sc, nil
}

// parseLimitClause := 'limit' UInt
func (p *parser) parseLimitClause() (uint64, error) {
	p.str.next() // 'limit'
	n := p.str.next()
	if n.Type != tInt {
		return 0, unexpected(n, "non-negative integer")
	}
	u, err := strconv.ParseUint(n.Text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid limit %q", ErrSyntax, n.Text)
	}
	return u, nil
}
