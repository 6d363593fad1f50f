package parser

import (
	"strconv"

	"github.com/leapstack-labs/minisql/pkg/ast"
	"github.com/leapstack-labs/minisql/pkg/token"
)

// Expression parsing.
//
// Grammar:
//
//	expr       → comparison
//	comparison → primary [compare_op primary]
//	primary    → ident | literal
//	literal    → NUMBER | STRING
//
// A WHERE clause holds at most one comparison. AND, OR and NOT are
// reserved words but no rule accepts them.

// parseOptionalWhere parses [WHERE expr]. It returns nil when the clause
// is absent.
func (p *Parser) parseOptionalWhere() (ast.Expr, error) {
	if !p.matchKeyword(token.WHERE) {
		return nil, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.checkKeyword(token.AND) || p.checkKeyword(token.OR) || p.checkKeyword(token.NOT) {
		return nil, p.errorf("logical operators are not supported in WHERE", "';' or end of statement")
	}

	return expr, nil
}

// parseExpression parses an expression.
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseComparison()
}

// parseComparison parses primary [op primary]. Comparisons do not chain.
func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if !p.check(token.OPERATOR) {
		return left, nil
	}

	opTok := p.token
	op, ok := ast.ParseOperator(opTok.Lexeme)
	if !ok {
		return nil, p.errorf("unknown comparison operator "+opTok.Lexeme, "")
	}
	p.nextToken()

	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	return &ast.BinaryExpr{
		NodeInfo: ast.At(opTok.Pos),
		Left:     left,
		Op:       op,
		Right:    right,
	}, nil
}

// parsePrimary parses an identifier or a literal.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.token.Kind {
	case token.IDENT:
		id := &ast.Identifier{NodeInfo: ast.At(p.token.Pos), Name: p.token.Lexeme}
		p.nextToken()
		return id, nil
	case token.NUMBER, token.STRING:
		return p.parseLiteral()
	default:
		return nil, p.errorf("expected identifier or literal", ExpectPrimary)
	}
}

// parseLiteral parses an integer or string literal.
func (p *Parser) parseLiteral() (ast.Literal, error) {
	tok := p.token
	switch tok.Kind {
	case token.NUMBER:
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, errorAt(tok, "integer literal out of range", "")
		}
		p.nextToken()
		return &ast.IntLiteral{NodeInfo: ast.At(tok.Pos), Value: v}, nil
	case token.STRING:
		p.nextToken()
		return &ast.StringLiteral{NodeInfo: ast.At(tok.Pos), Value: tok.Lexeme}, nil
	default:
		return nil, p.errorf("expected literal value", ExpectLiteral)
	}
}
