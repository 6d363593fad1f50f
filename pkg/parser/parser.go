// Package parser turns minisql source text into an AST.
//
// # Usage
//
//	prog, err := parser.ParseString("SELECT id, name FROM student WHERE age > 18;")
//	if err != nil {
//	    // *parser.LexError or *parser.ParseError
//	}
//
// Tokenize and Parse can also be called separately; Parse consumes the
// token slice produced by Tokenize.
//
// # Grammar Overview
//
// The parser implements a recursive descent parser with one production
// function per rule:
//
//	program      → (statement [";"])* EOF
//	statement    → create_table | insert | select | delete | update
//
// See parser_stmt.go and parser_expr.go for the rules of each section.
// The first error stops parsing; there is no recovery.
package parser

import (
	"github.com/leapstack-labs/minisql/pkg/ast"
	"github.com/leapstack-labs/minisql/pkg/token"
)

// Parser parses a token sequence into an AST.
// A Parser is single-use.
type Parser struct {
	tokens []token.Token
	pos    int
	token  token.Token // current token
}

// NewParser creates a parser over tokens. If tokens does not end with an
// EOF or ILLEGAL token, an EOF token is appended.
func NewParser(tokens []token.Token) *Parser {
	if n := len(tokens); n == 0 || (tokens[n-1].Kind != token.EOF && tokens[n-1].Kind != token.ILLEGAL) {
		var pos token.Position
		if n > 0 {
			pos = tokens[n-1].Pos
		} else {
			pos = token.Position{Line: 1, Column: 1}
		}
		tokens = append(tokens[:n:n], token.Token{Kind: token.EOF, Pos: pos})
	}
	return &Parser{tokens: tokens, token: tokens[0]}
}

// Parse parses a token sequence into a Program.
func Parse(tokens []token.Token) (*ast.Program, error) {
	return NewParser(tokens).ParseProgram()
}

// ParseString tokenizes and parses source. A lexical failure is returned
// as *LexError, a structural one as *ParseError.
func ParseString(source string) (*ast.Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// ParseProgram parses statements until end of input.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{NodeInfo: ast.At(token.Position{Line: 1, Column: 1})}

	for !p.check(token.EOF) {
		if p.check(token.ILLEGAL) {
			return nil, p.lexicalError()
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)

		// Optional semicolon
		p.match(token.SEMICOLON)
	}

	return prog, nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token. The cursor never moves past the
// final token.
func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.token = p.tokens[p.pos]
}

// peek returns the token offset positions ahead of the current one, or
// the final token when that runs past the end.
func (p *Parser) peek(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// check returns true if the current token is of the given kind.
func (p *Parser) check(k token.Kind) bool {
	return p.token.Kind == k
}

// checkKeyword returns true if the current token is the keyword kw.
func (p *Parser) checkKeyword(kw string) bool {
	return p.token.Is(kw)
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.nextToken()
		return true
	}
	return false
}

// matchKeyword consumes the current token if it is the keyword kw.
func (p *Parser) matchKeyword(kw string) bool {
	if p.checkKeyword(kw) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise returns an error.
func (p *Parser) expect(k token.Kind, msg, expected string) (token.Token, error) {
	if p.check(k) {
		tok := p.token
		p.nextToken()
		return tok, nil
	}
	return token.Token{}, p.errorf(msg, expected)
}

// expectKeyword consumes the keyword kw, otherwise returns an error.
func (p *Parser) expectKeyword(kw, msg string) error {
	if p.matchKeyword(kw) {
		return nil
	}
	return p.errorf(msg, kw)
}

// expectIdent consumes an identifier and returns its name.
func (p *Parser) expectIdent(msg string) (string, error) {
	tok, err := p.expect(token.IDENT, msg, ExpectIdentifier)
	if err != nil {
		return "", err
	}
	return tok.Lexeme, nil
}

// errorf builds a ParseError at the current token. A lexical-error token
// takes precedence over the production's own message.
func (p *Parser) errorf(msg, expected string) *ParseError {
	if p.check(token.ILLEGAL) {
		return p.lexicalError()
	}
	return &ParseError{Message: msg, Token: p.token, Expected: expected}
}

// errorAt builds a ParseError at tok.
func errorAt(tok token.Token, msg, expected string) *ParseError {
	return &ParseError{Message: msg, Token: tok, Expected: expected}
}

// lexicalError escalates the current ILLEGAL token.
func (p *Parser) lexicalError() *ParseError {
	return &ParseError{Message: "lexical error: " + p.token.Lexeme, Token: p.token}
}
