package parser

import (
	"fmt"

	"github.com/leapstack-labs/minisql/pkg/token"
)

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// ParseError represents a parsing error. Token is the offending token;
// Expected describes what the production wanted, when that is known.
type ParseError struct {
	Message  string
	Token    token.Token
	Expected string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error at line %d, column %d: %s", e.Token.Pos.Line, e.Token.Pos.Column, e.Message)
	if e.Expected != "" {
		msg += fmt.Sprintf(" (expected %s, got %s)", e.Expected, e.Token)
	}
	return msg
}

// Pos returns the position of the offending token.
func (e *ParseError) Pos() token.Position {
	return e.Token.Pos
}

// Lexical error messages
const (
	ErrUnterminatedString  = "unterminated string literal"
	ErrUnterminatedComment = "unterminated block comment"
	ErrUnknownOperator     = "unknown operator '%c'"
	ErrUnexpectedChar      = "unexpected character '%c'"
)

// Descriptions of expected input used in ParseError.Expected
const (
	ExpectStatement  = "CREATE, INSERT, SELECT, DELETE, or UPDATE"
	ExpectIdentifier = "identifier"
	ExpectDataType   = "INT, INTEGER, VARCHAR, or CHAR"
	ExpectPrimary    = "identifier or literal"
	ExpectLiteral    = "integer or string literal"
	ExpectListSep    = "',' or ')'"
)
