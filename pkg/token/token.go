// Package token defines the lexical tokens of the minisql dialect.
//
// Keywords share a single KEYWORD kind; the keyword itself is carried in the
// upper-cased Lexeme. Comparison operators likewise share OPERATOR.
package token

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind classifies a lexical token.
type Kind int

const (
	// Special tokens
	EOF Kind = iota
	ILLEGAL

	// Words and literals
	KEYWORD
	IDENT  // identifier
	NUMBER // integer literal: 123
	STRING // 'hello' or "hello"

	// Comparison operator: = != <> < > <= >=
	OPERATOR

	// Delimiters
	COMMA     // ,
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
)

var kindNames = map[Kind]string{
	EOF:       "EOF",
	ILLEGAL:   "ILLEGAL",
	KEYWORD:   "KEYWORD",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	OPERATOR:  "OPERATOR",
	COMMA:     "COMMA",
	SEMICOLON: "SEMICOLON",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
}

// String returns a human-readable representation of the token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND(%d)", int(k))
}

// Keywords of the dialect, upper case.
const (
	CREATE  = "CREATE"
	TABLE   = "TABLE"
	INSERT  = "INSERT"
	INTO    = "INTO"
	SELECT  = "SELECT"
	FROM    = "FROM"
	WHERE   = "WHERE"
	VALUES  = "VALUES"
	DELETE  = "DELETE"
	UPDATE  = "UPDATE"
	SET     = "SET"
	INT     = "INT"
	INTEGER = "INTEGER"
	VARCHAR = "VARCHAR"
	CHAR    = "CHAR"
	AND     = "AND"
	OR      = "OR"
	NOT     = "NOT"
)

// keywords is the fixed reserved-word set.
var keywords = map[string]struct{}{
	CREATE:  {},
	TABLE:   {},
	INSERT:  {},
	INTO:    {},
	SELECT:  {},
	FROM:    {},
	WHERE:   {},
	VALUES:  {},
	DELETE:  {},
	UPDATE:  {},
	SET:     {},
	INT:     {},
	INTEGER: {},
	VARCHAR: {},
	CHAR:    {},
	AND:     {},
	OR:      {},
	NOT:     {},
}

// LookupIdent classifies a scanned word. If the word is a keyword
// (case-insensitively), KEYWORD and the upper-cased keyword are returned.
// Otherwise IDENT and the word unchanged are returned.
func LookupIdent(word string) (Kind, string) {
	upper := strings.ToUpper(word)
	if _, ok := keywords[upper]; ok {
		return KEYWORD, upper
	}
	return IDENT, word
}

// Fold returns the case-insensitive comparison key of a table or column
// name: its full Unicode upper-case form, so "straße" and "STRASSE" match.
func Fold(name string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Upper(language.Und).String(name)
}

// Token represents a lexical token with position information.
// Tokens are values and are never mutated after the lexer produces them.
type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
}

// Is reports whether the token is the keyword kw.
func (t Token) Is(kw string) bool {
	return t.Kind == KEYWORD && t.Lexeme == kw
}

// String renders the token for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case STRING:
		return fmt.Sprintf("string %q", t.Lexeme)
	case ILLEGAL:
		return fmt.Sprintf("illegal token (%s)", t.Lexeme)
	default:
		return fmt.Sprintf("'%s'", t.Lexeme)
	}
}
