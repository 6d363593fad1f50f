package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/leapstack-labs/minisql/pkg/token"
)

// eof is returned by current and peekChar past the end of input.
const eof rune = -1

// Lexer tokenizes SQL input. It scans characters (runes), not bytes, so
// columns count characters.
type Lexer struct {
	input []rune
	pos   int // index of the current character
	line  int // line of the current character (1-based)
	col   int // column of the current character (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: []rune(input),
		line:  1,
		col:   1,
	}
}

// current returns the character under examination.
func (l *Lexer) current() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	return l.input[l.pos]
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.pos+1 >= len(l.input) {
		return eof
	}
	return l.input[l.pos+1]
}

// advance consumes the current character.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

// currentPos returns the position of the current character.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token. At end of input it returns an EOF
// token at the final position; every further call does the same.
func (l *Lexer) NextToken() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	pos := l.currentPos()
	ch := l.current()

	switch ch {
	case eof:
		return token.Token{Kind: token.EOF, Pos: pos}, nil
	case '\'', '"':
		return l.readString(ch)
	case '=':
		return l.single(token.OPERATOR, pos), nil
	case '<':
		switch l.peekChar() {
		case '=', '>':
			return l.double(token.OPERATOR, pos), nil
		}
		return l.single(token.OPERATOR, pos), nil
	case '>':
		if l.peekChar() == '=' {
			return l.double(token.OPERATOR, pos), nil
		}
		return l.single(token.OPERATOR, pos), nil
	case '!':
		if l.peekChar() == '=' {
			return l.double(token.OPERATOR, pos), nil
		}
		return token.Token{}, &LexError{Pos: pos, Message: fmt.Sprintf(ErrUnknownOperator, ch)}
	case ',':
		return l.single(token.COMMA, pos), nil
	case ';':
		return l.single(token.SEMICOLON, pos), nil
	case '(':
		return l.single(token.LPAREN, pos), nil
	case ')':
		return l.single(token.RPAREN, pos), nil
	}

	switch {
	case isDigit(ch):
		return token.Token{Kind: token.NUMBER, Lexeme: l.readNumber(), Pos: pos}, nil
	case isLetter(ch) || ch == '_':
		kind, lexeme := token.LookupIdent(l.readIdentifier())
		return token.Token{Kind: kind, Lexeme: lexeme, Pos: pos}, nil
	}

	return token.Token{}, &LexError{Pos: pos, Message: fmt.Sprintf(ErrUnexpectedChar, ch)}
}

// single consumes one character as a token of the given kind.
func (l *Lexer) single(kind token.Kind, pos token.Position) token.Token {
	lexeme := string(l.current())
	l.advance()
	return token.Token{Kind: kind, Lexeme: lexeme, Pos: pos}
}

// double consumes two characters as a token of the given kind.
func (l *Lexer) double(kind token.Kind, pos token.Position) token.Token {
	lexeme := string([]rune{l.current(), l.peekChar()})
	l.advance()
	l.advance()
	return token.Token{Kind: kind, Lexeme: lexeme, Pos: pos}
}

// skipWhitespaceAndComments skips whitespace, line comments and block
// comments. An unterminated block comment is an error anchored at its start.
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		for unicode.IsSpace(l.current()) {
			l.advance()
		}

		// Line comment (-- ...)
		if l.current() == '-' && l.peekChar() == '-' {
			for l.current() != '\n' && l.current() != eof {
				l.advance()
			}
			continue
		}

		// Block comment (/* ... */)
		if l.current() == '/' && l.peekChar() == '*' {
			start := l.currentPos()
			l.advance() // skip '/'
			l.advance() // skip '*'
			closed := false
			for l.current() != eof {
				if l.current() == '*' && l.peekChar() == '/' {
					l.advance() // skip '*'
					l.advance() // skip '/'
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				return &LexError{Pos: start, Message: ErrUnterminatedComment}
			}
			continue
		}

		return nil
	}
}

// readString reads a string literal delimited by quote.
// Escapes \n \t \r \\ and \<quote> are resolved; any other escaped
// character is kept as is, without the backslash.
func (l *Lexer) readString(quote rune) (token.Token, error) {
	start := l.currentPos()
	l.advance() // skip opening quote

	var result strings.Builder
	for {
		ch := l.current()
		switch {
		case ch == eof:
			return token.Token{}, &LexError{Pos: start, Message: ErrUnterminatedString}
		case ch == quote:
			l.advance() // skip closing quote
			return token.Token{Kind: token.STRING, Lexeme: result.String(), Pos: start}, nil
		case ch == '\\':
			l.advance()
			next := l.current()
			if next == eof {
				continue
			}
			switch next {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case 'r':
				result.WriteRune('\r')
			default:
				result.WriteRune(next)
			}
			l.advance()
		default:
			result.WriteRune(ch)
			l.advance()
		}
	}
}

// readIdentifier reads an unquoted identifier or keyword.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.current()) || unicode.IsDigit(l.current()) || l.current() == '_' {
		l.advance()
	}
	return string(l.input[start:l.pos])
}

// readNumber reads an unsigned integer literal.
func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.current()) {
		l.advance()
	}
	return string(l.input[start:l.pos])
}

// isLetter returns true if ch is a letter.
func isLetter(ch rune) bool {
	return ch != eof && unicode.IsLetter(ch)
}

// isDigit returns true if ch is an ASCII digit.
func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input, terminated by one EOF token.
//
// On the first lexical error Tokenize stops. It returns the tokens scanned
// so far followed by an ILLEGAL token carrying the error message at the
// error position, together with the *LexError.
func Tokenize(input string) ([]token.Token, error) {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				return tokens, err
			}
			tokens = append(tokens, token.Token{Kind: token.ILLEGAL, Lexeme: lexErr.Message, Pos: lexErr.Pos})
			return tokens, lexErr
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}
