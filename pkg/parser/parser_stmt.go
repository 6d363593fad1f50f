package parser

import (
	"strconv"

	"github.com/leapstack-labs/minisql/pkg/ast"
	"github.com/leapstack-labs/minisql/pkg/token"
)

// Statement parsing: CREATE TABLE, INSERT, SELECT, DELETE, UPDATE.
//
// Grammar:
//
//	create_table → CREATE TABLE ident "(" coldef ("," coldef)* ")"
//	coldef       → ident datatype
//	datatype     → (INT | INTEGER | VARCHAR | CHAR) ["(" NUMBER ")"]
//	insert       → INSERT INTO ident ["(" ident ("," ident)* ")"]
//	               VALUES "(" literal ("," literal)* ")"
//	select       → SELECT ident ("," ident)* FROM ident [WHERE expr]
//	delete       → DELETE FROM ident [WHERE expr]
//	update       → UPDATE ident SET ident "=" primary ("," ident "=" primary)*
//	               [WHERE expr]
//
// A size after INT or INTEGER is accepted and dropped. INSERT takes exactly
// one VALUES row.

// parseStatement dispatches on the leading keyword.
func (p *Parser) parseStatement() (ast.Statement, error) {
	if p.check(token.KEYWORD) {
		switch p.token.Lexeme {
		case token.CREATE:
			if next := p.peek(1); !next.Is(token.TABLE) {
				if next.Kind == token.ILLEGAL {
					return nil, errorAt(next, "lexical error: "+next.Lexeme, "")
				}
				return nil, errorAt(next, "expected TABLE after CREATE", token.TABLE)
			}
			return p.parseCreateTable()
		case token.INSERT:
			return p.parseInsert()
		case token.SELECT:
			return p.parseSelect()
		case token.DELETE:
			return p.parseDelete()
		case token.UPDATE:
			return p.parseUpdate()
		}
	}
	return nil, p.errorf("expected statement", ExpectStatement)
}

// parseCreateTable parses CREATE TABLE. The caller has verified the
// CREATE TABLE prefix.
func (p *Parser) parseCreateTable() (*ast.CreateTableStmt, error) {
	stmt := &ast.CreateTableStmt{NodeInfo: ast.At(p.token.Pos)}
	p.nextToken() // CREATE
	p.nextToken() // TABLE

	name, err := p.expectIdent("expected table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = name

	if _, err := p.expect(token.LPAREN, "expected '(' after table name", "'('"); err != nil {
		return nil, err
	}

	if p.check(token.RPAREN) {
		return nil, p.errorf("table must have at least one column", "")
	}

	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)

		if !p.match(token.COMMA) {
			break
		}
	}

	if _, err := p.expect(token.RPAREN, "expected ',' or ')' in column list", ExpectListSep); err != nil {
		return nil, err
	}

	return stmt, nil
}

// parseColumnDef parses "name type".
func (p *Parser) parseColumnDef() (*ast.ColumnDef, error) {
	col := &ast.ColumnDef{NodeInfo: ast.At(p.token.Pos)}

	name, err := p.expectIdent("expected column name")
	if err != nil {
		return nil, err
	}
	col.Name = name

	dt, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	col.Type = dt

	return col, nil
}

// parseDataType parses a type name with an optional size.
func (p *Parser) parseDataType() (*ast.DataType, error) {
	dt := &ast.DataType{NodeInfo: ast.At(p.token.Pos)}

	switch {
	case p.checkKeyword(token.INT), p.checkKeyword(token.INTEGER):
		dt.Name = ast.TypeInt
	case p.checkKeyword(token.VARCHAR):
		dt.Name = ast.TypeVarchar
	case p.checkKeyword(token.CHAR):
		dt.Name = ast.TypeChar
	default:
		return nil, p.errorf("expected data type", ExpectDataType)
	}
	p.nextToken()

	if !p.match(token.LPAREN) {
		return dt, nil
	}

	sizeTok, err := p.expect(token.NUMBER, "expected size after '('", "integer")
	if err != nil {
		return nil, err
	}
	size, err := strconv.Atoi(sizeTok.Lexeme)
	if err != nil {
		return nil, errorAt(sizeTok, "invalid size "+sizeTok.Lexeme, "")
	}

	if _, err := p.expect(token.RPAREN, "expected ')' after size", "')'"); err != nil {
		return nil, err
	}

	if dt.IsCharacter() {
		dt.Size = &size
	}
	return dt, nil
}

// parseInsert parses INSERT INTO.
func (p *Parser) parseInsert() (*ast.InsertStmt, error) {
	stmt := &ast.InsertStmt{NodeInfo: ast.At(p.token.Pos)}
	p.nextToken() // INSERT

	if err := p.expectKeyword(token.INTO, "expected INTO after INSERT"); err != nil {
		return nil, err
	}

	name, err := p.expectIdent("expected table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = name

	// Optional column list
	if p.match(token.LPAREN) {
		stmt.Columns = []*ast.Identifier{}
		for {
			pos := p.token.Pos
			col, err := p.expectIdent("expected column name")
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, &ast.Identifier{NodeInfo: ast.At(pos), Name: col})

			if !p.match(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN, "expected ',' or ')' in column list", ExpectListSep); err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword(token.VALUES, "expected VALUES"); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.LPAREN, "expected '(' after VALUES", "'('"); err != nil {
		return nil, err
	}

	var row []ast.Literal
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		row = append(row, lit)

		if !p.match(token.COMMA) {
			break
		}
	}

	if _, err := p.expect(token.RPAREN, "expected ',' or ')' in value list", ExpectListSep); err != nil {
		return nil, err
	}
	stmt.Values = [][]ast.Literal{row}

	if p.check(token.COMMA) {
		return nil, p.errorf("INSERT accepts a single VALUES row", "';'")
	}

	return stmt, nil
}

// parseSelect parses SELECT.
func (p *Parser) parseSelect() (*ast.SelectStmt, error) {
	stmt := &ast.SelectStmt{NodeInfo: ast.At(p.token.Pos)}
	p.nextToken() // SELECT

	for {
		if !p.check(token.IDENT) {
			return nil, p.errorf("expected column name in SELECT list", ExpectIdentifier)
		}
		stmt.Columns = append(stmt.Columns, &ast.Identifier{NodeInfo: ast.At(p.token.Pos), Name: p.token.Lexeme})
		p.nextToken()

		if !p.match(token.COMMA) {
			break
		}
	}

	if err := p.expectKeyword(token.FROM, "expected FROM"); err != nil {
		return nil, err
	}

	from, err := p.expectIdent("expected table name after FROM")
	if err != nil {
		return nil, err
	}
	stmt.From = from

	where, err := p.parseOptionalWhere()
	if err != nil {
		return nil, err
	}
	stmt.Where = where

	return stmt, nil
}

// parseDelete parses DELETE FROM.
func (p *Parser) parseDelete() (*ast.DeleteStmt, error) {
	stmt := &ast.DeleteStmt{NodeInfo: ast.At(p.token.Pos)}
	p.nextToken() // DELETE

	if err := p.expectKeyword(token.FROM, "expected FROM after DELETE"); err != nil {
		return nil, err
	}

	name, err := p.expectIdent("expected table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = name

	where, err := p.parseOptionalWhere()
	if err != nil {
		return nil, err
	}
	stmt.Where = where

	return stmt, nil
}

// parseUpdate parses UPDATE ... SET.
func (p *Parser) parseUpdate() (*ast.UpdateStmt, error) {
	stmt := &ast.UpdateStmt{NodeInfo: ast.At(p.token.Pos)}
	p.nextToken() // UPDATE

	name, err := p.expectIdent("expected table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = name

	if err := p.expectKeyword(token.SET, "expected SET after table name"); err != nil {
		return nil, err
	}

	for {
		pos := p.token.Pos
		col, err := p.expectIdent("expected column name")
		if err != nil {
			return nil, err
		}

		if !(p.check(token.OPERATOR) && p.token.Lexeme == "=") {
			return nil, p.errorf("expected '=' after column name", "'='")
		}
		p.nextToken()

		value, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		stmt.Assignments = append(stmt.Assignments, ast.Assignment{Column: col, Value: value, Pos: pos})

		if !p.match(token.COMMA) {
			break
		}
	}

	where, err := p.parseOptionalWhere()
	if err != nil {
		return nil, err
	}
	stmt.Where = where

	return stmt, nil
}
