package parser_test

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/minisql/pkg/ast"
	"github.com/leapstack-labs/minisql/pkg/parser"
	"github.com/leapstack-labs/minisql/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, sql string) ast.Statement {
	t.Helper()
	prog, err := parser.ParseString(sql)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	return prog.Statements[0]
}

func parseErr(t *testing.T, sql string) *parser.ParseError {
	t.Helper()
	_, err := parser.ParseString(sql)
	require.Error(t, err)
	var perr *parser.ParseError
	require.True(t, errors.As(err, &perr), "expected *ParseError, got %T: %v", err, err)
	return perr
}

// ---------- Statement Tests ----------

func TestParseCreateTable(t *testing.T) {
	stmt := parseOne(t, "CREATE TABLE student(id INT, name VARCHAR(50), age INT);")

	create, ok := stmt.(*ast.CreateTableStmt)
	require.True(t, ok)
	assert.Equal(t, "student", create.Table)
	require.Len(t, create.Columns, 3)

	assert.Equal(t, "id", create.Columns[0].Name)
	assert.Equal(t, ast.TypeInt, create.Columns[0].Type.Name)
	assert.Nil(t, create.Columns[0].Type.Size)

	assert.Equal(t, "name", create.Columns[1].Name)
	assert.Equal(t, ast.TypeVarchar, create.Columns[1].Type.Name)
	require.NotNil(t, create.Columns[1].Type.Size)
	assert.Equal(t, 50, *create.Columns[1].Type.Size)

	assert.Equal(t, "age", create.Columns[2].Name)
	assert.Equal(t, ast.TypeInt, create.Columns[2].Type.Name)
}

func TestParseDataTypes(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantType string
		wantSize *int
	}{
		{"int", "CREATE TABLE t (c INT)", ast.TypeInt, nil},
		{"integer is canonicalized", "CREATE TABLE t (c INTEGER)", ast.TypeInt, nil},
		{"int size is dropped", "CREATE TABLE t (c INT(11))", ast.TypeInt, nil},
		{"lower case type", "create table t (c varchar(8))", ast.TypeVarchar, ast.Size(8)},
		{"char with size", "CREATE TABLE t (c CHAR(2))", ast.TypeChar, ast.Size(2)},
		{"char without size", "CREATE TABLE t (c CHAR)", ast.TypeChar, nil},
		{"zero size is syntactically valid", "CREATE TABLE t (c VARCHAR(0))", ast.TypeVarchar, ast.Size(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			create := parseOne(t, tt.sql).(*ast.CreateTableStmt)
			require.Len(t, create.Columns, 1)
			dt := create.Columns[0].Type
			assert.Equal(t, tt.wantType, dt.Name)
			assert.Equal(t, tt.wantSize, dt.Size)
		})
	}
}

func TestParseInsert(t *testing.T) {
	stmt := parseOne(t, "INSERT INTO student(id,name,age) VALUES (1,'Alice',20);")

	insert, ok := stmt.(*ast.InsertStmt)
	require.True(t, ok)
	assert.Equal(t, "student", insert.Table)
	require.Len(t, insert.Columns, 3)
	for i, want := range []struct {
		name   string
		column int
	}{{"id", 21}, {"name", 24}, {"age", 29}} {
		assert.Equal(t, want.name, insert.Columns[i].Name)
		assert.Equal(t, token.Position{Line: 1, Column: want.column, Offset: want.column - 1}, insert.Columns[i].Pos())
	}
	require.Len(t, insert.Values, 1)

	row := insert.Values[0]
	require.Len(t, row, 3)
	assert.Equal(t, int64(1), row[0].(*ast.IntLiteral).Value)
	assert.Equal(t, ast.LiteralInt, row[0].Type())
	assert.Equal(t, "Alice", row[1].(*ast.StringLiteral).Value)
	assert.Equal(t, ast.LiteralString, row[1].Type())
	assert.Equal(t, int64(20), row[2].(*ast.IntLiteral).Value)
}

func TestParseInsertWithoutColumnList(t *testing.T) {
	insert := parseOne(t, "INSERT INTO t VALUES ('x')").(*ast.InsertStmt)
	assert.Nil(t, insert.Columns)
	require.Len(t, insert.Values, 1)
	assert.Len(t, insert.Values[0], 1)
}

func TestParseSelect(t *testing.T) {
	stmt := parseOne(t, "SELECT id, name FROM student WHERE age > 18;")

	sel, ok := stmt.(*ast.SelectStmt)
	require.True(t, ok)
	require.Len(t, sel.Columns, 2)
	assert.Equal(t, "id", sel.Columns[0].Name)
	assert.Equal(t, "name", sel.Columns[1].Name)
	assert.Equal(t, "student", sel.From)

	where, ok := sel.Where.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpGt, where.Op)
	assert.Equal(t, "age", where.Left.(*ast.Identifier).Name)
	assert.Equal(t, int64(18), where.Right.(*ast.IntLiteral).Value)
	assert.Equal(t, "1:40", where.Pos().String())
}

func TestParseSelectWithoutWhere(t *testing.T) {
	sel := parseOne(t, "SELECT a FROM t").(*ast.SelectStmt)
	assert.Nil(t, sel.Where)
}

func TestParseDelete(t *testing.T) {
	stmt := parseOne(t, "DELETE FROM student WHERE id = 1;")

	del, ok := stmt.(*ast.DeleteStmt)
	require.True(t, ok)
	assert.Equal(t, "student", del.Table)

	where, ok := del.Where.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpEq, where.Op)
	assert.Equal(t, "id", where.Left.(*ast.Identifier).Name)
	assert.Equal(t, int64(1), where.Right.(*ast.IntLiteral).Value)
}

func TestParseDeleteWithoutWhere(t *testing.T) {
	del := parseOne(t, "DELETE FROM t").(*ast.DeleteStmt)
	assert.Nil(t, del.Where)
}

func TestParseUpdate(t *testing.T) {
	stmt := parseOne(t, "UPDATE student SET name = 'Bob', age = other WHERE id <> 3")

	upd, ok := stmt.(*ast.UpdateStmt)
	require.True(t, ok)
	assert.Equal(t, "student", upd.Table)
	require.Len(t, upd.Assignments, 2)

	assert.Equal(t, "name", upd.Assignments[0].Column)
	assert.Equal(t, "Bob", upd.Assignments[0].Value.(*ast.StringLiteral).Value)
	assert.Equal(t, "1:20", upd.Assignments[0].Pos.String())
	assert.Equal(t, "age", upd.Assignments[1].Column)
	assert.Equal(t, "other", upd.Assignments[1].Value.(*ast.Identifier).Name)

	where := upd.Where.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpNe, where.Op)
}

func TestParseComparisonOperators(t *testing.T) {
	tests := []struct {
		op   string
		want ast.Operator
	}{
		{"=", ast.OpEq},
		{"!=", ast.OpNe},
		{"<>", ast.OpNe},
		{"<", ast.OpLt},
		{">", ast.OpGt},
		{"<=", ast.OpLe},
		{">=", ast.OpGe},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			sel := parseOne(t, "SELECT a FROM t WHERE a "+tt.op+" 1").(*ast.SelectStmt)
			assert.Equal(t, tt.want, sel.Where.(*ast.BinaryExpr).Op)
		})
	}
}

func TestParseWhereForms(t *testing.T) {
	t.Run("literal on the left", func(t *testing.T) {
		sel := parseOne(t, "SELECT a FROM t WHERE 'x' = a").(*ast.SelectStmt)
		bin := sel.Where.(*ast.BinaryExpr)
		assert.Equal(t, "x", bin.Left.(*ast.StringLiteral).Value)
		assert.Equal(t, "a", bin.Right.(*ast.Identifier).Name)
	})

	t.Run("bare primary", func(t *testing.T) {
		sel := parseOne(t, "SELECT a FROM t WHERE flag").(*ast.SelectStmt)
		assert.Equal(t, "flag", sel.Where.(*ast.Identifier).Name)
	})
}

// ---------- Program Tests ----------

func TestParseProgram(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		count int
	}{
		{"empty", "", 0},
		{"comment only", "-- nothing here", 0},
		{"single without semicolon", "SELECT a FROM t", 1},
		{"two with semicolons", "SELECT a FROM t; DELETE FROM t;", 2},
		{"semicolon is optional between statements", "SELECT a FROM t DELETE FROM t", 2},
		{"all five kinds", `
			CREATE TABLE t (a INT);
			INSERT INTO t VALUES (1);
			SELECT a FROM t;
			UPDATE t SET a = 2;
			DELETE FROM t;`, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parser.ParseString(tt.sql)
			require.NoError(t, err)
			assert.Len(t, prog.Statements, tt.count)
			assert.Equal(t, "1:1", prog.Pos().String())
		})
	}
}

func TestParseCaseInsensitiveKeywords(t *testing.T) {
	upper, err := parser.ParseString("SELECT Id FROM Student WHERE Id = 1")
	require.NoError(t, err)
	lower, err := parser.ParseString("select Id from Student where Id = 1")
	require.NoError(t, err)

	a := upper.Statements[0].(*ast.SelectStmt)
	b := lower.Statements[0].(*ast.SelectStmt)
	assert.Equal(t, a.From, b.From)
	assert.Equal(t, "Student", b.From)
	assert.Equal(t, "Id", b.Columns[0].Name)
}

func TestParseStatementPositions(t *testing.T) {
	prog, err := parser.ParseString("SELECT a FROM t;\n  DELETE FROM t")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)
	assert.Equal(t, "1:1", prog.Statements[0].Pos().String())
	assert.Equal(t, "2:3", prog.Statements[1].Pos().String())
}

func TestParseTokensWithoutEOF(t *testing.T) {
	tokens := []token.Token{
		{Kind: token.KEYWORD, Lexeme: token.DELETE, Pos: token.Position{Line: 1, Column: 1}},
		{Kind: token.KEYWORD, Lexeme: token.FROM, Pos: token.Position{Line: 1, Column: 8}},
		{Kind: token.IDENT, Lexeme: "t", Pos: token.Position{Line: 1, Column: 13}},
	}
	prog, err := parser.Parse(tokens)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	prog, err = parser.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, prog.Statements)
}

// ---------- Error Tests ----------

func TestParseTruncatedWhere(t *testing.T) {
	perr := parseErr(t, "SELECT id FROM student WHERE")

	assert.Equal(t, token.EOF, perr.Token.Kind)
	assert.Equal(t, parser.ExpectPrimary, perr.Expected)
	assert.Equal(t, token.Position{Line: 1, Column: 29, Offset: 28}, perr.Pos())
	assert.Contains(t, perr.Error(), "got end of input")
}

func TestParseStringAsTableName(t *testing.T) {
	perr := parseErr(t, "SELECT id FROM 'student';")

	assert.Equal(t, token.STRING, perr.Token.Kind)
	assert.Equal(t, parser.ExpectIdentifier, perr.Expected)
	assert.Equal(t, "expected table name after FROM", perr.Message)
	assert.Equal(t, "1:16", perr.Pos().String())
	assert.EqualError(t, perr,
		`parse error at line 1, column 16: expected table name after FROM (expected identifier, got string "student")`)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantMsg string
		wantPos string
	}{
		{"unknown statement", "DROP TABLE t", "expected statement", "1:1"},
		{"leading literal", "42", "expected statement", "1:1"},
		{"stray semicolon", ";", "expected statement", "1:1"},
		{"create without table", "CREATE student (a INT)", "expected TABLE after CREATE", "1:8"},
		{"create missing name", "CREATE TABLE (a INT)", "expected table name", "1:14"},
		{"create missing paren", "CREATE TABLE t a INT", "expected '(' after table name", "1:16"},
		{"create empty column list", "CREATE TABLE t ()", "table must have at least one column", "1:17"},
		{"create keyword as column", "CREATE TABLE t (select INT)", "expected column name", "1:17"},
		{"create unknown type", "CREATE TABLE t (a FLOAT)", "expected data type", "1:19"},
		{"create missing size", "CREATE TABLE t (a VARCHAR())", "expected size after '('", "1:27"},
		{"create unclosed size", "CREATE TABLE t (a VARCHAR(5)", "expected ')' after size", "1:28"},
		{"create missing separator", "CREATE TABLE t (a INT b INT)", "expected ',' or ')' in column list", "1:23"},
		{"create trailing comma", "CREATE TABLE t (a INT,)", "expected column name", "1:23"},
		{"insert missing into", "INSERT t VALUES (1)", "expected INTO after INSERT", "1:8"},
		{"insert missing values", "INSERT INTO t (1)", "expected column name", "1:16"},
		{"insert missing values keyword", "INSERT INTO t (a) (1)", "expected VALUES", "1:19"},
		{"insert values without paren", "INSERT INTO t VALUES 1", "expected '(' after VALUES", "1:22"},
		{"insert empty values", "INSERT INTO t VALUES ()", "expected literal value", "1:23"},
		{"insert identifier value", "INSERT INTO t VALUES (a)", "expected literal value", "1:23"},
		{"insert unclosed values", "INSERT INTO t VALUES (1, 2", "expected ',' or ')' in value list", "1:27"},
		{"insert multiple rows", "INSERT INTO t VALUES (1), (2)", "INSERT accepts a single VALUES row", "1:25"},
		{"select star", "SELECT FROM t", "expected column name in SELECT list", "1:8"},
		{"select missing from", "SELECT a t", "expected FROM", "1:10"},
		{"select trailing comma", "SELECT a, FROM t", "expected column name in SELECT list", "1:11"},
		{"where with and", "SELECT a FROM t WHERE a = 1 AND b = 2", "logical operators are not supported in WHERE", "1:29"},
		{"where with or", "DELETE FROM t WHERE a = 1 OR b = 2", "logical operators are not supported in WHERE", "1:27"},
		{"where with not", "SELECT a FROM t WHERE NOT a = 1", "expected identifier or literal", "1:23"},
		{"where missing right side", "SELECT a FROM t WHERE a =", "expected identifier or literal", "1:26"},
		{"where integer overflow", "SELECT a FROM t WHERE a = 99999999999999999999", "integer literal out of range", "1:27"},
		{"delete missing from", "DELETE t", "expected FROM after DELETE", "1:8"},
		{"update missing set", "UPDATE t a = 1", "expected SET after table name", "1:10"},
		{"update missing equals", "UPDATE t SET a 1", "expected '=' after column name", "1:16"},
		{"update wrong operator", "UPDATE t SET a < 1", "expected '=' after column name", "1:16"},
		{"update missing value", "UPDATE t SET a =", "expected identifier or literal", "1:17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseErr(t, tt.sql)
			assert.Equal(t, tt.wantMsg, perr.Message)
			assert.Equal(t, tt.wantPos, perr.Pos().String())
		})
	}
}

func TestParseStringReturnsLexError(t *testing.T) {
	_, err := parser.ParseString("SELECT a FROM t WHERE a = 'open")
	require.Error(t, err)

	var lexErr *parser.LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, parser.ErrUnterminatedString, lexErr.Message)
	assert.Equal(t, "1:27", lexErr.Pos.String())
}

func TestParseEscalatesIllegalToken(t *testing.T) {
	tokens, lexErr := parser.Tokenize("SELECT a FROM t WHERE a = @")
	require.Error(t, lexErr)

	_, err := parser.Parse(tokens)
	require.Error(t, err)

	var perr *parser.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, token.ILLEGAL, perr.Token.Kind)
	assert.Equal(t, "lexical error: unexpected character '@'", perr.Message)
	assert.Equal(t, "1:27", perr.Pos().String())
}
