package parse

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/subty/src/lerrors"
	"github.com/tanema/subty/src/types"
)

func TestParserConfig(t *testing.T) {
	t.Parallel()
	script, err := Parse("test", strings.NewReader(`
	A <: B
	--!nocaps,noguard,trace
	C <: D
	--!caps
	E <: F
	`))
	require.NoError(t, err)
	require.Len(t, script.Judgments, 3)
	assert.Equal(t, DefaultConfig(), script.Judgments[0].Config)
	assert.Equal(t, Config{Capabilities: false, GuardCycles: false, Trace: true}, script.Judgments[1].Config)
	assert.Equal(t, Config{Capabilities: true, GuardCycles: false, Trace: true}, script.Judgments[2].Config)
}

func TestParser_Comment(t *testing.T) {
	t.Parallel()
	script, err := Parse("test", strings.NewReader(`
	;
	-- just a plain comment
	;
	`))
	require.NoError(t, err)
	assert.Empty(t, script.Declarations)
	assert.Empty(t, script.Judgments)
}

func TestParser_Types(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src      string
		expected string
	}{
		{"Int", "Int"},
		{"A | B | C", "(A | (B | C))"},
		{"A & B | C", "((A & B) | C)"},
		{"A & (B | C)", "(A & (B | C))"},
		{"(A, B, C)", "(A, (B, C))"},
		{"(A)", "A"},
		{"Box[Int] ref^", "Box[Int] ref^"},
		{"Map[Str, Seq[Int val]]", "Map[Str, Seq[Int val]]"},
		{"Int^", "Int^"},
		{"{}", "{}"},
		{"{fun box m(x: Int): Bool; fun n()?}", "{fun box m(Int): Bool; fun n()?}"},
		{"{fun m(Int, y: Str), fun ref o(): (A | B)}", "{fun m(Int, Str); fun ref o(): (A | B)}"},
	}
	for _, test := range tests {
		p := parser(test.src)
		typ, err := p.typ()
		require.NoError(t, err, test.src)
		assert.Equal(t, test.expected, typ.String(), test.src)
	}
}

func TestParser_Nominal(t *testing.T) {
	t.Parallel()

	t.Run("unqualified names use the current package", func(t *testing.T) {
		t.Parallel()
		typ, err := parser(`Int`).typ()
		require.NoError(t, err)
		assert.Equal(t, &types.Nominal{Package: "main", Name: "Int"}, typ)
	})

	t.Run("qualified names", func(t *testing.T) {
		t.Parallel()
		typ, err := parser(`collections.List[Int] val`).typ()
		require.NoError(t, err)
		assert.Equal(t, &types.Nominal{
			Package:  "collections",
			Name:     "List",
			TypeArgs: []types.Type{types.NewNominal("main", "Int")},
			Cap:      types.CapVal,
		}, typ)
	})
}

func TestParser_Declaration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src      string
		expected string
	}{
		{"class Foo", "class main.Foo"},
		{"primitive None", "primitive main.None"},
		{"actor Main is Runner, Stringable", "actor main.Main is Runner, Stringable"},
		{"trait Seq[A]", "trait main.Seq[A]"},
		{"interface Cmp[A: Cmp[A]]", "interface main.Cmp[A: Cmp[A]]"},
		{"class List[A, B: A] is Seq[A] { fun size(): USize }", "class main.List[A, B: A] is Seq[A]"},
		{"package collections class Set[A] is Seq[A]", "class collections.Set[A] is Seq[A]"},
	}
	for _, test := range tests {
		script, err := Parse("test", strings.NewReader(test.src))
		require.NoError(t, err, test.src)
		require.Len(t, script.Declarations, 1, test.src)
		assert.Equal(t, test.expected, script.Declarations[0].String(), test.src)
	}
}

func TestParser_DeclarationTypeParams(t *testing.T) {
	t.Parallel()
	script, err := Parse("test", strings.NewReader(`
	class List[A] is Seq[A] {
		fun ref push(value: A): List[A]
		fun apply(i: USize): A?
	}
	`))
	require.NoError(t, err)
	require.Len(t, script.Declarations, 1)
	decl := script.Declarations[0]
	require.Len(t, decl.TypeParams, 1)
	param := decl.TypeParams[0]

	require.Len(t, decl.Provides, 1)
	assert.Equal(t, &types.TypeParamRef{Param: param}, decl.Provides[0].TypeArgs[0])
	assert.Same(t, param, decl.Provides[0].TypeArgs[0].(*types.TypeParamRef).Param)

	push := decl.Method("push")
	require.NotNil(t, push)
	assert.Equal(t, types.CapRef, push.Receiver)
	assert.Same(t, param, push.Params[0].(*types.TypeParamRef).Param)
	assert.Equal(t, "fun ref push(A): List[A]", push.String())

	apply := decl.Method("apply")
	require.NotNil(t, apply)
	assert.True(t, apply.Partial)
	assert.Same(t, param, apply.Return.(*types.TypeParamRef).Param)
}

func TestParser_TypeParamsAreScopedToTheirDeclaration(t *testing.T) {
	t.Parallel()
	script, err := Parse("test", strings.NewReader(`
	class Box[A]
	A <: Any
	`))
	require.NoError(t, err)
	require.Len(t, script.Judgments, 1)
	assert.IsType(t, &types.Nominal{}, script.Judgments[0].Left)
}

func TestParser_Judgments(t *testing.T) {
	t.Parallel()
	script, err := Parse("test", strings.NewReader(`assert Int <: Any
Int !<: Str
  (A, B) == (A, B)
A | B != A`))
	require.NoError(t, err)
	require.Len(t, script.Judgments, 4)

	first := script.Judgments[0]
	assert.True(t, first.Assert)
	assert.Equal(t, RelSubtype, first.Relation)
	assert.Equal(t, LineInfo{Line: 1, Column: 1}, first.LineInfo)
	assert.Equal(t, "Int", first.Left.String())
	assert.Equal(t, "Any", first.Right.String())

	assert.False(t, script.Judgments[1].Assert)
	assert.Equal(t, RelNotSubtype, script.Judgments[1].Relation)
	assert.Equal(t, RelEqual, script.Judgments[2].Relation)
	assert.Equal(t, LineInfo{Line: 3, Column: 3}, script.Judgments[2].LineInfo)
	assert.Equal(t, RelNotEqual, script.Judgments[3].Relation)
	assert.Equal(t, "(A | B)", script.Judgments[3].Left.String())
}

func TestScriptString(t *testing.T) {
	t.Parallel()
	script, err := Parse("test", strings.NewReader(`class List[A] is Seq[A] { fun box size(): USize }
assert List[Int] <: Seq[Int]
  Int != Str`))
	require.NoError(t, err)
	assert.Equal(t, `class main.List[A] is Seq[A]
  fun box size(): USize
2:1 assert List[Int] <: Seq[Int]
3:3 Int != Str
`, script.String())
}

func TestParser_KeepsStateBetweenParses(t *testing.T) {
	t.Parallel()
	p := New(DefaultConfig())
	_, err := p.Parse("<repl>", strings.NewReader(`package geo --!nocaps`))
	require.NoError(t, err)
	assert.Equal(t, "geo", p.Package())
	assert.False(t, p.Config().Capabilities)

	script, err := p.Parse("<repl>", strings.NewReader(`class Point`))
	require.NoError(t, err)
	assert.Equal(t, "geo", script.Declarations[0].Package)
}

func TestParser_UnexpectedEOF(t *testing.T) {
	t.Parallel()
	for _, src := range []string{
		"class",
		"class Foo[",
		"class Foo {",
		"class Foo { fun m(",
		"Int <:",
		"Int",
		"(A, B",
		"Box[Int",
		"package",
	} {
		_, err := Parse("test", strings.NewReader(src))
		require.Error(t, err, src)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF, src)
	}
}

func TestParser_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src    string
		linfo  LineInfo
		errMsg string
	}{
		{"A B", LineInfo{Line: 1, Column: 3}, "expected one of <: !<: == != but found <B>"},
		{"class T[A] is A", LineInfo{Line: 1, Column: 15}, "cannot provide type parameter A"},
		{"class T[A, A]", LineInfo{Line: 1, Column: 12}, "duplicate type parameter A"},
		{"class T[A] { fun m(): A[Int] }", LineInfo{Line: 1, Column: 24}, "type parameter A cannot take arguments or capabilities"},
		{"class T { Int }", LineInfo{Line: 1, Column: 11}, "expected method or } but found <Int>"},
		{"Int <: ]", LineInfo{Line: 1, Column: 8}, "expected type but found ]"},
	}
	for _, test := range tests {
		_, err := Parse("test", strings.NewReader(test.src))
		var parseErr *lerrors.Error
		require.True(t, errors.As(err, &parseErr), test.src)
		assert.Equal(t, lerrors.ParserErr, parseErr.Kind, test.src)
		assert.Equal(t, "test", parseErr.Filename, test.src)
		assert.Equal(t, test.linfo.Line, parseErr.Line, test.src)
		assert.Equal(t, test.linfo.Column, parseErr.Column, test.src)
		assert.EqualError(t, parseErr.Err, test.errMsg, test.src)
	}
}

func parser(src string) *Parser {
	p := New(DefaultConfig())
	p.filename = "test"
	p.lex = newLexer("test", bytes.NewBufferString(src))
	return p
}
