package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	tInt  = NewNominal("", "Int")
	tBool = NewNominal("", "Bool")
	tStr  = NewNominal("", "String")
)

func TestTypeString(t *testing.T) {
	t.Parallel()
	param := &TypeParameter{Name: "T", Constraint: tInt}
	cases := []struct {
		defn     Type
		expected string
	}{
		{tInt, "Int"},
		{NewNominal("", "Box", tInt), "Box[Int]"},
		{NewNominal("", "Map", tStr, tInt), "Map[String, Int]"},
		{&Nominal{Name: "Foo", Cap: CapRef}, "Foo ref"},
		{&Nominal{Name: "Foo", Cap: CapIso, Ephemeral: true}, "Foo iso^"},
		{NewUnion(tInt, tBool), "(Int | Bool)"},
		{NewIntersection(tInt, tBool), "(Int & Bool)"},
		{NewTuple(tInt, tBool), "(Int, Bool)"},
		{NewTuple(tInt, tBool, tStr), "(Int, (Bool, String))"},
		{param.Ref(), "T"},
		{&Structural{}, "{}"},
		{&Structural{Methods: []*Method{
			{Name: "m", Receiver: CapBox, Params: []Type{tInt}, Return: tBool},
			{Name: "n", Partial: true},
		}}, "{fun box m(Int): Bool; fun n()?}"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, tc.defn.String())
	}
}

func TestNest(t *testing.T) {
	t.Parallel()
	union := NewUnion(tInt, tBool, tStr)
	outer, ok := union.(*Union)
	assert.True(t, ok)
	assert.Equal(t, tInt, outer.Left)
	inner, ok := outer.Right.(*Union)
	assert.True(t, ok)
	assert.Equal(t, tBool, inner.Left)
	assert.Equal(t, tStr, inner.Right)

	assert.Equal(t, tInt, NewIntersection(tInt))
	assert.Panics(t, func() { NewTuple() })
}

func TestNominalQualifiedName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Int", tInt.QualifiedName())
	assert.Equal(t, "collections.List", NewNominal("collections", "List").QualifiedName())
	ref := tInt.WithCap(CapVal, false)
	assert.Equal(t, CapVal, ref.Cap)
	assert.Equal(t, CapNone, tInt.Cap)
}

func TestDeclaration(t *testing.T) {
	t.Parallel()
	param := &TypeParameter{Name: "A"}
	seq := &Declaration{Kind: DeclTrait, Name: "Seq", TypeParams: []*TypeParameter{{Name: "A"}}}
	list := &Declaration{
		Kind:       DeclClass,
		Package:    "collections",
		Name:       "List",
		TypeParams: []*TypeParameter{param},
		Provides:   []*Nominal{seq.Ref(param.Ref())},
		Members:    []*Method{{Name: "push", Receiver: CapRef, Params: []Type{param.Ref()}}},
	}
	assert.True(t, list.Generic())
	assert.Empty(t, seq.Ref().TypeArgs)
	assert.Equal(t, "class collections.List[A] is Seq[A]", list.String())
	assert.Equal(t, list.Members[0], list.Method("push"))
	assert.Nil(t, list.Method("pop"))

	kind, ok := ParseDeclKind("actor")
	assert.True(t, ok)
	assert.Equal(t, DeclActor, kind)
	_, ok = ParseDeclKind("struct")
	assert.False(t, ok)
}
