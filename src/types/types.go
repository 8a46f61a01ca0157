package types

import (
	"fmt"
	"strings"
)

type (
	// Type is a general interface for all type expressions. The set of
	// implementations is closed, anything outside of this package that
	// implements it is a contract violation for the checker.
	Type interface {
		fmt.Stringer
		typeExpr()
	}
	// Nominal is a named type applied to zero or more type arguments.
	Nominal struct {
		Package   string
		Name      string
		TypeArgs  []Type
		Cap       Capability
		Ephemeral bool
	}
	// Structural is an anonymous set of required methods.
	Structural struct{ Methods []*Method }
	// Tuple is a pair of types. Wider tuples nest on the right.
	Tuple struct{ Left, Right Type }
	// Union describes a value that can be either of two types.
	Union struct{ Left, Right Type }
	// Intersection describes a value that is both of two types.
	Intersection struct{ Left, Right Type }
	// TypeParamRef is a reference to a generic parameter of a declaration.
	TypeParamRef struct{ Param *TypeParameter }
)

func (t *Nominal) typeExpr()      {}
func (t *Structural) typeExpr()   {}
func (t *Tuple) typeExpr()        {}
func (t *Union) typeExpr()        {}
func (t *Intersection) typeExpr() {}
func (t *TypeParamRef) typeExpr() {}

// NewNominal creates an unannotated nominal reference.
func NewNominal(pkg, name string, args ...Type) *Nominal {
	return &Nominal{Package: pkg, Name: name, TypeArgs: args}
}

// NewTuple builds a right-nested tuple from two or more elements.
func NewTuple(elems ...Type) Type {
	return nest(elems, func(l, r Type) Type { return &Tuple{Left: l, Right: r} })
}

// NewUnion builds a right-nested union from two or more arms.
func NewUnion(arms ...Type) Type {
	return nest(arms, func(l, r Type) Type { return &Union{Left: l, Right: r} })
}

// NewIntersection builds a right-nested intersection from two or more arms.
func NewIntersection(arms ...Type) Type {
	return nest(arms, func(l, r Type) Type { return &Intersection{Left: l, Right: r} })
}

func nest(elems []Type, pair func(l, r Type) Type) Type {
	switch len(elems) {
	case 0:
		panic("cannot nest an empty type list")
	case 1:
		return elems[0]
	default:
		return pair(elems[0], nest(elems[1:], pair))
	}
}

// QualifiedName returns the package qualified name of the reference.
func (t *Nominal) QualifiedName() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// WithCap returns a copy of the reference with a different capability.
func (t *Nominal) WithCap(c Capability, ephemeral bool) *Nominal {
	return &Nominal{
		Package:   t.Package,
		Name:      t.Name,
		TypeArgs:  t.TypeArgs,
		Cap:       c,
		Ephemeral: ephemeral,
	}
}

func (t *Nominal) String() string {
	var b strings.Builder
	b.WriteString(t.Name)
	if len(t.TypeArgs) > 0 {
		b.WriteString("[")
		b.WriteString(fmtTypes(t.TypeArgs, ", "))
		b.WriteString("]")
	}
	if t.Cap != CapNone {
		b.WriteString(" ")
		b.WriteString(t.Cap.String())
	}
	if t.Ephemeral {
		b.WriteString("^")
	}
	return b.String()
}

func (t *Structural) String() string {
	parts := make([]string, len(t.Methods))
	for i, m := range t.Methods {
		parts[i] = m.String()
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, "; "))
}

func (t *Tuple) String() string        { return fmt.Sprintf("(%v, %v)", t.Left, t.Right) }
func (t *Union) String() string        { return fmt.Sprintf("(%v | %v)", t.Left, t.Right) }
func (t *Intersection) String() string { return fmt.Sprintf("(%v & %v)", t.Left, t.Right) }

func (t *TypeParamRef) String() string {
	if t.Param == nil {
		return "<nil param>"
	}
	return t.Param.Name
}

func fmtTypes(defn []Type, sep string) string {
	parts := make([]string, len(defn))
	for i, d := range defn {
		parts[i] = fmt.Sprint(d)
	}
	return strings.Join(parts, sep)
}
