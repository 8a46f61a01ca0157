package types

import (
	"fmt"
	"strings"
)

type (
	// DeclKind is the flavour of a declaration.
	DeclKind int
	// Def is anything a nominal name can resolve to. It is either a
	// *Declaration or a *TypeParameter.
	Def interface {
		fmt.Stringer
		def()
	}
	// Declaration is a class, trait, interface, primitive or actor. Declarations
	// are compared by identity, two declarations with the same name are still
	// different types.
	Declaration struct {
		Kind       DeclKind
		Package    string
		Name       string
		TypeParams []*TypeParameter
		// Provides are the traits this declaration explicitly provides, in
		// declaration order. They may reference TypeParams.
		Provides []*Nominal
		Members  []*Method
	}
	// TypeParameter is a formal generic parameter. A nil Constraint means that
	// there is no known upper bound.
	TypeParameter struct {
		Name       string
		Constraint Type
	}
	// Method is both a required method signature in a structural type and a
	// method definition owned by a declaration.
	Method struct {
		Name     string
		Receiver Capability
		Params   []Type
		// Return may be nil for methods that return nothing useful.
		Return  Type
		Partial bool
	}
)

const (
	// DeclClass is a concrete class.
	DeclClass DeclKind = iota
	// DeclTrait is a nominal contract that other declarations provide.
	DeclTrait
	// DeclInterface is a structural contract that can also be provided.
	DeclInterface
	// DeclPrimitive is a value-less singleton type.
	DeclPrimitive
	// DeclActor is a concurrent class.
	DeclActor
)

var declKindNames = map[DeclKind]string{
	DeclClass:     "class",
	DeclTrait:     "trait",
	DeclInterface: "interface",
	DeclPrimitive: "primitive",
	DeclActor:     "actor",
}

// ParseDeclKind looks up a declaration kind by its keyword.
func ParseDeclKind(keyword string) (DeclKind, bool) {
	for kind, name := range declKindNames {
		if name == keyword {
			return kind, true
		}
	}
	return DeclClass, false
}

func (k DeclKind) String() string {
	if name, ok := declKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DeclKind(%d)", int(k))
}

func (d *Declaration) def()   {}
func (p *TypeParameter) def() {}

// QualifiedName returns the package qualified name of the declaration.
func (d *Declaration) QualifiedName() string {
	if d.Package == "" {
		return d.Name
	}
	return d.Package + "." + d.Name
}

// Generic reports if the declaration has type parameters that need reifying.
func (d *Declaration) Generic() bool { return len(d.TypeParams) > 0 }

// Ref creates a nominal reference to this declaration applied to args.
func (d *Declaration) Ref(args ...Type) *Nominal {
	return NewNominal(d.Package, d.Name, args...)
}

// Method finds a member by name.
func (d *Declaration) Method(name string) *Method {
	for _, m := range d.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (d *Declaration) String() string {
	var b strings.Builder
	b.WriteString(d.Kind.String())
	b.WriteString(" ")
	b.WriteString(d.QualifiedName())
	if len(d.TypeParams) > 0 {
		parts := make([]string, len(d.TypeParams))
		for i, p := range d.TypeParams {
			parts[i] = p.String()
		}
		fmt.Fprintf(&b, "[%s]", strings.Join(parts, ", "))
	}
	if len(d.Provides) > 0 {
		parts := make([]string, len(d.Provides))
		for i, p := range d.Provides {
			parts[i] = p.String()
		}
		fmt.Fprintf(&b, " is %s", strings.Join(parts, ", "))
	}
	return b.String()
}

// Ref creates a reference to this type parameter.
func (p *TypeParameter) Ref() *TypeParamRef { return &TypeParamRef{Param: p} }

func (p *TypeParameter) String() string {
	if p.Constraint == nil {
		return p.Name
	}
	return fmt.Sprintf("%s: %v", p.Name, p.Constraint)
}

func (m *Method) String() string {
	var b strings.Builder
	b.WriteString("fun ")
	if m.Receiver != CapNone {
		b.WriteString(m.Receiver.String())
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "%s(%s)", m.Name, fmtTypes(m.Params, ", "))
	if m.Return != nil {
		fmt.Fprintf(&b, ": %v", m.Return)
	}
	if m.Partial {
		b.WriteString("?")
	}
	return b.String()
}
