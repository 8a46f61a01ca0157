// Package scope is the declaration table that nominal references resolve
// against. Declarations are grouped by package and a scope can sit on top of a
// parent scope, names in the child shadow names in the parent. A scope is not
// safe for concurrent writes, once it is built it can be read from any number
// of goroutines.
package scope

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-set/v3"
	"github.com/tanema/subty/src/lerrors"
	"github.com/tanema/subty/src/types"
)

// Scope is a table of declarations and bound type parameters.
type Scope struct {
	parent   *Scope
	packages map[string]map[string]types.Def
	order    []*types.Declaration
}

// New creates an empty scope. parent may be nil.
func New(parent *Scope) *Scope {
	return &Scope{
		parent:   parent,
		packages: map[string]map[string]types.Def{},
		order:    []*types.Declaration{},
	}
}

// Parent returns the enclosing scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Declare adds a declaration to its package. Declaring a name twice in the
// same scope is an error, shadowing a parent is not.
func (s *Scope) Declare(decl *types.Declaration) error {
	if err := s.bind(decl.Package, decl.Name, decl); err != nil {
		return err
	}
	s.order = append(s.order, decl)
	return nil
}

// Bind makes a type parameter visible under name in pkg. References to it
// resolve to the parameter itself, which the checker reduces to its constraint.
func (s *Scope) Bind(pkg string, param *types.TypeParameter) error {
	return s.bind(pkg, param.Name, param)
}

func (s *Scope) bind(pkg, name string, def types.Def) error {
	names, ok := s.packages[pkg]
	if !ok {
		names = map[string]types.Def{}
		s.packages[pkg] = names
	}
	if existing, ok := names[name]; ok {
		return &lerrors.Error{
			Kind: lerrors.ResolveErr,
			Err:  fmt.Errorf("%v already declared as %v", qualify(pkg, name), existing),
		}
	}
	names[name] = def
	return nil
}

// Lookup finds what name refers to in pkg, searching parent scopes when this
// scope does not declare it.
func (s *Scope) Lookup(pkg, name string) types.Def {
	for sc := s; sc != nil; sc = sc.parent {
		if def, ok := sc.packages[pkg][name]; ok {
			return def
		}
	}
	return nil
}

// Resolve implements the checker's resolver, it returns nil for unknown names.
func (s *Scope) Resolve(n *types.Nominal) types.Def {
	return s.Lookup(n.Package, n.Name)
}

// Declarations lists the declarations of this scope in the order they were
// declared. Parent declarations are not included.
func (s *Scope) Declarations() []*types.Declaration {
	return s.order
}

// Packages lists the packages that have at least one name in this scope.
func (s *Scope) Packages() []string {
	pkgs := set.New[string](len(s.packages))
	for pkg := range s.packages {
		pkgs.Insert(pkg)
	}
	return pkgs.Slice()
}

// Validate checks the things the checker assumes instead of verifying: that
// every provided trait resolves to a declaration with a matching number of
// type arguments, and that the provided trait graph has no cycles.
func (s *Scope) Validate() error {
	var errs []error
	for _, decl := range s.order {
		for _, trait := range decl.Provides {
			if err := s.validateProvided(decl, trait); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if cycle := s.findCycle(); len(cycle) > 0 {
		trail := make([]string, len(cycle))
		for i, decl := range cycle {
			trail[i] = decl.QualifiedName()
		}
		errs = append(errs, &lerrors.Error{
			Kind:  lerrors.ResolveErr,
			Err:   errors.New("provided traits form a cycle"),
			Trail: trail,
		})
	}
	return errors.Join(errs...)
}

// Extend declares every declaration and validates the scope. When a
// declaration clashes or validation fails, all of decls are removed again and
// the scope is left as it was.
func (s *Scope) Extend(decls []*types.Declaration) error {
	mark := len(s.order)
	for _, decl := range decls {
		if err := s.Declare(decl); err != nil {
			s.truncate(mark)
			return err
		}
	}
	if err := s.Validate(); err != nil {
		s.truncate(mark)
		return err
	}
	return nil
}

// truncate removes every declaration added after the first n.
func (s *Scope) truncate(n int) {
	for _, decl := range s.order[n:] {
		names := s.packages[decl.Package]
		delete(names, decl.Name)
		if len(names) == 0 {
			delete(s.packages, decl.Package)
		}
	}
	s.order = s.order[:n]
}

func (s *Scope) validateProvided(decl *types.Declaration, trait *types.Nominal) error {
	provided, ok := s.Resolve(trait).(*types.Declaration)
	if !ok || provided == nil {
		return &lerrors.Error{
			Kind: lerrors.ResolveErr,
			Err:  fmt.Errorf("%v provides unknown trait %v", decl.QualifiedName(), trait.QualifiedName()),
		}
	} else if len(provided.TypeParams) != len(trait.TypeArgs) {
		return &lerrors.Error{
			Kind: lerrors.ResolveErr,
			Err: fmt.Errorf("%v provides %v with %d type arguments but it takes %d",
				decl.QualifiedName(), trait.QualifiedName(), len(trait.TypeArgs), len(provided.TypeParams)),
		}
	}
	return nil
}

// findCycle walks the provided trait graph depth first and returns the first
// cycle it finds, starting and ending with the same declaration.
func (s *Scope) findCycle() []*types.Declaration {
	visited := set.New[*types.Declaration](len(s.order))
	onStack := set.New[*types.Declaration](len(s.order))
	path := []*types.Declaration{}

	var dfs func(*types.Declaration) []*types.Declaration
	dfs = func(decl *types.Declaration) []*types.Declaration {
		if onStack.Contains(decl) {
			for i, d := range path {
				if d == decl {
					return append(append([]*types.Declaration{}, path[i:]...), decl)
				}
			}
		}
		if !visited.Insert(decl) {
			return nil
		}
		onStack.Insert(decl)
		path = append(path, decl)
		for _, trait := range decl.Provides {
			if next, ok := s.Resolve(trait).(*types.Declaration); ok && next != nil {
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		onStack.Remove(decl)
		return nil
	}

	for _, decl := range s.order {
		if cycle := dfs(decl); cycle != nil {
			return cycle
		}
	}
	return nil
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
