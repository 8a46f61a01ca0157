package subtype

import "github.com/tanema/subty/src/types"

func (r *relation) isSubtype(sub, super types.Type) bool {
	done := r.trace("%v <: %v", sub, super)
	switch s := sub.(type) {
	case *types.TypeParamRef:
		if s.Param == nil {
			panic(contractViolation("isSubtype", sub, super))
		} else if p, ok := super.(*types.TypeParamRef); ok && p.Param == s.Param {
			return done(true)
		}
		// split the super first so that U <: U | Int holds for a free U
		switch sup := super.(type) {
		case *types.Union:
			if r.isSubtype(sub, sup.Left) || r.isSubtype(sub, sup.Right) {
				return done(true)
			}
		case *types.Intersection:
			return done(r.isSubtype(sub, sup.Left) && r.isSubtype(sub, sup.Right))
		}
		if s.Param.Constraint == nil {
			return done(false)
		}
		return done(r.isSubtype(s.Param.Constraint, super))
	case *types.Nominal, *types.Structural, *types.Tuple, *types.Union, *types.Intersection:
		return done(r.typedefSubtype(sub, super) && r.capSubtype(sub, super))
	default:
		panic(contractViolation("isSubtype", sub, super))
	}
}

// capSubtype checks the capability annotations once the shapes are known to
// be compatible. Only nominal references carry them.
func (r *relation) capSubtype(sub, super types.Type) bool {
	if !r.opts.Capabilities {
		return true
	}
	s, isNominal := sub.(*types.Nominal)
	if !isNominal {
		return true
	}
	sup, isNominal := super.(*types.Nominal)
	if !isNominal {
		return true
	}
	return types.SubCap(s.Cap, s.Ephemeral, sup.Cap, sup.Ephemeral)
}

// typedefSubtype unwraps the combinator at the top of sub.
func (r *relation) typedefSubtype(sub, super types.Type) bool {
	switch s := sub.(type) {
	case *types.Union:
		// every value of the union has to fit
		return r.isSubtype(s.Left, super) && r.isSubtype(s.Right, super)
	case *types.Intersection:
		// splitting the super intersection first keeps A & B <: A & B true
		switch sup := super.(type) {
		case *types.Intersection:
			return r.isSubtype(sub, sup.Left) && r.isSubtype(sub, sup.Right)
		case *types.Union:
			if r.isSubtype(s.Left, super) || r.isSubtype(s.Right, super) {
				return true
			}
			// (A & B) | C needs the whole intersection to land in one arm
			return r.isSubtype(sub, sup.Left) || r.isSubtype(sub, sup.Right)
		}
		return r.isSubtype(s.Left, super) || r.isSubtype(s.Right, super)
	}

	switch sup := super.(type) {
	case *types.TypeParamRef:
		if sup.Param == nil {
			panic(contractViolation("typedefSubtype", sub, super))
		} else if sup.Param.Constraint == nil {
			return false
		}
		return r.isSubtype(sub, sup.Param.Constraint)
	case *types.Nominal, *types.Structural, *types.Tuple, *types.Union, *types.Intersection:
		return r.typedefSubTypedef(sub, super)
	default:
		panic(contractViolation("typedefSubtype", sub, super))
	}
}

// typedefSubTypedef unwraps the combinator at the top of super and then
// dispatches on the pair of concrete shapes.
func (r *relation) typedefSubTypedef(sub, super types.Type) bool {
	switch sup := super.(type) {
	case *types.Union:
		return r.isSubtype(sub, sup.Left) || r.isSubtype(sub, sup.Right)
	case *types.Intersection:
		return r.isSubtype(sub, sup.Left) && r.isSubtype(sub, sup.Right)
	}

	switch s := sub.(type) {
	case *types.Tuple:
		switch sup := super.(type) {
		case *types.Tuple:
			return r.isSubtype(s.Left, sup.Left) && r.isSubtype(s.Right, sup.Right)
		case *types.Nominal, *types.Structural:
			return false
		}
	case *types.Nominal:
		switch sup := super.(type) {
		case *types.Nominal:
			return r.nominalSubNominal(s, sup)
		case *types.Structural:
			return r.nominalSubStructural(s, sup)
		case *types.Tuple:
			return false
		}
	case *types.Structural:
		switch sup := super.(type) {
		case *types.Structural:
			return r.structuralSubStructural(s, sup)
		case *types.Tuple, *types.Nominal:
			return false
		}
	}
	panic(contractViolation("typedefSubTypedef", sub, super))
}

func (r *relation) nominalSubNominal(sub, super *types.Nominal) bool {
	subDef := r.resolve(sub)
	superDef := r.resolve(super)
	if subDef == nil || superDef == nil {
		return false
	}

	// generics are invariant, the same declaration needs the same arguments
	if subDef == superDef {
		return r.eqTypeArgs(sub, super)
	}

	switch def := subDef.(type) {
	case *types.TypeParameter:
		if def.Constraint == nil {
			return false
		}
		return r.isSubtype(def.Constraint, super)
	case *types.Declaration:
		return r.providesSubtype(def, sub, super)
	default:
		panic(contractViolation("nominalSubNominal", sub, super))
	}
}

// providesSubtype searches the traits that decl provides, depth first and in
// declaration order, for one that is a subtype of super.
func (r *relation) providesSubtype(decl *types.Declaration, sub *types.Nominal, super types.Type) bool {
	if !r.enter(decl, super) {
		r.tracef("cycle through %v", decl.QualifiedName())
		return false
	}
	defer r.leave(decl, super)

	for _, trait := range decl.Provides {
		var provided types.Type = trait
		if decl.Generic() {
			provided = r.reifier.Reify(trait, decl.TypeParams, sub.TypeArgs)
		}
		if r.isSubtype(provided, super) {
			return true
		}
	}
	return false
}

func (r *relation) nominalSubStructural(sub *types.Nominal, super *types.Structural) bool {
	var decl *types.Declaration
	switch def := r.resolve(sub).(type) {
	case nil:
		return false
	case *types.TypeParameter:
		if def.Constraint == nil {
			return false
		}
		return r.isSubtype(def.Constraint, super)
	case *types.Declaration:
		decl = def
	}

	members := decl.Members
	if decl.Generic() {
		members = make([]*types.Method, len(decl.Members))
		for i, m := range decl.Members {
			members[i] = r.reifyMethod(m, decl.TypeParams, sub.TypeArgs)
		}
	}

	for _, fun := range super.Methods {
		if !r.anyFunctionSub(members, fun) {
			return false
		}
	}
	return true
}

func (r *relation) structuralSubStructural(sub, super *types.Structural) bool {
	for _, fun := range super.Methods {
		if !r.anyFunctionSub(sub.Methods, fun) {
			return false
		}
	}
	return true
}

// anyFunctionSub reports if some method in methods can stand in for fun.
func (r *relation) anyFunctionSub(methods []*types.Method, fun *types.Method) bool {
	for _, m := range methods {
		if r.functionSub(m, fun) {
			return true
		}
	}
	return false
}

func (r *relation) reifyMethod(m *types.Method, params []*types.TypeParameter, args []types.Type) *types.Method {
	if len(params) != len(args) {
		return m
	}
	reified := r.reifier.Reify(&types.Structural{Methods: []*types.Method{m}}, params, args)
	if s, ok := reified.(*types.Structural); ok && len(s.Methods) == 1 {
		return s.Methods[0]
	}
	panic(contractViolation("reifyMethod", m, reified))
}
