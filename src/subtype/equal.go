package subtype

import "github.com/tanema/subty/src/types"

func (r *relation) equal(a, b types.Type) bool {
	done := r.trace("%v == %v", a, b)
	if pa, ok := a.(*types.TypeParamRef); ok {
		if pa.Param == nil {
			panic(contractViolation("equal", a, b))
		} else if pb, ok := b.(*types.TypeParamRef); ok && pb.Param == pa.Param {
			return done(true)
		} else if pa.Param.Constraint == nil {
			return done(false)
		}
		return done(r.equal(pa.Param.Constraint, b))
	} else if pb, ok := b.(*types.TypeParamRef); ok {
		if pb.Param == nil {
			panic(contractViolation("equal", a, b))
		} else if pb.Param.Constraint == nil {
			return done(false)
		}
		return done(r.equal(a, pb.Param.Constraint))
	}

	switch ta := a.(type) {
	case *types.Union, *types.Intersection, *types.Structural:
		return done(r.isSubtype(a, b) && r.isSubtype(b, a))
	case *types.Tuple:
		tb, ok := b.(*types.Tuple)
		if !ok {
			return done(false)
		}
		return done(r.equal(ta.Left, tb.Left) && r.equal(ta.Right, tb.Right))
	case *types.Nominal:
		tb, ok := b.(*types.Nominal)
		if !ok {
			return done(false)
		}
		return done(r.nominalEqNominal(ta, tb))
	default:
		panic(contractViolation("equal", a, b))
	}
}

func (r *relation) nominalEqNominal(a, b *types.Nominal) bool {
	aDef := r.resolve(a)
	bDef := r.resolve(b)
	if aDef == nil || bDef == nil || aDef != bDef {
		return false
	} else if r.opts.Capabilities && !types.EqCap(a.Cap, a.Ephemeral, b.Cap, b.Ephemeral) {
		return false
	}
	return r.eqTypeArgs(a, b)
}

// eqTypeArgs compares type arguments positionally. Two empty lists match.
func (r *relation) eqTypeArgs(a, b *types.Nominal) bool {
	if len(a.TypeArgs) != len(b.TypeArgs) {
		return false
	}
	for i, arg := range a.TypeArgs {
		if !r.equal(arg, b.TypeArgs[i]) {
			return false
		}
	}
	return true
}
