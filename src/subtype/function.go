package subtype

import "github.com/tanema/subty/src/types"

// functionSub checks method conformance. Parameters are contravariant, the
// return type is covariant, a receiver has to accept at least what the
// required receiver accepts, and a partial method cannot stand in for a total
// one.
func (r *relation) functionSub(f, g *types.Method) bool {
	done := r.trace("%v <: %v", f, g)
	if f.Name != g.Name || len(f.Params) != len(g.Params) {
		return done(false)
	} else if f.Partial && !g.Partial {
		return done(false)
	} else if r.opts.Capabilities && !types.SubCap(g.Receiver, false, f.Receiver, false) {
		return done(false)
	}

	for i, param := range f.Params {
		if !r.isSubtype(g.Params[i], param) {
			return done(false)
		}
	}

	switch {
	case f.Return == nil && g.Return == nil:
		return done(true)
	case f.Return == nil || g.Return == nil:
		return done(false)
	default:
		return done(r.isSubtype(f.Return, g.Return))
	}
}
