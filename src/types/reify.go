package types

// ReifierFunc adapts a plain function to the reifier collaborator that the
// subtype checker consumes.
type ReifierFunc func(t Type, params []*TypeParameter, args []Type) Type

// DefaultReifier substitutes by type parameter identity with Reify.
var DefaultReifier = ReifierFunc(Reify)

// Reify calls the wrapped function.
func (fn ReifierFunc) Reify(t Type, params []*TypeParameter, args []Type) Type {
	return fn(t, params, args)
}

// Reify returns a fresh type expression where every reference to one of
// params is replaced with the argument at the same position. If the lengths
// do not match, nothing is substituted, the arity has already been reported
// by whoever built the reference.
func Reify(t Type, params []*TypeParameter, args []Type) Type {
	if len(params) != len(args) {
		return copyType(t, nil)
	}
	subst := make(map[*TypeParameter]Type, len(params))
	for i, p := range params {
		subst[p] = args[i]
	}
	return copyType(t, subst)
}

// ReifyNominal is Reify for a nominal reference, such as a provided trait.
func ReifyNominal(n *Nominal, params []*TypeParameter, args []Type) *Nominal {
	return Reify(n, params, args).(*Nominal)
}

// ReifyMethod returns a copy of the method with its parameter and return
// types reified.
func ReifyMethod(m *Method, params []*TypeParameter, args []Type) *Method {
	if len(params) != len(args) {
		return m
	}
	subst := make(map[*TypeParameter]Type, len(params))
	for i, p := range params {
		subst[p] = args[i]
	}
	return copyMethod(m, subst)
}

func copyType(t Type, subst map[*TypeParameter]Type) Type {
	switch tt := t.(type) {
	case nil:
		return nil
	case *TypeParamRef:
		if replacement, ok := subst[tt.Param]; ok {
			return replacement
		}
		return &TypeParamRef{Param: tt.Param}
	case *Nominal:
		args := make([]Type, len(tt.TypeArgs))
		for i, arg := range tt.TypeArgs {
			args[i] = copyType(arg, subst)
		}
		return &Nominal{
			Package:   tt.Package,
			Name:      tt.Name,
			TypeArgs:  args,
			Cap:       tt.Cap,
			Ephemeral: tt.Ephemeral,
		}
	case *Structural:
		methods := make([]*Method, len(tt.Methods))
		for i, m := range tt.Methods {
			methods[i] = copyMethod(m, subst)
		}
		return &Structural{Methods: methods}
	case *Tuple:
		return &Tuple{Left: copyType(tt.Left, subst), Right: copyType(tt.Right, subst)}
	case *Union:
		return &Union{Left: copyType(tt.Left, subst), Right: copyType(tt.Right, subst)}
	case *Intersection:
		return &Intersection{Left: copyType(tt.Left, subst), Right: copyType(tt.Right, subst)}
	default:
		panic("cannot reify unknown type expression")
	}
}

func copyMethod(m *Method, subst map[*TypeParameter]Type) *Method {
	params := make([]Type, len(m.Params))
	for i, p := range m.Params {
		params[i] = copyType(p, subst)
	}
	return &Method{
		Name:     m.Name,
		Receiver: m.Receiver,
		Params:   params,
		Return:   copyType(m.Return, subst),
		Partial:  m.Partial,
	}
}
