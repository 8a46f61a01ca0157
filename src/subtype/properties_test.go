package subtype

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tanema/subty/src/types"
)

// atomSources never contain an intersection, the dual properties below only
// hold for those.
var atomSources = []string{
	"Any", "None", "Bool", "Int", "Str", "Stringable", "Comparable[Int]", "Seq[U8]",
	"List[U8]", "List[Int]", "Box[Int]", "Meters", "other.Str",
	"{}", "{fun box string(): Str}", "{fun box size(): USize}", "(Int, Str)",
}

func atoms(t *testing.T) []types.Type {
	t.Helper()
	out := make([]types.Type, len(atomSources))
	for i, src := range atomSources {
		out[i] = ty(t, src)
	}
	return out
}

// generated builds n random type expressions out of atoms, nesting up to depth.
func generated(rnd *rand.Rand, atoms []types.Type, n, depth int) []types.Type {
	out := make([]types.Type, n)
	for i := range out {
		out[i] = randomType(rnd, atoms, depth)
	}
	return out
}

func randomType(rnd *rand.Rand, atoms []types.Type, depth int) types.Type {
	if depth == 0 || rnd.Intn(3) == 0 {
		return atoms[rnd.Intn(len(atoms))]
	}
	left, right := randomType(rnd, atoms, depth-1), randomType(rnd, atoms, depth-1)
	switch rnd.Intn(3) {
	case 0:
		return &types.Union{Left: left, Right: right}
	case 1:
		return &types.Intersection{Left: left, Right: right}
	default:
		return &types.Tuple{Left: left, Right: right}
	}
}

func TestReflexivity(t *testing.T) {
	t.Parallel()
	c := New(newWorld(t, world), nil)
	pool := atoms(t)
	pool = append(pool, generated(rand.New(rand.NewSource(7)), pool, 60, 3)...)
	for _, src := range []string{"Str iso", "Str iso^", "Str trn^", "Box[Str val] ref", "{fun ref m(x: Int): Bool?}"} {
		pool = append(pool, ty(t, src))
	}
	for _, typ := range pool {
		assert.True(t, c.IsSubtype(typ, typ), "%v <: %v", typ, typ)
		assert.True(t, c.Equal(typ, typ), "%v == %v", typ, typ)
	}
}

func TestTransitivity(t *testing.T) {
	t.Parallel()
	c := New(newWorld(t, world), nil, WithCapabilities(false))
	pool := atoms(t)
	pool = append(pool, generated(rand.New(rand.NewSource(42)), pool, 16, 1)...)
	for _, a := range pool {
		for _, b := range pool {
			if !c.IsSubtype(a, b) {
				continue
			}
			for _, cc := range pool {
				if c.IsSubtype(b, cc) {
					assert.True(t, c.IsSubtype(a, cc), "%v <: %v <: %v", a, b, cc)
				}
			}
		}
	}
}

func TestUnionProperties(t *testing.T) {
	t.Parallel()
	c := New(newWorld(t, world), nil)
	pool := atoms(t)
	for _, a := range pool {
		for _, b := range pool {
			union := &types.Union{Left: a, Right: b}
			for _, x := range pool {
				assert.Equal(t, c.IsSubtype(a, x) && c.IsSubtype(b, x), c.IsSubtype(union, x), "%v <: %v", union, x)
				if c.IsSubtype(x, a) {
					assert.True(t, c.IsSubtype(x, union), "%v <: %v", x, union)
				}
			}
		}
	}
}

func TestIntersectionProperties(t *testing.T) {
	t.Parallel()
	c := New(newWorld(t, world), nil)
	pool := atoms(t)
	for _, a := range pool {
		for _, b := range pool {
			isect := &types.Intersection{Left: a, Right: b}
			for _, x := range pool {
				assert.Equal(t, c.IsSubtype(x, a) && c.IsSubtype(x, b), c.IsSubtype(x, isect), "%v <: %v", x, isect)
				// x is never a union or intersection here, those supers are split
				// before the arms of isect are tried
				assert.Equal(t, c.IsSubtype(a, x) || c.IsSubtype(b, x), c.IsSubtype(isect, x), "%v <: %v", isect, x)
			}
		}
	}
}

func TestTupleCovariance(t *testing.T) {
	t.Parallel()
	c := New(newWorld(t, world), nil)
	pool := atoms(t)
	for _, a := range pool {
		for _, b := range pool {
			for _, x := range pool {
				for _, y := range pool {
					expected := c.IsSubtype(a, x) && c.IsSubtype(b, y)
					assert.Equal(t, expected, c.IsSubtype(types.NewTuple(a, b), types.NewTuple(x, y)))
				}
			}
		}
	}
}

func TestEqualityAntisymmetry(t *testing.T) {
	t.Parallel()
	c := New(newWorld(t, world), nil)
	pool := atoms(t)
	pool = append(pool, generated(rand.New(rand.NewSource(3)), pool, 30, 2)...)
	for _, a := range pool {
		for _, b := range pool {
			if c.Equal(a, b) {
				assert.True(t, c.IsSubtype(a, b) && c.IsSubtype(b, a), "%v == %v", a, b)
			}
		}
	}
}

func TestGenericInvariance(t *testing.T) {
	t.Parallel()
	c := New(newWorld(t, world), nil)
	for _, arg := range []string{"Int", "Str", "Any", "Stringable", "(Int, Str)"} {
		for _, other := range []string{"Int", "Str", "Any", "Stringable", "(Int, Str)"} {
			sub, super := pair(t, "Box["+arg+"] <: Box["+other+"]")
			assert.Equal(t, arg == other, c.IsSubtype(sub, super), "%v <: %v", sub, super)
			assert.Equal(t, arg == other, c.Equal(sub, super), "%v == %v", sub, super)
		}
	}
}

func TestNominalStrictness(t *testing.T) {
	t.Parallel()
	c := New(newWorld(t, world), nil)
	for _, src := range []string{
		"Meters !<: Feet",
		"Feet !<: Meters",
		"Meters != Feet",
		"Str != other.Str",
		"other.Str !<: Str",
		"Meters <: {fun box value(): USize}",
		"Feet <: {fun box value(): USize}",
	} {
		assert.True(t, judge(t, c, src), src)
	}
}
