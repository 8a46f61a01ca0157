// Package subtype decides whether one type expression can be used wherever
// another is required, and whether two type expressions denote the same type.
// Every answer is a plain bool. Unresolved names are never subtypes of, or
// equal to, anything. A type shape that no rule covers is a bug upstream and
// panics with a *ContractError instead of returning an answer.
package subtype

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-set/v3"
	"github.com/tanema/subty/src/conf"
	"github.com/tanema/subty/src/types"
)

type (
	// Resolver maps a nominal reference to what its name refers to. It returns
	// nil when the name is unknown.
	Resolver interface {
		Resolve(n *types.Nominal) types.Def
	}
	// ResolverFunc adapts a plain function to a Resolver.
	ResolverFunc func(n *types.Nominal) types.Def
	// Reifier substitutes args for params inside t and returns a fresh type.
	Reifier interface {
		Reify(t types.Type, params []*types.TypeParameter, args []types.Type) types.Type
	}
	// Options changes what the checker takes into account.
	Options struct {
		// Capabilities enables reference capability and ephemeral checks on
		// nominal types and method receivers.
		Capabilities bool
		// GuardCycles stops the provided trait search from looping forever on a
		// cyclic declaration graph. Callers that validate their graphs upstream
		// can turn it off.
		GuardCycles bool
		// Trace, when set, receives an indented log of every decision.
		Trace io.Writer
	}
	// Option configures a Checker.
	Option func(*Options)
	// Checker holds the collaborators needed to compare types. It keeps no state
	// between calls so one checker can be shared between goroutines as long as
	// its Resolver and Reifier are safe for concurrent reads.
	Checker struct {
		resolver Resolver
		reifier  Reifier
		opts     Options
	}
	// relation is the state of a single top level IsSubtype or Equal call.
	relation struct {
		*Checker
		visiting *set.Set[visit]
		depth    int
	}
	visit struct {
		decl  *types.Declaration
		super types.Type
	}
)

// DefaultOptions are the options a checker starts with.
func DefaultOptions() Options {
	return Options{
		Capabilities: conf.CHECKCAPS,
		GuardCycles:  conf.GUARDCYCLES,
	}
}

// WithCapabilities toggles capability checking.
func WithCapabilities(enabled bool) Option {
	return func(o *Options) { o.Capabilities = enabled }
}

// WithCycleGuard toggles the provided trait cycle guard.
func WithCycleGuard(enabled bool) Option {
	return func(o *Options) { o.GuardCycles = enabled }
}

// WithTrace logs every decision to w.
func WithTrace(w io.Writer) Option {
	return func(o *Options) { o.Trace = w }
}

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

// Resolve calls the wrapped function.
func (fn ResolverFunc) Resolve(n *types.Nominal) types.Def { return fn(n) }

// New creates a checker. A nil reifier falls back to types.DefaultReifier.
func New(resolver Resolver, reifier Reifier, opts ...Option) *Checker {
	if resolver == nil {
		panic("subtype checker needs a resolver")
	}
	if reifier == nil {
		reifier = types.DefaultReifier
	}
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Checker{
		resolver: resolver,
		reifier:  reifier,
		opts:     options,
	}
}

// Options returns the options the checker was built with.
func (c *Checker) Options() Options { return c.opts }

// IsSubtype reports if sub can be used wherever super is required.
func (c *Checker) IsSubtype(sub, super types.Type) bool {
	mustBeType("IsSubtype", sub, super)
	return c.relate().isSubtype(sub, super)
}

// Equal reports if a and b denote the same type.
func (c *Checker) Equal(a, b types.Type) bool {
	mustBeType("Equal", a, b)
	return c.relate().equal(a, b)
}

// FunctionSub reports if a method f can stand in for the required method g.
func (c *Checker) FunctionSub(f, g *types.Method) bool {
	if f == nil || g == nil {
		panic(contractViolation("FunctionSub", f, g))
	}
	return c.relate().functionSub(f, g)
}

func (c *Checker) relate() *relation {
	return &relation{Checker: c}
}

// enter marks decl as being searched for super. It returns false if that
// search is already in progress further up, which means the provided traits
// form a cycle.
func (r *relation) enter(decl *types.Declaration, super types.Type) bool {
	if !r.opts.GuardCycles {
		return true
	}
	if r.visiting == nil {
		r.visiting = set.New[visit](4)
	}
	return r.visiting.Insert(visit{decl: decl, super: super})
}

func (r *relation) leave(decl *types.Declaration, super types.Type) {
	if r.visiting != nil {
		r.visiting.Remove(visit{decl: decl, super: super})
	}
}

func (r *relation) resolve(n *types.Nominal) types.Def {
	switch def := r.resolver.Resolve(n).(type) {
	case *types.Declaration:
		if def == nil {
			return nil
		}
		return def
	case *types.TypeParameter:
		if def == nil {
			return nil
		}
		return def
	default:
		return nil
	}
}

func (r *relation) tracef(format string, args ...any) {
	if r.opts.Trace == nil {
		return
	}
	fmt.Fprintf(r.opts.Trace, "%s%s\n", strings.Repeat(conf.TRACEINDENT, r.depth), fmt.Sprintf(format, args...))
}

// trace logs a question and returns a func that logs its answer.
func (r *relation) trace(format string, args ...any) func(bool) bool {
	if r.opts.Trace == nil {
		return func(res bool) bool { return res }
	}
	r.tracef(format, args...)
	r.depth++
	return func(res bool) bool {
		r.depth--
		r.tracef("=> %v", res)
		return res
	}
}
