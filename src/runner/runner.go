// Package runner evaluates type scripts: declarations go into a scope that
// lives as long as the runner, judgments are answered by a subtype checker
// configured from the script's config comments.
package runner

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/tanema/subty/src/conf"
	"github.com/tanema/subty/src/lerrors"
	"github.com/tanema/subty/src/parse"
	"github.com/tanema/subty/src/scope"
	"github.com/tanema/subty/src/subtype"
)

type (
	// Result is the answer to one judgment.
	Result struct {
		*parse.Judgment
		Filename string
		Holds    bool
	}
	// Option configures a Runner.
	Option func(*Runner)
	// Runner keeps the declarations of every script it has run so that later
	// scripts, or later repl lines, can refer to them.
	Runner struct {
		out     io.Writer
		scope   *scope.Scope
		parser  *parse.Parser
		reifier subtype.Reifier
		now     func() time.Time
		stamp   *strftime.Strftime
	}
	// traceWriter prefixes every line of checker trace with a timestamp.
	traceWriter struct {
		out   io.Writer
		now   func() time.Time
		stamp *strftime.Strftime
	}
)

// WithConfig sets the configuration scripts start with.
func WithConfig(cfg parse.Config) Option {
	return func(r *Runner) { r.parser = parse.New(cfg) }
}

// WithPrelude makes the declarations of parent visible to every script.
func WithPrelude(parent *scope.Scope) Option {
	return func(r *Runner) { r.scope = scope.New(parent) }
}

// WithReifier replaces the default reifier.
func WithReifier(reifier subtype.Reifier) Option {
	return func(r *Runner) { r.reifier = reifier }
}

// WithClock sets where trace timestamps come from.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New creates a runner that writes the answer to each judgment to out.
func New(out io.Writer, opts ...Option) *Runner {
	stamp, err := strftime.New(conf.TRACETIMEFORMAT)
	if err != nil {
		panic(err)
	}
	r := &Runner{
		out:    out,
		scope:  scope.New(nil),
		parser: parse.New(parse.DefaultConfig()),
		now:    time.Now,
		stamp:  stamp,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scope returns the scope that declarations are added to.
func (r *Runner) Scope() *scope.Scope { return r.scope }

// Parse parses src without declaring or evaluating anything.
func (r *Runner) Parse(filename string, src io.Reader) (*parse.Script, error) {
	return r.parser.Parse(filename, src)
}

// Run parses and evaluates a script.
func (r *Runner) Run(filename string, src io.Reader) ([]Result, error) {
	script, err := r.parser.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return r.Eval(script)
}

// Eval declares everything in the script, validates the declarations and then
// answers every judgment in order. A script whose declarations do not validate
// adds none of them. It stops at the first assertion that does not hold and
// returns it as a lerrors.JudgmentErr.
func (r *Runner) Eval(script *parse.Script) ([]Result, error) {
	if err := r.scope.Extend(script.Declarations); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(script.Judgments))
	for _, judgment := range script.Judgments {
		res := Result{
			Judgment: judgment,
			Filename: script.Filename,
			Holds:    r.judge(judgment),
		}
		results = append(results, res)
		fmt.Fprintf(r.out, "%v\n", res)
		if judgment.Assert && !res.Holds {
			return results, &lerrors.Error{
				Kind:     lerrors.JudgmentErr,
				Filename: script.Filename,
				Line:     judgment.Line,
				Column:   judgment.Column,
				Err:      fmt.Errorf("%v %v %v", judgment.Left, judgment.Relation, judgment.Right),
			}
		}
	}
	return results, nil
}

func (r *Runner) judge(j *parse.Judgment) bool {
	opts := []subtype.Option{
		subtype.WithCapabilities(j.Config.Capabilities),
		subtype.WithCycleGuard(j.Config.GuardCycles),
	}
	if j.Config.Trace {
		opts = append(opts, subtype.WithTrace(&traceWriter{out: r.out, now: r.now, stamp: r.stamp}))
	}
	checker := subtype.New(r.scope, r.reifier, opts...)
	switch j.Relation {
	case parse.RelSubtype:
		return checker.IsSubtype(j.Left, j.Right)
	case parse.RelNotSubtype:
		return !checker.IsSubtype(j.Left, j.Right)
	case parse.RelEqual:
		return checker.Equal(j.Left, j.Right)
	case parse.RelNotEqual:
		return !checker.Equal(j.Left, j.Right)
	default:
		panic(fmt.Sprintf("unknown relation %q", j.Relation))
	}
}

func (res Result) String() string {
	return fmt.Sprintf("%v %v %v => %v", res.Left, res.Relation, res.Right, res.Holds)
}

func (w *traceWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.SplitAfter(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w.out, "[%s] %s", w.stamp.FormatString(w.now()), line); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
