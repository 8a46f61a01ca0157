package parse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tanema/subty/src/conf"
	"github.com/tanema/subty/src/lerrors"
	"github.com/tanema/subty/src/types"
)

type (
	// Config is how judgments in a script are checked. Config comments like
	// --!nocaps,trace change it from that point in the script onwards.
	Config struct {
		Capabilities bool // check reference capabilities and ephemerality
		GuardCycles  bool // stop searching provided traits that loop
		Trace        bool // log every decision of the checker
	}
	// Relation is the question a judgment asks.
	Relation string
	// Judgment is a single question in a script such as Int <: Any.
	Judgment struct {
		LineInfo
		Relation    Relation
		Left, Right types.Type
		// Assert makes a judgment that does not hold an error instead of output.
		Assert bool
		// Config is the configuration in effect where the judgment was written.
		Config Config
	}
	// Script is everything parsed from a single source.
	Script struct {
		Filename     string
		Declarations []*types.Declaration
		Judgments    []*Judgment
	}
	// Parser parses type scripts. The current package and configuration carry
	// over between calls to Parse so that a repl can feed it one line at a time.
	Parser struct {
		lex        *lexer
		filename   string
		pkg        string
		typeParams map[string]*types.TypeParameter
		config     Config
	}
)

const (
	// RelSubtype asks if the left type is a subtype of the right.
	RelSubtype Relation = "<:"
	// RelNotSubtype asks if the left type is not a subtype of the right.
	RelNotSubtype Relation = "!<:"
	// RelEqual asks if both types are the same type.
	RelEqual Relation = "=="
	// RelNotEqual asks if the types are different.
	RelNotEqual Relation = "!="
)

// DefaultConfig is the configuration a parser starts with.
func DefaultConfig() Config {
	return Config{
		Capabilities: conf.CHECKCAPS,
		GuardCycles:  conf.GUARDCYCLES,
	}
}

// New creates a new parser that declares names into the default package.
func New(cfg Config) *Parser {
	return &Parser{
		pkg:    conf.DEFAULTPACKAGE,
		config: cfg,
	}
}

// File is a helper function around Parse to open and close a file automatically.
func File(path string) (*Script, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()
	return Parse(path, src)
}

// Parse parses a whole script with the default configuration.
func Parse(filename string, src io.Reader) (*Script, error) {
	return New(DefaultConfig()).Parse(filename, src)
}

func (j *Judgment) String() string {
	if j.Assert {
		return fmt.Sprintf("assert %v %v %v", j.Left, j.Relation, j.Right)
	}
	return fmt.Sprintf("%v %v %v", j.Left, j.Relation, j.Right)
}

// String lists the declarations and then the judgments of the script, one per
// line.
func (s *Script) String() string {
	var b strings.Builder
	for _, decl := range s.Declarations {
		fmt.Fprintf(&b, "%v\n", decl)
		for _, m := range decl.Members {
			fmt.Fprintf(&b, "  %v\n", m)
		}
	}
	for _, j := range s.Judgments {
		fmt.Fprintf(&b, "%d:%d %v\n", j.Line, j.Column, j)
	}
	return b.String()
}

// Clone returns a parser in the same package with the same configuration.
func (p *Parser) Clone() *Parser {
	return &Parser{pkg: p.pkg, config: p.config}
}

// Config returns the configuration as it stands after the last parse.
func (p *Parser) Config() Config { return p.config }

// Package returns the package that unqualified names are declared in.
func (p *Parser) Package() string { return p.pkg }

// Parse parses every statement in src. An input that ends in the middle of a
// statement returns an error that matches io.ErrUnexpectedEOF so that a repl
// can ask for more input.
func (p *Parser) Parse(filename string, src io.Reader) (*Script, error) {
	script := &Script{
		Filename:     filename,
		Declarations: []*types.Declaration{},
		Judgments:    []*Judgment{},
	}
	p.filename = filename
	p.lex = newLexer(filename, src)
	p.typeParams = nil
	for {
		tk, err := p.peek()
		if err != nil {
			return script, err
		} else if tk.Kind == tokenEOS {
			return script, nil
		} else if err := p.stat(script); err != nil {
			return script, err
		}
	}
}

func (p *Parser) parseErr(tk *token, err error) error {
	return p.fmtErr(tk, lerrors.ParserErr, err)
}

func (p *Parser) fmtErr(tk *token, kind lerrors.ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	var subtyErr *lerrors.Error
	if errors.As(err, &subtyErr) {
		return err
	} else if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	newErr := &lerrors.Error{
		Kind:     kind,
		Filename: p.filename,
		Err:      err,
	}
	if tk != nil {
		newErr.Line = tk.Line
		newErr.Column = tk.Column
	} else {
		newErr.Line = p.lex.Line
		newErr.Column = p.lex.Column
	}
	return newErr
}

// unexpected reports tk as not belonging where it was found, running out of
// input is reported as such.
func (p *Parser) unexpected(tk *token, expected string) error {
	if tk.Kind == tokenEOS {
		return p.parseErr(tk, io.ErrUnexpectedEOF)
	}
	return p.parseErr(tk, fmt.Errorf("expected %v but found %v", expected, tk))
}

// peek returns the next token that is not a comment. Config comments are
// applied as they are skipped.
func (p *Parser) peek() (*token, error) {
	for {
		tk, err := p.lex.Peek()
		if err != nil {
			return tk, err
		} else if tk.Kind != tokenComment {
			return tk, nil
		}
		_, _ = p.lex.Next()
		if strings.HasPrefix(tk.StringVal, "!") {
			p.configComment(tk)
		}
	}
}

func (p *Parser) consumeToken(tt tokenType) (*token, error) {
	if _, err := p.peek(); err != nil {
		return nil, err
	}
	tk, err := p.lex.Next()
	if err != nil {
		return nil, p.parseErr(tk, err)
	} else if tt != tk.Kind {
		return nil, p.unexpected(tk, fmt.Sprintf("%q", tt))
	}
	return tk, nil
}

func (p *Parser) next(tt tokenType) error {
	_, err := p.consumeToken(tt)
	return err
}

// case something goes funky.
func (p *Parser) mustnext(tt tokenType) *token {
	tk, err := p.consumeToken(tt)
	if err != nil {
		panic(err)
	}
	return tk
}

// accept consumes the next token if it is of kind tt.
func (p *Parser) accept(tt tokenType) (bool, error) {
	tk, err := p.peek()
	if err != nil {
		return false, err
	} else if tk.Kind != tt {
		return false, nil
	}
	p.mustnext(tt)
	return true, nil
}

// stat -> ';' | package | decl | judgment.
func (p *Parser) stat(script *Script) error {
	tk, err := p.peek()
	if err != nil {
		return err
	}
	switch {
	case tk.Kind == tokenSemiColon:
		return p.next(tokenSemiColon)
	case tk.Kind == tokenPackage:
		return p.packagestat()
	case tk.isDeclKind():
		decl, err := p.declstat()
		if err != nil {
			return err
		}
		script.Declarations = append(script.Declarations, decl)
		return nil
	default:
		judgment, err := p.judgmentstat()
		if err != nil {
			return err
		}
		script.Judgments = append(script.Judgments, judgment)
		return nil
	}
}

func (p *Parser) configComment(comment *token) {
	config := strings.TrimPrefix(comment.StringVal, "!")
	for _, cfg := range strings.Split(config, ",") {
		cfg = strings.TrimSpace(cfg)
		enabled := !strings.HasPrefix(cfg, "no")
		switch strings.TrimPrefix(cfg, "no") {
		case "caps":
			p.config.Capabilities = enabled
		case "guard":
			p.config.GuardCycles = enabled
		case "trace":
			p.config.Trace = enabled
		}
	}
}

// package -> 'package' NAME.
func (p *Parser) packagestat() error {
	p.mustnext(tokenPackage)
	name, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return err
	}
	p.pkg = name.StringVal
	return nil
}

// decl -> kind NAME [typeparams] ['is' nominal {',' nominal}] [body].
func (p *Parser) declstat() (*types.Declaration, error) {
	kindTk, err := p.lex.Next()
	if err != nil {
		return nil, p.parseErr(kindTk, err)
	}
	kind, _ := types.ParseDeclKind(string(kindTk.Kind))
	name, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return nil, err
	}
	decl := &types.Declaration{
		Kind:       kind,
		Package:    p.pkg,
		Name:       name.StringVal,
		TypeParams: []*types.TypeParameter{},
		Provides:   []*types.Nominal{},
		Members:    []*types.Method{},
	}

	p.typeParams = map[string]*types.TypeParameter{}
	defer func() { p.typeParams = nil }()

	if tk, err := p.peek(); err != nil {
		return nil, err
	} else if tk.Kind == tokenOpenBracket {
		if decl.TypeParams, err = p.typeparams(); err != nil {
			return nil, err
		}
	}

	if isProvides, err := p.accept(tokenIs); err != nil {
		return nil, err
	} else if isProvides {
		if decl.Provides, err = p.provides(); err != nil {
			return nil, err
		}
	}

	if tk, err := p.peek(); err != nil {
		return nil, err
	} else if tk.Kind == tokenOpenCurly {
		if decl.Members, err = p.methods(); err != nil {
			return nil, err
		}
	}
	return decl, nil
}

// typeparams -> '[' NAME [':' type] {',' NAME [':' type]} ']'.
// A parameter is visible in its own constraint and in later ones.
func (p *Parser) typeparams() ([]*types.TypeParameter, error) {
	p.mustnext(tokenOpenBracket)
	params := []*types.TypeParameter{}
	for {
		name, err := p.consumeToken(tokenIdentifier)
		if err != nil {
			return nil, err
		} else if _, exists := p.typeParams[name.StringVal]; exists {
			return nil, p.parseErr(name, fmt.Errorf("duplicate type parameter %v", name.StringVal))
		}
		param := &types.TypeParameter{Name: name.StringVal}
		p.typeParams[param.Name] = param
		params = append(params, param)

		if hasConstraint, err := p.accept(tokenColon); err != nil {
			return nil, err
		} else if hasConstraint {
			if param.Constraint, err = p.typ(); err != nil {
				return nil, err
			}
		}

		if more, err := p.accept(tokenComma); err != nil {
			return nil, err
		} else if !more {
			return params, p.next(tokenCloseBracket)
		}
	}
}

func (p *Parser) provides() ([]*types.Nominal, error) {
	provided := []*types.Nominal{}
	for {
		tk, err := p.peek()
		if err != nil {
			return nil, err
		}
		t, err := p.nominal()
		if err != nil {
			return nil, err
		}
		trait, isNominal := t.(*types.Nominal)
		if !isNominal {
			return nil, p.parseErr(tk, fmt.Errorf("cannot provide type parameter %v", t))
		}
		provided = append(provided, trait)
		if more, err := p.accept(tokenComma); err != nil {
			return nil, err
		} else if !more {
			return provided, nil
		}
	}
}

// body -> '{' {method [';' | ',']} '}'.
func (p *Parser) methods() ([]*types.Method, error) {
	p.mustnext(tokenOpenCurly)
	methods := []*types.Method{}
	for {
		tk, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch tk.Kind {
		case tokenCloseCurly:
			p.mustnext(tokenCloseCurly)
			return methods, nil
		case tokenSemiColon, tokenComma:
			p.mustnext(tk.Kind)
		case tokenFun:
			m, err := p.method()
			if err != nil {
				return nil, err
			}
			methods = append(methods, m)
		default:
			return nil, p.unexpected(tk, "method or }")
		}
	}
}

// method -> 'fun' [cap] NAME '(' [param {',' param}] ')' [':' type] ['?'].
func (p *Parser) method() (*types.Method, error) {
	p.mustnext(tokenFun)
	m := &types.Method{Params: []types.Type{}}
	tk, err := p.peek()
	if err != nil {
		return nil, err
	} else if tk.isCap() {
		p.mustnext(tk.Kind)
		m.Receiver, _ = types.ParseCapability(string(tk.Kind))
	}

	name, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return nil, err
	}
	m.Name = name.StringVal

	if err := p.next(tokenOpenParen); err != nil {
		return nil, err
	} else if closed, err := p.accept(tokenCloseParen); err != nil {
		return nil, err
	} else if !closed {
		if m.Params, err = p.parlist(); err != nil {
			return nil, err
		}
	}

	if hasReturn, err := p.accept(tokenColon); err != nil {
		return nil, err
	} else if hasReturn {
		if m.Return, err = p.typ(); err != nil {
			return nil, err
		}
	}

	m.Partial, err = p.accept(tokenPartial)
	return m, err
}

// parlist -> [NAME ':'] type {',' [NAME ':'] type} ')'.
func (p *Parser) parlist() ([]types.Type, error) {
	params := []types.Type{}
	for {
		tk, err := p.peek()
		if err != nil {
			return nil, err
		} else if tk.Kind == tokenIdentifier {
			name := p.mustnext(tokenIdentifier)
			if named, err := p.accept(tokenColon); err != nil {
				return nil, err
			} else if !named {
				p.lex.back(name)
			}
		}

		param, err := p.typ()
		if err != nil {
			return nil, err
		}
		params = append(params, param)

		if more, err := p.accept(tokenComma); err != nil {
			return nil, err
		} else if !more {
			return params, p.next(tokenCloseParen)
		}
	}
}

// judgment -> ['assert'] type ('<:' | '!<:' | '==' | '!=') type.
func (p *Parser) judgmentstat() (*Judgment, error) {
	tk, err := p.peek()
	if err != nil {
		return nil, err
	}
	judgment := &Judgment{LineInfo: tk.LineInfo, Config: p.config}
	if judgment.Assert, err = p.accept(tokenAssert); err != nil {
		return nil, err
	} else if judgment.Left, err = p.typ(); err != nil {
		return nil, err
	}

	rel, err := p.peek()
	if err != nil {
		return nil, err
	} else if !rel.isRelation() {
		return nil, p.unexpected(rel, "one of <: !<: == !=")
	}
	p.mustnext(rel.Kind)
	judgment.Relation = Relation(rel.Kind)

	judgment.Right, err = p.typ()
	return judgment, err
}

// type -> isect {'|' isect}.
func (p *Parser) typ() (types.Type, error) {
	arms := []types.Type{}
	for {
		arm, err := p.isect()
		if err != nil {
			return nil, err
		}
		arms = append(arms, arm)
		if more, err := p.accept(tokenUnion); err != nil {
			return nil, err
		} else if !more {
			return types.NewUnion(arms...), nil
		}
	}
}

// isect -> atom {'&' atom}.
func (p *Parser) isect() (types.Type, error) {
	arms := []types.Type{}
	for {
		arm, err := p.atom()
		if err != nil {
			return nil, err
		}
		arms = append(arms, arm)
		if more, err := p.accept(tokenIntersection); err != nil {
			return nil, err
		} else if !more {
			return types.NewIntersection(arms...), nil
		}
	}
}

// atom -> '(' type {',' type} ')' | '{' {method} '}' | nominal.
func (p *Parser) atom() (types.Type, error) {
	tk, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tk.Kind {
	case tokenOpenParen:
		p.mustnext(tokenOpenParen)
		elems := []types.Type{}
		for {
			elem, err := p.typ()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if more, err := p.accept(tokenComma); err != nil {
				return nil, err
			} else if !more {
				break
			}
		}
		return types.NewTuple(elems...), p.next(tokenCloseParen)
	case tokenOpenCurly:
		methods, err := p.methods()
		if err != nil {
			return nil, err
		}
		return &types.Structural{Methods: methods}, nil
	case tokenIdentifier:
		return p.nominal()
	default:
		return nil, p.unexpected(tk, "type")
	}
}

// nominal -> NAME ['.' NAME] ['[' type {',' type} ']'] [cap] ['^'].
func (p *Parser) nominal() (types.Type, error) {
	name, err := p.consumeToken(tokenIdentifier)
	if err != nil {
		return nil, err
	}
	n := types.NewNominal(p.pkg, name.StringVal)

	qualified, err := p.accept(tokenPeriod)
	if err != nil {
		return nil, err
	} else if qualified {
		member, err := p.consumeToken(tokenIdentifier)
		if err != nil {
			return nil, err
		}
		n.Package, n.Name = name.StringVal, member.StringVal
	} else if param, ok := p.typeParams[name.StringVal]; ok {
		if tk, err := p.peek(); err != nil {
			return nil, err
		} else if tk.Kind == tokenOpenBracket || tk.Kind == tokenEphemeral || tk.isCap() {
			return nil, p.parseErr(tk, fmt.Errorf("type parameter %v cannot take arguments or capabilities", param.Name))
		}
		return param.Ref(), nil
	}

	if hasArgs, err := p.accept(tokenOpenBracket); err != nil {
		return nil, err
	} else if hasArgs {
		for {
			arg, err := p.typ()
			if err != nil {
				return nil, err
			}
			n.TypeArgs = append(n.TypeArgs, arg)
			if more, err := p.accept(tokenComma); err != nil {
				return nil, err
			} else if !more {
				break
			}
		}
		if err := p.next(tokenCloseBracket); err != nil {
			return nil, err
		}
	}

	if tk, err := p.peek(); err != nil {
		return nil, err
	} else if tk.isCap() {
		p.mustnext(tk.Kind)
		n.Cap, _ = types.ParseCapability(string(tk.Kind))
	}
	if n.Ephemeral, err = p.accept(tokenEphemeral); err != nil {
		return nil, err
	}
	return n, nil
}
