// Package lerrors is a unified errors package for type script parsing, scope
// validation and judgment evaluation so that they can be formatted and handled
// in a unified way.
package lerrors

import (
	"fmt"
	"strings"
)

type (
	// ErrorKind is an enum to describe where the error originates from.
	ErrorKind int
	// Error captures all errors in subty. It distinguishes between lexer, parser,
	// resolution and judgment errors and will format them accordingly.
	Error struct {
		Line     int64
		Column   int64
		Kind     ErrorKind
		Err      error
		Filename string
		// Trail lists the declarations involved, for cycles this is the cycle
		// itself in order.
		Trail []string
	}
)

const (
	// JudgmentErr is an assertion in a script that did not hold.
	JudgmentErr ErrorKind = iota
	// ParserErr is an error that originates from the parser.
	ParserErr
	// LexerErr is an error that originates from the lexer.
	LexerErr
	// ResolveErr is an error found while validating declarations.
	ResolveErr
)

func (err *Error) Error() string {
	switch err.Kind {
	case JudgmentErr:
		return fmt.Sprintf("Assertion Failed: %s:%v:%v %v", err.Filename, err.Line, err.Column, err.Err)
	case ParserErr:
		return fmt.Sprintf(`Parse Error: %s:%v:%v %v`, err.Filename, err.Line, err.Column, err.Err)
	case LexerErr:
		return fmt.Sprintf("Lex Error: %v", err.Err.Error())
	case ResolveErr:
		if len(err.Trail) > 0 {
			return fmt.Sprintf("Resolve Error: %v (%v)", err.Err, strings.Join(err.Trail, " -> "))
		}
		return fmt.Sprintf("Resolve Error: %v", err.Err)
	default:
		return err.Err.Error()
	}
}

func (err *Error) Unwrap() error { return err.Err }
