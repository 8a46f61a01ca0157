package parse

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode"

	"github.com/tanema/subty/src/lerrors"
)

type (
	lexer struct {
		filename string
		rdr      *bufio.Reader
		peeked   []*token
		LineInfo
	}
)

func newLexer(filename string, src io.Reader) *lexer {
	return &lexer{
		filename: filename,
		LineInfo: LineInfo{Line: 1},
		rdr:      bufio.NewReaderSize(src, 4096),
		peeked:   []*token{},
	}
}

func (lex *lexer) errf(msg string, data ...any) error {
	return lex.err(fmt.Errorf(msg, data...))
}

func (lex *lexer) err(err error) error {
	if errors.Is(err, io.EOF) {
		return err
	}
	return &lerrors.Error{
		Filename: lex.filename,
		Kind:     lerrors.LexerErr,
		Line:     lex.Line,
		Column:   lex.Column,
		Err:      err,
	}
}

func (lex *lexer) peek() rune {
	chs, _ := lex.rdr.Peek(1)
	if len(chs) == 0 {
		return 0
	}
	return rune(chs[0])
}

func (lex *lexer) next() (rune, error) {
	ch, _, err := lex.rdr.ReadRune()
	if err != nil {
		return ch, lex.err(err)
	}
	if ch == '\n' {
		lex.Line++
		lex.Column = 0
		return ch, nil
	}
	lex.Column++
	return ch, nil
}

func (lex *lexer) mustNext(expected rune) error {
	ch, err := lex.next()
	if errors.Is(err, io.EOF) {
		return lex.errf("expected rune %v but found end of input", string(expected))
	} else if err != nil {
		return err
	} else if ch != expected {
		return lex.errf("expected rune %v but found %v", string(expected), string(ch))
	}
	return nil
}

func (lex *lexer) skipWhitespace() error {
	for {
		if tk := lex.peek(); tk == ' ' || tk == '\t' || tk == '\n' || tk == '\r' {
			if _, err := lex.next(); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

func (lex *lexer) tokenVal(tk tokenType) (*token, error) {
	return &token{Kind: tk, LineInfo: LineInfo{Line: lex.Line, Column: lex.Column - int64(len(tk)) + 1}}, nil
}

func (lex *lexer) takeTokenVal(tk tokenType) (*token, error) {
	if _, err := lex.next(); err != nil {
		return nil, err
	}
	return lex.tokenVal(tk)
}

// allow for FIFO stack.
func (lex *lexer) back(tk *token) {
	lex.peeked = append(lex.peeked, tk)
}

func (lex *lexer) Peek() (*token, error) {
	if len(lex.peeked) == 0 {
		tk, err := lex.Next()
		if err != nil && !errors.Is(err, io.EOF) {
			return &token{Kind: tokenEOS, LineInfo: lex.LineInfo}, err
		} else if err != nil && errors.Is(err, io.EOF) {
			return &token{Kind: tokenEOS, LineInfo: lex.LineInfo}, nil
		}
		lex.peeked = append(lex.peeked, tk)
	}
	return lex.peeked[len(lex.peeked)-1], nil
}

func (lex *lexer) Next() (*token, error) {
	if len(lex.peeked) != 0 {
		top := lex.peeked[len(lex.peeked)-1]
		lex.peeked = lex.peeked[:len(lex.peeked)-1]
		return top, nil
	}
	if lex.peek() == '#' && lex.Line == 1 && lex.Column == 0 {
		if err := lex.parseShebang(); err != nil {
			return nil, err
		}
	}
	if err := lex.skipWhitespace(); err != nil {
		return nil, err
	}
	ch, err := lex.next()
	if err != nil {
		return nil, err
	}
	peekCh := lex.peek()
	switch {
	case ch == '-' && peekCh == '-':
		return lex.parseComment()
	case ch == '<' && peekCh == ':':
		return lex.takeTokenVal(tokenSubtype)
	case ch == '!' && peekCh == '<':
		if _, err := lex.next(); err != nil {
			return nil, err
		} else if err := lex.mustNext(':'); err != nil {
			return nil, err
		}
		return lex.tokenVal(tokenNotSubtype)
	case ch == '!' && peekCh == '=':
		return lex.takeTokenVal(tokenNe)
	case ch == '=' && peekCh == '=':
		return lex.takeTokenVal(tokenEq)
	case ch == ':':
		return lex.tokenVal(tokenColon)
	case ch == ',':
		return lex.tokenVal(tokenComma)
	case ch == '.':
		return lex.tokenVal(tokenPeriod)
	case ch == ';':
		return lex.tokenVal(tokenSemiColon)
	case ch == '(':
		return lex.tokenVal(tokenOpenParen)
	case ch == ')':
		return lex.tokenVal(tokenCloseParen)
	case ch == '{':
		return lex.tokenVal(tokenOpenCurly)
	case ch == '}':
		return lex.tokenVal(tokenCloseCurly)
	case ch == '[':
		return lex.tokenVal(tokenOpenBracket)
	case ch == ']':
		return lex.tokenVal(tokenCloseBracket)
	case ch == '|':
		return lex.tokenVal(tokenUnion)
	case ch == '&':
		return lex.tokenVal(tokenIntersection)
	case ch == '^':
		return lex.tokenVal(tokenEphemeral)
	case ch == '?':
		return lex.tokenVal(tokenPartial)
	case unicode.IsLetter(ch) || ch == '_':
		return lex.parseIdentifier(ch)
	}
	return nil, lex.errf("unexpected character %v", string(ch))
}

func (lex *lexer) parseIdentifier(start rune) (*token, error) {
	linfo := lex.LineInfo
	var ident bytes.Buffer
	if _, err := ident.WriteRune(start); err != nil {
		return nil, err
	}

	for {
		if peekCh := lex.peek(); unicode.IsLetter(peekCh) || unicode.IsDigit(peekCh) || peekCh == '_' {
			if ch, err := lex.next(); err != nil {
				return nil, err
			} else if _, err := ident.WriteRune(ch); err != nil {
				return nil, err
			}
		} else {
			break
		}
	}

	strVal := ident.String()
	if kw, ok := keywords[strVal]; ok {
		return lex.tokenVal(kw)
	}
	return &token{
		Kind:      tokenIdentifier,
		StringVal: strVal,
		LineInfo:  linfo,
	}, nil
}

func (lex *lexer) parseShebang() error {
	for {
		if ch, err := lex.next(); err != nil {
			return err
		} else if ch == '\n' {
			return nil
		}
	}
}

func (lex *lexer) parseComment() (*token, error) {
	linfo := LineInfo{Line: lex.Line, Column: lex.Column}
	if _, err := lex.next(); err != nil {
		return nil, err
	}

	var comment bytes.Buffer
	for {
		ch, err := lex.next()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		} else if ch == '\n' || errors.Is(err, io.EOF) {
			return &token{
				Kind:      tokenComment,
				StringVal: comment.String(),
				LineInfo:  linfo,
			}, nil
		} else if ch == '\r' {
			continue
		} else if _, err := comment.WriteRune(ch); err != nil {
			return nil, lex.err(err)
		}
	}
}
