package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/tanema/subty/src/parse"
)

const (
	prompt         = "> "
	continuePrompt = "...> "
)

// REPL starts an interactive session. Input is buffered until it forms whole
// statements so declarations can span several lines.
func (r *Runner) REPL() error {
	rl, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer func() { _ = rl.Close() }()

	buf := bytes.NewBuffer(nil)
	for {
		src, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if buf.Len() > 0 {
					rl.SetPrompt(prompt)
					buf.Reset()
					fmt.Fprint(os.Stderr, "Press ctrl-c again to quit.\n")
					continue
				}
				break
			} else if errors.Is(err, io.EOF) {
				break
			}
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		if _, err := buf.WriteString(src + "\n"); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		if r.replInput(buf.String()) {
			rl.SetPrompt(continuePrompt)
			continue
		}
		rl.SetPrompt(prompt)
		buf.Reset()
	}
	return nil
}

// replInput evaluates buffered input and reports if it needs more lines.
func (r *Runner) replInput(src string) bool {
	script, err := r.probe(src)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	if _, err := r.Eval(script); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return false
}

// probe parses src with a copy of the parser so that unfinished input does not
// change the package or configuration of the session.
func (r *Runner) probe(src string) (*parse.Script, error) {
	p := r.parser.Clone()
	script, err := p.Parse("<repl>", strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	r.parser = p
	return script, nil
}
