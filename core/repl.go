package kamin

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// LineReader supplies one line of input per prompt. *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

type historyAppender interface {
	AppendHistory(item string)
}

// REPL is the interactive read-eval-print loop.
type REPL struct {
	In      LineReader
	Out     io.Writer
	Session *Session
	Prompt  string
}

// Run loops until end of input or an interrupt, both of which end the loop
// cleanly. Evaluation errors are printed and never stop the loop.
func (r *REPL) Run() error {
	prompt := r.Prompt
	if prompt == "" {
		prompt = "> "
	}
	for {
		line, err := r.In.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(r.Out)
				return nil
			}
			return fmt.Errorf("read line: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if h, ok := r.In.(historyAppender); ok {
			h.AppendHistory(line)
		}

		trace := r.Session.Eval(line)
		if trace.OK() {
			fmt.Fprintln(r.Out, trace.Result)
		} else {
			fmt.Fprintln(r.Out, "! "+trace.Error)
		}
	}
}
