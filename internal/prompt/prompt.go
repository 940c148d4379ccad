// Package prompt asks line-oriented questions and re-asks until the answer
// validates. End of input cancels, which callers must treat as aborting the
// whole operation.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrCancelled is returned when input ends before a valid answer was given.
var ErrCancelled = errors.New("cancelled")

// Prompter reads answers from in and writes questions and complaints to out.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New creates a Prompter reading answers from in and writing to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Ask prints label and returns the next line of input without its newline.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if p.in.Scan() {
		return strings.TrimRight(p.in.Text(), "\r"), nil
	}
	if err := p.in.Err(); err != nil {
		return "", err
	}
	fmt.Fprintln(p.out)
	return "", ErrCancelled
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *Prompter) Confirm(label string) (bool, error) {
	ans, err := p.Ask(label + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(ans)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Until asks label repeatedly until parse accepts the answer.
func Until[T any](p *Prompter, label string, parse func(string) (T, error)) (T, error) {
	for {
		ans, err := p.Ask(label)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(ans)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(p.out, "Invalid: %v\n", err)
	}
}
