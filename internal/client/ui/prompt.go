// Package ui is the terminal host of the client: it prompts for input,
// prints the view tree and dispatches shell commands to the app.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter reads answers line by line from a single scanner so that
// commands and form prompts share one buffered input.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter reads from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Ask prints label and returns the trimmed line. ok is false at end of input.
func (p *Prompter) Ask(label string) (string, bool) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.scanner.Text()), true
}

// AskDefault prompts for a field showing current; an empty answer keeps it.
func (p *Prompter) AskDefault(field, current string) (string, bool) {
	label := field + ": "
	if current != "" {
		label = fmt.Sprintf("%s [%s]: ", field, current)
	}
	v, ok := p.Ask(label)
	if !ok {
		return "", false
	}
	if v == "" {
		return current, true
	}
	return v, true
}

// Confirm asks a yes/no question; anything but y/yes is a no.
func (p *Prompter) Confirm(prompt string) bool {
	v, ok := p.Ask(prompt + " [y/N]: ")
	if !ok {
		return false
	}
	switch strings.ToLower(v) {
	case "y", "yes":
		return true
	}
	return false
}
