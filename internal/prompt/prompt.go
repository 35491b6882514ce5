// Package prompt is the interactive input collaborator: it reads lines
// and echo-suppressed secrets from a terminal, reporting end of input as
// io.EOF so callers can tell "the stream ended" from "an empty answer".
package prompt

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/jhunt/go-ansi"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Terminal reads prompts from one input stream. Labels are written to
// the output stream (normally stderr) so they never mix with piped
// program output; ansi @-codes in labels are rendered by go-ansi.
type Terminal struct {
	in  *os.File
	r   *bufio.Reader
	out io.Writer
}

// New returns a Terminal over stdin/stderr.
func New() *Terminal {
	return Open(os.Stdin, os.Stderr)
}

// Open returns a Terminal over an explicit pair of streams. Tests use
// this to drive the prompt through a pty or a pipe.
func Open(in *os.File, out io.Writer) *Terminal {
	return &Terminal{in: in, r: bufio.NewReader(in), out: out}
}

// Line prints the label and reads one line of text. The trailing
// newline is stripped; io.EOF means the input ended before any text
// arrived.
func (t *Terminal) Line(label string) (string, error) {
	ansi.Fprintf(t.out, "%s", label)
	s, err := t.r.ReadString('\n')
	if err == io.EOF && s != "" {
		// A final unterminated line still counts.
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// Secret prints the label and reads a secret. On a terminal the echo is
// suppressed and the user's newline is replayed on the output stream;
// on anything else (a pipe, a file) it degrades to a plain line read so
// scripted callers still work. The signature satisfies auth.SecretSource.
func (t *Terminal) Secret(label string) (string, error) {
	if !isatty.IsTerminal(t.in.Fd()) {
		return t.Line(label)
	}
	ansi.Fprintf(t.out, "%s", label)
	b, err := term.ReadPassword(int(t.in.Fd()))
	ansi.Fprintf(t.out, "\n")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
