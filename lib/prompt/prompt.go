// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dormnet/dormnet/lib/secret"
)

// ErrNoInput is returned when input ends before an answer was given.
var ErrNoInput = errors.New("no input available")

// Prompter reads answers from in and writes prompts to out.
type Prompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader

	// terminalFD is the input's file descriptor when it is a terminal,
	// or -1.
	terminalFD int
}

// New returns a Prompter reading from in and prompting on out.
func New(in io.Reader, out io.Writer) *Prompter {
	prompter := &Prompter{in: in, out: out, reader: bufio.NewReader(in), terminalFD: -1}
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		prompter.terminalFD = int(file.Fd())
	}
	return prompter
}

// Interactive reports whether input is a terminal.
func (p *Prompter) Interactive() bool {
	return p.terminalFD >= 0
}

// AskSecret prints prompt and reads the answer into a secret buffer.
// On a terminal the answer is not echoed. Empty answers are an error.
// The caller must close the returned buffer.
func (p *Prompter) AskSecret(prompt string) (*secret.Buffer, error) {
	fmt.Fprintf(p.out, "%s: ", prompt)

	if !p.Interactive() {
		line, err := p.readLine()
		if err != nil {
			return nil, err
		}
		return secret.ReadLine(strings.NewReader(line))
	}

	data, err := term.ReadPassword(p.terminalFD)
	fmt.Fprintln(p.out)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", strings.ToLower(prompt), err)
	}
	defer secret.Zero(data)
	return secret.ReadLine(bytes.NewReader(data))
}

// AskConfirm asks a yes/no question. An empty answer selects
// defaultYes. Unrecognized answers repeat the question.
func (p *Prompter) AskConfirm(prompt string, defaultYes bool) (bool, error) {
	choices := "[y/N]"
	if defaultYes {
		choices = "[Y/n]"
	}

	for {
		fmt.Fprintf(p.out, "%s %s ", prompt, choices)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer yes or no.")
	}
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned as is; end of input before any byte is
// ErrNoInput.
func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", ErrNoInput
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
