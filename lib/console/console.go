// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Printer writes styled lines to one writer. It is safe for concurrent
// use.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	styles styles
}

type styles struct {
	step    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	dim     lipgloss.Style
	bold    lipgloss.Style
}

// New returns a Printer for out. Colors are enabled only when out is
// an *os.File attached to a terminal and NO_COLOR is unset.
func New(out io.Writer) *Printer {
	profile := termenv.Ascii
	if file, ok := out.(*os.File); ok && term.IsTerminal(int(file.Fd())) && os.Getenv("NO_COLOR") == "" {
		profile = termenv.NewOutput(file).EnvColorProfile()
	}
	return NewWithProfile(out, profile)
}

// NewWithProfile returns a Printer that renders with an explicit color
// profile.
func NewWithProfile(out io.Writer, profile termenv.Profile) *Printer {
	renderer := lipgloss.NewRenderer(out, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)

	return &Printer{
		out: out,
		styles: styles{
			step:    renderer.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
			success: renderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
			warn:    renderer.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
			fail:    renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			dim:     renderer.NewStyle().Faint(true),
			bold:    renderer.NewStyle().Bold(true),
		},
	}
}

// Writer returns the underlying writer, for passing child process
// output through.
func (p *Printer) Writer() io.Writer { return p.out }

// Step announces the start of a provisioning step.
func (p *Printer) Step(format string, args ...any) {
	p.line(p.styles.step.Render("==>"), format, args...)
}

// Success reports a completed operation.
func (p *Printer) Success(format string, args ...any) {
	p.line(p.styles.success.Render("ok"), format, args...)
}

// Warn reports something the operator should look at that did not
// stop the operation.
func (p *Printer) Warn(format string, args ...any) {
	p.line(p.styles.warn.Render("warning:"), format, args...)
}

// Error reports a failure.
func (p *Printer) Error(format string, args ...any) {
	p.line(p.styles.fail.Render("error:"), format, args...)
}

// Info prints an unprefixed line.
func (p *Printer) Info(format string, args ...any) {
	p.line("", format, args...)
}

// Hint prints an indented, dimmed line, typically a command the
// operator should run next.
func (p *Printer) Hint(format string, args ...any) {
	p.line("  ", "%s", p.styles.dim.Render(fmt.Sprintf(format, args...)))
}

// Bold renders text in bold for inline emphasis.
func (p *Printer) Bold(text string) string {
	return p.styles.bold.Render(text)
}

func (p *Printer) line(prefix, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	if prefix != "" {
		message = prefix + " " + message
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, message)
}
