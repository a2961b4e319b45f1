// Package ui renders fresheyes command output.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	ColorGreen  = lipgloss.Color("10")
	ColorYellow = lipgloss.Color("11")
	ColorRed    = lipgloss.Color("9")
	ColorCyan   = lipgloss.Color("14")
	ColorDim    = lipgloss.Color("245")
)

// Printer writes styled status lines to a writer.
type Printer struct {
	out io.Writer

	success  lipgloss.Style
	warn     lipgloss.Style
	errStyle lipgloss.Style
	label    lipgloss.Style
	dim      lipgloss.Style
}

// NewPrinter returns a Printer for out. Colour is used only when color is
// true and out is a terminal.
func NewPrinter(out io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(out)
	if !color || !isTerminal(out) {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		out:      out,
		success:  r.NewStyle().Foreground(ColorGreen).Bold(true),
		warn:     r.NewStyle().Foreground(ColorYellow).Bold(true),
		errStyle: r.NewStyle().Foreground(ColorRed).Bold(true),
		label:    r.NewStyle().Foreground(ColorCyan),
		dim:      r.NewStyle().Foreground(ColorDim),
	}
}

// Success prints a labelled value, e.g. "Pull Request URL: https://...".
func (p *Printer) Success(label, value string) {
	fmt.Fprintf(p.out, "%s %s\n", p.success.Render(label+":"), value)
}

// Warn prints a highlighted notice.
func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.out, p.warn.Render(msg))
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.out, p.errStyle.Render("Error: ")+msg)
}

// Field prints "key: value" with the key highlighted.
func (p *Printer) Field(key, value string) {
	fmt.Fprintf(p.out, "%s %s\n", p.label.Render(key+":"), value)
}

// Note prints a dimmed line.
func (p *Printer) Note(msg string) {
	fmt.Fprintln(p.out, p.dim.Render(msg))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
