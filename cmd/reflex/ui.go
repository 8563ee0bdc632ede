package main

import (
	"fmt"
	"io"
)

// ANSI color constants for plain CLI output, which runs outside the TUI.
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiItalic = "\033[3m"
	ansiYellow = "\033[38;2;255;230;81m"  // #FFE651
	ansiAmber  = "\033[38;2;212;160;23m"  // #D4A017
	ansiSlate  = "\033[38;2;136;144;160m" // #8890a0
)

// printer writes CLI output, colored only when stdout is a terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer, color bool) *printer {
	return &printer{w: w, color: color}
}

func (p *printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

// logo prints the spaced REFLEX wordmark in alternating yellow.
func (p *printer) logo() {
	letters := "REFLEX"
	colors := [2]string{ansiYellow, ansiAmber}
	fmt.Fprint(p.w, "\n  ")
	for i, ch := range letters {
		fmt.Fprint(p.w, p.paint(colors[i%2]+ansiBold, string(ch)))
		if i < len(letters)-1 {
			fmt.Fprint(p.w, "  ")
		}
	}
	fmt.Fprintln(p.w)
}

func (p *printer) heading(s string) {
	fmt.Fprintf(p.w, "\n  %s\n", p.paint(ansiYellow+ansiBold, s))
}

func (p *printer) line(s string) {
	fmt.Fprintf(p.w, "  %s\n", s)
}

func (p *printer) dim(s string) {
	fmt.Fprintf(p.w, "  %s\n", p.paint(ansiSlate+ansiItalic, s))
}

func (p *printer) row(num, body, meta string) {
	fmt.Fprintf(p.w, "    %s  %s", p.paint(ansiSlate, num), body)
	if meta != "" {
		fmt.Fprintf(p.w, "  %s", p.paint(ansiSlate, meta))
	}
	fmt.Fprintln(p.w)
}

func (p *printer) end() {
	fmt.Fprintln(p.w)
}
