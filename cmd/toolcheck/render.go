package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-toolcheck/verify"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	passStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#90EE90"))

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	skipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

// renderReport writes r to w. styled enables ANSI styling.
func renderReport(w io.Writer, r *verify.Report, styled bool) {
	paint := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	nameWidth := 0
	for _, c := range r.Checks {
		nameWidth = max(nameWidth, len(c.Name))
	}

	fmt.Fprintln(w, paint(titleStyle, "toolcheck report"))
	fmt.Fprintln(w)
	for _, c := range r.Checks {
		var label string
		switch c.Status {
		case verify.StatusPass:
			label = paint(passStyle, "PASS")
		case verify.StatusFail:
			label = paint(failStyle, "FAIL")
		default:
			label = paint(skipStyle, "SKIP")
		}
		line := "  " + label + "  " + c.Name
		if c.Detail != "" {
			line += strings.Repeat(" ", nameWidth-len(c.Name)) + "  " + paint(skipStyle, c.Detail)
		}
		fmt.Fprintln(w, line)
	}

	if len(r.Exports) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Exported functions:")
		for _, e := range r.Exports {
			line := "  " + paint(funcStyle, e.Name) + " " + paint(typeStyle, e.Core)
			if e.Signature != "" {
				line += "  " + e.Signature
			}
			fmt.Fprintln(w, line)
		}
	}

	pass, fail, skip := r.Counts()
	summary := fmt.Sprintf("%d checks: %d passed, %d failed, %d skipped", len(r.Checks), pass, fail, skip)
	fmt.Fprintln(w)
	if fail > 0 {
		fmt.Fprintln(w, paint(failStyle, summary))
	} else {
		fmt.Fprintln(w, paint(passStyle, summary))
	}
}
