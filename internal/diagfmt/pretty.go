// Package diagfmt renders diagnostic bags for the command line.
package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"projector/internal/diag"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	codeColor    = color.New(color.Faint)
)

// Pretty writes one line per diagnostic:
//
//	<SEV> <CODE> <subject>: <message>
//
// followed by indented notes. Items are printed in bag order; call
// bag.Sort() first for a stable listing.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for _, d := range items {
		sev := d.Severity.String()
		code := d.Code.ID()
		if opts.Color {
			sev = severityColor(d.Severity).Sprint(sev)
			code = codeColor.Sprint(code)
		}
		fmt.Fprintf(w, "%s %s %s: %s\n", sev, code, subjectLabel(d.Primary), d.Message)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "    note: %s: %s\n", subjectLabel(n.Subject), n.Msg)
		}
	}
	if rest := bag.Len() - len(items); rest > 0 {
		fmt.Fprintf(w, "... %d more\n", rest)
	}
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

// subjectLabel prefers the captured name; ids are only useful to people
// holding the same snapshot.
func subjectLabel(s diag.Subject) string {
	if s.Name != "" {
		return s.Name
	}
	return s.String()
}
