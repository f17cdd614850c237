package diagfmt

import (
	"encoding/json"
	"io"

	"projector/internal/diag"
)

// SubjectJSON names the element a diagnostic is about.
type SubjectJSON struct {
	Type   uint32 `json:"type,omitempty"`
	Entity uint32 `json:"entity,omitempty"`
	Name   string `json:"name,omitempty"`
}

type NoteJSON struct {
	Message string      `json:"message"`
	Subject SubjectJSON `json:"subject"`
}

// DiagnosticJSON is one diagnostic in JSON output.
type DiagnosticJSON struct {
	Severity string      `json:"severity"`
	Code     string      `json:"code"`
	Title    string      `json:"title"`
	Message  string      `json:"message"`
	Subject  SubjectJSON `json:"subject"`
	Notes    []NoteJSON  `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeSubject(s diag.Subject) SubjectJSON {
	return SubjectJSON{Type: uint32(s.Type), Entity: uint32(s.Entity), Name: s.Name}
}

// BuildDiagnosticsOutput builds the JSON structure without serializing it.
// Count is the size of the bag, which may exceed len(Diagnostics).
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, len(items)),
		Count:       bag.Len(),
	}
	for _, d := range items {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Subject:  makeSubject(d.Primary),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Subject: makeSubject(n.Subject)})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	return out
}

// JSON writes the bag as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, opts))
}
