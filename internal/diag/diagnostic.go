package diag

import (
	"fmt"

	"projector/internal/model"
)

// Subject identifies the program element a diagnostic is about.
// Either field may be unset; Entity wins when both are present.
type Subject struct {
	Type   model.TypeID
	Entity model.EntityID
	// Name is a human-readable label captured when the diagnostic is built,
	// so rendering does not need the model.
	Name string
}

// TypeSubject returns a subject pointing at a type.
func TypeSubject(id model.TypeID, name string) Subject {
	return Subject{Type: id, Name: name}
}

// EntitySubject returns a subject pointing at an entity.
func EntitySubject(id model.EntityID, name string) Subject {
	return Subject{Entity: id, Name: name}
}

func (s Subject) String() string {
	switch {
	case s.Entity.IsValid():
		return fmt.Sprintf("entity#%d(%s)", s.Entity, s.Name)
	case s.Type.IsValid():
		return fmt.Sprintf("type#%d(%s)", s.Type, s.Name)
	case s.Name != "":
		return s.Name
	default:
		return "<none>"
	}
}

type Note struct {
	Subject Subject
	Msg     string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Subject
	Notes    []Note
}

func New(sev Severity, code Code, primary Subject, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(s Subject, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Subject: s, Msg: msg})
	return d
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s %s: %s", d.Severity, d.Code.ID(), d.Primary, d.Message)
}
