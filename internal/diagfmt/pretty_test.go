package diagfmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"projector/internal/diag"
	"projector/internal/model"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.CfgUnknownSubject, diag.Subject{Name: "Acme.Nope"}, "unknown type or member").
		WithNote(diag.TypeSubject(model.TypeID(7), "Acme.Geometry"), "searched here"))
	bag.Add(diag.New(diag.SevWarning, diag.NameRoundTrip, diag.EntitySubject(model.EntityID(3), ""), "Widget resolves to ambiguous"))
	return bag
}

func TestPrettyPlain(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), PrettyOpts{ShowNotes: true})
	assert.Equal(t,
		"ERROR CFG6004 Acme.Nope: unknown type or member\n"+
			"    note: Acme.Geometry: searched here\n"+
			"WARNING NAM4005 entity#3(): Widget resolves to ambiguous\n",
		buf.String())
}

func TestPrettyMaxAndNotes(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), PrettyOpts{Max: 1})
	assert.Equal(t, "ERROR CFG6004 Acme.Nope: unknown type or member\n... 1 more\n", buf.String())
}
