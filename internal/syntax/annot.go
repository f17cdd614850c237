package syntax

import (
	"projector/internal/model"
	"projector/internal/resolve"
)

// Annotations attach semantic facts to a node for consumers that want more
// than text.
type Annotations struct {
	// TypeRef is the type a type node was built from.
	TypeRef model.TypeID
	// Resolved is the resolve result a node stands for.
	Resolved *resolve.Result
}

// Annotated is embedded by nodes that can carry annotations.
type Annotated struct {
	Annot Annotations
}

// Annotations returns the node's annotation record.
func (a *Annotated) Annotations() *Annotations { return &a.Annot }
