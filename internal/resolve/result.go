// Package resolve answers "what does this name mean here?" for the
// projector. A Context couples the program model with an immutable scope
// chain (namespace frames carrying usings and aliases) and the current type
// and member cursor; lookups return a tagged Result.
package resolve

import (
	"fmt"
	"strings"

	"projector/internal/model"
)

// Kind tags the variant held by a Result.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindType
	KindNamespace
	KindMember
	KindVariable
	KindConstant
	KindError
	KindAmbiguous
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindType:
		return "type"
	case KindNamespace:
		return "namespace"
	case KindMember:
		return "member"
	case KindVariable:
		return "variable"
	case KindConstant:
		return "constant"
	case KindError:
		return "error"
	case KindAmbiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Result is the outcome of a name lookup.
type Result struct {
	Kind Kind
	// Type is the resolved type for KindType and the declared type of the
	// member, variable or constant otherwise.
	Type model.TypeID
	// Namespace is the full namespace name for KindNamespace.
	Namespace string
	// Entity is the member for KindMember and KindConstant.
	Entity model.EntityID
	// Name is the looked-up identifier (variables, unknown names).
	Name string
	// Value is the constant value for KindConstant.
	Value any
	// Candidates lists the competing results of an ambiguous lookup.
	Candidates []Result
	// Message explains KindError.
	Message string
}

// TypeResult wraps a type.
func TypeResult(t model.TypeID) Result { return Result{Kind: KindType, Type: t} }

// NamespaceResult wraps a namespace.
func NamespaceResult(ns string) Result { return Result{Kind: KindNamespace, Namespace: ns} }

// UnknownResult reports a name that resolves to nothing.
func UnknownResult(name string) Result { return Result{Kind: KindUnknown, Name: name} }

// ErrorResult reports a lookup that failed for a stated reason.
func ErrorResult(name, msg string) Result { return Result{Kind: KindError, Name: name, Message: msg} }

// IsError reports whether the result cannot be used as a resolution.
func (r Result) IsError() bool {
	switch r.Kind {
	case KindUnknown, KindError, KindAmbiguous:
		return true
	}
	return false
}

// IsType reports whether r resolves to exactly the given type.
func (r Result) IsType(t model.TypeID) bool { return r.Kind == KindType && r.Type == t }

func (r Result) String() string {
	switch r.Kind {
	case KindType:
		return fmt.Sprintf("type#%d", r.Type)
	case KindNamespace:
		if r.Namespace == "" {
			return "namespace global::"
		}
		return "namespace " + r.Namespace
	case KindMember:
		return fmt.Sprintf("member#%d", r.Entity)
	case KindVariable:
		return "variable " + r.Name
	case KindConstant:
		return fmt.Sprintf("constant#%d", r.Entity)
	case KindAmbiguous:
		parts := make([]string, len(r.Candidates))
		for i, c := range r.Candidates {
			parts[i] = c.String()
		}
		return "ambiguous(" + strings.Join(parts, ", ") + ")"
	case KindError:
		return "error: " + r.Message
	default:
		return "unknown " + r.Name
	}
}
