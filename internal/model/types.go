package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Kind enumerates the variants of a type reference.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindDefinition
	KindParameterized
	KindArray
	KindPointer
	KindByRef
	KindTuple
	KindTypeParameter
	KindUnknown
	KindUnboundArg
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindDefinition:
		return "definition"
	case KindParameterized:
		return "parameterized"
	case KindArray:
		return "array"
	case KindPointer:
		return "pointer"
	case KindByRef:
		return "byref"
	case KindTuple:
		return "tuple"
	case KindTypeParameter:
		return "type-parameter"
	case KindUnknown:
		return "unknown"
	case KindUnboundArg:
		return "unbound"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any type reference.
//
// Definitions and type parameters point into side tables through Payload;
// every other kind is purely structural and is hash-consed, so two
// structurally equal descriptors always share one TypeID.
type Type struct {
	Kind    Kind
	Elem    TypeID   // element (array, pointer, byref) or generic definition (parameterized)
	Rank    uint32   // arrays only
	Args    []TypeID // type arguments or tuple elements
	Names   []string // tuple element labels, "" when unnamed
	Payload uint32   // definition or type-parameter slot
}

// Descriptor helpers ---------------------------------------------------------

// MakeArray describes an array of the given rank (1 for T[]).
func MakeArray(elem TypeID, rank uint32) Type {
	if rank == 0 {
		rank = 1
	}
	return Type{Kind: KindArray, Elem: elem, Rank: rank}
}

// MakePointer describes an unmanaged pointer.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeByRef describes a managed reference (ref T).
func MakeByRef(elem TypeID) Type {
	return Type{Kind: KindByRef, Elem: elem}
}

// MakeParameterized describes a generic instantiation.
func MakeParameterized(generic TypeID, args ...TypeID) Type {
	return Type{Kind: KindParameterized, Elem: generic, Args: append([]TypeID(nil), args...)}
}

// MakeTuple describes a tuple; names may be nil or match elems in length.
func MakeTuple(elems []TypeID, names []string) Type {
	t := Type{Kind: KindTuple, Args: append([]TypeID(nil), elems...)}
	if hasNames(names) {
		t.Names = make([]string, len(elems))
		copy(t.Names, names)
	}
	return t
}

func hasNames(names []string) bool {
	for _, n := range names {
		if n != "" {
			return true
		}
	}
	return false
}

// key renders a structural identity for the descriptor.
func (t Type) key() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(int(t.Kind)))
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatUint(uint64(t.Elem), 10))
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatUint(uint64(t.Rank), 10))
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatUint(uint64(t.Payload), 10))
	for _, a := range t.Args {
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatUint(uint64(a), 10))
	}
	for _, n := range t.Names {
		sb.WriteByte('|')
		sb.WriteString(n)
	}
	return sb.String()
}

// Intern ensures the provided descriptor has a stable TypeID.
func (m *Model) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := m.index[t.key()]; ok {
		return id
	}
	return m.internRaw(t)
}

func (m *Model) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(m.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	m.types = append(m.types, t)
	m.index[t.key()] = id
	return id
}

// Type returns the descriptor for a TypeID.
func (m *Model) Type(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(m.types) {
		return Type{}, false
	}
	return m.types[id], true
}

// MustType panics when id is invalid.
func (m *Model) MustType(id TypeID) Type {
	t, ok := m.Type(id)
	if !ok {
		panic("model: invalid TypeID")
	}
	return t
}

// KindOf returns the kind of id, KindInvalid for unknown ids.
func (m *Model) KindOf(id TypeID) Kind {
	t, _ := m.Type(id)
	return t.Kind
}

// Parameterized interns generic<args...>. An argument list made only of
// UnboundArg placeholders denotes the open definition itself.
func (m *Model) Parameterized(generic TypeID, args ...TypeID) TypeID {
	if len(args) > 0 && !slices.ContainsFunc(args, func(a TypeID) bool { return a != m.unbound }) {
		return generic
	}
	return m.Intern(MakeParameterized(generic, args...))
}

// ArrayOf interns elem[] with the given rank.
func (m *Model) ArrayOf(elem TypeID, rank uint32) TypeID {
	return m.Intern(MakeArray(elem, rank))
}

// PointerTo interns elem*.
func (m *Model) PointerTo(elem TypeID) TypeID {
	return m.Intern(MakePointer(elem))
}

// ByRefTo interns ref elem.
func (m *Model) ByRefTo(elem TypeID) TypeID {
	return m.Intern(MakeByRef(elem))
}

// TupleOf interns (elems...) with optional element names.
func (m *Model) TupleOf(elems []TypeID, names []string) TypeID {
	return m.Intern(MakeTuple(elems, names))
}

// Unknown returns the special type used when a reference cannot be decoded.
func (m *Model) Unknown() TypeID { return m.unknown }

// UnboundArg returns the placeholder used as argument of an unbound generic.
func (m *Model) UnboundArg() TypeID { return m.unbound }

// Elem returns the element type of array, pointer and by-ref types.
func (m *Model) Elem(id TypeID) TypeID {
	t, ok := m.Type(id)
	if !ok {
		return NoTypeID
	}
	switch t.Kind {
	case KindArray, KindPointer, KindByRef:
		return t.Elem
	default:
		return NoTypeID
	}
}

// GenericDefinition returns the definition a type refers to: itself for
// definitions, the generic definition for instantiations.
func (m *Model) GenericDefinition(id TypeID) TypeID {
	t, ok := m.Type(id)
	if !ok {
		return NoTypeID
	}
	switch t.Kind {
	case KindDefinition:
		return id
	case KindParameterized:
		return t.Elem
	default:
		return NoTypeID
	}
}

// TypeArguments returns the full argument list of a type reference.
// Unbound generic definitions report one UnboundArg per type parameter.
func (m *Model) TypeArguments(id TypeID) []TypeID {
	t, ok := m.Type(id)
	if !ok {
		return nil
	}
	switch t.Kind {
	case KindParameterized:
		return t.Args
	case KindDefinition:
		def := m.defs[t.Payload]
		if len(def.TypeParams) == 0 {
			return nil
		}
		args := make([]TypeID, len(def.TypeParams))
		for i := range args {
			args[i] = m.unbound
		}
		return args
	default:
		return nil
	}
}
