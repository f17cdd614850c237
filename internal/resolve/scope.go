package resolve

import (
	"slices"
	"strings"

	"projector/internal/model"
)

// Alias binds a using-alias name to its target.
type Alias struct {
	Name   string
	Target Result
}

// Local is a variable visible in expression context.
type Local struct {
	Name string
	Type model.TypeID
}

// Frame is one level of the scope chain: a namespace body (or the
// compilation unit when Namespace is "" and the frame is outermost) with its
// using directives, plus any locals introduced at that level.
type Frame struct {
	Namespace string
	Usings    []string
	Aliases   []Alias
	Locals    []Local
}

// Alias returns the binding for name declared in this frame.
func (f Frame) Alias(name string) (Result, bool) {
	for _, a := range f.Aliases {
		if a.Name == name {
			return a.Target, true
		}
	}
	return Result{}, false
}

// Chain is an immutable scope chain. The zero value is the empty chain.
type Chain struct {
	frames []Frame // outermost first
}

// NewChain builds a chain from frames given outermost first.
func NewChain(frames ...Frame) Chain {
	return Chain{frames: slices.Clone(frames)}
}

// Push returns a chain with f as the new innermost frame. The receiver is
// not modified.
func (c Chain) Push(f Frame) Chain {
	frames := make([]Frame, len(c.frames), len(c.frames)+1)
	copy(frames, c.frames)
	return Chain{frames: append(frames, f)}
}

// Len returns the number of frames.
func (c Chain) Len() int { return len(c.frames) }

// Frame returns a copy of the i-th frame counting from the innermost (0).
// Changing the copy does not affect the chain.
func (c Chain) Frame(i int) Frame {
	f := *c.frame(i)
	f.Usings = slices.Clone(f.Usings)
	f.Aliases = slices.Clone(f.Aliases)
	f.Locals = slices.Clone(f.Locals)
	return f
}

// frame is the shared, read-only view used by lookups.
func (c Chain) frame(i int) *Frame {
	return &c.frames[len(c.frames)-1-i]
}

// Innermost returns a copy of the innermost frame; ok is false for the
// empty chain.
func (c Chain) Innermost() (Frame, bool) {
	if len(c.frames) == 0 {
		return Frame{}, false
	}
	return c.Frame(0), true
}

// Namespace returns the namespace of the innermost frame.
func (c Chain) Namespace() string {
	if len(c.frames) == 0 {
		return ""
	}
	return c.frame(0).Namespace
}

// ForNamespace builds the chain seen inside `namespace ns { ... }` of a
// compilation unit with the given usings and aliases: a global frame
// followed by one frame per namespace segment.
func ForNamespace(ns string, usings []string, aliases []Alias) Chain {
	frames := []Frame{{Namespace: "", Usings: slices.Clone(usings), Aliases: slices.Clone(aliases)}}
	if ns != "" {
		parts := strings.Split(ns, ".")
		for i := range parts {
			frames = append(frames, Frame{Namespace: strings.Join(parts[:i+1], ".")})
		}
	}
	return Chain{frames: frames}
}
