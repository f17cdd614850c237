package resolve

import (
	"slices"

	"projector/internal/model"
)

// LookupSimpleName resolves an unqualified identifier with optional type
// arguments, walking locals, type parameters, enclosing types and then the
// namespace frames innermost first.
func (c Context) LookupSimpleName(name string, args []model.TypeID, mode Mode) Result {
	if len(args) == 0 && mode == ModeExpression {
		for i := 0; i < c.chain.Len(); i++ {
			locals := c.chain.frame(i).Locals
			for j := len(locals) - 1; j >= 0; j-- {
				if locals[j].Name == name {
					return Result{Kind: KindVariable, Name: name, Type: locals[j].Type}
				}
			}
		}
	}

	if len(args) == 0 && c.member.IsValid() {
		if e, ok := c.m.Entity(c.member); ok {
			for _, tp := range e.TypeParams {
				if p, ok := c.m.TypeParam(tp); ok && p.Name == name {
					return TypeResult(tp)
				}
			}
		}
	}

	if r, ok := c.lookupInTypes(name, args, mode); ok {
		return r
	}

	for i := 0; i < c.chain.Len(); i++ {
		f := c.chain.frame(i)
		if r, ok := c.lookupInNamespace(f.Namespace, name, args); ok {
			return r
		}
		if mode == ModeTypeInUsingDeclaration && i == 0 {
			continue
		}
		if len(args) == 0 {
			if target, ok := f.Alias(name); ok {
				return target
			}
		}
		if r, ok := c.lookupImported(f.Usings, name, args); ok {
			return r
		}
	}
	return UnknownResult(name)
}

// lookupInTypes searches the current type and its declaring types. Inside a
// nested type the outer type parameters are visible through the nested
// type's own copies, so those copies bind both type-parameter names and the
// implicit outer arguments of nested type references.
func (c Context) lookupInTypes(name string, args []model.TypeID, mode Mode) (Result, bool) {
	inner, ok := c.m.Definition(c.typ)
	if !ok {
		return Result{}, false
	}
	visible := inner.TypeParams
	if len(args) == 0 {
		for i := len(visible) - 1; i >= 0; i-- {
			if p, ok := c.m.TypeParam(visible[i]); ok && p.Name == name {
				return TypeResult(visible[i]), true
			}
		}
	}

	start := c.typ
	if mode == ModeBaseTypeReference {
		start = inner.DeclaringType
	}
	for t := start; t.IsValid(); {
		def, ok := c.m.Definition(t)
		if !ok {
			break
		}
		outerArgs := visible[:min(len(def.TypeParams), len(visible))]
		if r, ok := c.nestedIn(t, outerArgs, name, args); ok {
			return r, true
		}
		if mode == ModeExpression && len(args) == 0 {
			if r, ok := c.memberIn(t, name); ok {
				return r, true
			}
		}
		t = def.DeclaringType
	}
	return Result{}, false
}

// nestedIn finds a nested type of container (or of its base classes).
// containerArgs are the arguments the container is seen with.
func (c Context) nestedIn(container model.TypeID, containerArgs []model.TypeID, name string, args []model.TypeID) (Result, bool) {
	seen := make(map[model.TypeID]bool)
	for cur, curArgs := container, containerArgs; cur.IsValid() && !seen[cur]; {
		seen[cur] = true
		if nested, ok := c.m.FindNestedType(cur, name, len(args)); ok {
			all := append(slices.Clone(curArgs), args...)
			if len(all) == 0 {
				return TypeResult(nested), true
			}
			return TypeResult(c.m.Parameterized(nested, all...)), true
		}
		base := c.baseClass(cur)
		if !base.IsValid() {
			break
		}
		cur = c.m.GenericDefinition(base)
		curArgs = c.m.TypeArguments(base)
		if c.m.KindOf(base) == model.KindDefinition {
			curArgs = nil
		}
	}
	return Result{}, false
}

// baseClass returns the first base type that is a class, NoTypeID if none.
func (c Context) baseClass(t model.TypeID) model.TypeID {
	def, ok := c.m.DefinitionOf(t)
	if !ok {
		return model.NoTypeID
	}
	for _, b := range def.BaseTypes {
		if bd, ok := c.m.DefinitionOf(b); ok && bd.Kind == model.DefClass {
			return b
		}
	}
	return model.NoTypeID
}

// memberIn finds a non-type member named name in t or its base classes.
func (c Context) memberIn(t model.TypeID, name string) (Result, bool) {
	seen := make(map[model.TypeID]bool)
	for cur := t; cur.IsValid() && !seen[cur]; cur = c.m.GenericDefinition(c.baseClass(cur)) {
		seen[cur] = true
		def, ok := c.m.DefinitionOf(cur)
		if !ok {
			break
		}
		for _, id := range def.Members {
			e, ok := c.m.Entity(id)
			if !ok || e.Name != name {
				continue
			}
			switch e.Kind {
			case model.EntityField:
				if e.HasConstant {
					return Result{Kind: KindConstant, Entity: id, Type: e.ReturnType, Value: e.Constant, Name: name}, true
				}
				return Result{Kind: KindMember, Entity: id, Type: e.ReturnType, Name: name}, true
			case model.EntityProperty, model.EntityEvent, model.EntityMethod:
				return Result{Kind: KindMember, Entity: id, Type: c.MemberType(id), Name: name}, true
			}
		}
	}
	return Result{}, false
}

// lookupInNamespace finds a type or child namespace declared directly in ns.
func (c Context) lookupInNamespace(ns, name string, args []model.TypeID) (Result, bool) {
	if t, ok := c.m.FindType(ns, name, len(args)); ok {
		if len(args) > 0 {
			return TypeResult(c.m.Parameterized(t, args...)), true
		}
		return TypeResult(t), true
	}
	if len(args) == 0 && c.m.HasChildNamespace(ns, name) {
		return NamespaceResult(qualify(ns, name)), true
	}
	return Result{}, false
}

// lookupImported searches the namespaces imported by using directives.
// Two distinct hits make the name ambiguous.
func (c Context) lookupImported(usings []string, name string, args []model.TypeID) (Result, bool) {
	var hits []Result
	for _, u := range usings {
		t, ok := c.m.FindType(u, name, len(args))
		if !ok {
			continue
		}
		r := TypeResult(t)
		if len(args) > 0 {
			r = TypeResult(c.m.Parameterized(t, args...))
		}
		if !slices.ContainsFunc(hits, func(h Result) bool { return h.Type == r.Type }) {
			hits = append(hits, r)
		}
	}
	switch len(hits) {
	case 0:
		return Result{}, false
	case 1:
		return hits[0], true
	default:
		return Result{Kind: KindAmbiguous, Name: name, Candidates: hits}, true
	}
}

// LookupMember resolves name inside a namespace or type result.
func (c Context) LookupMember(parent Result, name string, args []model.TypeID, mode Mode) Result {
	switch parent.Kind {
	case KindNamespace:
		if r, ok := c.lookupInNamespace(parent.Namespace, name, args); ok {
			return r
		}
	case KindType:
		if _, ok := c.m.DefinitionOf(parent.Type); !ok {
			break
		}
		var parentArgs []model.TypeID
		if c.m.KindOf(parent.Type) == model.KindParameterized {
			parentArgs = c.m.TypeArguments(parent.Type)
		}
		if r, ok := c.nestedIn(c.m.GenericDefinition(parent.Type), parentArgs, name, args); ok {
			return r
		}
		if mode == ModeExpression && len(args) == 0 {
			if r, ok := c.memberIn(parent.Type, name); ok {
				return r
			}
		}
	}
	return UnknownResult(name)
}

// LookupAlias resolves the left side of an alias-qualified name (a::b).
// "global" denotes the root namespace.
func (c Context) LookupAlias(name string) Result {
	if name == "global" {
		return NamespaceResult("")
	}
	for i := 0; i < c.chain.Len(); i++ {
		if target, ok := c.chain.frame(i).Alias(name); ok && target.Kind == KindNamespace {
			return target
		}
	}
	return UnknownResult(name)
}

// ResolveNamespace resolves a dotted namespace name from the root.
func (c Context) ResolveNamespace(ns string) Result {
	if c.m.NamespaceExists(ns) {
		return NamespaceResult(ns)
	}
	return UnknownResult(ns)
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}
