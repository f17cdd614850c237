package config

import (
	"slices"
	"strconv"
	"strings"

	"projector/internal/model"
)

// FindTypeByName looks up a definition by its metadata full name:
// "Ns.Name", "Ns.Name`2" for generics and "Ns.Outer+Inner" for nested
// types.
func FindTypeByName(m *model.Model, full string) (model.TypeID, bool) {
	full = strings.TrimSpace(full)
	if full == "" {
		return model.NoTypeID, false
	}
	parts := strings.Split(full, "+")
	ns, first := "", parts[0]
	if dot := strings.LastIndexByte(first, '.'); dot >= 0 {
		ns, first = first[:dot], first[dot+1:]
	}
	name, arity, ok := splitArity(first)
	if !ok {
		return model.NoTypeID, false
	}
	cur, found := m.FindType(ns, name, arity)
	if !found {
		return model.NoTypeID, false
	}
	for _, p := range parts[1:] {
		name, arity, ok := splitArity(p)
		if !ok {
			return model.NoTypeID, false
		}
		// Nested arity counts only the parameters the nested type adds.
		next, found := m.FindNestedType(cur, name, arity)
		if !found {
			return model.NoTypeID, false
		}
		cur = next
	}
	return cur, true
}

func splitArity(s string) (string, int, bool) {
	name, count, has := strings.Cut(s, "`")
	if name == "" {
		return "", 0, false
	}
	if !has {
		return name, 0, true
	}
	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		return "", 0, false
	}
	return name, n, true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
