// Package naming builds the fully-qualified names that double as cache keys
// throughout the pipeline (spec §4.1). Every function here is pure and
// allocation-deterministic: multiple workers may compute and compare the
// same name concurrently, so there is no shared state to guard.
package naming

import (
	"strconv"
	"strings"
)

// GlobalNamespace is the namespace substituted for a file with no explicit
// `namespace` declaration.
const GlobalNamespace = "global"

// MakeFullyQualifiedName builds the canonical FQN for a user-declared type:
// `ns::name`, with `$arity` appended when genericArity > 0. An empty
// namespace is normalized to GlobalNamespace.
func MakeFullyQualifiedName(namespace, name string, genericArity int) string {
	if namespace == "" {
		namespace = GlobalNamespace
	}
	var b strings.Builder
	b.Grow(len(namespace) + len(name) + 8)
	b.WriteString(namespace)
	b.WriteString("::")
	b.WriteString(name)
	if genericArity > 0 {
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(genericArity))
	}
	return b.String()
}

// MakeGenericArgName builds the FQN for a generic-argument-definition
// TypeInfo: `<declaringFqn>_<argName>[<index>]` (spec §3 invariant 5).
func MakeGenericArgName(declaringFqn, argName string, index int) string {
	var b strings.Builder
	b.Grow(len(declaringFqn) + len(argName) + 8)
	b.WriteString(declaringFqn)
	b.WriteByte('_')
	b.WriteString(argName)
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(index))
	b.WriteByte(']')
	return b.String()
}

// MakeClosedGenericName builds the FQN of a closed (fully-instantiated)
// generic type: the open type's FQN truncated at its first '<' (or used in
// full if it has none), followed by `<argFqn1,...,argFqnN>`.
func MakeClosedGenericName(openFqn string, argFqns []string) string {
	base := openFqn
	if idx := strings.IndexByte(openFqn, '<'); idx >= 0 {
		base = openFqn[:idx]
	}
	var b strings.Builder
	b.Grow(len(base) + 2 + len(argFqns)*8)
	b.WriteString(base)
	b.WriteByte('<')
	for i, arg := range argFqns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(arg)
	}
	b.WriteByte('>')
	return b.String()
}

// SplitTypeName splits fqn at its first "::" into the part before it and
// the part after it, the typeName of spec §3 invariant 4. ok is false if
// fqn does not contain the "::" separator (which should never happen for a
// well-formed FQN produced by MakeFullyQualifiedName).
func SplitTypeName(fqn string) (namespace, typeName string, ok bool) {
	idx := strings.Index(fqn, "::")
	if idx < 0 {
		return "", "", false
	}
	return fqn[:idx], fqn[idx+2:], true
}
