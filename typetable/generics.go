package typetable

import (
	"github.com/alchemy-lang/semantic/naming"
	"github.com/alchemy-lang/semantic/typeinfo"
)

// MakeGenericType returns the closed TypeInfo for openType<args...>,
// creating and caching it on first request. Concurrent callers requesting
// the same instantiation race to build a candidate but never race to
// publish one: the directory lookup under lock is the single decision
// point (spec §4.3 MakeGenericType).
func (t *Table) MakeGenericType(openType *typeinfo.TypeInfo, args []typeinfo.ResolvedType) *typeinfo.TypeInfo {
	argFqns := make([]string, len(args))
	for i, a := range args {
		argFqns[i] = a.Type.FullyQualifiedName
	}
	closedName := naming.MakeClosedGenericName(openType.FullyQualifiedName, argFqns)

	// Fast path: no lock. Safe because TryResolve only ever reads slots
	// that addInternal publishes with a single pointer write, and a stale
	// miss here is corrected by the locked reprobe below.
	if existing, ok := t.TryResolve(closedName); ok {
		return existing
	}

	substitution := make(map[*typeinfo.TypeInfo]typeinfo.ResolvedType, len(openType.GenericArguments))
	for i, argDef := range openType.GenericArguments {
		if i < len(args) {
			substitution[argDef] = args[i]
		}
	}

	flags := openType.Flags
	if allArgsConcrete(args) {
		flags = (flags &^ typeinfo.IsGenericTypeDefinition) | typeinfo.InstantiatedGeneric
	}
	candidate := &typeinfo.TypeInfo{
		Class:              openType.Class,
		Flags:              flags,
		Visibility:         openType.Visibility,
		FullyQualifiedName: closedName,
		DeclaringFile:      openType.DeclaringFile,
		SyntaxNode:         openType.SyntaxNode,
	}
	if ns, name, ok := naming.SplitTypeName(closedName); ok {
		candidate.TypeName = name
		_ = ns
	}

	candidate.GenericArguments = make([]*typeinfo.TypeInfo, len(args))
	for i, a := range args {
		candidate.GenericArguments[i] = a.Type
	}
	candidate.BaseTypes = substituteResolvedTypes(openType.BaseTypes, substitution, t)
	candidate.Fields = substituteFields(openType.Fields, candidate, substitution, t)
	candidate.Methods = substituteMethods(openType.Methods, candidate, substitution, t)
	candidate.Properties = substituteProperties(openType.Properties, candidate, substitution, t)
	candidate.Constructors = substituteConstructors(openType.Constructors, candidate, substitution, t)

	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.lookup(closedName); ok {
		return existing
	}
	t.addInternal(candidate)
	return candidate
}

// allArgsConcrete reports whether every supplied type argument is itself
// concrete, i.e. none is a generic-argument-definition placeholder. Only a
// fully concrete instantiation is IsGenericTypeDefinition→InstantiatedGeneric
// complete (spec §4.3 step 6); an instantiation built from a still-open
// argument (e.g. resolving Box<T>'s own List<T> field) stays a half-open
// generic type definition so GetConcreteTypes continues to exclude it.
func allArgsConcrete(args []typeinfo.ResolvedType) bool {
	for _, a := range args {
		if a.Type == nil || a.Type.Flags.Has(typeinfo.IsGenericArgumentDefinition) {
			return false
		}
	}
	return true
}

// recursiveResolveGenerics substitutes r according to substitution,
// recursing into r's own generic arguments when r.Type is itself an
// instantiated generic built from generic-argument placeholders that are
// themselves being substituted (e.g. resolving Box<T> inside Pair<T,U>'s
// member signatures). Types not mentioned in substitution pass through
// unchanged.
func recursiveResolveGenerics(r typeinfo.ResolvedType, substitution map[*typeinfo.TypeInfo]typeinfo.ResolvedType, t *Table) typeinfo.ResolvedType {
	if r.Type == nil {
		return r
	}
	if replacement, ok := substitution[r.Type]; ok {
		replacement.Flags |= r.Flags
		return replacement
	}
	if !r.Type.Flags.Has(typeinfo.IsGenericTypeDefinition) || len(r.Type.GenericArguments) == 0 {
		return r
	}

	needsSubstitution := false
	newArgs := make([]typeinfo.ResolvedType, len(r.Type.GenericArguments))
	for i, argDef := range r.Type.GenericArguments {
		resolved := typeinfo.ResolvedType{Type: argDef}
		substituted := recursiveResolveGenerics(resolved, substitution, t)
		if substituted.Type != argDef {
			needsSubstitution = true
		}
		newArgs[i] = substituted
	}
	if !needsSubstitution {
		return r
	}

	openBase := r.Type
	if def, ok := t.TryResolve(openGenericDefinitionName(openBase)); ok {
		openBase = def
	}
	newType := t.MakeGenericType(openBase, newArgs)
	return typeinfo.ResolvedType{Type: newType, Flags: r.Flags}
}

// openGenericDefinitionName recovers the open generic definition's FQN from
// a closed instantiation's FQN by discarding the "<...>" suffix, matching
// the truncation rule naming.MakeClosedGenericName applies in reverse.
func openGenericDefinitionName(closed *typeinfo.TypeInfo) string {
	fqn := closed.FullyQualifiedName
	for i := 0; i < len(fqn); i++ {
		if fqn[i] == '<' {
			return fqn[:i]
		}
	}
	return fqn
}

func substituteResolvedTypes(in []typeinfo.ResolvedType, sub map[*typeinfo.TypeInfo]typeinfo.ResolvedType, t *Table) []typeinfo.ResolvedType {
	if len(in) == 0 {
		return nil
	}
	out := make([]typeinfo.ResolvedType, len(in))
	for i, r := range in {
		out[i] = recursiveResolveGenerics(r, sub, t)
	}
	return out
}

func substituteParameters(in []*typeinfo.ParameterInfo, sub map[*typeinfo.TypeInfo]typeinfo.ResolvedType, t *Table) []*typeinfo.ParameterInfo {
	if len(in) == 0 {
		return nil
	}
	out := make([]*typeinfo.ParameterInfo, len(in))
	for i, p := range in {
		out[i] = &typeinfo.ParameterInfo{
			Type:      recursiveResolveGenerics(p.Type, sub, t),
			Name:      p.Name,
			Modifiers: p.Modifiers,
		}
	}
	return out
}

func substituteFields(in []*typeinfo.FieldInfo, owner *typeinfo.TypeInfo, sub map[*typeinfo.TypeInfo]typeinfo.ResolvedType, t *Table) []*typeinfo.FieldInfo {
	if len(in) == 0 {
		return nil
	}
	out := make([]*typeinfo.FieldInfo, len(in))
	for i, f := range in {
		out[i] = &typeinfo.FieldInfo{
			Type:          recursiveResolveGenerics(f.Type, sub, t),
			Name:          f.Name,
			DeclaringType: owner,
			Modifiers:     f.Modifiers,
			Visibility:    f.Visibility,
		}
	}
	return out
}

func substituteMethods(in []*typeinfo.MethodInfo, owner *typeinfo.TypeInfo, sub map[*typeinfo.TypeInfo]typeinfo.ResolvedType, t *Table) []*typeinfo.MethodInfo {
	if len(in) == 0 {
		return nil
	}
	out := make([]*typeinfo.MethodInfo, len(in))
	for i, m := range in {
		out[i] = &typeinfo.MethodInfo{
			DeclaringType:              owner,
			Name:                       m.Name,
			ReturnType:                 recursiveResolveGenerics(m.ReturnType, sub, t),
			Parameters:                 substituteParameters(m.Parameters, sub, t),
			Modifiers:                  m.Modifiers,
			Visibility:                 m.Visibility,
			IsDefaultParameterOverload: m.IsDefaultParameterOverload,
		}
	}
	return out
}

func substituteProperties(in []*typeinfo.PropertyInfo, owner *typeinfo.TypeInfo, sub map[*typeinfo.TypeInfo]typeinfo.ResolvedType, t *Table) []*typeinfo.PropertyInfo {
	if len(in) == 0 {
		return nil
	}
	out := make([]*typeinfo.PropertyInfo, len(in))
	for i, p := range in {
		out[i] = &typeinfo.PropertyInfo{
			DeclaringType: owner,
			Name:          p.Name,
			Type:          recursiveResolveGenerics(p.Type, sub, t),
			Visibility:    p.Visibility,
			HasGetter:     p.HasGetter,
			HasSetter:     p.HasSetter,
		}
	}
	return out
}

func substituteConstructors(in []*typeinfo.ConstructorInfo, owner *typeinfo.TypeInfo, sub map[*typeinfo.TypeInfo]typeinfo.ResolvedType, t *Table) []*typeinfo.ConstructorInfo {
	if len(in) == 0 {
		return nil
	}
	out := make([]*typeinfo.ConstructorInfo, len(in))
	for i, c := range in {
		out[i] = &typeinfo.ConstructorInfo{
			DeclaringType: owner,
			Parameters:    substituteParameters(c.Parameters, sub, t),
			Visibility:    c.Visibility,
		}
	}
	return out
}
