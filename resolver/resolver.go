// Package resolver implements per-file type-reference resolution (spec
// §4.4): turning a TypeSyntax node into a ResolvedType by consulting the
// enclosing namespace, the file's using directives, and a scope stack of
// in-flight generic-argument definitions. One Resolver belongs to exactly
// one file and is never shared across goroutines, the same ownership
// discipline diagnostics.Sink uses.
package resolver

import (
	"fmt"

	"github.com/alchemy-lang/semantic/diagnostics"
	"github.com/alchemy-lang/semantic/naming"
	"github.com/alchemy-lang/semantic/syntax"
	"github.com/alchemy-lang/semantic/token"
	"github.com/alchemy-lang/semantic/typeinfo"
	"github.com/alchemy-lang/semantic/typetable"
)

// builtInNamespace is the pseudo-namespace every file can reach without an
// explicit using directive, so that `Array<T>` resolves regardless of what
// the file imports (spec §4.4).
const builtInNamespace = "BuiltIn"

var predefinedBuiltIns = map[token.Kind]typeinfo.BuiltInTypeName{
	token.IntKeyword:     typeinfo.Int,
	token.Int2Keyword:    typeinfo.Int2,
	token.Int3Keyword:    typeinfo.Int3,
	token.Int4Keyword:    typeinfo.Int4,
	token.UIntKeyword:    typeinfo.Uint,
	token.Uint2Keyword:   typeinfo.Uint2,
	token.Uint3Keyword:   typeinfo.Uint3,
	token.Uint4Keyword:   typeinfo.Uint4,
	token.FloatKeyword:   typeinfo.Float,
	token.Float2Keyword:  typeinfo.Float2,
	token.Float3Keyword:  typeinfo.Float3,
	token.Float4Keyword:  typeinfo.Float4,
	token.BoolKeyword:    typeinfo.Bool,
	token.CharKeyword:    typeinfo.Char,
	token.ColorKeyword:   typeinfo.Color,
	token.Color32Keyword: typeinfo.Color32,
	token.Color64Keyword: typeinfo.Color64,
	token.ByteKeyword:    typeinfo.Byte,
	token.SByteKeyword:   typeinfo.Sbyte,
	token.ShortKeyword:   typeinfo.Short,
	token.UShortKeyword:  typeinfo.Ushort,
	token.LongKeyword:    typeinfo.Long,
	token.ULongKeyword:   typeinfo.Ulong,
	token.DynamicKeyword: typeinfo.Dynamic,
	token.StringKeyword:  typeinfo.String,
	token.ObjectKeyword:  typeinfo.Object,
	token.DoubleKeyword:  typeinfo.Double,
	token.VoidKeyword:    typeinfo.Void,
}

// Resolver resolves TypeSyntax nodes against a shared Table on behalf of
// one file.
type Resolver struct {
	table     *typetable.Table
	file      string
	namespace string
	usings    []string
	sink      *diagnostics.Sink

	// scopes is a stack of generic-argument-definition scopes, innermost
	// last, pushed by BaseJob/MemberJob while resolving the signatures of
	// a generic declaration (spec §4.4 inputGenericArguments).
	scopes [][]*typeinfo.TypeInfo
}

// New creates a Resolver for one file.
func New(table *typetable.Table, file, namespace string, usings []string, sink *diagnostics.Sink) *Resolver {
	return &Resolver{table: table, file: file, namespace: namespace, usings: usings, sink: sink}
}

// PushGenericScope makes the given generic-argument-definition TypeInfos
// resolvable by name for the duration of the matching PopGenericScope.
func (r *Resolver) PushGenericScope(args []*typeinfo.TypeInfo) {
	r.scopes = append(r.scopes, args)
}

// PopGenericScope removes the most recently pushed generic scope.
func (r *Resolver) PopGenericScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// TryResolveType resolves any TypeSyntax node, dispatching on its concrete
// kind (spec §4.4). It reports a diagnostic and returns typeinfo.Unresolved
// on failure rather than an error, continuing the Diagnostics-as-data
// pattern used throughout the pipeline (spec §7).
func (r *Resolver) TryResolveType(ts syntax.TypeSyntax) (typeinfo.ResolvedType, bool) {
	switch n := ts.(type) {
	case *syntax.PredefinedTypeSyntax:
		return r.resolvePredefined(n)
	case *syntax.IdentifierNameSyntax:
		return r.TryResolveIdentifier(n.Name, n.Span)
	case *syntax.GenericNameSyntax:
		return r.TryResolveGenericName(n)
	case *syntax.NullableTypeSyntax:
		elem, ok := r.TryResolveType(n.Element)
		if !ok {
			return typeinfo.Unresolved, false
		}
		elem.Flags |= typeinfo.RFIsNullable
		return elem, true
	case *syntax.RefTypeSyntax:
		elem, ok := r.TryResolveType(n.Element)
		if !ok {
			return typeinfo.Unresolved, false
		}
		elem.Flags |= typeinfo.IsRef
		return elem, true
	case *syntax.TupleTypeSyntax, *syntax.QualifiedNameSyntax:
		span := syntax.NodeSpan(ts)
		r.sink.Report(diagnostics.ErrNotImplemented, toDiagSpan(span), "tuple and qualified type references are not yet supported")
		return typeinfo.Unresolved, false
	default:
		span := syntax.NodeSpan(ts)
		r.sink.Report(diagnostics.ErrNotImplemented, toDiagSpan(span), fmt.Sprintf("unrecognized type syntax %T", ts))
		return typeinfo.Unresolved, false
	}
}

func (r *Resolver) resolvePredefined(n *syntax.PredefinedTypeSyntax) (typeinfo.ResolvedType, bool) {
	builtin, ok := predefinedBuiltIns[n.Keyword]
	if !ok {
		r.sink.Report(diagnostics.ErrUnresolvedType, toDiagSpan(n.Span), "unrecognized predefined type keyword")
		return typeinfo.Unresolved, false
	}
	ti := r.table.BuiltIns[builtin]
	flags := typeinfo.ResolvedFlags(0)
	if builtin == typeinfo.Void {
		flags |= typeinfo.IsVoid
	}
	return typeinfo.ResolvedType{Type: ti, Flags: flags}, true
}

// TryResolveIdentifier resolves a bare simple name: first against any
// generic-argument definition in scope, then by probing the directory
// under the enclosing namespace, each using directive, the global
// namespace, and finally the built-in pseudo-namespace, in that order
// (spec §4.4). Every candidate is probed; a name that matches distinct
// types in two of them is reported as ambiguous and not resolved.
func (r *Resolver) TryResolveIdentifier(name string, span syntax.Span) (typeinfo.ResolvedType, bool) {
	if argDef, ok := r.lookupGenericScope(name); ok {
		return typeinfo.ResolvedType{Type: argDef}, true
	}

	ti, ok := r.resolveByName(name, 0, span)
	if !ok {
		return typeinfo.Unresolved, false
	}
	return typeinfo.ResolvedType{Type: ti}, true
}

// TryResolveGenericName resolves a generic base name plus its type
// arguments, then asks the directory for (or to build) the closed
// instantiation (spec §4.4).
func (r *Resolver) TryResolveGenericName(n *syntax.GenericNameSyntax) (typeinfo.ResolvedType, bool) {
	openType, ok := r.resolveByName(n.Name, len(n.Args), n.Span)
	if !ok {
		return typeinfo.Unresolved, false
	}

	args := make([]typeinfo.ResolvedType, len(n.Args))
	allResolved := true
	for i, argSyntax := range n.Args {
		resolved, ok := r.TryResolveType(argSyntax)
		if !ok {
			allResolved = false
			continue
		}
		args[i] = resolved
	}
	if !allResolved {
		return typeinfo.Unresolved, false
	}

	closed := r.table.MakeGenericType(openType, args)
	return typeinfo.ResolvedType{Type: closed}, true
}

// resolveByName probes the directory for a user-declared or built-in type
// named name with the given generic arity, across the namespace search
// order described on TryResolveIdentifier.
func (r *Resolver) resolveByName(name string, arity int, span syntax.Span) (*typeinfo.TypeInfo, bool) {
	candidates := r.candidateNamespaces()

	var found *typeinfo.TypeInfo
	for _, ns := range candidates {
		fqn := naming.MakeFullyQualifiedName(ns, name, arity)
		ti, ok := r.table.TryResolve(fqn)
		if !ok {
			continue
		}
		if found != nil && found != ti {
			r.sink.Report(diagnostics.ErrAmbiguousTypeMatch, toDiagSpan(span),
				fmt.Sprintf("%q matches both %s and %s", name, found.FullyQualifiedName, ti.FullyQualifiedName))
			return nil, false
		}
		found = ti
	}

	if found == nil {
		r.sink.Report(diagnostics.ErrUnresolvedType, toDiagSpan(span), fmt.Sprintf("could not resolve type %q", name))
		return nil, false
	}
	return found, true
}

// candidateNamespaces returns the namespaces searched for an identifier, in
// priority order, deduplicated.
func (r *Resolver) candidateNamespaces() []string {
	seen := make(map[string]bool, len(r.usings)+3)
	var out []string
	add := func(ns string) {
		if ns == "" {
			ns = naming.GlobalNamespace
		}
		if seen[ns] {
			return
		}
		seen[ns] = true
		out = append(out, ns)
	}

	add(r.namespace)
	for _, u := range r.usings {
		add(u)
	}
	add(naming.GlobalNamespace)
	add(builtInNamespace)
	return out
}

func (r *Resolver) lookupGenericScope(name string) (*typeinfo.TypeInfo, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		scope := r.scopes[i]
		for _, argDef := range scope {
			if argDefName(argDef) == name {
				return argDef, true
			}
		}
	}
	return nil, false
}

// argDefName recovers a generic-argument definition's simple name from its
// FQN suffix `_<name>[<index>]`, the inverse of naming.MakeGenericArgName.
func argDefName(argDef *typeinfo.TypeInfo) string {
	fqn := argDef.FullyQualifiedName
	open := -1
	for i := len(fqn) - 1; i >= 0; i-- {
		if fqn[i] == '[' {
			open = i
			break
		}
	}
	if open < 0 {
		return argDef.TypeName
	}
	underscoreBeforeBracket := -1
	for i := open - 1; i >= 0; i-- {
		if fqn[i] == '_' {
			underscoreBeforeBracket = i
			break
		}
	}
	if underscoreBeforeBracket < 0 {
		return argDef.TypeName
	}
	return fqn[underscoreBeforeBracket+1 : open]
}

func toDiagSpan(s syntax.Span) diagnostics.Span {
	return diagnostics.Span{Line: s.Line, Column: s.Column, Length: s.Length}
}
