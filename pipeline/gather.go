// Package pipeline runs the three-phase Gather/Base/Member pipeline over a
// set of source files (spec §4.5, §4.6, §4.7, §5). Each phase fans out one
// goroutine per file via errgroup.Group, the same fork-join shape the
// teacher corpus's scanner.Scanner.parseFiles uses for concurrent file
// parsing, and a hard barrier (the errgroup's Wait) separates each phase
// from the next so Base never reads a TypeTable entry Gather hasn't
// finished writing for any file.
package pipeline

import (
	"github.com/alchemy-lang/semantic/diagnostics"
	"github.com/alchemy-lang/semantic/naming"
	"github.com/alchemy-lang/semantic/sourcefile"
	"github.com/alchemy-lang/semantic/syntax"
	"github.com/alchemy-lang/semantic/token"
	"github.com/alchemy-lang/semantic/typeinfo"
	"github.com/alchemy-lang/semantic/typetable"
)

func declKindToClass(k syntax.DeclKind) typeinfo.Class {
	switch k {
	case syntax.ClassDecl:
		return typeinfo.ClassClass
	case syntax.StructDecl:
		return typeinfo.ClassStruct
	case syntax.InterfaceDecl:
		return typeinfo.ClassInterface
	case syntax.EnumDecl:
		return typeinfo.ClassEnum
	case syntax.DelegateDecl:
		return typeinfo.ClassDelegate
	case syntax.WidgetDecl:
		return typeinfo.ClassWidget
	default:
		return typeinfo.ClassUnresolved
	}
}

// GatherJob is phase 1: per file, determine the namespace and using
// directives, then register a skeletal TypeInfo for every top-level
// declaration (and its generic-argument-definition placeholders) in the
// shared Table (spec §4.5). Gather is the only phase that writes to Table
// directly, so it is where AddLocked's duplicate-FQN return value turns
// into a diagnostic.
type GatherJob struct {
	Table *typetable.Table
}

// Run executes Gather for one file: a single ordered pass over the file's
// top-level members, the same shape the upstream front-end's flat member
// array walk uses, since namespace placement and using/declaration
// ordering are only checkable while that order is still visible (spec
// §4.5).
func (j *GatherJob) Run(f *sourcefile.SourceFile) {
	tree := f.Tree()
	j.gatherMembers(f, tree)
}

func (j *GatherJob) gatherMembers(f *sourcefile.SourceFile, tree *syntax.Tree) {
	f.SetNamespace(naming.GlobalNamespace)
	haveNamespace := false
	usingCount := 0
	declCount := 0
	seenUsing := make(map[string]bool)

	for _, member := range tree.Members {
		switch m := member.(type) {
		case *syntax.NamespaceSyntax:
			if usingCount != 0 || declCount != 0 {
				f.Sink().Report(diagnostics.ErrNamespaceMustComeBeforeUsingsAndDeclarations, toDiagSpan(m.Span), "")
				continue
			}
			if haveNamespace {
				f.Sink().Report(diagnostics.ErrMulitpleNamespaces, toDiagSpan(m.Span), "")
				continue
			}
			f.SetNamespace(m.Name)
			haveNamespace = true

		case *syntax.UsingSyntax:
			if declCount != 0 {
				f.Sink().Report(diagnostics.ErrUsingsMustComeBeforeDeclarations, toDiagSpan(m.Span), "")
			}
			usingCount++
			if seenUsing[m.Name] {
				f.Sink().Report(diagnostics.ErrDuplicateUsingDirective, toDiagSpan(m.Span), m.Name)
				continue
			}
			seenUsing[m.Name] = true
			f.AddUsing(m.Name)

		case *syntax.TypeDeclSyntax:
			declCount++
			j.gatherDecl(f, m)
		}
	}
}

func (j *GatherJob) gatherDecl(f *sourcefile.SourceFile, decl *syntax.TypeDeclSyntax) {
	fqn := naming.MakeFullyQualifiedName(f.Namespace(), decl.Name, len(decl.TypeParams))
	ti := &typeinfo.TypeInfo{
		Class:              declKindToClass(decl.Kind),
		Visibility:         visibilityFromModifiers(f, decl.Modifiers),
		FullyQualifiedName: fqn,
		DeclaringFile:      f,
		SyntaxNode:         decl,
	}
	ti.TypeName = decl.Name
	applyClassFlags(f, ti, decl.Modifiers)

	if len(decl.TypeParams) > 0 {
		ti.Flags |= typeinfo.IsGenericTypeDefinition
		ti.GenericArguments = make([]*typeinfo.TypeInfo, len(decl.TypeParams))
		for i, tp := range decl.TypeParams {
			argFqn := naming.MakeGenericArgName(fqn, tp.Name, i)
			argDef := &typeinfo.TypeInfo{
				Class:              typeinfo.ClassGenericArgument,
				Flags:              typeinfo.IsGenericArgumentDefinition,
				Visibility:         typeinfo.Public,
				FullyQualifiedName: argFqn,
				TypeName:           tp.Name,
				DeclaringFile:      f,
			}
			ti.GenericArguments[i] = argDef
			if !j.Table.AddLocked(argDef) {
				f.Sink().Report(diagnostics.ErrDuplicateIdentifierInScope, toDiagSpan(tp.Span), tp.Name)
			}
		}
	}

	if !j.Table.AddLocked(ti) {
		f.Sink().Report(diagnostics.ErrDuplicateIdentifierInScope, toDiagSpan(decl.Span), decl.Name)
		return
	}
	f.AddDeclaredType(ti)
}

func visibilityFromModifiers(f *sourcefile.SourceFile, mods []syntax.ModifierToken) typeinfo.Visibility {
	result := typeinfo.Internal
	seen := false
	for _, m := range mods {
		var v typeinfo.Visibility
		switch m.Kind {
		case token.PublicKeyword:
			v = typeinfo.Public
		case token.PrivateKeyword:
			v = typeinfo.Private
		case token.InternalKeyword:
			v = typeinfo.Internal
		case token.ExportKeyword:
			v = typeinfo.Export
		default:
			continue
		}
		if seen {
			f.Sink().Report(diagnostics.ErrMulitpleVisibiltyDeclarations, toDiagSpan(m.Span), "")
			continue
		}
		seen = true
		result = v
	}
	return result
}

func applyClassFlags(f *sourcefile.SourceFile, ti *typeinfo.TypeInfo, mods []syntax.ModifierToken) {
	for _, m := range mods {
		switch m.Kind {
		case token.SealedKeyword:
			ti.Flags |= typeinfo.Sealed
		case token.AbstractKeyword:
			ti.Flags |= typeinfo.Abstract
		case token.RefKeyword:
			f.Sink().Report(diagnostics.ErrTypeCannotBeRef, toDiagSpan(m.Span), "")
		case token.ProtectedKeyword:
			f.Sink().Report(diagnostics.ErrTypeCannotBeProtected, toDiagSpan(m.Span), "")
		}
	}
}

func toDiagSpan(s syntax.Span) diagnostics.Span {
	return diagnostics.Span{Line: s.Line, Column: s.Column, Length: s.Length}
}
