package pipeline

import (
	"fmt"

	"github.com/alchemy-lang/semantic/diagnostics"
	"github.com/alchemy-lang/semantic/resolver"
	"github.com/alchemy-lang/semantic/sourcefile"
	"github.com/alchemy-lang/semantic/syntax"
	"github.com/alchemy-lang/semantic/typeinfo"
	"github.com/alchemy-lang/semantic/typetable"
)

// BaseJob is phase 2: for every type this file declared, resolve its base
// list against the now-fully-populated Table and validate base-type
// placement rules (spec §4.6). Cross-file cycle detection happens once,
// after every file's BaseJob has run (detectCycles, called from
// JobRunner.Run), since a
// cycle can span files.
type BaseJob struct {
	Table *typetable.Table
}

// Run executes Base for one file.
func (j *BaseJob) Run(f *sourcefile.SourceFile) {
	for _, ti := range f.DeclaredTypes() {
		decl, ok := ti.SyntaxNode.(*syntax.TypeDeclSyntax)
		if !ok {
			continue
		}
		j.resolveBaseList(f, ti, decl)
	}
}

func (j *BaseJob) resolveBaseList(f *sourcefile.SourceFile, ti *typeinfo.TypeInfo, decl *syntax.TypeDeclSyntax) {
	r := resolver.New(j.Table, f.Path(), f.Namespace(), f.Usings(), f.Sink())

	validateGenericArgumentNames(f, r, decl.TypeParams)

	if len(ti.GenericArguments) > 0 {
		r.PushGenericScope(ti.GenericArguments)
		defer r.PopGenericScope()
	}

	seen := make(map[*typeinfo.TypeInfo]bool, len(decl.BaseList))
	for i, baseSyntax := range decl.BaseList {
		resolved, ok := r.TryResolveType(baseSyntax)
		if !ok {
			continue
		}

		span := toDiagSpan(syntax.NodeSpan(baseSyntax))
		if resolved.Flags.Has(typeinfo.IsRef) {
			f.Sink().Report(diagnostics.ErrBaseTypeCannotBeRef, span, "")
			continue
		}
		if resolved.Flags.Has(typeinfo.RFIsNullable) {
			f.Sink().Report(diagnostics.ErrBaseTypeCannotBeNullable, span, "")
			continue
		}
		if resolved.Flags.Has(typeinfo.IsTuple) {
			f.Sink().Report(diagnostics.ErrBaseTypeCannotBeTuple, span, "")
			continue
		}

		base := resolved.Type
		if base == ti {
			f.Sink().Report(diagnostics.ErrCannotInheritRecursively, span, base.FullyQualifiedName)
			continue
		}
		if seen[base] {
			f.Sink().Report(diagnostics.ErrBaseTypeAppearsMultipleTimes, span, base.FullyQualifiedName)
			continue
		}
		seen[base] = true

		switch base.Class {
		case typeinfo.ClassClass:
			if ti.Class == typeinfo.ClassStruct {
				f.Sink().Report(diagnostics.ErrStructsCanOnlyInheritInterfaces, span, "")
				continue
			}
			if i != 0 {
				f.Sink().Report(diagnostics.ErrOnlyFirstBaseTypeCanBeClass, span, "")
				continue
			}
			if base.Flags.Has(typeinfo.Sealed) {
				f.Sink().Report(diagnostics.ErrCannotInheritASealedType, span, base.FullyQualifiedName)
				continue
			}
		case typeinfo.ClassInterface:
			// An interface may occupy position 0 (no class base) or any
			// position after the class base at position 0.
		default:
			f.Sink().Report(diagnostics.ErrBaseTypeInNonZeroPositionMustBeAnInterface, span, fmt.Sprintf("%s cannot be used as a base type", base.FullyQualifiedName))
			continue
		}

		ti.BaseTypes = append(ti.BaseTypes, resolved)
	}
}

// validateGenericArgumentNames rejects a type parameter named after a type
// that already exists in scope (spec §4.6 step 2): the probe runs before
// the declaration's own generic-argument-definition TypeInfos become
// resolvable, and it runs suppressed because a miss (the overwhelmingly
// common case) is not itself worth a diagnostic.
func validateGenericArgumentNames(f *sourcefile.SourceFile, r *resolver.Resolver, typeParams []*syntax.TypeParamSyntax) {
	for _, tp := range typeParams {
		var hit bool
		f.Sink().Suppress(func() {
			_, ok := r.TryResolveIdentifier(tp.Name, tp.Span)
			hit = ok
		})
		if hit {
			f.Sink().Report(diagnostics.ErrTypeArgumentShouldNotBeAnExistingTypeName, toDiagSpan(tp.Span), tp.Name)
		}
	}
}
